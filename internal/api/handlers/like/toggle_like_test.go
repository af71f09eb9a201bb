package like

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NutriForum/internal/api/middleware"
	"NutriForum/internal/core/likes"
	"NutriForum/internal/core/posts"
)

type fakeLikeService struct {
	toggleFn func(ctx context.Context, username string, postID int64, snapshot *posts.Post) (*likes.ToggleOutcome, error)
}

func (f *fakeLikeService) Toggle(ctx context.Context, username string, postID int64, snapshot *posts.Post) (*likes.ToggleOutcome, error) {
	return f.toggleFn(ctx, username, postID, snapshot)
}

func newLikeRouter(svc likes.Service, username string) *chi.Mux {
	handler := NewToggleLikeHandler(svc, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.UsernameKey, username)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/api/posts/{postID}/like", handler.HandleToggleLike)
	return r
}

func TestHandleToggleLike_Success(t *testing.T) {
	svc := &fakeLikeService{
		toggleFn: func(_ context.Context, username string, postID int64, snapshot *posts.Post) (*likes.ToggleOutcome, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, int64(7), postID)
			assert.Nil(t, snapshot)
			return &likes.ToggleOutcome{Liked: true, LikeCount: 11, Synced: true}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/7/like", nil)
	newLikeRouter(svc, "alice").ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out likes.ToggleOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Liked)
	assert.Equal(t, 11, out.LikeCount)
	assert.True(t, out.Synced)
}

func TestHandleToggleLike_SnapshotPassedThrough(t *testing.T) {
	svc := &fakeLikeService{
		toggleFn: func(_ context.Context, _ string, _ int64, snapshot *posts.Post) (*likes.ToggleOutcome, error) {
			require.NotNil(t, snapshot)
			assert.Equal(t, int64(42), snapshot.ID)
			assert.Equal(t, 3, snapshot.LikeCount)
			return &likes.ToggleOutcome{Liked: true, LikeCount: 4, Synced: true}, nil
		},
	}

	body := `{"snapshot":{"id":42,"title":"lentil soup","likeCount":3,"liked":false}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/42/like", strings.NewReader(body))
	newLikeRouter(svc, "alice").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleToggleLike_RolledBackIsStillOK(t *testing.T) {
	svc := &fakeLikeService{
		toggleFn: func(context.Context, string, int64, *posts.Post) (*likes.ToggleOutcome, error) {
			return &likes.ToggleOutcome{Liked: false, LikeCount: 10, Synced: false}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/7/like", nil)
	newLikeRouter(svc, "alice").ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out likes.ToggleOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Synced)
}

func TestHandleToggleLike_UnknownPost(t *testing.T) {
	svc := &fakeLikeService{
		toggleFn: func(context.Context, string, int64, *posts.Post) (*likes.ToggleOutcome, error) {
			return nil, likes.ErrPostUnknown
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/999/like", nil)
	newLikeRouter(svc, "alice").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleToggleLike_BadPostID(t *testing.T) {
	svc := &fakeLikeService{
		toggleFn: func(context.Context, string, int64, *posts.Post) (*likes.ToggleOutcome, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts/abc/like", nil)
	newLikeRouter(svc, "alice").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
