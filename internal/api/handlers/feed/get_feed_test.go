package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NutriForum/internal/api/middleware"
	corefeed "NutriForum/internal/core/feed"
)

type fakeFeedService struct {
	getFn func(ctx context.Context, username string, req corefeed.FeedRequest) (*corefeed.FeedResponse, error)
}

func (f *fakeFeedService) GetFeed(ctx context.Context, username string, req corefeed.FeedRequest) (*corefeed.FeedResponse, error) {
	return f.getFn(ctx, username, req)
}

func (f *fakeFeedService) ResetView() {}

func newFeedRouter(svc corefeed.Service) *chi.Mux {
	handler := NewGetFeedHandler(svc, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.UsernameKey, "alice")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/api/feed", handler.HandleGetFeed)
	return r
}

func TestHandleGetFeed_ParsesParams(t *testing.T) {
	svc := &fakeFeedService{
		getFn: func(_ context.Context, username string, req corefeed.FeedRequest) (*corefeed.FeedResponse, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, 2, req.Page)
			assert.Equal(t, int64(2), req.TagID)
			assert.Equal(t, int64(21), req.SubTagID)
			assert.Equal(t, "smoothie", req.Query)
			assert.True(t, req.Refresh)
			return &corefeed.FeedResponse{
				Projection: corefeed.Projection{Page: 2, TotalCount: 12, PageCount: 3},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/feed?page=2&tag=2&subtag=21&q=smoothie&refresh=1", nil)
	newFeedRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out corefeed.FeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 12, out.TotalCount)
}

func TestHandleGetFeed_BadParams(t *testing.T) {
	svc := &fakeFeedService{
		getFn: func(context.Context, string, corefeed.FeedRequest) (*corefeed.FeedResponse, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/feed?page=abc", nil)
	newFeedRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetFeed_ValidationErrorIs400(t *testing.T) {
	svc := &fakeFeedService{
		getFn: func(context.Context, string, corefeed.FeedRequest) (*corefeed.FeedResponse, error) {
			return nil, corefeed.NewValidationError("subtag", "subtag requires a tag filter")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/feed?subtag=21", nil)
	newFeedRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
