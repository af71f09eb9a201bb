package likes

import (
	"context"
	"log/slog"
	"sync"

	"NutriForum/internal/core/posts"
)

// likeService implements Service. Each Toggle call runs the full
// optimistic-commit / confirm-or-rollback machine to completion.
type likeService struct {
	cache  PostCache
	store  *Store
	client LikeClient
	logger *slog.Logger

	// commitMu serializes the resolve+commit phase so two toggles issued
	// back to back always read each other's optimistic state, never a stale
	// pre-state. The remote call runs outside it.
	commitMu sync.Mutex
}

// NewService creates the like-toggle coordinator
func NewService(cache PostCache, store *Store, client LikeClient, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &likeService{
		cache:  cache,
		store:  store,
		client: client,
		logger: logger,
	}
}

// Toggle flips the user's like on a post.
//
// The machine:
//  1. read the post's current liked flag and count fresh from the cache
//     (snapshot is the fallback for a never-cached post)
//  2. compute the inverted flag and the optimistic count
//  3. commit optimistically: store first, so a concurrent read from any
//     other surface sees the new decision, then the cache
//  4. persist the toggle upstream
//  5. on success the server wins: its flag and count replace the optimistic
//     values wherever they differ
//  6. on failure revert store and cache to the step-1 state; a post that had
//     no explicit stored decision goes back to "unknown", not explicit false
func (s *likeService) Toggle(ctx context.Context, username string, postID int64, snapshot *posts.Post) (*ToggleOutcome, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}

	s.commitMu.Lock()

	cur, ok := s.cache.Get(ctx, postID, username)
	if !ok {
		if snapshot == nil {
			s.commitMu.Unlock()
			return nil, ErrPostUnknown
		}
		cur = *snapshot
	}
	_, hadExplicit := s.store.GetForUser(ctx, username)[postID]

	newLiked := !cur.Liked
	optimistic := cur.LikeCount
	if newLiked {
		optimistic++
	} else if optimistic > 0 {
		optimistic--
	}

	s.store.SetForUser(ctx, username, postID, newLiked)
	s.cache.UpdateLikeStatus(postID, newLiked, &optimistic)

	s.commitMu.Unlock()

	result, err := s.client.ToggleLike(ctx, postID)
	if err != nil {
		s.rollback(ctx, username, postID, cur, hadExplicit)
		s.logger.Warn("like toggle failed upstream, rolled back",
			"user", username,
			"post_id", postID,
			"error", err)
		return &ToggleOutcome{
			Liked:     cur.Liked,
			LikeCount: cur.LikeCount,
			Synced:    false,
		}, nil
	}

	s.commitMu.Lock()
	if result.Liked != newLiked {
		// Server disagrees with the optimistic flag; it wins
		s.store.SetForUser(ctx, username, postID, result.Liked)
	}
	count := result.LikeCount
	s.cache.UpdateLikeStatus(postID, result.Liked, &count)
	s.commitMu.Unlock()

	s.logger.Debug("like toggle confirmed",
		"user", username,
		"post_id", postID,
		"liked", result.Liked,
		"like_count", result.LikeCount)

	return &ToggleOutcome{
		Liked:     result.Liked,
		LikeCount: result.LikeCount,
		Synced:    true,
	}, nil
}

// rollback restores the pre-toggle state captured at step 1
func (s *likeService) rollback(ctx context.Context, username string, postID int64, pre posts.Post, hadExplicit bool) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if hadExplicit {
		s.store.SetForUser(ctx, username, postID, pre.Liked)
	} else {
		s.store.Forget(ctx, username, postID)
	}
	count := pre.LikeCount
	s.cache.UpdateLikeStatus(postID, pre.Liked, &count)
}
