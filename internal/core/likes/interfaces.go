package likes

import (
	"context"

	"NutriForum/internal/core/posts"
)

// StorageClient is the external durable key-value collaborator the
// liked-status store persists through. It only offers whole-value get/set,
// so updates are read-modify-write of the full blob.
type StorageClient interface {
	// Read returns the stored value for key; the bool reports presence.
	Read(ctx context.Context, key string) (string, bool, error)
	// Write replaces the stored value for key.
	Write(ctx context.Context, key, value string) error
}

// PostCache is the slice of the post cache the toggle coordinator needs.
// Implemented by posts.Cache.
type PostCache interface {
	Get(ctx context.Context, postID int64, username string) (posts.Post, bool)
	UpdateLikeStatus(postID int64, liked bool, newCount *int)
}

// LikeClient persists like toggles on the upstream forum server.
// Implemented by the upstream forum API client.
type LikeClient interface {
	// ToggleLike flips the caller's like on a post and returns the server's
	// resulting liked flag and count, which are authoritative.
	ToggleLike(ctx context.Context, postID int64) (*LikeResult, error)
}

// Service coordinates a single like/unlike action: optimistic commit,
// remote persist, then confirm-or-rollback.
type Service interface {
	// Toggle flips the user's like on a post. The current state is read
	// fresh from the cache at the start of every call; snapshot is only the
	// fallback when the post was never cached. A remote failure is not an
	// error: the optimistic change is rolled back and the outcome reports
	// Synced=false.
	Toggle(ctx context.Context, username string, postID int64, snapshot *posts.Post) (*ToggleOutcome, error)
}
