package posts

import "context"

// LikedStatusSource exposes the durable per-user liked record to the cache.
// The cache re-merges against it on every read and write so a decision made
// through one surface (e.g. a detail view) shows up in every other surface
// without a re-fetch. Implemented by likes.Store.
type LikedStatusSource interface {
	// GetForUser returns the user's explicit like decisions keyed by post ID.
	// Absence of a post ID means "unknown", not false. Always total: lookup
	// problems come back as an empty map, never an error.
	GetForUser(ctx context.Context, username string) map[int64]bool
}
