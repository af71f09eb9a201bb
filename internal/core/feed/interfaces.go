package feed

import (
	"context"

	"NutriForum/internal/core/posts"
)

// PostSource is the slice of the post cache the feed layer uses.
// Implemented by posts.Cache.
type PostSource interface {
	// GetAllValid returns every non-expired post reconciled for the viewer,
	// newest first
	GetAllValid(ctx context.Context, username string) []posts.Post
	// PutMany populates the cache from a fetched page
	PutMany(ctx context.Context, batch []posts.Post, username string)
	// Clear drops everything; used on forced refresh
	Clear()
}

// FetchClient is the remote fetch collaborator: paged post listings and
// free-text search. Implemented by the upstream forum API client.
type FetchClient interface {
	ListPosts(ctx context.Context, ordering string, page, size int) (*PostPage, error)
	Search(ctx context.Context, query string) (*SearchResults, error)
}

// PostPage is one page of upstream posts with the server-reported total and
// an opaque continuation for the next page (empty when exhausted)
type PostPage struct {
	Items []posts.Post
	Next  string
	Total int
}

// Service produces the feed the rendering layer asks for, populating the
// cache from upstream as needed
type Service interface {
	GetFeed(ctx context.Context, username string, req FeedRequest) (*FeedResponse, error)
	// ResetView drops projection state (filter, search, page) on user switch
	ResetView()
}
