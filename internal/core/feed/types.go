package feed

import (
	"NutriForum/internal/core/posts"
)

// DefaultPageSize is how many posts a projected page holds
const DefaultPageSize = 10

// SearchResults is the opaque result set handed over by the remote search
// collaborator. Filtering intersects it instead of the full cached set while
// a search is active.
type SearchResults struct {
	Posts []posts.Post
	Total int
}

// Projection is the exact slice of posts the UI should render
type Projection struct {
	Items      []posts.Post `json:"items"`
	TotalCount int          `json:"totalCount"`
	Page       int          `json:"page"`
	PageCount  int          `json:"pageCount"`
}

// FeedRequest carries the rendering layer's view parameters.
// TagID/SubTagID of zero mean no filter; an empty Query means no search.
type FeedRequest struct {
	Query    string
	Page     int
	TagID    int64
	SubTagID int64
	Refresh  bool
}

// FeedResponse is a projection plus a staleness signal: Stale is set when an
// upstream fetch failed and the response was served from last-known cache
// contents, so the UI can show a non-blocking notice.
type FeedResponse struct {
	Projection
	Stale bool `json:"stale"`
}
