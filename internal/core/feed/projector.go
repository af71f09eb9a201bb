package feed

import (
	"context"
	"log/slog"
	"sync"

	"NutriForum/internal/core/posts"
)

// Projector derives the paginated, filtered, searched view the UI renders.
// It never mutates the cache; it re-reads it on every Project call so the
// view always reflects the current cache contents. Page, filter, and search
// are the only state it holds, and any filter or search change resets the
// page to 1.
type Projector struct {
	mu          sync.Mutex
	cache       PostSource
	familyTagID int64 // the one tag family whose sub-tags are filterable
	pageSize    int
	page        int
	tagID       int64
	subTagID    int64
	search      *SearchResults
	logger      *slog.Logger
}

// NewProjector creates a projector with the given page size.
// familyTagID names the tag family for which a secondary sub-tag filter is
// meaningful (sub-tag filtering is ignored under any other primary filter).
func NewProjector(cache PostSource, familyTagID int64, pageSize int, logger *slog.Logger) *Projector {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{
		cache:       cache,
		familyTagID: familyTagID,
		pageSize:    pageSize,
		page:        1,
		logger:      logger,
	}
}

// SetFilter sets the active tag filter and resets to page 1.
// Zero tagID clears the filter. The sub-tag is conjunctive with the family
// filter, not a substitute for it.
func (p *Projector) SetFilter(tagID, subTagID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tagID != p.familyTagID {
		subTagID = 0
	}
	p.tagID = tagID
	p.subTagID = subTagID
	p.page = 1
}

// Filter returns the active primary and sub-tag filter
func (p *Projector) Filter() (tagID, subTagID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tagID, p.subTagID
}

// SetSearch installs a search result set and resets to page 1.
// A nil result set clears the search.
func (p *Projector) SetSearch(results *SearchResults) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = results
	p.page = 1
}

// SearchActive reports whether a search result set is installed
func (p *Projector) SearchActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.search != nil
}

// Reset drops all view state: filter, search set, page. Projection state is
// viewer-scoped, so a user switch tears it down together with the cache.
func (p *Projector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tagID = 0
	p.subTagID = 0
	p.search = nil
	p.page = 1
}

// SetPage requests a page; the value is clamped against the current result
// size at projection time
func (p *Projector) SetPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if page < 1 {
		page = 1
	}
	p.page = page
}

// Project computes the page window for the viewer: search set or full valid
// cache, filtered, counted, clamped, sliced.
func (p *Projector) Project(ctx context.Context, username string) Projection {
	p.mu.Lock()
	defer p.mu.Unlock()

	var base []posts.Post
	if p.search != nil {
		base = p.mergeSearchLocked(ctx, username)
	} else {
		base = p.cache.GetAllValid(ctx, username)
	}

	filtered := p.applyFilterLocked(base)
	total := len(filtered)

	pageCount := (total + p.pageSize - 1) / p.pageSize

	// Clamp and persist so a filter change that shrank the result set pulls
	// the current page back into range
	if pageCount > 0 && p.page > pageCount {
		p.page = pageCount
	}
	if p.page < 1 {
		p.page = 1
	}

	start := (p.page - 1) * p.pageSize
	if start > total {
		start = total
	}
	end := start + p.pageSize
	if end > total {
		end = total
	}

	items := make([]posts.Post, end-start)
	copy(items, filtered[start:end])

	return Projection{
		Items:      items,
		TotalCount: total,
		Page:       p.page,
		PageCount:  pageCount,
	}
}

// mergeSearchLocked overlays live cache state on the search set. A search
// result is a server snapshot; the cache holds the viewer's reconciled liked
// flags and any optimistic toggle that landed after the search ran, so a
// post still cached is served from the cache. Posts that aged out keep
// their search snapshot.
func (p *Projector) mergeSearchLocked(ctx context.Context, username string) []posts.Post {
	live := p.cache.GetAllValid(ctx, username)
	byID := make(map[int64]posts.Post, len(live))
	for _, post := range live {
		byID[post.ID] = post
	}

	out := make([]posts.Post, len(p.search.Posts))
	for i, post := range p.search.Posts {
		if cached, ok := byID[post.ID]; ok {
			out[i] = cached
			continue
		}
		out[i] = post
	}
	return out
}

func (p *Projector) applyFilterLocked(in []posts.Post) []posts.Post {
	if p.tagID == 0 {
		return in
	}

	out := make([]posts.Post, 0, len(in))
	for _, post := range in {
		if !post.HasTag(p.tagID) {
			continue
		}
		if p.subTagID != 0 && p.tagID == p.familyTagID {
			// Sub-filtering requires both the family tag and the sub-tag
			if !post.HasTag(p.familyTagID) || !post.HasTag(p.subTagID) {
				continue
			}
		}
		out = append(out, post)
	}
	return out
}
