package feed

import (
	"context"
	"log/slog"
	"sync"
)

// feedOrdering is the upstream ordering key for the default feed
const feedOrdering = "new"

// fetchPageSize is how many posts a single upstream populate pulls
const fetchPageSize = 50

// maxQueryLen bounds the free-text search query
const maxQueryLen = 200

type feedService struct {
	mu        sync.Mutex
	cache     PostSource
	upstream  FetchClient
	projector *Projector
	lastQuery string
	logger    *slog.Logger
}

// NewService creates the feed service. It populates the cache from upstream
// when it runs dry and drives the projector from request parameters.
func NewService(cache PostSource, upstream FetchClient, projector *Projector, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedService{
		cache:     cache,
		upstream:  upstream,
		projector: projector,
		logger:    logger,
	}
}

// GetFeed resolves one feed request end to end: validate, refresh or
// repopulate the cache if needed, run the search collaborator when a query
// is active, apply filter/page to the projector, project.
//
// A failed upstream call never fails the request: the feed falls back to
// last-known cache contents and the response is flagged Stale.
func (s *feedService) GetFeed(ctx context.Context, username string, req FeedRequest) (*FeedResponse, error) {
	if err := s.validateRequest(&req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stale := false

	if req.Refresh {
		s.cache.Clear()
	}

	if len(s.cache.GetAllValid(ctx, username)) == 0 {
		if err := s.populate(ctx, username); err != nil {
			s.logger.Warn("feed populate failed, serving cached contents",
				"user", username,
				"error", err)
			stale = true
		}
	}

	// Search before filter: filtering intersects the search set
	queryChanged := false
	if req.Query != s.lastQuery {
		if req.Query == "" {
			s.projector.SetSearch(nil)
			s.lastQuery = ""
			queryChanged = true
		} else {
			results, err := s.upstream.Search(ctx, req.Query)
			if err != nil {
				s.logger.Warn("search failed, keeping previous view",
					"query", req.Query,
					"error", err)
				stale = true
			} else {
				s.projector.SetSearch(results)
				s.lastQuery = req.Query
				queryChanged = true
			}
		}
	}

	curTag, curSub := s.projector.Filter()
	if req.TagID != curTag || req.SubTagID != curSub {
		// Filter change resets to page 1; the requested page is ignored
		s.projector.SetFilter(req.TagID, req.SubTagID)
	} else if !queryChanged && req.Page > 0 {
		// A changed query also resets to page 1 via SetSearch
		s.projector.SetPage(req.Page)
	}

	projection := s.projector.Project(ctx, username)

	return &FeedResponse{
		Projection: projection,
		Stale:      stale,
	}, nil
}

// ResetView clears the projector and the active query. Runs on sign-in user
// switch and on sign-out, together with the cache clear, so one viewer's
// search set and filter never carry into the next session.
func (s *feedService) ResetView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = ""
	s.projector.Reset()
}

func (s *feedService) populate(ctx context.Context, username string) error {
	page, err := s.upstream.ListPosts(ctx, feedOrdering, 1, fetchPageSize)
	if err != nil {
		return err
	}
	s.cache.PutMany(ctx, page.Items, username)
	return nil
}

func (s *feedService) validateRequest(req *FeedRequest) error {
	if req.Page < 0 {
		return NewValidationError("page", "page must be positive")
	}
	if len(req.Query) > maxQueryLen {
		return NewValidationError("q", "query too long")
	}
	if req.SubTagID != 0 && req.TagID == 0 {
		return NewValidationError("subtag", "subtag requires a tag filter")
	}
	return nil
}
