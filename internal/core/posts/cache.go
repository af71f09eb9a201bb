package posts

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// DefaultTTL is how long a cached post snapshot stays valid
const DefaultTTL = 5 * time.Minute

// cacheEntry wraps a post snapshot with its capture time.
// Entries are owned by the cache; callers only ever see copies.
type cacheEntry struct {
	fetchedAt time.Time
	post      Post
}

// Cache is the single in-process store of recently-fetched posts, reconciled
// against the viewer's durable liked status on every read and write.
// Expired entries are evicted lazily on access, never by a background sweep.
// Every operation is total: a miss is a defined no-op or absent result.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]*cacheEntry
	likes   LikedStatusSource
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewCache creates a post cache with the given TTL.
// Pass DefaultTTL unless a test needs something shorter.
func NewCache(ttl time.Duration, likes LikedStatusSource, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: make(map[int64]*cacheEntry),
		likes:   likes,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// Get returns a copy of the cached post for the given viewer, or false if
// the entry is missing or expired. Expired entries are deleted as a side
// effect. On a hit, the liked flag is re-merged from the liked-status store:
// an explicit stored decision overrides the cached boolean and the entry is
// corrected in place. The count is left alone - it belongs to the server.
func (c *Cache) Get(ctx context.Context, postID int64, username string) (Post, bool) {
	// Read the store before taking the lock; it may touch durable storage.
	stored := c.likedFor(ctx, username)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[postID]
	if !ok {
		return Post{}, false
	}

	if c.expired(entry) {
		delete(c.entries, postID)
		c.logger.Debug("post cache entry expired", "post_id", postID)
		return Post{}, false
	}

	if want, ok := stored[postID]; ok && want != entry.post.Liked {
		entry.post.Liked = want
	}
	return entry.post.clone(), true
}

// Put stores a post snapshot for the given viewer, stamping fetchedAt now.
// An explicit liked-status entry for (username, post.ID) overrides the
// incoming liked flag: the store holds the viewer's most recent intent,
// while the server snapshot is trusted for the count only.
func (c *Cache) Put(ctx context.Context, post Post, username string) {
	stored := c.likedFor(ctx, username)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(post, stored)
}

// PutMany applies the same per-post reconciliation as Put to a whole fetched
// page. The liked-status store is read once for the batch.
func (c *Cache) PutMany(ctx context.Context, batch []Post, username string) {
	stored := c.likedFor(ctx, username)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, post := range batch {
		c.putLocked(post, stored)
	}

	c.logger.Debug("post cache populated", "count", len(batch), "user", username)
}

// UpdateLikeStatus mutates an existing entry's liked flag and, when newCount
// is non-nil, its like count, refreshing fetchedAt. A miss is expected (the
// post may simply not have been fetched yet) and is logged, not an error.
func (c *Cache) UpdateLikeStatus(postID int64, liked bool, newCount *int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[postID]
	if !ok {
		c.logger.Debug("like status update on uncached post", "post_id", postID)
		return
	}

	entry.post.Liked = liked
	if newCount != nil {
		entry.post.LikeCount = *newCount
	}
	entry.fetchedAt = c.now()
}

// Remove drops a single entry. Missing entries are a no-op.
func (c *Cache) Remove(postID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, postID)
}

// Clear drops every entry. Used on forced refresh and on user switch.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int64]*cacheEntry)
	c.logger.Debug("post cache cleared")
}

// GetAllValid returns copies of every non-expired entry, reconciled for the
// given viewer and sorted newest-first (CreatedAt desc, ID asc tiebreak) so
// projection over the result is deterministic. Expired entries are evicted
// while iterating; this is the only place bulk eviction happens, so cache
// size is bounded by read frequency rather than a background timer.
func (c *Cache) GetAllValid(ctx context.Context, username string) []Post {
	stored := c.likedFor(ctx, username)

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Post, 0, len(c.entries))
	for id, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, id)
			continue
		}
		if want, ok := stored[id]; ok && want != entry.post.Liked {
			entry.post.Liked = want
		}
		out = append(out, entry.post.clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// Len reports the current entry count, expired or not. Diagnostic only.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) expired(entry *cacheEntry) bool {
	return c.now().Sub(entry.fetchedAt) >= c.ttl
}

func (c *Cache) putLocked(post Post, stored map[int64]bool) {
	if want, ok := stored[post.ID]; ok {
		post.Liked = want
	}
	c.entries[post.ID] = &cacheEntry{
		post:      post.clone(),
		fetchedAt: c.now(),
	}
}

func (c *Cache) likedFor(ctx context.Context, username string) map[int64]bool {
	if c.likes == nil || username == "" {
		return nil
	}
	return c.likes.GetForUser(ctx, username)
}
