package likes

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// DefaultStorageKey is the fixed key the liked-status record lives under
const DefaultStorageKey = "nutriforum:liked-status"

// record is the durable shape: username -> post ID -> liked.
// Post IDs are stringified for JSON; absence means unknown, never false.
type record map[string]map[int64]bool

// Store is the durable, per-user record of explicit like/unlike decisions.
// It is the tie-breaker source of truth for the liked boolean, never for
// counts. Storage failures are swallowed and logged: the store falls back to
// its last known in-memory state for the rest of the process lifetime,
// because liked status is a UX affordance, not a correctness-critical record.
type Store struct {
	mu       sync.Mutex
	storage  StorageClient
	key      string
	last     record // last state seen or written; serves reads when storage fails
	degraded bool   // set on first write failure; storage is no longer trusted
	logger   *slog.Logger
}

// NewStore creates a liked-status store persisting under the given key.
// An empty key selects DefaultStorageKey.
func NewStore(storage StorageClient, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultStorageKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: storage,
		key:     key,
		last:    record{},
		logger:  logger,
	}
}

// GetForUser returns the user's explicit like decisions keyed by post ID.
// Always total: a missing user, a storage failure, or a corrupt blob all
// come back as an empty map.
func (s *Store) GetForUser(ctx context.Context, username string) map[int64]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.loadLocked(ctx)

	out := make(map[int64]bool, len(rec[username]))
	for id, liked := range rec[username] {
		out[id] = liked
	}
	return out
}

// SetForUser records an explicit like decision: merge at the username level,
// replace at the post ID level, then write the whole blob back.
func (s *Store) SetForUser(ctx context.Context, username string, postID int64, liked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.loadLocked(ctx)
	if rec[username] == nil {
		rec[username] = make(map[int64]bool)
	}
	rec[username][postID] = liked
	s.persistLocked(ctx, rec)
}

// Forget removes an explicit entry, restoring "unknown". Used by toggle
// rollback so a post that had no stored decision before the toggle does not
// end up with a fabricated explicit value.
func (s *Store) Forget(ctx context.Context, username string, postID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.loadLocked(ctx)
	if rec[username] == nil {
		return
	}
	delete(rec[username], postID)
	if len(rec[username]) == 0 {
		delete(rec, username)
	}
	s.persistLocked(ctx, rec)
}

// loadLocked reads and parses the durable blob. A read failure falls back to
// the last known state; a corrupt blob is discarded and treated as empty.
func (s *Store) loadLocked(ctx context.Context) record {
	if s.storage == nil || s.degraded {
		// Once a write has failed, storage is behind this process's state;
		// re-reading it would resurrect decisions the user already changed.
		return s.last
	}

	raw, ok, err := s.storage.Read(ctx, s.key)
	if err != nil {
		s.logger.Warn("liked-status storage read failed, using in-memory state",
			"key", s.key,
			"error", err)
		return s.last
	}
	if !ok {
		// Nothing persisted yet; keep whatever this process has written
		return s.last
	}

	rec, err := parseRecord(raw)
	if err != nil {
		s.logger.Warn("liked-status record is corrupt, discarding",
			"key", s.key,
			"error", err)
		s.last = record{}
		return s.last
	}

	s.last = rec
	return rec
}

func (s *Store) persistLocked(ctx context.Context, rec record) {
	s.last = rec

	if s.storage == nil {
		return
	}

	raw, err := json.Marshal(encodeRecord(rec))
	if err != nil {
		s.logger.Error("failed to encode liked-status record", "error", err)
		return
	}

	if err := s.storage.Write(ctx, s.key, string(raw)); err != nil {
		s.degraded = true
		s.logger.Warn("liked-status storage write failed, degrading to in-memory state",
			"key", s.key,
			"error", err)
	}
}

func parseRecord(raw string) (record, error) {
	var wire map[string]map[string]bool
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, err
	}

	rec := make(record, len(wire))
	for username, entries := range wire {
		byPost := make(map[int64]bool, len(entries))
		for key, liked := range entries {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				// Unparsable post ID, skip the entry rather than fail the user
				continue
			}
			byPost[id] = liked
		}
		rec[username] = byPost
	}
	return rec, nil
}

func encodeRecord(rec record) map[string]map[string]bool {
	wire := make(map[string]map[string]bool, len(rec))
	for username, entries := range rec {
		byPost := make(map[string]bool, len(entries))
		for id, liked := range entries {
			byPost[strconv.FormatInt(id, 10)] = liked
		}
		wire[username] = byPost
	}
	return wire
}
