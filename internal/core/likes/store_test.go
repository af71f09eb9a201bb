package likes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage is an in-memory stand-in for the durable key-value collaborator
type fakeStorage struct {
	data     map[string]string
	readErr  error
	writeErr error
	writes   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: make(map[string]string)}
}

func (f *fakeStorage) Read(_ context.Context, key string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStorage) Write(_ context.Context, key, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.data[key] = value
	return nil
}

func TestStore_RoundTrip(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(storage, "", nil)
	ctx := context.Background()

	store.SetForUser(ctx, "alice", 7, true)
	store.SetForUser(ctx, "alice", 9, false)
	store.SetForUser(ctx, "bob", 7, false)

	got := store.GetForUser(ctx, "alice")
	assert.Equal(t, map[int64]bool{7: true, 9: false}, got)

	// Explicit false is distinct from absent
	liked, ok := got[9]
	require.True(t, ok)
	assert.False(t, liked)

	got = store.GetForUser(ctx, "bob")
	assert.Equal(t, map[int64]bool{7: false}, got)

	// Unknown user reads as empty, not an error
	assert.Empty(t, store.GetForUser(ctx, "carol"))
}

func TestStore_SurvivesReload(t *testing.T) {
	storage := newFakeStorage()
	ctx := context.Background()

	store := NewStore(storage, "", nil)
	store.SetForUser(ctx, "alice", 7, true)

	// A fresh store over the same storage sees the persisted record
	reloaded := NewStore(storage, "", nil)
	assert.Equal(t, map[int64]bool{7: true}, reloaded.GetForUser(ctx, "alice"))
}

func TestStore_Forget(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(storage, "", nil)
	ctx := context.Background()

	store.SetForUser(ctx, "alice", 7, true)
	store.Forget(ctx, "alice", 7)

	_, ok := store.GetForUser(ctx, "alice")[7]
	assert.False(t, ok, "entry should be back to unknown")

	// Forgetting what was never stored is a no-op
	store.Forget(ctx, "carol", 1)
}

func TestStore_CorruptBlobTreatedAsEmpty(t *testing.T) {
	storage := newFakeStorage()
	storage.data[DefaultStorageKey] = "{not json"

	store := NewStore(storage, "", nil)
	ctx := context.Background()

	assert.Empty(t, store.GetForUser(ctx, "alice"))

	// Writing after corruption starts from a clean record
	store.SetForUser(ctx, "alice", 7, true)
	assert.Equal(t, map[int64]bool{7: true}, store.GetForUser(ctx, "alice"))
}

func TestStore_SkipsUnparsablePostIDs(t *testing.T) {
	storage := newFakeStorage()
	storage.data[DefaultStorageKey] = `{"alice":{"7":true,"oops":false}}`

	store := NewStore(storage, "", nil)
	got := store.GetForUser(context.Background(), "alice")
	assert.Equal(t, map[int64]bool{7: true}, got)
}

func TestStore_ReadFailureFallsBackToMemory(t *testing.T) {
	storage := newFakeStorage()
	store := NewStore(storage, "", nil)
	ctx := context.Background()

	store.SetForUser(ctx, "alice", 7, true)

	storage.readErr = errors.New("storage offline")
	assert.Equal(t, map[int64]bool{7: true}, store.GetForUser(ctx, "alice"))
}

func TestStore_WriteFailureDegradesToMemory(t *testing.T) {
	storage := newFakeStorage()
	storage.writeErr = errors.New("quota exceeded")

	store := NewStore(storage, "", nil)
	ctx := context.Background()

	// Failures are swallowed; the decision survives in memory
	store.SetForUser(ctx, "alice", 7, true)
	assert.Equal(t, map[int64]bool{7: true}, store.GetForUser(ctx, "alice"))

	// Storage coming back does not resurrect stale state over this
	// process's decisions
	storage.writeErr = nil
	storage.data[DefaultStorageKey] = `{"alice":{"7":false}}`
	assert.Equal(t, map[int64]bool{7: true}, store.GetForUser(ctx, "alice"))
}

func TestStore_CallersCannotMutateInternalState(t *testing.T) {
	store := NewStore(newFakeStorage(), "", nil)
	ctx := context.Background()

	store.SetForUser(ctx, "alice", 7, true)

	got := store.GetForUser(ctx, "alice")
	got[7] = false
	got[99] = true

	assert.Equal(t, map[int64]bool{7: true}, store.GetForUser(ctx, "alice"))
}

func TestStore_NilStorageIsMemoryOnly(t *testing.T) {
	store := NewStore(nil, "", nil)
	ctx := context.Background()

	store.SetForUser(ctx, "alice", 7, true)
	assert.Equal(t, map[int64]bool{7: true}, store.GetForUser(ctx, "alice"))
}
