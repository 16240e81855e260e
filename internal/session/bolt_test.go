package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoltStore(t *testing.T) *BoltStore {
	t.Helper()

	store, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestBoltStoreSaveGetDelete(t *testing.T) {
	t.Parallel()
	store := newBoltStore(t)
	ctx := context.Background()

	sess := &Session{
		Token:     "bolt-token",
		Identity:  testIdentity(),
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "bolt-token")
	require.NoError(t, err)
	assert.Equal(t, sess.Identity, got.Identity)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Delete(ctx, "bolt-token"))
	_, err = store.Get(ctx, "bolt-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting a missing token is a no-op.
	require.NoError(t, store.Delete(ctx, "bolt-token"))
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	store, err := NewBoltStore(path)
	require.NoError(t, err)

	sess := &Session{
		Token:     "persisted",
		Identity:  testIdentity(),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	got, err := reopened.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, sess.Identity, got.Identity)
}

func TestManagerWithBoltStore(t *testing.T) {
	t.Parallel()
	m := NewManager(newBoltStore(t), testSecret, 24*time.Hour, nil)
	ctx := context.Background()

	id := testIdentity()
	cookie, err := m.Login(ctx, id)
	require.NoError(t, err)

	got, err := m.Validate(ctx, cookie)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	require.NoError(t, m.Destroy(ctx, cookie))
	_, err = m.Validate(ctx, cookie)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
