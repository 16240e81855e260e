package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// countingStore wraps a Store and counts Get calls, to verify that forged
// cookies are rejected before any store lookup.
type countingStore struct {
	Store
	gets int
}

func (c *countingStore) Get(ctx context.Context, token string) (*Session, error) {
	c.gets++
	return c.Store.Get(ctx, token)
}

func testIdentity() Identity {
	return Identity{
		UserID:   uuid.New(),
		Role:     domain.RoleExecutor,
		FullName: "Petr Petrov",
	}
}

func TestManagerLoginAndValidate(t *testing.T) {
	t.Parallel()
	m := NewManager(NewMemoryStore(), testSecret, 24*time.Hour, nil)
	ctx := context.Background()

	id := testIdentity()
	cookie, err := m.Login(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, cookie)

	got, err := m.Validate(ctx, cookie)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestManagerLoginNeverReusesTokens(t *testing.T) {
	t.Parallel()
	m := NewManager(NewMemoryStore(), testSecret, 24*time.Hour, nil)
	ctx := context.Background()

	seen := make(map[string]bool)
	for range 10 {
		cookie, err := m.Login(ctx, testIdentity())
		require.NoError(t, err)
		assert.False(t, seen[cookie], "token issued twice")
		seen[cookie] = true
	}
}

func TestManagerRejectsTamperedCookieWithoutStoreHit(t *testing.T) {
	t.Parallel()
	cs := &countingStore{Store: NewMemoryStore()}
	m := NewManager(cs, testSecret, 24*time.Hour, nil)
	ctx := context.Background()

	cookie, err := m.Login(ctx, testIdentity())
	require.NoError(t, err)

	cs.gets = 0
	tampered := []string{
		"",
		"garbage",
		"no-signature.",
		".no-token",
		cookie + "ff",
		strings.Replace(cookie, ".", "X", 1),
	}
	for _, c := range tampered {
		_, err := m.Validate(ctx, c)
		assert.ErrorIs(t, err, ErrInvalidSession, "cookie %q", c)
	}
	assert.Zero(t, cs.gets, "forged cookies must not reach the store")
}

func TestManagerRejectsCookieSignedWithOtherSecret(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	m1 := NewManager(store, testSecret, 24*time.Hour, nil)
	m2 := NewManager(store, "another-secret-another-secret-32", 24*time.Hour, nil)
	ctx := context.Background()

	cookie, err := m1.Login(ctx, testIdentity())
	require.NoError(t, err)

	_, err = m2.Validate(ctx, cookie)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManagerExpiredSessionIsInvalidAndRemoved(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	m := NewManager(store, testSecret, 10*time.Millisecond, nil)
	ctx := context.Background()

	cookie, err := m.Login(ctx, testIdentity())
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	time.Sleep(20 * time.Millisecond)

	_, err = m.Validate(ctx, cookie)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Expired records are deleted on sight.
	assert.Zero(t, store.Len())
}

func TestManagerDestroy(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	m := NewManager(store, testSecret, 24*time.Hour, nil)
	ctx := context.Background()

	cookie, err := m.Login(ctx, testIdentity())
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, cookie))
	_, err = m.Validate(ctx, cookie)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Destroy is idempotent, including for malformed values.
	require.NoError(t, m.Destroy(ctx, cookie))
	require.NoError(t, m.Destroy(ctx, "not-a-cookie"))
}

func TestMemoryStoreIsolation(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	sess := &Session{
		Token:     "token-1",
		Identity:  testIdentity(),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, sess))

	// Mutating the saved value must not affect the stored record.
	sess.Identity.FullName = "Changed"

	got, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.NotEqual(t, "Changed", got.Identity.FullName)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
