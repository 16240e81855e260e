package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/platform/logger"
)

// tokenBytes is the number of random bytes in a session token.
const tokenBytes = 32

// Common session errors.
var (
	// ErrInvalidSession is returned when a presented token is unknown,
	// expired, or malformed. Callers must treat all three identically.
	ErrInvalidSession = errors.New("invalid session")

	// ErrSessionNotFound is returned by stores when no record exists for
	// a token.
	ErrSessionNotFound = errors.New("session not found")
)

// Identity is the authenticated identity bound to a session.
type Identity struct {
	UserID   uuid.UUID   `json:"user_id"`
	Role     domain.Role `json:"role"`
	FullName string      `json:"full_name"`
}

// Session is a server-side session record keyed by an opaque token.
type Session struct {
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store defines the interface for session persistence. Implementations
// must make every write durable before returning: a caller that gets nil
// back may tell the client the session exists.
type Store interface {
	// Save persists the session record, overwriting any record with the
	// same token.
	Save(ctx context.Context, s *Session) error

	// Get retrieves the session record for a token.
	// Returns ErrSessionNotFound if no record exists.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes the session record for a token. Deleting a missing
	// session is not an error.
	Delete(ctx context.Context, token string) error
}

// Manager issues and validates signed session cookies backed by a Store.
// The cookie value is "<token>.<hmac>"; the HMAC-SHA256 signature is keyed
// by the configured session secret and checked before any store lookup, so
// forged or corrupted cookies never touch the store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewManager creates a session Manager.
// If logger is nil, a default logger will be used.
func NewManager(store Store, secret string, ttl time.Duration, logger *slog.Logger) *Manager {
	if store == nil {
		panic("store cannot be nil")
	}
	if secret == "" {
		panic("secret cannot be empty")
	}
	if ttl <= 0 {
		panic("ttl must be positive")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger.With(slog.String("component", "session_manager")),
	}
}

// Login creates a new session for the given identity and returns the
// signed cookie value. A fresh random token is generated on every call;
// tokens are never reused across authentication events, which blocks
// session fixation. The session is durably recorded before the cookie
// value is returned.
func (m *Manager) Login(ctx context.Context, id Identity) (string, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	token, err := generateToken()
	if err != nil {
		log.Error("failed to generate session token", slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now().UTC()
	s := &Session{
		Token:     token,
		Identity:  id,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, s); err != nil {
		log.Error("failed to persist session",
			slog.String("error", err.Error()),
			slog.String("user_id", id.UserID.String()))
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	log.Info("session created",
		slog.String("user_id", id.UserID.String()),
		slog.String("role", string(id.Role)),
		slog.Time("expires_at", s.ExpiresAt))

	return token + "." + m.sign(token), nil
}

// Validate checks a signed cookie value and returns the bound identity.
// Returns ErrInvalidSession if the value is malformed, the signature does
// not verify, the token is unknown, or the session has expired. Expired
// records are deleted on sight. Store failures are returned as-is so the
// caller can answer with a server error rather than silently denying.
func (m *Manager) Validate(ctx context.Context, cookieValue string) (Identity, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	token, ok := m.verify(cookieValue)
	if !ok {
		log.Debug("session cookie failed signature check")
		return Identity{}, ErrInvalidSession
	}

	s, err := m.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			log.Debug("session token unknown")
			return Identity{}, ErrInvalidSession
		}
		log.Error("failed to load session", slog.String("error", err.Error()))
		return Identity{}, fmt.Errorf("failed to load session: %w", err)
	}

	if s.Expired(time.Now().UTC()) {
		log.Debug("session expired",
			slog.String("user_id", s.Identity.UserID.String()),
			slog.Time("expired_at", s.ExpiresAt))
		if err := m.store.Delete(ctx, token); err != nil {
			log.Warn("failed to delete expired session", slog.String("error", err.Error()))
		}
		return Identity{}, ErrInvalidSession
	}

	return s.Identity, nil
}

// Destroy removes the session for a signed cookie value. It is
// idempotent: destroying a missing, malformed, or forged session is not
// an error. A store failure is returned so the caller does not report a
// logout that was never recorded.
func (m *Manager) Destroy(ctx context.Context, cookieValue string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	token, ok := m.verify(cookieValue)
	if !ok {
		return nil
	}

	if err := m.store.Delete(ctx, token); err != nil {
		log.Error("failed to delete session", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session destroyed")
	return nil
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// sign computes the hex HMAC-SHA256 signature of a token.
func (m *Manager) sign(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// verify splits a cookie value into token and signature and checks the
// signature in constant time. Returns the bare token and whether the
// value is authentic.
func (m *Manager) verify(cookieValue string) (string, bool) {
	token, sig, found := strings.Cut(cookieValue, ".")
	if !found || token == "" || sig == "" {
		return "", false
	}

	want := m.sign(token)
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", false
	}

	return token, true
}

// generateToken returns a fresh random token as a hex string.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
