package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskdesk/taskdesk/internal/authz"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/platform/logger"
	"github.com/taskdesk/taskdesk/internal/service/auth"
	"github.com/taskdesk/taskdesk/internal/store"
)

// RegisterInput is the input to UserService.Register.
type RegisterInput struct {
	Username   string
	Password   string
	FullName   string
	SecretCode string
}

// UserService provides registration, authentication, and user listing.
type UserService interface {
	// Register creates a new user. The role is decided by the secret
	// code: a code equal to the configured manager secret yields a
	// manager, anything else (including an empty code) an executor.
	// Returns store.ErrUsernameExists if the username is taken.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Authenticate verifies a username/password pair.
	// Returns ErrInvalidCredentials when either is wrong; unknown user
	// and bad password are indistinguishable.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// ListExecutors returns all executor users for the given actor.
	// Returns authz.ErrDenied unless the actor is a manager.
	ListExecutors(ctx context.Context, actor authz.Actor) ([]*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	userStore     store.UserStore
	hasher        auth.PasswordHasher
	verifier      auth.PasswordVerifier
	managerSecret string
	logger        *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are missing.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	managerSecret string,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("%w: userStore cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, fmt.Errorf("%w: hasher cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, fmt.Errorf("%w: verifier cannot be nil", domain.ErrValidation)
	}
	if managerSecret == "" {
		return nil, fmt.Errorf("%w: managerSecret cannot be empty", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		userStore:     userStore,
		hasher:        hasher,
		verifier:      verifier,
		managerSecret: managerSecret,
		logger:        logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if in.Username == "" {
		return nil, domain.ErrEmptyUsername
	}
	if in.Password == "" {
		return nil, domain.ErrEmptyPassword
	}
	if in.FullName == "" {
		return nil, domain.ErrEmptyFullName
	}

	// Advisory pre-check for a friendlier error. Two concurrent
	// registrations can both pass it; the unique constraint enforced by
	// the store's Create is the real race guard.
	_, err := s.userStore.GetByUsername(ctx, in.Username)
	if err == nil {
		log.Debug("registration rejected, username taken", slog.String("username", in.Username))
		return nil, store.ErrUsernameExists
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	role := domain.RoleExecutor
	if subtle.ConstantTimeCompare([]byte(in.SecretCode), []byte(s.managerSecret)) == 1 {
		role = domain.RoleManager
	}

	user, err := domain.NewUser(in.Username, role, in.FullName)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *userServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	log.Info("user authenticated",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return user, nil
}

// ListExecutors implements UserService.ListExecutors
func (s *userServiceImpl) ListExecutors(ctx context.Context, actor authz.Actor) ([]*domain.User, error) {
	if err := authz.Decide(authz.ActionListExecutors, actor, nil); err != nil {
		return nil, err
	}

	return s.userStore.ListExecutors(ctx)
}
