package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role determines what a user is allowed to do. It is fixed at
// registration time and never changes afterwards.
type Role string

// Known user roles.
const (
	RoleManager  Role = "manager"
	RoleExecutor Role = "executor"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleExecutor
}

// Common validation errors for User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyFullName       = errors.New("full name cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered account. A user is either a manager, who
// creates and assigns tasks, or an executor, who works on the tasks
// assigned to them.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON
	Role           Role      `json:"role"`
	FullName       string    `json:"full_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given username, role, and display
// name. It generates a new UUID for the user ID and sets the creation
// timestamp. The caller is responsible for hashing the password and
// assigning HashedPassword before the user is stored.
// Returns an error if validation fails.
func NewUser(username string, role Role, fullName string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Username:  username,
		Role:      role,
		FullName:  fullName,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
// HashedPassword is deliberately not checked here: a freshly built user
// has no hash yet, and the store verifies it is set before insert.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if !u.Role.Valid() {
		return ErrInvalidRole
	}

	if u.FullName == "" {
		return ErrEmptyFullName
	}

	return nil
}
