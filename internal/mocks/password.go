package mocks

import (
	"errors"

	"github.com/taskdesk/taskdesk/internal/service/auth"
)

// ErrMockPasswordMismatch is returned by MockPasswordVerifier when the
// plaintext does not match under the mock's fake scheme.
var ErrMockPasswordMismatch = errors.New("mock password mismatch")

// MockPasswordHasher implements auth.PasswordHasher for testing. The
// default behavior prefixes the plaintext so tests can pair it with
// MockPasswordVerifier without paying bcrypt cost.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	HashError error
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if m.HashError != nil {
		return "", m.HashError
	}
	return "hashed:" + password, nil
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
type MockPasswordVerifier struct {
	CompareFn    func(hashedPassword, password string) error
	CompareError error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.CompareError != nil {
		return m.CompareError
	}
	if hashedPassword != "hashed:"+password {
		return ErrMockPasswordMismatch
	}
	return nil
}
