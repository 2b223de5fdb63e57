package auth

import (
	"context"
	"crypto/subtle"
)

// StaticVerifier accepts a single shared token and maps it to a fixed user.
// It backs local development with the in-memory store, where no Firebase
// project is configured, and the handler tests.
type StaticVerifier struct {
	Token string
	User  *User
	// Err, when set, is returned for every call.
	Err error
}

// NewStaticVerifier accepts token for user.
func NewStaticVerifier(token string, user *User) *StaticVerifier {
	return &StaticVerifier{Token: token, User: user}
}

func (s *StaticVerifier) Verify(_ context.Context, token string) (*User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		return nil, ErrInvalidToken
	}
	if s.User == nil {
		return DevUser(), nil
	}
	u := *s.User
	return &u, nil
}

// DevUser is the caller reported by a StaticVerifier without a configured user.
func DevUser() *User {
	return &User{
		UID:           "dev-user",
		Email:         "dev@example.com",
		EmailVerified: true,
	}
}

// Compile-time interface check
var _ Verifier = (*StaticVerifier)(nil)
