// Package gateway defines the boundary between the profile form and whatever
// supplies and persists the current user's record.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Gateway errors
var (
	ErrNotFound     = errors.New("user profile not found")
	ErrUnauthorized = errors.New("profile api rejected credentials")
	ErrInvalid      = errors.New("profile rejected by upstream validation")
	ErrUpstream     = errors.New("profile api upstream error")
)

// UpstreamErrorKind classifies profile API failures.
type UpstreamErrorKind string

const (
	UpstreamErrorKindNotFound     UpstreamErrorKind = "not_found"
	UpstreamErrorKindUnauthorized UpstreamErrorKind = "unauthorized"
	UpstreamErrorKindInvalid      UpstreamErrorKind = "invalid"
	UpstreamErrorKindUpstream     UpstreamErrorKind = "upstream"
)

// UpstreamError carries the HTTP status and problem detail returned by the profile API.
type UpstreamError struct {
	Kind   UpstreamErrorKind
	Status int
	Detail string
	cause  error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "profile api upstream error"
	}
	msg := fmt.Sprintf("profile api error (kind=%s status=%d)", e.Kind, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap enables errors.Is against the sentinel gateway errors.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// UserProfile is the record exchanged with the gateway.
// FullName travels with the record but is always derived from the name fields.
type UserProfile struct {
	FirstName string
	LastName  string
	FullName  string
	Age       int
	Email     string
	Skills    []string
}

// Clone returns a deep copy so callers never share the Skills backing array.
func (p UserProfile) Clone() UserProfile {
	if p.Skills != nil {
		p.Skills = append([]string(nil), p.Skills...)
	}
	return p
}

// Gateway fetches the current user's record and persists an updated one.
type Gateway interface {
	FetchCurrentUser(ctx context.Context) (*UserProfile, error)
	PersistUser(ctx context.Context, profile UserProfile) error
}
