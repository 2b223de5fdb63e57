package profile

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service errors
var (
	ErrNotFound = errors.New("profile not found")
)

// Profile represents stored profile data.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Age       int
	Email     string
	Skills    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName is derived from the name fields and never stored.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// SaveParams replace every editable field of a profile.
type SaveParams struct {
	FirstName string
	LastName  string
	Age       int
	Email     string
	Skills    []string
}

// Service defines profile operations.
//
// Implementations must normalize input data:
//   - Email: lowercase and trim whitespace
//   - Skills: drop blank entries and exact duplicates, keep order
type Service interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	// Save creates the profile or replaces all editable fields of an existing one.
	// The boolean reports whether the profile was created.
	Save(ctx context.Context, userID string, params SaveParams) (*Profile, bool, error)
	Delete(ctx context.Context, userID string) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
