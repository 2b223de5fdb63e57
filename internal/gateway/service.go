package gateway

import (
	"context"
	"errors"
	"fmt"

	profilesvc "github.com/janisto/profile-editor/internal/service/profile"
)

// ServiceGateway adapts a profile.Service to the Gateway contract for one user.
type ServiceGateway struct {
	svc    profilesvc.Service
	userID string
}

// NewServiceGateway binds the gateway to the given user ID.
func NewServiceGateway(svc profilesvc.Service, userID string) *ServiceGateway {
	return &ServiceGateway{svc: svc, userID: userID}
}

// FetchCurrentUser reads the bound user's profile from the service.
func (g *ServiceGateway) FetchCurrentUser(ctx context.Context) (*UserProfile, error) {
	p, err := g.svc.Get(ctx, g.userID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			return nil, fmt.Errorf("fetching profile %s: %w", g.userID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetching profile %s: %w", g.userID, err)
	}
	return &UserProfile{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Age:       p.Age,
		Email:     p.Email,
		Skills:    append([]string{}, p.Skills...),
	}, nil
}

// PersistUser writes the snapshot through the service. FullName is ignored;
// the service derives it from the name fields.
func (g *ServiceGateway) PersistUser(ctx context.Context, profile UserProfile) error {
	_, _, err := g.svc.Save(ctx, g.userID, profilesvc.SaveParams{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Age:       profile.Age,
		Email:     profile.Email,
		Skills:    profile.Skills,
	})
	if err != nil {
		return fmt.Errorf("persisting profile %s: %w", g.userID, err)
	}
	return nil
}

// Compile-time interface check
var _ Gateway = (*ServiceGateway)(nil)
