// Package profile serves the current user's profile over huma.
package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/profile-editor/internal/platform/auth"
	applog "github.com/janisto/profile-editor/internal/platform/logging"
	"github.com/janisto/profile-editor/internal/platform/timeutil"
	profilesvc "github.com/janisto/profile-editor/internal/service/profile"
)

var bearerAuth = []map[string][]string{{"bearerAuth": {}}}

// Register registers the profile operations. location is the public path of
// the resource, used for the Location header on creation.
func Register(api huma.API, svc profilesvc.Service, location string) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/profile",
		Summary:     "Get current user's profile",
		Description: "Returns the profile the edit form is populated from.",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, func(ctx context.Context, _ *ProfileGetInput) (*ProfileGetOutput, error) {
		user := auth.UserFromContext(ctx)
		p, err := svc.Get(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return &ProfileGetOutput{Body: toHTTPProfile(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "replace-profile",
		Method:      http.MethodPut,
		Path:        "/profile",
		Summary:     "Save current user's profile",
		Description: "Replaces the whole profile with the submitted form snapshot, creating it on first save. " +
			"fullName is recomputed from firstName and lastName.",
		Tags:     []string{"Profile"},
		Security: bearerAuth,
	}, func(ctx context.Context, input *ProfileReplaceInput) (*ProfileReplaceOutput, error) {
		user := auth.UserFromContext(ctx)
		p, created, err := svc.Save(ctx, user.UID, profilesvc.SaveParams{
			FirstName: input.Body.FirstName,
			LastName:  input.Body.LastName,
			Age:       input.Body.Age,
			Email:     input.Body.Email,
			Skills:    input.Body.Skills,
		})
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		out := &ProfileReplaceOutput{Status: http.StatusOK, Body: toHTTPProfile(p)}
		if created {
			out.Status = http.StatusCreated
			out.Location = location
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-profile",
		Method:        http.MethodDelete,
		Path:          "/profile",
		Summary:       "Delete current user's profile",
		Tags:          []string{"Profile"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerAuth,
	}, func(ctx context.Context, _ *ProfileDeleteInput) (*struct{}, error) {
		user := auth.UserFromContext(ctx)
		if err := svc.Delete(ctx, user.UID); err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return nil, nil
	})
}

func mapServiceError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, profilesvc.ErrNotFound):
		return huma.Error404NotFound("profile not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		applog.LogWarn(ctx, "profile request aborted", zap.Error(err))
		return huma.Error503ServiceUnavailable("request aborted")
	default:
		applog.LogError(ctx, "profile service failure", err)
		return huma.Error500InternalServerError("internal error")
	}
}

func toHTTPProfile(p *profilesvc.Profile) Profile {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return Profile{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Age:       p.Age,
		Email:     p.Email,
		Skills:    skills,
		CreatedAt: timeutil.NewTime(p.CreatedAt),
		UpdatedAt: timeutil.NewTime(p.UpdatedAt),
	}
}
