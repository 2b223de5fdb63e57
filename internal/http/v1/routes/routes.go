// Package routes wires the v1 operations into a huma API.
package routes

import (
	"net/url"
	"path"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/profile-editor/internal/http/v1/profile"
	"github.com/janisto/profile-editor/internal/platform/auth"
	profilesvc "github.com/janisto/profile-editor/internal/service/profile"
)

// Register installs auth and every v1 operation on api.
func Register(api huma.API, verifier auth.Verifier, profileService profilesvc.Service) {
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))

	profile.Register(api, profileService, path.Join("/", apiPrefix(api), "profile"))
}

// apiPrefix returns the path of the first OpenAPI server URL, e.g. "/v1".
func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
