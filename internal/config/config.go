// Package config reads process settings from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Profile store backends
const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
)

// Token verification modes
const (
	AuthFirebase = "firebase"
	AuthStatic   = "static"
)

// Wire formats for the profile API client
const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Server configures cmd/server.
type Server struct {
	Port            string
	Store           string
	AuthMode        string
	DevToken        string
	ProjectID       string
	CredentialsFile string
	CORSOrigins     []string
}

// Client configures cmd/profilectl.
type Client struct {
	APIURL          string
	Token           string
	Format          string
	Timeout         time.Duration
	SuggestedSkills []string
}

// LoadDotEnv loads the given files (default ".env") without overriding
// existing variables. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// LoadServer reads the server settings from the environment.
func LoadServer() (Server, error) {
	cfg := Server{
		Port:            getEnv("PORT", "8080"),
		Store:           strings.ToLower(getEnv("PROFILE_STORE", StoreMemory)),
		ProjectID:       firstEnv("FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DevToken:        os.Getenv("AUTH_DEV_TOKEN"),
		CORSOrigins:     splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	defaultAuth := AuthFirebase
	if cfg.Store == StoreMemory {
		defaultAuth = AuthStatic
	}
	cfg.AuthMode = strings.ToLower(getEnv("AUTH_MODE", defaultAuth))

	switch cfg.Store {
	case StoreMemory, StoreFirestore:
	default:
		return cfg, fmt.Errorf("%w: PROFILE_STORE %q", ErrInvalid, cfg.Store)
	}
	switch cfg.AuthMode {
	case AuthFirebase, AuthStatic:
	default:
		return cfg, fmt.Errorf("%w: AUTH_MODE %q", ErrInvalid, cfg.AuthMode)
	}
	if cfg.NeedsFirebase() && cfg.ProjectID == "" && cfg.CredentialsFile == "" {
		return cfg, fmt.Errorf("%w: FIREBASE_PROJECT_ID is required for %s", ErrInvalid, cfg.Store+"/"+cfg.AuthMode)
	}
	return cfg, nil
}

// NeedsFirebase reports whether a Firebase app must be initialized.
func (s Server) NeedsFirebase() bool {
	return s.Store == StoreFirestore || s.AuthMode == AuthFirebase
}

// LoadClient reads the CLI settings from the environment.
func LoadClient() (Client, error) {
	cfg := Client{
		APIURL:          getEnv("PROFILE_API_URL", "http://localhost:8080/v1"),
		Token:           os.Getenv("PROFILE_API_TOKEN"),
		Format:          strings.ToLower(getEnv("PROFILE_API_FORMAT", FormatJSON)),
		Timeout:         10 * time.Second,
		SuggestedSkills: splitList(os.Getenv("PROFILE_SUGGESTED_SKILLS")),
	}
	if v := os.Getenv("PROFILE_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("%w: PROFILE_API_TIMEOUT %q", ErrInvalid, v)
		}
		cfg.Timeout = d
	}
	switch cfg.Format {
	case FormatJSON, FormatCBOR:
	default:
		return cfg, fmt.Errorf("%w: PROFILE_API_FORMAT %q", ErrInvalid, cfg.Format)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// splitList splits a comma separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
