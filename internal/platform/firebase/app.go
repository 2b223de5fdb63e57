// Package firebase initializes the Firebase clients the server needs.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNoProject is returned when neither a project ID nor credentials are configured.
var ErrNoProject = errors.New("firebase project id is not configured")

// Config selects the project and which clients to create.
type Config struct {
	ProjectID       string
	CredentialsFile string // service account JSON, optional on GCP and with emulators
	Auth            bool
	Firestore       bool
}

// Clients holds the initialized clients. Unrequested clients are nil.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// InitializeClients creates the Firebase app and the clients requested by cfg.
func InitializeClients(ctx context.Context, cfg Config) (*Clients, error) {
	if cfg.ProjectID == "" && cfg.CredentialsFile == "" {
		return nil, ErrNoProject
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firebase app: %w", err)
	}

	clients := &Clients{}
	if cfg.Auth {
		if clients.Auth, err = app.Auth(ctx); err != nil {
			return nil, fmt.Errorf("creating auth client: %w", err)
		}
	}
	if cfg.Firestore {
		if clients.Firestore, err = app.Firestore(ctx); err != nil {
			return nil, fmt.Errorf("creating firestore client: %w", err)
		}
	}
	return clients, nil
}

// Close releases the Firestore client, if any.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
