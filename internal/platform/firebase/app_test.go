package firebase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/janisto/profile-editor/internal/testutil"
)

func TestInitializeClientsRequiresProject(t *testing.T) {
	_, err := InitializeClients(context.Background(), Config{Firestore: true})
	if !errors.Is(err, ErrNoProject) {
		t.Fatalf("expected ErrNoProject, got %v", err)
	}
}

func TestInitializeClientsMissingCredentialsFile(t *testing.T) {
	_, err := InitializeClients(context.Background(), Config{
		ProjectID:       "demo",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	if err == nil {
		t.Fatal("expected error for missing credentials file")
	}
}

func TestInitializeClientsAgainstEmulator(t *testing.T) {
	testutil.SkipIfFirestoreUnavailable(t)
	testutil.SetupEmulator(t)

	clients, err := InitializeClients(context.Background(), Config{
		ProjectID: testutil.ProjectID,
		Auth:      true,
		Firestore: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = clients.Close() })

	if clients.Auth == nil || clients.Firestore == nil {
		t.Errorf("expected both clients, got %+v", clients)
	}
}

func TestClientsCloseNil(t *testing.T) {
	var c *Clients
	if err := c.Close(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := (&Clients{}).Close(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
