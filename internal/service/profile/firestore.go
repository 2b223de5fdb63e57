package profile

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/janisto/profile-editor/internal/platform/logging"
)

const profilesCollection = "profiles"

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal_error"
	}
}

// firestoreProfile maps to Firestore document structure.
type firestoreProfile struct {
	FirstName string    `firestore:"first_name"`
	LastName  string    `firestore:"last_name"`
	Age       int       `firestore:"age"`
	Email     string    `firestore:"email"`
	Skills    []string  `firestore:"skills"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (fp firestoreProfile) toProfile(userID string) *Profile {
	skills := fp.Skills
	if skills == nil {
		skills = []string{}
	}
	return &Profile{
		ID:        userID,
		FirstName: fp.FirstName,
		LastName:  fp.LastName,
		Age:       fp.Age,
		Email:     fp.Email,
		Skills:    skills,
		CreatedAt: fp.CreatedAt,
		UpdatedAt: fp.UpdatedAt,
	}
}

// FirestoreStore implements Service using Firestore with transactions.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Get retrieves a profile by user ID.
func (s *FirestoreStore) Get(ctx context.Context, userID string) (*Profile, error) {
	doc, err := s.client.Collection(profilesCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fp firestoreProfile
	if err := doc.DataTo(&fp); err != nil {
		return nil, err
	}
	return fp.toProfile(userID), nil
}

// Save upserts the profile inside a transaction so CreatedAt survives replacement.
func (s *FirestoreStore) Save(ctx context.Context, userID string, params SaveParams) (*Profile, bool, error) {
	docRef := s.client.Collection(profilesCollection).Doc(userID)
	now := time.Now().UTC()

	var (
		result  *Profile
		created bool
	)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		createdAt := now
		created = true
		doc, err := tx.Get(docRef)
		switch {
		case err == nil && doc.Exists():
			var existing firestoreProfile
			if err := doc.DataTo(&existing); err != nil {
				return err
			}
			createdAt = existing.CreatedAt
			created = false
		case err != nil && status.Code(err) != codes.NotFound:
			return err
		}

		fp := firestoreProfile{
			FirstName: params.FirstName,
			LastName:  params.LastName,
			Age:       params.Age,
			Email:     normalizeEmail(params.Email),
			Skills:    normalizeSkills(params.Skills),
			CreatedAt: createdAt,
			UpdatedAt: now,
		}
		if err := tx.Set(docRef, fp); err != nil {
			return err
		}
		result = fp.toProfile(userID)
		return nil
	})

	action := "update"
	if created {
		action = "create"
	}
	if err != nil {
		applog.LogAuditEvent(ctx, action, userID, "profile", userID, "failure",
			map[string]any{"error": categorizeError(err)})
		return nil, false, err
	}

	applog.LogAuditEvent(ctx, action, userID, "profile", userID, "success",
		map[string]any{"skills": len(result.Skills)})
	return result, created, nil
}

// Delete removes a profile using a transaction to ensure it exists.
func (s *FirestoreStore) Delete(ctx context.Context, userID string) error {
	docRef := s.client.Collection(profilesCollection).Doc(userID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "delete", userID, "profile", userID, "failure",
			map[string]any{"error": categorizeError(err)})
		return err
	}

	applog.LogAuditEvent(ctx, "delete", userID, "profile", userID, "success", nil)
	return nil
}

// Compile-time interface check
var _ Service = (*FirestoreStore)(nil)
