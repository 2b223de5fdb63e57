package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemorySaveCreates(t *testing.T) {
	svc := NewMemoryStore()
	ctx := context.Background()

	p, created, err := svc.Save(ctx, "user-123", SaveParams{
		FirstName: "Ann",
		LastName:  "Lee",
		Age:       30,
		Email:     "  ANN@Example.com ",
		Skills:    []string{"Go", "", "Go", "SQL"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created to be true")
	}
	if p.ID != "user-123" {
		t.Errorf("expected ID user-123, got %s", p.ID)
	}
	if p.FullName() != "Ann Lee" {
		t.Errorf("expected full name Ann Lee, got %q", p.FullName())
	}
	if p.Email != "ann@example.com" {
		t.Errorf("expected normalized email, got %s", p.Email)
	}
	if len(p.Skills) != 2 || p.Skills[0] != "Go" || p.Skills[1] != "SQL" {
		t.Errorf("expected skills [Go SQL], got %v", p.Skills)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestMemorySaveReplacesAndKeepsCreatedAt(t *testing.T) {
	svc := NewMemoryStore()
	ctx := context.Background()
	tick := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return tick }

	first, _, _ := svc.Save(ctx, "user-123", SaveParams{FirstName: "Ann", LastName: "Lee", Age: 30, Email: "a@b.com", Skills: []string{"Go"}})

	tick = tick.Add(time.Hour)
	second, created, err := svc.Save(ctx, "user-123", SaveParams{FirstName: "Anne", LastName: "Lee", Age: 31, Email: "a@b.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created to be false on replace")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("expected CreatedAt %v, got %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}
	if len(second.Skills) != 0 {
		t.Errorf("expected skills to be replaced, got %v", second.Skills)
	}
	if second.Age != 31 {
		t.Errorf("expected age 31, got %d", second.Age)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	svc := NewMemoryStore()
	ctx := context.Background()
	_, _, _ = svc.Save(ctx, "user-123", SaveParams{FirstName: "Ann", LastName: "Lee", Skills: []string{"Go"}})

	p, err := svc.Get(ctx, "user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Skills[0] = "mutated"
	p.FirstName = "mutated"

	again, _ := svc.Get(ctx, "user-123")
	if again.Skills[0] != "Go" || again.FirstName != "Ann" {
		t.Errorf("stored profile was mutated through returned value: %+v", again)
	}
}

func TestMemoryGetNotFound(t *testing.T) {
	svc := NewMemoryStore()
	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDeleteTwice(t *testing.T) {
	svc := NewMemoryStore()
	ctx := context.Background()
	_, _, _ = svc.Save(ctx, "user-123", SaveParams{FirstName: "Ann", LastName: "Lee"})

	if err := svc.Delete(ctx, "user-123"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, "user-123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryConcurrentSave(t *testing.T) {
	svc := NewMemoryStore()
	ctx := context.Background()

	const numGoroutines = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		creates int
	)
	for range numGoroutines {
		wg.Go(func() {
			_, created, err := svc.Save(ctx, "concurrent-user", SaveParams{FirstName: "Test", LastName: "User"})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if created {
				mu.Lock()
				creates++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if creates != 1 {
		t.Errorf("expected exactly 1 create, got %d", creates)
	}
}

func TestMemoryClear(t *testing.T) {
	svc := NewMemoryStore()
	ctx := context.Background()
	_, _, _ = svc.Save(ctx, "user-123", SaveParams{FirstName: "Ann"})
	svc.Clear()
	if _, err := svc.Get(ctx, "user-123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Clear, got %v", err)
	}
}

func TestNormalizeSkills(t *testing.T) {
	got := normalizeSkills([]string{" ", "go", "Go", "go"})
	if len(got) != 2 || got[0] != "go" || got[1] != "Go" {
		t.Errorf("expected [go Go], got %v", got)
	}
	if got := normalizeSkills(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
