package repository

import (
	"context"
	"errors"
	"lifemate/cmd/internal/domain/db"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
	"testing"
	"time"
)

func setupStore(t *testing.T) *docstore.Store {
	t.Helper()
	gdb, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	return docstore.New(gdb, docstore.NewHub(), nil)
}

func TestAppointmentRepositoryRoundTrip(t *testing.T) {
	repo := NewAppointmentRepository(setupStore(t))
	ctx := context.Background()

	appt := &entity.Appointment{UID: "u", Date: "2025-05-01", Text: "Zahnarzt"}
	if err := repo.Save(ctx, appt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if appt.ID == "" {
		t.Fatal("expected Save to assign an id")
	}

	found, err := repo.FindByID(ctx, "u", appt.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil || found.Text != "Zahnarzt" || found.Date != "2025-05-01" {
		t.Errorf("unexpected appointment %+v", found)
	}

	missing, err := repo.FindByID(ctx, "other", appt.ID)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for foreign owner, got %+v, %v", missing, err)
	}
}

func TestAppointmentFindByTextIsExact(t *testing.T) {
	repo := NewAppointmentRepository(setupStore(t))
	ctx := context.Background()

	for _, text := range []string{"❗ Ablaufdatum: Milch", "❗ Ablaufdatum: Milch ", "❗ Ablaufdatum: Milchreis"} {
		if err := repo.Save(ctx, &entity.Appointment{UID: "u", Date: "2025-05-01", Text: text}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := repo.FindByText(ctx, "u", "❗ Ablaufdatum: Milch")
	if err != nil {
		t.Fatalf("FindByText failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected exactly one match, got %d", len(got))
	}
}

func TestFridgeRepositoryKeepsNullExpiry(t *testing.T) {
	repo := NewFridgeRepository(setupStore(t))
	ctx := context.Background()

	if err := repo.Save(ctx, &entity.FridgeItem{UID: "u", Name: "Butter"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	items, err := repo.FindByUserID(ctx, "u")
	if err != nil {
		t.Fatalf("FindByUserID failed: %v", err)
	}
	if len(items) != 1 || items[0].ExpiryDate != nil {
		t.Errorf("expected one item without expiry, got %+v", items)
	}
}

func TestGroceryRepositorySubscribe(t *testing.T) {
	repo := NewGroceryRepository(setupStore(t))
	ctx := context.Background()

	updates := make(chan []*entity.GroceryItem, 8)
	sub, err := repo.Subscribe(ctx, "u", func(items []*entity.GroceryItem) { updates <- items })
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()

	if initial := <-updates; len(initial) != 0 {
		t.Fatalf("expected empty initial snapshot, got %d", len(initial))
	}

	if err := repo.Save(ctx, &entity.GroceryItem{UID: "u", Name: "Mehl"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	select {
	case items := <-updates:
		if len(items) != 1 || items[0].Name != "Mehl" {
			t.Errorf("unexpected snapshot %+v", items)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestRecipeAndFitnessDelete(t *testing.T) {
	store := setupStore(t)
	recipes := NewRecipeRepository(store)
	plans := NewFitnessPlanRepository(store)
	ctx := context.Background()

	recipe := &entity.Recipe{UID: "u", Content: "Pfannkuchen"}
	if err := recipes.Save(ctx, recipe); err != nil {
		t.Fatalf("Save recipe failed: %v", err)
	}
	plan := &entity.FitnessPlan{UID: "u", Title: "Laufen", Content: "5km", Date: "2025-05-01"}
	if err := plans.Save(ctx, plan); err != nil {
		t.Fatalf("Save plan failed: %v", err)
	}

	if err := recipes.Delete(ctx, "u", plan.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("plan id must not resolve in the recipes collection, got %v", err)
	}
	if err := recipes.Delete(ctx, "u", recipe.ID); err != nil {
		t.Errorf("Delete recipe failed: %v", err)
	}
	if err := plans.Delete(ctx, "u", plan.ID); err != nil {
		t.Errorf("Delete plan failed: %v", err)
	}
}

func TestUserRepository(t *testing.T) {
	gdb, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	repo := NewUserRepository(gdb)

	exists, err := repo.ExistsByEmail("anna@example.com")
	if err != nil || exists {
		t.Fatalf("expected no user yet, got %v, %v", exists, err)
	}

	user := &entity.User{SubUUID: "sub-1", Username: "anna", Email: "anna@example.com", CreatedAt: 1, UpdatedAt: 1}
	if err := repo.Save(user); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	bySub, err := repo.FindBySub("sub-1")
	if err != nil || bySub == nil || bySub.Email != "anna@example.com" {
		t.Errorf("FindBySub returned %+v, %v", bySub, err)
	}
	missing, err := repo.FindByEmail("nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown email, got %+v, %v", missing, err)
	}
}
