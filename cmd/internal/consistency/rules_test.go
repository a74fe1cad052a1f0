package consistency

import (
	"context"
	"errors"
	"lifemate/cmd/internal/domain/db"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/domain/repository"
	"testing"
)

type fixture struct {
	rules   *Rules
	appts   *repository.DefaultAppointmentRepository
	fridge  *repository.DefaultFridgeRepository
	grocery *repository.DefaultGroceryRepository
	plans   *repository.DefaultFitnessPlanRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	store := docstore.New(gdb, docstore.NewHub(), nil)

	f := &fixture{
		appts:   repository.NewAppointmentRepository(store),
		fridge:  repository.NewFridgeRepository(store),
		grocery: repository.NewGroceryRepository(store),
		plans:   repository.NewFitnessPlanRepository(store),
	}
	f.rules = New(f.appts, f.fridge, f.grocery, f.plans)
	return f
}

func strPtr(s string) *string { return &s }

func (f *fixture) appointments(t *testing.T, uid string) []*entity.Appointment {
	t.Helper()
	appts, err := f.appts.FindByUserID(context.Background(), uid)
	if err != nil {
		t.Fatalf("FindByUserID failed: %v", err)
	}
	return appts
}

func (f *fixture) fridgeNames(t *testing.T, uid string) []string {
	t.Helper()
	items, err := f.fridge.FindByUserID(context.Background(), uid)
	if err != nil {
		t.Fatalf("FindByUserID failed: %v", err)
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func TestLabels(t *testing.T) {
	if got := ExpiryLabel("Milch"); got != "❗ Ablaufdatum: Milch" {
		t.Errorf("ExpiryLabel = %q", got)
	}
	if got := TrainingLabel("Kraft"); got != "💪 Kraft Training" {
		t.Errorf("TrainingLabel = %q", got)
	}
}

func TestAddFridgeItemWithExpiryCreatesReminder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	item := &entity.FridgeItem{UID: "u", Name: "Milch", ExpiryDate: strPtr("2025-06-01")}
	reminder, err := f.rules.AddFridgeItem(ctx, item)
	if err != nil {
		t.Fatalf("AddFridgeItem failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected the fridge item to get an id")
	}
	if reminder == nil || reminder.Text != "❗ Ablaufdatum: Milch" || reminder.Date != "2025-06-01" {
		t.Fatalf("unexpected reminder %+v", reminder)
	}

	appts := f.appointments(t, "u")
	if len(appts) != 1 || appts[0].ID != reminder.ID {
		t.Errorf("expected exactly the reminder to be stored, got %+v", appts)
	}
}

func TestAddFridgeItemWithoutExpiry(t *testing.T) {
	tests := []struct {
		name   string
		expiry *string
	}{
		{"nil expiry", nil},
		{"empty expiry", strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			reminder, err := f.rules.AddFridgeItem(context.Background(), &entity.FridgeItem{UID: "u", Name: "Butter", ExpiryDate: tt.expiry})
			if err != nil {
				t.Fatalf("AddFridgeItem failed: %v", err)
			}
			if reminder != nil {
				t.Errorf("expected no reminder, got %+v", reminder)
			}
			if appts := f.appointments(t, "u"); len(appts) != 0 {
				t.Errorf("expected no appointments, got %d", len(appts))
			}
		})
	}
}

func TestRemoveFridgeItemRemovesAllSameNameReminders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first := &entity.FridgeItem{UID: "u", Name: "Milch", ExpiryDate: strPtr("2025-06-01")}
	second := &entity.FridgeItem{UID: "u", Name: "Milch", ExpiryDate: strPtr("2025-06-05")}
	for _, item := range []*entity.FridgeItem{first, second} {
		if _, err := f.rules.AddFridgeItem(ctx, item); err != nil {
			t.Fatalf("AddFridgeItem failed: %v", err)
		}
	}
	if err := f.appts.Save(ctx, &entity.Appointment{UID: "u", Date: "2025-06-01", Text: "Milch kaufen"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed, err := f.rules.RemoveFridgeItem(ctx, "u", first.ID)
	if err != nil {
		t.Fatalf("RemoveFridgeItem failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 reminders removed, got %d", removed)
	}

	if names := f.fridgeNames(t, "u"); len(names) != 1 {
		t.Errorf("expected the second Milch to stay, got %v", names)
	}
	appts := f.appointments(t, "u")
	if len(appts) != 1 || appts[0].Text != "Milch kaufen" {
		t.Errorf("expected only the unrelated appointment to stay, got %+v", appts)
	}
}

func TestRemoveFridgeItemLeavesOtherOwners(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	mine := &entity.FridgeItem{UID: "u", Name: "Käse", ExpiryDate: strPtr("2025-06-01")}
	theirs := &entity.FridgeItem{UID: "v", Name: "Käse", ExpiryDate: strPtr("2025-06-01")}
	for _, item := range []*entity.FridgeItem{mine, theirs} {
		if _, err := f.rules.AddFridgeItem(ctx, item); err != nil {
			t.Fatalf("AddFridgeItem failed: %v", err)
		}
	}

	if _, err := f.rules.RemoveFridgeItem(ctx, "u", mine.ID); err != nil {
		t.Fatalf("RemoveFridgeItem failed: %v", err)
	}
	if appts := f.appointments(t, "v"); len(appts) != 1 {
		t.Errorf("expected the other owner's reminder to stay, got %d", len(appts))
	}
}

func TestRemoveFridgeItemNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	item := &entity.FridgeItem{UID: "u", Name: "Milch"}
	if _, err := f.rules.AddFridgeItem(ctx, item); err != nil {
		t.Fatalf("AddFridgeItem failed: %v", err)
	}

	if _, err := f.rules.RemoveFridgeItem(ctx, "u", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.rules.RemoveFridgeItem(ctx, "v", item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign owner, got %v", err)
	}
}

func TestSaveFitnessPlanAlwaysAddsTraining(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		plan := &entity.FitnessPlan{UID: "u", Title: "Ausdauer", Content: "Laufen", Date: "2025-05-12"}
		training, err := f.rules.SaveFitnessPlan(ctx, plan)
		if err != nil {
			t.Fatalf("SaveFitnessPlan failed: %v", err)
		}
		if training.Text != "💪 Ausdauer Training" || training.Date != "2025-05-12" {
			t.Errorf("unexpected training appointment %+v", training)
		}
	}

	plans, err := f.plans.FindByUserID(ctx, "u")
	if err != nil {
		t.Fatalf("FindByUserID failed: %v", err)
	}
	if len(plans) != 2 {
		t.Errorf("expected 2 plans, got %d", len(plans))
	}
	if appts := f.appointments(t, "u"); len(appts) != 2 {
		t.Errorf("expected 2 training appointments, got %d", len(appts))
	}
}

func TestDepleteFridge(t *testing.T) {
	tests := []struct {
		name        string
		stock       []string
		ingredients string
		want        []string
	}{
		{
			name:        "exact names go",
			stock:       []string{"Eier", "Milch"},
			ingredients: "2 Eier, 200g Mehl",
			want:        []string{"Milch"},
		},
		{
			name:        "substring of a longer word goes",
			stock:       []string{"Toma", "Tomatensauce"},
			ingredients: "Tomaten, Basilikum",
			want:        []string{"Tomatensauce"},
		},
		{
			name:        "containment is case sensitive",
			stock:       []string{"eier"},
			ingredients: "Eier",
			want:        []string{"eier"},
		},
		{
			name:        "empty ingredients leave the fridge alone",
			stock:       []string{"Eier"},
			ingredients: "   ",
			want:        []string{"Eier"},
		},
		{
			name:        "empty names never match",
			stock:       []string{"", "Eier"},
			ingredients: "Eier",
			want:        []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			ctx := context.Background()
			for _, name := range tt.stock {
				if err := f.fridge.Save(ctx, &entity.FridgeItem{UID: "u", Name: name}); err != nil {
					t.Fatalf("Save failed: %v", err)
				}
			}

			if _, err := f.rules.DepleteFridge(ctx, "u", tt.ingredients); err != nil {
				t.Fatalf("DepleteFridge failed: %v", err)
			}

			got := f.fridgeNames(t, "u")
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestDepleteFridgeKeepsExpiryReminders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.rules.AddFridgeItem(ctx, &entity.FridgeItem{UID: "u", Name: "Eier", ExpiryDate: strPtr("2025-06-01")}); err != nil {
		t.Fatalf("AddFridgeItem failed: %v", err)
	}
	used, err := f.rules.DepleteFridge(ctx, "u", "Eier")
	if err != nil {
		t.Fatalf("DepleteFridge failed: %v", err)
	}
	if len(used) != 1 {
		t.Errorf("expected one used item, got %d", len(used))
	}
	if appts := f.appointments(t, "u"); len(appts) != 1 {
		t.Errorf("expected the reminder to stay, got %d", len(appts))
	}
}

func TestPromoteToGroceryKeepsDuplicates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if err := f.grocery.Save(ctx, &entity.GroceryItem{UID: "u", Name: "Mehl"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	added, err := f.rules.PromoteToGrocery(ctx, "u", []string{"Mehl", "", "Zucker"})
	if err != nil {
		t.Fatalf("PromoteToGrocery failed: %v", err)
	}
	if len(added) != 2 {
		t.Errorf("expected 2 added, got %d", len(added))
	}

	items, err := f.grocery.FindByUserID(ctx, "u")
	if err != nil {
		t.Fatalf("FindByUserID failed: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 grocery items, got %d", len(items))
	}
}

type failingAppointments struct {
	AppointmentStore
}

func (failingAppointments) Save(context.Context, *entity.Appointment) error {
	return errors.New("write failed")
}

func TestAddFridgeItemStopsWithoutRollback(t *testing.T) {
	f := setup(t)
	rules := New(failingAppointments{f.appts}, f.fridge, f.grocery, f.plans)

	_, err := rules.AddFridgeItem(context.Background(), &entity.FridgeItem{UID: "u", Name: "Milch", ExpiryDate: strPtr("2025-06-01")})
	if err == nil {
		t.Fatal("expected an error")
	}
	if names := f.fridgeNames(t, "u"); len(names) != 1 {
		t.Errorf("expected the fridge item to stay after a failed reminder, got %v", names)
	}
}
