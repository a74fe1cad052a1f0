// Package consistency keeps derived documents in step with the documents
// they come from. Links are by label text, not by id: a fridge item finds
// its expiry reminder by the exact reminder text.
//
// Nothing here is transactional. A rule stops at its first failed write
// and leaves whatever it already wrote in place.
package consistency

import (
	"context"
	"errors"
	"fmt"
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/domain/repository"
	"strings"
)

type AppointmentStore interface {
	Save(ctx context.Context, appt *entity.Appointment) error
	FindByText(ctx context.Context, uid, text string) ([]*entity.Appointment, error)
	Delete(ctx context.Context, uid, id string) error
}

type FridgeStore interface {
	Save(ctx context.Context, item *entity.FridgeItem) error
	FindByID(ctx context.Context, uid, id string) (*entity.FridgeItem, error)
	FindByUserID(ctx context.Context, uid string) ([]*entity.FridgeItem, error)
	Delete(ctx context.Context, uid, id string) error
}

type GroceryStore interface {
	Save(ctx context.Context, item *entity.GroceryItem) error
}

type FitnessPlanStore interface {
	Save(ctx context.Context, plan *entity.FitnessPlan) error
}

var ErrNotFound = repository.ErrNotFound

func ExpiryLabel(name string) string {
	return "❗ Ablaufdatum: " + name
}

func TrainingLabel(goal string) string {
	return "💪 " + goal + " Training"
}

type Rules struct {
	Appointments AppointmentStore
	Fridge       FridgeStore
	Grocery      GroceryStore
	Plans        FitnessPlanStore
}

func New(appts AppointmentStore, fridge FridgeStore, grocery GroceryStore, plans FitnessPlanStore) *Rules {
	return &Rules{Appointments: appts, Fridge: fridge, Grocery: grocery, Plans: plans}
}

// AddFridgeItem stores item and, if it has an expiry date, one reminder on
// that date. The reminder is nil for items without expiry.
func (r *Rules) AddFridgeItem(ctx context.Context, item *entity.FridgeItem) (*entity.Appointment, error) {
	if err := r.Fridge.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save fridge item: %w", err)
	}
	if !item.HasExpiry() {
		return nil, nil
	}

	reminder := &entity.Appointment{
		UID:  item.UID,
		Date: *item.ExpiryDate,
		Text: ExpiryLabel(item.Name),
	}
	if err := r.Appointments.Save(ctx, reminder); err != nil {
		return nil, fmt.Errorf("save expiry reminder for %s: %w", item.ID, err)
	}
	return reminder, nil
}

// RemoveFridgeItem deletes the item, then every appointment of the owner
// whose text is exactly the item's expiry label. Items sharing a name
// share reminders, so all of them go. Returns how many reminders went.
func (r *Rules) RemoveFridgeItem(ctx context.Context, uid, id string) (int, error) {
	item, err := r.Fridge.FindByID(ctx, uid, id)
	if err != nil {
		return 0, fmt.Errorf("find fridge item: %w", err)
	}
	if item == nil {
		return 0, ErrNotFound
	}

	if err := r.Fridge.Delete(ctx, uid, id); err != nil {
		return 0, fmt.Errorf("delete fridge item: %w", err)
	}

	reminders, err := r.Appointments.FindByText(ctx, uid, ExpiryLabel(item.Name))
	if err != nil {
		return 0, fmt.Errorf("find expiry reminders: %w", err)
	}

	removed := 0
	for _, reminder := range reminders {
		err := r.Appointments.Delete(ctx, uid, reminder.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("delete expiry reminder %s: %w", reminder.ID, err)
		}
		removed++
	}
	return removed, nil
}

// SaveFitnessPlan stores the plan and always adds a training appointment on
// its date, even when an identical one exists.
func (r *Rules) SaveFitnessPlan(ctx context.Context, plan *entity.FitnessPlan) (*entity.Appointment, error) {
	if err := r.Plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("save fitness plan: %w", err)
	}

	training := &entity.Appointment{
		UID:  plan.UID,
		Date: plan.Date,
		Text: TrainingLabel(plan.Title),
	}
	if err := r.Appointments.Save(ctx, training); err != nil {
		return nil, fmt.Errorf("save training appointment for %s: %w", plan.ID, err)
	}
	return training, nil
}

// DepleteFridge deletes every fridge item whose name occurs anywhere in
// ingredients. This is plain substring containment, so "Toma" goes when
// the text says "Tomaten". Items already gone are skipped.
func (r *Rules) DepleteFridge(ctx context.Context, uid, ingredients string) ([]*entity.FridgeItem, error) {
	if strings.TrimSpace(ingredients) == "" {
		return nil, nil
	}

	items, err := r.Fridge.FindByUserID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list fridge items: %w", err)
	}

	var used []*entity.FridgeItem
	for _, item := range items {
		if item.Name == "" || !strings.Contains(ingredients, item.Name) {
			continue
		}
		err := r.Fridge.Delete(ctx, uid, item.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return used, fmt.Errorf("delete used fridge item %s: %w", item.ID, err)
		}
		used = append(used, item)
	}
	return used, nil
}

// PromoteToGrocery adds one grocery item per name. Existing entries are
// not looked at; duplicates are fine. Blank names are skipped.
func (r *Rules) PromoteToGrocery(ctx context.Context, uid string, names []string) ([]*entity.GroceryItem, error) {
	added := make([]*entity.GroceryItem, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		item := &entity.GroceryItem{UID: uid, Name: name}
		if err := r.Grocery.Save(ctx, item); err != nil {
			return added, fmt.Errorf("save grocery item %q: %w", name, err)
		}
		added = append(added, item)
	}
	return added, nil
}
