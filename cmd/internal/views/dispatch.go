package views

import (
	"context"
	"errors"
	"fmt"
	"lifemate/cmd/internal/session"
	"time"
)

const (
	CalendarName = "calendar"
	FridgeName   = "fridge"
	GroceryName  = "grocery"
	CookingName  = "cooking"
	FitnessName  = "fitness"
)

var (
	ErrUnknownView   = errors.New("unknown view")
	ErrUnknownAction = errors.New("unknown action")
)

// Action is one client message. Only the fields the action needs are set.
type Action struct {
	Action      string `json:"action"`
	ID          string `json:"id,omitempty"`
	Date        string `json:"date,omitempty"`
	Text        string `json:"text,omitempty"`
	Name        string `json:"name,omitempty"`
	ExpiryDate  string `json:"expiry_date,omitempty"`
	Ingredients string `json:"ingredients,omitempty"`
	DesiredMeal string `json:"desired_meal,omitempty"`
	Goal        string `json:"goal,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

// View is what a live connection drives.
type View interface {
	Name() string
	State() any
	Handle(ctx context.Context, action *Action) error
	Close()
}

// Deps are the collaborators views are built from.
type Deps struct {
	Appointments       AppointmentFeed
	AppointmentActions AppointmentActions
	Fridge             FridgeFeed
	FridgeActions      FridgeActions
	Grocery            GroceryFeed
	GroceryActions     GroceryActions
	Cooking            CookingActions
	Fitness            FitnessActions
	Location           *time.Location
	Now                func() time.Time
}

// Known reports whether Open can build a view called name.
func Known(name string) bool {
	switch name {
	case CalendarName, FridgeName, GroceryName, CookingName, FitnessName:
		return true
	}
	return false
}

// Open builds the view called name for sess.
func Open(name string, sess *session.Session, deps *Deps, listener Listener) (View, error) {
	switch name {
	case CalendarName:
		now := time.Now
		if deps.Now != nil {
			now = deps.Now
		}
		return NewCalendarView(sess, deps.Appointments, deps.AppointmentActions, deps.Location, now(), listener), nil
	case FridgeName:
		return NewFridgeView(sess, deps.Fridge, deps.FridgeActions, listener), nil
	case GroceryName:
		return NewGroceryView(sess, deps.Grocery, deps.GroceryActions, listener), nil
	case CookingName:
		return NewCookingView(sess, deps.Cooking, listener), nil
	case FitnessName:
		return NewFitnessView(sess, deps.Fitness, listener), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
}

func unknownAction(view, action string) error {
	return fmt.Errorf("%w %q for %s", ErrUnknownAction, action, view)
}

func (v *CalendarView) Name() string { return CalendarName }

func (v *CalendarView) Handle(ctx context.Context, a *Action) error {
	switch a.Action {
	case "prev":
		v.Prev()
	case "next":
		v.Next()
	case "today":
		v.Today()
	case "add":
		return v.Add(ctx, a.Date, a.Text)
	case "delete":
		return v.Delete(ctx, a.ID)
	default:
		return unknownAction(CalendarName, a.Action)
	}
	return nil
}

func (v *FridgeView) Name() string { return FridgeName }

func (v *FridgeView) Handle(ctx context.Context, a *Action) error {
	switch a.Action {
	case "add":
		return v.Add(ctx, a.Name, a.ExpiryDate)
	case "remove":
		return v.Remove(ctx, a.ID)
	default:
		return unknownAction(FridgeName, a.Action)
	}
}

func (v *GroceryView) Name() string { return GroceryName }

func (v *GroceryView) Handle(ctx context.Context, a *Action) error {
	switch a.Action {
	case "add":
		return v.Add(ctx, a.Name)
	case "remove":
		return v.Remove(ctx, a.ID)
	default:
		return unknownAction(GroceryName, a.Action)
	}
}

func (v *CookingView) Name() string { return CookingName }

func (v *CookingView) Handle(ctx context.Context, a *Action) error {
	switch a.Action {
	case "input":
		v.SetInput(a.Ingredients, a.DesiredMeal)
	case "use_fridge":
		v.UseFridge()
	case "recipe":
		return v.GenerateRecipe(ctx)
	case "shopping":
		return v.GenerateShoppingList(ctx)
	case "save":
		return v.SaveRecipe(ctx)
	case "delete":
		return v.DeleteRecipe(ctx, a.ID)
	case "to_grocery":
		return v.AddToGroceryList(ctx)
	default:
		return unknownAction(CookingName, a.Action)
	}
	return nil
}

func (v *FitnessView) Name() string { return FitnessName }

func (v *FitnessView) Handle(ctx context.Context, a *Action) error {
	switch a.Action {
	case "input":
		v.SetInput(a.Goal, a.Duration, a.Date)
	case "generate":
		return v.Generate(ctx)
	case "save":
		return v.Save(ctx)
	case "delete":
		return v.Delete(ctx, a.ID)
	case "load":
		return v.Load(a.ID)
	default:
		return unknownAction(FitnessName, a.Action)
	}
	return nil
}
