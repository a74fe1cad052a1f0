package views

import (
	"context"
	"errors"
	"github.com/go-playground/validator/v10"
	"lifemate/cmd/internal/consistency"
	"lifemate/cmd/internal/domain/db"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/repository"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/session"
	"lifemate/cmd/internal/utils/validators"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type gateway struct {
	reply       string
	title       string
	ingredients []string
	err         error

	// when set, calls wait here after signalling entered
	release chan struct{}
	entered chan struct{}
}

func (g *gateway) wait(ctx context.Context) {
	if g.release == nil {
		return
	}
	g.entered <- struct{}{}
	<-g.release
}

func (g *gateway) Chat(ctx context.Context, _ string) (string, error) {
	g.wait(ctx)
	return g.reply, g.err
}

func (g *gateway) Recipe(ctx context.Context, _, _ string) (string, error) {
	g.wait(ctx)
	return g.reply, g.err
}

func (g *gateway) ShoppingList(ctx context.Context, _, _ string) (string, error) {
	g.wait(ctx)
	return g.reply, g.err
}

func (g *gateway) ParseIngredients(context.Context, string) ([]string, error) {
	return g.ingredients, nil
}

func (g *gateway) Title(context.Context, string) (string, error) {
	return g.title, nil
}

func (g *gateway) FitnessPlan(ctx context.Context, _, _ string) (string, error) {
	g.wait(ctx)
	return g.reply, g.err
}

type env struct {
	deps *Deps
	gw   *gateway
	sess *session.Session
}

func setup(t *testing.T) *env {
	t.Helper()
	gdb, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	store := docstore.New(gdb, docstore.NewHub(), nil)

	validate := validator.New()
	validators.Register(validate)

	appts := repository.NewAppointmentRepository(store)
	fridge := repository.NewFridgeRepository(store)
	grocery := repository.NewGroceryRepository(store)
	recipes := repository.NewRecipeRepository(store)
	plans := repository.NewFitnessPlanRepository(store)
	rules := consistency.New(appts, fridge, grocery, plans)

	gw := &gateway{}
	deps := &Deps{
		Appointments:       appts,
		AppointmentActions: service.NewAppointmentService(appts, validate, time.UTC),
		Fridge:             fridge,
		FridgeActions:      service.NewFridgeService(fridge, rules, validate),
		Grocery:            grocery,
		GroceryActions:     service.NewGroceryService(grocery, validate),
		Cooking:            service.NewCookingService(gw, rules, recipes, fridge, validate),
		Fitness:            service.NewFitnessService(gw, rules, plans, validate),
		Location:           time.UTC,
		Now:                func() time.Time { return time.Date(2025, time.April, 30, 12, 0, 0, 0, time.UTC) },
	}
	return &env{deps: deps, gw: gw, sess: session.New()}
}

func (e *env) signIn(uid string) {
	e.sess.SignIn(session.User{UID: uid, Email: uid + "@example.com"})
}

type recorder struct {
	calls atomic.Int64
	mu    sync.Mutex
	last  any
}

func (r *recorder) listen(state any) {
	r.mu.Lock()
	r.last = state
	r.mu.Unlock()
	r.calls.Add(1)
}

func open(t *testing.T, e *env, name string, rec *recorder) View {
	t.Helper()
	v, err := Open(name, e.sess, e.deps, rec.listen)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", name, err)
	}
	t.Cleanup(v.Close)
	return v
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func countAppointments(v View) int {
	n := 0
	for _, day := range v.State().(*CalendarState).Week.Days {
		n += len(day.Appointments)
	}
	return n
}

func TestOpenUnknownView(t *testing.T) {
	e := setup(t)
	if _, err := Open("weather", e.sess, e.deps, nil); !errors.Is(err, ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got %v", err)
	}
}

func TestWritesNeedSignIn(t *testing.T) {
	e := setup(t)
	rec := &recorder{}
	v := open(t, e, CalendarName, rec)

	if v.State().(*CalendarState).SignedIn {
		t.Error("expected signed out state")
	}
	err := v.Handle(context.Background(), &Action{Action: "add", Date: "2025-05-01", Text: "x"})
	if !errors.Is(err, session.ErrNotSignedIn) {
		t.Errorf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestCalendarViewLiveAndNavigation(t *testing.T) {
	e := setup(t)
	e.signIn("u")
	rec := &recorder{}
	v := open(t, e, CalendarName, rec)
	ctx := context.Background()

	if err := v.Handle(ctx, &Action{Action: "add", Date: "2025-05-01", Text: "Grillen"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	waitFor(t, "the appointment", func() bool { return countAppointments(v) == 1 })

	day := v.State().(*CalendarState).Week.Days[3]
	if day.Holiday != "Staatsfeiertag" || day.Appointments[0].Text != "Grillen" {
		t.Errorf("unexpected day %+v", day)
	}

	cal := v.(*CalendarView)
	cal.Next()
	cal.Next()
	cal.Prev()
	if week := cal.Week(); week.Offset != 1 || week.Start != "05.05.2025" {
		t.Errorf("unexpected week after navigation: %+v", week)
	}
	for _, d := range cal.Week().Days {
		if d.IsToday {
			t.Errorf("day %s of another week marked today", d.Label)
		}
	}

	cal.Today()
	if week := cal.Week(); week.Offset != 0 || !week.Days[2].IsToday {
		t.Errorf("expected to be back on the current week, got %+v", week)
	}

	if err := v.Handle(ctx, &Action{Action: "add", Date: "", Text: "x"}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if err := v.Handle(ctx, &Action{Action: "fly"}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestFridgeViewKeepsCalendarInStep(t *testing.T) {
	e := setup(t)
	e.signIn("u")
	fridge := open(t, e, FridgeName, &recorder{})
	cal := open(t, e, CalendarName, &recorder{})
	ctx := context.Background()

	if err := fridge.Handle(ctx, &Action{Action: "add", Name: "Milch", ExpiryDate: "2025-05-02"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	waitFor(t, "the fridge item", func() bool { return len(fridge.State().(*FridgeState).Items) == 1 })
	waitFor(t, "the reminder", func() bool { return countAppointments(cal) == 1 })

	item := fridge.State().(*FridgeState).Items[0]
	if item.ExpiryDate == nil || *item.ExpiryDate != "2025-05-02" {
		t.Errorf("unexpected item %+v", item)
	}

	if err := fridge.Handle(ctx, &Action{Action: "remove", ID: item.ID}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	waitFor(t, "an empty fridge", func() bool { return len(fridge.State().(*FridgeState).Items) == 0 })
	waitFor(t, "the reminder to go", func() bool { return countAppointments(cal) == 0 })
}

func TestViewFollowsIdentity(t *testing.T) {
	e := setup(t)
	e.signIn("u")
	v := open(t, e, GroceryName, &recorder{})
	ctx := context.Background()

	if err := v.Handle(ctx, &Action{Action: "add", Name: "Brot"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	waitFor(t, "the grocery item", func() bool { return len(v.State().(*GroceryState).Items) == 1 })

	e.signIn("v")
	state := v.State().(*GroceryState)
	if !state.SignedIn || len(state.Items) != 0 {
		t.Errorf("expected an empty list for the new user, got %+v", state)
	}

	e.sess.SignOut()
	if state := v.State().(*GroceryState); state.SignedIn || len(state.Items) != 0 {
		t.Errorf("expected signed out empty state, got %+v", state)
	}

	e.signIn("u")
	waitFor(t, "the first user's items", func() bool { return len(v.State().(*GroceryState).Items) == 1 })
}

func TestCloseIsFinal(t *testing.T) {
	e := setup(t)
	e.signIn("u")
	rec := &recorder{}
	v := open(t, e, FridgeName, rec)

	v.Close()
	v.Close()
	before := rec.calls.Load()

	e.signIn("v")
	e.sess.SignOut()
	if err := v.Handle(context.Background(), &Action{Action: "add", Name: "Milch"}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if rec.calls.Load() != before {
		t.Errorf("listener called after Close")
	}
}

func TestCookingViewFlow(t *testing.T) {
	e := setup(t)
	e.signIn("u")
	ctx := context.Background()

	for _, name := range []string{"Eier", "Tomatensauce", "Toma"} {
		if _, apierr := e.deps.FridgeActions.AddItem(ctx, &service.FridgeItemRequest{Name: name}, "u"); apierr != nil {
			t.Fatalf("AddItem failed: %v", apierr)
		}
	}

	v := open(t, e, CookingName, &recorder{}).(*CookingView)
	if names := v.State().(*CookingState).FridgeNames; len(names) != 3 {
		t.Fatalf("expected 3 fridge names, got %v", names)
	}

	v.UseFridge()
	got := v.State().(*CookingState).Ingredients
	if strings.Count(got, ", ") != 2 || !strings.Contains(got, "Tomatensauce") {
		t.Errorf("unexpected ingredients %q", got)
	}

	v.SetInput("Eier, Tomaten", "")
	e.gw.reply = "Shakshuka"
	e.gw.title = "Shakshuka"
	if err := v.GenerateRecipe(ctx); err != nil {
		t.Fatalf("GenerateRecipe failed: %v", err)
	}
	state := v.State().(*CookingState)
	if state.Response != "Shakshuka" || state.Loading {
		t.Errorf("unexpected state %+v", state)
	}
	if len(state.FridgeNames) != 1 || state.FridgeNames[0] != "Tomatensauce" {
		t.Errorf("expected only Tomatensauce left, got %v", state.FridgeNames)
	}

	if err := v.SaveRecipe(ctx); err != nil {
		t.Fatalf("SaveRecipe failed: %v", err)
	}
	recipes := v.State().(*CookingState).Recipes
	if len(recipes) != 1 || recipes[0].Title != "Shakshuka" {
		t.Fatalf("unexpected recipes %+v", recipes)
	}
	if err := v.DeleteRecipe(ctx, recipes[0].ID); err != nil {
		t.Fatalf("DeleteRecipe failed: %v", err)
	}
	if n := len(v.State().(*CookingState).Recipes); n != 0 {
		t.Errorf("expected no recipes, got %d", n)
	}
}

func TestCookingViewErrorTextIsNotSaveable(t *testing.T) {
	e := setup(t)
	e.signIn("u")
	e.gw.err = errors.New("down")
	v := open(t, e, CookingName, &recorder{}).(*CookingView)
	ctx := context.Background()

	v.SetInput("Reis", "")
	if err := v.GenerateRecipe(ctx); err == nil {
		t.Fatal("expected an error")
	}
	if got := v.State().(*CookingState).Response; got != "Fehler bei der Anfrage." {
		t.Errorf("unexpected response %q", got)
	}
	if err := v.SaveRecipe(ctx); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestCookingViewShoppingToGrocery(t *testing.T) {
	e := setup(t)
	e.signIn("u")
	e.gw.reply = "- Mehl\n- Zucker"
	e.gw.ingredients = []string{"Mehl", "Zucker"}
	v := open(t, e, CookingName, &recorder{}).(*CookingView)
	grocery := open(t, e, GroceryName, &recorder{})
	ctx := context.Background()

	v.SetInput("", "Kuchen")
	if err := v.GenerateShoppingList(ctx); err != nil {
		t.Fatalf("GenerateShoppingList failed: %v", err)
	}
	if got := v.State().(*CookingState).RecipeIngredients; len(got) != 2 {
		t.Fatalf("unexpected ingredients %v", got)
	}

	if err := v.AddToGroceryList(ctx); err != nil {
		t.Fatalf("AddToGroceryList failed: %v", err)
	}
	if got := v.State().(*CookingState).RecipeIngredients; len(got) != 0 {
		t.Errorf("expected the parsed list to be cleared, got %v", got)
	}
	waitFor(t, "the grocery items", func() bool { return len(grocery.State().(*GroceryState).Items) == 2 })
}

func TestCloseBeforePendingReply(t *testing.T) {
	tests := []struct {
		name string
		view string
		prep func(View)
		run  func(context.Context, View) error
	}{
		{
			name: "cooking",
			view: CookingName,
			prep: func(v View) { v.(*CookingView).SetInput("Reis", "") },
			run:  func(ctx context.Context, v View) error { return v.(*CookingView).GenerateRecipe(ctx) },
		},
		{
			name: "fitness",
			view: FitnessName,
			prep: func(v View) { v.(*FitnessView).SetInput("Kraft", "2 Wochen", "2025-05-01") },
			run:  func(ctx context.Context, v View) error { return v.(*FitnessView).Generate(ctx) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			e.signIn("u")
			e.gw.reply = "spät"
			e.gw.release = make(chan struct{})
			e.gw.entered = make(chan struct{}, 1)

			rec := &recorder{}
			v := open(t, e, tt.view, rec)
			tt.prep(v)

			done := make(chan error, 1)
			go func() { done <- tt.run(context.Background(), v) }()

			<-e.gw.entered
			before := v.State()
			v.Close()
			calls := rec.calls.Load()
			close(e.gw.release)

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("request never returned")
			}

			if rec.calls.Load() != calls {
				t.Error("listener called after Close")
			}
			after := v.State()
			switch s := after.(type) {
			case *CookingState:
				if s.Response != before.(*CookingState).Response || s.Response == "spät" {
					t.Errorf("state changed after Close: %+v", s)
				}
			case *FitnessState:
				if s.Plan != before.(*FitnessState).Plan || s.Plan == "spät" {
					t.Errorf("state changed after Close: %+v", s)
				}
			}
		})
	}
}

func TestFitnessViewFlow(t *testing.T) {
	e := setup(t)
	e.signIn("u")
	e.gw.reply = "3x Laufen"
	v := open(t, e, FitnessName, &recorder{}).(*FitnessView)
	cal := open(t, e, CalendarName, &recorder{})
	ctx := context.Background()

	if err := v.Save(ctx); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput before generating, got %v", err)
	}

	v.SetInput("Laufen", "4 Wochen", "2025-05-01")
	if err := v.Generate(ctx); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := v.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	state := v.State().(*FitnessState)
	if !state.Saved || state.Goal != "" || len(state.Plans) != 1 {
		t.Errorf("unexpected state after save %+v", state)
	}
	waitFor(t, "the training", func() bool { return countAppointments(cal) == 1 })

	if err := v.Load(state.Plans[0].ID); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s := v.State().(*FitnessState); s.Goal != "Laufen" || s.Plan != "3x Laufen" || s.Date != "2025-05-01" {
		t.Errorf("unexpected loaded state %+v", s)
	}
	if err := v.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := v.Delete(ctx, state.Plans[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n := len(v.State().(*FitnessState).Plans); n != 0 {
		t.Errorf("expected no plans, got %d", n)
	}
}
