package views

import (
	"context"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/session"
	"lifemate/cmd/internal/utils/apierror"
	"strings"
)

type CookingActions interface {
	GenerateRecipe(ctx context.Context, req *service.CookingRequest, uid string) (*service.RecipeReplyResponse, apierror.ErrorResponse)
	GenerateShoppingList(ctx context.Context, req *service.CookingRequest, uid string) (*service.ShoppingListResponse, apierror.ErrorResponse)
	SaveRecipe(ctx context.Context, req *service.SaveRecipeRequest, uid string) (*service.RecipeResponse, apierror.ErrorResponse)
	GetRecipes(ctx context.Context, uid string) ([]*service.RecipeResponse, apierror.ErrorResponse)
	DeleteRecipe(ctx context.Context, id, uid string) apierror.ErrorResponse
	AddToGrocery(ctx context.Context, req *service.AddToGroceryRequest, uid string) ([]*service.GroceryItemResponse, apierror.ErrorResponse)
	FridgeIngredients(ctx context.Context, uid string) (*service.FridgeIngredientsResponse, apierror.ErrorResponse)
}

type CookingState struct {
	SignedIn          bool                      `json:"signed_in"`
	Ingredients       string                    `json:"ingredients"`
	DesiredMeal       string                    `json:"desired_meal"`
	Response          string                    `json:"response"`
	Loading           bool                      `json:"loading"`
	FridgeNames       []string                  `json:"fridge_names"`
	RecipeIngredients []string                  `json:"recipe_ingredients"`
	Recipes           []*service.RecipeResponse `json:"recipes"`
}

// CookingView reads the fridge and the saved recipes once per sign-in and
// keeps the last generated text. Only a real reply can be saved as a
// recipe, never an error message.
type CookingView struct {
	base
	actions CookingActions

	ingredients       string
	desiredMeal       string
	response          string
	reply             string
	loading           bool
	fridgeNames       []string
	recipeIngredients []string
	recipes           []*service.RecipeResponse
}

func NewCookingView(sess *session.Session, actions CookingActions, listener Listener) *CookingView {
	v := &CookingView{actions: actions}
	v.start(sess, listener, v.snapshotState, v.open)
	return v
}

func (v *CookingView) open(gen uint64, uid string) []func() {
	v.update(gen, func() {
		v.ingredients, v.desiredMeal = "", ""
		v.response, v.reply = "", ""
		v.loading = false
		v.fridgeNames = nil
		v.recipeIngredients = nil
		v.recipes = nil
	})
	if uid == "" {
		return nil
	}

	fridge, apierr := v.actions.FridgeIngredients(v.ctx, uid)
	if apierr != nil {
		log.Warnf("failed to load fridge of %s for cooking: %v", uid, apierr)
	} else {
		v.update(gen, func() { v.fridgeNames = fridge.Names })
	}

	v.reloadRecipes(gen, uid)
	return nil
}

func (v *CookingView) reloadRecipes(gen uint64, uid string) {
	recipes, apierr := v.actions.GetRecipes(v.ctx, uid)
	if apierr != nil {
		log.Warnf("failed to load recipes of %s: %v", uid, apierr)
		return
	}
	v.update(gen, func() { v.recipes = recipes })
}

func (v *CookingView) snapshotState() any {
	return &CookingState{
		SignedIn:          v.signedIn(),
		Ingredients:       v.ingredients,
		DesiredMeal:       v.desiredMeal,
		Response:          v.response,
		Loading:           v.loading,
		FridgeNames:       append([]string(nil), v.fridgeNames...),
		RecipeIngredients: append([]string(nil), v.recipeIngredients...),
		Recipes:           append([]*service.RecipeResponse(nil), v.recipes...),
	}
}

func (v *CookingView) SetInput(ingredients, desiredMeal string) {
	v.change(func() {
		v.ingredients = ingredients
		v.desiredMeal = desiredMeal
	})
}

// UseFridge copies the fridge contents into the ingredients field.
func (v *CookingView) UseFridge() {
	v.change(func() {
		if len(v.fridgeNames) > 0 {
			v.ingredients = service.JoinIngredients(v.fridgeNames)
		}
	})
}

// begin marks a request as running and returns its inputs.
func (v *CookingView) begin(gen uint64) (string, string) {
	var ingredients, desiredMeal string
	v.update(gen, func() {
		ingredients, desiredMeal = v.ingredients, v.desiredMeal
		v.loading = true
		v.response, v.reply = "", ""
		v.recipeIngredients = nil
	})
	return ingredients, desiredMeal
}

// GenerateRecipe asks for a recipe. Fridge items named in the ingredients
// are used up when a reply arrives.
func (v *CookingView) GenerateRecipe(ctx context.Context) error {
	uid, gen, err := v.current()
	if err != nil {
		return err
	}
	ingredients, desiredMeal := v.begin(gen)
	if strings.TrimSpace(ingredients) == "" && strings.TrimSpace(desiredMeal) == "" {
		v.update(gen, func() { v.loading = false })
		return ErrEmptyInput
	}

	resp, apierr := v.actions.GenerateRecipe(ctx, &service.CookingRequest{Ingredients: ingredients, DesiredMeal: desiredMeal}, uid)
	v.update(gen, func() {
		v.loading = false
		if apierr != nil {
			v.response = apierr.Error()
			return
		}
		v.response, v.reply = resp.Reply, resp.Reply
		v.fridgeNames = without(v.fridgeNames, resp.Used)
	})
	if apierr != nil {
		return apierr
	}
	return nil
}

// GenerateShoppingList asks for a shopping list and keeps its parsed
// ingredients for AddToGroceryList.
func (v *CookingView) GenerateShoppingList(ctx context.Context) error {
	uid, gen, err := v.current()
	if err != nil {
		return err
	}
	ingredients, desiredMeal := v.begin(gen)
	if strings.TrimSpace(ingredients) == "" && strings.TrimSpace(desiredMeal) == "" {
		v.update(gen, func() { v.loading = false })
		return ErrEmptyInput
	}

	resp, apierr := v.actions.GenerateShoppingList(ctx, &service.CookingRequest{Ingredients: ingredients, DesiredMeal: desiredMeal}, uid)
	v.update(gen, func() {
		v.loading = false
		if apierr != nil {
			v.response = apierr.Error()
			return
		}
		v.response, v.reply = resp.Reply, resp.Reply
		v.recipeIngredients = resp.Ingredients
	})
	if apierr != nil {
		return apierr
	}
	return nil
}

func (v *CookingView) SaveRecipe(ctx context.Context) error {
	uid, gen, err := v.current()
	if err != nil {
		return err
	}
	var reply string
	v.read(func() { reply = v.reply })
	if reply == "" {
		return ErrEmptyInput
	}

	if _, apierr := v.actions.SaveRecipe(ctx, &service.SaveRecipeRequest{Content: reply}, uid); apierr != nil {
		return apierr
	}
	v.reloadRecipes(gen, uid)
	return nil
}

func (v *CookingView) DeleteRecipe(ctx context.Context, id string) error {
	uid, gen, err := v.current()
	if err != nil {
		return err
	}
	if apierr := v.actions.DeleteRecipe(ctx, id, uid); apierr != nil {
		return apierr
	}

	v.update(gen, func() {
		kept := make([]*service.RecipeResponse, 0, len(v.recipes))
		for _, r := range v.recipes {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		v.recipes = kept
	})
	return nil
}

// AddToGroceryList moves the parsed shopping list onto the grocery list.
func (v *CookingView) AddToGroceryList(ctx context.Context) error {
	uid, gen, err := v.current()
	if err != nil {
		return err
	}
	var names []string
	v.read(func() { names = append(names, v.recipeIngredients...) })
	if len(names) == 0 {
		return ErrEmptyInput
	}

	if _, apierr := v.actions.AddToGrocery(ctx, &service.AddToGroceryRequest{Ingredients: names}, uid); apierr != nil {
		return apierr
	}
	v.update(gen, func() { v.recipeIngredients = nil })
	return nil
}

func without(names, remove []string) []string {
	if len(remove) == 0 {
		return names
	}
	gone := make(map[string]bool, len(remove))
	for _, name := range remove {
		gone[name] = true
	}
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if !gone[name] {
			kept = append(kept, name)
		}
	}
	return kept
}
