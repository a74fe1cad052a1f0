package service

import (
	"context"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/domain/repository"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
	"strings"
)

type CookingGateway interface {
	Recipe(ctx context.Context, ingredients, desiredMeal string) (string, error)
	ShoppingList(ctx context.Context, ingredients, desiredMeal string) (string, error)
	ParseIngredients(ctx context.Context, text string) ([]string, error)
	Title(ctx context.Context, text string) (string, error)
}

// CookingRules moves stock between the fridge and the grocery list.
type CookingRules interface {
	DepleteFridge(ctx context.Context, uid, ingredients string) ([]*entity.FridgeItem, error)
	PromoteToGrocery(ctx context.Context, uid string, names []string) ([]*entity.GroceryItem, error)
}

type RecipeRepository interface {
	Save(ctx context.Context, recipe *entity.Recipe) error
	FindByUserID(ctx context.Context, uid string) ([]*entity.Recipe, error)
	Delete(ctx context.Context, uid, id string) error
}

type CookingRequest struct {
	Ingredients string `json:"ingredients" validate:"required_without=DesiredMeal,max=2000"`
	DesiredMeal string `json:"desired_meal" validate:"max=256"`
}

type RecipeReplyResponse struct {
	Reply string   `json:"reply"`
	Used  []string `json:"used"`
}

type ShoppingListResponse struct {
	Reply       string   `json:"reply"`
	Ingredients []string `json:"ingredients"`
}

type SaveRecipeRequest struct {
	Content string `json:"content"`
}

type RecipeResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AddToGroceryRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,max=128"`
}

type FridgeIngredientsResponse struct {
	Names       []string `json:"names"`
	Ingredients string   `json:"ingredients"`
}

type DefaultCookingService struct {
	Gateway    CookingGateway
	Rules      CookingRules
	RecipeRepo RecipeRepository
	FridgeRepo FridgeRepository
	Validate   *validator.Validate
}

func NewCookingService(gateway CookingGateway, rules CookingRules, recipeRepo RecipeRepository, fridgeRepo FridgeRepository, validate *validator.Validate) *DefaultCookingService {
	return &DefaultCookingService{
		Gateway:    gateway,
		Rules:      rules,
		RecipeRepo: recipeRepo,
		FridgeRepo: fridgeRepo,
		Validate:   validate,
	}
}

// GenerateRecipe asks for a recipe and then takes everything it used out of
// the fridge. Nothing is taken out when the reply is empty.
func (c *DefaultCookingService) GenerateRecipe(ctx context.Context, req *CookingRequest, uid string) (*RecipeReplyResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := c.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	reply, err := c.Gateway.Recipe(ctx, req.Ingredients, req.DesiredMeal)
	if err != nil {
		log.Errorf("failed to generate recipe for %s: %v", uid, err)
		return nil, apierror.CookingRequestError
	}
	if reply == "" {
		return nil, apierror.CookingNoReplyError
	}

	resp := &RecipeReplyResponse{Reply: reply, Used: []string{}}
	if req.Ingredients == "" {
		return resp, nil
	}

	used, err := c.Rules.DepleteFridge(ctx, uid, req.Ingredients)
	if err != nil {
		log.Errorf("failed to take used ingredients out of the fridge of %s: %v", uid, err)
		return nil, apierror.CookingRequestError
	}
	for _, item := range used {
		resp.Used = append(resp.Used, item.Name)
	}
	return resp, nil
}

// GenerateShoppingList asks for a shopping list and has it split into
// single ingredients.
func (c *DefaultCookingService) GenerateShoppingList(ctx context.Context, req *CookingRequest, uid string) (*ShoppingListResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := c.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	reply, err := c.Gateway.ShoppingList(ctx, req.Ingredients, req.DesiredMeal)
	if err != nil {
		log.Errorf("failed to generate shopping list for %s: %v", uid, err)
		return nil, apierror.CookingRequestError
	}
	if reply == "" {
		return nil, apierror.CookingNoReplyError
	}

	ingredients, err := c.Gateway.ParseIngredients(ctx, reply)
	if err != nil {
		log.Errorf("failed to parse shopping list for %s: %v", uid, err)
		return nil, apierror.CookingRequestError
	}
	if ingredients == nil {
		ingredients = []string{}
	}
	return &ShoppingListResponse{Reply: reply, Ingredients: ingredients}, nil
}

// SaveRecipe stores content under a generated title. A failed or empty
// title falls back to the placeholder.
func (c *DefaultCookingService) SaveRecipe(ctx context.Context, req *SaveRecipeRequest, uid string) (*RecipeResponse, apierror.ErrorResponse) {
	// content keeps its formatting, so it is not sanitized
	if strings.TrimSpace(req.Content) == "" {
		return nil, apierror.NewMissingParamError("content")
	}

	title, err := c.Gateway.Title(ctx, req.Content)
	if err != nil {
		log.Warnf("failed to generate recipe title for %s: %v", uid, err)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = entity.UntitledRecipe
	}

	recipe := &entity.Recipe{UID: uid, Title: title, Content: req.Content}
	if err := c.RecipeRepo.Save(ctx, recipe); err != nil {
		log.Errorf("failed to save recipe for %s: %v", uid, err)
		return nil, apierror.StoreWriteError
	}
	return toRecipeResponse(recipe), nil
}

func (c *DefaultCookingService) GetRecipes(ctx context.Context, uid string) ([]*RecipeResponse, apierror.ErrorResponse) {
	recipes, err := c.RecipeRepo.FindByUserID(ctx, uid)
	if err != nil {
		log.Errorf("failed to find recipes for user %s: %v", uid, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*RecipeResponse, len(recipes))
	for i, recipe := range recipes {
		resp[i] = toRecipeResponse(recipe)
	}
	return resp, nil
}

func (c *DefaultCookingService) DeleteRecipe(ctx context.Context, id, uid string) apierror.ErrorResponse {
	err := c.RecipeRepo.Delete(ctx, uid, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFoundError
	}
	if err != nil {
		log.Errorf("failed to delete recipe %s: %v", id, err)
		return apierror.StoreWriteError
	}
	return nil
}

// AddToGrocery puts every ingredient on the grocery list as its own entry.
func (c *DefaultCookingService) AddToGrocery(ctx context.Context, req *AddToGroceryRequest, uid string) ([]*GroceryItemResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := c.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	added, err := c.Rules.PromoteToGrocery(ctx, uid, req.Ingredients)
	if err != nil {
		log.Errorf("failed to add ingredients to the grocery list of %s: %v", uid, err)
		return nil, apierror.StoreWriteError
	}
	return toGroceryItemResponses(added), nil
}

// FridgeIngredients lists what is in the fridge, joined the way the
// ingredients field expects it.
func (c *DefaultCookingService) FridgeIngredients(ctx context.Context, uid string) (*FridgeIngredientsResponse, apierror.ErrorResponse) {
	items, err := c.FridgeRepo.FindByUserID(ctx, uid)
	if err != nil {
		log.Errorf("failed to find fridge items for user %s: %v", uid, err)
		return nil, apierror.InternalServerError
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return &FridgeIngredientsResponse{Names: names, Ingredients: JoinIngredients(names)}, nil
}

func JoinIngredients(names []string) string {
	return strings.Join(names, ", ")
}

func toRecipeResponse(recipe *entity.Recipe) *RecipeResponse {
	return &RecipeResponse{
		ID:      recipe.ID,
		Title:   recipe.Title,
		Content: recipe.Content,
	}
}
