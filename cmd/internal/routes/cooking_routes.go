package routes

import (
	"context"
	"github.com/labstack/echo/v4"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
	"net/http"
	"strings"
)

type CookingService interface {
	GenerateRecipe(ctx context.Context, req *service.CookingRequest, uid string) (*service.RecipeReplyResponse, apierror.ErrorResponse)
	GenerateShoppingList(ctx context.Context, req *service.CookingRequest, uid string) (*service.ShoppingListResponse, apierror.ErrorResponse)
	SaveRecipe(ctx context.Context, req *service.SaveRecipeRequest, uid string) (*service.RecipeResponse, apierror.ErrorResponse)
	GetRecipes(ctx context.Context, uid string) ([]*service.RecipeResponse, apierror.ErrorResponse)
	DeleteRecipe(ctx context.Context, id, uid string) apierror.ErrorResponse
	AddToGrocery(ctx context.Context, req *service.AddToGroceryRequest, uid string) ([]*service.GroceryItemResponse, apierror.ErrorResponse)
	FridgeIngredients(ctx context.Context, uid string) (*service.FridgeIngredientsResponse, apierror.ErrorResponse)
}

type DefaultCookingRoute struct {
	CookingService CookingService
}

func NewCookingDefault(cookingService CookingService) *DefaultCookingRoute {
	return &DefaultCookingRoute{CookingService: cookingService}
}

func (r *DefaultCookingRoute) GenerateRecipe(c echo.Context) error {
	var req service.CookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.CookingService.GenerateRecipe(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultCookingRoute) GenerateShoppingList(c echo.Context) error {
	var req service.CookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.CookingService.GenerateShoppingList(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultCookingRoute) AddToGrocery(c echo.Context) error {
	var req service.AddToGroceryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	items, apierr := r.CookingService.AddToGrocery(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"items": items}
	return c.JSON(http.StatusCreated, &resp)
}

func (r *DefaultCookingRoute) FridgeIngredients(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.CookingService.FridgeIngredients(requestContext(c), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *DefaultCookingRoute) GetRecipes(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	recipes, apierr := r.CookingService.GetRecipes(requestContext(c), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"recipes": recipes}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCookingRoute) SaveRecipe(c echo.Context) error {
	var req service.SaveRecipeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	recipe, apierr := r.CookingService.SaveRecipe(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, recipe)
}

func (r *DefaultCookingRoute) DeleteRecipe(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	apierr := r.CookingService.DeleteRecipe(requestContext(c), id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
