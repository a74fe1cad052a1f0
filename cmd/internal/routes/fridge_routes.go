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

type FridgeService interface {
	GetItems(ctx context.Context, uid string) ([]*service.FridgeItemResponse, apierror.ErrorResponse)
	AddItem(ctx context.Context, req *service.FridgeItemRequest, uid string) (*service.FridgeItemResponse, apierror.ErrorResponse)
	RemoveItem(ctx context.Context, id, uid string) (*service.RemoveFridgeItemResponse, apierror.ErrorResponse)
}

type GroceryService interface {
	GetItems(ctx context.Context, uid string) ([]*service.GroceryItemResponse, apierror.ErrorResponse)
	AddItem(ctx context.Context, req *service.GroceryItemRequest, uid string) (*service.GroceryItemResponse, apierror.ErrorResponse)
	RemoveItem(ctx context.Context, id, uid string) apierror.ErrorResponse
}

type DefaultFridgeRoute struct {
	FridgeService  FridgeService
	GroceryService GroceryService
}

func NewFridgeDefault(fridgeService FridgeService, groceryService GroceryService) *DefaultFridgeRoute {
	return &DefaultFridgeRoute{FridgeService: fridgeService, GroceryService: groceryService}
}

func (f *DefaultFridgeRoute) GetFridge(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	items, apierr := f.FridgeService.GetItems(requestContext(c), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"items": items}
	return c.JSON(http.StatusOK, &resp)
}

func (f *DefaultFridgeRoute) AddToFridge(c echo.Context) error {
	var req service.FridgeItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	item, apierr := f.FridgeService.AddItem(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, item)
}

func (f *DefaultFridgeRoute) RemoveFromFridge(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := f.FridgeService.RemoveItem(requestContext(c), id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (f *DefaultFridgeRoute) GetGrocery(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	items, apierr := f.GroceryService.GetItems(requestContext(c), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"items": items}
	return c.JSON(http.StatusOK, &resp)
}

func (f *DefaultFridgeRoute) AddToGrocery(c echo.Context) error {
	var req service.GroceryItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	item, apierr := f.GroceryService.AddItem(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, item)
}

func (f *DefaultFridgeRoute) RemoveFromGrocery(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	apierr := f.GroceryService.RemoveItem(requestContext(c), id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
