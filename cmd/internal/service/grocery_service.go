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
)

type GroceryRepository interface {
	Save(ctx context.Context, item *entity.GroceryItem) error
	FindByUserID(ctx context.Context, uid string) ([]*entity.GroceryItem, error)
	Delete(ctx context.Context, uid, id string) error
}

type GroceryItemRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

type GroceryItemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DefaultGroceryService struct {
	GroceryRepo GroceryRepository
	Validate    *validator.Validate
}

func NewGroceryService(groceryRepo GroceryRepository, validate *validator.Validate) *DefaultGroceryService {
	return &DefaultGroceryService{GroceryRepo: groceryRepo, Validate: validate}
}

func (g *DefaultGroceryService) GetItems(ctx context.Context, uid string) ([]*GroceryItemResponse, apierror.ErrorResponse) {
	items, err := g.GroceryRepo.FindByUserID(ctx, uid)
	if err != nil {
		log.Errorf("failed to find grocery items for user %s: %v", uid, err)
		return nil, apierror.InternalServerError
	}
	return toGroceryItemResponses(items), nil
}

func (g *DefaultGroceryService) AddItem(ctx context.Context, req *GroceryItemRequest, uid string) (*GroceryItemResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := g.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	item := &entity.GroceryItem{UID: uid, Name: req.Name}
	if err := g.GroceryRepo.Save(ctx, item); err != nil {
		log.Errorf("failed to save grocery item: %v", err)
		return nil, apierror.StoreWriteError
	}
	return toGroceryItemResponse(item), nil
}

func (g *DefaultGroceryService) RemoveItem(ctx context.Context, id, uid string) apierror.ErrorResponse {
	err := g.GroceryRepo.Delete(ctx, uid, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFoundError
	}
	if err != nil {
		log.Errorf("failed to delete grocery item %s: %v", id, err)
		return apierror.StoreWriteError
	}
	return nil
}

func toGroceryItemResponse(item *entity.GroceryItem) *GroceryItemResponse {
	return &GroceryItemResponse{ID: item.ID, Name: item.Name}
}

func toGroceryItemResponses(items []*entity.GroceryItem) []*GroceryItemResponse {
	resp := make([]*GroceryItemResponse, len(items))
	for i, item := range items {
		resp[i] = toGroceryItemResponse(item)
	}
	return resp
}
