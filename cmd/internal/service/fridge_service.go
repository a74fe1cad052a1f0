package service

import (
	"context"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/consistency"
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
)

type FridgeRepository interface {
	FindByUserID(ctx context.Context, uid string) ([]*entity.FridgeItem, error)
}

// FridgeRules keeps the calendar in step with the fridge.
type FridgeRules interface {
	AddFridgeItem(ctx context.Context, item *entity.FridgeItem) (*entity.Appointment, error)
	RemoveFridgeItem(ctx context.Context, uid, id string) (int, error)
}

type FridgeItemRequest struct {
	Name       string  `json:"name" validate:"required,max=128"`
	ExpiryDate *string `json:"expiry_date" validate:"omitempty,iso8601"`
}

type FridgeItemResponse struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	ExpiryDate *string              `json:"expiry_date"`
	Reminder   *AppointmentResponse `json:"reminder,omitempty"`
}

type RemoveFridgeItemResponse struct {
	RemovedReminders int `json:"removed_reminders"`
}

type DefaultFridgeService struct {
	FridgeRepo FridgeRepository
	Rules      FridgeRules
	Validate   *validator.Validate
}

func NewFridgeService(fridgeRepo FridgeRepository, rules FridgeRules, validate *validator.Validate) *DefaultFridgeService {
	return &DefaultFridgeService{FridgeRepo: fridgeRepo, Rules: rules, Validate: validate}
}

func (f *DefaultFridgeService) GetItems(ctx context.Context, uid string) ([]*FridgeItemResponse, apierror.ErrorResponse) {
	items, err := f.FridgeRepo.FindByUserID(ctx, uid)
	if err != nil {
		log.Errorf("failed to find fridge items for user %s: %v", uid, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*FridgeItemResponse, len(items))
	for i, item := range items {
		response[i] = toFridgeItemResponse(item)
	}
	return response, nil
}

// AddItem stores the item and, with an expiry date, its calendar reminder.
func (f *DefaultFridgeService) AddItem(ctx context.Context, req *FridgeItemRequest, uid string) (*FridgeItemResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := f.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	item := &entity.FridgeItem{
		UID:        uid,
		Name:       req.Name,
		ExpiryDate: req.ExpiryDate,
	}

	reminder, err := f.Rules.AddFridgeItem(ctx, item)
	if err != nil {
		log.Errorf("failed to add fridge item %q for %s: %v", req.Name, uid, err)
		return nil, apierror.StoreWriteError
	}

	resp := toFridgeItemResponse(item)
	if reminder != nil {
		resp.Reminder = toAppointmentResponse(reminder)
	}
	return resp, nil
}

func (f *DefaultFridgeService) RemoveItem(ctx context.Context, id, uid string) (*RemoveFridgeItemResponse, apierror.ErrorResponse) {
	removed, err := f.Rules.RemoveFridgeItem(ctx, uid, id)
	if errors.Is(err, consistency.ErrNotFound) {
		return nil, apierror.NotFoundError
	}
	if err != nil {
		log.Errorf("failed to remove fridge item %s: %v", id, err)
		return nil, apierror.StoreWriteError
	}
	return &RemoveFridgeItemResponse{RemovedReminders: removed}, nil
}

func toFridgeItemResponse(item *entity.FridgeItem) *FridgeItemResponse {
	resp := &FridgeItemResponse{
		ID:   item.ID,
		Name: item.Name,
	}
	if item.HasExpiry() {
		resp.ExpiryDate = item.ExpiryDate
	}
	return resp
}
