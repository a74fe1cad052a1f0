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

type FitnessGateway interface {
	FitnessPlan(ctx context.Context, goal, duration string) (string, error)
}

type FitnessPlanRepository interface {
	FindByUserID(ctx context.Context, uid string) ([]*entity.FitnessPlan, error)
	Delete(ctx context.Context, uid, id string) error
}

// FitnessRules saves a plan together with its training appointment.
type FitnessRules interface {
	SaveFitnessPlan(ctx context.Context, plan *entity.FitnessPlan) (*entity.Appointment, error)
}

type FitnessGenerateRequest struct {
	Goal     string `json:"goal" validate:"required,max=128"`
	Duration string `json:"duration" validate:"max=64"`
}

type FitnessReplyResponse struct {
	Reply string `json:"reply"`
}

type SavePlanRequest struct {
	Goal string `json:"goal" validate:"required,max=128"`
	Plan string `json:"plan" validate:"required"`
	Date string `json:"date" validate:"required,iso8601"`
}

type FitnessPlanResponse struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Content  string               `json:"content"`
	Date     string               `json:"date"`
	Training *AppointmentResponse `json:"training,omitempty"`
}

type DefaultFitnessService struct {
	Gateway  FitnessGateway
	Rules    FitnessRules
	PlanRepo FitnessPlanRepository
	Validate *validator.Validate
}

func NewFitnessService(gateway FitnessGateway, rules FitnessRules, planRepo FitnessPlanRepository, validate *validator.Validate) *DefaultFitnessService {
	return &DefaultFitnessService{Gateway: gateway, Rules: rules, PlanRepo: planRepo, Validate: validate}
}

func (f *DefaultFitnessService) GeneratePlan(ctx context.Context, req *FitnessGenerateRequest, uid string) (*FitnessReplyResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := f.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	reply, err := f.Gateway.FitnessPlan(ctx, req.Goal, req.Duration)
	if err != nil {
		log.Errorf("failed to generate fitness plan for %s: %v", uid, err)
		return nil, apierror.FitnessGenerateError
	}
	if reply == "" {
		return nil, apierror.FitnessNoReplyError
	}
	return &FitnessReplyResponse{Reply: reply}, nil
}

// SavePlan stores the plan under its goal and books a training on its date.
// Saving the same plan twice books two trainings.
func (f *DefaultFitnessService) SavePlan(ctx context.Context, req *SavePlanRequest, uid string) (*FitnessPlanResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := f.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	plan := &entity.FitnessPlan{
		UID:     uid,
		Title:   req.Goal,
		Content: req.Plan,
		Date:    req.Date,
	}

	training, err := f.Rules.SaveFitnessPlan(ctx, plan)
	if err != nil {
		log.Errorf("failed to save fitness plan for %s: %v", uid, err)
		return nil, apierror.StoreWriteError
	}

	resp := toFitnessPlanResponse(plan)
	resp.Training = toAppointmentResponse(training)
	return resp, nil
}

func (f *DefaultFitnessService) GetPlans(ctx context.Context, uid string) ([]*FitnessPlanResponse, apierror.ErrorResponse) {
	plans, err := f.PlanRepo.FindByUserID(ctx, uid)
	if err != nil {
		log.Errorf("failed to find fitness plans for user %s: %v", uid, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*FitnessPlanResponse, len(plans))
	for i, plan := range plans {
		resp[i] = toFitnessPlanResponse(plan)
	}
	return resp, nil
}

func (f *DefaultFitnessService) DeletePlan(ctx context.Context, id, uid string) apierror.ErrorResponse {
	err := f.PlanRepo.Delete(ctx, uid, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFoundError
	}
	if err != nil {
		log.Errorf("failed to delete fitness plan %s: %v", id, err)
		return apierror.StoreWriteError
	}
	return nil
}

func toFitnessPlanResponse(plan *entity.FitnessPlan) *FitnessPlanResponse {
	return &FitnessPlanResponse{
		ID:      plan.ID,
		Title:   plan.Title,
		Content: plan.Content,
		Date:    plan.Date,
	}
}
