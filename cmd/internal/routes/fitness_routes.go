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

type FitnessService interface {
	GeneratePlan(ctx context.Context, req *service.FitnessGenerateRequest, uid string) (*service.FitnessReplyResponse, apierror.ErrorResponse)
	SavePlan(ctx context.Context, req *service.SavePlanRequest, uid string) (*service.FitnessPlanResponse, apierror.ErrorResponse)
	GetPlans(ctx context.Context, uid string) ([]*service.FitnessPlanResponse, apierror.ErrorResponse)
	DeletePlan(ctx context.Context, id, uid string) apierror.ErrorResponse
}

type DefaultFitnessRoute struct {
	FitnessService FitnessService
}

func NewFitnessDefault(fitnessService FitnessService) *DefaultFitnessRoute {
	return &DefaultFitnessRoute{FitnessService: fitnessService}
}

func (f *DefaultFitnessRoute) GeneratePlan(c echo.Context) error {
	var req service.FitnessGenerateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := f.FitnessService.GeneratePlan(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (f *DefaultFitnessRoute) GetPlans(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	plans, apierr := f.FitnessService.GetPlans(requestContext(c), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"plans": plans}
	return c.JSON(http.StatusOK, &resp)
}

func (f *DefaultFitnessRoute) SavePlan(c echo.Context) error {
	var req service.SavePlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	plan, apierr := f.FitnessService.SavePlan(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, plan)
}

func (f *DefaultFitnessRoute) DeletePlan(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	apierr := f.FitnessService.DeletePlan(requestContext(c), id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
