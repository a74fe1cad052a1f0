package routes

import (
	"context"
	"github.com/labstack/echo/v4"
	"lifemate/cmd/internal/calendar"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
	"net/http"
	"strconv"
	"strings"
)

type AppointmentService interface {
	GetAppointments(ctx context.Context, uid string) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	CreateAppointment(ctx context.Context, req *service.AppointmentRequest, uid string) (*service.AppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(ctx context.Context, id, uid string) apierror.ErrorResponse
	GetCalendar(ctx context.Context, uid string, offset int) (*calendar.Week, apierror.ErrorResponse)
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appts, apierr := a.AppointmentService.GetAppointments(requestContext(c), data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.CreateAppointment(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	serr := a.AppointmentService.DeleteAppointment(requestContext(c), id, data.Sub)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}

// GetCalendar returns the week ?offset=N weeks from the current one.
func (a *DefaultAppointmentRoute) GetCalendar(c echo.Context) error {
	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("offset", "int"))
		}
		offset = parsed
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	week, apierr := a.AppointmentService.GetCalendar(requestContext(c), data.Sub, offset)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, week)
}
