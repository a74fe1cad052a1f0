package service

import (
	"context"
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/calendar"
	"lifemate/cmd/internal/domain/entity"
	"lifemate/cmd/internal/domain/repository"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
	"time"
)

type AppointmentRepository interface {
	Save(ctx context.Context, appt *entity.Appointment) error
	FindByUserID(ctx context.Context, uid string) ([]*entity.Appointment, error)
	Delete(ctx context.Context, uid, id string) error
}

type AppointmentRequest struct {
	Date string `json:"date" validate:"required,iso8601"`
	Text string `json:"text" validate:"required,max=256"`
}

type AppointmentResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	Validate        *validator.Validate
	Location        *time.Location
	Now             func() time.Time
}

func NewAppointmentService(apptRepo AppointmentRepository, validate *validator.Validate, loc *time.Location) *DefaultAppointmentService {
	return &DefaultAppointmentService{AppointmentRepo: apptRepo, Validate: validate, Location: loc, Now: time.Now}
}

func (a *DefaultAppointmentService) GetAppointments(ctx context.Context, uid string) ([]*AppointmentResponse, apierror.ErrorResponse) {
	appts, err := a.AppointmentRepo.FindByUserID(ctx, uid)
	if err != nil {
		log.Errorf("failed to find appointments for user %s: %v", uid, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) CreateAppointment(ctx context.Context, req *AppointmentRequest, uid string) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	appointment := &entity.Appointment{
		UID:  uid,
		Date: req.Date,
		Text: req.Text,
	}

	err := a.AppointmentRepo.Save(ctx, appointment)
	if err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return nil, apierror.StoreWriteError
	}
	return toAppointmentResponse(appointment), nil
}

func (a *DefaultAppointmentService) DeleteAppointment(ctx context.Context, id, uid string) apierror.ErrorResponse {
	err := a.AppointmentRepo.Delete(ctx, uid, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFoundError
	}
	if err != nil {
		log.Errorf("failed to delete appointment %s: %v", id, err)
		return apierror.StoreWriteError
	}
	return nil
}

// GetCalendar returns the week offset weeks away from the current one.
func (a *DefaultAppointmentService) GetCalendar(ctx context.Context, uid string, offset int) (*calendar.Week, apierror.ErrorResponse) {
	appts, err := a.AppointmentRepo.FindByUserID(ctx, uid)
	if err != nil {
		log.Errorf("failed to fetch appointments of %s for week %d: %v", uid, offset, err)
		return nil, apierror.InternalServerError
	}
	return calendar.Build(a.Now(), offset, appts, a.Location), nil
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:   appt.ID,
		Date: appt.Date,
		Text: appt.Text,
	}
}
