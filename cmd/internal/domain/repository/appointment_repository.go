package repository

import (
	"context"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
)

type DefaultAppointmentRepository struct {
	c *collection[*entity.Appointment]
}

func NewAppointmentRepository(store *docstore.Store) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{c: &collection[*entity.Appointment]{
		store:  store,
		name:   entity.CollectionAppointments,
		decode: entity.AppointmentFromDocument,
	}}
}

// Save inserts the appointment and fills in its ID.
func (a *DefaultAppointmentRepository) Save(ctx context.Context, appt *entity.Appointment) error {
	id, err := a.c.create(ctx, appt.UID, appt.Fields())
	if err != nil {
		return err
	}
	appt.ID = id
	return nil
}

func (a *DefaultAppointmentRepository) FindByID(ctx context.Context, uid, id string) (*entity.Appointment, error) {
	appt, _, err := a.c.findByID(ctx, uid, id)
	return appt, err
}

func (a *DefaultAppointmentRepository) FindByUserID(ctx context.Context, uid string) ([]*entity.Appointment, error) {
	return a.c.find(ctx, docstore.Filter{UID: uid})
}

// FindByText returns the appointments whose text is exactly text.
func (a *DefaultAppointmentRepository) FindByText(ctx context.Context, uid, text string) ([]*entity.Appointment, error) {
	return a.c.find(ctx, docstore.Filter{UID: uid, Equals: map[string]any{"text": text}})
}

func (a *DefaultAppointmentRepository) Delete(ctx context.Context, uid, id string) error {
	return a.c.delete(ctx, uid, id)
}

func (a *DefaultAppointmentRepository) Subscribe(ctx context.Context, uid string, fn func([]*entity.Appointment)) (*docstore.Subscription, error) {
	return a.c.subscribe(ctx, uid, fn)
}
