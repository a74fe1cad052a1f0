package repository

import (
	"context"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
)

type DefaultFitnessPlanRepository struct {
	c *collection[*entity.FitnessPlan]
}

func NewFitnessPlanRepository(store *docstore.Store) *DefaultFitnessPlanRepository {
	return &DefaultFitnessPlanRepository{c: &collection[*entity.FitnessPlan]{
		store:  store,
		name:   entity.CollectionFitnessPlans,
		decode: entity.FitnessPlanFromDocument,
	}}
}

func (f *DefaultFitnessPlanRepository) Save(ctx context.Context, plan *entity.FitnessPlan) error {
	id, err := f.c.create(ctx, plan.UID, plan.Fields())
	if err != nil {
		return err
	}
	plan.ID = id
	return nil
}

func (f *DefaultFitnessPlanRepository) FindByID(ctx context.Context, uid, id string) (*entity.FitnessPlan, error) {
	plan, _, err := f.c.findByID(ctx, uid, id)
	return plan, err
}

func (f *DefaultFitnessPlanRepository) FindByUserID(ctx context.Context, uid string) ([]*entity.FitnessPlan, error) {
	return f.c.find(ctx, docstore.Filter{UID: uid})
}

func (f *DefaultFitnessPlanRepository) Delete(ctx context.Context, uid, id string) error {
	return f.c.delete(ctx, uid, id)
}
