package repository

import (
	"context"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
)

type DefaultFridgeRepository struct {
	c *collection[*entity.FridgeItem]
}

func NewFridgeRepository(store *docstore.Store) *DefaultFridgeRepository {
	return &DefaultFridgeRepository{c: &collection[*entity.FridgeItem]{
		store:  store,
		name:   entity.CollectionFridge,
		decode: entity.FridgeItemFromDocument,
	}}
}

func (f *DefaultFridgeRepository) Save(ctx context.Context, item *entity.FridgeItem) error {
	id, err := f.c.create(ctx, item.UID, item.Fields())
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

func (f *DefaultFridgeRepository) FindByID(ctx context.Context, uid, id string) (*entity.FridgeItem, error) {
	item, _, err := f.c.findByID(ctx, uid, id)
	return item, err
}

func (f *DefaultFridgeRepository) FindByUserID(ctx context.Context, uid string) ([]*entity.FridgeItem, error) {
	return f.c.find(ctx, docstore.Filter{UID: uid})
}

func (f *DefaultFridgeRepository) Delete(ctx context.Context, uid, id string) error {
	return f.c.delete(ctx, uid, id)
}

func (f *DefaultFridgeRepository) Subscribe(ctx context.Context, uid string, fn func([]*entity.FridgeItem)) (*docstore.Subscription, error) {
	return f.c.subscribe(ctx, uid, fn)
}
