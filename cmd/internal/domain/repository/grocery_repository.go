package repository

import (
	"context"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
)

type DefaultGroceryRepository struct {
	c *collection[*entity.GroceryItem]
}

func NewGroceryRepository(store *docstore.Store) *DefaultGroceryRepository {
	return &DefaultGroceryRepository{c: &collection[*entity.GroceryItem]{
		store:  store,
		name:   entity.CollectionGrocery,
		decode: entity.GroceryItemFromDocument,
	}}
}

func (g *DefaultGroceryRepository) Save(ctx context.Context, item *entity.GroceryItem) error {
	id, err := g.c.create(ctx, item.UID, item.Fields())
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

func (g *DefaultGroceryRepository) FindByUserID(ctx context.Context, uid string) ([]*entity.GroceryItem, error) {
	return g.c.find(ctx, docstore.Filter{UID: uid})
}

func (g *DefaultGroceryRepository) Delete(ctx context.Context, uid, id string) error {
	return g.c.delete(ctx, uid, id)
}

func (g *DefaultGroceryRepository) Subscribe(ctx context.Context, uid string, fn func([]*entity.GroceryItem)) (*docstore.Subscription, error) {
	return g.c.subscribe(ctx, uid, fn)
}
