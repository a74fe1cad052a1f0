package repository

import (
	"context"
	"errors"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
)

var ErrNotFound = docstore.ErrNotFound

// collection is the typed view of one document store collection.
type collection[T any] struct {
	store  *docstore.Store
	name   string
	decode func(*entity.Document) T
}

func (c *collection[T]) create(ctx context.Context, uid string, fields map[string]any) (string, error) {
	return c.store.Create(ctx, c.name, uid, fields)
}

func (c *collection[T]) delete(ctx context.Context, uid, id string) error {
	return c.store.Delete(ctx, c.name, uid, id)
}

// findByID returns the zero T and false when uid owns no such document.
func (c *collection[T]) findByID(ctx context.Context, uid, id string) (T, bool, error) {
	var zero T
	doc, err := c.store.Get(ctx, c.name, uid, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return c.decode(doc), true, nil
}

func (c *collection[T]) find(ctx context.Context, filter docstore.Filter) ([]T, error) {
	docs, err := c.store.Fetch(ctx, c.name, filter)
	if err != nil {
		return nil, err
	}
	return c.decodeAll(docs), nil
}

func (c *collection[T]) subscribe(ctx context.Context, uid string, fn func([]T)) (*docstore.Subscription, error) {
	return c.store.Subscribe(ctx, c.name, docstore.Filter{UID: uid}, func(docs []*entity.Document) {
		fn(c.decodeAll(docs))
	})
}

func (c *collection[T]) decodeAll(docs []*entity.Document) []T {
	out := make([]T, len(docs))
	for i, doc := range docs {
		out[i] = c.decode(doc)
	}
	return out
}
