package repository

import (
	"context"
	"lifemate/cmd/internal/domain/docstore"
	"lifemate/cmd/internal/domain/entity"
)

type DefaultRecipeRepository struct {
	c *collection[*entity.Recipe]
}

func NewRecipeRepository(store *docstore.Store) *DefaultRecipeRepository {
	return &DefaultRecipeRepository{c: &collection[*entity.Recipe]{
		store:  store,
		name:   entity.CollectionRecipes,
		decode: entity.RecipeFromDocument,
	}}
}

func (r *DefaultRecipeRepository) Save(ctx context.Context, recipe *entity.Recipe) error {
	id, err := r.c.create(ctx, recipe.UID, recipe.Fields())
	if err != nil {
		return err
	}
	recipe.ID = id
	return nil
}

func (r *DefaultRecipeRepository) FindByUserID(ctx context.Context, uid string) ([]*entity.Recipe, error) {
	return r.c.find(ctx, docstore.Filter{UID: uid})
}

func (r *DefaultRecipeRepository) Delete(ctx context.Context, uid, id string) error {
	return r.c.delete(ctx, uid, id)
}
