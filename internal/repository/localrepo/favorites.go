package localrepo

import (
	"context"

	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/localstore"
)

// FavoriteRepository grava o mapa escopo -> favoritos.
type FavoriteRepository struct {
	store *localstore.Store
}

func NewFavoriteRepository(store *localstore.Store) *FavoriteRepository {
	return &FavoriteRepository{store: store}
}

func (r *FavoriteRepository) LoadFavorites(_ context.Context) (map[string][]string, error) {
	favorites := map[string][]string{}
	found, err := r.store.Load(favoritesKey, &favorites)
	if err != nil {
		return nil, apperror.NewPersistenceError(favoritesKey, backend, err)
	}
	if !found || favorites == nil {
		return map[string][]string{}, nil
	}
	return favorites, nil
}

func (r *FavoriteRepository) SaveFavorites(_ context.Context, favorites map[string][]string) error {
	if err := r.store.Save(favoritesKey, favorites); err != nil {
		return apperror.NewPersistenceError(favoritesKey, backend, err)
	}
	return nil
}
