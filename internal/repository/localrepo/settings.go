package localrepo

import (
	"context"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/localstore"
)

// SettingsRepository grava as configurações da loja.
type SettingsRepository struct {
	store *localstore.Store
}

func NewSettingsRepository(store *localstore.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

func (r *SettingsRepository) LoadSettings(_ context.Context) (domain.StoreSettings, bool, error) {
	var settings domain.StoreSettings
	found, err := r.store.Load(settingsKey, &settings)
	if err != nil {
		return domain.StoreSettings{}, false, apperror.NewPersistenceError(settingsKey, backend, err)
	}
	return settings, found, nil
}

func (r *SettingsRepository) SaveSettings(_ context.Context, settings domain.StoreSettings) error {
	if err := r.store.Save(settingsKey, settings); err != nil {
		return apperror.NewPersistenceError(settingsKey, backend, err)
	}
	return nil
}
