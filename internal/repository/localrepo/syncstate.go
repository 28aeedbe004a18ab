package localrepo

import (
	"context"
	"sync"

	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/localstore"
)

// SyncStateRepository guarda quais coleções foram gravadas só no
// armazenamento local enquanto o backend primário estava fora.
type SyncStateRepository struct {
	store *localstore.Store
	mu    sync.Mutex
}

func NewSyncStateRepository(store *localstore.Store) *SyncStateRepository {
	return &SyncStateRepository{store: store}
}

func (r *SyncStateRepository) load() (map[string]bool, error) {
	pending := map[string]bool{}
	found, err := r.store.Load(syncPendingKey, &pending)
	if err != nil {
		return nil, apperror.NewPersistenceError(syncPendingKey, backend, err)
	}
	if !found || pending == nil {
		return map[string]bool{}, nil
	}
	return pending, nil
}

func (r *SyncStateRepository) Pending(_ context.Context, collection string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, err := r.load()
	if err != nil {
		return false, err
	}
	return pending[collection], nil
}

func (r *SyncStateRepository) MarkPending(_ context.Context, collection string) error {
	return r.set(collection, true)
}

func (r *SyncStateRepository) ClearPending(_ context.Context, collection string) error {
	return r.set(collection, false)
}

func (r *SyncStateRepository) set(collection string, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, err := r.load()
	if err != nil {
		return err
	}
	if pending[collection] == value {
		return nil
	}
	if value {
		pending[collection] = true
	} else {
		delete(pending, collection)
	}
	if err := r.store.Save(syncPendingKey, pending); err != nil {
		return apperror.NewPersistenceError(syncPendingKey, backend, err)
	}
	return nil
}
