package localrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/localstore"
)

// OrderRepository grava a lista de pedidos em um único arquivo JSON.
type OrderRepository struct {
	store *localstore.Store
	mu    sync.Mutex
}

// NewOrderRepository cria o repositório local de pedidos.
func NewOrderRepository(store *localstore.Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) load() ([]domain.Order, error) {
	orders := []domain.Order{}
	found, err := r.store.Load(ordersKey, &orders)
	if err != nil {
		return nil, apperror.NewPersistenceError(ordersKey, backend, err)
	}
	if !found || orders == nil {
		return []domain.Order{}, nil
	}
	return orders, nil
}

func (r *OrderRepository) save(orders []domain.Order) error {
	if err := r.store.Save(ordersKey, orders); err != nil {
		return apperror.NewPersistenceError(ordersKey, backend, err)
	}
	return nil
}

func (r *OrderRepository) Save(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = order
			return r.save(orders)
		}
	}
	return r.save(append(orders, order))
}

// FindAll retorna os pedidos, mais recentes primeiro.
func (r *OrderRepository) FindAll(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, orderNotFound(id)
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			orders[i].UpdatedAt = updatedAt
			return r.save(orders)
		}
	}
	return orderNotFound(id)
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load()
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			return r.save(append(orders[:i], orders[i+1:]...))
		}
	}
	return orderNotFound(id)
}

func orderNotFound(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não foi encontrado.", id))
}
