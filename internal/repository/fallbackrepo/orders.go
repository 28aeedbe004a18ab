package fallbackrepo

import (
	"context"
	"sort"
	"time"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
)

const ordersCollection = "orders"

// OrderStore é o contrato comum aos repositórios de pedidos.
type OrderStore interface {
	Save(ctx context.Context, order domain.Order) error
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// Orders grava no primário e, em caso de falha, no secundário. Pedidos
// gravados localmente durante o modo degradado continuam visíveis depois
// que o primário volta: leituras combinam as duas fontes.
type Orders struct {
	primary   OrderStore
	secondary OrderStore
	health    *Health
}

func NewOrders(primary, secondary OrderStore, health *Health) *Orders {
	return &Orders{primary: primary, secondary: secondary, health: health}
}

func (o *Orders) Save(ctx context.Context, order domain.Order) error {
	err := o.primary.Save(ctx, order)
	if err == nil {
		o.health.markHealthy(ordersCollection)
		return nil
	}
	o.health.markFailure(ordersCollection, err)
	return o.secondary.Save(ctx, order)
}

func (o *Orders) FindAll(ctx context.Context) ([]domain.Order, error) {
	local, localErr := o.secondary.FindAll(ctx)

	remote, err := o.primary.FindAll(ctx)
	if err != nil {
		o.health.markFailure(ordersCollection, err)
		return local, localErr
	}
	o.health.markHealthy(ordersCollection)
	if localErr != nil || len(local) == 0 {
		return remote, nil
	}

	seen := make(map[string]bool, len(remote))
	for _, r := range remote {
		seen[r.ID] = true
	}
	merged := remote
	for _, l := range local {
		if !seen[l.ID] {
			merged = append(merged, l)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].CreatedAt.After(merged[j].CreatedAt) })
	return merged, nil
}

func (o *Orders) FindByID(ctx context.Context, id string) (domain.Order, error) {
	order, err := o.primary.FindByID(ctx, id)
	if err == nil {
		o.health.markHealthy(ordersCollection)
		return order, nil
	}
	if !apperror.IsNotFound(err) {
		o.health.markFailure(ordersCollection, err)
	}
	return o.secondary.FindByID(ctx, id)
}

func (o *Orders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error {
	err := o.primary.UpdateStatus(ctx, id, status, updatedAt)
	if err == nil {
		o.health.markHealthy(ordersCollection)
		return nil
	}
	if !apperror.IsNotFound(err) {
		o.health.markFailure(ordersCollection, err)
	}
	return o.secondary.UpdateStatus(ctx, id, status, updatedAt)
}

func (o *Orders) Delete(ctx context.Context, id string) error {
	err := o.primary.Delete(ctx, id)
	if err == nil {
		o.health.markHealthy(ordersCollection)
		return nil
	}
	if !apperror.IsNotFound(err) {
		o.health.markFailure(ordersCollection, err)
	}
	return o.secondary.Delete(ctx, id)
}
