package localrepo

import (
	"context"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/localstore"
)

// backend identifica o armazenamento local nos erros e métricas.
const backend = "local"

// Chaves (arquivos) das coleções no diretório de dados.
const (
	productsKey   = "products"
	categoriesKey = "categories"
	ordersKey     = "orders"
	favoritesKey  = "favorites"
	settingsKey   = "settings"
	usersKey      = "users"

	syncPendingKey = "sync_pending"
)

// CatalogRepository grava produtos e categorias em arquivos JSON.
type CatalogRepository struct {
	store *localstore.Store
}

// NewCatalogRepository cria o repositório local do catálogo.
func NewCatalogRepository(store *localstore.Store) *CatalogRepository {
	return &CatalogRepository{store: store}
}

func (r *CatalogRepository) LoadProducts(_ context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	found, err := r.store.Load(productsKey, &products)
	if err != nil {
		return nil, apperror.NewPersistenceError(productsKey, backend, err)
	}
	if !found || products == nil {
		return []domain.Product{}, nil
	}
	return products, nil
}

func (r *CatalogRepository) SaveProducts(_ context.Context, products []domain.Product) error {
	if err := r.store.Save(productsKey, products); err != nil {
		return apperror.NewPersistenceError(productsKey, backend, err)
	}
	return nil
}

func (r *CatalogRepository) LoadCategories(_ context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	found, err := r.store.Load(categoriesKey, &categories)
	if err != nil {
		return nil, apperror.NewPersistenceError(categoriesKey, backend, err)
	}
	if !found || categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (r *CatalogRepository) SaveCategories(_ context.Context, categories []domain.Category) error {
	if err := r.store.Save(categoriesKey, categories); err != nil {
		return apperror.NewPersistenceError(categoriesKey, backend, err)
	}
	return nil
}
