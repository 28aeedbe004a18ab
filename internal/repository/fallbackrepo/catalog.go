package fallbackrepo

import (
	"context"

	"vitrine/internal/domain"
)

const (
	productsCollection   = "products"
	categoriesCollection = "categories"
)

// CatalogStore é o contrato comum aos repositórios de catálogo.
type CatalogStore interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	SaveProducts(ctx context.Context, products []domain.Product) error
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	SaveCategories(ctx context.Context, categories []domain.Category) error
}

// SyncState registra, de forma durável, as coleções cuja versão mais nova
// ficou só no secundário.
type SyncState interface {
	Pending(ctx context.Context, collection string) (bool, error)
	MarkPending(ctx context.Context, collection string) error
	ClearPending(ctx context.Context, collection string) error
}

// Catalog usa o primário e, em caso de falha, o secundário (local).
// Uma gravação que cai no secundário marca a coleção como pendente; a
// leitura seguinte de uma coleção pendente usa o secundário e o envia ao
// primário, inclusive depois de um reinício do processo.
type Catalog struct {
	primary   CatalogStore
	secondary CatalogStore
	sync      SyncState
	health    *Health
}

func NewCatalog(primary, secondary CatalogStore, sync SyncState, health *Health) *Catalog {
	return &Catalog{primary: primary, secondary: secondary, sync: sync, health: health}
}

func (c *Catalog) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if c.pending(ctx, productsCollection) {
		products, err := c.secondary.LoadProducts(ctx)
		if err != nil {
			return nil, err
		}
		c.resync(ctx, productsCollection, c.primary.SaveProducts(ctx, products))
		return products, nil
	}

	products, err := c.primary.LoadProducts(ctx)
	if err == nil {
		c.health.markHealthy(productsCollection)
		return products, nil
	}
	c.health.markFailure(productsCollection, err)
	return c.secondary.LoadProducts(ctx)
}

func (c *Catalog) SaveProducts(ctx context.Context, products []domain.Product) error {
	err := c.primary.SaveProducts(ctx, products)
	if err == nil {
		c.primaryWritten(ctx, productsCollection)
		return nil
	}
	c.health.markFailure(productsCollection, err)
	if err := c.secondary.SaveProducts(ctx, products); err != nil {
		return err
	}
	c.markPending(ctx, productsCollection)
	return nil
}

func (c *Catalog) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	if c.pending(ctx, categoriesCollection) {
		categories, err := c.secondary.LoadCategories(ctx)
		if err != nil {
			return nil, err
		}
		c.resync(ctx, categoriesCollection, c.primary.SaveCategories(ctx, categories))
		return categories, nil
	}

	categories, err := c.primary.LoadCategories(ctx)
	if err == nil {
		c.health.markHealthy(categoriesCollection)
		return categories, nil
	}
	c.health.markFailure(categoriesCollection, err)
	return c.secondary.LoadCategories(ctx)
}

func (c *Catalog) SaveCategories(ctx context.Context, categories []domain.Category) error {
	err := c.primary.SaveCategories(ctx, categories)
	if err == nil {
		c.primaryWritten(ctx, categoriesCollection)
		return nil
	}
	c.health.markFailure(categoriesCollection, err)
	if err := c.secondary.SaveCategories(ctx, categories); err != nil {
		return err
	}
	c.markPending(ctx, categoriesCollection)
	return nil
}

// pending falha fechado para o primário: sem conseguir ler a marca, segue o
// caminho normal.
func (c *Catalog) pending(ctx context.Context, collection string) bool {
	ok, err := c.sync.Pending(ctx, collection)
	if err != nil {
		c.health.logger.Warn("Falha ao ler a marca de sincronização pendente.", map[string]interface{}{
			"collection": collection,
			"error":      err.Error(),
		})
		return false
	}
	return ok
}

func (c *Catalog) markPending(ctx context.Context, collection string) {
	if err := c.sync.MarkPending(ctx, collection); err != nil {
		c.health.logger.Error("Falha ao registrar sincronização pendente; o primário pode sobrescrever dados locais.", err)
	}
}

// resync conclui o envio da versão local ao primário.
func (c *Catalog) resync(ctx context.Context, collection string, pushErr error) {
	if pushErr != nil {
		c.health.markFailure(collection, pushErr)
		return
	}
	c.health.logger.Info("Versão local enviada ao primário.", map[string]interface{}{"collection": collection})
	c.primaryWritten(ctx, collection)
}

func (c *Catalog) primaryWritten(ctx context.Context, collection string) {
	c.health.markHealthy(collection)
	if err := c.sync.ClearPending(ctx, collection); err != nil {
		c.health.logger.Warn("Falha ao limpar a marca de sincronização pendente.", map[string]interface{}{
			"collection": collection,
			"error":      err.Error(),
		})
	}
}
