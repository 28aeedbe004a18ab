package catalogrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/cache"
	"vitrine/internal/pkg/logger"
)

const (
	backend = "postgres"

	// Chaves de cache das coleções inteiras.
	productsCacheKey   = "catalog:products"
	categoriesCacheKey = "catalog:categories"
	catalogCacheTTL    = 5 * time.Minute
)

// CatalogRepository persiste produtos e categorias no PostgreSQL, com
// cache-aside opcional no Redis (Cache nil desliga o cache).
type CatalogRepository struct {
	DB           *sqlx.DB
	Cache        cache.Client
	DBTimeout    time.Duration
	CacheTimeout time.Duration
	logger       logger.Logger
}

// NewCatalogRepository cria e retorna uma nova instância do Repositório.
func NewCatalogRepository(db *sqlx.DB, cacheClient cache.Client, dbTimeout, cacheTimeout time.Duration, log logger.Logger) *CatalogRepository {
	return &CatalogRepository{
		DB:           db,
		Cache:        cacheClient,
		DBTimeout:    dbTimeout,
		CacheTimeout: cacheTimeout,
		logger:       log,
	}
}

// productRow é a linha da tabela products.
type productRow struct {
	ID            string              `db:"id"`
	Position      int                 `db:"position"`
	Name          string              `db:"name"`
	Description   string              `db:"description"`
	Price         decimal.Decimal     `db:"price"`
	OriginalPrice decimal.NullDecimal `db:"original_price"`
	Image         string              `db:"image"`
	CategoryID    string              `db:"category_id"`
	Sizes         pq.StringArray      `db:"sizes"`
	Stock         int                 `db:"stock"`
	StockBySize   []byte              `db:"stock_by_size"`
	CreatedAt     time.Time           `db:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

func toRow(p domain.Product, position int) (productRow, error) {
	row := productRow{
		ID:          p.ID,
		Position:    position,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		CategoryID:  p.Category,
		Sizes:       pq.StringArray(p.Sizes),
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if row.Sizes == nil {
		row.Sizes = pq.StringArray{}
	}
	if p.OriginalPrice != nil {
		row.OriginalPrice = decimal.NullDecimal{Decimal: *p.OriginalPrice, Valid: true}
	}
	// stock_by_size é NOT NULL: produto sem tamanhos grava a grade vazia.
	row.StockBySize = []byte("{}")
	if len(p.StockBySize) > 0 {
		grid, err := json.Marshal(p.StockBySize)
		if err != nil {
			return productRow{}, err
		}
		row.StockBySize = grid
	}
	return row, nil
}

func (r productRow) toDomain() (domain.Product, error) {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.CategoryID,
		Stock:       r.Stock,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if len(r.Sizes) > 0 {
		p.Sizes = []string(r.Sizes)
	}
	if r.OriginalPrice.Valid {
		op := r.OriginalPrice.Decimal
		p.OriginalPrice = &op
	}
	if len(r.StockBySize) > 0 {
		var grid map[string]int
		if err := json.Unmarshal(r.StockBySize, &grid); err != nil {
			return domain.Product{}, err
		}
		if len(grid) > 0 {
			p.StockBySize = grid
		}
	}
	return p, nil
}

// LoadProducts lê a coleção de produtos na ordem da vitrine (mais recente primeiro).
func (r *CatalogRepository) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if r.cacheGet(ctx, productsCacheKey, &products) {
		r.logger.Debug("Produtos lidos do cache.", map[string]interface{}{"count": len(products)})
		return products, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		SELECT id, position, name, description, price, original_price, image, category_id,
		       sizes, stock, stock_by_size, created_at, updated_at
		FROM products
		ORDER BY position`

	var rows []productRow
	if err := r.DB.SelectContext(ctxTimeout, &rows, query); err != nil {
		r.logger.Error("Falha ao buscar produtos no DB.", err)
		return nil, apperror.NewPersistenceError("products", backend, err)
	}

	products = make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			r.logger.Error("Grade de estoque inválida no DB.", err)
			return nil, apperror.NewPersistenceError("products", backend, err)
		}
		products = append(products, p)
	}

	r.cacheSet(ctx, productsCacheKey, products)
	return products, nil
}

// SaveProducts grava a coleção inteira em uma transação: upsert de cada
// produto e remoção dos que não fazem mais parte dela.
func (r *CatalogRepository) SaveProducts(ctx context.Context, products []domain.Product) (err error) {
	r.logger.Debug("Gravando produtos no repositório.", map[string]interface{}{"count": len(products)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewPersistenceError("products", backend, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const upsertSQL = `
		INSERT INTO products (id, position, name, description, price, original_price, image, category_id,
		                      sizes, stock, stock_by_size, created_at, updated_at)
		VALUES (:id, :position, :name, :description, :price, :original_price, :image, :category_id,
		        :sizes, :stock, :stock_by_size, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			image = EXCLUDED.image,
			category_id = EXCLUDED.category_id,
			sizes = EXCLUDED.sizes,
			stock = EXCLUDED.stock,
			stock_by_size = EXCLUDED.stock_by_size,
			updated_at = EXCLUDED.updated_at`

	ids := make([]string, 0, len(products))
	for i, p := range products {
		row, convErr := toRow(p, i)
		if convErr != nil {
			err = convErr
			return apperror.NewPersistenceError("products", backend, err)
		}
		if _, err = tx.NamedExecContext(ctxTimeout, upsertSQL, row); err != nil {
			r.logger.Error("Falha ao gravar produto no DB.", err)
			return apperror.NewPersistenceError("products", backend, err)
		}
		ids = append(ids, p.ID)
	}

	if err = deleteMissing(ctxTimeout, tx, "products", ids); err != nil {
		r.logger.Error("Falha ao remover produtos excluídos no DB.", err)
		return apperror.NewPersistenceError("products", backend, err)
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewPersistenceError("products", backend, err)
	}

	r.cacheDelete(ctx, productsCacheKey)
	return nil
}

// LoadCategories lê as categorias na ordem de criação.
func (r *CatalogRepository) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if r.cacheGet(ctx, categoriesCacheKey, &categories) {
		return categories, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, label, created_at FROM categories ORDER BY created_at, id`

	var rows []struct {
		ID        string    `db:"id"`
		Label     string    `db:"label"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := r.DB.SelectContext(ctxTimeout, &rows, query); err != nil {
		r.logger.Error("Falha ao buscar categorias no DB.", err)
		return nil, apperror.NewPersistenceError("categories", backend, err)
	}

	categories = make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category{ID: row.ID, Label: row.Label, CreatedAt: row.CreatedAt})
	}

	r.cacheSet(ctx, categoriesCacheKey, categories)
	return categories, nil
}

// SaveCategories grava a coleção inteira de categorias.
func (r *CatalogRepository) SaveCategories(ctx context.Context, categories []domain.Category) (err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewPersistenceError("categories", backend, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const upsertSQL = `
		INSERT INTO categories (id, label, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label`

	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, err = tx.ExecContext(ctxTimeout, upsertSQL, c.ID, c.Label, c.CreatedAt); err != nil {
			r.logger.Error("Falha ao gravar categoria no DB.", err)
			return apperror.NewPersistenceError("categories", backend, err)
		}
		ids = append(ids, c.ID)
	}

	if err = deleteMissing(ctxTimeout, tx, "categories", ids); err != nil {
		return apperror.NewPersistenceError("categories", backend, err)
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewPersistenceError("categories", backend, err)
	}

	r.cacheDelete(ctx, categoriesCacheKey)
	return nil
}

// deleteMissing remove da tabela as linhas cujo id não está em keep.
// table vem sempre de uma constante deste pacote.
func deleteMissing(ctx context.Context, tx *sqlx.Tx, table string, keep []string) error {
	if len(keep) == 0 {
		_, err := tx.ExecContext(ctx, "DELETE FROM "+table)
		return err
	}
	query, args, err := sqlx.In("DELETE FROM "+table+" WHERE id NOT IN (?)", keep)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(query), args...)
	return err
}

// --- Cache-Aside ---

func (r *CatalogRepository) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if r.Cache == nil {
		return false
	}
	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()

	data, err := r.Cache.Get(ctxCache, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("Falha ao ler do cache; seguindo para o DB.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		r.logger.Warn("Conteúdo de cache inválido; seguindo para o DB.", map[string]interface{}{"key": key})
		return false
	}
	return true
}

func (r *CatalogRepository) cacheSet(ctx context.Context, key string, v interface{}) {
	if r.Cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()
	if err := r.Cache.Set(ctxCache, key, data, catalogCacheTTL); err != nil {
		r.logger.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (r *CatalogRepository) cacheDelete(ctx context.Context, key string) {
	if r.Cache == nil {
		return
	}
	ctxCache, cancel := context.WithTimeout(ctx, r.CacheTimeout)
	defer cancel()
	if err := r.Cache.Delete(ctxCache, key); err != nil {
		r.logger.Warn("Falha ao invalidar o cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
