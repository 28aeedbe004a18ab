package catalogservice

import (
	"context"
	"sync"
	"time"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/metrics"
)

// DefaultCategory é criada quando o catálogo não possui nenhuma categoria.
var DefaultCategory = domain.Category{ID: "geral", Label: "Geral"}

// Repository define o contrato que o Serviço de Catálogo espera da camada de
// Persistência. As coleções são gravadas inteiras, como na vitrine original.
type Repository interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	SaveProducts(ctx context.Context, products []domain.Product) error
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	SaveCategories(ctx context.Context, categories []domain.Category) error
}

// Seed é o conteúdo inicial usado quando o repositório está vazio.
type Seed struct {
	Categories []domain.Category
	Products   []domain.Product
}

// Service é o dono das coleções de produtos e categorias em memória.
// Cada operação é atômica em relação às demais (mutex único) e persiste o
// novo estado depois de atualizar a memória.
type Service struct {
	repo    Repository
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu         sync.Mutex
	products   []domain.Product // mais recente primeiro
	categories []domain.Category
}

// NewService cria e retorna uma nova instância do Serviço de Catálogo.
func NewService(repo Repository, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:       repo,
		logger:     log,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
		categories: []domain.Category{},
		products:   []domain.Product{},
	}
}

// Load carrega o catálogo do repositório. Coleções vazias são preenchidas
// com o seed e, na falta dele, com a categoria padrão.
func (s *Service) Load(ctx context.Context, seed Seed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, err := s.repo.LoadCategories(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar categorias.", err)
		return apperror.NewInternalError("Falha interna ao carregar categorias.", err)
	}
	products, err := s.repo.LoadProducts(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar produtos.", err)
		return apperror.NewInternalError("Falha interna ao carregar produtos.", err)
	}

	seededCategories := false
	if len(categories) == 0 {
		categories = append([]domain.Category(nil), seed.Categories...)
		if len(categories) == 0 {
			categories = []domain.Category{DefaultCategory}
		}
		for i := range categories {
			if categories[i].CreatedAt.IsZero() {
				categories[i].CreatedAt = s.now()
			}
		}
		seededCategories = true
	}

	seededProducts := false
	if len(products) == 0 && len(seed.Products) > 0 {
		products = make([]domain.Product, 0, len(seed.Products))
		for _, p := range seed.Products {
			p = p.Clone()
			if p.CreatedAt.IsZero() {
				p.CreatedAt = s.now()
			}
			p.UpdatedAt = p.CreatedAt
			recountStock(&p)
			products = append(products, p)
		}
		seededProducts = true
	}

	s.categories = categories
	s.products = products

	if seededCategories {
		s.persistCategories(ctx)
	}
	if seededProducts {
		s.persistProducts(ctx)
	}

	s.logger.Info("Catálogo carregado.", map[string]interface{}{
		"categories": len(s.categories),
		"products":   len(s.products),
	})
	return nil
}

// persistProducts grava o estado atual. Uma falha não desfaz a alteração em
// memória: o repositório de fallback já tentou o armazenamento local.
// Deve ser chamado com s.mu travado.
func (s *Service) persistProducts(ctx context.Context) {
	if err := s.repo.SaveProducts(ctx, cloneProducts(s.products)); err != nil {
		s.logger.Error("Falha ao persistir produtos; estado mantido apenas em memória.", err)
	}
}

// persistCategories é o equivalente de persistProducts para categorias.
func (s *Service) persistCategories(ctx context.Context) {
	if err := s.repo.SaveCategories(ctx, append([]domain.Category(nil), s.categories...)); err != nil {
		s.logger.Error("Falha ao persistir categorias; estado mantido apenas em memória.", err)
	}
}

func (s *Service) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) categoryIndex(id string) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneProducts(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// recountStock mantém Stock como a soma da grade nos produtos com tamanhos.
func recountStock(p *domain.Product) {
	if !p.HasSizes() {
		p.StockBySize = nil
		return
	}
	grid := make(map[string]int, len(p.Sizes))
	total := 0
	for _, size := range p.Sizes {
		grid[size] = p.StockBySize[size]
		total += grid[size]
	}
	p.StockBySize = grid
	p.Stock = total
}
