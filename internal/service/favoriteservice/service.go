package favoriteservice

import (
	"context"
	"sync"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
)

// Repository persiste o mapa escopo -> IDs de produtos favoritos.
type Repository interface {
	LoadFavorites(ctx context.Context) (map[string][]string, error)
	SaveFavorites(ctx context.Context, favorites map[string][]string) error
}

// ProductFinder é o contrato que os favoritos esperam do catálogo.
type ProductFinder interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

// Service mantém os favoritos por escopo de sessão.
type Service struct {
	repo    Repository
	catalog ProductFinder
	logger  logger.Logger

	mu        sync.Mutex
	favorites map[string][]string
}

// NewService cria e retorna uma nova instância do Serviço de Favoritos.
func NewService(repo Repository, catalog ProductFinder, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		logger:    log,
		favorites: make(map[string][]string),
	}
}

// Load carrega os favoritos gravados.
func (s *Service) Load(ctx context.Context) error {
	favs, err := s.repo.LoadFavorites(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar favoritos.", err)
		return apperror.NewInternalError("Falha interna ao carregar favoritos.", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if favs != nil {
		s.favorites = favs
	}
	return nil
}

// List retorna os IDs favoritos do escopo, na ordem em que foram marcados.
func (s *Service) List(_ context.Context, scope string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.favorites[scope]...)
}

// Toggle marca ou desmarca o produto como favorito e retorna o novo estado.
// Só é possível marcar produtos existentes; desmarcar é sempre permitido.
func (s *Service) Toggle(ctx context.Context, scope, productID string) (bool, error) {
	s.mu.Lock()
	current := s.favorites[scope]
	idx := -1
	for i, id := range current {
		if id == productID {
			idx = i
			break
		}
	}
	s.mu.Unlock()

	if idx < 0 {
		if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
			return false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Recalcula sob o lock: outra requisição pode ter alterado a lista.
	ids := s.favorites[scope]
	next := make([]string, 0, len(ids)+1)
	favorited := true
	for _, id := range ids {
		if id == productID {
			favorited = false
			continue
		}
		next = append(next, id)
	}
	if favorited {
		next = append(next, productID)
	}

	if len(next) == 0 {
		delete(s.favorites, scope)
	} else {
		s.favorites[scope] = next
	}
	s.persist(ctx)

	s.logger.Debug("Favorito alternado.", map[string]interface{}{
		"scope":      scope,
		"product_id": productID,
		"favorited":  favorited,
	})
	return favorited, nil
}

// persist deve ser chamado com s.mu travado.
func (s *Service) persist(ctx context.Context) {
	snapshot := make(map[string][]string, len(s.favorites))
	for k, v := range s.favorites {
		snapshot[k] = append([]string(nil), v...)
	}
	if err := s.repo.SaveFavorites(ctx, snapshot); err != nil {
		s.logger.Error("Falha ao persistir favoritos; estado mantido apenas em memória.", err)
	}
}
