package orderservice

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/metrics"
)

// Repository define o contrato que o Serviço de Pedidos espera da camada de
// Persistência. Depois de gravado, o pedido pertence ao repositório.
type Repository interface {
	Save(ctx context.Context, order domain.Order) error
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// Service implementa o ciclo de vida dos pedidos.
type Service struct {
	repo    Repository
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Pedidos.
func NewService(repo Repository, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		logger:  log,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Place registra um novo pedido, sempre em "pending_payment".
func (s *Service) Place(ctx context.Context, order domain.Order) (domain.Order, error) {
	if len(order.Items) == 0 {
		return domain.Order{}, apperror.NewValidationError("O pedido deve ter pelo menos um item.")
	}
	if !order.PaymentMethod.Valid() {
		return domain.Order{}, apperror.NewValidationError(fmt.Sprintf("Forma de pagamento inválida: '%s'.", order.PaymentMethod))
	}

	order.ID = uuid.NewString()
	order.Status = domain.StatusPendingPayment
	order.CreatedAt = s.now()
	order.UpdatedAt = order.CreatedAt

	if err := s.repo.Save(ctx, order); err != nil {
		s.logger.Error("Falha ao registrar pedido.", err)
		return domain.Order{}, err
	}

	s.metrics.OrderPlaced(string(order.PaymentMethod))
	s.logger.Info("Pedido registrado com sucesso.", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total.StringFixed(2),
		"items":    len(order.Items),
	})
	return order, nil
}

// List retorna os pedidos que atendem ao filtro, mais recentes primeiro.
func (s *Service) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("Status inválido: '%s'.", filter.Status))
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar pedidos.", err)
		return nil, err
	}

	out := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if filter.Matches(o) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Get busca um pedido pelo ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// Advance move o pedido um passo à frente. Em "delivered" não faz nada.
func (s *Service) Advance(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return s.moveTo(ctx, order, order.Status.Next())
}

// SetStatus define o status explicitamente. Só são aceitos o status atual
// ou um status à frente no fluxo.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, apperror.NewValidationError(fmt.Sprintf("Status inválido: '%s'.", status))
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.Status.CanMoveTo(status) {
		s.logger.Warn("Transição de status recusada.", map[string]interface{}{
			"order_id": id,
			"from":     order.Status,
			"to":       status,
		})
		return domain.Order{}, apperror.NewConflictError(fmt.Sprintf("Não é possível voltar o pedido de '%s' para '%s'.", order.Status, status))
	}
	return s.moveTo(ctx, order, status)
}

func (s *Service) moveTo(ctx context.Context, order domain.Order, status domain.OrderStatus) (domain.Order, error) {
	if order.Status == status {
		return order, nil
	}

	updatedAt := s.now()
	if err := s.repo.UpdateStatus(ctx, order.ID, status, updatedAt); err != nil {
		s.logger.Error("Falha ao atualizar status do pedido.", err)
		return domain.Order{}, err
	}

	s.metrics.OrderTransition(string(status))
	s.logger.Info("Status do pedido atualizado.", map[string]interface{}{
		"order_id": order.ID,
		"from":     order.Status,
		"to":       status,
	})
	order.Status = status
	order.UpdatedAt = updatedAt
	return order, nil
}

// Delete remove o pedido.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Pedido removido.", map[string]interface{}{"order_id": id})
	return nil
}
