package cartservice

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
)

// ProductFinder é o contrato que o carrinho espera do catálogo.
type ProductFinder interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

type entry struct {
	cart    domain.Cart
	touched time.Time
}

// Service guarda um carrinho por escopo de sessão ("user:<id>" ou
// "guest:<id>"). Os carrinhos vivem só em memória.
type Service struct {
	catalog ProductFinder
	logger  logger.Logger
	now     func() time.Time

	mu    sync.Mutex
	carts map[string]entry
}

// NewService cria e retorna uma nova instância do Serviço de Carrinho.
func NewService(catalog ProductFinder, log logger.Logger) *Service {
	return &Service{
		catalog: catalog,
		logger:  log,
		now:     time.Now,
		carts:   make(map[string]entry),
	}
}

// WithClock troca o relógio usado para marcar o último acesso (testes).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get retorna o carrinho do escopo (vazio se ainda não existir).
func (s *Service) Get(scope string) domain.Cart {
	return s.Snapshot(scope)
}

// Add resolve o produto no catálogo e adiciona uma unidade ao carrinho.
// O estoque não é verificado aqui, só no checkout.
func (s *Service) Add(ctx context.Context, scope, productID, size string) (domain.Cart, error) {
	s.logger.Debug("Adicionando item ao carrinho.", map[string]interface{}{
		"scope":      scope,
		"product_id": productID,
		"size":       size,
	})

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, err
	}

	size = strings.TrimSpace(size)
	if p.HasSizes() {
		if !p.HasSize(size) {
			return domain.Cart{}, apperror.NewValidationError(fmt.Sprintf("Escolha um tamanho válido para '%s' (%s).", p.Name, strings.Join(p.Sizes, ", ")))
		}
	} else {
		size = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := AddItem(s.cartLocked(scope), p, size)
	s.storeLocked(scope, cart)
	return cart, nil
}

// UpdateQuantity altera a quantidade de uma linha; zero ou negativo remove.
func (s *Service) UpdateQuantity(scope string, key domain.CartKey, quantity int) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := UpdateQuantity(s.cartLocked(scope), key, quantity)
	s.storeLocked(scope, cart)
	return cart
}

// Remove retira a linha do carrinho.
func (s *Service) Remove(scope string, key domain.CartKey) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := RemoveItem(s.cartLocked(scope), key)
	s.storeLocked(scope, cart)
	return cart
}

// Clear esvazia o carrinho do escopo.
func (s *Service) Clear(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, scope)
	s.logger.Debug("Carrinho esvaziado.", map[string]interface{}{"scope": scope})
}

// Snapshot retorna uma cópia independente do carrinho.
func (s *Service) Snapshot(scope string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneCart(s.cartLocked(scope))
}

// Take retira o carrinho do escopo e o esvazia na mesma seção crítica.
// Duas finalizações simultâneas do mesmo escopo nunca recebem as mesmas linhas.
func (s *Service) Take(scope string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(scope)
	delete(s.carts, scope)
	return c
}

// Restore devolve ao escopo as linhas retiradas por Take, somando com o que
// tiver sido adicionado enquanto isso.
func (s *Service) Restore(scope string, taken domain.Cart) {
	if len(taken.Items) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.storeLocked(scope, Merge(taken, s.cartLocked(scope)))
	s.logger.Debug("Carrinho devolvido após checkout recusado.", map[string]interface{}{"scope": scope})
}

// SweepIdle remove carrinhos de visitantes sem acesso há mais de maxIdle.
// Carrinhos de usuários autenticados não expiram.
func (s *Service) SweepIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for scope, e := range s.carts {
		if domain.IsGuestScope(scope) && e.touched.Before(cutoff) {
			delete(s.carts, scope)
			removed++
		}
	}
	return removed
}

// RunJanitor executa SweepIdle a cada interval até o contexto ser cancelado.
func (s *Service) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.SweepIdle(maxIdle); n > 0 {
				s.logger.Info("Carrinhos de visitantes expirados removidos.", map[string]interface{}{"removed": n})
			}
		}
	}
}

func (s *Service) cartLocked(scope string) domain.Cart {
	if e, ok := s.carts[scope]; ok {
		return cloneCart(e.cart)
	}
	return Empty()
}

func (s *Service) storeLocked(scope string, cart domain.Cart) {
	if len(cart.Items) == 0 {
		delete(s.carts, scope)
		return
	}
	s.carts[scope] = entry{cart: cart, touched: s.now()}
}

func cloneCart(c domain.Cart) domain.Cart {
	items := make([]domain.CartItem, len(c.Items))
	copy(items, c.Items)
	return domain.Cart{Items: items, Total: c.Total}
}
