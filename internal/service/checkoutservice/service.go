package checkoutservice

import (
	"context"

	"github.com/shopspring/decimal"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
)

// CartStore é o contrato que o checkout espera do carrinho. Take retira e
// esvazia o carrinho de uma vez; Restore o devolve quando o checkout falha.
type CartStore interface {
	Take(scope string) domain.Cart
	Restore(scope string, cart domain.Cart)
}

// StockStore é o contrato que o checkout espera do catálogo.
type StockStore interface {
	ConsumeStock(ctx context.Context, items []domain.StockRequest) error
	ReleaseStock(ctx context.Context, items []domain.StockRequest)
}

// OrderPlacer registra o pedido.
type OrderPlacer interface {
	Place(ctx context.Context, order domain.Order) (domain.Order, error)
}

// SettingsProvider fornece frete e WhatsApp da loja.
type SettingsProvider interface {
	Get(ctx context.Context) domain.StoreSettings
}

// Service finaliza a compra: retira o carrinho, baixa o estoque e registra
// o pedido, nessa ordem.
type Service struct {
	carts    CartStore
	stock    StockStore
	orders   OrderPlacer
	settings SettingsProvider
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Checkout.
func NewService(carts CartStore, stock StockStore, orders OrderPlacer, settings SettingsProvider, log logger.Logger) *Service {
	return &Service{
		carts:    carts,
		stock:    stock,
		orders:   orders,
		settings: settings,
		logger:   log,
	}
}

// Checkout finaliza o carrinho do escopo. ownerID é o ID do usuário
// autenticado (vazio para visitantes).
func (s *Service) Checkout(ctx context.Context, scope, ownerID string, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	s.logger.Debug("Iniciando checkout.", map[string]interface{}{"scope": scope, "payment_method": req.PaymentMethod})

	// 1. Carrinho (retirado de forma atômica: um segundo envio simultâneo
	// encontra o carrinho vazio)
	cart := s.carts.Take(scope)
	if len(cart.Items) == 0 {
		return domain.CheckoutResult{}, apperror.NewValidationError("O carrinho está vazio.")
	}

	placed, settings, err := s.place(ctx, scope, ownerID, cart, req)
	if err != nil {
		s.carts.Restore(scope, cart)
		return domain.CheckoutResult{}, err
	}

	s.logger.Info("Checkout concluído.", map[string]interface{}{
		"order_id": placed.ID,
		"scope":    scope,
		"total":    placed.Total.StringFixed(2),
	})
	return domain.CheckoutResult{
		Order:       placed,
		WhatsAppURL: WhatsAppURL(settings, placed),
	}, nil
}

func (s *Service) place(ctx context.Context, scope, ownerID string, cart domain.Cart, req domain.CheckoutRequest) (domain.Order, domain.StoreSettings, error) {
	// 2. Dados do comprador
	if !req.PaymentMethod.Valid() {
		return domain.Order{}, domain.StoreSettings{}, apperror.NewValidationError("Escolha a forma de pagamento: pix, credit ou debit.")
	}
	customer, err := normalizeCustomer(req.Customer)
	if err != nil {
		s.logger.Warn("Dados do comprador inválidos.", map[string]interface{}{"scope": scope, "error": err.Error()})
		return domain.Order{}, domain.StoreSettings{}, err
	}

	// 3. Estoque (tudo ou nada)
	requests := cart.StockRequests()
	if err := s.stock.ConsumeStock(ctx, requests); err != nil {
		return domain.Order{}, domain.StoreSettings{}, err
	}

	// 4. Pedido
	settings := s.settings.Get(ctx)
	placed, err := s.orders.Place(ctx, buildOrder(cart, customer, req.PaymentMethod, ownerID, settings))
	if err != nil {
		// O pedido não foi gravado em lugar nenhum: devolve o estoque.
		s.stock.ReleaseStock(ctx, requests)
		s.logger.Error("Falha ao registrar pedido; estoque devolvido.", err)
		return domain.Order{}, domain.StoreSettings{}, err
	}
	return placed, settings, nil
}

func buildOrder(cart domain.Cart, customer domain.Customer, method domain.PaymentMethod, ownerID string, settings domain.StoreSettings) domain.Order {
	items := make([]domain.OrderItem, 0, len(cart.Items))
	subtotal := decimal.Zero
	for _, it := range cart.Items {
		line := it.LineTotal()
		subtotal = subtotal.Add(line)
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Size:      it.Size,
			Price:     it.Price,
			Quantity:  it.Quantity,
			LineTotal: line,
		})
	}
	shipping := settings.ShippingFor(subtotal)

	return domain.Order{
		OwnerID:       ownerID,
		PaymentMethod: method,
		Items:         items,
		Customer:      customer,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Total:         subtotal.Add(shipping),
	}
}
