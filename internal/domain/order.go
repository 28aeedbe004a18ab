package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus é o estado de um pedido. O fluxo é estritamente linear.
type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusPaid           OrderStatus = "paid"
	StatusPreparing      OrderStatus = "preparing"
	StatusShipped        OrderStatus = "shipped"
	StatusDelivered      OrderStatus = "delivered"
)

var orderFlow = []OrderStatus{
	StatusPendingPayment,
	StatusPaid,
	StatusPreparing,
	StatusShipped,
	StatusDelivered,
}

// OrderStatuses retorna o fluxo completo, na ordem.
func OrderStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderFlow...)
}

func (s OrderStatus) rank() int {
	for i, st := range orderFlow {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid informa se o status faz parte do fluxo.
func (s OrderStatus) Valid() bool {
	return s.rank() >= 0
}

// Next retorna o próximo status. "delivered" é terminal e retorna a si mesmo.
func (s OrderStatus) Next() OrderStatus {
	r := s.rank()
	if r < 0 || r == len(orderFlow)-1 {
		return s
	}
	return orderFlow[r+1]
}

// CanMoveTo informa se a transição é para frente (ou para o mesmo status).
func (s OrderStatus) CanMoveTo(target OrderStatus) bool {
	return s.Valid() && target.Valid() && target.rank() >= s.rank()
}

// PaymentMethod é a forma de pagamento escolhida no checkout.
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
)

// Valid informa se a forma de pagamento é suportada.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCredit, PaymentDebit:
		return true
	}
	return false
}

// Address é o endereço de entrega informado no checkout.
type Address struct {
	ZipCode      string `json:"zip_code"` // CEP, 8 dígitos
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"` // UF
}

// Customer é o retrato do contato do comprador no momento da compra.
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// OrderItem é uma linha do pedido. Nunca é editada após a criação.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Size      string          `json:"size,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Order é o registro persistido de uma compra.
// Após criado, só o Status (e UpdatedAt) muda.
type Order struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id,omitempty"` // ID do usuário, vazio para visitantes
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Items         []OrderItem     `json:"items"`
	Customer      Customer        `json:"customer"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderFilter define os filtros da listagem de pedidos.
type OrderFilter struct {
	Status  OrderStatus
	OwnerID string
}

// Matches informa se o pedido atende ao filtro.
func (f OrderFilter) Matches(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.OwnerID != "" && o.OwnerID != f.OwnerID {
		return false
	}
	return true
}

// OnlyDigits remove tudo que não for dígito (telefones, CEP).
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
