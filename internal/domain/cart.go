package domain

import "github.com/shopspring/decimal"

// CartKey identifica uma linha do carrinho: produto + tamanho.
type CartKey struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
}

// CartItem é o retrato do produto no momento em que foi adicionado.
type CartItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Key retorna a chave composta da linha.
func (i CartItem) Key() CartKey {
	return CartKey{ProductID: i.ProductID, Size: i.Size}
}

// LineTotal é preço × quantidade.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart é o estado do carrinho de uma sessão. Total é sempre derivado de Items.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// ItemCount soma as quantidades de todas as linhas.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// StockRequests converte as linhas do carrinho em pedidos de consumo de estoque.
func (c Cart) StockRequests() []StockRequest {
	out := make([]StockRequest, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, StockRequest{ProductID: it.ProductID, Size: it.Size, Quantity: it.Quantity})
	}
	return out
}
