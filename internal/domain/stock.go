package domain

// StockRequest é uma linha de consumo de estoque (normalmente uma linha do carrinho).
type StockRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

// StockAdjustmentRequest é o payload esperado para a requisição de ajuste de estoque.
type StockAdjustmentRequest struct {
	Size  string `json:"size,omitempty"`
	Delta int    `json:"delta"` // Quantidade a ser adicionada/removida
}
