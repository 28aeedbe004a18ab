package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa o item principal do catálogo (a Entidade).
// Quando Sizes está presente a disponibilidade é regida por StockBySize;
// caso contrário, por Stock.
type Product struct {
	ID            string           `json:"id"` // slug derivado do nome
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"` // preço "de", sempre >= Price
	Image         string           `json:"image"`
	Category      string           `json:"category"` // ID (slug) da categoria
	Sizes         []string         `json:"sizes,omitempty"`
	Stock         int              `json:"stock"`
	StockBySize   map[string]int   `json:"stock_by_size,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// HasSizes informa se o produto é controlado por tamanho.
func (p Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

// HasSize informa se o tamanho faz parte da grade do produto.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Available retorna a quantidade disponível para o tamanho informado.
// Para produtos sem grade o tamanho é ignorado.
func (p Product) Available(size string) int {
	if p.HasSizes() {
		return p.StockBySize[size]
	}
	return p.Stock
}

// Clone devolve uma cópia profunda do produto, sem compartilhar slices e mapas.
func (p Product) Clone() Product {
	c := p
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		c.OriginalPrice = &op
	}
	if p.Sizes != nil {
		c.Sizes = append([]string(nil), p.Sizes...)
	}
	if p.StockBySize != nil {
		c.StockBySize = make(map[string]int, len(p.StockBySize))
		for k, v := range p.StockBySize {
			c.StockBySize[k] = v
		}
	}
	return c
}

// ProductDraft é o payload de criação de um produto.
type ProductDraft struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Sizes         []string         `json:"sizes,omitempty"`
	Stock         int              `json:"stock"`
	StockBySize   map[string]int   `json:"stock_by_size,omitempty"`
}

// ProductPatch carrega apenas os campos a serem alterados (nil = não informado).
type ProductPatch struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Image         *string          `json:"image,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Sizes         []string         `json:"sizes,omitempty"`
	Stock         *int             `json:"stock,omitempty"`
	StockBySize   map[string]int   `json:"stock_by_size,omitempty"`
}

// ProductFilter define os parâmetros de busca do catálogo.
type ProductFilter struct {
	Category string
	Query    string
}

// Category agrupa produtos na vitrine. O ID é o slug do rótulo.
type Category struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}
