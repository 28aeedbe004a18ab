// Package seed lê o catálogo inicial da loja a partir de um arquivo YAML.
package seed

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"vitrine/internal/domain"
	"vitrine/internal/service/catalogservice"
)

// File é o formato do arquivo de seed.
type File struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

type Category struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Product usa strings para os preços para não perder precisão na leitura.
type Product struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	Price         string         `yaml:"price"`
	OriginalPrice string         `yaml:"original_price"`
	Image         string         `yaml:"image"`
	Category      string         `yaml:"category"`
	Sizes         []string       `yaml:"sizes"`
	Stock         int            `yaml:"stock"`
	StockBySize   map[string]int `yaml:"stock_by_size"`
}

// LoadFile lê e converte o arquivo. Caminho vazio resulta em seed vazio.
func LoadFile(path string) (catalogservice.Seed, error) {
	if path == "" {
		return catalogservice.Seed{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return catalogservice.Seed{}, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse converte o YAML em um Seed do catálogo.
func Parse(data []byte) (catalogservice.Seed, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return catalogservice.Seed{}, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	return f.toSeed()
}

func (f File) toSeed() (catalogservice.Seed, error) {
	var out catalogservice.Seed

	known := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		id := strings.TrimSpace(c.ID)
		if id == "" || strings.TrimSpace(c.Label) == "" {
			return catalogservice.Seed{}, fmt.Errorf("seed category requires id and label")
		}
		if known[id] {
			return catalogservice.Seed{}, fmt.Errorf("duplicated seed category %q", id)
		}
		known[id] = true
		out.Categories = append(out.Categories, domain.Category{ID: id, Label: strings.TrimSpace(c.Label)})
	}

	ids := make(map[string]bool, len(f.Products))
	for _, p := range f.Products {
		if p.ID == "" || p.Name == "" {
			return catalogservice.Seed{}, fmt.Errorf("seed product requires id and name")
		}
		if ids[p.ID] {
			return catalogservice.Seed{}, fmt.Errorf("duplicated seed product %q", p.ID)
		}
		ids[p.ID] = true
		if len(known) > 0 && !known[p.Category] {
			return catalogservice.Seed{}, fmt.Errorf("product %q references unknown category %q", p.ID, p.Category)
		}

		price, err := decimal.NewFromString(p.Price)
		if err != nil || !price.IsPositive() {
			return catalogservice.Seed{}, fmt.Errorf("product %q: invalid price %q", p.ID, p.Price)
		}

		product := domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			Image:       p.Image,
			Category:    p.Category,
			Sizes:       p.Sizes,
			Stock:       p.Stock,
			StockBySize: p.StockBySize,
		}
		if p.OriginalPrice != "" {
			original, err := decimal.NewFromString(p.OriginalPrice)
			if err != nil || original.LessThan(price) {
				return catalogservice.Seed{}, fmt.Errorf("product %q: invalid original_price %q", p.ID, p.OriginalPrice)
			}
			product.OriginalPrice = &original
		}
		out.Products = append(out.Products, product)
	}

	return out, nil
}
