package catalogservice

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
)

const (
	minProductNameLen = 3
	minImageRefLen    = 5
)

// AddProduct valida o rascunho, gera um ID (slug) único e insere o produto
// no topo da coleção. Retorna ValidationError na primeira regra violada.
func (s *Service) AddProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	s.logger.Debug("Iniciando criação de produto no serviço.", map[string]interface{}{"name": draft.Name})

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.validateDraft(draft)
	if err != nil {
		s.logger.Warn("Falha na validação do produto.", map[string]interface{}{"name": draft.Name, "error": err.Error()})
		return domain.Product{}, err
	}

	p.ID = uniqueSlug(p.Name, func(id string) bool { return s.productIndex(id) >= 0 })
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	recountStock(&p)

	s.products = append([]domain.Product{p}, s.products...)
	s.persistProducts(ctx)

	s.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": p.ID, "name": p.Name})
	return p.Clone(), nil
}

func (s *Service) validateDraft(d domain.ProductDraft) (domain.Product, error) {
	name := collapseSpaces(d.Name)
	if utf8.RuneCountInString(name) < minProductNameLen {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("O nome do produto deve ter pelo menos %d caracteres.", minProductNameLen))
	}
	if !d.Price.IsPositive() {
		return domain.Product{}, apperror.NewValidationError("O preço do produto deve ser positivo.")
	}
	image := strings.TrimSpace(d.Image)
	if len(image) < minImageRefLen {
		return domain.Product{}, apperror.NewValidationError("A imagem do produto é obrigatória.")
	}
	if s.categoryIndex(d.Category) < 0 {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("A categoria '%s' não existe.", d.Category))
	}
	if d.OriginalPrice != nil && d.OriginalPrice.LessThan(d.Price) {
		return domain.Product{}, apperror.NewValidationError("O preço original deve ser maior ou igual ao preço.")
	}
	sizes, err := normalizeSizes(d.Sizes)
	if err != nil {
		return domain.Product{}, err
	}
	if d.Stock < 0 {
		return domain.Product{}, apperror.NewValidationError("O estoque não pode ser negativo.")
	}
	if len(d.StockBySize) > 0 && len(sizes) == 0 {
		return domain.Product{}, apperror.NewValidationError("Estoque por tamanho exige a grade de tamanhos.")
	}
	for size, qty := range d.StockBySize {
		if !containsString(sizes, size) {
			return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("O tamanho '%s' não faz parte da grade.", size))
		}
		if qty < 0 {
			return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("O estoque do tamanho '%s' não pode ser negativo.", size))
		}
	}

	p := domain.Product{
		Name:        name,
		Description: strings.TrimSpace(d.Description),
		Price:       d.Price,
		Image:       image,
		Category:    d.Category,
		Sizes:       sizes,
		Stock:       d.Stock,
	}
	if d.OriginalPrice != nil {
		op := *d.OriginalPrice
		p.OriginalPrice = &op
	}
	if len(sizes) > 0 {
		p.StockBySize = make(map[string]int, len(sizes))
		for size, qty := range d.StockBySize {
			p.StockBySize[size] = qty
		}
	}
	return p, nil
}

// normalizeSizes remove espaços e rejeita tamanhos vazios ou repetidos.
func normalizeSizes(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(in))
	for _, raw := range in {
		size := strings.TrimSpace(raw)
		if size == "" {
			return nil, apperror.NewValidationError("Tamanho vazio na grade.")
		}
		if containsString(out, size) {
			return nil, apperror.NewValidationError(fmt.Sprintf("Tamanho '%s' repetido na grade.", size))
		}
		out = append(out, size)
	}
	return out, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// UpdateProduct aplica os campos informados sobre o produto existente.
// Campos numéricos inválidos e categorias inexistentes são ignorados
// (mantém-se o valor anterior). Retorna found=false se o ID não existir.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, bool) {
	s.logger.Debug("Iniciando atualização de produto no serviço.", map[string]interface{}{"id": id})

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		s.logger.Info("Produto não encontrado para atualização.", map[string]interface{}{"id": id})
		return domain.Product{}, false
	}
	p := s.products[idx].Clone()

	if patch.Name != nil {
		if name := collapseSpaces(*patch.Name); utf8.RuneCountInString(name) >= minProductNameLen {
			p.Name = name
		}
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Image != nil {
		if image := strings.TrimSpace(*patch.Image); len(image) >= minImageRefLen {
			p.Image = image
		}
	}
	if patch.Category != nil && s.categoryIndex(*patch.Category) >= 0 {
		p.Category = *patch.Category
	}
	if patch.Price != nil && patch.Price.IsPositive() {
		p.Price = *patch.Price
		if p.OriginalPrice != nil && p.OriginalPrice.LessThan(p.Price) {
			p.OriginalPrice = nil
		}
	}
	if patch.OriginalPrice != nil {
		switch {
		case patch.OriginalPrice.IsZero():
			p.OriginalPrice = nil
		case patch.OriginalPrice.GreaterThanOrEqual(p.Price):
			op := *patch.OriginalPrice
			p.OriginalPrice = &op
		}
	}
	if patch.Sizes != nil {
		if sizes, err := normalizeSizes(patch.Sizes); err == nil {
			applySizes(&p, sizes)
		}
	}
	if patch.Stock != nil && *patch.Stock >= 0 && !p.HasSizes() {
		p.Stock = *patch.Stock
	}
	for size, qty := range patch.StockBySize {
		if qty >= 0 && p.HasSize(size) {
			p.StockBySize[size] = qty
		}
	}

	recountStock(&p)
	p.UpdatedAt = s.now()
	s.products[idx] = p
	s.persistProducts(ctx)

	s.logger.Info("Produto atualizado com sucesso.", map[string]interface{}{"id": p.ID})
	return p.Clone(), true
}

// applySizes troca a grade preservando o estoque dos tamanhos mantidos.
// Remover a grade transforma o produto em controle por estoque único.
func applySizes(p *domain.Product, sizes []string) {
	if len(sizes) == 0 {
		p.Sizes = nil
		p.StockBySize = nil
		return
	}
	grid := make(map[string]int, len(sizes))
	for _, size := range sizes {
		grid[size] = p.StockBySize[size]
	}
	p.Sizes = sizes
	p.StockBySize = grid
}

// RemoveProduct remove o produto se existir. Retorna se algo foi removido.
func (s *Service) RemoveProduct(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return false
	}
	s.products = append(s.products[:idx:idx], s.products[idx+1:]...)
	s.persistProducts(ctx)

	s.logger.Info("Produto removido com sucesso.", map[string]interface{}{"id": id})
	return true
}

// GetProduct busca um produto pelo ID.
func (s *Service) GetProduct(_ context.Context, id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não foi encontrado.", id))
	}
	return s.products[idx].Clone(), nil
}

// ListProducts retorna os produtos (mais recentes primeiro) que atendem ao
// filtro. A busca compara nome e descrição, sem diferenciar maiúsculas.
func (s *Service) ListProducts(_ context.Context, filter domain.ProductFilter) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}
