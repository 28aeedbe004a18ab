package catalogservice

import (
	"context"
	"fmt"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
)

// AdjustStock soma delta ao estoque do produto (ou do tamanho, em produtos
// com grade), nunca abaixo de zero. Delta zero ou produto inexistente são
// ignorados (applied=false).
func (s *Service) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustmentRequest) (domain.Product, bool, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"product_id": id,
		"size":       adj.Size,
		"delta":      adj.Delta,
	})

	if adj.Delta == 0 {
		return domain.Product{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return domain.Product{}, false, nil
	}
	p := s.products[idx].Clone()

	if p.HasSizes() {
		if !p.HasSize(adj.Size) {
			return domain.Product{}, false, apperror.NewValidationError(fmt.Sprintf("O tamanho '%s' não faz parte da grade do produto.", adj.Size))
		}
		p.StockBySize[adj.Size] = clampZero(p.StockBySize[adj.Size] + adj.Delta)
	} else {
		p.Stock = clampZero(p.Stock + adj.Delta)
	}

	recountStock(&p)
	p.UpdatedAt = s.now()
	s.products[idx] = p
	s.persistProducts(ctx)

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"product_id":   id,
		"size":         adj.Size,
		"new_quantity": p.Available(adj.Size),
	})
	return p.Clone(), true, nil
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// stockLine é a quantidade agregada pedida para um produto/tamanho.
type stockLine struct {
	key       domain.CartKey
	requested int
}

// aggregate soma as quantidades por (produto, tamanho), preservando a ordem
// da primeira ocorrência. Em produtos sem grade o tamanho é descartado.
func (s *Service) aggregate(items []domain.StockRequest) []stockLine {
	var lines []stockLine
	pos := map[domain.CartKey]int{}
	for _, it := range items {
		key := domain.CartKey{ProductID: it.ProductID, Size: it.Size}
		if idx := s.productIndex(it.ProductID); idx >= 0 && !s.products[idx].HasSizes() {
			key.Size = ""
		}
		if i, ok := pos[key]; ok {
			lines[i].requested += it.Quantity
			continue
		}
		pos[key] = len(lines)
		lines = append(lines, stockLine{key: key, requested: it.Quantity})
	}
	return lines
}

// ConsumeStock baixa o estoque de todos os itens de uma vez. Se qualquer
// produto estiver ausente ou sem estoque suficiente, nada é alterado e um
// StockShortfallError descreve cada falta.
func (s *Service) ConsumeStock(ctx context.Context, items []domain.StockRequest) error {
	for _, it := range items {
		if it.Quantity <= 0 {
			return apperror.NewValidationError(fmt.Sprintf("Quantidade inválida para o produto %s.", it.ProductID))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.aggregate(items)

	var shortfalls []apperror.Shortfall
	for _, l := range lines {
		idx := s.productIndex(l.key.ProductID)
		if idx < 0 {
			shortfalls = append(shortfalls, apperror.Shortfall{
				ProductID: l.key.ProductID,
				Size:      l.key.Size,
				Requested: l.requested,
				Available: 0,
			})
			continue
		}
		p := s.products[idx]
		if available := p.Available(l.key.Size); available < l.requested {
			shortfalls = append(shortfalls, apperror.Shortfall{
				ProductID: p.ID,
				Name:      p.Name,
				Size:      l.key.Size,
				Requested: l.requested,
				Available: available,
			})
		}
	}

	if len(shortfalls) > 0 {
		s.metrics.StockShortfall()
		s.logger.Warn("Consumo de estoque recusado por falta de estoque.", map[string]interface{}{"shortfalls": len(shortfalls)})
		return apperror.NewStockShortfallError(shortfalls)
	}

	now := s.now()
	for _, l := range lines {
		idx := s.productIndex(l.key.ProductID)
		p := s.products[idx].Clone()
		if p.HasSizes() {
			p.StockBySize[l.key.Size] -= l.requested
		} else {
			p.Stock -= l.requested
		}
		recountStock(&p)
		p.UpdatedAt = now
		s.products[idx] = p
	}
	s.persistProducts(ctx)

	s.logger.Info("Estoque consumido com sucesso.", map[string]interface{}{"lines": len(lines)})
	return nil
}

// ReleaseStock devolve ao estoque itens consumidos anteriormente (usado
// quando o pedido não pôde ser registrado). Produtos removidos são ignorados.
func (s *Service) ReleaseStock(ctx context.Context, items []domain.StockRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, l := range s.aggregate(items) {
		idx := s.productIndex(l.key.ProductID)
		if idx < 0 || l.requested <= 0 {
			continue
		}
		p := s.products[idx].Clone()
		if p.HasSizes() {
			if !p.HasSize(l.key.Size) {
				continue
			}
			p.StockBySize[l.key.Size] += l.requested
		} else {
			p.Stock += l.requested
		}
		recountStock(&p)
		p.UpdatedAt = now
		s.products[idx] = p
	}
	s.persistProducts(ctx)

	s.logger.Info("Estoque devolvido.", map[string]interface{}{"items": len(items)})
}
