package catalogservice

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
)

const minCategoryLabelLen = 2

// AddCategory normaliza o rótulo, deriva o slug e adiciona a categoria.
// Rótulos curtos geram ValidationError; duplicados, ConflictError.
func (s *Service) AddCategory(ctx context.Context, label string) (domain.Category, error) {
	s.logger.Debug("Iniciando criação de categoria no serviço.", map[string]interface{}{"label": label})

	normalized := collapseSpaces(label)
	if utf8.RuneCountInString(normalized) < minCategoryLabelLen {
		return domain.Category{}, apperror.NewValidationError(fmt.Sprintf("O nome da categoria deve ter pelo menos %d caracteres.", minCategoryLabelLen))
	}
	id := slugify(normalized)
	if id == "" {
		return domain.Category{}, apperror.NewValidationError("O nome da categoria deve conter letras ou números.")
	}
	cat := domain.Category{ID: id, Label: titleCase(normalized)}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.ID == cat.ID || strings.EqualFold(c.Label, cat.Label) {
			s.logger.Warn("Categoria duplicada.", map[string]interface{}{"id": cat.ID})
			return domain.Category{}, apperror.NewConflictError(fmt.Sprintf("A categoria '%s' já existe.", cat.Label))
		}
	}

	cat.CreatedAt = s.now()
	s.categories = append(s.categories, cat)
	s.persistCategories(ctx)

	s.logger.Info("Categoria criada com sucesso.", map[string]interface{}{"id": cat.ID, "label": cat.Label})
	return cat, nil
}

// RemoveCategory remove a categoria. Falha se for a última restante ou se
// algum produto ainda a referenciar.
func (s *Service) RemoveCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.categoryIndex(id)
	if idx < 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada.", id))
	}
	if len(s.categories) == 1 {
		return apperror.NewConflictError("Não é possível remover a última categoria.")
	}
	inUse := 0
	for _, p := range s.products {
		if p.Category == id {
			inUse++
		}
	}
	if inUse > 0 {
		return apperror.NewConflictError(fmt.Sprintf("A categoria '%s' está em uso por %d produto(s).", s.categories[idx].Label, inUse))
	}

	s.categories = append(s.categories[:idx:idx], s.categories[idx+1:]...)
	s.persistCategories(ctx)

	s.logger.Info("Categoria removida com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// ListCategories retorna as categorias na ordem de criação.
func (s *Service) ListCategories(_ context.Context) []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Category(nil), s.categories...)
}
