package settingsservice

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"unicode/utf8"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
)

const (
	minStoreNameLen = 2
	minPhoneDigits  = 10
	maxPhoneDigits  = 13
)

// Repository define a persistência das configurações da loja.
// found=false indica que nada foi gravado ainda.
type Repository interface {
	LoadSettings(ctx context.Context) (domain.StoreSettings, bool, error)
	SaveSettings(ctx context.Context, settings domain.StoreSettings) error
}

// Service mantém as configurações da loja em memória.
type Service struct {
	repo     Repository
	logger   logger.Logger
	defaults domain.StoreSettings

	mu      sync.RWMutex
	current domain.StoreSettings
}

// NewService cria o serviço. defaults vem da configuração de ambiente e é
// usado enquanto o admin não gravar as próprias configurações.
func NewService(repo Repository, log logger.Logger, defaults domain.StoreSettings) *Service {
	defaults.WhatsAppNumber = domain.OnlyDigits(defaults.WhatsAppNumber)
	return &Service{
		repo:     repo,
		logger:   log,
		defaults: defaults,
		current:  defaults,
	}
}

// Load lê as configurações gravadas. Na ausência delas, mantém os padrões.
func (s *Service) Load(ctx context.Context) error {
	stored, found, err := s.repo.LoadSettings(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar configurações da loja.", err)
		return apperror.NewInternalError("Falha interna ao carregar configurações.", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.current = stored
	}
	s.logger.Info("Configurações da loja carregadas.", map[string]interface{}{"stored": found})
	return nil
}

// Get retorna as configurações vigentes.
func (s *Service) Get(_ context.Context) domain.StoreSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update valida e grava novas configurações.
func (s *Service) Update(ctx context.Context, in domain.StoreSettings) (domain.StoreSettings, error) {
	normalized, err := validate(in)
	if err != nil {
		s.logger.Warn("Configurações inválidas.", map[string]interface{}{"error": err.Error()})
		return domain.StoreSettings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = normalized
	if err := s.repo.SaveSettings(ctx, normalized); err != nil {
		s.logger.Error("Falha ao persistir configurações; estado mantido apenas em memória.", err)
	}

	s.logger.Info("Configurações da loja atualizadas.", map[string]interface{}{"store_name": normalized.StoreName})
	return normalized, nil
}

func validate(in domain.StoreSettings) (domain.StoreSettings, error) {
	out := in
	out.StoreName = collapse(in.StoreName)
	if utf8.RuneCountInString(out.StoreName) < minStoreNameLen {
		return out, apperror.NewValidationError(fmt.Sprintf("O nome da loja deve ter pelo menos %d caracteres.", minStoreNameLen))
	}

	out.WhatsAppNumber = domain.OnlyDigits(in.WhatsAppNumber)
	if n := len(out.WhatsAppNumber); n < minPhoneDigits || n > maxPhoneDigits {
		return out, apperror.NewValidationError(fmt.Sprintf("O WhatsApp deve ter entre %d e %d dígitos.", minPhoneDigits, maxPhoneDigits))
	}

	if in.ContactEmail != "" {
		addr, err := mail.ParseAddress(in.ContactEmail)
		if err != nil {
			return out, apperror.NewValidationError("E-mail de contato inválido.")
		}
		out.ContactEmail = addr.Address
	}

	if out.ShippingFee.IsNegative() {
		return out, apperror.NewValidationError("O valor do frete não pode ser negativo.")
	}
	if out.FreeShippingFrom.IsNegative() {
		return out, apperror.NewValidationError("O valor mínimo para frete grátis não pode ser negativo.")
	}
	return out, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
