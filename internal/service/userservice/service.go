package userservice

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
)

const minPasswordLen = 8

// Repository é o contrato de persistência de usuários.
type Repository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	repo       Repository
	tokenSvc   TokenService
	adminEmail string
	logger     logger.Logger
}

// NewService cria uma nova instância do UserService. O e-mail adminEmail
// (se informado) recebe o papel de admin ao se registrar.
func NewService(repo Repository, tokenSvc TokenService, adminEmail string, log logger.Logger) *UserService {
	return &UserService{
		repo:       repo,
		tokenSvc:   tokenSvc,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		logger:     log,
	}
}

// Register registra um novo usuário no sistema.
// Ele faz o hashing da senha e lida com validações básicas.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	// 1. Validação Básica
	addr, err := mail.ParseAddress(strings.TrimSpace(registration.Email))
	if err != nil {
		return domain.User{}, apperror.NewValidationError("Informe um email válido.")
	}
	email := strings.ToLower(addr.Address)
	if utf8.RuneCountInString(registration.Password) < minPasswordLen {
		return domain.User{}, apperror.NewValidationError("A senha deve ter pelo menos 8 caracteres.")
	}

	// 2. Hashing da Senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 3. Papel
	role := domain.RoleUser
	if s.adminEmail != "" && email == s.adminEmail {
		role = domain.RoleAdmin
	}

	// 4. Persistência (e-mail duplicado vira ConflictError no repositório)
	user, err := s.repo.Save(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	// 1. Validação Básica
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	// 2. Buscar Usuário pelo Email
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// NotFound vira Unauthorized para não dar dicas a invasores.
		if apperror.IsNotFound(err) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	// 3. Comparar Senhas
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	// 4. Gerar JWT
	tokenString, err := s.tokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return tokenString, nil
}
