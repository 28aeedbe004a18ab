package user

import (
	"context"
	"net/http"

	"vitrine/internal/domain"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/response"
)

// UserService define o contrato para as operações de registro e login.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse traz o JWT emitido.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service   UserService
	Logger    logger.Logger
	ExpiresIn int
}

// NewHandler cria uma nova instância do Handler. expiresIn é a validade do token, em segundos.
func NewHandler(svc UserService, expiresIn int, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Logger:    log,
		ExpiresIn: expiresIn,
	}
}

// RegisterUserHandler lida com a requisição POST /v1/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário com a senha em bcrypt. O e-mail configurado em ADMIN_EMAIL recebe o papel admin.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciais de registro (email e senha)"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.Decode(r, &reg); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	newUser, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	// PasswordHash não é serializado (tag json:"-").
	response.JSON(w, http.StatusCreated, newUser)
}

// LoginUserHandler lida com a requisição POST /v1/login.
// @Summary Autentica um usuário e retorna um JWT
// @Tags users
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.JSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresIn: h.ExpiresIn})
}
