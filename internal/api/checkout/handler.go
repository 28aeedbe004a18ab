package checkout

import (
	"context"
	"net/http"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/middleware"
	"vitrine/internal/pkg/response"
)

// CheckoutService finaliza a compra do carrinho da sessão.
type CheckoutService interface {
	Checkout(ctx context.Context, scope, ownerID string, req domain.CheckoutRequest) (domain.CheckoutResult, error)
}

type Handler struct {
	Service CheckoutService
	Logger  logger.Logger
}

func NewHandler(svc CheckoutService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CheckoutHandler lida com POST /v1/checkout.
// @Summary Finaliza a compra
// @Description Reserva o estoque de todas as linhas (tudo ou nada), cria o pedido em pending_payment, esvazia o carrinho e devolve o link do WhatsApp da loja.
// @Tags checkout
// @Accept json
// @Produce json
// @Param checkout body domain.CheckoutRequest true "Forma de pagamento e dados do comprador"
// @Success 201 {object} domain.CheckoutResult
// @Failure 400 {object} domain.ErrorResponse "Carrinho vazio ou dados inválidos"
// @Failure 409 {object} domain.ErrorResponse "Estoque insuficiente (com shortfalls)"
// @Router /checkout [post]
func (h *Handler) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewInternalError("Sessão não resolvida.", nil))
		return
	}

	var req domain.CheckoutRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	result, err := h.Service.Checkout(r.Context(), s.Scope, s.UserID, req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}
