package order

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/middleware"
	"vitrine/internal/pkg/response"
)

// OrderService define o contrato de consulta e ciclo de vida dos pedidos.
type OrderService interface {
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	Advance(ctx context.Context, id string) (domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// StatusRequest define o status de destino.
type StatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// MyOrdersHandler lida com GET /v1/account/orders.
// @Summary Pedidos do usuário autenticado
// @Tags account
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Order
// @Failure 401 {object} domain.ErrorResponse
// @Router /account/orders [get]
func (h *Handler) MyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Autorização necessária."))
		return
	}

	orders, err := h.Service.List(r.Context(), domain.OrderFilter{OwnerID: claims.UserID})
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, orders)
}

// ListOrdersHandler lida com GET /v1/admin/orders.
// @Summary Lista pedidos, mais recentes primeiro
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filtra por status" Enums(pending_payment, paid, preparing, shipped, delivered)
// @Success 200 {array} domain.Order
// @Failure 400 {object} domain.ErrorResponse
// @Router /admin/orders [get]
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.OrderFilter{Status: domain.OrderStatus(r.URL.Query().Get("status"))}

	orders, err := h.Service.List(r.Context(), filter)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, orders)
}

// GetOrderHandler lida com GET /v1/admin/orders/{id}.
// @Summary Busca um pedido
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID do pedido"
// @Success 200 {object} domain.Order
// @Failure 404 {object} domain.ErrorResponse
// @Router /admin/orders/{id} [get]
func (h *Handler) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, o)
}

// AdvanceOrderHandler lida com POST /v1/admin/orders/{id}/advance.
// @Summary Avança o pedido para o próximo status
// @Description "delivered" é terminal: avançar um pedido entregue não altera nada.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID do pedido"
// @Success 200 {object} domain.Order
// @Failure 404 {object} domain.ErrorResponse
// @Router /admin/orders/{id}/advance [post]
func (h *Handler) AdvanceOrderHandler(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, o)
}

// SetStatusHandler lida com PUT /v1/admin/orders/{id}/status.
// @Summary Define o status do pedido (apenas para frente)
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID do pedido"
// @Param status body StatusRequest true "Novo status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Transição para trás"
// @Router /admin/orders/{id}/status [put]
func (h *Handler) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	o, err := h.Service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, o)
}

// DeleteOrderHandler lida com DELETE /v1/admin/orders/{id}.
// @Summary Remove um pedido
// @Tags admin
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /admin/orders/{id} [delete]
func (h *Handler) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}
