package cart

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

// CartService define o contrato do carrinho por escopo de sessão.
type CartService interface {
	Get(scope string) domain.Cart
	Add(ctx context.Context, scope, productID, size string) (domain.Cart, error)
	UpdateQuantity(scope string, key domain.CartKey, quantity int) domain.Cart
	Remove(scope string, key domain.CartKey) domain.Cart
	Clear(scope string)
}

// AddItemRequest adiciona uma unidade do produto (no tamanho, se houver grade).
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
}

// QuantityRequest define a nova quantidade da linha. Zero ou menos remove a linha.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type Handler struct {
	Service CartService
	Logger  logger.Logger
}

func NewHandler(svc CartService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// scope devolve o escopo resolvido pelo middleware de sessão.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (string, bool) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewInternalError("Sessão não resolvida.", nil))
		return "", false
	}
	return s.Scope, true
}

// lineKey monta a chave da linha a partir de /items/{productID}?size=.
func lineKey(r *http.Request) domain.CartKey {
	return domain.CartKey{ProductID: chi.URLParam(r, "productID"), Size: r.URL.Query().Get("size")}
}

// GetCartHandler lida com GET /v1/cart.
// @Summary Retorna o carrinho da sessão
// @Tags cart
// @Produce json
// @Param X-Guest-Session header string false "Sessão de visitante"
// @Success 200 {object} domain.Cart
// @Router /cart [get]
func (h *Handler) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, h.Service.Get(scope))
}

// AddItemHandler lida com POST /v1/cart/items.
// @Summary Adiciona uma unidade de um produto ao carrinho
// @Tags cart
// @Accept json
// @Produce json
// @Param item body AddItemRequest true "Produto e tamanho"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /cart/items [post]
func (h *Handler) AddItemHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	c, err := h.Service.Add(r.Context(), scope, req.ProductID, req.Size)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
}

// UpdateItemHandler lida com PATCH /v1/cart/items/{productID}?size=.
// @Summary Define a quantidade de uma linha do carrinho
// @Tags cart
// @Accept json
// @Produce json
// @Param productID path string true "ID do produto"
// @Param size query string false "Tamanho"
// @Param quantity body QuantityRequest true "Nova quantidade"
// @Success 200 {object} domain.Cart
// @Router /cart/items/{productID} [patch]
func (h *Handler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req QuantityRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.JSON(w, http.StatusOK, h.Service.UpdateQuantity(scope, lineKey(r), req.Quantity))
}

// RemoveItemHandler lida com DELETE /v1/cart/items/{productID}?size=.
// @Summary Remove uma linha do carrinho
// @Tags cart
// @Produce json
// @Param productID path string true "ID do produto"
// @Param size query string false "Tamanho"
// @Success 200 {object} domain.Cart
// @Router /cart/items/{productID} [delete]
func (h *Handler) RemoveItemHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, h.Service.Remove(scope, lineKey(r)))
}

// ClearCartHandler lida com DELETE /v1/cart.
// @Summary Esvazia o carrinho
// @Tags cart
// @Success 204
// @Router /cart [delete]
func (h *Handler) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	h.Service.Clear(scope)
	response.JSON(w, http.StatusNoContent, nil)
}
