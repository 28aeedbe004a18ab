package catalog

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/response"
)

// CatalogService define o contrato que o Handler espera da camada de Serviço.
type CatalogService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) []domain.Product
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	AddProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, bool)
	RemoveProduct(ctx context.Context, id string) bool
	AdjustStock(ctx context.Context, id string, adj domain.StockAdjustmentRequest) (domain.Product, bool, error)

	ListCategories(ctx context.Context) []domain.Category
	AddCategory(ctx context.Context, label string) (domain.Category, error)
	RemoveCategory(ctx context.Context, id string) error
}

// CategoryRequest é o payload de criação de categoria.
type CategoryRequest struct {
	Label string `json:"label"`
}

// Handler agrupa os handlers de vitrine (públicos) e de gestão do catálogo (admin).
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
}

func NewHandler(svc CatalogService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func productNotFound(id string) error {
	return apperror.NewNotFoundError("Produto " + id + " não encontrado.")
}

// ListProductsHandler lida com GET /v1/products.
// @Summary Lista os produtos da vitrine
// @Tags catalog
// @Produce json
// @Param category query string false "ID da categoria"
// @Param q query string false "Busca por nome ou descrição"
// @Success 200 {array} domain.Product
// @Router /products [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
	}
	response.JSON(w, http.StatusOK, h.Service.ListProducts(r.Context(), filter))
}

// GetProductHandler lida com GET /v1/products/{id}.
// @Summary Busca um produto pelo ID (slug)
// @Tags catalog
// @Produce json
// @Param id path string true "ID do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

// ListCategoriesHandler lida com GET /v1/categories.
// @Summary Lista as categorias
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.Service.ListCategories(r.Context()))
}

// CreateProductHandler lida com POST /v1/admin/products.
// @Summary Cadastra um produto
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param product body domain.ProductDraft true "Dados do produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Router /admin/products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var draft domain.ProductDraft
	if err := response.Decode(r, &draft); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	p, err := h.Service.AddProduct(r.Context(), draft)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, p)
}

// UpdateProductHandler lida com PATCH /v1/admin/products/{id}.
// Campos inválidos são ignorados; os válidos são aplicados.
// @Summary Atualiza parcialmente um produto
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID do produto"
// @Param patch body domain.ProductPatch true "Campos a alterar"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /admin/products/{id} [patch]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch domain.ProductPatch
	if err := response.Decode(r, &patch); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	p, ok := h.Service.UpdateProduct(r.Context(), id, patch)
	if !ok {
		response.Error(w, r, h.Logger, productNotFound(id))
		return
	}
	response.JSON(w, http.StatusOK, p)
}

// DeleteProductHandler lida com DELETE /v1/admin/products/{id}.
// @Summary Remove um produto
// @Tags admin
// @Security BearerAuth
// @Param id path string true "ID do produto"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /admin/products/{id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.Service.RemoveProduct(r.Context(), id) {
		response.Error(w, r, h.Logger, productNotFound(id))
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}

// AdjustStockHandler lida com POST /v1/admin/products/{id}/stock.
// @Summary Ajusta o estoque de um produto (delta positivo ou negativo)
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID do produto"
// @Param adjustment body domain.StockAdjustmentRequest true "Ajuste"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /admin/products/{id}/stock [post]
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var adj domain.StockAdjustmentRequest
	if err := response.Decode(r, &adj); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	p, found, err := h.Service.AdjustStock(r.Context(), id, adj)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	if !found {
		// Delta zero não altera nada; só o produto inexistente é erro.
		if p, err = h.Service.GetProduct(r.Context(), id); err != nil {
			response.Error(w, r, h.Logger, err)
			return
		}
	}
	response.JSON(w, http.StatusOK, p)
}

// CreateCategoryHandler lida com POST /v1/admin/categories.
// @Summary Cria uma categoria
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param category body CategoryRequest true "Rótulo da categoria"
// @Success 201 {object} domain.Category
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /admin/categories [post]
func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	c, err := h.Service.AddCategory(r.Context(), req.Label)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, c)
}

// DeleteCategoryHandler lida com DELETE /v1/admin/categories/{id}.
// @Summary Remove uma categoria sem produtos
// @Tags admin
// @Security BearerAuth
// @Param id path string true "ID da categoria"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /admin/categories/{id} [delete]
func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RemoveCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}
