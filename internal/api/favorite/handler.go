package favorite

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/middleware"
	"vitrine/internal/pkg/response"
)

// FavoriteService define o contrato da lista de favoritos por escopo.
type FavoriteService interface {
	List(ctx context.Context, scope string) []string
	Toggle(ctx context.Context, scope, productID string) (bool, error)
}

// ToggleResponse informa o estado do produto após o toggle.
type ToggleResponse struct {
	ProductID string `json:"product_id"`
	Favorite  bool   `json:"favorite"`
}

type Handler struct {
	Service FavoriteService
	Logger  logger.Logger
}

func NewHandler(svc FavoriteService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListFavoritesHandler lida com GET /v1/favorites.
// @Summary Lista os IDs de produtos favoritos da sessão
// @Tags favorites
// @Produce json
// @Success 200 {array} string
// @Router /favorites [get]
func (h *Handler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewInternalError("Sessão não resolvida.", nil))
		return
	}
	response.JSON(w, http.StatusOK, h.Service.List(r.Context(), s.Scope))
}

// ToggleFavoriteHandler lida com POST /v1/favorites/{productID}.
// @Summary Marca ou desmarca um produto como favorito
// @Tags favorites
// @Produce json
// @Param productID path string true "ID do produto"
// @Success 200 {object} ToggleResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /favorites/{productID} [post]
func (h *Handler) ToggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewInternalError("Sessão não resolvida.", nil))
		return
	}

	productID := chi.URLParam(r, "productID")
	fav, err := h.Service.Toggle(r.Context(), s.Scope, productID)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, ToggleResponse{ProductID: productID, Favorite: fav})
}
