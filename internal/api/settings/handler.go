package settings

import (
	"context"
	"net/http"

	"vitrine/internal/domain"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/response"
)

type SettingsService interface {
	Get(ctx context.Context) domain.StoreSettings
	Update(ctx context.Context, in domain.StoreSettings) (domain.StoreSettings, error)
}

type Handler struct {
	Service SettingsService
	Logger  logger.Logger
}

func NewHandler(svc SettingsService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// GetSettingsHandler lida com GET /v1/settings.
// @Summary Configurações públicas da loja (nome, contato, frete)
// @Tags settings
// @Produce json
// @Success 200 {object} domain.StoreSettings
// @Router /settings [get]
func (h *Handler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.Service.Get(r.Context()))
}

// UpdateSettingsHandler lida com PUT /v1/admin/settings.
// @Summary Atualiza as configurações da loja
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param settings body domain.StoreSettings true "Configurações"
// @Success 200 {object} domain.StoreSettings
// @Failure 400 {object} domain.ErrorResponse
// @Router /admin/settings [put]
func (h *Handler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.StoreSettings
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	out, err := h.Service.Update(r.Context(), in)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, http.StatusOK, out)
}
