package domain

import apperror "vitrine/internal/errors"

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code       int                  `json:"code" example:"400"`
	Category   string               `json:"category" example:"VALIDATION_ERROR"`
	Message    string               `json:"message" example:"O nome do produto deve ter pelo menos 3 caracteres."`
	Shortfalls []apperror.Shortfall `json:"shortfalls,omitempty"`
}
