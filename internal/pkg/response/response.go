// Package response padroniza as respostas JSON da API.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
)

// JSON escreve data como JSON com o status informado. data nil gera corpo vazio.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error mapeia o erro da aplicação para o ErrorResponse e o status HTTP.
// Erros 5xx são registrados com a causa raiz; 4xx apenas em debug.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	body := domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	}
	var shortfall *apperror.StockShortfallError
	if errors.As(err, &shortfall) {
		body.Shortfalls = shortfall.Shortfalls
	}

	JSON(w, status, body)
}

// Decode lê o corpo JSON da requisição. Campos desconhecidos são rejeitados.
func Decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}
