package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/response"
)

func TestError_MapsCategoryAndShortfalls(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperror.NewStockShortfallError([]apperror.Shortfall{{ProductID: "p1", Name: "Camiseta", Size: "M", Requested: 5, Available: 3}})

	response.Error(rec, httptest.NewRequest(http.MethodPost, "/v1/checkout", nil), logger.NewNopLogger(), err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STOCK_SHORTFALL", body.Category)
	require.Len(t, body.Shortfalls, 1)
	assert.Equal(t, 3, body.Shortfalls[0].Available)
}

func TestError_UntypedIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()

	response.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), logger.NewNopLogger(), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
	assert.NotContains(t, rec.Body.String(), "shortfalls")
}

func TestDecode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	require.NoError(t, response.Decode(req, &v))
	assert.Equal(t, "ok", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
	assert.IsType(t, &apperror.ValidationError{}, response.Decode(req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.IsType(t, &apperror.ValidationError{}, response.Decode(req, &v))
}

func TestJSON_NoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
