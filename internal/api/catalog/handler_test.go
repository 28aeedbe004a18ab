package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vitrine/internal/api/catalog"
	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) []domain.Product {
	return m.Called(ctx, filter).Get(0).([]domain.Product)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogService) AddProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, bool) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Product), args.Bool(1)
}

func (m *MockCatalogService) RemoveProduct(ctx context.Context, id string) bool {
	return m.Called(ctx, id).Bool(0)
}

func (m *MockCatalogService) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustmentRequest) (domain.Product, bool, error) {
	args := m.Called(ctx, id, adj)
	return args.Get(0).(domain.Product), args.Bool(1), args.Error(2)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) []domain.Category {
	return m.Called(ctx).Get(0).([]domain.Category)
}

func (m *MockCatalogService) AddCategory(ctx context.Context, label string) (domain.Category, error) {
	args := m.Called(ctx, label)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCatalogService) RemoveCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newRouter(svc *MockCatalogService) http.Handler {
	h := catalog.NewHandler(svc, logger.NewNopLogger())
	r := chi.NewRouter()
	r.Get("/products", h.ListProductsHandler)
	r.Get("/products/{id}", h.GetProductHandler)
	r.Patch("/products/{id}", h.UpdateProductHandler)
	r.Delete("/products/{id}", h.DeleteProductHandler)
	r.Post("/products/{id}/stock", h.AdjustStockHandler)
	r.Post("/categories", h.CreateCategoryHandler)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestListProducts_PassesFilter(t *testing.T) {
	svc := new(MockCatalogService)
	svc.On("ListProducts", mock.Anything, domain.ProductFilter{Category: "camisetas", Query: "azul"}).
		Return([]domain.Product{{ID: "camiseta-azul"}})

	rec := serve(newRouter(svc), http.MethodGet, "/products?category=camisetas&q=+azul+", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "camiseta-azul")
	svc.AssertExpectations(t)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := new(MockCatalogService)
	svc.On("GetProduct", mock.Anything, "x").Return(domain.Product{}, apperror.NewNotFoundError("Produto x não encontrado."))

	rec := serve(newRouter(svc), http.MethodGet, "/products/x", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Category)
}

func TestUpdateAndDelete_MissingProduct(t *testing.T) {
	svc := new(MockCatalogService)
	svc.On("UpdateProduct", mock.Anything, "x", mock.Anything).Return(domain.Product{}, false)
	svc.On("RemoveProduct", mock.Anything, "x").Return(false)
	r := newRouter(svc)

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPatch, "/products/x", `{"name":"Novo"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodDelete, "/products/x", "").Code)
}

func TestUpdate_RejectsUnknownFields(t *testing.T) {
	svc := new(MockCatalogService)

	rec := serve(newRouter(svc), http.MethodPatch, "/products/x", `{"nome":"Novo"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustStock(t *testing.T) {
	t.Run("zero delta devolve o produto", func(t *testing.T) {
		svc := new(MockCatalogService)
		svc.On("AdjustStock", mock.Anything, "p1", domain.StockAdjustmentRequest{}).Return(domain.Product{}, false, nil)
		svc.On("GetProduct", mock.Anything, "p1").Return(domain.Product{ID: "p1", Stock: 4}, nil)

		rec := serve(newRouter(svc), http.MethodPost, "/products/p1/stock", `{"delta":0}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"stock":4`)
	})

	t.Run("tamanho fora da grade", func(t *testing.T) {
		svc := new(MockCatalogService)
		svc.On("AdjustStock", mock.Anything, "p1", domain.StockAdjustmentRequest{Size: "GG", Delta: 1}).
			Return(domain.Product{}, false, apperror.NewValidationError("O tamanho 'GG' não faz parte da grade do produto."))

		rec := serve(newRouter(svc), http.MethodPost, "/products/p1/stock", `{"size":"GG","delta":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateCategory_Conflict(t *testing.T) {
	svc := new(MockCatalogService)
	svc.On("AddCategory", mock.Anything, "Camisetas").Return(domain.Category{}, apperror.NewConflictError("A categoria já existe."))

	rec := serve(newRouter(svc), http.MethodPost, "/categories", `{"label":"Camisetas"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
