package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	// Registra a especificação OpenAPI servida em /swagger
	_ "vitrine/docs"

	"vitrine/internal/api/cart"
	"vitrine/internal/api/catalog"
	"vitrine/internal/api/checkout"
	"vitrine/internal/api/favorite"
	"vitrine/internal/api/order"
	"vitrine/internal/api/settings"
	"vitrine/internal/api/user"
	"vitrine/internal/domain"
	"vitrine/internal/pkg/cache"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/metrics"
	"vitrine/internal/pkg/middleware"
	"vitrine/internal/pkg/response"
	"vitrine/internal/repository/fallbackrepo"
)

// HealthReporter expõe o estado do modo degradado da persistência.
type HealthReporter interface {
	AnyDegraded() bool
	Snapshot() []fallbackrepo.CollectionStatus
}

// HealthResponse é o corpo de /health.
type HealthResponse struct {
	Status      string                          `json:"status"` // "ok" ou "degraded"
	Collections []fallbackrepo.CollectionStatus `json:"collections,omitempty"`
}

// Deps reúne os handlers e a infraestrutura usados pelo roteador.
type Deps struct {
	Catalog  *catalog.Handler
	Cart     *cart.Handler
	Favorite *favorite.Handler
	Checkout *checkout.Handler
	Order    *order.Handler
	Settings *settings.Handler
	User     *user.Handler

	TokenSvc middleware.TokenService
	Cache    cache.Client   // nil desliga o rate limiting
	Health   HealthReporter // nil no backend local
	Metrics  *metrics.Metrics
	Logger   logger.Logger

	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Observe(d.Metrics, d.Logger))

	// --- Infra ---
	r.Get("/ping", PingHandler)
	r.Get("/health", healthHandler(d.Health))
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RateLimiter(d.Cache, d.RateLimitMaxRequests, d.RateLimitPeriod, d.Logger))

		// --- Usuários ---
		r.Post("/register", d.User.RegisterUserHandler)
		r.Post("/login", d.User.LoginUserHandler)

		// --- Vitrine (pública) ---
		r.Get("/products", d.Catalog.ListProductsHandler)
		r.Get("/products/{id}", d.Catalog.GetProductHandler)
		r.Get("/categories", d.Catalog.ListCategoriesHandler)
		r.Get("/settings", d.Settings.GetSettingsHandler)

		// --- Sessão (usuário ou visitante) ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(d.TokenSvc))
			r.Use(middleware.ResolveSession())

			r.Get("/cart", d.Cart.GetCartHandler)
			r.Delete("/cart", d.Cart.ClearCartHandler)
			r.Post("/cart/items", d.Cart.AddItemHandler)
			r.Patch("/cart/items/{productID}", d.Cart.UpdateItemHandler)
			r.Delete("/cart/items/{productID}", d.Cart.RemoveItemHandler)

			r.Get("/favorites", d.Favorite.ListFavoritesHandler)
			r.Post("/favorites/{productID}", d.Favorite.ToggleFavoriteHandler)

			r.Post("/checkout", d.Checkout.CheckoutHandler)
		})

		// --- Conta ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(d.TokenSvc, d.Logger))
			r.Get("/account/orders", d.Order.MyOrdersHandler)
		})

		// --- Admin ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(d.TokenSvc, d.Logger))
			r.Use(middleware.RequireRole(d.Logger, domain.RoleAdmin))

			r.Post("/products", d.Catalog.CreateProductHandler)
			r.Patch("/products/{id}", d.Catalog.UpdateProductHandler)
			r.Delete("/products/{id}", d.Catalog.DeleteProductHandler)
			r.Post("/products/{id}/stock", d.Catalog.AdjustStockHandler)

			r.Post("/categories", d.Catalog.CreateCategoryHandler)
			r.Delete("/categories/{id}", d.Catalog.DeleteCategoryHandler)

			r.Get("/orders", d.Order.ListOrdersHandler)
			r.Get("/orders/{id}", d.Order.GetOrderHandler)
			r.Post("/orders/{id}/advance", d.Order.AdvanceOrderHandler)
			r.Put("/orders/{id}/status", d.Order.SetStatusHandler)
			r.Delete("/orders/{id}", d.Order.DeleteOrderHandler)

			r.Get("/settings", d.Settings.GetSettingsHandler)
			r.Put("/settings", d.Settings.UpdateSettingsHandler)
			r.Get("/status", healthHandler(d.Health))
		})
	})

	return r
}

// PingHandler é o health check mais simples (liveness).
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// healthHandler responde 200 mesmo em modo degradado: a loja continua
// atendendo pelo armazenamento local.
// @Summary Estado da persistência
// @Tags infra
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func healthHandler(h HealthReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h == nil {
			response.JSON(w, http.StatusOK, HealthResponse{Status: "ok"})
			return
		}
		status := "ok"
		if h.AnyDegraded() {
			status = "degraded"
		}
		response.JSON(w, http.StatusOK, HealthResponse{Status: status, Collections: h.Snapshot()})
	}
}
