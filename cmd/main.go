package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	// Nossos pacotes de infraestrutura e utilitários
	"vitrine/config"
	"vitrine/internal/domain"
	"vitrine/internal/pkg/cache"
	"vitrine/internal/pkg/database"
	"vitrine/internal/pkg/localstore"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/pkg/metrics"
	"vitrine/internal/pkg/seed"
	"vitrine/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"vitrine/internal/api/cart"
	"vitrine/internal/api/catalog"
	"vitrine/internal/api/checkout"
	"vitrine/internal/api/favorite"
	"vitrine/internal/api/order"
	"vitrine/internal/api/router"
	"vitrine/internal/api/settings"
	"vitrine/internal/api/user"
	"vitrine/internal/repository/catalogrepo"
	"vitrine/internal/repository/fallbackrepo"
	"vitrine/internal/repository/localrepo"
	"vitrine/internal/repository/orderrepo"
	"vitrine/internal/repository/userrepo"
	"vitrine/internal/service/cartservice"
	"vitrine/internal/service/catalogservice"
	"vitrine/internal/service/checkoutservice"
	"vitrine/internal/service/favoriteservice"
	"vitrine/internal/service/orderservice"
	"vitrine/internal/service/settingsservice"
	"vitrine/internal/service/userservice"
)

// @title Vitrine API
// @version 1.0
// @description API da loja de roupas: catálogo, carrinho, checkout via WhatsApp e gestão de pedidos.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// Sem .env seguimos com o ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Inicialização
	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	defer appLog.Sync()
	appLog.Info("⚡ Inicializando serviço Vitrine...", map[string]interface{}{"backend": cfg.StorageBackend, "env": cfg.Environment})

	m := metrics.New()
	ctx := context.Background()

	// 2. Armazenamento local (backend principal ou fallback do Postgres)
	store, err := localstore.New(cfg.DataDir, appLog)
	if err != nil {
		appLog.Fatal("Falha ao preparar o diretório de dados.", err)
	}

	var (
		catalogRepo catalogservice.Repository   = localrepo.NewCatalogRepository(store)
		orderRepo   orderservice.Repository     = localrepo.NewOrderRepository(store)
		userRepo    userservice.Repository      = localrepo.NewUserRepository(store)
		health      router.HealthReporter
		cacheClient cache.Client
	)

	// 3. Conexão com Recursos de Infraestrutura (apenas no backend postgres)
	if cfg.UsePostgres() {
		// A. Banco de Dados (PostgreSQL)
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			appLog.Fatal("Falha ao conectar ao banco de dados.", err)
		}
		defer db.Close()
		appLog.Info("Conexão PostgreSQL estabelecida.", nil)

		// B. Cache (Redis), opcional
		if cfg.RedisAddr != "" {
			redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
			if err != nil {
				appLog.Warn("Redis indisponível; seguindo sem cache e sem rate limiting.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
			} else {
				defer redisClient.Close()
				cacheClient = redisClient
				appLog.Info("Conexão Redis estabelecida.", nil)
			}
		}

		// C. Repositórios com fallback para o armazenamento local
		h := fallbackrepo.NewHealth(appLog, m)
		health = h
		catalogRepo = fallbackrepo.NewCatalog(
			catalogrepo.NewCatalogRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTimeout, appLog),
			catalogRepo, localrepo.NewSyncStateRepository(store), h)
		orderRepo = fallbackrepo.NewOrders(
			orderrepo.NewOrderRepository(db, cfg.DBTimeout, appLog),
			orderRepo, h)
		userRepo = userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
	}

	// 4. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Catálogo
	catalogSeed, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		appLog.Fatal("Falha ao ler o arquivo de seed.", err)
	}
	catalogSvc := catalogservice.NewService(catalogRepo, appLog, m)
	if err := catalogSvc.Load(ctx, catalogSeed); err != nil {
		appLog.Fatal("Falha ao carregar o catálogo.", err)
	}

	// B. Configurações da loja
	settingsSvc := settingsservice.NewService(localrepo.NewSettingsRepository(store), appLog, domain.StoreSettings{
		StoreName:        cfg.StoreName,
		WhatsAppNumber:   cfg.StoreWhatsApp,
		ContactEmail:     cfg.StoreContact,
		ShippingFee:      mustDecimal(appLog, "SHIPPING_FEE", cfg.ShippingFee),
		FreeShippingFrom: mustDecimal(appLog, "FREE_SHIPPING_FROM", cfg.FreeShippingFrom),
	})
	if err := settingsSvc.Load(ctx); err != nil {
		appLog.Fatal("Falha ao carregar as configurações da loja.", err)
	}

	// C. Favoritos, carrinho, pedidos e checkout
	favoriteSvc := favoriteservice.NewService(localrepo.NewFavoriteRepository(store), catalogSvc, appLog)
	if err := favoriteSvc.Load(ctx); err != nil {
		appLog.Fatal("Falha ao carregar os favoritos.", err)
	}
	cartSvc := cartservice.NewService(catalogSvc, appLog)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go cartSvc.RunJanitor(janitorCtx, cfg.CartSweepInterval, cfg.CartIdleTTL)
	orderSvc := orderservice.NewService(orderRepo, appLog, m)
	checkoutSvc := checkoutservice.NewService(cartSvc, catalogSvc, orderSvc, settingsSvc, appLog)

	// D. Usuários e tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	userSvc := userservice.NewService(userRepo, tokenSvc, cfg.AdminEmail, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// 5. Roteador/Servidor
	r := router.NewRouter(router.Deps{
		Catalog:  catalog.NewHandler(catalogSvc, appLog),
		Cart:     cart.NewHandler(cartSvc, appLog),
		Favorite: favorite.NewHandler(favoriteSvc, appLog),
		Checkout: checkout.NewHandler(checkoutSvc, appLog),
		Order:    order.NewHandler(orderSvc, appLog),
		Settings: settings.NewHandler(settingsSvc, appLog),
		User:     user.NewHandler(userSvc, int(tokenSvc.Expiry().Seconds()), appLog),

		TokenSvc: tokenSvc,
		Cache:    cacheClient,
		Health:   health,
		Metrics:  m,
		Logger:   appLog,

		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor Vitrine ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}

// mustDecimal converte um valor monetário da configuração; valor inválido é fatal.
func mustDecimal(l logger.Logger, key, value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		l.Fatal("Valor monetário inválido em "+key+".", err)
	}
	return d
}
