package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backends de persistência suportados.
const (
	StorageLocal    = "local"
	StoragePostgres = "postgres"
)

// Config armazena todas as configurações do aplicativo Vitrine.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Persistência
	StorageBackend string // "local" (arquivos JSON em DataDir) ou "postgres"
	DataDir        string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis). Endereço vazio desliga cache e rate limiting.
	RedisAddr    string
	CacheTimeout time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration
	AdminEmail   string

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Loja
	SeedFile      string
	StoreName     string
	StoreWhatsApp string
	StoreContact  string

	// Frete padrão, em reais ("0" = sem frete / frete grátis desligado)
	ShippingFee      string
	FreeShippingFrom string

	// Carrinhos de visitantes sem acesso há mais que CartIdleTTL são descartados.
	CartIdleTTL       time.Duration
	CartSweepInterval time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Persistência
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		DataDir:        getEnv("DATA_DIR", "./data"),
		DBTimeout:      getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		CacheTimeout: getDurationEnv("CACHE_TIMEOUT_SEC", 10) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,
		AdminEmail:   strings.ToLower(getEnv("ADMIN_EMAIL", "")),

		// 5. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		// 6. Loja
		SeedFile:      getEnv("SEED_FILE", ""),
		StoreName:     getEnv("STORE_NAME", "Vitrine"),
		StoreWhatsApp: getEnv("STORE_WHATSAPP", ""),
		StoreContact:  getEnv("STORE_CONTACT_EMAIL", ""),

		ShippingFee:      getEnv("SHIPPING_FEE", "0"),
		FreeShippingFrom: getEnv("FREE_SHIPPING_FROM", "0"),

		CartIdleTTL:       getDurationEnv("CART_IDLE_TTL_MIN", 24*60) * time.Minute,
		CartSweepInterval: getDurationEnv("CART_SWEEP_INTERVAL_MIN", 10) * time.Minute,
	}

	switch cfg.StorageBackend {
	case StoragePostgres:
		// O Postgres só é obrigatório quando escolhido como backend.
		cfg.DatabaseURL = mustGetEnv("DATABASE_URL")
	case StorageLocal:
		cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	default:
		log.Fatalf("❌ Erro de Configuração: STORAGE_BACKEND inválido (%s). Use 'local' ou 'postgres'.", cfg.StorageBackend)
	}

	return cfg
}

// UsePostgres informa se o backend remoto foi selecionado.
func (c *Config) UsePostgres() bool {
	return c.StorageBackend == StoragePostgres
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
