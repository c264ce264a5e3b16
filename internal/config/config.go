package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Драйверы хранилища строк.
const (
	StorageCSV      = "csv"
	StoragePostgres = "postgres"
)

// Config хранит все параметры запуска приложения.
type Config struct {
	Env                string
	HTTPPort           string
	OpenAIAPIKey       string
	OpenAIModel        string
	AIBaseURL          string
	AITimeout          time.Duration
	DataDir            string
	CompanyContextPath string
	SiteConfigPath     string
	CompanyName        string
	ContactEmail       string
	StoreURL           string
	StorageDriver      string
	DatabaseURL        string
	MigrationsPath     string
	AllowedOrigins     []string
	RateLimitLimit     int64
	RateLimitPeriod    time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")
	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		Env:                env,
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AIBaseURL:          getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
		DataDir:            dataDir,
		CompanyContextPath: getEnv("COMPANY_CONTEXT_PATH", filepath.Join(dataDir, "company_context.md")),
		SiteConfigPath:     getEnv("SITE_CONFIG_PATH", ""),
		CompanyName:        getEnv("COMPANY_NAME", ""),
		ContactEmail:       getEnv("CONTACT_EMAIL", ""),
		StoreURL:           getEnv("PAYHIP_STORE_URL", ""),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageCSV)),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "./migrations"),
	}

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:8501"}
	} else {
		for _, origin := range strings.Split(originsStr, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	var err error
	if cfg.AITimeout, err = parseDuration("AI_TIMEOUT", getEnv("AI_TIMEOUT", "60s")); err != nil {
		return nil, err
	}
	if cfg.RateLimitLimit, err = parseInt64("RATE_LIMIT_LIMIT", getEnv("RATE_LIMIT_LIMIT", "10")); err != nil {
		return nil, err
	}
	if cfg.RateLimitPeriod, err = parseDuration("RATE_LIMIT_PERIOD", getEnv("RATE_LIMIT_PERIOD", "1m")); err != nil {
		return nil, err
	}

	if cfg.OpenAIAPIKey == "" {
		// Не фатально: без ключа работают черновики без AI, трекер и подписка.
		log.Printf("config: WARNING - OPENAI_API_KEY не задан, AI функции будут недоступны")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// LoadAI читает только параметры AI клиента. Используется CLI, которому
// не нужны хранилище и HTTP.
func LoadAI() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AIBaseURL:    getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
	}

	var err error
	if cfg.AITimeout, err = parseDuration("AI_TIMEOUT", getEnv("AI_TIMEOUT", "60s")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность параметров.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HTTPPort, validation.Required),
		validation.Field(&c.OpenAIModel, validation.Required),
		validation.Field(&c.AIBaseURL, validation.Required),
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.StorageDriver, validation.Required, validation.In(StorageCSV, StoragePostgres)),
		validation.Field(&c.DatabaseURL, validation.When(c.StorageDriver == StoragePostgres, validation.Required)),
		validation.Field(&c.AITimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RateLimitLimit, validation.Required, validation.Min(int64(1))),
	)
}

// IsDevelopment сообщает, запущено ли приложение локально.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// parseDuration парсит строку в duration.
func parseDuration(key, v string) (time.Duration, error) {
	dur, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: не удалось распарсить длительность %s=%q: %w", key, v, err)
	}
	return dur, nil
}

// parseInt64 парсит строку в int64.
func parseInt64(key, v string) (int64, error) {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: не удалось распарсить число %s=%q: %w", key, v, err)
	}
	return num, nil
}
