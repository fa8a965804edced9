package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	MigrationsPath string
	AdminPassword  string
	RateLimit      string

	// Historical rates (Fixer)
	FixerAPIKey       string
	FixerBaseURL      string
	BackfillInterval  time.Duration
	RateBaseCurrency  string
	RateQuoteCurrency string

	// Live rate (exchangerate-api)
	LiveRateBaseURL string

	// Fundamentals (Alpha Vantage)
	AlphaVantageKey     string
	AlphaVantageBaseURL string
	QuoteCallInterval   time.Duration

	// LLM
	GeminiAPIKey string
	GeminiModel  string

	// Scheduled jobs; an empty schedule disables the job.
	StockRefreshCron string
	RateBackfillCron string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		AdminPassword:       v.GetString("ADMIN_PASSWORD"),
		RateLimit:           v.GetString("RATE_LIMIT"),
		FixerAPIKey:         v.GetString("FIXER_API_KEY"),
		FixerBaseURL:        v.GetString("FIXER_BASE_URL"),
		BackfillInterval:    durationSetting(v, "BACKFILL_INTERVAL", 100*time.Millisecond),
		RateBaseCurrency:    v.GetString("RATE_BASE_CURRENCY"),
		RateQuoteCurrency:   v.GetString("RATE_QUOTE_CURRENCY"),
		LiveRateBaseURL:     v.GetString("LIVE_RATE_BASE_URL"),
		AlphaVantageKey:     v.GetString("ALPHA_VANTAGE_KEY"),
		AlphaVantageBaseURL: v.GetString("ALPHA_VANTAGE_BASE_URL"),
		QuoteCallInterval:   durationSetting(v, "QUOTE_CALL_INTERVAL", 1500*time.Millisecond),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		GeminiModel:         v.GetString("GEMINI_MODEL"),
		StockRefreshCron:    v.GetString("STOCK_REFRESH_CRON"),
		RateBackfillCron:    v.GetString("RATE_BACKFILL_CRON"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.AdminPassword == "" {
		log.Println("Warning: ADMIN_PASSWORD not set. Admin endpoints will reject every request.")
	}
	if cfg.FixerAPIKey == "" {
		log.Println("Warning: FIXER_API_KEY not set. Exchange rate backfills are disabled.")
	}
	if cfg.AlphaVantageKey == "" {
		log.Println("Warning: ALPHA_VANTAGE_KEY not set. Stock fetches are disabled.")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. AI endpoints are disabled.")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("RATE_LIMIT", "60-M")
	v.SetDefault("FIXER_API_KEY", "")
	v.SetDefault("FIXER_BASE_URL", "http://data.fixer.io/api")
	v.SetDefault("BACKFILL_INTERVAL", "100ms")
	v.SetDefault("RATE_BASE_CURRENCY", "USD")
	v.SetDefault("RATE_QUOTE_CURRENCY", "INR")
	v.SetDefault("LIVE_RATE_BASE_URL", "https://api.exchangerate-api.com")
	v.SetDefault("ALPHA_VANTAGE_KEY", "")
	v.SetDefault("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co")
	v.SetDefault("QUOTE_CALL_INTERVAL", "1500ms")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemma-3-27b-it")
	v.SetDefault("STOCK_REFRESH_CRON", "")
	v.SetDefault("RATE_BACKFILL_CRON", "")
}

// durationSetting parses key as a Go duration, falling back (with a warning) on empty or invalid values.
func durationSetting(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
