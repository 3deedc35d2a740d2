package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backend selectors.
const (
	StoreMemory = "memory"
	StoreGorm   = "gorm"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	SQLitePath          string
	RedisURL            string
	JWTSecret           string
	SessionTTL          time.Duration
	GoogleClientID      string
	AdminEmails         []string
	Village             string
	ProgramName         string
	StoreBackend        string
	SummaryCacheTTL     time.Duration
	AIProvider          string
	OpenAIAPIKey        string
	AIModel             string
	DraftRateLimit      int
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PRESENSI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Presensi API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("sqlite.path", "presensi.db")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("village", "Desa Sidorahayu")
	v.SetDefault("program.name", "KKN Kelompok 34")
	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("summary.cache_ttl", "1m")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("draft.rate_limit", 5)
	v.SetDefault("cloudinary.folder", "presensi/evidence")

	sessionTTL, err := time.ParseDuration(v.GetString("session.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("summary.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		SQLitePath:          v.GetString("sqlite.path"),
		RedisURL:            v.GetString("redis.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		SessionTTL:          sessionTTL,
		GoogleClientID:      v.GetString("google.client_id"),
		AdminEmails:         splitList(v.GetString("admin.emails")),
		Village:             v.GetString("village"),
		ProgramName:         v.GetString("program.name"),
		StoreBackend:        strings.ToLower(v.GetString("store.backend")),
		SummaryCacheTTL:     cacheTTL,
		AIProvider:          strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		AIModel:             v.GetString("ai.model"),
		DraftRateLimit:      v.GetInt("draft.rate_limit"),
		CloudinaryCloudName: v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:    v.GetString("cloudinary.folder"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.StoreBackend != StoreMemory && cfg.StoreBackend != StoreGorm {
		return Config{}, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}

	return cfg, nil
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
