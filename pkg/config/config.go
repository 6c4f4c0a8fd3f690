package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Catalog  CatalogConfig
	Assets   AssetsConfig
	Briefs   BriefsConfig
	AI       AIConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig governs caching of skill, language and lookup catalogs.
type CatalogConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// AssetsConfig controls documentation uploads.
type AssetsConfig struct {
	StorageDir       string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// BriefsConfig configures asynchronous PDF brief generation for published gigs.
type BriefsConfig struct {
	Enabled           bool
	StorageDir        string
	WorkerConcurrency int
	WorkerRetries     int
}

// AIConfig toggles the generative free-text parser.
type AIConfig struct {
	Enabled bool
	APIKey  string
	Model   string
	Timeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		CacheEnabled: v.GetBool("CATALOG_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), 15*time.Minute),
	}

	maxAssetSize := v.GetInt64("ASSETS_MAX_FILE_SIZE")
	if maxAssetSize <= 0 {
		maxAssetSize = 10 * 1024 * 1024
	}
	cfg.Assets = AssetsConfig{
		StorageDir:       v.GetString("ASSETS_STORAGE_DIR"),
		SignedURLSecret:  v.GetString("ASSETS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("ASSETS_SIGNED_URL_TTL"), 30*time.Minute),
		MaxFileSizeBytes: maxAssetSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("ASSETS_ALLOWED_MIME_TYPES")),
	}

	cfg.Briefs = BriefsConfig{
		Enabled:           v.GetBool("BRIEFS_ENABLED"),
		StorageDir:        v.GetString("BRIEFS_STORAGE_DIR"),
		WorkerConcurrency: v.GetInt("BRIEFS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("BRIEFS_WORKER_RETRIES"),
	}

	cfg.AI = AIConfig{
		Enabled: v.GetBool("AI_ENABLED"),
		APIKey:  v.GetString("AI_API_KEY"),
		Model:   v.GetString("AI_MODEL"),
		Timeout: parseDuration(v.GetString("AI_TIMEOUT"), 30*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "harx_gigs")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_CACHE_ENABLED", true)
	v.SetDefault("CATALOG_CACHE_TTL", "15m")

	v.SetDefault("ASSETS_STORAGE_DIR", "./assets")
	v.SetDefault("ASSETS_SIGNED_URL_SECRET", "dev_assets_secret")
	v.SetDefault("ASSETS_SIGNED_URL_TTL", "30m")
	v.SetDefault("ASSETS_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("ASSETS_ALLOWED_MIME_TYPES", "application/pdf,image/png,image/jpeg,application/vnd.openxmlformats-officedocument.wordprocessingml.document,video/mp4")

	v.SetDefault("BRIEFS_ENABLED", true)
	v.SetDefault("BRIEFS_STORAGE_DIR", "./briefs")
	v.SetDefault("BRIEFS_WORKER_CONCURRENCY", 1)
	v.SetDefault("BRIEFS_WORKER_RETRIES", 3)

	v.SetDefault("AI_ENABLED", false)
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AI_TIMEOUT", "30s")
}

// isMissingFile reports the os-level "no such file" error viper returns for an absent .env.
func isMissingFile(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
