package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 15*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, int64(10*1024*1024), cfg.Assets.MaxFileSizeBytes)
	assert.Contains(t, cfg.Assets.AllowedMIMEs, "application/pdf")
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("CATALOG_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://app.harx.ai , ,https://admin.harx.ai")
	v.Set("ASSETS_MAX_FILE_SIZE", -1)

	cfg := fromViper(v)

	assert.Equal(t, 15*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, []string{"https://app.harx.ai", "https://admin.harx.ai"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, int64(10*1024*1024), cfg.Assets.MaxFileSizeBytes)
}
