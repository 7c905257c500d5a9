package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "ENV", "PORT", "DATABASE_URL", "JWT_SECRET", "JWT_ACCESS_TTL", "STOCK_SERVICE_URL", "TECHNICIENS_SERVICE_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "8002", cfg.Port)
	assert.Equal(t, "interventions.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, "http://stock-service:8004", cfg.StockServiceURL)
	assert.Equal(t, "http://techniciens-service:8003", cfg.TechServiceURL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("STOCK_SERVICE_URL", "http://localhost:8004")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, "http://localhost:8004", cfg.StockServiceURL)
}

func TestLoad_BadTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "soon")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_ProdRequiresRealSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/interventions")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "an-actual-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.AppEnv)
}
