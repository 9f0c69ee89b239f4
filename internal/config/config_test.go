package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simrng/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SIGNIFICANCE_LEVEL", "CRITICAL_METHOD", "WORKERS", "DATABASE_URL", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.Statistics.SignificanceLevel)
	assert.Equal(t, 5.0, cfg.Statistics.MinExpectedCount)
	assert.Equal(t, CriticalNewton, cfg.Statistics.CriticalMethod)
	assert.Equal(t, 30, cfg.Generation.PageSize)
	assert.Empty(t, cfg.Database.URL)
	assert.Len(t, cfg.Server.CORSOrigins, 2)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("SIGNIFICANCE_LEVEL", "0.01")
	t.Setenv("CRITICAL_METHOD", "TABLE")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DATABASE_URL", "postgres://localhost/simrng")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.Server.Port)
	assert.Equal(t, 0.01, cfg.Statistics.SignificanceLevel)
	assert.Equal(t, CriticalTable, cfg.Statistics.CriticalMethod)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres://localhost/simrng", cfg.Database.URL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SIGNIFICANCE_LEVEL":  "1.5",
		"MIN_EXPECTED_COUNT":  "0",
		"CRITICAL_METHOD":     "bisection",
		"MAX_CONCURRENT_JOBS": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestClampWorkers(t *testing.T) {
	limit := runtime.GOMAXPROCS(0)

	assert.Equal(t, 1, ClampWorkers(0))
	assert.Equal(t, 1, ClampWorkers(-4))
	assert.Equal(t, limit, ClampWorkers(limit+10))
	assert.Equal(t, 1, ClampWorkers(1))
}
