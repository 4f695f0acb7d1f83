package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://e-jagriti.gov.in/services", cfg.JagritiBaseURL)
	assert.Equal(t, "https://e-jagriti.gov.in/advance-case-search", cfg.JagritiReferer)
	assert.Equal(t, "Mozilla/5.0", cfg.UserAgent)
	assert.Equal(t, 60*time.Second, cfg.SearchTimeout)
	assert.Equal(t, time.Duration(0), cfg.ListTimeout)
	assert.Equal(t, "DAILY ORDER", cfg.DefaultOrderType)
	assert.Equal(t, 5, cfg.MaxConcurrentSearches)
	assert.Equal(t, 100, cfg.APIRateLimit)
	assert.Equal(t, time.Minute, cfg.APIRateWindow)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JAGRITI_BASE_URL", "http://localhost:4000")
	t.Setenv("SEARCH_TIMEOUT", "15")
	t.Setenv("LIST_TIMEOUT", "5")
	t.Setenv("API_RATE_LIMIT", "0")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,10.0.0.0/8 ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://localhost:4000", cfg.JagritiBaseURL)
	assert.Equal(t, 15*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 5*time.Second, cfg.ListTimeout)
	assert.Equal(t, 0, cfg.APIRateLimit)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, cfg.TrustedProxies)
}

func TestLoadInvalidNumbers(t *testing.T) {
	keys := []string{"SEARCH_TIMEOUT", "LIST_TIMEOUT", "MAX_CONCURRENT_SEARCHES", "API_RATE_LIMIT", "API_RATE_WINDOW"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "soon")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid "+key)
		})
	}
}
