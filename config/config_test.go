package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetBasePath(t *testing.T) {
	cases := map[string]string{
		"":       "/",
		"/":      "/",
		"panel":  "/panel/",
		"/panel": "/panel/",
		"panel/": "/panel/",
		"/a/b/":  "/a/b/",
	}
	for in, want := range cases {
		t.Setenv("LIQ_BASE_PATH", in)
		assert.Equal(t, want, GetBasePath(), in)
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LIQ_DEBUG", "")
	t.Setenv("LIQ_LOG_LEVEL", "")
	assert.Equal(t, Info, GetLogLevel())

	t.Setenv("LIQ_LOG_LEVEL", "warn")
	assert.Equal(t, Warn, GetLogLevel())

	t.Setenv("LIQ_DEBUG", "true")
	assert.Equal(t, Debug, GetLogLevel())
	assert.True(t, IsDebug())
}

func TestEnvNumbers(t *testing.T) {
	t.Setenv("LIQ_PORT", "")
	assert.Equal(t, defaultPort, GetPort())

	t.Setenv("LIQ_PORT", " 9000 ")
	assert.Equal(t, 9000, GetPort())

	t.Setenv("LIQ_PORT", "nine")
	assert.Equal(t, defaultPort, GetPort())

	t.Setenv("LIQ_LOGIN_LIMIT", "0")
	assert.Equal(t, 0, GetLoginLimit())
}

func TestGetSourceConfig(t *testing.T) {
	t.Setenv("LIQ_SPREADSHEET_KEY", "")
	t.Setenv("LIQ_CREDENTIALS_FILE", "")
	t.Setenv("LIQ_CREDENTIALS_JSON", "")
	t.Setenv("LIQ_CACHE_TTL", "")
	t.Setenv("LIQ_FETCH_TIMEOUT", "-3s")
	t.Setenv("LIQ_REFRESH_INTERVAL", "")

	cfg := GetSourceConfig()
	assert.Equal(t, DefaultSpreadsheetKey, cfg.SpreadsheetKey)
	assert.Equal(t, "Datos", cfg.RecordsSheet)
	assert.Equal(t, "Usuarios", cfg.UsersSheet)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Zero(t, cfg.RefreshInterval)
	assert.False(t, cfg.HasCredentials())

	t.Setenv("LIQ_SPREADSHEET_KEY", "abc")
	t.Setenv("LIQ_CACHE_TTL", "30s")
	t.Setenv("LIQ_CREDENTIALS_FILE", "/etc/liquidaciones/sa.json")
	cfg = GetSourceConfig()
	assert.Equal(t, "abc", cfg.SpreadsheetKey)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.HasCredentials())
}

func TestNameAndVersion(t *testing.T) {
	assert.Equal(t, "liquidaciones", GetName())
	assert.NotEmpty(t, GetVersion())
}

func TestGetTrustedProxies(t *testing.T) {
	t.Setenv("LIQ_TRUSTED_PROXIES", "")
	assert.Empty(t, GetTrustedProxies())

	t.Setenv("LIQ_TRUSTED_PROXIES", " 10.0.0.1 ,, 192.168.0.0/16 ")
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, GetTrustedProxies())
}
