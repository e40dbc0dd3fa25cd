package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "https://erp.vce.ac.in", cfg.Portal.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.DashboardTTL())
	assert.Equal(t, 10*time.Minute, cfg.LoginTTL())
	assert.Equal(t, time.Minute, cfg.PurgeInterval())

	pc := cfg.PortalConfig()
	assert.Equal(t, 20*time.Second, pc.Timeout)
	assert.Equal(t, "/StudentPortal/Login.aspx", pc.LoginPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PORTAL_LOG_LEVEL", "debug")
	t.Setenv("PORTAL_PORTAL_BASE_URL", "http://erp.test")
	t.Setenv("PORTAL_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://erp.test", cfg.Portal.BaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  format: json
portal:
  syllabus_url: https://syllabus.example/get
cache:
  dashboard_ttl_seconds: 60
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://syllabus.example/get", cfg.Portal.SyllabusURL)
	assert.Equal(t, time.Minute, cfg.DashboardTTL())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"log level", map[string]string{"PORTAL_LOG_LEVEL": "loud"}},
		{"log format", map[string]string{"PORTAL_LOG_FORMAT": "xml"}},
		{"timeout", map[string]string{"PORTAL_PORTAL_TIMEOUT_SECONDS": "0"}},
		{"ttl", map[string]string{"PORTAL_CACHE_LOGIN_TTL_SECONDS": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
