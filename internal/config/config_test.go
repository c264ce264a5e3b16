package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate переносит тест в пустой каталог, чтобы не подхватить чужой .env.
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("DATA_DIR", "/tmp/td")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageCSV, cfg.StorageDriver)
	assert.Equal(t, 60*time.Second, cfg.AITimeout)
	assert.Equal(t, filepath.Join("/tmp/td", "company_context.md"), cfg.CompanyContextPath)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8501"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	isolate(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://tribaldeskai.com, https://app.tribaldeskai.com ,")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/td")
	t.Setenv("RATE_LIMIT_LIMIT", "30")
	t.Setenv("AI_TIMEOUT", "15s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://tribaldeskai.com", "https://app.tribaldeskai.com"}, cfg.AllowedOrigins)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, int64(30), cfg.RateLimitLimit)
	assert.Equal(t, 15*time.Second, cfg.AITimeout)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"production without origins", map[string]string{"APP_ENV": "production", "CORS_ALLOWED_ORIGINS": ""}},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""}},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{"bad timeout", map[string]string{"AI_TIMEOUT": "soon"}},
		{"timeout too small", map[string]string{"AI_TIMEOUT": "10ms"}},
		{"bad limit", map[string]string{"RATE_LIMIT_LIMIT": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("APP_ENV", "development")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSite_YAMLAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	t.Setenv("TD_TAGLINE", "Grants made simple")
	require.NoError(t, os.WriteFile(path, []byte("tagline: ${TD_TAGLINE}\nreasons:\n  - One\n"), 0o644))

	cfg := &Config{SiteConfigPath: path, ContactEmail: "hello@example.org"}
	site, err := cfg.Site()

	require.NoError(t, err)
	assert.Equal(t, "Grants made simple", site.Tagline)
	assert.Equal(t, []string{"One"}, site.Reasons)
	assert.Equal(t, "TribalDesk AI", site.CompanyName)
	assert.Equal(t, "hello@example.org", site.ContactEmail)
	assert.Len(t, site.Solutions, 3)
}

func TestSite_MissingFileUsesDefaults(t *testing.T) {
	site, err := LoadSiteContent(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultSiteContent(), site)
}

func TestSite_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reasons: [unclosed"), 0o644))

	_, err := LoadSiteContent(path)
	assert.Error(t, err)
}

func TestOfferedModels(t *testing.T) {
	assert.Equal(t,
		[]string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini", "gpt-3.5-turbo"},
		(&Config{OpenAIModel: "gpt-4o-mini"}).OfferedModels())
	assert.Equal(t, "o3-mini", (&Config{OpenAIModel: "o3-mini"}).OfferedModels()[0])
}
