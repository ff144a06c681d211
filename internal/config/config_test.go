package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"x-chats.com/web/internal/ogimage"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, ":8080", cfg.Server.Addr())
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "https://x-chats.com", cfg.Site.URL)
	require.Equal(t, "https://x-chats.com", cfg.Site.ImageURL)
	require.Equal(t, "Top Chats", cfg.Site.Name)
	require.Equal(t, "en", cfg.Site.DefaultLocale)
	require.Empty(t, cfg.Site.Locales)
	require.Equal(t, "data/sites.json", cfg.Data.CatalogPath)
	require.Equal(t, ogimage.FallbackPlaceholder, cfg.OG.Fallback)
	require.Equal(t, ogimage.DefaultPlaceholderPath, cfg.OG.Placeholder)
	require.False(t, cfg.Dev)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":                       "9090",
		"TOPCHATS_WEB_READ_TIMEOUT":  "20s",
		"TOPCHATS_WEB_IDLE_TIMEOUT":  "2m",
		"TOPCHATS_SITE_URL":          "https://example.com/",
		"TOPCHATS_IMAGE_URL":         "https://img.example.com/",
		"TOPCHATS_LOCALES":           "en, DE ,,es",
		"TOPCHATS_OG_FALLBACK":       "overall",
		"TOPCHATS_OG_PLACEHOLDER":    "/static/share.png",
		"TOPCHATS_DEV":               "yes",
		"LOG_LEVEL":                  "DEBUG",
		"TOPCHATS_WEB_WRITE_TIMEOUT": "nonsense",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 2*time.Minute, cfg.Server.IdleTimeout)
	require.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	require.Equal(t, "https://example.com", cfg.Site.URL)
	require.Equal(t, "https://img.example.com", cfg.Site.ImageURL)
	require.Equal(t, []string{"en", "de", "es"}, cfg.Site.Locales)
	require.Equal(t, ogimage.FallbackOverall, cfg.OG.Fallback)
	require.Equal(t, "/static/share.png", cfg.OG.Placeholder)
	require.True(t, cfg.Dev)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadLegacyURLKeys(t *testing.T) {
	env := map[string]string{
		"NEXT_PUBLIC_BASE_URL": "https://base.example.com",
		"NEXT_PUBLIC_IMG_URL":  "https://img.example.com",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)
	require.Equal(t, "https://base.example.com", cfg.Site.URL)
	require.Equal(t, "https://img.example.com", cfg.Site.ImageURL)

	cfg, err = Load(WithEnvMap(map[string]string{
		"NEXT_PUBLIC_SITE_URL": "https://site.example.com",
		"NEXT_PUBLIC_BASE_URL": "https://base.example.com",
	}), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)
	require.Equal(t, "https://site.example.com", cfg.Site.URL)
	require.Equal(t, "https://site.example.com", cfg.Site.ImageURL)
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nTOPCHATS_WEB_PORT=7000\nTOPCHATS_SITE_NAME=\"Cam Ranking\"\nexport TOPCHATS_CATALOG_PATH=/srv/sites.yaml\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(
		WithEnvFile(path),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{"TOPCHATS_SITE_NAME": "From Map"}),
	)
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Server.Port)
	require.Equal(t, "From Map", cfg.Site.Name)
	require.Equal(t, "/srv/sites.yaml", cfg.Data.CatalogPath)
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load(WithEnvFile(filepath.Join(t.TempDir(), "absent.env")), WithoutSystemEnv())
	require.NoError(t, err)
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"PORT":                    "http",
		"TOPCHATS_SITE_URL":       "x-chats.com",
		"TOPCHATS_OG_FALLBACK":    "random",
		"TOPCHATS_LOCALES":        "de,es",
		"TOPCHATS_DEFAULT_LOCALE": "en",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.ElementsMatch(t, []string{"OG.Fallback", "Server.Port", "Site.URL", "Site.Locales"}, vErr.Fields())
	require.Contains(t, err.Error(), "Site.URL")
}
