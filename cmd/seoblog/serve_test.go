package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ove9/seoblog/gemini"
)

// setServeFlag sets a serve flag for the duration of the test.
func setServeFlag(t *testing.T, name, value string) {
	t.Helper()
	f := serveCmd.Flags().Lookup(name)
	require.NotNil(t, f, "unknown flag %q", name)
	old := f.Value.String()
	require.NoError(t, serveCmd.Flags().Set(name, value))
	t.Cleanup(func() {
		_ = f.Value.Set(old)
		f.Changed = false
	})
}

func TestLoadSiteConfigDefaults(t *testing.T) {
	t.Setenv("SEOBLOG_SESSION_SECRET", "")
	initConfig()

	cfg := loadSiteConfig()
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, gemini.DefaultTextModel, cfg.TextModel)
	assert.Equal(t, gemini.DefaultImageModel, cfg.ImageModel)
	assert.Equal(t, gemini.DefaultAspectRatio, cfg.ImageAspectRatio)
	assert.Equal(t, 1024, cfg.ImageMaxWidth)
	assert.Equal(t, 0, cfg.ImageConcurrency)
	assert.Equal(t, gemini.DefaultTimeout, cfg.CallTimeout)
	assert.Equal(t, 5*time.Minute, cfg.GenerateTimeout)
	assert.Equal(t, 30*time.Minute, cfg.JobTTL)
	assert.Equal(t, 2, cfg.RefreshSeconds)
	assert.Equal(t, 10, cfg.GenerateLimit)
	assert.Equal(t, time.Hour, cfg.GenerateWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.SessionSecret)
}

func TestLoadSiteConfigFromEnv(t *testing.T) {
	t.Setenv("SEOBLOG_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "plain-key")
	t.Setenv("SEOBLOG_SESSION_SECRET", "from-env")
	t.Setenv("SEOBLOG_JOB_TTL", "45m")
	t.Setenv("SEOBLOG_GENERATE_LIMIT", "3")
	t.Setenv("SEOBLOG_COOKIE_SECURE", "true")
	initConfig()

	cfg := loadSiteConfig()
	assert.Equal(t, "plain-key", cfg.GeminiAPIKey)
	assert.Equal(t, "from-env", cfg.SessionSecret)
	assert.Equal(t, 45*time.Minute, cfg.JobTTL)
	assert.Equal(t, 3, cfg.GenerateLimit)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadSiteConfigPrefixedKeyWins(t *testing.T) {
	t.Setenv("SEOBLOG_GEMINI_API_KEY", "prefixed-key")
	t.Setenv("GEMINI_API_KEY", "plain-key")
	initConfig()

	assert.Equal(t, "prefixed-key", loadSiteConfig().GeminiAPIKey)
}

func TestLoadSiteConfigFromFlags(t *testing.T) {
	t.Setenv("SEOBLOG_SESSION_SECRET", "")
	initConfig()

	setServeFlag(t, "addr", "127.0.0.1:8080")
	setServeFlag(t, "name", "사내 블로그")
	setServeFlag(t, "text-model", "gemini-test")
	setServeFlag(t, "image-model", "gemini-image-test")
	setServeFlag(t, "image-aspect-ratio", "4:3")
	setServeFlag(t, "image-max-width", "640")
	setServeFlag(t, "image-concurrency", "2")
	setServeFlag(t, "call-timeout", "30s")
	setServeFlag(t, "generate-timeout", "2m")
	setServeFlag(t, "refresh-seconds", "5")
	setServeFlag(t, "generate-window", "10m")
	setServeFlag(t, "session-secret", "from-flag")
	setServeFlag(t, "log-level", "debug")
	setServeFlag(t, "log-format", "text")
	setServeFlag(t, "log-file", "logs/seoblog.log")

	cfg := loadSiteConfig()
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, "사내 블로그", cfg.Name)
	assert.Equal(t, "gemini-test", cfg.TextModel)
	assert.Equal(t, "gemini-image-test", cfg.ImageModel)
	assert.Equal(t, "4:3", cfg.ImageAspectRatio)
	assert.Equal(t, 640, cfg.ImageMaxWidth)
	assert.Equal(t, 2, cfg.ImageConcurrency)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
	assert.Equal(t, 2*time.Minute, cfg.GenerateTimeout)
	assert.Equal(t, 5, cfg.RefreshSeconds)
	assert.Equal(t, 10*time.Minute, cfg.GenerateWindow)
	assert.Equal(t, "from-flag", cfg.SessionSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "logs/seoblog.log", cfg.LogFile)
}
