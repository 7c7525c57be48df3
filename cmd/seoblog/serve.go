package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ove9/seoblog"
	"github.com/ove9/seoblog/gemini"
	"github.com/ove9/seoblog/generate"
	"github.com/ove9/seoblog/logging"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", ":3000", "listen address")
	f.String("name", "", "page heading")
	f.String("gemini-api-key", "", "Gemini API key (also read from GEMINI_API_KEY)")
	f.String("text-model", gemini.DefaultTextModel, "model used to write the outline")
	f.String("image-model", gemini.DefaultImageModel, "model used to illustrate image prompts")
	f.String("image-aspect-ratio", gemini.DefaultAspectRatio, "aspect ratio requested from Imagen models")
	f.Int("image-max-width", 1024, "generated images wider than this are scaled down")
	f.Int("image-concurrency", 0, "max parallel image calls (0 = unbounded)")
	f.Duration("call-timeout", gemini.DefaultTimeout, "timeout for a single Gemini call")
	f.Duration("generate-timeout", 5*time.Minute, "timeout for one whole generation")
	f.Duration("job-ttl", 30*time.Minute, "how long finished posts stay available")
	f.Int("refresh-seconds", 2, "reload interval of the loading page")
	f.Int("generate-limit", 10, "submissions allowed per client IP per window")
	f.Duration("generate-window", time.Hour, "rate limit window")
	f.String("session-secret", "", "session cookie secret (required)")
	f.Bool("cookie-secure", false, "mark cookies Secure (HTTPS)")
	f.String("log-level", "info", "debug, info, warn or error")
	f.String("log-format", "json", "json or text")
	f.String("log-file", "", "write logs to a rotated file instead of stderr")

	_ = viper.BindPFlags(f)
	_ = viper.BindEnv("gemini-api-key", "SEOBLOG_GEMINI_API_KEY", "GEMINI_API_KEY")

	rootCmd.AddCommand(serveCmd)
}

func loadSiteConfig() seoblog.SiteConfig {
	return seoblog.SiteConfig{
		Name:             viper.GetString("name"),
		Addr:             viper.GetString("addr"),
		GeminiAPIKey:     viper.GetString("gemini-api-key"),
		TextModel:        viper.GetString("text-model"),
		ImageModel:       viper.GetString("image-model"),
		ImageAspectRatio: viper.GetString("image-aspect-ratio"),
		ImageMaxWidth:    viper.GetInt("image-max-width"),
		ImageConcurrency: viper.GetInt("image-concurrency"),
		CallTimeout:      viper.GetDuration("call-timeout"),
		GenerateTimeout:  viper.GetDuration("generate-timeout"),
		JobTTL:           viper.GetDuration("job-ttl"),
		RefreshSeconds:   viper.GetInt("refresh-seconds"),
		GenerateLimit:    viper.GetInt("generate-limit"),
		GenerateWindow:   viper.GetDuration("generate-window"),
		SessionSecret:    viper.GetString("session-secret"),
		CookieSecure:     viper.GetBool("cookie-secure"),
		LogLevel:         viper.GetString("log-level"),
		LogFormat:        viper.GetString("log-format"),
		LogFile:          viper.GetString("log-file"),
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadSiteConfig()

	if _, err := logging.Init(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	}); err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		return fmt.Errorf("session secret is required (--session-secret or SEOBLOG_SESSION_SECRET)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:        cfg.GeminiAPIKey,
		TextModel:     cfg.TextModel,
		ImageModel:    cfg.ImageModel,
		AspectRatio:   cfg.ImageAspectRatio,
		Timeout:       cfg.CallTimeout,
		MaxImageWidth: cfg.ImageMaxWidth,
	})
	if err != nil {
		return err
	}

	pipeline := &generate.Pipeline{
		Writer:      client,
		Illustrator: client,
		Concurrency: cfg.ImageConcurrency,
	}
	app := seoblog.New(cfg, pipeline)
	if err := app.Init(); err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}
