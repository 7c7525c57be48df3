package seoblog

import "time"

// SiteConfig holds all configuration for a seoblog server.
type SiteConfig struct {
	Name string // Page heading (default "AI SEO 블로그 생성기")
	Addr string // Listen address (default ":3000")

	GeminiAPIKey     string        // Required: Gemini API key
	TextModel        string        // Outline model (default gemini-2.5-flash)
	ImageModel       string        // Image model (default imagen-3.0-generate-002)
	ImageAspectRatio string        // Imagen aspect ratio (default "16:9")
	ImageMaxWidth    int           // Images wider than this are scaled down (default 1024)
	ImageConcurrency int           // Max parallel image calls; 0 means unbounded
	CallTimeout      time.Duration // Per API call timeout (default 90s)

	GenerateTimeout time.Duration // Upper bound for one generation cycle (default 5min)
	JobTTL          time.Duration // Finished jobs are discarded after this (default 30min)
	RefreshSeconds  int           // Loading page reload interval (default 2)
	GenerateLimit   int           // Submissions per client IP per window (default 10)
	GenerateWindow  time.Duration // Rate limit window (default 1h)

	SessionSecret string // Required: session cookie secret
	CookieSecure  bool   // Set true for HTTPS

	LogLevel  string // debug, info, warn, error (default info)
	LogFormat string // json or text (default json)
	LogFile   string // Rotated log file; empty logs to stderr
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "AI SEO 블로그 생성기"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = 5 * time.Minute
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 30 * time.Minute
	}
	if c.RefreshSeconds <= 0 {
		c.RefreshSeconds = 2
	}
	if c.GenerateLimit <= 0 {
		c.GenerateLimit = 10
	}
	if c.GenerateWindow <= 0 {
		c.GenerateWindow = time.Hour
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithClock overrides the time source used for job bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
