package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Profile selects the runtime environment the browser is launched in.
// It is always chosen explicitly by the caller (env/config), never
// auto-detected by probing the filesystem.
type Profile string

const (
	// ProfileDesktop runs the browser with its default sandbox.
	ProfileDesktop Profile = "desktop"

	// ProfileContainer disables the Chrome sandbox, required in most
	// unprivileged container runtimes.
	ProfileContainer Profile = "container"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Rater     RaterConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance used by the
// browser-driven acquisition path.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// Profile selects the sandbox behavior: "desktop" keeps the Chrome
	// sandbox, "container" disables it.
	Profile Profile // default: "desktop"

	// MaxPages is the page pool capacity.
	MaxPages int // default: 4

	// ViewportWidth/ViewportHeight fix the browser viewport so the
	// rating service renders a predictable layout.
	ViewportWidth  int // default: 1366
	ViewportHeight int // default: 900

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// RaterConfig controls the rating pipeline.
type RaterConfig struct {
	// ServiceURL is the base URL of the external website-rating service.
	ServiceURL string // default: "https://www.ratemysite.xyz/"

	// HTTPTimeout is the deadline for loading the service homepage.
	HTTPTimeout time.Duration // default: 10s

	// SubmitTimeout is the deadline for the form/query submission call.
	SubmitTimeout time.Duration // default: 20s

	// BrowserTimeout bounds the whole browser-driven attempt.
	BrowserTimeout time.Duration // default: 45s

	// SettleDelay is how long to wait after a submission for the service
	// to finish rendering/processing before extraction.
	SettleDelay time.Duration // default: 8s

	// PaceDelay is the fixed delay between consecutive URLs in a batch.
	PaceDelay time.Duration // default: 1s

	// MinContentChars is the extraction sufficiency threshold: extracted
	// report text shorter than this triggers the synthesizer fallback.
	MinContentChars int // default: 200

	// StrictContent, when true, reports insufficient content after all
	// acquisition strategies as an error instead of synthesizing.
	StrictContent bool // default: false

	// EnableBrowser toggles the browser-driven acquisition strategy.
	EnableBrowser bool // default: true

	// Stealth enables anti-bot-detection evasions on the browser path.
	Stealth bool // default: false
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// CacheConfig controls the report cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached reports.
	MaxEntries int // default: 1000
}

// WebhookConfig controls batch completion notifications.
type WebhookConfig struct {
	// URL receives batch.completed events when non-empty.
	URL string

	// Secret signs event payloads with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SITEGAUGE_HOST", "0.0.0.0"),
			Port: envIntOr("SITEGAUGE_PORT", 8080),
			Mode: envOr("SITEGAUGE_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("SITEGAUGE_HEADLESS", true),
			Profile:        Profile(envOr("SITEGAUGE_PROFILE", string(ProfileDesktop))),
			MaxPages:       envIntOr("SITEGAUGE_MAX_PAGES", 4),
			ViewportWidth:  envIntOr("SITEGAUGE_VIEWPORT_WIDTH", 1366),
			ViewportHeight: envIntOr("SITEGAUGE_VIEWPORT_HEIGHT", 900),
			BrowserBin:     os.Getenv("SITEGAUGE_BROWSER_BIN"),
		},
		Rater: RaterConfig{
			ServiceURL:      envOr("SITEGAUGE_SERVICE_URL", "https://www.ratemysite.xyz/"),
			HTTPTimeout:     envDurationOr("SITEGAUGE_HTTP_TIMEOUT", 10*time.Second),
			SubmitTimeout:   envDurationOr("SITEGAUGE_SUBMIT_TIMEOUT", 20*time.Second),
			BrowserTimeout:  envDurationOr("SITEGAUGE_BROWSER_TIMEOUT", 45*time.Second),
			SettleDelay:     envDurationOr("SITEGAUGE_SETTLE_DELAY", 8*time.Second),
			PaceDelay:       envDurationOr("SITEGAUGE_PACE_DELAY", time.Second),
			MinContentChars: envIntOr("SITEGAUGE_MIN_CONTENT_CHARS", 200),
			StrictContent:   envBoolOr("SITEGAUGE_STRICT_CONTENT", false),
			EnableBrowser:   envBoolOr("SITEGAUGE_ENABLE_BROWSER", true),
			Stealth:         envBoolOr("SITEGAUGE_STEALTH", false),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SITEGAUGE_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SITEGAUGE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SITEGAUGE_RATE_RPS", 2.0),
			Burst:             envIntOr("SITEGAUGE_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SITEGAUGE_CACHE_MAX_ENTRIES", 1000),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("SITEGAUGE_WEBHOOK_URL"),
			Secret: os.Getenv("SITEGAUGE_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("SITEGAUGE_LOG_LEVEL", "info"),
			Format: envOr("SITEGAUGE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
