package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/sitegauge/api"
	"github.com/use-agent/sitegauge/batch"
	"github.com/use-agent/sitegauge/cache"
	"github.com/use-agent/sitegauge/client"
	"github.com/use-agent/sitegauge/config"
	"github.com/use-agent/sitegauge/engine"
	"github.com/use-agent/sitegauge/extract"
	"github.com/use-agent/sitegauge/rater"
	"github.com/use-agent/sitegauge/report"
	"github.com/use-agent/sitegauge/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("sitegauge starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"service", cfg.Rater.ServiceURL,
	)

	// ── 3. Initialise the HTTP acquisition client ───────────────────
	cl, err := client.New(cfg.Rater)
	if err != nil {
		slog.Error("failed to initialise acquisition client", "error", err)
		os.Exit(1)
	}

	// ── 3b. Acquisition strategy chain: form → query → browser ──────
	engines := []engine.Engine{
		engine.NewFormEngine(cl),
		engine.NewQueryEngine(cl),
	}

	var sc *scraper.Scraper
	if cfg.Rater.EnableBrowser {
		sc, err = scraper.NewScraper(cfg.Browser, cfg.Rater)
		if err != nil {
			slog.Error("failed to initialise browser scraper", "error", err)
			os.Exit(1)
		}
		defer sc.Close()

		// Browser callback: wraps the scraper's SubmitAndRead. This
		// closure avoids a circular import (engine/ never imports scraper/).
		browserFetch := func(ctx context.Context, targetURL string, stealth bool) (string, string, error) {
			result, err := sc.SubmitAndRead(ctx, targetURL, stealth)
			if err != nil {
				return "", "", err
			}
			return result.HTML, result.FinalURL, nil
		}
		engines = append(engines, engine.NewBrowserEngine(browserFetch))
	}
	slog.Info("acquisition chain assembled", "strategies", len(engines))

	// ── 4. Assemble the rating pipeline ──────────────────────────────
	extractor := extract.New(cfg.Rater.MinContentChars)
	prober := report.NewHTTPProber(cfg.Rater.HTTPTimeout)
	rt := rater.New(engines, extractor, prober, cfg.Rater)
	driver := batch.New(rt, cfg.Rater.PaceDelay)

	// ── 4b. Initialise cache ────────────────────────────────────────
	cc := cache.New(cfg.Cache.MaxEntries)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(rt, driver, sc, cfg, cc, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sc.Close() runs via defer — drains page pool and kills Chrome.
	slog.Info("sitegauge stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
