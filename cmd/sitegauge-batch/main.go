// Command sitegauge-batch rates a list of websites from a file and writes
// one result record per URL as a JSON array. It drives the same pipeline
// as the API server, without going through HTTP.
//
// Usage:
//
//	sitegauge-batch -input urls.txt [-output results.json] [-format markdown] [-mode form]
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/use-agent/sitegauge/batch"
	"github.com/use-agent/sitegauge/client"
	"github.com/use-agent/sitegauge/config"
	"github.com/use-agent/sitegauge/engine"
	"github.com/use-agent/sitegauge/extract"
	"github.com/use-agent/sitegauge/models"
	"github.com/use-agent/sitegauge/rater"
	"github.com/use-agent/sitegauge/report"
	"github.com/use-agent/sitegauge/scraper"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "file with one target URL per line (required)")
		outputPath = flag.String("output", "", "write the JSON results here instead of stdout")
		format     = flag.String("format", "text", "report format: text or markdown")
		mode       = flag.String("mode", "auto", "acquisition mode: auto, form, query or browser")
		timeout    = flag.Int("timeout", 45, "per-URL timeout in seconds")
		stealth    = flag.Bool("stealth", false, "enable anti-bot evasions on the browser path")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "sitegauge-batch: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	initLogger(cfg.Log)

	urls, err := readURLs(*inputPath)
	if err != nil {
		slog.Error("failed to read input file", "path", *inputPath, "error", err)
		os.Exit(1)
	}
	if len(urls) == 0 {
		slog.Error("input file contains no URLs", "path", *inputPath)
		os.Exit(1)
	}

	cl, err := client.New(cfg.Rater)
	if err != nil {
		slog.Error("failed to initialise acquisition client", "error", err)
		os.Exit(1)
	}

	engines := []engine.Engine{
		engine.NewFormEngine(cl),
		engine.NewQueryEngine(cl),
	}

	// The browser only launches when it can actually be used, so plain
	// form/query runs work on hosts without Chrome.
	if cfg.Rater.EnableBrowser && *mode != "form" && *mode != "query" {
		sc, err := scraper.NewScraper(cfg.Browser, cfg.Rater)
		if err != nil {
			slog.Warn("browser unavailable, continuing with HTTP strategies only", "error", err)
		} else {
			defer sc.Close()
			engines = append(engines, engine.NewBrowserEngine(
				func(ctx context.Context, targetURL string, useStealth bool) (string, string, error) {
					result, err := sc.SubmitAndRead(ctx, targetURL, useStealth)
					if err != nil {
						return "", "", err
					}
					return result.HTML, result.FinalURL, nil
				},
			))
		}
	}

	extractor := extract.New(cfg.Rater.MinContentChars)
	prober := report.NewHTTPProber(cfg.Rater.HTTPTimeout)
	rt := rater.New(engines, extractor, prober, cfg.Rater)
	driver := batch.New(rt, cfg.Rater.PaceDelay)

	// Ctrl-C stops after the in-flight URL; processed results still get
	// written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("batch starting", "urls", len(urls), "mode", *mode, "format", *format)

	results := driver.Run(ctx, urls, models.BatchOptions{
		OutputFormat: *format,
		FetchMode:    *mode,
		Timeout:      *timeout,
		Stealth:      *stealth,
	}, func(result *models.RateResult, completed int) {
		slog.Info("url processed",
			"url", result.URL,
			"status", result.Status,
			"completed", completed,
		)
	})

	if err := writeResults(*outputPath, results); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Status == models.StatusError {
			failed++
		}
	}
	slog.Info("batch finished", "processed", len(results), "failed", failed)

	if failed == len(results) && len(results) > 0 {
		os.Exit(1)
	}
}

// readURLs loads the input file. Blank lines survive here; the batch
// driver skips them, keeping skip semantics in one place.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		urls = append(urls, scanner.Text())
	}
	return urls, scanner.Err()
}

// writeResults marshals the result records as an indented JSON array to
// the output path, or stdout when the path is empty.
func writeResults(path string, results []*models.RateResult) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// initLogger configures slog based on the LogConfig. Logs go to stderr so
// stdout stays clean for the JSON results.
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
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
