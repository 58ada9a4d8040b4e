// Package rater orchestrates a single rating operation: acquisition
// through the strategy chain, extraction of the analysis report, and the
// synthesizer fallbacks when the service yields nothing usable.
package rater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nurl "net/url"
	"strings"
	"time"

	"github.com/use-agent/sitegauge/config"
	"github.com/use-agent/sitegauge/engine"
	"github.com/use-agent/sitegauge/extract"
	"github.com/use-agent/sitegauge/models"
	"github.com/use-agent/sitegauge/report"
)

// SourceSynthesizer marks responses whose report was generated locally
// rather than extracted from the service.
const SourceSynthesizer = "synthesizer"

// analysisKeywords decide whether a service response contains an actual
// analysis. A response without any of them is a page shell and the chain
// escalates to the next strategy.
var analysisKeywords = []string{"score", "analysis", "rating", "report"}

// HasAnalysisKeywords reports whether body looks like an analysis
// response, case-insensitively.
func HasAnalysisKeywords(body string) bool {
	lower := strings.ToLower(body)
	for _, kw := range analysisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Rater runs the full rating pipeline for one URL at a time. It is safe
// for concurrent use; per-request state lives on the stack.
type Rater struct {
	engines   []engine.Engine
	extractor *extract.Extractor
	prober    report.Prober
	cfg       config.RaterConfig
}

// New assembles a Rater. The engines must already be ordered cheapest
// first; fetch modes select a subset without reordering.
func New(engines []engine.Engine, extractor *extract.Extractor, prober report.Prober, cfg config.RaterConfig) *Rater {
	return &Rater{
		engines:   engines,
		extractor: extractor,
		prober:    prober,
		cfg:       cfg,
	}
}

// Rate runs the pipeline for one request and always returns a response;
// failures are reported in the response rather than as a Go error so
// batch callers can record them uniformly.
func (r *Rater) Rate(ctx context.Context, req *models.RateRequest) *models.RateResponse {
	req.Defaults()
	started := time.Now()

	resp := &models.RateResponse{URL: req.URL}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(req.Timeout)*time.Second)
	defer cancel()

	engines := r.selectEngines(req.FetchMode)
	if len(engines) == 0 {
		resp.Error = &models.ErrorDetail{
			Code:    models.ErrCodeInvalidInput,
			Message: fmt.Sprintf("fetch mode %q has no enabled acquisition strategy", req.FetchMode),
		}
		resp.Timing.TotalMs = time.Since(started).Milliseconds()
		return resp
	}

	chain := engine.NewChain(engines, func(res *engine.Result) bool {
		return HasAnalysisKeywords(res.Body)
	})

	// ── 1. Acquisition ──
	acqStart := time.Now()
	result, err := chain.Submit(ctx, &engine.Request{
		TargetURL: req.URL,
		Stealth:   req.Stealth || r.cfg.Stealth,
	})
	resp.Timing.AcquisitionMs = time.Since(acqStart).Milliseconds()

	switch {
	case err == nil:
		// ── 2. Extraction ──
		extStart := time.Now()
		ex := r.extractor.Extract(result.Body, result.FinalURL)
		resp.Timing.ExtractionMs = time.Since(extStart).Milliseconds()

		if r.extractor.Sufficient(ex) {
			resp.Success = true
			resp.Source = result.Source
			resp.Scores = ex.Scores
			resp.Content = r.render(req, ex, result.FinalURL)
			break
		}

		// Accepted response but not enough report text.
		if r.cfg.StrictContent {
			resp.Error = &models.ErrorDetail{
				Code:    models.ErrCodeInsufficientContent,
				Message: fmt.Sprintf("extracted %d chars, need %d", len(strings.TrimSpace(ex.Text)), r.extractor.MinContentChars),
			}
			break
		}
		r.synthesize(ctx, req, resp, ex)

	case errors.Is(err, engine.ErrNoAnalysis):
		// The service answered but never produced an analysis.
		if r.cfg.StrictContent {
			resp.Error = &models.ErrorDetail{
				Code:    models.ErrCodeInsufficientContent,
				Message: "no strategy response contained analysis content",
			}
			break
		}
		r.synthesize(ctx, req, resp, extract.Extraction{Scores: models.ScoreSet{}})

	default:
		resp.Error = errorDetail(ctx, err)
	}

	resp.Timing.TotalMs = time.Since(started).Milliseconds()

	if resp.Success {
		slog.Info("rating completed",
			"url", req.URL,
			"source", resp.Source,
			"synthesized", resp.Synthesized,
			"total_ms", resp.Timing.TotalMs)
	} else {
		slog.Warn("rating failed",
			"url", req.URL,
			"code", resp.Error.Code,
			"total_ms", resp.Timing.TotalMs)
	}
	return resp
}

// selectEngines filters the configured strategy order by fetch mode.
func (r *Rater) selectEngines(mode string) []engine.Engine {
	if mode == "" || mode == "auto" {
		return r.engines
	}
	for _, eng := range r.engines {
		if eng.Name() == mode {
			return []engine.Engine{eng}
		}
	}
	return nil
}

// synthesize fills resp with a generated report, preferring extracted
// score signals, then plausible standalone numbers, then a reachability
// baseline.
func (r *Rater) synthesize(ctx context.Context, req *models.RateRequest, resp *models.RateResponse, ex extract.Extraction) {
	var content string
	scores := ex.Scores

	switch {
	case len(scores) > 0:
		content = report.Synthesize(req.URL, scores)
	case len(ex.Text) > 0:
		if numbers := extract.PlausibleNumbers(ex.Text); len(numbers) > 0 {
			content = report.FromNumbers(req.URL, numbers)
			break
		}
		fallthrough
	default:
		scores = report.ProbedScores(ctx, r.prober, req.URL)
		content = report.Synthesize(req.URL, scores)
	}

	resp.Success = true
	resp.Synthesized = true
	resp.Source = SourceSynthesizer
	resp.Scores = scores
	resp.Content = content
}

// render returns the extracted report in the requested output format.
// Synthesized reports are already plain text and bypass this.
func (r *Rater) render(req *models.RateRequest, ex extract.Extraction, finalURL string) string {
	if req.OutputFormat != "markdown" || ex.HTML == "" {
		return ex.Text
	}
	md, err := extract.Markdown(ex.HTML, domainOf(finalURL))
	if err != nil || strings.TrimSpace(md) == "" {
		slog.Debug("markdown conversion fell back to text", "url", req.URL, "error", err)
		return ex.Text
	}
	return md
}

func domainOf(rawURL string) string {
	u, err := nurl.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// errorDetail maps a pipeline error onto the API error taxonomy.
func errorDetail(ctx context.Context, err error) *models.ErrorDetail {
	var re *models.RateError
	if errors.As(err, &re) {
		return re.ToDetail()
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return &models.ErrorDetail{Code: models.ErrCodeTimeout, Message: err.Error()}
	}
	return &models.ErrorDetail{Code: models.ErrCodeSubmitFailed, Message: err.Error()}
}
