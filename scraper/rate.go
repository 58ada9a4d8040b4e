package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/sitegauge/models"
	"github.com/ysmood/gson"
)

// PageResult is the rendered outcome of a browser-driven submission.
type PageResult struct {
	// HTML is the fully rendered page after the settle wait.
	HTML string

	// FinalURL is the page URL after any client-side navigation.
	FinalURL string
}

// SubmitAndRead drives the rating service through a real browser: load
// the homepage, locate the URL input, type the target, submit, wait for
// the service to settle, and read the rendered result.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Timeout guard    – hard deadline on the entire operation
//  2. Acquire page     – borrow a tab from the pool (or create one)
//  3. DEFER: cleanup   – about:blank + return to pool on every exit path
//  4. Stealth + setup  – stealth JS, fixed viewport, Referer header
//     (all BEFORE navigation: they only affect later navigations)
//  5. Navigate + wait  – service homepage, DOM stable
//  6. Locate + fill    – input strategies, type target URL
//  7. Submit           – submit control, or Enter on the input
//  8. Settle           – fixed delay for server-side processing
//  9. Read             – rendered HTML + final URL
func (s *Scraper) SubmitAndRead(ctx context.Context, targetURL string, useStealth bool) (*PageResult, error) {
	// ── 1. Timeout guard ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, s.raterCfg.BrowserTimeout)
	defer cancel()

	// ── 2. Acquire page from pool ─────────────────────────────────────
	s.activePages.Add(1)
	defer s.activePages.Add(-1)

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewRateError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 3. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return.
	// Uses the ORIGINAL page reference (without request context) so cleanup
	// succeeds even after the request context has expired.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		s.pagePool.Put(page)
	}()

	// ── 4. Stealth injection ──────────────────────────────────────────
	if useStealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	// ── 4b. Fixed viewport ────────────────────────────────────────────
	_ = (&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.browserCfg.ViewportWidth,
		Height:            s.browserCfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}).Call(page)

	// ── 4c. Referer header (looks like an organic visit) ─────────────
	if u, parseErr := url.Parse(s.raterCfg.ServiceURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Referer": "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()),
			}),
		}.Call(page)
	}

	// ── 5. Bind context, navigate, wait ──────────────────────────────
	p := page.Context(ctx)

	if navErr := p.Navigate(s.raterCfg.ServiceURL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to rating service failed")
	}
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", stableErr)
	}

	// ── 6. Locate the URL input and fill it ──────────────────────────
	field, ok := locateInput(p)
	if !ok {
		return nil, models.NewRateError(
			models.ErrCodeLocatorFailed,
			"no usable URL input found on rating service page",
			nil,
		)
	}
	// Replace any pre-filled value rather than appending to it.
	_ = field.SelectAllText()
	if err := field.Input(targetURL); err != nil {
		return nil, categorizeError(err, "failed to type target URL")
	}

	// ── 7. Submit: control if present, otherwise Enter on the input ──
	if btn, found := locateSubmit(p); found {
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return nil, categorizeError(err, "failed to click submit control")
		}
	} else {
		if err := field.Type(input.Enter); err != nil {
			return nil, categorizeError(err, "failed to submit via Enter key")
		}
	}

	// ── 8. Settle wait ────────────────────────────────────────────────
	select {
	case <-time.After(s.raterCfg.SettleDelay):
	case <-ctx.Done():
		return nil, categorizeError(ctx.Err(), "timed out waiting for analysis to render")
	}
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("post-submit WaitDOMStable did not converge", "error", stableErr)
	}

	// ── 9. Read rendered state ────────────────────────────────────────
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to read rendered page")
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = s.raterCfg.ServiceURL
	}

	return &PageResult{HTML: rawHTML, FinalURL: finalURL}, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed RateErrors so callers can
// map them to appropriate statuses.
func categorizeError(err error, msg string) *models.RateError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewRateError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewRateError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewRateError(models.ErrCodeSubmitFailed, msg, err)
	}
}
