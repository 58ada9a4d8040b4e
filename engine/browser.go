package engine

import (
	"context"
	"fmt"
)

// BrowserFetchFunc wraps the rod-based scraper's submit-and-read logic.
// It is injected from main so this package never imports the browser
// stack.
type BrowserFetchFunc func(ctx context.Context, targetURL string, stealth bool) (html, finalURL string, err error)

// BrowserEngine drives a real headless browser through the service UI.
// It is the heaviest strategy and always last in the chain.
type BrowserEngine struct {
	fetchFunc BrowserFetchFunc
}

// NewBrowserEngine creates a BrowserEngine around the injected callback.
func NewBrowserEngine(fetchFunc BrowserFetchFunc) *BrowserEngine {
	return &BrowserEngine{fetchFunc: fetchFunc}
}

func (e *BrowserEngine) Name() string { return "browser" }

func (e *BrowserEngine) Submit(ctx context.Context, req *Request) (*Result, error) {
	if e.fetchFunc == nil {
		return nil, fmt.Errorf("browser: fetchFunc not configured")
	}

	html, finalURL, err := e.fetchFunc(ctx, req.TargetURL, req.Stealth)
	if err != nil {
		return nil, fmt.Errorf("browser: %w", err)
	}

	return &Result{Body: html, FinalURL: finalURL, Source: e.Name()}, nil
}
