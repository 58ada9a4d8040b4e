package engine

import "context"

// Engine is one acquisition strategy for getting an analysis response out
// of the rating service.
type Engine interface {
	// Name returns the strategy identifier ("form", "query", "browser").
	Name() string

	// Submit sends the target URL to the service and returns the raw
	// response body.
	Submit(ctx context.Context, req *Request) (*Result, error)
}

// Request contains everything an engine needs to submit a target URL.
type Request struct {
	// TargetURL is the website being rated.
	TargetURL string

	// Stealth enables anti-bot evasions on engines that support them.
	Stealth bool
}

// Result is the output of a successful engine submission.
type Result struct {
	// Body is the raw response body or rendered page HTML.
	Body string

	// FinalURL is the URL the response was ultimately served from.
	FinalURL string

	// Source names the engine that produced the result.
	Source string
}
