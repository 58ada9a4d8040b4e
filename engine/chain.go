package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoAnalysis is returned when at least one strategy got a response
// from the service, but none of the responses passed the acceptance
// check. The caller decides whether to synthesize a report instead.
var ErrNoAnalysis = errors.New("no analysis content in any strategy response")

// AcceptFunc decides whether an engine's response actually contains an
// analysis, or is just a page shell the chain should escalate past.
type AcceptFunc func(*Result) bool

// Chain tries acquisition strategies strictly in order: cheapest first,
// escalating only when a strategy errors or its response is rejected.
// One URL is submitted by at most one engine at a time; there is no
// racing.
type Chain struct {
	engines []Engine
	accept  AcceptFunc
}

// NewChain creates a Chain. A nil accept accepts every response.
func NewChain(engines []Engine, accept AcceptFunc) *Chain {
	return &Chain{engines: engines, accept: accept}
}

// Submit runs the strategies in order and returns the first accepted
// result. When every strategy fails at the transport level, the last
// error is returned; when responses arrived but none was accepted,
// ErrNoAnalysis is returned.
func (c *Chain) Submit(ctx context.Context, req *Request) (*Result, error) {
	if len(c.engines) == 0 {
		return nil, fmt.Errorf("engine: no acquisition strategies configured")
	}

	var lastErr error
	sawResponse := false

	for _, eng := range c.engines {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}

		slog.Debug("strategy starting", "engine", eng.Name(), "target", req.TargetURL)
		result, err := eng.Submit(ctx, req)
		if err != nil {
			slog.Debug("strategy failed", "engine", eng.Name(), "target", req.TargetURL, "error", err)
			lastErr = err
			continue
		}

		sawResponse = true
		if c.accept != nil && !c.accept(result) {
			slog.Debug("strategy response rejected", "engine", eng.Name(), "target", req.TargetURL)
			continue
		}

		slog.Info("strategy produced analysis", "engine", eng.Name(), "target", req.TargetURL)
		result.Source = eng.Name()
		return result, nil
	}

	if sawResponse {
		return nil, ErrNoAnalysis
	}
	return nil, lastErr
}
