package engine

import (
	"context"

	"github.com/use-agent/sitegauge/client"
)

// QueryEngine submits the target URL as a ?url= query parameter on the
// service base URL, the second strategy when the form POST yields no
// analysis.
type QueryEngine struct {
	client *client.Client
}

// NewQueryEngine creates a QueryEngine on the shared acquisition client.
func NewQueryEngine(c *client.Client) *QueryEngine {
	return &QueryEngine{client: c}
}

func (e *QueryEngine) Name() string { return "query" }

func (e *QueryEngine) Submit(ctx context.Context, req *Request) (*Result, error) {
	body, finalURL, err := e.client.SubmitQuery(ctx, req.TargetURL)
	if err != nil {
		return nil, err
	}
	return &Result{Body: body, FinalURL: finalURL, Source: e.Name()}, nil
}
