package engine

import (
	"context"

	"github.com/use-agent/sitegauge/client"
)

// FormEngine submits the target URL by POSTing the service's own form:
// load the homepage, discover the form action and anti-forgery token,
// then post the target under the duplicate field names.
type FormEngine struct {
	client *client.Client
}

// NewFormEngine creates a FormEngine on the shared acquisition client.
func NewFormEngine(c *client.Client) *FormEngine {
	return &FormEngine{client: c}
}

func (e *FormEngine) Name() string { return "form" }

func (e *FormEngine) Submit(ctx context.Context, req *Request) (*Result, error) {
	homepage, err := e.client.FetchHomepage(ctx)
	if err != nil {
		return nil, err
	}

	form := client.DiscoverForm(homepage, e.client.BaseURL())

	body, finalURL, err := e.client.Submit(ctx, req.TargetURL, form)
	if err != nil {
		return nil, err
	}

	return &Result{Body: body, FinalURL: finalURL, Source: e.Name()}, nil
}
