// Package batch drives a list of target URLs through the rating pipeline
// strictly sequentially, pacing submissions so the rating service is
// never hammered.
package batch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/use-agent/sitegauge/models"
)

// URLRater rates one target URL. Satisfied by rater.Rater.
type URLRater interface {
	Rate(ctx context.Context, req *models.RateRequest) *models.RateResponse
}

// Driver processes batches one URL at a time. URL failures never abort
// the batch; each URL gets its own result record.
type Driver struct {
	rater   URLRater
	limiter *rate.Limiter
}

// New creates a Driver. paceDelay is the fixed gap between consecutive
// submissions; zero disables pacing.
func New(r URLRater, paceDelay time.Duration) *Driver {
	var limiter *rate.Limiter
	if paceDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(paceDelay), 1)
	}
	return &Driver{rater: r, limiter: limiter}
}

// ProgressFunc is called after each URL completes, with the result just
// appended and the count of results so far.
type ProgressFunc func(result *models.RateResult, completed int)

// Run rates every non-blank URL in order and returns one result per
// processed URL, in input order. Blank or whitespace-only entries are
// skipped entirely. A cancelled context stops the batch; URLs already
// processed keep their results.
func (d *Driver) Run(ctx context.Context, urls []string, opts models.BatchOptions, progress ProgressFunc) []*models.RateResult {
	results := make([]*models.RateResult, 0, len(urls))

	for _, raw := range urls {
		target := strings.TrimSpace(raw)
		if target == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			slog.Warn("batch cancelled", "processed", len(results), "remaining", len(urls)-len(results))
			break
		}

		// Every URL consumes a token, the first one included: that drains
		// the bucket's initial token so the 1->2 gap is paced like all the
		// later ones.
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				break
			}
		}

		resp := d.rater.Rate(ctx, &models.RateRequest{
			URL:          target,
			Timeout:      opts.Timeout,
			OutputFormat: opts.OutputFormat,
			FetchMode:    opts.FetchMode,
			Stealth:      opts.Stealth,
		})

		var result *models.RateResult
		if resp.Success {
			result = models.SuccessResult(target, resp.Content)
		} else {
			result = models.ErrorResult(target, resp.Error.Message)
		}
		results = append(results, result)

		if progress != nil {
			progress(result, len(results))
		}
	}

	return results
}
