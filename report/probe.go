package report

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/use-agent/sitegauge/models"
)

// Prober checks whether a target website is directly reachable. The result
// only nudges the synthesized baseline; it is a heuristic, not a UI/UX
// measurement.
type Prober interface {
	Reachable(ctx context.Context, targetURL string) bool
}

// HTTPProber probes targets with a plain GET.
type HTTPProber struct {
	http *resty.Client
}

// NewHTTPProber creates a prober with the given per-probe timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetHeader("User-Agent", "Mozilla/5.0")
	return &HTTPProber{http: c}
}

// Reachable reports whether the target answers with a non-error status.
func (p *HTTPProber) Reachable(ctx context.Context, targetURL string) bool {
	res, err := p.http.R().SetContext(ctx).Get(targetURL)
	if err != nil {
		return false
	}
	return res.StatusCode() < 400
}

// offsets shift the base score per category, mirroring the service's
// typical spread between categories.
var offsets = map[string]int{
	"overall":   0,
	"consumer":  2,
	"developer": -5,
	"investor":  0,
	"clarity":   8,
	"visual":    -1,
	"ux":        5,
	"trust":     -3,
}

// BaselineScores derives a full ScoreSet from the target's direct
// reachability: reachable sites start from 85, unreachable from 70, with
// +5 for HTTPS.
func BaselineScores(reachable, https bool) models.ScoreSet {
	base := 70
	if reachable {
		base = 85
	}
	if https {
		base += 5
	}

	scores := make(models.ScoreSet, len(categories))
	for _, cat := range categories {
		scores[cat] = strconv.Itoa(base + offsets[cat])
	}
	return scores
}

// ProbedScores probes the target and returns baseline scores for it. With
// a nil prober, the fixed defaults apply (empty set → Synthesize falls
// back per category).
func ProbedScores(ctx context.Context, prober Prober, targetURL string) models.ScoreSet {
	if prober == nil {
		return models.ScoreSet{}
	}
	reachable := prober.Reachable(ctx, targetURL)
	https := strings.HasPrefix(strings.ToLower(targetURL), "https")
	return BaselineScores(reachable, https)
}
