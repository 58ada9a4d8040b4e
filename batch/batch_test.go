package batch

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/sitegauge/models"
)

// stubRater succeeds for every URL except those containing "bad".
type stubRater struct {
	seen []string
}

func (s *stubRater) Rate(ctx context.Context, req *models.RateRequest) *models.RateResponse {
	s.seen = append(s.seen, req.URL)
	if strings.Contains(req.URL, "bad") {
		return &models.RateResponse{
			URL: req.URL,
			Error: &models.ErrorDetail{
				Code:    models.ErrCodeSubmitFailed,
				Message: "service unreachable",
			},
		}
	}
	return &models.RateResponse{
		URL:     req.URL,
		Success: true,
		Content: "report for " + req.URL,
	}
}

func TestRun_PreservesInputOrder(t *testing.T) {
	r := &stubRater{}
	d := New(r, 0)

	urls := []string{"https://a.test", "https://b.test", "https://c.test"}
	results := d.Run(context.Background(), urls, models.BatchOptions{}, nil)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, u := range urls {
		if results[i].URL != u {
			t.Errorf("results[%d].URL = %q, want %q", i, results[i].URL, u)
		}
	}
}

func TestRun_SkipsBlankURLs(t *testing.T) {
	r := &stubRater{}
	d := New(r, 0)

	urls := []string{"https://a.test", "", "   ", "https://b.test"}
	results := d.Run(context.Background(), urls, models.BatchOptions{}, nil)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (blank entries skipped)", len(results))
	}
	if results[0].URL != "https://a.test" || results[1].URL != "https://b.test" {
		t.Errorf("unexpected result URLs: %q, %q", results[0].URL, results[1].URL)
	}
	if len(r.seen) != 2 {
		t.Errorf("rater saw %d URLs, want 2", len(r.seen))
	}
}

func TestRun_ErrorDoesNotAbortBatch(t *testing.T) {
	d := New(&stubRater{}, 0)

	results := d.Run(context.Background(),
		[]string{"https://a.test", "https://bad.test", "https://c.test"},
		models.BatchOptions{}, nil)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if results[1].Status != models.StatusError {
		t.Errorf("results[1].Status = %q, want error", results[1].Status)
	}
	if results[1].Error == "" || results[1].Content != "" {
		t.Errorf("error record invariant violated: %+v", results[1])
	}

	if results[2].Status != models.StatusSuccess {
		t.Errorf("results[2].Status = %q, want success", results[2].Status)
	}
	if results[2].Content == "" || results[2].Error != "" {
		t.Errorf("success record invariant violated: %+v", results[2])
	}
}

func TestRun_ProgressCallback(t *testing.T) {
	d := New(&stubRater{}, 0)

	var counts []int
	d.Run(context.Background(),
		[]string{"https://a.test", "", "https://b.test"},
		models.BatchOptions{},
		func(result *models.RateResult, completed int) {
			counts = append(counts, completed)
		})

	if len(counts) != 2 || counts[0] != 1 || counts[1] != 2 {
		t.Errorf("progress counts = %v, want [1 2]", counts)
	}
}

func TestRun_CancelledContextStopsEarly(t *testing.T) {
	r := &stubRater{}
	d := New(r, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := d.Run(ctx, []string{"https://a.test", "https://b.test"}, models.BatchOptions{}, nil)

	if len(results) != 0 {
		t.Errorf("got %d results, want 0 after pre-cancelled context", len(results))
	}
	if len(r.seen) != 0 {
		t.Errorf("rater should not run after cancellation, saw %v", r.seen)
	}
}

func TestRun_OptionsPropagate(t *testing.T) {
	var got *models.RateRequest
	d := New(raterFunc(func(ctx context.Context, req *models.RateRequest) *models.RateResponse {
		got = req
		return &models.RateResponse{URL: req.URL, Success: true, Content: "ok"}
	}), 0)

	d.Run(context.Background(), []string{"https://a.test"}, models.BatchOptions{
		OutputFormat: "markdown",
		FetchMode:    "form",
		Timeout:      30,
		Stealth:      true,
	}, nil)

	if got == nil {
		t.Fatal("rater never called")
	}
	if got.OutputFormat != "markdown" || got.FetchMode != "form" || got.Timeout != 30 || !got.Stealth {
		t.Errorf("options not propagated: %+v", got)
	}
}

func TestRun_PacesEveryGapIncludingFirst(t *testing.T) {
	var starts []time.Time
	d := New(raterFunc(func(ctx context.Context, req *models.RateRequest) *models.RateResponse {
		starts = append(starts, time.Now())
		return &models.RateResponse{URL: req.URL, Success: true, Content: "ok"}
	}), 100*time.Millisecond)

	began := time.Now()
	d.Run(context.Background(),
		[]string{"https://a.test", "https://b.test", "https://c.test"},
		models.BatchOptions{}, nil)

	if len(starts) != 3 {
		t.Fatalf("rater ran %d times, want 3", len(starts))
	}
	if first := starts[0].Sub(began); first > 50*time.Millisecond {
		t.Errorf("first URL delayed by %v, should start immediately", first)
	}
	if gap := starts[1].Sub(starts[0]); gap < 80*time.Millisecond {
		t.Errorf("gap 1->2 = %v, want the full pacing delay", gap)
	}
	if gap := starts[2].Sub(starts[1]); gap < 80*time.Millisecond {
		t.Errorf("gap 2->3 = %v, want the full pacing delay", gap)
	}
}

// raterFunc adapts a function to the URLRater interface.
type raterFunc func(ctx context.Context, req *models.RateRequest) *models.RateResponse

func (f raterFunc) Rate(ctx context.Context, req *models.RateRequest) *models.RateResponse {
	return f(ctx, req)
}
