package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubEngine is a scripted strategy for chain tests.
type stubEngine struct {
	name   string
	result *Result
	err    error
	calls  int
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Submit(ctx context.Context, req *Request) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// acceptAnalysis mirrors the production acceptance check closely enough
// for chain ordering tests.
func acceptAnalysis(r *Result) bool {
	return strings.Contains(strings.ToLower(r.Body), "analysis")
}

func TestChain_FirstAcceptedWins(t *testing.T) {
	first := &stubEngine{name: "form", result: &Result{Body: "full analysis here"}}
	second := &stubEngine{name: "query", result: &Result{Body: "also analysis"}}

	chain := NewChain([]Engine{first, second}, acceptAnalysis)
	result, err := chain.Submit(context.Background(), &Request{TargetURL: "https://a.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source != "form" {
		t.Errorf("source = %q, want form", result.Source)
	}
	if second.calls != 0 {
		t.Error("later strategies should not run once one is accepted")
	}
}

func TestChain_EscalatesOnError(t *testing.T) {
	first := &stubEngine{name: "form", err: errors.New("connection refused")}
	second := &stubEngine{name: "query", result: &Result{Body: "analysis content"}}

	chain := NewChain([]Engine{first, second}, acceptAnalysis)
	result, err := chain.Submit(context.Background(), &Request{TargetURL: "https://a.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Source != "query" {
		t.Errorf("source = %q, want query", result.Source)
	}
	if first.calls != 1 {
		t.Errorf("first strategy calls = %d, want 1", first.calls)
	}
}

func TestChain_EscalatesOnRejectedResponse(t *testing.T) {
	first := &stubEngine{name: "form", result: &Result{Body: "just the homepage shell"}}
	second := &stubEngine{name: "query", result: &Result{Body: "the analysis"}}

	chain := NewChain([]Engine{first, second}, acceptAnalysis)
	result, err := chain.Submit(context.Background(), &Request{TargetURL: "https://a.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != "query" {
		t.Errorf("source = %q, want query", result.Source)
	}
}

func TestChain_AllRejectedReturnsErrNoAnalysis(t *testing.T) {
	engines := []Engine{
		&stubEngine{name: "form", result: &Result{Body: "shell"}},
		&stubEngine{name: "query", result: &Result{Body: "another shell"}},
	}

	chain := NewChain(engines, acceptAnalysis)
	_, err := chain.Submit(context.Background(), &Request{TargetURL: "https://a.test"})

	if !errors.Is(err, ErrNoAnalysis) {
		t.Errorf("err = %v, want ErrNoAnalysis", err)
	}
}

func TestChain_AllFailedReturnsLastError(t *testing.T) {
	lastErr := errors.New("dns failure")
	engines := []Engine{
		&stubEngine{name: "form", err: errors.New("refused")},
		&stubEngine{name: "query", err: lastErr},
	}

	chain := NewChain(engines, acceptAnalysis)
	_, err := chain.Submit(context.Background(), &Request{TargetURL: "https://a.test"})

	if !errors.Is(err, lastErr) {
		t.Errorf("err = %v, want the last transport error", err)
	}
}

func TestChain_NilAcceptTakesAnyResponse(t *testing.T) {
	chain := NewChain([]Engine{
		&stubEngine{name: "form", result: &Result{Body: "whatever"}},
	}, nil)

	result, err := chain.Submit(context.Background(), &Request{TargetURL: "https://a.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Body != "whatever" {
		t.Errorf("body = %q", result.Body)
	}
}

func TestChain_CancelledContextStops(t *testing.T) {
	eng := &stubEngine{name: "form", result: &Result{Body: "analysis"}}
	chain := NewChain([]Engine{eng}, acceptAnalysis)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain.Submit(ctx, &Request{TargetURL: "https://a.test"})
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
	if eng.calls != 0 {
		t.Error("no strategy should run after cancellation")
	}
}

func TestChain_NoEngines(t *testing.T) {
	chain := NewChain(nil, nil)
	if _, err := chain.Submit(context.Background(), &Request{TargetURL: "https://a.test"}); err == nil {
		t.Fatal("expected an error with no strategies configured")
	}
}
