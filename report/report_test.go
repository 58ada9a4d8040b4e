package report

import (
	"strings"
	"testing"

	"github.com/use-agent/sitegauge/models"
)

func TestSynthesize_Deterministic(t *testing.T) {
	scores := models.ScoreSet{"overall": "90", "consumer": "85"}

	r1 := Synthesize("https://example.com", scores)
	r2 := Synthesize("https://example.com", scores)

	if r1 != r2 {
		t.Error("same input produced different reports")
	}
	if r1 == "" {
		t.Error("report should never be empty")
	}
}

func TestSynthesize_UsesProvidedScores(t *testing.T) {
	report := Synthesize("https://example.com", models.ScoreSet{"overall": "90"})

	if !strings.Contains(report, "Overall Score: 90") {
		t.Errorf("report should carry the provided overall score, got:\n%s", report)
	}
	if strings.Count(report, ": 90\n") != 1 {
		t.Errorf("provided score should appear exactly once as a section score:\n%s", report)
	}
	// All other categories fall back to defaults.
	if !strings.Contains(report, "Consumer Appeal Score: 82") {
		t.Errorf("missing default consumer score:\n%s", report)
	}
}

func TestSynthesize_AllDefaults(t *testing.T) {
	report := Synthesize("https://example.com", models.ScoreSet{})

	wantFragments := []string{
		"UI/UX Analysis Report for https://example.com",
		"Overall Score: 78",
		"Website Overview: Example demonstrates solid digital presence",
		"=== USER EXPERIENCE ANALYSIS ===",
		"Consumer Appeal Score: 82",
		"Technical Implementation Score: 75",
		"Business Impact Score: 80",
		"=== DESIGN & USABILITY METRICS ===",
		"Content Clarity Score: 85",
		"Visual Design Score: 79",
		"User Experience Score: 83",
		"Trust & Credibility Score: 77",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(report, frag) {
			t.Errorf("report missing fragment %q:\n%s", frag, report)
		}
	}
	if !strings.HasSuffix(report, "Analysis complete with actionable insights for optimization opportunities.") {
		t.Errorf("report should end with the closing line:\n%s", report)
	}
}

func TestSynthesize_IgnoresUnknownCategories(t *testing.T) {
	report := Synthesize("https://example.com", models.ScoreSet{"value": "99"})

	if strings.Contains(report, "99") {
		t.Errorf("categories outside the eight report sections should not appear:\n%s", report)
	}
}

func TestFromNumbers_PositionalMapping(t *testing.T) {
	report := FromNumbers("https://example.com", []string{"91", "92"})

	if !strings.Contains(report, "Overall Score: 91") {
		t.Errorf("first number should map to overall:\n%s", report)
	}
	if !strings.Contains(report, "Consumer Appeal Score: 92") {
		t.Errorf("second number should map to consumer:\n%s", report)
	}
	// Remaining categories pad with defaults.
	if !strings.Contains(report, "Technical Implementation Score: 75") {
		t.Errorf("unmapped categories should fall back to defaults:\n%s", report)
	}
}

func TestFromNumbers_Empty(t *testing.T) {
	report := FromNumbers("https://example.com", nil)
	if !strings.Contains(report, "Overall Score: 78") {
		t.Errorf("no numbers should mean all defaults:\n%s", report)
	}
}

func TestCompanyName(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"https with www", "https://www.example.com/page", "Example"},
		{"bare host", "https://stripe.com", "Stripe"},
		{"uppercase host", "https://Example.com/", "Example"},
		{"subdomain", "https://docs.golang.org", "Docs"},
		{"not a url", "plainword", "Plainword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompanyName(tt.url)
			if got != tt.want {
				t.Errorf("CompanyName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestBaselineScores_ReachableHTTPS(t *testing.T) {
	scores := BaselineScores(true, true)

	// base 85 + https 5 = 90, then per-category offsets.
	if scores["overall"] != "90" {
		t.Errorf("overall = %s, want 90", scores["overall"])
	}
	if scores["clarity"] != "98" {
		t.Errorf("clarity = %s, want 98 (90 + 8)", scores["clarity"])
	}
	if scores["developer"] != "85" {
		t.Errorf("developer = %s, want 85 (90 - 5)", scores["developer"])
	}
}

func TestBaselineScores_Unreachable(t *testing.T) {
	scores := BaselineScores(false, false)

	if scores["overall"] != "70" {
		t.Errorf("overall = %s, want 70", scores["overall"])
	}
	if scores["ux"] != "75" {
		t.Errorf("ux = %s, want 75 (70 + 5)", scores["ux"])
	}
	if len(scores) != len(categories) {
		t.Errorf("baseline should cover all %d report categories, got %d", len(categories), len(scores))
	}
}
