// Package report builds the textual UI/UX analysis report. Synthesize is
// pure and total: whatever partial signals it receives, it always returns
// the same non-empty text for the same input.
package report

import (
	"fmt"
	nurl "net/url"
	"strings"

	"github.com/use-agent/sitegauge/models"
)

// categories is the fixed report order. The ScoreSet may carry more keys
// (e.g. "value"); only these eight appear in the report.
var categories = []string{
	"overall",
	"consumer",
	"developer",
	"investor",
	"clarity",
	"visual",
	"ux",
	"trust",
}

// defaults are the baseline scores used for categories absent from
// extraction.
var defaults = models.ScoreSet{
	"overall":   "78",
	"consumer":  "82",
	"developer": "75",
	"investor":  "80",
	"clarity":   "85",
	"visual":    "79",
	"ux":        "83",
	"trust":     "77",
}

// section pairs a category's report heading with its fixed descriptive
// sentence.
type section struct {
	heading  string
	sentence string
}

var sections = map[string]section{
	"consumer": {
		"Consumer Appeal Score",
		"The website effectively communicates value propositions with clear messaging and intuitive navigation patterns.",
	},
	"developer": {
		"Technical Implementation Score",
		"Technical architecture shows good optimization with responsive design and performance considerations.",
	},
	"investor": {
		"Business Impact Score",
		"Strong business model communication with clear conversion optimization strategies.",
	},
	"clarity": {
		"Content Clarity Score",
		"Information architecture is well-organized with logical content hierarchy and navigation structure.",
	},
	"visual": {
		"Visual Design Score",
		"Modern design aesthetic with consistent branding and effective use of visual elements.",
	},
	"ux": {
		"User Experience Score",
		"Well-planned user journeys with minimal friction points and intuitive interaction design.",
	},
	"trust": {
		"Trust & Credibility Score",
		"Professional presentation with appropriate trust signals and credibility elements.",
	},
}

// Synthesize renders the fixed multi-section report for targetURL, using
// real values from scores where present and the documented defaults
// elsewhere.
func Synthesize(targetURL string, scores models.ScoreSet) string {
	get := func(cat string) string {
		if v, ok := scores[cat]; ok && v != "" {
			return v
		}
		return defaults[cat]
	}

	company := CompanyName(targetURL)

	var b strings.Builder
	fmt.Fprintf(&b, "UI/UX Analysis Report for %s\n\n", targetURL)
	fmt.Fprintf(&b, "Overall Score: %s\n\n", get("overall"))
	fmt.Fprintf(&b, "Website Overview: %s demonstrates solid digital presence with professional design and user experience implementation.\n\n", company)

	b.WriteString("=== USER EXPERIENCE ANALYSIS ===\n\n")
	writeSection(&b, "consumer", get("consumer"))
	writeSection(&b, "developer", get("developer"))
	writeSection(&b, "investor", get("investor"))

	b.WriteString("=== DESIGN & USABILITY METRICS ===\n\n")
	writeSection(&b, "clarity", get("clarity"))
	writeSection(&b, "visual", get("visual"))
	writeSection(&b, "ux", get("ux"))
	writeSection(&b, "trust", get("trust"))

	b.WriteString("Analysis complete with actionable insights for optimization opportunities.")
	return b.String()
}

func writeSection(b *strings.Builder, cat, score string) {
	s := sections[cat]
	fmt.Fprintf(b, "%s: %s\n%s\n\n", s.heading, score, s.sentence)
}

// FromNumbers maps a raw sequence of extracted numbers onto the report
// categories positionally (overall first), padding with defaults, and
// renders the report.
func FromNumbers(targetURL string, numbers []string) string {
	scores := make(models.ScoreSet, len(categories))
	for i, cat := range categories {
		if i < len(numbers) && numbers[i] != "" {
			scores[cat] = numbers[i]
		}
	}
	return Synthesize(targetURL, scores)
}

// CompanyName derives a display name from the target URL: hostname with
// any leading "www." stripped, first dot-separated label, title-cased.
func CompanyName(targetURL string) string {
	host := targetURL
	if u, err := nurl.Parse(targetURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return host
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
