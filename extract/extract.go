package extract

import (
	"bytes"
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	readability "github.com/go-shiori/go-readability"
	"github.com/use-agent/sitegauge/models"
	"golang.org/x/net/html"
)

// containerSelectors are the ordered class-hint strategies for locating
// the analysis output on the page. The first selector with visible text
// wins; later ones are only consulted when earlier ones match nothing.
var containerSelectors = func() []cascadia.Selector {
	raw := []string{
		`[class*="result"]`,
		`[class*="report"]`,
		`[class*="analysis"]`,
		`[class*="score"]`,
		`[class*="output"]`,
	}
	selectors := make([]cascadia.Selector, 0, len(raw))
	for _, s := range raw {
		sel, err := cascadia.Compile(s)
		if err != nil {
			continue
		}
		selectors = append(selectors, sel)
	}
	return selectors
}()

// Extraction is the output of reading final page state: the report text
// (and the HTML it came from, for markdown conversion) plus whatever
// score signals were found in the raw response.
type Extraction struct {
	// Text is the extracted report text, blank-line separated per
	// matched container.
	Text string

	// HTML is the outer HTML of the matched containers, or the full
	// input when extraction fell back to whole-page text.
	HTML string

	// Scores holds keyword-anchored score signals from the raw response.
	Scores models.ScoreSet
}

// Extractor reads analysis text and score signals out of raw service
// responses.
type Extractor struct {
	// MinContentChars is the sufficiency threshold: extracted text
	// shorter than this is treated as "no genuine analysis".
	MinContentChars int
}

// New creates an Extractor with the given sufficiency threshold.
func New(minContentChars int) *Extractor {
	return &Extractor{MinContentChars: minContentChars}
}

// Extract pulls the analysis block out of a raw response.
//
// Strategy order:
//  1. class-hint result containers (blank-line concatenated);
//  2. readability main content;
//  3. full visible page text.
//
// Independently of which text strategy wins, the raw response is scanned
// for per-category score signals.
func (e *Extractor) Extract(rawHTML, sourceURL string) Extraction {
	out := Extraction{Scores: ScanScores(rawHTML)}

	out.Text, out.HTML = containerText(rawHTML)
	if out.Text != "" {
		return out
	}

	if text := readableText(rawHTML, sourceURL); text != "" {
		out.Text = text
		out.HTML = rawHTML
		return out
	}

	out.Text = visibleText(rawHTML)
	out.HTML = rawHTML
	return out
}

// Sufficient reports whether extracted text is long enough to be treated
// as a genuine analysis rather than a page shell.
func (e *Extractor) Sufficient(ex Extraction) bool {
	return len(strings.TrimSpace(ex.Text)) >= e.MinContentChars
}

// containerText applies the container selector strategies in order and
// returns concatenated text plus the matched outer HTML.
func containerText(rawHTML string) (string, string) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", ""
	}

	for _, sel := range containerSelectors {
		nodes := sel.MatchAll(doc)
		if len(nodes) == 0 {
			continue
		}

		var texts []string
		var htmlBuf bytes.Buffer
		for _, n := range nodes {
			if text := nodeText(n); text != "" {
				texts = append(texts, text)
				_ = html.Render(&htmlBuf, n)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n\n"), htmlBuf.String()
		}
	}
	return "", ""
}

// readableText runs the Mozilla Readability algorithm and returns its
// plain-text content, or "" when readability cannot locate a main body.
func readableText(rawHTML, sourceURL string) string {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("readability extraction failed", "url", sourceURL, "error", err)
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
