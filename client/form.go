package client

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FormTarget describes where and how to submit a target URL, discovered
// from the service homepage.
type FormTarget struct {
	// Action is the absolute submission URL. Falls back to the service
	// base URL when the page exposes no usable form.
	Action string

	// TokenField/TokenValue carry an anti-forgery token to echo back,
	// both empty when none was found.
	TokenField string
	TokenValue string
}

// tokenFieldPattern matches input names that look like anti-forgery tokens.
var tokenFieldPattern = regexp.MustCompile(`(?i)(csrf|xsrf|token|authenticity|verification|nonce)`)

// DiscoverForm scans homepage HTML for the submission form: the first form
// containing a text/url input wins, otherwise the first form on the page.
// The form's action is resolved against base; token-like hidden inputs are
// captured for echo-back. Discovery never fails — with no form at all, the
// base URL itself is the action (the service accepts posts to "/").
func DiscoverForm(rawHTML string, base *url.URL) FormTarget {
	target := FormTarget{Action: base.String()}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return target
	}

	form := pickForm(doc)
	if form == nil {
		return target
	}

	if action, ok := form.Attr("action"); ok && strings.TrimSpace(action) != "" {
		if resolved, err := base.Parse(strings.TrimSpace(action)); err == nil {
			target.Action = resolved.String()
		}
	}

	form.Find("input[type=hidden]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if name == "" || !tokenFieldPattern.MatchString(name) {
			return true
		}
		target.TokenField = name
		target.TokenValue, _ = s.Attr("value")
		return false
	})

	return target
}

// pickForm returns the most plausible submission form: the first form with
// a text-like input, else the first form, else nil.
func pickForm(doc *goquery.Document) *goquery.Selection {
	var withInput *goquery.Selection
	doc.Find("form").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		if f.Find(`input[type=url], input[type=text], input:not([type])`).Length() > 0 {
			withInput = f
			return false
		}
		return true
	})
	if withInput != nil {
		return withInput
	}

	forms := doc.Find("form")
	if forms.Length() == 0 {
		return nil
	}
	return forms.First()
}
