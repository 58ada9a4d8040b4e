package scraper

import (
	"strings"

	"github.com/go-rod/rod"
)

// inputSelectors are the ordered candidate strategies for the URL input:
// attribute-based first, then placeholder text, then plain tag matches.
var inputSelectors = []string{
	`input[name="url"]`,
	`input[name="website"]`,
	`input[name="site"]`,
	`input[name="domain"]`,
	`input[type="url"]`,
	`input[placeholder*="url" i]`,
	`input[placeholder*="website" i]`,
	`input[type="text"]`,
	`textarea`,
}

// submitSelectors are the attribute-based strategies for the submit control.
var submitSelectors = []string{
	`button[type="submit"]`,
	`input[type="submit"]`,
}

// submitLabels is the free-text vocabulary matched (case-insensitively)
// against button labels when no attribute-based submit control exists.
var submitLabels = []string{"analyze", "submit", "start", "rate", "generate"}

// locateInput finds the most plausible URL input on the page, trying each
// strategy in order and finally falling back to the first usable input of
// any kind. Returns (nil, false) when nothing usable exists; it never
// panics on a missing element.
func locateInput(p *rod.Page) (*rod.Element, bool) {
	for _, sel := range inputSelectors {
		if el, ok := firstUsable(p, sel); ok {
			return el, true
		}
	}
	return firstUsable(p, `input`)
}

// locateSubmit finds the submit control: attribute-based matches first,
// then label-text matching against the vocabulary. Returns (nil, false)
// when neither strategy matches; the caller then presses Enter on the
// input field instead.
func locateSubmit(p *rod.Page) (*rod.Element, bool) {
	for _, sel := range submitSelectors {
		if el, ok := firstUsable(p, sel); ok {
			return el, true
		}
	}

	buttons, err := p.Elements(`button, input[type="button"], a[role="button"]`)
	if err != nil {
		return nil, false
	}
	for _, el := range buttons {
		text, err := el.Text()
		if err != nil {
			continue
		}
		if matchesSubmitLabel(text) && usable(el) {
			return el, true
		}
	}
	return nil, false
}

// matchesSubmitLabel reports whether a control label contains any word of
// the submit vocabulary, case-insensitively.
func matchesSubmitLabel(label string) bool {
	label = strings.ToLower(label)
	for _, word := range submitLabels {
		if strings.Contains(label, word) {
			return true
		}
	}
	return false
}

// firstUsable returns the first visible, enabled element matching sel
// among those currently in the DOM (no waiting).
func firstUsable(p *rod.Page, sel string) (*rod.Element, bool) {
	els, err := p.Elements(sel)
	if err != nil {
		return nil, false
	}
	for _, el := range els {
		if usable(el) {
			return el, true
		}
	}
	return nil, false
}

// usable reports whether an element is visible and not disabled.
func usable(el *rod.Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	disabled, err := el.Property("disabled")
	if err == nil && disabled.Bool() {
		return false
	}
	return true
}
