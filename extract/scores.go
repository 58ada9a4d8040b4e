package extract

import (
	"regexp"
	"strconv"

	"github.com/use-agent/sitegauge/models"
)

// categoryPatterns matches the first 1-3 digit number following a category
// keyword, with any amount of non-digit text in between ("Consumer Appeal
// Score: 88", "consumer score - 88", a verbose label, ...). Best-effort;
// the [0,100] range check guards against grabbing unrelated numbers, and a
// keyword without a following number simply leaves the category unset.
var categoryPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(models.Categories))
	for _, cat := range models.Categories {
		patterns[cat] = regexp.MustCompile(`(?i)\b` + cat + `\b[^\d]*?(\d{1,3})\b`)
	}
	return patterns
}()

// plausibleScore matches standalone 2-3 digit numbers in [60,100], the
// range the rating service hands out in practice.
var plausibleScore = regexp.MustCompile(`\b([6-9]\d|100)\b`)

// ScanScores scans raw response text for per-category score signals.
// Only values in [0,100] are kept. The result is sparse: categories
// without a keyword-anchored match are absent.
func ScanScores(content string) models.ScoreSet {
	scores := make(models.ScoreSet)
	for cat, pattern := range categoryPatterns {
		m := pattern.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 && n <= 100 {
			scores[cat] = m[1]
		}
	}
	return scores
}

// PlausibleNumbers returns every standalone number in the plausible score
// range [60,100], in order of appearance. Used only when ScanScores finds
// nothing keyword-anchored.
func PlausibleNumbers(content string) []string {
	matches := plausibleScore.FindAllStringSubmatch(content, -1)
	if matches == nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
