package models

// ScoreSet is a sparse mapping from evaluation category to a numeric score
// string in the range [0,100]. Categories absent from extraction are filled
// with fixed defaults by the report synthesizer.
type ScoreSet map[string]string

// Categories lists the category names recognized by the keyword-anchored
// score extractor.
var Categories = []string{
	"overall",
	"consumer",
	"developer",
	"investor",
	"clarity",
	"visual",
	"ux",
	"trust",
	"value",
}

// Clone returns a copy of the set, so shared score maps (cached
// responses) cannot be mutated through an alias. A nil set clones to nil.
func (s ScoreSet) Clone() ScoreSet {
	if s == nil {
		return nil
	}
	out := make(ScoreSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
