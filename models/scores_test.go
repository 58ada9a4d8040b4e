package models

import "testing"

func TestScoreSet_Clone(t *testing.T) {
	orig := ScoreSet{"overall": "90", "consumer": "85"}
	cp := orig.Clone()

	cp["overall"] = "10"
	cp["trust"] = "70"

	if orig["overall"] != "90" {
		t.Errorf("mutating the clone changed the original: %v", orig)
	}
	if _, ok := orig["trust"]; ok {
		t.Errorf("adding to the clone changed the original: %v", orig)
	}
}

func TestScoreSet_CloneNil(t *testing.T) {
	var s ScoreSet
	if got := s.Clone(); got != nil {
		t.Errorf("nil set should clone to nil, got %v", got)
	}
}
