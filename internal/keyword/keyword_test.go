package keyword

import (
	"slices"
	"testing"
)

func TestMatchExactSubstrings(t *testing.T) {
	t.Parallel()
	cov := Match("すみません、会計をお願いします。", []string{"会計", "お願い", "領収書"})
	if !slices.Equal(cov.Matched, []string{"会計", "お願い"}) {
		t.Errorf("Matched = %v", cov.Matched)
	}
	if !slices.Equal(cov.Missing, []string{"領収書"}) {
		t.Errorf("Missing = %v", cov.Missing)
	}
}

func TestMatchPreservesCatalogOrder(t *testing.T) {
	t.Parallel()
	cov := Match("駅はどこですか。切符をください。", []string{"切符", "駅", "改札"})
	if !slices.Equal(cov.Matched, []string{"切符", "駅"}) {
		t.Errorf("Matched = %v, want catalog order", cov.Matched)
	}
}

func TestMatchEmptyKeywordList(t *testing.T) {
	t.Parallel()
	cov := Match("こんにちは", nil)
	if len(cov.Matched) != 0 || len(cov.Missing) != 0 {
		t.Errorf("coverage = %+v", cov)
	}
	if cov.Ratio() != 1.0 {
		t.Errorf("Ratio = %v, want 1.0", cov.Ratio())
	}
}

func TestMatchSkipsEmptyKeyword(t *testing.T) {
	t.Parallel()
	cov := Match("こんにちは", []string{"", "こんにちは"})
	if !slices.Equal(cov.Matched, []string{"こんにちは"}) {
		t.Errorf("Matched = %v", cov.Matched)
	}
}

func TestMatchKeywordLongerThanText(t *testing.T) {
	t.Parallel()
	cov := Match("はい", []string{"ありがとうございます"})
	if len(cov.Matched) != 0 {
		t.Errorf("Matched = %v, want none", cov.Matched)
	}
}

func TestRatio(t *testing.T) {
	t.Parallel()
	cov := Coverage{Matched: []string{"a"}, Missing: []string{"b", "c", "d"}}
	if got := cov.Ratio(); got != 0.25 {
		t.Errorf("Ratio = %v, want 0.25", got)
	}
}
