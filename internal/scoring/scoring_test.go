package scoring

import (
	"errors"
	"testing"
)

func TestAggregate(t *testing.T) {
	t.Parallel()
	// pronAvg = 90*0.5 + 80*0.3 + 70*0.2 = 83
	// overall = round(83*0.4 + 85*0.3 + 95*0.3) = round(33.2 + 25.5 + 28.5) = 87
	res, err := Aggregate(Input{
		Pronunciation:   90,
		Accuracy:        80,
		Fluency:         70,
		Grammar:         85,
		Appropriateness: 95,
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.PronunciationAvg != 83 {
		t.Errorf("PronunciationAvg = %d, want 83", res.PronunciationAvg)
	}
	if res.Overall != 87 {
		t.Errorf("Overall = %d, want 87", res.Overall)
	}
	if res.Experience != 150 {
		t.Errorf("Experience = %d, want 150", res.Experience)
	}
}

func TestAggregateDeterministicAndBounded(t *testing.T) {
	t.Parallel()
	for _, in := range []Input{
		{0, 0, 0, 0, 0},
		{100, 100, 100, 100, 100},
		{1, 99, 50, 33, 67},
		{73, 42, 88, 91, 12},
	} {
		first, err := Aggregate(in)
		if err != nil {
			t.Fatalf("Aggregate(%+v): %v", in, err)
		}
		if first.Overall < 0 || first.Overall > 100 {
			t.Errorf("Aggregate(%+v).Overall = %d outside [0, 100]", in, first.Overall)
		}
		second, _ := Aggregate(in)
		if first != second {
			t.Errorf("Aggregate(%+v) not deterministic: %+v vs %+v", in, first, second)
		}
	}
}

func TestAggregateRejectsOutOfRange(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   Input
	}{
		{"pronunciation high", Input{Pronunciation: 101}},
		{"accuracy negative", Input{Accuracy: -1}},
		{"grammar high", Input{Grammar: 150}},
		{"appropriateness negative", Input{Appropriateness: -10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Aggregate(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestExperienceBoundaries(t *testing.T) {
	t.Parallel()
	cases := []struct{ overall, want int }{
		{59, 50},
		{60, 70},
		{69, 70},
		{70, 100},
		{79, 100},
		{80, 150},
		{89, 150},
		{90, 200},
		{94, 200},
		{95, 250},
		{100, 250},
		{0, 50},
	}
	for _, tc := range cases {
		if got := Experience(tc.overall); got != tc.want {
			t.Errorf("Experience(%d) = %d, want %d", tc.overall, got, tc.want)
		}
	}
}
