package route

import (
	"errors"
	"testing"

	"backend-vibenav/internal/vibe"
)

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(vibe.Uniform(), nil)
	if !errors.Is(err, ErrNoSegments) {
		t.Fatalf("expected ErrNoSegments, got %v", err)
	}
}

func TestSummarizeAverages(t *testing.T) {
	plan := vibe.Weights{Greenery: 1}
	segments := []Segment{
		{VibeScores: vibe.Weights{Greenery: 0.8, Quietness: 0.2}},
		{VibeScores: vibe.Weights{Greenery: 0.4, Quietness: 0.6}},
	}

	summary, err := Summarize(plan, segments)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if got := summary.SegmentAverages.Greenery; got != 0.6 {
		t.Fatalf("expected greenery average 0.6, got %v", got)
	}
	if got := summary.SegmentAverages.Quietness; got != 0.4 {
		t.Fatalf("expected quietness average 0.4, got %v", got)
	}
	// Plan normalizes to all-greenery, so the weighted score is the greenery
	// average.
	if got := summary.WeightedScore; got != 0.6 {
		t.Fatalf("expected weighted score 0.6, got %v", got)
	}
	if summary.DominantVibe != vibe.Greenery {
		t.Fatalf("expected greenery dominant, got %s", summary.DominantVibe)
	}
}

func TestRankByWeightedScore(t *testing.T) {
	a := &Candidate{ID: "a", Route: Summary{VibeSummary: VibeSummary{WeightedScore: 0.3}}}
	b := &Candidate{ID: "b", Route: Summary{VibeSummary: VibeSummary{WeightedScore: 0.7}}}
	c := &Candidate{ID: "c", Route: Summary{VibeSummary: VibeSummary{WeightedScore: 0.7}}}

	ranked := RankByWeightedScore([]*Candidate{a, b, c})
	if ranked[0].ID != "b" || ranked[1].ID != "c" || ranked[2].ID != "a" {
		t.Fatalf("unexpected order: %s %s %s", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
	// Equal scores keep arrival order.
	if !ranked[0].Recommended || ranked[1].Recommended || ranked[2].Recommended {
		t.Fatalf("expected only the head to be recommended")
	}
}

func TestRankByVibeScore(t *testing.T) {
	a := &Candidate{ID: "a", VibeScore: 0.2}
	b := &Candidate{ID: "b", VibeScore: 0.9}

	ranked := RankByVibeScore([]*Candidate{a, b})
	if ranked[0].ID != "b" {
		t.Fatalf("expected b first")
	}
	if !ranked[0].Recommended {
		t.Fatalf("expected head recommended")
	}
}
