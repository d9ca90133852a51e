package route

import (
	"errors"
	"sort"

	"backend-vibenav/internal/vibe"
)

var ErrNoSegments = errors.New("route: candidate has no segments")

// Summarize aggregates a candidate's per-segment vibe profiles into its
// VibeSummary: per-dimension averages, the weighted match score against the
// plan weights, and the dominant dimension.
func Summarize(plan vibe.Weights, segments []Segment) (VibeSummary, error) {
	if len(segments) == 0 {
		return VibeSummary{}, ErrNoSegments
	}

	normalized := plan.Normalize()

	var averages vibe.Weights
	for _, seg := range segments {
		for _, d := range vibe.Dimensions {
			averages.Set(d, averages.Get(d)+seg.VibeScores.Get(d))
		}
	}
	var weighted float64
	for _, d := range vibe.Dimensions {
		avg := averages.Get(d) / float64(len(segments))
		averages.Set(d, avg)
		weighted += normalized.Get(d) * avg
	}

	return VibeSummary{
		NormalizedWeights: normalized,
		SegmentAverages:   averages,
		WeightedScore:     weighted,
		DominantVibe:      averages.Dominant(),
	}, nil
}

// RankByWeightedScore orders candidates by their weighted match score
// descending, ties broken by original order, and flags the winner. Used by
// the synthetic pipeline.
func RankByWeightedScore(candidates []*Candidate) []*Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Route.VibeSummary.WeightedScore > candidates[j].Route.VibeSummary.WeightedScore
	})
	markRecommended(candidates)
	return candidates
}

// RankByVibeScore orders candidates by their penalty-adjusted vibe score
// descending, ties broken by original order. Used by the engine-backed
// pipeline after ScorePath.
func RankByVibeScore(candidates []*Candidate) []*Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].VibeScore > candidates[j].VibeScore
	})
	markRecommended(candidates)
	return candidates
}

func markRecommended(candidates []*Candidate) {
	for _, c := range candidates {
		c.Recommended = false
	}
	if len(candidates) > 0 {
		candidates[0].Recommended = true
	}
}
