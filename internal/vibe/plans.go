package vibe

import (
	"fmt"
	"math"
	"strings"
)

// Plan is one named weight variant used to generate a route candidate.
type Plan struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Weights     Weights `json:"weights"`
}

const (
	maxAlternatives  = 4
	balancedBlend    = 0.5
	emphasisBoostCap = 0.35
	emphasisFloor    = 0.05
)

var dimensionLabels = map[Dimension]string{
	Greenery:  "Greenery",
	Quietness: "Quietness",
	Culture:   "Culture",
	Scenery:   "Scenery",
}

// BuildPlans expands a base preference mix into an ordered list of candidate
// plans. The first plan is always the normalized base; alternatives (clamped
// to [0,4]) add a balanced variant and per-dimension emphasis variants in
// descending weight order.
func BuildPlans(base Weights, alternatives int) []Plan {
	if alternatives < 0 {
		alternatives = 0
	}
	if alternatives > maxAlternatives {
		alternatives = maxAlternatives
	}

	normalized := base.Normalize()
	plans := []Plan{{
		ID:          "your-mix",
		Label:       "Your Mix",
		Description: "Tuned to the weights you picked.",
		Weights:     normalized,
	}}

	if alternatives >= 1 {
		plans = append(plans, Plan{
			ID:          "balanced-explorer",
			Label:       "Balanced Explorer",
			Description: "Your mix softened toward an even spread of all four vibes.",
			Weights:     normalized.Blend(Uniform(), balancedBlend).Normalize(),
		})
	}

	ranked := normalized.Ranked()
	for i := 0; len(plans) < alternatives+1 && i < len(ranked); i++ {
		dim := ranked[i]
		plans = append(plans, Plan{
			ID:          fmt.Sprintf("emphasis-%s", dim),
			Label:       fmt.Sprintf("%s Boost", dimensionLabels[dim]),
			Description: fmt.Sprintf("Leans hard into %s while keeping a taste of everything else.", strings.ToLower(dimensionLabels[dim])),
			Weights:     emphasize(normalized, dim),
		})
	}

	return plans
}

// emphasize boosts one dimension by up to emphasisBoostCap and redistributes
// what is left across the other dimensions proportionally to their original
// share, flooring each at emphasisFloor so no dimension zeroes out.
func emphasize(w Weights, dim Dimension) Weights {
	current := w.Get(dim)
	boost := math.Min(emphasisBoostCap, 1-current)
	target := current + boost
	remainder := 1 - target

	var sumOthers float64
	for _, d := range Dimensions {
		if d != dim {
			sumOthers += w.Get(d)
		}
	}

	var out Weights
	out.Set(dim, target)
	for _, d := range Dimensions {
		if d == dim {
			continue
		}
		share := 1.0 / float64(len(Dimensions)-1)
		if sumOthers > 0 {
			share = w.Get(d) / sumOthers
		}
		v := remainder * share
		if v < emphasisFloor {
			v = emphasisFloor
		}
		out.Set(d, v)
	}
	return out.Normalize()
}
