package vibe

import (
	"math"
	"sort"
)

// Dimension is one named axis of subjective route quality.
type Dimension string

const (
	Greenery  Dimension = "greenery"
	Quietness Dimension = "quietness"
	Culture   Dimension = "culture"
	Scenery   Dimension = "scenery"
)

// Dimensions lists all axes in canonical order.
var Dimensions = [4]Dimension{Greenery, Quietness, Culture, Scenery}

// Weights is a preference distribution over the four vibe dimensions.
// A normalized Weights has non-negative values summing to 1.
type Weights struct {
	Greenery  float64 `json:"greenery"`
	Quietness float64 `json:"quietness"`
	Culture   float64 `json:"culture"`
	Scenery   float64 `json:"scenery"`
}

// Uniform returns the even 0.25 distribution.
func Uniform() Weights {
	return Weights{Greenery: 0.25, Quietness: 0.25, Culture: 0.25, Scenery: 0.25}
}

// DefaultWeights is the out-of-the-box preference mix.
func DefaultWeights() Weights {
	return Weights{Greenery: 0.4, Quietness: 0.3, Culture: 0.15, Scenery: 0.15}
}

func (w Weights) Get(d Dimension) float64 {
	switch d {
	case Greenery:
		return w.Greenery
	case Quietness:
		return w.Quietness
	case Culture:
		return w.Culture
	case Scenery:
		return w.Scenery
	}
	return 0
}

func (w *Weights) Set(d Dimension, v float64) {
	switch d {
	case Greenery:
		w.Greenery = v
	case Quietness:
		w.Quietness = v
	case Culture:
		w.Culture = v
	case Scenery:
		w.Scenery = v
	}
}

func (w Weights) Sum() float64 {
	return w.Greenery + w.Quietness + w.Culture + w.Scenery
}

// Normalize returns non-negative weights summing to 1. An all-zero or invalid
// input (negative sum, NaN) falls back to the uniform distribution.
func (w Weights) Normalize() Weights {
	for _, d := range Dimensions {
		v := w.Get(d)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Uniform()
		}
		if v < 0 {
			w.Set(d, 0)
		}
	}
	total := w.Sum()
	if total <= 0 {
		return Uniform()
	}
	for _, d := range Dimensions {
		w.Set(d, w.Get(d)/total)
	}
	return w
}

// Blend linearly interpolates toward other by t in [0,1].
func (w Weights) Blend(other Weights, t float64) Weights {
	var out Weights
	for _, d := range Dimensions {
		out.Set(d, w.Get(d)*(1-t)+other.Get(d)*t)
	}
	return out
}

// Dominant returns the highest-weighted dimension; ties resolve in canonical
// dimension order.
func (w Weights) Dominant() Dimension {
	best := Dimensions[0]
	for _, d := range Dimensions[1:] {
		if w.Get(d) > w.Get(best) {
			best = d
		}
	}
	return best
}

// Ranked returns the dimensions ordered by weight descending, canonical order
// breaking ties.
func (w Weights) Ranked() []Dimension {
	ranked := make([]Dimension, len(Dimensions))
	copy(ranked, Dimensions[:])
	sort.SliceStable(ranked, func(i, j int) bool {
		return w.Get(ranked[i]) > w.Get(ranked[j])
	})
	return ranked
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
