package vibe

import "math"

// SegmentFeatures is the spatial attribute snapshot of one route segment.
// Every attribute is nominally in [0,1]; a nil pointer marks missing data,
// which scoring recovers from via the confidence factor.
type SegmentFeatures struct {
	GreenCover         *float64 `json:"green_cover,omitempty"`
	WaterProximity     *float64 `json:"water_proximity,omitempty"`
	TreeCanopy         *float64 `json:"tree_canopy,omitempty"`
	CafeDensity        *float64 `json:"cafe_density,omitempty"`
	CulturalNodes      *float64 `json:"cultural_nodes,omitempty"`
	TrafficVolume      *float64 `json:"traffic_volume,omitempty"`
	NoiseLevel         *float64 `json:"noise_level,omitempty"`
	PedestrianFriendly *float64 `json:"pedestrian_friendly,omitempty"`
	Slope              *float64 `json:"slope,omitempty"`
	LightSafetyNight   *float64 `json:"light_safety_night,omitempty"`
}

// FeatureWeights weighs the segment attributes for one emotion state. A zero
// weight means the attribute does not participate in scoring for that state.
type FeatureWeights struct {
	GreenCover         float64 `json:"green_cover,omitempty"`
	WaterProximity     float64 `json:"water_proximity,omitempty"`
	TreeCanopy         float64 `json:"tree_canopy,omitempty"`
	CafeDensity        float64 `json:"cafe_density,omitempty"`
	CulturalNodes      float64 `json:"cultural_nodes,omitempty"`
	TrafficVolume      float64 `json:"traffic_volume,omitempty"`
	NoiseLevel         float64 `json:"noise_level,omitempty"`
	PedestrianFriendly float64 `json:"pedestrian_friendly,omitempty"`
	Slope              float64 `json:"slope,omitempty"`
	LightSafetyNight   float64 `json:"light_safety_night,omitempty"`
}

// featureField pairs a weight accessor with the matching feature accessor so
// scoring can walk the fixed schema without map introspection.
type featureField struct {
	name   string
	weight func(FeatureWeights) float64
	value  func(SegmentFeatures) *float64
}

var featureFields = []featureField{
	{"green_cover", func(w FeatureWeights) float64 { return w.GreenCover }, func(f SegmentFeatures) *float64 { return f.GreenCover }},
	{"water_proximity", func(w FeatureWeights) float64 { return w.WaterProximity }, func(f SegmentFeatures) *float64 { return f.WaterProximity }},
	{"tree_canopy", func(w FeatureWeights) float64 { return w.TreeCanopy }, func(f SegmentFeatures) *float64 { return f.TreeCanopy }},
	{"cafe_density", func(w FeatureWeights) float64 { return w.CafeDensity }, func(f SegmentFeatures) *float64 { return f.CafeDensity }},
	{"cultural_nodes", func(w FeatureWeights) float64 { return w.CulturalNodes }, func(f SegmentFeatures) *float64 { return f.CulturalNodes }},
	{"traffic_volume", func(w FeatureWeights) float64 { return w.TrafficVolume }, func(f SegmentFeatures) *float64 { return f.TrafficVolume }},
	{"noise_level", func(w FeatureWeights) float64 { return w.NoiseLevel }, func(f SegmentFeatures) *float64 { return f.NoiseLevel }},
	{"pedestrian_friendly", func(w FeatureWeights) float64 { return w.PedestrianFriendly }, func(f SegmentFeatures) *float64 { return f.PedestrianFriendly }},
	{"slope", func(w FeatureWeights) float64 { return w.Slope }, func(f SegmentFeatures) *float64 { return f.Slope }},
	{"light_safety_night", func(w FeatureWeights) float64 { return w.LightSafetyNight }, func(f SegmentFeatures) *float64 { return f.LightSafetyNight }},
}

// Float is a convenience for building optional feature values.
func Float(v float64) *float64 { return &v }

// LightSafety returns the night-safety attribute or its nil status.
func (f SegmentFeatures) LightSafety() (float64, bool) {
	if f.LightSafetyNight == nil {
		return 0, false
	}
	return *f.LightSafetyNight, true
}

func validValue(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) {
		return 0, false
	}
	return *p, true
}
