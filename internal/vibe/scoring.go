package vibe

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// ScoringConfig is the externally supplied, hot-swappable scoring surface:
// a named weight table per emotion state plus the penalty knobs.
type ScoringConfig struct {
	Emotions                       map[string]FeatureWeights `json:"emotions"`
	MissingDataConfidenceThreshold float64                   `json:"missing_data_confidence_threshold"`
	DetourPenaltyPerMinute         float64                   `json:"detour_penalty_per_minute"`
	NightModeSafetyThreshold       float64                   `json:"night_mode_safety_threshold"`
	NightModePenalty               float64                   `json:"night_mode_penalty"`
}

// DefaultScoringConfig returns the built-in weight table used when no
// external configuration is supplied.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Emotions: map[string]FeatureWeights{
			"neutral": {
				GreenCover: 0.2, WaterProximity: 0.1, TreeCanopy: 0.1,
				CafeDensity: 0.1, CulturalNodes: 0.1, TrafficVolume: 0.1,
				NoiseLevel: 0.1, PedestrianFriendly: 0.2,
			},
			"sad_low_energy": {
				GreenCover: 0.3, WaterProximity: 0.2, TreeCanopy: 0.2,
				NoiseLevel: 0.1, PedestrianFriendly: 0.2,
			},
			"anxious": {
				GreenCover: 0.2, TreeCanopy: 0.15, TrafficVolume: 0.2,
				NoiseLevel: 0.2, PedestrianFriendly: 0.25,
			},
			"lonely": {
				CafeDensity: 0.3, CulturalNodes: 0.3, PedestrianFriendly: 0.2,
				GreenCover: 0.2,
			},
			"burnt_out": {
				GreenCover: 0.25, WaterProximity: 0.25, TreeCanopy: 0.2,
				NoiseLevel: 0.15, Slope: 0.15,
			},
		},
		MissingDataConfidenceThreshold: 0.5,
		DetourPenaltyPerMinute:         0.02,
		NightModeSafetyThreshold:       0.4,
		NightModePenalty:               0.15,
	}
}

// PathPenalties carries the route-level penalty inputs for ScorePath.
type PathPenalties struct {
	DetourMinutes float64
	NightMode     bool
}

// PathScore is the aggregate result for one route.
type PathScore struct {
	VibeScore     float64
	AvgConfidence float64
}

var (
	ErrEmptySegments = errors.New("vibe: cannot score a route with no segments")

	// ErrUnknownEmotion marks a scoring request against an emotion state the
	// configured weight table does not know. A configuration error, not an
	// external failure: callers must surface it, never default around it.
	ErrUnknownEmotion = errors.New("vibe: unknown emotion state")
)

// Scorer applies confidence-weighted vibe scoring under one ScoringConfig.
type Scorer struct {
	cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer {
	if cfg.Emotions == nil {
		cfg = DefaultScoringConfig()
	}
	return &Scorer{cfg: cfg}
}

func (s *Scorer) Config() ScoringConfig { return s.cfg }

// ScoreSegment computes the weighted sum of the available feature values,
// scaled by confidence = valid weighted attributes / total weighted
// attributes. Missing data lowers confidence instead of erroring; a
// sub-threshold confidence is logged but does not block scoring.
func (s *Scorer) ScoreSegment(features SegmentFeatures, weights FeatureWeights) (score, confidence float64) {
	var total, valid int
	for _, field := range featureFields {
		w := field.weight(weights)
		if w == 0 {
			continue
		}
		total++
		if v, ok := validValue(field.value(features)); ok {
			score += v * w
			valid++
		}
	}

	if total == 0 {
		return 0, 0
	}
	confidence = float64(valid) / float64(total)
	if confidence < s.cfg.MissingDataConfidenceThreshold {
		log.Printf("segment confidence %.1f%% below threshold %.1f%%",
			confidence*100, s.cfg.MissingDataConfidenceThreshold*100)
	}
	return score * confidence, confidence
}

// ScorePath aggregates segment scores for the named emotion state, applies
// the detour and night-mode penalties, and floors the result at zero.
// An unknown emotion key or an empty segment list is a hard failure.
func (s *Scorer) ScorePath(segments []SegmentFeatures, emotion string, penalties PathPenalties) (PathScore, error) {
	weights, ok := s.cfg.Emotions[emotion]
	if !ok {
		return PathScore{}, fmt.Errorf("%w %q", ErrUnknownEmotion, emotion)
	}
	if len(segments) == 0 {
		return PathScore{}, ErrEmptySegments
	}

	var sumScore, sumConfidence float64
	for _, features := range segments {
		score, confidence := s.ScoreSegment(features, weights)
		sumScore += score
		sumConfidence += confidence
	}
	avgScore := sumScore / float64(len(segments))
	avgConfidence := sumConfidence / float64(len(segments))

	penalty := penalties.DetourMinutes * s.cfg.DetourPenaltyPerMinute
	if penalties.NightMode {
		for _, features := range segments {
			if safety, ok := features.LightSafety(); ok && safety < s.cfg.NightModeSafetyThreshold {
				penalty += s.cfg.NightModePenalty
				break
			}
		}
	}

	return PathScore{
		VibeScore:     math.Max(0, avgScore-penalty),
		AvgConfidence: avgConfidence,
	}, nil
}
