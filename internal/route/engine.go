package route

import (
	"context"
	"errors"
	"fmt"
	"log"

	"backend-vibenav/internal/features"
	"backend-vibenav/internal/shared/geo"
	"backend-vibenav/internal/valhalla"
	"backend-vibenav/internal/vibe"

	"github.com/google/uuid"
)

// EngineBuilder produces candidates in engine-backed mode: externally
// computed geometry partitioned at maneuver boundaries and enriched with
// feature vectors from the geospatial database.
type EngineBuilder struct {
	engine *valhalla.Client
	lookup features.Lookup
	scorer *vibe.Scorer
}

func NewEngineBuilder(engine *valhalla.Client, lookup features.Lookup, scorer *vibe.Scorer) *EngineBuilder {
	return &EngineBuilder{engine: engine, lookup: lookup, scorer: scorer}
}

// Generate fetches base routes from the routing engine, enriches each with
// segment features, scores them for the emotion state and reranks by the
// penalty-adjusted vibe score.
func (b *EngineBuilder) Generate(ctx context.Context, origin, destination Coordinate, emotion string, nightMode, preferBike bool) ([]*Candidate, error) {
	responses, err := b.engine.BaseRoutes(ctx,
		valhalla.Location{Lat: origin.Lat, Lon: origin.Lng},
		valhalla.Location{Lat: destination.Lat, Lon: destination.Lng},
		preferBike)
	if err != nil {
		return nil, err
	}

	candidates := make([]*Candidate, 0, len(responses))
	for _, resp := range responses {
		cand, err := b.enrich(ctx, resp)
		if err != nil {
			log.Printf("discarding engine route: %v", err)
			continue
		}
		candidates = append(candidates, cand)
	}
	if len(candidates) == 0 {
		return nil, errors.New("no route candidates generated")
	}

	// Detour minutes relative to the fastest candidate.
	fastest := candidates[0].Route.EstimatedDurationS
	for _, c := range candidates[1:] {
		if c.Route.EstimatedDurationS < fastest {
			fastest = c.Route.EstimatedDurationS
		}
	}

	for _, c := range candidates {
		c.DetourMinutes = (c.Route.EstimatedDurationS - fastest) / 60

		segFeatures := make([]vibe.SegmentFeatures, len(c.Segments))
		for i, seg := range c.Segments {
			segFeatures[i] = seg.Features
		}
		score, err := b.scorer.ScorePath(segFeatures, emotion, vibe.PathPenalties{
			DetourMinutes: c.DetourMinutes,
			NightMode:     nightMode,
		})
		if err != nil {
			return nil, err
		}
		c.VibeScore = score.VibeScore
		c.Confidence = score.AvgConfidence

		summary, err := Summarize(c.VibeWeights, c.Segments)
		if err != nil {
			return nil, err
		}
		c.Route.VibeSummary = summary
		c.Highlights = GenerateHighlights(summary.NormalizedWeights, c.Coordinates)
	}

	return RankByVibeScore(candidates), nil
}

// enrich partitions one engine leg into maneuver-aligned segments and
// attaches looked-up feature vectors, substituting defaults per segment when
// the lookup fails or returns nothing.
func (b *EngineBuilder) enrich(ctx context.Context, resp valhalla.RouteResponse) (*Candidate, error) {
	leg := resp.Trip.Legs[0]

	coords, err := valhalla.DecodeShape(leg.Shape)
	if err != nil {
		return nil, err
	}
	if len(coords) < 2 || len(leg.Maneuvers) == 0 {
		return nil, errors.New("engine leg has no usable geometry")
	}

	pathWKT := LineStringWKT(coords)
	looked, lookupErr := b.lookup.PathFeatures(ctx, pathWKT)
	if lookupErr != nil {
		log.Printf("feature lookup failed, using defaults: %v", lookupErr)
	}

	segments := make([]Segment, 0, len(leg.Maneuvers))
	turns := make([]TurnInstruction, 0, len(leg.Maneuvers))
	for idx, m := range leg.Maneuvers {
		segFeatures := features.Defaults()
		if lookupErr == nil && idx < len(looked) {
			segFeatures = looked[idx]
		}

		beginIdx := clampIndex(m.BeginShapeIndex, len(coords))
		endIdx := clampIndex(m.EndShapeIndex, len(coords))
		start := Coordinate{Lat: coords[beginIdx][1], Lng: coords[beginIdx][0]}
		end := Coordinate{Lat: coords[endIdx][1], Lng: coords[endIdx][0]}

		profile := featureProfile(segFeatures)
		segments = append(segments, Segment{
			Index:        idx,
			Start:        start,
			End:          end,
			DistanceM:    m.LengthKm * 1000,
			DurationS:    m.TimeS,
			Summary:      m.Instruction,
			DominantVibe: profile.Dominant(),
			VibeScores:   profile,
			Features:     segFeatures,
		})

		bearing := geo.BearingDeg(start.Lat, start.Lng, end.Lat, end.Lng)
		turns = append(turns, TurnInstruction{
			DistanceM:  m.LengthKm * 1000,
			Direction:  Direction(valhalla.MapManeuverType(m.Type)),
			StreetName: m.Instruction,
			Point:      start,
			Bearing:    &bearing,
		})
	}

	return &Candidate{
		ID:          fmt.Sprintf("route-%s", uuid.NewString()),
		VibeWeights: vibe.Uniform(),
		Route: Summary{
			Path:               pathWKT,
			TotalDistanceM:     leg.Summary.LengthKm * 1000,
			EstimatedDurationS: leg.Summary.TimeS,
		},
		Segments:    segments,
		Turns:       turns,
		GeoJSON:     NewGeoJSONFeature(coords, nil),
		Coordinates: coords,
	}, nil
}

// featureProfile maps a feature vector onto the four vibe dimensions so
// engine-backed segments carry the same profile shape as synthetic ones.
func featureProfile(f vibe.SegmentFeatures) vibe.Weights {
	val := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return vibe.Weights{
		Greenery:  clampAvg(val(f.GreenCover), val(f.TreeCanopy)),
		Quietness: clampAvg(1-val(f.TrafficVolume), 1-val(f.NoiseLevel)),
		Culture:   clampAvg(val(f.CafeDensity), val(f.CulturalNodes)),
		Scenery:   clampAvg(val(f.WaterProximity), val(f.PedestrianFriendly)),
	}
}

func clampAvg(a, b float64) float64 {
	v := (a + b) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
