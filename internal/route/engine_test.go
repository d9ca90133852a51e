package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-vibenav/internal/valhalla"
	"backend-vibenav/internal/vibe"
)

type stubLookup struct {
	feats []vibe.SegmentFeatures
	err   error
}

func (s stubLookup) PathFeatures(_ context.Context, _ string) ([]vibe.SegmentFeatures, error) {
	return s.feats, s.err
}

func engineFixture() valhalla.RouteResponse {
	shape := valhalla.EncodeShape([][2]float64{
		{13.405, 52.52},
		{13.41, 52.523},
		{13.415, 52.527},
		{13.42, 52.53},
	})

	var resp valhalla.RouteResponse
	leg := valhalla.Leg{Shape: shape}
	leg.Summary.LengthKm = 1.8
	leg.Summary.TimeS = 1300
	leg.Maneuvers = []valhalla.Maneuver{
		{Instruction: "Walk north on Linienstrasse", Type: 1, LengthKm: 0.6, TimeS: 430, BeginShapeIndex: 0, EndShapeIndex: 1},
		{Instruction: "Turn left onto Ackerstrasse", Type: 10, LengthKm: 0.7, TimeS: 500, BeginShapeIndex: 1, EndShapeIndex: 2},
		{Instruction: "Arrive at destination", Type: 4, LengthKm: 0.5, TimeS: 370, BeginShapeIndex: 2, EndShapeIndex: 3},
	}
	resp.Trip.Legs = []valhalla.Leg{leg}
	return resp
}

func newEngineServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/route" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(engineFixture())
	}))
}

func TestEngineBuilderGenerate(t *testing.T) {
	srv := newEngineServer(t)
	defer srv.Close()

	lookup := stubLookup{feats: []vibe.SegmentFeatures{
		{GreenCover: vibe.Float(0.8), TreeCanopy: vibe.Float(0.7), NoiseLevel: vibe.Float(0.2), TrafficVolume: vibe.Float(0.1)},
		{GreenCover: vibe.Float(0.3), CafeDensity: vibe.Float(0.6), CulturalNodes: vibe.Float(0.5)},
		{WaterProximity: vibe.Float(0.9), PedestrianFriendly: vibe.Float(0.8)},
	}}

	builder := NewEngineBuilder(valhalla.NewClient(srv.URL, 0), lookup, vibe.NewScorer(vibe.DefaultScoringConfig()))
	candidates, err := builder.Generate(context.Background(), synthStart, synthEnd, "neutral", false, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Two pedestrian strategies, no bicycle.
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if !candidates[0].Recommended {
		t.Fatalf("expected head recommended")
	}

	for _, c := range candidates {
		if len(c.Segments) != 3 {
			t.Fatalf("expected maneuver-aligned segments, got %d", len(c.Segments))
		}
		if c.Turns[1].Direction != DirLeft {
			t.Fatalf("expected left turn, got %s", c.Turns[1].Direction)
		}
		if c.Turns[2].Direction != DirArrive {
			t.Fatalf("expected arrive, got %s", c.Turns[2].Direction)
		}
		if c.VibeScore <= 0 || c.Confidence <= 0 {
			t.Fatalf("expected positive score and confidence")
		}
		if c.DetourMinutes != 0 {
			t.Fatalf("identical durations must carry zero detour, got %v", c.DetourMinutes)
		}
	}
}

func TestEngineBuilderLookupFailureUsesDefaults(t *testing.T) {
	srv := newEngineServer(t)
	defer srv.Close()

	builder := NewEngineBuilder(valhalla.NewClient(srv.URL, 0), stubLookup{err: errTest}, vibe.NewScorer(vibe.DefaultScoringConfig()))
	candidates, err := builder.Generate(context.Background(), synthStart, synthEnd, "neutral", false, false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, seg := range candidates[0].Segments {
		if seg.Features.GreenCover == nil {
			t.Fatalf("expected default features substituted")
		}
	}
	if candidates[0].Confidence != 1 {
		// Defaults fill every attribute, so confidence stays full even though
		// the data is degraded.
		t.Fatalf("unexpected confidence %v", candidates[0].Confidence)
	}
}

func TestEngineBuilderUnknownEmotion(t *testing.T) {
	srv := newEngineServer(t)
	defer srv.Close()

	builder := NewEngineBuilder(valhalla.NewClient(srv.URL, 0), stubLookup{}, vibe.NewScorer(vibe.DefaultScoringConfig()))
	if _, err := builder.Generate(context.Background(), synthStart, synthEnd, "furious", false, false); err == nil {
		t.Fatalf("expected error for unknown emotion")
	}
}

func TestEngineBuilderEngineDown(t *testing.T) {
	srv := newEngineServer(t)
	srv.Close()

	builder := NewEngineBuilder(valhalla.NewClient(srv.URL, 0), stubLookup{}, vibe.NewScorer(vibe.DefaultScoringConfig()))
	if _, err := builder.Generate(context.Background(), synthStart, synthEnd, "neutral", false, false); err == nil {
		t.Fatalf("expected error when the engine is unreachable")
	}
}
