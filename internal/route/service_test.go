package route

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-vibenav/internal/valhalla"
	"backend-vibenav/internal/vibe"

	"github.com/pashagolub/pgxmock/v3"
)

func TestGenerateCandidateCount(t *testing.T) {
	svc := NewService(nil)

	alternatives := 2
	resp, err := svc.Generate(context.Background(), "user-1", Request{
		Start:        synthStart,
		End:          synthEnd,
		VibeWeights:  vibe.Weights{Greenery: 0.4, Quietness: 0.3, Culture: 0.15, Scenery: 0.15},
		Alternatives: &alternatives,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(resp.Routes) != alternatives+1 {
		t.Fatalf("expected %d candidates, got %d", alternatives+1, len(resp.Routes))
	}
	if resp.StoredRoute != nil {
		t.Fatalf("expected no stored route without a database")
	}

	best := resp.Routes[0]
	if resp.RecommendedRouteID != best.ID || !best.Recommended {
		t.Fatalf("expected recommended id to be the ranked head")
	}
	for _, c := range resp.Routes[1:] {
		if c.Route.VibeSummary.WeightedScore > best.Route.VibeSummary.WeightedScore {
			t.Fatalf("candidate %s outranks the recommended route", c.ID)
		}
	}

	seen := map[string]bool{}
	for _, c := range resp.Routes {
		if seen[c.ID] {
			t.Fatalf("duplicate candidate id %s", c.ID)
		}
		seen[c.ID] = true
		if len(c.Segments) == 0 || len(c.Turns) == 0 {
			t.Fatalf("candidate %s missing segments or turns", c.ID)
		}
		if c.Confidence != 1 {
			t.Fatalf("synthetic candidate %s should carry full confidence", c.ID)
		}
	}
}

func TestGenerateValidatesCoordinates(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Generate(context.Background(), "user-1", Request{End: synthEnd}); err == nil {
		t.Fatalf("expected error for missing start")
	}
	if _, err := svc.Generate(context.Background(), "user-1", Request{Start: synthStart}); err == nil {
		t.Fatalf("expected error for missing end")
	}
}

func TestGeneratePersistsRecommended(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO routes`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	svc := NewService(mock)
	resp, err := svc.Generate(context.Background(), "user-1", Request{
		Start:       synthStart,
		End:         synthEnd,
		VibeWeights: vibe.DefaultWeights(),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.StoredRoute == nil {
		t.Fatalf("expected stored route")
	}
	if resp.StoredRoute.UserID != "user-1" {
		t.Fatalf("unexpected stored user %s", resp.StoredRoute.UserID)
	}
	if !resp.StoredRoute.CreatedAt.Equal(createdAt) {
		t.Fatalf("expected created_at from insert")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGeneratePersistenceFailureRecovered(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO routes`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errTest)

	svc := NewService(mock)
	resp, err := svc.Generate(context.Background(), "user-1", Request{
		Start:       synthStart,
		End:         synthEnd,
		VibeWeights: vibe.DefaultWeights(),
	})
	if err != nil {
		t.Fatalf("generation must survive persistence failure: %v", err)
	}
	if resp.StoredRoute != nil {
		t.Fatalf("expected nil stored route on persistence failure")
	}
	if len(resp.Routes) == 0 {
		t.Fatalf("expected candidates despite persistence failure")
	}
}

func TestRecalculate(t *testing.T) {
	svc := NewService(nil)

	cand, err := svc.Recalculate(context.Background(), synthStart, synthEnd, testPlan())
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if cand.Destination() != synthEnd {
		t.Fatalf("recalculated route must end at the original destination")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Recalculate(ctx, synthStart, synthEnd, testPlan()); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestNearby(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, vibe_weights, ST_AsText\(path\)`).
		WithArgs(13.405, 52.52, 500.0, 0.4).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "vibe_weights", "path", "total_distance", "estimated_duration", "vibe_score", "created_at"}).
			AddRow("route-1", "user-1", []byte(`{"greenery":0.5,"quietness":0.2,"culture":0.2,"scenery":0.1}`),
				"LINESTRING(13.405 52.52, 13.42 52.53)", 1200.0, 900.0, 0.72, time.Now()))

	svc := NewService(mock)
	routes, err := svc.Nearby(context.Background(), 52.52, 13.405, 500, 0.4)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("expected one route, got %d", len(routes))
	}
	if routes[0].VibeWeights.Greenery != 0.5 {
		t.Fatalf("expected decoded weights, got %+v", routes[0].VibeWeights)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNearbyWithoutDatabase(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Nearby(context.Background(), 52.52, 13.405, 500, 0); err == nil {
		t.Fatalf("expected error without database")
	}
}

func TestGenerateUnknownEmotionSurfaces(t *testing.T) {
	srv := newEngineServer(t)
	defer srv.Close()

	builder := NewEngineBuilder(valhalla.NewClient(srv.URL, 0), stubLookup{}, vibe.NewScorer(vibe.DefaultScoringConfig()))
	svc := NewService(nil).WithEngine(builder)

	_, err := svc.Generate(context.Background(), "user-1", Request{
		Start:       synthStart,
		End:         synthEnd,
		VibeWeights: vibe.Weights{Greenery: 0.5, Quietness: 0.5},
		Emotion:     "totally-unknown-emotion",
	})
	if err == nil {
		t.Fatalf("expected unknown emotion to surface, not fall back to synthesis")
	}
	if !errors.Is(err, vibe.ErrUnknownEmotion) {
		t.Fatalf("unexpected error class: %v", err)
	}
}

func TestGenerateEngineDownFallsBack(t *testing.T) {
	srv := newEngineServer(t)
	srv.Close()

	builder := NewEngineBuilder(valhalla.NewClient(srv.URL, 0), stubLookup{}, vibe.NewScorer(vibe.DefaultScoringConfig()))
	svc := NewService(nil).WithEngine(builder)

	resp, err := svc.Generate(context.Background(), "user-1", Request{
		Start:       synthStart,
		End:         synthEnd,
		VibeWeights: vibe.Weights{Greenery: 0.5, Quietness: 0.5},
	})
	if err != nil {
		t.Fatalf("expected synthesizer fallback when the engine is unreachable: %v", err)
	}
	if len(resp.Routes) != defaultAlternatives+1 {
		t.Fatalf("expected %d synthetic candidates, got %d", defaultAlternatives+1, len(resp.Routes))
	}
}
