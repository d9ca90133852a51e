package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"backend-vibenav/internal/db"
	"backend-vibenav/internal/vibe"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultAlternatives = 2

// Service generates, ranks and persists route candidates. When an engine
// builder is attached it is tried first; the synthesizer remains the
// fallback so generation keeps working while the routing engine is down.
type Service struct {
	db     db.Querier
	engine *EngineBuilder
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// WithEngine attaches the engine-backed candidate builder.
func (s *Service) WithEngine(engine *EngineBuilder) *Service {
	s.engine = engine
	return s
}

// Generate builds candidate plans from the request weights, synthesizes one
// candidate per plan concurrently, aggregates and ranks them, and persists
// the recommended route when a database is available. Persistence failure is
// recovered: the response simply carries a nil storedRoute.
func (s *Service) Generate(ctx context.Context, userID string, req Request) (Response, error) {
	if req.Start == (Coordinate{}) || req.End == (Coordinate{}) {
		return Response{}, errors.New("start and end coordinates required")
	}

	if s.engine != nil {
		resp, err := s.generateEngine(ctx, userID, req)
		if err == nil {
			return resp, nil
		}
		// An emotion state the weight table does not know is a configuration
		// error and must reach the caller; only external engine failures
		// degrade to the synthesizer.
		if errors.Is(err, vibe.ErrUnknownEmotion) {
			return Response{}, err
		}
		log.Printf("engine generation failed, falling back to synthesizer: %v", err)
	}

	alternatives := defaultAlternatives
	if req.Alternatives != nil {
		alternatives = *req.Alternatives
	}

	plans := vibe.BuildPlans(req.VibeWeights, alternatives)
	candidates := make([]*Candidate, len(plans))

	g, _ := errgroup.WithContext(ctx)
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			cand := Synthesize(req.Start, req.End, plan)
			summary, err := Summarize(plan.Weights, cand.Segments)
			if err != nil {
				return fmt.Errorf("candidate %s: %w", cand.ID, err)
			}
			cand.Route.VibeSummary = summary
			cand.VibeScore = summary.WeightedScore
			cand.Confidence = 1 // synthetic profiles have no missing data
			cand.Highlights = GenerateHighlights(plan.Weights, cand.Coordinates)
			candidates[i] = cand
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Response{}, err
	}
	if len(candidates) == 0 {
		return Response{}, errors.New("no route candidates generated")
	}

	ranked := RankByWeightedScore(candidates)
	recommended := ranked[0]

	var stored *StoredRoute
	if s.db != nil {
		saved, err := s.storeRoute(ctx, userID, recommended)
		if err != nil {
			log.Printf("route persistence failed: %v", err)
		} else {
			stored = saved
		}
	}

	return Response{
		StoredRoute:        stored,
		Routes:             ranked,
		RecommendedRouteID: recommended.ID,
	}, nil
}

func (s *Service) generateEngine(ctx context.Context, userID string, req Request) (Response, error) {
	emotion := req.Emotion
	if emotion == "" {
		emotion = "neutral"
	}

	candidates, err := s.engine.Generate(ctx, req.Start, req.End, emotion, req.NightMode, req.PreferBikeRoutes)
	if err != nil {
		return Response{}, err
	}
	recommended := candidates[0]

	var stored *StoredRoute
	if s.db != nil {
		saved, err := s.storeRoute(ctx, userID, recommended)
		if err != nil {
			log.Printf("route persistence failed: %v", err)
		} else {
			stored = saved
		}
	}

	return Response{
		StoredRoute:        stored,
		Routes:             candidates,
		RecommendedRouteID: recommended.ID,
	}, nil
}

// Recalculate produces a fresh single candidate from the current position to
// the destination under the same plan, for off-route recovery.
func (s *Service) Recalculate(ctx context.Context, from, to Coordinate, plan vibe.Plan) (*Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cand := Synthesize(from, to, plan)
	summary, err := Summarize(plan.Weights, cand.Segments)
	if err != nil {
		return nil, err
	}
	cand.Route.VibeSummary = summary
	cand.VibeScore = summary.WeightedScore
	cand.Confidence = 1
	cand.Highlights = GenerateHighlights(plan.Weights, cand.Coordinates)
	return cand, nil
}

func (s *Service) storeRoute(ctx context.Context, userID string, cand *Candidate) (*StoredRoute, error) {
	weightsJSON, err := json.Marshal(cand.VibeWeights)
	if err != nil {
		return nil, err
	}

	stored := StoredRoute{
		ID:                 uuid.NewString(),
		UserID:             userID,
		VibeWeights:        cand.VibeWeights,
		PathWKT:            cand.Route.Path,
		TotalDistanceM:     cand.Route.TotalDistanceM,
		EstimatedDurationS: cand.Route.EstimatedDurationS,
		VibeScore:          cand.Route.VibeSummary.WeightedScore,
	}

	start := cand.Coordinates[0]
	end := cand.Coordinates[len(cand.Coordinates)-1]
	row := s.db.QueryRow(ctx, `
		INSERT INTO routes (id, user_id, start_point, end_point, vibe_weights, path, total_distance, estimated_duration, vibe_score)
		VALUES ($1,$2,
		        ST_SetSRID(ST_MakePoint($3,$4), 4326)::geography,
		        ST_SetSRID(ST_MakePoint($5,$6), 4326)::geography,
		        $7, ST_GeogFromText($8), $9, $10, $11)
		RETURNING created_at
	`, stored.ID, stored.UserID, start[0], start[1], end[0], end[1],
		weightsJSON, stored.PathWKT, stored.TotalDistanceM, stored.EstimatedDurationS, stored.VibeScore)
	if err := row.Scan(&stored.CreatedAt); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Nearby returns stored routes within radiusM of a point, filtered by a
// minimum vibe score.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusM, minVibeScore float64) ([]StoredRoute, error) {
	if s.db == nil {
		return nil, errors.New("route storage unavailable")
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, vibe_weights, ST_AsText(path), total_distance, estimated_duration, vibe_score, created_at
		FROM routes
		WHERE ST_DWithin(path, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		  AND vibe_score >= $4
		ORDER BY vibe_score DESC
	`, lng, lat, radiusM, minVibeScore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []StoredRoute
	for rows.Next() {
		var r StoredRoute
		var weightsJSON []byte
		if err := rows.Scan(&r.ID, &r.UserID, &weightsJSON, &r.PathWKT, &r.TotalDistanceM, &r.EstimatedDurationS, &r.VibeScore, &r.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(weightsJSON, &r.VibeWeights); err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}
