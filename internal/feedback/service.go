package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"backend-vibenav/internal/db"

	"github.com/google/uuid"
)

var ErrInvalidRating = errors.New("feedback: rating must be between 1 and 5")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Submit(ctx context.Context, input Feedback) (Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return Feedback{}, ErrInvalidRating
	}
	if input.RouteID == "" {
		return Feedback{}, errors.New("feedback: routeId required")
	}
	input.Comment = strings.TrimSpace(input.Comment)
	input.ID = uuid.NewString()

	weightsJSON, err := json.Marshal(input.VibeWeights)
	if err != nil {
		return Feedback{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO route_feedback (id, route_identifier, route_label, rating, comment, vibe_weights, stored_route_id, user_id)
		VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.RouteID, input.RouteLabel, input.Rating, input.Comment, weightsJSON, input.StoredRouteID, input.UserID)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Feedback{}, err
	}
	return input, nil
}

func (s *Service) ForRoute(ctx context.Context, routeID string) ([]Feedback, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, route_identifier, route_label, rating, COALESCE(comment,''), vibe_weights, stored_route_id, user_id, created_at
		FROM route_feedback WHERE route_identifier=$1
		ORDER BY created_at DESC
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Feedback
	for rows.Next() {
		var f Feedback
		var weightsJSON []byte
		if err := rows.Scan(&f.ID, &f.RouteID, &f.RouteLabel, &f.Rating, &f.Comment, &weightsJSON, &f.StoredRouteID, &f.UserID, &f.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(weightsJSON, &f.VibeWeights); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, nil
}
