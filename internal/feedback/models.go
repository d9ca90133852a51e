package feedback

import (
	"time"

	"backend-vibenav/internal/vibe"
)

type Feedback struct {
	ID            string       `json:"id"`
	RouteID       string       `json:"routeId"`
	RouteLabel    string       `json:"routeLabel"`
	Rating        int          `json:"rating"`
	Comment       string       `json:"comment,omitempty"`
	VibeWeights   vibe.Weights `json:"vibeWeights"`
	StoredRouteID *string      `json:"storedRouteId,omitempty"`
	UserID        string       `json:"user_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}
