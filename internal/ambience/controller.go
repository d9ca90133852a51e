// Package ambience chooses the background soundscape for the current route
// segment. The controller owns no audio resources itself: it emits typed
// transitions and lets an adapter on the client perform playback.
package ambience

import (
	"errors"
	"sync"

	"backend-vibenav/internal/vibe"
)

// Type names one ambient soundscape.
type Type string

const (
	None  Type = ""
	Birds Type = "birds"
	Water Type = "water"
	Wind  Type = "wind"
	Cafe  Type = "cafe"
)

// Transition describes one crossfade between soundscapes.
type Transition struct {
	From      Type `json:"from"`
	To        Type `json:"to"`
	FadeOutMs int  `json:"fade_out_ms"`
	FadeInMs  int  `json:"fade_in_ms"`
}

var fadeInMs = map[Type]int{
	Birds: 2000,
	Water: 2500,
	Wind:  3000,
	Cafe:  2000,
}

var fadeOutMs = map[Type]int{
	Birds: 1500,
	Water: 2000,
	Wind:  2000,
	Cafe:  1500,
}

// Selection thresholds on segment features.
const (
	waterThreshold = 0.6
	greenThreshold = 0.5
	cafeThreshold  = 0.5
)

var ErrDisposed = errors.New("ambience: controller disposed")

// Controller tracks the active soundscape for one navigation session. It is
// constructed per session and released with Dispose when the session ends.
type Controller struct {
	mu       sync.Mutex
	current  Type
	enabled  bool
	disposed bool
}

func NewController() *Controller {
	return &Controller{enabled: true}
}

func (c *Controller) Current() Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// Select picks the soundscape for a segment and returns the transition if it
// changed. Feature data wins when present; otherwise the segment's dominant
// vibe dimension decides.
func (c *Controller) Select(features vibe.SegmentFeatures, profile vibe.Weights) (Transition, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return Transition{}, false, ErrDisposed
	}
	if !c.enabled {
		return Transition{}, false, nil
	}

	next := pick(features, profile)
	if next == c.current {
		return Transition{}, false, nil
	}

	transition := Transition{
		From:      c.current,
		To:        next,
		FadeOutMs: fadeOutMs[c.current],
		FadeInMs:  fadeInMs[next],
	}
	c.current = next
	return transition, true, nil
}

// Dispose releases the controller; further selections error. Safe to call
// more than once.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
	c.current = None
}

func pick(features vibe.SegmentFeatures, profile vibe.Weights) Type {
	if v := features.WaterProximity; v != nil && *v >= waterThreshold {
		return Water
	}
	if v := features.GreenCover; v != nil && *v >= greenThreshold {
		return Birds
	}
	if v := features.CafeDensity; v != nil && *v >= cafeThreshold {
		return Cafe
	}

	switch profile.Dominant() {
	case vibe.Greenery:
		return Birds
	case vibe.Scenery:
		return Water
	case vibe.Culture:
		return Cafe
	default:
		return Wind
	}
}
