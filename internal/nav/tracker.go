package nav

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	"backend-vibenav/internal/route"
	"backend-vibenav/internal/shared/geo"
	"backend-vibenav/internal/vibe"
)

// Phase is the tracker's lifecycle state.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseNavigating    Phase = "navigating"
	PhaseRecalculating Phase = "recalculating"
	PhaseArrived       Phase = "arrived"
	PhaseStopped       Phase = "stopped"
)

// HapticIntensity grades the haptic cues emitted during navigation.
type HapticIntensity string

const (
	HapticLight  HapticIntensity = "light"
	HapticMedium HapticIntensity = "medium"
	HapticHeavy  HapticIntensity = "heavy"
)

// Off-route thresholds. These are tuned heuristics, not derived physics:
// the dual test avoids GPS-jitter false positives on straight segments while
// still catching genuine wrong turns at low lateral offset.
const (
	offRouteSoftDistanceM = 30.0
	offRouteHeadingDeg    = 45.0
	offRouteHardDistanceM = 50.0
)

// Turn feedback distances in meters.
const (
	turnCueFarM  = 50.0
	turnCueNearM = 30.0
	turnCueDoneM = 10.0
)

// State is the tracker's transient snapshot, mutated exclusively by its
// owning Tracker and emitted after every update.
type State struct {
	Active              bool             `json:"isNavigating"`
	Phase               Phase            `json:"phase"`
	RouteID             string           `json:"routeId"`
	Position            route.Coordinate `json:"position"`
	Heading             float64          `json:"heading"`
	NextTurnIndex       int              `json:"nextTurnIndex"`
	DistanceToNextTurnM float64          `json:"distanceToNextTurn"`
	OffRoute            bool             `json:"isOffRoute"`
	SegmentIndex        int              `json:"segmentIndex"`
}

// Observer receives navigation side effects as events; the tracker itself
// never speaks, vibrates or renders. OnStateChange carries the segment
// nearest the current position so adapters (ambience, UI) need not reach
// back into the tracker.
type Observer interface {
	OnStateChange(State, route.Segment)
	OnHaptic(HapticIntensity)
	OnInstruction(text string)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnStateChange(State, route.Segment) {}
func (NopObserver) OnHaptic(HapticIntensity)           {}
func (NopObserver) OnInstruction(string)               {}

// Recalculator plans a replacement route from the current position to the
// original destination under the same plan context.
type Recalculator interface {
	Recalculate(ctx context.Context, from, to route.Coordinate, plan vibe.Plan) (*route.Candidate, error)
}

var (
	ErrNotIdle       = errors.New("nav: tracker already started")
	ErrNotNavigating = errors.New("nav: tracker is not navigating")
)

// Tracker drives one navigation session over one candidate. Position updates
// are serialized by the mutex so off-route and turn-progression logic always
// observes them in arrival order. The candidate is treated as read-only.
type Tracker struct {
	mu sync.Mutex

	route  *route.Candidate
	plan   vibe.Plan
	recalc Recalculator
	obs    Observer

	phase        Phase
	position     route.Coordinate
	heading      float64
	nextTurn     int
	offRoute     bool
	segmentIndex int

	ctx    context.Context
	cancel context.CancelFunc
}

func NewTracker(cand *route.Candidate, plan vibe.Plan, recalc Recalculator, obs Observer) *Tracker {
	if obs == nil {
		obs = NopObserver{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		route:  cand,
		plan:   plan,
		recalc: recalc,
		obs:    obs,
		phase:  PhaseIdle,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start transitions idle → navigating, resets turn progress, and announces
// the first instruction.
func (t *Tracker) Start(position route.Coordinate, heading float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhaseIdle {
		return ErrNotIdle
	}
	t.phase = PhaseNavigating
	t.position = position
	t.heading = heading
	t.nextTurn = 0

	t.emitState()
	t.announceNextTurn()
	return nil
}

// Update ingests one position/heading sample. Only valid while navigating;
// updates arriving in any other phase are rejected, never merged.
func (t *Tracker) Update(position route.Coordinate, heading float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhaseNavigating {
		return ErrNotNavigating
	}
	t.position = position
	t.heading = heading

	nearestIdx, perpDistance, segBearing := t.nearestSegment(position)
	t.segmentIndex = nearestIdx

	headingDiff := geo.HeadingDiffDeg(heading, segBearing)
	t.offRoute = (perpDistance > offRouteSoftDistanceM && headingDiff > offRouteHeadingDeg) ||
		perpDistance > offRouteHardDistanceM

	if t.offRoute {
		log.Printf("off-route: distance=%.1fm heading-diff=%.1f°", perpDistance, headingDiff)
		t.recalculate()
		return nil
	}

	if t.nextTurn >= len(t.route.Turns) {
		t.arrive()
		return nil
	}

	turn := t.route.Turns[t.nextTurn]
	distToTurn := geo.HaversineM(position.Lat, position.Lng, turn.Point.Lat, turn.Point.Lng)

	switch {
	case distToTurn < turnCueDoneM:
		t.obs.OnHaptic(HapticMedium)
		t.nextTurn++
		t.announceNextTurn()
	case distToTurn < turnCueNearM:
		t.obs.OnInstruction(fmt.Sprintf("In %d meters, %s", int(math.Round(distToTurn)), directionText(turn.Direction)))
	case distToTurn < turnCueFarM:
		t.obs.OnHaptic(HapticLight)
	}

	t.emitState()
	return nil
}

// Stop ends the session. It cancels any in-flight recalculation first so a
// recalculation resolving after Stop cannot mutate state.
func (t *Tracker) Stop() {
	t.cancel()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase == PhaseNavigating || t.phase == PhaseRecalculating || t.phase == PhaseIdle {
		t.phase = PhaseStopped
		t.emitState()
	}
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Route returns the active candidate (read-only to callers).
func (t *Tracker) Route() *route.Candidate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.route
}

// currentSegmentLocked returns the segment nearest the last known position.
// Callers must hold t.mu.
func (t *Tracker) currentSegmentLocked() route.Segment {
	if len(t.route.Segments) == 0 {
		return route.Segment{}
	}
	idx := t.segmentIndex
	if idx >= len(t.route.Segments) {
		idx = len(t.route.Segments) - 1
	}
	return t.route.Segments[idx]
}

// recalculate runs inline under the tracker mutex: transitions are
// synchronous relative to the triggering update call. A failed or cancelled
// recalculation keeps the stale route and navigation continues.
func (t *Tracker) recalculate() {
	t.phase = PhaseRecalculating
	t.emitState()

	destination := t.route.Destination()
	replacement, err := t.recalc.Recalculate(t.ctx, t.position, destination, t.plan)

	if t.ctx.Err() != nil {
		// Stopped while recalculating; discard whatever resolved.
		return
	}
	if err != nil {
		log.Printf("recalculation failed, keeping stale route: %v", err)
		t.phase = PhaseNavigating
		t.emitState()
		return
	}

	t.route = replacement
	t.nextTurn = 0
	t.offRoute = false
	t.phase = PhaseNavigating
	t.obs.OnInstruction("Route recalculated")
	t.emitState()
	t.announceNextTurn()
}

func (t *Tracker) arrive() {
	t.phase = PhaseArrived
	t.obs.OnHaptic(HapticHeavy)
	t.obs.OnInstruction("You have arrived at your destination")
	t.emitState()
}

// nearestSegment returns the index, perpendicular distance in meters, and
// endpoint-to-endpoint bearing of the route segment closest to position.
func (t *Tracker) nearestSegment(p route.Coordinate) (int, float64, float64) {
	bestIdx := 0
	bestDist := math.Inf(1)
	bestBearing := 0.0

	for i, seg := range t.route.Segments {
		d := geo.PointToSegmentM(p.Lat, p.Lng, seg.Start.Lat, seg.Start.Lng, seg.End.Lat, seg.End.Lng)
		if d < bestDist {
			bestDist = d
			bestIdx = i
			bestBearing = geo.BearingDeg(seg.Start.Lat, seg.Start.Lng, seg.End.Lat, seg.End.Lng)
		}
	}
	return bestIdx, bestDist, bestBearing
}

func (t *Tracker) announceNextTurn() {
	if t.nextTurn < len(t.route.Turns) {
		t.obs.OnInstruction("Get ready to " + directionText(t.route.Turns[t.nextTurn].Direction))
	}
}

func (t *Tracker) snapshot() State {
	s := State{
		Active:        t.phase == PhaseNavigating || t.phase == PhaseRecalculating,
		Phase:         t.phase,
		RouteID:       t.route.ID,
		Position:      t.position,
		Heading:       t.heading,
		NextTurnIndex: t.nextTurn,
		OffRoute:      t.offRoute,
		SegmentIndex:  t.segmentIndex,
	}
	if t.nextTurn < len(t.route.Turns) {
		turn := t.route.Turns[t.nextTurn]
		s.DistanceToNextTurnM = geo.HaversineM(t.position.Lat, t.position.Lng, turn.Point.Lat, turn.Point.Lng)
	}
	return s
}

func (t *Tracker) emitState() {
	t.obs.OnStateChange(t.snapshot(), t.currentSegmentLocked())
}

func directionText(d route.Direction) string {
	switch d {
	case route.DirLeft:
		return "turn left"
	case route.DirRight:
		return "turn right"
	case route.DirStraight:
		return "continue straight"
	case route.DirArrive:
		return "arrive at your destination"
	}
	return "continue ahead"
}
