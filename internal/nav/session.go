package nav

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"backend-vibenav/internal/ambience"
	"backend-vibenav/internal/route"
	"backend-vibenav/internal/stream"
	"backend-vibenav/internal/vibe"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("nav: session not found")

// Session binds one tracker to its session-scoped resources: the ambience
// controller it owns and the event stream it feeds.
type Session struct {
	ID        string
	UserID    string
	Tracker   *Tracker
	Ambience  *ambience.Controller
	StartedAt time.Time
}

// Manager owns the live navigation sessions of this instance.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	recalc   Recalculator
	hub      *stream.Hub
}

func NewManager(recalc Recalculator, hub *stream.Hub) *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		recalc:   recalc,
		hub:      hub,
	}
}

// Start creates a session for the candidate, wires its observer to the
// event stream and ambience controller, and starts the tracker.
func (m *Manager) Start(userID string, cand *route.Candidate, plan vibe.Plan, position route.Coordinate, heading float64) (*Session, error) {
	if cand == nil || len(cand.Segments) == 0 {
		return nil, errors.New("nav: candidate with segments required")
	}

	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Ambience:  ambience.NewController(),
		StartedAt: time.Now(),
	}
	session.Tracker = NewTracker(cand, plan, m.recalc, &streamObserver{
		hub:     m.hub,
		session: session,
	})

	if err := session.Tracker.Start(position, heading); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Update forwards a position sample to the session's tracker.
func (m *Manager) Update(id string, position route.Coordinate, heading float64) (State, error) {
	session, err := m.Get(id)
	if err != nil {
		return State{}, err
	}
	if err := session.Tracker.Update(position, heading); err != nil {
		return State{}, err
	}
	return session.Tracker.State(), nil
}

// Stop ends a session, releases its ambience resources and removes it.
func (m *Manager) Stop(id string) (State, error) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return State{}, ErrSessionNotFound
	}
	session.Tracker.Stop()
	session.Ambience.Dispose()
	return session.Tracker.State(), nil
}

// Event is the wire shape of one navigation event on the stream.
type Event struct {
	Type        string               `json:"type"`
	SessionID   string               `json:"session_id"`
	State       *State               `json:"state,omitempty"`
	Haptic      HapticIntensity      `json:"haptic,omitempty"`
	Instruction string               `json:"instruction,omitempty"`
	Ambience    *ambience.Transition `json:"ambience,omitempty"`
}

// streamObserver bridges tracker callbacks onto the websocket hub and drives
// the session's ambience from the current segment.
type streamObserver struct {
	hub     *stream.Hub
	session *Session
}

func (o *streamObserver) OnStateChange(state State, segment route.Segment) {
	o.publish(Event{Type: "state", SessionID: o.session.ID, State: &state})

	transition, changed, err := o.session.Ambience.Select(segment.Features, segment.VibeScores)
	if err == nil && changed {
		o.publish(Event{Type: "ambience", SessionID: o.session.ID, Ambience: &transition})
	}
}

func (o *streamObserver) OnHaptic(intensity HapticIntensity) {
	o.publish(Event{Type: "haptic", SessionID: o.session.ID, Haptic: intensity})
}

func (o *streamObserver) OnInstruction(text string) {
	o.publish(Event{Type: "instruction", SessionID: o.session.ID, Instruction: text})
}

func (o *streamObserver) publish(event Event) {
	if o.hub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	o.hub.Broadcast(o.session.ID, payload)
}
