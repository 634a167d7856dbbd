// Package live manages interactive search sessions streamed over
// Server-Sent Events. Each session owns one autocomplete field; input
// and selection arrive over REST and the resulting state frames are
// pushed to the session's event stream.
package live

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"gamedrop_backend/internal/autocomplete"
	"gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/logger"
)

// FrameType identifies the kind of state change carried by a frame.
type FrameType string

const (
	FrameSearching FrameType = "searching"
	FrameResults   FrameType = "results"
	FrameLocked    FrameType = "locked"
	FrameUnlocked  FrameType = "unlocked"
)

// Frame is one SSE payload pushed to a session's stream.
type Frame struct {
	Type      FrameType             `json:"type"`
	Query     string                `json:"query,omitempty"`
	Results   []transport.Candidate `json:"results,omitempty"`
	Candidate *transport.Candidate  `json:"candidate,omitempty"`
}

// Session is one live search conversation.
type Session struct {
	ID       uuid.UUID
	field    *autocomplete.Field
	frames   chan Frame
	lastSeen time.Time
}

// Resolver is the search function backing every session's field.
type Resolver = autocomplete.Resolver

// Manager owns the active sessions and reaps the ones that go quiet.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	delay    time.Duration
	resolver Resolver
	idleTTL  time.Duration
	log      *logger.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

const (
	defaultIdleTTL = 5 * time.Minute
	reapInterval   = time.Minute
	frameBuffer    = 32
)

// NewManager creates a session manager and starts its idle reaper.
func NewManager(delay, idleTTL time.Duration, resolver Resolver, log *logger.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		delay:    delay,
		resolver: resolver,
		idleTTL:  idleTTL,
		log:      log,
		stop:     make(chan struct{}),
	}
	go m.reapLoop()
	return m
}

// Create opens a new session and returns its ID.
func (m *Manager) Create() uuid.UUID {
	s := &Session{
		ID:       uuid.New(),
		frames:   make(chan Frame, frameBuffer),
		lastSeen: time.Now(),
	}

	push := func(f Frame) {
		select {
		case s.frames <- f:
		default:
			m.log.Warn("live search frame buffer full, dropping frame", "session_id", s.ID, "type", f.Type)
		}
	}

	s.field = autocomplete.New(m.delay, m.resolver, autocomplete.Events{
		OnSearching: func(query string) {
			push(Frame{Type: FrameSearching, Query: query})
		},
		OnResults: func(results []transport.Candidate) {
			push(Frame{Type: FrameResults, Results: results})
		},
		OnLock: func(c transport.Candidate) {
			push(Frame{Type: FrameLocked, Candidate: &c})
		},
		OnUnlock: func() {
			push(Frame{Type: FrameUnlocked})
		},
	})

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Debug("live search session created", "session_id", s.ID)
	return s.ID
}

// Input feeds a text edit into a session's field.
func (m *Manager) Input(id uuid.UUID, text string) bool {
	s := m.touch(id)
	if s == nil {
		return false
	}
	s.field.Edit(text)
	return true
}

// Select confirms a candidate in a session's field.
func (m *Manager) Select(id uuid.UUID, candidate transport.Candidate) bool {
	s := m.touch(id)
	if s == nil {
		return false
	}
	s.field.Select(candidate)
	return true
}

// Clear resets a session's field after its selection has been consumed.
func (m *Manager) Clear(id uuid.UUID) bool {
	s := m.touch(id)
	if s == nil {
		return false
	}
	s.field.Clear()
	return true
}

// Locked returns the session's confirmed candidate, if any.
func (m *Manager) Locked(id uuid.UUID) (transport.Candidate, bool) {
	m.mu.RLock()
	s := m.sessions[id]
	m.mu.RUnlock()
	if s == nil {
		return transport.Candidate{}, false
	}
	return s.field.Locked()
}

// Frames returns the session's frame channel for streaming, or false
// when the session does not exist.
func (m *Manager) Frames(id uuid.UUID) (<-chan Frame, bool) {
	s := m.touch(id)
	if s == nil {
		return nil, false
	}
	return s.frames, true
}

// Touch marks a session as active without mutating it.
func (m *Manager) Touch(id uuid.UUID) bool {
	return m.touch(id) != nil
}

func (m *Manager) touch(id uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[id]
	if s != nil {
		s.lastSeen = time.Now()
	}
	return s
}

// Close stops the reaper and drops all sessions.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.sessions {
		delete(m.sessions, id)
	}
}

func (m *Manager) reapLoop() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

func (m *Manager) reap() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			m.log.Debug("live search session expired", "session_id", id)
		}
	}
}
