package live

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/logger"
)

func newTestManager(t *testing.T, resolver Resolver) *Manager {
	t.Helper()
	m := NewManager(20*time.Millisecond, time.Minute, resolver, logger.New("test"))
	t.Cleanup(m.Close)
	return m
}

func waitFrame(t *testing.T, frames <-chan Frame, want FrameType) Frame {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case f := <-frames:
			if f.Type == want {
				return f
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s frame", want)
		}
	}
}

func TestSessionSearchFlow(t *testing.T) {
	resolver := func(ctx context.Context, query string) []transport.Candidate {
		return []transport.Candidate{{AppID: 1313860, Name: "EA SPORTS FIFA 21"}}
	}
	m := newTestManager(t, resolver)

	id := m.Create()
	frames, ok := m.Frames(id)
	if !ok {
		t.Fatal("session not found")
	}

	if !m.Input(id, "fifa") {
		t.Fatal("input rejected")
	}

	waitFrame(t, frames, FrameSearching)
	results := waitFrame(t, frames, FrameResults)
	if len(results.Results) != 1 || results.Results[0].AppID != 1313860 {
		t.Fatalf("results frame = %+v", results)
	}

	candidate := results.Results[0]
	if !m.Select(id, candidate) {
		t.Fatal("select rejected")
	}
	lockedFrame := waitFrame(t, frames, FrameLocked)
	if lockedFrame.Candidate == nil || lockedFrame.Candidate.AppID != 1313860 {
		t.Fatalf("locked frame = %+v", lockedFrame)
	}

	locked, held := m.Locked(id)
	if !held || locked.AppID != 1313860 {
		t.Fatalf("locked = %+v (%v)", locked, held)
	}
}

func TestSessionEditAfterLockUnlocks(t *testing.T) {
	m := newTestManager(t, func(ctx context.Context, query string) []transport.Candidate { return nil })

	id := m.Create()
	frames, _ := m.Frames(id)

	m.Select(id, transport.Candidate{AppID: 10, Name: "Counter-Strike"})
	waitFrame(t, frames, FrameLocked)

	m.Input(id, "counter strike 2")
	waitFrame(t, frames, FrameUnlocked)

	if _, held := m.Locked(id); held {
		t.Fatal("selection still held after edit")
	}
}

func TestClearReleasesSessionSelection(t *testing.T) {
	m := newTestManager(t, func(ctx context.Context, query string) []transport.Candidate { return nil })

	id := m.Create()
	frames, _ := m.Frames(id)

	m.Select(id, transport.Candidate{AppID: 1313860, Name: "EA SPORTS FIFA 21"})
	waitFrame(t, frames, FrameLocked)

	if !m.Clear(id) {
		t.Fatal("clear rejected")
	}
	waitFrame(t, frames, FrameUnlocked)

	if _, held := m.Locked(id); held {
		t.Fatal("selection still held after clear")
	}
	if m.Clear(uuid.New()) {
		t.Fatal("clear accepted for unknown session")
	}
}

func TestUnknownSessionRejected(t *testing.T) {
	m := newTestManager(t, func(ctx context.Context, query string) []transport.Candidate { return nil })

	id := uuid.New()
	if m.Input(id, "fifa") {
		t.Fatal("input accepted for unknown session")
	}
	if m.Select(id, transport.Candidate{AppID: 1}) {
		t.Fatal("select accepted for unknown session")
	}
	if _, ok := m.Frames(id); ok {
		t.Fatal("frames returned for unknown session")
	}
}

func TestReapDropsIdleSessions(t *testing.T) {
	m := NewManager(20*time.Millisecond, 10*time.Millisecond, func(ctx context.Context, query string) []transport.Candidate { return nil }, logger.New("test"))
	defer m.Close()

	id := m.Create()
	time.Sleep(30 * time.Millisecond)
	m.reap()

	if m.Touch(id) {
		t.Fatal("idle session survived the reaper")
	}
}
