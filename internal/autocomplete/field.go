// Package autocomplete implements the per-field interaction state
// machine that drives debounced search: edits are coalesced behind a
// cancelable timer, resolver completions are applied only when their
// generation is still current, and an explicit selection locks the
// field until the next edit.
package autocomplete

import (
	"context"
	"strings"
	"sync"
	"time"

	"gamedrop_backend/internal/steam/transport"
)

// State is the interaction state of a field.
type State int

const (
	// StateIdle holds the last applied result list, possibly empty.
	StateIdle State = iota
	// StatePending has an edit waiting behind the debounce timer.
	StatePending
	// StateSearching has a resolver call in flight.
	StateSearching
	// StateLocked holds a confirmed selection; searching is suppressed
	// until the next edit.
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSearching:
		return "searching"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// minSearchLen is the fixed lower bound for triggering a search when the
// debounce timer fires. Shorter queries clear the result list instead.
const minSearchLen = 3

// Resolver produces candidates for a query. It must be total; the field
// treats whatever it returns as the result.
type Resolver func(ctx context.Context, query string) []transport.Candidate

// Events receives state changes. All callbacks are optional and are
// invoked with the field's mutex held; they must not call back into the
// field.
type Events struct {
	// OnResults fires whenever the displayed result list changes while
	// unlocked (including clearing to empty).
	OnResults func(results []transport.Candidate)
	// OnSearching fires when a resolver call is issued.
	OnSearching func(query string)
	// OnLock fires when a candidate is selected.
	OnLock func(candidate transport.Candidate)
	// OnUnlock fires when an edit clears a locked candidate.
	OnUnlock func()
}

// Field is one autocomplete input instance. All transitions are
// serialized behind its mutex; asynchronous resolver completions
// re-enter under the mutex and are discarded when their generation is
// no longer current. A Field is reusable for the lifetime of the input.
type Field struct {
	mu sync.Mutex

	delay    time.Duration
	resolver Resolver
	events   Events

	state   State
	gen     uint64
	text    string
	query   string
	results []transport.Candidate
	locked  *transport.Candidate
	timer   *time.Timer
}

// New creates a field with the given debounce delay. The contract delay
// window is 400-500ms; the delay is fixed for the field's lifetime.
func New(delay time.Duration, resolver Resolver, events Events) *Field {
	return &Field{
		delay:    delay,
		resolver: resolver,
		events:   events,
		state:    StateIdle,
	}
}

// Edit handles a text change. Any pending timer is replaced, a locked
// candidate is cleared (unlock-on-edit) and a new debounce window opens
// under a fresh generation.
func (f *Field) Edit(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateLocked {
		f.locked = nil
		if f.events.OnUnlock != nil {
			f.events.OnUnlock()
		}
	}

	f.gen++
	f.stopTimer()

	f.text = text
	f.query = strings.TrimSpace(text)
	f.state = StatePending

	gen := f.gen
	f.timer = time.AfterFunc(f.delay, func() {
		f.fire(gen)
	})
}

// Select confirms a candidate. The pending timer is canceled, any
// in-flight resolver result is invalidated and the field locks until
// the next edit. Selecting while already locked is a no-op.
func (f *Field) Select(candidate transport.Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateLocked {
		return
	}

	f.gen++
	f.stopTimer()

	f.text = candidate.Name
	f.query = candidate.Name
	f.results = nil
	f.locked = &candidate
	f.state = StateLocked

	if f.events.OnLock != nil {
		f.events.OnLock(candidate)
	}
}

// Clear resets the field to an empty idle state: the text, results and
// any locked candidate are dropped and in-flight resolver results are
// invalidated. Used after the selection has been consumed, so the next
// interaction starts from a blank input.
func (f *Field) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	wasLocked := f.state == StateLocked

	f.gen++
	f.stopTimer()

	f.text = ""
	f.query = ""
	f.results = nil
	f.locked = nil
	f.state = StateIdle

	if wasLocked && f.events.OnUnlock != nil {
		f.events.OnUnlock()
	}
}

// fire runs when the debounce timer expires.
func (f *Field) fire(gen uint64) {
	f.mu.Lock()

	if f.state != StatePending || f.gen != gen {
		f.mu.Unlock()
		return
	}

	if len([]rune(f.query)) < minSearchLen {
		f.state = StateIdle
		f.results = nil
		if f.events.OnResults != nil {
			f.events.OnResults(nil)
		}
		f.mu.Unlock()
		return
	}

	f.state = StateSearching
	query := f.query
	if f.events.OnSearching != nil {
		f.events.OnSearching(query)
	}
	f.mu.Unlock()

	// The resolver runs outside the mutex; its completion re-enters
	// and is generation-checked. In-flight calls are never aborted,
	// only ignored on arrival.
	go func() {
		results := f.resolver(context.Background(), query)
		f.complete(gen, results)
	}()
}

// complete applies a resolver result, or silently discards it when a
// newer edit or a lock superseded its generation.
func (f *Field) complete(gen uint64, results []transport.Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gen != gen || f.state != StateSearching {
		return
	}

	f.state = StateIdle
	f.results = results
	if f.events.OnResults != nil {
		f.events.OnResults(results)
	}
}

// stopTimer cancels the pending debounce timer, if any. Caller holds the
// mutex.
func (f *Field) stopTimer() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// State returns the current interaction state.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Text returns the current input text.
func (f *Field) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// Results returns the currently displayed candidate list.
func (f *Field) Results() []transport.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transport.Candidate(nil), f.results...)
}

// Locked returns the confirmed selection, if any.
func (f *Field) Locked() (transport.Candidate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locked == nil {
		return transport.Candidate{}, false
	}
	return *f.locked, true
}

// Generation returns the current generation counter. Exposed for tests.
func (f *Field) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}
