// Package dashboard implements the polling-and-render core: the dashboard
// state store, the refresh poller, the input controller, per-panel view
// builders, and display formatting. Rendering targets (terminal, HTTP) live
// outside this package and consume the view models it produces.
package dashboard

import (
	"sync"

	"optiondeck/internal/domain"
)

// EventKind labels a state-change notification.
type EventKind int

const (
	// EventCommit fires when a fetched triple replaces the displayed data.
	EventCommit EventKind = iota
	// EventError fires when a fetch failure updates the error banner.
	EventError
	// EventInput fires on selection, filter, auto-refresh or banner-dismiss
	// changes from the input controller.
	EventInput
)

// Event is emitted to subscribers after a state mutation.
type Event struct {
	Kind       EventKind
	Instrument string // instrument the event concerns, when applicable
}

// View is a consistent copy of everything one render pass needs. Snapshot
// and Signals are shared pointers into the committed triple, safe to read
// because a committed snapshot is never mutated, only replaced.
type View struct {
	Selected       string
	DataInstrument string // instrument the committed triple belongs to
	Snapshot       *domain.Snapshot
	Signals        *domain.SignalSet
	Timestamp      string
	AutoRefresh    bool
	Filter         string
	ErrorBanner    string
}

// State is the single process-wide dashboard state: the selected
// instrument, the last successfully fetched (snapshot, signals, timestamp)
// triple, the auto-refresh flag, the chain filter, and the error banner.
// The triple is only ever replaced atomically, so a render never observes
// a snapshot paired with a stale signal set.
type State struct {
	mu          sync.RWMutex
	selected    string
	autoRefresh bool
	filter      string

	dataInstrument string
	snapshot       *domain.Snapshot
	signals        *domain.SignalSet
	timestamp      string

	errBanner string

	subsMu    sync.Mutex
	nextSubID int
	subs      map[int]chan Event
}

// NewState creates the dashboard state with the given default instrument
// and auto-refresh enabled. No snapshot is present until the first commit.
func NewState(defaultInstrument string) *State {
	return &State{
		selected:    defaultInstrument,
		autoRefresh: true,
		subs:        make(map[int]chan Event),
	}
}

// Commit atomically replaces the displayed triple, but only when the
// instrument the fetch was issued for still equals the current selection.
// A response for an instrument the user has switched away from is
// discarded wholesale and Commit returns false. This check is the only
// ordering rule needed between overlapping fetches: responses for the
// current instrument are idempotent reads, so last-response-wins.
func (s *State) Commit(requested string, snap *domain.Snapshot, sigs *domain.SignalSet, timestamp string) bool {
	s.mu.Lock()
	if requested != s.selected {
		s.mu.Unlock()
		return false
	}
	s.dataInstrument = requested
	s.snapshot = snap
	s.signals = sigs
	s.timestamp = timestamp
	s.errBanner = ""
	s.mu.Unlock()

	s.publish(Event{Kind: EventCommit, Instrument: requested})
	return true
}

// SetError replaces the error banner (never stacks) and leaves the
// last-known-good triple untouched.
func (s *State) SetError(instrument, msg string) {
	s.mu.Lock()
	s.errBanner = msg
	s.mu.Unlock()
	s.publish(Event{Kind: EventError, Instrument: instrument})
}

// DismissError clears the error banner.
func (s *State) DismissError() {
	s.mu.Lock()
	s.errBanner = ""
	s.mu.Unlock()
	s.publish(Event{Kind: EventInput})
}

// SetSelected changes the selected instrument. The previous triple stays
// in place (no flash of empty state); DataInstrument keeps it from being
// mislabeled as the new instrument's data.
func (s *State) SetSelected(instrument string) {
	s.mu.Lock()
	s.selected = instrument
	s.mu.Unlock()
	s.publish(Event{Kind: EventInput, Instrument: instrument})
}

// Selected returns the currently selected instrument.
func (s *State) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetAutoRefresh gates future timer ticks only; it does not cancel an
// in-flight fetch or force a new one.
func (s *State) SetAutoRefresh(enabled bool) {
	s.mu.Lock()
	s.autoRefresh = enabled
	s.mu.Unlock()
	s.publish(Event{Kind: EventInput})
}

// AutoRefresh reports whether scheduled refreshes are enabled.
func (s *State) AutoRefresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoRefresh
}

// SetFilter updates the chain-table filter text. Filtering is applied at
// render time, so no refetch happens and clearing the filter restores all
// rows.
func (s *State) SetFilter(text string) {
	s.mu.Lock()
	s.filter = text
	s.mu.Unlock()
	s.publish(Event{Kind: EventInput})
}

// View returns a consistent copy of the current state for rendering.
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Selected:       s.selected,
		DataInstrument: s.dataInstrument,
		Snapshot:       s.snapshot,
		Signals:        s.signals,
		Timestamp:      s.timestamp,
		AutoRefresh:    s.autoRefresh,
		Filter:         s.filter,
		ErrorBanner:    s.errBanner,
	}
}

// Subscribe creates a subscription channel for state-change events.
func (s *State) Subscribe(bufSize int) (id int, ch <-chan Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id = s.nextSubID
	s.nextSubID++
	c := make(chan Event, bufSize)
	s.subs[id] = c
	return id, c
}

// Unsubscribe removes a subscription and closes its channel.
func (s *State) Unsubscribe(id int) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

// publish notifies subscribers without blocking; a slow subscriber drops
// the event and catches up on the next one.
func (s *State) publish(evt Event) {
	s.subsMu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	s.subsMu.Unlock()
}
