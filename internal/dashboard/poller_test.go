package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"optiondeck/internal/domain"
)

// fakeClock drives the poller with a hand-fed tick channel.
type fakeClock struct {
	ticks chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ticks: make(chan time.Time)}
}

func (f *fakeClock) Now() time.Time { return time.Unix(0, 0) }

func (f *fakeClock) NewTicker(time.Duration) Ticker { return fakeTicker{f.ticks} }

func (f *fakeClock) tick() { f.ticks <- time.Time{} }

type fakeTicker struct{ ch chan time.Time }

func (t fakeTicker) C() <-chan time.Time { return t.ch }
func (t fakeTicker) Stop()               {}

// scriptedSource returns a snapshot tagged per instrument and can hold a
// named instrument's response until released, to simulate a slow fetch.
type scriptedSource struct {
	mu      sync.Mutex
	calls   []string
	holds   map[string]chan struct{}
	failing bool
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{holds: make(map[string]chan struct{})}
}

func (s *scriptedSource) Name() string { return "scripted" }

// hold delays all fetches for the instrument until the returned function
// is called.
func (s *scriptedSource) hold(instrument string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[instrument] = ch
	s.mu.Unlock()
	return func() { close(ch) }
}

func (s *scriptedSource) fail(on bool) {
	s.mu.Lock()
	s.failing = on
	s.mu.Unlock()
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedSource) Fetch(ctx context.Context, instrument string) (*domain.Snapshot, *domain.SignalSet, string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, instrument)
	hold := s.holds[instrument]
	failing := s.failing
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, nil, "", ctx.Err()
		}
	}
	if failing {
		return nil, nil, "", errors.New("scripted failure")
	}
	return &domain.Snapshot{SpotPrice: 1}, nil, instrument + "-ts", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForCommit(t *testing.T, ch <-chan Event, instrument string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == EventCommit && evt.Instrument == instrument {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for commit of %s", instrument)
		}
	}
}

func waitForError(t *testing.T, ch <-chan Event) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == EventError {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for error event")
		}
	}
}

func startPoller(t *testing.T, state *State, source *scriptedSource) (*Poller, *fakeClock, context.CancelFunc) {
	t.Helper()
	clock := newFakeClock()
	p := NewPoller(state, source, clock, 30*time.Second, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)
	return p, clock, cancel
}

func TestPollerCommitsOnStartAndTick(t *testing.T) {
	state := NewState("NIFTY")
	source := newScriptedSource()
	id, events := state.Subscribe(16)
	defer state.Unsubscribe(id)

	_, clock, cancel := startPoller(t, state, source)
	defer cancel()

	// Immediate cycle at startup.
	waitForCommit(t, events, "NIFTY")

	clock.tick()
	waitForCommit(t, events, "NIFTY")

	if got := state.View().Timestamp; got != "NIFTY-ts" {
		t.Errorf("Timestamp = %q, want NIFTY-ts", got)
	}
}

func TestPollerSkipsTickWhenAutoRefreshOff(t *testing.T) {
	state := NewState("NIFTY")
	source := newScriptedSource()
	id, events := state.Subscribe(16)
	defer state.Unsubscribe(id)

	_, clock, cancel := startPoller(t, state, source)
	defer cancel()
	waitForCommit(t, events, "NIFTY")

	state.SetAutoRefresh(false)
	before := source.callCount()
	clock.tick()
	clock.tick()
	time.Sleep(50 * time.Millisecond)
	if got := source.callCount(); got != before {
		t.Errorf("fetches after disabling auto-refresh = %d, want %d", got, before)
	}

	// Re-enabling gates future ticks back on without forcing a fetch.
	state.SetAutoRefresh(true)
	clock.tick()
	waitForCommit(t, events, "NIFTY")
}

func TestPollerRefreshNowBypassesTimerAndFlag(t *testing.T) {
	state := NewState("NIFTY")
	source := newScriptedSource()
	id, events := state.Subscribe(16)
	defer state.Unsubscribe(id)

	p, _, cancel := startPoller(t, state, source)
	defer cancel()
	waitForCommit(t, events, "NIFTY")

	state.SetAutoRefresh(false)
	state.SetSelected("TCS")
	p.RefreshNow("TCS")
	waitForCommit(t, events, "TCS")

	if got := state.View().DataInstrument; got != "TCS" {
		t.Errorf("DataInstrument = %q, want TCS", got)
	}
}

func TestPollerDiscardsLateResponseAfterSwitch(t *testing.T) {
	// Switch from A to B while A's fetch is in flight; A's response
	// arrives after B's and must not overwrite B's data.
	state := NewState("NIFTY")
	source := newScriptedSource()
	release := source.hold("NIFTY")
	id, events := state.Subscribe(16)
	defer state.Unsubscribe(id)

	p, _, cancel := startPoller(t, state, source)
	defer cancel()

	// Startup cycle for NIFTY is now blocked inside the source. Switch to
	// BANKNIFTY and let its fetch complete.
	state.SetSelected("BANKNIFTY")
	p.RefreshNow("BANKNIFTY")
	waitForCommit(t, events, "BANKNIFTY")

	// Release the stale NIFTY response and wait for its cycle to finish;
	// the commit guard must discard it.
	release()
	p.Wait()

	v := state.View()
	if v.DataInstrument != "BANKNIFTY" || v.Timestamp != "BANKNIFTY-ts" {
		t.Errorf("final data = %s@%s, want BANKNIFTY-ts (late NIFTY response must be discarded)",
			v.DataInstrument, v.Timestamp)
	}
}

func TestPollerFetchFailureKeepsLastGoodData(t *testing.T) {
	state := NewState("NIFTY")
	source := newScriptedSource()
	id, events := state.Subscribe(16)
	defer state.Unsubscribe(id)

	_, clock, cancel := startPoller(t, state, source)
	defer cancel()
	waitForCommit(t, events, "NIFTY")
	good := state.View().Snapshot

	source.fail(true)
	clock.tick()
	waitForError(t, events)

	v := state.View()
	if v.Snapshot != good {
		t.Error("failed fetch replaced the last-known-good snapshot")
	}
	if v.ErrorBanner == "" {
		t.Error("ErrorBanner empty after fetch failure")
	}

	// Recovery on the next tick clears the banner.
	source.fail(false)
	clock.tick()
	waitForCommit(t, events, "NIFTY")
	if v := state.View(); v.ErrorBanner != "" {
		t.Errorf("ErrorBanner = %q after recovery, want empty", v.ErrorBanner)
	}
}

func TestControllerSwitchTriggersOutOfBandFetch(t *testing.T) {
	state := NewState("NIFTY")
	source := newScriptedSource()
	id, events := state.Subscribe(16)
	defer state.Unsubscribe(id)

	p, _, cancel := startPoller(t, state, source)
	defer cancel()
	waitForCommit(t, events, "NIFTY")

	ctrl := NewController(state, p)
	ctrl.SwitchInstrument("RELIANCE")
	waitForCommit(t, events, "RELIANCE")

	if got := state.Selected(); got != "RELIANCE" {
		t.Errorf("Selected = %q, want RELIANCE", got)
	}

	// Switching to the already-selected instrument is a no-op.
	before := source.callCount()
	ctrl.SwitchInstrument("RELIANCE")
	time.Sleep(50 * time.Millisecond)
	if got := source.callCount(); got != before {
		t.Errorf("fetches after redundant switch = %d, want %d", got, before)
	}
}
