package dashboard

import (
	"testing"

	"optiondeck/internal/domain"
)

func TestCommitReplacesTripleAtomically(t *testing.T) {
	s := NewState("NIFTY")

	if v := s.View(); v.Snapshot != nil || v.Signals != nil || v.Timestamp != "" {
		t.Fatalf("initial view = %+v, want empty triple", v)
	}

	snap := &domain.Snapshot{SpotPrice: 19500}
	sigs := &domain.SignalSet{Bias: domain.BiasNeutral}
	if !s.Commit("NIFTY", snap, sigs, "t1") {
		t.Fatal("Commit for selected instrument returned false")
	}

	v := s.View()
	if v.Snapshot != snap || v.Signals != sigs || v.Timestamp != "t1" {
		t.Errorf("view triple = (%p, %p, %q), want committed triple", v.Snapshot, v.Signals, v.Timestamp)
	}
	if v.DataInstrument != "NIFTY" {
		t.Errorf("DataInstrument = %q, want NIFTY", v.DataInstrument)
	}
}

func TestCommitStaleInstrumentIsNoOp(t *testing.T) {
	s := NewState("NIFTY")
	first := &domain.Snapshot{SpotPrice: 19500}
	s.Commit("NIFTY", first, nil, "t1")

	// User switched away; the old instrument's late response must change
	// nothing.
	s.SetSelected("BANKNIFTY")
	if s.Commit("NIFTY", &domain.Snapshot{SpotPrice: 1}, nil, "t2") {
		t.Error("Commit for stale instrument returned true, want discard")
	}

	v := s.View()
	if v.Snapshot != first || v.Timestamp != "t1" {
		t.Errorf("triple changed after stale commit: ts = %q, want t1", v.Timestamp)
	}
	if v.DataInstrument != "NIFTY" {
		t.Errorf("DataInstrument = %q, want still NIFTY (data not relabeled)", v.DataInstrument)
	}
	if v.Selected != "BANKNIFTY" {
		t.Errorf("Selected = %q, want BANKNIFTY", v.Selected)
	}
}

func TestSwitchKeepsPreviousDataVisible(t *testing.T) {
	s := NewState("NIFTY")
	snap := &domain.Snapshot{SpotPrice: 19500}
	s.Commit("NIFTY", snap, nil, "t1")

	s.SetSelected("TCS")
	v := s.View()
	if v.Snapshot != snap {
		t.Error("previous snapshot cleared on switch, want it kept until new fetch commits")
	}
	if v.DataInstrument == v.Selected {
		t.Error("stale data labeled as new instrument's")
	}
}

func TestErrorBannerReplacesAndSurvivesUntilDismissOrCommit(t *testing.T) {
	s := NewState("NIFTY")
	snap := &domain.Snapshot{SpotPrice: 19500}
	s.Commit("NIFTY", snap, nil, "t1")

	s.SetError("NIFTY", "network down")
	s.SetError("NIFTY", "still down")

	v := s.View()
	if v.ErrorBanner != "still down" {
		t.Errorf("ErrorBanner = %q, want latest message only", v.ErrorBanner)
	}
	if v.Snapshot != snap {
		t.Error("fetch failure corrupted the last-known-good snapshot")
	}

	s.DismissError()
	if v := s.View(); v.ErrorBanner != "" {
		t.Errorf("ErrorBanner after dismiss = %q, want empty", v.ErrorBanner)
	}

	s.SetError("NIFTY", "down again")
	s.Commit("NIFTY", snap, nil, "t2")
	if v := s.View(); v.ErrorBanner != "" {
		t.Errorf("ErrorBanner after successful commit = %q, want cleared", v.ErrorBanner)
	}
}

func TestFilterIsNonDestructive(t *testing.T) {
	s := NewState("NIFTY")
	snap := testSnapshot()
	s.Commit("NIFTY", snap, nil, "t1")

	s.SetFilter("196")
	visible := 0
	for _, r := range BuildChainRows(s.View().Snapshot, s.View().Filter) {
		if !r.Hidden {
			visible++
		}
	}
	if visible != 1 {
		t.Errorf("visible rows under filter = %d, want 1", visible)
	}

	// Clearing restores all rows from the same committed snapshot; no
	// refetch happened (the snapshot pointer is unchanged).
	s.SetFilter("")
	v := s.View()
	if v.Snapshot != snap {
		t.Fatal("snapshot replaced by filter change")
	}
	for _, r := range BuildChainRows(v.Snapshot, v.Filter) {
		if r.Hidden {
			t.Errorf("row %q hidden after filter cleared", r.StrikeLabel)
		}
	}
}

func TestSubscribeReceivesCommitEvents(t *testing.T) {
	s := NewState("NIFTY")
	id, ch := s.Subscribe(4)
	defer s.Unsubscribe(id)

	s.Commit("NIFTY", &domain.Snapshot{}, nil, "t1")

	select {
	case evt := <-ch:
		if evt.Kind != EventCommit || evt.Instrument != "NIFTY" {
			t.Errorf("event = %+v, want commit for NIFTY", evt)
		}
	default:
		t.Fatal("no event delivered after commit")
	}
}

func TestAutoRefreshToggle(t *testing.T) {
	s := NewState("NIFTY")
	if !s.AutoRefresh() {
		t.Error("AutoRefresh() = false at startup, want enabled by default")
	}
	s.SetAutoRefresh(false)
	if s.AutoRefresh() {
		t.Error("AutoRefresh() = true after disable")
	}
}
