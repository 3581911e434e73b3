package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"optiondeck/internal/feed"
)

// Poller owns the refresh timer. On each tick it starts a fetch cycle for
// the selected instrument when auto-refresh is enabled; switching
// instruments requests an out-of-band cycle that does not reset the timer
// phase. Each cycle records the instrument it was issued for and the
// State's commit-time staleness check decides whether its response is
// still wanted, so an in-flight fetch is never cancelled at the transport
// level when the user switches away — it is discarded logically instead.
type Poller struct {
	state  *State
	source feed.Source
	clock  Clock
	period time.Duration
	log    *slog.Logger

	kick chan string // out-of-band fetch requests (instrument)

	wg sync.WaitGroup
}

// NewPoller creates a Poller refreshing at the given period.
func NewPoller(state *State, source feed.Source, clock Clock, period time.Duration, log *slog.Logger) *Poller {
	return &Poller{
		state:  state,
		source: source,
		clock:  clock,
		period: period,
		log:    log,
		kick:   make(chan string, 8),
	}
}

// Run drives the refresh loop until ctx is cancelled. It issues one
// immediate cycle for the starting selection, then one per tick while
// auto-refresh is enabled, plus any out-of-band cycles requested through
// RefreshNow. A failed cycle retries on the next tick at the fixed period;
// there is no backoff.
func (p *Poller) Run(ctx context.Context) error {
	ticker := p.clock.NewTicker(p.period)
	defer ticker.Stop()

	p.startCycle(ctx, p.state.Selected())

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			return ctx.Err()
		case <-ticker.C():
			if p.state.AutoRefresh() {
				p.startCycle(ctx, p.state.Selected())
			}
		case instrument := <-p.kick:
			p.startCycle(ctx, instrument)
		}
	}
}

// RefreshNow requests an out-of-band fetch cycle for the instrument,
// regardless of the timer phase and the auto-refresh flag. It never
// blocks; if the request queue is full the next tick covers it.
func (p *Poller) RefreshNow(instrument string) {
	select {
	case p.kick <- instrument:
	default:
	}
}

// startCycle runs one fetch cycle in its own goroutine so a slow response
// never delays ticks, input handling, or rendering. Overlapping cycles are
// allowed; commit order is arrival order and the staleness check drops
// responses for instruments no longer selected.
func (p *Poller) startCycle(ctx context.Context, requested string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		start := p.clock.Now()
		snap, sigs, ts, err := p.source.Fetch(ctx, requested)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Warn("fetch failed", "instrument", requested, "error", err)
			p.state.SetError(requested, err.Error())
			return
		}

		if !p.state.Commit(requested, snap, sigs, ts) {
			p.log.Debug("discarding stale response",
				"instrument", requested, "selected", p.state.Selected())
			return
		}
		p.log.Debug("snapshot committed",
			"instrument", requested,
			"strikes", len(snap.StrikeData),
			"elapsed", p.clock.Now().Sub(start))
	}()
}

// Wait blocks until all in-flight fetch cycles have finished. Intended for
// tests and orderly shutdown after Run returns.
func (p *Poller) Wait() { p.wg.Wait() }
