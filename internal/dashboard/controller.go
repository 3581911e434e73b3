package dashboard

// Controller translates user interaction into state and poller changes.
// Presentation layers (the TUI's key handler) call these methods and never
// mutate State directly, so the interaction rules stay testable without a
// terminal.
type Controller struct {
	state  *State
	poller *Poller
}

// NewController wires a Controller to the state store and poller.
func NewController(state *State, poller *Poller) *Controller {
	return &Controller{state: state, poller: poller}
}

// SwitchInstrument selects a new instrument and issues an immediate
// out-of-band fetch for it. Data from the previous instrument remains
// displayed (and labeled as its own) until the new fetch commits.
func (c *Controller) SwitchInstrument(instrument string) {
	if instrument == c.state.Selected() {
		return
	}
	c.state.SetSelected(instrument)
	c.poller.RefreshNow(instrument)
}

// SetFilter updates the chain-table filter. No refetch: filtering is a
// render-pass concern over the already-committed snapshot.
func (c *Controller) SetFilter(text string) {
	c.state.SetFilter(text)
}

// SetAutoRefresh toggles scheduled refreshes. It neither forces a fetch
// nor cancels one already in flight.
func (c *Controller) SetAutoRefresh(enabled bool) {
	c.state.SetAutoRefresh(enabled)
}

// DismissError clears the error banner until the next fetch failure.
func (c *Controller) DismissError() {
	c.state.DismissError()
}
