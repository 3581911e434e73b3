package main

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"optiondeck/internal/dashboard"
)

// stateEventMsg forwards a dashboard state change into the bubbletea loop.
type stateEventMsg dashboard.Event

// Model.
type model struct {
	ctrl        *dashboard.Controller
	state       *dashboard.State
	instruments []string

	events <-chan dashboard.Event
	subID  int

	viewport      viewport.Model
	filterInput   textinput.Model
	filtering     bool
	ready         bool
	width, height int

	quitCancel context.CancelFunc
	logger     *slog.Logger
}

func initialModel(ctrl *dashboard.Controller, state *dashboard.State, instruments []string, cancel context.CancelFunc, logger *slog.Logger) model {
	subID, events := state.Subscribe(16)

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "strike filter"
	ti.CharLimit = 12

	return model{
		ctrl:        ctrl,
		state:       state,
		instruments: instruments,
		events:      events,
		subID:       subID,
		filterInput: ti,
		quitCancel:  cancel,
		logger:      logger,
	}
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// waitForEvent blocks on the state subscription and delivers the next
// change as a message. Re-issued after every delivery.
func waitForEvent(ch <-chan dashboard.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return stateEventMsg(evt)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilterInput(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.state.Unsubscribe(m.subID)
			m.quitCancel()
			return m, tea.Quit
		case "/":
			m.filtering = true
			m.filterInput.SetValue(m.state.View().Filter)
			m.filterInput.Focus()
			m.refresh()
			return m, textinput.Blink
		case "esc":
			if m.state.View().Filter != "" {
				m.filterInput.SetValue("")
				m.ctrl.SetFilter("")
			}
			return m, nil
		case "a":
			m.ctrl.SetAutoRefresh(!m.state.AutoRefresh())
			return m, nil
		case "d":
			m.ctrl.DismissError()
			return m, nil
		case "tab":
			return m.cycleInstrument(1), nil
		case "shift+tab":
			return m.cycleInstrument(-1), nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(msg.String()[0] - '1')
			if idx < len(m.instruments) {
				m.ctrl.SwitchInstrument(m.instruments[idx])
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerH := 1
		footerH := 1
		vpHeight := m.height - headerH - footerH
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case stateEventMsg:
		m.refresh()
		return m, waitForEvent(m.events)
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// updateFilterInput routes keys to the filter box while it has focus. The
// filter applies live on every keystroke; enter keeps it, esc clears it.
func (m model) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		m.refresh()
		return m, nil
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.ctrl.SetFilter("")
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.ctrl.SetFilter(m.filterInput.Value())
	return m, cmd
}

func (m model) cycleInstrument(delta int) model {
	if len(m.instruments) == 0 {
		return m
	}
	cur := 0
	selected := m.state.Selected()
	for i, sym := range m.instruments {
		if sym == selected {
			cur = i
			break
		}
	}
	next := (cur + delta + len(m.instruments)) % len(m.instruments)
	m.ctrl.SwitchInstrument(m.instruments[next])
	return m
}

// refresh re-renders the viewport content from the current state.
func (m *model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderContent(m.state.View()))
}
