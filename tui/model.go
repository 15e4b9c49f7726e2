// Package tui is a terminal pop-out mirror. It renders the snapshots the owner
// pushes and relays key presses back as intents; it never changes player state
// on its own.
package tui

import (
	"winamp7/core/protocol"
	"winamp7/logger"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender relays intents to the owner.
type Sender interface {
	Send(in protocol.Intent) error
}

type snapshotMsg protocol.Snapshot

type disconnectedMsg struct{}

type sendFailedMsg struct{ err error }

// Model is the bubbletea model of the mirror.
type Model struct {
	sender  Sender
	updates <-chan protocol.Snapshot

	snap     protocol.Snapshot
	ready    bool
	cursor   int
	width    int
	lastErr  error
	quitting bool
	lost     bool
}

// New returns a model fed by updates that relays through sender.
func New(sender Sender, updates <-chan protocol.Snapshot) Model {
	return Model{sender: sender, updates: updates, width: 60}
}

// Lost reports whether the model quit because the owner went away.
func (m Model) Lost() bool { return m.lost }

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.updates), tea.SetWindowTitle("Windows Media Player"))
}

func waitForSnapshot(ch <-chan protocol.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return disconnectedMsg{}
		}
		return snapshotMsg(s)
	}
}

func (m Model) send(in protocol.Intent) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		if err := sender.Send(in); err != nil {
			return sendFailedMsg{err: err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		first := !m.ready
		m.snap = protocol.Snapshot(msg)
		m.ready = true
		m.lastErr = nil
		if first {
			m.cursor = m.snap.CurrentTrackIndex
		}
		m.clampCursor()
		return m, waitForSnapshot(m.updates)

	case disconnectedMsg:
		m.lost = true
		m.quitting = true
		return m, tea.Quit

	case sendFailedMsg:
		logger.Warn("tui: intent not delivered", logger.ErrorField(msg.err))
		m.lastErr = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.ready {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			m.cursor--
			m.clampCursor()
			return m, nil
		case "down", "j":
			m.cursor++
			m.clampCursor()
			return m, nil
		}
		if in, ok := intentFor(msg.String(), m.snap, m.cursor); ok {
			return m, m.send(in)
		}
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if n := len(m.snap.Tracks); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
