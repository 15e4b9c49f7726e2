package tui

import (
	"errors"
	"math"
	"testing"

	"winamp7/core/protocol"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []protocol.Intent
	err  error
}

func (r *recordingSender) Send(in protocol.Intent) error {
	r.sent = append(r.sent, in)
	return r.err
}

func sampleSnapshot() protocol.Snapshot {
	return protocol.Snapshot{
		Cover:       "/covers/a.jpg",
		Title:       "Reflections",
		Artist:      "MISSIO",
		Album:       "Single",
		Progress:    50,
		CurrentTime: "01:00",
		Duration:    "02:00",
		Volume:      70,
		Tracks: []protocol.SnapshotTrack{
			{Title: "Reflections", Artist: "MISSIO", Duration: "02:00"},
			{Title: "Maid", Artist: "Someone", Duration: "03:10"},
			{Title: "Third", Artist: "Other", Duration: "04:03"},
		},
		CurrentTrackIndex: 1,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func readyModel(t *testing.T, sender Sender) Model {
	t.Helper()
	m := New(sender, make(chan protocol.Snapshot))
	next, cmd := m.Update(snapshotMsg(sampleSnapshot()))
	require.NotNil(t, cmd)
	return next.(Model)
}

// press applies a key and runs the resulting command, if any.
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			next, _ = next.Update(msg)
		}
	}
	return next.(Model)
}

func TestIntentFor(t *testing.T) {
	s := sampleSnapshot()

	tests := []struct {
		key  string
		want protocol.Intent
	}{
		{" ", protocol.TogglePlay{}},
		{"p", protocol.PrevTrack{}},
		{"n", protocol.NextTrack{}},
		{"m", protocol.ToggleMute{}},
		{"enter", protocol.SelectTrack{Index: 2}},
	}
	for _, tt := range tests {
		got, ok := intentFor(tt.key, s, 2)
		require.True(t, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}

	_, ok := intentFor("x", s, 0)
	assert.False(t, ok)
	_, ok = intentFor("enter", s, 9)
	assert.False(t, ok)
}

func TestVolumeAndSeekStepsAreClamped(t *testing.T) {
	s := sampleSnapshot()

	in, _ := intentFor("+", s, 0)
	assert.InDelta(t, 0.8, in.(protocol.SetVolume).Volume, 1e-9)
	in, _ = intentFor("-", s, 0)
	assert.InDelta(t, 0.6, in.(protocol.SetVolume).Volume, 1e-9)

	s.Volume = 100
	in, _ = intentFor("+", s, 0)
	assert.Equal(t, 1.0, in.(protocol.SetVolume).Volume)
	s.Volume = 0
	in, _ = intentFor("-", s, 0)
	assert.Equal(t, 0.0, in.(protocol.SetVolume).Volume)

	in, _ = intentFor("right", s, 0)
	assert.InDelta(t, 0.55, in.(protocol.Seek).Position, 1e-9)
	in, _ = intentFor("left", s, 0)
	assert.InDelta(t, 0.45, in.(protocol.Seek).Position, 1e-9)

	s.Progress = protocol.Percent(math.NaN())
	in, _ = intentFor("left", s, 0)
	assert.Equal(t, 0.0, in.(protocol.Seek).Position)
}

func TestKeysRelayWithoutChangingState(t *testing.T) {
	sender := &recordingSender{}
	m := readyModel(t, sender)

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = press(t, m, runes("n"))
	m = press(t, m, runes("m"))

	require.Len(t, sender.sent, 3)
	assert.Equal(t, protocol.TogglePlay{}, sender.sent[0])
	assert.Equal(t, protocol.NextTrack{}, sender.sent[1])
	assert.Equal(t, protocol.ToggleMute{}, sender.sent[2])

	assert.Equal(t, sampleSnapshot(), m.snap)
}

func TestCursorSelectsTrack(t *testing.T) {
	sender := &recordingSender{}
	m := readyModel(t, sender)
	assert.Equal(t, 1, m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, sender.sent, 1)
	assert.Equal(t, protocol.SelectTrack{Index: 2}, sender.sent[0])

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
}

func TestCursorFollowsShrinkingPlaylist(t *testing.T) {
	m := readyModel(t, &recordingSender{})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})

	s := sampleSnapshot()
	s.Tracks = s.Tracks[:1]
	s.CurrentTrackIndex = 0
	next, _ := m.Update(snapshotMsg(s))
	assert.Equal(t, 0, next.(Model).cursor)
}

func TestKeysIgnoredBeforeFirstSnapshot(t *testing.T) {
	sender := &recordingSender{}
	m := New(sender, make(chan protocol.Snapshot))

	m = press(t, m, runes("n"))
	assert.Empty(t, sender.sent)
	assert.Contains(t, m.View(), "Waiting for the player")
}

func TestSendFailureIsShown(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection lost")}
	m := readyModel(t, sender)

	m = press(t, m, runes("n"))
	assert.Contains(t, m.View(), "connection lost")

	next, _ := m.Update(snapshotMsg(sampleSnapshot()))
	assert.NotContains(t, next.(Model).View(), "connection lost")
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		sender := &recordingSender{}
		m := readyModel(t, sender)
		next, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.True(t, next.(Model).quitting)
		assert.False(t, next.(Model).Lost())
		assert.Empty(t, sender.sent)
	}
}

func TestDisconnectQuits(t *testing.T) {
	updates := make(chan protocol.Snapshot)
	close(updates)
	m := New(&recordingSender{}, updates)

	msg := waitForSnapshot(updates)()
	require.IsType(t, disconnectedMsg{}, msg)

	next, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).Lost())
	assert.Empty(t, next.(Model).View())
}

func TestWaitForSnapshotDeliversUpdates(t *testing.T) {
	updates := make(chan protocol.Snapshot, 1)
	updates <- sampleSnapshot()

	msg := waitForSnapshot(updates)()
	assert.Equal(t, snapshotMsg(sampleSnapshot()), msg)
}

func TestView(t *testing.T) {
	m := readyModel(t, &recordingSender{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	out := next.(Model).View()

	assert.Contains(t, out, "Reflections")
	assert.Contains(t, out, "MISSIO • Single")
	assert.Contains(t, out, "01:00")
	assert.Contains(t, out, "02:00")
	assert.Contains(t, out, "paused")
	assert.Contains(t, out, "70%")
	assert.Contains(t, out, "▶  Maid")
	assert.Contains(t, out, "03 Third")
}

func TestRenderBar(t *testing.T) {
	assert.Empty(t, renderBar(50, 0))
	assert.Equal(t, 10, lipgloss.Width(renderBar(50, 10)))
	assert.Equal(t, 10, lipgloss.Width(renderBar(math.NaN(), 10)))
	assert.Equal(t, 10, lipgloss.Width(renderBar(250, 10)))
}
