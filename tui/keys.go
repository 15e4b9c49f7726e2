package tui

import (
	"math"

	"winamp7/core/protocol"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	volumeStep = 0.1
	seekStep   = 0.05
)

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// position is the fractional progress shown by the last snapshot. An unknown
// progress counts as the start of the track.
func position(s protocol.Snapshot) float64 {
	p := float64(s.Progress)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return clamp01(p / 100)
}

// intentFor maps a key press to the intent it relays. Keys that only move the
// local cursor or quit return false.
func intentFor(key string, s protocol.Snapshot, cursor int) (protocol.Intent, bool) {
	switch key {
	case " ":
		return protocol.TogglePlay{}, true
	case "p":
		return protocol.PrevTrack{}, true
	case "n":
		return protocol.NextTrack{}, true
	case "m":
		return protocol.ToggleMute{}, true
	case "+", "=":
		return protocol.SetVolume{Volume: clamp01(s.Volume/100 + volumeStep)}, true
	case "-":
		return protocol.SetVolume{Volume: clamp01(s.Volume/100 - volumeStep)}, true
	case "left", "h":
		return protocol.Seek{Position: clamp01(position(s) - seekStep)}, true
	case "right", "l":
		return protocol.Seek{Position: clamp01(position(s) + seekStep)}, true
	case "enter":
		if cursor < 0 || cursor >= len(s.Tracks) {
			return nil, false
		}
		return protocol.SelectTrack{Index: cursor}, true
	}
	return nil, false
}

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return true
	}
	return false
}
