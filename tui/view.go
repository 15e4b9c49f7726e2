package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var (
	titleBarStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#2B5797")).Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	artistStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#AAAAAA"})
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#0078D7"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0078D7")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#D70000"))
	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4580C4")).Padding(0, 1)
)

const helpText = "space play/pause • p/n prev/next • ←/→ seek • +/- volume • m mute • ↑/↓ enter select • q close"

// renderBar draws a fixed-width bar filled to percent (0-100).
func renderBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	return barStyle.Render(strings.Repeat("━", filled)) + dimStyle.Render(strings.Repeat("─", width-filled))
}

func (m Model) innerWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w := m.innerWidth()

	var sb strings.Builder
	sb.WriteString(titleBarStyle.Width(w).Render("Windows Media Player"))
	sb.WriteByte('\n')

	if !m.ready {
		sb.WriteString(dimStyle.Render("Waiting for the player..."))
		return frameStyle.Render(sb.String())
	}
	s := m.snap

	sb.WriteString(dimStyle.Render(truncate.StringWithTail("cover "+s.Cover, uint(w), "…")))
	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render(truncate.StringWithTail(s.Title, uint(w), "…")))
	sb.WriteByte('\n')
	sb.WriteString(artistStyle.Render(truncate.StringWithTail(s.Artist+" • "+s.Album, uint(w), "…")))
	sb.WriteString("\n\n")

	barWidth := w - lipgloss.Width(s.CurrentTime) - lipgloss.Width(s.Duration) - 2
	sb.WriteString(fmt.Sprintf("%s %s %s", s.CurrentTime, renderBar(float64(s.Progress), barWidth), s.Duration))
	sb.WriteString("\n\n")

	status := "▶  paused"
	if s.IsPlaying {
		status = "❚❚ playing"
	}
	speaker := "🔊"
	if s.IsMuted {
		speaker = "🔇"
	}
	volume := fmt.Sprintf("%s %s %3.0f%%", speaker, renderBar(s.Volume, 10), s.Volume)
	gap := w - lipgloss.Width(status) - lipgloss.Width(volume)
	if gap < 2 {
		gap = 2
	}
	sb.WriteString(status + strings.Repeat(" ", gap) + volume)
	sb.WriteString("\n\n")

	for i, t := range s.Tracks {
		marker := fmt.Sprintf("%02d", i+1)
		if i == s.CurrentTrackIndex {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s %s - %s", marker, t.Title, t.Artist)
		line = truncate.StringWithTail(line, uint(w-lipgloss.Width(t.Duration)-1), "…")
		line += strings.Repeat(" ", max(1, w-lipgloss.Width(line)-lipgloss.Width(t.Duration))) + t.Duration

		switch {
		case i == m.cursor:
			line = cursorStyle.Render(line)
		case i == s.CurrentTrackIndex:
			line = activeStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if len(s.Tracks) == 0 {
		sb.WriteString(dimStyle.Render("Playlist is empty"))
		sb.WriteByte('\n')
	}

	if m.lastErr != nil {
		sb.WriteByte('\n')
		sb.WriteString(errStyle.Render(m.lastErr.Error()))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(dimStyle.Render(truncate.StringWithTail(helpText, uint(w), "…")))

	return frameStyle.Render(sb.String())
}
