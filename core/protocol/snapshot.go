package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"winamp7/model"
)

const (
	DefaultPlaceholderCover = "/placeholder.svg?height=200&width=200"
	NoTrackTitle            = "No Track Selected"
)

// Percent is a 0-100 value that may be NaN or infinite. Those encode as JSON
// null, which decodes back to NaN.
type Percent float64

func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = Percent(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("percent: %w", err)
	}
	*p = Percent(f)
	return nil
}

// SnapshotTrack is a playlist entry with its duration pre-formatted.
type SnapshotTrack struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Duration string  `json:"duration"`
	Cover    *string `json:"cover"`
	File     string  `json:"file"`
}

// Snapshot is the self-contained render model a mirror receives.
type Snapshot struct {
	Cover             string          `json:"cover"`
	Title             string          `json:"title"`
	Artist            string          `json:"artist"`
	Album             string          `json:"album"`
	Progress          Percent         `json:"progress"`
	CurrentTime       string          `json:"currentTime"`
	Duration          string          `json:"duration"`
	IsPlaying         bool            `json:"isPlaying"`
	Volume            float64         `json:"volume"`
	IsMuted           bool            `json:"isMuted"`
	Tracks            []SnapshotTrack `json:"tracks"`
	CurrentTrackIndex int             `json:"currentTrackIndex"`
	Background        string          `json:"background"`
}

// SnapshotBuilder projects player state into snapshots.
type SnapshotBuilder struct {
	PlaceholderCover string
}

// NewSnapshotBuilder returns a builder; an empty placeholder selects the default.
func NewSnapshotBuilder(placeholder string) *SnapshotBuilder {
	if placeholder == "" {
		placeholder = DefaultPlaceholderCover
	}
	return &SnapshotBuilder{PlaceholderCover: placeholder}
}

// Build is a pure transform of state and the selected track (nil when none).
// Progress is currentTime/duration*100 without any guard, so a zero duration
// yields NaN or +Inf.
func (b *SnapshotBuilder) Build(state *model.PlayerState, current *model.Track) Snapshot {
	s := Snapshot{
		Cover:             b.PlaceholderCover,
		Title:             NoTrackTitle,
		Artist:            model.UnknownArtist,
		Album:             model.UnknownAlbum,
		Progress:          Percent(state.CurrentTime / state.Duration * 100),
		CurrentTime:       FormatTime(state.CurrentTime),
		Duration:          FormatTime(state.Duration),
		IsPlaying:         state.IsPlaying,
		Volume:            state.Volume * 100,
		IsMuted:           state.IsMuted,
		Tracks:            make([]SnapshotTrack, 0, len(state.Tracks)),
		CurrentTrackIndex: state.CurrentTrackIndex,
		Background:        state.EffectiveBackground(),
	}

	if current != nil {
		if c := current.CoverURL(); c != "" {
			s.Cover = c
		}
		if current.Title != "" {
			s.Title = current.Title
		}
		if current.Artist != "" {
			s.Artist = current.Artist
		}
		if current.Album != "" {
			s.Album = current.Album
		}
	}

	for _, t := range state.Tracks {
		st := SnapshotTrack{
			ID:       t.ID,
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			Duration: FormatTime(t.Duration),
			File:     t.File,
		}
		if t.Cover != nil {
			st.Cover = model.StringPtr(*t.Cover)
		}
		s.Tracks = append(s.Tracks, st)
	}
	return s
}
