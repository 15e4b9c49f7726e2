package model

// PlaybackStatus is derived from the playlist and the playing flag.
type PlaybackStatus string

const (
	StatusStopped PlaybackStatus = "stopped" // Only when the playlist is empty
	StatusPlaying PlaybackStatus = "playing"
	StatusPaused  PlaybackStatus = "paused"
)

// PlayerState is the authoritative state held by the owner.
type PlayerState struct {
	Tracks            []Track `json:"tracks"`
	CurrentTrackIndex int     `json:"currentTrackIndex"`
	IsPlaying         bool    `json:"isPlaying"`
	CurrentTime       float64 `json:"currentTime"`
	Duration          float64 `json:"duration"`
	Volume            float64 `json:"volume"`
	IsMuted           bool    `json:"isMuted"`
	Background        string  `json:"background"`
	CustomBackground  *string `json:"customBackground"`
}

// CurrentTrack returns the addressed track, or nil for an empty playlist.
func (s *PlayerState) CurrentTrack() *Track {
	if s.CurrentTrackIndex < 0 || s.CurrentTrackIndex >= len(s.Tracks) {
		return nil
	}
	return &s.Tracks[s.CurrentTrackIndex]
}

// EffectiveBackground is the custom background when set, otherwise the named one.
func (s *PlayerState) EffectiveBackground() string {
	if s.CustomBackground != nil && *s.CustomBackground != "" {
		return *s.CustomBackground
	}
	return s.Background
}

// Status reports the playback state machine position.
func (s *PlayerState) Status() PlaybackStatus {
	switch {
	case len(s.Tracks) == 0:
		return StatusStopped
	case s.IsPlaying:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

// Clone returns a deep copy safe to hand to readers.
func (s *PlayerState) Clone() PlayerState {
	c := *s
	c.Tracks = make([]Track, len(s.Tracks))
	for i, t := range s.Tracks {
		if t.Cover != nil {
			t.Cover = StringPtr(*t.Cover)
		}
		c.Tracks[i] = t
	}
	if s.CustomBackground != nil {
		c.CustomBackground = StringPtr(*s.CustomBackground)
	}
	return c
}
