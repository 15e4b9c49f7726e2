package player

import (
	"winamp7/logger"
	"winamp7/model"
)

// TogglePlay switches between playing and paused.
func (c *Controller) TogglePlay() error {
	return c.mutate(c.togglePlayLocked)
}

func (c *Controller) togglePlayLocked() error {
	if len(c.state.Tracks) == 0 {
		return ErrEmptyPlaylist
	}
	if c.state.IsPlaying {
		c.media.Pause()
		c.state.IsPlaying = false
		return nil
	}
	if t := c.state.CurrentTrack(); t.ID != c.loadedID {
		c.loadCurrentLocked()
	}
	c.startLocked()
	return nil
}

// PrevTrack moves to the previous track, wrapping from the first to the last.
func (c *Controller) PrevTrack() error {
	return c.mutate(c.prevTrackLocked)
}

func (c *Controller) prevTrackLocked() error {
	n := len(c.state.Tracks)
	if n == 0 {
		return ErrEmptyPlaylist
	}
	return c.selectLocked((c.state.CurrentTrackIndex - 1 + n) % n)
}

// NextTrack moves to the next track, wrapping from the last to the first.
func (c *Controller) NextTrack() error {
	return c.mutate(c.nextTrackLocked)
}

func (c *Controller) nextTrackLocked() error {
	n := len(c.state.Tracks)
	if n == 0 {
		return ErrEmptyPlaylist
	}
	return c.selectLocked((c.state.CurrentTrackIndex + 1) % n)
}

// SelectTrack makes index current and plays it. Selecting the current track
// restarts it.
func (c *Controller) SelectTrack(index int) error {
	return c.mutate(func() error { return c.selectLocked(index) })
}

func (c *Controller) selectLocked(index int) error {
	if index < 0 || index >= len(c.state.Tracks) {
		return ErrIndexOutOfRange
	}
	c.state.CurrentTrackIndex = index
	c.loadCurrentLocked()
	c.state.IsPlaying = true
	c.startLocked()
	return nil
}

// Seek jumps to position (0 = start, 1 = end) of the current duration.
// Callers supply the fraction; it is not clamped.
func (c *Controller) Seek(position float64) {
	_ = c.mutate(func() error {
		c.seekLocked(position)
		return nil
	})
}

func (c *Controller) seekLocked(position float64) {
	t := position * c.state.Duration
	c.media.SetPosition(t)
	c.state.CurrentTime = t
}

// SetVolume sets the volume from a fraction along the volume track, clamped
// to [0,1]. Zero mutes, anything else unmutes.
func (c *Controller) SetVolume(position float64) {
	_ = c.mutate(func() error {
		c.setVolumeLocked(position)
		return nil
	})
}

func (c *Controller) setVolumeLocked(v float64) {
	v = clamp01(v)
	c.state.Volume = v
	c.media.SetVolume(v)
	muted := v == 0
	if muted != c.state.IsMuted {
		c.state.IsMuted = muted
		c.media.SetMuted(muted)
	}
}

// ToggleMute flips the mute flag.
func (c *Controller) ToggleMute() {
	_ = c.mutate(func() error {
		c.toggleMuteLocked()
		return nil
	})
}

func (c *Controller) toggleMuteLocked() {
	c.state.IsMuted = !c.state.IsMuted
	c.media.SetMuted(c.state.IsMuted)
}

// RemoveTrack deletes the track at index and keeps the current index pointing
// at a valid track. Removing the current track that is not last leaves the
// index in place, so the following track becomes current.
func (c *Controller) RemoveTrack(index int) error {
	return c.mutate(func() error { return c.removeLocked(index) })
}

func (c *Controller) removeLocked(index int) error {
	if index < 0 || index >= len(c.state.Tracks) {
		return ErrIndexOutOfRange
	}
	removed := c.state.Tracks[index]
	c.state.Tracks = append(c.state.Tracks[:index:index], c.state.Tracks[index+1:]...)
	n := len(c.state.Tracks)

	switch {
	case n == 0:
		c.state.CurrentTrackIndex = 0
		c.state.IsPlaying = false
		c.loadCurrentLocked()
		logger.Info("playlist emptied, playback stopped")
		return nil
	case index == c.state.CurrentTrackIndex:
		if index >= n {
			c.state.CurrentTrackIndex = n - 1
		}
	case index < c.state.CurrentTrackIndex:
		c.state.CurrentTrackIndex--
	}

	if removed.ID == c.loadedID {
		c.loadCurrentLocked()
		if c.state.IsPlaying {
			c.startLocked()
		}
	}
	return nil
}

// AddTracks appends tracks to the playlist.
func (c *Controller) AddTracks(tracks ...model.Track) {
	if len(tracks) == 0 {
		return
	}
	_ = c.mutate(func() error {
		wasEmpty := len(c.state.Tracks) == 0
		c.state.Tracks = append(c.state.Tracks, tracks...)
		if wasEmpty {
			c.state.CurrentTrackIndex = 0
			c.loadCurrentLocked()
		}
		return nil
	})
}
