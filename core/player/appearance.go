package player

import "winamp7/model"

// SetBackground selects a named background and clears any custom one.
func (c *Controller) SetBackground(name string) {
	_ = c.mutate(func() error {
		c.state.Background = name
		c.state.CustomBackground = nil
		return nil
	})
}

// SetCustomBackground overrides the named background until a named one is
// chosen again.
func (c *Controller) SetCustomBackground(url string) {
	_ = c.mutate(func() error {
		c.state.CustomBackground = model.StringPtr(url)
		return nil
	})
}

// ApplyRecentBackground re-applies a previously uploaded background. The named
// background is cleared.
func (c *Controller) ApplyRecentBackground(url string) {
	_ = c.mutate(func() error {
		c.state.CustomBackground = model.StringPtr(url)
		c.state.Background = ""
		return nil
	})
}

// SetCover replaces the album art of the track at index.
func (c *Controller) SetCover(index int, cover string) error {
	return c.mutate(func() error {
		if index < 0 || index >= len(c.state.Tracks) {
			return ErrIndexOutOfRange
		}
		c.state.Tracks[index].Cover = model.StringPtr(cover)
		return nil
	})
}

// ApplyCoverToCurrent sets the album art of the current track.
func (c *Controller) ApplyCoverToCurrent(cover string) error {
	return c.mutate(func() error {
		t := c.state.CurrentTrack()
		if t == nil {
			return ErrEmptyPlaylist
		}
		t.Cover = model.StringPtr(cover)
		return nil
	})
}
