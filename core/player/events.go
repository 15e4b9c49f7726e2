package player

import (
	"winamp7/core/media"
	"winamp7/logger"
)

// MediaTimeUpdate records the element's playback position.
func (c *Controller) MediaTimeUpdate(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seconds == c.state.CurrentTime {
		return
	}
	c.state.CurrentTime = seconds
	c.publishLocked()
}

// MediaDurationChange records the probed duration, and fills in the current
// track's duration when it was still unknown. Changes for a source other than
// the loaded one are dropped.
func (c *Controller) MediaDurationChange(src media.Source, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadedID == "" || src.Key != c.loadedID {
		logger.Debug("stale duration change", logger.String("url", src.URL))
		return
	}
	if t := c.state.CurrentTrack(); t != nil && t.ID == c.loadedID && t.Duration == 0 {
		t.Duration = seconds
	}
	c.state.Duration = seconds
	c.publishLocked()
}

// MediaEnded advances to the next track and keeps playing.
func (c *Controller) MediaEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextTrackLocked(); err != nil {
		return
	}
	c.publishLocked()
}

// MediaError stops playback after an asynchronous element failure.
func (c *Controller) MediaError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	logger.Warn("media error", logger.ErrorField(err))
	if !c.state.IsPlaying {
		return
	}
	c.media.Pause()
	c.state.IsPlaying = false
	c.publishLocked()
}
