package player

import (
	"winamp7/core/mirror"
	"winamp7/core/protocol"
	"winamp7/logger"
)

// OpenMirror opens the pop-out window if none is live and returns its handle.
// When the opener refuses, no handle is kept and the error is returned.
func (c *Controller) OpenMirror() (mirror.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil && !c.handle.Closed() {
		return c.handle, nil
	}
	if c.handle != nil {
		c.dropMirrorLocked()
	}

	spec := mirror.WindowSpec{
		Name:    c.popout.Name,
		Width:   c.popout.Width,
		Height:  c.popout.Height,
		Left:    (c.popout.ScreenWidth - c.popout.Width) / 2,
		Top:     (c.popout.ScreenHeight - c.popout.Height) / 2,
		Initial: c.builder.Build(&c.state, c.state.CurrentTrack()),
	}
	h, err := c.opener.Open(spec)
	if err != nil || h == nil {
		logger.Warn("pop-out not opened", logger.ErrorField(err))
		if err == nil {
			err = mirror.ErrBlocked
		}
		return nil, err
	}

	c.handle = h
	c.unsubscribe = h.Subscribe(func(data []byte) {
		c.HandleMessage(h, data)
	})
	logger.Info("pop-out attached", logger.String("window", h.ID()))
	return h, nil
}

// MirrorHandle returns the live handle, or nil.
func (c *Controller) MirrorHandle() mirror.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// HandleMessage applies a message from source. Messages from anything but the
// tracked handle are ignored, as are unknown or malformed intents.
func (c *Controller) HandleMessage(source mirror.Handle, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if source == nil || c.handle == nil || source != c.handle {
		logger.Debug("message from untracked window ignored")
		return
	}

	var err error
	switch in := protocol.DecodeIntent(data).(type) {
	case protocol.TogglePlay:
		err = c.togglePlayLocked()
	case protocol.PrevTrack:
		err = c.prevTrackLocked()
	case protocol.NextTrack:
		err = c.nextTrackLocked()
	case protocol.ToggleMute:
		c.toggleMuteLocked()
	case protocol.SetVolume:
		c.setVolumeLocked(in.Volume)
	case protocol.Seek:
		c.seekLocked(in.Position)
	case protocol.SelectTrack:
		err = c.selectLocked(in.Index)
	case protocol.PopoutClosed:
		logger.Info("pop-out closed by mirror", logger.String("window", c.handle.ID()))
		c.dropMirrorLocked()
		return
	case protocol.Ignored:
		logger.Debug("intent ignored",
			logger.String("type", string(in.Kind)),
			logger.String("reason", in.Reason))
		return
	}
	if err != nil {
		logger.Debug("intent not applied", logger.ErrorField(err))
		return
	}
	c.publishLocked()
}

// MirrorClosed is the lifecycle event for a mirror that went away; it has
// the same effect as POPOUT_CLOSED.
func (c *Controller) MirrorClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropMirrorLocked()
}

// CloseMirror closes the pop-out from the owner side.
func (c *Controller) CloseMirror() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return
	}
	h := c.handle
	c.dropMirrorLocked()
	if err := h.Close(); err != nil {
		logger.Warn("close pop-out", logger.ErrorField(err))
	}
}

func (c *Controller) dropMirrorLocked() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.handle = nil
}
