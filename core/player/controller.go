package player

import (
	"errors"
	"sync"

	"winamp7/core/media"
	"winamp7/core/mirror"
	"winamp7/core/protocol"
	"winamp7/logger"
	"winamp7/model"
)

var (
	ErrEmptyPlaylist   = errors.New("player: playlist is empty")
	ErrIndexOutOfRange = errors.New("player: track index out of range")
)

// PopoutOptions sizes and centers the pop-out window.
type PopoutOptions struct {
	Name         string
	Width        int
	Height       int
	ScreenWidth  int
	ScreenHeight int
}

// Options configures a Controller.
type Options struct {
	Background       string
	Volume           float64
	PlaceholderCover string
	Popout           PopoutOptions
}

// Controller owns the player state. Every mutation goes through its methods,
// and each one that changes state pushes exactly one snapshot to the mirror
// while a mirror is attached.
type Controller struct {
	mu    sync.Mutex
	state model.PlayerState

	media    media.Element
	loadedID string

	opener      mirror.Opener
	handle      mirror.Handle
	unsubscribe func()

	builder *protocol.SnapshotBuilder
	popout  PopoutOptions
}

// NewController seeds the playlist and prepares the first track without
// starting playback.
func NewController(el media.Element, opener mirror.Opener, tracks []model.Track, opts Options) *Controller {
	if opts.Popout.Name == "" {
		opts.Popout.Name = "MusicPlayerPopout"
	}
	c := &Controller{
		state: model.PlayerState{
			Tracks:     append([]model.Track(nil), tracks...),
			Volume:     clamp01(opts.Volume),
			Background: opts.Background,
		},
		media:   el,
		opener:  opener,
		builder: protocol.NewSnapshotBuilder(opts.PlaceholderCover),
		popout:  opts.Popout,
	}
	if c.state.Tracks == nil {
		c.state.Tracks = []model.Track{}
	}

	el.SetVolume(c.state.Volume)
	el.SetMuted(false)
	c.loadCurrentLocked()
	el.SetListener(c)
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() model.PlayerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Snapshot builds the mirror projection of the current state.
func (c *Controller) Snapshot() protocol.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builder.Build(&c.state, c.state.CurrentTrack())
}

// Status reports the playback state machine position.
func (c *Controller) Status() model.PlaybackStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// loadCurrentLocked points the media element at the current track.
func (c *Controller) loadCurrentLocked() {
	c.state.CurrentTime = 0
	t := c.state.CurrentTrack()
	if t == nil {
		c.media.Pause()
		c.loadedID = ""
		c.state.Duration = 0
		return
	}
	c.state.Duration = t.Duration
	c.loadedID = t.ID
	if err := c.media.Load(media.Source{Key: t.ID, URL: t.File, Duration: t.Duration}); err != nil {
		logger.Warn("load track failed",
			logger.ErrorField(err),
			logger.String("track", t.ID),
			logger.String("file", t.File))
	}
}

// startLocked begins playback; a failure leaves the player paused.
func (c *Controller) startLocked() {
	if err := c.media.Play(); err != nil {
		logger.Warn("playback failed", logger.ErrorField(err), logger.Int("index", c.state.CurrentTrackIndex))
		c.state.IsPlaying = false
		return
	}
	c.state.IsPlaying = true
}

// publishLocked pushes the current snapshot to a live mirror. A handle whose
// window has gone away is dropped silently.
func (c *Controller) publishLocked() {
	if c.handle == nil {
		return
	}
	if c.handle.Closed() {
		logger.Debug("pop-out gone, dropping handle", logger.String("window", c.handle.ID()))
		c.dropMirrorLocked()
		return
	}
	data, err := protocol.EncodeUpdate(c.builder.Build(&c.state, c.state.CurrentTrack()))
	if err != nil {
		logger.Error("encode snapshot", logger.ErrorField(err))
		return
	}
	if err := c.handle.Send(data); err != nil {
		if errors.Is(err, mirror.ErrWindowClosed) {
			c.dropMirrorLocked()
			return
		}
		logger.Warn("send snapshot", logger.ErrorField(err), logger.String("window", c.handle.ID()))
	}
}

// mutate runs fn under the lock and publishes once if it succeeded.
func (c *Controller) mutate(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	c.publishLocked()
	return nil
}
