package player

import (
	"errors"
	"sync"

	"winamp7/core/media"
	"winamp7/core/mirror"
	"winamp7/core/protocol"
	"winamp7/model"
)

type fakeElement struct {
	mu       sync.Mutex
	listener media.Listener
	src      media.Source
	loads    int
	playing  bool
	position float64
	volume   float64
	muted    bool
	playErr  error
}

func (e *fakeElement) SetListener(l media.Listener) { e.listener = l }

func (e *fakeElement) Load(src media.Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.src = src
	e.loads++
	e.playing = false
	e.position = 0
	return nil
}

func (e *fakeElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playErr != nil {
		return e.playErr
	}
	if e.src.URL == "" {
		return media.ErrNoSource
	}
	e.playing = true
	return nil
}

func (e *fakeElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = false
}

func (e *fakeElement) Position() float64     { return e.position }
func (e *fakeElement) SetPosition(s float64) { e.position = s }
func (e *fakeElement) Duration() float64     { return e.src.Duration }
func (e *fakeElement) SetVolume(v float64)   { e.volume = v }
func (e *fakeElement) SetMuted(m bool)       { e.muted = m }
func (e *fakeElement) Close() error          { return nil }

func (e *fakeElement) isPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

func (e *fakeElement) currentSource() media.Source {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

type fakeHandle struct {
	mu       sync.Mutex
	id       string
	closed   bool
	sent     [][]byte
	listener func([]byte)
	closes   int
}

func (h *fakeHandle) ID() string { return h.id }

func (h *fakeHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *fakeHandle) Send(data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return mirror.ErrWindowClosed
	}
	h.sent = append(h.sent, data)
	return nil
}

func (h *fakeHandle) Subscribe(fn func([]byte)) func() {
	h.mu.Lock()
	h.listener = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		h.listener = nil
		h.mu.Unlock()
	}
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.closes++
	return nil
}

// deliver simulates the window posting a message to the owner.
func (h *fakeHandle) deliver(raw string) {
	h.mu.Lock()
	fn := h.listener
	h.mu.Unlock()
	if fn != nil {
		fn([]byte(raw))
	}
}

func (h *fakeHandle) kill() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

func (h *fakeHandle) sentCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sent)
}

func (h *fakeHandle) lastSnapshot() (protocol.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.sent) == 0 {
		return protocol.Snapshot{}, false
	}
	snap, ok, err := protocol.DecodeUpdate(h.sent[len(h.sent)-1])
	if err != nil {
		return protocol.Snapshot{}, false
	}
	return snap, ok
}

type fakeOpener struct {
	blocked bool
	opened  []*fakeHandle
	specs   []mirror.WindowSpec
}

func (o *fakeOpener) Open(spec mirror.WindowSpec) (mirror.Handle, error) {
	if o.blocked {
		return nil, mirror.ErrBlocked
	}
	h := &fakeHandle{id: "window-" + string(rune('a'+len(o.opened)))}
	o.opened = append(o.opened, h)
	o.specs = append(o.specs, spec)
	return h, nil
}

var errAutoplay = errors.New("autoplay blocked")

func threeTracks() []model.Track {
	return []model.Track{
		{ID: "a", Title: "A", Artist: "AA", Album: "X", Duration: 100, File: "/music/a.mp3"},
		{ID: "b", Title: "B", Artist: "BB", Album: "X", Duration: 200, File: "/music/b.mp3"},
		{ID: "c", Title: "C", Artist: "CC", Album: "X", Duration: 300, File: "/music/c.mp3"},
	}
}

func newTestController(tracks []model.Track) (*Controller, *fakeElement, *fakeOpener) {
	el := &fakeElement{}
	op := &fakeOpener{}
	c := NewController(el, op, tracks, Options{
		Background: "/backgrounds/windows7-default.jpg",
		Volume:     0.7,
		Popout:     PopoutOptions{Width: 400, Height: 600, ScreenWidth: 1920, ScreenHeight: 1080},
	})
	return c, el, op
}
