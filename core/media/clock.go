package media

import (
	"sync"
	"time"
)

// ClockElement plays silently: position advances with the wall clock and the
// duration comes from the source hint. Used on hosts without an audio device.
type ClockElement struct {
	mu       sync.Mutex
	listener Listener
	src      Source
	loaded   bool
	playing  bool
	base     float64 // position when playback last (re)started
	started  time.Time
	volume   float64
	muted    bool
	now      func() time.Time
	gen      int // bumped on every Load

	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewClockElement starts the time-update loop at the given interval.
func NewClockElement(interval time.Duration) *ClockElement {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	e := &ClockElement{
		volume:   1,
		now:      time.Now,
		interval: interval,
		stop:     make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *ClockElement) SetListener(l Listener) {
	e.mu.Lock()
	e.listener = l
	e.mu.Unlock()
}

func (e *ClockElement) Load(src Source) error {
	e.mu.Lock()
	e.src = src
	e.loaded = src.URL != ""
	e.playing = false
	e.base = 0
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	if src.Duration > 0 {
		go e.durationChanged(gen, src)
	}
	return nil
}

func (e *ClockElement) durationChanged(gen int, src Source) {
	if l := e.current(gen); l != nil {
		l.MediaDurationChange(src, src.Duration)
	}
}

// current returns the listener while gen is still the loaded source.
func (e *ClockElement) current(gen int) Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return nil
	}
	return e.listener
}

func (e *ClockElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNoSource
	}
	if !e.playing {
		e.playing = true
		e.started = e.now()
	}
	return nil
}

func (e *ClockElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		e.base = e.positionLocked()
		e.playing = false
	}
}

func (e *ClockElement) positionLocked() float64 {
	pos := e.base
	if e.playing {
		pos += e.now().Sub(e.started).Seconds()
	}
	if e.src.Duration > 0 && pos > e.src.Duration {
		pos = e.src.Duration
	}
	return pos
}

func (e *ClockElement) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

func (e *ClockElement) SetPosition(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	e.base = seconds
	e.started = e.now()
}

func (e *ClockElement) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src.Duration
}

func (e *ClockElement) SetVolume(v float64) {
	e.mu.Lock()
	e.volume = v
	e.mu.Unlock()
}

func (e *ClockElement) SetMuted(muted bool) {
	e.mu.Lock()
	e.muted = muted
	e.mu.Unlock()
}

// Close stops the update loop.
func (e *ClockElement) Close() error {
	e.stopOnce.Do(func() { close(e.stop) })
	return nil
}

// tick reports the position and detects the end of the source.
func (e *ClockElement) tick() {
	e.mu.Lock()
	if !e.playing || e.listener == nil {
		e.mu.Unlock()
		return
	}
	pos := e.positionLocked()
	ended := e.src.Duration > 0 && pos >= e.src.Duration
	if ended {
		e.playing = false
		e.base = pos
	}
	gen := e.gen
	e.mu.Unlock()

	if l := e.current(gen); l != nil {
		l.MediaTimeUpdate(pos)
	}
	if !ended {
		return
	}
	if l := e.current(gen); l != nil {
		l.MediaEnded()
	}
}

func (e *ClockElement) run() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.tick()
		case <-e.stop:
			return
		}
	}
}
