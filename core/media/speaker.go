package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"winamp7/logger"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Resolver maps a track URL to a local file path.
type Resolver func(ctx context.Context, url string) (string, error)

var speakerInit sync.Once

// SpeakerElement decodes mp3 files with beep and plays them on the default
// audio device. One element owns the speaker.
type SpeakerElement struct {
	mu         sync.Mutex
	listener   Listener
	resolve    Resolver
	sampleRate beep.SampleRate

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	gen      int // bumped on every Load so callbacks from old sources are dropped

	volume float64
	muted  bool

	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSpeakerElement initialises the speaker at 44.1kHz and starts the
// time-update loop.
func NewSpeakerElement(resolve Resolver, interval time.Duration) (*SpeakerElement, error) {
	sr := beep.SampleRate(44100)
	var initErr error
	speakerInit.Do(func() {
		initErr = speaker.Init(sr, sr.N(100*time.Millisecond))
	})
	if initErr != nil {
		return nil, fmt.Errorf("init speaker: %w", initErr)
	}
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	e := &SpeakerElement{
		resolve:    resolve,
		sampleRate: sr,
		volume:     1,
		interval:   interval,
		stop:       make(chan struct{}),
	}
	go e.run()
	return e, nil
}

func (e *SpeakerElement) SetListener(l Listener) {
	e.mu.Lock()
	e.listener = l
	e.mu.Unlock()
}

func (e *SpeakerElement) Load(src Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	speaker.Clear()
	e.closeStreamerLocked()
	e.gen++

	if src.URL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	path, err := e.resolve(ctx, src.URL)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src.URL, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	var s beep.Streamer = streamer
	if format.SampleRate != e.sampleRate {
		s = beep.Resample(4, format.SampleRate, e.sampleRate, streamer)
	}
	e.vol = &effects.Volume{Streamer: s, Base: 2}
	e.applyVolumeLocked()
	e.ctrl = &beep.Ctrl{Streamer: e.vol, Paused: true}
	e.streamer = streamer
	e.format = format

	gen := e.gen
	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		// Runs inside the speaker goroutine; hand off before touching locks.
		go e.ended(gen)
	})))

	duration := format.SampleRate.D(streamer.Len()).Seconds()
	go e.durationChanged(gen, src, duration)
	return nil
}

func (e *SpeakerElement) closeStreamerLocked() {
	if e.streamer != nil {
		if err := e.streamer.Close(); err != nil {
			logger.Warn("close streamer", logger.ErrorField(err))
		}
	}
	e.streamer = nil
	e.ctrl = nil
	e.vol = nil
}

// current returns the listener while gen is still the loaded source.
func (e *SpeakerElement) current(gen int) Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return nil
	}
	return e.listener
}

func (e *SpeakerElement) ended(gen int) {
	if l := e.current(gen); l != nil {
		l.MediaEnded()
	}
}

func (e *SpeakerElement) durationChanged(gen int, src Source, seconds float64) {
	if l := e.current(gen); l != nil {
		l.MediaDurationChange(src, seconds)
	}
}

func (e *SpeakerElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return ErrNoSource
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (e *SpeakerElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
}

func (e *SpeakerElement) playing() bool {
	if e.ctrl == nil {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return !e.ctrl.Paused
}

func (e *SpeakerElement) positionLocked() float64 {
	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return e.format.SampleRate.D(e.streamer.Position()).Seconds()
}

func (e *SpeakerElement) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

func (e *SpeakerElement) SetPosition(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return
	}
	n := e.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if n < 0 {
		n = 0
	}
	if n >= e.streamer.Len() {
		n = e.streamer.Len() - 1
	}
	speaker.Lock()
	err := e.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		logger.Warn("seek failed", logger.ErrorField(err), logger.Float64("seconds", seconds))
	}
}

func (e *SpeakerElement) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len()).Seconds()
}

func (e *SpeakerElement) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = v
	e.applyVolumeLocked()
}

func (e *SpeakerElement) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	e.applyVolumeLocked()
}

// applyVolumeLocked maps the linear 0..1 volume onto the base-2 gain of effects.Volume.
func (e *SpeakerElement) applyVolumeLocked() {
	if e.vol == nil {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	e.vol.Silent = e.muted || e.volume <= 0
	if !e.vol.Silent {
		e.vol.Volume = math.Log2(e.volume)
	}
}

func (e *SpeakerElement) Close() error {
	e.stopOnce.Do(func() { close(e.stop) })
	e.mu.Lock()
	defer e.mu.Unlock()
	speaker.Clear()
	e.closeStreamerLocked()
	return nil
}

func (e *SpeakerElement) run() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.mu.Lock()
			gen := e.gen
			active := e.playing()
			pos := e.positionLocked()
			e.mu.Unlock()
			if !active {
				continue
			}
			if l := e.current(gen); l != nil {
				l.MediaTimeUpdate(pos)
			}
		case <-e.stop:
			return
		}
	}
}
