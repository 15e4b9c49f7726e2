package media

import "errors"

var (
	// ErrNoSource is returned by Play when nothing playable is loaded.
	ErrNoSource = errors.New("media: no source loaded")
)

// Source is a playable track reference. Duration is a hint in seconds for
// elements that cannot probe the media themselves. Key names the track the
// source was loaded for and is handed back with duration changes.
type Source struct {
	Key      string
	URL      string
	Duration float64
}

// Listener receives element notifications. Elements deliver them from their
// own goroutines, never from inside a call into the element.
type Listener interface {
	MediaTimeUpdate(seconds float64)
	MediaDurationChange(src Source, seconds float64)
	MediaEnded()
	MediaError(err error)
}

// Element is the playback primitive the player drives.
type Element interface {
	SetListener(l Listener)
	Load(src Source) error
	// Play starts or resumes playback and reports immediate failures.
	Play() error
	Pause()
	Position() float64
	SetPosition(seconds float64)
	Duration() float64
	SetVolume(v float64)
	SetMuted(muted bool)
	Close() error
}
