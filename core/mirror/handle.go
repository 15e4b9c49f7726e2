package mirror

import (
	"errors"
	"fmt"

	"winamp7/core/protocol"
)

var (
	// ErrBlocked means no window could be opened; the caller keeps no handle.
	ErrBlocked = errors.New("mirror: pop-out blocked")
	// ErrWindowClosed is returned when sending into a closed window.
	ErrWindowClosed = errors.New("mirror: window closed")
	// ErrUnknownWindow is returned for ids or tokens the hub did not issue.
	ErrUnknownWindow = errors.New("mirror: unknown window")
	// ErrAlreadyAttached rejects a second connection to the same window.
	ErrAlreadyAttached = errors.New("mirror: window already attached")
)

// Handle is the owner's reference to one pop-out window.
type Handle interface {
	ID() string
	// Closed reports whether the window is gone.
	Closed() bool
	// Send delivers one message, fire-and-forget.
	Send(data []byte) error
	// Subscribe registers the listener for messages sent by this window. The
	// returned func removes it.
	Subscribe(fn func(data []byte)) (unsubscribe func())
	Close() error
}

// Opener creates pop-out windows.
type Opener interface {
	Open(spec WindowSpec) (Handle, error)
}

// WindowSpec describes the window to open and the state it first renders.
type WindowSpec struct {
	Name    string
	Width   int
	Height  int
	Left    int
	Top     int
	Initial protocol.Snapshot
}

// Features is the chrome-less window.open feature string for the spec.
func (s WindowSpec) Features() string {
	return fmt.Sprintf("width=%d,height=%d,left=%d,top=%d,resizable=yes,scrollbars=no,status=no,location=no,menubar=no,toolbar=no",
		s.Width, s.Height, s.Left, s.Top)
}

// TokenSigner issues and checks per-window access tokens.
type TokenSigner interface {
	SignWindow(windowID string) (string, error)
	VerifyWindow(token, windowID string) error
}
