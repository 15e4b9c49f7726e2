package mirror

import (
	"sync"
	"time"

	"winamp7/logger"

	"github.com/google/uuid"
)

// HubOptions tunes window admission.
type HubOptions struct {
	MaxWindows int           // live windows allowed at once; further opens are blocked
	PendingTTL time.Duration // how long an opened window may wait for its connection
	SendBuffer int
}

type registration struct {
	window *Window
	result chan error
}

// Hub opens pop-out windows and tracks the live ones. It is the server side
// of the window-opening primitive: each window is reachable by its id and a
// token signed for that id.
type Hub struct {
	windows map[string]*Window

	register   chan registration
	unregister chan *Window

	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once

	signer TokenSigner
	opts   HubOptions
}

// NewHub creates a hub. Run must be started before Open is called.
func NewHub(signer TokenSigner, opts HubOptions) *Hub {
	if opts.MaxWindows <= 0 {
		opts.MaxWindows = 1
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = time.Minute
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	return &Hub{
		windows:    make(map[string]*Window),
		register:   make(chan registration),
		unregister: make(chan *Window),
		done:       make(chan struct{}),
		signer:     signer,
		opts:       opts,
	}
}

// Run is the hub main loop.
func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			reg.result <- h.registerWindow(reg.window)

		case w := <-h.unregister:
			h.unregisterWindow(w)

		case <-h.done:
			h.cleanup()
			return
		}
	}
}

// Stop closes every window and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) registerWindow(w *Window) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A window that closed itself may not have been unregistered yet.
	for id, cur := range h.windows {
		if cur.Closed() {
			delete(h.windows, id)
		}
	}
	if len(h.windows) >= h.opts.MaxWindows {
		logger.Warn("pop-out blocked, window limit reached",
			logger.Int("limit", h.opts.MaxWindows))
		return ErrBlocked
	}
	h.windows[w.id] = w

	logger.Info("pop-out window opened", logger.String("window", w.id))
	return nil
}

func (h *Hub) unregisterWindow(w *Window) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.windows[w.id]; ok && cur == w {
		delete(h.windows, w.id)
		logger.Info("pop-out window closed", logger.String("window", w.id))
	}
}

func (h *Hub) cleanup() {
	h.mu.Lock()
	windows := make([]*Window, 0, len(h.windows))
	for _, w := range h.windows {
		windows = append(windows, w)
	}
	h.windows = make(map[string]*Window)
	h.mu.Unlock()

	for _, w := range windows {
		w.markClosed()
	}
}

// Open creates a window for spec. It returns ErrBlocked when the hub is
// stopped or at capacity.
func (h *Hub) Open(spec WindowSpec) (Handle, error) {
	id := uuid.NewString()
	token, err := h.signer.SignWindow(id)
	if err != nil {
		logger.Error("sign pop-out token", logger.ErrorField(err))
		return nil, ErrBlocked
	}

	w := newWindow(h, id, token, spec, h.opts.SendBuffer)
	reg := registration{window: w, result: make(chan error, 1)}

	select {
	case h.register <- reg:
	case <-h.done:
		return nil, ErrBlocked
	}
	if err := <-reg.result; err != nil {
		return nil, err
	}

	time.AfterFunc(h.opts.PendingTTL, func() {
		if !w.attached() {
			logger.Info("pop-out window never connected", logger.String("window", id))
			w.markClosed()
		}
	})
	return w, nil
}

// Lookup returns the live window with id if token was signed for it.
func (h *Hub) Lookup(id, token string) (*Window, error) {
	if err := h.signer.VerifyWindow(token, id); err != nil {
		return nil, ErrUnknownWindow
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	w, ok := h.windows[id]
	if !ok {
		return nil, ErrUnknownWindow
	}
	return w, nil
}

// Count returns the number of live windows.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.windows)
}

// Unregister removes w from the live set.
func (h *Hub) Unregister(w *Window) {
	select {
	case h.unregister <- w:
	case <-h.done:
	}
}
