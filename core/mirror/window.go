package mirror

import (
	"sync"
	"sync/atomic"
	"time"

	"winamp7/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

// Window is a pop-out opened by the hub. Until its WebSocket connects, sent
// messages wait in the buffer; when the buffer is full the oldest is dropped,
// since every message is a full snapshot.
type Window struct {
	hub   *Hub
	id    string
	token string
	spec  WindowSpec

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	mu          sync.Mutex
	conn        *websocket.Conn
	listener    func([]byte)
	listenerSeq int
}

func newWindow(h *Hub, id, token string, spec WindowSpec, buffer int) *Window {
	return &Window{
		hub:   h,
		id:    id,
		token: token,
		spec:  spec,
		send:  make(chan []byte, buffer),
		done:  make(chan struct{}),
	}
}

func (w *Window) ID() string            { return w.id }
func (w *Window) Token() string         { return w.token }
func (w *Window) Spec() WindowSpec      { return w.spec }
func (w *Window) Closed() bool          { return w.closed.Load() }
func (w *Window) Done() <-chan struct{} { return w.done }

func (w *Window) attached() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil
}

// Send queues data for the mirror.
func (w *Window) Send(data []byte) error {
	if w.Closed() {
		return ErrWindowClosed
	}
	select {
	case w.send <- data:
		return nil
	default:
	}
	// Buffer full: drop the oldest queued snapshot and retry once.
	select {
	case <-w.send:
	default:
	}
	select {
	case w.send <- data:
	default:
		logger.Warn("pop-out send buffer full, message dropped", logger.String("window", w.id))
	}
	return nil
}

func (w *Window) Subscribe(fn func(data []byte)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listenerSeq++
	seq := w.listenerSeq
	w.listener = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.listenerSeq == seq {
			w.listener = nil
		}
	}
}

// Close closes the window from the owner side.
func (w *Window) Close() error {
	w.markClosed()
	return nil
}

func (w *Window) markClosed() {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		close(w.done)
		w.hub.Unregister(w)
	})
}

// Serve runs the connection for this window and blocks until it ends. The
// window is closed afterwards.
func (w *Window) Serve(conn *websocket.Conn) error {
	w.mu.Lock()
	if w.Closed() {
		w.mu.Unlock()
		return ErrWindowClosed
	}
	if w.conn != nil {
		w.mu.Unlock()
		return ErrAlreadyAttached
	}
	w.conn = conn
	w.mu.Unlock()

	go w.writePump(conn)
	w.readPump(conn)
	return nil
}

func (w *Window) readPump(conn *websocket.Conn) {
	defer w.markClosed()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("pop-out read error",
					logger.ErrorField(err),
					logger.String("window", w.id))
			}
			return
		}

		w.mu.Lock()
		fn := w.listener
		w.mu.Unlock()
		if fn != nil {
			fn(message)
		}
	}
}

func (w *Window) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message := <-w.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("pop-out write error", logger.ErrorField(err), logger.String("window", w.id))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-w.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "window closed"))
			return
		}
	}
}
