package mirror

import (
	"context"
	"fmt"
	"sync"
	"time"

	"winamp7/core/protocol"
	"winamp7/logger"

	"github.com/gorilla/websocket"
)

// Client is the mirror end of a pop-out connection. It only renders what the
// owner sends and relays intents back; it never changes state on its own.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	updates chan protocol.Snapshot
	done    chan struct{}
	err     error
}

// Dial connects to a pop-out WebSocket URL (including its token).
func Dial(ctx context.Context, wsURL string) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial pop-out: %w", err)
	}
	c := &Client{
		conn:    conn,
		updates: make(chan protocol.Snapshot, 16),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Updates delivers every snapshot the owner pushes. It is closed when the
// connection ends.
func (c *Client) Updates() <-chan protocol.Snapshot { return c.updates }

// Done is closed when the connection ends; Err then reports why.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Client) readLoop() {
	defer func() {
		close(c.updates)
		close(c.done)
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.err = err
			}
			return
		}
		snap, ok, err := protocol.DecodeUpdate(data)
		if err != nil {
			logger.Warn("mirror: bad owner message", logger.ErrorField(err))
			continue
		}
		if !ok {
			continue
		}
		select {
		case c.updates <- snap:
		default:
			// Renderer is behind; keep only the newest snapshot.
			select {
			case <-c.updates:
			default:
			}
			c.updates <- snap
		}
	}
}

// Send relays one intent to the owner.
func (c *Client) Send(in protocol.Intent) error {
	data, err := protocol.EncodeIntent(in)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send %s: %w", in.Type(), err)
	}
	return nil
}

// Close announces POPOUT_CLOSED and closes the connection.
func (c *Client) Close() error {
	if err := c.Send(protocol.PopoutClosed{}); err != nil {
		logger.Debug("mirror: could not announce close", logger.ErrorField(err))
	}
	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	c.writeMu.Unlock()
	return c.conn.Close()
}
