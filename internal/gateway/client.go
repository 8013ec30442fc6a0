package gateway

import (
	"time"

	"guidely/pkg/config"
	"guidely/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const maxMessageSize = 64 * 1024

// Client is one websocket connection. The read pump runs on the connection's
// handler goroutine; the write pump drains the buffered send channel so
// broadcast delivery never blocks on a slow socket.
type Client struct {
	ID     string
	UserID string

	conn *websocket.Conn
	send chan outboundFrame
	done chan struct{}

	cfg *config.Config
	log *logger.Logger
}

func NewClient(conn *websocket.Conn, userID string, cfg *config.Config) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		send:   make(chan outboundFrame, cfg.WSSendBufferSize),
		done:   make(chan struct{}),
		cfg:    cfg,
		log:    cfg.Log,
	}
}

// Enqueue hands a frame to the write pump. Frames to a client whose buffer is
// full are dropped; realtime consumers reconcile through the REST API.
func (c *Client) Enqueue(event string, data any) {
	select {
	case c.send <- outboundFrame{Event: event, Data: data}:
	case <-c.done:
	default:
		c.log.Warn("Dropping frame for slow client",
			"client_id", c.ID,
			"user_id", c.UserID,
			"event", event,
		)
	}
}

// readLoop consumes frames from the socket and dispatches them until the
// connection closes. It must run on the handler goroutine.
func (c *Client) readLoop(dispatch func(frame clientFrame)) {
	defer close(c.done)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.WSPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.WSPongWait))
		return nil
	})

	for {
		var frame clientFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("Websocket read failed", "client_id", c.ID, "user_id", c.UserID, "error", err)
			}
			return
		}

		if frame.Event == "" {
			continue
		}
		dispatch(frame)
	}
}

// writeLoop flushes queued frames and keeps the connection alive with pings.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(c.cfg.WSPingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WSWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				c.log.Warn("Websocket write failed", "client_id", c.ID, "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WSWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
