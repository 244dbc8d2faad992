package realtime

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one WebSocket connection subscribed to a single run's progress
// stream. Connections are read-only from the client's point of view: the
// solve runs independently of any observer, so the only inbound traffic
// handled is the control-frame pong keepalive.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	RunID string
	Send  chan []byte
}

// ServeWs upgrades an HTTP request to a WebSocket connection and subscribes
// it to runID's progress stream until the client disconnects.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, runID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:   hub,
		conn:  conn,
		RunID: runID,
		Send:  make(chan []byte, 32),
	}

	hub.Register(client)

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump drains control frames (pongs, close) so the connection's read
// deadline keeps advancing; subscribers never send data messages.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("realtime: unexpected close for run %s: %v", c.RunID, err)
			}
			break
		}
	}
}

// writePump delivers queued progress messages and periodic pings until the
// hub closes Send or the connection fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
