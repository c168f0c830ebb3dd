package server

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	grapherr "github.com/teranos/comex/graph/error"
	"github.com/teranos/comex/logger"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Outgoing messages buffered per client before it is dropped
	sendBuffer = 256
)

// Client represents a WebSocket client connection
type Client struct {
	server    *Server
	conn      *websocket.Conn
	send      chan []byte // written and closed only by the hub
	id        string
	closeOnce sync.Once
}

// close closes the send channel; writePump then closes the connection.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump decodes client messages and hands them to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		var msg ClientMessage
		cmd := command{client: c, msg: &msg}
		if err := json.Unmarshal(data, &msg); err != nil {
			cmd = command{client: c, err: grapherr.Wrap(grapherr.CategoryWebSocket, err, "Message could not be parsed").
				WithSubcategory(grapherr.SubcategoryWSMessage)}
		}
		if !c.server.enqueue(cmd) {
			return
		}
	}
}

func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		ge := grapherr.New(grapherr.CategoryWebSocket, err, "").
			WithSubcategory(grapherr.SubcategoryWSRead)
		c.server.logger.Warnw("WebSocket read error",
			append(ge.ToLogFields(), logger.FieldClientID, shortID(c.id))...)
	}
}

// writePump writes queued messages and keepalive pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.server.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				ge := grapherr.New(grapherr.CategoryWebSocket, err, "").
					WithSubcategory(grapherr.SubcategoryWSWrite)
				c.server.logger.Warnw("WebSocket write error",
					append(ge.ToLogFields(), logger.FieldClientID, shortID(c.id))...)
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
