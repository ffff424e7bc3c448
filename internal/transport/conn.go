package transport

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cory-johannsen/scrawl/internal/config"
	"github.com/cory-johannsen/scrawl/internal/coordinator"
)

// maxMessageSize bounds inbound frames; stroke batches are the largest
// legitimate payload and stay well under this.
const maxMessageSize = 64 * 1024

// conn ties one WebSocket to its coordinator session: a read pump feeding
// the session and a write pump draining the sink.
type conn struct {
	ws      *websocket.Conn
	sink    *connSink
	session *coordinator.Session
	limiter *rate.Limiter
	cfg     config.ServerConfig
	log     *zap.Logger
}

// readPump reads frames until the connection drops, rate-limits them, and
// hands them to the session. It owns teardown: leaving the room, closing the
// sink, and closing the socket.
func (c *conn) readPump() {
	defer func() {
		c.session.Close()
		c.sink.Close()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("connection closed unexpectedly", zap.Error(err))
			}
			return
		}
		if !c.limiter.Allow() {
			c.log.Debug("rate limit exceeded, dropping message")
			continue
		}
		c.session.HandleMessage(data)
	}
}

// writePump serializes sink events onto the socket and keeps the connection
// alive with pings. Exits on write failure or sink close.
func (c *conn) writePump() {
	pingInterval := c.cfg.PongTimeout * 9 / 10
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case ev := <-c.sink.ch:
			data, err := ev.Encode()
			if err != nil {
				c.log.Error("dropping unencodable event",
					zap.String("event", string(ev.Type)),
					zap.Error(err),
				)
				continue
			}
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.sink.closed:
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
