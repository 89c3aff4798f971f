// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Callback handles one message a client sent on a [*Connection]. Batched
// messages are split before the callback runs.
type Callback func([]byte, *Connection)

// Connection is a single websocket client. Writes are batched by a
// [MessageBuffer] and drained by one writer goroutine while a second
// goroutine reads client messages.
type Connection struct {
	s    *Server
	conn *websocket.Conn
	mb   *MessageBuffer

	active    atomic.Bool
	closeOnce sync.Once
}

func newConnection(s *Server, conn *websocket.Conn) *Connection {
	c := &Connection{
		s:    s,
		conn: conn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.MaxWriteMessageSize,
			s.config.MaxMessageWait,
		),
	}
	c.active.Store(true)
	return c
}

// RemoteAddr is the address of the client.
func (c *Connection) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Send queues [msg] for the client. It returns false once the connection is
// closed or its queue overflowed.
func (c *Connection) Send(msg []byte) bool {
	if !c.active.Load() {
		return false
	}
	err := c.mb.Send(msg)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrClosed):
	default:
		c.s.log.Debug("dropping message",
			zap.String("remote", c.RemoteAddr()),
			zap.Int("size", len(msg)),
			zap.Error(err),
		)
	}
	return false
}

// close runs once, whichever pump stops first.
func (c *Connection) close(reason string, err error) {
	c.closeOnce.Do(func() {
		c.active.Store(false)
		c.s.removeConnection(c)
		_ = c.mb.Close()
		_ = c.conn.Close()
		c.s.log.Debug("closed connection",
			zap.String("remote", c.RemoteAddr()),
			zap.String("reason", reason),
			zap.Error(err),
		)
	})
}

func (c *Connection) readPump() {
	c.conn.SetReadLimit(int64(c.s.config.MaxReadMessageSize))
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait))
	}
	if err := extend(""); err != nil {
		c.close("failed to set the read deadline", err)
		return
	}
	c.conn.SetPongHandler(extend)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.close("unexpected close", err)
			} else {
				c.close("read failed", err)
			}
			return
		}
		if c.s.callback == nil {
			continue
		}
		msgs, err := ParseBatchMessage(c.s.config.MaxReadMessageSize, raw)
		if err != nil {
			c.close("malformed message", err)
			return
		}
		for _, msg := range msgs {
			c.s.callback(msg, c)
		}
	}
}

func (c *Connection) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *Connection) writePump() {
	ping := time.NewTicker(c.s.config.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case batch, ok := <-c.mb.Queue:
			if !ok {
				// The buffer was closed after flushing everything queued.
				_ = c.write(websocket.CloseMessage, nil)
				c.close("buffer closed", nil)
				return
			}
			if err := c.write(websocket.TextMessage, batch); err != nil {
				c.close("write failed", err)
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.close("ping failed", err)
				return
			}
		}
	}
}
