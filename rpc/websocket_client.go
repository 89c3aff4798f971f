// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/pubsub"
	"github.com/ava-labs/ftledger/server"
)

type WebSocketClient struct {
	conn *websocket.Conn
	wl   sync.Mutex
	rl   sync.Mutex
	cl   sync.Once

	closed atomic.Bool

	maxMessageSize int
	// events read in a batch but not yet returned
	pending [][]byte
}

// NewWebSocketClient dials the event feed of the node at [uri], the root of
// the node's HTTP server.
func NewWebSocketClient(uri string, maxMessageSize int) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http", "ws", 1)
	uri += server.BaseURL + "/" + WebSocketEndpoint
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	resp.Body.Close()
	return &WebSocketClient{conn: conn, maxMessageSize: maxMessageSize}, nil
}

// Subscribe asks for every event after [since]. Zero replays everything the
// node still holds.
func (c *WebSocketClient) Subscribe(since uint64) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.wl.Lock()
	defer c.wl.Unlock()

	msg, err := json.Marshal(&SubscribeMessage{Since: since})
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// ListenEvent blocks until the next event arrives.
func (c *WebSocketClient) ListenEvent() (uint64, event.Event, error) {
	if c.closed.Load() {
		return 0, event.Event{}, ErrClosed
	}
	c.rl.Lock()
	defer c.rl.Unlock()

	for len(c.pending) == 0 {
		_, batch, err := c.conn.ReadMessage()
		if c.closed.Load() {
			return 0, event.Event{}, ErrClosed
		}
		if err != nil {
			return 0, event.Event{}, err
		}
		c.pending, err = pubsub.ParseBatchMessage(c.maxMessageSize, batch)
		if err != nil {
			return 0, event.Event{}, err
		}
	}
	msg := c.pending[0]
	c.pending = c.pending[1:]
	return UnpackEventMessage(msg)
}

// Close closes [c]'s connection to the event feed.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		c.closed.Store(true)
		err = c.conn.Close()
	})
	return err
}
