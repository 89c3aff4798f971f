// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/pubsub"
	"github.com/ava-labs/ftledger/utils"
)

var _ event.Subscription[event.Event] = (*WebSocketServer)(nil)

type packedEvent struct {
	seq uint64
	msg []byte
}

// WebSocketServer streams every event the token emits to subscribed
// connections. It keeps the most recent events so a reconnecting client can
// catch up.
type WebSocketServer struct {
	log logging.Logger
	s   *pubsub.Server

	listeners *pubsub.Connections

	l      sync.Mutex
	seq    uint64
	recent *utils.BoundedBuffer[packedEvent]
}

func NewWebSocketServer(
	log logging.Logger,
	config pubsub.ServerConfig,
	backlog int,
) (*WebSocketServer, *pubsub.Server, error) {
	recent, err := utils.NewBoundedBuffer[packedEvent](backlog)
	if err != nil {
		return nil, nil, err
	}
	w := &WebSocketServer{
		log:       log,
		listeners: pubsub.NewConnections(),
		recent:    recent,
	}
	w.s = pubsub.New(log, config, w.MessageCallback())
	return w, w.s, nil
}

// Accept publishes [e] to every listener.
func (w *WebSocketServer) Accept(_ context.Context, e event.Event) error {
	w.l.Lock()
	defer w.l.Unlock()

	msg, err := PackEventMessage(w.seq+1, e)
	if err != nil {
		return err
	}
	w.seq++
	w.recent.Insert(packedEvent{seq: w.seq, msg: msg})
	if w.listeners.Len() == 0 {
		return nil
	}
	if inactive := w.s.Publish(msg, w.listeners); len(inactive) > 0 {
		w.log.Debug("dropped event listeners",
			zap.Uint64("seq", w.seq),
			zap.Int("count", w.listeners.RemoveAll(inactive)),
		)
	}
	return nil
}

func (*WebSocketServer) Close() error {
	return nil
}

func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	return func(msgBytes []byte, c *pubsub.Connection) {
		var sub SubscribeMessage
		if err := json.Unmarshal(msgBytes, &sub); err != nil {
			w.log.Debug("failed to unmarshal msg",
				zap.Int("len", len(msgBytes)),
				zap.Error(err),
			)
			return
		}

		// Holding l keeps events published between the replay and the
		// subscription from being lost or duplicated.
		w.l.Lock()
		defer w.l.Unlock()

		if w.listeners.Has(c) {
			w.log.Debug("ignoring duplicate subscription",
				zap.String("remote", c.RemoteAddr()),
			)
			return
		}
		missed := w.recent.After(func(e packedEvent) bool {
			return e.seq <= sub.Since
		})
		for _, e := range missed {
			if !c.Send(e.msg) {
				return
			}
		}
		w.listeners.Add(c)
		w.log.Debug("added event listener",
			zap.String("remote", c.RemoteAddr()),
			zap.Uint64("since", sub.Since),
			zap.Int("replayed", len(missed)),
		)
	}
}
