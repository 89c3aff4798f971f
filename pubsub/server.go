// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pubsub serves JSON messages to websocket clients in batches.
package pubsub

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var _ http.Handler = (*Server)(nil)

// Server upgrades HTTP requests to websocket connections and tracks them
// until they close. It is mounted on an existing HTTP server.
type Server struct {
	log      logging.Logger
	config   ServerConfig
	conns    *Connections
	callback Callback
	upgrader websocket.Upgrader
}

// New returns a Server that hands every client message to [f], if [f] is
// not nil.
func New(log logging.Logger, config ServerConfig, f Callback) *Server {
	return &Server{
		log:      log,
		config:   config,
		conns:    NewConnections(),
		callback: f,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.String("remote", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	conn := newConnection(s, wsConn)
	s.conns.Add(conn)
	s.log.Debug("opened connection",
		zap.String("remote", conn.RemoteAddr()),
		zap.Int("connections", s.conns.Len()),
	)
	go conn.writePump()
	go conn.readPump()
}

// Publish queues [msg] for every connection in [to] and returns the ones
// that could not take it.
func (s *Server) Publish(msg []byte, to *Connections) []*Connection {
	var inactive []*Connection
	for _, conn := range to.Conns() {
		if !s.conns.Has(conn) || !conn.Send(msg) {
			inactive = append(inactive, conn)
		}
	}
	return inactive
}

// Connections is every open connection.
func (s *Server) Connections() *Connections {
	return s.conns
}

func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}
