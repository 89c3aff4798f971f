// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package server hosts the ledger's HTTP endpoints under [BaseURL].
package server

import (
	"context"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const BaseURL = "/ext"

var _ Server = (*server)(nil)

type PathAdder interface {
	// AddRoute mounts [handler] at BaseURL/[base][endpoint].
	AddRoute(handler http.Handler, base, endpoint string) error
}

type Server interface {
	PathAdder
	Addr() net.Addr
	// Dispatch serves until Shutdown is called.
	Dispatch() error
	Shutdown() error
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

type Config struct {
	HTTPConfig
	AllowedOrigins  []string      `json:"allowedOrigins"`
	AllowedHosts    []string      `json:"allowedHosts"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout"`
}

func NewDefaultConfig() Config {
	return Config{
		HTTPConfig: HTTPConfig{
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"localhost"},
		ShutdownTimeout: 10 * time.Second,
	}
}

type server struct {
	log      logging.Logger
	config   Config
	router   *router
	srv      *http.Server
	listener net.Listener
}

// New builds a Server for [listener]. Requests pass through the host filter,
// CORS and gzip before reaching a route, and [wrappers] are applied
// outermost.
func New(
	log logging.Logger,
	listener net.Listener,
	config Config,
	wrappers ...Wrapper,
) Server {
	r := newRouter()
	handler := middleware(r, config)
	for _, wrapper := range wrappers {
		handler = wrapper.WrapHandler(handler)
	}
	log.Info("API created",
		zap.Stringer("addr", listener.Addr()),
		zap.Strings("allowedOrigins", config.AllowedOrigins),
		zap.Strings("allowedHosts", config.AllowedHosts),
	)
	return &server{
		log:    log,
		config: config,
		router: r,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       config.ReadTimeout,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		listener: listener,
	}
}

// middleware skips gzip for websocket upgrades since the event feed
// hijacks the connection.
func middleware(next http.Handler, config Config) http.Handler {
	withCORS := cors.New(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(filterInvalidHosts(next, config.AllowedHosts))
	withGzip := gziphandler.GzipHandler(withCORS)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			withCORS.ServeHTTP(w, r)
			return
		}
		withGzip.ServeHTTP(w, r)
	})
}

func (s *server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *server) Dispatch() error {
	return s.srv.Serve(s.listener)
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := path.Join(BaseURL, base)
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	return s.router.AddRouter(url, endpoint, handler)
}

// Shutdown waits up to the configured timeout for open requests and then
// closes whatever is left.
func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	_ = s.srv.Close()
	return err
}
