// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node assembles a ledger process: storage, the token, the
// scheduler, the receivers and the API server.
package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/config"
	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/pebble"
	"github.com/ava-labs/ftledger/pubsub"
	"github.com/ava-labs/ftledger/receiver"
	"github.com/ava-labs/ftledger/rpc"
	"github.com/ava-labs/ftledger/scheduler"
	"github.com/ava-labs/ftledger/server"
	"github.com/ava-labs/ftledger/storage"
	"github.com/ava-labs/ftledger/token"

	ftrace "github.com/ava-labs/ftledger/trace"
)

const apiNamespace = "api"

var _ rpc.Controller = (*Node)(nil)

type Node struct {
	config *config.Config
	log    logging.Logger
	tracer trace.Tracer

	gatherer  metrics.MultiGatherer
	db        *pebble.Database
	token     *token.Token
	receivers *receiver.Registry
	scheduler *scheduler.Scheduler
	feed      *pubsub.Server
	server    server.Server
	profiler  profiler.ContinuousProfiler
}

// New opens the ledger in the configured data directory, running genesis
// [g] if the ledger is empty, and mounts the API on [listener].
func New(
	ctx context.Context,
	c *config.Config,
	log logging.Logger,
	g *genesis.Genesis,
	listener net.Listener,
) (*Node, error) {
	n := &Node{
		config:    c,
		log:       log,
		gatherer:  metrics.NewPrefixGatherer(),
		receivers: receiver.NewRegistry(),
	}
	tracer, err := ftrace.New(c.GetTraceConfig())
	if err != nil {
		return nil, err
	}
	n.tracer = tracer
	ctx, span := n.tracer.Start(ctx, "Node.New")
	defer span.End()

	if err := n.initToken(ctx, g); err != nil {
		_ = n.close()
		return nil, err
	}
	for id, uri := range c.Receivers {
		n.receivers.Set(id, receiver.NewJSONRPCReceiver(uri))
		n.log.Info("registered receiver",
			zap.Stringer("account", id),
			zap.String("uri", uri),
		)
	}
	n.scheduler = scheduler.New(c.GetSchedulerConfig(), log, n.token, n.receivers)

	if err := n.initServer(listener); err != nil {
		_ = n.close()
		return nil, err
	}
	if pc := c.GetContinuousProfilerConfig(os.Getpid()); pc.Enabled {
		n.profiler = profiler.NewContinuous(pc.Dir, pc.Freq, pc.MaxNumFiles)
	}
	return n, nil
}

func (n *Node) initToken(ctx context.Context, g *genesis.Genesis) error {
	store, db, err := storage.Open(n.config.Pebble, n.config.DataDir, n.gatherer)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	n.db = db

	subs := []event.Subscription[event.Event]{event.NewLogSubscription(n.log)}
	if n.config.EventFeedEnabled {
		feed, handler, err := rpc.NewWebSocketServer(n.log, n.config.PubSub, n.config.EventFeedBacklog)
		if err != nil {
			return err
		}
		subs = append(subs, feed)
		n.feed = handler
	}

	rules := g.Rules
	switch {
	case n.config.StoragePricePerByte != nil:
		rules = &genesis.Rules{PricePerByte: *n.config.StoragePricePerByte}
	case rules == nil:
		rules = genesis.NewDefaultRules()
	}
	deps := token.Dependencies{
		DB:            store,
		Log:           n.log,
		Tracer:        n.tracer,
		Gatherer:      n.gatherer,
		Oracle:        rules,
		Subscriptions: subs,
	}
	n.token, err = token.Load(ctx, deps)
	if errors.Is(err, token.ErrNotInitialized) {
		n.token, err = token.New(ctx, deps, g)
	}
	return err
}

func (n *Node) initServer(listener net.Listener) error {
	apiRegistry := prometheus.NewRegistry()
	if err := n.gatherer.Register(apiNamespace, apiRegistry); err != nil {
		return err
	}
	wrapper, err := server.NewMetricsWrapper(apiNamespace, apiRegistry)
	if err != nil {
		return err
	}
	n.server = server.New(n.log, listener, n.config.Server, wrapper)

	handler, err := server.NewHandler(rpc.NewJSONRPCServer(n), rpc.Name)
	if err != nil {
		return err
	}
	if err := n.server.AddRoute(handler, rpc.JSONRPCEndpoint, ""); err != nil {
		return err
	}
	metricsHandler := promhttp.HandlerFor(n.gatherer, promhttp.HandlerOpts{})
	if err := n.server.AddRoute(metricsHandler, rpc.MetricsEndpoint, ""); err != nil {
		return err
	}
	if n.feed != nil {
		return n.server.AddRoute(n.feed, rpc.WebSocketEndpoint, "")
	}
	return nil
}

// Run recovers interrupted transfers, serves the API until [ctx] is done
// or the server fails, and then shuts the node down.
func (n *Node) Run(ctx context.Context) error {
	if err := n.scheduler.Start(ctx); err != nil {
		_ = n.close()
		return err
	}
	if n.profiler != nil {
		go n.profiler.Dispatch() //nolint:errcheck
	}

	dispatched := make(chan error, 1)
	go func() {
		dispatched <- n.server.Dispatch()
	}()
	n.log.Info("node started",
		zap.Stringer("addr", n.server.Addr()),
		zap.Stringer("version", consts.Version),
		zap.Int("receivers", len(n.receivers.Accounts())),
	)

	var err error
	select {
	case <-ctx.Done():
	case err = <-dispatched:
		n.log.Error("server stopped unexpectedly", zap.Error(err))
	}
	return errors.Join(err, n.close())
}

// close stops accepting requests, waits for in-flight transfer calls and
// then releases storage.
func (n *Node) close() error {
	errs := wrappers.Errs{}
	if n.server != nil {
		errs.Add(n.server.Shutdown())
	}
	if n.scheduler != nil {
		errs.Add(n.scheduler.Stop())
	}
	if n.profiler != nil {
		n.profiler.Shutdown()
	}
	if n.token != nil {
		errs.Add(n.token.Close())
	}
	if n.db != nil {
		errs.Add(n.db.Close())
	}
	if n.tracer != nil {
		errs.Add(n.tracer.Close())
	}
	n.log.Info("node stopped", zap.Error(errs.Err))
	return errs.Err
}

func (n *Node) Addr() net.Addr                  { return n.server.Addr() }
func (n *Node) Receivers() *receiver.Registry   { return n.receivers }
func (n *Node) Token() *token.Token             { return n.token }
func (n *Node) Scheduler() *scheduler.Scheduler { return n.scheduler }
func (n *Node) Tracer() trace.Tracer            { return n.tracer }
func (n *Node) Logger() logging.Logger          { return n.log }
