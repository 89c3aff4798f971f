// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scheduler serializes requests that touch the same accounts and
// drives every notified transfer through its receiver call to resolution.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/lockmap"
	"github.com/ava-labs/ftledger/receiver"
	"github.com/ava-labs/ftledger/token"
)

// Receivers resolves the receiver that handles notifications for an
// account.
type Receivers interface {
	Get(id codec.AccountID) (receiver.Receiver, error)
}

// Call is a notified transfer handed to a worker.
type Call struct {
	Transfer *token.PendingTransfer

	release func()
	done    chan struct{}
	kept    codec.Amount
	err     error
}

// Wait blocks until the call is resolved or [ctx] is done, and returns the
// amount the receiver kept. A cancelled wait does not cancel the call.
func (c *Call) Wait(ctx context.Context) (codec.Amount, error) {
	select {
	case <-c.done:
		return c.kept, c.err
	case <-ctx.Done():
		return codec.ZeroAmount, ctx.Err()
	}
}

func (c *Call) finish(kept codec.Amount, err error) {
	c.kept = kept
	c.err = err
	c.release()
	close(c.done)
}

// Scheduler owns every write to a [token.Token] made on behalf of
// external requests. Requests touching disjoint accounts run concurrently;
// requests sharing an account run one at a time. The locks taken by
// TransferCall are held until its resolve completes.
type Scheduler struct {
	cfg       Config
	log       logging.Logger
	token     *token.Token
	receivers Receivers
	locks     *lockmap.Lockmap

	// l guards sends on calls against Stop closing it
	l       sync.RWMutex
	started bool
	stopped bool
	calls   chan *Call

	inFlight atomic.Int64
	eg       errgroup.Group
}

func New(cfg Config, log logging.Logger, tk *token.Token, receivers Receivers) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.ReceiverTimeout <= 0 {
		cfg.ReceiverTimeout = NewDefaultConfig().ReceiverTimeout
	}
	return &Scheduler{
		cfg:       cfg,
		log:       log,
		token:     tk,
		receivers: receivers,
		locks:     lockmap.New(cfg.Backlog),
		calls:     make(chan *Call, cfg.Backlog),
	}
}

// Start resolves transfers left pending by a previous process as failed
// and then starts the workers.
func (s *Scheduler) Start(ctx context.Context) error {
	pending, err := s.token.PendingTransfers(ctx)
	if err != nil {
		return err
	}
	for _, p := range pending {
		kept, err := s.token.Resolve(ctx, p.ID, token.Failed(ErrInterrupted))
		if err != nil {
			return fmt.Errorf("failed to recover transfer %s: %w", p.ID, err)
		}
		s.log.Info("recovered interrupted transfer",
			zap.Stringer("id", p.ID),
			zap.Stringer("sender", p.Sender),
			zap.Stringer("receiver", p.Receiver),
			zap.Stringer("kept", kept),
		)
	}

	s.l.Lock()
	defer s.l.Unlock()
	if s.stopped {
		return ErrStopped
	}
	for i := 0; i < s.cfg.Workers; i++ {
		s.eg.Go(s.work)
	}
	s.started = true
	s.log.Info("scheduler started",
		zap.Int("workers", s.cfg.Workers),
		zap.Int("recovered", len(pending)),
	)
	return nil
}

// Stop waits for every accepted call to be resolved. Calls submitted after
// Stop fail with [ErrStopped].
func (s *Scheduler) Stop() error {
	s.l.Lock()
	if s.stopped {
		s.l.Unlock()
		return nil
	}
	s.stopped = true
	close(s.calls)
	started := s.started
	s.l.Unlock()

	if !started {
		return nil
	}
	err := s.eg.Wait()
	s.log.Info("scheduler stopped")
	return err
}

// InFlight is the number of notified transfers not yet resolved.
func (s *Scheduler) InFlight() int64 {
	return s.inFlight.Load()
}

func (s *Scheduler) Register(ctx context.Context, id codec.AccountID) (bool, error) {
	release := s.locks.LockAll(id.String())
	defer release()

	return s.token.Register(ctx, id)
}

func (s *Scheduler) Unregister(ctx context.Context, id codec.AccountID) error {
	release := s.locks.LockAll(id.String())
	defer release()

	return s.token.Unregister(ctx, id)
}

func (s *Scheduler) StorageDeposit(ctx context.Context, id codec.AccountID, attached codec.Amount) (*token.StorageDepositResult, error) {
	release := s.locks.LockAll(id.String())
	defer release()

	return s.token.StorageDeposit(ctx, id, attached)
}

func (s *Scheduler) Transfer(
	ctx context.Context,
	sender codec.AccountID,
	receiver codec.AccountID,
	amount codec.Amount,
	memo *string,
) error {
	release := s.locks.LockAll(sender.String(), receiver.String())
	defer release()

	return s.token.Transfer(ctx, sender, receiver, amount, memo)
}

// TransferCall transfers [amount] and queues the notification of
// [receiver]. The returned call always resolves, even if the receiver
// fails, hangs or panics.
func (s *Scheduler) TransferCall(
	ctx context.Context,
	sender codec.AccountID,
	receiver codec.AccountID,
	amount codec.Amount,
	payload []byte,
	memo *string,
) (*Call, error) {
	s.l.RLock()
	defer s.l.RUnlock()
	switch {
	case s.stopped:
		return nil, ErrStopped
	case !s.started:
		return nil, ErrNotStarted
	}

	release := s.locks.LockAll(sender.String(), receiver.String())
	p, err := s.token.TransferAndNotify(ctx, sender, receiver, amount, payload, memo)
	if err != nil {
		release()
		return nil, err
	}
	s.inFlight.Inc()
	c := &Call{
		Transfer: p,
		release:  release,
		done:     make(chan struct{}),
	}
	// Stop can't close calls while we hold l, and workers keep draining it.
	s.calls <- c
	return c, nil
}

// work drains calls until Stop. A ledger failure does not stop the worker,
// since queued calls still hold their account locks; the first one is
// reported by Stop.
func (s *Scheduler) work() error {
	var firstErr error
	for c := range s.calls {
		if err := s.process(c); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// process notifies the receiver of [c] and resolves it with the outcome.
// An error is returned only if the ledger itself failed.
func (s *Scheduler) process(c *Call) error {
	p := c.Transfer
	start := time.Now()
	outcome := s.notify(p)
	kept, err := s.token.Resolve(context.Background(), p.ID, outcome)
	s.inFlight.Dec()
	c.finish(kept, err)
	if err != nil {
		s.log.Error("failed to resolve transfer",
			zap.Stringer("id", p.ID),
			zap.Error(err),
		)
		return err
	}
	s.log.Debug("processed transfer call",
		zap.Stringer("id", p.ID),
		zap.Stringer("kept", kept),
		zap.Duration("t", time.Since(start)),
	)
	return nil
}

type notifyResult struct {
	used codec.Amount
	err  error
}

func (s *Scheduler) notify(p *token.PendingTransfer) token.Outcome {
	r, err := s.receivers.Get(p.Receiver)
	if err != nil {
		return token.Failed(fmt.Errorf("%w: %w", token.ErrReceiverFailure, err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ReceiverTimeout)
	defer cancel()

	results := make(chan notifyResult, 1)
	go func() {
		results <- call(ctx, r, p)
	}()
	select {
	case res := <-results:
		if res.err != nil {
			return token.Failed(res.err)
		}
		return token.Used(res.used)
	case <-ctx.Done():
		s.log.Warn("receiver timed out",
			zap.Stringer("id", p.ID),
			zap.Stringer("receiver", p.Receiver),
			zap.Duration("timeout", s.cfg.ReceiverTimeout),
		)
		return token.Failed(ErrTimeout)
	}
}

func call(ctx context.Context, r receiver.Receiver, p *token.PendingTransfer) (res notifyResult) {
	defer func() {
		if v := recover(); v != nil {
			res = notifyResult{err: fmt.Errorf("%w: %v", ErrPanic, v)}
		}
	}()
	used, err := r.OnTransfer(ctx, p.Sender, p.Amount, p.Payload)
	if err != nil {
		err = fmt.Errorf("%w: %w", token.ErrReceiverFailure, err)
	}
	return notifyResult{used: used, err: err}
}
