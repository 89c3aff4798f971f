// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/tstate"
)

// GenesisMemo accompanies the Mint event of the initial supply.
const GenesisMemo = "Initial token supply is minted"

// Dependencies are the collaborators a [Token] is constructed with.
// Everything but DB is optional.
type Dependencies struct {
	DB            tstate.Database
	Log           logging.Logger
	Tracer        trace.Tracer
	Gatherer      metrics.MultiGatherer
	Oracle        genesis.PriceOracle
	Subscriptions []event.Subscription[event.Event]
}

// Token is the fungible token contract: the single owner of the ledger
// state. Every mutating method is atomic; it either commits all of its
// writes or none of them.
type Token struct {
	// l serializes writers so that each operation sees the effects of the
	// previous one.
	l sync.Mutex

	db      tstate.Database
	log     logging.Logger
	tracer  trace.Tracer
	oracle  genesis.PriceOracle
	subs    []event.Subscription[event.Event]
	metrics *tokenMetrics
}

// New runs genesis [g] on the empty database in [deps] and emits the Mint
// of the initial supply.
func New(ctx context.Context, deps Dependencies, g *genesis.Genesis) (*Token, error) {
	if deps.Oracle == nil && g.Rules != nil {
		deps.Oracle = g.Rules
	}
	t, err := newToken(deps)
	if err != nil {
		return nil, err
	}

	t.l.Lock()
	defer t.l.Unlock()

	view := tstate.New(t.db)
	bytes, err := g.InitializeState(ctx, t.tracer, view)
	if err != nil {
		return nil, err
	}
	if err := view.Commit(ctx); err != nil {
		return nil, err
	}
	t.log.Info("initialized token",
		zap.Stringer("owner", g.OwnerID),
		zap.Stringer("totalSupply", g.TotalSupply),
		zap.String("symbol", g.Metadata.Symbol),
		zap.Uint64("bytesForLongestAccountID", bytes),
	)
	t.emit(ctx, event.NewMint(g.OwnerID, g.TotalSupply, event.Memo(GenesisMemo)))
	return t, nil
}

// Load reopens a token whose genesis has already run. It fails with
// [ErrNotInitialized], without touching [deps], if genesis never ran.
func Load(ctx context.Context, deps Dependencies) (*Token, error) {
	bytes, err := ledger.New(tstate.New(deps.DB)).BytesForLongestAccountID(ctx)
	if err != nil {
		return nil, err
	}
	if bytes == 0 {
		return nil, ErrNotInitialized
	}
	t, err := newToken(deps)
	if err != nil {
		return nil, err
	}
	pending, err := listPending(ctx, t.db)
	if err != nil {
		return nil, err
	}
	t.metrics.pending.Set(float64(len(pending)))
	t.log.Info("loaded token",
		zap.Uint64("bytesForLongestAccountID", bytes),
		zap.Int("pendingTransfers", len(pending)),
	)
	return t, nil
}

func newToken(deps Dependencies) (*Token, error) {
	if deps.Log == nil {
		deps.Log = logging.NoLog{}
	}
	if deps.Tracer == nil {
		deps.Tracer = trace.Noop
	}
	if deps.Gatherer == nil {
		deps.Gatherer = metrics.NewPrefixGatherer()
	}
	if deps.Oracle == nil {
		deps.Oracle = genesis.NewDefaultRules()
	}
	m, err := newMetrics(deps.Gatherer)
	if err != nil {
		return nil, err
	}
	return &Token{
		db:      deps.DB,
		log:     deps.Log,
		tracer:  deps.Tracer,
		oracle:  deps.Oracle,
		subs:    deps.Subscriptions,
		metrics: m,
	}, nil
}

// update runs [f] against a fresh view and commits the view only if [f]
// succeeds. Events returned by [f] are emitted after the commit.
func (t *Token) update(ctx context.Context, f func(*ledger.Ledger, *tstate.TStateView) ([]event.Event, error)) error {
	t.l.Lock()
	defer t.l.Unlock()

	view := tstate.New(t.db)
	events, err := f(ledger.New(view), view)
	if err != nil {
		return err
	}
	if err := view.Commit(ctx); err != nil {
		return err
	}
	t.emit(ctx, events...)
	return nil
}

// read returns a ledger over a view that is never committed.
func (t *Token) read() *ledger.Ledger {
	return ledger.New(tstate.New(t.db))
}

// emit delivers events to every subscription. Subscription failures are
// logged and never reach the caller.
func (t *Token) emit(ctx context.Context, events ...event.Event) {
	for _, e := range events {
		if err := event.NotifyAll(ctx, e, t.subs...); err != nil {
			t.metrics.eventFailures.Inc()
			t.log.Warn("event subscription failed",
				zap.Stringer("kind", e.Kind),
				zap.Error(err),
			)
		}
	}
}

// Close closes every subscription.
func (t *Token) Close() error {
	return event.CloseAll(t.subs...)
}

func (t *Token) Metadata(ctx context.Context) (*genesis.Metadata, error) {
	return genesis.GetMetadata(ctx, t.db)
}

func (t *Token) TotalSupply(ctx context.Context) (codec.Amount, error) {
	l := t.read()
	return l.TotalSupply(ctx)
}

func (t *Token) BalanceOf(ctx context.Context, id codec.AccountID) (codec.Amount, error) {
	l := t.read()
	return l.BalanceOf(ctx, id)
}

func (t *Token) IsRegistered(ctx context.Context, id codec.AccountID) (bool, error) {
	l := t.read()
	return l.IsRegistered(ctx, id)
}

// Register creates [id] with a zero balance without collecting a deposit.
// It returns false if [id] was already registered.
func (t *Token) Register(ctx context.Context, id codec.AccountID) (bool, error) {
	var registered bool
	err := t.update(ctx, func(l *ledger.Ledger, _ *tstate.TStateView) ([]event.Event, error) {
		var err error
		registered, err = l.Register(ctx, id)
		return nil, err
	})
	if err != nil {
		return false, err
	}
	if registered {
		t.metrics.registrations.Inc()
	}
	return registered, nil
}

// Unregister removes an account holding no tokens.
func (t *Token) Unregister(ctx context.Context, id codec.AccountID) error {
	return t.update(ctx, func(l *ledger.Ledger, _ *tstate.TStateView) ([]event.Event, error) {
		return nil, l.Unregister(ctx, id)
	})
}

// PendingTransfers lists notified transfers still awaiting [Token.Resolve],
// oldest first.
func (t *Token) PendingTransfers(ctx context.Context) ([]*PendingTransfer, error) {
	t.l.Lock()
	defer t.l.Unlock()

	return listPending(ctx, t.db)
}
