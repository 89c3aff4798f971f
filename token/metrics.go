// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "token"

type tokenMetrics struct {
	registrations prometheus.Counter
	transfers     prometheus.Counter
	transferCalls prometheus.Counter
	applied       prometheus.Counter
	reverted      prometheus.Counter
	forfeitures   prometheus.Counter
	pending       prometheus.Gauge
	eventFailures prometheus.Counter
}

func newMetrics(gatherer metrics.MultiGatherer) (*tokenMetrics, error) {
	m := &tokenMetrics{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "registrations",
			Help:      "number of accounts registered",
		}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transfers",
			Help:      "number of plain transfers",
		}),
		transferCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transfer_calls",
			Help:      "number of transfers that notify the receiver",
		}),
		applied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolved_applied",
			Help:      "number of notified transfers resolved without a refund",
		}),
		reverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolved_reverted",
			Help:      "number of notified transfers resolved with a refund",
		}),
		forfeitures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refund_forfeitures",
			Help:      "number of refunds cut short by the receiver balance",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "pending_transfers",
			Help:      "number of notified transfers awaiting resolve",
		}),
		eventFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "event_failures",
			Help:      "number of events a subscription failed to accept",
		}),
	}
	r := prometheus.NewRegistry()
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.registrations),
		r.Register(m.transfers),
		r.Register(m.transferCalls),
		r.Register(m.applied),
		r.Register(m.reverted),
		r.Register(m.forfeitures),
		r.Register(m.pending),
		r.Register(m.eventFailures),
		gatherer.Register(metricsNamespace, r),
	)
	return m, errs.Err
}
