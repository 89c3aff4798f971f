// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsInterval = 10 * time.Second
	namespace       = "ledger_db"
)

// metrics covers the reads and batch commits the ledger issues plus the
// background work pebble reports through its event listener.
type metrics struct {
	readLatency   metric.Averager
	commitLatency metric.Averager
	stallDuration metric.Averager

	commits     prometheus.Counter
	commitBytes prometheus.Counter
	stalls      prometheus.Counter
	compactions prometheus.Counter
	compacting  prometheus.Gauge
	tombstones  prometheus.Gauge
	diskUsage   prometheus.Gauge

	stallLock  sync.Mutex
	stallStart time.Time
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_commits",
			Help:      "number of committed write batches",
		}),
		commitBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_commit_bytes",
			Help:      "bytes of keys and values in committed write batches",
		}),
		stalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_stalls",
			Help:      "number of write stalls",
		}),
		compactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions started",
		}),
		compacting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of running compactions",
		}),
		tombstones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tombstone_count",
			Help:      "approximate count of internal tombstones",
		}),
		diskUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_usage",
			Help:      "bytes of disk used by the ledger database",
		}),
	}

	errs := wrappers.Errs{}
	averager := func(name, help string) metric.Averager {
		a, err := metric.NewAverager(namespace+"_"+name, help, r)
		errs.Add(err)
		return a
	}
	m.readLatency = averager("read_latency", "time spent in point reads")
	m.commitLatency = averager("commit_latency", "time spent committing write batches")
	m.stallDuration = averager("write_stall", "time writes were stalled")
	errs.Add(
		r.Register(m.commits),
		r.Register(m.commitBytes),
		r.Register(m.stalls),
		r.Register(m.compactions),
		r.Register(m.compacting),
		r.Register(m.tombstones),
		r.Register(m.diskUsage),
	)
	return r, m, errs.Err
}

func (m *metrics) observeCommit(start time.Time, size int) {
	m.commitLatency.Observe(float64(time.Since(start)))
	m.commits.Inc()
	m.commitBytes.Add(float64(size))
}

func (m *metrics) listener() *pebble.EventListener {
	return &pebble.EventListener{
		CompactionBegin: func(pebble.CompactionInfo) {
			m.compactions.Inc()
			m.compacting.Inc()
		},
		CompactionEnd: func(pebble.CompactionInfo) {
			m.compacting.Dec()
		},
		WriteStallBegin: func(pebble.WriteStallBeginInfo) {
			m.stallLock.Lock()
			m.stallStart = time.Now()
			m.stallLock.Unlock()
			m.stalls.Inc()
		},
		WriteStallEnd: func() {
			m.stallLock.Lock()
			m.stallDuration.Observe(float64(time.Since(m.stallStart)))
			m.stallLock.Unlock()
		},
	}
}

// collect samples the database until [closing] is closed.
func (m *metrics) collect(db *pebble.DB, closing <-chan struct{}) {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			stats := db.Metrics()
			m.tombstones.Set(float64(stats.Keys.TombstoneCount))
			m.diskUsage.Set(float64(stats.DiskSpaceUsage()))
		case <-closing:
			return
		}
	}
}
