// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

var (
	_ database.KeyValueReader  = (*Database)(nil)
	_ database.KeyValueWriter  = (*Database)(nil)
	_ database.KeyValueDeleter = (*Database)(nil)
	_ database.Batcher         = (*Database)(nil)
	_ database.Batch           = (*batch)(nil)
	_ io.Closer                = (*batch)(nil)
)

type Config struct {
	CacheSize                   int64  `json:"cacheSize"`
	BytesPerSync                int    `json:"bytesPerSync"`
	WALBytesPerSync             int    `json:"walBytesPerSync"`
	MemTableStopWritesThreshold int    `json:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `json:"memTableSize"`
	MaxOpenFiles                int    `json:"maxOpenFiles"`
	ConcurrentCompactions       int    `json:"concurrentCompactions"`
	Sync                        bool   `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   64 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database is a persistent key-value store backed by pebble.
type Database struct {
	db           *pebble.DB
	writeOptions *pebble.WriteOptions
	metrics      *metrics
	openBatches  atomic.Int64

	closing chan struct{}
	closed  sync.Once
}

// New opens (or creates) a database at [file] and returns the registry its
// metrics are reported to.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics: metrics,
		closing: make(chan struct{}),
	}
	if cfg.Sync {
		d.writeOptions = pebble.Sync
	} else {
		d.writeOptions = pebble.NoSync
	}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(cfg.CacheSize),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener:               metrics.listener(),
	}
	db, err := pebble.Open(file, opts)
	opts.Cache.Unref()
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	go metrics.collect(db, d.closing)
	return d, registry, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		db.metrics.readLatency.Observe(float64(time.Since(start)))
	}()

	data, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// [data] is only valid until [closer] is closed
	v := make([]byte, len(data))
	copy(v, data)
	return v, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Set(key, value, db.writeOptions)
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, db.writeOptions)
}

func (db *Database) NewBatch() database.Batch {
	db.openBatches.Inc()
	return &batch{db: db, b: db.db.NewBatch()}
}

// OpenBatches is the number of batches created and not yet written or
// closed.
func (db *Database) OpenBatches() int64 {
	return db.openBatches.Load()
}

func (db *Database) Close() error {
	err := database.ErrClosed
	db.closed.Do(func() {
		close(db.closing)
		err = db.db.Close()
	})
	return err
}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db     *Database
	b      *pebble.Batch
	ops    []batchOp
	size   int
	closed bool
}

func (b *batch) Put(key []byte, value []byte) error {
	b.ops = append(b.ops, batchOp{key: key, value: value})
	b.size += len(key) + len(value)
	return b.b.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: key, delete: true})
	b.size += len(key)
	return b.b.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

// Write commits the batch and releases it, whether or not the commit
// succeeds. A written batch must be [Reset] before it is reused.
func (b *batch) Write() error {
	start := time.Now()
	err := b.b.Commit(b.db.writeOptions)
	if err == nil {
		b.db.metrics.observeCommit(start, b.size)
	}
	return errors.Join(err, b.Close())
}

// Close releases the batch without committing it. It is a no-op once the
// batch is written or closed.
func (b *batch) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.db.openBatches.Dec()
	return b.b.Close()
}

func (b *batch) Reset() {
	_ = b.Close()
	b.db.openBatches.Inc()
	b.b = b.db.db.NewBatch()
	b.closed = false
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, op := range b.ops {
		if op.delete {
			if err := w.Delete(op.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(op.key, op.value); err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
