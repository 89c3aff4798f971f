// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer"
	"go.uber.org/zap"
)

// batch is the set of messages not yet packed into Queue.
type batch struct {
	msgs [][]byte
	size int
}

func (b *batch) add(msg []byte) {
	b.msgs = append(b.msgs, msg)
	b.size += len(msg)
}

func (b *batch) reset() {
	b.msgs = nil
	b.size = 0
}

// MessageBuffer packs messages for one client into JSON arrays. A batch
// moves to Queue when the next message would push it past maxSize, when its
// first message has waited maxWait, or on Close.
type MessageBuffer struct {
	// Queue is closed by Close once the last batch is in it.
	Queue chan []byte

	log     logging.Logger
	maxSize int
	maxWait time.Duration

	lock    sync.Mutex
	current batch
	flusher *timer.Timer
	dropped int
	closed  bool
}

func NewMessageBuffer(log logging.Logger, maxBatches int, maxSize int, maxWait time.Duration) *MessageBuffer {
	m := &MessageBuffer{
		Queue:   make(chan []byte, maxBatches),
		log:     log,
		maxSize: maxSize,
		maxWait: maxWait,
	}
	m.flusher = timer.NewTimer(func() {
		m.lock.Lock()
		defer m.lock.Unlock()

		if !m.closed {
			m.flush("timeout")
		}
	})
	go m.flusher.Dispatch()
	return m
}

// Send adds [msg] to the current batch.
func (m *MessageBuffer) Send(msg []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	switch {
	case m.closed:
		return ErrClosed
	case len(msg) > m.maxSize:
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(msg), m.maxSize)
	case m.current.size+len(msg) > m.maxSize:
		m.flusher.Cancel()
		m.flush("full")
	}
	m.current.add(msg)
	if len(m.current.msgs) == 1 {
		m.flusher.SetTimeoutIn(m.maxWait)
	}
	return nil
}

// Dropped is the number of batches discarded because Queue was full.
func (m *MessageBuffer) Dropped() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.dropped
}

// Close flushes the current batch and closes Queue. The reader of Queue is
// responsible for writing whatever remains.
func (m *MessageBuffer) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.flush("close")
	m.flusher.Stop()
	m.closed = true
	close(m.Queue)
	return nil
}

// flush must be called with lock held.
func (m *MessageBuffer) flush(reason string) {
	if len(m.current.msgs) == 0 {
		return
	}
	defer m.current.reset()

	packed, err := CreateBatchMessage(m.current.msgs)
	if err != nil {
		m.log.Debug("dropping malformed batch", zap.Error(err))
		return
	}
	select {
	case m.Queue <- packed:
		m.log.Debug("flushed batch",
			zap.String("reason", reason),
			zap.Int("count", len(m.current.msgs)),
			zap.Int("size", m.current.size),
		)
	default:
		m.dropped++
		m.log.Debug("dropping batch",
			zap.String("reason", "queue full"),
			zap.Int("count", len(m.current.msgs)),
		)
	}
}
