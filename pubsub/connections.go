// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections is a concurrent set of clients. The server keeps one for every
// open connection and callers keep their own for the clients that asked to
// hear about something.
type Connections struct {
	lock  sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections() *Connections {
	return &Connections{conns: set.NewSet[*Connection](0)}
}

// Add returns false if [conn] was already in the set.
func (c *Connections) Add(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.conns.Contains(conn) {
		return false
	}
	c.conns.Add(conn)
	return true
}

// Remove returns false if [conn] was not in the set.
func (c *Connections) Remove(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.conns.Contains(conn) {
		return false
	}
	c.conns.Remove(conn)
	return true
}

// RemoveAll drops every connection in [conns] and returns how many were
// present.
func (c *Connections) RemoveAll(conns []*Connection) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	removed := 0
	for _, conn := range conns {
		if c.conns.Contains(conn) {
			c.conns.Remove(conn)
			removed++
		}
	}
	return removed
}

func (c *Connections) Has(conn *Connection) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Contains(conn)
}

// Conns returns a snapshot of the set.
func (c *Connections) Conns() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.List()
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Len()
}
