// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	uri := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return conn
}

// read collects [n] messages, however they were batched.
func read(t *testing.T, conn *websocket.Conn, n int) [][]byte {
	msgs := [][]byte{}
	for len(msgs) < n {
		_, batch, err := conn.ReadMessage()
		require.NoError(t, err)
		parsed, err := ParseBatchMessage(1024, batch)
		require.NoError(t, err)
		msgs = append(msgs, parsed...)
	}
	return msgs
}

func waitForConns(t *testing.T, s *Server, n int) {
	require.Eventually(t, func() bool {
		return s.Connections().Len() == n
	}, time.Second, 5*time.Millisecond)
}

// TestServerPublish adds a connection to a server then publishes a msg to
// be sent to all connections. Checks the message was delivered and the
// connection is removed once closed.
func TestServerPublish(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, NewDefaultServerConfig(), nil)
	srv := httptest.NewServer(s)
	defer srv.Close()

	conn := dial(t, srv)
	waitForConns(t, s, 1)

	inactive := s.Publish([]byte(`{"n":1}`), s.Connections())
	require.Empty(inactive)
	inactive = s.Publish([]byte(`{"n":2}`), s.Connections())
	require.Empty(inactive)

	require.Equal([][]byte{[]byte(`{"n":1}`), []byte(`{"n":2}`)}, read(t, conn, 2))

	require.NoError(conn.Close())
	waitForConns(t, s, 0)
}

func TestServerCallback(t *testing.T) {
	require := require.New(t)

	received := make(chan []byte, 2)
	s := New(logging.NoLog{}, NewDefaultServerConfig(), func(msg []byte, c *Connection) {
		received <- msg
		c.Send([]byte(`"ack"`))
	})
	srv := httptest.NewServer(s)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.NoError(conn.WriteMessage(websocket.TextMessage, []byte(`[{"a":1},{"b":2}]`)))

	require.Equal([]byte(`{"a":1}`), <-received)
	require.Equal([]byte(`{"b":2}`), <-received)

	require.Equal([][]byte{[]byte(`"ack"`), []byte(`"ack"`)}, read(t, conn, 2))
}

func TestParseBatchMessage(t *testing.T) {
	require := require.New(t)

	msgs, err := ParseBatchMessage(64, []byte(`{"since":3}`))
	require.NoError(err)
	require.Equal([][]byte{[]byte(`{"since":3}`)}, msgs)

	_, err = ParseBatchMessage(64, []byte(`{"since"`))
	require.Error(err)

	_, err = ParseBatchMessage(4, []byte(`[1,2,3]`))
	require.ErrorIs(err, ErrMessageTooLarge)

	b, err := CreateBatchMessage([][]byte{[]byte(`1`), []byte(`"x"`)})
	require.NoError(err)
	require.Equal(`[1,"x"]`, string(b))
}

func TestMessageBuffer(t *testing.T) {
	require := require.New(t)

	mb := NewMessageBuffer(logging.NoLog{}, 4, 8, time.Hour)
	require.ErrorIs(mb.Send([]byte(`"123456789"`)), ErrMessageTooLarge)

	// the second message overflows the batch and flushes the first
	require.NoError(mb.Send([]byte(`"1234"`)))
	require.NoError(mb.Send([]byte(`"5678"`)))
	require.Equal(`["1234"]`, string(<-mb.Queue))

	require.NoError(mb.Close())
	require.Equal(`["5678"]`, string(<-mb.Queue))
	_, ok := <-mb.Queue
	require.False(ok)
	require.ErrorIs(mb.Close(), ErrClosed)
	require.ErrorIs(mb.Send([]byte(`1`)), ErrClosed)
}

func TestMessageBufferDropsWhenFull(t *testing.T) {
	require := require.New(t)

	mb := NewMessageBuffer(logging.NoLog{}, 1, 4, time.Hour)
	for _, msg := range []string{`"a"`, `"b"`, `"c"`} {
		require.NoError(mb.Send([]byte(msg)))
	}
	// "a" filled the queue so "b" had nowhere to go
	require.Equal(1, mb.Dropped())
	require.Equal(`["a"]`, string(<-mb.Queue))
	require.NoError(mb.Close())
	require.Equal(`["c"]`, string(<-mb.Queue))
}

func TestConnections(t *testing.T) {
	require := require.New(t)

	a, b := &Connection{}, &Connection{}
	conns := NewConnections()
	require.True(conns.Add(a))
	require.False(conns.Add(a))
	require.True(conns.Add(b))
	require.Equal(2, conns.Len())
	require.ElementsMatch([]*Connection{a, b}, conns.Conns())

	require.True(conns.Remove(a))
	require.False(conns.Remove(a))
	require.False(conns.Has(a))
	require.Equal(1, conns.RemoveAll([]*Connection{a, b}))
	require.Zero(conns.Len())
}
