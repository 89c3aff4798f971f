// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, config Config, wrappers ...Wrapper) Server {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := New(logging.NoLog{}, listener, config, wrappers...)
	go func() {
		_ = s.Dispatch()
	}()
	t.Cleanup(func() {
		err := s.Shutdown()
		require.True(t, err == nil || errors.Is(err, http.ErrServerClosed))
	})
	return s
}

func get(t *testing.T, s Server, host string, path string) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://%s%s", s.Addr(), path), nil)
	require.NoError(t, err)
	if host != "" {
		req.Host = host
	}
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		body, err = gzip.NewReader(resp.Body)
		require.NoError(t, err)
	}
	b, err := io.ReadAll(body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestServerRoutes(t *testing.T) {
	require := require.New(t)

	reg := prometheus.NewRegistry()
	wrapper, err := NewMetricsWrapper("api", reg)
	require.NoError(err)
	s := newTestServer(t, NewDefaultConfig(), wrapper)

	large := strings.Repeat("spud", 1024)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(large))
	})
	require.NoError(s.AddRoute(handler, "ft", ""))
	require.ErrorIs(s.AddRoute(handler, "ft", ""), errAlreadyReserved)

	resp, body := get(t, s, "", BaseURL+"/ft")
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Equal("gzip", resp.Header.Get("Content-Encoding"))
	require.Equal(large, body)

	resp, _ = get(t, s, "", BaseURL+"/missing")
	require.Equal(http.StatusNotFound, resp.StatusCode)

	families, err := reg.Gather()
	require.NoError(err)
	require.Len(families, 2)
}

func TestAllowedHosts(t *testing.T) {
	require := require.New(t)

	s := newTestServer(t, NewDefaultConfig())
	require.NoError(s.AddRoute(http.NotFoundHandler(), "ft", ""))

	resp, _ := get(t, s, "evil.com", BaseURL+"/ft")
	require.Equal(http.StatusForbidden, resp.StatusCode)
	resp, _ = get(t, s, "localhost:9650", BaseURL+"/ft")
	require.Equal(http.StatusNotFound, resp.StatusCode)

	config := NewDefaultConfig()
	config.AllowedHosts = []string{wildcard}
	s = newTestServer(t, config)
	require.NoError(s.AddRoute(http.NotFoundHandler(), "ft", ""))
	resp, _ = get(t, s, "evil.com", BaseURL+"/ft")
	require.Equal(http.StatusNotFound, resp.StatusCode)
}
