// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace builds the tracer the ledger records request spans with.
package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	DefaultEndpoint = "http://localhost:9411/api/v2/spans"

	exportTimeout   = 10 * time.Second
	shutdownTimeout = exportTimeout + 5*time.Second
)

var ErrInvalidSampleRate = errors.New("trace sample rate must be in [0, 1]")

// Config selects whether spans are recorded and where they are sent.
type Config struct {
	Enabled bool `json:"enabled"`

	// TraceSampleRate is the fraction of root spans kept.
	TraceSampleRate float64 `json:"traceSampleRate"`

	// Endpoint is the zipkin collector. Empty means [DefaultEndpoint].
	Endpoint string `json:"endpoint"`

	AppName string `json:"appName"`
	Agent   string `json:"agent"`
	Version string `json:"version"`
}

func (c *Config) Verify() error {
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, c.TraceSampleRate)
	}
	return nil
}

func (c *Config) endpoint() string {
	if len(c.Endpoint) == 0 {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// New returns [trace.Noop] when tracing is disabled. Otherwise sampled spans
// are exported to the zipkin collector in batches.
func New(config *Config) (trace.Tracer, error) {
	if !config.Enabled {
		return trace.Noop, nil
	}
	if err := config.Verify(); err != nil {
		return nil, err
	}
	exporter, err := zipkin.New(config.endpoint())
	if err != nil {
		return nil, err
	}
	service := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(config.Agent),
		attribute.String("version", config.Version),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(service),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.TraceSampleRate))),
	)
	return &tracer{
		Tracer:   provider.Tracer(config.AppName),
		provider: provider,
	}, nil
}

type tracer struct {
	oteltrace.Tracer

	provider *sdktrace.TracerProvider
}

// Close flushes buffered spans.
func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return t.provider.Shutdown(ctx)
}
