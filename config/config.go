// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/pebble"
	"github.com/ava-labs/ftledger/pubsub"
	"github.com/ava-labs/ftledger/scheduler"
	"github.com/ava-labs/ftledger/server"
	"github.com/ava-labs/ftledger/trace"
)

const (
	defaultDataDir                     = ".ftledger"
	defaultHTTPAddress                 = "127.0.0.1:9650"
	defaultLogMaxSize                  = 8 // megabytes
	defaultLogMaxFiles                 = 7
	defaultLogMaxAge                   = 30 // days
	defaultEventFeedBacklog            = 1_024
	defaultContinuousProfilerFrequency = 1 * time.Minute
	defaultContinuousProfilerMaxFiles  = 10
)

var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrMissingGenesis = errors.New("missing genesis file")
)

type Config struct {
	// Logging
	LogLevel     logging.Level `json:"logLevel"`
	DisplayLevel logging.Level `json:"displayLevel"`
	LogFile      string        `json:"logFile"` // empty disables file logging
	LogMaxSize   int           `json:"logMaxSize"`
	LogMaxFiles  int           `json:"logMaxFiles"`
	LogMaxAge    int           `json:"logMaxAge"`
	LogCompress  bool          `json:"logCompress"`

	// Storage
	DataDir     string        `json:"dataDir"`
	GenesisFile string        `json:"genesisFile"`
	Pebble      pebble.Config `json:"pebble"`

	// StoragePricePerByte overrides the price in the genesis rules.
	StoragePricePerByte *codec.Amount `json:"storagePricePerByte"`

	// Scheduler
	SchedulerWorkers int `json:"schedulerWorkers"`
	SchedulerBacklog int `json:"schedulerBacklog"`
	// ReceiverTimeout bounds each ft_on_transfer call. Receivers that call
	// back into this node for the same sender or receiver block until it
	// fires, and the transfer is then refunded in full.
	ReceiverTimeout time.Duration `json:"receiverTimeout"`

	// Receivers maps an account to the URI of the JSON-RPC service that
	// handles its transfer notifications.
	Receivers map[codec.AccountID]string `json:"receivers"`

	// API
	HTTPAddress string        `json:"httpAddress"`
	Server      server.Config `json:"server"`

	// Event feed
	EventFeedEnabled bool                `json:"eventFeedEnabled"`
	EventFeedBacklog int                 `json:"eventFeedBacklog"`
	PubSub           pubsub.ServerConfig `json:"pubsub"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"`

	// Profiling
	ContinuousProfilerDir string `json:"continuousProfilerDir"` // "*" is replaced with the pid
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	return c, c.Verify()
}

func (c *Config) setDefault() {
	schedulerConfig := scheduler.NewDefaultConfig()
	c.LogLevel = logging.Info
	c.DisplayLevel = logging.Info
	c.LogMaxSize = defaultLogMaxSize
	c.LogMaxFiles = defaultLogMaxFiles
	c.LogMaxAge = defaultLogMaxAge
	c.DataDir = defaultDataDir
	c.Pebble = pebble.NewDefaultConfig()
	c.SchedulerWorkers = schedulerConfig.Workers
	c.SchedulerBacklog = schedulerConfig.Backlog
	c.ReceiverTimeout = schedulerConfig.ReceiverTimeout
	c.HTTPAddress = defaultHTTPAddress
	c.Server = server.NewDefaultConfig()
	c.EventFeedEnabled = true
	c.EventFeedBacklog = defaultEventFeedBacklog
	c.PubSub = pubsub.NewDefaultServerConfig()
}

func (c *Config) Verify() error {
	switch {
	case len(c.GenesisFile) == 0:
		return ErrMissingGenesis
	case len(c.DataDir) == 0:
		return fmt.Errorf("%w: empty dataDir", ErrInvalidConfig)
	case c.SchedulerWorkers <= 0:
		return fmt.Errorf("%w: schedulerWorkers=%d", ErrInvalidConfig, c.SchedulerWorkers)
	case c.SchedulerBacklog < 0:
		return fmt.Errorf("%w: schedulerBacklog=%d", ErrInvalidConfig, c.SchedulerBacklog)
	case c.ReceiverTimeout <= 0:
		return fmt.Errorf("%w: receiverTimeout=%s", ErrInvalidConfig, c.ReceiverTimeout)
	case c.EventFeedEnabled && c.EventFeedBacklog <= 0:
		return fmt.Errorf("%w: eventFeedBacklog=%d", ErrInvalidConfig, c.EventFeedBacklog)
	}
	if c.TraceEnabled {
		if err := c.GetTraceConfig().Verify(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for id, uri := range c.Receivers {
		if err := id.Verify(); err != nil {
			return fmt.Errorf("%w: receiver %q: %w", ErrInvalidConfig, id, err)
		}
		if len(uri) == 0 {
			return fmt.Errorf("%w: receiver %s has no uri", ErrInvalidConfig, id)
		}
	}
	return nil
}

func (c *Config) GetSchedulerConfig() scheduler.Config {
	return scheduler.Config{
		Workers:         c.SchedulerWorkers,
		Backlog:         c.SchedulerBacklog,
		ReceiverTimeout: c.ReceiverTimeout,
	}
}

func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		Endpoint:        c.TraceEndpoint,
		AppName:         consts.Name,
		Agent:           consts.Name,
		Version:         consts.Version.String(),
	}
}

func (c *Config) GetContinuousProfilerConfig(pid int) *profiler.Config {
	if len(c.ContinuousProfilerDir) == 0 {
		return &profiler.Config{Enabled: false}
	}
	// Replace all instances of "*" with the pid. This is useful when
	// running multiple ledgers on the same machine.
	return &profiler.Config{
		Enabled:     true,
		Dir:         strings.ReplaceAll(c.ContinuousProfilerDir, "*", fmt.Sprint(pid)),
		Freq:        defaultContinuousProfilerFrequency,
		MaxNumFiles: defaultContinuousProfilerMaxFiles,
	}
}
