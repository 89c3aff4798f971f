// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/ftledger/config"
	"github.com/ava-labs/ftledger/consts"
)

// NewLogger writes to [console] at the display level and, if a log file is
// configured, to a rotated JSON log at the log level.
func NewLogger(c *config.Config, console io.WriteCloser) logging.Logger {
	if console == nil {
		console = os.Stdout
	}
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(c.DisplayLevel, console, logging.Colors.ConsoleEncoder()),
	}
	if len(c.LogFile) > 0 {
		rw := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.LogMaxSize,  // megabytes
			MaxAge:     c.LogMaxAge,   // days
			MaxBackups: c.LogMaxFiles, // files
			Compress:   c.LogCompress,
		}
		cores = append(cores, logging.NewWrappedCore(c.LogLevel, rw, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger(consts.Name, cores...)
}
