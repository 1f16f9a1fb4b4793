// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package logging configures the command line logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Config holds the logger configuration.
type Config struct {
	Level  log.Level
	Output io.Writer
	JSON   bool
}

// DefaultConfig returns the default logger configuration: warnings and
// errors as text on stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  log.WarnLevel,
		Output: os.Stderr,
	}
}

// New creates a logger from cfg. A nil cfg selects DefaultConfig.
func New(cfg *Config) *log.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:  cfg.Level,
		Prefix: "jsontmpl",
	})
	if cfg.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// ParseLevel maps a level name to a log level. Unknown names select the
// warn level.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(name) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	}
	return log.WarnLevel
}
