// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging provides the leveled logger used across doi-jekyll.
// Console output goes through github.com/goliatone/go-logger; tests use
// NoOp or a recorder that satisfies Logger.
package logging

import (
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the leveled contract the pipeline logs through. Messages take
// alternating key/value arguments.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LevelForVerbosity maps the -v count to a level name:
// 0 error, 1 warn, 2 info, 3 and above debug.
func LevelForVerbosity(count int) string {
	switch {
	case count <= 0:
		return "error"
	case count == 1:
		return "warn"
	case count == 2:
		return "info"
	default:
		return "debug"
	}
}

// New returns a console logger named name at the given level
// (debug, info, warn or error; anything else means error).
func New(name, level string) Logger {
	root := glog.NewLogger(
		glog.WithLevel(normalizeLevel(level)),
		glog.WithLoggerTypeConsole(),
	)
	if name = strings.TrimSpace(name); name != "" {
		return root.GetLogger(name)
	}
	return root
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	default:
		return glog.Error
	}
}

// NoOp returns a Logger that discards everything.
func NoOp() Logger { return noop{} }

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}
