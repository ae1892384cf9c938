// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package clog wires up the process-wide logging backend: a rotating
// file writer plus stdout, fanned out into per-subsystem btclog.Logger
// instances the way every btcsuite-lineage node does it. The checkpoint
// package exposes its own UseLogger(btclog.Logger), and this package
// registers its subsystem logger under the CKPT tag.
package clog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/cnreserve/cnrd/consensus/checkpoint"
)

// logWriter implements io.Writer and plugs the rotator in as the backend
// for the stdlib-free btclog.Backend.
type logWriter struct{}

var (
	backendLog *btclog.Backend
	logRotator *rotator.Rotator
)

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// subsystemTags lists every subsystem this node logs under. CKPT is the
// checkpoint registry; more tags are added here as other packages grow
// their own UseLogger hook.
var subsystemTags = []string{"CKPT"}

// subsystemLoggers maps each subsystem tag to its logger, created at
// btclog's default info level until SetLogLevel(s) changes it.
var subsystemLoggers map[string]btclog.Logger

func init() {
	backendLog = btclog.NewBackend(logWriter{})
	subsystemLoggers = make(map[string]btclog.Logger, len(subsystemTags))
	for _, tag := range subsystemTags {
		subsystemLoggers[tag] = backendLog.Logger(tag)
	}
	checkpoint.UseLogger(subsystemLoggers["CKPT"])
}

// InitLogRotator initialises the rolling log file at logFile, creating
// its parent directory if necessary. It must be called once at process
// start before any subsystem logs anything meaningful, and is a no-op
// concern for unit tests, which never call it (and so see stdout-only
// logging, at btclog's default info level unless SetLogLevels changes it).
func InitLogRotator(logFile string) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("clog: failed to create log directory: %w", err)
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("clog: failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// SetLogLevel sets the logging level for a specific subsystem. An
// unrecognised subsystem tag is a silent no-op, matching the source's
// tolerant behaviour toward operator config typos.
func SetLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the same logging level across every registered
// subsystem.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns the tags of every registered subsystem
// logger, primarily for a --debuglevel=? CLI usage hint.
func SupportedSubsystems() []string {
	tags := make([]string, 0, len(subsystemLoggers))
	for tag := range subsystemLoggers {
		tags = append(tags, tag)
	}
	return tags
}
