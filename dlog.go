// dlog.go: Public API - leveled, tagged logging to console and segmented files
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	goerrors "github.com/agilira/go-errors"
)

// ConsoleTag is the tag of the logger's own diagnostics on the console.
const ConsoleTag = "dlog"

// Logger routes every message to the console and stores the admitted ones
// in time-segmented files. It is safe for concurrent use; messages from
// concurrent goroutines are appended in a single order consistent with
// the order of the calls.
//
// Basic usage example:
//
//	logger, err := dlog.NewWithDefaults()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer logger.Close()
//	logger.Info("Startup", "listening on :8080")
type Logger struct {
	settings atomic.Pointer[Settings]

	console    *ConsoleSink
	writer     *FileWriter
	ownsWriter bool
	file       *FileSink
	printer    *Printer

	clock  Clock
	cached *cachedClock // owned time cache, stopped on Close

	errorCallback func(operation string, err error)

	closeOnce sync.Once
}

// LoggerConfig holds the collaborators of a Logger. Every field is optional.
type LoggerConfig struct {
	// Settings is the initial snapshot. Nil means DefaultSettings().
	Settings *Settings `json:"-"`

	// Host is the console logging facility. Nil means a zap logger on stderr.
	Host HostLogger `json:"-"`

	// Clock is the time source. Nil means a millisecond time cache.
	Clock Clock `json:"-"`

	// DisableConsole starts the logger with console output off.
	DisableConsole bool `json:"disable_console"`

	// ErrorCallback is called on the writer goroutine when an I/O operation
	// fails. The error is also printed on the console under ConsoleTag.
	ErrorCallback func(operation string, err error) `json:"-"`

	// Writer is a file writer shared with other Loggers. Nil means the
	// Logger starts and owns its own writer. A shared writer is not closed
	// by the Logger; its owner closes it after every Logger using it.
	Writer *FileWriter `json:"-"`
}

// NewWithDefaults creates a Logger with DefaultSettings: every level stored
// under ./dlogger, one file per day, seven days of retention.
func NewWithDefaults() (*Logger, error) {
	return NewWithConfig(&LoggerConfig{})
}

// New creates a Logger with default settings rooted at root, so files go
// to root/dlogger.
func New(root string) (*Logger, error) {
	s, err := DefaultSettings().WithRootDir(root)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(&LoggerConfig{Settings: s})
}

// NewWithConfig creates a Logger from config.
//
// Each writer has one ordering lock and one consumer goroutine. Loggers
// that store into the same directory should share a writer through
// LoggerConfig.Writer: with separate writers, lines written to a common
// file by different Loggers are not ordered with respect to each other.
//
//	shared := dlog.NewFileWriter(nil, nil, nil)
//	defer shared.Close()
//	api, _ := dlog.NewWithConfig(&dlog.LoggerConfig{Settings: s, Writer: shared})
//	jobs, _ := dlog.NewWithConfig(&dlog.LoggerConfig{Settings: s, Writer: shared})
func NewWithConfig(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		return nil, goerrors.New(ErrCodeConfig, "config cannot be nil")
	}
	settings := config.Settings
	if settings == nil {
		settings = DefaultSettings()
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}

	l := &Logger{
		clock:         config.Clock,
		errorCallback: config.ErrorCallback,
	}
	if l.clock == nil {
		l.cached = newCachedClock()
		l.clock = l.cached
	}

	l.settings.Store(settings)

	l.console = NewConsoleSink(config.Host)
	l.console.SetEnabled(!config.DisableConsole)
	l.writer = config.Writer
	if l.writer == nil {
		l.writer = NewFileWriter(l.Settings, l.clock, l.reportError)
		l.ownsWriter = true
	}
	l.file = NewFileSink(l.writer, l.Settings, l.clock, l.reportError)
	l.printer = NewPrinter(l.console, l.file)

	return l, nil
}

// Settings returns the current settings snapshot.
func (l *Logger) Settings() *Settings {
	return l.settings.Load()
}

// SetSettings replaces the settings snapshot. Messages already queued keep
// the snapshot they were admitted with. Snapshots not derived from
// DefaultSettings are rejected with ErrCodeConfig.
func (l *Logger) SetSettings(s *Settings) error {
	if err := s.validate(); err != nil {
		return err
	}
	l.settings.Store(s)
	return nil
}

// UpdateSettings derives a new snapshot from the current one with fn and
// installs it, retrying if another update won the race. An error from fn
// leaves the settings unchanged.
func (l *Logger) UpdateSettings(fn func(*Settings) (*Settings, error)) error {
	for {
		current := l.settings.Load()
		next, err := fn(current)
		if err != nil {
			return err
		}
		if err := next.validate(); err != nil {
			return err
		}
		if l.settings.CompareAndSwap(current, next) {
			return nil
		}
	}
}

// SetConsoleEnabled switches console output on or off.
func (l *Logger) SetConsoleEnabled(enabled bool) {
	l.console.SetEnabled(enabled)
}

// ConsoleEnabled reports whether console output is on.
func (l *Logger) ConsoleEnabled() bool {
	return l.console.Enabled()
}

// Print emits message to the console and, if admitted, queues it for the
// current segment file. It never blocks on disk I/O.
func (l *Logger) Print(level Level, tag, message string) {
	l.printer.Print(level, tag, message)
}

// Log prints message, followed by the rendering of err on its own line
// when err is not nil.
func (l *Logger) Log(level Level, tag, message string, err error) {
	l.printer.Print(level, tag, attachError(message, err))
}

// Verbose prints message at VERBOSE level.
func (l *Logger) Verbose(tag, message string) { l.Print(LevelVerbose, tag, message) }

// Debug prints message at DEBUG level.
func (l *Logger) Debug(tag, message string) { l.Print(LevelDebug, tag, message) }

// Info prints message at INFO level.
func (l *Logger) Info(tag, message string) { l.Print(LevelInfo, tag, message) }

// Warn prints message at WARN level.
func (l *Logger) Warn(tag, message string) { l.Print(LevelWarn, tag, message) }

// Error prints message at ERROR level.
func (l *Logger) Error(tag, message string) { l.Print(LevelError, tag, message) }

// Assert logs at WTF level, for conditions that should never happen.
func (l *Logger) Assert(tag, message string) { l.Print(LevelWTF, tag, message) }

// VerboseErr prints message and err at VERBOSE level.
func (l *Logger) VerboseErr(tag, message string, err error) { l.Log(LevelVerbose, tag, message, err) }

// DebugErr prints message and err at DEBUG level.
func (l *Logger) DebugErr(tag, message string, err error) { l.Log(LevelDebug, tag, message, err) }

// InfoErr prints message and err at INFO level.
func (l *Logger) InfoErr(tag, message string, err error) { l.Log(LevelInfo, tag, message, err) }

// WarnErr prints message and err at WARN level.
func (l *Logger) WarnErr(tag, message string, err error) { l.Log(LevelWarn, tag, message, err) }

// ErrorErr prints message and err at ERROR level.
func (l *Logger) ErrorErr(tag, message string, err error) { l.Log(LevelError, tag, message, err) }

// AssertErr prints message and err at WTF level.
func (l *Logger) AssertErr(tag, message string, err error) { l.Log(LevelWTF, tag, message, err) }

// Writer exposes the file writer for direct append, overwrite and delete
// operations that must be ordered with log output. Failures of those
// operations go to the error callback of the writer's owner.
func (l *Logger) Writer() *FileWriter {
	return l.writer
}

// Purge queues deletion of the whole log directory.
func (l *Logger) Purge() {
	l.file.Delete(l.Settings().LogDir())
}

// ListFiles returns the sorted paths of the entries in the log directory.
// A missing directory yields an empty list.
func (l *Logger) ListFiles() ([]string, error) {
	dir := l.Settings().LogDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Flush waits until every message printed before the call is on disk,
// or ctx is done.
func (l *Logger) Flush(ctx context.Context) error {
	if l.file.closed.Load() {
		return goerrors.New(ErrCodeClosed, "logger is closed")
	}
	return l.writer.Flush(ctx)
}

// Close drains the file queue and releases the logger's resources. The
// console keeps working after Close; file output is dropped. A shared
// writer is flushed up to the messages of this Logger and left open.
func (l *Logger) Close() error {
	var closeErr error
	l.closeOnce.Do(func() {
		l.file.Close()
		if l.ownsWriter {
			closeErr = l.writer.Close()
		} else {
			closeErr = l.writer.Flush(context.Background())
		}
		if l.cached != nil {
			l.cached.stop()
		}
	})
	return closeErr
}

// Stats represents logger counters for monitoring.
type Stats struct {
	WriterStats
	Filtered uint64 `json:"filtered"` // messages that failed admission
}

// Stats returns a snapshot of the logger counters. The writer counters
// cover every Logger sharing the writer; Filtered is this Logger's own.
func (l *Logger) Stats() Stats {
	return Stats{
		WriterStats: l.writer.Stats(),
		Filtered:    l.file.Filtered(),
	}
}

// reportError hands an I/O failure to the ErrorCallback and prints it on
// the console. It runs on the writer goroutine.
func (l *Logger) reportError(operation string, err error) {
	if l.errorCallback != nil {
		l.errorCallback(operation, err)
	}
	l.console.Emit(LevelError, ConsoleTag, operation+": "+err.Error())
}
