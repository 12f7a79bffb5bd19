// console.go: Synchronous, length-bounded console sink
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxLogLength is the largest number of characters handed to the host
// logging facility in one call. Longer messages are split.
const MaxLogLength = 4000

// HostLogger is the host logging facility behind the console sink.
// Log is called once per slice, in order, on the producer goroutine.
type HostLogger interface {
	Log(level Level, tag, message string)
}

// HostLoggerFunc adapts a plain function to HostLogger.
type HostLoggerFunc func(level Level, tag, message string)

// Log calls f.
func (f HostLoggerFunc) Log(level Level, tag, message string) { f(level, tag, message) }

// zapHost forwards console output to a zap logger, the tag travels as a field.
type zapHost struct {
	z *zap.Logger
}

// NewZapHost uses z as the host logging facility. WTF messages are logged
// at DPanic level, so a development-mode logger will panic on them.
func NewZapHost(z *zap.Logger) HostLogger {
	return &zapHost{z: z}
}

// newDefaultHost writes human readable lines to stderr.
func newDefaultHost() HostLogger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return &zapHost{z: zap.New(core)}
}

func (h *zapHost) Log(level Level, tag, message string) {
	lvl, ok := zapLevel(level)
	if !ok {
		return
	}
	h.z.Log(lvl, message, zap.String("tag", tag))
}

func zapLevel(level Level) (zapcore.Level, bool) {
	switch level {
	case LevelVerbose, LevelDebug:
		return zapcore.DebugLevel, true
	case LevelInfo:
		return zapcore.InfoLevel, true
	case LevelWarn:
		return zapcore.WarnLevel, true
	case LevelError:
		return zapcore.ErrorLevel, true
	case LevelWTF:
		return zapcore.DPanicLevel, true
	}
	return zapcore.InvalidLevel, false
}

// ConsoleSink emits every message to the host logging facility, split into
// slices of at most MaxLogLength characters.
type ConsoleSink struct {
	host    HostLogger
	enabled atomic.Bool
}

// NewConsoleSink creates an enabled console sink. A nil host selects the
// default zap logger on stderr.
func NewConsoleSink(host HostLogger) *ConsoleSink {
	if host == nil {
		host = newDefaultHost()
	}
	c := &ConsoleSink{host: host}
	c.enabled.Store(true)
	return c
}

// SetEnabled switches console output on or off.
func (c *ConsoleSink) SetEnabled(enabled bool) { c.enabled.Store(enabled) }

// Enabled reports whether console output is on.
func (c *ConsoleSink) Enabled() bool { return c.enabled.Load() }

// Emit writes message through the host call matching level. Concatenating
// the emitted slices reproduces message exactly.
func (c *ConsoleSink) Emit(level Level, tag, message string) {
	if !c.enabled.Load() || !printable(level) {
		return
	}
	forEachChunk(message, MaxLogLength, func(slice string) {
		c.host.Log(level, tag, slice)
	})
}

// printable reports whether level is a real severity rather than a sentinel.
func printable(level Level) bool {
	switch level {
	case LevelVerbose, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelWTF:
		return true
	}
	return false
}

// forEachChunk calls fn with consecutive slices of message holding at most
// limit runes each. It yields ceil(n/limit) slices for n > 0 runes and a
// single empty slice for an empty message. UTF-8 sequences are never split.
func forEachChunk(message string, limit int, fn func(string)) {
	if len(message) <= limit {
		fn(message)
		return
	}
	start, count := 0, 0
	for i := range message {
		if count == limit {
			fn(message[start:i])
			start, count = i, 0
		}
		count++
	}
	fn(message[start:])
}
