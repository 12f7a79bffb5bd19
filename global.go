// global.go: Package-level convenience functions over a default Logger
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import "sync/atomic"

var defaultLogger atomic.Pointer[Logger]

// SetDefault installs l as the target of the package-level functions.
// Passing nil turns them into no-ops.
func SetDefault(l *Logger) {
	defaultLogger.Store(l)
}

// Default returns the installed default Logger, or nil.
func Default() *Logger {
	return defaultLogger.Load()
}

// V logs at VERBOSE level with a tag naming the calling function.
func V(message string) { logCaller(LevelVerbose, "", message, nil) }

// D logs at DEBUG level with a tag naming the calling function.
func D(message string) { logCaller(LevelDebug, "", message, nil) }

// I logs at INFO level with a tag naming the calling function.
func I(message string) { logCaller(LevelInfo, "", message, nil) }

// W logs at WARN level with a tag naming the calling function.
func W(message string) { logCaller(LevelWarn, "", message, nil) }

// E logs at ERROR level with a tag naming the calling function.
func E(message string) { logCaller(LevelError, "", message, nil) }

// WTF logs at WTF level with a tag naming the calling function.
func WTF(message string) { logCaller(LevelWTF, "", message, nil) }

// Log logs with an explicit tag, which is prefixed to the caller tag as
// "tag/(file.go:line)#Func", and an optional error.
func Log(level Level, tag, message string, err error) {
	logCaller(level, tag, message, err)
}

func logCaller(level Level, tag, message string, err error) {
	l := defaultLogger.Load()
	if l == nil {
		return
	}
	// logCaller <- V/D/.../Log <- user code
	l.Log(level, joinTag(tag, CallerTag(2)), message, err)
}
