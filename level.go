// level.go: Severity levels and their ordering
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"strconv"
	"strings"

	goerrors "github.com/agilira/go-errors"
)

// Level is an ordered severity. The numeric values only order levels,
// they are not combined as a mask.
type Level int

// Severity levels. LevelAll and LevelNone are sentinels: setting the
// minimum level to LevelAll stores everything, LevelNone stores nothing.
const (
	LevelAll     Level = 0
	LevelVerbose Level = 1
	LevelDebug   Level = 1 << 1
	LevelInfo    Level = 1 << 2
	LevelWarn    Level = 1 << 3
	LevelError   Level = 1 << 4
	LevelWTF     Level = 1 << 5
	LevelNone    Level = 1 << 10
)

// String returns the display name used in file lines.
func (l Level) String() string {
	switch l {
	case LevelAll:
		return "ALL"
	case LevelVerbose:
		return "VERBOSE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelWTF:
		return "WTF"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// Enables reports whether a minimum level of l lets a message of level
// other through.
func (l Level) Enables(other Level) bool {
	return l <= other
}

// ParseLevel converts a level name (case-insensitive) to a Level.
// "ASSERT" is accepted as an alias of WTF.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ALL":
		return LevelAll, nil
	case "VERBOSE", "V":
		return LevelVerbose, nil
	case "DEBUG", "D":
		return LevelDebug, nil
	case "INFO", "I":
		return LevelInfo, nil
	case "WARN", "WARNING", "W":
		return LevelWarn, nil
	case "ERROR", "E":
		return LevelError, nil
	case "WTF", "ASSERT":
		return LevelWTF, nil
	case "NONE", "OFF":
		return LevelNone, nil
	}
	return LevelNone, goerrors.New(ErrCodeInvalidLevel, "unknown log level "+strconv.Quote(s))
}
