// errors.go: Error codes reported by the logger
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	goerrors "github.com/agilira/go-errors"
)

// Configuration error codes. These are returned synchronously to the
// caller that tried to apply the configuration.
const (
	ErrCodeInvalidPattern goerrors.ErrorCode = "DLOG_INVALID_PATTERN"
	ErrCodeInvalidSegment goerrors.ErrorCode = "DLOG_INVALID_SEGMENT"
	ErrCodeInvalidCharset goerrors.ErrorCode = "DLOG_INVALID_CHARSET"
	ErrCodeInvalidLevel   goerrors.ErrorCode = "DLOG_INVALID_LEVEL"
	ErrCodeInvalidPath    goerrors.ErrorCode = "DLOG_INVALID_PATH"
	ErrCodeConfig         goerrors.ErrorCode = "DLOG_CONFIG"
)

// I/O error codes. These never reach the producer: they are handed to
// the ErrorCallback and echoed on the console sink by the writer goroutine.
const (
	ErrCodeMkdir  goerrors.ErrorCode = "DLOG_MKDIR"
	ErrCodeWrite  goerrors.ErrorCode = "DLOG_WRITE"
	ErrCodeDelete goerrors.ErrorCode = "DLOG_DELETE"
	ErrCodeSweep  goerrors.ErrorCode = "DLOG_SWEEP"
	ErrCodeEncode goerrors.ErrorCode = "DLOG_ENCODE"
	ErrCodeClosed goerrors.ErrorCode = "DLOG_CLOSED"
)

// HasCode reports whether err, or any error it wraps, carries code.
func HasCode(err error, code goerrors.ErrorCode) bool {
	return goerrors.HasCode(err, code)
}
