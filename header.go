// header.go: Host information written at the top of new segment files
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

// LineSeparator is the native line terminator of the host.
var LineSeparator = lineSeparatorFor(runtime.GOOS)

func lineSeparatorFor(goos string) string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// DefaultHeaderInfo describes the process that created a log file:
// host name, platform, Go runtime version and process id.
func DefaultHeaderInfo() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}

	lines := []string{
		"--------------------------------",
		"Host: " + host,
		"OS: " + runtime.GOOS + "/" + runtime.GOARCH,
		"Go: " + runtime.Version(),
		"PID: " + strconv.Itoa(os.Getpid()),
		"CPUs: " + strconv.Itoa(runtime.NumCPU()),
		"--------------------------------",
	}
	return strings.Join(lines, LineSeparator)
}
