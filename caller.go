// caller.go: Tags derived from the call site
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// CallerTag describes the function skip frames above its caller as
// "(file.go:line)#Func". With skip 0 it describes the caller itself.
func CallerTag(skip int) string {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "(unknown)"
	}
	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = trimFuncName(fn.Name())
	}
	return "(" + filepath.Base(file) + ":" + strconv.Itoa(line) + ")#" + funcName
}

// github.com/agilira/dlog.TestX -> TestX
// github.com/acme/app/server.(*Server).Serve -> (*Server).Serve
func trimFuncName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx >= 0 && idx+1 < len(name) {
		name = name[idx+1:]
	}
	return name
}

// joinTag prefixes a caller tag with an explicit one.
func joinTag(tag, caller string) string {
	if tag == "" {
		return caller
	}
	return tag + "/" + caller
}

// attachError appends the rendering of err to message on its own line.
// %+v lets errors that carry stack traces print them.
func attachError(message string, err error) string {
	if err == nil {
		return message
	}
	return message + LineSeparator + fmt.Sprintf("%+v", err)
}
