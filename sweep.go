// sweep.go: Retention of segment files
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

const day = 24 * time.Hour

// Sweep deletes the entries directly under dir whose modification time is
// older than retainDays days before now. Expired directories are removed
// with their whole content. A retention below one day, a missing directory
// or an empty one make Sweep a no-op.
//
// Failures on single entries do not stop the sweep; they are joined into
// the returned error.
func Sweep(dir string, retainDays int, now time.Time) (removed int, err error) {
	if retainDays < 1 {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	threshold := now.Add(-time.Duration(retainDays) * day)
	var errs []error
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, err)
			}
			continue
		}
		if !info.ModTime().Before(threshold) {
			continue
		}
		if err := removeTree(filepath.Join(dir, entry.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// removeTree deletes path and, for a directory, everything below it.
// It walks with an explicit stack so deep trees cannot exhaust the
// goroutine stack; a directory is removed only after its children.
func removeTree(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return os.Remove(path)
	}

	type frame struct {
		path     string
		expanded bool
	}
	stack := []frame{{path: path}}
	var errs []error

	for len(stack) > 0 {
		top := len(stack) - 1
		current := stack[top].path

		if stack[top].expanded {
			stack = stack[:top]
			if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
				errs = append(errs, err)
			}
			continue
		}
		stack[top].expanded = true

		entries, err := os.ReadDir(current)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, entry := range entries {
			child := filepath.Join(current, entry.Name())
			if entry.IsDir() {
				stack = append(stack, frame{path: child})
				continue
			}
			if err := os.Remove(child); err != nil && !os.IsNotExist(err) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
