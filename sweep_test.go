// sweep_test.go: Tests for retention
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ageEntry creates a file (or a directory holding a file) whose
// modification time is age before now.
func ageEntry(t *testing.T, path string, now time.Time, age time.Duration, dir bool) {
	t.Helper()
	if dir {
		require.NoError(t, os.MkdirAll(filepath.Join(path, "inner", "deeper"), 0750))
		require.NoError(t, os.WriteFile(filepath.Join(path, "inner", "deeper", "f.log"), []byte("x"), 0600))
	} else {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	}
	mtime := now.Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func remaining(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestSweep(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	for _, days := range []int{1, 2, 4, 10} {
		ageEntry(t, filepath.Join(dir, fmt.Sprintf("age%02d.log", days)), now, time.Duration(days)*day, false)
	}

	removed, err := Sweep(dir, 3, now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"age01.log", "age02.log"}, remaining(t, dir))
}

func TestSweep_Boundary(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	dir := t.TempDir()
	ageEntry(t, filepath.Join(dir, "exact.log"), now, 3*day, false)
	ageEntry(t, filepath.Join(dir, "older.log"), now, 3*day+time.Second, false)

	_, err := Sweep(dir, 3, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"exact.log"}, remaining(t, dir), "an entry exactly at the threshold survives")
}

func TestSweep_SimulatedTime(t *testing.T) {
	dir := t.TempDir()
	ageEntry(t, filepath.Join(dir, "old.log"), testTime, 0, false)

	removed, err := Sweep(dir, 1, testTime.Add(day))
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = Sweep(dir, 1, testTime.Add(2*day))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Empty(t, remaining(t, dir))
}

func TestSweep_Disabled(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	ageEntry(t, filepath.Join(dir, "ancient.log"), now, 1000*day, false)

	for _, days := range []int{0, -1} {
		removed, err := Sweep(dir, days, now)
		assert.NoError(t, err, "Sweep(%d)", days)
		assert.Zero(t, removed, "Sweep(%d)", days)
	}
	assert.Len(t, remaining(t, dir), 1)
}

func TestSweep_MissingDirectory(t *testing.T) {
	removed, err := Sweep(filepath.Join(t.TempDir(), "missing"), 3, time.Now())
	assert.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSweep_NestedDirectories(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	ageEntry(t, filepath.Join(dir, "old-dir"), now, 10*day, true)
	ageEntry(t, filepath.Join(dir, "new-dir"), now, day, true)

	removed, err := Sweep(dir, 3, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"new-dir"}, remaining(t, dir))
}

func TestRemoveTree_Deep(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deep")
	path := root
	for i := 0; i < 64; i++ {
		path = filepath.Join(path, "d")
		if i%8 == 0 {
			require.NoError(t, os.MkdirAll(path, 0750))
			require.NoError(t, os.WriteFile(filepath.Join(path, "f"), nil, 0600))
		}
	}
	require.NoError(t, os.MkdirAll(path, 0750))

	require.NoError(t, removeTree(root))
	assert.NoDirExists(t, root)
	assert.NoError(t, removeTree(root), "removing a missing path succeeds")
}
