// watch_test.go: Tests for configuration hot reload
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfig_InitialApply(t *testing.T) {
	logger, _ := newTestLogger(t, testSettings(t), newFakeClock(testTime))
	path := writeConfig(t, "dlog.json", `{"level": "warn", "segment_hours": 6, "console_enabled": false}`)

	watcher, err := WatchConfig(logger, path)
	require.NoError(t, err)
	defer func() { assert.NoError(t, watcher.Stop()) }()

	assert.Equal(t, path, watcher.Path())
	assert.GreaterOrEqual(t, watcher.Applied(), uint64(1))
	assert.Equal(t, LevelWarn, logger.Settings().Level())
	assert.Equal(t, SegmentSixHours, logger.Settings().Segment())
	assert.False(t, logger.ConsoleEnabled())
}

func TestWatchConfig_Errors(t *testing.T) {
	_, err := WatchConfig(nil, "dlog.json")
	assert.True(t, HasCode(err, ErrCodeConfig))

	logger, _ := newTestLogger(t, testSettings(t), newFakeClock(testTime))
	before := logger.Settings()

	_, err = WatchConfig(logger, writeConfig(t, "bad.json", `{"segment_hours": 5}`))
	assert.True(t, HasCode(err, ErrCodeInvalidSegment))
	assert.Same(t, before, logger.Settings())
}

func TestConfigWatcher_OnChange(t *testing.T) {
	var mu sync.Mutex
	var operations []string
	logger, err := NewWithConfig(&LoggerConfig{
		Settings: testSettings(t),
		Host:     &recordingHost{},
		Clock:    newFakeClock(testTime),
		ErrorCallback: func(operation string, err error) {
			mu.Lock()
			defer mu.Unlock()
			operations = append(operations, operation)
		},
	})
	require.NoError(t, err)
	defer logger.Close()

	cw := &ConfigWatcher{logger: logger, path: "unused.json"}

	cw.onChange(map[string]interface{}{"level": "error", "file_prefix": "hot"})
	assert.Equal(t, LevelError, logger.Settings().Level())
	assert.Equal(t, "hot", logger.Settings().FilePrefix())
	assert.Equal(t, uint64(1), cw.Applied())

	// Keys missing from a later version keep their value.
	cw.onChange(map[string]interface{}{"console_enabled": false})
	assert.Equal(t, "hot", logger.Settings().FilePrefix())
	assert.False(t, logger.ConsoleEnabled())

	before := logger.Settings()
	cw.onChange(map[string]interface{}{"tag_pattern": "("})
	assert.Same(t, before, logger.Settings())
	assert.Equal(t, uint64(2), cw.Applied())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"config_reload"}, operations)
	assert.NoError(t, cw.Stop())
}
