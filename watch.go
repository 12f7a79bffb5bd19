// watch.go: Hot reload of logger settings from a configuration file
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"sync"

	"github.com/agilira/argus"
	goerrors "github.com/agilira/go-errors"
)

// ConfigWatcher applies a configuration file to a Logger every time the
// file changes. Each change is applied on top of the settings in use, so
// keys removed from the file keep their last value.
//
// A change that fails to decode or validate leaves the settings untouched
// and is reported through the logger's error callback as "config_reload".
type ConfigWatcher struct {
	logger  *Logger
	path    string
	watcher *argus.Watcher

	mu      sync.Mutex
	applied uint64
}

// WatchConfig starts watching path and applies it to l on every change.
// The file is applied once immediately; an invalid file is returned as an
// error and nothing is watched.
func WatchConfig(l *Logger, path string) (*ConfigWatcher, error) {
	if l == nil {
		return nil, goerrors.New(ErrCodeConfig, "logger cannot be nil")
	}

	cw := &ConfigWatcher{logger: l, path: path}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cw.apply(cfg); err != nil {
		return nil, err
	}

	watcher, err := argus.UniversalConfigWatcher(path, cw.onChange)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeConfig, "failed to watch config file "+path)
	}
	cw.watcher = watcher
	return cw, nil
}

// Path returns the watched file.
func (cw *ConfigWatcher) Path() string { return cw.path }

// Applied returns how many times the file was applied successfully.
func (cw *ConfigWatcher) Applied() uint64 {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.applied
}

// Stop stops watching. Settings already applied stay in place.
func (cw *ConfigWatcher) Stop() error {
	if cw.watcher == nil {
		return nil
	}
	return cw.watcher.Stop()
}

func (cw *ConfigWatcher) onChange(values map[string]interface{}) {
	cfg, err := DecodeConfig(values)
	if err == nil {
		err = cw.apply(cfg)
	}
	if err != nil {
		cw.logger.reportError("config_reload", err)
	}
}

// apply is serialized so that a reload never interleaves with another.
func (cw *ConfigWatcher) apply(cfg *Config) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	err := cw.logger.UpdateSettings(cfg.Apply)
	if err != nil {
		return err
	}
	if cfg.ConsoleEnabled != nil {
		cw.logger.SetConsoleEnabled(*cfg.ConsoleEnabled)
	}
	cw.applied++
	return nil
}
