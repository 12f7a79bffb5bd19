// clock.go: Time sources
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"time"

	"github.com/agilira/go-timecache"
)

// Clock supplies the time used for timestamps, segment selection and
// retention. Tests replace it to simulate the passage of days.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// cachedClock reads a millisecond-resolution time cache instead of calling
// time.Now on every message.
type cachedClock struct {
	cache *timecache.TimeCache
}

func newCachedClock() *cachedClock {
	return &cachedClock{cache: timecache.NewWithResolution(time.Millisecond)}
}

func (c *cachedClock) Now() time.Time {
	return c.cache.CachedTime()
}

func (c *cachedClock) stop() {
	c.cache.Stop()
}
