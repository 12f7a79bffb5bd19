// router_test.go: Tests for segment selection
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routerSettings(t *testing.T, seg Segment, zone int) *Settings {
	t.Helper()
	s, err := DefaultSettings().WithSegment(seg)
	require.NoError(t, err)
	s, err = s.WithZoneOffset(zone)
	require.NoError(t, err)
	return s
}

func TestSegmentLabel(t *testing.T) {
	tests := []struct {
		hour int
		seg  Segment
		want string
	}{
		{9, SegmentFourHours, "0812"},
		{8, SegmentFourHours, "0812"},
		{11, SegmentFourHours, "0812"},
		{0, SegmentOneHour, "0001"},
		{23, SegmentOneHour, "2300"},
		{13, SegmentTwelveHours, "1200"},
		{3, SegmentTwelveHours, "0012"},
		{17, SegmentSixHours, "1218"},
		{22, SegmentEightHours, "1600"},
		{5, SegmentThreeHours, "0306"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SegmentLabel(tt.hour, tt.seg), "hour %d, segment %d", tt.hour, tt.seg)
	}
}

func TestResolvePath(t *testing.T) {
	s := routerSettings(t, SegmentFourHours, 0)
	at := func(h, m int) time.Time { return time.Date(2025, 3, 1, h, m, 0, 0, time.UTC) }

	dir, name := ResolvePath(at(9, 30), s)
	assert.Equal(t, s.LogDir(), dir)
	assert.Equal(t, "20250301_0812.log", name)

	_, seven := ResolvePath(at(7, 0), s)
	_, nine := ResolvePath(at(9, 0), s)
	_, eight := ResolvePath(at(8, 0), s)
	assert.NotEqual(t, seven, nine)
	assert.Equal(t, eight, nine)
}

func TestResolvePath_Day(t *testing.T) {
	s := routerSettings(t, SegmentDay, 0)
	_, name := ResolvePath(time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC), s)
	assert.Equal(t, "20251231.log", name)

	_, morning := ResolvePath(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), s)
	assert.Equal(t, name, morning)
}

func TestResolvePath_Prefix(t *testing.T) {
	s := routerSettings(t, SegmentTwelveHours, 0).WithFilePrefix("svc").WithFileSuffix(".txt")
	_, name := ResolvePath(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), s)
	assert.Equal(t, "svc_20250301_1200.txt", name)
}

func TestResolvePath_ZoneDate(t *testing.T) {
	s := routerSettings(t, SegmentOneHour, 8)
	_, name := ResolvePath(time.Date(2025, 3, 1, 17, 45, 0, 0, time.UTC), s)
	assert.Equal(t, "20250302_0102.log", name)

	s = routerSettings(t, SegmentDay, -8)
	_, name = ResolvePath(time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC), s)
	assert.Equal(t, "20250228.log", name)
}
