// router.go: Segment selection, from a timestamp to a file path
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"fmt"
	"time"
)

// ResolvePath returns the directory and file name that a message logged
// at now belongs to. Two instants share a file iff they fall on the same
// date and in the same hour bucket, both taken in the configured zone.
func ResolvePath(now time.Time, s *Settings) (dir, name string) {
	return s.LogDir(), segmentFileName(now.In(s.location), s)
}

func segmentFileName(local time.Time, s *Settings) string {
	prefix := ""
	if s.filePrefix != "" {
		prefix = s.filePrefix + "_"
	}
	date := local.Format(dateLayout)
	if s.segment == SegmentDay {
		return prefix + date + s.fileSuffix
	}
	return prefix + date + "_" + SegmentLabel(local.Hour(), s.segment) + s.fileSuffix
}

// SegmentLabel returns the four digit start/end label of the bucket
// holding hour, e.g. hour 9 with four hour segments gives "0812".
// The end of the last bucket of a day wraps to "00".
func SegmentLabel(hour int, seg Segment) string {
	width := seg.Hours()
	start := hour - hour%width
	end := (start + width) % 24
	return fmt.Sprintf("%02d%02d", start, end)
}
