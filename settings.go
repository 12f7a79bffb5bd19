// settings.go: Immutable logger settings and the storage admission predicate
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Default values applied by DefaultSettings.
const (
	DefaultCharset    = "utf-8"
	DefaultTimeFormat = "2006-01-02 15:04:05.000"
	DefaultZoneOffset = 8
	DefaultDirectory  = "dlogger"
	DefaultFileSuffix = ".log"
	DefaultRetainDays = 7
	DefaultSegment    = SegmentDay
)

// dateLayout is the locale-independent date used in segment file names.
const dateLayout = "20060102"

// Segment is the width, in hours, of a time bucket mapped to one file.
// Only divisors of 24 are valid so that bucket boundaries line up with
// midnight.
type Segment int

// Supported segment widths.
const (
	SegmentOneHour     Segment = 1
	SegmentTwoHours    Segment = 2
	SegmentThreeHours  Segment = 3
	SegmentFourHours   Segment = 4
	SegmentSixHours    Segment = 6
	SegmentEightHours  Segment = 8
	SegmentTwelveHours Segment = 12
	SegmentDay         Segment = 24
)

// SupportedSegments lists the valid segment widths, shortest first.
func SupportedSegments() []Segment {
	return []Segment{
		SegmentOneHour, SegmentTwoHours, SegmentThreeHours, SegmentFourHours,
		SegmentSixHours, SegmentEightHours, SegmentTwelveHours, SegmentDay,
	}
}

// supportedSegmentList renders SupportedSegments as "1, 2, ... or 24".
func supportedSegmentList() string {
	segs := SupportedSegments()
	parts := make([]string, len(segs))
	for i, seg := range segs {
		parts[i] = strconv.Itoa(seg.Hours())
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}

// Valid reports whether s evenly divides a day.
func (s Segment) Valid() bool {
	return s > 0 && s <= 24 && 24%int(s) == 0
}

// Hours returns the width of the segment in hours.
func (s Segment) Hours() int { return int(s) }

// Settings is an immutable configuration snapshot. Every With* method
// returns a modified copy; a snapshot handed to a Logger is never changed
// afterwards, so Admit and ResolvePath can run concurrently with updates.
type Settings struct {
	storeEnabled bool
	minLevel     Level

	patternStr string
	pattern    *regexp.Regexp

	charset  string
	encoding encoding.Encoding // nil means UTF-8, written as is

	timeFormat string
	zoneOffset int
	location   *time.Location

	rootDir    string
	directory  string
	filePrefix string
	fileSuffix string
	segment    Segment
	retainDays int

	headerInfo string
}

// DefaultSettings stores every level with no tag filter, UTF-8 content,
// UTC+8 timestamps, one file per day under "dlogger" with the ".log"
// suffix and seven days of retention.
func DefaultSettings() *Settings {
	return &Settings{
		storeEnabled: true,
		minLevel:     LevelAll,
		charset:      DefaultCharset,
		timeFormat:   DefaultTimeFormat,
		zoneOffset:   DefaultZoneOffset,
		location:     zoneFor(DefaultZoneOffset),
		directory:    DefaultDirectory,
		fileSuffix:   DefaultFileSuffix,
		segment:      DefaultSegment,
		retainDays:   DefaultRetainDays,
		headerInfo:   DefaultHeaderInfo(),
	}
}

// validate rejects snapshots that were not built from DefaultSettings,
// such as a zero Settings value.
func (s *Settings) validate() error {
	switch {
	case s == nil:
		return goerrors.New(ErrCodeConfig, "settings cannot be nil")
	case s.location == nil:
		return goerrors.New(ErrCodeConfig, "settings have no time zone, derive them from DefaultSettings")
	case !s.segment.Valid():
		return goerrors.New(ErrCodeConfig, fmt.Sprintf("settings have an invalid segment of %d hours", int(s.segment)))
	}
	return nil
}

func (s *Settings) clone() *Settings {
	c := *s
	return &c
}

// Admit reports whether a message with the given level and tag is stored.
// The tag pattern uses search semantics: it must match somewhere inside a
// non-empty tag.
func (s *Settings) Admit(level Level, tag string) bool {
	if !s.storeEnabled || !s.minLevel.Enables(level) {
		return false
	}
	if s.pattern == nil {
		return true
	}
	return tag != "" && s.pattern.MatchString(tag)
}

// StoreEnabled reports whether file storage is on.
func (s *Settings) StoreEnabled() bool { return s.storeEnabled }

// Level returns the minimum stored level.
func (s *Settings) Level() Level { return s.minLevel }

// TagPattern returns the tag filter expression, empty when unset.
func (s *Settings) TagPattern() string { return s.patternStr }

// Charset returns the canonical name of the file content encoding.
func (s *Settings) Charset() string { return s.charset }

// TimeFormat returns the Go time layout of line timestamps.
func (s *Settings) TimeFormat() string { return s.timeFormat }

// ZoneOffset returns the fixed UTC offset in hours.
func (s *Settings) ZoneOffset() int { return s.zoneOffset }

// Location returns the fixed zone matching ZoneOffset.
func (s *Settings) Location() *time.Location { return s.location }

// RootDir returns the base directory, empty for the working directory.
func (s *Settings) RootDir() string { return s.rootDir }

// Directory returns the log directory name below RootDir.
func (s *Settings) Directory() string { return s.directory }

// FilePrefix returns the file name prefix, empty when unset.
func (s *Settings) FilePrefix() string { return s.filePrefix }

// FileSuffix returns the file name suffix.
func (s *Settings) FileSuffix() string { return s.fileSuffix }

// Segment returns the segment width.
func (s *Settings) Segment() Segment { return s.segment }

// RetainDays returns how many days files are kept; below 1 means forever.
func (s *Settings) RetainDays() int { return s.retainDays }

// HeaderInfo returns the text written at the top of new files.
func (s *Settings) HeaderInfo() string { return s.headerInfo }

// LogDir returns the directory holding the segment files.
func (s *Settings) LogDir() string {
	return filepath.Join(s.rootDir, s.directory)
}

// WithStoreEnabled turns file storage on or off.
func (s *Settings) WithStoreEnabled(enabled bool) *Settings {
	c := s.clone()
	c.storeEnabled = enabled
	return c
}

// WithLevel sets the minimum stored level. LevelNone disables storage,
// any other level enables it.
func (s *Settings) WithLevel(level Level) *Settings {
	c := s.clone()
	c.minLevel = level
	c.storeEnabled = level != LevelNone
	return c
}

// WithTagPattern sets the tag filter. An empty expression removes it.
// An expression that does not compile is rejected with ErrCodeInvalidPattern.
func (s *Settings) WithTagPattern(expr string) (*Settings, error) {
	c := s.clone()
	if expr == "" {
		c.patternStr, c.pattern = "", nil
		return c, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeInvalidPattern, "invalid tag pattern "+strconv.Quote(expr))
	}
	c.patternStr, c.pattern = expr, re
	return c, nil
}

// WithCharset selects the encoding of file content by its WHATWG name
// or label ("utf-8", "gbk", "shift_jis", "latin1", ...).
func (s *Settings) WithCharset(name string) (*Settings, error) {
	canonical, enc, err := resolveCharset(name)
	if err != nil {
		return nil, err
	}
	c := s.clone()
	c.charset, c.encoding = canonical, enc
	return c, nil
}

// WithTimeFormat sets the Go time layout of the line timestamp.
// An empty layout restores DefaultTimeFormat.
func (s *Settings) WithTimeFormat(layout string) *Settings {
	c := s.clone()
	if layout == "" {
		layout = DefaultTimeFormat
	}
	c.timeFormat = layout
	return c
}

// WithZoneOffset sets the fixed UTC offset, in hours, used for timestamps,
// dates and hour buckets.
func (s *Settings) WithZoneOffset(hours int) (*Settings, error) {
	if hours < -12 || hours > 14 {
		return nil, goerrors.New(ErrCodeConfig, fmt.Sprintf("zone offset %d out of range [-12, 14]", hours))
	}
	c := s.clone()
	c.zoneOffset, c.location = hours, zoneFor(hours)
	return c, nil
}

// WithRootDir sets the base directory the log directory is created in.
// An empty root means the process working directory.
func (s *Settings) WithRootDir(root string) (*Settings, error) {
	if root != "" {
		if err := ValidatePathLength(root); err != nil {
			return nil, goerrors.Wrap(err, ErrCodeInvalidPath, "invalid root directory")
		}
	}
	c := s.clone()
	c.rootDir = root
	return c, nil
}

// WithDirectory sets the log directory below the root.
func (s *Settings) WithDirectory(dir string) (*Settings, error) {
	if err := ValidatePathLength(filepath.Join(s.rootDir, dir)); err != nil {
		return nil, goerrors.Wrap(err, ErrCodeInvalidPath, "invalid log directory")
	}
	c := s.clone()
	c.directory = dir
	return c, nil
}

// WithFilePrefix sets the file name prefix. Characters that are not
// valid in file names on this platform are replaced.
func (s *Settings) WithFilePrefix(prefix string) *Settings {
	c := s.clone()
	c.filePrefix = SanitizeFilename(prefix)
	return c
}

// WithFileSuffix sets the file name suffix, typically an extension.
func (s *Settings) WithFileSuffix(suffix string) *Settings {
	c := s.clone()
	c.fileSuffix = SanitizeFilename(suffix)
	return c
}

// WithSegment sets the segment width.
func (s *Settings) WithSegment(seg Segment) (*Settings, error) {
	if !seg.Valid() {
		return nil, goerrors.New(ErrCodeInvalidSegment,
			fmt.Sprintf("segment of %d hours does not divide 24 (supported: %s)", int(seg), supportedSegmentList()))
	}
	c := s.clone()
	c.segment = seg
	return c, nil
}

// WithRetainDays sets how many days segment files are kept.
// Values below 1 keep files forever.
func (s *Settings) WithRetainDays(days int) *Settings {
	c := s.clone()
	c.retainDays = days
	return c
}

// WithHeaderInfo replaces the text written at the top of every new file.
func (s *Settings) WithHeaderInfo(info string) *Settings {
	c := s.clone()
	c.headerInfo = info
	return c
}

// WithExtraHeaderInfo keeps the generated host information and appends info
// on its own line.
func (s *Settings) WithExtraHeaderInfo(info string) *Settings {
	c := s.clone()
	c.headerInfo = DefaultHeaderInfo() + LineSeparator + info
	return c
}

// formatTime renders t with the configured layout in the configured zone.
func (s *Settings) formatTime(t time.Time) string {
	return t.In(s.location).Format(s.timeFormat)
}

// formatLine renders the file representation of one message.
func (s *Settings) formatLine(t time.Time, level Level, tag, message string) string {
	return s.formatTime(t) + "-[" + level.String() + " " + tag + "]- " + message + LineSeparator
}

// encode converts content to the configured charset. Runes the charset
// cannot represent are replaced rather than failing the write.
func (s *Settings) encode(content string) ([]byte, error) {
	if s.encoding == nil {
		return []byte(content), nil
	}
	out, err := encoding.ReplaceUnsupported(s.encoding.NewEncoder()).String(content)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeEncode, "failed to encode content as "+s.charset)
	}
	return []byte(out), nil
}

func resolveCharset(name string) (string, encoding.Encoding, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", nil, goerrors.Wrap(err, ErrCodeInvalidCharset, "unsupported charset "+strconv.Quote(name))
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		return "", nil, goerrors.Wrap(err, ErrCodeInvalidCharset, "unsupported charset "+strconv.Quote(name))
	}
	if canonical == DefaultCharset {
		return canonical, nil, nil
	}
	return canonical, enc, nil
}

func zoneFor(hours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+03d:00", hours), hours*3600)
}
