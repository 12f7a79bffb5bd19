// config.go: Configuration surface, parsing utilities and config files
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/argus"
	goerrors "github.com/agilira/go-errors"
	"github.com/go-viper/mapstructure/v2"
)

// Config is the recognized configuration surface. Unset (nil or empty)
// fields leave the corresponding setting untouched, so a Config can be
// applied on top of the defaults or of the settings currently in use.
//
// Example JSON:
//
//	{
//		"level": "info",
//		"tag_pattern": "^(Net|Db)",
//		"directory": "logs",
//		"file_prefix": "app",
//		"segment_hours": 6,
//		"retain": "14d"
//	}
type Config struct {
	StoreEnabled *bool   `json:"store_enabled" mapstructure:"store_enabled"`
	Level        string  `json:"level" mapstructure:"level"`
	TagPattern   *string `json:"tag_pattern" mapstructure:"tag_pattern"`
	Charset      string  `json:"charset" mapstructure:"charset"`
	TimeFormat   string  `json:"time_format" mapstructure:"time_format"`
	ZoneOffset   *int    `json:"zone_offset" mapstructure:"zone_offset"`
	RootDir      *string `json:"root_dir" mapstructure:"root_dir"`
	Directory    string  `json:"directory" mapstructure:"directory"`
	FilePrefix   *string `json:"file_prefix" mapstructure:"file_prefix"`
	FileSuffix   *string `json:"file_suffix" mapstructure:"file_suffix"`
	SegmentHours int     `json:"segment_hours" mapstructure:"segment_hours"`

	// RetainDays keeps files this many days; values below 1 keep them forever.
	RetainDays *int `json:"retain_days" mapstructure:"retain_days"`
	// Retain is RetainDays as a duration string ("7d", "2w", "72h").
	// Durations are truncated to whole days; a positive duration shorter
	// than a day is rejected.
	Retain string `json:"retain" mapstructure:"retain"`

	HeaderInfo      *string `json:"header_info" mapstructure:"header_info"`
	ExtraHeaderInfo string  `json:"extra_header_info" mapstructure:"extra_header_info"`

	ConsoleEnabled *bool `json:"console_enabled" mapstructure:"console_enabled"`
}

// Apply returns base with every set field of c applied. The level is
// applied before store_enabled so that an explicit store_enabled wins
// over the one implied by the level.
func (c *Config) Apply(base *Settings) (*Settings, error) {
	if base == nil {
		base = DefaultSettings()
	}
	s := base
	var err error

	if c.Level != "" {
		level, err := ParseLevel(c.Level)
		if err != nil {
			return nil, err
		}
		s = s.WithLevel(level)
	}
	if c.StoreEnabled != nil {
		s = s.WithStoreEnabled(*c.StoreEnabled)
	}
	if c.TagPattern != nil {
		if s, err = s.WithTagPattern(*c.TagPattern); err != nil {
			return nil, err
		}
	}
	if c.Charset != "" {
		if s, err = s.WithCharset(c.Charset); err != nil {
			return nil, err
		}
	}
	if c.TimeFormat != "" {
		s = s.WithTimeFormat(c.TimeFormat)
	}
	if c.ZoneOffset != nil {
		if s, err = s.WithZoneOffset(*c.ZoneOffset); err != nil {
			return nil, err
		}
	}
	if c.RootDir != nil {
		if s, err = s.WithRootDir(*c.RootDir); err != nil {
			return nil, err
		}
	}
	if c.Directory != "" {
		if s, err = s.WithDirectory(c.Directory); err != nil {
			return nil, err
		}
	}
	if c.FilePrefix != nil {
		s = s.WithFilePrefix(*c.FilePrefix)
	}
	if c.FileSuffix != nil {
		s = s.WithFileSuffix(*c.FileSuffix)
	}
	if c.SegmentHours != 0 {
		if s, err = s.WithSegment(Segment(c.SegmentHours)); err != nil {
			return nil, err
		}
	}

	// Validate that both RetainDays and Retain are not specified simultaneously
	if c.RetainDays != nil && c.Retain != "" {
		return nil, goerrors.New(ErrCodeConfig, "cannot specify both retain_days and retain")
	}
	if c.RetainDays != nil {
		s = s.WithRetainDays(*c.RetainDays)
	}
	if c.Retain != "" {
		d, err := ParseDuration(c.Retain)
		if err != nil {
			return nil, goerrors.Wrap(err, ErrCodeConfig, "invalid retain")
		}
		if d > 0 && d < day {
			return nil, goerrors.New(ErrCodeConfig, "retain "+strconv.Quote(c.Retain)+" is shorter than one day")
		}
		s = s.WithRetainDays(int(d / day))
	}

	if c.HeaderInfo != nil {
		s = s.WithHeaderInfo(*c.HeaderInfo)
	}
	if c.ExtraHeaderInfo != "" {
		s = s.WithExtraHeaderInfo(c.ExtraHeaderInfo)
	}
	return s, nil
}

// DecodeConfig converts a generic map, as produced by a config file
// parser, into a Config. Values are weakly typed: "6" is accepted for
// segment_hours. A map nested under the "dlog" key takes precedence.
func DecodeConfig(values map[string]interface{}) (*Config, error) {
	if nested, ok := values["dlog"].(map[string]interface{}); ok {
		values = nested
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeConfig, "failed to create decoder")
	}
	if err := decoder.Decode(values); err != nil {
		return nil, goerrors.Wrap(err, ErrCodeConfig, "failed to decode configuration")
	}
	return cfg, nil
}

// LoadConfig reads a configuration file. The format (JSON, YAML, TOML,
// HCL, INI, properties) is detected from the extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is chosen by the application
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeConfig, "failed to read config file "+path)
	}
	values, err := argus.ParseConfig(data, argus.DetectFormat(path))
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeConfig, "failed to parse config file "+path)
	}
	return DecodeConfig(values)
}

// NewFromConfigFile creates a Logger whose settings are the defaults
// overridden by the file at path. config supplies the collaborators and
// may be nil.
func NewFromConfigFile(path string, config *LoggerConfig) (*Logger, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	lc := LoggerConfig{}
	if config != nil {
		lc = *config
	}
	settings, err := cfg.Apply(lc.Settings)
	if err != nil {
		return nil, err
	}
	lc.Settings = settings
	if cfg.ConsoleEnabled != nil {
		lc.DisableConsole = !*cfg.ConsoleEnabled
	}
	return NewWithConfig(&lc)
}

// ParseDuration converts duration strings like "7d", "24h" to time.Duration
// Supports Go durations plus common extensions
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}

	// Try standard Go duration first
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	s = strings.ToLower(s)

	var multiplier time.Duration
	var numStr string

	switch {
	case strings.HasSuffix(s, "d"):
		multiplier = day
		numStr = s[:len(s)-1]
	case strings.HasSuffix(s, "w"):
		multiplier = 7 * day
		numStr = s[:len(s)-1]
	case strings.HasSuffix(s, "y"):
		multiplier = 365 * day
		numStr = s[:len(s)-1]
	default:
		return 0, fmt.Errorf("unknown duration suffix in %q", s)
	}

	val, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration number in %q: %v", s, err)
	}

	return time.Duration(val) * multiplier, nil
}

// SanitizeFilename removes or replaces invalid characters for cross-platform compatibility
func SanitizeFilename(filename string) string {
	if runtime.GOOS == "windows" {
		// Windows invalid characters: < > : " | ? * and control characters
		invalidChars := []string{"<", ">", ":", "\"", "|", "?", "*"}
		result := filename

		for _, char := range invalidChars {
			result = strings.ReplaceAll(result, char, "_")
		}

		var sanitized strings.Builder
		for _, r := range result {
			if r >= 32 {
				sanitized.WriteRune(r)
			} else {
				sanitized.WriteRune('_')
			}
		}

		return sanitized.String()
	}

	// For Unix-like systems, just remove null characters
	return strings.ReplaceAll(filename, "\x00", "_")
}

// ValidatePathLength checks if the path length is within OS limits
func ValidatePathLength(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %v", err)
	}

	pathLen := len(absPath)

	switch runtime.GOOS {
	case "windows":
		// Windows has a 260 character limit for paths (historically)
		if pathLen > 260 {
			return fmt.Errorf("path too long for Windows: %d characters (limit: 260)", pathLen)
		}
	default:
		// Unix-like systems typically have higher limits (4096 on Linux)
		if pathLen > 4096 {
			return fmt.Errorf("path too long: %d characters (limit: 4096)", pathLen)
		}
	}

	return nil
}

// GetDefaultFileMode returns the permissions of newly created log files.
func GetDefaultFileMode() os.FileMode {
	return 0644
}
