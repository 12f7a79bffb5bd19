// main.go: dlog command, stores lines read from stdin as log messages
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Command dlog reads lines from standard input and logs each one, so the
// output of any program can be kept in time-segmented, self-cleaning files:
//
//	./server 2>&1 | dlog --root /var/log/server --segment 4 --retain 14d --tag Server
//
// Settings come from the defaults, then the --config file, then the flags.
// With --watch the config file is reloaded whenever it changes.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	flashflags "github.com/agilira/flash-flags"

	"github.com/agilira/dlog"
)

const flushTimeout = 10 * time.Second

type options struct {
	config  string
	root    string
	dir     string
	prefix  string
	segment int
	retain  string
	level   string
	tag     string
	pattern string
	watch   bool
	quiet   bool
	list    bool
	purge   bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "dlog: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "dlog: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	fs := flashflags.New("dlog")
	config := fs.String("config", "", "Configuration file (json, yaml, toml, hcl, ini, properties)")
	root := fs.String("root", "", "Root directory of the log directory")
	dir := fs.String("dir", "", "Log directory name under the root")
	prefix := fs.String("prefix", "", "File name prefix")
	segment := fs.Int("segment", 0, segmentUsage())
	retain := fs.String("retain", "", "Retention, e.g. 7d, 2w, 72h")
	level := fs.String("level", "", "Level of the logged lines and minimum stored level")
	tag := fs.String("tag", "Stdin", "Tag of the logged lines")
	pattern := fs.String("pattern", "", "Regular expression a tag must match to be stored")
	watch := fs.Bool("watch", false, "Reload the config file when it changes")
	quiet := fs.Bool("quiet", false, "Do not echo lines on the console")
	list := fs.Bool("list", false, "List the log files and exit")
	purge := fs.Bool("purge", false, "Delete the log directory and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &options{
		config:  *config,
		root:    *root,
		dir:     *dir,
		prefix:  *prefix,
		segment: *segment,
		retain:  *retain,
		level:   *level,
		tag:     *tag,
		pattern: *pattern,
		watch:   *watch,
		quiet:   *quiet,
		list:    *list,
		purge:   *purge,
	}, nil
}

// segmentUsage lists the accepted --segment values.
func segmentUsage() string {
	segs := dlog.SupportedSegments()
	hours := make([]string, len(segs))
	for i, seg := range segs {
		hours[i] = strconv.Itoa(seg.Hours())
	}
	return "Hours per file: " + strings.Join(hours, ", ")
}

// flagConfig expresses the flags as a configuration layered over the file.
func (o *options) flagConfig() *dlog.Config {
	cfg := &dlog.Config{
		Level:        o.level,
		Directory:    o.dir,
		SegmentHours: o.segment,
		Retain:       o.retain,
	}
	if o.root != "" {
		cfg.RootDir = &o.root
	}
	if o.prefix != "" {
		cfg.FilePrefix = &o.prefix
	}
	if o.pattern != "" {
		cfg.TagPattern = &o.pattern
	}
	return cfg
}

func newLogger(o *options) (*dlog.Logger, error) {
	base := &dlog.LoggerConfig{DisableConsole: o.quiet}
	if o.config == "" {
		settings, err := o.flagConfig().Apply(nil)
		if err != nil {
			return nil, err
		}
		base.Settings = settings
		return dlog.NewWithConfig(base)
	}

	logger, err := dlog.NewFromConfigFile(o.config, base)
	if err != nil {
		return nil, err
	}
	if err := logger.UpdateSettings(o.flagConfig().Apply); err != nil {
		_ = logger.Close()
		return nil, err
	}
	if o.quiet {
		logger.SetConsoleEnabled(false)
	}
	return logger, nil
}

func run(o *options, in io.Reader, out io.Writer) error {
	level := dlog.LevelInfo
	if o.level != "" {
		var err error
		if level, err = dlog.ParseLevel(o.level); err != nil {
			return err
		}
	}

	logger, err := newLogger(o)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	switch {
	case o.list:
		files, err := logger.ListFiles()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(out, f)
		}
		return nil
	case o.purge:
		logger.Purge()
		return flush(logger)
	}

	if o.watch && o.config != "" {
		watcher, err := dlog.WatchConfig(logger, o.config)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Stop() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				var err error
				select {
				case err = <-scanErr:
				default:
				}
				if ferr := flush(logger); err == nil {
					err = ferr
				}
				return err
			}
			logger.Print(level, o.tag, line)
		case <-ctx.Done():
			return flush(logger)
		}
	}
}

func flush(logger *dlog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	return logger.Flush(ctx)
}
