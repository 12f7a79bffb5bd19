// printer.go: Sinks and the per-message pipeline
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import "sync/atomic"

// Sink receives every printed message.
type Sink interface {
	Emit(level Level, tag, message string)
}

// FileSink stores admitted messages through a FileWriter. Several sinks,
// each with its own settings, may share one writer; they then share its
// ordering lock and its consumer.
type FileSink struct {
	writer   *FileWriter
	settings func() *Settings
	clock    Clock
	report   func(operation string, err error)

	filtered atomic.Uint64
	closed   atomic.Bool
}

// NewFileSink stores messages through w. settings, clock and onError
// default to those of w when nil; failures of this sink's writes are
// reported to onError.
func NewFileSink(w *FileWriter, settings func() *Settings, clock Clock, onError func(operation string, err error)) *FileSink {
	if settings == nil {
		settings = w.settings
	}
	if clock == nil {
		clock = w.clock
	}
	return &FileSink{writer: w, settings: settings, clock: clock, report: onError}
}

// Emit checks admission against the current settings snapshot, then
// timestamps, formats and queues the line under the writer's ordering lock.
// The timestamp is taken inside the lock so that queue order and
// timestamp order agree.
func (f *FileSink) Emit(level Level, tag, message string) {
	if f.closed.Load() {
		f.writer.rejected.Add(1)
		return
	}
	s := f.settings()
	if !s.Admit(level, tag) {
		f.filtered.Add(1)
		return
	}
	f.writer.submitOrdered(func() writeTask {
		now := f.clock.Now()
		dir, name := ResolvePath(now, s)
		return writeTask{
			kind:     taskWrite,
			dir:      dir,
			name:     name,
			content:  s.formatLine(now, level, tag, message),
			when:     now,
			settings: s,
			report:   f.report,
		}
	})
}

// Delete queues removal of paths, reporting failures like this sink's writes.
func (f *FileSink) Delete(paths ...string) {
	if len(paths) == 0 {
		return
	}
	owned := append([]string(nil), paths...)
	f.writer.submitOrdered(func() writeTask {
		return writeTask{kind: taskDelete, paths: owned, report: f.report}
	})
}

// Close stops the sink. Later messages are counted as rejected by the
// writer; the writer itself stays open.
func (f *FileSink) Close() { f.closed.Store(true) }

// Filtered returns how many messages failed admission.
func (f *FileSink) Filtered() uint64 { return f.filtered.Load() }

// Printer fans a message out to its sinks in order.
type Printer struct {
	sinks []Sink
}

// NewPrinter creates a printer over sinks. The console sink is normally
// first so that console output never waits for the file pipeline.
func NewPrinter(sinks ...Sink) *Printer {
	return &Printer{sinks: append([]Sink(nil), sinks...)}
}

// Print sends the message to every sink.
func (p *Printer) Print(level Level, tag, message string) {
	for _, s := range p.sinks {
		s.Emit(level, tag, message)
	}
}

// Emit makes a Printer usable as a Sink of another Printer.
func (p *Printer) Emit(level Level, tag, message string) {
	p.Print(level, tag, message)
}
