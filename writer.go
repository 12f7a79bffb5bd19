// writer.go: Single consumer, serialized file writer
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dlog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	goerrors "github.com/agilira/go-errors"
)

type taskKind uint8

const (
	taskWrite taskKind = iota
	taskDelete
	taskBarrier
)

// writeTask is owned by the writer from the moment it is queued.
type writeTask struct {
	kind      taskKind
	dir       string
	name      string
	content   string
	overwrite bool
	when      time.Time
	settings  *Settings
	paths     []string
	done      chan struct{}
	report    func(operation string, err error) // nil means the writer's onError
}

// WriterStats is a snapshot of the writer counters.
type WriterStats struct {
	Enqueued       uint64 `json:"enqueued"`        // write and delete tasks accepted
	Written        uint64 `json:"written"`         // write tasks completed
	Deleted        uint64 `json:"deleted"`         // paths removed by delete tasks
	Failed         uint64 `json:"failed"`          // tasks dropped after an I/O error
	Rejected       uint64 `json:"rejected"`        // tasks submitted after Close
	SegmentsOpened uint64 `json:"segments_opened"` // files created by write tasks
	FilesSwept     uint64 `json:"files_swept"`     // entries removed by retention
	Pending        int64  `json:"pending"`         // tasks queued or executing
}

// FileWriter executes write and delete tasks one at a time on a dedicated
// goroutine, in the order they were queued. Writes to the same file never
// interleave and a delete never races with a write.
//
// Submission never blocks on I/O and never reports I/O errors: failures are
// handed to the error callback when the task runs, and the task is dropped.
// The queue is unbounded, so a producer that outpaces the disk grows memory
// without limit; Stats().Pending exposes the backlog.
type FileWriter struct {
	settings func() *Settings
	clock    Clock
	onError  func(operation string, err error)

	// mu guards queue and closed. It is also the ordering lock: the build
	// step of submitOrdered runs under it.
	mu     sync.Mutex
	queue  []writeTask
	closed bool
	notify chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once

	enqueued       atomic.Uint64
	written        atomic.Uint64
	deleted        atomic.Uint64
	failed         atomic.Uint64
	rejected       atomic.Uint64
	segmentsOpened atomic.Uint64
	filesSwept     atomic.Uint64
	pending        atomic.Int64
}

// NewFileWriter starts a writer. settings supplies the snapshot (header,
// charset, retention) attached to tasks submitted through Append and
// Overwrite; nil uses DefaultSettings. A nil clock uses time.Now and a nil
// onError discards failures.
func NewFileWriter(settings func() *Settings, clock Clock, onError func(operation string, err error)) *FileWriter {
	if settings == nil {
		defaults := DefaultSettings()
		settings = func() *Settings { return defaults }
	}
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	if onError == nil {
		onError = func(string, error) {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &FileWriter{
		settings: settings,
		clock:    clock,
		onError:  onError,
		notify:   make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()
	return w
}

// Append queues content to be appended to dir/name.
func (w *FileWriter) Append(dir, name, content string) {
	w.submitWrite(dir, name, content, false)
}

// Overwrite queues content to replace the content of dir/name.
func (w *FileWriter) Overwrite(dir, name, content string) {
	w.submitWrite(dir, name, content, true)
}

func (w *FileWriter) submitWrite(dir, name, content string, overwrite bool) {
	w.submitOrdered(func() writeTask {
		return writeTask{
			kind:      taskWrite,
			dir:       dir,
			name:      name,
			content:   content,
			overwrite: overwrite,
			when:      w.clock.Now(),
			settings:  w.settings(),
		}
	})
}

// Delete queues removal of paths. Directories are removed with their content.
func (w *FileWriter) Delete(paths ...string) {
	if len(paths) == 0 {
		return
	}
	owned := append([]string(nil), paths...)
	w.submitOrdered(func() writeTask {
		return writeTask{kind: taskDelete, paths: owned}
	})
}

// submitOrdered builds and queues a task while holding the ordering lock,
// so the queue order matches the order in which callers acquired it.
// build must not block.
func (w *FileWriter) submitOrdered(build func() writeTask) bool {
	if !w.enqueue(build) {
		w.rejected.Add(1)
		return false
	}
	return true
}

func (w *FileWriter) enqueue(build func() writeTask) bool {
	task, ok := w.push(build)
	if !ok {
		return false
	}
	if task.kind != taskBarrier {
		w.enqueued.Add(1)
	}
	w.signal()
	return true
}

// push runs build and appends its task under the ordering lock. A panic in
// build releases the lock and queues nothing.
func (w *FileWriter) push(build func() writeTask) (writeTask, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return writeTask{}, false
	}
	task := build()
	w.queue = append(w.queue, task)
	w.pending.Add(1)
	return task, true
}

func (w *FileWriter) signal() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Flush blocks until every task queued before the call has executed or
// ctx is done.
func (w *FileWriter) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if !w.enqueue(func() writeTask { return writeTask{kind: taskBarrier, done: done} }) {
		return goerrors.New(ErrCodeClosed, "file writer is closed")
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks, executes everything already queued and
// stops the consumer goroutine. It is safe to call more than once.
func (w *FileWriter) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()

		w.cancel()
		w.wg.Wait()
	})
	return nil
}

// Stats returns a snapshot of the writer counters.
func (w *FileWriter) Stats() WriterStats {
	return WriterStats{
		Enqueued:       w.enqueued.Load(),
		Written:        w.written.Load(),
		Deleted:        w.deleted.Load(),
		Failed:         w.failed.Load(),
		Rejected:       w.rejected.Load(),
		SegmentsOpened: w.segmentsOpened.Load(),
		FilesSwept:     w.filesSwept.Load(),
		Pending:        w.pending.Load(),
	}
}

// run is the consumer loop.
func (w *FileWriter) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			// Final drain before shutdown
			w.drain()
			return
		case <-w.notify:
			w.drain()
		}
	}
}

// drain executes queued tasks until the queue is empty.
func (w *FileWriter) drain() {
	for {
		w.mu.Lock()
		batch := w.queue
		w.queue = nil
		w.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for i := range batch {
			task := batch[i]
			batch[i] = writeTask{}
			w.execute(&task)
		}
	}
}

func (w *FileWriter) execute(t *writeTask) {
	switch t.kind {
	case taskWrite:
		w.write(t)
	case taskDelete:
		w.remove(t)
	}
	w.pending.Add(-1)
	if t.kind == taskBarrier {
		close(t.done)
	}
}

// write creates the directory when needed, runs retention and adds the
// header when the target file is new, then appends or overwrites.
func (w *FileWriter) write(t *writeTask) {
	s := t.settings
	if err := os.MkdirAll(t.dir, 0750); err != nil {
		w.fail(t, "directory_creation", goerrors.Wrap(err, ErrCodeMkdir,
			"failed to create log directory "+t.dir+" (check permissions and disk space)"))
		return
	}

	path := filepath.Join(t.dir, t.name)
	content := t.content
	if _, err := os.Stat(path); os.IsNotExist(err) {
		w.sweep(t, s.retainDays)
		if s.headerInfo != "" {
			content = s.headerInfo + LineSeparator + content
		}
		w.segmentsOpened.Add(1)
	}

	data, err := s.encode(content)
	if err != nil {
		w.fail(t, "encode", err)
		return
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if t.overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, GetDefaultFileMode()) // #nosec G304 -- path is built from the configured log directory
	if err != nil {
		w.fail(t, "file_open", goerrors.Wrap(err, ErrCodeWrite, "failed to open log file "+path))
		return
	}
	_, writeErr := file.Write(data)
	closeErr := file.Close()
	if writeErr != nil {
		w.fail(t, "file_write", goerrors.Wrap(writeErr, ErrCodeWrite, "failed to write log file "+path))
		return
	}
	if closeErr != nil {
		w.fail(t, "file_close", goerrors.Wrap(closeErr, ErrCodeWrite, "failed to close log file "+path))
		return
	}
	w.written.Add(1)

	// Retention compares modification times with task times, so the file
	// carries the time of its latest line rather than the wall clock.
	if err := os.Chtimes(path, t.when, t.when); err != nil {
		w.reporter(t)("file_times", goerrors.Wrap(err, ErrCodeWrite, "failed to set times of log file "+path))
	}
}

func (w *FileWriter) sweep(t *writeTask, retainDays int) {
	removed, err := Sweep(t.dir, retainDays, t.when)
	w.filesSwept.Add(uint64(removed)) // #nosec G115 -- removed is never negative
	if err != nil {
		// Stale files stay until the next new segment; the write goes on.
		w.reporter(t)("retention_sweep", goerrors.Wrap(err, ErrCodeSweep, "failed to remove expired files in "+t.dir))
	}
}

func (w *FileWriter) remove(t *writeTask) {
	failed := false
	for _, path := range t.paths {
		if err := removeTree(path); err != nil {
			failed = true
			w.reporter(t)("delete", goerrors.Wrap(err, ErrCodeDelete, "failed to delete "+path))
			continue
		}
		w.deleted.Add(1)
	}
	if failed {
		w.failed.Add(1)
	}
}

func (w *FileWriter) fail(t *writeTask, operation string, err error) {
	w.failed.Add(1)
	w.reporter(t)(operation, err)
}

// reporter returns where failures of t go: the submitter's callback when
// it supplied one, the writer's otherwise.
func (w *FileWriter) reporter(t *writeTask) func(string, error) {
	if t.report != nil {
		return t.report
	}
	return w.onError
}
