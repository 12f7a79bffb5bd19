// Package dlog provides leveled, tagged logging to the console and to
// time-segmented files, designed for long-running processes that need a
// local, rolling record of what they did.
//
// Every message goes to the console through a host logger (zap by default),
// split into chunks of at most 4000 characters. Messages that pass the
// admission rule are also appended to a file chosen by the message time,
// on a single background goroutine, in the order they were logged.
//
// # Quick Start
//
//	logger, err := dlog.NewWithDefaults()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer logger.Close()
//
//	logger.Info("Startup", "listening on :8080")
//	logger.ErrorErr("Db", "query failed", err)
//
// # Package-Level Functions
//
// Install a Logger as the default to log from anywhere. The tag names
// the call site:
//
//	dlog.SetDefault(logger)
//	dlog.I("connected")
//	// 2025-03-01 08:12:45.120-[INFO (client.go:42)#Dial]- connected
//	dlog.Log(dlog.LevelError, "Net", "dial failed", err)
//	// ...-[ERROR Net/(client.go:47)#Dial]- dial failed
//
// # Admission
//
// A message is stored when storage is enabled, its level is at least the
// configured minimum, and the tag pattern (if any) matches somewhere in
// its tag. Setting the level to LevelNone disables storage. The console
// is not subject to admission; it has its own switch:
//
//	s := dlog.DefaultSettings().WithLevel(dlog.LevelWarn)
//	s, err = s.WithTagPattern("^(Net|Db)")
//	logger.SetSettings(s)
//	logger.SetConsoleEnabled(false)
//
// # File Layout
//
// Files live in RootDir/Directory and are named after the date and, for
// segments shorter than a day, the hour range they cover:
//
//	dlogger/20250301.log             // SegmentDay
//	dlogger/app_20250301_0812.log    // prefix "app", SegmentFourHours, 08:00-12:00
//
// Dates and hours are computed in the configured zone offset (UTC+8 by
// default). The first write to a new file sweeps the directory: entries
// not modified within RetainDays days are removed. A new file starts with
// the header text, which by default describes the host and process.
//
// # Configuration Files
//
// Settings can be loaded from JSON, YAML, TOML, HCL, INI or properties
// files and reloaded when the file changes:
//
//	logger, err := dlog.NewFromConfigFile("dlog.yaml", nil)
//	watcher, err := dlog.WatchConfig(logger, "dlog.yaml")
//	defer watcher.Stop()
//
// Durations accept Go syntax plus days, weeks and years ("7d", "2w", "1y").
//
// # Error Handling
//
// Configuration errors are returned to the caller and carry a code:
//
//	if dlog.HasCode(err, dlog.ErrCodeInvalidPattern) { ... }
//
// File I/O never fails a logging call. Errors are passed to the
// ErrorCallback, printed on the console under the "dlog" tag, and the
// failed task is dropped:
//
//	logger, err := dlog.NewWithConfig(&dlog.LoggerConfig{
//		ErrorCallback: func(operation string, err error) {
//			metrics.Counter("log_errors").WithTag("op", operation).Inc()
//		},
//	})
//
// # Thread Safety
//
// All Logger methods are safe for concurrent use. Settings are immutable
// snapshots: a message is admitted, formatted and routed with the snapshot
// current when it was logged, even if the settings change before it is
// written. Use Flush to wait for queued messages to reach the disk.
package dlog
