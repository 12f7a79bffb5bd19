// example_test.go: Executable examples for godoc
//
// These examples appear in the generated documentation and are executable.
// Run with: go test -run Example

package dlog_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agilira/dlog"
)

// fixed is a clock stopped at 2025-03-01 08:12:45.120 UTC.
var fixed = dlog.ClockFunc(func() time.Time {
	return time.Date(2025, 3, 1, 8, 12, 45, 120*int(time.Millisecond), time.UTC)
})

// ExampleNewWithConfig shows the line format and the segment file name.
func ExampleNewWithConfig() {
	root, err := os.MkdirTemp("", "dlog-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(root)

	settings, err := dlog.DefaultSettings().WithRootDir(root)
	if err != nil {
		log.Fatal(err)
	}
	settings, err = settings.WithSegment(dlog.SegmentFourHours)
	if err != nil {
		log.Fatal(err)
	}
	settings = settings.WithHeaderInfo("")

	logger, err := dlog.NewWithConfig(&dlog.LoggerConfig{
		Settings:       settings,
		Clock:          fixed,
		DisableConsole: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Close()

	logger.Info("Startup", "listening on :8080")
	if err := logger.Flush(context.Background()); err != nil {
		log.Fatal(err)
	}

	files, _ := logger.ListFiles()
	for _, f := range files {
		data, _ := os.ReadFile(f)
		fmt.Println(filepath.Base(f))
		fmt.Print(strings.ReplaceAll(string(data), dlog.LineSeparator, "\n"))
	}
	// Output:
	// 20250301_1620.log
	// 2025-03-01 16:12:45.120-[INFO Startup]- listening on :8080
}

// ExampleSettings_WithTagPattern shows the admission rule.
func ExampleSettings_WithTagPattern() {
	settings, err := dlog.DefaultSettings().WithTagPattern("^(Net|Db)")
	if err != nil {
		log.Fatal(err)
	}
	settings = settings.WithLevel(dlog.LevelWarn)

	fmt.Println(settings.Admit(dlog.LevelError, "Network"))
	fmt.Println(settings.Admit(dlog.LevelError, "Ui"))
	fmt.Println(settings.Admit(dlog.LevelInfo, "Db"))
	// Output:
	// true
	// false
	// false
}

// ExampleSegmentLabel shows how hours map to segment labels.
func ExampleSegmentLabel() {
	fmt.Println(dlog.SegmentLabel(9, dlog.SegmentFourHours))
	fmt.Println(dlog.SegmentLabel(13, dlog.SegmentTwelveHours))
	fmt.Println(dlog.SegmentLabel(23, dlog.SegmentOneHour))
	// Output:
	// 0812
	// 1200
	// 2300
}

// ExampleParseDuration demonstrates the retention duration syntax.
func ExampleParseDuration() {
	for _, s := range []string{"72h", "7d", "2w"} {
		d, err := dlog.ParseDuration(s)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s = %v days\n", s, d.Hours()/24)
	}
	// Output:
	// 72h = 3 days
	// 7d = 7 days
	// 2w = 14 days
}
