package sim

import (
	"bufio"
	"os"
	"regexp"
	"time"
)

// The engine stamps the first log line like "Mar24-2023 10:30:15".
var runtimeStamp = regexp.MustCompile(`[A-Z][a-z][a-z]\d\d-\d\d\d\d \d\d:\d\d:\d\d`)

const runtimeLayout = "Jan02-2006 15:04:05"

// ReadRuntime parses the job start time from the first line of the engine
// log. ok is false when the log is missing or carries no timestamp, which
// is how never-started jobs look.
func ReadRuntime(logPath string) (t time.Time, ok bool) {
	file, err := os.Open(logPath)
	if err != nil {
		return time.Time{}, false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return time.Time{}, false
	}
	match := runtimeStamp.FindString(scanner.Text())
	if match == "" {
		return time.Time{}, false
	}
	t, err = time.Parse(runtimeLayout, match)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatRuntime renders a runtime the way rows store it, e.g.
// "Fri 24 Mar 2023, 10:30:15".
func FormatRuntime(t time.Time, ok bool) string {
	if !ok {
		return "Not Started"
	}
	return t.Format("Mon 02 Jan 2006, 15:04:05")
}
