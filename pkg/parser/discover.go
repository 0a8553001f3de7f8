package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// LogFile is a discovered daily log file and the day its name encodes.
type LogFile struct {
	Path string
	Date time.Time
}

// Discover lists the daily log files under dir, sorted by path for
// deterministic processing order. Files whose name is not
// YYYY-MM-DD.log are ignored.
func Discover(dir string) ([]LogFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading log directory %s: %w", dir, err)
	}

	var files []LogFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, ok := DateFromName(entry.Name())
		if !ok {
			continue
		}
		files = append(files, LogFile{Path: filepath.Join(dir, entry.Name()), Date: date})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return files, nil
}

// DateFromName extracts the day encoded in a daily log file name.
func DateFromName(name string) (time.Time, bool) {
	stem := strings.TrimSuffix(name, ".log")
	if stem == name {
		return time.Time{}, false
	}
	date, err := time.Parse(dateLayout, stem)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
