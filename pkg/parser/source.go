package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// FileSource iterates over the events of a single daily log file.
// Lines that match no known shape are skipped but still counted, so
// callers can report how much of a file was recognizable.
type FileSource struct {
	path    string
	date    time.Time
	file    *os.File
	scanner *bufio.Scanner
	scanned int
}

// NewFileSource opens a log file for event iteration. date is the day
// implied by the file name, used for time-only timestamps.
func NewFileSource(path string, date time.Time) (*FileSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	return &FileSource{path: path, date: date, file: f, scanner: scanner}, nil
}

// Next returns the next recognized event. Returns io.EOF when the
// file is exhausted.
func (s *FileSource) Next(ctx context.Context) (Event, error) {
	for {
		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return Event{}, fmt.Errorf("reading %s: %w", s.path, err)
			}
			return Event{}, io.EOF
		}

		s.scanned++

		ev, ok := ParseLine(s.scanner.Text(), s.date)
		if !ok {
			continue
		}
		return ev, nil
	}
}

// Scanned reports the number of raw lines read so far, including
// unrecognized ones.
func (s *FileSource) Scanned() int {
	return s.scanned
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
