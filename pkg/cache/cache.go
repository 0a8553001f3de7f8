// Package cache persists per-day snapshots keyed by source file path
// and content fingerprint, so unchanged files are never re-parsed.
// Every failure mode degrades to a cache miss; corruption can cost a
// re-parse but never correctness.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/rustycloud/chanstats/pkg/stats"
)

// schemaVersion invalidates entries written by incompatible builds.
// An unrecognized version is a miss, not an error.
const schemaVersion = 1

// Entry is the on-disk record: a snapshot plus everything needed to
// decide whether it is still valid.
type Entry struct {
	Schema       int
	Source       string
	Fingerprint  string
	ConfigDigest string
	Snapshot     *stats.DaySnapshot
}

// Store is a directory of cache entries, one per source file. A Store
// is constructed per run and passed into the pipeline; there is no
// package-level state.
type Store struct {
	dir string
}

// NewStore creates the cache directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Get returns the cached snapshot for path if the stored fingerprint
// matches the file's current content and the stored config digest
// matches configDigest. Any read, decode, or schema problem is a miss.
func (s *Store) Get(path, configDigest string) (*stats.DaySnapshot, bool) {
	fingerprint, err := Fingerprint(path)
	if err != nil {
		return nil, false
	}

	f, err := os.Open(s.entryPath(path))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var entry Entry
	if err := json.NewDecoder(lz4.NewReader(f)).Decode(&entry); err != nil {
		return nil, false
	}

	if entry.Schema != schemaVersion ||
		entry.Fingerprint != fingerprint ||
		entry.ConfigDigest != configDigest ||
		entry.Snapshot == nil {
		return nil, false
	}

	return entry.Snapshot, true
}

// Put stores a snapshot for path. The entry is written to a temporary
// file and renamed so readers never observe a partial entry.
func (s *Store) Put(path, configDigest string, snap *stats.DaySnapshot) error {
	fingerprint, err := Fingerprint(path)
	if err != nil {
		return fmt.Errorf("fingerprinting %s: %w", path, err)
	}

	entry := Entry{
		Schema:       schemaVersion,
		Source:       path,
		Fingerprint:  fingerprint,
		ConfigDigest: configDigest,
		Snapshot:     snap,
	}

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := lz4.NewWriter(tmp)
	if err := json.NewEncoder(zw).Encode(&entry); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.entryPath(path)); err != nil {
		return fmt.Errorf("replacing cache entry: %w", err)
	}

	return nil
}

// Clear removes every cache entry. Returns the number removed.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), entrySuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("removing cache entry %s: %w", entry.Name(), err)
		}
		removed++
	}

	return removed, nil
}

// Status reports entry count and total byte size.
func (s *Store) Status() (entries int, bytes int64, err error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range dirEntries {
		if !strings.HasSuffix(entry.Name(), entrySuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		entries++
		bytes += info.Size()
	}

	return entries, bytes, nil
}

// Fingerprint returns the SHA-256 hex digest of a file's content.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

const entrySuffix = ".json.lz4"

// entryPath maps a source file path to its cache entry path, keyed by
// the file's stem (daily files are uniquely named by date).
func (s *Store) entryPath(source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(s.dir, stem+entrySuffix)
}
