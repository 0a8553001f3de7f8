// Package pipeline orchestrates a full run: file discovery, the
// known-identity pass, per-file aggregation with caching, and the
// final merge. Files are parsed independently on a worker pool; the
// merge is associative and commutative, so worker completion order
// never affects the report.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/rustycloud/chanstats/pkg/cache"
	"github.com/rustycloud/chanstats/pkg/config"
	"github.com/rustycloud/chanstats/pkg/identity"
	"github.com/rustycloud/chanstats/pkg/parser"
	"github.com/rustycloud/chanstats/pkg/profanity"
	"github.com/rustycloud/chanstats/pkg/stats"
)

// ErrNoLogFiles is returned when the log directory contains no daily
// log files. The accompanying result still carries an empty,
// well-formed report.
var ErrNoLogFiles = errors.New("no log files found")

// Result is the outcome of one run.
type Result struct {
	Report *stats.AggregateReport

	// Files is the number of discovered log files.
	Files int

	// CacheHits counts files served from the snapshot cache.
	CacheHits int

	// Warnings describes per-file failures; a warning never aborts
	// the remaining files.
	Warnings []string
}

// Pipeline runs the parse-aggregate-merge flow. The cache store is
// owned by the caller and scoped to one run; a nil store disables
// caching.
type Pipeline struct {
	cfg      *config.Config
	resolver *identity.Resolver
	classify profanity.Classifier
	store    *cache.Store

	// Progress, when set, receives one human-readable line per
	// processed file.
	Progress func(line string)
}

// New builds a pipeline from configuration. store may be nil.
func New(cfg *config.Config, store *cache.Store) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		resolver: identity.NewResolver(cfg.Aliases, cfg.Bots, cfg.BridgeBots),
		classify: profanity.FromWords(cfg.ProfaneWords),
		store:    store,
	}
}

// Run processes every daily log file under logDir and merges the
// snapshots into one report.
func (p *Pipeline) Run(ctx context.Context, logDir string) (*Result, error) {
	files, err := parser.Discover(logDir)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: len(files)}

	if len(files) == 0 {
		result.Report = stats.Merge(nil, p.cfg.QuotePoolSize)
		result.Report.Meta = p.cfg.Users
		return result, ErrNoLogFiles
	}

	known, err := p.buildKnown(ctx, files)
	if err != nil {
		return nil, err
	}

	digest := p.runDigest(known)

	snapshots := make([]*stats.DaySnapshot, len(files))
	warnings := make([]string, len(files))
	hits := make([]bool, len(files))

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				snapshots[i], hits[i], warnings[i] = p.processFile(ctx, files[i], known, digest)
			}
		}()
	}

	for i := range files {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var usable []*stats.DaySnapshot
	for i, snap := range snapshots {
		if warnings[i] != "" {
			result.Warnings = append(result.Warnings, warnings[i])
		}
		if snap != nil {
			usable = append(usable, snap)
		}
		if hits[i] {
			result.CacheHits++
		}
	}

	result.Report = stats.Merge(usable, p.cfg.QuotePoolSize)
	result.Report.Meta = p.cfg.Users

	return result, nil
}

// processFile returns the snapshot for one file, from cache when the
// stored fingerprint and digest still match. Failures are degraded to
// a warning; the file simply contributes nothing to the report.
func (p *Pipeline) processFile(ctx context.Context, file parser.LogFile, known map[string]bool, digest string) (*stats.DaySnapshot, bool, string) {
	if p.store != nil {
		if snap, ok := p.store.Get(file.Path, digest); ok {
			p.progress(fmt.Sprintf("%s: cached, %d lines", file.Path, snap.TotalLines))
			return snap, true, ""
		}
	}

	snap, err := p.parseFile(ctx, file, known)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err.Error()
		}
		return nil, false, fmt.Sprintf("skipping %s: %v", file.Path, err)
	}

	if p.store != nil {
		if err := p.store.Put(file.Path, digest, snap); err != nil {
			p.progress(fmt.Sprintf("%s: cache write failed: %v", file.Path, err))
		}
	}

	p.progress(fmt.Sprintf("%s: parsed, %d lines", file.Path, snap.TotalLines))

	return snap, false, ""
}

func (p *Pipeline) parseFile(ctx context.Context, file parser.LogFile, known map[string]bool) (*stats.DaySnapshot, error) {
	src, err := parser.NewFileSource(file.Path, file.Date)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	agg := stats.NewAggregator(file.Date.Format("2006-01-02"), p.resolver, known,
		p.cfg.StopWords, p.classify, p.cfg.QuotePoolSize)

	for {
		ev, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		agg.Add(ev)
	}

	agg.SetScanned(src.Scanned())

	return agg.Snapshot(), nil
}

// buildKnown is the first pass: collect every identity that speaks,
// after bridge rewriting and alias resolution, excluding bots. The set
// drives mention scanning in the aggregation pass.
func (p *Pipeline) buildKnown(ctx context.Context, files []parser.LogFile) (map[string]bool, error) {
	known := make(map[string]bool)

	for _, file := range files {
		src, err := parser.NewFileSource(file.Path, file.Date)
		if err != nil {
			continue // reported in the aggregation pass
		}

		for {
			ev, err := src.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					src.Close()
					return nil, err
				}
				break
			}
			if ev.Kind != parser.KindMessage && ev.Kind != parser.KindAction {
				continue
			}
			id := p.resolver.Resolve(p.resolver.Rewrite(ev).Actor)
			if id != identity.Excluded {
				known[id] = true
			}
		}

		src.Close()
	}

	return known, nil
}

// runDigest combines everything that affects snapshot content beyond
// the file itself: resolver configuration, stop and profane words, the
// quote pool size, and the known-identity set. A change to any of them
// invalidates cached snapshots.
func (p *Pipeline) runDigest(known map[string]bool) string {
	ids := make([]string, 0, len(known))
	for id := range known {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stop := append([]string(nil), p.cfg.StopWords...)
	sort.Strings(stop)
	profane := append([]string(nil), p.cfg.ProfaneWords...)
	sort.Strings(profane)

	h := sha256.New()
	h.Write([]byte(p.resolver.ConfigDigest()))
	h.Write([]byte(strconv.Itoa(p.cfg.QuotePoolSize)))
	for _, s := range stop {
		h.Write([]byte("stop:" + s))
		h.Write([]byte{0})
	}
	for _, s := range profane {
		h.Write([]byte("profane:" + s))
		h.Write([]byte{0})
	}
	for _, id := range ids {
		h.Write([]byte("known:" + id))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}

func (p *Pipeline) progress(line string) {
	if p.Progress != nil {
		p.Progress(line)
	}
}
