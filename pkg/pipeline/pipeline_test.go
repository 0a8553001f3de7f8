package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rustycloud/chanstats/pkg/cache"
	"github.com/rustycloud/chanstats/pkg/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Workers = 2
	return cfg
}

func writeLogs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.NewStore(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestRun_Basic(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-26.log": "[10:00:00] <alice> hello bob\n[10:01:00] <bob> hi alice\n",
	})

	p := New(testConfig(), nil)
	result, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	report := result.Report
	if report.Nicks["alice"].Messages != 1 || report.Nicks["bob"].Messages != 1 {
		t.Errorf("message counts = %+v", report.Nicks)
	}
	if report.Nicks["alice"].MentionsReceived != 1 {
		t.Errorf("alice.MentionsReceived = %d, want 1", report.Nicks["alice"].MentionsReceived)
	}
	if report.Nicks["bob"].MentionsReceived != 1 {
		t.Errorf("bob.MentionsReceived = %d, want 1", report.Nicks["bob"].MentionsReceived)
	}
	if len(report.Topics) != 0 {
		t.Errorf("Topics = %+v, want none", report.Topics)
	}
	if report.Hours[10] != 2 {
		t.Errorf("hour-10 bucket = %d, want 2", report.Hours[10])
	}
}

func TestRun_Idempotent(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-25.log": "[09:00:00] <alice> yesterday was fine\n",
		"2025-06-26.log": "[10:00:00] <alice> hello bob\n[10:01:00] <bob> hi alice\n",
	})
	store := newStore(t)
	cfg := testConfig()

	first, err := New(cfg, store).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHits != 0 {
		t.Errorf("first run CacheHits = %d, want 0", first.CacheHits)
	}

	second, err := New(cfg, store).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHits != second.Files {
		t.Errorf("second run CacheHits = %d/%d, want all hits", second.CacheHits, second.Files)
	}

	if !reflect.DeepEqual(first.Report, second.Report) {
		t.Error("cached run produced a different report than the fresh run")
	}
}

func TestRun_CacheInvalidatedByContent(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-26.log": "[10:00:00] <alice> hello\n",
	})
	store := newStore(t)
	cfg := testConfig()

	if _, err := New(cfg, store).Run(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	logPath := filepath.Join(dir, "2025-06-26.log")
	content := "[10:00:00] <alice> hello\n[10:01:00] <alice> again\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := New(cfg, store).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheHits != 0 {
		t.Errorf("CacheHits = %d, want 0 after content change", result.CacheHits)
	}
	if got := result.Report.Nicks["alice"].Messages; got != 2 {
		t.Errorf("alice.Messages = %d, want 2 (fresh parse)", got)
	}
}

func TestRun_CacheInvalidatedByConfig(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-26.log": "[10:00:00] <rc> hello\n",
	})
	store := newStore(t)

	if _, err := New(testConfig(), store).Run(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	// Adding an alias changes resolution, so the old snapshot is stale.
	cfg := testConfig()
	cfg.Aliases = map[string]string{"rc": "rustycloud"}

	result, err := New(cfg, store).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheHits != 0 {
		t.Errorf("CacheHits = %d, want 0 after config change", result.CacheHits)
	}
	if _, ok := result.Report.Nicks["rustycloud"]; !ok {
		t.Errorf("Nicks = %v, want rustycloud", result.Report.Nicks)
	}
}

func TestRun_CorruptCacheEntryReparsed(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-26.log": "[10:00:00] <alice> hello bob\n[10:01:00] <bob> hi alice\n",
	})
	cfg := testConfig()

	fresh, err := New(cfg, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	store := newStore(t)
	if _, err := New(cfg, store).Run(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	entry := filepath.Join(store.Dir(), "2025-06-26.json.lz4")
	if err := os.WriteFile(entry, []byte("truncated"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := New(cfg, store).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheHits != 0 {
		t.Errorf("CacheHits = %d, want 0 for a corrupt entry", result.CacheHits)
	}
	if !reflect.DeepEqual(result.Report, fresh.Report) {
		t.Error("recovery parse differs from a from-scratch parse")
	}
}

func TestRun_AliasTransitivity(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-25.log": "[10:00:00] <rc> early spelling\n",
		"2025-06-26.log": "[10:00:00] <rustycloud> later spelling\n",
	})
	cfg := testConfig()
	cfg.Aliases = map[string]string{"rc": "rustycloud"}

	result, err := New(cfg, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := result.Report.Nicks["rc"]; ok {
		t.Error("alias spelling appears as its own identity")
	}
	if got := result.Report.Nicks["rustycloud"].Messages; got != 2 {
		t.Errorf("rustycloud.Messages = %d, want the summed spellings", got)
	}
}

func TestRun_BotExclusion(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-26.log": "[10:00:00] <statsbot> alice is winning\n" +
			"[10:01:00] <alice> thanks statsbot\n",
	})
	cfg := testConfig()
	cfg.Bots = []string{"statsbot"}

	result, err := New(cfg, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	report := result.Report
	if _, ok := report.Nicks["statsbot"]; ok {
		t.Error("bot appears as a ranked identity")
	}
	if got := report.Nicks["alice"].MentionsReceived; got != 0 {
		t.Errorf("alice.MentionsReceived = %d, want 0 (bot lines count nothing)", got)
	}
	if report.TotalLines != 2 {
		t.Errorf("TotalLines = %d, want 2 (bot lines still count raw)", report.TotalLines)
	}
}

func TestRun_BridgeRewrite(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-26.log": "[10:00:00] <discord> <rc> relayed hello\n",
	})
	cfg := testConfig()
	cfg.BridgeBots = []string{"discord"}
	cfg.Aliases = map[string]string{"rc": "rustycloud"}

	result, err := New(cfg, nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	report := result.Report
	if _, ok := report.Nicks["discord"]; ok {
		t.Error("relay account appears as an identity")
	}
	ns, ok := report.Nicks["rustycloud"]
	if !ok {
		t.Fatalf("Nicks = %v, want rustycloud", report.Nicks)
	}
	if ns.Messages != 1 || ns.LastMessage != "relayed hello" {
		t.Errorf("rustycloud = %+v, want the rewritten message", ns)
	}
}

func TestRun_UnreadableFileSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	dir := writeLogs(t, map[string]string{
		"2025-06-25.log": "[10:00:00] <alice> readable\n",
		"2025-06-26.log": "[10:00:00] <bob> unreadable\n",
	})
	if err := os.Chmod(filepath.Join(dir, "2025-06-26.log"), 0o000); err != nil {
		t.Fatal(err)
	}

	result, err := New(testConfig(), nil).Run(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one per-file warning", result.Warnings)
	}
	if result.Report.Nicks["alice"].Messages != 1 {
		t.Error("readable file should still contribute")
	}
	if _, ok := result.Report.Nicks["bob"]; ok {
		t.Error("unreadable file contributed to the report")
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	result, err := New(testConfig(), nil).Run(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNoLogFiles) {
		t.Fatalf("err = %v, want ErrNoLogFiles", err)
	}

	// The zero-file run still yields an empty, well-formed report.
	if result == nil || result.Report == nil {
		t.Fatal("missing empty report")
	}
	if result.Report.TotalLines != 0 || len(result.Report.Nicks) != 0 {
		t.Errorf("empty report = %+v", result.Report)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	dir := writeLogs(t, map[string]string{
		"2025-06-26.log": "[10:00:00] <alice> hello\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(testConfig(), nil).Run(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
