package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustycloud/chanstats/pkg/cache"
	"github.com/rustycloud/chanstats/pkg/config"
	"github.com/rustycloud/chanstats/pkg/output"
	"github.com/rustycloud/chanstats/pkg/pipeline"
)

// ExitCode is set by commands to indicate the result.
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Config   string
	Output   string
	CacheDir string
	NoCache  bool
	Workers  int
	TopN     int
	Quiet    bool
	Verbose  bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <log-dir>",
		Short: "Aggregate statistics from a directory of daily log files",
		Long: `Analyze a directory of daily IRC log files (YYYY-MM-DD.log) and
produce per-nick and per-channel statistics.

Per-day results are cached; repeated runs only re-parse files whose
content changed.

Exit codes:
  0 - Report produced
  1 - No log files found
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Snapshot cache directory")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Re-parse every file, ignoring the cache")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Parse worker count (0 = one per CPU)")
	cmd.Flags().IntVar(&opts.TopN, "top", 0, "Ranking table size")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Per-file progress on stderr")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, warnings, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "config: %s\n", warning)
	}

	applyFlagOverrides(cfg, opts)

	logDir := cfg.LogDir
	if len(args) == 1 {
		logDir = args[0]
	}
	if logDir == "" {
		return errors.New("no log directory given (argument or log_dir in config)")
	}

	var store *cache.Store
	if !opts.NoCache {
		store, err = cache.NewStore(cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
	}

	p := pipeline.New(cfg, store)
	if opts.Verbose {
		p.Progress = func(line string) {
			fmt.Fprintln(os.Stderr, line)
		}
	}

	result, err := p.Run(ctx, logDir)
	if err != nil && !errors.Is(err, pipeline.ErrNoLogFiles) {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, ferr := createFormatter(opts)
	if ferr != nil {
		return ferr
	}

	report := output.NewReport(result, cfg.TopN)
	if ferr := formatter.Format(ctx, report, os.Stdout); ferr != nil {
		return fmt.Errorf("formatting output: %w", ferr)
	}

	// A zero-file run still emits an empty, well-formed report; only
	// the exit code flags the condition.
	if errors.Is(err, pipeline.ErrNoLogFiles) {
		fmt.Fprintf(os.Stderr, "chanstats: %v in %s\n", err, logDir)
		ExitCode = 1
	}

	return nil
}

func applyFlagOverrides(cfg *config.Config, opts *AnalyzeOptions) {
	if opts.CacheDir != "" {
		cfg.CacheDir = opts.CacheDir
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.TopN > 0 {
		cfg.TopN = opts.TopN
	}
}

func createFormatter(opts *AnalyzeOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{Quiet: opts.Quiet}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}
