package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rustycloud/chanstats/pkg/cache"
	"github.com/rustycloud/chanstats/pkg/config"
)

// CacheOptions holds command-line options for the cache commands.
type CacheOptions struct {
	Config   string
	CacheDir string
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand() *cobra.Command {
	opts := &CacheOptions{}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the snapshot cache",
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (optional)")
	cmd.PersistentFlags().StringVar(&opts.CacheDir, "cache-dir", "", "Snapshot cache directory")

	cmd.AddCommand(newCacheStatusCommand(opts))
	cmd.AddCommand(newCacheClearCommand(opts))

	return cmd
}

func newCacheStatusCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cache entry count and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}

			entries, size, err := store.Status()
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d entries, %s\n", store.Dir(), entries, humanize.Bytes(uint64(size)))
			return nil
		},
	}
}

func newCacheClearCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}

			removed, err := store.Clear()
			if err != nil {
				return err
			}

			fmt.Printf("removed %d cache entries from %s\n", removed, store.Dir())
			return nil
		},
	}
}

func openStore(opts *CacheOptions) (*cache.Store, error) {
	cfg, warnings, err := config.Load(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "config: %s\n", warning)
	}

	if opts.CacheDir != "" {
		cfg.CacheDir = opts.CacheDir
	}

	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	return store, nil
}
