package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aretw0/pph"
	"github.com/aretw0/pph/internal/platform"
	"github.com/aretw0/pph/pkg/core"
)

var (
	verbose    bool
	dataDir    string
	adapter    string
	configPath string
	readOnly   bool

	// Set by the root pre-run. Flags take precedence over cfg.
	cfg    *platform.Config
	hubDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pph",
	Short: "Personal Productivity Hub: todos, notes, links and images in one widget",
	Long: `pph keeps four small lists and a few preferences in a local key/value store
and serves them as a single-page widget. Every command works on the same data,
so a running "pph serve" picks up changes made from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir()
		if err != nil {
			return err
		}

		path := configPath
		if path == "" {
			path = filepath.Join(dir, platform.ConfigFile)
		}
		cfg, err = platform.LoadConfig(path)
		if err != nil {
			return err
		}
		if dataDir == "" && cfg.Dir != "" {
			if filepath.IsAbs(cfg.Dir) {
				dir = cfg.Dir
			} else {
				dir = filepath.Join(filepath.Dir(path), cfg.Dir)
			}
		}
		hubDir = dir

		level := slog.LevelInfo
		if cfg.LogLevel != "" {
			if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
				return fmt.Errorf("config %s: %w", path, err)
			}
		}
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(newLogger(level))
		return nil
	},
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}

// resolveDir picks the data directory: the --dir flag, then the nearest
// directory marked as a hub, then the working directory.
func resolveDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := pph.FindRoot(wd)
	if errors.Is(err, platform.ErrRootNotFound) {
		return wd, nil
	}
	if err != nil {
		return "", err
	}
	return root, nil
}

// options merges the config file and the persistent flags.
func options(cmd *cobra.Command) []pph.Option {
	opts := []pph.Option{pph.WithLogger(slog.Default())}
	if cfg != nil {
		opts = append(opts, cfg.Options()...)
	}
	if adapter != "" {
		opts = append(opts, pph.WithAdapter(adapter))
	}
	if cmd.Flags().Changed("read-only") {
		opts = append(opts, pph.WithReadOnly(readOnly))
	}
	return opts
}

func openHub(cmd *cobra.Command) (*pph.Hub, error) {
	h, err := pph.New(hubDir, options(cmd)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open hub at %s: %w", hubDir, err)
	}
	return h, nil
}

func openStorage(cmd *cobra.Command) (core.Storage, error) {
	s, err := pph.Open(hubDir, options(cmd)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage at %s: %w", hubDir, err)
	}
	return s, nil
}

func closeStorage(s core.Storage) {
	if c, ok := s.(core.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close storage", "error", err)
		}
	}
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "Data directory (default: nearest hub root or the working directory)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <dir>/pph.yaml)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Open the storage read-only")
}
