package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hdrprefix/internal/config"
	"hdrprefix/internal/logging"
	"hdrprefix/internal/rewrite"
)

var (
	// Operation flags
	prefFlag string
	fileFlag string
	pathFlag string
	spaceSrc string
	spaceDst string

	// Global flags
	configPath string
	verbose    bool
	showDiff   bool
	quiet      bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hdrprefix",
	Short: "Prefix verilog-parser includes and rename namespaces in a source tree",
	Long: `hdrprefix rewrites C/C++ sources in place, line by line.

Include rewrite (-pref with -path and/or -file):
  #include "verilog_ast.h"  ->  #include <verilogparser/verilog_ast.h>
Only the verilog parser headers are touched; other includes are left alone.

Namespace rename (-space_src and -space_dst with -path):
  every occurrence of the source token on a line that mentions "namespace"
  is replaced by the destination token.

Files are overwritten without backup. The first error stops the run.

Examples:
  hdrprefix -pref verilogparser -path src
  hdrprefix -pref verilogparser -file include/driver.hpp
  hdrprefix -path src -space_src yy -space_dst verilog`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Initialize(logging.Options{
			Level:      level,
			Format:     cfg.Logging.Format,
			File:       cfg.Logging.File,
			Categories: cfg.Logging.Categories,
			RunID:      logging.NewRunID(),
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Base()
		logging.BootDebug("config loaded from %s", configPath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runRewrite,
}

func init() {
	rootCmd.Flags().StringVar(&prefFlag, "pref", "", "Prefix to prepend (enables include rewriting)")
	rootCmd.Flags().StringVar(&fileFlag, "file", "", "File name for include rewriting")
	rootCmd.Flags().StringVar(&pathFlag, "path", "", "Path for recursive processing")
	rootCmd.Flags().StringVar(&spaceSrc, "space_src", "", "Namespace source token")
	rootCmd.Flags().StringVar(&spaceDst, "space_dst", "", "Namespace destination token")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&showDiff, "diff", false, "Print a unified diff of every changed file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the per-file trace")
}

func main() {
	rootCmd.SetArgs(normalizeLegacyFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hdrprefix:", err)
		os.Exit(1)
	}
}

// runRewrite applies the execution policy to the parsed flags.
func runRewrite(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if logger == nil {
		logger = zap.NewNop()
	}
	active := cfg
	if active == nil {
		active = config.DefaultConfig()
	}

	inv := invocation{
		Pref:     prefFlag,
		File:     fileFlag,
		Path:     pathFlag,
		SpaceSrc: spaceSrc,
		SpaceDst: spaceDst,
	}
	steps := planSteps(inv, pathExists)
	if len(steps) == 0 {
		logger.Info("nothing to do", zap.String("path", inv.Path), zap.String("file", inv.File))
		return nil
	}

	out := cmd.OutOrStdout()
	driver := rewrite.NewDriver(rewrite.Options{
		LibraryDir: active.PrefixSegment(inv.Pref),
		Exclude:    active.Walk.Exclude,
	}, newTraceReporter(out, quiet, showDiff))

	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name + " " + s.target
	}
	audit := logging.Audit("run")
	audit.RunStart(names)

	for _, s := range steps {
		logging.CLIDebug("running %s on %s", s.name, s.target)
		if err := s.run(ctx, driver); err != nil {
			logger.Error("step failed", zap.String("step", s.name), zap.Error(err))
			sum := driver.Summary()
			audit.RunEnd(sum.FilesVisited, sum.FilesChanged, sum.LinesChanged, err)
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	summary := driver.Summary()
	audit.RunEnd(summary.FilesVisited, summary.FilesChanged, summary.LinesChanged, nil)
	logging.CLI("%d files changed in %s", summary.FilesChanged, summary.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(out, renderSummary(summary))
	return nil
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
