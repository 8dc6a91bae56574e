package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aryankumar/topk/internal/config"
	"github.com/aryankumar/topk/pkg/version"
)

// app carries state shared by the commands of one invocation
type app struct {
	cfgFile string
	manager *config.Manager
	config  *config.Config
	logger  *slog.Logger
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "topk FILE",
		Short: "topk - find the most frequent keys in a large file",
		Long: `topk counts the keys of a line-oriented file and prints the k most
frequent ones. Each line is either "key" (counted once) or "key count".

Large inputs can be split into shards by key hash and counted in parallel
on a pool of workers; the per-shard results are then merged. A shard that
fails is reported and the remaining shards are still merged.`,
		Example: `  topk access.log
  topk -k 10 -s 8 -t 4 access.log
  topk -o table --timeout 5m access.log`,
		Version:       version.Get().Short(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.topk.yaml or $HOME/.topk.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "plain", "output format (plain, table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.Flags().IntP("k", "k", 100, "number of most frequent keys to print")
	rootCmd.Flags().IntP("shards", "s", 1, "number of shards to split the input into")
	rootCmd.Flags().IntP("workers", "t", 1, "number of worker threads")
	rootCmd.Flags().Duration("timeout", 0, "limit for counting the shards (0 means none)")
	rootCmd.Flags().String("shard-dir", "", "directory for shard files (default is the system temp dir)")
	rootCmd.Flags().Bool("keep-shards", false, "keep shard files after the run")
	rootCmd.Flags().Bool("metrics", false, "print worker pool metrics after the results")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// initConfig loads configuration and sets up logging
func (a *app) initConfig(cmd *cobra.Command) error {
	a.manager = config.NewManager(a.cfgFile)
	if err := a.manager.BindFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := a.manager.Load()
	if err != nil {
		return err
	}
	a.config = cfg

	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.NoColor)
	slog.SetDefault(a.logger)

	if cfg.Verbose {
		a.logger.Debug("verbose logging enabled")
		if file := a.manager.ConfigFileUsed(); file != "" {
			a.logger.Debug("loaded configuration", "file", file)
		}
	}

	return nil
}
