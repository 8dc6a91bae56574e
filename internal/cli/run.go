package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aryankumar/topk/internal/output"
	"github.com/aryankumar/topk/internal/pipeline"
	"github.com/aryankumar/topk/internal/util"
)

// run computes the top k of file and prints it. Shard failures are printed
// and do not fail the command.
func (a *app) run(cmd *cobra.Command, file string) error {
	cfg := a.config
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := pipeline.Options{
		Input:      file,
		K:          cfg.K,
		Shards:     cfg.Shards,
		Workers:    cfg.Workers,
		ShardDir:   cfg.ShardDir,
		KeepShards: cfg.KeepShards,
		Timeout:    cfg.Timeout,
	}
	if cfg.Metrics {
		opts.Registry = prometheus.NewRegistry()
	}

	report, err := pipeline.Run(cmd.Context(), opts, a.logger)
	if err != nil {
		return err
	}

	output.WriteFailures(cmd.ErrOrStderr(), report, cfg.NoColor)
	if err := report.Err(); err != nil {
		a.logger.Warn("some shards were not merged",
			"error", fmt.Errorf("%w: %w", util.ErrPartialResult, err))
	}

	formatter := output.NewFormatter(output.Format(cfg.Output),
		output.WithNoColor(cfg.NoColor),
		output.WithWide(cfg.Verbose),
		output.WithMetrics(cfg.Metrics),
	)

	if err := formatter.FormatReport(cmd.OutOrStdout(), report); err != nil {
		return util.WrapErrorf(err, "failed to write %s output", cfg.Output)
	}

	a.logger.Debug("run finished", "summary", report.Summary().String())

	return nil
}
