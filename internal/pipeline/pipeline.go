// Package pipeline runs a sharded top-k computation: partition the input,
// count each shard on a worker pool, then merge the per-shard results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aryankumar/topk/internal/executor"
	"github.com/aryankumar/topk/internal/shard"
	"github.com/aryankumar/topk/internal/topk"
	"github.com/aryankumar/topk/internal/util"
)

// Options controls one run
type Options struct {
	// Input is the file to analyse
	Input string

	// K is how many entries to report
	K int

	// Shards is the number of partitions; 1 reads Input directly
	Shards int

	// Workers is the pool size
	Workers int

	// ShardDir is where the per-run work directory is created.
	// Empty means the system temp directory.
	ShardDir string

	// KeepShards leaves the shard files on disk after the run
	KeepShards bool

	// Timeout bounds the counting stage. Zero means no limit.
	Timeout time.Duration

	// Registry receives pool metrics when non-nil
	Registry *prometheus.Registry
}

// ShardFailure records a shard whose result could not be merged
type ShardFailure struct {
	Shard  string `json:"shard" yaml:"shard"`
	Reason string `json:"reason" yaml:"reason"`
}

// Report is the outcome of a run
type Report struct {
	Input         string             `json:"input" yaml:"input"`
	K             int                `json:"k" yaml:"k"`
	Shards        int                `json:"shards" yaml:"shards"`
	Workers       int                `json:"workers" yaml:"workers"`
	Entries       []topk.Entry       `json:"entries" yaml:"entries"`
	Failures      []ShardFailure     `json:"failures,omitempty" yaml:"failures,omitempty"`
	Outcomes      []executor.Outcome `json:"-" yaml:"-"`
	PartitionTime time.Duration      `json:"partition_time" yaml:"partition_time"`
	MergeTime     time.Duration      `json:"merge_time" yaml:"merge_time"`
	Lines         int64              `json:"lines,omitempty" yaml:"lines,omitempty"`
	Pool          executor.Stats     `json:"pool" yaml:"pool"`
	Metrics       []executor.Sample  `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// Succeeded returns true when every shard was merged
func (r *Report) Succeeded() bool {
	return len(r.Failures) == 0
}

// Err returns the shard failures as one error, or nil if there were none
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, util.WrapShardError(f.Shard, errors.New(f.Reason)))
	}
	return util.NewMultiError(errs).ErrorOrNil()
}

// Summary summarises the per-shard outcomes
func (r *Report) Summary() executor.Summary {
	return executor.Summarize(r.Outcomes)
}

// Validate checks that opts describe a runnable job
func (o Options) Validate() error {
	if o.Input == "" {
		return errors.New("input file is required")
	}
	if o.K < 0 {
		return fmt.Errorf("invalid k: %d", o.K)
	}
	if o.Shards < 1 {
		return fmt.Errorf("%w: %d", shard.ErrInvalidShardCount, o.Shards)
	}
	return nil
}

// Run partitions opts.Input when more than one shard is requested, then
// counts and merges the shards. Failures of individual shards are recorded
// in the report. Errors that prevent any work (an unreadable input or an
// unwritable shard) and cancellation of ctx are returned.
func Run(ctx context.Context, opts Options, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	paths := []string{opts.Input}
	var (
		partitionTime time.Duration
		lines         int64
	)

	if opts.Shards > 1 {
		dir, err := shard.NewWorkDir(opts.ShardDir)
		if err != nil {
			return nil, err
		}
		if opts.KeepShards {
			logger.Info("keeping shard files", "dir", dir)
		} else {
			defer func() {
				if err := os.RemoveAll(dir); err != nil {
					logger.Warn("failed to remove shard directory", "dir", dir, "error", err)
				}
			}()
		}

		logger.Info("partitioning input", "file", opts.Input, "shards", opts.Shards)

		start := time.Now()
		var stats shard.Stats
		paths, stats, err = shard.Partition(ctx, opts.Input, opts.Shards, dir)
		if err != nil {
			return nil, err
		}
		partitionTime = time.Since(start)
		lines = stats.Lines

		logger.Info("partitioning done", "duration", partitionTime, "lines", stats.Lines)
	} else if err := checkReadable(opts.Input); err != nil {
		return nil, err
	}

	report, err := Count(ctx, paths, opts, logger)
	if err != nil {
		return nil, err
	}
	report.PartitionTime = partitionTime
	report.Lines = lines

	return report, nil
}

// checkReadable opens path to make sure a single-shard run has an input
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open file '%s': %w", path, err)
	}
	return f.Close()
}

// Count computes the top opts.K entries over files, one pool task per file,
// and merges the results in file order. A shard that fails or runs past
// opts.Timeout is recorded in the report. If ctx itself ends, Count waits
// for the pool to stop and returns the cancellation.
func Count(ctx context.Context, files []string, opts Options, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	parent := ctx

	var metrics *executor.Metrics
	if opts.Registry != nil {
		metrics = executor.NewMetrics(opts.Registry)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	pool := executor.NewPool(opts.Workers, logger,
		executor.WithName("shards"),
		executor.WithMetrics(metrics),
	)

	logger.Info("counting shards",
		"pool", pool.Name(),
		"k", opts.K,
		"shards", len(files),
		"workers", pool.WorkerCount(),
	)

	futures := make([]executor.Future[[]topk.Entry], len(files))
	submitted := make([]time.Time, len(files))
	for i, file := range files {
		submitted[i] = time.Now()
		futures[i] = executor.SubmitContext(ctx, pool, func(ctx context.Context) ([]topk.Entry, error) {
			return topk.CountFile(ctx, file, opts.K)
		})
	}

	acc := topk.New(opts.K)
	report := &Report{
		Input:   opts.Input,
		K:       opts.K,
		Shards:  len(files),
		Workers: pool.WorkerCount(),
	}

	for i, f := range futures {
		entries, err := f.GetContext(ctx)
		report.Outcomes = append(report.Outcomes, executor.Outcome{
			Name:     files[i],
			Error:    err,
			Duration: time.Since(submitted[i]),
		})

		if err != nil {
			logger.Warn("shard failed", "shard", files[i], "error", err)
			report.Failures = append(report.Failures, ShardFailure{
				Shard:  files[i],
				Reason: err.Error(),
			})
			continue
		}

		acc.AddAll(entries)
	}

	pool.Close()
	pool.Join()

	if err := parent.Err(); err != nil {
		logger.Warn("counting interrupted", "failed", len(report.Failures))
		return nil, fmt.Errorf("%w: %w", util.ErrCancelled, err)
	}

	report.Entries = acc.Result()
	report.MergeTime = time.Since(start)
	report.Pool = pool.Stats()

	if opts.Registry != nil {
		samples, err := executor.Snapshot(opts.Registry)
		if err != nil {
			logger.Warn("failed to gather metrics", "error", err)
		}
		report.Metrics = samples
	}

	logger.Info("counting done",
		"duration", report.MergeTime,
		"entries", len(report.Entries),
		"failed", len(report.Failures),
		"success_rate", executor.SuccessRate(report.Outcomes),
	)

	return report, nil
}
