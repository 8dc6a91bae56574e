package output

import (
	"errors"
	"fmt"
	"time"

	"github.com/aryankumar/topk/internal/executor"
	"github.com/aryankumar/topk/internal/pipeline"
	"github.com/aryankumar/topk/internal/topk"
)

// sampleReport is a two-shard run where the second shard failed
func sampleReport() *pipeline.Report {
	shardErr := errors.New("cannot open file '/tmp/topk-1/shard-1': no such file or directory")

	return &pipeline.Report{
		Input:   "access.log",
		K:       2,
		Shards:  2,
		Workers: 2,
		Entries: []topk.Entry{
			{Key: "a", Count: 3},
			{Key: "b", Count: 2},
		},
		Failures: []pipeline.ShardFailure{
			{Shard: "/tmp/topk-1/shard-1", Reason: shardErr.Error()},
		},
		Outcomes: []executor.Outcome{
			{Name: "/tmp/topk-1/shard-0", Duration: 2 * time.Millisecond},
			{Name: "/tmp/topk-1/shard-1", Duration: time.Millisecond, Error: shardErr},
		},
		PartitionTime: 5 * time.Millisecond,
		MergeTime:     3 * time.Millisecond,
		Lines:         6,
		Metrics: []executor.Sample{
			{Name: "topk_pool_tasks_submitted_total", Labels: "pool=shards", Value: 2},
		},
	}
}

// cancelledReport has a single shard cancelled before it ran
func cancelledReport() *pipeline.Report {
	err := fmt.Errorf("%w: context canceled", executor.ErrCancelled)
	return &pipeline.Report{
		K:        1,
		Shards:   1,
		Workers:  1,
		Failures: []pipeline.ShardFailure{{Shard: "in.txt", Reason: err.Error()}},
		Outcomes: []executor.Outcome{{Name: "in.txt", Error: err}},
	}
}
