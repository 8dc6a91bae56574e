package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/goleak"

	"github.com/aryankumar/topk/internal/pipeline"
	"github.com/aryankumar/topk/internal/shard"
	"github.com/aryankumar/topk/internal/topk"
	"github.com/aryankumar/topk/internal/util"
)

var _ = Describe("Pipeline", func() {
	var (
		ctx    context.Context
		dir    string
		logger *slog.Logger
	)

	writeFile := func(name string, lines ...string) string {
		path := filepath.Join(dir, name)
		err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
		Expect(err).NotTo(HaveOccurred())
		return path
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	Describe("Run", func() {
		var input string

		BeforeEach(func() {
			input = writeFile("input.txt", "a", "b", "c", "a", "b", "a")
		})

		It("should find the top k of a single shard", func() {
			report, err := pipeline.Run(ctx, pipeline.Options{
				Input:   input,
				K:       2,
				Shards:  1,
				Workers: 1,
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Entries).To(Equal([]topk.Entry{{Key: "a", Count: 3}, {Key: "b", Count: 2}}))
			Expect(report.Succeeded()).To(BeTrue())
			Expect(report.Err()).NotTo(HaveOccurred())
			Expect(report.PartitionTime).To(BeZero())
		})

		It("should give the same answer with two shards and two workers", func() {
			report, err := pipeline.Run(ctx, pipeline.Options{
				Input:    input,
				K:        2,
				Shards:   2,
				Workers:  2,
				ShardDir: dir,
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Entries).To(Equal([]topk.Entry{{Key: "a", Count: 3}, {Key: "b", Count: 2}}))
			Expect(report.Shards).To(Equal(2))
			Expect(report.Lines).To(BeEquivalentTo(6))
			Expect(report.Outcomes).To(HaveLen(2))
		})

		It("should agree with a direct count for many shard and worker combinations", func() {
			var lines []string
			for i := 0; i < 500; i++ {
				lines = append(lines, string(rune('a'+i%7)), string(rune('a'+i%13)))
			}
			big := writeFile("big.txt", lines...)

			direct, err := topk.CountFile(ctx, big, 5)
			Expect(err).NotTo(HaveOccurred())

			for _, shards := range []int{1, 2, 3, 8} {
				for _, workers := range []int{1, 4} {
					report, err := pipeline.Run(ctx, pipeline.Options{
						Input:    big,
						K:        5,
						Shards:   shards,
						Workers:  workers,
						ShardDir: dir,
					}, logger)
					Expect(err).NotTo(HaveOccurred())
					Expect(report.Entries).To(Equal(direct), "shards=%d workers=%d", shards, workers)
				}
			}
		})

		It("should remove the work directory unless asked to keep it", func() {
			_, err := pipeline.Run(ctx, pipeline.Options{
				Input: input, K: 2, Shards: 2, Workers: 1, ShardDir: dir,
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			workDirs, err := filepath.Glob(filepath.Join(dir, "topk-*"))
			Expect(err).NotTo(HaveOccurred())
			Expect(workDirs).To(BeEmpty())

			_, err = pipeline.Run(ctx, pipeline.Options{
				Input: input, K: 2, Shards: 2, Workers: 1, ShardDir: dir, KeepShards: true,
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			workDirs, err = filepath.Glob(filepath.Join(dir, "topk-*", "shard-*"))
			Expect(err).NotTo(HaveOccurred())
			Expect(workDirs).To(HaveLen(2))
		})

		It("should fail when the input cannot be read", func() {
			_, err := pipeline.Run(ctx, pipeline.Options{
				Input:    filepath.Join(dir, "missing.txt"),
				K:        2,
				Shards:   2,
				Workers:  1,
				ShardDir: dir,
			}, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("cannot open file"))
		})

		It("should fail when a single-shard input cannot be read", func() {
			missing := filepath.Join(dir, "missing.txt")
			report, err := pipeline.Run(ctx, pipeline.Options{
				Input: missing, K: 2, Shards: 1, Workers: 1,
			}, logger)
			Expect(report).To(BeNil())
			Expect(err).To(MatchError(ContainSubstring("cannot open file '" + missing + "'")))
			Expect(util.IsNotFound(err)).To(BeTrue())
		})

		It("should return the cancellation when the run is interrupted", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			report, err := pipeline.Run(cancelled, pipeline.Options{
				Input: input, K: 2, Shards: 2, Workers: 1, ShardDir: dir,
			}, logger)
			Expect(report).To(BeNil())
			Expect(err).To(MatchError(context.Canceled))
			Expect(util.IsCancelled(err)).To(BeTrue())

			workDirs, err := filepath.Glob(filepath.Join(dir, "topk-*"))
			Expect(err).NotTo(HaveOccurred())
			Expect(workDirs).To(BeEmpty())
		})

		It("should reject invalid options", func() {
			_, err := pipeline.Run(ctx, pipeline.Options{Input: input, K: 2, Shards: 0}, logger)
			Expect(err).To(MatchError(shard.ErrInvalidShardCount))

			_, err = pipeline.Run(ctx, pipeline.Options{K: 2, Shards: 1}, logger)
			Expect(err).To(HaveOccurred())
		})

		It("should publish pool metrics when given a registry", func() {
			report, err := pipeline.Run(ctx, pipeline.Options{
				Input: input, K: 2, Shards: 2, Workers: 2, ShardDir: dir,
				Registry: prometheus.NewRegistry(),
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, 0, len(report.Metrics))
			for _, s := range report.Metrics {
				names = append(names, s.Name)
			}
			Expect(names).To(ContainElement("topk_pool_tasks_submitted_total"))
			Expect(report.Pool.Submitted).To(BeEquivalentTo(2))
		})
	})

	Describe("Count", func() {
		It("should record a deleted shard and still merge the others", func() {
			input := writeFile("input.txt", "a", "b", "c", "a", "b", "a", "x", "y", "z")
			paths, _, err := shard.Partition(ctx, input, 3, dir)
			Expect(err).NotTo(HaveOccurred())

			victim := paths[shard.Index("a", 3)]
			Expect(os.Remove(victim)).To(Succeed())

			report, err := pipeline.Count(ctx, paths, pipeline.Options{K: 10, Workers: 2}, logger)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Failures).To(HaveLen(1))
			Expect(report.Failures[0].Shard).To(Equal(victim))
			Expect(report.Failures[0].Reason).To(ContainSubstring("cannot open file"))

			for _, e := range report.Entries {
				Expect(shard.Index(e.Key, 3)).NotTo(Equal(shard.Index("a", 3)))
			}
			Expect(report.Summary().Failed).To(Equal(1))

			var shardErr *util.ShardError
			Expect(errors.As(report.Err(), &shardErr)).To(BeTrue())
			Expect(shardErr.Shard).To(Equal(victim))
		})

		It("should record malformed shards", func() {
			good := writeFile("good.txt", "a", "a 4")
			bad := writeFile("bad.txt", "a b c")

			report, err := pipeline.Count(ctx, []string{good, bad}, pipeline.Options{K: 3, Workers: 1}, logger)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Entries).To(Equal([]topk.Entry{{Key: "a", Count: 5}}))
			Expect(report.Failures).To(ConsistOf(HaveField("Shard", bad)))
			Expect(report.Failures[0].Reason).To(ContainSubstring("ill formatted"))
		})

		It("should stop and return the cancellation when the context ends", func() {
			files := []string{writeFile("one.txt", "a"), writeFile("two.txt", "b")}

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			report, err := pipeline.Count(cancelled, files, pipeline.Options{K: 1, Workers: 1}, logger)
			Expect(report).To(BeNil())
			Expect(err).To(MatchError(context.Canceled))
			Expect(err).To(MatchError(util.ErrCancelled))
		})

		It("should finish shards that complete within the timeout", func() {
			files := []string{writeFile("one.txt", "a")}

			report, err := pipeline.Count(ctx, files, pipeline.Options{K: 1, Workers: 1, Timeout: time.Minute}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Entries).To(Equal([]topk.Entry{{Key: "a", Count: 1}}))
		})

		It("should record a shard that outlives the timeout and return promptly", func() {
			lines := make([]string, 2_000_000)
			for i := range lines {
				lines[i] = "k"
			}
			slow := writeFile("slow.txt", lines...)

			ignore := goleak.IgnoreCurrent()

			start := time.Now()
			report, err := pipeline.Count(ctx, []string{slow}, pipeline.Options{
				K: 1, Workers: 1, Timeout: time.Millisecond,
			}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(time.Since(start)).To(BeNumerically("<", 10*time.Second))

			Expect(report.Entries).To(BeEmpty())
			Expect(report.Failures).To(ConsistOf(HaveField("Shard", slow)))
			Expect(util.IsTimeout(report.Outcomes[0].Error)).To(BeTrue())
			Expect(report.Pool.Completed).To(BeZero())

			goleak.VerifyNone(GinkgoT(), ignore)
		})
	})
})
