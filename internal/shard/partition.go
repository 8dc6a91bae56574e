// Package shard splits a line-oriented input file into hash-assigned shards.
package shard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/aryankumar/topk/internal/topk"
)

// ErrInvalidShardCount is returned when fewer than two shards are requested
var ErrInvalidShardCount = errors.New("invalid shard count")

const (
	// writeBufferSize is the per-shard write buffer
	writeBufferSize = 64 * 1024

	maxLineSize = 1024 * 1024
	checkEvery  = 4096
)

// Name returns the path of shard i inside dir
func Name(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("shard-%d", i))
}

// Paths returns the files a run over input with n shards reads.
// A single-shard run reads the input itself.
func Paths(input, dir string, n int) []string {
	if n <= 1 {
		return []string{input}
	}
	paths := make([]string, n)
	for i := range paths {
		paths[i] = Name(dir, i)
	}
	return paths
}

// Index returns the shard a line belongs to.
// Lines are assigned by the hash of their key as topk.Key parses it, so
// every occurrence of a key lands in the same shard.
func Index(line string, n int) int {
	return int(xxhash.Sum64String(topk.Key(line)) % uint64(n))
}

// NewWorkDir creates a fresh directory for one run's shards under base.
// An empty base means the system temp directory.
func NewWorkDir(base string) (string, error) {
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "topk-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create shard directory '%s': %w", dir, err)
	}
	return dir, nil
}

// Stats describes a finished partition
type Stats struct {
	Lines  int64
	Counts []int64
}

// Partition writes every line of input to one of n shard files in dir and
// returns their paths. n must be at least 2.
func Partition(ctx context.Context, input string, n int, dir string) ([]string, Stats, error) {
	stats := Stats{}

	if n < 2 {
		return nil, stats, fmt.Errorf("%w: %d", ErrInvalidShardCount, n)
	}

	in, err := os.Open(input)
	if err != nil {
		return nil, stats, fmt.Errorf("cannot open file '%s': %w", input, err)
	}
	defer in.Close()

	paths := Paths(input, dir, n)
	files := make([]*os.File, 0, n)
	writers := make([]*bufio.Writer, 0, n)

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, path := range paths {
		f, err := os.Create(path)
		if err != nil {
			closeAll()
			return nil, stats, fmt.Errorf("cannot open file '%s' to write: %w", path, err)
		}
		files = append(files, f)
		writers = append(writers, bufio.NewWriterSize(f, writeBufferSize))
	}

	stats.Counts = make([]int64, n)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		stats.Lines++
		if stats.Lines%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				closeAll()
				return nil, stats, err
			}
		}

		line := scanner.Text()
		i := Index(line, n)
		if _, err := writers[i].WriteString(line); err != nil {
			closeAll()
			return nil, stats, fmt.Errorf("cannot write file '%s': %w", paths[i], err)
		}
		if err := writers[i].WriteByte('\n'); err != nil {
			closeAll()
			return nil, stats, fmt.Errorf("cannot write file '%s': %w", paths[i], err)
		}
		stats.Counts[i]++
	}

	if err := scanner.Err(); err != nil {
		closeAll()
		return nil, stats, fmt.Errorf("cannot read file '%s': %w", input, err)
	}

	for i, w := range writers {
		if err := w.Flush(); err != nil {
			closeAll()
			return nil, stats, fmt.Errorf("cannot write file '%s': %w", paths[i], err)
		}
	}

	var closeErr error
	for i, f := range files {
		if err := f.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("cannot close file '%s': %w", paths[i], err)
		}
	}
	if closeErr != nil {
		return nil, stats, closeErr
	}

	return paths, stats, nil
}
