package topk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed marks an input line that is neither "key" nor "key count"
var ErrMalformed = errors.New("ill formatted")

// maxLineSize bounds a single input line
const maxLineSize = 1024 * 1024

// checkEvery is how many lines are read between context checks
const checkEvery = 4096

// Key returns the key of a line: its first whitespace-separated field, or ""
// for a blank line. ParseLine and shard assignment both go through it.
func Key(line string) string {
	key, _, _ := cut(line)
	return key
}

// cut splits line into its first field, its second field and the number of
// fields
func cut(line string) (first, second string, n int) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return "", "", 0
	case 1:
		return fields[0], "", 1
	default:
		return fields[0], fields[1], len(fields)
	}
}

// ParseLine splits a line into its key and count.
// "key" counts once and "key count" counts count times. Blank lines return
// ok=false with no error.
func ParseLine(line string) (key string, count int, ok bool, err error) {
	first, second, n := cut(line)
	switch n {
	case 0:
		return "", 0, false, nil
	case 1:
		return first, 1, true, nil
	case 2:
		c, convErr := strconv.Atoi(second)
		if convErr != nil {
			return "", 0, false, fmt.Errorf("%w: invalid count %q", ErrMalformed, second)
		}
		return first, c, true, nil
	default:
		return "", 0, false, fmt.Errorf("%w: %d fields", ErrMalformed, n)
	}
}

// CountLines tallies every key read from r
func CountLines(ctx context.Context, r io.Reader) (map[string]int, error) {
	counts := make(map[string]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		key, count, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			counts[key] += count
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return counts, ctx.Err()
}

// CountFile computes the top k entries of the file at path
func CountFile(ctx context.Context, path string, k int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file '%s': %w", path, err)
	}
	defer f.Close()

	counts, err := CountLines(ctx, f)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, fmt.Errorf("ill formatted file '%s': %w", path, err)
		}
		return nil, fmt.Errorf("cannot read file '%s': %w", path, err)
	}

	return Of(counts, k), nil
}
