package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aryankumar/topk/internal/pipeline"
)

// PlainFormatter prints one "<count> <key>" line per entry, most frequent
// first. Nothing else is written, so the output can be piped.
type PlainFormatter struct {
	options *Options
}

// NewPlainFormatter creates a new plain formatter
func NewPlainFormatter(opts *Options) *PlainFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &PlainFormatter{
		options: opts,
	}
}

// FormatReport writes the report's entries
func (f *PlainFormatter) FormatReport(w io.Writer, report *pipeline.Report) error {
	if report == nil {
		return nil
	}

	bw := bufio.NewWriter(w)
	for _, e := range report.Entries {
		fmt.Fprintf(bw, "%d %s\n", e.Count, e.Key)
	}

	if f.options.ShowMetrics && len(report.Metrics) > 0 {
		fmt.Fprintln(bw)
		for _, s := range report.Metrics {
			name := s.Name
			if s.Labels != "" {
				name += "{" + s.Labels + "}"
			}
			fmt.Fprintf(bw, "# %s %g\n", name, s.Value)
		}
	}

	return bw.Flush()
}
