package output

import (
	"fmt"
	"io"

	"github.com/aryankumar/topk/internal/pipeline"
)

// Format represents the output format type
type Format string

const (
	// FormatPlain prints one "<count> <key>" line per entry
	FormatPlain Format = "plain"
	// FormatTable outputs data in a table format (kubectl-style)
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formatter writes the result of a run
type Formatter interface {
	// FormatReport writes report to w
	FormatReport(w io.Writer, report *pipeline.Report) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide adds per-shard detail
	Wide bool

	// ShowMetrics includes pool metrics
	ShowMetrics bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// WithMetrics includes pool metrics in the output
func WithMetrics(show bool) Option {
	return func(o *Options) {
		o.ShowMetrics = show
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(options)
	}
}

// WriteFailures writes one error line per failed shard
func WriteFailures(w io.Writer, report *pipeline.Report, noColor bool) {
	if report == nil || len(report.Failures) == 0 {
		return
	}

	colors := NewColorScheme(w, noColor)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "%s shard '%s': %s\n", colors.Error("ERROR:"), colors.Shard("%s", f.Shard), f.Reason)
	}
}
