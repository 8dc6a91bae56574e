package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aryankumar/topk/internal/pipeline"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// FormatReport writes report as YAML
func (f *YAMLFormatter) FormatReport(w io.Writer, report *pipeline.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(document(report, f.options))
}
