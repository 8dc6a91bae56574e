package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/topk/internal/pipeline"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// FormatReport writes report as indented JSON
func (f *JSONFormatter) FormatReport(w io.Writer, report *pipeline.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document(report, f.options))
}

// reportDocument is the serialized shape shared by the JSON and YAML formatters
type reportDocument struct {
	Input    string                  `json:"input" yaml:"input"`
	K        int                     `json:"k" yaml:"k"`
	Shards   int                     `json:"shards" yaml:"shards"`
	Workers  int                     `json:"workers" yaml:"workers"`
	Entries  []entryDocument         `json:"entries" yaml:"entries"`
	Failures []pipeline.ShardFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Summary  *summaryDocument        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Metrics  []metricDocument        `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

type entryDocument struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

type summaryDocument struct {
	Total         int    `json:"total" yaml:"total"`
	Successful    int    `json:"successful" yaml:"successful"`
	Failed        int    `json:"failed" yaml:"failed"`
	Cancelled     int    `json:"cancelled" yaml:"cancelled"`
	Lines         int64  `json:"lines,omitempty" yaml:"lines,omitempty"`
	PartitionTime string `json:"partitionTime" yaml:"partitionTime"`
	CountTime     string `json:"countTime" yaml:"countTime"`
}

type metricDocument struct {
	Name   string  `json:"name" yaml:"name"`
	Labels string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64 `json:"value" yaml:"value"`
}

func document(report *pipeline.Report, opts *Options) reportDocument {
	if report == nil {
		return reportDocument{Entries: []entryDocument{}}
	}

	doc := reportDocument{
		Input:    report.Input,
		K:        report.K,
		Shards:   report.Shards,
		Workers:  report.Workers,
		Entries:  make([]entryDocument, len(report.Entries)),
		Failures: report.Failures,
	}
	for i, e := range report.Entries {
		doc.Entries[i] = entryDocument{Key: e.Key, Count: e.Count}
	}

	if opts.Wide {
		s := report.Summary()
		doc.Summary = &summaryDocument{
			Total:         s.Total,
			Successful:    s.Successful,
			Failed:        s.Failed,
			Cancelled:     s.Cancelled,
			Lines:         report.Lines,
			PartitionTime: report.PartitionTime.String(),
			CountTime:     report.MergeTime.String(),
		}
	}

	if opts.ShowMetrics {
		for _, m := range report.Metrics {
			doc.Metrics = append(doc.Metrics, metricDocument{Name: m.Name, Labels: m.Labels, Value: m.Value})
		}
	}

	return doc
}
