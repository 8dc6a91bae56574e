package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/aryankumar/topk/internal/executor"
	"github.com/aryankumar/topk/internal/pipeline"
)

// TableFormatter formats output as a table (kubectl-style)
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// FormatReport writes the entries as a ranked table, followed by per-shard
// detail in wide mode and pool metrics when requested.
func (f *TableFormatter) FormatReport(w io.Writer, report *pipeline.Report) error {
	if report == nil || len(report.Entries) == 0 {
		fmt.Fprintln(w, "No results")
	} else {
		f.writeEntries(w, report)
	}

	if report == nil {
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)

	if f.options.Wide && len(report.Outcomes) > 0 {
		fmt.Fprintln(w)
		f.writeOutcomes(w, report.Outcomes, colors)
	}

	if f.options.ShowMetrics && len(report.Metrics) > 0 {
		fmt.Fprintln(w)
		f.writeMetrics(w, report.Metrics)
	}

	if f.options.Wide {
		f.printSummary(w, report, colors)
	}

	return nil
}

func (f *TableFormatter) writeEntries(w io.Writer, report *pipeline.Report) {
	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeader(table, colors, "RANK", "COUNT", "KEY")

	for i, e := range report.Entries {
		table.Append([]string{
			strconv.Itoa(i + 1),
			colors.Count("%d", e.Count),
			colors.Key("%s", e.Key),
		})
	}

	table.Render()
}

func (f *TableFormatter) writeOutcomes(w io.Writer, outcomes []executor.Outcome, colors *ColorScheme) {
	table := f.createTable(w)
	f.setHeader(table, colors, "SHARD", "STATUS", "DURATION", "ERROR")

	for _, o := range outcomes {
		status := "Success"
		switch {
		case o.Cancelled():
			status = "Cancelled"
		case !o.Succeeded():
			status = "Failed"
		}

		reason := ""
		if o.Error != nil {
			reason = truncate(o.Error.Error(), 60)
		}

		table.Append([]string{
			colors.Shard("%s", o.Name),
			colors.StatusColor(!o.Succeeded())("%s", status),
			colors.Duration("%s", o.Duration.Round(1000)),
			reason,
		})
	}

	table.Render()
}

func (f *TableFormatter) writeMetrics(w io.Writer, samples []executor.Sample) {
	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeader(table, colors, "METRIC", "LABELS", "VALUE")

	for _, s := range samples {
		table.Append([]string{s.Name, s.Labels, strconv.FormatFloat(s.Value, 'g', -1, 64)})
	}

	table.Render()
}

func (f *TableFormatter) setHeader(table *tablewriter.Table, colors *ColorScheme, headers ...string) {
	if f.options.NoHeaders {
		return
	}
	if colors.Disabled {
		table.SetHeader(headers)
		return
	}

	coloredHeaders := make([]string, len(headers))
	for i, h := range headers {
		coloredHeaders[i] = colors.Header("%s", h)
	}
	table.SetHeader(coloredHeaders)
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	// kubectl-style configuration
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t") // Tab-separated like kubectl
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints the shard totals and timings
func (f *TableFormatter) printSummary(w io.Writer, report *pipeline.Report, colors *ColorScheme) {
	summary := report.Summary()

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := colors.Success("%d successful", summary.Successful)

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if summary.Failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	durationText := colors.Duration("partition=%s count=%s",
		report.PartitionTime.Round(1000), report.MergeTime.Round(1000))

	fmt.Fprintf(w, "%s, %s, %s\n", successText, failedText, durationText)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
