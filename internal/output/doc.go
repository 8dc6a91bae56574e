// Package output renders the result of a topk run.
//
// Four formats are supported:
//
//   - plain: one "<count> <key>" line per entry, most frequent first
//   - table: a kubectl-style borderless table with a rank column
//   - json and yaml: the entries, failures and optional summary as a document
//
// Shard failures are written separately with WriteFailures, normally to
// stderr, as "ERROR: shard '<name>': <reason>" lines so that plain output
// stays pipeable.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithWide(true))
//	formatter.FormatReport(os.Stdout, report)
//	output.WriteFailures(os.Stderr, report, false)
//
// Colors are enabled only when the writer is a terminal and can be turned
// off with WithNoColor.
package output
