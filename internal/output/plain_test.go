package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlainFormatter_FormatReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPlainFormatter(nil).FormatReport(&buf, sampleReport()); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}

	if got, want := buf.String(), "3 a\n2 b\n"; got != want {
		t.Errorf("FormatReport() = %q, want %q", got, want)
	}
}

func TestPlainFormatter_Metrics(t *testing.T) {
	var buf bytes.Buffer
	f := NewPlainFormatter(&Options{ShowMetrics: true})
	if err := f.FormatReport(&buf, sampleReport()); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}

	if !strings.Contains(buf.String(), "# topk_pool_tasks_submitted_total{pool=shards} 2") {
		t.Errorf("metrics missing from output:\n%s", buf.String())
	}
}

func TestPlainFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPlainFormatter(nil).FormatReport(&buf, cancelledReport()); err != nil {
		t.Fatalf("FormatReport() error = %v", err)
	}
	if err := NewPlainFormatter(nil).FormatReport(&buf, nil); err != nil {
		t.Fatalf("FormatReport(nil) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
