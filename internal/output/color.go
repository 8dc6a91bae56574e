package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Shard colors shard names
	Shard func(format string, a ...interface{}) string

	// Key colors result keys
	Key func(format string, a ...interface{}) string

	// Count colors result counts
	Count func(format string, a ...interface{}) string

	// Success colors success status
	Success func(format string, a ...interface{}) string

	// Error colors error messages
	Error func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Duration colors duration values
	Duration func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	if noColor || !isTTY(w) {
		plain := color.New()
		plain.DisableColor()
		return &ColorScheme{
			Shard:    plain.Sprintf,
			Key:      plain.Sprintf,
			Count:    plain.Sprintf,
			Success:  plain.Sprintf,
			Error:    plain.Sprintf,
			Header:   plain.Sprintf,
			Duration: plain.Sprintf,
			Disabled: true,
		}
	}

	return &ColorScheme{
		Shard:    colored(color.FgCyan, color.Bold),
		Key:      colored(color.FgCyan),
		Count:    colored(color.FgWhite, color.Bold),
		Success:  colored(color.FgGreen),
		Error:    colored(color.FgRed, color.Bold),
		Header:   colored(color.FgWhite, color.Bold),
		Duration: colored(color.FgBlue),
		Disabled: false,
	}
}

// colored forces color on; the caller has already checked the writer
func colored(attrs ...color.Attribute) func(format string, a ...interface{}) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprintf
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns an appropriate color function based on error status
func (cs *ColorScheme) StatusColor(hasError bool) func(format string, a ...interface{}) string {
	if hasError {
		return cs.Error
	}
	return cs.Success
}
