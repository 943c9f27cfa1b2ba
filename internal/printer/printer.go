package printer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dyluth/hackathon/internal/checksum"
	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)

	// errOut receives formatted errors
	errOut io.Writer = os.Stderr
)

// Success prints a message in green with a checkmark prefix
func Success(format string, a ...any) {
	green.Print(withPrefix("✓ ", fmt.Sprintf(format, a...)))
}

// Warning prints a message in yellow with a warning prefix
func Warning(format string, a ...any) {
	yellow.Print(withPrefix("⚠️  ", fmt.Sprintf(format, a...)))
}

// Step prints a progress line for multi-step operations
func Step(format string, a ...any) {
	cyan.Print(withPrefix("→ ", fmt.Sprintf(format, a...)))
}

func withPrefix(prefix, msg string) string {
	if strings.HasPrefix(msg, strings.TrimSpace(prefix)) {
		return msg
	}
	return prefix + msg
}

// Error prints title, explanation and suggestions to stderr and returns an
// error carrying only the title. Cobra runs with SilenceErrors, so main uses
// IsDisplayed to avoid printing it twice.
func Error(title string, explanation string, suggestions []string) error {
	return ErrorWithContext(title, explanation, nil, suggestions)
}

// ErrorWithContext is Error with an indented block of key/value details.
func ErrorWithContext(title string, explanation string, context map[string]string, suggestions []string) error {
	red.Fprintf(errOut, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintln(errOut, explanation)
	}

	if len(context) > 0 {
		fmt.Fprintln(errOut)
		for key, value := range context {
			fmt.Fprintf(errOut, "  %s: %s\n", key, value)
		}
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(errOut, "\n%s\n", suggestions[0])
	default:
		fmt.Fprint(errOut, "\nEither:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(errOut, "  %d. %s\n", i+1, suggestion)
		}
	}

	return &displayedError{title: title}
}

type displayedError struct {
	title string
}

func (e *displayedError) Error() string {
	return e.title
}

// IsDisplayed reports whether err was already printed by Error or ErrorWithContext.
func IsDisplayed(err error) bool {
	var d *displayedError
	return errors.As(err, &d)
}

// Checksums holds the four global checksums reported at the end of a run.
type Checksums struct {
	IdeaGenerator     checksum.Checksum
	StudentIdea       checksum.Checksum
	PackageDownloader checksum.Checksum
	StudentPackage    checksum.Checksum
}

// Verified reports whether every produced item was consumed exactly once.
func (c Checksums) Verified() bool {
	return c.IdeaGenerator == c.StudentIdea && c.PackageDownloader == c.StudentPackage
}

// WriteReport writes the global checksum block to w. A consumer-side line
// that disagrees with its producer-side counterpart is printed in red.
func WriteReport(w io.Writer, c Checksums) {
	lines := []struct {
		label    string
		value    checksum.Checksum
		expected checksum.Checksum
	}{
		{"Idea Generator", c.IdeaGenerator, c.IdeaGenerator},
		{"Student Idea", c.StudentIdea, c.IdeaGenerator},
		{"Package Downloader", c.PackageDownloader, c.PackageDownloader},
		{"Student Package", c.StudentPackage, c.PackageDownloader},
	}

	fmt.Fprintln(w, "Global checksums:")
	for _, l := range lines {
		if l.value != l.expected {
			red.Fprintf(w, "%s: %s\n", l.label, l.value)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", l.label, l.value)
	}
}
