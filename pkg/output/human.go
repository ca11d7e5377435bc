package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/treediff/treediff/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer        io.Writer
	showUnchanged bool

	changed   *color.Color
	added     *color.Color
	unchanged *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
// showUnchanged controls whether unchanged files are listed in the output
func NewHumanFormatter(showUnchanged bool) *HumanFormatter {
	return &HumanFormatter{
		showUnchanged: showUnchanged,
		changed:       color.New(color.FgYellow),
		added:         color.New(color.FgGreen),
		unchanged:     color.New(color.Faint),
	}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, operation *models.CompareOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	fmt.Fprintf(writer, "Comparing %s against %s\n", operation.RootA, operation.RootB)
	if len(operation.ExcludePatterns) > 0 {
		fmt.Fprintf(writer, "Excluding %d pattern(s)\n", len(operation.ExcludePatterns))
	}

	return nil
}

// Progress reports a classified file (no-op; the human formatter lists files
// in the final report instead of streaming them)
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete finalizes output and displays the report
func (f *HumanFormatter) Complete(report *models.DiffReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	for _, path := range report.Changed {
		f.changed.Fprintf(f.writer, "M %s\n", path)
	}
	for _, path := range report.New {
		f.added.Fprintf(f.writer, "+ %s\n", path)
	}
	if f.showUnchanged {
		for _, path := range report.Unchanged {
			f.unchanged.Fprintf(f.writer, "= %s\n", path)
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Compared %d file(s) in %s\n",
		report.Stats.FilesCompared, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "  Changed:   %d\n", len(report.Changed))
	fmt.Fprintf(f.writer, "  New:       %d\n", len(report.New))
	fmt.Fprintf(f.writer, "  Unchanged: %d\n", len(report.Unchanged))
	if report.Stats.Excluded > 0 {
		fmt.Fprintf(f.writer, "  Excluded:  %d\n", report.Stats.Excluded)
	}
	if report.Stats.SymlinksSkipped > 0 {
		fmt.Fprintf(f.writer, "  Symlinks skipped: %d\n", report.Stats.SymlinksSkipped)
	}

	return nil
}

// Error reports a terminal error
func (f *HumanFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	color.New(color.FgRed).Fprintf(w, "comparison failed: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
