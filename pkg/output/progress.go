package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/treediff/treediff/pkg/models"
)

// ProgressFormatter displays a live counter while the comparison runs and a
// summary when it completes. The total is unknown upfront because the walk
// is lazy, so the bar renders as a running file counter.
type ProgressFormatter struct {
	writer io.Writer
	bar    *pb.ProgressBar
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start initializes the formatter and starts the bar
func (f *ProgressFormatter) Start(writer io.Writer, operation *models.CompareOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	f.bar = pb.New(0)
	f.bar.SetTemplateString(`{{string . "prefix"}} {{counters . }} files`)
	f.bar.Set("prefix", "comparing")
	f.bar.SetWriter(writer)
	f.bar.SetRefreshRate(100 * time.Millisecond)
	f.bar.Start()

	return nil
}

// Progress advances the counter
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	if f.bar != nil {
		f.bar.SetCurrent(int64(update.Classified))
	}
	return nil
}

// Complete stops the bar and prints the summary
func (f *ProgressFormatter) Complete(report *models.DiffReport) error {
	if f.bar != nil {
		f.bar.Finish()
	}

	fmt.Fprintf(f.writer, "Compared %d file(s) in %s: %d changed, %d new, %d unchanged\n",
		report.Stats.FilesCompared, report.Duration.Round(time.Millisecond),
		len(report.Changed), len(report.New), len(report.Unchanged))

	return nil
}

// Error stops the bar and reports a terminal error
func (f *ProgressFormatter) Error(err error) error {
	if f.bar != nil {
		f.bar.Finish()
	}
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "comparison failed: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
