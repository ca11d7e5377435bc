package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/treediff/treediff/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer        io.Writer
	showUnchanged bool
}

// JSONReport is the serialized form of a comparison report
type JSONReport struct {
	OperationID string        `json:"operation_id"`
	RootA       string        `json:"root_a"`
	RootB       string        `json:"root_b"`
	StartTime   time.Time     `json:"start_time"`
	Duration    string        `json:"duration"`
	DurationMs  int64         `json:"duration_ms"`
	Changed     []string      `json:"changed"`
	New         []string      `json:"new"`
	Unchanged   []string      `json:"unchanged,omitempty"`
	Stats       JSONStatsData `json:"stats"`
	Status      string        `json:"status"`
}

// JSONStatsData represents comparison statistics
type JSONStatsData struct {
	EntriesWalked   int   `json:"entries_walked"`
	FilesCompared   int   `json:"files_compared"`
	Excluded        int   `json:"excluded"`
	SymlinksSkipped int   `json:"symlinks_skipped"`
	NonFilesSkipped int   `json:"non_files_skipped"`
	BytesHashed     int64 `json:"bytes_hashed"`
}

// JSONErrorData represents a terminal error
type JSONErrorData struct {
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(showUnchanged bool) *JSONFormatter {
	return &JSONFormatter{showUnchanged: showUnchanged}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, operation *models.CompareOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	return nil
}

// Progress reports a classified file (no-op; JSON output is a single document)
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the full report as a single JSON document
func (f *JSONFormatter) Complete(report *models.DiffReport) error {
	out := JSONReport{
		OperationID: report.OperationID,
		RootA:       report.RootA,
		RootB:       report.RootB,
		StartTime:   report.StartTime,
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Changed:     report.Changed,
		New:         report.New,
		Stats: JSONStatsData{
			EntriesWalked:   report.Stats.EntriesWalked,
			FilesCompared:   report.Stats.FilesCompared,
			Excluded:        report.Stats.Excluded,
			SymlinksSkipped: report.Stats.SymlinksSkipped,
			NonFilesSkipped: report.Stats.NonFilesSkipped,
			BytesHashed:     report.Stats.BytesHashed,
		},
		Status: string(report.Status),
	}
	if f.showUnchanged {
		out.Unchanged = report.Unchanged
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Error writes a terminal error as a JSON document
func (f *JSONFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	return json.NewEncoder(w).Encode(JSONErrorData{Error: err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
