package output

import (
	"io"

	"github.com/treediff/treediff/pkg/models"
)

// ProgressUpdate represents a notification emitted after each classified file
type ProgressUpdate struct {
	Path           string
	Classification models.Classification
	Classified     int
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress-bar formatters
type Formatter interface {
	// Start initializes the formatter for a new comparison
	Start(writer io.Writer, operation *models.CompareOperation) error

	// Progress reports a classified file during the comparison
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the report
	Complete(report *models.DiffReport) error

	// Error reports a terminal error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
