package models

import (
	"fmt"
	"time"
)

// Classification is the outcome of comparing one file against its mirror
type Classification string

const (
	// ClassNew indicates the file has no counterpart in the second tree
	ClassNew Classification = "new"
	// ClassChanged indicates the counterpart exists with different content
	ClassChanged Classification = "changed"
	// ClassUnchanged indicates the counterpart exists with identical content
	ClassUnchanged Classification = "unchanged"
)

// CompareOperation represents a comparison run configuration
type CompareOperation struct {
	ID              string
	RootA           string
	RootB           string
	ExcludePatterns []string
	BandwidthLimit  int64
	CreatedAt       time.Time
}

// Validate checks the operation for obvious misconfiguration
func (o *CompareOperation) Validate() error {
	if o.RootA == "" {
		return &ValidationError{
			Field:   "root_a",
			Message: "first root path is required",
		}
	}

	if o.RootB == "" {
		return &ValidationError{
			Field:   "root_b",
			Message: "second root path is required",
		}
	}

	if o.BandwidthLimit < 0 {
		return &ValidationError{
			Field:   "bandwidth_limit",
			Message: "must be zero (unlimited) or positive",
		}
	}

	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}
