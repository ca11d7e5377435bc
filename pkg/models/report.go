package models

import (
	"time"
)

// DiffReport represents the results of a directory comparison
type DiffReport struct {
	// Operation details
	OperationID string
	RootA       string
	RootB       string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Classification lists, in discovery order. Paths are given as
	// discovered under RootA; RootB counterparts are never reported.
	Changed   []string
	New       []string
	Unchanged []string

	// Statistics
	Stats Statistics

	// Overall status
	Status DiffStatus
}

// Statistics holds comparison metrics
type Statistics struct {
	// Entries seen during the walk of RootA
	EntriesWalked int

	// Entries dropped before classification
	NonFilesSkipped int
	SymlinksSkipped int
	Excluded        int

	// Files actually classified
	FilesCompared int

	// Data read for fingerprinting (both trees)
	BytesHashed int64
}

// DiffStatus represents the overall result
type DiffStatus string

const (
	// StatusSuccess indicates the comparison completed
	StatusSuccess DiffStatus = "success"
	// StatusFailed indicates the comparison aborted with an error
	StatusFailed DiffStatus = "failed"
	// StatusCancelled indicates the operation was cancelled
	StatusCancelled DiffStatus = "cancelled"
)

// ExitCode returns the appropriate exit code for the diff status
func (s DiffStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}

// TotalClassified returns the number of files placed in any list
func (r *DiffReport) TotalClassified() int {
	return len(r.Changed) + len(r.New) + len(r.Unchanged)
}

// HasDifferences reports whether any file was classified as changed or new
func (r *DiffReport) HasDifferences() bool {
	return len(r.Changed) > 0 || len(r.New) > 0
}
