package compare

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/treediff/treediff/pkg/logging"
	"github.com/treediff/treediff/pkg/models"
	"github.com/treediff/treediff/pkg/ratelimit"
	"github.com/treediff/treediff/pkg/storage"
)

// ProgressFunc is invoked after each file is classified
type ProgressFunc func(path string, class models.Classification, classified int)

// Engine performs a one-directional, content-based comparison of two
// directory trees. Every regular file under the first tree is classified as
// new, changed or unchanged relative to its mirror path in the second tree.
//
// The comparison is single-threaded and order-preserving: files appear in the
// output lists in the walker's discovery order. Each Run owns its own
// accumulating result; an Engine may be reused for repeated runs.
type Engine struct {
	source    storage.Backend
	dest      storage.Backend
	filter    *ExcludeFilter
	logger    logging.Logger
	limiter   *ratelimit.Limiter
	progress  ProgressFunc
	operation *models.CompareOperation
}

// NewEngine creates a comparison engine for the given operation. The
// operation's exclude patterns are compiled here, so an invalid pattern
// surfaces as a *PatternError before any filesystem access.
func NewEngine(source, dest storage.Backend, logger logging.Logger, operation *models.CompareOperation) (*Engine, error) {
	filter, err := NewExcludeFilter(operation.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NewNullLogger()
	}

	var limiter *ratelimit.Limiter
	if operation.BandwidthLimit > 0 {
		limiter = ratelimit.NewLimiter(operation.BandwidthLimit)
	}

	return &Engine{
		source:    source,
		dest:      dest,
		filter:    filter,
		logger:    logger,
		limiter:   limiter,
		operation: operation,
	}, nil
}

// SetProgressCallback sets a callback invoked after each classified file
func (e *Engine) SetProgressCallback(fn ProgressFunc) {
	e.progress = fn
}

// Run executes the comparison. It returns either a complete report or an
// error, never both: walk-level failures drop the affected entries and the
// traversal continues, but a failure while classifying a selected entry
// (*PathMappingError, *IoError) aborts the whole run.
func (e *Engine) Run(ctx context.Context) (*models.DiffReport, error) {
	report := &models.DiffReport{
		OperationID: e.operation.ID,
		RootA:       e.source.Root(),
		RootB:       e.dest.Root(),
		StartTime:   time.Now(),
		Changed:     []string{},
		New:         []string{},
		Unchanged:   []string{},
	}

	e.logger.Info(ctx, "comparison started", logging.Fields{
		"operation_id": report.OperationID,
		"root_a":       report.RootA,
		"root_b":       report.RootB,
		"patterns":     e.filter.Size(),
	})

	err := e.source.Walk(ctx, func(entry storage.Entry) error {
		return e.classify(ctx, entry, report)
	})
	if err != nil {
		status := models.StatusFailed
		if ctx.Err() != nil {
			status = models.StatusCancelled
		}
		e.logger.Error(ctx, "comparison aborted", err, logging.Fields{
			"operation_id": report.OperationID,
			"status":       string(status),
		})
		return nil, err
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Status = models.StatusSuccess

	e.logger.Info(ctx, "comparison completed", logging.Fields{
		"operation_id": report.OperationID,
		"changed":      len(report.Changed),
		"new":          len(report.New),
		"unchanged":    len(report.Unchanged),
		"duration_ms":  report.Duration.Milliseconds(),
	})

	return report, nil
}

// classify decides the fate of a single walked entry. Check order matters:
// type, symlink and exclusion filtering happen before any path mapping or
// mirror probing, and the mirror existence check happens before any content
// is read so that new files are never hashed.
func (e *Engine) classify(ctx context.Context, entry storage.Entry, report *models.DiffReport) error {
	report.Stats.EntriesWalked++

	if !entry.IsRegular {
		if entry.IsSymlink {
			report.Stats.SymlinksSkipped++
		} else {
			report.Stats.NonFilesSkipped++
		}
		return nil
	}

	// Symlinks are never followed or compared, even when they resolve to
	// regular files that exist and differ in the second tree.
	if entry.IsSymlink {
		report.Stats.SymlinksSkipped++
		return nil
	}

	if e.filter.Match(entry.Path) {
		report.Stats.Excluded++
		e.logger.Debug(ctx, "entry excluded", logging.Fields{"path": entry.Path})
		return nil
	}

	rel, err := filepath.Rel(report.RootA, entry.Path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		// An entry yielded by walking RootA that is not under RootA.
		return &PathMappingError{Path: entry.Path, Root: report.RootA, Err: err}
	}

	// Pure existence probe: a missing, unreadable or non-file mirror means
	// the entry is new, and no content is read on either side.
	mirror, err := e.dest.Stat(ctx, rel)
	if err != nil || mirror.IsDir {
		report.New = append(report.New, entry.Path)
		e.report(entry.Path, models.ClassNew, report)
		return nil
	}

	sourceData, err := e.readAll(ctx, e.source, rel, entry.Path)
	if err != nil {
		return err
	}

	destData, err := e.readAll(ctx, e.dest, rel, mirror.Path)
	if err != nil {
		return err
	}

	report.Stats.BytesHashed += int64(len(sourceData)) + int64(len(destData))

	if FingerprintBytes(sourceData) == FingerprintBytes(destData) {
		report.Unchanged = append(report.Unchanged, entry.Path)
		e.report(entry.Path, models.ClassUnchanged, report)
	} else {
		report.Changed = append(report.Changed, entry.Path)
		e.report(entry.Path, models.ClassChanged, report)
	}

	return nil
}

// readAll reads the complete content of a selected file into memory. The
// file handle is held only for the duration of this call, so at most one
// handle per tree is ever open. A failure is fatal to the comparison.
func (e *Engine) readAll(ctx context.Context, backend storage.Backend, rel, display string) ([]byte, error) {
	reader, err := backend.Read(ctx, rel)
	if err != nil {
		return nil, &IoError{Path: display, Err: err}
	}
	defer reader.Close()

	var r io.Reader = reader
	if e.limiter != nil {
		r = ratelimit.NewReader(ctx, reader, e.limiter)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IoError{Path: display, Err: err}
	}

	return data, nil
}

func (e *Engine) report(path string, class models.Classification, report *models.DiffReport) {
	report.Stats.FilesCompared++
	if e.progress != nil {
		e.progress(path, class, report.Stats.FilesCompared)
	}
}

// Trees compares the directory tree rooted at rootA against rootB and
// returns the classification of every regular file under rootA. It is the
// one-call form of the engine: backends, operation and engine are built with
// defaults and no logging.
//
// A missing rootA yields an empty report; a missing rootB classifies every
// surviving file as new. Each pattern in excludePatterns must be a valid
// regular expression and is matched against the full path of each candidate.
func Trees(ctx context.Context, rootA, rootB string, excludePatterns []string) (*models.DiffReport, error) {
	source, err := storage.NewLocal(rootA)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	dest, err := storage.NewLocal(rootB)
	if err != nil {
		return nil, err
	}
	defer dest.Close()

	operation := &models.CompareOperation{
		ID:              uuid.New().String(),
		RootA:           rootA,
		RootB:           rootB,
		ExcludePatterns: excludePatterns,
		CreatedAt:       time.Now(),
	}

	engine, err := NewEngine(source, dest, nil, operation)
	if err != nil {
		return nil, err
	}

	return engine.Run(ctx)
}
