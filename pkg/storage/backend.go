package storage

import (
	"context"
	"io"
	"time"
)

// Entry is a single filesystem object yielded during a walk
type Entry struct {
	// Path is the absolute path of the entry
	Path string

	// IsRegular indicates a regular file (not a directory, symlink or device)
	IsRegular bool

	// IsSymlink indicates the entry itself is a symbolic link
	IsSymlink bool
}

// FileInfo represents metadata about a file
type FileInfo struct {
	Path         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	IsDir        bool
	Permissions  uint32
}

// WalkFunc is invoked for every entry yielded by Walk. Returning a non-nil
// error aborts the walk and propagates the error to the Walk caller.
type WalkFunc func(entry Entry) error

// Backend defines the interface for read-side storage operations
// Implementations include the local filesystem; remote backends are possible
type Backend interface {
	// Walk lazily enumerates all entries reachable from the backend root in
	// depth-first order. Entries that cannot be enumerated are skipped and
	// the walk continues; a missing or unreadable root yields zero entries
	// rather than an error.
	Walk(ctx context.Context, fn WalkFunc) error

	// Read opens a file for reading, path relative to the backend root
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns file metadata, path relative to the backend root
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Root returns the absolute root path of the backend
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
