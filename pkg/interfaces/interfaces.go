package interfaces

import (
	"context"
	"iter"

	"sensei/pkg/models"
)

// Lister is the read side of the storage API used by the download engine.
type Lister interface {
	IterateFiles(ctx context.Context, path string) iter.Seq2[models.File, error]
	IterateDirectories(ctx context.Context, path string) iter.Seq2[models.Directory, error]
	FindFiles(ctx context.Context, parent, filename string) (*models.Page[models.File], error)
	Open(ctx context.Context, rawURL string) (*models.Content, error)
}

// ProgressReporter creates a tracker for each transfer.
// total is -1 when the size is unknown.
type ProgressReporter interface {
	Start(name string, total int64) ProgressTracker
}

// ProgressTracker receives byte counts for a single transfer. Exactly one of
// Finish or Abort ends it.
type ProgressTracker interface {
	Add(n int64)
	Finish()
	Abort()
}
