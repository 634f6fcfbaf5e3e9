// Package download resolves remote files and mirrors them into a local
// directory tree.
package download

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sensei/internal/progress"
	"sensei/pkg/interfaces"
	"sensei/pkg/models"

	"github.com/dustin/go-humanize"
)

// DefaultChunkSize is the streaming buffer size used when none is configured.
const DefaultChunkSize = 10240

const downloadFileMode = 0644

// Options configures an Engine.
type Options struct {
	// Destination is the local root directory. Lookups work without it;
	// downloads fail with ErrNoDestination.
	Destination string

	// ChunkSize is the number of bytes read per write (default 10240).
	ChunkSize int

	// Progress receives per-chunk updates. Nil disables progress.
	Progress interfaces.ProgressReporter

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result describes the outcome of a single file download.
type Result struct {
	// Target is the local path the file was (or would have been) written to.
	Target string
	// Skipped is true when the target already existed and was kept.
	Skipped bool
	// Bytes is the number of bytes written.
	Bytes int64
}

// Stats accumulates results over the lifetime of an Engine.
type Stats struct {
	Downloaded int64
	Skipped    int64
	Bytes      int64
}

// Engine downloads files listed by an interfaces.Lister.
type Engine struct {
	lister    interfaces.Lister
	dest      string
	chunkSize int
	progress  interfaces.ProgressReporter
	logger    *slog.Logger

	stats Stats
}

// NewEngine creates an Engine over lister.
func NewEngine(lister interfaces.Lister, opts Options) *Engine {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	if opts.Progress == nil {
		opts.Progress = progress.Nop{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Engine{
		lister:    lister,
		dest:      opts.Destination,
		chunkSize: opts.ChunkSize,
		progress:  opts.Progress,
		logger:    opts.Logger,
	}
}

// Stats returns the totals so far. An Engine is not safe for concurrent use.
func (e *Engine) Stats() Stats {
	return e.stats
}

// GetFile resolves a full remote path such as "/a/x.txt" to its record.
func (e *Engine) GetFile(ctx context.Context, remotePath string) (*models.File, error) {
	parent, filename := SplitPath(remotePath)
	if filename == "" {
		// An empty filename filter would match every file under parent.
		return nil, fmt.Errorf("%w: %s does not name a file", ErrFileNotFound, remotePath)
	}

	page, err := e.lister.FindFiles(ctx, parent, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", remotePath, err)
	}

	switch {
	case page.Count == 0:
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, remotePath)
	case page.Count > 1 || len(page.Results) != 1:
		return nil, fmt.Errorf("%w: %s matched %d records", ErrContractViolation, remotePath, page.Count)
	}

	file := page.Results[0]

	return &file, nil
}

// SplitPath splits a remote path at its last slash into the parent filter
// and the filename. A bare name has an empty parent. A top-level path like
// "/x.txt" has parent "/" rather than the empty string a literal split would
// give, because "/" is the parent the listing endpoints use for the root.
func SplitPath(remotePath string) (parent, filename string) {
	idx := strings.LastIndex(remotePath, "/")
	switch {
	case idx < 0:
		return "", remotePath
	case idx == 0:
		return "/", remotePath[1:]
	default:
		return remotePath[:idx], remotePath[idx+1:]
	}
}

// DownloadFile writes file to {destination}/{path}/{filename}. An existing
// target is kept unless overwrite is set, in which case it is replaced.
func (e *Engine) DownloadFile(ctx context.Context, file models.File, overwrite bool) (Result, error) {
	target, err := e.targetPath(file)
	if err != nil {
		return Result{}, err
	}

	result := Result{Target: target}

	info, err := os.Stat(target)
	switch {
	case err == nil && info.Mode().IsRegular():
		if !overwrite {
			e.logger.Warn("File already exists, skipping (use --overwrite to replace it)", "path", target)
			e.stats.Skipped++
			result.Skipped = true

			return result, nil
		}

		e.logger.Info("Overwriting", "path", target)
	case err == nil:
		return result, fmt.Errorf("failed to download %s: %s exists and is not a regular file", file.URL, target)
	case !os.IsNotExist(err):
		return result, fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return result, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
	}

	content, err := e.lister.Open(ctx, file.URL)
	if err != nil {
		return result, fmt.Errorf("failed to download %s: %w", file.URL, err)
	}
	defer content.Body.Close()

	e.logger.Info("Downloading to", "path", target, "url", file.URL)

	written, err := e.writeFile(target, filepath.Join(file.Path, file.Filename), content)
	if err != nil {
		return result, err
	}

	result.Bytes = written
	e.stats.Downloaded++
	e.stats.Bytes += written

	e.logger.Debug("Download complete", "path", target, "bytes", humanize.IBytes(uint64(written)))

	return result, nil
}

// writeFile streams content into a temp file beside target and renames it
// into place once the body has been read completely.
func (e *Engine) writeFile(target, name string, content *models.Content) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file for %s: %w", target, err)
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	tracker := e.progress.Start(name, content.Length)

	defer func() {
		if committed {
			tracker.Finish()
		} else {
			tracker.Abort()
		}
	}()

	buf := make([]byte, e.chunkSize)

	var written int64

	for {
		n, readErr := content.Body.Read(buf)
		if n > 0 {
			if _, err := tmp.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("failed to write %s: %w", tmpName, err)
			}

			written += int64(n)
			tracker.Add(int64(n))
		}

		if readErr == io.EOF {
			break
		}

		if readErr != nil {
			return written, fmt.Errorf("failed to read content for %s: %w", target, readErr)
		}
	}

	// CreateTemp opens the file 0600.
	if err := tmp.Chmod(downloadFileMode); err != nil {
		return written, fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		return written, fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		return written, fmt.Errorf("failed to move download into place at %s: %w", target, err)
	}

	committed = true

	return written, nil
}

func (e *Engine) targetPath(file models.File) (string, error) {
	if e.dest == "" {
		return "", fmt.Errorf("%w: cannot download %s/%s", ErrNoDestination, file.Path, file.Filename)
	}

	dest := filepath.Clean(e.dest)
	target := filepath.Join(dest, filepath.FromSlash(file.Path), filepath.FromSlash(file.Filename))

	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s/%s", ErrUnsafePath, file.Path, file.Filename)
	}

	return target, nil
}

// DownloadFileFromPath resolves remotePath and downloads it.
func (e *Engine) DownloadFileFromPath(ctx context.Context, remotePath string, overwrite bool) (Result, error) {
	file, err := e.GetFile(ctx, remotePath)
	if err != nil {
		return Result{}, err
	}

	return e.DownloadFile(ctx, *file, overwrite)
}

// RecursiveDownload downloads every file under remotePath (default "/").
// Files at each level are fetched before its subdirectories, and each
// subdirectory is finished before the next one starts. Directory listings
// are paged lazily, so a subtree is complete before the listing that named
// it fetches its next page. It reports whether anything (file or directory)
// was found.
func (e *Engine) RecursiveDownload(ctx context.Context, remotePath string, overwrite bool) (bool, error) {
	if remotePath == "" {
		remotePath = "/"
	}

	found := false

	// One frame per directory whose subdirectories are still being listed.
	type frame struct {
		dir  string
		next func() (models.Directory, error, bool)
		stop func()
	}

	var stack []frame

	defer func() {
		for _, f := range stack {
			f.stop()
		}
	}()

	visit := func(dir string) error {
		e.logger.Info("Downloading from", "path", dir)

		for file, err := range e.lister.IterateFiles(ctx, dir) {
			if err != nil {
				return fmt.Errorf("failed to list files in %s: %w", dir, err)
			}

			found = true

			if _, err := e.DownloadFile(ctx, file, overwrite); err != nil {
				return err
			}
		}

		next, stop := iter.Pull2(e.lister.IterateDirectories(ctx, dir))
		stack = append(stack, frame{dir: dir, next: next, stop: stop})

		return nil
	}

	if err := visit(remotePath); err != nil {
		return found, err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		d, err, ok := top.next()
		if !ok {
			top.stop()
			stack = stack[:len(stack)-1]

			continue
		}

		if err != nil {
			return found, fmt.Errorf("failed to list directories in %s: %w", top.dir, err)
		}

		found = true

		if err := visit(d.Path); err != nil {
			return found, err
		}
	}

	return found, nil
}
