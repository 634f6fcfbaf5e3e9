package progress

import (
	"log/slog"

	"sensei/pkg/interfaces"

	"github.com/dustin/go-humanize"
)

// logStep is the fraction of a sized transfer between debug progress lines.
const logStep = 10

// Log reports transfers as structured log lines.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log reporter; a nil logger means slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}

	return &Log{logger: logger}
}

// Start logs the beginning of a transfer.
func (l *Log) Start(name string, total int64) interfaces.ProgressTracker {
	size := "unknown size"
	if total >= 0 {
		size = humanize.IBytes(uint64(total))
	}

	l.logger.Info("Transfer started", "file", name, "size", size)

	return &logTracker{logger: l.logger, name: name, total: total, nextPercent: logStep}
}

type logTracker struct {
	logger      *slog.Logger
	name        string
	total       int64
	written     int64
	nextPercent int64
}

func (t *logTracker) Add(n int64) {
	t.written += n

	if t.total <= 0 {
		return
	}

	percent := t.written * 100 / t.total
	if percent < t.nextPercent {
		return
	}

	t.logger.Debug("Transfer progress", "file", t.name, "percent", percent,
		"bytes", humanize.IBytes(uint64(t.written)))

	t.nextPercent = (percent/logStep + 1) * logStep
}

func (t *logTracker) Abort() {
	t.logger.Warn("Transfer aborted", "file", t.name, "bytes", humanize.IBytes(uint64(t.written)))
}

func (t *logTracker) Finish() {
	t.logger.Info("Transfer finished", "file", t.name, "bytes", humanize.IBytes(uint64(t.written)))
}

var _ interfaces.ProgressReporter = (*Log)(nil)
