package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"sensei/pkg/interfaces"
	"sensei/pkg/models"

	"golang.org/x/term"
)

// New returns the reporter for a display mode. In auto mode a bar is drawn
// when w is a terminal, otherwise progress goes to the log.
func New(mode string, w io.Writer, logger *slog.Logger) (interfaces.ProgressReporter, error) {
	switch mode {
	case models.ProgressNone:
		return Nop{}, nil
	case models.ProgressLog:
		return NewLog(logger), nil
	case models.ProgressBar:
		return NewBar(w), nil
	case models.ProgressAuto, "":
		if IsTerminal(w) {
			return NewBar(w), nil
		}

		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("unknown progress mode %q (supported: auto, bar, log, none)", mode)
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// Nop discards progress.
type Nop struct{}

// Start returns a tracker that ignores updates.
func (Nop) Start(string, int64) interfaces.ProgressTracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) Add(int64) {}
func (nopTracker) Finish()   {}
func (nopTracker) Abort()    {}

var _ interfaces.ProgressReporter = Nop{}
