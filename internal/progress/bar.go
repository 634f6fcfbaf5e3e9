package progress

import (
	"io"
	"time"

	"sensei/pkg/interfaces"

	"github.com/schollz/progressbar/v3"
)

// Bar draws one terminal progress bar per transfer.
type Bar struct {
	w io.Writer
}

// NewBar creates a Bar writing to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Start begins a bar for name. An unknown total renders a spinner.
func (b *Bar) Start(name string, total int64) interfaces.ProgressTracker {
	bar := progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(b.w, "\n")
		}),
	)

	return &barTracker{bar: bar}
}

type barTracker struct {
	bar *progressbar.ProgressBar
}

func (t *barTracker) Add(n int64) {
	_ = t.bar.Add64(n)
}

func (t *barTracker) Finish() {
	_ = t.bar.Finish()
}

// Abort leaves the bar at its current position.
func (t *barTracker) Abort() {
	_ = t.bar.Exit()
}

var _ interfaces.ProgressReporter = (*Bar)(nil)
