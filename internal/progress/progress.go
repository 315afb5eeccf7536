package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Tracker is advanced once per executed round.
type Tracker interface {
	Advance(elapsed time.Duration)
	Finish()
}

// Bar renders a terminal progress bar.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar creates a bar for total rounds writing to w.
func NewBar(w io.Writer, total int) *Bar {
	return &Bar{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Running trajectory"),
		progressbar.OptionSetItsString("round"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)}
}

func (b *Bar) Advance(elapsed time.Duration) {
	b.bar.Describe(fmt.Sprintf("Running trajectory [Time: %.2fs]", elapsed.Seconds()))
	_ = b.bar.Add(1)
}

func (b *Bar) Finish() { _ = b.bar.Finish() }

// Noop discards progress updates.
type Noop struct{}

func (Noop) Advance(time.Duration) {}
func (Noop) Finish()               {}
