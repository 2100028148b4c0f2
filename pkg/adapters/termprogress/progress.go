// Package termprogress renders run progress as a terminal progress bar.
package termprogress

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/user/frameharvest/pkg/ports"
)

// Bar implements ports.Progress on a progressbar whose maximum grows with AddTotal.
type Bar struct {
	bar   *progressbar.ProgressBar
	total int
	done  int
}

// New creates a bar writing to w.
func New(w io.Writer, description string) *Bar {
	bar := progressbar.NewOptions(1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() { io.WriteString(w, "\n") }),
	)
	return &Bar{bar: bar}
}

// AddTotal raises the bar's maximum by n.
func (b *Bar) AddTotal(n int) {
	if n <= 0 {
		return
	}
	b.total += n
	b.bar.ChangeMax(max(b.total, 1))
}

// Increment advances the bar by one.
func (b *Bar) Increment() {
	b.done++
	b.bar.Add(1)
}

// Finish completes the bar.
func (b *Bar) Finish() {
	if b.total == 0 {
		return
	}
	b.bar.Finish()
}

// Total returns the current maximum.
func (b *Bar) Total() int {
	return b.total
}

// Done returns the number of increments so far.
func (b *Bar) Done() int {
	return b.done
}

var _ ports.Progress = (*Bar)(nil)

// Noop discards progress.
type Noop struct{}

func (Noop) AddTotal(n int) {}
func (Noop) Increment()     {}
func (Noop) Finish()        {}

var _ ports.Progress = Noop{}

// Factory creates bars on a writer, or Noop bars when disabled.
type Factory struct {
	w       io.Writer
	enabled bool
}

// NewFactory creates a factory. Bars are drawn only when enabled.
func NewFactory(w io.Writer, enabled bool) *Factory {
	return &Factory{w: w, enabled: enabled}
}

// NewStderrFactory draws on stderr when it is a terminal.
func NewStderrFactory() *Factory {
	fd := os.Stderr.Fd()
	return NewFactory(os.Stderr, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// New creates a Progress for one phase.
func (f *Factory) New(description string) ports.Progress {
	if !f.enabled {
		return Noop{}
	}
	return New(f.w, description)
}

var _ ports.ProgressFactory = (*Factory)(nil)
