package cmd

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressReporter draws a file progress bar for a directory run
type progressReporter struct {
	out    io.Writer
	bar    *progressbar.ProgressBar
	failed atomic.Int64
}

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{out: out}
}

func (p *progressReporter) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Extracting methods"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
	)
}

func (p *progressReporter) FileDone(path string, err error) {
	if err != nil {
		p.failed.Add(1)
	}
	if p.bar != nil {
		p.bar.Add(1)
	}
}

func (p *progressReporter) Finish() {
	if p.bar == nil {
		return
	}
	p.bar.Finish()
	if n := p.failed.Load(); n > 0 {
		fmt.Fprintf(p.out, "%d files could not be extracted\n", n)
	}
}
