package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// barDisplay renders download progress as a terminal progress bar.
type barDisplay struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newBarDisplay(out io.Writer) *barDisplay {
	return &barDisplay{out: out}
}

func (d *barDisplay) Start(total int) {
	if total == 0 {
		return
	}
	d.bar = progressbar.NewOptions64(
		int64(total),
		progressbar.OptionSetWriter(d.out),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionSetItsString("img"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (d *barDisplay) Advance(done, total int) {
	if d.bar != nil {
		d.bar.Set(done)
	}
}

func (d *barDisplay) Finish(done, total int) {
	if d.bar == nil {
		return
	}
	d.bar.Set(done)
	if done >= total {
		d.bar.Finish()
	}
	fmt.Fprintln(d.out)
}
