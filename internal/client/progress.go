package client

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressConfig controls the terminal progress bar
type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// ProgressBar renders upload progress. The bar is created lazily so nothing
// is drawn until the first non-zero update.
type ProgressBar struct {
	enabled bool
	writer  io.Writer
	label   string

	mu        sync.Mutex
	container *mpb.Progress
	bar       *mpb.Bar
}

// NewProgressBar creates a bar labelled with the file being uploaded
func NewProgressBar(config ProgressConfig, label string) *ProgressBar {
	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}
	return &ProgressBar{enabled: config.Enabled, writer: writer, label: label}
}

// Update is a ProgressFunc
func (pb *ProgressBar) Update(percent int) {
	if !pb.enabled || percent <= 0 {
		return
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()

	if pb.bar == nil {
		pb.container = mpb.New(
			mpb.WithOutput(pb.writer),
			mpb.WithRefreshRate(120*time.Millisecond),
		)
		pb.bar = pb.container.AddBar(100,
			mpb.PrependDecorators(
				decor.Name(pb.label+" ", decor.WC{W: len(pb.label) + 1, C: decor.DindentRight}),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.Percentage(decor.WCSyncSpace), "uploaded, transcribing..."),
			),
		)
	}
	pb.bar.SetCurrent(int64(percent))
}

// Complete finishes the bar and waits for the final render
func (pb *ProgressBar) Complete() {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if pb.bar == nil {
		return
	}
	if !pb.bar.Completed() {
		pb.bar.Abort(false)
	}
	pb.container.Wait()
}
