package session

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/alanbriolat/video-downloader"
)

// progressRenderer draws a byte progress bar from progress events. The bar is created lazily on the first event
// with a known total, since extractors only learn the size once the transfer starts.
type progressRenderer struct {
	out io.Writer
	log *zap.SugaredLogger
	bar *progressbar.ProgressBar
}

func newProgressRenderer(out io.Writer, log *zap.SugaredLogger) *progressRenderer {
	return &progressRenderer{out: out, log: log}
}

func (r *progressRenderer) Update(event video_downloader.ProgressEvent) {
	percent, ok := event.Percent()
	if !ok {
		return
	}
	total := event.TotalBytes.Unwrap()
	if r.bar == nil {
		r.bar = newBar(r.out, total)
	} else if r.bar.GetMax64() != total {
		r.bar.ChangeMax64(total)
	}
	if err := r.bar.Set64(event.DownloadedBytes.UnwrapOr(0)); err != nil {
		r.log.Debugf("failed to render progress: %v", err)
	}
	r.log.Debugf("downloading: %.1f%%", percent)
}

// Done completes the bar on success and moves past it either way.
func (r *progressRenderer) Done(success bool) {
	if r.bar == nil {
		return
	}
	if success {
		_ = r.bar.Finish()
	}
	fmt.Fprintln(r.out)
	r.bar = nil
}

func newBar(out io.Writer, total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
