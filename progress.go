package video_downloader

import (
	"github.com/alanbriolat/video-downloader/generic"
)

type ProgressStatus string

const (
	ProgressStarting    ProgressStatus = "starting"
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
)

// ProgressEvent is a transient notification of bytes transferred during an active download.
type ProgressEvent struct {
	Status          ProgressStatus
	DownloadedBytes generic.Option[int64]
	TotalBytes      generic.Option[int64]
}

// Percent returns downloaded/total*100 for a downloading event with a known, positive total.
func (e ProgressEvent) Percent() (float64, bool) {
	if e.Status != ProgressDownloading || e.TotalBytes.IsNone() {
		return 0, false
	}
	total := e.TotalBytes.Unwrap()
	if total <= 0 {
		return 0, false
	}
	downloaded := e.DownloadedBytes.UnwrapOr(0)
	return float64(downloaded) / float64(total) * 100, true
}

// ProgressFunc receives progress events on the goroutine performing the download.
type ProgressFunc func(ProgressEvent)

// Emit calls f if it is non-nil.
func (f ProgressFunc) Emit(event ProgressEvent) {
	if f != nil {
		f(event)
	}
}

// ProgressWriter counts bytes written through it and reports them as downloading events. It ignores the data, so
// it is meant to be the last writer of an io.MultiWriter (to avoid counting failed writes).
type ProgressWriter struct {
	progress        ProgressFunc
	expectedBytes   int64
	downloadedBytes int64
}

func NewProgressWriter(progress ProgressFunc) *ProgressWriter {
	return &ProgressWriter{progress: progress}
}

// AddExpectedBytes increases how many bytes are expected to be downloaded. Non-positive values mean "unknown".
func (w *ProgressWriter) AddExpectedBytes(n int64) {
	if n > 0 {
		w.expectedBytes += n
	}
}

// AddDownloadedBytes increases how many bytes have been successfully downloaded so far.
func (w *ProgressWriter) AddDownloadedBytes(n int64) {
	w.downloadedBytes += n
	w.progress.Emit(w.event(ProgressDownloading))
}

// Progress returns the downloaded and expected bytes of the download.
func (w *ProgressWriter) Progress() (int64, int64) {
	return w.downloadedBytes, w.expectedBytes
}

func (w *ProgressWriter) Start() {
	w.progress.Emit(w.event(ProgressStarting))
}

func (w *ProgressWriter) Finish() {
	w.progress.Emit(w.event(ProgressFinished))
}

func (w *ProgressWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	w.AddDownloadedBytes(int64(n))
	return n, nil
}

func (w *ProgressWriter) event(status ProgressStatus) ProgressEvent {
	return ProgressEvent{
		Status:          status,
		DownloadedBytes: generic.Some(w.downloadedBytes),
		TotalBytes:      generic.NonZero(w.expectedBytes),
	}
}
