// Package ytdlp implements video_downloader.Extractor on top of yt-dlp, via github.com/lrstanley/go-ytdlp. It
// handles every supported platform; yt-dlp does its own site detection.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/alanbriolat/video-downloader"
	"github.com/alanbriolat/video-downloader/generic"
)

// Minimum interval between progress callbacks.
const ProgressInterval = 250 * time.Millisecond

// Only the tail of yt-dlp's stderr is kept in error messages.
const maxStderrLines = 5

var ErrNoInfo = errors.New("yt-dlp returned no video information")

type Extractor struct {
	config video_downloader.Config
}

func New(config video_downloader.Config) *Extractor {
	return &Extractor{config: config}
}

func (e *Extractor) Name() string {
	return "yt-dlp"
}

// command builds the shared yt-dlp configuration: best quality, output template inside dir, merge container,
// never overwrite.
func (e *Extractor) command(dir string) *ytdlp.Command {
	cmd := ytdlp.New().
		Format(e.config.Format).
		MergeOutputFormat(e.config.MergeOutputFormat).
		Output(filepath.Join(dir, e.config.OutputTemplate)).
		NoOverwrites().
		NoPlaylist()
	if e.config.YtDlpPath != "" {
		cmd.SetExecutable(e.config.YtDlpPath)
	}
	if e.config.FFmpegPath != "" && e.config.FFmpegPath != video_downloader.DefaultConfig.FFmpegPath {
		cmd.FFmpegLocation(e.config.FFmpegPath)
	}
	return cmd
}

// Recon asks yt-dlp for the video's metadata, including the filename it would write, without downloading.
func (e *Extractor) Recon(ctx context.Context, req *video_downloader.DownloadRequest, targetDir string) (*video_downloader.SourceInfo, error) {
	res, err := e.command(targetDir).SkipDownload().PrintJSON().Run(ctx, req.URL())
	if err != nil {
		return nil, withStderr(err, resultStderr(res))
	}
	infos, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	if len(infos) == 0 || infos[0] == nil {
		return nil, ErrNoInfo
	}

	info := &video_downloader.SourceInfo{ID: infos[0].ID, Ext: infos[0].Extension}
	if infos[0].Title != nil {
		info.Title = *infos[0].Title
	}
	// yt-dlp reports the output path as "filename" or, in older releases, only "_filename".
	if infos[0].Filename != nil {
		info.Filename = *infos[0].Filename
	} else if infos[0].AltFilename != nil {
		info.Filename = *infos[0].AltFilename
	}
	if ext := filepath.Ext(info.Filename); ext != "" {
		info.Ext = strings.TrimPrefix(ext, ".")
	}
	return info, nil
}

func (e *Extractor) Fetch(ctx context.Context, req *video_downloader.DownloadRequest, _ *video_downloader.SourceInfo, targetPath string, progress video_downloader.ProgressFunc) error {
	cmd := e.command(filepath.Dir(targetPath))
	cmd.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		if event, ok := toProgressEvent(update.Status, update.DownloadedBytes, update.TotalBytes); ok {
			progress.Emit(event)
		}
	})
	res, err := cmd.Run(ctx, req.URL())
	if err != nil {
		return withStderr(err, resultStderr(res))
	}
	return nil
}

// toProgressEvent maps a yt-dlp progress status onto ours. Post-processing (e.g. merging) counts as finished, errors
// are dropped since the failure is reported by Run.
func toProgressEvent[S ~string, N ~int | ~int64](status S, downloaded N, total N) (video_downloader.ProgressEvent, bool) {
	event := video_downloader.ProgressEvent{
		DownloadedBytes: generic.Some(int64(downloaded)),
		TotalBytes:      generic.NonZero(int64(total)),
	}
	switch string(status) {
	case "starting":
		event.Status = video_downloader.ProgressStarting
	case "downloading":
		event.Status = video_downloader.ProgressDownloading
	case "post_processing", "finished":
		event.Status = video_downloader.ProgressFinished
	default:
		return video_downloader.ProgressEvent{}, false
	}
	return event, true
}

func resultStderr(res *ytdlp.Result) string {
	if res == nil {
		return ""
	}
	return res.Stderr
}

// withStderr appends the last lines of yt-dlp's stderr to err, since that is where yt-dlp explains failures.
func withStderr(err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" || strings.Contains(err.Error(), stderr) {
		return err
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > maxStderrLines {
		lines = lines[len(lines)-maxStderrLines:]
	}
	return fmt.Errorf("%w: %s", err, strings.Join(lines, "; "))
}
