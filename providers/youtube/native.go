package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/alanbriolat/video-downloader"
)

var ErrNoProgressiveFormat = errors.New("no progressive (audio+video) formats available")

// Extractor downloads YouTube videos directly from the player API, without yt-dlp or ffmpeg. Only formats that
// already carry both audio and video are considered, so no merge step is needed.
type Extractor struct {
	client *youtube.Client
}

func NewExtractor() *Extractor {
	return &Extractor{client: &youtube.Client{}}
}

func (e *Extractor) Name() string {
	return "youtube-native"
}

type resolvedSource struct {
	video  *youtube.Video
	format *youtube.Format
}

func (e *Extractor) Recon(ctx context.Context, req *video_downloader.DownloadRequest, _ string) (*video_downloader.SourceInfo, error) {
	if req.Platform() != video_downloader.YouTube {
		return nil, fmt.Errorf("unsupported url for native backend: %s is not a YouTube URL", req.URL())
	}
	video, err := e.client.GetVideoContext(ctx, req.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}
	format, err := bestFormat(video.Formats)
	if err != nil {
		return nil, err
	}
	return &video_downloader.SourceInfo{
		ID:       video.ID,
		Title:    video.Title,
		Ext:      extFromMimeType(format.MimeType),
		Resolved: &resolvedSource{video: video, format: format},
	}, nil
}

func (e *Extractor) Fetch(ctx context.Context, _ *video_downloader.DownloadRequest, info *video_downloader.SourceInfo, targetPath string, progress video_downloader.ProgressFunc) error {
	resolved, ok := info.Resolved.(*resolvedSource)
	if !ok || resolved == nil {
		return errors.New("fetch called without a successful recon")
	}
	stream, size, err := e.client.GetStreamContext(ctx, resolved.video, resolved.format)
	if err != nil {
		return fmt.Errorf("failed to get stream: %w", err)
	}
	defer stream.Close()

	writer := video_downloader.NewProgressWriter(progress)
	writer.AddExpectedBytes(size)
	return video_downloader.SaveStream(ctx, targetPath, stream, writer)
}

// bestFormat picks the tallest progressive format, breaking ties by bitrate.
func bestFormat(formats youtube.FormatList) (*youtube.Format, error) {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 || f.Width == 0 || f.Height == 0 {
			continue
		}
		if best == nil || f.Height > best.Height || (f.Height == best.Height && bitrate(f) > bitrate(best)) {
			best = f
		}
	}
	if best == nil {
		return nil, ErrNoProgressiveFormat
	}
	return best, nil
}

func bitrate(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// extFromMimeType turns e.g. `video/mp4; codecs="avc1.42001E, mp4a.40.2"` into "mp4".
func extFromMimeType(mimeType string) string {
	mediaType := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	parts := strings.SplitN(mediaType, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "mp4"
	}
	return parts[1]
}
