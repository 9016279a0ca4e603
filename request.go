package video_downloader

import (
	"context"
	"os"

	"github.com/alanbriolat/video-downloader/generic"
)

// DownloadRequest describes a single download attempt. It is immutable once built.
type DownloadRequest struct {
	url                  string
	platform             Platform
	destinationDirectory generic.Option[string]
}

// NewDownloadRequest builds a request. An empty destination directory means the current working directory.
func NewDownloadRequest(url string, platform Platform, destinationDirectory string) *DownloadRequest {
	return &DownloadRequest{
		url:                  url,
		platform:             platform,
		destinationDirectory: generic.NonZero(destinationDirectory),
	}
}

func (r *DownloadRequest) URL() string {
	return r.url
}

func (r *DownloadRequest) Platform() Platform {
	return r.platform
}

func (r *DownloadRequest) DestinationDirectory() generic.Option[string] {
	return r.destinationDirectory
}

// Destination resolves the destination directory, falling back to the current working directory.
func (r *DownloadRequest) Destination() (string, error) {
	if r.destinationDirectory.IsSome() {
		return r.destinationDirectory.Unwrap(), nil
	}
	return os.Getwd()
}

// SourceInfo is what an Extractor learns about a video before fetching it.
type SourceInfo struct {
	ID    string
	Title string
	Ext   string
	// Filename is the output path computed by the extractor itself, if it does that.
	Filename string
	// Resolved carries extractor-specific state from Recon to Fetch.
	Resolved any
}

// An Extractor locates and retrieves the media behind a page URL.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string
	// Recon should fetch information about the video without downloading it. targetDir is the resolved destination
	// directory, for extractors that compute their own output path.
	Recon(ctx context.Context, req *DownloadRequest, targetDir string) (*SourceInfo, error)
	// Fetch should download the video to targetPath, reporting progress through the callback if it is non-nil.
	Fetch(ctx context.Context, req *DownloadRequest, info *SourceInfo, targetPath string, progress ProgressFunc) error
}
