package video_downloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDirPermissions = 0755

// Downloader orchestrates one download attempt: resolve the destination, ask the Extractor what it will produce,
// skip the fetch if that file already exists, otherwise fetch it.
type Downloader struct {
	config    Config
	extractor Extractor
}

func NewDownloader(config Config, extractor Extractor) *Downloader {
	return &Downloader{
		config:    config,
		extractor: extractor,
	}
}

// Download runs the request to completion. It never returns an error: failures are classified into the Outcome.
// Extractor errors are classified unwrapped. The progress callback may be nil.
func (d *Downloader) Download(ctx context.Context, req *DownloadRequest, progress ProgressFunc) Outcome {
	logger := Logger(ctx).Sugar().With(
		"attempt", uuid.NewString(),
		"url", req.URL(),
		"platform", req.Platform().String(),
		"extractor", d.extractor.Name(),
	)

	path, existed, err := d.download(ctx, req, progress, logger)
	if err != nil {
		outcome := failureOutcome(err)
		logger.Debugw("download failed", "category", outcome.Err.Category, "error", err)
		return outcome
	}
	logger.Debugw("download complete", "path", path, "already_existed", existed)
	return successOutcome(path, existed)
}

func (d *Downloader) download(ctx context.Context, req *DownloadRequest, progress ProgressFunc, logger *zap.SugaredLogger) (string, bool, error) {
	dir, err := req.Destination()
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve destination: %w", err)
	}
	if err := os.MkdirAll(dir, defaultDirPermissions); err != nil {
		return "", false, fmt.Errorf("failed to create destination: %w", err)
	}

	logger.Debugw("starting recon", "dir", dir)
	info, err := d.extractor.Recon(ctx, req, dir)
	if err != nil {
		return "", false, err
	}

	target, err := d.targetPath(dir, info)
	if err != nil {
		return "", false, fmt.Errorf("failed to compute target path: %w", err)
	}

	if _, err := os.Stat(target); err == nil {
		logger.Infow("target already exists, not downloading again", "path", target)
		return target, true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("failed to check target: %w", err)
	}

	logger.Debugw("starting fetch", "path", target)
	if err := d.extractor.Fetch(ctx, req, info, target, progress); err != nil {
		return "", false, err
	}
	return target, false, nil
}

func (d *Downloader) targetPath(dir string, info *SourceInfo) (string, error) {
	if info.Filename != "" {
		return info.Filename, nil
	}
	return d.config.TargetPath(dir, info)
}
