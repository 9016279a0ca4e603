package video_downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrTargetExists = errors.New("target file already exists")

// SaveStream copies stream into targetPath through a temporary ".part" file in the same directory, counting bytes
// with progress. An existing targetPath is never overwritten.
func SaveStream(ctx context.Context, targetPath string, stream io.Reader, progress *ProgressWriter) (err error) {
	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, defaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create target dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(targetPath)+".*.part")
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	tempPath := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tempPath)
		}
	}()

	progress.Start()
	_, err = io.Copy(io.MultiWriter(f, progress), ReaderWithContext(ctx, stream))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to save stream: %w", err)
	}

	if _, err = os.Stat(targetPath); err == nil {
		return fmt.Errorf("%w: %s", ErrTargetExists, targetPath)
	}
	if err = os.Rename(tempPath, targetPath); err != nil {
		return fmt.Errorf("failed to move temp file into place: %w", err)
	}
	progress.Finish()
	return nil
}
