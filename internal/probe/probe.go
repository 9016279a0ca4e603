// Package probe checks whether external binaries the downloader relies on are usable.
package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const VersionFlag = "-version"

// MediaProcessor reports whether `binary -version` runs and exits with status zero. Output is discarded; a binary
// that cannot be launched counts as unavailable.
func MediaProcessor(ctx context.Context, binary string) bool {
	if binary == "" {
		return false
	}
	cmd := exec.CommandContext(ctx, binary, VersionFlag)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

// MediaProcessorVersion returns the first line of the binary's version banner, e.g.
// "ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers".
func MediaProcessorVersion(ctx context.Context, binary string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, VersionFlag)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run %s %s: %w", binary, VersionFlag, err)
	}
	scanner := bufio.NewScanner(&out)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", nil
}
