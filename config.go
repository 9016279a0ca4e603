package video_downloader

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

const (
	BackendYtDlp  = "ytdlp"
	BackendNative = "native"
)

// Config holds the settings shared by the CLI, the Downloader and the extractors.
type Config struct {
	// Backend selects the Extractor: BackendYtDlp or BackendNative.
	Backend string `diff:"backend"`
	// YtDlpPath overrides the yt-dlp executable; empty means look it up on PATH.
	YtDlpPath string `diff:"yt_dlp_path"`
	// FFmpegPath is the media-processing binary to probe and to hand to yt-dlp.
	FFmpegPath string `diff:"ffmpeg_path"`
	// Format is the quality selector passed to the extractor.
	Format string `diff:"format"`
	// MergeOutputFormat is the container used when audio and video are fetched separately.
	MergeOutputFormat string `diff:"merge_output_format"`
	// OutputTemplate is the yt-dlp output template, relative to the destination directory.
	OutputTemplate string `diff:"output_template"`
	// TargetFileTemplate is the text/template used by extractors that don't compute their own filename.
	TargetFileTemplate string `diff:"target_file_template"`
	Verbose            bool   `diff:"verbose"`
}

var DefaultConfig = Config{
	Backend:            BackendYtDlp,
	YtDlpPath:          "",
	FFmpegPath:         "ffmpeg",
	Format:             "best",
	MergeOutputFormat:  "mp4",
	OutputTemplate:     "%(title)s.%(ext)s",
	TargetFileTemplate: "{{.Title}}.{{.Ext}}",
}

// Validate checks the fields that have a fixed set of values.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendYtDlp, BackendNative:
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", c.Backend, BackendYtDlp, BackendNative)
	}
	if _, err := c.targetFileTemplate(); err != nil {
		return fmt.Errorf("invalid target file template: %w", err)
	}
	return nil
}

// TargetPath renders TargetFileTemplate for info inside dir.
func (c *Config) TargetPath(dir string, info *SourceInfo) (string, error) {
	tmpl, err := c.targetFileTemplate()
	if err != nil {
		return "", err
	}
	builder := strings.Builder{}
	if err := tmpl.Execute(&builder, info); err != nil {
		return "", err
	}
	return filepath.Join(dir, SanitizeFilename(builder.String())), nil
}

func (c *Config) targetFileTemplate() (*template.Template, error) {
	return template.New("target_file").Option("missingkey=error").Parse(c.TargetFileTemplate)
}

// Path separators and the characters Windows reserves in filenames.
var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\x00", "",
)

// SanitizeFilename makes a single path element out of name.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(filenameReplacer.Replace(name))
	// Don't allow "filenames" that are just ".", "..", etc.
	if strings.ReplaceAll(name, ".", "") == "" {
		return "video"
	}
	return name
}
