package video_downloader

import (
	"strings"
)

// FailureCategory is a best-effort hint about why a download failed, derived from the failure message. Extractors
// don't expose a stable error taxonomy, so this is only as accurate as their wording.
type FailureCategory string

const (
	FailureProcessorMissing FailureCategory = "processor-missing"
	FailureAccessDenied     FailureCategory = "access-denied"
	FailureUnsupported      FailureCategory = "unsupported"
	FailureUnknown          FailureCategory = "unknown"
)

// Keyword rules, checked in order.
var failureRules = []struct {
	category FailureCategory
	keywords []string
}{
	{FailureProcessorMissing, []string{"ffmpeg"}},
	{FailureAccessDenied, []string{"private", "403"}},
	{FailureUnsupported, []string{"unsupported url"}},
}

// ClassifyFailure inspects a failure message for keyword signals.
func ClassifyFailure(message string) FailureCategory {
	message = strings.ToLower(message)
	for _, rule := range failureRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(message, keyword) {
				return rule.category
			}
		}
	}
	return FailureUnknown
}

// Guidance returns the lines of advice shown to the user for a category. FailureUnknown has none.
func (c FailureCategory) Guidance() []string {
	switch c {
	case FailureProcessorMissing:
		return []string{
			"FFmpeg is required for proper downloading (esp. for audio/video merge).",
			"Install it from https://ffmpeg.org or use the following commands:",
			"- Mac: brew install ffmpeg",
			"- Windows: Download & add to PATH from ffmpeg.org",
			"- Linux: sudo apt install ffmpeg",
		}
	case FailureAccessDenied:
		return []string{"The video may be private or region-locked."}
	case FailureUnsupported:
		return []string{"Unsupported URL. Make sure it's a valid video link."}
	default:
		return nil
	}
}

// DownloadError is a failed download attempt.
type DownloadError struct {
	Category FailureCategory
	Message  string
	cause    error
}

// NewDownloadError classifies err by its message.
func NewDownloadError(err error) *DownloadError {
	message := err.Error()
	return &DownloadError{
		Category: ClassifyFailure(message),
		Message:  message,
		cause:    err,
	}
}

func (e *DownloadError) Error() string {
	return e.Message
}

func (e *DownloadError) Unwrap() error {
	return e.cause
}

// Outcome is the result of one download attempt.
type Outcome struct {
	// Path of the downloaded (or already present) file.
	Path string
	// AlreadyExisted is set when the target file was present and nothing was fetched.
	AlreadyExisted bool
	Err            *DownloadError
}

func (o Outcome) IsSuccess() bool {
	return o.Err == nil
}

func successOutcome(path string, alreadyExisted bool) Outcome {
	return Outcome{Path: path, AlreadyExisted: alreadyExisted}
}

func failureOutcome(err error) Outcome {
	return Outcome{Err: NewDownloadError(err)}
}
