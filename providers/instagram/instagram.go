package instagram

import (
	"regexp"

	"github.com/alanbriolat/video-downloader"
)

const Priority int16 = 20

// Reels and posts; the trailing slash is optional.
var Patterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/reel/[a-zA-Z0-9_-]+/?`),
	regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/p/[a-zA-Z0-9_-]+/?`),
}

func New() video_downloader.Provider {
	return video_downloader.Provider{
		Name:     "instagram",
		Platform: video_downloader.Instagram,
		Patterns: Patterns,
		Priority: Priority,
	}
}

func init() {
	video_downloader.DefaultProviderRegistry.MustAdd(New())
}
