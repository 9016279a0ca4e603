package facebook

import (
	"regexp"

	"github.com/alanbriolat/video-downloader"
)

const Priority int16 = 10

var Patterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?facebook\.com/.*?/videos/\d+`),
	regexp.MustCompile(`^https?://(?:www\.)?facebook\.com/video\.php\?v=\d+`),
	regexp.MustCompile(`^https?://(?:www\.)?facebook\.com/.*?/posts/\d+`),
	regexp.MustCompile(`^https?://(?:www\.)?fb\.watch/[a-zA-Z0-9_-]+`),
}

func New() video_downloader.Provider {
	return video_downloader.Provider{
		Name:     "facebook",
		Platform: video_downloader.Facebook,
		Patterns: Patterns,
		Priority: Priority,
	}
}

func init() {
	video_downloader.DefaultProviderRegistry.MustAdd(New())
}
