package youtube

import (
	"regexp"

	"github.com/alanbriolat/video-downloader"
)

const Priority int16 = 30

var Patterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?(youtube\.com|youtu\.be)/.+`),
}

func New() video_downloader.Provider {
	return video_downloader.Provider{
		Name:     "youtube",
		Platform: video_downloader.YouTube,
		Patterns: Patterns,
		Priority: Priority,
	}
}

func init() {
	video_downloader.DefaultProviderRegistry.MustAdd(New())
}
