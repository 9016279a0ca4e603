// Package providers registers every supported platform with video_downloader.DefaultProviderRegistry.
package providers

import (
	_ "github.com/alanbriolat/video-downloader/providers/facebook"
	_ "github.com/alanbriolat/video-downloader/providers/instagram"
	_ "github.com/alanbriolat/video-downloader/providers/youtube"
)
