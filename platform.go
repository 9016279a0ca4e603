package video_downloader

// Platform identifies the site a video URL belongs to.
type Platform int

const (
	Unrecognized Platform = iota
	Facebook
	Instagram
	YouTube
)

var platformNames = map[Platform]string{
	Unrecognized: "unrecognized",
	Facebook:     "facebook",
	Instagram:    "instagram",
	YouTube:      "youtube",
}

var platformDisplayNames = map[Platform]string{
	Unrecognized: "Unrecognized",
	Facebook:     "Facebook",
	Instagram:    "Instagram",
	YouTube:      "YouTube",
}

// String returns the lowercase key of the platform, e.g. "youtube".
func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return platformNames[Unrecognized]
}

// DisplayName returns the label shown to the user, e.g. "YouTube".
func (p Platform) DisplayName() string {
	if name, ok := platformDisplayNames[p]; ok {
		return name
	}
	return platformDisplayNames[Unrecognized]
}

// IsRecognized is false only for Unrecognized (and out-of-range values).
func (p Platform) IsRecognized() bool {
	_, ok := platformNames[p]
	return ok && p != Unrecognized
}
