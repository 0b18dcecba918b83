package model

import (
	"fmt"
	"strings"
)

// MediaKind selects between keeping the video stream and extracting audio only
type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
)

// String returns the string representation of MediaKind
func (k MediaKind) String() string {
	return string(k)
}

// Valid reports whether the kind is one of the known kinds
func (k MediaKind) Valid() bool {
	return k == KindVideo || k == KindAudio
}

// ParseMediaKind converts user input into a MediaKind
func ParseMediaKind(s string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindVideo:
		return KindVideo, nil
	case KindAudio:
		return KindAudio, nil
	}
	return "", fmt.Errorf("unknown media kind: %q", s)
}

// QualityOption is a selectable preset. For video the Value is a yt-dlp format
// selector, for audio it is the codec passed to the audio extractor.
type QualityOption struct {
	ID    string
	Icon  string
	Label string
	Value string
}

// DisplayName returns icon and label joined for menus
func (q QualityOption) DisplayName() string {
	if q.Icon == "" {
		return q.Label
	}
	return q.Icon + " " + q.Label
}

const (
	BestVideoFormat = "bestvideo+bestaudio/best"
	BestAudioFormat = "bestaudio/best"
)

// Default presets
const (
	DefaultVideoQuality = "best"
	DefaultAudioFormat  = "mp3"
)

func heightLimited(height int) string {
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height)
}

// VideoQualities lists video presets from best to smallest
var VideoQualities = []QualityOption{
	{ID: "best", Icon: "🌟", Label: "Best Available", Value: BestVideoFormat},
	{ID: "2160p", Icon: "📺", Label: "4K (2160p)", Value: heightLimited(2160)},
	{ID: "1440p", Icon: "🖥️", Label: "2K (1440p)", Value: heightLimited(1440)},
	{ID: "1080p", Icon: "📀", Label: "Full HD (1080p)", Value: heightLimited(1080)},
	{ID: "720p", Icon: "💿", Label: "HD (720p)", Value: heightLimited(720)},
	{ID: "480p", Icon: "📼", Label: "SD (480p)", Value: heightLimited(480)},
	{ID: "360p", Icon: "📱", Label: "Low (360p)", Value: heightLimited(360)},
}

// AudioFormats lists audio extraction targets
var AudioFormats = []QualityOption{
	{ID: "mp3", Icon: "🎧", Label: "MP3 (Best)", Value: "mp3"},
	{ID: "m4a", Icon: "🎼", Label: "M4A (AAC)", Value: "m4a"},
	{ID: "flac", Icon: "🎹", Label: "FLAC (Lossless)", Value: "flac"},
	{ID: "wav", Icon: "🔉", Label: "WAV", Value: "wav"},
}

// QualityOptions returns the presets available for the given kind
func QualityOptions(kind MediaKind) []QualityOption {
	if kind == KindAudio {
		return AudioFormats
	}
	return VideoQualities
}

// DefaultQuality returns the preset ID preselected for the given kind
func DefaultQuality(kind MediaKind) string {
	if kind == KindAudio {
		return DefaultAudioFormat
	}
	return DefaultVideoQuality
}

// FindQuality looks up a preset by ID for the given kind
func FindQuality(kind MediaKind, id string) (QualityOption, bool) {
	for _, q := range QualityOptions(kind) {
		if q.ID == id {
			return q, true
		}
	}
	return QualityOption{}, false
}
