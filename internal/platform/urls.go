package platform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrEmptyURL   = errors.New("url is empty")
	ErrInvalidURL = errors.New("invalid url")
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// YouTubeVideoURLTemplate builds a watch URL from a video ID
const YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"

var youtubeHosts = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}

// ValidateURL trims the input and checks it is an absolute http(s) URL
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Join(ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return raw, nil
}

// IsYouTubeURL reports whether the URL points at a YouTube host
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range youtubeHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// IsPlaylistURL checks if the URL carries a playlist ID
func IsPlaylistURL(raw string) bool {
	return ExtractPlaylistID(raw) != ""
}

// ExtractPlaylistID extracts the playlist ID from various URL formats
func ExtractPlaylistID(raw string) string {
	if u, err := url.Parse(strings.TrimSpace(raw)); err == nil {
		if id := u.Query().Get("list"); id != "" {
			return id
		}
	}

	if strings.Contains(raw, PlaylistParam) {
		parts := strings.Split(raw, PlaylistParam)
		if len(parts) > 1 {
			playlistPart := parts[1]
			if strings.Contains(playlistPart, ParamSeparator) {
				playlistPart = strings.Split(playlistPart, ParamSeparator)[0]
			}
			return playlistPart
		}
	}
	return ""
}
