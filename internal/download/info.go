package download

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ytget/yt-grabber/internal/model"
)

type rawEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// rawInfo is the subset of yt-dlp's --dump-single-json document we use
type rawInfo struct {
	Type          string      `json:"_type"`
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Uploader      string      `json:"uploader"`
	Channel       string      `json:"channel"`
	Duration      float64     `json:"duration"`
	ViewCount     int64       `json:"view_count"`
	WebpageURL    string      `json:"webpage_url"`
	PlaylistCount int         `json:"playlist_count"`
	Entries       []*rawEntry `json:"entries"`
}

// decodeInfo parses the single JSON document printed by yt-dlp
func decodeInfo(stdout string) (*model.MediaInfo, error) {
	stdout = strings.TrimSpace(stdout)
	if stdout == "" {
		return nil, ErrNoInfo
	}

	// yt-dlp prints one document; take the last line in case anything precedes it
	if idx := strings.LastIndex(stdout, "\n{"); idx >= 0 {
		stdout = stdout[idx+1:]
	}

	var raw rawInfo
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoInfo, err)
	}
	if raw.ID == "" && raw.Title == "" {
		return nil, ErrNoInfo
	}

	info := &model.MediaInfo{
		ID:            raw.ID,
		Title:         raw.Title,
		Uploader:      raw.Uploader,
		Channel:       raw.Channel,
		Duration:      raw.Duration,
		ViewCount:     raw.ViewCount,
		WebpageURL:    raw.WebpageURL,
		IsPlaylist:    raw.Type == "playlist" || raw.Type == "multi_video",
		PlaylistCount: raw.PlaylistCount,
	}

	for _, e := range raw.Entries {
		if e == nil {
			continue
		}
		info.Entries = append(info.Entries, model.MediaEntry{
			ID:       e.ID,
			Title:    e.Title,
			URL:      e.URL,
			Duration: e.Duration,
		})
	}

	return info, nil
}
