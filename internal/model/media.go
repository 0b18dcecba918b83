package model

// MediaEntry is a flat playlist entry as reported without per-item extraction
type MediaEntry struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	URL      string  `json:"url,omitempty" yaml:"url,omitempty"`
	Duration float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// MediaInfo is the metadata shown to the user before downloading
type MediaInfo struct {
	ID            string       `json:"id" yaml:"id"`
	Title         string       `json:"title" yaml:"title"`
	Uploader      string       `json:"uploader,omitempty" yaml:"uploader,omitempty"`
	Channel       string       `json:"channel,omitempty" yaml:"channel,omitempty"`
	Duration      float64      `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds
	ViewCount     int64        `json:"view_count,omitempty" yaml:"view_count,omitempty"`
	WebpageURL    string       `json:"webpage_url,omitempty" yaml:"webpage_url,omitempty"`
	IsPlaylist    bool         `json:"is_playlist" yaml:"is_playlist"`
	PlaylistCount int          `json:"playlist_count,omitempty" yaml:"playlist_count,omitempty"`
	Entries       []MediaEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// Placeholder for metadata the extractor did not report
const NotAvailable = "N/A"

// DisplayTitle returns the title or N/A
func (m *MediaInfo) DisplayTitle() string {
	if m.Title == "" {
		return NotAvailable
	}
	return m.Title
}

// DisplayUploader prefers the uploader, then the channel name
func (m *MediaInfo) DisplayUploader() string {
	switch {
	case m.Uploader != "":
		return m.Uploader
	case m.Channel != "":
		return m.Channel
	default:
		return NotAvailable
	}
}

// EntryCount returns the number of playlist items, or -1 when unknown
func (m *MediaInfo) EntryCount() int {
	if m.PlaylistCount > 0 {
		return m.PlaylistCount
	}
	if len(m.Entries) > 0 {
		return len(m.Entries)
	}
	return -1
}

// Request holds what a front-end collected from the user
type Request struct {
	URL       string
	Kind      MediaKind
	QualityID string
	OutputDir string
}
