package model

import (
	"strings"
	"time"
)

// DownloadTask represents a single queued download
type DownloadTask struct {
	ID         string
	Request    Request
	Status     TaskStatus
	Progress   float64   // 0.0 to 1.0
	Percent    int       // 0 to 100
	LastError  string    // last error message if any
	Note       string    // set when yt-dlp skipped some playlist items
	OutputDir  string    // destination folder
	OutputPath string    // folder holding the downloaded item
	StartedAt  time.Time // when download started
	FinishedAt time.Time // when download finished
	Title      string    // media title
	ItemIndex  int       // position inside a playlist, 0 for single media
	ItemCount  int       // playlist size, 0 if unknown
}

// URL returns the requested URL
func (dt *DownloadTask) URL() string {
	return dt.Request.URL
}

// GetDisplayTitle returns title, item folder name, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		// support both / and \ separators regardless of host OS
		if name := dt.OutputPath[strings.LastIndexAny(dt.OutputPath, `/\`)+1:]; name != "" {
			return name
		}
	}

	return dt.Request.URL
}

// Elapsed returns how long the task ran, or has been running
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() {
		return 0
	}
	if dt.FinishedAt.IsZero() {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}
