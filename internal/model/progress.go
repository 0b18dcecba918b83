package model

import "time"

// ProgressPhase tells which stage of a download a progress snapshot belongs to
type ProgressPhase string

const (
	PhaseDownloading ProgressPhase = "downloading"
	PhaseFinished    ProgressPhase = "finished"
	PhaseError       ProgressPhase = "error"
)

// Progress is a snapshot translated from a yt-dlp progress callback
type Progress struct {
	Phase           ProgressPhase
	Percent         int // 0 to 100
	DownloadedBytes int64
	TotalBytes      int64   // 0 if unknown
	Speed           float64 // bytes per second
	ETA             time.Duration
	Title           string
	Filename        string
	PlaylistIndex   int // 1-based, 0 if unknown
	PlaylistCount   int // 0 if unknown
}

// HasTotal reports whether the total size is known
func (p Progress) HasTotal() bool {
	return p.TotalBytes > 0
}

// InPlaylist reports whether both playlist position and size are known
func (p Progress) InPlaylist() bool {
	return p.PlaylistIndex > 0 && p.PlaylistCount > 0
}
