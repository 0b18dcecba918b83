package progress

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-grabber/internal/model"
)

// Title widths used by the front-ends
const (
	GUITitleWidth      = 40
	TerminalTitleWidth = 30
)

const (
	kib = 1024
	mib = 1024 * 1024
)

// Status texts
const (
	DownloadingText = "Downloading..."
	ProcessingText  = "Processing..."
)

// FormatSpeed renders bytes per second
func FormatSpeed(bps float64) string {
	switch {
	case bps > mib:
		return fmt.Sprintf("%.1f MB/s", bps/mib)
	case bps > kib:
		return fmt.Sprintf("%.1f KB/s", bps/kib)
	default:
		return fmt.Sprintf("%.0f B/s", bps)
	}
}

// Truncate shortens s to n runes followed by "..."
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// StatusLine is the one-line status shown under the GUI progress bar
func StatusLine(p model.Progress, width int) string {
	if p.Phase == model.PhaseFinished {
		return ProcessingText
	}
	title := p.Title
	if title == "" {
		title = DownloadingText
	}
	return Truncate(title, width) + " | " + FormatSpeed(p.Speed)
}

// Description labels the terminal progress line, with the playlist position when known
func Description(p model.Progress, width int) string {
	if p.Phase == model.PhaseFinished {
		return ProcessingText
	}
	title := Truncate(p.Title, width)
	if p.InPlaylist() {
		return fmt.Sprintf("[%d/%d] %s", p.PlaylistIndex, p.PlaylistCount, title)
	}
	if title == "" {
		return DownloadingText
	}
	return title
}

// Sizes renders "downloaded / total", or only downloaded when the total is unknown
func Sizes(p model.Progress) string {
	downloaded := humanize.IBytes(uint64(max(p.DownloadedBytes, 0)))
	if !p.HasTotal() {
		return downloaded
	}
	return downloaded + " / " + humanize.IBytes(uint64(p.TotalBytes))
}

// FormatETA renders the remaining time as m:ss or h:mm:ss, "-:--" when unknown
func FormatETA(p model.Progress) string {
	secs := int(p.ETA.Seconds())
	if secs <= 0 {
		return "-:--"
	}
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
