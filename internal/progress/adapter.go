package progress

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/model"
)

// Adapter turns yt-dlp progress updates into model.Progress snapshots.
// The playlist position comes from the playlist_index and playlist_count
// fields yt-dlp attaches to each item. When they are missing it is counted
// from changes of the item being downloaded.
type Adapter struct {
	mu            sync.Mutex
	playlistCount int
	index         int
	lastItem      string
	now           func() time.Time
}

// NewAdapter creates an adapter; playlistCount is 0 for single media or when unknown
func NewAdapter(playlistCount int) *Adapter {
	if playlistCount < 0 {
		playlistCount = 0
	}
	return &Adapter{
		playlistCount: playlistCount,
		now:           time.Now,
	}
}

// Handle converts one update. It is safe to call from the yt-dlp callback goroutine.
func (a *Adapter) Handle(update ytdlp.ProgressUpdate) model.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := model.Progress{
		Title:    titleOf(update),
		Filename: update.Filename,
	}
	p.PlaylistIndex, p.PlaylistCount = a.position(update)

	switch update.Status {
	case ytdlp.ProgressStatusFinished, ytdlp.ProgressStatusPostProcessing:
		p.Phase = model.PhaseFinished
		p.Percent = 100
		p.DownloadedBytes = int64(update.DownloadedBytes)
		p.TotalBytes = int64(update.TotalBytes)
		return p
	case ytdlp.ProgressStatusError:
		p.Phase = model.PhaseError
		return p
	}

	p.Phase = model.PhaseDownloading
	p.DownloadedBytes = int64(update.DownloadedBytes)
	p.TotalBytes = int64(update.TotalBytes)
	p.Percent = Percent(p.DownloadedBytes, p.TotalBytes)

	if !update.Started.IsZero() {
		elapsed := a.now().Sub(update.Started).Seconds()
		if elapsed > 0 {
			p.Speed = float64(update.DownloadedBytes) / elapsed
		}
	}
	if eta := update.ETA(); eta > 0 {
		p.ETA = eta
	}

	return p
}

// position prefers the index yt-dlp reports and keeps the counter in step with it
func (a *Adapter) position(update ytdlp.ProgressUpdate) (index, count int) {
	count = a.playlistCount
	if update.Info != nil {
		if update.Info.PlaylistCount != nil && *update.Info.PlaylistCount > 0 {
			count = *update.Info.PlaylistCount
		}
		if update.Info.PlaylistIndex != nil && *update.Info.PlaylistIndex > 0 {
			a.index = *update.Info.PlaylistIndex
			a.lastItem = itemKey(update)
			return a.index, count
		}
	}
	if a.playlistCount > 1 {
		return a.advance(itemKey(update)), count
	}
	return 0, count
}

func (a *Adapter) advance(key string) int {
	if key != "" && key != a.lastItem {
		a.lastItem = key
		if a.index < a.playlistCount {
			a.index++
		}
	}
	return a.index
}

// Percent returns downloaded/total as 0..100, or 0 when the total is unknown
func Percent(downloaded, total int64) int {
	if total <= 0 || downloaded <= 0 {
		return 0
	}
	percent := int(float64(downloaded) / float64(total) * 100)
	if percent > 100 {
		return 100
	}
	return percent
}

func titleOf(update ytdlp.ProgressUpdate) string {
	if update.Info != nil && update.Info.Title != nil && *update.Info.Title != "" {
		return *update.Info.Title
	}
	if update.Filename == "" {
		return ""
	}
	name := filepath.Base(update.Filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// itemKey identifies the playlist item an update belongs to.
// Video and audio streams of one item share an ID and an output folder.
func itemKey(update ytdlp.ProgressUpdate) string {
	if update.Info != nil && update.Info.ID != "" {
		return update.Info.ID
	}
	if update.Filename != "" {
		return filepath.Dir(update.Filename)
	}
	return ""
}
