package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-grabber/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

type fetchFunc func(ctx context.Context, playlistID string) ([]model.MediaEntry, error)

// PlaylistLister lists YouTube playlist items without going through the yt-dlp binary
type PlaylistLister struct {
	timeout time.Duration
	fetch   fetchFunc
}

// NewPlaylistLister creates a lister backed by github.com/ytget/ytdlp
func NewPlaylistLister() *PlaylistLister {
	return &PlaylistLister{
		timeout: DefaultParseTimeout,
		fetch:   fetchPlaylistItems,
	}
}

// SetTimeout sets the timeout for listing operations
func (p *PlaylistLister) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// ListPlaylist returns the flat entries of the playlist referenced by url
func (p *PlaylistLister) ListPlaylist(ctx context.Context, url string) ([]model.MediaEntry, error) {
	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}
	if !IsYouTubeURL(url) {
		return nil, fmt.Errorf("not a YouTube playlist: %s", url)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	entries, err := p.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}
	return entries, nil
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]model.MediaEntry, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	entries := make([]model.MediaEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, model.MediaEntry{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	return entries, nil
}
