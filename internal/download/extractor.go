package download

import (
	"context"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/model"
)

// How often go-ytdlp delivers progress callbacks
const progressInterval = 500 * time.Millisecond

// ProgressHook receives raw yt-dlp progress updates
type ProgressHook = func(ytdlp.ProgressUpdate)

// Extractor runs yt-dlp with the given options
type Extractor interface {
	Extract(ctx context.Context, url string, opts Options, hook ProgressHook) (*ytdlp.Result, error)
}

// PlaylistLister lists playlist entries without yt-dlp
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, url string) ([]model.MediaEntry, error)
}

// Recorder stores finished download attempts
type Recorder interface {
	Record(ctx context.Context, rec model.DownloadRecord) error
}

// YtdlpExtractor is the Extractor backed by the yt-dlp executable
type YtdlpExtractor struct{}

func NewExtractor() *YtdlpExtractor {
	return &YtdlpExtractor{}
}

func (e *YtdlpExtractor) Extract(ctx context.Context, url string, opts Options, hook ProgressHook) (*ytdlp.Result, error) {
	dl := opts.Apply(ytdlp.New())

	if hook != nil {
		// quiet would otherwise hide the progress lines the callback is parsed from
		dl.Progress().ProgressFunc(progressInterval, hook)
	}

	return dl.Run(ctx, url)
}
