package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

const (
	// CompletedMessage is returned with a successful download
	CompletedMessage = "Download completed."
	// PartialMessage is returned when yt-dlp skipped some playlist items and kept going
	PartialMessage = "Download completed, some items were skipped."
)

// Result describes a finished download
type Result struct {
	Message string
	Title   string
	// Folders holds one folder per downloaded item. Per-format files are
	// merged or converted away, the item folder is what remains.
	Folders []string
	Partial bool
}

// Handler fetches metadata and runs downloads through an Extractor
type Handler struct {
	extractor   Extractor
	lister      PlaylistLister
	recorder    Recorder
	profile     Profile
	infoTimeout time.Duration
	log         logger.Logger
}

type HandlerOption func(*Handler)

// WithPlaylistLister sets the fallback used when yt-dlp reports no playlist size
func WithPlaylistLister(l PlaylistLister) HandlerOption {
	return func(h *Handler) { h.lister = l }
}

// WithRecorder records every finished download attempt
func WithRecorder(r Recorder) HandlerOption {
	return func(h *Handler) { h.recorder = r }
}

func WithProfile(p Profile) HandlerOption {
	return func(h *Handler) { h.profile = p }
}

// WithInfoTimeout bounds GetInfo; zero disables the limit
func WithInfoTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) { h.infoTimeout = d }
}

func NewHandler(extractor Extractor, log logger.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		extractor:   extractor,
		profile:     DefaultProfile(),
		infoTimeout: platform.DefaultParseTimeout,
		log:         log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Profile returns the option profile in use
func (h *Handler) Profile() Profile {
	return h.profile
}

// BaseOptions returns the handler's base options for outputDir
func (h *Handler) BaseOptions(outputDir string) Options {
	return h.profile.Base(outputDir)
}

// BuildOptions maps a request onto yt-dlp options
func (h *Handler) BuildOptions(info *model.MediaInfo, req model.Request) (Options, error) {
	return h.profile.Build(info, req)
}

// GetInfo fetches metadata without downloading. Playlists are listed flat.
func (h *Handler) GetInfo(ctx context.Context, rawURL string) (*model.MediaInfo, error) {
	url, err := platform.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if h.infoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.infoTimeout)
		defer cancel()
	}

	log := h.log.WithField("url", url)
	log.Debug("Fetching media info")

	res, err := h.extractor.Extract(ctx, url, InfoOptions(h.profile.Proxy), nil)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("failed to fetch info: %w", withStderr(err, res))
	}
	if res == nil {
		return nil, ErrNoInfo
	}

	info, err := decodeInfo(res.Stdout)
	if err != nil {
		return nil, err
	}

	if info.IsPlaylist && info.EntryCount() < 0 && h.lister != nil && platform.IsYouTubeURL(url) && platform.IsPlaylistURL(url) {
		entries, err := h.lister.ListPlaylist(ctx, url)
		if err != nil {
			log.WithError(err).Warn("Playlist listing fallback failed")
		} else {
			info.Entries = entries
			info.PlaylistCount = len(entries)
		}
	}

	log.WithFields(logger.Fields{
		"title":    info.Title,
		"playlist": info.IsPlaylist,
		"entries":  info.EntryCount(),
	}).Info("Media info fetched")
	return info, nil
}

// Download merges opts over the base options and runs yt-dlp. hook may be nil.
// Cancelling ctx stops yt-dlp and returns ErrCancelled.
func (h *Handler) Download(ctx context.Context, rawURL string, opts Options, hook ProgressHook) (*Result, error) {
	url, err := platform.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	final := Merge(h.profile.Base(""), opts)
	log := h.log.WithFields(logger.Fields{
		"url":    url,
		"format": final.Format,
		"output": final.OutputTemplate,
	})
	log.Info("Starting download")

	tracker := &fileTracker{}
	res, err := h.extractor.Extract(ctx, url, final, func(update ytdlp.ProgressUpdate) {
		tracker.observe(update)
		if hook != nil {
			hook(update)
		}
	})

	result := &Result{Title: tracker.title(), Folders: tracker.list()}
	switch {
	case ctx.Err() != nil:
		err = ErrCancelled
		log.Info("Download cancelled")
	case isPartial(final, err, result):
		result.Message = PartialMessage
		result.Partial = true
		log.WithError(err).WithField("folders", len(result.Folders)).Warn("Download completed with skipped items")
		err = nil
	case err != nil:
		err = fmt.Errorf("download failed: %w", withStderr(err, res))
		log.WithError(err).Error("Download failed")
	default:
		result.Message = CompletedMessage
		log.WithField("folders", len(result.Folders)).Info("Download completed")
	}

	h.record(ctx, url, final, result, err)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Handler) record(ctx context.Context, url string, opts Options, result *Result, downloadErr error) {
	if h.recorder == nil {
		return
	}

	rec := model.DownloadRecord{
		URL:       url,
		Title:     result.Title,
		Kind:      model.KindVideo,
		Quality:   opts.Format,
		OutputDir: outputDirOf(opts.OutputTemplate),
		Status:    model.RecordCompleted,
		Message:   result.Message,
		CreatedAt: time.Now(),
	}
	if opts.IsAudio() {
		rec.Kind = model.KindAudio
		rec.Quality = opts.AudioFormat
	}
	switch {
	case result.Partial:
		rec.Status = model.RecordPartial
	case errors.Is(downloadErr, ErrCancelled):
		rec.Status = model.RecordCancelled
		rec.Message = downloadErr.Error()
	case downloadErr != nil:
		rec.Status = model.RecordFailed
		rec.Message = downloadErr.Error()
	}

	// the download context may already be cancelled
	if err := h.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		h.log.WithError(err).Warn("Failed to record download history")
	}
}

// isPartial reports a yt-dlp run that exited non-zero only because some
// items failed under --ignore-errors while others finished
func isPartial(opts Options, err error, result *Result) bool {
	if err == nil || !enabled(opts.IgnoreErrors) || len(result.Folders) == 0 {
		return false
	}
	_, ok := ytdlp.IsExitCodeError(err)
	return ok
}

// outputDirOf strips the per item folder and file name from an output template
func outputDirOf(template string) string {
	if template == "" {
		return ""
	}
	return filepath.Dir(filepath.Dir(template))
}

// withStderr adds the last line yt-dlp wrote to stderr to err
func withStderr(err error, res *ytdlp.Result) error {
	if res == nil {
		return err
	}
	stderr := strings.TrimSpace(res.Stderr)
	if stderr == "" {
		return err
	}
	lines := strings.Split(stderr, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" || strings.Contains(err.Error(), last) {
		return err
	}
	return fmt.Errorf("%w: %s", err, last)
}

// fileTracker remembers the item folders and title reported by progress updates
type fileTracker struct {
	mu      sync.Mutex
	folders []string
	name    string
}

func (t *fileTracker) observe(update ytdlp.ProgressUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.name == "" && update.Info != nil && update.Info.Title != nil {
		t.name = *update.Info.Title
	}
	if update.Status != ytdlp.ProgressStatusFinished || update.Filename == "" {
		return
	}
	folder := filepath.Dir(update.Filename)
	if !slices.Contains(t.folders, folder) {
		t.folders = append(t.folders, folder)
	}
}

func (t *fileTracker) title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

func (t *fileTracker) list() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.folders...)
}
