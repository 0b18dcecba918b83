package download

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/model"
)

const (
	videoURL    = "https://www.youtube.com/watch?v=abc"
	playlistURL = "https://www.youtube.com/playlist?list=PL1"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []model.DownloadRecord
	err     error
}

func (r *fakeRecorder) Record(ctx context.Context, rec model.DownloadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

type fakeLister struct {
	entries []model.MediaEntry
	err     error
	calls   int
}

func (l *fakeLister) ListPlaylist(ctx context.Context, url string) ([]model.MediaEntry, error) {
	l.calls++
	return l.entries, l.err
}

func testProfile() Profile {
	return Profile{
		Directory:        "/dl",
		FilenameTemplate: "%(title)s [%(id)s]",
		MergeFormat:      "mp4",
		AudioQuality:     "192",
		WriteThumbnail:   true,
		WriteInfoJSON:    true,
	}
}

func TestHandler_GetInfo(t *testing.T) {
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, InfoOptions(""), mock.Anything).
		Return(&ytdlp.Result{Stdout: `{"_type":"video","id":"abc","title":"Clip","uploader":"Someone","duration":212,"view_count":1500}`}, nil)

	h := NewHandler(extractor, logger.NewTestLogger(), WithProfile(testProfile()))
	info, err := h.GetInfo(context.Background(), "  "+videoURL+" ")

	require.NoError(t, err)
	assert.Equal(t, "abc", info.ID)
	assert.Equal(t, "Clip", info.Title)
	assert.Equal(t, "Someone", info.DisplayUploader())
	assert.Equal(t, 212.0, info.Duration)
	assert.Equal(t, int64(1500), info.ViewCount)
	assert.False(t, info.IsPlaylist)
}

func TestHandler_GetInfo_InvalidURL(t *testing.T) {
	extractor := NewMockExtractor(t)
	h := NewHandler(extractor, logger.NewTestLogger())

	_, err := h.GetInfo(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyURL)

	_, err = h.GetInfo(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)

	extractor.AssertNotCalled(t, "Extract")
}

func TestHandler_GetInfo_ExtractorError(t *testing.T) {
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, mock.Anything, mock.Anything).
		Return(&ytdlp.Result{Stderr: "WARNING: x\nERROR: [youtube] abc: Video unavailable"}, errors.New("exit status 1"))

	h := NewHandler(extractor, logger.NewTestLogger())
	_, err := h.GetInfo(context.Background(), videoURL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch info")
	assert.Contains(t, err.Error(), "Video unavailable")
}

func TestHandler_GetInfo_EmptyOutput(t *testing.T) {
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, mock.Anything, mock.Anything).
		Return(&ytdlp.Result{Stdout: "  "}, nil)

	h := NewHandler(extractor, logger.NewTestLogger())
	_, err := h.GetInfo(context.Background(), videoURL)
	assert.ErrorIs(t, err, ErrNoInfo)
}

func TestHandler_GetInfo_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, mock.Anything, mock.Anything).
		Return(nil, context.Canceled)

	h := NewHandler(extractor, logger.NewTestLogger())
	_, err := h.GetInfo(ctx, videoURL)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestHandler_GetInfo_PlaylistFallback(t *testing.T) {
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, playlistURL, mock.Anything, mock.Anything).
		Return(&ytdlp.Result{Stdout: `{"_type":"playlist","id":"PL1","title":"Mix"}`}, nil)

	lister := &fakeLister{entries: []model.MediaEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	h := NewHandler(extractor, logger.NewTestLogger(), WithPlaylistLister(lister))

	info, err := h.GetInfo(context.Background(), playlistURL)
	require.NoError(t, err)
	assert.True(t, info.IsPlaylist)
	assert.Equal(t, 3, info.EntryCount())
	assert.Equal(t, 1, lister.calls)
}

func TestHandler_GetInfo_PlaylistFallbackFailure(t *testing.T) {
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, playlistURL, mock.Anything, mock.Anything).
		Return(&ytdlp.Result{Stdout: `{"_type":"playlist","id":"PL1","title":"Mix"}`}, nil)

	log := logger.NewTestLogger()
	h := NewHandler(extractor, log, WithPlaylistLister(&fakeLister{err: errors.New("quota")}))

	info, err := h.GetInfo(context.Background(), playlistURL)
	require.NoError(t, err)
	assert.Equal(t, -1, info.EntryCount())
	assert.True(t, log.HasEntry("warn", "Playlist listing fallback failed"))
}

func TestHandler_Download(t *testing.T) {
	title := "Clip"
	recorder := &fakeRecorder{}
	var seen []ytdlp.ProgressStatus

	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, url string, opts Options, hook func(ytdlp.ProgressUpdate)) {
			assert.Equal(t, "bestvideo[height<=720]+bestaudio/best[height<=720]", opts.Format)
			assert.Equal(t, "mp4", opts.MergeOutputFormat)
			assert.True(t, *opts.Quiet)
			assert.True(t, *opts.IgnoreErrors)
			assert.True(t, *opts.WriteThumbnail)
			assert.Equal(t, "/music/%(title)s [%(id)s]/%(title)s [%(id)s].%(ext)s", opts.OutputTemplate)

			info := &ytdlp.ExtractedInfo{ID: "abc", Title: &title}
			hook(ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusDownloading, Info: info, Filename: "/music/Clip [abc]/Clip [abc].f137.mp4"})
			hook(ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusFinished, Info: info, Filename: "/music/Clip [abc]/Clip [abc].f137.mp4"})
			hook(ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusFinished, Info: info, Filename: "/music/Clip [abc]/Clip [abc].f140.m4a"})
		}).
		Return(&ytdlp.Result{}, nil)

	h := NewHandler(extractor, logger.NewTestLogger(), WithProfile(testProfile()), WithRecorder(recorder))
	opts, err := h.BuildOptions(nil, model.Request{URL: videoURL, Kind: model.KindVideo, QualityID: "720p", OutputDir: "/music"})
	require.NoError(t, err)

	result, err := h.Download(context.Background(), videoURL, opts, func(u ytdlp.ProgressUpdate) {
		seen = append(seen, u.Status)
	})

	require.NoError(t, err)
	assert.Equal(t, CompletedMessage, result.Message)
	assert.Equal(t, "Clip", result.Title)
	// both format streams end up merged inside the one item folder
	assert.Equal(t, []string{"/music/Clip [abc]"}, result.Folders)
	assert.False(t, result.Partial)
	assert.Len(t, seen, 3)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	assert.Equal(t, model.RecordCompleted, rec.Status)
	assert.Equal(t, model.KindVideo, rec.Kind)
	assert.Equal(t, "/music", rec.OutputDir)
	assert.Equal(t, "Clip", rec.Title)
}

func TestHandler_Download_NilHook(t *testing.T) {
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, url string, opts Options, hook func(ytdlp.ProgressUpdate)) {
			// the handler always tracks files, even without a caller hook
			require.NotNil(t, hook)
			hook(ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusDownloading})
		}).
		Return(&ytdlp.Result{}, nil)

	h := NewHandler(extractor, logger.NewTestLogger(), WithProfile(testProfile()))
	result, err := h.Download(context.Background(), videoURL, Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Folders)
}

func TestHandler_Download_Audio(t *testing.T) {
	recorder := &fakeRecorder{}
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, url string, opts Options, hook func(ytdlp.ProgressUpdate)) {
			assert.True(t, opts.IsAudio())
			assert.Equal(t, "flac", opts.AudioFormat)
			assert.Equal(t, "192", opts.AudioQuality)
			assert.Equal(t, model.BestAudioFormat, opts.Format)
		}).
		Return(&ytdlp.Result{}, nil)

	h := NewHandler(extractor, logger.NewTestLogger(), WithProfile(testProfile()), WithRecorder(recorder))
	opts, err := h.BuildOptions(nil, model.Request{URL: videoURL, Kind: model.KindAudio, QualityID: "flac"})
	require.NoError(t, err)

	_, err = h.Download(context.Background(), videoURL, opts, nil)
	require.NoError(t, err)
	require.Len(t, recorder.records, 1)
	assert.Equal(t, model.KindAudio, recorder.records[0].Kind)
	assert.Equal(t, "flac", recorder.records[0].Quality)
	assert.Equal(t, "/dl", recorder.records[0].OutputDir)
}

func TestHandler_Download_Failure(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("disk full")}
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, mock.Anything, mock.Anything).
		Return(&ytdlp.Result{Stderr: "ERROR: Requested format is not available"}, errors.New("exit status 1"))

	log := logger.NewTestLogger()
	h := NewHandler(extractor, log, WithRecorder(recorder))
	result, err := h.Download(context.Background(), videoURL, Options{}, nil)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCancelled)
	assert.Contains(t, err.Error(), "Requested format is not available")

	require.Len(t, recorder.records, 1)
	assert.Equal(t, model.RecordFailed, recorder.records[0].Status)
	// a failing recorder is logged, not returned
	assert.True(t, log.HasEntry("warn", "Failed to record download history"))
}

func TestHandler_Download_Cancelled(t *testing.T) {
	recorder := &fakeRecorder{}
	ctx, cancel := context.WithCancel(context.Background())

	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, videoURL, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, url string, opts Options, hook func(ytdlp.ProgressUpdate)) {
			cancel()
		}).
		Return(nil, errors.New("signal: killed"))

	h := NewHandler(extractor, logger.NewTestLogger(), WithRecorder(recorder))
	_, err := h.Download(ctx, videoURL, Options{}, nil)

	assert.ErrorIs(t, err, ErrCancelled)
	require.Len(t, recorder.records, 1)
	assert.Equal(t, model.RecordCancelled, recorder.records[0].Status)
}

func TestWithStderr(t *testing.T) {
	base := errors.New("exit status 1")

	assert.Equal(t, base, withStderr(base, nil))
	assert.Equal(t, base, withStderr(base, &ytdlp.Result{}))

	err := withStderr(base, &ytdlp.Result{Stderr: "line one\nERROR: boom\n"})
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "exit status 1: ERROR: boom", err.Error())
}

func finishedItems(hook func(ytdlp.ProgressUpdate), dir string, names ...string) {
	for _, name := range names {
		hook(ytdlp.ProgressUpdate{
			Status:   ytdlp.ProgressStatusFinished,
			Filename: filepath.Join(dir, name, name+".mp4"),
		})
	}
}

func TestHandler_Download_SkippedPlaylistItems(t *testing.T) {
	recorder := &fakeRecorder{}
	extractor := NewMockExtractor(t)
	extractor.EXPECT().
		Extract(mock.Anything, playlistURL, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, url string, opts Options, hook func(ytdlp.ProgressUpdate)) {
			finishedItems(hook, "/dl/Mix", "One [a]", "Three [c]")
		}).
		Return(&ytdlp.Result{ExitCode: 1}, &ytdlp.ErrExitCode{})

	log := logger.NewTestLogger()
	h := NewHandler(extractor, log, WithProfile(testProfile()), WithRecorder(recorder))
	opts, err := h.BuildOptions(&model.MediaInfo{IsPlaylist: true, Title: "Mix"}, model.Request{URL: playlistURL})
	require.NoError(t, err)

	result, err := h.Download(context.Background(), playlistURL, opts, nil)

	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Equal(t, PartialMessage, result.Message)
	assert.Equal(t, []string{"/dl/Mix/One [a]", "/dl/Mix/Three [c]"}, result.Folders)
	assert.True(t, log.HasEntry("warn", "Download completed with skipped items"))

	require.Len(t, recorder.records, 1)
	assert.Equal(t, model.RecordPartial, recorder.records[0].Status)
	assert.Equal(t, PartialMessage, recorder.records[0].Message)
}

func TestHandler_Download_ExitCodeIsFailure(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		items []string
	}{
		{"nothing downloaded", Options{}, nil},
		{"errors not ignored", Options{IgnoreErrors: Bool(false)}, []string{"One [a]"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			extractor := NewMockExtractor(t)
			extractor.EXPECT().
				Extract(mock.Anything, playlistURL, mock.Anything, mock.Anything).
				Run(func(ctx context.Context, url string, opts Options, hook func(ytdlp.ProgressUpdate)) {
					finishedItems(hook, "/dl", test.items...)
				}).
				Return(&ytdlp.Result{ExitCode: 1}, &ytdlp.ErrExitCode{})

			h := NewHandler(extractor, logger.NewTestLogger(), WithProfile(testProfile()))
			result, err := h.Download(context.Background(), playlistURL, test.opts, nil)

			assert.Nil(t, result)
			require.Error(t, err)
			_, isExit := ytdlp.IsExitCodeError(err)
			assert.True(t, isExit)
		})
	}
}
