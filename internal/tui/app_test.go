package tui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/locale"
	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type fakePrompter struct {
	inputs   []string
	inputErr error
	selects  []int // negative counts from the end
	confirms []bool
	messages []string
	options  [][]string
}

func (p *fakePrompter) Input(message string, defaultValue string) (string, error) {
	p.messages = append(p.messages, message)
	if p.inputErr != nil {
		return "", p.inputErr
	}
	if len(p.inputs) == 0 {
		return "", nil
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *fakePrompter) Select(message string, options []string, defaultValue string) (string, error) {
	p.messages = append(p.messages, message)
	p.options = append(p.options, options)
	if len(p.selects) == 0 {
		return "", ErrInterrupted
	}
	idx := p.selects[0]
	p.selects = p.selects[1:]
	if idx < 0 {
		idx += len(options)
	}
	return options[idx], nil
}

func (p *fakePrompter) Confirm(message string, defaultValue bool) (bool, error) {
	p.messages = append(p.messages, message)
	if len(p.confirms) == 0 {
		return false, nil
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

type fakeRunner struct {
	info        *model.MediaInfo
	infoErrs    []error
	infoCalls   int
	requests    []model.Request
	updates     []ytdlp.ProgressUpdate
	downloadErr error
	downloads   int
}

func (r *fakeRunner) GetInfo(ctx context.Context, url string) (*model.MediaInfo, error) {
	r.infoCalls++
	if len(r.infoErrs) > 0 {
		err := r.infoErrs[0]
		r.infoErrs = r.infoErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return r.info, nil
}

func (r *fakeRunner) BuildOptions(info *model.MediaInfo, req model.Request) (download.Options, error) {
	r.requests = append(r.requests, req)
	return download.Options{Format: "test"}, nil
}

func (r *fakeRunner) Download(ctx context.Context, url string, opts download.Options, hook download.ProgressHook) (*download.Result, error) {
	r.downloads++
	for _, u := range r.updates {
		hook(u)
	}
	if r.downloadErr != nil {
		return nil, r.downloadErr
	}
	return &download.Result{Message: download.CompletedMessage}, nil
}

func videoInfo() *model.MediaInfo {
	return &model.MediaInfo{ID: "abc", Title: "Test Clip", Uploader: "Someone", Duration: 125, ViewCount: 1234567}
}

func newTestApp(runner *fakeRunner, prompter *fakePrompter) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	defaults := config.DownloadConfig{Directory: "/dl", Kind: model.KindVideo, VideoQuality: "best", AudioFormat: "mp3"}
	app := NewApp(runner, prompter, locale.MustLocalizer("en"), defaults, logger.NewTestLogger(), WithOutput(out))
	return app, out
}

func TestApp_EmptyURLExits(t *testing.T) {
	runner := &fakeRunner{info: videoInfo()}
	app, out := newTestApp(runner, &fakePrompter{})

	require.NoError(t, app.Run(context.Background()))
	assert.Zero(t, runner.infoCalls)
	assert.Contains(t, out.String(), "YT Grabber")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestApp_DownloadVideo(t *testing.T) {
	runner := &fakeRunner{info: videoInfo()}
	prompter := &fakePrompter{
		inputs:   []string{"  https://youtu.be/abc  "},
		selects:  []int{0, 3}, // Video, 1080p
		confirms: []bool{false},
	}
	app, out := newTestApp(runner, prompter)

	require.NoError(t, app.Run(context.Background()))

	require.Len(t, runner.requests, 1)
	assert.Equal(t, model.Request{URL: "https://youtu.be/abc", Kind: model.KindVideo, QualityID: "1080p", OutputDir: "/dl"}, runner.requests[0])
	assert.Equal(t, 1, runner.downloads)

	text := out.String()
	assert.Contains(t, text, "Test Clip")
	assert.Contains(t, text, "2:05")
	assert.Contains(t, text, "1,234,567")
	assert.Contains(t, text, "Starting download: Video - 📀 Full HD (1080p)")
	assert.Contains(t, text, "Download completed.")
	assert.Contains(t, text, "Saved to /dl")

	// quality menu ends with Back
	require.Len(t, prompter.options, 2)
	assert.Len(t, prompter.options[1], len(model.VideoQualities)+1)
	assert.Contains(t, prompter.messages, "Select video quality")
}

func TestApp_DownloadAudioPlaylist(t *testing.T) {
	runner := &fakeRunner{
		info: &model.MediaInfo{Title: "Mix", IsPlaylist: true, PlaylistCount: 2},
		updates: []ytdlp.ProgressUpdate{{
			Status:          ytdlp.ProgressStatusDownloading,
			TotalBytes:      200,
			DownloadedBytes: 100,
			Info:            &ytdlp.ExtractedInfo{ID: "one", Title: strPtr("First song")},
		}},
	}
	prompter := &fakePrompter{
		inputs:   []string{"https://www.youtube.com/playlist?list=PL1"},
		selects:  []int{1, 2}, // Audio, FLAC
		confirms: []bool{false},
	}
	app, out := newTestApp(runner, prompter)

	require.NoError(t, app.Run(context.Background()))

	require.Len(t, runner.requests, 1)
	assert.Equal(t, model.KindAudio, runner.requests[0].Kind)
	assert.Equal(t, "flac", runner.requests[0].QualityID)

	text := out.String()
	assert.Contains(t, text, "Playlist")
	assert.Contains(t, text, "[1/2] First song")
	assert.Contains(t, text, " 50%")
	assert.Contains(t, prompter.messages, "Select audio format")
}

func TestApp_FetchErrorNoRetry(t *testing.T) {
	runner := &fakeRunner{infoErrs: []error{errors.New("video unavailable")}}
	prompter := &fakePrompter{inputs: []string{"https://youtu.be/x"}, confirms: []bool{false}}
	app, out := newTestApp(runner, prompter)

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 1, runner.infoCalls)
	assert.Contains(t, out.String(), "Failed to fetch info: video unavailable")
	assert.Contains(t, prompter.messages, "Try again?")
	assert.Zero(t, runner.downloads)
}

func TestApp_FetchErrorRetry(t *testing.T) {
	runner := &fakeRunner{info: videoInfo(), infoErrs: []error{errors.New("timeout")}}
	prompter := &fakePrompter{
		inputs:   []string{"https://youtu.be/x", "https://youtu.be/x"},
		selects:  []int{0, 0},
		confirms: []bool{true, false},
	}
	app, _ := newTestApp(runner, prompter)

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 2, runner.infoCalls)
	assert.Equal(t, 1, runner.downloads)
}

func TestApp_BackReturnsToURLPrompt(t *testing.T) {
	runner := &fakeRunner{info: videoInfo()}
	prompter := &fakePrompter{
		inputs:  []string{"https://youtu.be/a", "https://youtu.be/b"},
		selects: []int{-1, 0, -1}, // Back at type, then Video and Back at quality
	}
	app, _ := newTestApp(runner, prompter)

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 2, runner.infoCalls)
	assert.Zero(t, runner.downloads)
}

func TestApp_DownloadFailure(t *testing.T) {
	runner := &fakeRunner{info: videoInfo(), downloadErr: errors.New("download failed: HTTP Error 403")}
	prompter := &fakePrompter{
		inputs:   []string{"https://youtu.be/a"},
		selects:  []int{0, 0},
		confirms: []bool{false},
	}
	app, out := newTestApp(runner, prompter)

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Download failed")
	assert.Contains(t, out.String(), "HTTP Error 403")
	assert.Contains(t, prompter.messages, "Download another?")
}

func TestApp_InterruptAtPrompt(t *testing.T) {
	app, out := newTestApp(&fakeRunner{}, &fakePrompter{inputErr: ErrInterrupted})

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Cancelled by user")
}

func TestApp_CancelledDownload(t *testing.T) {
	runner := &fakeRunner{info: videoInfo(), downloadErr: download.ErrCancelled}
	prompter := &fakePrompter{
		inputs:   []string{"https://youtu.be/a"},
		selects:  []int{0, 0},
		confirms: []bool{true},
	}
	app, out := newTestApp(runner, prompter)

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Cancelled by user")
	assert.NotContains(t, prompter.messages, "Download another?")
}

func TestApp_PromptError(t *testing.T) {
	boom := errors.New("no tty")
	app, _ := newTestApp(&fakeRunner{}, &fakePrompter{inputErr: boom})

	assert.ErrorIs(t, app.Run(context.Background()), boom)
}

func strPtr(s string) *string { return &s }
