// Package tui is the interactive terminal front-end: prompt for a URL, show
// what yt-dlp reports about it, ask for type and quality, then download with
// a live progress line.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/locale"
	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
	"github.com/ytget/yt-grabber/internal/progress"
)

const (
	videoIcon = "🎥"
	audioIcon = "🎵"
	backIcon  = "🔙"
)

// App runs the prompt loop until the user leaves
type App struct {
	runner      download.Runner
	prompter    Prompter
	loc         *locale.Localizer
	defaults    config.DownloadConfig
	out         io.Writer
	clearScreen bool
	log         logger.Logger
}

type Option func(*App)

// WithOutput redirects everything the loop prints
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithClearScreen clears the terminal before every round
func WithClearScreen(clear bool) Option {
	return func(a *App) { a.clearScreen = clear }
}

func NewApp(runner download.Runner, prompter Prompter, loc *locale.Localizer, defaults config.DownloadConfig, log logger.Logger, opts ...Option) *App {
	a := &App{
		runner:   runner,
		prompter: prompter,
		loc:      loc,
		defaults: defaults,
		out:      os.Stdout,
		log:      log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run loops until the user submits an empty URL, declines to continue or
// presses Ctrl+C. Cancelling ctx stops a running download and ends the loop.
// Ctrl+C is not an error.
func (a *App) Run(ctx context.Context) error {
	err := a.loop(ctx)
	if isInterrupt(err) || errors.Is(err, download.ErrCancelled) {
		fmt.Fprintln(a.out)
		warnColor.Fprintln(a.out, a.loc.T("cancelled_by_user"))
		return nil
	}
	return err
}

func (a *App) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return download.ErrCancelled
		}
		a.printHeader()

		url, err := a.prompter.Input(a.loc.T("enter_url_prompt"), "")
		if err != nil {
			return err
		}
		url = strings.TrimSpace(url)
		if url == "" {
			a.goodbye()
			return nil
		}

		info, err := a.fetch(ctx, url)
		if err != nil {
			if errors.Is(err, download.ErrCancelled) {
				return err
			}
			errorColor.Fprintf(a.out, "%s: %v\n", a.loc.T("fetch_failed"), err)
			again, err := a.prompter.Confirm(a.loc.T("retry_prompt"), true)
			if err != nil {
				return err
			}
			if !again {
				a.goodbye()
				return nil
			}
			continue
		}
		a.printInfo(info)

		kind, ok, err := a.selectKind()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		quality, ok, err := a.selectQuality(kind)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		err = a.download(ctx, info, model.Request{
			URL:       url,
			Kind:      kind,
			QualityID: quality.ID,
			OutputDir: a.defaults.Directory,
		}, quality)
		if errors.Is(err, download.ErrCancelled) {
			return err
		}

		fmt.Fprintln(a.out)
		another, err := a.prompter.Confirm(a.loc.T("another_prompt"), true)
		if err != nil {
			return err
		}
		if !another {
			a.goodbye()
			return nil
		}
	}
}

func (a *App) printHeader() {
	if a.clearScreen {
		fmt.Fprint(a.out, "\033[H\033[2J")
	}
	panel(a.out, "", lines(headerColor.Sprint(a.loc.T("app_title")), a.loc.T("powered_by"))...)
	fmt.Fprintln(a.out)
}

func (a *App) goodbye() {
	borderColor.Fprintln(a.out, a.loc.T("goodbye"))
}

func (a *App) fetch(ctx context.Context, url string) (*model.MediaInfo, error) {
	stop := spin(a.out, a.loc.T("fetching"))
	defer stop()

	info, err := a.runner.GetInfo(ctx, url)
	if err != nil {
		a.log.WithError(err).WithField("url", url).Debug("Fetch failed")
	}
	return info, err
}

func (a *App) printInfo(info *model.MediaInfo) {
	var rows []table.Row
	row := func(key, value string) {
		rows = append(rows, table.Row{keyColor.Sprint(key), value})
	}

	if info.IsPlaylist {
		count := a.loc.T("unknown")
		if n := info.EntryCount(); n >= 0 {
			count = humanize.Comma(int64(n))
		}
		row(a.loc.T("info_type"), a.loc.T("info_playlist"))
		row(a.loc.T("info_title"), info.DisplayTitle())
		row(a.loc.T("info_uploader"), info.DisplayUploader())
		row(a.loc.T("info_video_count"), count)
	} else {
		row(a.loc.T("info_title"), info.DisplayTitle())
		row(a.loc.T("info_channel"), info.DisplayUploader())
		row(a.loc.T("info_duration"), platform.FormatDuration(info.Duration))
		row(a.loc.T("info_views"), humanize.Comma(info.ViewCount))
	}

	panel(a.out, borderColor.Sprint(a.loc.T("info_panel")), rows...)
	fmt.Fprintln(a.out)
}

func (a *App) backLabel() string {
	return backIcon + " " + a.loc.T("back")
}

// selectKind returns ok=false when the user chose Back
func (a *App) selectKind() (model.MediaKind, bool, error) {
	video := videoIcon + " " + a.loc.T("type_video")
	audio := audioIcon + " " + a.loc.T("type_audio")

	def := video
	if a.defaults.Kind == model.KindAudio {
		def = audio
	}

	choice, err := a.prompter.Select(a.loc.T("select_type"), []string{video, audio, a.backLabel()}, def)
	if err != nil {
		return "", false, err
	}
	switch choice {
	case video:
		return model.KindVideo, true, nil
	case audio:
		return model.KindAudio, true, nil
	}
	return "", false, nil
}

// selectQuality returns ok=false when the user chose Back
func (a *App) selectQuality(kind model.MediaKind) (model.QualityOption, bool, error) {
	presets := model.QualityOptions(kind)
	options := make([]string, 0, len(presets)+1)
	for _, q := range presets {
		options = append(options, q.DisplayName())
	}
	options = append(options, a.backLabel())

	def := ""
	if q, ok := model.FindQuality(kind, a.defaults.QualityFor(kind)); ok {
		def = q.DisplayName()
	}

	message := a.loc.T("select_quality")
	if kind == model.KindAudio {
		message = a.loc.T("select_format")
	}

	choice, err := a.prompter.Select(message, options, def)
	if err != nil {
		return model.QualityOption{}, false, err
	}
	for _, q := range presets {
		if q.DisplayName() == choice {
			return q, true, nil
		}
	}
	return model.QualityOption{}, false, nil
}

func (a *App) download(ctx context.Context, info *model.MediaInfo, req model.Request, quality model.QualityOption) error {
	opts, err := a.runner.BuildOptions(info, req)
	if err != nil {
		a.printFailure(err)
		return err
	}

	kindLabel := a.loc.T("type_video")
	if req.Kind == model.KindAudio {
		kindLabel = a.loc.T("type_audio")
	}
	fmt.Fprintln(a.out)
	successColor.Fprintln(a.out, a.loc.Localize("starting_download", map[string]any{
		"Kind":    kindLabel,
		"Quality": quality.DisplayName(),
	}))

	count := 0
	if info.IsPlaylist {
		count = max(info.EntryCount(), 0)
	}
	adapter := progress.NewAdapter(count)
	line := newProgressLine(a.out)

	result, err := a.runner.Download(ctx, req.URL, opts, func(update ytdlp.ProgressUpdate) {
		p := adapter.Handle(update)
		if p.Phase == model.PhaseError {
			return
		}
		line.update(p)
	})
	line.done()

	if err != nil {
		if errors.Is(err, download.ErrCancelled) {
			return err
		}
		a.printFailure(err)
		return err
	}

	panel(a.out, successColor.Sprint(a.loc.T("download_complete")), lines(
		successColor.Sprint(result.Message),
		a.loc.Localize("saved_to", map[string]any{"Dir": a.savedTo(req)}),
	)...)
	return nil
}

func (a *App) savedTo(req model.Request) string {
	if req.OutputDir != "" {
		return req.OutputDir
	}
	return a.defaults.Directory
}

func (a *App) printFailure(err error) {
	panel(a.out, errorColor.Sprint(a.loc.T("download_failed")), lines(
		errorColor.Sprint(a.loc.T("error")+":")+" "+err.Error(),
	)...)
}
