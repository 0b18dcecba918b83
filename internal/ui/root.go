package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/locale"
	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
	"github.com/ytget/yt-grabber/internal/progress"
)

// RootUI represents the main window: URL row, info card, options, progress and actions
type RootUI struct {
	window   fyne.Window
	handler  download.Runner
	settings *config.Settings
	loc      *locale.Localizer
	log      logger.Logger

	urlEntry      *widget.Entry
	fetchBtn      *widget.Button
	infoCard      *widget.Card
	titleLabel    *widget.Label
	channelLabel  *widget.Label
	detailsLabel  *widget.Label
	typeRadio     *widget.RadioGroup
	qualitySelect *widget.Select
	outputEntry   *widget.Entry
	progressBar   *widget.ProgressBar
	statusLabel   *widget.Label
	downloadBtn   *widget.Button
	cancelBtn     *widget.Button
	openBtn       *widget.Button

	mu        sync.Mutex
	info      *model.MediaInfo
	infoURL   string
	cancel    context.CancelFunc
	lastDir   string
	lastItem  string
	videoText string
	audioText string
}

// NewRootUI builds the window content
func NewRootUI(window fyne.Window, handler download.Runner, settings *config.Settings, loc *locale.Localizer, log logger.Logger) *RootUI {
	ui := &RootUI{
		window:    window,
		handler:   handler,
		settings:  settings,
		loc:       loc,
		log:       log,
		videoText: IconVideo + " " + loc.T("type_video"),
		audioText: IconAudio + " " + loc.T("type_audio"),
	}

	window.SetTitle(IconVideo + " " + loc.T("app_title"))
	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	// URL row; Enter triggers fetch
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.loc.T("url_placeholder"))
	ui.urlEntry.OnSubmitted = func(string) { ui.onFetch() }
	ui.fetchBtn = widget.NewButton(ui.fetchText(), ui.onFetch)
	urlRow := container.NewBorder(nil, nil, nil, ui.fetchBtn, ui.urlEntry)

	// Info card, hidden until a fetch succeeds
	ui.titleLabel = widget.NewLabel(DashPlaceholder)
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.Wrapping = fyne.TextWrapWord
	ui.channelLabel = widget.NewLabel(DashPlaceholder)
	ui.detailsLabel = widget.NewLabel(DashPlaceholder)
	ui.infoCard = widget.NewCard("", "", container.NewVBox(ui.titleLabel, ui.channelLabel, ui.detailsLabel))
	ui.infoCard.Hide()

	// Options
	ui.qualitySelect = widget.NewSelect(nil, ui.onQualityChanged)
	ui.typeRadio = widget.NewRadioGroup([]string{ui.videoText, ui.audioText}, ui.onTypeChanged)
	ui.typeRadio.Horizontal = true
	ui.typeRadio.Required = true
	if ui.settings.GetMediaKind() == model.KindAudio {
		ui.typeRadio.SetSelected(ui.audioText)
	} else {
		ui.typeRadio.SetSelected(ui.videoText)
	}

	ui.outputEntry = widget.NewEntry()
	ui.outputEntry.SetText(ui.settings.GetDownloadDirectory())
	browseBtn := widget.NewButton(IconFolder, ui.onBrowse)

	options := container.NewVBox(
		labeled(ui.loc.T("type_label"), ui.typeRadio),
		labeled(ui.loc.T("quality_label"), ui.qualitySelect),
		labeled(ui.loc.T("output_folder"), container.NewBorder(nil, nil, nil, browseBtn, ui.outputEntry)),
	)

	// Progress
	ui.progressBar = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel(ui.loc.T("ready"))
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	// Actions
	ui.downloadBtn = widget.NewButton(IconDownload+"  "+ui.loc.T("download"), ui.onDownload)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.downloadBtn.Disable()
	ui.cancelBtn = widget.NewButton(IconCancel+" "+ui.loc.T("cancel"), ui.onCancel)
	ui.cancelBtn.Hide()
	ui.openBtn = widget.NewButton(IconFolder+" "+ui.loc.T("open_folder"), ui.onOpenFolder)
	ui.openBtn.Disable()
	actions := container.NewBorder(nil, nil, nil, container.NewHBox(ui.cancelBtn, ui.openBtn), ui.downloadBtn)

	content := container.NewVBox(
		widget.NewCard(ui.loc.T("url_label"), "", urlRow),
		ui.infoCard,
		widget.NewCard("", "", options),
		widget.NewCard("", "", container.NewVBox(ui.progressBar, ui.statusLabel)),
		actions,
	)

	ui.window.SetContent(container.NewVScroll(container.NewPadded(content)))
	ui.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
}

func labeled(text string, obj fyne.CanvasObject) fyne.CanvasObject {
	label := widget.NewLabel(text)
	return container.NewBorder(nil, nil, label, nil, obj)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(IconSettings+" "+ui.loc.T("settings"), ui.onShowSettings)
	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.loc.T("app_title"), settingsItem),
	))
}

func (ui *RootUI) fetchText() string {
	return IconFetch + " " + ui.loc.T("fetch")
}

func (ui *RootUI) selectedKind() model.MediaKind {
	if ui.typeRadio.Selected == ui.audioText {
		return model.KindAudio
	}
	return model.KindVideo
}

// onTypeChanged swaps the quality list and restores the last preset for the kind
func (ui *RootUI) onTypeChanged(string) {
	kind := ui.selectedKind()
	ui.settings.SetMediaKind(kind)

	presets := model.QualityOptions(kind)
	names := make([]string, 0, len(presets))
	for _, q := range presets {
		names = append(names, q.DisplayName())
	}
	ui.qualitySelect.SetOptions(names)

	if q, ok := model.FindQuality(kind, ui.settings.GetQuality(kind)); ok {
		ui.qualitySelect.SetSelected(q.DisplayName())
	} else {
		ui.qualitySelect.SetSelectedIndex(0)
	}
}

func (ui *RootUI) onQualityChanged(name string) {
	if q, ok := ui.selectedQuality(name); ok {
		ui.settings.SetQuality(ui.selectedKind(), q.ID)
	}
}

func (ui *RootUI) selectedQuality(name string) (model.QualityOption, bool) {
	for _, q := range model.QualityOptions(ui.selectedKind()) {
		if q.DisplayName() == name {
			return q, true
		}
	}
	return model.QualityOption{}, false
}

func (ui *RootUI) onBrowse() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.outputEntry.SetText(uri.Path())
		ui.settings.SetDownloadDirectory(uri.Path())
	}, ui.window)
}

// onFetch validates the URL and fetches info on a background goroutine
func (ui *RootUI) onFetch() {
	raw := strings.TrimSpace(ui.urlEntry.Text)
	if raw == "" {
		ui.statusLabel.SetText(ui.loc.T("please_enter_url"))
		dialog.ShowInformation(ui.loc.T("error"), ui.loc.T("please_enter_url"), ui.window)
		return
	}
	url, err := platform.ValidateURL(raw)
	if err != nil {
		ui.statusLabel.SetText(ui.loc.T("invalid_url"))
		dialog.ShowError(fmt.Errorf("%s: %w", ui.loc.T("invalid_url"), err), ui.window)
		return
	}

	ui.fetchBtn.Disable()
	ui.fetchBtn.SetText(BusyButtonText)
	ui.downloadBtn.Disable()
	ui.statusLabel.SetText(ui.loc.T("fetching"))

	go func() {
		info, err := ui.handler.GetInfo(context.Background(), url)
		fyne.Do(func() { ui.onFetchFinished(url, info, err) })
	}()
}

func (ui *RootUI) onFetchFinished(url string, info *model.MediaInfo, err error) {
	ui.fetchBtn.Enable()
	ui.fetchBtn.SetText(ui.fetchText())

	if err != nil {
		ui.log.WithError(err).WithField("url", url).Warn("Fetch failed")
		ui.statusLabel.SetText(ui.loc.T("error") + ": " + progress.Truncate(strings.TrimSpace(err.Error()), ErrorStatusLength))
		dialog.ShowError(fmt.Errorf("%s:\n%w", ui.loc.T("fetch_failed"), err), ui.window)
		return
	}

	ui.mu.Lock()
	ui.info = info
	ui.infoURL = url
	ui.mu.Unlock()

	ui.showInfo(info)
	ui.downloadBtn.Enable()
	ui.statusLabel.SetText(ui.loc.T("fetched"))
}

func (ui *RootUI) showInfo(info *model.MediaInfo) {
	if info.IsPlaylist {
		count := ui.loc.T("unknown")
		if n := info.EntryCount(); n >= 0 {
			count = fmt.Sprint(n)
		}
		ui.infoCard.SetTitle(ui.loc.T("info_playlist"))
		ui.titleLabel.SetText(IconPlaylist + " " + info.DisplayTitle())
		ui.channelLabel.SetText(ui.loc.T("info_uploader") + ": " + info.DisplayUploader())
		ui.detailsLabel.SetText(ui.loc.T("info_video_count") + ": " + count)
	} else {
		duration := DashPlaceholder
		if info.Duration > 0 {
			duration = platform.FormatDuration(info.Duration)
		}
		ui.infoCard.SetTitle(ui.loc.T("info_single"))
		ui.titleLabel.SetText(IconVideo + " " + info.DisplayTitle())
		ui.channelLabel.SetText(ui.loc.T("info_channel") + ": " + info.DisplayUploader())
		ui.detailsLabel.SetText(ui.loc.T("info_duration") + ": " + duration + MiddleSeparator +
			ui.loc.T("info_views") + ": " + strings.TrimSpace(humanize.SIWithDigits(float64(info.ViewCount), 1, "")))
	}
	ui.infoCard.Show()
}

// onDownload starts the download on a background goroutine
func (ui *RootUI) onDownload() {
	ui.mu.Lock()
	info, url := ui.info, ui.infoURL
	ui.mu.Unlock()
	if info == nil {
		dialog.ShowInformation(ui.loc.T("error"), ui.loc.T("please_enter_url"), ui.window)
		return
	}

	quality, ok := ui.selectedQuality(ui.qualitySelect.Selected)
	if !ok {
		quality, _ = model.FindQuality(ui.selectedKind(), model.DefaultQuality(ui.selectedKind()))
	}

	dir := strings.TrimSpace(ui.outputEntry.Text)
	if dir == "" {
		dir = ui.settings.GetDownloadDirectory()
		ui.outputEntry.SetText(dir)
	}
	ui.settings.SetDownloadDirectory(dir)

	opts, err := ui.handler.BuildOptions(info, model.Request{
		URL:       url,
		Kind:      ui.selectedKind(),
		QualityID: quality.ID,
		OutputDir: dir,
	})
	if err != nil {
		dialog.ShowError(err, ui.window)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ui.mu.Lock()
	ui.cancel = cancel
	ui.mu.Unlock()

	ui.setBusy(true)
	ui.progressBar.SetValue(0)
	ui.statusLabel.SetText(ui.loc.T("downloading"))

	count := 0
	if info.IsPlaylist {
		count = max(info.EntryCount(), 0)
	}
	adapter := progress.NewAdapter(count)

	go func() {
		defer cancel()
		result, err := ui.handler.Download(ctx, url, opts, func(update ytdlp.ProgressUpdate) {
			p := adapter.Handle(update)
			if p.Phase == model.PhaseError {
				return
			}
			fyne.Do(func() { ui.onProgress(p) })
		})
		fyne.Do(func() { ui.onDownloadFinished(dir, result, err) })
	}()
}

func (ui *RootUI) onProgress(p model.Progress) {
	ui.progressBar.SetValue(float64(p.Percent) / 100)
	ui.statusLabel.SetText(progress.StatusLine(p, progress.GUITitleWidth))
}

func (ui *RootUI) onDownloadFinished(dir string, result *download.Result, err error) {
	ui.mu.Lock()
	ui.cancel = nil
	ui.mu.Unlock()
	ui.setBusy(false)

	switch {
	case errors.Is(err, download.ErrCancelled):
		ui.progressBar.SetValue(0)
		ui.statusLabel.SetText(ui.loc.T("download_cancelled"))
	case err != nil:
		ui.statusLabel.SetText(IconCancel + " " + ui.loc.T("error") + ": " + progress.Truncate(strings.TrimSpace(err.Error()), ErrorStatusLength))
		dialog.ShowError(fmt.Errorf("%s:\n%w", ui.loc.T("download_failed"), err), ui.window)
	default:
		ui.progressBar.SetValue(1)
		if result != nil && result.Partial {
			ui.statusLabel.SetText(IconWarning + " " + ui.loc.T("download_partial"))
		} else {
			ui.statusLabel.SetText(IconSuccess + " " + ui.loc.T("download_complete"))
		}

		ui.mu.Lock()
		ui.lastDir = dir
		ui.lastItem = ""
		if result != nil && len(result.Folders) == 1 {
			ui.lastItem = result.Folders[0]
		}
		ui.mu.Unlock()
		ui.openBtn.Enable()

		if result != nil {
			ui.log.WithField("folders", len(result.Folders)).Info("GUI download finished")
		}
		if ui.settings.GetAutoRevealOnComplete() {
			ui.onOpenFolder()
			return
		}
		dialog.ShowInformation(ui.loc.T("download_complete"),
			ui.loc.Localize("saved_to", map[string]any{"Dir": dir}), ui.window)
	}
}

// setBusy toggles the controls that must not change while a download runs
func (ui *RootUI) setBusy(busy bool) {
	if busy {
		ui.downloadBtn.Disable()
		ui.fetchBtn.Disable()
		ui.cancelBtn.Show()
		return
	}
	ui.downloadBtn.Enable()
	ui.fetchBtn.Enable()
	ui.cancelBtn.Hide()
}

func (ui *RootUI) onCancel() {
	ui.mu.Lock()
	cancel := ui.cancel
	ui.mu.Unlock()
	if cancel != nil {
		ui.statusLabel.SetText(ui.loc.T("cancel") + BusyButtonText)
		cancel()
	}
}

// onOpenFolder selects the item folder when a single item was downloaded, otherwise opens the destination
func (ui *RootUI) onOpenFolder() {
	ui.mu.Lock()
	dir, item := ui.lastDir, ui.lastItem
	ui.mu.Unlock()
	if dir == "" {
		dir = ui.settings.GetDownloadDirectory()
	}
	if item != "" {
		if err := platform.RevealFile(item); err == nil {
			return
		}
	}
	if err := platform.OpenFolder(dir); err != nil {
		ui.log.WithError(err).Warn("Failed to open folder")
		dialog.ShowError(err, ui.window)
	}
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.loc, ui.window, func(dir string) {
		ui.outputEntry.SetText(dir)
	}).Show()
}
