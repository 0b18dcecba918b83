package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/locale"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings *config.Settings
	loc      *locale.Localizer
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func(dir string)

	// UI components
	downloadDirEntry *widget.Entry
	languageSelect   *widget.Select
	autoRevealCheck  *widget.Check
}

// NewSettingsDialog creates a new settings dialog; onSaved receives the saved download directory
func NewSettingsDialog(settings *config.Settings, loc *locale.Localizer, window fyne.Window, onSaved func(dir string)) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		loc:      loc,
		window:   window,
		onSaved:  onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(IconFolder, sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.languageSelect = widget.NewSelect(languageNames(), nil)

	sd.autoRevealCheck = widget.NewCheck(sd.loc.T("auto_reveal"), nil)

	form := container.NewVBox(
		widget.NewLabel(sd.loc.T("output_folder")),
		downloadDirRow,
		widget.NewSeparator(),
		widget.NewLabel(sd.loc.T("language")),
		sd.languageSelect,
		sd.autoRevealCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.loc.T("settings"),
		sd.loc.T("save"),
		sd.loc.T("cancel"),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(450, 300))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	if name, ok := locale.Languages[sd.settings.GetLanguage()]; ok {
		sd.languageSelect.SetSelected(name)
	}
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	message := sd.loc.T("settings_saved")
	if code := languageCode(sd.languageSelect.Selected); code != "" && code != sd.settings.GetLanguage() {
		sd.settings.SetLanguage(code)
		message += "\n" + sd.loc.T("restart_required")
	}

	if sd.onSaved != nil {
		sd.onSaved(sd.settings.GetDownloadDirectory())
	}
	dialog.ShowInformation(sd.loc.T("settings"), message, sd.window)
}

// languageNames lists display names in code order
func languageNames() []string {
	codes := locale.SupportedLanguages()
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, locale.Languages[code])
	}
	return names
}

func languageCode(name string) string {
	for code, n := range locale.Languages {
		if n == name {
			return code
		}
	}
	return ""
}
