package cmd

import (
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/locale"
	"github.com/ytget/yt-grabber/internal/platform"
	"github.com/ytget/yt-grabber/internal/ui"
)

const AppID = "com.ytget.yt-grabber"

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop window",
	Args:  cobra.NoArgs,
	RunE:  runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(cmd *cobra.Command, args []string) error {
	d, err := newDeps(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer d.Close()

	a := app.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewCompactTheme())

	// choices stored by the window win over the config file
	settings := config.NewSettings(a, d.cfg)
	loc, err := locale.NewLocalizer(settings.GetLanguage())
	if err != nil {
		d.log.WithError(err).Warn("Unsupported interface language, using English")
		loc = d.loc
	}

	dl := settings.Download()
	if err := platform.CreateDirectoryIfNotExists(dl.Directory); err != nil {
		d.log.WithError(err).WithField("dir", dl.Directory).Warn("Failed to ensure downloads dir")
	}

	window := a.NewWindow(loc.T("app_title") + " " + rootCmd.Version)
	ui.NewRootUI(window, d.newHandler(download.ProfileFromConfig(dl)), settings, loc, d.log)
	window.ShowAndRun()
	return nil
}
