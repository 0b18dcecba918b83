package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-grabber/internal/locale"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

var infoOutput string

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Show what yt-dlp reports about a video or playlist",
	Long: `Fetch metadata without downloading anything.

Examples:
  yt-grabber info https://youtu.be/dQw4w9WgXcQ
  yt-grabber info "https://www.youtube.com/playlist?list=PL..." --output yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", OutputText, "output format: text, json or yaml")
}

func runInfo(cmd *cobra.Command, args []string) error {
	d, err := newDeps(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer d.Close()

	info, err := d.handler.GetInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeInfo(cmd.OutOrStdout(), d.loc, info, infoOutput)
}

func writeInfo(w io.Writer, loc *locale.Localizer, info *model.MediaInfo, format string) error {
	if ok, err := writeStructured(w, info, format); ok {
		return err
	}

	t := newTextTable(w)
	row := func(key, value string) {
		t.AppendRow(table.Row{key + ":", value})
	}

	if !info.IsPlaylist {
		row(loc.T("info_title"), info.DisplayTitle())
		row(loc.T("info_channel"), info.DisplayUploader())
		row(loc.T("info_duration"), platform.FormatDuration(info.Duration))
		row(loc.T("info_views"), humanize.Comma(info.ViewCount))
		t.Render()
		return nil
	}

	count := loc.T("unknown")
	if n := info.EntryCount(); n >= 0 {
		count = humanize.Comma(int64(n))
	}
	row(loc.T("info_type"), loc.T("info_playlist"))
	row(loc.T("info_title"), info.DisplayTitle())
	row(loc.T("info_uploader"), info.DisplayUploader())
	row(loc.T("info_video_count"), count)
	t.Render()

	for i, e := range info.Entries {
		fmt.Fprintf(w, "%4d. %s", i+1, e.Title)
		if e.Duration > 0 {
			fmt.Fprintf(w, " (%s)", platform.FormatDuration(e.Duration))
		}
		fmt.Fprintln(w)
	}
	return nil
}
