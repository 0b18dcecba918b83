package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-grabber/internal/history"
	"github.com/ytget/yt-grabber/internal/locale"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/progress"
)

var (
	historyLimit  int
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent downloads",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "number of records to show")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", OutputText, "output format: text, json or yaml")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, false)

	h := cfg.History()
	if !h.Enabled {
		return fmt.Errorf("download history is disabled (history.enabled = false)")
	}

	store, err := history.Open(ctx, h.DSN, log)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}

	loc, err := locale.NewLocalizer(cfg.Interface().Language)
	if err != nil {
		loc = locale.MustLocalizer(locale.DefaultLanguage)
	}
	return writeHistory(cmd.OutOrStdout(), loc, records, historyOutput)
}

func writeHistory(w io.Writer, loc *locale.Localizer, records []model.DownloadRecord, format string) error {
	if ok, err := writeStructured(w, records, format); ok {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(w, loc.T("history_empty"))
		return nil
	}

	t := newTextTable(w)
	t.AppendHeader(table.Row{"When", "Status", "Kind", "Quality", "Title"})
	for _, r := range records {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		t.AppendRow(table.Row{
			humanize.Time(r.CreatedAt), r.Status, r.Kind, r.Quality, progress.Truncate(title, progress.GUITitleWidth),
		})
	}
	t.Render()
	return nil
}
