// Package cmd wires configuration, logging and the download handler into
// the yt-grabber command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/tui"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Download video and audio through yt-dlp",
	Long: `yt-grabber is a front-end over yt-dlp. Paste a URL, pick video or audio
and a quality, and it downloads into your downloads folder.

Without a subcommand it starts the interactive terminal UI.

Examples:
  yt-grabber
  yt-grabber gui
  yt-grabber info https://youtu.be/dQw4w9WgXcQ --output json
  yt-grabber download --audio --quality flac https://youtu.be/dQw4w9WgXcQ`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runTUI,
}

// Execute runs the root command; Ctrl+C cancels the command context
func Execute(version string) {
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./yt-grabber.toml, then $XDG_CONFIG_HOME/yt-grabber/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// the terminal UI owns the screen, so logs only go to the log file
	d, err := newDeps(ctx, true)
	if err != nil {
		return err
	}
	defer d.Close()

	app := tui.NewApp(d.handler, &tui.SurveyPrompter{}, d.loc, d.cfg.Download(), d.log,
		tui.WithOutput(cmd.OutOrStdout()),
		tui.WithClearScreen(!color.NoColor),
	)
	return app.Run(ctx)
}
