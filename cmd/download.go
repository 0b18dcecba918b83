package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

var (
	downloadAudio    bool
	downloadQuality  string
	downloadDir      string
	downloadParallel int
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>...",
	Short: "Download one or more URLs without prompting",
	Long: `Queue every URL and download up to download.max_parallel at once.

Video qualities: best, 2160p, 1440p, 1080p, 720p, 480p, 360p
Audio formats:   mp3, m4a, flac, wav

Examples:
  yt-grabber download https://youtu.be/a https://youtu.be/b
  yt-grabber download --audio --quality m4a --dir ~/Music https://youtu.be/a`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().BoolVarP(&downloadAudio, "audio", "a", false, "extract audio only")
	downloadCmd.Flags().StringVarP(&downloadQuality, "quality", "q", "", "video quality or audio format (default from config)")
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "output directory (default from config)")
	downloadCmd.Flags().IntVarP(&downloadParallel, "parallel", "p", 0, "parallel downloads, 1-10 (default from config)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := newDeps(ctx, false)
	if err != nil {
		return err
	}
	defer d.Close()

	dl := d.cfg.Download()
	reqs, err := buildRequests(dl, args, downloadAudio, downloadQuality, downloadDir)
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(reqs[0].OutputDir); err != nil {
		return err
	}

	parallel := dl.MaxParallel
	if downloadParallel > 0 {
		parallel = downloadParallel
	}

	svc := download.NewService(d.handler, parallel, d.log)
	return runBatch(ctx, svc, reqs, cmd.OutOrStdout())
}

// buildRequests applies flags over the config defaults
func buildRequests(dl config.DownloadConfig, urls []string, audio bool, quality, dir string) ([]model.Request, error) {
	kind := dl.Kind
	if audio {
		kind = model.KindAudio
	}
	if quality == "" {
		quality = dl.QualityFor(kind)
	}
	if _, ok := model.FindQuality(kind, quality); !ok {
		return nil, fmt.Errorf("%w: %q for %s", download.ErrUnknownQuality, quality, kind)
	}
	if dir == "" {
		dir = dl.Directory
	}

	reqs := make([]model.Request, 0, len(urls))
	for _, url := range urls {
		reqs = append(reqs, model.Request{URL: url, Kind: kind, QualityID: quality, OutputDir: dir})
	}
	return reqs, nil
}

// runBatch queues reqs, prints each task as it finishes and waits for all of them.
// Cancelling ctx stops the remaining tasks.
func runBatch(ctx context.Context, svc *download.Service, reqs []model.Request, out io.Writer) error {
	var mu sync.Mutex
	reported := make(map[string]bool)
	svc.SetUpdateCallback(func(task model.DownloadTask) {
		if !task.Status.IsFinished() {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if reported[task.ID] {
			return
		}
		reported[task.ID] = true
		printTask(out, task)
	})

	rejected := 0
	for _, req := range reqs {
		if _, err := svc.AddTask(req); err != nil {
			color.New(color.FgYellow).Fprintf(out, "skip %s: %v\n", req.URL, err)
			rejected++
		}
	}

	if err := svc.Wait(ctx); err != nil {
		svc.StopAll()
		_ = svc.Wait(context.Background())
	}

	summary := svc.Summary()
	fmt.Fprintf(out, "\n%d completed, %d failed, %d stopped, %d skipped\n",
		summary[model.TaskStatusCompleted], summary[model.TaskStatusError], summary[model.TaskStatusStopped], rejected)

	if ctx.Err() != nil {
		return download.ErrCancelled
	}
	if failed := summary[model.TaskStatusError]; failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(reqs))
	}
	return nil
}

var statusColors = map[model.TaskStatus]*color.Color{
	model.TaskStatusCompleted: color.New(color.FgGreen),
	model.TaskStatusError:     color.New(color.FgRed),
	model.TaskStatusStopped:   color.New(color.FgYellow),
}

func printTask(out io.Writer, task model.DownloadTask) {
	c, ok := statusColors[task.Status]
	if !ok {
		return
	}
	c.Fprint(out, task.Status.Symbol()+" ")
	switch task.Status {
	case model.TaskStatusCompleted:
		fmt.Fprintf(out, "%s (%s)", task.GetDisplayTitle(), task.Elapsed().Round(time.Second))
		if task.OutputPath != "" {
			fmt.Fprintf(out, " -> %s", task.OutputPath)
		}
		fmt.Fprintln(out)
		if task.Note != "" {
			color.New(color.FgYellow).Fprintf(out, "  %s\n", task.Note)
		}
	case model.TaskStatusError:
		fmt.Fprintf(out, "%s: %s\n", task.URL(), task.LastError)
	default:
		fmt.Fprintf(out, "%s: stopped\n", task.URL())
	}
}
