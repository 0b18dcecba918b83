package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/schollz/progressbar/v3"

	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/progress"
)

const barWidth = 30

var (
	headerColor  = color.New(color.FgMagenta, color.Bold)
	borderColor  = color.New(color.FgCyan)
	keyColor     = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	descColor    = color.New(color.FgCyan)
)

// panel draws rows inside a rounded box with an optional title above them
func panel(w io.Writer, title string, rows ...table.Row) {
	t := table.NewWriter()
	style := table.StyleRounded
	style.Title = table.TitleOptions{Align: text.AlignLeft}
	t.SetStyle(style)
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendRows(rows)
	fmt.Fprintln(w, t.Render())
}

// lines turns single strings into one-column panel rows
func lines(s ...string) []table.Row {
	rows := make([]table.Row, 0, len(s))
	for _, l := range s {
		rows = append(rows, table.Row{l})
	}
	return rows
}

// progressLine redraws a single terminal bar on every update.
// Updates arrive on the yt-dlp callback goroutine.
type progressLine struct {
	mu      sync.Mutex
	out     io.Writer
	bar     *progressbar.ProgressBar
	percent int
	drawn   bool
}

func newProgressLine(out io.Writer) *progressLine {
	return &progressLine{
		out: out,
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetWidth(barWidth),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerPadding: "░",
				BarStart:      "|",
				BarEnd:        "|",
			}),
		),
	}
}

func (l *progressLine) update(p model.Progress) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// a new stream or playlist item starts from zero
	if p.Percent < l.percent || (l.bar.IsFinished() && p.Phase != model.PhaseFinished) {
		l.bar.Reset()
	}

	percent := p.Percent
	if p.Phase == model.PhaseFinished {
		percent = 100
	}
	l.bar.Describe(describe(p))
	_ = l.bar.Set(percent)
	l.percent = percent
	l.drawn = true
}

// done moves past the progress line so the next output starts on a fresh line
func (l *progressLine) done() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.drawn {
		fmt.Fprintln(l.out)
		l.drawn = false
	}
}

// describe is the text in front of the bar: title, sizes, speed and ETA
func describe(p model.Progress) string {
	desc := progress.Description(p, progress.TerminalTitleWidth)
	if p.Phase == model.PhaseFinished {
		return successColor.Sprint(desc) + " "
	}
	return strings.Join([]string{
		descColor.Sprint(desc),
		progress.Sizes(p),
		progress.FormatSpeed(p.Speed),
		progress.FormatETA(p),
	}, " | ") + " "
}

// spin shows a spinner with text until stop is called.
// Nothing is drawn when stdout is not a terminal.
func spin(out io.Writer, msg string) (stop func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(out),
		spinner.WithSuffix(" "+successColor.Sprint(msg)),
	)
	s.Start()
	return s.Stop
}
