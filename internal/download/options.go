package download

import (
	"fmt"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

// DefaultPlaylistFolder is used when a playlist title has no usable characters
const DefaultPlaylistFolder = "Playlist"

// Options is the yt-dlp option set for one run. Nil flags are unset, so Merge can
// tell an explicit false from a missing value.
type Options struct {
	OutputTemplate    string
	Format            string
	MergeOutputFormat string
	ExtractAudio      *bool
	AudioFormat       string
	AudioQuality      string
	WriteThumbnail    *bool
	WriteInfoJSON     *bool
	IgnoreErrors      *bool
	Quiet             *bool
	NoWarnings        *bool
	FlatPlaylist      *bool
	SkipDownload      *bool
	DumpSingleJSON    *bool
	RestrictFilenames *bool
	Proxy             string
}

// Bool returns a pointer for Options flags
func Bool(v bool) *bool {
	return &v
}

func enabled(b *bool) bool {
	return b != nil && *b
}

// IsAudio reports whether the options extract audio only
func (o Options) IsAudio() bool {
	return enabled(o.ExtractAudio)
}

// Merge returns base with every field set in user applied on top
func Merge(base, user Options) Options {
	out := base
	mergeString(&out.OutputTemplate, user.OutputTemplate)
	mergeString(&out.Format, user.Format)
	mergeString(&out.MergeOutputFormat, user.MergeOutputFormat)
	mergeString(&out.AudioFormat, user.AudioFormat)
	mergeString(&out.AudioQuality, user.AudioQuality)
	mergeString(&out.Proxy, user.Proxy)
	mergeBool(&out.ExtractAudio, user.ExtractAudio)
	mergeBool(&out.WriteThumbnail, user.WriteThumbnail)
	mergeBool(&out.WriteInfoJSON, user.WriteInfoJSON)
	mergeBool(&out.IgnoreErrors, user.IgnoreErrors)
	mergeBool(&out.Quiet, user.Quiet)
	mergeBool(&out.NoWarnings, user.NoWarnings)
	mergeBool(&out.FlatPlaylist, user.FlatPlaylist)
	mergeBool(&out.SkipDownload, user.SkipDownload)
	mergeBool(&out.DumpSingleJSON, user.DumpSingleJSON)
	mergeBool(&out.RestrictFilenames, user.RestrictFilenames)
	return out
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeBool(dst **bool, v *bool) {
	if v != nil {
		*dst = Bool(*v)
	}
}

// Apply sets the options on a go-ytdlp command
func (o Options) Apply(dl *ytdlp.Command) *ytdlp.Command {
	if o.OutputTemplate != "" {
		dl.Output(o.OutputTemplate)
	}
	if o.Format != "" {
		dl.Format(o.Format)
	}
	if o.MergeOutputFormat != "" {
		dl.MergeOutputFormat(o.MergeOutputFormat)
	}
	if enabled(o.ExtractAudio) {
		dl.ExtractAudio()
		if o.AudioFormat != "" {
			dl.AudioFormat(o.AudioFormat)
		}
		if o.AudioQuality != "" {
			dl.AudioQuality(o.AudioQuality)
		}
	}
	if enabled(o.WriteThumbnail) {
		dl.WriteThumbnail()
	}
	if enabled(o.WriteInfoJSON) {
		dl.WriteInfoJSON()
	}
	if enabled(o.IgnoreErrors) {
		dl.IgnoreErrors()
	}
	if enabled(o.Quiet) {
		dl.Quiet()
	}
	if enabled(o.NoWarnings) {
		dl.NoWarnings()
	}
	if enabled(o.FlatPlaylist) {
		dl.FlatPlaylist()
	}
	if enabled(o.SkipDownload) {
		dl.SkipDownload()
	}
	if enabled(o.DumpSingleJSON) {
		dl.DumpSingleJSON()
	}
	if enabled(o.RestrictFilenames) {
		dl.RestrictFilenames()
	}
	if o.Proxy != "" {
		dl.Proxy(o.Proxy)
	}
	return dl
}

// Profile holds the configurable parts of the option mapping
type Profile struct {
	Directory        string
	FilenameTemplate string
	MergeFormat      string
	AudioQuality     string
	WriteThumbnail   bool
	WriteInfoJSON    bool
	Proxy            string
}

// DefaultProfile matches the built-in configuration
func DefaultProfile() Profile {
	return ProfileFromConfig(config.Default().Download())
}

// ProfileFromConfig maps the download config section onto a Profile
func ProfileFromConfig(cfg config.DownloadConfig) Profile {
	p := Profile{
		Directory:        cfg.Directory,
		FilenameTemplate: cfg.FilenameTemplate,
		MergeFormat:      cfg.MergeFormat,
		AudioQuality:     cfg.AudioQuality,
		WriteThumbnail:   cfg.WriteThumbnail,
		WriteInfoJSON:    cfg.WriteInfoJSON,
		Proxy:            cfg.Proxy,
	}
	if p.FilenameTemplate == "" {
		p.FilenameTemplate = "%(title)s [%(id)s]"
	}
	if p.MergeFormat == "" {
		p.MergeFormat = "mp4"
	}
	if p.AudioQuality == "" {
		p.AudioQuality = "192"
	}
	return p
}

// outputTemplate nests each item in its own folder named like the file
func (p Profile) outputTemplate(dir string) string {
	return filepath.Join(dir, p.FilenameTemplate, p.FilenameTemplate+".%(ext)s")
}

// Base returns the options every download starts from
func (p Profile) Base(outputDir string) Options {
	if outputDir == "" {
		outputDir = p.Directory
	}
	return Options{
		OutputTemplate: p.outputTemplate(outputDir),
		WriteThumbnail: Bool(p.WriteThumbnail),
		WriteInfoJSON:  Bool(p.WriteInfoJSON),
		IgnoreErrors:   Bool(true),
		Quiet:          Bool(true),
		NoWarnings:     Bool(true),
		Proxy:          p.Proxy,
	}
}

// Build returns the request specific options. info may be nil when metadata was not fetched.
func (p Profile) Build(info *model.MediaInfo, req model.Request) (Options, error) {
	kind := req.Kind
	if !kind.Valid() {
		kind = model.KindVideo
	}
	qualityID := req.QualityID
	if qualityID == "" {
		qualityID = model.DefaultQuality(kind)
	}
	quality, ok := model.FindQuality(kind, qualityID)
	if !ok {
		return Options{}, fmt.Errorf("%w: %s %q", ErrUnknownQuality, kind, qualityID)
	}

	dir := req.OutputDir
	if dir == "" {
		dir = p.Directory
	}

	var opts Options
	if info != nil && info.IsPlaylist {
		folder := platform.SanitizeFolderName(info.Title)
		if folder == "" {
			folder = DefaultPlaylistFolder
		}
		opts.OutputTemplate = p.outputTemplate(filepath.Join(dir, folder))
	} else if req.OutputDir != "" {
		opts.OutputTemplate = p.outputTemplate(dir)
	}

	switch kind {
	case model.KindAudio:
		opts.Format = model.BestAudioFormat
		opts.ExtractAudio = Bool(true)
		opts.AudioFormat = quality.Value
		opts.AudioQuality = p.AudioQuality
	default:
		opts.Format = quality.Value
		opts.MergeOutputFormat = p.MergeFormat
	}

	return opts, nil
}

// BaseOptions returns the default base options for outputDir
func BaseOptions(outputDir string) Options {
	return DefaultProfile().Base(outputDir)
}

// BuildOptions returns the default request options for info and req
func BuildOptions(info *model.MediaInfo, req model.Request) (Options, error) {
	return DefaultProfile().Build(info, req)
}

// InfoOptions are used to fetch metadata without downloading
func InfoOptions(proxy string) Options {
	return Options{
		Quiet:          Bool(true),
		NoWarnings:     Bool(true),
		FlatPlaylist:   Bool(true),
		SkipDownload:   Bool(true),
		DumpSingleJSON: Bool(true),
		Proxy:          proxy,
	}
}
