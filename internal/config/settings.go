package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/yt-grabber/internal/model"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyMediaKind          = "media_kind"
	KeyVideoQuality       = "video_quality"
	KeyAudioFormat        = "audio_format"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

const DefaultAutoRevealComplete = false

// Settings keeps the GUI's last choices in Fyne preferences.
// Values not yet stored fall back to the loaded Config.
type Settings struct {
	app      fyne.App
	defaults DownloadConfig
	language string
}

// NewSettings creates a new settings manager. cfg may be nil.
func NewSettings(app fyne.App, cfg *Config) *Settings {
	s := &Settings{app: app}
	if cfg == nil {
		cfg = Default()
	}
	s.defaults = cfg.Download()
	s.language = cfg.Interface().Language
	return s
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		dir = s.defaults.Directory
		if dir == "" {
			dir = "downloads"
		}
		s.SetDownloadDirectory(dir)
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMediaKind returns the last selected media kind
func (s *Settings) GetMediaKind() model.MediaKind {
	kind, err := model.ParseMediaKind(s.app.Preferences().String(KeyMediaKind))
	if err != nil {
		if s.defaults.Kind.Valid() {
			return s.defaults.Kind
		}
		return model.KindVideo
	}
	return kind
}

func (s *Settings) SetMediaKind(kind model.MediaKind) {
	s.app.Preferences().SetString(KeyMediaKind, kind.String())
}

// GetQuality returns the last preset chosen for kind, or the configured default
func (s *Settings) GetQuality(kind model.MediaKind) string {
	id := s.app.Preferences().String(qualityKey(kind))
	if _, ok := model.FindQuality(kind, id); ok {
		return id
	}
	if id = s.defaults.QualityFor(kind); id != "" {
		if _, ok := model.FindQuality(kind, id); ok {
			return id
		}
	}
	return model.DefaultQuality(kind)
}

// SetQuality stores the preset for kind; unknown IDs are ignored
func (s *Settings) SetQuality(kind model.MediaKind, id string) {
	if _, ok := model.FindQuality(kind, id); !ok {
		return
	}
	s.app.Preferences().SetString(qualityKey(kind), id)
}

func qualityKey(kind model.MediaKind) string {
	if kind == model.KindAudio {
		return KeyAudioFormat
	}
	return KeyVideoQuality
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		if s.language != "" {
			return s.language
		}
		return "en"
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to open the folder once a download completes
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// Download returns the configured download section with the GUI's stored choices applied
func (s *Settings) Download() DownloadConfig {
	d := s.defaults
	d.Directory = s.GetDownloadDirectory()
	d.Kind = s.GetMediaKind()
	d.VideoQuality = s.GetQuality(model.KindVideo)
	d.AudioFormat = s.GetQuality(model.KindAudio)
	return d
}
