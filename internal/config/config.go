package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

const (
	AppName   = "yt-grabber"
	EnvPrefix = "YTGRABBER_"
)

const (
	DOWNLOAD_DIRECTORY         = "download.directory"
	DOWNLOAD_KIND              = "download.kind"
	DOWNLOAD_VIDEO_QUALITY     = "download.video_quality"
	DOWNLOAD_AUDIO_FORMAT      = "download.audio_format"
	DOWNLOAD_AUDIO_QUALITY     = "download.audio_quality"
	DOWNLOAD_MERGE_FORMAT      = "download.merge_format"
	DOWNLOAD_FILENAME_TEMPLATE = "download.filename_template"
	DOWNLOAD_MAX_PARALLEL      = "download.max_parallel"
	DOWNLOAD_WRITE_THUMBNAIL   = "download.write_thumbnail"
	DOWNLOAD_WRITE_INFO_JSON   = "download.write_info_json"
	DOWNLOAD_PROXY             = "download.proxy"
	YTDLP_AUTO_INSTALL         = "ytdlp.auto_install"
	YTDLP_INFO_TIMEOUT         = "ytdlp.info_timeout"
	INTERFACE_LANGUAGE         = "interface.language"
	LOGGING_LEVEL              = "logging.level"
	LOGGING_WRITE_IN_FILE      = "logging.write_in_file"
	LOGGING_FILE_PATH          = "logging.file_path"
	HISTORY_ENABLED            = "history.enabled"
	HISTORY_DSN                = "history.dsn"
)

// Limits for parallel downloads
const (
	MinParallel = 1
	MaxParallel = 10
)

// Config wraps the layered koanf configuration
type Config struct {
	k    *koanf.Koanf
	path string
}

// Defaults returns the built-in configuration values
func Defaults() map[string]any {
	downloadsDir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		downloadsDir = "downloads"
	}

	return map[string]any{
		DOWNLOAD_DIRECTORY:         downloadsDir,
		DOWNLOAD_KIND:              string(model.KindVideo),
		DOWNLOAD_VIDEO_QUALITY:     model.DefaultVideoQuality,
		DOWNLOAD_AUDIO_FORMAT:      model.DefaultAudioFormat,
		DOWNLOAD_AUDIO_QUALITY:     "192",
		DOWNLOAD_MERGE_FORMAT:      "mp4",
		DOWNLOAD_FILENAME_TEMPLATE: "%(title)s [%(id)s]",
		DOWNLOAD_MAX_PARALLEL:      2,
		DOWNLOAD_WRITE_THUMBNAIL:   true,
		DOWNLOAD_WRITE_INFO_JSON:   true,
		DOWNLOAD_PROXY:             "",
		YTDLP_AUTO_INSTALL:         true,
		YTDLP_INFO_TIMEOUT:         "60s",
		INTERFACE_LANGUAGE:         "en",
		LOGGING_LEVEL:              "warn",
		LOGGING_WRITE_IN_FILE:      false,
		LOGGING_FILE_PATH:          filepath.Join(configDir(), AppName+".log"),
		HISTORY_ENABLED:            true,
		HISTORY_DSN:                filepath.Join(configDir(), "history.db"),
	}
}

// Load reads defaults, then the first config file found, then YTGRABBER_* environment variables.
// An explicit path that does not exist is an error; the search paths are optional.
func Load(explicitPath string) (*Config, error) {
	k, err := newDefaultKoanf()
	if err != nil {
		return nil, err
	}

	var loaded string
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", explicitPath, err)
		}
	}
	for _, path := range SearchPaths(explicitPath) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", path, err)
		}
		loaded = path
		break
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		// YTGRABBER_DOWNLOAD__MAX_PARALLEL -> download.max_parallel
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "__", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	return &Config{k: k, path: loaded}, nil
}

// Default returns a Config holding only the built-in values
func Default() *Config {
	k, err := newDefaultKoanf()
	if err != nil {
		// confmap over a static map does not fail
		panic(err)
	}
	return &Config{k: k}
}

func newDefaultKoanf() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}
	return k, nil
}

// Path returns the config file that was loaded, or "" when running on defaults
func (c *Config) Path() string {
	return c.path
}

// Set overrides a single key, used for command line flags
func (c *Config) Set(key string, value any) error {
	return c.k.Load(confmap.Provider(map[string]any{key: value}, "."), nil)
}

// Marshal renders the effective configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	return c.k.Marshal(toml.Parser())
}

func (c *Config) Download() DownloadConfig {
	kind, err := model.ParseMediaKind(c.k.String(DOWNLOAD_KIND))
	if err != nil {
		kind = model.KindVideo
	}
	return DownloadConfig{
		Directory:        c.k.String(DOWNLOAD_DIRECTORY),
		Kind:             kind,
		VideoQuality:     c.k.String(DOWNLOAD_VIDEO_QUALITY),
		AudioFormat:      c.k.String(DOWNLOAD_AUDIO_FORMAT),
		AudioQuality:     c.k.String(DOWNLOAD_AUDIO_QUALITY),
		MergeFormat:      c.k.String(DOWNLOAD_MERGE_FORMAT),
		FilenameTemplate: c.k.String(DOWNLOAD_FILENAME_TEMPLATE),
		MaxParallel:      ClampParallel(c.k.Int(DOWNLOAD_MAX_PARALLEL)),
		WriteThumbnail:   c.k.Bool(DOWNLOAD_WRITE_THUMBNAIL),
		WriteInfoJSON:    c.k.Bool(DOWNLOAD_WRITE_INFO_JSON),
		Proxy:            c.k.String(DOWNLOAD_PROXY),
	}
}

func (c *Config) Ytdlp() YtdlpConfig {
	timeout := c.k.Duration(YTDLP_INFO_TIMEOUT)
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return YtdlpConfig{
		AutoInstall: c.k.Bool(YTDLP_AUTO_INSTALL),
		InfoTimeout: timeout,
	}
}

func (c *Config) Interface() InterfaceConfig {
	return InterfaceConfig{
		Language: c.k.String(INTERFACE_LANGUAGE),
	}
}

func (c *Config) Log() LoggingConfig {
	return LoggingConfig{
		LogLevel:    c.k.String(LOGGING_LEVEL),
		WriteInFile: c.k.Bool(LOGGING_WRITE_IN_FILE),
		FilePath:    c.k.String(LOGGING_FILE_PATH),
	}
}

func (c *Config) History() HistoryConfig {
	return HistoryConfig{
		Enabled: c.k.Bool(HISTORY_ENABLED),
		DSN:     c.k.String(HISTORY_DSN),
	}
}

// ClampParallel keeps the parallel download count within limits
func ClampParallel(n int) int {
	if n < MinParallel {
		return MinParallel
	}
	if n > MaxParallel {
		return MaxParallel
	}
	return n
}

// SearchPaths lists candidate config files in priority order
func SearchPaths(explicitPath string) []string {
	if explicitPath != "" {
		return []string{explicitPath}
	}
	return []string{
		AppName + ".toml",
		filepath.Join(configDir(), "config.toml"),
	}
}

// DefaultFilePath is where `config init` writes a new file
func DefaultFilePath() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			xdgConfig = dir
		} else {
			home, _ := os.UserHomeDir()
			xdgConfig = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(xdgConfig, AppName)
}
