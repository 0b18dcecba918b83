package config

import (
	"strings"
	"time"

	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/model"
)

type DownloadConfig struct {
	Directory        string
	Kind             model.MediaKind
	VideoQuality     string
	AudioFormat      string
	AudioQuality     string
	MergeFormat      string
	FilenameTemplate string
	MaxParallel      int
	WriteThumbnail   bool
	WriteInfoJSON    bool
	Proxy            string
}

// QualityFor returns the configured preset ID for the given kind
func (c DownloadConfig) QualityFor(kind model.MediaKind) string {
	if kind == model.KindAudio {
		return c.AudioFormat
	}
	return c.VideoQuality
}

type YtdlpConfig struct {
	AutoInstall bool
	InfoTimeout time.Duration
}

type InterfaceConfig struct {
	Language string
}

type LoggingConfig struct {
	LogLevel    string
	WriteInFile bool
	FilePath    string
}

func (c LoggingConfig) Level() string {
	return strings.ToLower(c.LogLevel)
}

func (c LoggingConfig) IsDebug() bool {
	return c.Level() == "debug" || c.Level() == "trace"
}

// LoggerOptions converts the section into logger options
func (c LoggingConfig) LoggerOptions(quiet bool) logger.Options {
	return logger.Options{
		Level:       c.Level(),
		WriteInFile: c.WriteInFile,
		FilePath:    c.FilePath,
		Quiet:       quiet,
	}
}

type HistoryConfig struct {
	Enabled bool
	DSN     string
}
