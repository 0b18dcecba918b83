package cmd

import (
	"context"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/history"
	"github.com/ytget/yt-grabber/internal/locale"
	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/platform"
)

// deps holds what every download command needs
type deps struct {
	cfg     *config.Config
	log     logger.Logger
	loc     *locale.Localizer
	history *history.Store // nil when disabled or unavailable
	handler *download.Handler
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		if err := cfg.Set(config.LOGGING_LEVEL, "debug"); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, quiet bool) logger.Logger {
	return logger.NewLogrusLogger(cfg.Log().LoggerOptions(quiet))
}

// newDeps loads the configuration and builds the handler. quiet keeps logs off the console.
func newDeps(ctx context.Context, quiet bool) (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg, quiet)
	log.WithField("config", cfg.Path()).Debug("Configuration loaded")

	loc, err := locale.NewLocalizer(cfg.Interface().Language)
	if err != nil {
		log.WithError(err).Warn("Unsupported interface language, using English")
		loc = locale.MustLocalizer(locale.DefaultLanguage)
	}

	if cfg.Ytdlp().AutoInstall {
		if err := download.EnsureInstalled(ctx, log); err != nil {
			return nil, err
		}
	}

	d := &deps{cfg: cfg, log: log, loc: loc}

	if h := cfg.History(); h.Enabled {
		store, err := history.Open(ctx, h.DSN, log)
		if err != nil {
			log.WithError(err).Warn("Download history disabled")
		} else {
			d.history = store
		}
	}

	d.handler = d.newHandler(download.ProfileFromConfig(cfg.Download()))
	return d, nil
}

func (d *deps) newHandler(profile download.Profile) *download.Handler {
	opts := []download.HandlerOption{
		download.WithProfile(profile),
		download.WithInfoTimeout(d.cfg.Ytdlp().InfoTimeout),
		download.WithPlaylistLister(platform.NewPlaylistLister()),
	}
	if d.history != nil {
		opts = append(opts, download.WithRecorder(d.history))
	}
	return download.NewHandler(download.NewExtractor(), d.log, opts...)
}

func (d *deps) Close() {
	if d.history != nil {
		if err := d.history.Close(); err != nil {
			d.log.WithError(err).Warn("Failed to close history database")
		}
	}
}
