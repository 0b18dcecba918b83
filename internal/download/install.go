package download

import (
	"context"
	"fmt"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/logger"
)

// EnsureInstalled downloads or updates the yt-dlp executable into the go-ytdlp cache
func EnsureInstalled(ctx context.Context, log logger.Logger) error {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}

	log.WithFields(logger.Fields{
		"executable": resolved.Executable,
		"version":    resolved.Version,
	}).Debug("yt-dlp ready")
	return nil
}
