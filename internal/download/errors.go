package download

import (
	"errors"

	"github.com/ytget/yt-grabber/internal/platform"
)

var (
	ErrCancelled      = errors.New("download cancelled")
	ErrNoInfo         = errors.New("no media info returned")
	ErrUnknownQuality = errors.New("unknown quality preset")
	ErrEmptyURL       = platform.ErrEmptyURL
	ErrInvalidURL     = platform.ErrInvalidURL
)
