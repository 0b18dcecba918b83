package download

// Package download drives yt-dlp (via github.com/lrstanley/go-ytdlp): it builds the
// option set for a request, fetches metadata, runs downloads with progress callbacks
// and manages a queue of parallel download tasks.
