package ui

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFetch    = "🔍"
	IconFolder   = "📁"
	IconDownload = "⬇️"
	IconCancel   = "❌"
	IconSuccess  = "✅"
	IconWarning  = "⚠️"
	IconVideo    = "🎬"
	IconAudio    = "🎵"
	IconPlaylist = "📋"
)

// Text fragments
const (
	MiddleSeparator = " | "
	DashPlaceholder = "-"
	BusyButtonText  = "..."
)

// ErrorStatusLength is how much of an error message fits in the status label
const ErrorStatusLength = 50

// Window sizing
const (
	WindowWidth  float32 = 550
	WindowHeight float32 = 650
	LabelWidth   float32 = 60
)
