package model

// TaskStatus is the lifecycle state of a queued download
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "Pending"
	TaskStatusStarting    TaskStatus = "Starting"
	TaskStatusDownloading TaskStatus = "Downloading"
	// yt-dlp is merging formats or extracting audio
	TaskStatusProcessing TaskStatus = "Processing"
	TaskStatusStopping   TaskStatus = "Stopping"
	TaskStatusStopped    TaskStatus = "Stopped"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusError      TaskStatus = "Error"
)

type statusTraits struct {
	active   bool
	finished bool
	symbol   string
}

var statusTable = map[TaskStatus]statusTraits{
	TaskStatusPending:     {symbol: "…"},
	TaskStatusStarting:    {active: true, symbol: "↻"},
	TaskStatusDownloading: {active: true, symbol: "↓"},
	TaskStatusProcessing:  {active: true, symbol: "⚙"},
	TaskStatusStopping:    {active: true, symbol: "■"},
	TaskStatusStopped:     {finished: true, symbol: "■"},
	TaskStatusCompleted:   {finished: true, symbol: "✓"},
	TaskStatusError:       {finished: true, symbol: "✗"},
}

func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive reports whether a yt-dlp process is attached to the task
func (ts TaskStatus) IsActive() bool {
	return statusTable[ts].active
}

// IsFinished reports whether the task reached a terminal state
func (ts TaskStatus) IsFinished() bool {
	return statusTable[ts].finished
}

// Symbol is the single glyph shown next to a task in terminal output, "?" for unknown states
func (ts TaskStatus) Symbol() string {
	if t, ok := statusTable[ts]; ok {
		return t.symbol
	}
	return "?"
}
