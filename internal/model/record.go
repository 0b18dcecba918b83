package model

import "time"

// DownloadRecord is one finished download attempt kept in history
type DownloadRecord struct {
	ID        int64     `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Kind      MediaKind `json:"kind" yaml:"kind"`
	Quality   string    `json:"quality,omitempty" yaml:"quality,omitempty"`
	OutputDir string    `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Status    string    `json:"status" yaml:"status"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Record statuses
const (
	RecordCompleted = "completed"
	RecordFailed    = "failed"
	// some playlist items were skipped, the rest downloaded
	RecordPartial   = "partial"
	RecordCancelled = "cancelled"
)
