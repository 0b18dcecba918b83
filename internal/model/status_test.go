package model

import "testing"

func TestTaskStatus(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		active   bool
		finished bool
		symbol   string
	}{
		{TaskStatusPending, false, false, "…"},
		{TaskStatusStarting, true, false, "↻"},
		{TaskStatusDownloading, true, false, "↓"},
		{TaskStatusProcessing, true, false, "⚙"},
		{TaskStatusStopping, true, false, "■"},
		{TaskStatusStopped, false, true, "■"},
		{TaskStatusCompleted, false, true, "✓"},
		{TaskStatusError, false, true, "✗"},
		{TaskStatus("Paused"), false, false, "?"},
	}

	for _, test := range tests {
		if got := test.status.IsActive(); got != test.active {
			t.Errorf("%s.IsActive() = %v, expected %v", test.status, got, test.active)
		}
		if got := test.status.IsFinished(); got != test.finished {
			t.Errorf("%s.IsFinished() = %v, expected %v", test.status, got, test.finished)
		}
		if got := test.status.Symbol(); got != test.symbol {
			t.Errorf("%s.Symbol() = %q, expected %q", test.status, got, test.symbol)
		}
	}

	if got := TaskStatusProcessing.String(); got != "Processing" {
		t.Errorf("String() = %s, expected Processing", got)
	}
}
