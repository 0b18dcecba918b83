package platform

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ytget/yt-grabber/internal/model"
)

// SanitizeFolderName keeps letters, digits, spaces, '-' and '_' so a title can be used as a folder name
func SanitizeFolderName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// FormatDuration formats seconds as m:ss or h:mm:ss; zero or negative is N/A
func FormatDuration(seconds float64) string {
	total := int(seconds)
	if total <= 0 {
		return model.NotAvailable
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
