package cli

import (
	"fmt"
	"strings"
	"time"

	apperrors "roombook/pkg/errors"
)

const displayLayout = "2006-01-02 15:04"

// inputLayouts are tried in order. Layouts without a zone are read as UTC.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseTime(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("--%s is required", flag))
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.InvalidInput(
		fmt.Sprintf("--%s %q is not a valid time, use YYYY-MM-DDTHH:MM or RFC3339", flag, value))
}

// formatDuration renders d as "2h 30m", or "45m" under an hour.
func formatDuration(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(displayLayout)
}
