package utils

import (
	"fmt"
	"strings"
	"time"

	"ticket-bot/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryLabel is the display name of a ticket category.
func CategoryLabel(c model.Category) string {
	// Casers keep state and cannot be shared between goroutines.
	return cases.Title(language.English).String(string(c))
}

// FormatDuration renders d as "1d 2h 3m", dropping leading zero units.
// Durations under a minute are shown in seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))
	return strings.Join(parts, " ")
}

// Mention formats a user mention.
func Mention(userID string) string {
	if userID == "" {
		return "-"
	}
	return "<@" + userID + ">"
}
