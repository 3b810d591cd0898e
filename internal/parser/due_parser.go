// Package parser turns command-line text into task fields.
package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format relative due dates resolve to
const DateLayout = "2006-01-02"

var (
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks)$`)
	euDateRegex   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// ResolveDueDate normalizes a due date.
// Supported relative forms resolve to YYYY-MM-DD:
// - today, tomorrow
// - X days (e.g., "3 days", "1 day", "3d")
// - X weeks (e.g., "2 weeks", "1w")
// Anything else is free text and is returned unchanged.
func ResolveDueDate(input string, now time.Time) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("due date must not be empty")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(trimmed) {
	case "today":
		return today.Format(DateLayout), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(DateLayout), nil
	}

	matches := relativeRegex.FindStringSubmatch(strings.ToLower(trimmed))
	if len(matches) != 3 {
		return trimmed, nil
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return "", fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "d", "day", "days":
		if amount < 1 || amount > 365 { // Max 1 year in days
			return "", fmt.Errorf("days must be between 1 and 365")
		}
		return today.AddDate(0, 0, amount).Format(DateLayout), nil
	default:
		if amount < 1 || amount > 52 { // Max 1 year in weeks
			return "", fmt.Errorf("weeks must be between 1 and 52")
		}
		return today.AddDate(0, 0, amount*7).Format(DateLayout), nil
	}
}

// ParseDueDate interprets a stored due date as a calendar day.
// It understands YYYY-MM-DD and dd/mm/yyyy; ok is false for free text.
func ParseDueDate(due string, loc *time.Location) (time.Time, bool) {
	due = strings.TrimSpace(due)
	if t, err := time.ParseInLocation(DateLayout, due, loc); err == nil {
		return t, true
	}

	matches := euDateRegex.FindStringSubmatch(due)
	if len(matches) != 4 {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// Check if date is valid (handles leap years, etc.)
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// DueLabel classifies a due date relative to now for display.
// Free-text due dates return an empty label.
func DueLabel(due *string, now time.Time) string {
	if due == nil {
		return ""
	}
	dueDay, ok := ParseDueDate(*due, now.Location())
	if !ok {
		return ""
	}

	// Calculate calendar days difference
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(math.Round(dueDay.Sub(today).Hours() / 24))

	switch {
	case daysDiff < 0:
		return "OVERDUE"
	case daysDiff == 0:
		return "TODAY"
	case daysDiff == 1:
		return "TOMORROW"
	case daysDiff <= 7:
		return fmt.Sprintf("%dd", daysDiff)
	default:
		return ""
	}
}
