package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	priorityRegex = regexp.MustCompile(`^\+([a-zA-Z0-9]+)$`)
	dueRegex      = regexp.MustCompile(`^due:(.*)$`)
)

// ParsedTask represents a task parsed from --add tokens
type ParsedTask struct {
	Name     string
	Priority int     // 0 when no marker was given
	DueDate  *string // raw value after due:, nil when absent
	Errors   []string
}

// ParseAddArgs splits --add tokens into a name and inline markers.
// Syntax: "Task name words +priority due:VALUE"
//
//	+1, +2, +3, +low, +medium, +high  - Priority
//	due:VALUE                          - Due date (free text or relative, see ResolveDueDate)
//
// Every other token, digits included, belongs to the name.
func ParseAddArgs(tokens []string) ParsedTask {
	result := ParsedTask{
		Errors: []string{},
	}

	var nameParts []string
	for _, token := range tokens {
		if m := priorityRegex.FindStringSubmatch(token); m != nil {
			priority, err := ParsePriority(m[1])
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Invalid priority '%s'. Use: low, medium, high, 1, 2, or 3", m[1]))
				continue
			}
			result.Priority = priority
			continue
		}

		if m := dueRegex.FindStringSubmatch(token); m != nil {
			value := strings.TrimSpace(m[1])
			if value == "" {
				result.Errors = append(result.Errors, "Empty due date after 'due:'")
				continue
			}
			result.DueDate = &value
			continue
		}

		nameParts = append(nameParts, token)
	}

	// Clean up the name (remove extra spaces)
	result.Name = strings.Join(strings.Fields(strings.Join(nameParts, " ")), " ")

	return result
}

// ParsePriority converts a priority word or digit to 1..3
func ParsePriority(priority string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "1", "low":
		return 1, nil
	case "2", "medium", "med":
		return 2, nil
	case "3", "high":
		return 3, nil
	default:
		return 0, fmt.Errorf("invalid priority %q: use low, medium, high, 1, 2, or 3", priority)
	}
}
