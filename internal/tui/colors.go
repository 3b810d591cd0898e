package tui

// Color constants for the todo TUI theme
const (
	// Base Colors
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Task names, user input
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Active borders, selected row
	ColorAccentBright = "#A78BFA" // Headers, highlights

	// State Colors
	ColorError   = "#EF4444" // Overdue, high priority, failures
	ColorSuccess = "#22C55E" // Completed tasks
	ColorWarning = "#F59E0B" // Due soon, medium priority
)
