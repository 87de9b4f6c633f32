package ui

import "fmt"

// StatusColor names a unit-state color in the ANSI256 Ayu palette.
type StatusColor int

const (
	StatusCompleted  StatusColor = 114 // green
	StatusInProgress StatusColor = 74  // blue
	StatusBlocked    StatusColor = 167 // red
	StatusPending    StatusColor = 245 // medium gray
)

const (
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray
)

var noColor bool

// RenderStatus returns s colored for the given unit state.
func RenderStatus(s string, c StatusColor) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", int(c), s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// AutoColor disables color when stdout is not a terminal or the environment
// opts out (NO_COLOR, CLICOLOR). Call it once at command startup.
func AutoColor() {
	if !ShouldUseColor() {
		noColor = true
	}
}
