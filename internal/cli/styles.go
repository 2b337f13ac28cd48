// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)
)

// Successf prints a styled success line to stdout.
func Successf(format string, args ...any) {
	fmt.Println(SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a styled warning line to stdout.
func Warnf(format string, args ...any) {
	fmt.Println(WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints a styled error line to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}
