package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     = lipgloss.Color("#cdd6f4")
	colorSubtext  = lipgloss.Color("#a6adc8")
	colorLavender = lipgloss.Color("#b4befe")
	colorSapphire = lipgloss.Color("#74c7ec")
	colorGreen    = lipgloss.Color("#a6e3a1")
	colorPeach    = lipgloss.Color("#fab387")
	colorRed      = lipgloss.Color("#f38ba8")
	colorSurface  = lipgloss.Color("#45475a")

	appStyle = lipgloss.NewStyle().Foreground(colorText).Padding(1, 2)

	titleStyle    = lipgloss.NewStyle().Foreground(colorSapphire).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorSubtext)
	hotStyle      = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	successStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)

	statBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface).
		Padding(0, 1).
		MarginRight(1)

	celebrationStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.DoubleBorder()).
				BorderForeground(colorGreen).
				Foreground(colorGreen).
				Bold(true).
				Padding(1, 4)
)
