package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
const (
	colorBase     = "#1e1e2e"
	colorSurface0 = "#313244"
	colorSurface1 = "#45475a"
	colorOverlay0 = "#6c7086"
	colorText     = "#cdd6f4"
	colorSubtext0 = "#a6adc8"
	colorLavender = "#b4befe"
	colorMauve    = "#cba6f7"
	colorRed      = "#f38ba8"
	colorGreen    = "#a6e3a1"
	colorYellow   = "#f9e2af"
	colorTeal     = "#94e2d5"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorMauve))

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color(colorSurface1))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorSubtext0))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGreen))

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorRed))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorOverlay0))

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorLavender)).
			Padding(0, 1)

	pickerMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorTeal)).
				Bold(true)
)
