package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText     lipgloss.Color = "#cdd6f4"
	colorMuted    lipgloss.Color = "#a6adc8"
	colorBorder   lipgloss.Color = "#585b70"
	colorAccent   lipgloss.Color = "#89b4fa"
	colorSuccess  lipgloss.Color = "#a6e3a1"
	colorError    lipgloss.Color = "#f38ba8"
	colorWarn     lipgloss.Color = "#fab387"
	colorTabOff   lipgloss.Color = "#7f849c"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	textStyle  = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	dimStyle   = lipgloss.NewStyle().Foreground(colorTabOff)
	errStyle   = lipgloss.NewStyle().Foreground(colorError)
	okStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	cursorMark = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("▶")

	headerBarStyle = lipgloss.NewStyle().Background(colorMantle).Foreground(colorText)
	appNameStyle   = lipgloss.NewStyle().Background(colorMantle).Foreground(colorAccent).Bold(true).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(colorMantle).
				Foreground(colorTabOff).
				Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	focusedSectionStyle = sectionStyle.BorderForeground(colorAccent)

	toastStyles = map[toastKind]lipgloss.Style{
		toastSuccess: lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface0),
		toastInfo:    lipgloss.NewStyle().Foreground(colorAccent).Background(colorSurface0),
		toastError:   lipgloss.NewStyle().Foreground(colorError).Background(colorSurface0),
	}
	idleBarStyle = lipgloss.NewStyle().Foreground(colorMuted).Background(colorSurface0)
)
