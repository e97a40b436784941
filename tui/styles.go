package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent  lipgloss.Color = "#f5c2e7"
	colorFocus   lipgloss.Color = "#b4befe"
	colorError   lipgloss.Color = "#f38ba8"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorMuted   lipgloss.Color = "#7f849c"
	colorSurface lipgloss.Color = "#45475a"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	infoStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	helpStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	likedStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	cellStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface).Align(lipgloss.Center, lipgloss.Center)
	focusedCellStyle = cellStyle.BorderForeground(colorFocus)
)
