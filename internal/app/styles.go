package app

import "github.com/charmbracelet/lipgloss"

// Result styling shared by the run reporters.
var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"})
	styleFailure = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}).Bold(true)
	styleSkipped = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"})
	styleHeader  = lipgloss.NewStyle().Bold(true)
)
