package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/logsheet/internal/hos"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	summaryStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	graphStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))

	// Bar colour per duty status.
	statusColors = map[hos.Status]lipgloss.Color{
		hos.StatusOffDuty: lipgloss.Color("245"),
		hos.StatusSleeper: lipgloss.Color("63"),
		hos.StatusDriving: lipgloss.Color("41"),
		hos.StatusOnDuty:  lipgloss.Color("214"),
	}
)

func barStyle(status hos.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColors[status])
}
