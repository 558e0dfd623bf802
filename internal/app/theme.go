package app

import "github.com/charmbracelet/lipgloss"

var (
	detailTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	tagLineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	listPaneStyle      = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("238"))
	listLineStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	tagStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	tagActiveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	archivedBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	editorLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true)
)
