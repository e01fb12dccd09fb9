package console

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/JaimeStill/steward/internal/investigations"
	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/internal/validations"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CCCCCC"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0")).Width(18)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	activeTab    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#5B8DEF"))
	inactiveTab  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func requestStatusStyle(s requests.Status) lipgloss.Style {
	switch s {
	case requests.StatusApproved:
		return okStyle
	case requests.StatusRejected:
		return errorStyle
	}
	return warnStyle
}

func resultStatusStyle(s investigations.Status) lipgloss.Style {
	switch s {
	case investigations.StatusFound:
		return okStyle
	case investigations.StatusError:
		return errorStyle
	case investigations.StatusSearching:
		return warnStyle
	}
	return mutedStyle
}

func checkStatusStyle(s validations.Status) lipgloss.Style {
	switch s {
	case validations.StatusPassed:
		return okStyle
	case validations.StatusFailed:
		return errorStyle
	case validations.StatusWarning:
		return warnStyle
	}
	return mutedStyle
}
