package tui

import "charm.land/lipgloss/v2"

var (
	colorPrimary = lipgloss.Color("#1E40AF")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")
	colorFocus   = lipgloss.Color("#3B82F6")
	colorText    = lipgloss.Color("#F9FAFB")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
	colorInfo    = lipgloss.Color("#06B6D4")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorPrimary).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	sectionFocusedStyle = sectionStyle.
				BorderForeground(colorFocus)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorBorder).
			PaddingLeft(1)

	cardSelectedStyle = cardStyle.
				BorderForeground(colorFocus)

	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)
)

var toastStyles = map[string]lipgloss.Style{
	"info":    lipgloss.NewStyle().Foreground(colorText).Background(colorInfo).Padding(0, 1),
	"success": lipgloss.NewStyle().Foreground(colorText).Background(colorSuccess).Padding(0, 1),
	"error":   lipgloss.NewStyle().Foreground(colorText).Background(colorError).Padding(0, 1),
}
