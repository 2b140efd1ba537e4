package chat

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGreen)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)
)

func label(role Role) string {
	if role == RoleUser {
		return userLabelStyle.Render("you")
	}
	return assistantLabelStyle.Render("bot")
}
