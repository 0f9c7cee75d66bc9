package tui

import "github.com/charmbracelet/lipgloss"

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	readyStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ade80"))

	heroAccentColor        = lipgloss.Color("#3b82f6")
	heroEmberColor         = lipgloss.Color("#0b1a33")
	heroTextColor          = lipgloss.Color("#e0ecff")
	heroSecondaryTextColor = lipgloss.Color("#93c5fd")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	responseBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3f3f46")).Padding(0, 1)
	emptyCacheStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#15803d")).Padding(0, 1)
	clearFilesStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#b91c1c")).Padding(0, 1)
	sendButtonStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#e4e4e7")).Padding(0, 2)
	sendDisabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1aa")).Background(lipgloss.Color("#3f3f46")).Padding(0, 2)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#020812"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"███████╗  ██████╗    ██████╗  ███████╗   ██████╗   ██████╗   ██╗   ██╗  ████████╗  ",
		"██╔════╝  ██╔══██╗  ██╔════╝  ██╔════╝  ██╔════╝  ██╔═══██╗  ██║   ██║  ╚══██╔══╝  ",
		"███████╗  ██████╔╝  ██║       ███████╗  ██║       ██║   ██║  ██║   ██║     ██║     ",
		"╚════██║  ██╔══██╗  ██║       ╚════██║  ██║       ██║   ██║  ██║   ██║     ██║     ",
		"███████║  ██║  ██║  ╚██████╗  ███████║  ╚██████╗  ╚██████╔╝  ╚██████╔╝     ██║     ",
		"╚══════╝  ╚═╝  ╚═╝   ╚═════╝  ╚══════╝   ╚═════╝   ╚═════╝    ╚═════╝      ╚═╝     ",
	}
)
