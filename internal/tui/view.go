package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/srcscout/internal/sources"
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	m.refreshViewportIfDirty()
	parts := []string{m.heroView(), m.sessionMeterView(), m.filesPanel()}
	if m.stage == stagePicker {
		parts = append(parts, m.pickerPanel())
	}
	if m.state.Error != "" {
		parts = append(parts, errorStyle.Render(wordwrap.String(m.state.Error, m.wrapWidth(0))))
	}
	if m.state.Response != "" {
		parts = append(parts, m.responsePanel())
	}
	parts = append(parts, m.composerPanel(), helperStyle.Render(capacityWarning))
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	if !m.layout.showLogo() {
		return heroTitleStyle.Render("SrcScout") + "  " + taglineStyle.Render(heroTagline)
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
}

func (m *model) sessionMeterView() string {
	stats := []string{
		fmt.Sprintf("Files %d", len(m.state.Files)),
		fmt.Sprintf("Phase %s", m.state.Phase),
	}
	if m.config.Analyzer != nil {
		stats = append(stats, "Endpoint "+m.config.Analyzer.Endpoint())
	}
	if m.state.CoolingDown() {
		stats = append(stats, "Cooldown "+formatCooldown(m.state.Cooldown))
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) filesPanel() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Source Files"))
	b.WriteRune('\n')
	if len(m.state.Files) == 0 {
		b.WriteString(emptyCacheStyle.Render("No files selected"))
		b.WriteString(helperStyle.Render("  Press Ctrl+O to upload your project's src folder."))
		return b.String()
	}
	b.WriteString(readyStyle.Render(fmt.Sprintf("%d files ready!", len(m.state.Files))))
	b.WriteString(helperStyle.Render(fmt.Sprintf("  %s (%s)", m.state.Root, humanSize(sources.TotalSize(m.state.Files)))))
	b.WriteRune('\n')
	b.WriteString(clearFilesStyle.Render("❌ Clear files"))
	b.WriteString(helperStyle.Render("  Ctrl+X to clear, Ctrl+O to pick another folder."))
	return b.String()
}

func (m *model) pickerPanel() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Select Source Folder"))
	b.WriteRune('\n')
	b.WriteString(m.pathInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Press Enter to select every file under this path, Esc to cancel."))
	return b.String()
}

func (m *model) responsePanel() string {
	body := strings.TrimRight(m.viewport.View(), "\n ")
	return responseBoxStyle.Render(joinNonEmpty([]string{sectionHeaderStyle.Render("Answer"), body}))
}

func (m *model) composerPanel() string {
	button := sendButtonStyle.Render(m.sendLabel())
	if !m.state.CanSubmit() {
		button = sendDisabledStyle.Render(m.sendLabel())
	}
	row := lipgloss.JoinHorizontal(lipgloss.Bottom, m.composer.View(), " ", button)
	return joinNonEmpty([]string{
		sectionHeaderStyle.Render("Question"),
		row,
		helperStyle.Render(m.composerHelpText()),
	})
}

func (m *model) sendLabel() string {
	switch {
	case m.state.CoolingDown():
		return "Wait " + formatCooldown(m.state.Cooldown)
	case m.state.InFlight():
		return m.spinner.View() + " Thinking…"
	default:
		return "Send"
	}
}

func (m *model) composerHelpText() string {
	return "Enter: send • Alt+Enter: newline • Ctrl+O: pick folder • Ctrl+K: keys"
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Enter", "Send question"},
		{"Alt+Enter", "New line"},
		{"Ctrl+O", "Pick folder"},
		{"Ctrl+X", "Clear files"},
		{"PgUp/PgDn", "Scroll answer"},
		{"Ctrl+K", "Toggle cheatsheet"},
		{"Esc", "Cancel picker"},
		{"Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Key Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := logoWidth()
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		lineRunes[i] = []rune(line)
	}
	width += 1
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			if y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}

	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			grid[y][x] = cell{r: r, style: logoFaceStyle}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}

func logoWidth() int {
	width := 0
	for _, line := range logoArtLines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	return width
}
