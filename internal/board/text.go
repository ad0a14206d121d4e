package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const textCellWidth = 20

var (
	headerStyle = lipgloss.NewStyle().
			Width(textCellWidth).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#060CE9")).
			Border(lipgloss.NormalBorder())

	cellStyle = lipgloss.NewStyle().
			Width(textCellWidth).
			Height(3).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#FFCC00")).
			Border(lipgloss.NormalBorder())
)

// RenderText lays a board out as a grid of boxes for a terminal.
// Titles are upper-cased; rows shorter than the title row are left short.
func RenderText(titles []string, rows [][]string) string {
	if len(titles) == 0 {
		return ""
	}

	heads := make([]string, 0, len(titles))
	for _, h := range titles {
		heads = append(heads, headerStyle.Render(strings.ToUpper(h)))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, heads...)}

	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, cellStyle.Render(c))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
