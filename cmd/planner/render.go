package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Flexoki palette
var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
	colorMuted  = lipgloss.Color("#6F6E69")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// levelStyles colors the risk words the engine emits
var levelStyles = map[string]lipgloss.Style{
	"good":        lipgloss.NewStyle().Foreground(colorGreen),
	"healthy":     lipgloss.NewStyle().Foreground(colorGreen),
	"on_track":    lipgloss.NewStyle().Foreground(colorGreen),
	"upcoming":    lipgloss.NewStyle().Foreground(colorGreen),
	"warning":     lipgloss.NewStyle().Foreground(colorOrange),
	"watch":       lipgloss.NewStyle().Foreground(colorOrange),
	"due_soon":    lipgloss.NewStyle().Foreground(colorOrange),
	"due_today":   lipgloss.NewStyle().Foreground(colorOrange),
	"unlinked":    lipgloss.NewStyle().Foreground(colorOrange),
	"critical":    lipgloss.NewStyle().Foreground(colorRed),
	"over":        lipgloss.NewStyle().Foreground(colorRed),
	"overdue":     lipgloss.NewStyle().Foreground(colorRed),
	"unscheduled": mutedStyle,
}

// level renders a risk word in its color, with underscores shown as spaces
func level(word string) string {
	label := strings.ReplaceAll(word, "_", " ")
	if style, ok := levelStyles[word]; ok {
		return style.Render(label)
	}
	return label
}

// rightAligned lists the columns holding numbers
type rightAligned map[int]bool

// renderTable writes a titled, bordered table
func renderTable(w io.Writer, title string, headers []string, rows [][]string, numeric rightAligned) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if numeric[col] {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})

	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, t.Render())
}

// renderPairs writes aligned "label  value" lines
func renderPairs(w io.Writer, pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "  %-*s  %s\n", width, p[0], p[1])
	}
}

// empty writes a muted one-line notice
func empty(w io.Writer, msg string) {
	fmt.Fprintln(w, mutedStyle.Render(msg))
}
