package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const (
	stateCol = 10
	timeCol  = 10
)

func (m *buildModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	header := m.spinner.View() + " " + m.title
	if m.done {
		header = "done: " + m.title
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameCol := max(m.width-stateCol-timeCol-6, 20)
	for _, row := range m.rows {
		b.WriteString(m.renderRow(row, nameCol))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(m.summary()))
	b.WriteString("\n")
	return b.String()
}

func (m *buildModel) renderRow(row unitRow, nameCol int) string {
	name := truncate(row.path, nameCol)
	line := "  " + stateStyle(row.state).Render(fmt.Sprintf("%*s", stateCol, row.state)) + " " + name
	if row.elapsed > 0 {
		pad := max(nameCol-runewidth.StringWidth(name), 0)
		line += strings.Repeat(" ", pad+1) + fmt.Sprintf("%8.1fms", float64(row.elapsed.Microseconds())/1000)
	}
	line += "\n"
	if row.err != "" {
		line += strings.Repeat(" ", stateCol+3) + errStyle.Render(truncate(row.err, nameCol+timeCol)) + "\n"
	}
	return line
}

func (m *buildModel) summary() string {
	finished, cached, failed := m.counts()
	s := fmt.Sprintf("%d/%d units", finished, len(m.rows))
	if cached > 0 {
		s += fmt.Sprintf(", %d cached", cached)
	}
	if failed > 0 {
		s += fmt.Sprintf(", %d failed", failed)
	}
	return s
}

func stateStyle(s unitState) lipgloss.Style {
	switch s {
	case stateDone, stateCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case stateFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case stateDecoding, stateLowering, stateWriting:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
