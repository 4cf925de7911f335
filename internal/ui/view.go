package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/logsheet/internal/hos"
)

const (
	defaultWidth = 100
	labelWidth   = 10
	minTrack     = 24
	maxTrack     = 96

	filledCell = '█'
	emptyCell  = '·'
)

func newTable(width int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns(width)),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color("25"))
	t.SetStyles(styles)
	return t
}

func tableColumns(width int) []table.Column {
	remarks := width - (10 + 7 + 7 + 9 + 5) - 12
	if remarks < 12 {
		remarks = 12
	}
	return []table.Column{
		{Title: "Status", Width: 10},
		{Title: "Start", Width: 7},
		{Title: "End", Width: 7},
		{Title: "Duration", Width: 9},
		{Title: "Graph", Width: 5},
		{Title: "Remarks", Width: remarks},
	}
}

func tableHeight(windowHeight int) int {
	// Everything above and below the table takes roughly 22 lines.
	height := windowHeight - 22
	if height < 4 {
		return 4
	}
	return height
}

func tableRows(sheet hos.Sheet) []table.Row {
	rows := make([]table.Row, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		drawn := "yes"
		if !row.Drawn {
			drawn = "-"
		}
		rows = append(rows, table.Row{row.Label, row.Start, row.End, row.Duration, drawn, row.Remarks})
	}
	return rows
}

func trackCells(width int) int {
	cells := width - labelWidth - 4
	if cells < minTrack {
		return minTrack
	}
	if cells > maxTrack {
		return maxTrack
	}
	return cells
}

// graphRows rasterizes the day's bars into one line of cells per status row.
// A bar always covers at least one cell so short intervals stay visible.
func graphRows(sheet hos.Sheet, cells int) [][]rune {
	rows := make([][]rune, len(hos.Statuses))
	for i := range rows {
		rows[i] = []rune(strings.Repeat(string(emptyCell), cells))
	}
	for _, bar := range sheet.Bars {
		if bar.Row < 0 || bar.Row >= len(rows) {
			continue
		}
		start := int(math.Round(bar.Offset / 100 * float64(cells)))
		end := int(math.Round((bar.Offset + bar.Width) / 100 * float64(cells)))
		if end <= start && bar.Width > 0 {
			end = start + 1
		}
		if start >= cells {
			start = cells - 1
		}
		if end > cells {
			end = cells
		}
		for c := start; c < end; c++ {
			rows[bar.Row][c] = filledCell
		}
	}
	return rows
}

// hourAxis labels every sixth hour above the track.
func hourAxis(cells int) string {
	axis := []rune(strings.Repeat(" ", cells+3))
	for hour := 0; hour <= 24; hour += 6 {
		label := fmt.Sprintf("%d", hour)
		col := hour * cells / 24
		if col+len(label) > len(axis) {
			col = len(axis) - len(label)
		}
		copy(axis[col:], []rune(label))
	}
	return strings.TrimRight(string(axis), " ")
}

func renderGraph(sheet hos.Sheet, width int) string {
	cells := trackCells(width)
	rows := graphRows(sheet, cells)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	b.WriteString(subtleStyle.Render(hourAxis(cells)))
	for i, status := range hos.Statuses {
		b.WriteByte('\n')
		b.WriteString(fmt.Sprintf("%-*s", labelWidth, status.Label()))
		b.WriteString(styleTrack(rows[i], status))
	}
	return graphStyle.Render(b.String())
}

// PlainGraph renders the duty graph without colour: the hour axis followed by
// one line per status row.
func PlainGraph(sheet hos.Sheet, cells int) []string {
	rows := graphRows(sheet, cells)
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Repeat(" ", labelWidth)+hourAxis(cells))
	for i, status := range hos.Statuses {
		lines = append(lines, fmt.Sprintf("%-*s%s", labelWidth, status.Label(), string(rows[i])))
	}
	return lines
}

func styleTrack(cells []rune, status hos.Status) string {
	style := barStyle(status)
	var b strings.Builder
	run := []rune{}
	filled := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if filled {
			b.WriteString(style.Render(string(run)))
		} else {
			b.WriteString(subtleStyle.Render(string(run)))
		}
		run = run[:0]
	}
	for _, cell := range cells {
		isFilled := cell == filledCell
		if isFilled != filled {
			flush()
			filled = isFilled
		}
		run = append(run, cell)
	}
	flush()
	return b.String()
}

func renderTabs(sheet hos.Sheet) string {
	if sheet.Empty() {
		return subtleStyle.Render("(no dates)")
	}
	tabs := make([]string, 0, len(sheet.Dates))
	for _, date := range sheet.Dates {
		if date == sheet.Date {
			tabs = append(tabs, activeTabStyle.Render(date))
		} else {
			tabs = append(tabs, tabStyle.Render(date))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderSummary(summary hos.Summary) string {
	lines := make([]string, 0, len(summary.Lines)+1)
	for _, line := range summary.Lines {
		lines = append(lines, fmt.Sprintf("%-9s %s", summaryLabel(line.Status), line.Total))
	}
	lines = append(lines, fmt.Sprintf("%-9s %s   Work %s", "Total", summary.Day, summary.Work))
	return summaryStyle.Render(strings.Join(lines, "\n"))
}

func summaryLabel(status hos.Status) string {
	label := status.Label()
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Trip %s", m.tripID)
	if m.session != nil {
		title = fmt.Sprintf("Trip %s  %s", m.tripID, m.session.Trip.Title())
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case m.loading && m.session == nil:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading...\n")
	case m.sheet.Empty():
		b.WriteString(subtleStyle.Render("(no log entries)"))
		b.WriteByte('\n')
	default:
		b.WriteString(renderTabs(m.sheet))
		b.WriteString("\n\n")
		b.WriteString(renderGraph(m.sheet, m.width))
		b.WriteString("\n")
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(renderSummary(m.sheet.Summary))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	switch {
	case m.errorLine != "":
		b.WriteString(errorStyle.Render("! " + m.errorLine))
	case m.busy():
		b.WriteString(m.spinner.View())
		b.WriteByte(' ')
		b.WriteString(statusStyle.Render(m.statusLine))
	case m.statusLine != "":
		b.WriteString(statusStyle.Render(m.statusLine))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')

	return b.String()
}
