package trends

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bookspring/impact-dashboard-tui/internal/metrics"
	"github.com/bookspring/impact-dashboard-tui/internal/report"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/components"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/styles"
)

// View renders the trends tab.
func (m *Model) View() string {
	if m.loading && m.bundle == nil {
		return m.renderLoading()
	}
	if m.bundle == nil {
		return m.renderEmpty()
	}

	var sections []string

	sections = append(sections,
		m.renderHeader(),
		m.renderBooksChart(),
		m.renderChildrenChart(),
		m.renderProgramBreakdown(),
	)

	if m.bundle.Comparison != nil {
		sections = append(sections, m.renderComparison())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading trend data..."))
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Trends"),
		"",
		styles.HelpStyle.Render("No data loaded yet."),
		styles.HelpStyle.Render("Charts will appear after the first refresh completes."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Trends")

	// Time unit indicator with toggle hint
	unitStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	unitIndicator := unitStyle.Render(fmt.Sprintf("[t] %s", m.unit.Display()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", unitIndicator)

	subtitle := styles.HelpStyle.Render(fmt.Sprintf("Window: %s · %d records (%d legacy)",
		m.bundle.Window, m.bundle.RecordCount, m.bundle.LegacyCount))

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

// renderBooksChart renders the current-vs-legacy book distribution trend.
func (m *Model) renderBooksChart() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Books Distributed by Source")), "")

	current, legacy := report.SourceSplitSeries(m.bundle)
	if len(current.Points) == 0 && len(legacy.Points) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No records in the window"))
	} else {
		chartWidth := max(cardWidth-12, 30)
		chartHeight := 8

		chart := components.RenderSourceSplit(current, legacy, chartWidth, chartHeight,
			fmt.Sprintf("Books per %s", strings.ToLower(m.unit.Display())))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderChildrenChart renders the children-served trend.
func (m *Model) renderChildrenChart() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Children Served")), "")

	series := report.ChildrenSeries(m.bundle)
	if len(series.Points) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No records in the window"))
	} else {
		chartWidth := max(cardWidth-12, 30)
		chartHeight := 8

		chart := components.RenderSeriesChart(series, chartWidth, chartHeight)

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderProgramBreakdown renders books by program as a bar chart.
func (m *Model) renderProgramBreakdown() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Books by Program")), "")

	bd := m.bundle.BreakdownFor(metrics.CategoryProgram)
	if bd == nil || len(bd.Groups) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No program data in the window"))
	} else {
		series := report.BreakdownSeries(*bd, 8)
		chartWidth := max(cardWidth-12, 30)

		chart := components.RenderBreakdownChart(series, chartWidth)
		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderComparison renders the period-over-period deltas.
func (m *Model) renderComparison() string {
	cardWidth := max(m.width-6, 40)
	cmp := m.bundle.Comparison

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Period Comparison")), "")

	rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("  %s  vs  %s", cmp.Window1, cmp.Window2)))
	rows = append(rows, "")

	for _, d := range cmp.Deltas {
		label := styles.HelpStyle.Width(26).Render(report.FriendlyLabel(d.Name))

		value := fmt.Sprintf("%s → %s", d.Period1.Format(0), d.Period2.Format(0))

		change := ""
		if d.Period1.Defined && d.Period2.Defined {
			changeStyle := styles.SuccessTextStyle
			arrow := "▲"
			if d.Delta < 0 {
				changeStyle = styles.ErrorTextStyle
				arrow = "▼"
			}
			change = changeStyle.Render(fmt.Sprintf("%s %+.1f%%", arrow, d.PctChange))
		}

		rows = append(rows, fmt.Sprintf("  %s %-24s %s", label, value, change))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
