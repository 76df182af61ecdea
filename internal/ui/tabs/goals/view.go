package goals

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bookspring/impact-dashboard-tui/internal/metrics"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/report"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/components"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/styles"
)

// View renders the goals tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	sections = append(sections, m.renderTitle())

	if m.editing {
		sections = append(sections, m.renderEditForm())
	} else {
		sections = append(sections, m.renderTable())
		sections = append(sections, m.renderSnapshotCard())
		sections = append(sections, m.renderBreakdownCard())
	}

	sections = append(sections, m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return m.spinner.ViewCentered(m.width, m.height)
}

// renderTitle renders the goals tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Goal Targets")

	targets := m.state.GetTargets()
	subtitle := styles.HelpStyle.Render(fmt.Sprintf(
		"%.1f books/child · %s views · %s books annually",
		targets.BooksPerChild,
		formatTargetValue(targets.ContentViews),
		formatTargetValue(targets.AnnualBooks),
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderTable renders the goal progress table.
func (m *Model) renderTable() string {
	m.updateTableData()

	cardWidth := m.width - 6
	if cardWidth < 60 {
		cardWidth = 60
	}

	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}

// renderSnapshotCard renders the latest metric snapshot for the selected goal.
func (m *Model) renderSnapshotCard() string {
	cardWidth := m.width - 6
	if cardWidth < 40 {
		cardWidth = 40
	}

	goal := m.selectedGoal()

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	header := fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render(goal.String()))

	bundle := m.state.GetBundle()
	if bundle == nil {
		empty := styles.HelpStyle.Render("  No data loaded yet")
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", empty),
		)
	}

	snapshots := bundle.SnapshotsFor(goal)
	if len(snapshots) == 0 {
		empty := styles.HelpStyle.Render("  No snapshot for this goal in the window")
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", empty),
		)
	}

	latest := snapshots[len(snapshots)-1]

	var rows []string
	rows = append(rows, header)
	rows = append(rows, styles.HelpStyle.Render("  "+latest.Period))
	rows = append(rows, "")

	for _, metric := range latest.Metrics {
		label := styles.HelpStyle.Width(28).Render(report.FriendlyLabel(metric.Name))
		var value string
		if metric.Value.Defined {
			decimals := 0
			if metric.Value.Value != math.Trunc(metric.Value.Value) {
				decimals = 1
			}
			value = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render(metric.Value.Format(decimals))
		} else {
			value = styles.UndefinedMetricStyle.Render("n/a")
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// goalBreakdownCategory picks the category chart most relevant to a goal.
func goalBreakdownCategory(goal models.GoalCategory) string {
	switch goal {
	case models.GoalInspireEngagement:
		return metrics.CategoryActivityType
	case models.GoalOptimizeSustainability:
		return metrics.CategoryCounty
	default:
		return metrics.CategoryProgram
	}
}

// renderBreakdownCard renders the category bar chart for the selected goal.
func (m *Model) renderBreakdownCard() string {
	cardWidth := m.width - 6
	if cardWidth < 40 {
		cardWidth = 40
	}

	category := goalBreakdownCategory(m.selectedGoal())

	var rows []string
	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	title := fmt.Sprintf("Books by %s", report.FriendlyLabel(category))
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render(title)), "")

	bundle := m.state.GetBundle()
	var bd *models.CategoryBreakdown
	if bundle != nil {
		bd = bundle.BreakdownFor(category)
	}
	if bd == nil || len(bd.Groups) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No category data in the window"))
	} else {
		series := report.BreakdownSeries(*bd, 6)
		chartWidth := cardWidth - 12
		if chartWidth < 30 {
			chartWidth = 30
		}

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

// renderEditForm renders the target edit form.
func (m *Model) renderEditForm() string {
	cardWidth := m.width - 10
	if cardWidth < 50 {
		cardWidth = 50
	}
	if cardWidth > 80 {
		cardWidth = 80
	}

	var rows []string

	rows = append(rows, styles.CardTitleStyle.Render("Edit Goal Targets"))
	rows = append(rows, "")

	rows = append(rows, m.renderFormField("Books per Child", m.booksPerChildIn, fieldBooksPerChild, cardWidth)...)
	rows = append(rows, m.renderFormField("Content Views", m.contentViewsIn, fieldContentViews, cardWidth)...)
	rows = append(rows, m.renderFormField("Annual Books", m.annualBooksIn, fieldAnnualBooks, cardWidth)...)

	submitStyle := styles.ButtonInactiveStyle
	cancelStyle := styles.ButtonInactiveStyle

	if m.focusedField == fieldSubmit {
		submitStyle = styles.ButtonActiveStyle
	}
	if m.focusedField == fieldCancel {
		cancelStyle = styles.ButtonActiveStyle
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		submitStyle.Render(" Save Targets "),
		"  ",
		cancelStyle.Render(" Cancel "),
	)
	rows = append(rows, buttons)
	rows = append(rows, "")

	rows = append(rows, styles.HelpStyle.Render("Tab: next field | Enter: submit | Esc: cancel"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return styles.ModalContentStyle.Width(cardWidth).Render(content)
}

// renderFormField renders one labeled input with focus styling.
func (m *Model) renderFormField(label string, input interface{ View() string }, field formField, cardWidth int) []string {
	var rows []string

	var labelStr string
	if m.focusedField == field {
		labelStr = styles.FocusedStyle.Render("> " + label + ":")
	} else {
		labelStr = styles.BlurredStyle.Render("  " + label + ":")
	}
	rows = append(rows, labelStr)

	inputStyle := styles.BlurredBorderStyle
	if m.focusedField == field {
		inputStyle = styles.FocusedBorderStyle
	}
	rows = append(rows, inputStyle.Width(cardWidth-10).Render(input.View()))
	rows = append(rows, "")

	return rows
}

// renderFooter renders the footer with keyboard shortcuts.
func (m *Model) renderFooter() string {
	var shortcuts []string

	if m.editing {
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Tab") + " next",
			styles.HelpKeyStyle.Render("Enter") + " submit",
			styles.HelpKeyStyle.Render("Esc") + " cancel",
		}
	} else {
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Enter") + " edit targets",
			styles.HelpKeyStyle.Render("j/k") + " select goal",
			styles.HelpKeyStyle.Render("r") + " refresh",
		}
	}

	footer := ""
	for i, s := range shortcuts {
		if i > 0 {
			footer += styles.HelpSeparatorStyle.Render(" | ")
		}
		footer += s
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(footer)
}
