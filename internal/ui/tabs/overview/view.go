package overview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/components"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/styles"
)

// View renders the overview component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	sections = append(sections, m.renderTitle())

	sections = append(sections, m.renderSummaryCard())

	sections = append(sections, m.renderGoalList())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return m.spinner.ViewCentered(m.width, m.height)
}

// renderTitle renders the overview title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("BookSpring Impact Dashboard")

	subtitleText := "Literacy outcomes across the four strategic goals"
	if bundle := m.state.GetBundle(); bundle != nil {
		subtitleText = fmt.Sprintf("%s · %s · updated %s",
			bundle.Window, models.FiscalYearLabel(time.Now()), formatAge(m.state.TimeSinceUpdate()))
	}
	subtitle := styles.HelpStyle.Render(subtitleText)

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderSummaryCard renders the headline totals for the report window.
func (m *Model) renderSummaryCard() string {
	bundle := m.state.GetBundle()

	cardWidth := max(m.width-6, 40)

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	header := fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Trailing Year"))

	if bundle == nil || !bundle.Summary.HasData() {
		empty := styles.HelpStyle.Render("  No activity records in the window")
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", empty),
		)
	}

	s := bundle.Summary
	cells := []string{
		m.renderSummaryCell("Books Distributed", formatCount(s.Books)),
		m.renderSummaryCell("Children Served", formatCount(s.Children)),
		m.renderSummaryCell("Books per Child", s.BooksPerChild.Format(1)),
		m.renderSummaryCell("Caregivers", formatCount(s.Caregivers)),
		m.renderSummaryCell("Content Views", formatCount(s.ContentViews)),
		m.renderSummaryCell("Warnings", fmt.Sprintf("%d", bundle.WarningCount)),
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", row),
	)
}

func (m *Model) renderSummaryCell(label, value string) string {
	valueStr := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render(value)
	labelStr := styles.HelpStyle.Render(label)

	cell := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)
	return lipgloss.NewStyle().Padding(0, 2).Render(cell)
}

// renderGoalList renders the four strategic goals with their progress bars.
func (m *Model) renderGoalList() string {
	bundle := m.state.GetBundle()

	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Goal Progress")))

	dividerWidth := max(cardWidth-8, 20)
	divider := lipgloss.NewStyle().Foreground(styles.Subtle).Render(
		"  ├" + strings.Repeat("─", dividerWidth) + "┤",
	)

	rows = append(rows, "")

	goals := models.GoalOrder()
	for i, goal := range goals {
		goalRow := m.renderGoalRow(bundle, goal, i == m.selectedIndex, cardWidth-4)
		rows = append(rows, goalRow)
		if i < len(goals)-1 {
			rows = append(rows, "")
			rows = append(rows, divider)
			rows = append(rows, "")
		}
	}

	rows = append(rows, "")
	rows = append(rows, m.renderFiscalYearRow(cardWidth-4))
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderGoalRow(bundle *models.ReportBundle, goal models.GoalCategory, selected bool, width int) string {
	var lines []string

	var progress *models.GoalProgress
	if bundle != nil {
		progress = bundle.ProgressFor(goal)
	}

	lines = append(lines, m.renderGoalHeader(goal, progress, selected))
	lines = append(lines, "")

	contentWidth := max(width-4, 20)

	if progress == nil {
		lines = append(lines, components.SimpleGoalBarLoading(goal.String(), contentWidth, m.animationFrame))
	} else {
		lines = append(lines, m.renderGoalBar(goal, progress, contentWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderGoalHeader(goal models.GoalCategory, progress *models.GoalProgress, selected bool) string {
	selectionPrefix := "  "
	if selected {
		selectionPrefix = styles.FocusedStyle.Render("▸ ")
	}

	name := lipgloss.NewStyle().Bold(true).Render(goal.String())

	badge := ""
	if progress != nil {
		badge = " " + paceBadge(progress.Pace)
	}

	return selectionPrefix + name + badge
}

// paceBadge renders a colored pace indicator, or empty for unpaced goals.
func paceBadge(pace models.PaceStatus) string {
	switch pace {
	case models.PaceCritical:
		return styles.PaceCriticalStyle.Render("▲ CRITICAL")
	case models.PaceWarning:
		return styles.PaceWarningStyle.Render("▲ WARNING")
	case models.PaceSafe:
		return styles.PaceSafeStyle.Render("● SAFE")
	default:
		return ""
	}
}

func (m *Model) renderGoalBar(goal models.GoalCategory, progress *models.GoalProgress, width int) string {
	const (
		indentWidth  = 4
		percentWidth = 6
		actualWidth  = 20
	)

	barWidth := max(width-indentWidth-percentWidth-actualWidth-4, 10)

	displayPercent := progress.Percent
	if anim, ok := m.animations[goal.Key()]; ok {
		displayPercent = anim.CurrentPercent
	}

	bar := components.RenderGradientBar(displayPercent, barWidth)

	percentStr := styles.GetProgressStyle(progress.Percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", displayPercent))

	actualStr := styles.HelpStyle.
		Width(actualWidth).
		Align(lipgloss.Right).
		Render(formatActualTarget(progress))

	return lipgloss.JoinHorizontal(lipgloss.Left,
		"    ",
		bar,
		" ",
		percentStr,
		" ",
		actualStr,
	)
}

// renderFiscalYearRow renders how far through the fiscal year we are, so the
// paced goals can be read against elapsed time.
func (m *Model) renderFiscalYearRow(width int) string {
	label := lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true).Render("Fiscal Year")
	icon := lipgloss.NewStyle().Foreground(styles.Secondary).Render("◷")
	header := fmt.Sprintf("  %s %s %s", icon, label, styles.HelpStyle.Render(models.FiscalYearLabel(time.Now())))

	contentWidth := max(width-4, 20)
	bar := m.fyBar.ViewWithLabel(time.Now(), "   ", contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, header, bar)
}

// formatActualTarget renders "actual / target" scaled to the metric.
func formatActualTarget(p *models.GoalProgress) string {
	if p.Target < 100 {
		return fmt.Sprintf("%.1f / %.1f", p.Actual, p.Target)
	}
	return fmt.Sprintf("%s / %s", formatCount(p.Actual), formatCount(p.Target))
}

// formatAge renders the time since the last refresh.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// formatCount renders a count compactly: 1234 -> 1.2k, 1500000 -> 1.5M.
func formatCount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 10_000:
		return fmt.Sprintf("%.0fk", v/1_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
