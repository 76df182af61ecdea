package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/bookspring/impact-dashboard-tui/internal/ui/styles"
	"github.com/bookspring/impact-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())

	sections = append(sections, m.renderConfigCard())

	sections = append(sections, m.renderDataCard())

	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		rows = append(rows, m.renderConfigRow("API Base", m.config.APIBase))
		rows = append(rows, m.renderConfigRow("Activity App", m.config.Apps.ActivityReports))
		rows = append(rows, m.renderConfigRow("Legacy App", m.config.Apps.LegacyData))
		rows = append(rows, m.renderConfigRow("Views App", m.config.Apps.ContentViews))
		rows = append(rows, m.renderConfigRow("Books App", m.config.Apps.OriginalBooks))
		rows = append(rows, m.renderConfigRow("Partners App", m.config.Apps.PartnerSites))
		rows = append(rows, m.renderConfigRow("Goals File", m.config.GoalsPath))
		rows = append(rows, m.renderConfigRow("Refresh", m.config.RefreshInterval.String()))
		rows = append(rows, m.renderConfigRow("Legacy Cutoff", m.config.LegacyCutoff.Format("2006-01-02")))
		rows = append(rows, m.renderConfigRow("Notifications", fmt.Sprintf("%t", m.config.Notifications)))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderDataCard renders the loaded-data summary, including schema warnings.
func (m *Model) renderDataCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Data"))
	rows = append(rows, "")

	bundle := m.state.GetBundle()
	if bundle == nil {
		rows = append(rows, styles.HelpStyle.Render("No data loaded yet"))
	} else {
		rows = append(rows, m.renderConfigRow("Generated", bundle.GeneratedAt.Format("2006-01-02 15:04:05")))
		rows = append(rows, m.renderConfigRow("Window", bundle.Window.String()))
		rows = append(rows, m.renderConfigRow("Records", fmt.Sprintf("%d", bundle.RecordCount)))
		rows = append(rows, m.renderConfigRow("Legacy Records", fmt.Sprintf("%d", bundle.LegacyCount)))
		rows = append(rows, m.renderConfigRow("Schema Warnings", fmt.Sprintf("%d", bundle.WarningCount)))

		if bundle.WarningCount > 0 {
			rows = append(rows, "")
			limit := min(len(bundle.Warnings), 5)
			for _, w := range bundle.Warnings[:limit] {
				line := fmt.Sprintf("%s: %s (%s)", w.Source, w.Field, w.Reason)
				rows = append(rows, styles.WarningTextStyle.Render("  ⚠ "+line))
			}
			if len(bundle.Warnings) > limit {
				rows = append(rows, styles.HelpStyle.Render(
					fmt.Sprintf("  … and %d more", len(bundle.Warnings)-limit)))
			}
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About Impact Dashboard"))
	rows = append(rows, "")

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
