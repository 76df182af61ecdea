// Package goals provides the goal target management tab for the impact dashboard.
package goals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bookspring/impact-dashboard-tui/internal/app"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/report"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/components"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/styles"
)

// formField represents which field is currently focused in the edit form.
type formField int

const (
	fieldBooksPerChild formField = iota
	fieldContentViews
	fieldAnnualBooks
	fieldSubmit
	fieldCancel
)

const formFieldCount = 5

// keyMap defines the key bindings specific to the goals tab.
type keyMap struct {
	Edit    key.Binding
	Refresh key.Binding
	Escape  key.Binding
}

// defaultKeyMap returns the default key bindings for the goals tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit targets"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model represents the goals tab state.
type Model struct {
	state           *app.State
	table           table.Model
	width           int
	height          int
	editing         bool
	focusedField    formField
	booksPerChildIn textinput.Model
	contentViewsIn  textinput.Model
	annualBooksIn   textinput.Model
	spinner         components.RefreshSpinner
	keys            keyMap
}

// New creates a new goals model.
func New(state *app.State) *Model {
	booksPerChildIn := textinput.New()
	booksPerChildIn.Placeholder = "4.0"
	booksPerChildIn.CharLimit = 12
	booksPerChildIn.Width = 20

	contentViewsIn := textinput.New()
	contentViewsIn.Placeholder = "1500000"
	contentViewsIn.CharLimit = 12
	contentViewsIn.Width = 20

	annualBooksIn := textinput.New()
	annualBooksIn.Placeholder = "600000"
	annualBooksIn.CharLimit = 12
	annualBooksIn.Width = 20

	columns := []table.Column{
		{Title: "Goal", Width: 24},
		{Title: "Metric", Width: 22},
		{Title: "Actual", Width: 10},
		{Title: "Target", Width: 10},
		{Title: "Progress", Width: 9},
		{Title: "Pace", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(6),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state:           state,
		table:           t,
		booksPerChildIn: booksPerChildIn,
		contentViewsIn:  contentViewsIn,
		annualBooksIn:   annualBooksIn,
		spinner:         components.NewRefreshSpinner("Loading goal progress..."),
		keys:            defaultKeyMap(),
		editing:         false,
		focusedField:    fieldBooksPerChild,
	}
}

// Init initializes the goals tab.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the goals tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	if m.editing {
		return m.updateEditForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Edit):
			m.openEditForm()
			return m, textinput.Blink

		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}

	case app.BundleLoadedMsg, app.RefreshResultMsg, app.SaveTargetsResultMsg, app.ServiceEventMsg:
		m.updateTableData()
	}

	return m, tea.Batch(cmds...)
}

// openEditForm pre-fills the inputs from the current targets.
func (m *Model) openEditForm() {
	targets := m.state.GetTargets()
	m.booksPerChildIn.SetValue(strconv.FormatFloat(targets.BooksPerChild, 'f', -1, 64))
	m.contentViewsIn.SetValue(strconv.FormatFloat(targets.ContentViews, 'f', -1, 64))
	m.annualBooksIn.SetValue(strconv.FormatFloat(targets.AnnualBooks, 'f', -1, 64))

	m.editing = true
	m.focusedField = fieldBooksPerChild
	m.updateFormFocus()
}

// updateEditForm handles the target edit form.
func (m *Model) updateEditForm(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.closeEditForm()
			return m, nil

		case "tab", "down":
			m.focusedField = (m.focusedField + 1) % formFieldCount
			m.updateFormFocus()
			return m, textinput.Blink

		case "shift+tab", "up":
			m.focusedField = (m.focusedField - 1 + formFieldCount) % formFieldCount
			m.updateFormFocus()
			return m, textinput.Blink

		case "enter":
			switch m.focusedField {
			case fieldSubmit:
				return m.submitForm()
			case fieldCancel:
				m.closeEditForm()
				return m, nil
			default:
				m.focusedField = (m.focusedField + 1) % formFieldCount
				m.updateFormFocus()
				return m, textinput.Blink
			}
		}
	}

	var cmd tea.Cmd
	switch m.focusedField {
	case fieldBooksPerChild:
		m.booksPerChildIn, cmd = m.booksPerChildIn.Update(msg)
		cmds = append(cmds, cmd)
	case fieldContentViews:
		m.contentViewsIn, cmd = m.contentViewsIn.Update(msg)
		cmds = append(cmds, cmd)
	case fieldAnnualBooks:
		m.annualBooksIn, cmd = m.annualBooksIn.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submitForm parses the inputs and emits a save request.
func (m *Model) submitForm() (app.Tab, tea.Cmd) {
	targets, err := m.parseForm()
	if err != nil {
		return m, func() tea.Msg {
			return app.AddNotificationMsg{
				Type:    app.NotificationError,
				Message: fmt.Sprintf("Invalid target: %v", err),
			}
		}
	}

	m.closeEditForm()
	return m, func() tea.Msg {
		return app.SaveTargetsMsg{Targets: targets}
	}
}

// parseForm converts the three inputs into a target set.
func (m *Model) parseForm() (models.GoalTargets, error) {
	var targets models.GoalTargets
	var err error

	if targets.BooksPerChild, err = parseTargetValue(m.booksPerChildIn.Value()); err != nil {
		return targets, fmt.Errorf("books per child: %w", err)
	}
	if targets.ContentViews, err = parseTargetValue(m.contentViewsIn.Value()); err != nil {
		return targets, fmt.Errorf("content views: %w", err)
	}
	if targets.AnnualBooks, err = parseTargetValue(m.annualBooksIn.Value()); err != nil {
		return targets, fmt.Errorf("annual books: %w", err)
	}

	return targets, nil
}

// parseTargetValue parses a positive number, tolerating commas.
func parseTargetValue(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return v, nil
}

// closeEditForm blurs all inputs and leaves edit mode.
func (m *Model) closeEditForm() {
	m.editing = false
	m.booksPerChildIn.Blur()
	m.contentViewsIn.Blur()
	m.annualBooksIn.Blur()
}

// updateFormFocus updates which form field is focused.
func (m *Model) updateFormFocus() {
	m.booksPerChildIn.Blur()
	m.contentViewsIn.Blur()
	m.annualBooksIn.Blur()

	switch m.focusedField {
	case fieldBooksPerChild:
		m.booksPerChildIn.Focus()
	case fieldContentViews:
		m.contentViewsIn.Focus()
	case fieldAnnualBooks:
		m.annualBooksIn.Focus()
	}
}

// updateTableData updates the table with current goal progress.
func (m *Model) updateTableData() {
	bundle := m.state.GetBundle()

	rows := make([]table.Row, 0, 4)
	for _, goal := range models.GoalOrder() {
		actual := "-"
		target := "-"
		percent := "-"
		pace := "-"
		metric := ""

		if bundle != nil {
			if p := bundle.ProgressFor(goal); p != nil {
				metric = report.FriendlyLabel(p.Metric)
				actual = formatTargetValue(p.Actual)
				target = formatTargetValue(p.Target)
				percent = fmt.Sprintf("%.0f%%", p.Percent)
				pace = strings.ToUpper(p.Pace.String())
				if p.Pace == models.PaceUnknown {
					pace = "-"
				}
			}
		}

		rows = append(rows, table.Row{
			goal.String(),
			metric,
			actual,
			target,
			percent,
			pace,
		})
	}

	m.table.SetRows(rows)
}

// formatTargetValue formats a goal value for table display.
func formatTargetValue(v float64) string {
	if v < 100 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// selectedGoal returns the goal under the table cursor.
func (m *Model) selectedGoal() models.GoalCategory {
	goals := models.GoalOrder()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(goals) {
		return models.GoalStrengthenImpact
	}
	return goals[idx]
}

// SetSize sets the available size for the goals tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	goalWidth := width - 70
	if goalWidth < 20 {
		goalWidth = 20
	}
	if goalWidth > 26 {
		goalWidth = 26
	}

	columns := []table.Column{
		{Title: "Goal", Width: goalWidth},
		{Title: "Metric", Width: 22},
		{Title: "Actual", Width: 10},
		{Title: "Target", Width: 10},
		{Title: "Progress", Width: 9},
		{Title: "Pace", Width: 10},
	}
	m.table.SetColumns(columns)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			m.keys.Escape,
		}
	}
	return []key.Binding{
		m.keys.Edit,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Edit, m.keys.Refresh},
		{m.keys.Escape},
	}
}
