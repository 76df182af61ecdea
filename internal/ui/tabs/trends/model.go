// Package trends provides the trends tab for time-series charts.
package trends

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookspring/impact-dashboard-tui/internal/app"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/services"
)

// keyMap defines the key bindings specific to the trends tab.
type keyMap struct {
	ToggleUnit key.Binding
	Refresh    key.Binding
	Up         key.Binding
	Down       key.Binding
}

// defaultKeyMap returns the default key bindings for the trends tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleUnit: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time unit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// trendsLoadedMsg is sent when the rebucketed bundle is ready.
type trendsLoadedMsg struct {
	bundle *models.ReportBundle
}

// trendsErrorMsg is sent when the trend data cannot be assembled.
type trendsErrorMsg struct {
	err string
}

// Model represents the trends tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	// Current view state
	unit        models.TimeUnit
	bundle      *models.ReportBundle
	loading     bool
	lastRefresh time.Time
	errorMsg    string
}

// New creates a new trends model.
func New(state *app.State, svc *services.Manager) *Model {
	return &Model{
		state:    state,
		services: svc,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		unit:     models.UnitMonth,
	}
}

// Init initializes the trends tab.
func (m *Model) Init() tea.Cmd {
	return m.loadTrendsCmd()
}

// loadTrendsCmd creates a command to rebucket the cached data at the
// selected unit.
func (m *Model) loadTrendsCmd() tea.Cmd {
	return func() tea.Msg {
		if m.services == nil {
			return trendsErrorMsg{err: "Services not initialized"}
		}

		bundle := m.services.BundleFor(m.unit)
		if bundle == nil {
			return trendsErrorMsg{err: "No data loaded yet"}
		}
		return trendsLoadedMsg{bundle: bundle}
	}
}

// Update handles messages for the trends tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case trendsLoadedMsg:
		m.bundle = msg.bundle
		m.loading = false
		m.lastRefresh = time.Now()
		m.errorMsg = ""

	case trendsErrorMsg:
		m.loading = false
		m.errorMsg = msg.err
		if m.bundle != nil {
			// Keep showing the stale chart, just surface the problem.
			cmds = append(cmds, func() tea.Msg {
				return app.AddNotificationMsg{
					Type:     app.NotificationError,
					Message:  fmt.Sprintf("Trends error: %s", msg.err),
					Duration: app.LongNotificationDuration,
				}
			})
		}

	case app.BundleLoadedMsg, app.RefreshResultMsg, app.ServiceEventMsg:
		return m.handleBundleUpdated()

	case app.TabSwitchMsg:
		if msg.Tab == app.TabTrends {
			return m.handleBundleUpdated()
		}

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleBundleUpdated() (app.Tab, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = m.bundle == nil
	return m, m.loadTrendsCmd()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd
	switch {
	case key.Matches(msg, m.keys.ToggleUnit):
		m.unit = m.unit.Next()
		m.loading = true
		cmds = append(cmds, m.loadTrendsCmd())

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		cmds = append(cmds, m.loadTrendsCmd())

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the trends tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleUnit,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleUnit, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
