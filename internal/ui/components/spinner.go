package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bookspring/impact-dashboard-tui/internal/ui/styles"
)

// defaultRefreshLabel is shown when a tab does not name what it loads.
const defaultRefreshLabel = "Loading impact data..."

// RefreshSpinner is the loading indicator shown while a Fusioo pipeline run
// is in flight. The label names what the run is loading for the active tab.
type RefreshSpinner struct {
	spinner spinner.Model
	label   string
	style   lipgloss.Style
}

// NewRefreshSpinner creates a spinner with the given label. An empty label
// falls back to the generic impact-data one.
func NewRefreshSpinner(label string) RefreshSpinner {
	if label == "" {
		label = defaultRefreshLabel
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return RefreshSpinner{
		spinner: s,
		label:   label,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Init starts the spinner tick loop.
func (r RefreshSpinner) Init() tea.Cmd {
	return r.spinner.Tick
}

// Update handles spinner tick messages.
func (r RefreshSpinner) Update(msg tea.Msg) (RefreshSpinner, tea.Cmd) {
	var cmd tea.Cmd
	r.spinner, cmd = r.spinner.Update(msg)
	return r, cmd
}

// Label returns the label the spinner renders.
func (r RefreshSpinner) Label() string {
	return r.label
}

// View renders the spinner glyph and its label.
func (r RefreshSpinner) View() string {
	return r.spinner.View() + " " + r.style.Render(r.label)
}

// ViewCentered renders the spinner centered in the given area, the way tabs
// fill their body while the first refresh runs.
func (r RefreshSpinner) ViewCentered(width, height int) string {
	return styles.CenterBoth(r.View(), width, height)
}
