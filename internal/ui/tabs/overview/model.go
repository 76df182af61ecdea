// Package overview provides the main overview tab for the impact dashboard.
package overview

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookspring/impact-dashboard-tui/internal/app"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/ui/components"
)

type animationTickMsg time.Time

func animationTickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*40, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// keyMap defines the key bindings specific to the overview tab.
type keyMap struct {
	NextGoal  key.Binding
	PrevGoal  key.Binding
	FirstGoal key.Binding
	LastGoal  key.Binding
	Refresh   key.Binding
}

// defaultKeyMap returns the default key bindings for the overview tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextGoal: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next goal"),
		),
		PrevGoal: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev goal"),
		),
		FirstGoal: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first goal"),
		),
		LastGoal: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last goal"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// AnimationState tracks the state of an animation.
type AnimationState struct {
	StartTime      time.Time
	CurrentPercent float64
	TargetPercent  float64
	StartPercent   float64
}

// Model represents the overview tab state.
type Model struct {
	state          *app.State
	animations     map[string]*AnimationState
	spinner        components.RefreshSpinner
	keys           keyMap
	viewport       viewport.Model
	fyBar          components.FiscalYearBar
	width          int
	height         int
	selectedIndex  int
	animationFrame int
}

// New creates a new overview model.
func New(state *app.State) *Model {
	return &Model{
		state:         state,
		spinner:       components.NewRefreshSpinner(""),
		fyBar:         components.NewFiscalYearBar(),
		keys:          defaultKeyMap(),
		selectedIndex: 0,
		viewport:      viewport.New(0, 0),
		animations:    make(map[string]*AnimationState),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), animationTickCmd())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case animationTickMsg:
		cmds = append(cmds, m.handleAnimationTick(msg))

	case app.StartLoadingMsg:
		cmds = append(cmds, animationTickCmd())

	case app.BundleLoadedMsg, app.RefreshResultMsg, app.RefreshMsg, app.ServiceEventMsg:
		m.syncAnimationTargets(time.Now())
		cmds = append(cmds, animationTickCmd())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAnimationTick(msg animationTickMsg) tea.Cmd {
	m.animationFrame++
	now := time.Time(msg)

	animating, hasPendingData := m.syncAnimationTargets(now)
	m.stepAnimations(now)

	shouldTick := animating || m.state.AnyLoading() || m.state.IsInitialLoading() || hasPendingData
	if shouldTick {
		return animationTickCmd()
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	goals := models.GoalOrder()
	goalCount := len(goals)

	switch {
	case key.Matches(msg, m.keys.NextGoal):
		m.selectedIndex = (m.selectedIndex + 1) % goalCount
	case key.Matches(msg, m.keys.PrevGoal):
		m.selectedIndex = (m.selectedIndex - 1 + goalCount) % goalCount
	case key.Matches(msg, m.keys.FirstGoal):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.LastGoal):
		m.selectedIndex = goalCount - 1
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	idx := m.selectedIndex
	return func() tea.Msg {
		return app.SelectedGoalChangedMsg{Index: idx, Goal: goals[idx]}
	}
}

// SetSize sets the available size for the overview.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

func (m *Model) syncAnimationTargets(now time.Time) (animating, hasPendingData bool) {
	bundle := m.state.GetBundle()
	if bundle == nil {
		return false, true
	}

	for i := range bundle.Progress {
		p := &bundle.Progress[i]
		target := p.Percent
		if target < 0 {
			target = 0
		}
		if m.updateAnimationState(p.Goal.Key(), target, now) {
			animating = true
		}
	}

	return animating, false
}

func (m *Model) updateAnimationState(animKey string, target float64, now time.Time) bool {
	state, exists := m.animations[animKey]
	if !exists {
		state = &AnimationState{
			CurrentPercent: 0,
			StartPercent:   0,
			TargetPercent:  0,
			StartTime:      now,
		}
		m.animations[animKey] = state
	}

	if target != state.TargetPercent {
		state.StartPercent = state.CurrentPercent
		state.TargetPercent = target
		state.StartTime = now
	}

	return state.CurrentPercent != state.TargetPercent
}

func (m *Model) stepAnimations(now time.Time) {
	for _, state := range m.animations {
		if state.CurrentPercent != state.TargetPercent {
			elapsed := now.Sub(state.StartTime).Seconds()
			duration := 1.5

			if elapsed >= duration {
				state.CurrentPercent = state.TargetPercent
			} else {
				progress := elapsed / duration
				ease := 1.0 - (1.0-progress)*(1.0-progress)
				state.CurrentPercent = state.StartPercent + (state.TargetPercent-state.StartPercent)*ease
			}
		}
	}
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextGoal,
		m.keys.PrevGoal,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextGoal, m.keys.PrevGoal},
		{m.keys.FirstGoal, m.keys.LastGoal},
		{m.keys.Refresh},
	}
}
