// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/bookspring/impact-dashboard-tui/internal/config"
	"github.com/bookspring/impact-dashboard-tui/internal/fusioo"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/report"
	"github.com/bookspring/impact-dashboard-tui/internal/services/goals"
	"github.com/bookspring/impact-dashboard-tui/internal/services/refresh"
)

type (
	// BundleUpdatedEvent is emitted when a new report bundle is available.
	BundleUpdatedEvent struct {
		Bundle *models.ReportBundle
	}

	// RefreshStartedEvent is emitted when a pipeline run begins.
	RefreshStartedEvent struct{}

	// TargetsChangedEvent is emitted when the goal targets change.
	TargetsChangedEvent struct {
		Targets models.GoalTargets
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (BundleUpdatedEvent) isServiceEvent()  {}
func (RefreshStartedEvent) isServiceEvent() {}
func (TargetsChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu           sync.RWMutex
	cfg          *config.Config
	goals        *goals.Service
	refresh      *refresh.Service
	eventChan    chan ServiceEvent
	stopChan     chan struct{}
	subscribers  []chan<- ServiceEvent
	lastWarnings int
	seenBundle   bool
}

// NewManager creates a new service manager backed by the Fusioo API.
func NewManager(cfg *config.Config) (*Manager, error) {
	clientCfg := fusioo.DefaultConfig()
	clientCfg.AccessToken = cfg.AccessToken
	clientCfg.BaseURL = cfg.APIBase

	return newManager(cfg, fusioo.New(clientCfg))
}

// NewManagerWithFetcher creates a manager over a custom fetcher. Used by
// tests to avoid the network.
func NewManagerWithFetcher(cfg *config.Config, fetcher refresh.Fetcher) (*Manager, error) {
	return newManager(cfg, fetcher)
}

func newManager(cfg *config.Config, fetcher refresh.Fetcher) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}

	var err error
	m.goals, err = goals.New(cfg.GoalsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize goals service: %w", err)
	}

	refreshConfig := refresh.DefaultConfig()
	refreshConfig.Apps = cfg.Apps
	refreshConfig.PollInterval = cfg.RefreshInterval
	refreshConfig.Cutoff = cfg.LegacyCutoff

	m.refresh = refresh.New(fetcher, m.goals, refreshConfig)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.goals.Events():
			m.handleGoalsEvent(event)

		case event := <-m.refresh.Events():
			m.handleRefreshEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleGoalsEvent converts and broadcasts goal target events. A target
// change also triggers a cheap bundle rebuild, which re-enters routeEvents
// as a refresh event.
func (m *Manager) handleGoalsEvent(event goals.Event) {
	switch event.Type {
	case goals.EventTargetsLoaded:
		m.broadcast(TargetsChangedEvent{Targets: event.Targets})

	case goals.EventTargetsChanged:
		m.broadcast(TargetsChangedEvent{Targets: event.Targets})
		go m.refresh.Rebuild()

	case goals.EventError:
		m.broadcast(ErrorEvent{
			Service: "goals",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleRefreshEvent(event refresh.Event) {
	switch event.Type {
	case refresh.EventRefreshing:
		m.broadcast(RefreshStartedEvent{})

	case refresh.EventBundleUpdated:
		m.broadcast(BundleUpdatedEvent{Bundle: event.Bundle})

		if event.Bundle != nil {
			m.checkNotifications(event.Bundle)
		}

	case refresh.EventRefreshError:
		m.broadcast(ErrorEvent{
			Service: "refresh",
			Error:   event.Error,
		})

		if m.cfg != nil && m.cfg.Notifications {
			_ = beeep.Notify("Impact Dashboard", fmt.Sprintf("Data refresh failed: %v", event.Error), "")
		}
	}
}

// checkNotifications raises a desktop notification when a refresh surfaces
// new schema warnings. The first bundle seeds the baseline silently.
func (m *Manager) checkNotifications(bundle *models.ReportBundle) {
	if m.cfg == nil || !m.cfg.Notifications {
		return
	}

	m.mu.Lock()
	seen := m.seenBundle
	previous := m.lastWarnings
	m.seenBundle = true
	m.lastWarnings = bundle.WarningCount
	m.mu.Unlock()

	if !seen {
		return
	}

	if bundle.WarningCount > previous {
		title := "Impact Dashboard: Schema Warnings"
		body := fmt.Sprintf("%d record(s) failed to normalize in the latest refresh", bundle.WarningCount)
		_ = beeep.Notify(title, body, "")
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Bundle returns the most recent report bundle, or nil before the first
// successful refresh.
func (m *Manager) Bundle() *models.ReportBundle {
	return m.refresh.Bundle()
}

// BundleFor reassembles the cached data at a different time unit.
func (m *Manager) BundleFor(unit models.TimeUnit) *models.ReportBundle {
	return m.refresh.BundleFor(unit)
}

// RefreshNow forces a pipeline run and waits for the result.
func (m *Manager) RefreshNow(ctx context.Context) (*models.ReportBundle, error) {
	return m.refresh.Refresh(ctx)
}

// Targets returns the current goal targets.
func (m *Manager) Targets() models.GoalTargets {
	return m.goals.Targets()
}

// SetTargets persists new goal targets and rebuilds the bundle.
func (m *Manager) SetTargets(targets models.GoalTargets) error {
	return m.goals.SetTargets(targets)
}

// DefaultExportPath names the workbook an export lands in when no path is
// given: reports/impact_report_<YYYYMMDD>.xlsx under the working directory.
func DefaultExportPath(now time.Time) string {
	return filepath.Join("reports", fmt.Sprintf("impact_report_%s.xlsx", now.Format("20060102")))
}

// ExportWorkbook writes the current bundle as an Excel workbook. An empty
// path selects the default export path.
func (m *Manager) ExportWorkbook(path string) (string, error) {
	bundle := m.Bundle()
	if bundle == nil {
		return "", fmt.Errorf("no data loaded yet, nothing to export")
	}

	if path == "" {
		path = DefaultExportPath(time.Now())
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := report.WriteWorkbook(bundle, path); err != nil {
		return "", err
	}
	return path, nil
}

// GetStats returns refresh pipeline statistics.
func (m *Manager) GetStats() refresh.Stats {
	return m.refresh.GetStats()
}

// Goals returns the goals service.
func (m *Manager) Goals() *goals.Service {
	return m.goals
}

// Refresh returns the refresh service.
func (m *Manager) Refresh() *refresh.Service {
	return m.refresh
}

// Config returns the application configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.goals.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.refresh.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// InitialState returns the current bundle and targets for TUI initialization.
func (m *Manager) InitialState() (*models.ReportBundle, models.GoalTargets) {
	return m.Bundle(), m.Targets()
}
