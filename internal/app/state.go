// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different operations.
type LoadingState struct {
	Initial bool
	Refresh bool
	Export  bool
}

// State is the shared application state the tabs read from.
type State struct {
	mu sync.RWMutex

	Bundle            *models.ReportBundle
	Targets           models.GoalTargets
	SelectedGoalIndex int

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{
		Targets:       models.DefaultGoalTargets(),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific operation.
func (s *State) SetLoading(operation string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch operation {
	case "initial":
		s.Loading.Initial = loading
	case "refresh":
		s.Loading.Refresh = loading
	case "export":
		s.Loading.Export = loading
	}
}

// AnyLoading returns true if any operation is currently in flight.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Refresh ||
		s.Loading.Export
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingOperations returns a list of operations currently in flight.
func (s *State) GetLoadingOperations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var operations []string
	if s.Loading.Initial {
		operations = append(operations, "initial")
	}
	if s.Loading.Refresh {
		operations = append(operations, "refresh")
	}
	if s.Loading.Export {
		operations = append(operations, "export")
	}
	return operations
}

// SetBundle stores a freshly assembled report bundle.
func (s *State) SetBundle(bundle *models.ReportBundle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Bundle = bundle
	s.LastUpdated = time.Now()
	s.Loading.Initial = false
}

// GetBundle returns the current report bundle, or nil before the first load.
func (s *State) GetBundle() *models.ReportBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Bundle
}

// HasData returns true once a bundle has been loaded.
func (s *State) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Bundle != nil
}

// WarningCount returns the schema warning count of the current bundle.
func (s *State) WarningCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Bundle == nil {
		return 0
	}
	return s.Bundle.WarningCount
}

// SetTargets stores the current goal targets.
func (s *State) SetTargets(targets models.GoalTargets) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Targets = targets
}

// GetTargets returns the current goal targets.
func (s *State) GetTargets() models.GoalTargets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Targets
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Clear expired inline when reading
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}

// GetSelectedGoalIndex returns the currently selected goal index.
func (s *State) GetSelectedGoalIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedGoalIndex
}

// SetSelectedGoalIndex updates the selected goal index.
func (s *State) SetSelectedGoalIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedGoalIndex = idx
}
