package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
	"github.com/bookspring/impact-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// WindowSizeMsg is sent when the terminal window is resized.
type WindowSizeMsg struct {
	Width  int
	Height int
}

// StartLoadingMsg signals that an operation is starting.
type StartLoadingMsg struct {
	Operation string
}

// StopLoadingMsg signals that an operation has finished.
type StopLoadingMsg struct {
	Operation string
}

// InitialLoadCompleteMsg signals that initial data loading is complete.
type InitialLoadCompleteMsg struct{}

// BundleLoadedMsg carries the cached bundle and targets at startup.
type BundleLoadedMsg struct {
	Bundle  *models.ReportBundle
	Targets models.GoalTargets
}

// RefreshMsg requests a full pipeline refresh.
type RefreshMsg struct{}

// RefreshResultMsg contains the result of a forced refresh.
type RefreshResultMsg struct {
	Bundle *models.ReportBundle
	Error  error
}

// ExportMsg requests an Excel export of the current bundle.
type ExportMsg struct {
	Path string
}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Path    string
	Success bool
	Error   error
}

// SaveTargetsMsg requests persisting edited goal targets.
type SaveTargetsMsg struct {
	Targets models.GoalTargets
}

// SaveTargetsResultMsg contains the result of a targets save.
type SaveTargetsResultMsg struct {
	Targets models.GoalTargets
	Success bool
	Error   error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg requests clearing all notifications.
type ClearNotificationsMsg struct{}

// NotificationAddedMsg confirms a notification was added.
type NotificationAddedMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// QuitMsg requests the application to quit.
type QuitMsg struct{}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// SelectedGoalChangedMsg signals that the selected goal in the UI has changed.
type SelectedGoalChangedMsg struct {
	Index int
	Goal  models.GoalCategory
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}

// BatchMsg contains multiple messages to be processed.
type BatchMsg struct {
	Messages []tea.Msg
}
