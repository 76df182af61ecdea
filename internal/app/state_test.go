package app

import (
	"testing"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.Bundle != nil {
		t.Error("Bundle should be nil before first load")
	}
	if s.Loading.Initial != true {
		t.Error("Initial loading should be true")
	}
	if s.Targets.BooksPerChild != models.DefaultGoalTargets().BooksPerChild {
		t.Error("Targets should default to DefaultGoalTargets")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("refresh", true)
	if !s.Loading.Refresh {
		t.Error("Refresh loading should be true")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading("refresh", false)
	// Initial is still true
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}

	operations := s.GetLoadingOperations()
	if len(operations) != 0 {
		t.Errorf("GetLoadingOperations should be empty, got %v", operations)
	}

	s.SetLoading("export", true)
	operations = s.GetLoadingOperations()
	if len(operations) != 1 || operations[0] != "export" {
		t.Errorf("GetLoadingOperations should contain export, got %v", operations)
	}
}

func TestState_Bundle(t *testing.T) {
	s := NewState()

	if s.HasData() {
		t.Error("HasData should be false before first load")
	}
	if s.WarningCount() != 0 {
		t.Error("WarningCount should be 0 before first load")
	}

	bundle := &models.ReportBundle{
		RecordCount:  120,
		WarningCount: 3,
	}
	s.SetBundle(bundle)

	if !s.HasData() {
		t.Error("HasData should be true after SetBundle")
	}
	if s.GetBundle() != bundle {
		t.Error("GetBundle did not return the stored bundle")
	}
	if s.WarningCount() != 3 {
		t.Errorf("WarningCount = %d, want 3", s.WarningCount())
	}
	if s.IsInitialLoading() {
		t.Error("SetBundle should clear initial loading")
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestState_Targets(t *testing.T) {
	s := NewState()

	targets := models.GoalTargets{
		BooksPerChild: 5.5,
		ContentViews:  2_000_000,
		AnnualBooks:   750_000,
	}
	s.SetTargets(targets)

	got := s.GetTargets()
	if got.BooksPerChild != 5.5 {
		t.Errorf("BooksPerChild = %v, want 5.5", got.BooksPerChild)
	}
	if got.ContentViews != 2_000_000 {
		t.Errorf("ContentViews = %v, want 2000000", got.ContentViews)
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_NotificationCap(t *testing.T) {
	s := NewState()

	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "n", time.Minute)
	}

	if got := len(s.GetNotifications()); got != 10 {
		t.Errorf("notifications should cap at 10, got %d", got)
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	// Expired
	s.notifications = append(s.notifications, Notification{
		ID:        "expired",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		Duration:  time.Minute,
	})

	// Active
	s.notifications = append(s.notifications, Notification{
		ID:        "active",
		CreatedAt: time.Now(),
		Duration:  time.Minute,
	})

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}
	if notifs[0].Message != "loading..." {
		t.Errorf("Expected message loading..., got %s", notifs[0].Message)
	}

	// Update message
	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestState_SelectedGoalIndex(t *testing.T) {
	s := NewState()

	s.SetSelectedGoalIndex(2)
	if s.GetSelectedGoalIndex() != 2 {
		t.Errorf("GetSelectedGoalIndex = %d, want 2", s.GetSelectedGoalIndex())
	}
}

func TestState_TimeSinceUpdate(t *testing.T) {
	s := NewState()

	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before any update")
	}

	s.SetBundle(&models.ReportBundle{})
	time.Sleep(time.Millisecond)

	if s.TimeSinceUpdate() == 0 {
		t.Error("TimeSinceUpdate should be > 0")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
