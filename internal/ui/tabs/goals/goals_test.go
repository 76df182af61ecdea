package goals

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookspring/impact-dashboard-tui/internal/app"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func testBundle() *models.ReportBundle {
	return &models.ReportBundle{
		GeneratedAt: time.Now(),
		Window:      models.TrailingYear(time.Now()),
		Progress: []models.GoalProgress{
			{Goal: models.GoalStrengthenImpact, Metric: "avg_books_per_child", Actual: 3.0, Target: 4.0, Percent: 75},
			{Goal: models.GoalInspireEngagement, Metric: "content_views", Actual: 850000, Target: 1500000, Percent: 56.7, Pace: models.PaceWarning},
			{Goal: models.GoalAdvanceInnovation, Metric: "original_books_completed", Actual: 3, Target: 5, Percent: 60},
			{Goal: models.GoalOptimizeSustainability, Metric: "books_distributed_all", Actual: 450000, Target: 600000, Percent: 75, Pace: models.PaceSafe},
		},
		Breakdowns: []models.CategoryBreakdown{
			{
				Category: "program",
				Groups: []models.CategoryGroup{
					{Key: "Book Clubs", Books: 5000, Children: 1800},
					{Key: "Storytime", Books: 3200, Children: 1200},
				},
			},
		},
		Snapshots: []models.MetricSnapshot{
			{
				Goal:   models.GoalStrengthenImpact,
				Period: "FY26",
				Metrics: []models.Metric{
					{Name: "books_distributed", Value: models.Defined(12500)},
					{Name: "avg_books_per_child", Value: models.Defined(3.0)},
					{Name: "minutes_of_activity", Value: models.Undefined()},
				},
			},
		},
	}
}

func TestNew(t *testing.T) {
	state := app.NewState()
	m := New(state)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	state := app.NewState()
	m := New(state)
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetBundle(testBundle())
	m := New(state)
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "Goal Targets") {
		t.Error("View should contain title")
	}
	if !strings.Contains(view, "Strengthen Impact") {
		t.Error("View should contain goal name")
	}
	if !strings.Contains(view, "n/a") {
		t.Error("undefined metric should render as n/a")
	}
	if !strings.Contains(view, "Books by Program") {
		t.Error("View should contain the category chart card")
	}
	if !strings.Contains(view, "Book Clubs") {
		t.Error("category chart should show group labels")
	}
}

func TestGoalBreakdownCategory(t *testing.T) {
	tests := []struct {
		goal models.GoalCategory
		want string
	}{
		{models.GoalStrengthenImpact, "program"},
		{models.GoalInspireEngagement, "activity_type"},
		{models.GoalAdvanceInnovation, "program"},
		{models.GoalOptimizeSustainability, "county"},
	}
	for _, tt := range tests {
		if got := goalBreakdownCategory(tt.goal); got != tt.want {
			t.Errorf("goalBreakdownCategory(%v) = %q, want %q", tt.goal, got, tt.want)
		}
	}
}

func TestModel_EditForm(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetTargets(models.DefaultGoalTargets())
	m := New(state)
	m.SetSize(100, 40)

	// Enter opens the form pre-filled with current targets
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.editing {
		t.Fatal("enter should open the edit form")
	}
	if m.booksPerChildIn.Value() != "4" {
		t.Errorf("books per child prefill = %q, want 4", m.booksPerChildIn.Value())
	}

	view := m.View()
	if !strings.Contains(view, "Edit Goal Targets") {
		t.Error("editing view should show the form")
	}

	// Esc closes it
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Error("esc should close the edit form")
	}
}

func TestModel_SubmitForm(t *testing.T) {
	state := app.NewState()
	state.SetTargets(models.DefaultGoalTargets())
	m := New(state)

	m.openEditForm()
	m.booksPerChildIn.SetValue("5.0")
	m.contentViewsIn.SetValue("2,000,000")
	m.annualBooksIn.SetValue("750000")
	m.focusedField = fieldSubmit

	_, cmd := m.updateEditForm(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should emit a command")
	}
	msg := cmd()
	save, ok := msg.(app.SaveTargetsMsg)
	if !ok {
		t.Fatalf("expected SaveTargetsMsg, got %T", msg)
	}
	if save.Targets.BooksPerChild != 5.0 {
		t.Errorf("BooksPerChild = %v, want 5.0", save.Targets.BooksPerChild)
	}
	if save.Targets.ContentViews != 2000000 {
		t.Errorf("ContentViews = %v, want 2000000", save.Targets.ContentViews)
	}
	if m.editing {
		t.Error("form should close on submit")
	}
}

func TestModel_SubmitForm_Invalid(t *testing.T) {
	state := app.NewState()
	m := New(state)

	m.openEditForm()
	m.booksPerChildIn.SetValue("not a number")
	m.focusedField = fieldSubmit

	_, cmd := m.updateEditForm(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("invalid submit should emit a notification command")
	}
	msg := cmd()
	notif, ok := msg.(app.AddNotificationMsg)
	if !ok {
		t.Fatalf("expected AddNotificationMsg, got %T", msg)
	}
	if notif.Type != app.NotificationError {
		t.Error("invalid input should produce an error notification")
	}
	if !m.editing {
		t.Error("form should stay open on invalid input")
	}
}

func TestParseTargetValue(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"4.0", 4.0, false},
		{"1,500,000", 1500000, false},
		{" 600000 ", 600000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"0", 0, true},
	}

	for _, tt := range tests {
		got, err := parseTargetValue(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseTargetValue(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseTargetValue(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTargetValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUpdateTableData(t *testing.T) {
	state := app.NewState()
	state.SetBundle(testBundle())
	m := New(state)

	m.updateTableData()
	rows := m.table.Rows()
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "Strengthen Impact" {
		t.Errorf("first row goal = %q", rows[0][0])
	}
	if rows[3][5] != "SAFE" {
		t.Errorf("sustainability pace = %q, want SAFE", rows[3][5])
	}
	if rows[0][5] != "-" {
		t.Errorf("unpaced goal should show -, got %q", rows[0][5])
	}
}

func TestSelectedGoal(t *testing.T) {
	state := app.NewState()
	state.SetBundle(testBundle())
	m := New(state)
	m.updateTableData()

	if m.selectedGoal() != models.GoalStrengthenImpact {
		t.Error("default selection should be first goal")
	}
}

func TestModel_Help(t *testing.T) {
	state := app.NewState()
	m := New(state)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	m.editing = true
	if len(m.ShortHelp()) != 3 {
		t.Error("editing ShortHelp should show form keys")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
