package info

import (
	"strings"
	"testing"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/app"
	"github.com/bookspring/impact-dashboard-tui/internal/config"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func TestNew(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{}
	m := New(state, cfg)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{}
	m := New(state, cfg)
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{}
	m := New(state, cfg)

	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	cfg := &config.Config{
		APIBase:         "https://api.fusioo.com/v3",
		GoalsPath:       "/tmp/goals.json",
		RefreshInterval: 15 * time.Minute,
	}
	m := New(state, cfg)
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "Configuration") {
		t.Error("View should contain config card")
	}
	if !strings.Contains(view, "api.fusioo.com") {
		t.Error("View should contain API base")
	}
	if !strings.Contains(view, "No data loaded yet") {
		t.Error("View should show empty data card before first refresh")
	}
}

func TestModel_View_WithBundle(t *testing.T) {
	state := app.NewState()
	state.SetBundle(&models.ReportBundle{
		GeneratedAt:  time.Now(),
		Window:       models.TrailingYear(time.Now()),
		RecordCount:  120,
		LegacyCount:  30,
		WarningCount: 1,
		Warnings: []models.SchemaWarning{
			{Source: models.SourceActivity, RecordID: "r1", Field: "date_of_activity", Reason: "missing"},
		},
	})
	m := New(state, &config.Config{})
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "120") {
		t.Error("View should contain record count")
	}
	if !strings.Contains(view, "date_of_activity") {
		t.Error("View should list schema warnings")
	}
}

func TestModel_View_NilConfig(t *testing.T) {
	state := app.NewState()
	m := New(state, nil)
	m.SetSize(80, 24)

	view := m.View()
	if !strings.Contains(view, "Configuration not loaded") {
		t.Error("nil config should render placeholder")
	}
}

func TestModel_SetSize(t *testing.T) {
	state := app.NewState()
	m := New(state, &config.Config{})
	m.SetSize(100, 50)
}

func TestModel_Help(t *testing.T) {
	state := app.NewState()
	m := New(state, &config.Config{})
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
