package goals

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	tmpDir := t.TempDir()
	targetsPath := filepath.Join(tmpDir, "goals.json")

	svc, err := New(targetsPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})

	return svc, targetsPath
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	targetsPath := filepath.Join(tmpDir, "goals.json")

	svc, err := New(targetsPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() {
		_ = svc.Close()
	}()

	if _, err := os.Stat(targetsPath); err != nil {
		t.Errorf("targets file was not created: %v", err)
	}

	if got := svc.Targets(); got != models.DefaultGoalTargets() {
		t.Errorf("Targets() = %+v, want defaults", got)
	}
}

func TestNew_LoadsExistingFile(t *testing.T) {
	tmpDir := t.TempDir()
	targetsPath := filepath.Join(tmpDir, "goals.json")

	want := models.GoalTargets{BooksPerChild: 5, ContentViews: 2_000_000, AnnualBooks: 750_000}
	data, err := json.Marshal(TargetsFile{Version: 1, Targets: want})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(targetsPath, data, 0600); err != nil {
		t.Fatal(err)
	}

	svc, err := New(targetsPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() {
		_ = svc.Close()
	}()

	if got := svc.Targets(); got != want {
		t.Errorf("Targets() = %+v, want %+v", got, want)
	}
}

func TestSetTargets(t *testing.T) {
	svc, targetsPath := newTestService(t)

	want := models.GoalTargets{BooksPerChild: 4.5, ContentViews: 1_800_000, AnnualBooks: 650_000}
	if err := svc.SetTargets(want); err != nil {
		t.Fatalf("SetTargets() failed: %v", err)
	}

	if got := svc.Targets(); got != want {
		t.Errorf("Targets() = %+v, want %+v", got, want)
	}

	// Persisted in the wrapped format
	data, err := os.ReadFile(targetsPath)
	if err != nil {
		t.Fatalf("reading targets file: %v", err)
	}
	var file TargetsFile
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("unmarshaling targets file: %v", err)
	}
	if file.Targets != want {
		t.Errorf("persisted targets = %+v, want %+v", file.Targets, want)
	}
	if file.Version != 1 {
		t.Errorf("persisted version = %d, want 1", file.Version)
	}
}

func TestSetTargets_RejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		targets models.GoalTargets
	}{
		{"zero ratio", models.GoalTargets{BooksPerChild: 0, ContentViews: 1, AnnualBooks: 1}},
		{"negative views", models.GoalTargets{BooksPerChild: 1, ContentViews: -5, AnnualBooks: 1}},
		{"zero books", models.GoalTargets{BooksPerChild: 1, ContentViews: 1, AnnualBooks: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.SetTargets(tt.targets); err == nil {
				t.Error("SetTargets() should reject invalid targets")
			}
		})
	}

	if got := svc.Targets(); got != models.DefaultGoalTargets() {
		t.Errorf("rejected targets must not be stored, got %+v", got)
	}
}

func TestParseTargets_BareFormat(t *testing.T) {
	svc, _ := newTestService(t)

	data := []byte(`{"books_per_child": 3.5, "content_views": 1200000, "annual_books": 500000}`)
	got, err := svc.parseTargets(data)
	if err != nil {
		t.Fatalf("parseTargets() failed: %v", err)
	}

	want := models.GoalTargets{BooksPerChild: 3.5, ContentViews: 1_200_000, AnnualBooks: 500_000}
	if got != want {
		t.Errorf("parseTargets() = %+v, want %+v", got, want)
	}
}

func TestParseTargets_InvalidData(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.parseTargets([]byte("not json")); err == nil {
		t.Error("parseTargets() should fail on garbage")
	}
	if _, err := svc.parseTargets([]byte(`{"unrelated": true}`)); err == nil {
		t.Error("parseTargets() should fail when no targets are present")
	}
}

func TestFileWatch_ExternalEdit(t *testing.T) {
	svc, targetsPath := newTestService(t)

	// Drain the startup event
	select {
	case <-svc.Events():
	case <-time.After(time.Second):
		t.Fatal("no startup event")
	}

	want := models.GoalTargets{BooksPerChild: 6, ContentViews: 3_000_000, AnnualBooks: 900_000}
	data, err := json.Marshal(TargetsFile{Version: 1, Targets: want})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(targetsPath, data, 0600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case event := <-svc.Events():
			if event.Type != EventTargetsChanged {
				continue
			}
			if event.Targets != want {
				t.Errorf("event targets = %+v, want %+v", event.Targets, want)
			}
			if got := svc.Targets(); got != want {
				t.Errorf("Targets() = %+v, want %+v", got, want)
			}
			return
		case <-deadline:
			t.Fatal("no change event after external edit")
		}
	}
}
