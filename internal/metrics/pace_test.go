package metrics

import (
	"testing"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func TestPace(t *testing.T) {
	// FY26: July 1 2025 – June 30 2026, 365 days. Now is October 1 2025,
	// 93 days in.
	fy := models.NewWindow(day(2025, 7, 1), day(2026, 6, 30))
	now := day(2025, 10, 1)

	tests := []struct {
		name   string
		actual float64
		target float64
		now    time.Time
		want   models.PaceStatus
	}{
		{"OnPace", 200_000, 600_000, now, models.PaceSafe},
		{"SlightlyBehind", 120_000, 600_000, now, models.PaceWarning},
		{"FarBehind", 100_000, 600_000, now, models.PaceCritical},
		{"AlreadyAtTarget", 700_000, 600_000, now, models.PaceSafe},
		{"NoProgress", 0, 600_000, now, models.PaceUnknown},
		{"ZeroTarget", 100, 0, now, models.PaceUnknown},
		{"BeforeWindowStarts", 100, 600_000, day(2025, 6, 1), models.PaceUnknown},
		{"WindowOverShortOfTarget", 300_000, 600_000, day(2026, 8, 1), models.PaceCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pace(tt.actual, tt.target, fy, tt.now); got != tt.want {
				t.Errorf("Pace(%v, %v) = %v, want %v", tt.actual, tt.target, got, tt.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	// Mid-fiscal-year: January 1 2026 is 185 days into FY26.
	now := day(2026, 1, 1)
	w := models.NewWindow(day(2025, 7, 1), day(2026, 6, 30))

	in := SnapshotInput{
		Records: []models.NormalizedRecord{
			activityRecord("a", day(2025, 7, 10), 300, 100),
		},
		Views: []models.ContentViewRecord{
			{ID: "cv-1", Date: day(2025, 8, 1), DigitalViews: 750_000},
		},
		Books: []models.OriginalBookRecord{
			{ID: "bk-1", Completed: true},
			{ID: "bk-2", Completed: true},
			{ID: "bk-3"},
			{ID: "bk-4"},
		},
	}

	got := Progress(in, models.DefaultGoalTargets(), w, now)

	if len(got) != 4 {
		t.Fatalf("Progress() = %d entries, want 4", len(got))
	}
	for i, goal := range models.GoalOrder() {
		if got[i].Goal != goal {
			t.Errorf("Progress()[%d].Goal = %v, want %v", i, got[i].Goal, goal)
		}
	}

	impact := got[0]
	if impact.Actual != 3 {
		t.Errorf("impact Actual = %v, want 3 books per child", impact.Actual)
	}
	if impact.Percent != 75 {
		t.Errorf("impact Percent = %v, want 75", impact.Percent)
	}

	engagement := got[1]
	if engagement.Actual != 750_000 {
		t.Errorf("engagement Actual = %v, want 750000", engagement.Actual)
	}
	if engagement.Percent != 50 {
		t.Errorf("engagement Percent = %v, want 50", engagement.Percent)
	}
	// 750k over 185 days projects to ~1.48M of the 1.5M target.
	if engagement.Pace != models.PaceWarning {
		t.Errorf("engagement Pace = %v, want %v", engagement.Pace, models.PaceWarning)
	}

	innovation := got[2]
	if innovation.Actual != 2 || innovation.Target != 4 {
		t.Errorf("innovation = %v of %v, want 2 of 4", innovation.Actual, innovation.Target)
	}
	if innovation.Percent != 50 {
		t.Errorf("innovation Percent = %v, want 50", innovation.Percent)
	}

	sustainability := got[3]
	if sustainability.Actual != 300 {
		t.Errorf("sustainability Actual = %v, want 300", sustainability.Actual)
	}
	if sustainability.Pace != models.PaceCritical {
		t.Errorf("sustainability Pace = %v, want %v", sustainability.Pace, models.PaceCritical)
	}
}

func TestProgress_PercentCapped(t *testing.T) {
	now := day(2026, 1, 1)
	w := models.NewWindow(day(2025, 7, 1), day(2026, 6, 30))
	in := SnapshotInput{
		Records: []models.NormalizedRecord{
			activityRecord("a", day(2025, 7, 10), 500, 100),
		},
	}
	targets := models.GoalTargets{BooksPerChild: 2, ContentViews: 1, AnnualBooks: 1}

	got := Progress(in, targets, w, now)

	if got[0].Percent != 100 {
		t.Errorf("impact Percent = %v, want capped at 100", got[0].Percent)
	}
	if got[3].Percent != 100 {
		t.Errorf("sustainability Percent = %v, want capped at 100", got[3].Percent)
	}
}

func TestProgress_NoBooks(t *testing.T) {
	now := day(2026, 1, 1)
	w := models.NewWindow(day(2025, 7, 1), day(2026, 6, 30))

	got := Progress(SnapshotInput{}, models.DefaultGoalTargets(), w, now)

	innovation := got[2]
	if innovation.Percent != 0 {
		t.Errorf("innovation Percent = %v, want 0 with no titles", innovation.Percent)
	}
	if innovation.Pace != models.PaceUnknown {
		t.Errorf("innovation Pace = %v, want %v", innovation.Pace, models.PaceUnknown)
	}
}
