package models

import "testing"

func TestGoalCategory_String(t *testing.T) {
	tests := []struct {
		name string
		goal GoalCategory
		want string
	}{
		{"StrengthenImpact", GoalStrengthenImpact, "Strengthen Impact"},
		{"InspireEngagement", GoalInspireEngagement, "Inspire Engagement"},
		{"AdvanceInnovation", GoalAdvanceInnovation, "Advance Innovation"},
		{"OptimizeSustainability", GoalOptimizeSustainability, "Optimize Sustainability"},
		{"Unknown", GoalCategory(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.String(); got != tt.want {
				t.Errorf("GoalCategory.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoalCategory_Key(t *testing.T) {
	tests := []struct {
		name string
		goal GoalCategory
		want string
	}{
		{"StrengthenImpact", GoalStrengthenImpact, "strengthen_impact"},
		{"InspireEngagement", GoalInspireEngagement, "inspire_engagement"},
		{"AdvanceInnovation", GoalAdvanceInnovation, "advance_innovation"},
		{"OptimizeSustainability", GoalOptimizeSustainability, "optimize_sustainability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.Key(); got != tt.want {
				t.Errorf("GoalCategory.Key() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoalOrder(t *testing.T) {
	order := GoalOrder()
	want := []GoalCategory{
		GoalStrengthenImpact,
		GoalInspireEngagement,
		GoalAdvanceInnovation,
		GoalOptimizeSustainability,
	}
	if len(order) != len(want) {
		t.Fatalf("GoalOrder() returned %d goals, want %d", len(order), len(want))
	}
	for i, g := range want {
		if order[i] != g {
			t.Errorf("GoalOrder()[%d] = %v, want %v", i, order[i], g)
		}
	}
}

func TestDefaultGoalTargets(t *testing.T) {
	targets := DefaultGoalTargets()
	if targets.BooksPerChild != 4.0 {
		t.Errorf("BooksPerChild = %v, want 4.0", targets.BooksPerChild)
	}
	if targets.ContentViews != 1_500_000 {
		t.Errorf("ContentViews = %v, want 1500000", targets.ContentViews)
	}
	if targets.AnnualBooks != 600_000 {
		t.Errorf("AnnualBooks = %v, want 600000", targets.AnnualBooks)
	}
}

func TestPaceStatus_String(t *testing.T) {
	tests := []struct {
		name string
		pace PaceStatus
		want string
	}{
		{"Unknown", PaceUnknown, "unknown"},
		{"Safe", PaceSafe, "safe"},
		{"Warning", PaceWarning, "warning"},
		{"Critical", PaceCritical, "critical"},
		{"OutOfRange", PaceStatus(999), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pace.String(); got != tt.want {
				t.Errorf("PaceStatus.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
