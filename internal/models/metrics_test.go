package models

import (
	"testing"
	"time"
)

func TestMetricValue_Or(t *testing.T) {
	tests := []struct {
		name     string
		value    MetricValue
		fallback float64
		want     float64
	}{
		{"Defined", Defined(3.7), -1, 3.7},
		{"DefinedZero", Defined(0), -1, 0},
		{"Undefined", Undefined(), -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Or(tt.fallback); got != tt.want {
				t.Errorf("MetricValue.Or() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetricValue_Format(t *testing.T) {
	tests := []struct {
		name     string
		value    MetricValue
		decimals int
		want     string
	}{
		{"TwoDecimals", Defined(3.14159), 2, "3.14"},
		{"NoDecimals", Defined(42), 0, "42"},
		{"Rounds", Defined(2.995), 2, "3.00"},
		{"Undefined", Undefined(), 2, "undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Format(tt.decimals); got != tt.want {
				t.Errorf("MetricValue.Format() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetricSnapshot_Get(t *testing.T) {
	snap := MetricSnapshot{
		Goal:   GoalStrengthenImpact,
		Period: "2025-07",
		Start:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		Metrics: []Metric{
			{Name: "books_distributed", Value: Defined(1200)},
			{Name: "books_per_child", Value: Undefined()},
		},
	}

	t.Run("Found", func(t *testing.T) {
		v, ok := snap.Get("books_distributed")
		if !ok {
			t.Fatal("Get() reported not found")
		}
		if v.Value != 1200 {
			t.Errorf("Get() = %v, want 1200", v.Value)
		}
	})

	t.Run("FoundUndefined", func(t *testing.T) {
		v, ok := snap.Get("books_per_child")
		if !ok {
			t.Fatal("Get() reported not found")
		}
		if v.Defined {
			t.Error("Get() should return the undefined marker")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, ok := snap.Get("nonexistent"); ok {
			t.Error("Get() should report missing metrics")
		}
	})
}

func TestTimePoint_BooksPerChild(t *testing.T) {
	tests := []struct {
		name        string
		point       TimePoint
		wantDefined bool
		want        float64
	}{
		{"Weighted", TimePoint{BooksAll: 300, ChildrenAll: 100}, true, 3},
		{"NoChildren", TimePoint{BooksAll: 300}, false, 0},
		{"Empty", TimePoint{}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.point.BooksPerChild()
			if got.Defined != tt.wantDefined {
				t.Fatalf("BooksPerChild().Defined = %v, want %v", got.Defined, tt.wantDefined)
			}
			if got.Defined && got.Value != tt.want {
				t.Errorf("BooksPerChild() = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestSummaryStats_HasData(t *testing.T) {
	tests := []struct {
		name  string
		stats SummaryStats
		want  bool
	}{
		{"Empty", SummaryStats{}, false},
		{"WithRecords", SummaryStats{RecordCount: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.HasData(); got != tt.want {
				t.Errorf("SummaryStats.HasData() = %v, want %v", got, tt.want)
			}
		})
	}
}
