package metrics

import (
	"testing"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func TestComparePeriods_IdenticalWindowsZeroDelta(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 7, 31))
	records := []models.NormalizedRecord{
		activityRecord("a", day(2025, 7, 5), 120, 30),
		activityRecord("b", day(2025, 7, 20), 45, 15),
	}

	got := ComparePeriods(records, w, w)

	if len(got.Deltas) == 0 {
		t.Fatal("ComparePeriods() returned no deltas")
	}
	for _, d := range got.Deltas {
		if d.Delta != 0 {
			t.Errorf("%s Delta = %v, want 0 for identical windows", d.Name, d.Delta)
		}
		if d.PctChange != 0 {
			t.Errorf("%s PctChange = %v, want 0 for identical windows", d.Name, d.PctChange)
		}
	}
}

func TestComparePeriods(t *testing.T) {
	july := models.NewWindow(day(2025, 7, 1), day(2025, 7, 31))
	august := models.NewWindow(day(2025, 8, 1), day(2025, 8, 31))
	records := []models.NormalizedRecord{
		activityRecord("jul", day(2025, 7, 10), 100, 50),
		activityRecord("aug", day(2025, 8, 10), 150, 50),
	}

	got := ComparePeriods(records, july, august)

	if !got.Window1.Start.Equal(july.Start) || !got.Window2.Start.Equal(august.Start) {
		t.Errorf("windows = %v / %v, want july / august", got.Window1, got.Window2)
	}

	find := func(name string) models.MetricDelta {
		t.Helper()
		for _, d := range got.Deltas {
			if d.Name == name {
				return d
			}
		}
		t.Fatalf("no delta named %q", name)
		return models.MetricDelta{}
	}

	books := find(MetricBooksDistributed)
	if books.Delta != 50 {
		t.Errorf("books Delta = %v, want 50", books.Delta)
	}
	if books.PctChange != 50 {
		t.Errorf("books PctChange = %v, want 50", books.PctChange)
	}

	bpc := find(MetricBooksPerChild)
	if !bpc.Period1.Defined || bpc.Period1.Value != 2 {
		t.Errorf("ratio Period1 = %+v, want 2 (100/50 weighted)", bpc.Period1)
	}
	if !bpc.Period2.Defined || bpc.Period2.Value != 3 {
		t.Errorf("ratio Period2 = %+v, want 3 (150/50 weighted)", bpc.Period2)
	}
	if bpc.Delta != 1 {
		t.Errorf("ratio Delta = %v, want 1", bpc.Delta)
	}
	if bpc.PctChange != 50 {
		t.Errorf("ratio PctChange = %v, want 50", bpc.PctChange)
	}
}

func TestComparePeriods_ZeroBaseline(t *testing.T) {
	empty := models.NewWindow(day(2025, 6, 1), day(2025, 6, 30))
	august := models.NewWindow(day(2025, 8, 1), day(2025, 8, 31))
	records := []models.NormalizedRecord{
		activityRecord("aug", day(2025, 8, 10), 150, 50),
	}

	got := ComparePeriods(records, empty, august)

	for _, d := range got.Deltas {
		if d.PctChange != 0 {
			t.Errorf("%s PctChange = %v, want 0 when the first period is 0", d.Name, d.PctChange)
		}
	}

	for _, d := range got.Deltas {
		if d.Name == MetricBooksPerChild {
			if d.Period1.Defined {
				t.Error("ratio Period1 should be undefined over an empty window")
			}
			if d.Delta != 3 {
				t.Errorf("ratio Delta = %v, want 3 (undefined baseline counts as 0)", d.Delta)
			}
		}
	}
}
