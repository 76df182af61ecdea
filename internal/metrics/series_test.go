package metrics

import (
	"testing"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func TestSeries_MonthBuckets(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 9, 30))
	records := []models.NormalizedRecord{
		activityRecord("a", day(2025, 7, 5), 100, 20),
		activityRecord("b", day(2025, 7, 20), 50, 10),
		activityRecord("c", day(2025, 8, 3), 80, 40),
		activityRecord("outside", day(2025, 10, 1), 999, 999),
	}

	series := Series(records, w, models.UnitMonth)

	if series.Unit != models.UnitMonth {
		t.Errorf("Unit = %v, want %v", series.Unit, models.UnitMonth)
	}
	if len(series.Points) != 2 {
		t.Fatalf("Points = %d, want 2 (empty buckets omitted)", len(series.Points))
	}

	july := series.Points[0]
	if july.Label != "2025-07" {
		t.Errorf("Points[0].Label = %q, want %q", july.Label, "2025-07")
	}
	if july.Books != 150 || july.Children != 30 {
		t.Errorf("July tally = %v books / %v children, want 150/30", july.Books, july.Children)
	}
	if july.Records != 2 {
		t.Errorf("July Records = %d, want 2", july.Records)
	}

	august := series.Points[1]
	if august.Label != "2025-08" {
		t.Errorf("Points[1].Label = %q, want %q (chronological order)", august.Label, "2025-08")
	}
	if bpc := august.BooksPerChild(); !bpc.Defined || bpc.Value != 2 {
		t.Errorf("August BooksPerChild() = %+v, want 2", bpc)
	}
}

func TestSeries_FiscalYearAssignment(t *testing.T) {
	w := models.NewWindow(day(2024, 7, 1), day(2026, 6, 30))
	records := []models.NormalizedRecord{
		activityRecord("june", day(2025, 6, 15), 10, 5),
		activityRecord("july", day(2025, 7, 1), 20, 5),
	}

	series := Series(records, w, models.UnitFiscalYear)

	if len(series.Points) != 2 {
		t.Fatalf("Points = %d, want 2", len(series.Points))
	}
	if series.Points[0].Label != "FY25" {
		t.Errorf("June 2025 bucket = %q, want FY25", series.Points[0].Label)
	}
	if series.Points[1].Label != "FY26" {
		t.Errorf("July 2025 bucket = %q, want FY26", series.Points[1].Label)
	}
	if series.Points[0].Books != 10 || series.Points[1].Books != 20 {
		t.Errorf("bucket books = %v/%v, want 10/20", series.Points[0].Books, series.Points[1].Books)
	}
}

func TestSeries_Empty(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 7, 31))
	series := Series(nil, w, models.UnitMonth)
	if len(series.Points) != 0 {
		t.Errorf("Points = %d, want 0", len(series.Points))
	}
}

func TestSourceSeries(t *testing.T) {
	w := models.NewWindow(day(2025, 1, 1), day(2025, 12, 31))

	cur := activityRecord("cur", day(2025, 8, 1), 100, 10)
	leg := activityRecord("leg", day(2025, 3, 1), 40, 8)
	leg.Source = models.SourceLegacy

	current, legacy := SourceSeries([]models.NormalizedRecord{cur, leg}, w, models.UnitMonth)

	if len(current.Points) != 1 || current.Points[0].Books != 100 {
		t.Errorf("current series = %+v, want one August point with 100 books", current.Points)
	}
	if len(legacy.Points) != 1 || legacy.Points[0].Books != 40 {
		t.Errorf("legacy series = %+v, want one March point with 40 books", legacy.Points)
	}
}
