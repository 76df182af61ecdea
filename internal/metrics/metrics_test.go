package metrics

import (
	"testing"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activityRecord(id string, date time.Time, books, children float64) models.NormalizedRecord {
	return models.NormalizedRecord{
		ID:                  id,
		Date:                date,
		BooksDistributed:    books,
		ChildrenServed:      children,
		BooksDistributedAll: books,
		ChildrenServedAll:   children,
		Source:              models.SourceActivity,
	}
}

func TestFilter(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 7, 31))
	records := []models.NormalizedRecord{
		activityRecord("before", day(2025, 6, 30), 1, 1),
		activityRecord("start", day(2025, 7, 1), 1, 1),
		activityRecord("end", day(2025, 7, 31), 1, 1),
		activityRecord("after", day(2025, 8, 1), 1, 1),
	}

	got := Filter(records, w)
	if len(got) != 2 {
		t.Fatalf("Filter() = %d records, want 2", len(got))
	}
	if got[0].ID != "start" || got[1].ID != "end" {
		t.Errorf("Filter() kept %q and %q, want start and end (inclusive bounds)", got[0].ID, got[1].ID)
	}
}

func TestSummary(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 8, 31))

	inPerson := activityRecord("a", day(2025, 7, 10), 100, 25)
	inPerson.Caregivers = 10
	inPerson.MinutesOfActivity = 30
	inPerson.Channel = models.ChannelInPerson
	inPerson.PartnerID = "prt-1"
	inPerson.Ages = models.AgeBreakdown{ThreeToFive: 25}

	legacy := activityRecord("b", day(2025, 7, 20), 50, 25)
	legacy.Source = models.SourceLegacy
	legacy.MinutesOfActivity = 45

	outside := activityRecord("c", day(2025, 6, 30), 999, 999)

	repeat := activityRecord("d", day(2025, 8, 1), 20, 10)
	repeat.Channel = models.ChannelInPerson
	repeat.PartnerID = "prt-1"

	views := []models.ContentViewRecord{
		{ID: "cv-1", Date: day(2025, 7, 5), DigitalViews: 1000, NewsletterViews: 200},
		{ID: "cv-2", Date: day(2025, 6, 1), DigitalViews: 9999},
	}

	stats := Summary([]models.NormalizedRecord{inPerson, legacy, outside, repeat}, views, w)

	if stats.RecordCount != 3 {
		t.Errorf("RecordCount = %d, want 3", stats.RecordCount)
	}
	if stats.LegacyCount != 1 {
		t.Errorf("LegacyCount = %d, want 1", stats.LegacyCount)
	}
	if !stats.FirstDate.Equal(day(2025, 7, 10)) {
		t.Errorf("FirstDate = %v, want 2025-07-10", stats.FirstDate)
	}
	if !stats.LastDate.Equal(day(2025, 8, 1)) {
		t.Errorf("LastDate = %v, want 2025-08-01", stats.LastDate)
	}
	if stats.Books != 170 {
		t.Errorf("Books = %v, want 170", stats.Books)
	}
	if stats.Children != 60 {
		t.Errorf("Children = %v, want 60", stats.Children)
	}
	if stats.Caregivers != 10 {
		t.Errorf("Caregivers = %v, want 10", stats.Caregivers)
	}
	if stats.Ages.ThreeToFive != 25 {
		t.Errorf("Ages.ThreeToFive = %v, want 25", stats.Ages.ThreeToFive)
	}

	if !stats.BooksPerChild.Defined {
		t.Fatal("BooksPerChild should be defined")
	}
	if want := 170.0 / 60.0; stats.BooksPerChild.Value != want {
		t.Errorf("BooksPerChild = %v, want %v", stats.BooksPerChild.Value, want)
	}
	if !stats.AvgMinutes.Defined || stats.AvgMinutes.Value != 37.5 {
		t.Errorf("AvgMinutes = %+v, want 37.5 over the two timed activities", stats.AvgMinutes)
	}

	if stats.InPersonEvents != 2 {
		t.Errorf("InPersonEvents = %d, want 2", stats.InPersonEvents)
	}
	if stats.RecurringPartner != 1 {
		t.Errorf("RecurringPartner = %d, want 1 (prt-1 appears twice)", stats.RecurringPartner)
	}
	if stats.ContentViews != 1200 {
		t.Errorf("ContentViews = %v, want 1200 (out-of-window views excluded)", stats.ContentViews)
	}
}

func TestSummary_BooksPerChildUndefined(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 7, 31))
	records := []models.NormalizedRecord{
		activityRecord("a", day(2025, 7, 10), 50, 0),
	}

	stats := Summary(records, nil, w)

	if stats.BooksPerChild.Defined {
		t.Errorf("BooksPerChild = %v, want the undefined marker when no children served", stats.BooksPerChild.Value)
	}
	if stats.AvgMinutes.Defined {
		t.Error("AvgMinutes should be undefined when no activity recorded minutes")
	}
}

func TestSummary_Empty(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 7, 31))
	stats := Summary(nil, nil, w)

	if stats.HasData() {
		t.Error("HasData() = true for an empty window")
	}
	if !stats.FirstDate.IsZero() || !stats.LastDate.IsZero() {
		t.Errorf("date range = %v → %v, want zero times", stats.FirstDate, stats.LastDate)
	}
	if stats.BooksPerChild.Defined {
		t.Error("BooksPerChild should be undefined with no records")
	}
}
