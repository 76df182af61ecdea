package metrics

import (
	"fmt"
	"testing"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

func TestSnapshots(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2026, 6, 30))

	july := activityRecord("jul", day(2025, 7, 10), 100, 25)
	july.Channel = models.ChannelInPerson
	july.PartnerID = "prt-1"
	july2 := activityRecord("jul2", day(2025, 7, 22), 50, 25)
	july2.PartnerID = "prt-1"
	august := activityRecord("aug", day(2025, 8, 5), 80, 40)

	in := SnapshotInput{
		Records: []models.NormalizedRecord{july, july2, august},
		Views: []models.ContentViewRecord{
			{ID: "cv-1", Date: day(2025, 7, 3), DigitalViews: 5000},
			{ID: "cv-2", Date: day(2025, 9, 3), DigitalViews: 2000, NewsletterViews: 500},
		},
		Books: []models.OriginalBookRecord{
			{ID: "bk-1", Completed: true, Bilingual: true},
			{ID: "bk-2", Completed: true},
			{ID: "bk-3"},
		},
	}

	snaps := Snapshots(in, w, models.UnitMonth)

	// Impact: July + August. Engagement: July + August + September (views-only
	// bucket). Innovation: one overall. Sustainability: one fiscal year.
	counts := make(map[models.GoalCategory]int)
	seen := make(map[string]bool)
	for _, s := range snaps {
		counts[s.Goal]++
		pair := fmt.Sprintf("%s|%s", s.Goal.Key(), s.Period)
		if seen[pair] {
			t.Errorf("duplicate (goal, period) pair %s", pair)
		}
		seen[pair] = true
	}

	if counts[models.GoalStrengthenImpact] != 2 {
		t.Errorf("impact snapshots = %d, want 2", counts[models.GoalStrengthenImpact])
	}
	if counts[models.GoalInspireEngagement] != 3 {
		t.Errorf("engagement snapshots = %d, want 3 (views-only September included)", counts[models.GoalInspireEngagement])
	}
	if counts[models.GoalAdvanceInnovation] != 1 {
		t.Errorf("innovation snapshots = %d, want 1", counts[models.GoalAdvanceInnovation])
	}
	if counts[models.GoalOptimizeSustainability] != 1 {
		t.Errorf("sustainability snapshots = %d, want 1", counts[models.GoalOptimizeSustainability])
	}
	if len(snaps) != 7 {
		t.Errorf("total snapshots = %d, want 7 distinct (goal, period) pairs", len(snaps))
	}
}

func TestSnapshots_ImpactMetrics(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 7, 31))

	served := activityRecord("a", day(2025, 7, 10), 100, 25)
	served.Caregivers = 12
	repeat := activityRecord("b", day(2025, 7, 20), 0, 0)
	repeat.BooksDistributedAll = 60
	repeat.ChildrenServedAll = 15
	repeat.PreviouslyServed = true

	snaps := Snapshots(SnapshotInput{Records: []models.NormalizedRecord{served, repeat}}, w, models.UnitMonth)

	var impact *models.MetricSnapshot
	for i := range snaps {
		if snaps[i].Goal == models.GoalStrengthenImpact {
			impact = &snaps[i]
			break
		}
	}
	if impact == nil {
		t.Fatal("no impact snapshot produced")
	}
	if impact.Period != "2025-07" {
		t.Errorf("Period = %q, want 2025-07", impact.Period)
	}
	if !impact.Start.Equal(day(2025, 7, 1)) || !impact.End.Equal(day(2025, 7, 31)) {
		t.Errorf("bounds = %v → %v, want July", impact.Start, impact.End)
	}

	books, _ := impact.Get(MetricBooksDistributed)
	if books.Or(-1) != 100 {
		t.Errorf("books_distributed = %v, want 100 (adjusted)", books.Or(-1))
	}
	caregivers, _ := impact.Get(MetricCaregivers)
	if caregivers.Or(-1) != 12 {
		t.Errorf("parents_or_caregivers = %v, want 12", caregivers.Or(-1))
	}
	// Weighted over unadjusted: (100+60)/(25+15).
	bpc, ok := impact.Get(MetricBooksPerChild)
	if !ok || !bpc.Defined {
		t.Fatal("avg_books_per_child missing or undefined")
	}
	if bpc.Value != 4 {
		t.Errorf("avg_books_per_child = %v, want 4", bpc.Value)
	}
}

func TestSnapshots_EngagementViewsOnlyBucket(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2025, 12, 31))
	in := SnapshotInput{
		Views: []models.ContentViewRecord{
			{ID: "cv-1", Date: day(2025, 9, 3), DigitalViews: 2000, NewsletterViews: 500},
		},
	}

	snaps := Snapshots(in, w, models.UnitMonth)

	var engagement *models.MetricSnapshot
	for i := range snaps {
		if snaps[i].Goal == models.GoalInspireEngagement {
			engagement = &snaps[i]
			break
		}
	}
	if engagement == nil {
		t.Fatal("no engagement snapshot for the views-only bucket")
	}
	views, _ := engagement.Get(MetricContentViews)
	if views.Or(-1) != 2500 {
		t.Errorf("content_views = %v, want 2500", views.Or(-1))
	}
	events, _ := engagement.Get(MetricInPersonEvents)
	if events.Or(-1) != 0 {
		t.Errorf("in_person_events = %v, want 0", events.Or(-1))
	}
}

func TestSnapshots_InnovationCounts(t *testing.T) {
	w := models.NewWindow(day(2025, 7, 1), day(2026, 6, 30))
	in := SnapshotInput{
		Books: []models.OriginalBookRecord{
			{ID: "bk-1", Completed: true, Bilingual: true},
			{ID: "bk-2", Completed: true},
			{ID: "bk-3"},
			{ID: "bk-4", Bilingual: true},
		},
	}

	snaps := Snapshots(in, w, models.UnitMonth)

	var innovation *models.MetricSnapshot
	for i := range snaps {
		if snaps[i].Goal == models.GoalAdvanceInnovation {
			innovation = &snaps[i]
			break
		}
	}
	if innovation == nil {
		t.Fatal("no innovation snapshot produced")
	}
	if innovation.Period != PeriodOverall {
		t.Errorf("Period = %q, want %q", innovation.Period, PeriodOverall)
	}

	checks := []struct {
		name string
		want float64
	}{
		{MetricBooksTotal, 4},
		{MetricBooksCompleted, 2},
		{MetricBooksInProduction, 2},
		{MetricBooksBilingual, 2},
	}
	for _, c := range checks {
		v, ok := innovation.Get(c.name)
		if !ok {
			t.Errorf("metric %s missing", c.name)
			continue
		}
		if v.Or(-1) != c.want {
			t.Errorf("%s = %v, want %v", c.name, v.Or(-1), c.want)
		}
	}
}

func TestSnapshots_SustainabilityBucketsAreFiscalYears(t *testing.T) {
	w := models.NewWindow(day(2025, 1, 1), day(2025, 12, 31))
	records := []models.NormalizedRecord{
		activityRecord("spring", day(2025, 3, 1), 200, 40),
		activityRecord("fall", day(2025, 10, 1), 300, 60),
	}

	snaps := Snapshots(SnapshotInput{Records: records}, w, models.UnitMonth)

	var fyPeriods []string
	for _, s := range snaps {
		if s.Goal == models.GoalOptimizeSustainability {
			fyPeriods = append(fyPeriods, s.Period)
			v, _ := s.Get(MetricBooksDistributedAll)
			switch s.Period {
			case "FY25":
				if v.Or(-1) != 200 {
					t.Errorf("FY25 books_distributed_all = %v, want 200", v.Or(-1))
				}
			case "FY26":
				if v.Or(-1) != 300 {
					t.Errorf("FY26 books_distributed_all = %v, want 300", v.Or(-1))
				}
			}
		}
	}
	if len(fyPeriods) != 2 || fyPeriods[0] != "FY25" || fyPeriods[1] != "FY26" {
		t.Errorf("sustainability periods = %v, want [FY25 FY26]", fyPeriods)
	}
}
