package metrics

import (
	"sort"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// PeriodOverall labels snapshots with no time dimension (original book
// production has no activity date to bucket on).
const PeriodOverall = "overall"

// SnapshotInput bundles the normalized collections a snapshot build reads.
type SnapshotInput struct {
	Records []models.NormalizedRecord
	Views   []models.ContentViewRecord
	Books   []models.OriginalBookRecord
}

type bucketTally struct {
	books         float64
	children      float64
	booksAll      float64
	childrenAll   float64
	caregivers    float64
	inPerson      int
	partnerVisits map[string]int
}

// Snapshots produces one MetricSnapshot per (goal category, period) pair over
// the window. Impact and engagement bucket by the requested unit; annual
// capacity always buckets by fiscal year; book production yields a single
// overall snapshot. Output is ordered goal-first, periods chronological.
func Snapshots(in SnapshotInput, w models.Window, unit models.TimeUnit) []models.MetricSnapshot {
	activity := tallyBuckets(in.Records, w, unit)
	views := viewBuckets(in.Views, w, unit)

	var snaps []models.MetricSnapshot

	for _, bucket := range sortedKeys(activity) {
		t := activity[bucket]
		snaps = append(snaps, models.MetricSnapshot{
			Goal:   models.GoalStrengthenImpact,
			Period: unit.Label(bucket),
			Start:  bucket,
			End:    unit.BucketEnd(bucket),
			Metrics: []models.Metric{
				{Name: MetricBooksDistributed, Value: models.Defined(t.books)},
				{Name: MetricChildrenServed, Value: models.Defined(t.children)},
				{Name: MetricCaregivers, Value: models.Defined(t.caregivers)},
				{Name: MetricBooksPerChild, Value: ratio(t.booksAll, t.childrenAll)},
			},
		})
	}

	for _, bucket := range unionKeys(activity, views) {
		var inPerson, recurring int
		if t, ok := activity[bucket]; ok {
			inPerson = t.inPerson
			for _, visits := range t.partnerVisits {
				if visits > 1 {
					recurring++
				}
			}
		}
		snaps = append(snaps, models.MetricSnapshot{
			Goal:   models.GoalInspireEngagement,
			Period: unit.Label(bucket),
			Start:  bucket,
			End:    unit.BucketEnd(bucket),
			Metrics: []models.Metric{
				{Name: MetricContentViews, Value: models.Defined(views[bucket])},
				{Name: MetricInPersonEvents, Value: models.Defined(float64(inPerson))},
				{Name: MetricRecurringPartners, Value: models.Defined(float64(recurring))},
			},
		})
	}

	var total, completed, bilingual int
	for _, b := range in.Books {
		total++
		if b.Completed {
			completed++
		}
		if b.Bilingual {
			bilingual++
		}
	}
	snaps = append(snaps, models.MetricSnapshot{
		Goal:   models.GoalAdvanceInnovation,
		Period: PeriodOverall,
		Start:  w.Start,
		End:    w.End,
		Metrics: []models.Metric{
			{Name: MetricBooksTotal, Value: models.Defined(float64(total))},
			{Name: MetricBooksCompleted, Value: models.Defined(float64(completed))},
			{Name: MetricBooksInProduction, Value: models.Defined(float64(total - completed))},
			{Name: MetricBooksBilingual, Value: models.Defined(float64(bilingual))},
		},
	})

	annual := tallyBuckets(in.Records, w, models.UnitFiscalYear)
	for _, bucket := range sortedKeys(annual) {
		t := annual[bucket]
		snaps = append(snaps, models.MetricSnapshot{
			Goal:   models.GoalOptimizeSustainability,
			Period: models.UnitFiscalYear.Label(bucket),
			Start:  bucket,
			End:    models.UnitFiscalYear.BucketEnd(bucket),
			Metrics: []models.Metric{
				{Name: MetricBooksDistributedAll, Value: models.Defined(t.booksAll)},
			},
		})
	}

	return snaps
}

func tallyBuckets(records []models.NormalizedRecord, w models.Window, unit models.TimeUnit) map[time.Time]*bucketTally {
	buckets := make(map[time.Time]*bucketTally)
	for _, rec := range records {
		if !w.Contains(rec.Date) {
			continue
		}
		bucket := unit.Bucket(rec.Date)
		t, ok := buckets[bucket]
		if !ok {
			t = &bucketTally{partnerVisits: make(map[string]int)}
			buckets[bucket] = t
		}
		t.books += rec.BooksDistributed
		t.children += rec.ChildrenServed
		t.booksAll += rec.BooksDistributedAll
		t.childrenAll += rec.ChildrenServedAll
		t.caregivers += rec.Caregivers
		if rec.Channel == models.ChannelInPerson {
			t.inPerson++
		}
		if rec.PartnerID != "" {
			t.partnerVisits[rec.PartnerID]++
		}
	}
	return buckets
}

func viewBuckets(views []models.ContentViewRecord, w models.Window, unit models.TimeUnit) map[time.Time]float64 {
	buckets := make(map[time.Time]float64)
	for _, v := range views {
		if !w.Contains(v.Date) {
			continue
		}
		buckets[unit.Bucket(v.Date)] += v.TotalViews()
	}
	return buckets
}

func sortedKeys(buckets map[time.Time]*bucketTally) []time.Time {
	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

func unionKeys(activity map[time.Time]*bucketTally, views map[time.Time]float64) []time.Time {
	seen := make(map[time.Time]bool, len(activity)+len(views))
	keys := make([]time.Time, 0, len(activity)+len(views))
	for k := range activity {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range views {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}
