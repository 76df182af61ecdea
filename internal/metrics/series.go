package metrics

import (
	"sort"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// Series buckets the windowed records by unit and returns the chronological
// series. Buckets with no records are omitted. Per-bucket tallies carry both
// the adjusted and unadjusted columns so ratio charts can weight on the
// unadjusted ones.
func Series(records []models.NormalizedRecord, w models.Window, unit models.TimeUnit) models.TimeSeries {
	byBucket := make(map[time.Time]*models.TimePoint)

	for _, rec := range records {
		if !w.Contains(rec.Date) {
			continue
		}
		bucket := unit.Bucket(rec.Date)
		point, ok := byBucket[bucket]
		if !ok {
			point = &models.TimePoint{Bucket: bucket, Label: unit.Label(bucket)}
			byBucket[bucket] = point
		}
		point.Books += rec.BooksDistributed
		point.Children += rec.ChildrenServed
		point.BooksAll += rec.BooksDistributedAll
		point.ChildrenAll += rec.ChildrenServedAll
		point.Records++
	}

	points := make([]models.TimePoint, 0, len(byBucket))
	for _, p := range byBucket {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Bucket.Before(points[j].Bucket)
	})
	return models.TimeSeries{Unit: unit, Points: points}
}

// SourceSeries splits the bucketed series by record origin for the
// current-vs-legacy trend view.
func SourceSeries(records []models.NormalizedRecord, w models.Window, unit models.TimeUnit) (current, legacy models.TimeSeries) {
	var cur, leg []models.NormalizedRecord
	for _, rec := range records {
		if rec.Source == models.SourceLegacy {
			leg = append(leg, rec)
		} else {
			cur = append(cur, rec)
		}
	}
	return Series(cur, w, unit), Series(leg, w, unit)
}
