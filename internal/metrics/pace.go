package metrics

import (
	"math"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// criticalShare: a projection below this share of the target is critical
// rather than a warning.
const criticalShare = 0.75

// Pace classifies a cumulative metric's run rate against its target. The
// observed rate over the elapsed portion of the window is projected to the
// full window: reaching the target is safe, a shortfall is a warning, a
// shortfall past the critical margin is critical. Zero progress or an
// unstarted window cannot be projected.
func Pace(actual, target float64, w models.Window, now time.Time) models.PaceStatus {
	if target <= 0 {
		return models.PaceUnknown
	}
	if actual >= target {
		return models.PaceSafe
	}
	elapsed := elapsedDays(w, now)
	if elapsed <= 0 || actual <= 0 {
		return models.PaceUnknown
	}

	projected := actual / float64(elapsed) * float64(w.Days())
	switch {
	case projected >= target:
		return models.PaceSafe
	case projected >= target*criticalShare:
		return models.PaceWarning
	default:
		return models.PaceCritical
	}
}

// elapsedDays counts window days from the start through now, inclusive,
// clamped to the window.
func elapsedDays(w models.Window, now time.Time) int {
	if now.Before(w.Start) {
		return 0
	}
	end := now
	if end.After(w.End) {
		end = w.End
	}
	return models.NewWindow(w.Start, end).Days()
}

// Progress computes each goal's standing against its targets. The ratio goal
// reads the report window; the cumulative annual goals (content views,
// distribution capacity) read the fiscal year containing now and carry a
// run-rate pace. Book production measures completed against total titles.
func Progress(in SnapshotInput, targets models.GoalTargets, w models.Window, now time.Time) []models.GoalProgress {
	fy := models.NewWindow(models.FiscalYearStart(now), models.FiscalYearEnd(now))
	out := make([]models.GoalProgress, 0, 4)

	summary := Summary(in.Records, in.Views, w)
	booksPerChild := summary.BooksPerChild.Or(0)
	out = append(out, models.GoalProgress{
		Goal:    models.GoalStrengthenImpact,
		Metric:  MetricBooksPerChild,
		Actual:  booksPerChild,
		Target:  targets.BooksPerChild,
		Percent: progressPercent(booksPerChild, targets.BooksPerChild),
		Pace:    models.PaceUnknown,
	})

	var fyViews float64
	for _, v := range in.Views {
		if fy.Contains(v.Date) {
			fyViews += v.TotalViews()
		}
	}
	out = append(out, models.GoalProgress{
		Goal:    models.GoalInspireEngagement,
		Metric:  MetricContentViews,
		Actual:  fyViews,
		Target:  targets.ContentViews,
		Percent: progressPercent(fyViews, targets.ContentViews),
		Pace:    Pace(fyViews, targets.ContentViews, fy, now),
	})

	var total, completed int
	for _, b := range in.Books {
		total++
		if b.Completed {
			completed++
		}
	}
	denom := total
	if denom == 0 {
		denom = 1
	}
	out = append(out, models.GoalProgress{
		Goal:    models.GoalAdvanceInnovation,
		Metric:  MetricBooksCompleted,
		Actual:  float64(completed),
		Target:  float64(total),
		Percent: float64(completed) / float64(denom) * 100,
		Pace:    models.PaceUnknown,
	})

	var fyBooks float64
	for _, rec := range in.Records {
		if fy.Contains(rec.Date) {
			fyBooks += rec.BooksDistributedAll
		}
	}
	out = append(out, models.GoalProgress{
		Goal:    models.GoalOptimizeSustainability,
		Metric:  MetricBooksDistributedAll,
		Actual:  fyBooks,
		Target:  targets.AnnualBooks,
		Percent: progressPercent(fyBooks, targets.AnnualBooks),
		Pace:    Pace(fyBooks, targets.AnnualBooks, fy, now),
	})

	return out
}

// progressPercent is actual over target as a percent, capped at 100.
func progressPercent(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(actual/target*100, 100)
}
