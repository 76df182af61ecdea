// Package metrics computes the strategic-goal aggregates over normalized
// records: windowed summary totals, time-series bucketing, category
// breakdowns, period-over-period comparison, and run-rate pacing. Everything
// here is a pure function; the refresh service and the report CLI compose
// them.
//
// Ratio metrics are weighted sums: sum(numerator)/sum(denominator) over the
// window, never an average of per-row averages. They return the explicit
// undefined marker when the denominator is zero. Metric math treats current
// and legacy rows identically; the source flag only feeds the legacy record
// count and the split trend view.
package metrics

import (
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// Canonical metric names. Snapshots, comparisons, and goal progress key their
// values on these; the report layer maps them to friendly labels.
const (
	MetricBooksDistributed    = "books_distributed"
	MetricBooksDistributedAll = "books_distributed_all"
	MetricChildrenServed      = "children_served"
	MetricBooksPerChild       = "avg_books_per_child"
	MetricCaregivers          = "parents_or_caregivers"
	MetricMinutes             = "minutes_of_activity"
	MetricChildren0To2        = "children_0_2"
	MetricChildren3To5        = "children_3_5"
	MetricChildren6To8        = "children_6_8"
	MetricChildren9To12       = "children_9_12"
	MetricTeens               = "teens"

	MetricContentViews      = "content_views"
	MetricInPersonEvents    = "in_person_events"
	MetricRecurringPartners = "recurring_partners"

	MetricBooksTotal        = "original_books_total"
	MetricBooksCompleted    = "original_books_completed"
	MetricBooksInProduction = "original_books_in_production"
	MetricBooksBilingual    = "original_books_bilingual"
)

// Filter returns the records whose date falls inside the window.
func Filter(records []models.NormalizedRecord, w models.Window) []models.NormalizedRecord {
	out := make([]models.NormalizedRecord, 0, len(records))
	for _, rec := range records {
		if w.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}

// Summary computes the headline totals for the window. The books-per-child
// headline divides the unadjusted book total by the adjusted children count;
// average minutes covers only activities that recorded a duration.
func Summary(records []models.NormalizedRecord, views []models.ContentViewRecord, w models.Window) models.SummaryStats {
	var stats models.SummaryStats
	var minutes float64
	var timedActivities int
	partnerVisits := make(map[string]int)

	for _, rec := range records {
		if !w.Contains(rec.Date) {
			continue
		}
		stats.RecordCount++
		if rec.Source == models.SourceLegacy {
			stats.LegacyCount++
		}
		if stats.FirstDate.IsZero() || rec.Date.Before(stats.FirstDate) {
			stats.FirstDate = rec.Date
		}
		if rec.Date.After(stats.LastDate) {
			stats.LastDate = rec.Date
		}

		stats.Books += rec.BooksDistributed
		stats.BooksAll += rec.BooksDistributedAll
		stats.Children += rec.ChildrenServed
		stats.ChildrenAll += rec.ChildrenServedAll
		stats.Caregivers += rec.Caregivers
		stats.Ages = stats.Ages.Add(rec.Ages)

		if rec.MinutesOfActivity > 0 {
			minutes += rec.MinutesOfActivity
			timedActivities++
		}
		if rec.Channel == models.ChannelInPerson {
			stats.InPersonEvents++
		}
		if rec.PartnerID != "" {
			partnerVisits[rec.PartnerID]++
		}
	}

	stats.BooksPerChild = ratio(stats.BooksAll, stats.Children)
	stats.AvgMinutes = ratio(minutes, float64(timedActivities))
	for _, visits := range partnerVisits {
		if visits > 1 {
			stats.RecurringPartner++
		}
	}
	for _, v := range views {
		if w.Contains(v.Date) {
			stats.ContentViews += v.TotalViews()
		}
	}
	return stats
}

// ratio divides with the undefined marker instead of NaN/Inf.
func ratio(numerator, denominator float64) models.MetricValue {
	if denominator == 0 {
		return models.Undefined()
	}
	return models.Defined(numerator / denominator)
}
