package models

import (
	"fmt"
	"time"
)

// MetricValue is a computed metric that may be undefined. Ratio metrics over an
// empty denominator produce the undefined marker instead of NaN or Inf.
type MetricValue struct {
	Value   float64
	Defined bool
}

// Defined wraps a concrete metric value.
func Defined(v float64) MetricValue {
	return MetricValue{Value: v, Defined: true}
}

// Undefined returns the explicit undefined marker.
func Undefined() MetricValue {
	return MetricValue{}
}

// Or returns the value, or fallback when undefined.
func (m MetricValue) Or(fallback float64) float64 {
	if !m.Defined {
		return fallback
	}
	return m.Value
}

// Format renders the value with the given decimal places, or "undefined".
func (m MetricValue) Format(decimals int) string {
	if !m.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.*f", decimals, m.Value)
}

// Metric is one named value inside a snapshot. Name uses the canonical
// field-name form ("books_distributed"); display layers map it to a label.
type Metric struct {
	Name  string
	Value MetricValue
}

// MetricSnapshot holds the aggregated values for one (goal category, period)
// pair. Metrics keep the order the goal definition lists them in.
type MetricSnapshot struct {
	Goal    GoalCategory
	Period  string
	Start   time.Time
	End     time.Time
	Metrics []Metric
}

// Get looks up a metric by name.
func (s MetricSnapshot) Get(name string) (MetricValue, bool) {
	for _, m := range s.Metrics {
		if m.Name == name {
			return m.Value, true
		}
	}
	return MetricValue{}, false
}

// CategoryGroup is one group row in a categorical breakdown.
type CategoryGroup struct {
	Key           string
	ActivityCount int
	Books         float64
	Children      float64
}

// CategoryBreakdown aggregates records by a categorical column. Groups are
// ordered by Books descending, ties alphabetical.
type CategoryBreakdown struct {
	Category string
	Groups   []CategoryGroup
}

// TimePoint is one bucket in a time series.
type TimePoint struct {
	Bucket      time.Time
	Label       string
	Books       float64
	Children    float64
	BooksAll    float64
	ChildrenAll float64
	Records     int
}

// BooksPerChild returns the bucket's weighted ratio over the unadjusted
// tallies, or the undefined marker when no children landed in the bucket.
func (p TimePoint) BooksPerChild() MetricValue {
	if p.ChildrenAll == 0 {
		return Undefined()
	}
	return Defined(p.BooksAll / p.ChildrenAll)
}

// TimeSeries is the bucketed series for one window and unit, chronological.
type TimeSeries struct {
	Unit   TimeUnit
	Points []TimePoint
}

// MetricDelta is the period-over-period movement of one metric.
type MetricDelta struct {
	Name      string
	Period1   MetricValue
	Period2   MetricValue
	Delta     float64
	PctChange float64
}

// PeriodComparison holds the same metrics computed over two windows.
type PeriodComparison struct {
	Window1 Window
	Window2 Window
	Deltas  []MetricDelta
}

// SummaryStats are the headline totals for one window.
type SummaryStats struct {
	RecordCount      int
	LegacyCount      int
	FirstDate        time.Time
	LastDate         time.Time
	Books            float64
	BooksAll         float64
	Children         float64
	ChildrenAll      float64
	Caregivers       float64
	Ages             AgeBreakdown
	BooksPerChild    MetricValue
	AvgMinutes       MetricValue
	ContentViews     float64
	InPersonEvents   int
	RecurringPartner int
}

// HasData reports whether any records landed in the window.
func (s SummaryStats) HasData() bool {
	return s.RecordCount > 0
}
