package models

import "time"

// ChartPoint is one labeled value in a chart series.
type ChartPoint struct {
	Label string
	Value float64
}

// ChartSeries is an ordered series of points for one chart line or bar group.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// Values returns just the point values, in order.
func (s ChartSeries) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// Labels returns just the point labels, in order.
func (s ChartSeries) Labels() []string {
	labels := make([]string, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Label
	}
	return labels
}

// ExcelTable is one flat sheet: a header row plus data rows.
type ExcelTable struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// ReportBundle is the complete output of one pipeline run: every metric
// snapshot plus metadata, ready for rendering or export. Ephemeral: built
// fresh on each refresh or export, never persisted.
type ReportBundle struct {
	GeneratedAt time.Time
	Window      Window
	Unit        TimeUnit

	RecordCount  int
	LegacyCount  int
	WarningCount int
	Warnings     []SchemaWarning

	Summary       SummaryStats
	Snapshots     []MetricSnapshot
	Series        TimeSeries
	SeriesCurrent TimeSeries
	SeriesLegacy  TimeSeries
	Breakdowns    []CategoryBreakdown
	Progress      []GoalProgress
	Books         []OriginalBookRecord
	Comparison    *PeriodComparison

	LowIncomePct      MetricValue
	RecurringPartners []string
}

// SnapshotsFor returns this goal's snapshots in period order.
func (b *ReportBundle) SnapshotsFor(goal GoalCategory) []MetricSnapshot {
	var out []MetricSnapshot
	for _, s := range b.Snapshots {
		if s.Goal == goal {
			out = append(out, s)
		}
	}
	return out
}

// ProgressFor returns this goal's progress entry, if it has one.
func (b *ReportBundle) ProgressFor(goal GoalCategory) *GoalProgress {
	for i := range b.Progress {
		if b.Progress[i].Goal == goal {
			return &b.Progress[i]
		}
	}
	return nil
}

// BreakdownFor returns the named categorical breakdown, if present.
func (b *ReportBundle) BreakdownFor(category string) *CategoryBreakdown {
	for i := range b.Breakdowns {
		if b.Breakdowns[i].Category == category {
			return &b.Breakdowns[i]
		}
	}
	return nil
}
