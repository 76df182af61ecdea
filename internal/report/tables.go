package report

import (
	"fmt"

	"github.com/bookspring/impact-dashboard-tui/internal/metrics"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// metricCatalog fixes the column order of the goal metrics sheet. Cells stay
// blank for metrics a goal does not track.
var metricCatalog = []string{
	metrics.MetricBooksDistributed,
	metrics.MetricChildrenServed,
	metrics.MetricCaregivers,
	metrics.MetricBooksPerChild,
	metrics.MetricContentViews,
	metrics.MetricInPersonEvents,
	metrics.MetricRecurringPartners,
	metrics.MetricBooksTotal,
	metrics.MetricBooksCompleted,
	metrics.MetricBooksInProduction,
	metrics.MetricBooksBilingual,
	metrics.MetricBooksDistributedAll,
}

// SnapshotTable flattens the bundle's snapshots into exactly one row per
// goal and period pair.
func SnapshotTable(b *models.ReportBundle) models.ExcelTable {
	t := models.ExcelTable{Sheet: "Goal Metrics", Headers: []string{"Goal", "Period"}}
	for _, name := range metricCatalog {
		t.Headers = append(t.Headers, FriendlyLabel(name))
	}
	for _, s := range b.Snapshots {
		row := make([]any, 0, len(t.Headers))
		row = append(row, s.Goal.String(), s.Period)
		for _, name := range metricCatalog {
			v, ok := s.Get(name)
			if !ok {
				row = append(row, nil)
				continue
			}
			row = append(row, cellValue(v))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TimeSeriesTable flattens the bundle's bucketed series, one row per bucket.
func TimeSeriesTable(b *models.ReportBundle) models.ExcelTable {
	t := models.ExcelTable{
		Sheet: "By " + b.Unit.Display(),
		Headers: []string{
			b.Unit.Display(),
			FriendlyLabel(metrics.MetricBooksDistributed),
			FriendlyLabel(metrics.MetricChildrenServed),
			FriendlyLabel(metrics.MetricBooksPerChild),
			"Activities",
		},
	}
	for _, p := range b.Series.Points {
		t.Rows = append(t.Rows, []any{p.Label, p.Books, p.Children, cellValue(p.BooksPerChild()), p.Records})
	}
	return t
}

// BreakdownTable flattens one categorical breakdown, one row per group.
func BreakdownTable(bd models.CategoryBreakdown) models.ExcelTable {
	t := models.ExcelTable{
		Sheet: "By " + FriendlyLabel(bd.Category),
		Headers: []string{
			FriendlyLabel(bd.Category),
			FriendlyLabel(metrics.MetricBooksDistributed),
			FriendlyLabel(metrics.MetricChildrenServed),
			"Activities",
		},
	}
	for _, g := range bd.Groups {
		t.Rows = append(t.Rows, []any{g.Key, g.Books, g.Children, g.ActivityCount})
	}
	return t
}

// ComparisonTable flattens a period comparison, one row per metric.
func ComparisonTable(cmp *models.PeriodComparison) models.ExcelTable {
	t := models.ExcelTable{
		Sheet: "Period Comparison",
		Headers: []string{
			"Metric",
			windowHeader(cmp.Window1),
			windowHeader(cmp.Window2),
			"Change",
			"% Change",
		},
	}
	for _, d := range cmp.Deltas {
		t.Rows = append(t.Rows, []any{FriendlyLabel(d.Name), cellValue(d.Period1), cellValue(d.Period2), d.Delta, d.PctChange})
	}
	return t
}

func windowHeader(w models.Window) string {
	return fmt.Sprintf("%s to %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// cellValue renders a metric value for a cell, keeping the undefined marker
// visible instead of writing a fake zero.
func cellValue(v models.MetricValue) any {
	if !v.Defined {
		return "undefined"
	}
	return v.Value
}
