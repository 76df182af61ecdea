// Package report assembles normalized records into presentation-ready
// bundles and renders them as Excel workbooks. The assembler is the single
// place the dashboard and the CLI exporter get their numbers from, so both
// always agree.
package report

import (
	"fmt"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/metrics"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// Input carries everything a bundle is built from: the merged activity
// records plus the three supporting collections.
type Input struct {
	Records  []models.NormalizedRecord
	Views    []models.ContentViewRecord
	Books    []models.OriginalBookRecord
	Partners []models.PartnerRecord
	Warnings []models.SchemaWarning
}

// Options selects the reporting window and presentation knobs.
type Options struct {
	Window  models.Window
	Unit    models.TimeUnit
	Targets models.GoalTargets

	// Compare adds a comparison of the window against the preceding
	// window of equal length.
	Compare bool

	// Now anchors fiscal-year progress and pace projection. Zero means
	// the wall clock.
	Now time.Time
}

// Assemble computes every view the dashboard tabs and the Excel export
// consume. The result is a value snapshot; callers may hold it while a
// refresh builds the next one.
func Assemble(in Input, opts Options) *models.ReportBundle {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	partners := metrics.IndexPartners(in.Partners)
	snapIn := metrics.SnapshotInput{Records: in.Records, Views: in.Views, Books: in.Books}
	current, legacy := metrics.SourceSeries(in.Records, opts.Window, opts.Unit)

	b := &models.ReportBundle{
		GeneratedAt:       now,
		Window:            opts.Window,
		Unit:              opts.Unit,
		Summary:           metrics.Summary(in.Records, in.Views, opts.Window),
		Snapshots:         metrics.Snapshots(snapIn, opts.Window, opts.Unit),
		Series:            metrics.Series(in.Records, opts.Window, opts.Unit),
		SeriesCurrent:     current,
		SeriesLegacy:      legacy,
		Progress:          metrics.Progress(snapIn, opts.Targets, opts.Window, now),
		Books:             in.Books,
		LowIncomePct:      metrics.LowIncomePercent(in.Records, partners, opts.Window),
		RecurringPartners: metrics.RecurringPartnerNames(in.Records, partners, opts.Window),
		Warnings:          in.Warnings,
		WarningCount:      len(in.Warnings),
		Breakdowns: []models.CategoryBreakdown{
			metrics.ByProgram(in.Records, opts.Window),
			metrics.ByActivityType(in.Records, opts.Window),
			metrics.ByCounty(in.Records, opts.Window),
		},
	}
	b.RecordCount = b.Summary.RecordCount
	b.LegacyCount = b.Summary.LegacyCount

	if opts.Compare {
		prev := opts.Window.Previous()
		cmp := metrics.ComparePeriods(in.Records, prev, opts.Window)
		b.Comparison = &cmp
	}
	return b
}

// BooksSeries extracts the distributed-books trend as chart points.
func BooksSeries(b *models.ReportBundle) models.ChartSeries {
	return seriesOf(b.Series, FriendlyLabel(metrics.MetricBooksDistributedAll), func(p models.TimePoint) float64 {
		return p.BooksAll
	})
}

// ChildrenSeries extracts the children-served trend as chart points.
func ChildrenSeries(b *models.ReportBundle) models.ChartSeries {
	return seriesOf(b.Series, FriendlyLabel(metrics.MetricChildrenServed), func(p models.TimePoint) float64 {
		return p.Children
	})
}

// RatioSeries extracts the per-bucket books-per-child trend. Buckets where
// the ratio is undefined plot as zero.
func RatioSeries(b *models.ReportBundle) models.ChartSeries {
	return seriesOf(b.Series, FriendlyLabel(metrics.MetricBooksPerChild), func(p models.TimePoint) float64 {
		return p.BooksPerChild().Or(0)
	})
}

// SourceSplitSeries returns the current- and legacy-collection book trends
// for the dual-line chart.
func SourceSplitSeries(b *models.ReportBundle) (current, legacy models.ChartSeries) {
	books := func(p models.TimePoint) float64 { return p.BooksAll }
	return seriesOf(b.SeriesCurrent, "Current", books), seriesOf(b.SeriesLegacy, "Legacy", books)
}

// BreakdownSeries converts a category breakdown into chart points, keeping
// at most limit groups. Zero limit keeps all of them.
func BreakdownSeries(bd models.CategoryBreakdown, limit int) models.ChartSeries {
	groups := bd.Groups
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	s := models.ChartSeries{Name: FriendlyLabel(bd.Category)}
	for _, g := range groups {
		s.Points = append(s.Points, models.ChartPoint{Label: g.Key, Value: g.Books})
	}
	return s
}

// GoalHeadline formats a goal's progress line for the summary surfaces.
func GoalHeadline(p models.GoalProgress) string {
	return fmt.Sprintf("%s: %.1f%% of target", p.Goal.String(), p.Percent)
}

func seriesOf(ts models.TimeSeries, name string, value func(models.TimePoint) float64) models.ChartSeries {
	s := models.ChartSeries{Name: name}
	for _, p := range ts.Points {
		s.Points = append(s.Points, models.ChartPoint{Label: p.Label, Value: value(p)})
	}
	return s
}
