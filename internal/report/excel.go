package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/bookspring/impact-dashboard-tui/internal/metrics"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

const (
	sheetSummary = "Summary"

	headerFill  = "1F4E79"
	maxColWidth = 50

	lineChartWidth  = 570
	lineChartHeight = 300
	barChartWidth   = 680
	barChartHeight  = 380
)

// workbook wraps an excelize file with the shared cell styles.
type workbook struct {
	f      *excelize.File
	title  int
	header int
	cell   int
	label  int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	w := &workbook{f: f}

	var err error
	if w.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	if w.header, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if w.cell, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("cell style: %w", err)
	}
	if w.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, fmt.Errorf("label style: %w", err)
	}
	return w, nil
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "000000", Style: 1}
	}
	return borders
}

// WriteWorkbook renders the bundle as a styled workbook at path, creating
// parent directories as needed.
func WriteWorkbook(b *models.ReportBundle, path string) error {
	w, err := newWorkbook()
	if err != nil {
		return err
	}
	defer w.f.Close()

	if err := w.addSummary(b); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if _, err := w.addTable("Goal Metrics by Period", SnapshotTable(b)); err != nil {
		return fmt.Errorf("goal metrics sheet: %w", err)
	}
	if err := w.addTimeSeries(b); err != nil {
		return fmt.Errorf("time series sheet: %w", err)
	}
	for _, bd := range b.Breakdowns {
		if err := w.addBreakdown(bd); err != nil {
			return fmt.Errorf("%s sheet: %w", bd.Category, err)
		}
	}
	if b.Comparison != nil {
		if err := w.addComparison(b.Comparison); err != nil {
			return fmt.Errorf("comparison sheet: %w", err)
		}
	}

	if err := w.f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	idx, err := w.f.GetSheetIndex(sheetSummary)
	if err != nil {
		return err
	}
	w.f.SetActiveSheet(idx)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// addSummary writes the key-value overview sheet: run metadata, windowed
// totals, and per-goal progress.
func (w *workbook) addSummary(b *models.ReportBundle) error {
	const s = sheetSummary
	if _, err := w.f.NewSheet(s); err != nil {
		return err
	}
	if err := w.f.SetCellValue(s, "A1", "BookSpring Impact Summary"); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(s, "A1", "A1", w.title); err != nil {
		return err
	}

	row := 3
	writeKV := func(label string, value any) error {
		if err := w.f.SetCellValue(s, cellRef(1, row), label); err != nil {
			return err
		}
		if err := w.f.SetCellValue(s, cellRef(2, row), value); err != nil {
			return err
		}
		row++
		return nil
	}
	writeSection := func(name string) error {
		row++
		cell := cellRef(1, row)
		if err := w.f.SetCellValue(s, cell, name); err != nil {
			return err
		}
		if err := w.f.SetCellStyle(s, cell, cell, w.label); err != nil {
			return err
		}
		row++
		return nil
	}

	stats := b.Summary
	meta := []struct {
		label string
		value any
	}{
		{"Generated", b.GeneratedAt.Format("2006-01-02 15:04")},
		{"Date Range", windowHeader(b.Window)},
		{"Total Records", stats.RecordCount},
		{"Legacy Records", stats.LegacyCount},
		{"Schema Warnings", b.WarningCount},
	}
	for _, line := range meta {
		if err := writeKV(line.label, line.value); err != nil {
			return err
		}
	}

	if err := writeSection("Totals"); err != nil {
		return err
	}
	totals := []struct {
		label string
		value any
	}{
		{FriendlyLabel(metrics.MetricBooksDistributed), stats.Books},
		{FriendlyLabel(metrics.MetricBooksDistributedAll), stats.BooksAll},
		{FriendlyLabel(metrics.MetricChildrenServed), stats.Children},
		{"Children Served (All)", stats.ChildrenAll},
		{FriendlyLabel(metrics.MetricChildren0To2), stats.Ages.ZeroToTwo},
		{FriendlyLabel(metrics.MetricChildren3To5), stats.Ages.ThreeToFive},
		{FriendlyLabel(metrics.MetricChildren6To8), stats.Ages.SixToEight},
		{FriendlyLabel(metrics.MetricChildren9To12), stats.Ages.NineToTwelve},
		{FriendlyLabel(metrics.MetricTeens), stats.Ages.Teens},
		{FriendlyLabel(metrics.MetricCaregivers), stats.Caregivers},
		{FriendlyLabel(metrics.MetricBooksPerChild), cellValue(stats.BooksPerChild)},
		{"Avg Minutes per Activity", cellValue(stats.AvgMinutes)},
		{FriendlyLabel(metrics.MetricContentViews), stats.ContentViews},
		{FriendlyLabel(metrics.MetricInPersonEvents), stats.InPersonEvents},
		{FriendlyLabel(metrics.MetricRecurringPartners), stats.RecurringPartner},
		{"% Low Income", cellValue(b.LowIncomePct)},
	}
	for _, line := range totals {
		if err := writeKV(line.label, line.value); err != nil {
			return err
		}
	}

	if err := writeSection("Goal Progress"); err != nil {
		return err
	}
	for _, p := range b.Progress {
		if err := w.f.SetCellValue(s, cellRef(1, row), p.Goal.String()); err != nil {
			return err
		}
		if err := w.f.SetCellValue(s, cellRef(2, row), fmt.Sprintf("%.1f%%", p.Percent)); err != nil {
			return err
		}
		if p.Pace != models.PaceUnknown {
			if err := w.f.SetCellValue(s, cellRef(3, row), p.Pace.String()); err != nil {
				return err
			}
		}
		row++
	}

	if err := w.f.SetColWidth(s, "A", "A", 30); err != nil {
		return err
	}
	if err := w.f.SetColWidth(s, "B", "B", 20); err != nil {
		return err
	}
	return w.f.SetColWidth(s, "C", "C", 16)
}

// addTable writes one titled table sheet: title in row 1, header row 3, data
// from row 4. Returns the last data row for chart anchoring.
func (w *workbook) addTable(title string, t models.ExcelTable) (int, error) {
	if _, err := w.f.NewSheet(t.Sheet); err != nil {
		return 0, err
	}
	if err := w.f.SetCellValue(t.Sheet, "A1", title); err != nil {
		return 0, err
	}
	if err := w.f.SetCellStyle(t.Sheet, "A1", "A1", w.title); err != nil {
		return 0, err
	}
	if len(t.Headers) > 1 {
		if err := w.f.MergeCell(t.Sheet, "A1", cellRef(len(t.Headers), 1)); err != nil {
			return 0, err
		}
	}

	const headerRow = 3
	for c, h := range t.Headers {
		if err := w.f.SetCellValue(t.Sheet, cellRef(c+1, headerRow), h); err != nil {
			return 0, err
		}
	}
	if err := w.f.SetCellStyle(t.Sheet, cellRef(1, headerRow), cellRef(len(t.Headers), headerRow), w.header); err != nil {
		return 0, err
	}

	last := headerRow
	for r, row := range t.Rows {
		last = headerRow + 1 + r
		for c, v := range row {
			if v == nil {
				continue
			}
			if err := w.f.SetCellValue(t.Sheet, cellRef(c+1, last), v); err != nil {
				return 0, err
			}
		}
	}
	if len(t.Rows) > 0 {
		if err := w.f.SetCellStyle(t.Sheet, cellRef(1, headerRow+1), cellRef(len(t.Headers), last), w.cell); err != nil {
			return 0, err
		}
	}
	return last, w.sizeColumns(t)
}

// sizeColumns widens each column to fit its longest content, capped.
func (w *workbook) sizeColumns(t models.ExcelTable) error {
	for c, h := range t.Headers {
		width := len(h)
		for _, row := range t.Rows {
			if c >= len(row) || row[c] == nil {
				continue
			}
			if n := len(fmt.Sprint(row[c])); n > width {
				width = n
			}
		}
		width += 2
		if width > maxColWidth {
			width = maxColWidth
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(t.Sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

// addTimeSeries writes the bucketed table plus a line chart per headline
// metric, two charts to a row below the data.
func (w *workbook) addTimeSeries(b *models.ReportBundle) error {
	t := TimeSeriesTable(b)
	last, err := w.addTable("BookSpring Impact by "+b.Unit.Display(), t)
	if err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		return nil
	}

	chartRow := last + 3
	charts := []struct {
		col   string
		title string
	}{
		{"B", FriendlyLabel(metrics.MetricBooksDistributed)},
		{"C", FriendlyLabel(metrics.MetricChildrenServed)},
		{"D", FriendlyLabel(metrics.MetricBooksPerChild)},
	}
	for i, c := range charts {
		anchor := cellRef(i%2*9+1, chartRow+i/2*16)
		chart := &excelize.Chart{
			Type:      excelize.Line,
			Series:    []excelize.ChartSeries{tableSeries(t.Sheet, c.col, last)},
			Title:     []excelize.RichTextRun{{Text: c.title + " by " + b.Unit.Display()}},
			Dimension: excelize.ChartDimension{Width: lineChartWidth, Height: lineChartHeight},
		}
		if err := w.f.AddChart(t.Sheet, anchor, chart); err != nil {
			return fmt.Errorf("add %s chart: %w", c.title, err)
		}
	}
	return nil
}

// addBreakdown writes one categorical table plus a column chart of books and
// children per group.
func (w *workbook) addBreakdown(bd models.CategoryBreakdown) error {
	t := BreakdownTable(bd)
	last, err := w.addTable("BookSpring Impact by "+FriendlyLabel(bd.Category), t)
	if err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		return nil
	}

	chart := &excelize.Chart{
		Type:      excelize.Col,
		Series:    []excelize.ChartSeries{tableSeries(t.Sheet, "B", last), tableSeries(t.Sheet, "C", last)},
		Title:     []excelize.RichTextRun{{Text: "Impact by " + FriendlyLabel(bd.Category)}},
		Dimension: excelize.ChartDimension{Width: barChartWidth, Height: barChartHeight},
	}
	return w.f.AddChart(t.Sheet, cellRef(1, last+3), chart)
}

// addComparison writes the period-over-period table plus a side-by-side
// column chart of the two windows.
func (w *workbook) addComparison(cmp *models.PeriodComparison) error {
	t := ComparisonTable(cmp)
	last, err := w.addTable("Period Comparison", t)
	if err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		return nil
	}

	chart := &excelize.Chart{
		Type:      excelize.Col,
		Series:    []excelize.ChartSeries{tableSeries(t.Sheet, "B", last), tableSeries(t.Sheet, "C", last)},
		Title:     []excelize.RichTextRun{{Text: "Period Comparison"}},
		Dimension: excelize.ChartDimension{Width: barChartWidth, Height: barChartHeight},
	}
	return w.f.AddChart(t.Sheet, cellRef(1, last+3), chart)
}

// tableSeries builds a chart series over one value column of a standard
// table sheet, named from its header cell.
func tableSeries(sheet, col string, lastRow int) excelize.ChartSeries {
	return excelize.ChartSeries{
		Name:       fmt.Sprintf("'%s'!$%s$3", sheet, col),
		Categories: fmt.Sprintf("'%s'!$A$4:$A$%d", sheet, lastRow),
		Values:     fmt.Sprintf("'%s'!$%s$4:$%s$%d", sheet, col, col, lastRow),
	}
}

func cellRef(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
