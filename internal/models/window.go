package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeUnit is the bucket size for time-series aggregation.
type TimeUnit int

const (
	// UnitDay buckets by calendar day.
	UnitDay TimeUnit = iota
	// UnitWeek buckets by ISO week (Monday start).
	UnitWeek
	// UnitMonth buckets by calendar month.
	UnitMonth
	// UnitQuarter buckets by calendar quarter.
	UnitQuarter
	// UnitYear buckets by calendar year.
	UnitYear
	// UnitFiscalYear buckets by fiscal year (July 1 start).
	UnitFiscalYear
)

// String returns the unit name accepted by the CLI.
func (u TimeUnit) String() string {
	switch u {
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	case UnitQuarter:
		return "quarter"
	case UnitYear:
		return "year"
	case UnitFiscalYear:
		return "fiscal_year"
	default:
		return "unknown"
	}
}

// Display returns the unit name for UI labels.
func (u TimeUnit) Display() string {
	if u == UnitFiscalYear {
		return "Fiscal Year"
	}
	name := u.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Next cycles through the units shown on the trends tab.
func (u TimeUnit) Next() TimeUnit {
	switch u {
	case UnitMonth:
		return UnitQuarter
	case UnitQuarter:
		return UnitFiscalYear
	default:
		return UnitMonth
	}
}

// ParseTimeUnit maps a CLI flag value to a TimeUnit.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return UnitDay, nil
	case "week":
		return UnitWeek, nil
	case "month":
		return UnitMonth, nil
	case "quarter":
		return UnitQuarter, nil
	case "year":
		return UnitYear, nil
	case "fiscal_year", "fiscal-year", "fy":
		return UnitFiscalYear, nil
	default:
		return UnitMonth, fmt.Errorf("unknown time unit %q (want day, week, month, quarter, year, or fiscal_year)", s)
	}
}

// Bucket truncates t to the start of its bucket for this unit.
func (u TimeUnit) Bucket(t time.Time) time.Time {
	y, m, d := t.Date()
	switch u {
	case UnitDay:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case UnitWeek:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		// Back up to Monday.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case UnitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case UnitQuarter:
		qm := time.Month(((int(m)-1)/3)*3 + 1)
		return time.Date(y, qm, 1, 0, 0, 0, 0, time.UTC)
	case UnitYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case UnitFiscalYear:
		return FiscalYearStart(t)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
}

// BucketEnd returns the last day of the bucket containing t.
func (u TimeUnit) BucketEnd(t time.Time) time.Time {
	start := u.Bucket(t)
	switch u {
	case UnitDay:
		return start
	case UnitWeek:
		return start.AddDate(0, 0, 6)
	case UnitMonth:
		return start.AddDate(0, 1, -1)
	case UnitQuarter:
		return start.AddDate(0, 3, -1)
	case UnitYear, UnitFiscalYear:
		return start.AddDate(1, 0, -1)
	default:
		return start.AddDate(0, 1, -1)
	}
}

// Label renders a bucket start as a period label.
func (u TimeUnit) Label(bucket time.Time) string {
	switch u {
	case UnitDay:
		return bucket.Format("2006-01-02")
	case UnitWeek:
		year, week := bucket.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case UnitMonth:
		return bucket.Format("2006-01")
	case UnitQuarter:
		q := (int(bucket.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", bucket.Year(), q)
	case UnitYear:
		return bucket.Format("2006")
	case UnitFiscalYear:
		return FiscalYearLabel(bucket)
	default:
		return bucket.Format("2006-01")
	}
}

// fiscalYearStartMonth is the month the fiscal year turns over.
const fiscalYearStartMonth = time.July

// FiscalYear returns the fiscal year t falls in. July 2025 belongs to FY 2026;
// June 2025 belongs to FY 2025.
func FiscalYear(t time.Time) int {
	if t.Month() >= fiscalYearStartMonth {
		return t.Year() + 1
	}
	return t.Year()
}

// FiscalYearLabel renders the fiscal year as "FY26".
func FiscalYearLabel(t time.Time) string {
	return fmt.Sprintf("FY%02d", FiscalYear(t)%100)
}

// FiscalYearStart returns July 1 of the fiscal year containing t.
func FiscalYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < fiscalYearStartMonth {
		year--
	}
	return time.Date(year, fiscalYearStartMonth, 1, 0, 0, 0, 0, time.UTC)
}

// FiscalYearEnd returns June 30 of the fiscal year containing t.
func FiscalYearEnd(t time.Time) time.Time {
	return FiscalYearStart(t).AddDate(1, 0, -1)
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window from inclusive start and end dates, normalizing to
// midnight UTC.
func NewWindow(start, end time.Time) Window {
	return Window{Start: dateOnly(start), End: dateOnly(end)}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := dateOnly(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the window length in days, inclusive of both ends.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Previous returns the preceding window of equal length, ending the day
// before this one starts.
func (w Window) Previous() Window {
	days := w.Days()
	end := w.Start.AddDate(0, 0, -1)
	return Window{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

// String renders the window as "2025-07-01 → 2026-06-30".
func (w Window) String() string {
	return fmt.Sprintf("%s → %s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// TrailingYear returns the 365-day window ending on now's date.
func TrailingYear(now time.Time) Window {
	end := dateOnly(now)
	return Window{Start: end.AddDate(0, 0, -365), End: end}
}
