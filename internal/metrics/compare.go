package metrics

import (
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// periodTally holds the sums one comparison window reduces to.
type periodTally struct {
	books      float64
	children   float64
	caregivers float64
	minutes    float64
	ages       models.AgeBreakdown
}

func tally(records []models.NormalizedRecord, w models.Window) periodTally {
	var t periodTally
	for _, rec := range records {
		if !w.Contains(rec.Date) {
			continue
		}
		t.books += rec.BooksDistributed
		t.children += rec.ChildrenServed
		t.caregivers += rec.Caregivers
		t.minutes += rec.MinutesOfActivity
		t.ages = t.ages.Add(rec.Ages)
	}
	return t
}

// ComparePeriods computes the same metrics over two windows and returns both
// values, the delta, and the percent change. Percent change is 0 when the
// first period's value is 0. The books-per-child row is weighted per window
// (window book total over window children total), not a delta of per-row
// averages.
func ComparePeriods(records []models.NormalizedRecord, w1, w2 models.Window) models.PeriodComparison {
	t1 := tally(records, w1)
	t2 := tally(records, w2)

	deltas := make([]models.MetricDelta, 0, 10)
	add := func(name string, v1, v2 models.MetricValue) {
		delta := v2.Or(0) - v1.Or(0)
		pct := 0.0
		if base := v1.Or(0); base != 0 {
			pct = delta / base * 100
		}
		deltas = append(deltas, models.MetricDelta{
			Name:      name,
			Period1:   v1,
			Period2:   v2,
			Delta:     delta,
			PctChange: pct,
		})
	}

	add(MetricBooksDistributed, models.Defined(t1.books), models.Defined(t2.books))
	add(MetricChildrenServed, models.Defined(t1.children), models.Defined(t2.children))
	add(MetricChildren0To2, models.Defined(t1.ages.ZeroToTwo), models.Defined(t2.ages.ZeroToTwo))
	add(MetricChildren3To5, models.Defined(t1.ages.ThreeToFive), models.Defined(t2.ages.ThreeToFive))
	add(MetricChildren6To8, models.Defined(t1.ages.SixToEight), models.Defined(t2.ages.SixToEight))
	add(MetricChildren9To12, models.Defined(t1.ages.NineToTwelve), models.Defined(t2.ages.NineToTwelve))
	add(MetricTeens, models.Defined(t1.ages.Teens), models.Defined(t2.ages.Teens))
	add(MetricCaregivers, models.Defined(t1.caregivers), models.Defined(t2.caregivers))
	add(MetricMinutes, models.Defined(t1.minutes), models.Defined(t2.minutes))
	add(MetricBooksPerChild, ratio(t1.books, t1.children), ratio(t2.books, t2.children))

	return models.PeriodComparison{Window1: w1, Window2: w2, Deltas: deltas}
}
