package metrics

import (
	"sort"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// PartnerIndex maps partner record IDs to their lookup rows.
type PartnerIndex map[string]models.PartnerRecord

// IndexPartners builds the ID lookup.
func IndexPartners(partners []models.PartnerRecord) PartnerIndex {
	idx := make(PartnerIndex, len(partners))
	for _, p := range partners {
		idx[p.ID] = p
	}
	return idx
}

// Name resolves a partner ID to its display name, or "" when unknown.
func (idx PartnerIndex) Name(id string) string {
	return idx[id].Name
}

// LowIncomePercent averages the share of children in low-income settings over
// the windowed records. Legacy rows carry the percentage themselves; current
// rows read their partner's figure. Records contributing no positive figure
// are skipped; undefined when nothing contributes.
func LowIncomePercent(records []models.NormalizedRecord, partners PartnerIndex, w models.Window) models.MetricValue {
	var sum float64
	var n int

	for _, rec := range records {
		if !w.Contains(rec.Date) {
			continue
		}
		pct := rec.PercentLowIncome
		if rec.Source != models.SourceLegacy {
			pct = partners[rec.PartnerID].PercentLowIncome
		}
		if pct > 0 {
			sum += pct
			n++
		}
	}

	return ratio(sum, float64(n))
}

// RecurringPartnerNames lists the display names of partners with two or more
// windowed activities, most active first, ties alphabetical. Partners missing
// from the index keep their raw ID so the count stays honest.
func RecurringPartnerNames(records []models.NormalizedRecord, partners PartnerIndex, w models.Window) []string {
	visits := make(map[string]int)
	for _, rec := range records {
		if !w.Contains(rec.Date) || rec.PartnerID == "" {
			continue
		}
		visits[rec.PartnerID]++
	}

	type recurring struct {
		name   string
		visits int
	}
	var out []recurring
	for id, n := range visits {
		if n < 2 {
			continue
		}
		name := partners.Name(id)
		if name == "" {
			name = id
		}
		out = append(out, recurring{name: name, visits: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].visits != out[j].visits {
			return out[i].visits > out[j].visits
		}
		return out[i].name < out[j].name
	})

	names := make([]string, len(out))
	for i, r := range out {
		names[i] = r.name
	}
	return names
}
