package metrics

import (
	"sort"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// Category column names used in breakdowns and sheet titles.
const (
	CategoryProgram      = "program"
	CategoryActivityType = "activity_type"
	CategoryCounty       = "county"
)

// ByProgram aggregates the windowed records by program.
func ByProgram(records []models.NormalizedRecord, w models.Window) models.CategoryBreakdown {
	return breakdown(CategoryProgram, records, w, func(r models.NormalizedRecord) string { return r.Program })
}

// ByActivityType aggregates the windowed records by activity type.
func ByActivityType(records []models.NormalizedRecord, w models.Window) models.CategoryBreakdown {
	return breakdown(CategoryActivityType, records, w, func(r models.NormalizedRecord) string { return r.ActivityType })
}

// ByCounty aggregates the windowed records by served county.
func ByCounty(records []models.NormalizedRecord, w models.Window) models.CategoryBreakdown {
	return breakdown(CategoryCounty, records, w, func(r models.NormalizedRecord) string { return r.County })
}

// breakdown groups by a categorical key, dropping records with no value.
// Groups are ordered by books descending, ties alphabetical.
func breakdown(category string, records []models.NormalizedRecord, w models.Window, key func(models.NormalizedRecord) string) models.CategoryBreakdown {
	byKey := make(map[string]*models.CategoryGroup)

	for _, rec := range records {
		if !w.Contains(rec.Date) {
			continue
		}
		k := key(rec)
		if k == "" {
			continue
		}
		group, ok := byKey[k]
		if !ok {
			group = &models.CategoryGroup{Key: k}
			byKey[k] = group
		}
		group.ActivityCount++
		group.Books += rec.BooksDistributed
		group.Children += rec.ChildrenServed
	}

	groups := make([]models.CategoryGroup, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Books != groups[j].Books {
			return groups[i].Books > groups[j].Books
		}
		return groups[i].Key < groups[j].Key
	})
	return models.CategoryBreakdown{Category: category, Groups: groups}
}
