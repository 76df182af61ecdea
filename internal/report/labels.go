package report

import (
	"strings"

	"github.com/bookspring/impact-dashboard-tui/internal/metrics"
)

// fieldLabels maps canonical metric and category names to display labels.
var fieldLabels = map[string]string{
	metrics.MetricBooksDistributed:    "Books Distributed",
	metrics.MetricBooksDistributedAll: "Books Distributed (All)",
	metrics.MetricChildrenServed:      "Children Served",
	metrics.MetricBooksPerChild:       "Avg Books per Child",
	metrics.MetricCaregivers:          "Parents/Caregivers",
	metrics.MetricMinutes:             "Minutes of Activity",
	metrics.MetricChildren0To2:        "Children 0-2 years",
	metrics.MetricChildren3To5:        "Children 3-5 years",
	metrics.MetricChildren6To8:        "Children 6-8 years",
	metrics.MetricChildren9To12:       "Children 9-12 years",
	metrics.MetricTeens:               "Teens",
	metrics.MetricContentViews:        "Content Views",
	metrics.MetricInPersonEvents:      "In-Person Events",
	metrics.MetricRecurringPartners:   "Recurring Partners",
	metrics.MetricBooksTotal:          "Original Books",
	metrics.MetricBooksCompleted:      "Completed Titles",
	metrics.MetricBooksInProduction:   "Titles in Production",
	metrics.MetricBooksBilingual:      "Bilingual Titles",
	metrics.CategoryProgram:           "Program",
	metrics.CategoryActivityType:      "Activity Type",
	metrics.CategoryCounty:            "County",
}

// FriendlyLabel returns the display label for a canonical name, falling back
// to title-cased words.
func FriendlyLabel(name string) string {
	if label, ok := fieldLabels[name]; ok {
		return label
	}
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
