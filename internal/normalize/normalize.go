// Package normalize maps raw Fusioo records onto the canonical activity
// schema. The current collection (July 2025 onward) and the legacy program
// partners collection use different field names for the same quantities; both
// reconcile to models.NormalizedRecord here, and nothing downstream branches
// on which schema a record came from.
package normalize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// DefaultCutoff is the schema boundary: activity reporting moved to the
// current collection on July 1, 2025. Legacy records on or after this date are
// dropped during the merge; the current collection is authoritative from the
// cutoff on.
var DefaultCutoff = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

// SchemaError describes a record that could not be mapped onto the canonical
// schema. The record is skipped and the error surfaced as a warning; it never
// stops the pipeline.
type SchemaError struct {
	Source   models.Source
	RecordID string
	Field    string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s record %s: %s: %s", e.Source, e.RecordID, e.Field, e.Reason)
}

// Warning converts the error into its collected form.
func (e *SchemaError) Warning() models.SchemaWarning {
	return models.SchemaWarning{
		Source:   e.Source,
		RecordID: e.RecordID,
		Field:    e.Field,
		Reason:   e.Reason,
	}
}

// Record maps one raw activity record by its source tag.
func Record(raw models.RawRecord) (models.NormalizedRecord, error) {
	switch raw.Source {
	case models.SourceActivity:
		return currentRecord(raw)
	case models.SourceLegacy:
		return legacyRecord(raw)
	default:
		return models.NormalizedRecord{}, &SchemaError{
			Source:   raw.Source,
			RecordID: raw.ID,
			Field:    "source",
			Reason:   "not an activity collection",
		}
	}
}

// currentRecord maps the current schema: native field names, with the paired
// age columns summed into brackets.
func currentRecord(raw models.RawRecord) (models.NormalizedRecord, error) {
	date, ok := raw.Date("date_of_activity")
	if !ok {
		return models.NormalizedRecord{}, &SchemaError{
			Source:   raw.Source,
			RecordID: raw.ID,
			Field:    "date_of_activity",
			Reason:   "missing or unparsable date",
		}
	}

	rec := models.NormalizedRecord{
		ID:           raw.ID,
		Date:         date,
		Program:      raw.Text("program"),
		ActivityType: raw.Text("activity_type"),
		County:       raw.Text("county_served_this_activity"),
		PartnerID:    raw.Text("partners_testing"),
		Source:       models.SourceActivity,
	}
	fillCounts(&rec, raw)
	rec.MinutesOfActivity = raw.Number("minutes_of_activity")
	rec.Channel = deriveChannel(rec.ActivityType)
	applyPreviouslyServed(&rec)
	return rec, nil
}

// legacyRecord maps the pre-cutoff schema: date and engagement duration are
// renamed, the count columns pass through under their shared names. Legacy
// rows carry no program, activity type, or partner link.
func legacyRecord(raw models.RawRecord) (models.NormalizedRecord, error) {
	date, ok := raw.Date("date")
	if !ok {
		return models.NormalizedRecord{}, &SchemaError{
			Source:   raw.Source,
			RecordID: raw.ID,
			Field:    "date",
			Reason:   "missing or unparsable date",
		}
	}

	rec := models.NormalizedRecord{
		ID:     raw.ID,
		Date:   date,
		Source: models.SourceLegacy,
	}
	fillCounts(&rec, raw)
	rec.MinutesOfActivity = raw.Number("average_engagement_duration")
	rec.Channel = models.ChannelOther
	applyPreviouslyServed(&rec)
	return rec, nil
}

// fillCounts reads the count columns shared by both schemas. Both current and
// legacy variants of each paired age column contribute to the same bracket;
// at most one is populated per record.
func fillCounts(rec *models.NormalizedRecord, raw models.RawRecord) {
	rec.BooksDistributed = raw.Number("_of_books_distributed")
	rec.ChildrenServed = raw.Number("total_children")
	rec.Ages = models.AgeBreakdown{
		ZeroToTwo:    raw.Number("children_035_months") + raw.Number("children_03_years"),
		ThreeToFive:  raw.Number("children_35_years") + raw.Number("children_34_years"),
		SixToEight:   raw.Number("children_68_years") + raw.Number("children_512_years"),
		NineToTwelve: raw.Number("children_912_years"),
		Teens:        raw.Number("teens"),
	}
	rec.Caregivers = raw.Number("parents_or_caregivers")
	rec.PercentLowIncome = raw.Number("percentage_low_income")
	rec.PreviouslyServed = raw.Bool("previously_served_this_fy")
}

// applyPreviouslyServed zeroes the adjusted tallies for rows whose children
// were already served this fiscal year, preserving the original values in the
// *All fields so capacity trendlines stay truthful.
func applyPreviouslyServed(rec *models.NormalizedRecord) {
	rec.BooksDistributedAll = rec.BooksDistributed
	rec.ChildrenServedAll = rec.ChildrenServed
	if !rec.PreviouslyServed {
		return
	}
	rec.BooksDistributed = 0
	rec.ChildrenServed = 0
	rec.Ages = models.AgeBreakdown{}
	rec.Caregivers = 0
}

// deriveChannel classifies the delivery channel from the activity type.
func deriveChannel(activityType string) models.Channel {
	if strings.Contains(activityType, "Literacy Materials Distribution") ||
		strings.Contains(activityType, "Family Literacy Activity") {
		return models.ChannelInPerson
	}
	if strings.Contains(activityType, "Distribution") {
		return models.ChannelDistribution
	}
	lower := strings.ToLower(activityType)
	if strings.Contains(lower, "digital") || strings.Contains(lower, "virtual") || strings.Contains(lower, "online") {
		return models.ChannelDigital
	}
	return models.ChannelOther
}

// Merge normalizes and combines the current and legacy activity collections.
// Legacy records dated on or after cutoff are dropped. Records that fail to
// normalize are skipped and surfaced as warnings, never silently.
func Merge(current, legacy []models.RawRecord, cutoff time.Time) ([]models.NormalizedRecord, []models.SchemaWarning) {
	merged := make([]models.NormalizedRecord, 0, len(current)+len(legacy))
	var warnings []models.SchemaWarning

	for _, raw := range current {
		rec, err := Record(raw)
		if err != nil {
			warnings = append(warnings, warningFor(err, raw))
			continue
		}
		merged = append(merged, rec)
	}

	for _, raw := range legacy {
		rec, err := Record(raw)
		if err != nil {
			warnings = append(warnings, warningFor(err, raw))
			continue
		}
		if !rec.Date.Before(cutoff) {
			continue
		}
		merged = append(merged, rec)
	}

	return merged, warnings
}

func warningFor(err error, raw models.RawRecord) models.SchemaWarning {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Warning()
	}
	return models.SchemaWarning{Source: raw.Source, RecordID: raw.ID, Reason: err.Error()}
}

// ContentViews normalizes the content-views collection.
func ContentViews(raw []models.RawRecord) ([]models.ContentViewRecord, []models.SchemaWarning) {
	views := make([]models.ContentViewRecord, 0, len(raw))
	var warnings []models.SchemaWarning

	for _, r := range raw {
		date, ok := r.Date("date")
		if !ok {
			warnings = append(warnings, models.SchemaWarning{
				Source:   r.Source,
				RecordID: r.ID,
				Field:    "date",
				Reason:   "missing or unparsable date",
			})
			continue
		}
		views = append(views, models.ContentViewRecord{
			ID:              r.ID,
			Date:            date,
			DigitalViews:    r.Number("total_digital_views"),
			NewsletterViews: r.Number("total_newsletter_views"),
		})
	}

	return views, warnings
}

// OriginalBooks normalizes the original-books collection. Statuses are
// canonicalized so that different orderings of the same multi-select parts
// compare equal.
func OriginalBooks(raw []models.RawRecord) []models.OriginalBookRecord {
	books := make([]models.OriginalBookRecord, 0, len(raw))
	for _, r := range raw {
		status := NormalizeStatus(r.Text("status"))
		language := r.Text("language")
		books = append(books, models.OriginalBookRecord{
			ID:        r.ID,
			Title:     r.Text("title"),
			Status:    status,
			Language:  language,
			AgeGroup:  r.Text("sub_type"),
			Completed: containsFold(status, "Complete") || containsFold(status, "Published"),
			Bilingual: containsFold(language, "Spanish") || containsFold(language, "Bi-lingual"),
		})
	}
	return books
}

// Partners builds the slim partner lookup rows. The "Various" placeholder site
// name falls back to the partner's main organization.
func Partners(raw []models.RawRecord) []models.PartnerRecord {
	partners := make([]models.PartnerRecord, 0, len(raw))
	for _, r := range raw {
		name := r.Text("site_name")
		if strings.EqualFold(name, "various") {
			if main := r.Text("main_organization_from_list"); main != "" {
				name = main
			}
		}
		partners = append(partners, models.PartnerRecord{
			ID:               r.ID,
			Name:             name,
			PercentLowIncome: r.Number("percentage_lowincome"),
		})
	}
	return partners
}

// NormalizeStatus canonicalizes a comma-separated status value: parts trimmed
// and sorted.
func NormalizeStatus(status string) string {
	if status == "" {
		return ""
	}
	parts := strings.Split(status, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
