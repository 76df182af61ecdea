// Package models defines data structures and domain types.
package models

import (
	"strconv"
	"strings"
	"time"
)

// Source identifies the Fusioo collection a record came from.
type Source int

const (
	// SourceActivity is the current-schema Activity Reports collection (July 2025 onward).
	SourceActivity Source = iota
	// SourceLegacy is the pre-July-2025 Program Partners collection.
	SourceLegacy
	// SourceContentViews is the digital/newsletter content views collection.
	SourceContentViews
	// SourceOriginalBooks is the original book production collection.
	SourceOriginalBooks
	// SourcePartners is the partner sites collection, used for name lookups.
	SourcePartners
)

// String returns the collection name for a Source.
func (s Source) String() string {
	switch s {
	case SourceActivity:
		return "activity"
	case SourceLegacy:
		return "legacy"
	case SourceContentViews:
		return "content_views"
	case SourceOriginalBooks:
		return "original_books"
	case SourcePartners:
		return "partners"
	default:
		return "unknown"
	}
}

// FusiooDateLayout is the date portion of Fusioo's "2006-01-02|15:04" values.
const FusiooDateLayout = "2006-01-02"

// RawRecord is one API-returned row: the source collection tag plus the decoded
// JSON fields. Fusioo returns single-select values as one-element arrays and
// dates as "YYYY-MM-DD|HH:MM" strings; the accessors below absorb both quirks.
type RawRecord struct {
	Source Source
	ID     string
	Fields map[string]any
}

// Has reports whether the record carries a non-nil value for key.
func (r RawRecord) Has(key string) bool {
	v, ok := r.Fields[key]
	return ok && v != nil
}

// unwrap flattens Fusioo's single-element array values.
func unwrap(v any) any {
	if list, ok := v.([]any); ok && len(list) == 1 {
		return list[0]
	}
	return v
}

// Text returns the string value for key, or "" when absent. Multi-select
// values join their parts with ", ".
func (r RawRecord) Text(key string) string {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return ""
	}
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, toText(item))
		}
		return strings.Join(parts, ", ")
	}
	return toText(v)
}

func toText(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// Number returns the numeric value for key, coercing numeric strings, or 0.
func (r RawRecord) Number(key string) float64 {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return 0
	}
	switch val := unwrap(v).(type) {
	case float64:
		return val
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
		if cleaned == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return f
		}
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Bool returns the boolean value for key. Fusioo checkboxes arrive as bools,
// "true"/"false" strings, or "Yes"/"No" select values.
func (r RawRecord) Bool(key string) bool {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return false
	}
	switch val := unwrap(v).(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "1":
			return true
		}
		return false
	case float64:
		return val != 0
	default:
		return false
	}
}

// Date parses the date value for key, splitting off the |HH:MM suffix.
// The bool result is false when the field is absent or unparsable.
func (r RawRecord) Date(key string) (time.Time, bool) {
	raw := r.Text(key)
	if raw == "" {
		return time.Time{}, false
	}
	if idx := strings.IndexByte(raw, '|'); idx >= 0 {
		raw = raw[:idx]
	}
	t, err := time.Parse(FusiooDateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Channel is the delivery channel derived from a record's activity type.
type Channel int

const (
	// ChannelOther covers activity types with no recognized channel.
	ChannelOther Channel = iota
	// ChannelInPerson covers literacy materials distributions and family literacy activities.
	ChannelInPerson
	// ChannelDistribution covers other bulk distribution activities.
	ChannelDistribution
	// ChannelDigital covers virtual and online activities.
	ChannelDigital
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case ChannelInPerson:
		return "in-person"
	case ChannelDistribution:
		return "distribution"
	case ChannelDigital:
		return "digital"
	default:
		return "other"
	}
}

// AgeBreakdown counts children served by age bracket.
type AgeBreakdown struct {
	ZeroToTwo    float64
	ThreeToFive  float64
	SixToEight   float64
	NineToTwelve float64
	Teens        float64
}

// Total returns the sum across all brackets.
func (a AgeBreakdown) Total() float64 {
	return a.ZeroToTwo + a.ThreeToFive + a.SixToEight + a.NineToTwelve + a.Teens
}

// Add returns the bracket-wise sum of two breakdowns.
func (a AgeBreakdown) Add(b AgeBreakdown) AgeBreakdown {
	return AgeBreakdown{
		ZeroToTwo:    a.ZeroToTwo + b.ZeroToTwo,
		ThreeToFive:  a.ThreeToFive + b.ThreeToFive,
		SixToEight:   a.SixToEight + b.SixToEight,
		NineToTwelve: a.NineToTwelve + b.NineToTwelve,
		Teens:        a.Teens + b.Teens,
	}
}

// NormalizedRecord is the canonical activity row both schemas reconcile to.
// Immutable after creation. The *All fields keep the pre-adjustment tallies
// when the previously-served exclusion zeroes the adjusted ones.
type NormalizedRecord struct {
	ID           string
	Date         time.Time
	Program      string
	ActivityType string
	County       string
	PartnerID    string
	Channel      Channel

	BooksDistributed    float64
	ChildrenServed      float64
	BooksDistributedAll float64
	ChildrenServedAll   float64

	Ages       AgeBreakdown
	Caregivers float64

	MinutesOfActivity float64
	PercentLowIncome  float64

	PreviouslyServed bool
	Source           Source
}

// ContentViewRecord is one normalized content-views row.
type ContentViewRecord struct {
	ID              string
	Date            time.Time
	DigitalViews    float64
	NewsletterViews float64
}

// TotalViews returns digital plus newsletter views.
func (c ContentViewRecord) TotalViews() float64 {
	return c.DigitalViews + c.NewsletterViews
}

// OriginalBookRecord is one normalized original-book production row.
// Status holds the normalized form (comma parts trimmed and sorted).
type OriginalBookRecord struct {
	ID        string
	Title     string
	Status    string
	Language  string
	AgeGroup  string
	Completed bool
	Bilingual bool
}

// PartnerRecord is the slim partner row used for name lookups and the
// low-income rollup. Name falls back to the main organization when the site
// name is the "Various" placeholder.
type PartnerRecord struct {
	ID               string
	Name             string
	PercentLowIncome float64
}

// SchemaWarning records one skipped or partially-mapped record.
type SchemaWarning struct {
	Source   Source
	RecordID string
	Field    string
	Reason   string
}
