package models

// GoalCategory is one of the four strategic goals.
type GoalCategory int

const (
	// GoalStrengthenImpact tracks books, children, and the books-per-child ratio.
	GoalStrengthenImpact GoalCategory = iota
	// GoalInspireEngagement tracks content views, recurring partners, and in-person events.
	GoalInspireEngagement
	// GoalAdvanceInnovation tracks original book production.
	GoalAdvanceInnovation
	// GoalOptimizeSustainability tracks annual distribution capacity.
	GoalOptimizeSustainability
)

// String returns the goal's display name.
func (g GoalCategory) String() string {
	switch g {
	case GoalStrengthenImpact:
		return "Strengthen Impact"
	case GoalInspireEngagement:
		return "Inspire Engagement"
	case GoalAdvanceInnovation:
		return "Advance Innovation"
	case GoalOptimizeSustainability:
		return "Optimize Sustainability"
	default:
		return "Unknown"
	}
}

// Key returns the goal's snake_case identifier used in sheet names and config.
func (g GoalCategory) Key() string {
	switch g {
	case GoalStrengthenImpact:
		return "strengthen_impact"
	case GoalInspireEngagement:
		return "inspire_engagement"
	case GoalAdvanceInnovation:
		return "advance_innovation"
	case GoalOptimizeSustainability:
		return "optimize_sustainability"
	default:
		return "unknown"
	}
}

// GoalOrder returns the four goals in their fixed configuration order. Report
// output follows this order deterministically.
func GoalOrder() []GoalCategory {
	return []GoalCategory{
		GoalStrengthenImpact,
		GoalInspireEngagement,
		GoalAdvanceInnovation,
		GoalOptimizeSustainability,
	}
}

// GoalTargets holds the numeric targets the dashboard measures progress
// against. Loaded from goals.json and hot-reloaded on change.
type GoalTargets struct {
	BooksPerChild float64 `json:"books_per_child"`
	ContentViews  float64 `json:"content_views"`
	AnnualBooks   float64 `json:"annual_books"`
}

// DefaultGoalTargets returns the targets used when no goals file exists.
func DefaultGoalTargets() GoalTargets {
	return GoalTargets{
		BooksPerChild: 4.0,
		ContentViews:  1_500_000,
		AnnualBooks:   600_000,
	}
}

// PaceStatus classifies a run-rate projection against a goal target.
type PaceStatus int

const (
	// PaceUnknown means not enough data to project.
	PaceUnknown PaceStatus = iota
	// PaceSafe means the observed rate reaches the target by fiscal year end.
	PaceSafe
	// PaceWarning means the projection falls short of the target.
	PaceWarning
	// PaceCritical means the projection falls far short of the target.
	PaceCritical
)

// String returns the pace status name.
func (p PaceStatus) String() string {
	switch p {
	case PaceSafe:
		return "safe"
	case PaceWarning:
		return "warning"
	case PaceCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GoalProgress is one goal's standing against its target.
type GoalProgress struct {
	Goal    GoalCategory
	Metric  string
	Actual  float64
	Target  float64
	Percent float64
	Pace    PaceStatus
}
