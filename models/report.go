package models

// PortfolioReport aggregates the whole portfolio. Every defined status is
// present as a key in both maps, zero-valued when no project matches.
// AverageFinishedDurationDays is nil when no finished project has an actual
// end date.
type PortfolioReport struct {
	ProjectsByStatus            map[ProjectStatus]int64   `json:"projectsByStatus"`
	BudgetByStatus              map[ProjectStatus]float64 `json:"budgetByStatus"`
	AverageFinishedDurationDays *float64                  `json:"averageFinishedDurationDays"`
	UniqueMembersAllocated      int64                     `json:"uniqueMembersAllocated"`
}
