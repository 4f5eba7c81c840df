package models

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// MonthsBetween counts the whole calendar months from start to end. A month
// only counts once the day of month has been reached, so three months minus
// a day is two whole months.
func MonthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}

// ClassifyRisk derives the risk level from the budget and the planned
// duration. It is computed on every read and never persisted.
func ClassifyRisk(budget float64, startDate, plannedEndDate time.Time) RiskLevel {
	months := MonthsBetween(startDate, plannedEndDate)

	switch {
	case budget <= 100000 && months <= 3:
		return RiskLow
	case (budget > 100000 && budget <= 500000) || (months > 3 && months <= 6):
		return RiskMedium
	default:
		return RiskHigh
	}
}
