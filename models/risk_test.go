package models

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2024, time.January, 15), date(2024, time.January, 15), 0},
		{"exactly three months", date(2024, time.January, 15), date(2024, time.April, 15), 3},
		{"three months minus a day", date(2024, time.January, 15), date(2024, time.April, 14), 2},
		{"across year boundary", date(2023, time.November, 1), date(2024, time.February, 1), 3},
		{"end before start", date(2024, time.May, 1), date(2024, time.April, 1), 0},
	}

	for _, tc := range cases {
		if got := MonthsBetween(tc.start, tc.end); got != tc.want {
			t.Errorf("%s: MonthsBetween = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestClassifyRisk(t *testing.T) {
	start := date(2024, time.January, 1)
	cases := []struct {
		name   string
		budget float64
		end    time.Time
		want   RiskLevel
	}{
		{"low budget short duration", 100000, date(2024, time.April, 1), RiskLow},
		{"medium budget short duration", 300000, date(2024, time.March, 1), RiskMedium},
		{"low budget long duration", 100000, date(2024, time.August, 1), RiskHigh},
		{"low budget medium duration", 50000, date(2024, time.June, 1), RiskMedium},
		{"high budget", 600000, date(2024, time.February, 1), RiskHigh},
		{"budget at upper medium bound", 500000, date(2024, time.February, 1), RiskMedium},
		{"duration just under three months", 50000, date(2024, time.March, 31), RiskLow},
	}

	for _, tc := range cases {
		if got := ClassifyRisk(tc.budget, start, tc.end); got != tc.want {
			t.Errorf("%s: ClassifyRisk = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestProjectRiskLevelIsDerived(t *testing.T) {
	p := &Project{
		Budget:         50000,
		StartDate:      date(2024, time.January, 1),
		PlannedEndDate: date(2024, time.March, 1),
	}
	if got := p.RiskLevel(); got != RiskLow {
		t.Errorf("RiskLevel = %s, want %s", got, RiskLow)
	}

	p.Budget = 600000
	if got := p.RiskLevel(); got != RiskHigh {
		t.Errorf("RiskLevel after budget change = %s, want %s", got, RiskHigh)
	}
}
