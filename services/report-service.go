package services

import (
	"context"

	"portfolio-manager/portfolios-service/models"
	"portfolio-manager/portfolios-service/repositories"
)

// ReportService computes the portfolio-wide statistics straight from the
// store's aggregate queries.
type ReportService struct {
	Store repositories.ProjectStore
}

func NewReportService(store repositories.ProjectStore) *ReportService {
	return &ReportService{Store: store}
}

// CountByStatus returns the project count for every defined status,
// including zeroes for statuses with no projects.
func (s *ReportService) CountByStatus(ctx context.Context) (map[models.ProjectStatus]int64, error) {
	counts, err := s.Store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	full := make(map[models.ProjectStatus]int64, len(models.AllProjectStatuses))
	for _, status := range models.AllProjectStatuses {
		full[status] = counts[status]
	}
	return full, nil
}

// BudgetByStatus returns the budget sum for every defined status, zero when
// no project matches.
func (s *ReportService) BudgetByStatus(ctx context.Context) (map[models.ProjectStatus]float64, error) {
	totals, err := s.Store.SumBudgetByStatus(ctx)
	if err != nil {
		return nil, err
	}
	full := make(map[models.ProjectStatus]float64, len(models.AllProjectStatuses))
	for _, status := range models.AllProjectStatuses {
		full[status] = totals[status]
	}
	return full, nil
}

// AverageFinishedDurationDays averages actualEndDate-startDate over finished
// projects; nil means there is no finished project to average over.
func (s *ReportService) AverageFinishedDurationDays(ctx context.Context) (*float64, error) {
	return s.Store.AverageFinishedDurationDays(ctx)
}

// UniqueAllocatedMembersCount counts distinct members across all team sets.
// Managers do not count unless they also appear in a team.
func (s *ReportService) UniqueAllocatedMembersCount(ctx context.Context) (int64, error) {
	return s.Store.CountUniqueAllocatedMembers(ctx)
}

// GeneratePortfolioReport assembles the full report.
func (s *ReportService) GeneratePortfolioReport(ctx context.Context) (*models.PortfolioReport, error) {
	counts, err := s.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := s.BudgetByStatus(ctx)
	if err != nil {
		return nil, err
	}
	avgDuration, err := s.AverageFinishedDurationDays(ctx)
	if err != nil {
		return nil, err
	}
	uniqueMembers, err := s.UniqueAllocatedMembersCount(ctx)
	if err != nil {
		return nil, err
	}

	return &models.PortfolioReport{
		ProjectsByStatus:            counts,
		BudgetByStatus:              budgets,
		AverageFinishedDurationDays: avgDuration,
		UniqueMembersAllocated:      uniqueMembers,
	}, nil
}
