package services

import (
	"context"
	"math"
	"testing"

	"portfolio-manager/portfolios-service/models"
	"portfolio-manager/portfolios-service/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCountByStatusIncludesZeroes(t *testing.T) {
	store := repositories.NewInMemoryProjectStore()
	staff := primitive.NewObjectID()
	seedProject(t, store, models.StatusUnderAnalysis, staff)
	seedProject(t, store, models.StatusUnderAnalysis, staff)
	seedProject(t, store, models.StatusCancelled, staff)

	reports := NewReportService(store)
	counts, err := reports.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}

	if len(counts) != len(models.AllProjectStatuses) {
		t.Errorf("expected a key for every status, got %d keys", len(counts))
	}
	if counts[models.StatusUnderAnalysis] != 2 {
		t.Errorf("UNDER_ANALYSIS count = %d, want 2", counts[models.StatusUnderAnalysis])
	}
	if counts[models.StatusFinished] != 0 {
		t.Errorf("FINISHED count = %d, want 0", counts[models.StatusFinished])
	}
}

func TestBudgetByStatusSumsAndZeroFills(t *testing.T) {
	store := repositories.NewInMemoryProjectStore()
	staff := primitive.NewObjectID()
	first := seedProject(t, store, models.StatusStarted, staff)
	second := seedProject(t, store, models.StatusStarted, staff)

	reports := NewReportService(store)
	budgets, err := reports.BudgetByStatus(context.Background())
	if err != nil {
		t.Fatalf("BudgetByStatus failed: %v", err)
	}

	want := first.Budget + second.Budget
	if budgets[models.StatusStarted] != want {
		t.Errorf("STARTED budget = %f, want %f", budgets[models.StatusStarted], want)
	}
	if budgets[models.StatusFinished] != 0 {
		t.Errorf("FINISHED budget = %f, want 0", budgets[models.StatusFinished])
	}
}

func TestAverageFinishedDurationDays(t *testing.T) {
	store := repositories.NewInMemoryProjectStore()
	reports := NewReportService(store)
	ctx := context.Background()

	// No finished project at all: the sentinel is nil, not an error.
	avg, err := reports.AverageFinishedDurationDays(ctx)
	if err != nil {
		t.Fatalf("AverageFinishedDurationDays failed: %v", err)
	}
	if avg != nil {
		t.Fatalf("expected nil sentinel, got %f", *avg)
	}

	staff := primitive.NewObjectID()
	short := seedProject(t, store, models.StatusFinished, staff)
	end := short.StartDate.AddDate(0, 0, 10)
	short.ActualEndDate = &end
	if err := store.Save(ctx, short); err != nil {
		t.Fatalf("failed to save finished project: %v", err)
	}

	long := seedProject(t, store, models.StatusFinished, staff)
	longEnd := long.StartDate.AddDate(0, 0, 30)
	long.ActualEndDate = &longEnd
	if err := store.Save(ctx, long); err != nil {
		t.Fatalf("failed to save finished project: %v", err)
	}

	avg, err = reports.AverageFinishedDurationDays(ctx)
	if err != nil {
		t.Fatalf("AverageFinishedDurationDays failed: %v", err)
	}
	if avg == nil {
		t.Fatal("expected an average, got nil")
	}
	if math.Abs(*avg-20) > 1e-9 {
		t.Errorf("average duration = %f days, want 20", *avg)
	}
}

func TestAverageIgnoresFinishedWithoutActualEnd(t *testing.T) {
	store := repositories.NewInMemoryProjectStore()
	staff := primitive.NewObjectID()
	seedProject(t, store, models.StatusFinished, staff)

	reports := NewReportService(store)
	avg, err := reports.AverageFinishedDurationDays(context.Background())
	if err != nil {
		t.Fatalf("AverageFinishedDurationDays failed: %v", err)
	}
	if avg != nil {
		t.Errorf("finished project without actual end date must not count, got %f", *avg)
	}
}

func TestUniqueAllocatedMembersCount(t *testing.T) {
	store := repositories.NewInMemoryProjectStore()
	shared := primitive.NewObjectID()
	other := primitive.NewObjectID()

	// The same member on two projects counts once; managers are referenced
	// outside the team set and never count.
	seedProject(t, store, models.StatusStarted, shared, other)
	seedProject(t, store, models.StatusInProgress, shared)

	reports := NewReportService(store)
	count, err := reports.UniqueAllocatedMembersCount(context.Background())
	if err != nil {
		t.Fatalf("UniqueAllocatedMembersCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("unique member count = %d, want 2", count)
	}
}

func TestGeneratePortfolioReport(t *testing.T) {
	store := repositories.NewInMemoryProjectStore()
	staff := primitive.NewObjectID()
	finished := seedProject(t, store, models.StatusFinished, staff)
	end := finished.StartDate.AddDate(0, 0, 5)
	finished.ActualEndDate = &end
	if err := store.Save(context.Background(), finished); err != nil {
		t.Fatalf("failed to save finished project: %v", err)
	}
	seedProject(t, store, models.StatusUnderAnalysis, staff)

	reports := NewReportService(store)
	report, err := reports.GeneratePortfolioReport(context.Background())
	if err != nil {
		t.Fatalf("GeneratePortfolioReport failed: %v", err)
	}

	if report.ProjectsByStatus[models.StatusFinished] != 1 {
		t.Errorf("finished count = %d, want 1", report.ProjectsByStatus[models.StatusFinished])
	}
	if report.AverageFinishedDurationDays == nil || *report.AverageFinishedDurationDays != 5 {
		t.Errorf("unexpected average duration: %v", report.AverageFinishedDurationDays)
	}
	if report.UniqueMembersAllocated != 1 {
		t.Errorf("unique members = %d, want 1", report.UniqueMembersAllocated)
	}
}
