package repositories

import (
	"context"

	"portfolio-manager/portfolios-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PageRequest struct {
	Page int
	Size int
}

type ProjectFilter struct {
	Name   string
	Status *models.ProjectStatus
}

type ProjectPage struct {
	Items      []models.Project `json:"items"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
}

// ProjectStore is the persistence contract for the project portfolio. The
// aggregate queries back the portfolio report; CountActiveProjectsForMember
// backs the team capacity check (excludedProjectID is NilObjectID when no
// project is being edited).
type ProjectStore interface {
	Save(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindPage(ctx context.Context, filter ProjectFilter, page PageRequest) (*ProjectPage, error)

	CountByStatus(ctx context.Context) (map[models.ProjectStatus]int64, error)
	SumBudgetByStatus(ctx context.Context) (map[models.ProjectStatus]float64, error)
	AverageFinishedDurationDays(ctx context.Context) (*float64, error)
	CountUniqueAllocatedMembers(ctx context.Context) (int64, error)
	CountActiveProjectsForMember(ctx context.Context, memberID, excludedProjectID primitive.ObjectID) (int64, error)
}
