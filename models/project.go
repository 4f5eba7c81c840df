package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinTeamSize = 1
	MaxTeamSize = 10
)

// Project references its manager and team by member id only; the member
// documents live in the member directory and are resolved on demand.
type Project struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	Description    string               `json:"description" bson:"description"`
	StartDate      time.Time            `json:"startDate" bson:"startDate"`
	PlannedEndDate time.Time            `json:"plannedEndDate" bson:"plannedEndDate"`
	ActualEndDate  *time.Time           `json:"actualEndDate,omitempty" bson:"actualEndDate,omitempty"`
	Budget         float64              `json:"budget" bson:"budget"`
	Status         ProjectStatus        `json:"status" bson:"status"`
	ManagerID      primitive.ObjectID   `json:"managerId" bson:"managerId"`
	TeamMemberIDs  []primitive.ObjectID `json:"teamMemberIds" bson:"teamMemberIds"`
}

// RiskLevel computes the project's risk classification from budget and
// planned duration.
func (p *Project) RiskLevel() RiskLevel {
	return ClassifyRisk(p.Budget, p.StartDate, p.PlannedEndDate)
}

// IsActive reports whether the project counts against a member's capacity.
func (p *Project) IsActive() bool {
	return !p.Status.IsTerminal()
}
