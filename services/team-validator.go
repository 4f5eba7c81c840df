package services

import (
	"context"
	"fmt"

	"portfolio-manager/portfolios-service/models"
	"portfolio-manager/portfolios-service/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxActiveProjectsPerMember caps a staff member's concurrent assignments.
const MaxActiveProjectsPerMember = 3

// TeamValidator enforces the team composition rules: role separation, team
// size bounds and per-member capacity.
type TeamValidator struct {
	Directory MemberDirectory
	Store     repositories.ProjectStore
}

func NewTeamValidator(directory MemberDirectory, store repositories.ProjectStore) *TeamValidator {
	return &TeamValidator{Directory: directory, Store: store}
}

// ValidateManager checks that the given member can manage a project.
func (v *TeamValidator) ValidateManager(member *models.Member) error {
	if member.Role != models.RoleManager {
		return &models.RoleMismatchError{MemberName: member.Name, Required: models.RoleManager}
	}
	return nil
}

// ValidateTeam checks a proposed team member id set. Checks run in a fixed
// order so the reported failure is deterministic: size, existence, role,
// capacity. excludedProjectID is the project being edited, NilObjectID when
// validating a new project.
func (v *TeamValidator) ValidateTeam(ctx context.Context, memberIDs []primitive.ObjectID, excludedProjectID primitive.ObjectID) error {
	unique := dedupeIDs(memberIDs)

	if len(unique) < models.MinTeamSize || len(unique) > models.MaxTeamSize {
		return &models.InvalidTeamSizeError{Size: len(unique)}
	}

	members, err := v.Directory.FindAllByIDs(ctx, unique)
	if err != nil {
		return err
	}
	// The query silently drops unknown ids, so the count has to match.
	if len(members) != len(unique) {
		return fmt.Errorf("%w: one or more team members do not exist", models.ErrMemberNotFound)
	}

	for _, member := range members {
		if member.Role != models.RoleStaff {
			return &models.RoleMismatchError{MemberName: member.Name, Required: models.RoleStaff}
		}
	}

	for _, member := range members {
		active, err := v.Store.CountActiveProjectsForMember(ctx, member.ID, excludedProjectID)
		if err != nil {
			return err
		}
		if active >= MaxActiveProjectsPerMember {
			return &models.CapacityExceededError{
				MemberName:     member.Name,
				ActiveProjects: active,
				Limit:          MaxActiveProjectsPerMember,
			}
		}
	}

	return nil
}

func dedupeIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := map[primitive.ObjectID]struct{}{}
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
