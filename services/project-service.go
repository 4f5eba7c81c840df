package services

import (
	"context"
	"sync"
	"time"

	"portfolio-manager/portfolios-service/models"
	"portfolio-manager/portfolios-service/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectDraft is the input for creating a project. Status is optional; when
// set it must be the initial status, anything else is rejected.
type ProjectDraft struct {
	Name           string
	Description    string
	StartDate      time.Time
	PlannedEndDate time.Time
	ActualEndDate  *time.Time
	Budget         float64
	Status         models.ProjectStatus
	ManagerID      primitive.ObjectID
	TeamMemberIDs  []primitive.ObjectID
}

// ProjectPatch is the input for updating a project. A nil ManagerID leaves
// the manager unchanged; a nil TeamMemberIDs leaves the team unchanged. The
// status is never changed through update, only through ChangeProjectStatus.
type ProjectPatch struct {
	Name           string
	Description    string
	StartDate      time.Time
	PlannedEndDate time.Time
	ActualEndDate  *time.Time
	Budget         float64
	ManagerID      *primitive.ObjectID
	TeamMemberIDs  []primitive.ObjectID
}

// ProjectService owns the project lifecycle: the ordered status machine, the
// edit and delete gates, and the eligibility checks run before any write.
type ProjectService struct {
	Store     repositories.ProjectStore
	Directory MemberDirectory
	Validator *TeamValidator

	// mu serializes the mutating operations so the capacity pre-check and
	// the following save act as one unit. With MongoDB and a single service
	// instance this closes the check-then-act window; multiple instances
	// would need a store-level constraint instead.
	mu sync.Mutex
}

func NewProjectService(store repositories.ProjectStore, directory MemberDirectory, validator *TeamValidator) *ProjectService {
	return &ProjectService{
		Store:     store,
		Directory: directory,
		Validator: validator,
	}
}

// CreateProject validates the draft and persists a new project in the
// initial status. Nothing is written when any check fails.
func (s *ProjectService) CreateProject(ctx context.Context, draft ProjectDraft) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateProjectFields(draft.Name, draft.Budget); err != nil {
		return nil, err
	}
	if err := validateProjectDates(draft.StartDate, draft.PlannedEndDate, draft.ActualEndDate); err != nil {
		return nil, err
	}
	if draft.Status != "" && draft.Status != models.StatusUnderAnalysis {
		return nil, &models.InvalidTransitionError{To: draft.Status}
	}

	manager, err := s.Directory.FindByID(ctx, draft.ManagerID)
	if err != nil {
		return nil, err
	}
	if err := s.Validator.ValidateManager(manager); err != nil {
		return nil, err
	}

	if err := s.Validator.ValidateTeam(ctx, draft.TeamMemberIDs, primitive.NilObjectID); err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:             primitive.NewObjectID(),
		Name:           draft.Name,
		Description:    draft.Description,
		StartDate:      draft.StartDate,
		PlannedEndDate: draft.PlannedEndDate,
		ActualEndDate:  draft.ActualEndDate,
		Budget:         draft.Budget,
		Status:         models.StatusUnderAnalysis,
		ManagerID:      draft.ManagerID,
		TeamMemberIDs:  dedupeIDs(draft.TeamMemberIDs),
	}

	if err := s.Store.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject edits a non-terminal project. The manager is re-validated
// only when it changes; the team is re-validated whenever the patch carries
// an explicit member id set.
func (s *ProjectService) UpdateProject(ctx context.Context, id primitive.ObjectID, patch ProjectPatch) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.Status.CanBeEdited() {
		return nil, &models.OperationNotPermittedError{Operation: "edit", Status: project.Status}
	}

	if err := validateProjectFields(patch.Name, patch.Budget); err != nil {
		return nil, err
	}
	if err := validateProjectDates(patch.StartDate, patch.PlannedEndDate, patch.ActualEndDate); err != nil {
		return nil, err
	}

	if patch.ManagerID != nil && *patch.ManagerID != project.ManagerID {
		manager, err := s.Directory.FindByID(ctx, *patch.ManagerID)
		if err != nil {
			return nil, err
		}
		if err := s.Validator.ValidateManager(manager); err != nil {
			return nil, err
		}
		project.ManagerID = *patch.ManagerID
	}

	if patch.TeamMemberIDs != nil {
		if err := s.Validator.ValidateTeam(ctx, patch.TeamMemberIDs, project.ID); err != nil {
			return nil, err
		}
		project.TeamMemberIDs = dedupeIDs(patch.TeamMemberIDs)
	}

	project.Name = patch.Name
	project.Description = patch.Description
	project.StartDate = patch.StartDate
	project.PlannedEndDate = patch.PlannedEndDate
	project.ActualEndDate = patch.ActualEndDate
	project.Budget = patch.Budget

	if err := s.Store.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ChangeProjectStatus moves a project one step forward in the lifecycle, or
// cancels it while it is not terminal. Reaching FINISHED stamps the actual
// end date.
func (s *ProjectService) ChangeProjectStatus(ctx context.Context, id primitive.ObjectID, requested models.ProjectStatus) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !project.Status.CanTransitionTo(requested) {
		return nil, &models.InvalidTransitionError{From: project.Status, To: requested}
	}

	if requested == models.StatusFinished {
		now := time.Now()
		project.ActualEndDate = &now
	}
	project.Status = requested

	if err := s.Store.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project unless its status forbids deletion.
func (s *ProjectService) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !project.Status.CanBeDeleted() {
		return &models.OperationNotPermittedError{Operation: "delete", Status: project.Status}
	}
	return s.Store.Delete(ctx, project.ID)
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	return s.Store.FindByID(ctx, id)
}

// ListProjects returns one page of projects, optionally filtered by a
// case-insensitive name fragment and a status.
func (s *ProjectService) ListProjects(ctx context.Context, name string, status *models.ProjectStatus, page repositories.PageRequest) (*repositories.ProjectPage, error) {
	return s.Store.FindPage(ctx, repositories.ProjectFilter{Name: name, Status: status}, page)
}

func validateProjectFields(name string, budget float64) error {
	if name == "" {
		return &models.ValidationError{Message: "project name is required"}
	}
	if budget <= 0 {
		return &models.ValidationError{Message: "project budget must be positive"}
	}
	return nil
}

func validateProjectDates(startDate, plannedEndDate time.Time, actualEndDate *time.Time) error {
	if !plannedEndDate.After(startDate) {
		return &models.InvalidDateError{Message: "planned end date must be after start date"}
	}
	if actualEndDate != nil && actualEndDate.Before(startDate) {
		return &models.InvalidDateError{Message: "actual end date cannot be before start date"}
	}
	return nil
}
