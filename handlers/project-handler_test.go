package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-manager/portfolios-service/models"
	"portfolio-manager/portfolios-service/repositories"
	"portfolio-manager/portfolios-service/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubDirectory struct {
	members map[primitive.ObjectID]models.Member
}

func (d *stubDirectory) add(name string, role models.Role) models.Member {
	member := models.Member{ID: primitive.NewObjectID(), Name: name, Role: role, Active: true}
	d.members[member.ID] = member
	return member
}

func (d *stubDirectory) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	member, ok := d.members[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrMemberNotFound, id.Hex())
	}
	return &member, nil
}

func (d *stubDirectory) FindAllByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Member, error) {
	var found []models.Member
	for _, id := range ids {
		if member, ok := d.members[id]; ok {
			found = append(found, member)
		}
	}
	return found, nil
}

func newTestRouter() (*mux.Router, *stubDirectory, *repositories.InMemoryProjectStore) {
	directory := &stubDirectory{members: map[primitive.ObjectID]models.Member{}}
	store := repositories.NewInMemoryProjectStore()
	validator := services.NewTeamValidator(directory, store)
	projectService := services.NewProjectService(store, directory, validator)
	reportService := services.NewReportService(store)
	handler := NewProjectHandler(projectService, reportService)

	r := mux.NewRouter()
	r.HandleFunc("/api/projects/report", handler.GeneratePortfolioReport).Methods("GET")
	r.HandleFunc("/api/projects", handler.CreateProject).Methods("POST")
	r.HandleFunc("/api/projects", handler.ListProjects).Methods("GET")
	r.HandleFunc("/api/projects/{id}", handler.GetProjectByID).Methods("GET")
	r.HandleFunc("/api/projects/{id}", handler.UpdateProject).Methods("PUT")
	r.HandleFunc("/api/projects/{id}", handler.DeleteProject).Methods("DELETE")
	r.HandleFunc("/api/projects/{id}/status", handler.ChangeProjectStatus).Methods("PATCH")
	return r, directory, store
}

func createRequestBody(t *testing.T, managerID primitive.ObjectID, teamIDs ...primitive.ObjectID) *bytes.Buffer {
	t.Helper()
	team := make([]string, 0, len(teamIDs))
	for _, id := range teamIDs {
		team = append(team, id.Hex())
	}
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"name":           "Data warehouse",
		"description":    "Reporting base",
		"startDate":      start.Format(time.RFC3339),
		"plannedEndDate": start.AddDate(0, 2, 0).Format(time.RFC3339),
		"budget":         50000,
		"managerId":      managerID.Hex(),
		"teamMemberIds":  team,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestCreateProjectRequiresManagerRole(t *testing.T) {
	router, directory, _ := newTestRouter()
	manager := directory.add("Gil", models.RoleManager)
	staff := directory.add("Hana", models.RoleStaff)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", createRequestBody(t, manager.ID, staff.ID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("missing Role header: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCreateProjectReturnsRiskLevel(t *testing.T) {
	router, directory, _ := newTestRouter()
	manager := directory.add("Ines", models.RoleManager)
	staff := directory.add("Jonas", models.RoleStaff)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", createRequestBody(t, manager.ID, staff.ID))
	req.Header.Set("Role", "manager")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		Status    models.ProjectStatus `json:"status"`
		RiskLevel models.RiskLevel     `json:"riskLevel"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != models.StatusUnderAnalysis {
		t.Errorf("status = %s, want %s", resp.Status, models.StatusUnderAnalysis)
	}
	if resp.RiskLevel != models.RiskLow {
		t.Errorf("riskLevel = %s, want %s", resp.RiskLevel, models.RiskLow)
	}
}

func TestCreateProjectStaffManagerIsBadRequest(t *testing.T) {
	router, directory, _ := newTestRouter()
	staffManager := directory.add("Kai", models.RoleStaff)
	staff := directory.add("Lena", models.RoleStaff)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", createRequestBody(t, staffManager.ID, staff.ID))
	req.Header.Set("Role", "manager")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("staff manager: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetUnknownProjectIsNotFound(t *testing.T) {
	router, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+primitive.NewObjectID().Hex(), nil)
	req.Header.Set("Role", "member")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown project: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestChangeStatusSkipIsBadRequest(t *testing.T) {
	router, directory, store := newTestRouter()
	staff := directory.add("Mila", models.RoleStaff)

	project := &models.Project{
		ID:             primitive.NewObjectID(),
		Name:           "Switch rollout",
		StartDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		PlannedEndDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Budget:         20000,
		Status:         models.StatusUnderAnalysis,
		ManagerID:      primitive.NewObjectID(),
		TeamMemberIDs:  []primitive.ObjectID{staff.ID},
	}
	if err := store.Save(context.Background(), project); err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}

	body := bytes.NewBufferString(`{"status":"IN_PROGRESS"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/projects/"+project.ID.Hex()+"/status", body)
	req.Header.Set("Role", "manager")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("skipped transition: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestPortfolioReportEndpoint(t *testing.T) {
	router, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/projects/report", nil)
	req.Header.Set("Role", "manager")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("report: got %d, want %d", rec.Code, http.StatusOK)
	}

	var report models.PortfolioReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if len(report.ProjectsByStatus) != len(models.AllProjectStatuses) {
		t.Errorf("expected every status in the report, got %d keys", len(report.ProjectsByStatus))
	}
	if report.AverageFinishedDurationDays != nil {
		t.Errorf("empty portfolio: expected nil average, got %v", *report.AverageFinishedDurationDays)
	}
}
