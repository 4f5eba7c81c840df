package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio-manager/portfolios-service/logging"
	"portfolio-manager/portfolios-service/models"
	"portfolio-manager/portfolios-service/repositories"
	"portfolio-manager/portfolios-service/services"
	"portfolio-manager/portfolios-service/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectHandler struct {
	Service *services.ProjectService
	Reports *services.ReportService
}

func NewProjectHandler(service *services.ProjectService, reports *services.ReportService) *ProjectHandler {
	return &ProjectHandler{Service: service, Reports: reports}
}

type projectRequest struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	StartDate      time.Time  `json:"startDate"`
	PlannedEndDate time.Time  `json:"plannedEndDate"`
	ActualEndDate  *time.Time `json:"actualEndDate,omitempty"`
	Budget         float64    `json:"budget"`
	Status         string     `json:"status,omitempty"`
	ManagerID      string     `json:"managerId,omitempty"`
	TeamMemberIDs  []string   `json:"teamMemberIds,omitempty"`
}

// projectResponse attaches the computed risk level to the stored project.
type projectResponse struct {
	models.Project
	RiskLevel models.RiskLevel `json:"riskLevel"`
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{Project: *p, RiskLevel: p.RiskLevel()}
}

type projectPageResponse struct {
	Items      []projectResponse `json:"items"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
}

func parseObjectIDs(hexIDs []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hexID := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	managerID, err := primitive.ObjectIDFromHex(req.ManagerID)
	if err != nil {
		http.Error(w, "Invalid manager ID", http.StatusBadRequest)
		return
	}
	teamIDs, ok := parseObjectIDs(req.TeamMemberIDs)
	if !ok {
		http.Error(w, "Invalid team member ID", http.StatusBadRequest)
		return
	}

	status := models.ProjectStatus("")
	if req.Status != "" {
		parsed, ok := models.ParseProjectStatus(req.Status)
		if !ok {
			http.Error(w, "Unknown project status", http.StatusBadRequest)
			return
		}
		status = parsed
	}

	project, err := h.Service.CreateProject(r.Context(), services.ProjectDraft{
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		PlannedEndDate: req.PlannedEndDate,
		ActualEndDate:  req.ActualEndDate,
		Budget:         req.Budget,
		Status:         status,
		ManagerID:      managerID,
		TeamMemberIDs:  teamIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	createdBy := "unknown"
	if tokenString := r.Header.Get("Authorization"); tokenString != "" {
		if username, err := utils.ExtractUsernameFromToken(strings.TrimPrefix(tokenString, "Bearer ")); err == nil {
			createdBy = username
		}
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by %s", project.ID.Hex(), createdBy)

	respondJSON(w, http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	patch := services.ProjectPatch{
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		PlannedEndDate: req.PlannedEndDate,
		ActualEndDate:  req.ActualEndDate,
		Budget:         req.Budget,
	}
	if req.ManagerID != "" {
		managerID, err := primitive.ObjectIDFromHex(req.ManagerID)
		if err != nil {
			http.Error(w, "Invalid manager ID", http.StatusBadRequest)
			return
		}
		patch.ManagerID = &managerID
	}
	if req.TeamMemberIDs != nil {
		teamIDs, ok := parseObjectIDs(req.TeamMemberIDs)
		if !ok {
			http.Error(w, "Invalid team member ID", http.StatusBadRequest)
			return
		}
		patch.TeamMemberIDs = teamIDs
	}

	project, err := h.Service.UpdateProject(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) ChangeProjectStatus(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	requested, ok := models.ParseProjectStatus(req.Status)
	if !ok {
		http.Error(w, "Unknown project status", http.StatusBadRequest)
		return
	}

	project, err := h.Service.ChangeProjectStatus(r.Context(), id, requested)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_STATUS_CHANGED, Description: Project %s moved to %s", project.ID.Hex(), project.Status)
	respondJSON(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteProject(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted", id.Hex())
	respondJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.Service.GetProjectByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	query := r.URL.Query()

	var status *models.ProjectStatus
	if raw := query.Get("status"); raw != "" {
		parsed, ok := models.ParseProjectStatus(raw)
		if !ok {
			http.Error(w, "Unknown project status", http.StatusBadRequest)
			return
		}
		status = &parsed
	}

	page := 0
	if raw := query.Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			page = parsed
		}
	}
	size := 10
	if raw := query.Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}

	result, err := h.Service.ListProjects(r.Context(), query.Get("name"), status, repositories.PageRequest{Page: page, Size: size})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]projectResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toProjectResponse(&result.Items[i]))
	}

	respondJSON(w, http.StatusOK, projectPageResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Size:       result.Size,
	})
}

func (h *ProjectHandler) GeneratePortfolioReport(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	report, err := h.Reports.GeneratePortfolioReport(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}
