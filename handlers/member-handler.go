package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"portfolio-manager/portfolios-service/models"
	"portfolio-manager/portfolios-service/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemberHandler struct {
	Service *services.MemberService
}

func NewMemberHandler(service *services.MemberService) *MemberHandler {
	return &MemberHandler{Service: service}
}

func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var req struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		http.Error(w, "Unknown member role", http.StatusBadRequest)
		return
	}

	member, err := h.Service.CreateMember(r.Context(), req.Name, role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) GetAllMembers(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	members, err := h.Service.GetAllMembers(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve members", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) GetMemberByID(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	member, err := h.Service.FindByID(r.Context(), id)
	if err != nil {
		// A directly requested member that does not exist is a 404, unlike
		// an unresolved team reference during validation.
		if errors.Is(err, models.ErrMemberNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve member", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, member)
}
