package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"portfolio-manager/portfolios-service/models"
)

func checkRole(r *http.Request, allowedRoles []string) error {
	userRole := r.Header.Get("Role")
	if userRole == "" {
		return fmt.Errorf("role is missing in request header")
	}

	for _, role := range allowedRoles {
		if role == userRole {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeDomainError maps the domain failure kinds onto HTTP status codes:
// missing project 404, every validation kind 400, anything else 500.
func writeDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrProjectNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if errors.Is(err, models.ErrMemberNotFound) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		validationErr   *models.ValidationError
		dateErr         *models.InvalidDateError
		transitionErr   *models.InvalidTransitionError
		roleErr         *models.RoleMismatchError
		teamSizeErr     *models.InvalidTeamSizeError
		capacityErr     *models.CapacityExceededError
		notPermittedErr *models.OperationNotPermittedError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &dateErr),
		errors.As(err, &transitionErr),
		errors.As(err, &roleErr),
		errors.As(err, &teamSizeErr),
		errors.As(err, &capacityErr),
		errors.As(err, &notPermittedErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
