package models

import (
	"errors"
	"fmt"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrMemberNotFound  = errors.New("member not found")
)

// ValidationError covers malformed input outside the specific failure kinds
// below (missing name, non-positive budget, unknown role).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type InvalidDateError struct {
	Message string
}

func (e *InvalidDateError) Error() string {
	return e.Message
}

// InvalidTransitionError names both states of a rejected status change. An
// empty From means the project was being created with a non-initial status.
type InvalidTransitionError struct {
	From ProjectStatus
	To   ProjectStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("new projects must start with status %s, got %s", StatusUnderAnalysis, e.To)
	}
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

type RoleMismatchError struct {
	MemberName string
	Required   Role
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("member %s must have the %s role", e.MemberName, e.Required)
}

type InvalidTeamSizeError struct {
	Size int
}

func (e *InvalidTeamSizeError) Error() string {
	return fmt.Sprintf("team must have between %d and %d members, got %d", MinTeamSize, MaxTeamSize, e.Size)
}

type CapacityExceededError struct {
	MemberName     string
	ActiveProjects int64
	Limit          int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("member %s is already assigned to %d active projects, the limit is %d",
		e.MemberName, e.ActiveProjects, e.Limit)
}

type OperationNotPermittedError struct {
	Operation string
	Status    ProjectStatus
}

func (e *OperationNotPermittedError) Error() string {
	return fmt.Sprintf("cannot %s a project with status %s", e.Operation, e.Status)
}
