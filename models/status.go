package models

type ProjectStatus string

const (
	StatusUnderAnalysis    ProjectStatus = "UNDER_ANALYSIS"
	StatusAnalysisDone     ProjectStatus = "ANALYSIS_DONE"
	StatusAnalysisApproved ProjectStatus = "ANALYSIS_APPROVED"
	StatusStarted          ProjectStatus = "STARTED"
	StatusPlanned          ProjectStatus = "PLANNED"
	StatusInProgress       ProjectStatus = "IN_PROGRESS"
	StatusFinished         ProjectStatus = "FINISHED"
	StatusCancelled        ProjectStatus = "CANCELLED"
)

// statusOrder fixes the position of every status in the lifecycle sequence.
// CANCELLED sits outside the sequence and is reachable from any non-terminal
// status instead.
var statusOrder = map[ProjectStatus]int{
	StatusUnderAnalysis:    0,
	StatusAnalysisDone:     1,
	StatusAnalysisApproved: 2,
	StatusStarted:          3,
	StatusPlanned:          4,
	StatusInProgress:       5,
	StatusFinished:         6,
}

// AllProjectStatuses lists every defined status, lifecycle order first,
// CANCELLED last. Reports iterate this slice so every status gets a key.
var AllProjectStatuses = []ProjectStatus{
	StatusUnderAnalysis,
	StatusAnalysisDone,
	StatusAnalysisApproved,
	StatusStarted,
	StatusPlanned,
	StatusInProgress,
	StatusFinished,
	StatusCancelled,
}

func ParseProjectStatus(s string) (ProjectStatus, bool) {
	status := ProjectStatus(s)
	if !status.IsValid() {
		return "", false
	}
	return status, true
}

func (s ProjectStatus) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusOrder[s]
	return ok
}

func (s ProjectStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// CanTransitionTo reports whether the status machine allows moving from s to
// next: cancellation from any non-terminal status, otherwise exactly one step
// forward in the sequence.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if !next.IsValid() {
		return false
	}
	if next == StatusCancelled {
		return !s.IsTerminal()
	}
	current, ok := statusOrder[s]
	if !ok {
		// Cancelled projects never rejoin the sequence.
		return false
	}
	return statusOrder[next] == current+1
}

// CanBeDeleted gates the delete operation: once a project has started,
// is in progress or finished it stays in the portfolio.
func (s ProjectStatus) CanBeDeleted() bool {
	return s != StatusStarted && s != StatusInProgress && s != StatusFinished
}

func (s ProjectStatus) CanBeEdited() bool {
	return !s.IsTerminal()
}
