package complaint

import "dcms/backend/internal/models"

// StateMachine validates status changes against a directed transition graph.
type StateMachine struct {
	allowed map[models.Status][]models.Status
}

// NewStateMachine returns the complaint workflow: Pending can move to In Progress
// or Rejected, In Progress can move to Resolved. Rejected and Resolved are terminal.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		allowed: map[models.Status][]models.Status{
			models.StatusPending:    {models.StatusInProgress, models.StatusRejected},
			models.StatusInProgress: {models.StatusResolved},
			models.StatusRejected:   {},
			models.StatusResolved:   {},
		},
	}
}

// CanTransition reports whether from → to is an edge of the graph.
func (sm *StateMachine) CanTransition(from, to models.Status) bool {
	for _, s := range sm.allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the outgoing edges of status.
func (sm *StateMachine) AllowedTransitions(status models.Status) []models.Status {
	return append([]models.Status{}, sm.allowed[status]...)
}

// IsTerminal reports whether status has no outgoing edges.
func (sm *StateMachine) IsTerminal(status models.Status) bool {
	return len(sm.allowed[status]) == 0
}

// AttemptStatusChange checks a requested status against the current one.
// Requesting the current status always succeeds, for any caller.
func (sm *StateMachine) AttemptStatusChange(current, requested models.Status, callerIsAdmin bool) error {
	if requested == current {
		return nil
	}
	if !callerIsAdmin {
		return ErrForbidden
	}
	if !sm.CanTransition(current, requested) {
		return &TransitionError{From: current, To: requested}
	}
	return nil
}
