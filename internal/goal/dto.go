package goal

import (
	"time"

	"github.com/google/uuid"
)

type StatusTransitionDTO struct {
	GoalIDs   []uuid.UUID `json:"goal_ids" binding:"required"`
	OldStatus GoalStatus  `json:"old_status"`
	NewStatus GoalStatus  `json:"new_status" binding:"required"`
	Reason    string      `json:"reason"`
	Context   string      `json:"context"`
	Force     bool        `json:"force"`

	// PerformedAt backdates the status-change record; defaults to now.
	PerformedAt *time.Time `json:"performed_at"`

	// PreviousStatusHistory extends the allowed targets of a Suspended goal.
	// When empty the history is derived from the goal's status-change log.
	PreviousStatusHistory []GoalStatus `json:"previous_status_history"`
}

type RejectedTransition struct {
	GoalID    uuid.UUID  `json:"goal_id"`
	OldStatus GoalStatus `json:"old_status"`
	NewStatus GoalStatus `json:"new_status"`
}

type StatusTransitionResult struct {
	Updated   []Goal               `json:"updated"`
	Unchanged []uuid.UUID          `json:"unchanged,omitempty"`
	Rejected  []RejectedTransition `json:"rejected,omitempty"`
}
