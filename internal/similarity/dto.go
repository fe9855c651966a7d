package similarity

import (
	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/goal"
)

// logicalGoal is one deduplicated entry within a cluster: every goal id the
// field-equality comparator folded together.
type logicalGoal struct {
	Name                   string
	Source                 string
	Status                 goal.GoalStatus
	ResponsesForComparison string
	IDs                    []uuid.UUID
	ExcludedIfNotAdmin     bool
}

// GroupView is a cached similarity group as presented to one caller, with
// members the caller may not merge already filtered out.
type GroupView struct {
	ID          uuid.UUID   `json:"id"`
	RecipientID uuid.UUID   `json:"recipient_id"`
	Version     int         `json:"version"`
	GoalIDs     []uuid.UUID `json:"goal_ids"`
}
