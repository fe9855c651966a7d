package merge

import "github.com/google/uuid"

type RequestDTO struct {
	FinalGoalID       uuid.UUID   `json:"final_goal_id"`
	SelectedGoalIDs   []uuid.UUID `json:"selected_goal_ids"`
	SimilarityGroupID uuid.UUID   `json:"similarity_group_id"`
}

// NewGoalRef identifies one canonical goal the merge created and the active
// grant it was created under.
type NewGoalRef struct {
	GoalID  uuid.UUID `json:"goal_id"`
	GrantID uuid.UUID `json:"grant_id"`
}

type Result struct {
	SimilarityGroupID uuid.UUID    `json:"similarity_group_id"`
	NewGoals          []NewGoalRef `json:"new_goals"`
	MergedGoalIDs     []uuid.UUID  `json:"merged_goal_ids"`
}
