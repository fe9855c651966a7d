package similarity

import (
	"time"

	"github.com/google/uuid"
)

// GoalSimilarityGroup is one cached cluster of goal ids proposed as
// duplicates for a recipient. Groups are versioned: completing a merge or
// invalidating a group never deletes it, a later computation supersedes it
// with a new version. Exactly one empty group per recipient marks "similarity
// computation has run and found nothing more".
type GoalSimilarityGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Version     int       `gorm:"not null;default:1" json:"version"`

	// UserHasInvalidated records an operator saying "these are not actually
	// duplicates".
	UserHasInvalidated bool `gorm:"not null;default:false" json:"user_has_invalidated"`

	// FinalGoalID is set once an operator completes a merge from this group.
	// It is a terminal marker.
	FinalGoalID *uuid.UUID `gorm:"type:uuid" json:"final_goal_id,omitempty"`

	Goals []GoalSimilarityGroupGoal `gorm:"foreignKey:GroupID" json:"goals"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GoalSimilarityGroup) TableName() string {
	return "goal_similarity_groups"
}

// IsSentinel reports whether this is the empty "nothing more found" group.
func (g *GoalSimilarityGroup) IsSentinel() bool {
	return len(g.Goals) == 0
}

type GoalSimilarityGroupGoal struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GroupID uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	GoalID  uuid.UUID `gorm:"type:uuid;not null;index" json:"goal_id"`

	// ExcludedIfNotAdmin hides this member from operators without elevated
	// privilege: the goal sits on an approved report, or is a closed
	// curated-template goal.
	ExcludedIfNotAdmin bool `gorm:"not null;default:false" json:"excluded_if_not_admin"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (GoalSimilarityGroupGoal) TableName() string {
	return "goal_similarity_group_goals"
}
