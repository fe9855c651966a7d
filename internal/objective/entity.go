package objective

import (
	"time"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/resource"
)

type Objective struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GoalID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"goal_id"`
	Title       string          `gorm:"type:text;not null" json:"title"`
	Status      ObjectiveStatus `gorm:"type:text;not null" json:"status"`
	OnAnyReport bool            `gorm:"not null;default:false" json:"on_any_report"`

	// MapsToParentObjectiveID follows the same append-only merge lineage as
	// goals: set once when merged away, never cleared.
	MapsToParentObjectiveID *uuid.UUID `gorm:"type:uuid;index" json:"maps_to_parent_objective_id,omitempty"`

	Topics    []resource.Topic    `gorm:"many2many:objective_topics" json:"topics,omitempty"`
	Resources []resource.Resource `gorm:"many2many:objective_resources" json:"resources,omitempty"`
	Files     []resource.File     `gorm:"many2many:objective_files" json:"files,omitempty"`
	Courses   []resource.Course   `gorm:"many2many:objective_courses" json:"courses,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Objective) TableName() string {
	return "objectives"
}

func (o *Objective) IsMergedAway() bool {
	return o.MapsToParentObjectiveID != nil
}

// Clone returns a new unsaved objective carrying this objective's content and
// relations under a different goal.
func (o *Objective) Clone(goalID uuid.UUID) *Objective {
	return &Objective{
		GoalID:      goalID,
		Title:       o.Title,
		Status:      o.Status,
		OnAnyReport: o.OnAnyReport,
		Topics:      o.Topics,
		Resources:   o.Resources,
		Files:       o.Files,
		Courses:     o.Courses,
	}
}

type ObjectiveCollaborator struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ObjectiveID      uuid.UUID `gorm:"type:uuid;not null;index" json:"objective_id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CollaboratorType string    `gorm:"type:text;not null" json:"collaborator_type"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ObjectiveCollaborator) TableName() string {
	return "objective_collaborators"
}
