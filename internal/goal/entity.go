package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/grant"
	"github.com/ttahub/goals-lambda/internal/user"
	util "github.com/ttahub/goals-lambda/internal/utils"
	"gorm.io/datatypes"
)

type Goal struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string        `gorm:"type:text;not null" json:"name"`
	Status         GoalStatus    `gorm:"type:text;not null" json:"status"`
	Source         *string       `gorm:"type:text" json:"source,omitempty"`
	EndDate        *util.Date    `gorm:"type:date" json:"end_date,omitempty"`
	GrantID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"grant_id"`
	Grant          grant.Grant   `gorm:"foreignKey:GrantID" json:"-"`
	GoalTemplateID *uuid.UUID    `gorm:"type:uuid;index" json:"goal_template_id,omitempty"`
	Template       *GoalTemplate `gorm:"foreignKey:GoalTemplateID" json:"-"`
	CreatedVia     CreatedVia    `gorm:"type:text" json:"created_via,omitempty"`
	OnAnyReport    bool          `gorm:"not null;default:false" json:"on_any_report"`

	// MapsToParentGoalID is set exactly once, when this goal is merged away.
	// It is never cleared: a goal with it set is logically dead and must not
	// be edited or offered for merging again.
	MapsToParentGoalID *uuid.UUID `gorm:"type:uuid;index" json:"maps_to_parent_goal_id,omitempty"`

	Collaborators  []GoalCollaborator  `gorm:"foreignKey:GoalID" json:"collaborators,omitempty"`
	FieldResponses []GoalFieldResponse `gorm:"foreignKey:GoalID" json:"field_responses,omitempty"`
	StatusChanges  []GoalStatusChange  `gorm:"foreignKey:GoalID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Goal) TableName() string {
	return "goals"
}

// IsMergedAway reports whether this goal has been folded into a canonical
// goal and is no longer live.
func (g *Goal) IsMergedAway() bool {
	return g.MapsToParentGoalID != nil
}

type GoalCollaborator struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GoalID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"goal_id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User             user.User        `gorm:"foreignKey:UserID" json:"-"`
	CollaboratorType CollaboratorType `gorm:"type:text;not null" json:"collaborator_type"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (GoalCollaborator) TableName() string {
	return "goal_collaborators"
}

// GoalStatusChange is the immutable status-change log. Rows are only ever
// appended; PerformedAt defaults to now but can be backdated by callers.
type GoalStatusChange struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GoalID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"goal_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"`
	OldStatus   GoalStatus     `gorm:"type:text;not null" json:"old_status"`
	NewStatus   GoalStatus     `gorm:"type:text;not null" json:"new_status"`
	Reason      string         `gorm:"type:text;not null" json:"reason"`
	Context     datatypes.JSON `gorm:"type:jsonb" json:"context,omitempty"`
	PerformedAt time.Time      `gorm:"not null" json:"performed_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (GoalStatusChange) TableName() string {
	return "goal_status_changes"
}

// GoalFieldResponse is a free-form structured answer tied to one goal and one
// template prompt. A goal may carry several; comparison treats the values as
// an order-independent, deduplicated set.
type GoalFieldResponse struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GoalID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"goal_id"`
	PromptID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"prompt_id"`
	Response  datatypes.JSON `gorm:"type:jsonb;not null" json:"response"`
	OnReport  bool           `gorm:"not null;default:false" json:"on_report"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GoalFieldResponse) TableName() string {
	return "goal_field_responses"
}

// GoalTemplate is a canned, reusable goal definition. Curated templates carry
// structured prompts (e.g. FEI root causes).
type GoalTemplate struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TemplateName string               `gorm:"type:text;not null" json:"template_name"`
	IsCurated    bool                 `gorm:"not null;default:false" json:"is_curated"`
	Source       *string              `gorm:"type:text" json:"source,omitempty"`
	Prompts      []GoalTemplatePrompt `gorm:"foreignKey:GoalTemplateID" json:"prompts,omitempty"`
	CreatedAt    time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GoalTemplate) TableName() string {
	return "goal_templates"
}

type GoalTemplatePrompt struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GoalTemplateID uuid.UUID      `gorm:"type:uuid;not null;index" json:"goal_template_id"`
	Title          string         `gorm:"type:text;not null" json:"title"`
	FieldType      string         `gorm:"type:text;not null" json:"field_type"`
	Options        datatypes.JSON `gorm:"type:jsonb" json:"options,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (GoalTemplatePrompt) TableName() string {
	return "goal_template_prompts"
}
