package report

import (
	"time"

	"github.com/google/uuid"
	util "github.com/ttahub/goals-lambda/internal/utils"
	"gorm.io/datatypes"
)

type ActivityReport struct {
	ID               uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DisplayID        string       `gorm:"type:text" json:"display_id,omitempty"`
	RegionID         int          `gorm:"not null" json:"region_id"`
	CalculatedStatus ReportStatus `gorm:"type:text;not null" json:"calculated_status"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActivityReport) TableName() string {
	return "activity_reports"
}

// ActivityReportGoal snapshots a goal's state as presented on one specific
// report. OriginalGoalID preserves the pre-merge goal id: it is filled
// set-if-absent when a merge repoints GoalID, so the report's provenance
// trail survives the merge untouched.
type ActivityReportGoal struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActivityReportID uuid.UUID  `gorm:"type:uuid;not null;index" json:"activity_report_id"`
	GoalID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"goal_id"`
	OriginalGoalID   *uuid.UUID `gorm:"type:uuid" json:"original_goal_id,omitempty"`

	Name             string         `gorm:"type:text;not null" json:"name"`
	Status           string         `gorm:"type:text;not null" json:"status"`
	Source           *string        `gorm:"type:text" json:"source,omitempty"`
	EndDate          *util.Date     `gorm:"type:date" json:"end_date,omitempty"`
	Prompts          datatypes.JSON `gorm:"type:jsonb" json:"prompts,omitempty"`
	IsActivelyEdited bool           `gorm:"not null;default:false" json:"is_actively_edited"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActivityReportGoal) TableName() string {
	return "activity_report_goals"
}

type ActivityReportObjective struct {
	ID                  uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActivityReportID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"activity_report_id"`
	ObjectiveID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"objective_id"`
	OriginalObjectiveID *uuid.UUID `gorm:"type:uuid" json:"original_objective_id,omitempty"`

	Title       string         `gorm:"type:text;not null" json:"title"`
	Status      string         `gorm:"type:text;not null" json:"status"`
	TTAProvided string         `gorm:"type:text" json:"tta_provided,omitempty"`
	SupportType *string        `gorm:"type:text" json:"support_type,omitempty"`
	Fields      datatypes.JSON `gorm:"type:jsonb" json:"fields,omitempty"`
	CreatedHere bool           `gorm:"not null;default:false" json:"created_here"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActivityReportObjective) TableName() string {
	return "activity_report_objectives"
}
