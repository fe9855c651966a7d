package resource

import (
	"time"

	"github.com/google/uuid"
)

type Resource struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	URL       string    `gorm:"type:text;not null;uniqueIndex" json:"url"`
	Title     string    `gorm:"type:text" json:"title,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Resource) TableName() string {
	return "resources"
}

type Topic struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
}

func (Topic) TableName() string {
	return "topics"
}

type File struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Key          string    `gorm:"type:text;not null;uniqueIndex" json:"key"`
	OriginalName string    `gorm:"type:text;not null" json:"original_name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (File) TableName() string {
	return "files"
}

type Course struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
}

func (Course) TableName() string {
	return "courses"
}

// GoalResource links a goal to a resource. Merge copies these with
// find-or-create semantics, since several duplicate goals may share one
// resource.
type GoalResource struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GoalID     uuid.UUID `gorm:"type:uuid;not null;index:idx_goal_resource,unique" json:"goal_id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;index:idx_goal_resource,unique" json:"resource_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (GoalResource) TableName() string {
	return "goal_resources"
}
