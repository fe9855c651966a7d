package grant

import (
	"time"

	"github.com/google/uuid"
)

type Grant struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Number      string      `gorm:"type:text;not null" json:"number"`
	RecipientID uuid.UUID   `gorm:"type:uuid;not null;index" json:"recipient_id"`
	RegionID    int         `gorm:"not null" json:"region_id"`
	Status      GrantStatus `gorm:"type:text;not null" json:"status"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Grant) TableName() string {
	return "grants"
}

func (g *Grant) IsActive() bool {
	return g.Status == GrantStatusActive
}

// GrantReplacement is an append-only directed edge from a superseded grant to
// the grant that replaced it (renewals, recompetes).
type GrantReplacement struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReplacedGrantID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"replaced_grant_id"`
	ReplacingGrantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"replacing_grant_id"`
	ReplacementDate  *time.Time `json:"replacement_date,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (GrantReplacement) TableName() string {
	return "grant_replacements"
}
