package recipient

import (
	"time"

	"github.com/google/uuid"
)

type Recipient struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	UEI       string    `gorm:"type:text" json:"uei,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Recipient) TableName() string {
	return "recipients"
}
