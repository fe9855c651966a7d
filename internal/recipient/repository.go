package recipient

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRecipientNotFound = errors.New("recipient not found")

type Repository interface {
	FindByID(id uuid.UUID) (*Recipient, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(id uuid.UUID) (*Recipient, error) {
	var rec Recipient
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	return &rec, nil
}
