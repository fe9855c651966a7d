package grant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(id uuid.UUID) (*Grant, error)
	FindByIDs(ids []uuid.UUID) ([]Grant, error)
	FindAllByRecipientID(recipientID uuid.UUID) ([]Grant, error)
	FindReplacementsFor(grantIDs []uuid.UUID) ([]GrantReplacement, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(id uuid.UUID) (*Grant, error) {
	var g Grant
	if err := r.db.First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) FindByIDs(ids []uuid.UUID) ([]Grant, error) {
	var grants []Grant
	if err := r.db.Where("id IN ?", ids).Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *repository) FindAllByRecipientID(recipientID uuid.UUID) ([]Grant, error) {
	var grants []Grant
	if err := r.db.Where("recipient_id = ?", recipientID).Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *repository) FindReplacementsFor(grantIDs []uuid.UUID) ([]GrantReplacement, error) {
	var edges []GrantReplacement
	if err := r.db.Where("replaced_grant_id IN ?", grantIDs).Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}
