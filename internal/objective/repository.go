package objective

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	FindByIDs(ids []uuid.UUID) ([]Objective, error)
	FindAllByGoalIDs(goalIDs []uuid.UUID) ([]Objective, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDs(ids []uuid.UUID) ([]Objective, error) {
	var objectives []Objective
	if err := r.db.
		Preload("Topics").
		Preload("Resources").
		Preload("Files").
		Preload("Courses").
		Where("id IN ?", ids).
		Find(&objectives).Error; err != nil {
		return nil, err
	}
	return objectives, nil
}

func (r *repository) FindAllByGoalIDs(goalIDs []uuid.UUID) ([]Objective, error) {
	var objectives []Objective
	if err := r.db.
		Preload("Topics").
		Preload("Resources").
		Preload("Files").
		Preload("Courses").
		Where("goal_id IN ?", goalIDs).
		Find(&objectives).Error; err != nil {
		return nil, err
	}
	return objectives, nil
}
