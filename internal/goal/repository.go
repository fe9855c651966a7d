package goal

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGoalNotFound = errors.New("goal not found")

type Repository interface {
	FindByID(id uuid.UUID) (*Goal, error)
	FindByIDs(ids []uuid.UUID) ([]Goal, error)
	FindAllByRecipientID(recipientID uuid.UUID) ([]Goal, error)
	FindStatusChanges(goalID uuid.UUID) ([]GoalStatusChange, error)
	AppendStatusChange(c *GoalStatusChange) error
	UpdateStatus(goalID uuid.UUID, status GoalStatus) error
	Transaction(fn func(Repository) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(id uuid.UUID) (*Goal, error) {
	var g Goal
	err := r.db.
		Preload("Grant").
		Preload("Collaborators.User").
		Preload("FieldResponses").
		First(&g, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *repository) FindByIDs(ids []uuid.UUID) ([]Goal, error) {
	var goals []Goal
	err := r.db.
		Preload("Grant").
		Preload("Collaborators.User").
		Preload("FieldResponses").
		Preload("Template").
		Where("id IN ?", ids).
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// FindAllByRecipientID returns the recipient's live goals. Goals merged away
// (MapsToParentGoalID set) stay queryable for audit but never surface here.
func (r *repository) FindAllByRecipientID(recipientID uuid.UUID) ([]Goal, error) {
	var goals []Goal
	err := r.db.
		Preload("Grant").
		Preload("Collaborators.User").
		Preload("FieldResponses").
		Joins("JOIN grants ON grants.id = goals.grant_id").
		Where("grants.recipient_id = ? AND goals.maps_to_parent_goal_id IS NULL", recipientID).
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *repository) FindStatusChanges(goalID uuid.UUID) ([]GoalStatusChange, error) {
	var changes []GoalStatusChange
	err := r.db.
		Where("goal_id = ?", goalID).
		Order("performed_at ASC").
		Find(&changes).Error
	if err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *repository) AppendStatusChange(c *GoalStatusChange) error {
	return r.db.Create(c).Error
}

func (r *repository) UpdateStatus(goalID uuid.UUID, status GoalStatus) error {
	return r.db.Model(&Goal{}).Where("id = ?", goalID).Update("status", status).Error
}

func (r *repository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}
