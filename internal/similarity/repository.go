package similarity

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGroupNotFound = errors.New("similarity group not found")

type Repository interface {
	// HasGroups reports whether the recipient still has active groups from a
	// prior computation (the empty sentinel group counts). Invalidated and
	// merge-resolved groups do not; recomputation is wanted once every group
	// has been dismissed or merged.
	HasGroups(recipientID uuid.UUID) (bool, error)

	// FindActiveGroups returns groups not yet invalidated and not yet
	// resolved by a merge.
	FindActiveGroups(recipientID uuid.UUID) ([]GoalSimilarityGroup, error)

	FindByID(id uuid.UUID) (*GoalSimilarityGroup, error)

	// CreateGroup persists a group unless an identical goal-id set already
	// exists for the recipient. Best-effort dedupe for concurrent
	// computations, not a lock.
	CreateGroup(g *GoalSimilarityGroup) error

	NextVersion(recipientID uuid.UUID) (int, error)
	Invalidate(id uuid.UUID) error
	SetFinalGoal(id uuid.UUID, finalGoalID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) HasGroups(recipientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&GoalSimilarityGroup{}).
		Where("recipient_id = ? AND user_has_invalidated = false AND final_goal_id IS NULL", recipientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindActiveGroups(recipientID uuid.UUID) ([]GoalSimilarityGroup, error) {
	var groups []GoalSimilarityGroup
	err := r.db.
		Preload("Goals").
		Where("recipient_id = ? AND user_has_invalidated = false AND final_goal_id IS NULL", recipientID).
		Order("version DESC, created_at ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *repository) FindByID(id uuid.UUID) (*GoalSimilarityGroup, error) {
	var g GoalSimilarityGroup
	if err := r.db.Preload("Goals").First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *repository) CreateGroup(g *GoalSimilarityGroup) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := r.findIdenticalSet(tx, g)
		if err != nil {
			return err
		}
		if existing {
			return nil
		}
		return tx.Create(g).Error
	})
}

func (r *repository) findIdenticalSet(tx *gorm.DB, g *GoalSimilarityGroup) (bool, error) {
	var candidates []GoalSimilarityGroup
	err := tx.
		Preload("Goals").
		Where("recipient_id = ? AND user_has_invalidated = false AND final_goal_id IS NULL", g.RecipientID).
		Find(&candidates).Error
	if err != nil {
		return false, err
	}

	want := make(map[uuid.UUID]bool, len(g.Goals))
	for _, member := range g.Goals {
		want[member.GoalID] = true
	}

	for _, c := range candidates {
		if len(c.Goals) != len(want) {
			continue
		}
		same := true
		for _, member := range c.Goals {
			if !want[member.GoalID] {
				same = false
				break
			}
		}
		if same {
			return true, nil
		}
	}
	return false, nil
}

func (r *repository) NextVersion(recipientID uuid.UUID) (int, error) {
	var max int
	err := r.db.Model(&GoalSimilarityGroup{}).
		Where("recipient_id = ?", recipientID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *repository) Invalidate(id uuid.UUID) error {
	result := r.db.Model(&GoalSimilarityGroup{}).
		Where("id = ?", id).
		Update("user_has_invalidated", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *repository) SetFinalGoal(id uuid.UUID, finalGoalID uuid.UUID) error {
	result := r.db.Model(&GoalSimilarityGroup{}).
		Where("id = ?", id).
		Update("final_goal_id", finalGoalID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}
