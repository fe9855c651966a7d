package merge

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/collaborator"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/objective"
	"github.com/ttahub/goals-lambda/internal/report"
	"github.com/ttahub/goals-lambda/internal/resource"
	"github.com/ttahub/goals-lambda/internal/similarity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence surface the merge executor writes through. All
// writes for one merge happen inside a single Transaction call.
type Store interface {
	LoadGroup(id uuid.UUID) (*similarity.GoalSimilarityGroup, error)
	LoadGoals(ids []uuid.UUID) ([]goal.Goal, error)
	LoadObjectives(goalIDs []uuid.UUID) ([]objective.Objective, error)
	LoadGoalResources(goalIDs []uuid.UUID) ([]resource.GoalResource, error)

	CreateGoal(g *goal.Goal) error
	CreateObjective(o *objective.Objective) error
	CreateFieldResponse(fr *goal.GoalFieldResponse) error
	EnsureGoalResource(goalID, resourceID uuid.UUID) error

	// SetGoalParent and SetObjectiveParent stamp merge lineage. The parent
	// column is written only if still empty; lineage is append-only.
	SetGoalParent(goalID, parentID uuid.UUID) error
	SetObjectiveParent(objectiveID, parentID uuid.UUID) error

	// RepointGoalLinks moves report rows from an original goal to its
	// canonical replacement, filling original_goal_id only where it is not
	// already set. RepointObjectiveLinks is the objective analogue.
	RepointGoalLinks(oldGoalID, newGoalID uuid.UUID) error
	RepointObjectiveLinks(oldObjectiveID, newObjectiveID uuid.UUID) error

	AddCollaborator(kind collaborator.EntityKind, entityID, userID uuid.UUID, role string) error
	CarryCollaborators(kind collaborator.EntityKind, newEntityID uuid.UUID, sourceIDs []uuid.UUID, chosenSourceID uuid.UUID) error

	SetGroupFinalGoal(groupID, finalGoalID uuid.UUID) error

	Transaction(fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) LoadGroup(id uuid.UUID) (*similarity.GoalSimilarityGroup, error) {
	var group similarity.GoalSimilarityGroup
	err := s.db.
		Preload("Goals").
		First(&group, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, similarity.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *gormStore) LoadGoals(ids []uuid.UUID) ([]goal.Goal, error) {
	var goals []goal.Goal
	err := s.db.
		Preload("FieldResponses").
		Where("id IN ?", ids).
		Find(&goals).Error
	return goals, err
}

func (s *gormStore) LoadObjectives(goalIDs []uuid.UUID) ([]objective.Objective, error) {
	var objectives []objective.Objective
	err := s.db.
		Preload("Topics").
		Preload("Resources").
		Preload("Files").
		Preload("Courses").
		Where("goal_id IN ?", goalIDs).
		Find(&objectives).Error
	return objectives, err
}

func (s *gormStore) LoadGoalResources(goalIDs []uuid.UUID) ([]resource.GoalResource, error) {
	var links []resource.GoalResource
	err := s.db.
		Where("goal_id IN ?", goalIDs).
		Find(&links).Error
	return links, err
}

func (s *gormStore) CreateGoal(g *goal.Goal) error {
	return s.db.Create(g).Error
}

func (s *gormStore) CreateObjective(o *objective.Objective) error {
	return s.db.Create(o).Error
}

func (s *gormStore) CreateFieldResponse(fr *goal.GoalFieldResponse) error {
	return s.db.Create(fr).Error
}

func (s *gormStore) EnsureGoalResource(goalID, resourceID uuid.UUID) error {
	link := resource.GoalResource{GoalID: goalID, ResourceID: resourceID}
	return s.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "goal_id"}, {Name: "resource_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
}

func (s *gormStore) SetGoalParent(goalID, parentID uuid.UUID) error {
	return s.db.Model(&goal.Goal{}).
		Where("id = ? AND maps_to_parent_goal_id IS NULL", goalID).
		Update("maps_to_parent_goal_id", parentID).Error
}

func (s *gormStore) SetObjectiveParent(objectiveID, parentID uuid.UUID) error {
	return s.db.Model(&objective.Objective{}).
		Where("id = ? AND maps_to_parent_objective_id IS NULL", objectiveID).
		Update("maps_to_parent_objective_id", parentID).Error
}

func (s *gormStore) RepointGoalLinks(oldGoalID, newGoalID uuid.UUID) error {
	return s.db.Model(&report.ActivityReportGoal{}).
		Where("goal_id = ?", oldGoalID).
		Updates(map[string]interface{}{
			"original_goal_id": gorm.Expr("COALESCE(original_goal_id, ?)", oldGoalID),
			"goal_id":          newGoalID,
		}).Error
}

func (s *gormStore) RepointObjectiveLinks(oldObjectiveID, newObjectiveID uuid.UUID) error {
	return s.db.Model(&report.ActivityReportObjective{}).
		Where("objective_id = ?", oldObjectiveID).
		Updates(map[string]interface{}{
			"original_objective_id": gorm.Expr("COALESCE(original_objective_id, ?)", oldObjectiveID),
			"objective_id":          newObjectiveID,
		}).Error
}

func (s *gormStore) AddCollaborator(kind collaborator.EntityKind, entityID, userID uuid.UUID, role string) error {
	return collaborator.Add(kind, s.db, entityID, userID, role)
}

func (s *gormStore) CarryCollaborators(kind collaborator.EntityKind, newEntityID uuid.UUID, sourceIDs []uuid.UUID, chosenSourceID uuid.UUID) error {
	return collaborator.MergeCollaborators(kind, s.db, newEntityID, sourceIDs, chosenSourceID)
}

func (s *gormStore) SetGroupFinalGoal(groupID, finalGoalID uuid.UUID) error {
	res := s.db.Model(&similarity.GoalSimilarityGroup{}).
		Where("id = ?", groupID).
		Update("final_goal_id", finalGoalID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return similarity.ErrGroupNotFound
	}
	return nil
}
