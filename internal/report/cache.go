package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/config"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/objective"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheService snapshots goal and objective state onto a specific report.
// Goal-save flows call it so the report keeps presenting what was saved even
// as the underlying goal changes later.
type CacheService interface {
	CacheGoalMetadata(ctx context.Context, g *goal.Goal, reportID uuid.UUID, isActivelyEdited bool, prompts datatypes.JSON, isMultiRecipient bool) error
	CacheObjectiveMetadata(ctx context.Context, o *objective.Objective, reportID uuid.UUID, fields datatypes.JSON) error
}

type cacheService struct {
	db *gorm.DB
}

func NewCacheService(db *gorm.DB) CacheService {
	return &cacheService{db: db}
}

func (s *cacheService) CacheGoalMetadata(ctx context.Context, g *goal.Goal, reportID uuid.UUID, isActivelyEdited bool, prompts datatypes.JSON, isMultiRecipient bool) error {
	log := config.WithContext(ctx)

	link := ActivityReportGoal{
		ActivityReportID: reportID,
		GoalID:           g.ID,
		Name:             g.Name,
		Status:           string(g.Status),
		Source:           g.Source,
		EndDate:          g.EndDate,
		Prompts:          prompts,
		IsActivelyEdited: isActivelyEdited,
	}
	if isMultiRecipient {
		// Multi-recipient reports snapshot only identity; per-recipient field
		// responses are not shared across recipients.
		link.Prompts = nil
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "activity_report_id"}, {Name: "goal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "status", "source", "end_date", "prompts", "is_actively_edited"}),
	}).Create(&link).Error
	if err != nil {
		log.WithError(err).Error("Failed to cache goal metadata on report")
		return err
	}
	return nil
}

func (s *cacheService) CacheObjectiveMetadata(ctx context.Context, o *objective.Objective, reportID uuid.UUID, fields datatypes.JSON) error {
	log := config.WithContext(ctx)

	link := ActivityReportObjective{
		ActivityReportID: reportID,
		ObjectiveID:      o.ID,
		Title:            o.Title,
		Status:           string(o.Status),
		Fields:           fields,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "activity_report_id"}, {Name: "objective_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "status", "fields"}),
	}).Create(&link).Error
	if err != nil {
		log.WithError(err).Error("Failed to cache objective metadata on report")
		return err
	}
	return nil
}
