package report

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("activity report not found")

type Repository interface {
	FindByID(id uuid.UUID) (*ActivityReport, error)
	FindGoalLinks(goalIDs []uuid.UUID) ([]ActivityReportGoal, error)
	FindObjectiveLinks(objectiveIDs []uuid.UUID) ([]ActivityReportObjective, error)
	FindReportsByIDs(ids []uuid.UUID) ([]ActivityReport, error)
	FindGoalLinksForReport(reportID uuid.UUID) ([]ActivityReportGoal, error)
	FindObjectiveLinksForReport(reportID uuid.UUID) ([]ActivityReportObjective, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(id uuid.UUID) (*ActivityReport, error) {
	var ar ActivityReport
	if err := r.db.First(&ar, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &ar, nil
}

func (r *repository) FindGoalLinks(goalIDs []uuid.UUID) ([]ActivityReportGoal, error) {
	var links []ActivityReportGoal
	if err := r.db.Where("goal_id IN ?", goalIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repository) FindObjectiveLinks(objectiveIDs []uuid.UUID) ([]ActivityReportObjective, error) {
	var links []ActivityReportObjective
	if err := r.db.Where("objective_id IN ?", objectiveIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repository) FindReportsByIDs(ids []uuid.UUID) ([]ActivityReport, error) {
	var reports []ActivityReport
	if err := r.db.Where("id IN ?", ids).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repository) FindGoalLinksForReport(reportID uuid.UUID) ([]ActivityReportGoal, error) {
	var links []ActivityReportGoal
	if err := r.db.Where("activity_report_id = ?", reportID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repository) FindObjectiveLinksForReport(reportID uuid.UUID) ([]ActivityReportObjective, error) {
	var links []ActivityReportObjective
	if err := r.db.Where("activity_report_id = ?", reportID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
