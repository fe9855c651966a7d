package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/config"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/goalview"
	"github.com/ttahub/goals-lambda/internal/objective"
)

type Service interface {
	// ReportGoals returns the report's goal tree: one entry per distinct goal
	// name, with status and titles taken from the per-report snapshots.
	ReportGoals(ctx context.Context, reportID uuid.UUID) ([]goalview.GoalEntry, error)
}

type service struct {
	repo          Repository
	goalRepo      goal.Repository
	objectiveRepo objective.Repository
}

func NewService(repo Repository, goalRepo goal.Repository, objectiveRepo objective.Repository) Service {
	return &service{repo: repo, goalRepo: goalRepo, objectiveRepo: objectiveRepo}
}

func (s *service) ReportGoals(ctx context.Context, reportID uuid.UUID) ([]goalview.GoalEntry, error) {
	log := config.WithContext(ctx)

	if _, err := s.repo.FindByID(reportID); err != nil {
		return nil, err
	}

	goalLinks, err := s.repo.FindGoalLinksForReport(reportID)
	if err != nil {
		log.WithError(err).Error("Failed to load report goal links")
		return nil, err
	}
	if len(goalLinks) == 0 {
		return []goalview.GoalEntry{}, nil
	}

	goalIDs := make([]uuid.UUID, len(goalLinks))
	for i, l := range goalLinks {
		goalIDs[i] = l.GoalID
	}
	goals, err := s.goalRepo.FindByIDs(goalIDs)
	if err != nil {
		return nil, err
	}
	goalsByID := make(map[uuid.UUID]goal.Goal, len(goals))
	for _, g := range goals {
		goalsByID[g.ID] = g
	}

	objectiveLinks, err := s.repo.FindObjectiveLinksForReport(reportID)
	if err != nil {
		return nil, err
	}
	objectiveIDs := make([]uuid.UUID, len(objectiveLinks))
	for i, l := range objectiveLinks {
		objectiveIDs[i] = l.ObjectiveID
	}
	objectives, err := s.objectiveRepo.FindByIDs(objectiveIDs)
	if err != nil {
		return nil, err
	}
	objectivesByGoal := make(map[uuid.UUID][]objectiveWithSnapshot)
	objectivesByID := make(map[uuid.UUID]objective.Objective, len(objectives))
	for _, o := range objectives {
		objectivesByID[o.ID] = o
	}
	for _, l := range objectiveLinks {
		o, ok := objectivesByID[l.ObjectiveID]
		if !ok {
			continue
		}
		objectivesByGoal[o.GoalID] = append(objectivesByGoal[o.GoalID], objectiveWithSnapshot{objective: o, link: l})
	}

	var rows []goalview.Row
	for _, link := range goalLinks {
		g, ok := goalsByID[link.GoalID]
		if !ok {
			continue
		}

		base := goalview.Row{
			GoalID:         g.ID,
			GoalName:       link.Name,
			GoalStatus:     string(g.Status),
			ReportStatus:   link.Status,
			GrantID:        g.GrantID,
			GrantNumber:    g.Grant.Number,
			ResponseValues: goal.FieldResponseValues(g.FieldResponses),
		}
		if link.Source != nil {
			base.GoalSource = *link.Source
		}
		if link.EndDate != nil {
			base.EndDate = link.EndDate.String()
		}

		snaps := objectivesByGoal[g.ID]
		if len(snaps) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, snap := range snaps {
			row := base
			id := snap.objective.ID
			row.ObjectiveID = &id
			row.ObjectiveTitle = snap.link.Title
			row.ObjectiveStatus = snap.link.Status
			row.CreatedHere = snap.link.CreatedHere
			for _, t := range snap.objective.Topics {
				row.Topics = append(row.Topics, t.Name)
			}
			for _, res := range snap.objective.Resources {
				row.Resources = append(row.Resources, goalview.RelatedResource{URL: res.URL, Title: res.Title})
			}
			for _, f := range snap.objective.Files {
				row.Files = append(row.Files, goalview.RelatedFile{Key: f.Key, OriginalName: f.OriginalName})
			}
			for _, c := range snap.objective.Courses {
				row.Courses = append(row.Courses, c.Name)
			}
			rows = append(rows, row)
		}
	}

	return goalview.Reduce(rows, goalview.ProfileReport), nil
}

type objectiveWithSnapshot struct {
	objective objective.Objective
	link      ActivityReportObjective
}
