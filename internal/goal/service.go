package goal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ttahub/goals-lambda/internal/auth"
	"github.com/ttahub/goals-lambda/internal/config"
	"github.com/ttahub/goals-lambda/internal/goalview"
	"github.com/ttahub/goals-lambda/internal/objective"
	"github.com/ttahub/goals-lambda/internal/recipient"
)

var ErrGoalMergedAway = errors.New("goal has been merged into another goal")

const defaultStatusReason = "Unknown"

type Service interface {
	// ApplyStatusTransition moves every goal in the DTO to the new status,
	// appending one immutable status-change record per goal. Disallowed
	// transitions are rejected per goal, not raised; a missing goal aborts
	// the whole call.
	ApplyStatusTransition(ctx context.Context, actingUserID uuid.UUID, dto StatusTransitionDTO) (*StatusTransitionResult, error)

	// RecipientGoals returns the deduplicated RTR table view.
	RecipientGoals(ctx context.Context, recipientID uuid.UUID) ([]goalview.GoalEntry, error)
}

type service struct {
	repo          Repository
	objectiveRepo objective.Repository
	recipientRepo recipient.Repository
}

func NewService(repo Repository, objectiveRepo objective.Repository, recipientRepo recipient.Repository) Service {
	return &service{repo: repo, objectiveRepo: objectiveRepo, recipientRepo: recipientRepo}
}

func (s *service) ApplyStatusTransition(ctx context.Context, actingUserID uuid.UUID, dto StatusTransitionDTO) (*StatusTransitionResult, error) {
	log := config.WithContext(ctx)

	if len(dto.GoalIDs) == 0 {
		return nil, errors.New("no goal ids given")
	}

	userID := actingUserID
	if userID == uuid.Nil {
		userID = uuid.MustParse(auth.SystemUserID)
	}

	reason := dto.Reason
	if reason == "" {
		reason = defaultStatusReason
	}
	performedAt := time.Now()
	if dto.PerformedAt != nil {
		performedAt = *dto.PerformedAt
	}

	result := &StatusTransitionResult{}

	err := s.repo.Transaction(func(r Repository) error {
		for _, id := range dto.GoalIDs {
			g, err := r.FindByID(id)
			if err != nil {
				return fmt.Errorf("loading goal %s: %w", id, err)
			}
			if g.IsMergedAway() {
				return fmt.Errorf("goal %s: %w", id, ErrGoalMergedAway)
			}

			old := g.Status
			if dto.OldStatus != "" && old != dto.OldStatus {
				log.WithFields(logrus.Fields{
					"goal_id":    id,
					"expected":   dto.OldStatus,
					"actual":     old,
					"new_status": dto.NewStatus,
				}).Warn("Goal status changed since the caller read it, rejecting transition")
				result.Rejected = append(result.Rejected, RejectedTransition{GoalID: id, OldStatus: old, NewStatus: dto.NewStatus})
				continue
			}

			if old == dto.NewStatus && !dto.Force {
				result.Unchanged = append(result.Unchanged, id)
				continue
			}

			history := dto.PreviousStatusHistory
			if len(history) == 0 && old == StatusSuspended {
				changes, err := r.FindStatusChanges(id)
				if err != nil {
					return err
				}
				history = PreviousStatuses(changes)
			}

			if !dto.Force && !VerifyTransition(old, dto.NewStatus, history) {
				log.WithFields(logrus.Fields{
					"goal_id":    id,
					"old_status": old,
					"new_status": dto.NewStatus,
				}).Warn("Disallowed goal status transition")
				result.Rejected = append(result.Rejected, RejectedTransition{GoalID: id, OldStatus: old, NewStatus: dto.NewStatus})
				continue
			}

			change := &GoalStatusChange{
				GoalID:      id,
				UserID:      userID,
				OldStatus:   old,
				NewStatus:   dto.NewStatus,
				Reason:      reason,
				PerformedAt: performedAt,
			}
			if dto.Context != "" {
				raw, err := json.Marshal(dto.Context)
				if err != nil {
					return fmt.Errorf("encoding status change context: %w", err)
				}
				change.Context = raw
			}
			if err := r.AppendStatusChange(change); err != nil {
				return err
			}
			if err := r.UpdateStatus(id, dto.NewStatus); err != nil {
				return err
			}

			g.Status = dto.NewStatus
			result.Updated = append(result.Updated, *g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"updated":  len(result.Updated),
		"rejected": len(result.Rejected),
	}).Info("Applied goal status transition")
	return result, nil
}

func (s *service) RecipientGoals(ctx context.Context, recipientID uuid.UUID) ([]goalview.GoalEntry, error) {
	log := config.WithContext(ctx)

	if _, err := s.recipientRepo.FindByID(recipientID); err != nil {
		return nil, err
	}

	goals, err := s.repo.FindAllByRecipientID(recipientID)
	if err != nil {
		log.WithError(err).Error("Failed to load recipient goals")
		return nil, err
	}
	if len(goals) == 0 {
		return []goalview.GoalEntry{}, nil
	}

	goalIDs := make([]uuid.UUID, len(goals))
	for i, g := range goals {
		goalIDs[i] = g.ID
	}
	objectives, err := s.objectiveRepo.FindAllByGoalIDs(goalIDs)
	if err != nil {
		log.WithError(err).Error("Failed to load objectives for recipient goals")
		return nil, err
	}

	byGoal := make(map[uuid.UUID][]objective.Objective)
	for _, o := range objectives {
		byGoal[o.GoalID] = append(byGoal[o.GoalID], o)
	}

	var rows []goalview.Row
	for _, g := range goals {
		base := goalview.Row{
			GoalID:         g.ID,
			GoalName:       g.Name,
			GoalStatus:     string(g.Status),
			GrantID:        g.GrantID,
			GrantNumber:    g.Grant.Number,
			ResponseValues: FieldResponseValues(g.FieldResponses),
		}
		if g.Source != nil {
			base.GoalSource = *g.Source
		}
		if g.EndDate != nil {
			base.EndDate = g.EndDate.String()
		}

		objs := byGoal[g.ID]
		if len(objs) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, o := range objs {
			row := base
			id := o.ID
			row.ObjectiveID = &id
			row.ObjectiveTitle = o.Title
			row.ObjectiveStatus = string(o.Status)
			for _, t := range o.Topics {
				row.Topics = append(row.Topics, t.Name)
			}
			for _, res := range o.Resources {
				row.Resources = append(row.Resources, goalview.RelatedResource{URL: res.URL, Title: res.Title})
			}
			for _, f := range o.Files {
				row.Files = append(row.Files, goalview.RelatedFile{Key: f.Key, OriginalName: f.OriginalName})
			}
			for _, c := range o.Courses {
				row.Courses = append(row.Courses, c.Name)
			}
			rows = append(rows, row)
		}
	}

	return goalview.Reduce(rows, goalview.ProfileList), nil
}
