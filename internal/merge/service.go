package merge

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ttahub/goals-lambda/internal/collaborator"
	"github.com/ttahub/goals-lambda/internal/config"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/grant"
	"github.com/ttahub/goals-lambda/internal/similarity"
)

var (
	ErrFinalGoalNotSelected = errors.New("final goal is not among the selected goals")
	ErrNotInGroup           = errors.New("selected goal is not a member of the similarity group")
	ErrExcludedGoal         = errors.New("selection includes a goal reserved for admin merging")
)

type Service interface {
	// ExecuteMerge folds the selected duplicate goals into one new canonical
	// goal per destination grant. The final goal's text, template and dates
	// win; every original is stamped with merge lineage and retired. Members
	// the group marks admin-only can be merged only when hasOverride is set.
	ExecuteMerge(ctx context.Context, actingUserID uuid.UUID, hasOverride bool, req RequestDTO) (*Result, error)
}

type service struct {
	store    Store
	resolver grant.Resolver
}

func NewService(store Store, resolver grant.Resolver) Service {
	return &service{store: store, resolver: resolver}
}

// destination groups the members folding into one canonical goal.
type destination struct {
	grantID uuid.UUID
	members []goal.Goal
}

func (s *service) ExecuteMerge(ctx context.Context, actingUserID uuid.UUID, hasOverride bool, req RequestDTO) (*Result, error) {
	log := config.WithContext(ctx)

	if !containsID(req.SelectedGoalIDs, req.FinalGoalID) {
		return nil, ErrFinalGoalNotSelected
	}

	group, err := s.store.LoadGroup(req.SimilarityGroupID)
	if err != nil {
		return nil, err
	}
	if err := checkMembership(group, req.SelectedGoalIDs, hasOverride); err != nil {
		return nil, err
	}

	goals, err := s.store.LoadGoals(req.SelectedGoalIDs)
	if err != nil {
		return nil, err
	}
	if len(goals) != len(dedupeIDs(req.SelectedGoalIDs)) {
		return nil, goal.ErrGoalNotFound
	}

	var finalGoal *goal.Goal
	for i := range goals {
		if goals[i].IsMergedAway() {
			return nil, goal.ErrGoalMergedAway
		}
		if goals[i].ID == req.FinalGoalID {
			finalGoal = &goals[i]
		}
	}

	merged := computeFinalValues(goals)
	destinations, err := s.resolveDestinations(ctx, goals)
	if err != nil {
		return nil, err
	}

	result := &Result{SimilarityGroupID: req.SimilarityGroupID}

	err = s.store.Transaction(func(tx Store) error {
		parentOf := make(map[uuid.UUID]uuid.UUID)

		for _, dest := range destinations {
			canonical := &goal.Goal{
				Name:           finalGoal.Name,
				Status:         merged.status,
				Source:         finalGoal.Source,
				EndDate:        finalGoal.EndDate,
				GrantID:        dest.grantID,
				GoalTemplateID: finalGoal.GoalTemplateID,
				CreatedVia:     goal.CreatedViaMerge,
				OnAnyReport:    merged.onAnyReport,
				CreatedAt:      merged.createdAt,
			}
			if err := tx.CreateGoal(canonical); err != nil {
				return err
			}
			if err := tx.AddCollaborator(collaborator.KindGoal, canonical.ID, actingUserID, string(goal.CollaboratorMergeCreator)); err != nil {
				return err
			}

			memberIDs := make([]uuid.UUID, len(dest.members))
			for i, m := range dest.members {
				memberIDs[i] = m.ID
				parentOf[m.ID] = canonical.ID
			}

			if err := s.foldObjectives(tx, actingUserID, canonical.ID, memberIDs); err != nil {
				return err
			}

			for _, id := range memberIDs {
				if err := tx.RepointGoalLinks(id, canonical.ID); err != nil {
					return err
				}
				if err := tx.AddCollaborator(collaborator.KindGoal, id, actingUserID, string(goal.CollaboratorMergeDeprecator)); err != nil {
					return err
				}
			}

			if err := s.copyResources(tx, canonical.ID, memberIDs); err != nil {
				return err
			}

			// Responses come from the final goal alone; other members'
			// answers are superseded, not merged value by value.
			for _, fr := range finalGoal.FieldResponses {
				copied := goal.GoalFieldResponse{
					GoalID:   canonical.ID,
					PromptID: fr.PromptID,
					Response: fr.Response,
					OnReport: fr.OnReport,
				}
				if err := tx.CreateFieldResponse(&copied); err != nil {
					return err
				}
			}

			if err := tx.CarryCollaborators(collaborator.KindGoal, canonical.ID, memberIDs, req.FinalGoalID); err != nil {
				return err
			}

			result.NewGoals = append(result.NewGoals, NewGoalRef{GoalID: canonical.ID, GrantID: dest.grantID})
		}

		if err := tx.SetGroupFinalGoal(req.SimilarityGroupID, req.FinalGoalID); err != nil {
			return err
		}

		// Lineage is stamped last so a failed merge leaves every original
		// untouched and still mergeable.
		for _, g := range goals {
			if err := tx.SetGoalParent(g.ID, parentOf[g.ID]); err != nil {
				return err
			}
			result.MergedGoalIDs = append(result.MergedGoalIDs, g.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"similarity_group_id": req.SimilarityGroupID,
		"final_goal_id":       req.FinalGoalID,
		"merged_goals":        len(result.MergedGoalIDs),
		"new_goals":           len(result.NewGoals),
	}).Info("Merge completed")

	return result, nil
}

// resolveDestinations maps every member to the active grant its own grant
// resolves to and groups members per destination. A grant resolving to
// several active replacements is pinned to one of them deterministically so
// merge lineage stays single valued.
func (s *service) resolveDestinations(ctx context.Context, goals []goal.Goal) ([]destination, error) {
	grantIDs := make([]uuid.UUID, 0, len(goals))
	seen := make(map[uuid.UUID]bool)
	for _, g := range goals {
		if !seen[g.GrantID] {
			seen[g.GrantID] = true
			grantIDs = append(grantIDs, g.GrantID)
		}
	}

	resolved, err := s.resolver.ResolveActive(ctx, grantIDs)
	if err != nil {
		return nil, err
	}

	byDest := make(map[uuid.UUID][]goal.Goal)
	for _, g := range goals {
		actives := resolved[g.GrantID]
		if len(actives) == 0 {
			return nil, grant.ErrNoActiveGrant
		}
		sort.Slice(actives, func(i, j int) bool {
			return actives[i].String() < actives[j].String()
		})
		byDest[actives[0]] = append(byDest[actives[0]], g)
	}

	destinations := make([]destination, 0, len(byDest))
	for grantID, members := range byDest {
		destinations = append(destinations, destination{grantID: grantID, members: members})
	}
	sort.Slice(destinations, func(i, j int) bool {
		return destinations[i].grantID.String() < destinations[j].grantID.String()
	})
	return destinations, nil
}

// foldObjectives recreates every live objective of the merged members under
// the canonical goal and retires the originals.
func (s *service) foldObjectives(tx Store, actingUserID, canonicalGoalID uuid.UUID, memberIDs []uuid.UUID) error {
	objectives, err := tx.LoadObjectives(memberIDs)
	if err != nil {
		return err
	}

	for i := range objectives {
		o := &objectives[i]
		if o.IsMergedAway() {
			continue
		}

		replacement := o.Clone(canonicalGoalID)
		if err := tx.CreateObjective(replacement); err != nil {
			return err
		}
		if err := tx.AddCollaborator(collaborator.KindObjective, replacement.ID, actingUserID, string(goal.CollaboratorMergeCreator)); err != nil {
			return err
		}
		if err := tx.AddCollaborator(collaborator.KindObjective, o.ID, actingUserID, string(goal.CollaboratorMergeDeprecator)); err != nil {
			return err
		}
		if err := tx.CarryCollaborators(collaborator.KindObjective, replacement.ID, []uuid.UUID{o.ID}, o.ID); err != nil {
			return err
		}
		if err := tx.RepointObjectiveLinks(o.ID, replacement.ID); err != nil {
			return err
		}
		if err := tx.SetObjectiveParent(o.ID, replacement.ID); err != nil {
			return err
		}
	}
	return nil
}

// copyResources carries every member's resource links onto the canonical
// goal. Members often share resources so the write is find-or-create.
func (s *service) copyResources(tx Store, canonicalGoalID uuid.UUID, memberIDs []uuid.UUID) error {
	links, err := tx.LoadGoalResources(memberIDs)
	if err != nil {
		return err
	}
	for _, l := range links {
		if err := tx.EnsureGoalResource(canonicalGoalID, l.ResourceID); err != nil {
			return err
		}
	}
	return nil
}

type finalValues struct {
	status      goal.GoalStatus
	createdAt   time.Time
	onAnyReport bool
}

func computeFinalValues(goals []goal.Goal) finalValues {
	statuses := make([]goal.GoalStatus, len(goals))
	out := finalValues{createdAt: goals[0].CreatedAt}
	for i, g := range goals {
		statuses[i] = g.Status
		if g.CreatedAt.Before(out.createdAt) {
			out.createdAt = g.CreatedAt
		}
		if g.OnAnyReport {
			out.onAnyReport = true
		}
	}
	out.status = goal.MergeStatus(statuses)
	return out
}

// checkMembership verifies every selected goal belongs to the group and that
// members reserved for admins are only merged with an override.
func checkMembership(group *similarity.GoalSimilarityGroup, selected []uuid.UUID, hasOverride bool) error {
	members := make(map[uuid.UUID]bool, len(group.Goals))
	for _, m := range group.Goals {
		members[m.GoalID] = m.ExcludedIfNotAdmin
	}
	for _, id := range selected {
		excluded, ok := members[id]
		if !ok {
			return ErrNotInGroup
		}
		if excluded && !hasOverride {
			return ErrExcludedGoal
		}
	}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
