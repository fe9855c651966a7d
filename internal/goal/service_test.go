package goal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/objective"
	"github.com/ttahub/goals-lambda/internal/recipient"
)

type fakeGoalRepo struct {
	goals   map[uuid.UUID]*Goal
	changes map[uuid.UUID][]GoalStatusChange
}

func newFakeGoalRepo(goals ...*Goal) *fakeGoalRepo {
	repo := &fakeGoalRepo{
		goals:   make(map[uuid.UUID]*Goal),
		changes: make(map[uuid.UUID][]GoalStatusChange),
	}
	for _, g := range goals {
		repo.goals[g.ID] = g
	}
	return repo
}

func (f *fakeGoalRepo) FindByID(id uuid.UUID) (*Goal, error) {
	g, ok := f.goals[id]
	if !ok {
		return nil, ErrGoalNotFound
	}
	clone := *g
	return &clone, nil
}

func (f *fakeGoalRepo) FindByIDs(ids []uuid.UUID) ([]Goal, error) {
	var out []Goal
	for _, id := range ids {
		if g, ok := f.goals[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) FindAllByRecipientID(recipientID uuid.UUID) ([]Goal, error) {
	var out []Goal
	for _, g := range f.goals {
		if g.Grant.RecipientID == recipientID && !g.IsMergedAway() {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) FindStatusChanges(goalID uuid.UUID) ([]GoalStatusChange, error) {
	return f.changes[goalID], nil
}

func (f *fakeGoalRepo) AppendStatusChange(c *GoalStatusChange) error {
	f.changes[c.GoalID] = append(f.changes[c.GoalID], *c)
	return nil
}

func (f *fakeGoalRepo) UpdateStatus(goalID uuid.UUID, status GoalStatus) error {
	g, ok := f.goals[goalID]
	if !ok {
		return ErrGoalNotFound
	}
	g.Status = status
	return nil
}


func (f *fakeGoalRepo) Transaction(fn func(Repository) error) error {
	return fn(f)
}

type fakeRecipientRepo struct{}

func (fakeRecipientRepo) FindByID(id uuid.UUID) (*recipient.Recipient, error) {
	return &recipient.Recipient{ID: id}, nil
}

type fakeObjectiveRepo struct{}

func (fakeObjectiveRepo) FindByIDs(ids []uuid.UUID) ([]objective.Objective, error) {
	return nil, nil
}

func (fakeObjectiveRepo) FindAllByGoalIDs(goalIDs []uuid.UUID) ([]objective.Objective, error) {
	return nil, nil
}

func TestApplyStatusTransition(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("AllowedTransitionUpdatesAndLogs", func(t *testing.T) {
		g := &Goal{ID: uuid.New(), Name: "Improve enrollment", Status: StatusInProgress}
		repo := newFakeGoalRepo(g)
		svc := NewService(repo, fakeObjectiveRepo{}, fakeRecipientRepo{})

		result, err := svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID},
			NewStatus: StatusClosed,
			Reason:    "Recipient request",
		})
		if err != nil {
			t.Fatalf("ApplyStatusTransition failed: %v", err)
		}
		if len(result.Updated) != 1 || result.Updated[0].Status != StatusClosed {
			t.Errorf("expected one goal updated to Closed, got %+v", result.Updated)
		}
		changes := repo.changes[g.ID]
		if len(changes) != 1 {
			t.Fatalf("expected one status-change record, got %d", len(changes))
		}
		c := changes[0]
		if c.OldStatus != StatusInProgress || c.NewStatus != StatusClosed || c.Reason != "Recipient request" || c.UserID != actor {
			t.Errorf("unexpected status-change record: %+v", c)
		}
	})

	t.Run("BlankReasonDefaultsToUnknown", func(t *testing.T) {
		g := &Goal{ID: uuid.New(), Status: StatusInProgress}
		repo := newFakeGoalRepo(g)
		svc := NewService(repo, fakeObjectiveRepo{}, fakeRecipientRepo{})

		if _, err := svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID},
			NewStatus: StatusSuspended,
		}); err != nil {
			t.Fatalf("ApplyStatusTransition failed: %v", err)
		}
		if repo.changes[g.ID][0].Reason != "Unknown" {
			t.Errorf("blank reason should default to Unknown, got %q", repo.changes[g.ID][0].Reason)
		}
	})

	t.Run("ContextIsStoredAsValidJSON", func(t *testing.T) {
		g := &Goal{ID: uuid.New(), Status: StatusInProgress}
		repo := newFakeGoalRepo(g)
		svc := NewService(repo, fakeObjectiveRepo{}, fakeRecipientRepo{})

		note := "grantee asked to pause\auntil Q3"
		if _, err := svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID},
			NewStatus: StatusSuspended,
			Reason:    "Recipient request",
			Context:   note,
		}); err != nil {
			t.Fatalf("ApplyStatusTransition failed: %v", err)
		}
		raw := repo.changes[g.ID][0].Context
		if !json.Valid(raw) {
			t.Fatalf("stored context is not valid JSON: %s", raw)
		}
		var got string
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("decoding stored context: %v", err)
		}
		if got != note {
			t.Errorf("context round trip mismatch: got %q, want %q", got, note)
		}
	})

	t.Run("ReflexiveIsNoOpUnlessForced", func(t *testing.T) {
		g := &Goal{ID: uuid.New(), Status: StatusClosed}
		repo := newFakeGoalRepo(g)
		svc := NewService(repo, fakeObjectiveRepo{}, fakeRecipientRepo{})

		result, err := svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID},
			NewStatus: StatusClosed,
		})
		if err != nil {
			t.Fatalf("ApplyStatusTransition failed: %v", err)
		}
		if len(result.Unchanged) != 1 || len(result.Updated) != 0 {
			t.Errorf("old == new should no-op, got %+v", result)
		}
		if len(repo.changes[g.ID]) != 0 {
			t.Error("no-op should not append a status-change record")
		}

		result, err = svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID},
			NewStatus: StatusClosed,
			Force:     true,
		})
		if err != nil {
			t.Fatalf("forced ApplyStatusTransition failed: %v", err)
		}
		if len(result.Updated) != 1 || len(repo.changes[g.ID]) != 1 {
			t.Error("forced reflexive transition should append a record")
		}
	})

	t.Run("DisallowedTransitionIsRejectedNotRaised", func(t *testing.T) {
		g := &Goal{ID: uuid.New(), Status: StatusDraft}
		repo := newFakeGoalRepo(g)
		svc := NewService(repo, fakeObjectiveRepo{}, fakeRecipientRepo{})

		result, err := svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID},
			NewStatus: StatusInProgress,
		})
		if err != nil {
			t.Fatalf("disallowed transition should not raise: %v", err)
		}
		if len(result.Rejected) != 1 || result.Rejected[0].GoalID != g.ID {
			t.Errorf("expected one rejection, got %+v", result)
		}
		if repo.goals[g.ID].Status != StatusDraft {
			t.Error("rejected transition must not mutate the goal")
		}
	})

	t.Run("SuspendedResumesThroughDerivedHistory", func(t *testing.T) {
		g := &Goal{ID: uuid.New(), Status: StatusSuspended}
		repo := newFakeGoalRepo(g)
		repo.changes[g.ID] = []GoalStatusChange{
			{GoalID: g.ID, OldStatus: StatusNotStarted, NewStatus: StatusSuspended, PerformedAt: time.Now().Add(-time.Hour)},
		}
		svc := NewService(repo, fakeObjectiveRepo{}, fakeRecipientRepo{})

		result, err := svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID},
			NewStatus: StatusNotStarted,
		})
		if err != nil {
			t.Fatalf("ApplyStatusTransition failed: %v", err)
		}
		if len(result.Updated) != 1 {
			t.Errorf("resume to pre-suspension status should be allowed, got %+v", result)
		}
	})

	t.Run("MissingGoalAbortsWholeCall", func(t *testing.T) {
		g := &Goal{ID: uuid.New(), Status: StatusInProgress}
		repo := newFakeGoalRepo(g)
		svc := NewService(repo, fakeObjectiveRepo{}, fakeRecipientRepo{})

		_, err := svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID, uuid.New()},
			NewStatus: StatusClosed,
		})
		if !errors.Is(err, ErrGoalNotFound) {
			t.Fatalf("expected ErrGoalNotFound, got %v", err)
		}
	})

	t.Run("MergedAwayGoalIsNotEditable", func(t *testing.T) {
		parent := uuid.New()
		g := &Goal{ID: uuid.New(), Status: StatusInProgress, MapsToParentGoalID: &parent}
		repo := newFakeGoalRepo(g)
		svc := NewService(repo, fakeObjectiveRepo{}, fakeRecipientRepo{})

		_, err := svc.ApplyStatusTransition(ctx, actor, StatusTransitionDTO{
			GoalIDs:   []uuid.UUID{g.ID},
			NewStatus: StatusClosed,
		})
		if !errors.Is(err, ErrGoalMergedAway) {
			t.Fatalf("expected ErrGoalMergedAway, got %v", err)
		}
	})
}
