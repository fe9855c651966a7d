package similarity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/report"
	"gorm.io/datatypes"
)

type fakeGroupRepo struct {
	groups  []GoalSimilarityGroup
	version int
}

func (f *fakeGroupRepo) HasGroups(recipientID uuid.UUID) (bool, error) {
	for _, g := range f.groups {
		if g.RecipientID == recipientID && !g.UserHasInvalidated && g.FinalGoalID == nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroupRepo) FindActiveGroups(recipientID uuid.UUID) ([]GoalSimilarityGroup, error) {
	var out []GoalSimilarityGroup
	for _, g := range f.groups {
		if g.RecipientID == recipientID && !g.UserHasInvalidated && g.FinalGoalID == nil {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) FindByID(id uuid.UUID) (*GoalSimilarityGroup, error) {
	for i := range f.groups {
		if f.groups[i].ID == id {
			return &f.groups[i], nil
		}
	}
	return nil, ErrGroupNotFound
}

func (f *fakeGroupRepo) CreateGroup(group *GoalSimilarityGroup) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	f.groups = append(f.groups, *group)
	return nil
}

func (f *fakeGroupRepo) NextVersion(recipientID uuid.UUID) (int, error) {
	f.version++
	return f.version, nil
}

func (f *fakeGroupRepo) Invalidate(groupID uuid.UUID) error {
	for i := range f.groups {
		if f.groups[i].ID == groupID {
			f.groups[i].UserHasInvalidated = true
			return nil
		}
	}
	return ErrGroupNotFound
}

func (f *fakeGroupRepo) SetFinalGoal(groupID, finalGoalID uuid.UUID) error {
	for i := range f.groups {
		if f.groups[i].ID == groupID {
			f.groups[i].FinalGoalID = &finalGoalID
			return nil
		}
	}
	return ErrGroupNotFound
}

type fakeGoalRepo struct {
	goals map[uuid.UUID]*goal.Goal
}

func (f *fakeGoalRepo) FindByID(id uuid.UUID) (*goal.Goal, error) {
	if g, ok := f.goals[id]; ok {
		return g, nil
	}
	return nil, goal.ErrGoalNotFound
}

func (f *fakeGoalRepo) FindByIDs(ids []uuid.UUID) ([]goal.Goal, error) {
	var out []goal.Goal
	for _, id := range ids {
		if g, ok := f.goals[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) FindAllByRecipientID(recipientID uuid.UUID) ([]goal.Goal, error) {
	return nil, nil
}

func (f *fakeGoalRepo) FindStatusChanges(goalID uuid.UUID) ([]goal.GoalStatusChange, error) {
	return nil, nil
}

func (f *fakeGoalRepo) AppendStatusChange(change *goal.GoalStatusChange) error { return nil }

func (f *fakeGoalRepo) UpdateStatus(goalID uuid.UUID, status goal.GoalStatus) error { return nil }

func (f *fakeGoalRepo) Transaction(fn func(goal.Repository) error) error { return fn(f) }

type fakeReportRepo struct {
	reports   map[uuid.UUID]report.ActivityReport
	goalLinks []report.ActivityReportGoal
}

func (f *fakeReportRepo) FindByID(id uuid.UUID) (*report.ActivityReport, error) {
	if r, ok := f.reports[id]; ok {
		return &r, nil
	}
	return nil, report.ErrReportNotFound
}

func (f *fakeReportRepo) FindGoalLinks(goalIDs []uuid.UUID) ([]report.ActivityReportGoal, error) {
	want := make(map[uuid.UUID]bool, len(goalIDs))
	for _, id := range goalIDs {
		want[id] = true
	}
	var out []report.ActivityReportGoal
	for _, l := range f.goalLinks {
		if want[l.GoalID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) FindObjectiveLinks(objectiveIDs []uuid.UUID) ([]report.ActivityReportObjective, error) {
	return nil, nil
}

func (f *fakeReportRepo) FindReportsByIDs(ids []uuid.UUID) ([]report.ActivityReport, error) {
	var out []report.ActivityReport
	for _, id := range ids {
		if r, ok := f.reports[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) FindGoalLinksForReport(reportID uuid.UUID) ([]report.ActivityReportGoal, error) {
	return nil, nil
}

func (f *fakeReportRepo) FindObjectiveLinksForReport(reportID uuid.UUID) ([]report.ActivityReportObjective, error) {
	return nil, nil
}

type fakeScorer struct {
	sets  []MatchSet
	err   error
	calls int
}

func (f *fakeScorer) SimilarGoals(ctx context.Context, recipientID uuid.UUID) ([]MatchSet, error) {
	f.calls++
	return f.sets, f.err
}

func newTestGoal(name string, status goal.GoalStatus, grantID uuid.UUID, responses ...string) *goal.Goal {
	g := &goal.Goal{ID: uuid.New(), Name: name, Status: status, GrantID: grantID}
	for _, r := range responses {
		raw, _ := json.Marshal([]string{r})
		g.FieldResponses = append(g.FieldResponses, goal.GoalFieldResponse{
			GoalID:   g.ID,
			Response: datatypes.JSON(raw),
		})
	}
	return g
}

func matchSet(ids ...uuid.UUID) MatchSet {
	set := MatchSet{GoalID: ids[0]}
	for _, id := range ids[1:] {
		set.Matches = append(set.Matches, id)
	}
	return set
}

func TestComputeGroups(t *testing.T) {
	recipientID := uuid.New()
	grantA := uuid.New()
	grantB := uuid.New()

	t.Run("scorer matches become a persisted group", func(t *testing.T) {
		g1 := newTestGoal("Improve CLASS scores", goal.StatusInProgress, grantA)
		g2 := newTestGoal("Improve CLASS scores", goal.StatusInProgress, grantA)
		g3 := newTestGoal("Improve classroom scores", goal.StatusNotStarted, grantA)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, &fakeReportRepo{}, scorer)

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 1 {
			t.Fatalf("expected 1 group, got %d", len(views))
		}
		if len(views[0].GoalIDs) != 3 {
			t.Errorf("expected 3 members, got %d", len(views[0].GoalIDs))
		}
		// One real group plus the trailing empty marker.
		if len(groups.groups) != 2 {
			t.Errorf("expected 2 persisted groups, got %d", len(groups.groups))
		}
		if !groups.groups[1].IsSentinel() {
			t.Error("expected trailing group to be the empty marker")
		}
	})

	t.Run("second call serves the cache without re-scoring", func(t *testing.T) {
		g1 := newTestGoal("Improve CLASS scores", goal.StatusInProgress, grantA)
		g2 := newTestGoal("Improve CLASS scores", goal.StatusInProgress, grantA)
		g3 := newTestGoal("Improve class scores", goal.StatusInProgress, grantA)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, &fakeReportRepo{}, scorer)

		first, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}

		scorer.err = errors.New("scorer down")
		second, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(second) != len(first) || second[0].ID != first[0].ID {
			t.Error("expected cached groups to be identical across calls")
		}
	})

	t.Run("scorer failure returns no groups and caches nothing", func(t *testing.T) {
		groups := &fakeGroupRepo{}
		svc := NewService(groups, &fakeGoalRepo{}, &fakeReportRepo{}, &fakeScorer{err: errors.New("timeout")})

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 0 {
			t.Errorf("expected no groups, got %d", len(views))
		}
		if len(groups.groups) != 0 {
			t.Error("failed computation must not persist a marker group")
		}
	})

	t.Run("no matches still persists the empty marker", func(t *testing.T) {
		groups := &fakeGroupRepo{}
		svc := NewService(groups, &fakeGoalRepo{}, &fakeReportRepo{}, &fakeScorer{})

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 0 {
			t.Errorf("expected no visible groups, got %d", len(views))
		}
		if len(groups.groups) != 1 || !groups.groups[0].IsSentinel() {
			t.Fatal("expected exactly the empty marker group")
		}
	})

	t.Run("approved report member hidden from regular users, visible to admins", func(t *testing.T) {
		g1 := newTestGoal("Expand family services", goal.StatusInProgress, grantA)
		g2 := newTestGoal("Expand services for families", goal.StatusInProgress, grantA)
		g3 := newTestGoal("Expand services to families", goal.StatusInProgress, grantA)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}

		approved := report.ActivityReport{ID: uuid.New(), CalculatedStatus: report.StatusApproved}
		reports := &fakeReportRepo{
			reports: map[uuid.UUID]report.ActivityReport{approved.ID: approved},
			goalLinks: []report.ActivityReportGoal{
				{ActivityReportID: approved.ID, GoalID: g1.ID},
			},
		}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, reports, scorer)

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 1 || len(views[0].GoalIDs) != 2 {
			t.Fatalf("expected 2 visible members for regular user, got %+v", views)
		}
		for _, id := range views[0].GoalIDs {
			if id == g1.ID {
				t.Error("approved-report member should be filtered for regular users")
			}
		}

		adminViews, err := svc.ComputeGroups(context.Background(), recipientID, 1, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(adminViews) != 1 || len(adminViews[0].GoalIDs) != 3 {
			t.Fatalf("expected all 3 members for admin, got %+v", adminViews)
		}
	})

	t.Run("closed goal from curated template is excluded for non-admins", func(t *testing.T) {
		curated := &goal.GoalTemplate{ID: uuid.New(), TemplateName: "CLASS monitoring", IsCurated: true}
		g1 := newTestGoal("Improve CLASS scores", goal.StatusClosed, grantA)
		g1.GoalTemplateID = &curated.ID
		g1.Template = curated
		g2 := newTestGoal("Improve CLASS scores", goal.StatusInProgress, grantA)
		g3 := newTestGoal("Improve classroom quality", goal.StatusInProgress, grantA)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, &fakeReportRepo{}, scorer)

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 1 || len(views[0].GoalIDs) != 2 {
			t.Fatalf("expected curated closed goal filtered, got %+v", views)
		}
	})

	t.Run("cluster with too many distinct response sets is rejected", func(t *testing.T) {
		g1 := newTestGoal("Address FEI root causes", goal.StatusInProgress, grantA, "Staffing")
		g2 := newTestGoal("Address FEI root causes", goal.StatusInProgress, grantB, "Facilities")
		g3 := newTestGoal("Address FEI root causes", goal.StatusInProgress, grantB, "Transportation")
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, &fakeReportRepo{}, scorer)

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 0 {
			t.Errorf("expected cluster rejected, got %+v", views)
		}
	})

	t.Run("duplicates sharing a report are rejected", func(t *testing.T) {
		g1 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g2 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g3 := newTestGoal("Improve attendance rates", goal.StatusInProgress, grantA)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}

		draft := report.ActivityReport{ID: uuid.New(), CalculatedStatus: report.StatusDraft}
		reports := &fakeReportRepo{
			reports: map[uuid.UUID]report.ActivityReport{draft.ID: draft},
			goalLinks: []report.ActivityReportGoal{
				{ActivityReportID: draft.ID, GoalID: g1.ID},
				{ActivityReportID: draft.ID, GoalID: g2.ID},
			},
		}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, reports, scorer)

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 0 {
			t.Errorf("expected cluster rejected, got %+v", views)
		}
	})

	t.Run("one logical goal per grant is not a duplicate situation", func(t *testing.T) {
		g1 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g2 := newTestGoal("Improve attendance", goal.StatusNotStarted, grantB)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2}}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID)}}
		svc := NewService(groups, goals, &fakeReportRepo{}, scorer)

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 0 {
			t.Errorf("expected no groups when goals map one per grant, got %+v", views)
		}
	})

	t.Run("merged away goals never resurface", func(t *testing.T) {
		parent := uuid.New()
		g1 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g1.MapsToParentGoalID = &parent
		g2 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g3 := newTestGoal("Improve attendance rates", goal.StatusInProgress, grantA)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, &fakeReportRepo{}, scorer)

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range views {
			for _, id := range v.GoalIDs {
				if id == g1.ID {
					t.Error("merged-away goal must not appear in any group")
				}
			}
		}
	})
}

func TestInvalidateAndMarkComplete(t *testing.T) {
	recipientID := uuid.New()
	grantA := uuid.New()

	setup := func(t *testing.T) (Service, *fakeGroupRepo, uuid.UUID) {
		g1 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g2 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g3 := newTestGoal("Improve attendance rates", goal.StatusInProgress, grantA)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, &fakeReportRepo{}, scorer)

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 1 {
			t.Fatalf("expected 1 group, got %d", len(views))
		}
		return svc, groups, views[0].ID
	}

	t.Run("invalidated group disappears from listings", func(t *testing.T) {
		svc, _, groupID := setup(t)
		if err := svc.Invalidate(context.Background(), groupID); err != nil {
			t.Fatal(err)
		}
		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 0 {
			t.Errorf("expected invalidated group hidden, got %+v", views)
		}
	})

	t.Run("merged group disappears from listings", func(t *testing.T) {
		svc, groups, groupID := setup(t)
		final := uuid.New()
		if err := svc.MarkMergeComplete(context.Background(), groupID, final); err != nil {
			t.Fatal(err)
		}
		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 0 {
			t.Errorf("expected completed group hidden, got %+v", views)
		}
		g, err := groups.FindByID(groupID)
		if err != nil {
			t.Fatal(err)
		}
		if g.FinalGoalID == nil || *g.FinalGoalID != final {
			t.Error("expected final goal recorded on the group")
		}
	})

	t.Run("dismissing every group triggers a fresh computation", func(t *testing.T) {
		g1 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g2 := newTestGoal("Improve attendance", goal.StatusInProgress, grantA)
		g3 := newTestGoal("Improve attendance rates", goal.StatusInProgress, grantA)
		goals := &fakeGoalRepo{goals: map[uuid.UUID]*goal.Goal{g1.ID: g1, g2.ID: g2, g3.ID: g3}}
		groups := &fakeGroupRepo{}
		scorer := &fakeScorer{sets: []MatchSet{matchSet(g1.ID, g2.ID, g3.ID)}}
		svc := NewService(groups, goals, &fakeReportRepo{}, scorer)

		if _, err := svc.ComputeGroups(context.Background(), recipientID, 1, false); err != nil {
			t.Fatal(err)
		}
		// Dismiss everything, the empty marker included.
		for _, g := range groups.groups {
			if err := svc.Invalidate(context.Background(), g.ID); err != nil {
				t.Fatal(err)
			}
		}

		views, err := svc.ComputeGroups(context.Background(), recipientID, 1, false)
		if err != nil {
			t.Fatal(err)
		}
		if scorer.calls != 2 {
			t.Fatalf("expected a recomputation after all groups were dismissed, scorer ran %d time(s)", scorer.calls)
		}
		if len(views) != 1 {
			t.Errorf("expected the fresh computation to surface the group again, got %d", len(views))
		}
	})

	t.Run("unknown group id", func(t *testing.T) {
		svc, _, _ := setup(t)
		if err := svc.Invalidate(context.Background(), uuid.New()); !errors.Is(err, ErrGroupNotFound) {
			t.Errorf("expected ErrGroupNotFound, got %v", err)
		}
	})
}
