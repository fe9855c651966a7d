package similarity

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ttahub/goals-lambda/internal/config"
	"github.com/ttahub/goals-lambda/internal/goal"
	"github.com/ttahub/goals-lambda/internal/report"
)

// maxDistinctResponseSets guards against the scorer grouping unrelated FEI
// root-cause goals into one cluster. Preserved as-is from the existing
// behavior; do not generalize without product confirmation.
const maxDistinctResponseSets = 2

type Service interface {
	// ComputeGroups returns the recipient's cached similarity groups,
	// computing and persisting them first if no computation has run yet.
	// Members the caller may not merge are filtered out unless the caller
	// has the admin override.
	ComputeGroups(ctx context.Context, recipientID uuid.UUID, regionID int, hasOverride bool) ([]GroupView, error)

	// Invalidate records an operator's judgement that a group's members are
	// not actually duplicates.
	Invalidate(ctx context.Context, groupID uuid.UUID) error

	// MarkMergeComplete stamps the group with the goal chosen as final,
	// retiring it from every future listing.
	MarkMergeComplete(ctx context.Context, groupID, finalGoalID uuid.UUID) error
}

type service struct {
	repo       Repository
	goalRepo   goal.Repository
	reportRepo report.Repository
	scorer     Scorer
}

func NewService(repo Repository, goalRepo goal.Repository, reportRepo report.Repository, scorer Scorer) Service {
	return &service{repo: repo, goalRepo: goalRepo, reportRepo: reportRepo, scorer: scorer}
}

func (s *service) ComputeGroups(ctx context.Context, recipientID uuid.UUID, regionID int, hasOverride bool) ([]GroupView, error) {
	log := config.WithContext(ctx)

	cached, err := s.repo.HasGroups(recipientID)
	if err != nil {
		return nil, err
	}
	if cached {
		return s.activeViews(recipientID, hasOverride)
	}

	matchSets, err := s.scorer.SimilarGoals(ctx, recipientID)
	if err != nil {
		// The scorer is best-effort: unreachable degrades to "nothing
		// found" without caching that answer.
		log.WithError(err).WithField("recipient_id", recipientID).
			Warn("Similarity scorer failed, returning no groups")
		return []GroupView{}, nil
	}

	version, err := s.repo.NextVersion(recipientID)
	if err != nil {
		return nil, err
	}

	kept := 0
	for _, cluster := range clusterMatches(matchSets) {
		members, keep, err := s.evaluateCluster(ctx, cluster)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		group := &GoalSimilarityGroup{
			RecipientID: recipientID,
			Version:     version,
			Goals:       members,
		}
		if err := s.repo.CreateGroup(group); err != nil {
			return nil, err
		}
		kept++
	}

	// Trailing empty group: "computation has run, nothing more found".
	sentinel := &GoalSimilarityGroup{RecipientID: recipientID, Version: version}
	if err := s.repo.CreateGroup(sentinel); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"recipient_id": recipientID,
		"region_id":    regionID,
		"groups":       kept,
	}).Info("Computed goal similarity groups")

	return s.activeViews(recipientID, hasOverride)
}

// evaluateCluster dedupes a raw id cluster into logical goals and applies the
// keep/reject rules. Returns the member rows to persist and whether the
// cluster survives.
func (s *service) evaluateCluster(ctx context.Context, cluster []uuid.UUID) ([]GoalSimilarityGroupGoal, bool, error) {
	log := config.WithContext(ctx)

	goals, err := s.goalRepo.FindByIDs(cluster)
	if err != nil {
		return nil, false, err
	}

	// Goals already merged away must never re-surface as mergeable.
	live := goals[:0]
	for _, g := range goals {
		if !g.IsMergedAway() {
			live = append(live, g)
		}
	}
	if len(live) < 2 {
		return nil, false, nil
	}

	goalIDs := make([]uuid.UUID, len(live))
	for i, g := range live {
		goalIDs[i] = g.ID
	}

	onApproved, reportsByGoal, err := s.reportExposure(goalIDs)
	if err != nil {
		return nil, false, err
	}

	var buckets []logicalGoal
	bucketOf := make(map[uuid.UUID]int, len(live))
	comparables := make(map[uuid.UUID]goal.Comparable, len(live))
	grants := make(map[uuid.UUID]bool)

	for i := range live {
		g := &live[i]
		grants[g.GrantID] = true
		c := goal.ToComparable(g)
		comparables[g.ID] = c

		excluded := onApproved[g.ID] || (g.Status == goal.StatusClosed && g.Template != nil && g.Template.IsCurated)

		found := -1
		for bi := range buckets {
			rep := comparables[buckets[bi].IDs[0]]
			if goal.SameGoal(rep, c) {
				found = bi
				break
			}
		}
		if found == -1 {
			source := ""
			if g.Source != nil {
				source = *g.Source
			}
			buckets = append(buckets, logicalGoal{
				Name:                   g.Name,
				Source:                 source,
				Status:                 g.Status,
				ResponsesForComparison: goal.ResponsesKey(c.ResponseValues),
				IDs:                    []uuid.UUID{g.ID},
				ExcludedIfNotAdmin:     excluded,
			})
			bucketOf[g.ID] = len(buckets) - 1
			continue
		}
		buckets[found].IDs = append(buckets[found].IDs, g.ID)
		buckets[found].ExcludedIfNotAdmin = buckets[found].ExcludedIfNotAdmin || excluded
		bucketOf[g.ID] = found
	}

	// Rule: more than two distinct response-value sets means the scorer
	// grouped unrelated root-cause goals.
	distinctResponses := make(map[string]bool)
	for _, b := range buckets {
		distinctResponses[b.ResponsesForComparison] = true
	}
	if len(distinctResponses) > maxDistinctResponseSets {
		log.WithField("cluster", goalIDs).Debug("Rejecting cluster: too many distinct response sets")
		return nil, false, nil
	}

	// Rule: two same-bucket members already jointly on one report would
	// corrupt that report's per-grant goal count if merged.
	for bi := range buckets {
		seenReports := make(map[uuid.UUID]bool)
		for _, id := range buckets[bi].IDs {
			for _, reportID := range reportsByGoal[id] {
				if seenReports[reportID] {
					log.WithField("cluster", goalIDs).Debug("Rejecting cluster: duplicate members share a report")
					return nil, false, nil
				}
				seenReports[reportID] = true
			}
		}
	}

	// A cluster with exactly one logical goal per grant is one goal
	// legitimately spread across grants, not a duplicate situation.
	if len(buckets) <= 1 || len(buckets) <= len(grants) {
		return nil, false, nil
	}

	var members []GoalSimilarityGroupGoal
	for _, b := range buckets {
		for _, id := range b.IDs {
			members = append(members, GoalSimilarityGroupGoal{
				GoalID:             id,
				ExcludedIfNotAdmin: b.ExcludedIfNotAdmin,
			})
		}
	}
	return members, true, nil
}

// reportExposure returns, per goal, whether it sits on an approved report and
// the ids of every report referencing it.
func (s *service) reportExposure(goalIDs []uuid.UUID) (map[uuid.UUID]bool, map[uuid.UUID][]uuid.UUID, error) {
	links, err := s.reportRepo.FindGoalLinks(goalIDs)
	if err != nil {
		return nil, nil, err
	}

	reportIDs := make([]uuid.UUID, 0, len(links))
	seen := make(map[uuid.UUID]bool)
	for _, l := range links {
		if !seen[l.ActivityReportID] {
			seen[l.ActivityReportID] = true
			reportIDs = append(reportIDs, l.ActivityReportID)
		}
	}

	statuses := make(map[uuid.UUID]report.ReportStatus, len(reportIDs))
	if len(reportIDs) > 0 {
		reports, err := s.reportRepo.FindReportsByIDs(reportIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, ar := range reports {
			statuses[ar.ID] = ar.CalculatedStatus
		}
	}

	onApproved := make(map[uuid.UUID]bool)
	byGoal := make(map[uuid.UUID][]uuid.UUID)
	for _, l := range links {
		byGoal[l.GoalID] = append(byGoal[l.GoalID], l.ActivityReportID)
		if statuses[l.ActivityReportID].IsTerminal() {
			onApproved[l.GoalID] = true
		}
	}
	return onApproved, byGoal, nil
}

func (s *service) activeViews(recipientID uuid.UUID, hasOverride bool) ([]GroupView, error) {
	groups, err := s.repo.FindActiveGroups(recipientID)
	if err != nil {
		return nil, err
	}

	views := []GroupView{}
	for _, g := range groups {
		if g.IsSentinel() {
			continue
		}
		view := GroupView{ID: g.ID, RecipientID: g.RecipientID, Version: g.Version}
		for _, member := range g.Goals {
			if member.ExcludedIfNotAdmin && !hasOverride {
				continue
			}
			view.GoalIDs = append(view.GoalIDs, member.GoalID)
		}
		if len(view.GoalIDs) > 1 {
			views = append(views, view)
		}
	}
	return views, nil
}

func (s *service) Invalidate(ctx context.Context, groupID uuid.UUID) error {
	log := config.WithContext(ctx)
	if err := s.repo.Invalidate(groupID); err != nil {
		return err
	}
	log.WithField("group_id", groupID).Info("Similarity group invalidated by operator")
	return nil
}

func (s *service) MarkMergeComplete(ctx context.Context, groupID, finalGoalID uuid.UUID) error {
	log := config.WithContext(ctx)
	if err := s.repo.SetFinalGoal(groupID, finalGoalID); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"group_id":      groupID,
		"final_goal_id": finalGoalID,
	}).Info("Similarity group resolved by merge")
	return nil
}
