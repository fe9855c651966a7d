package goal

import (
	"sort"
)

// allowedTransitions is the goal lifecycle table. Statuses absent from the
// map (including anything unknown) have no allowed transitions: the machine
// fails closed.
var allowedTransitions = map[GoalStatus][]GoalStatus{
	StatusDraft:      {StatusClosed},
	StatusNotStarted: {StatusClosed, StatusSuspended},
	StatusInProgress: {StatusClosed, StatusSuspended},
	StatusSuspended:  {StatusInProgress, StatusClosed},
	StatusClosed:     {},
}

// VerifyTransition reports whether a goal may move from old to new. For a
// Suspended goal the caller-supplied previous-status history is also allowed,
// which is how "resume to whatever it was before being suspended" works
// without hard-coding a single path. Pure; never mutates anything.
func VerifyTransition(old, new GoalStatus, previousStatusHistory []GoalStatus) bool {
	allowed, ok := allowedTransitions[old]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == new {
			return true
		}
	}
	if old == StatusSuspended {
		for _, s := range previousStatusHistory {
			if s == new {
				return true
			}
		}
	}
	return false
}

// PreviousStatuses derives the distinct prior states of a goal from its
// status-change log, most recent first. Suspended itself is skipped so a
// suspend/resume cycle cannot "resume to Suspended".
func PreviousStatuses(changes []GoalStatusChange) []GoalStatus {
	sorted := make([]GoalStatusChange, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PerformedAt.After(sorted[j].PerformedAt)
	})

	seen := make(map[GoalStatus]bool)
	var out []GoalStatus
	for _, c := range sorted {
		if c.OldStatus == StatusSuspended || seen[c.OldStatus] {
			continue
		}
		seen[c.OldStatus] = true
		out = append(out, c.OldStatus)
	}
	return out
}
