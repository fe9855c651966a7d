package goal

type GoalStatus string

const (
	StatusDraft      GoalStatus = "Draft"
	StatusNotStarted GoalStatus = "Not Started"
	StatusInProgress GoalStatus = "In Progress"
	StatusSuspended  GoalStatus = "Suspended"
	StatusClosed     GoalStatus = "Closed"
)

var AllStatuses = []GoalStatus{
	StatusDraft,
	StatusNotStarted,
	StatusInProgress,
	StatusSuspended,
	StatusClosed,
}

func (s GoalStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// statusPriority orders statuses by how "active" they are. When duplicate
// goals with different statuses are folded into one canonical goal, the
// highest-priority status wins.
var statusPriority = map[GoalStatus]int{
	StatusInProgress: 5,
	StatusClosed:     4,
	StatusSuspended:  3,
	StatusNotStarted: 2,
	StatusDraft:      1,
}

// MergeStatus returns the most active status among the given ones.
func MergeStatus(statuses []GoalStatus) GoalStatus {
	best := StatusDraft
	for _, s := range statuses {
		if statusPriority[s] > statusPriority[best] {
			best = s
		}
	}
	return best
}

type CollaboratorType string

const (
	CollaboratorCreator         CollaboratorType = "Creator"
	CollaboratorLinker          CollaboratorType = "Linker"
	CollaboratorMergeCreator    CollaboratorType = "Merge Creator"
	CollaboratorMergeDeprecator CollaboratorType = "Merge Deprecator"
)

type CreatedVia string

const (
	CreatedViaActivityReport CreatedVia = "activityReport"
	CreatedViaRTR            CreatedVia = "rtr"
	CreatedViaAdmin          CreatedVia = "admin"
	CreatedViaTemplate       CreatedVia = "template"
	CreatedViaMerge          CreatedVia = "merge"
)
