package report

type ReportStatus string

const (
	StatusDraft       ReportStatus = "draft"
	StatusSubmitted   ReportStatus = "submitted"
	StatusNeedsAction ReportStatus = "needs_action"
	StatusApproved    ReportStatus = "approved"
)

var AllStatuses = []ReportStatus{
	StatusDraft,
	StatusSubmitted,
	StatusNeedsAction,
	StatusApproved,
}

// IsTerminal reports whether the report is finalized. Goals on approved
// reports are hidden from non-admin merge operators: merging one rewrites a
// report that has already been approved.
func (s ReportStatus) IsTerminal() bool {
	return s == StatusApproved
}

func (s ReportStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}
