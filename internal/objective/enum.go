package objective

type ObjectiveStatus string

const (
	StatusNotStarted ObjectiveStatus = "Not Started"
	StatusInProgress ObjectiveStatus = "In Progress"
	StatusSuspended  ObjectiveStatus = "Suspended"
	StatusComplete   ObjectiveStatus = "Complete"
)

var AllStatuses = []ObjectiveStatus{
	StatusNotStarted,
	StatusInProgress,
	StatusSuspended,
	StatusComplete,
}

func (s ObjectiveStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}
