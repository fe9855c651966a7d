package grant

type GrantStatus string

const (
	GrantStatusActive   GrantStatus = "Active"
	GrantStatusInactive GrantStatus = "Inactive"
)

var AllStatuses = []GrantStatus{
	GrantStatusActive,
	GrantStatusInactive,
}

func (s GrantStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}
