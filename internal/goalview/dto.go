package goalview

import "github.com/google/uuid"

// Profile selects the reduction key. It is always passed explicitly by the
// caller, never inferred from the shape of the input.
type Profile int

const (
	// ProfileList keys goals by (name, status): the RTR table view.
	ProfileList Profile = iota
	// ProfileReport keys goals by name alone; status comes from the
	// per-report snapshot instead of the live goal.
	ProfileReport
)

// Row is one flat result row: one goal × grant × objective × association
// join. Statuses are plain strings here; the reducer has no knowledge of the
// goal lifecycle (or of merges) and must produce a stable shape before and
// after a merge.
type Row struct {
	GoalID     uuid.UUID
	GoalName   string
	GoalStatus string
	GoalSource string
	EndDate    string

	GrantID     uuid.UUID
	GrantNumber string

	ResponseValues []string

	// Report-scoped fields; zero-valued for list-profile rows.
	ReportStatus string

	ObjectiveID     *uuid.UUID
	ObjectiveTitle  string
	ObjectiveStatus string
	CreatedHere     bool

	Topics    []string
	Resources []RelatedResource
	Files     []RelatedFile
	Courses   []string
}

type RelatedResource struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type RelatedFile struct {
	Key          string `json:"key"`
	OriginalName string `json:"original_name"`
}

// GoalEntry is one deduplicated goal in the reduced tree. IDs collects every
// underlying goal row folded into the entry.
type GoalEntry struct {
	IDs            []uuid.UUID      `json:"ids"`
	Name           string           `json:"name"`
	Status         string           `json:"status"`
	Source         string           `json:"source,omitempty"`
	EndDate        string           `json:"end_date,omitempty"`
	GrantNumbers   []string         `json:"grant_numbers"`
	ResponseValues []string         `json:"response_values,omitempty"`
	Objectives     []ObjectiveEntry `json:"objectives"`
}

type ObjectiveEntry struct {
	IDs         []uuid.UUID       `json:"ids"`
	Title       string            `json:"title"`
	Status      string            `json:"status"`
	CreatedHere bool              `json:"created_here,omitempty"`
	Topics      []string          `json:"topics,omitempty"`
	Resources   []RelatedResource `json:"resources,omitempty"`
	Files       []RelatedFile     `json:"files,omitempty"`
	Courses     []string          `json:"courses,omitempty"`
}
