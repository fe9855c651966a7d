package goal

import (
	"encoding/json"
)

// FieldResponseValues flattens a goal's jsonb field responses into plain
// strings. Responses are stored as either a json array of strings or a single
// json string.
func FieldResponseValues(responses []GoalFieldResponse) []string {
	var out []string
	for _, r := range responses {
		var values []string
		if err := json.Unmarshal(r.Response, &values); err == nil {
			out = append(out, values...)
			continue
		}
		var single string
		if err := json.Unmarshal(r.Response, &single); err == nil && single != "" {
			out = append(out, single)
		}
	}
	return out
}

// CreatorNames collects the names of a goal's creator collaborators.
func CreatorNames(collaborators []GoalCollaborator) []string {
	var out []string
	for _, c := range collaborators {
		if c.CollaboratorType != CollaboratorCreator {
			continue
		}
		if c.User.Name != "" {
			out = append(out, c.User.Name)
		}
	}
	return out
}

// ToComparable converts a loaded goal into the comparator's record stage.
func ToComparable(g *Goal) Comparable {
	source := ""
	if g.Source != nil {
		source = *g.Source
	}
	return Comparable{
		Name:           g.Name,
		Status:         g.Status,
		Source:         source,
		ResponseValues: FieldResponseValues(g.FieldResponses),
		CreatorNames:   CreatorNames(g.Collaborators),
	}
}
