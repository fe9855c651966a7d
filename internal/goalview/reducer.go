package goalview

import (
	"strings"

	"github.com/google/uuid"
)

// Reduce folds flat rows into a deduplicated, UI-ready tree. It is a pure
// fold: reducing already-reduced output again yields the same tree.
func Reduce(rows []Row, profile Profile) []GoalEntry {
	var order []string
	entries := make(map[string]*GoalEntry)

	for _, row := range rows {
		key := goalKey(row, profile)
		entry, ok := entries[key]
		if !ok {
			entry = &GoalEntry{
				Name:    strings.TrimSpace(row.GoalName),
				Status:  goalStatus(row, profile),
				Source:  row.GoalSource,
				EndDate: row.EndDate,
			}
			entries[key] = entry
			order = append(order, key)
		}

		entry.IDs = appendID(entry.IDs, row.GoalID)
		entry.GrantNumbers = appendString(entry.GrantNumbers, row.GrantNumber)
		for _, v := range row.ResponseValues {
			entry.ResponseValues = appendString(entry.ResponseValues, v)
		}
		if entry.EndDate == "" {
			entry.EndDate = row.EndDate
		}

		foldObjective(entry, row, profile)
	}

	out := make([]GoalEntry, 0, len(order))
	for _, key := range order {
		out = append(out, *entries[key])
	}
	return out
}

func goalKey(row Row, profile Profile) string {
	name := strings.TrimSpace(row.GoalName)
	if profile == ProfileReport {
		return name
	}
	return name + "\x00" + row.GoalStatus
}

func goalStatus(row Row, profile Profile) string {
	if profile == ProfileReport && row.ReportStatus != "" {
		return row.ReportStatus
	}
	return row.GoalStatus
}

func foldObjective(entry *GoalEntry, row Row, profile Profile) {
	if row.ObjectiveID == nil && strings.TrimSpace(row.ObjectiveTitle) == "" {
		return
	}

	title := strings.TrimSpace(row.ObjectiveTitle)
	key := title + "\x00" + row.ObjectiveStatus
	if profile == ProfileReport && row.CreatedHere {
		key += "\x00here"
	}

	var obj *ObjectiveEntry
	for i := range entry.Objectives {
		existing := &entry.Objectives[i]
		existingKey := existing.Title + "\x00" + existing.Status
		if profile == ProfileReport && existing.CreatedHere {
			existingKey += "\x00here"
		}
		if existingKey == key {
			obj = existing
			break
		}
	}
	if obj == nil {
		entry.Objectives = append(entry.Objectives, ObjectiveEntry{
			Title:       title,
			Status:      row.ObjectiveStatus,
			CreatedHere: profile == ProfileReport && row.CreatedHere,
		})
		obj = &entry.Objectives[len(entry.Objectives)-1]
	}

	if row.ObjectiveID != nil {
		obj.IDs = appendID(obj.IDs, *row.ObjectiveID)
	}
	for _, t := range row.Topics {
		obj.Topics = appendString(obj.Topics, t)
	}
	for _, res := range row.Resources {
		obj.Resources = appendResource(obj.Resources, res)
	}
	for _, f := range row.Files {
		obj.Files = appendFile(obj.Files, f)
	}
	for _, c := range row.Courses {
		obj.Courses = appendString(obj.Courses, c)
	}
}

func appendID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if id == uuid.Nil {
		return ids
	}
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func appendString(values []string, v string) []string {
	if v == "" {
		return values
	}
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

func appendResource(resources []RelatedResource, r RelatedResource) []RelatedResource {
	if r.URL == "" {
		return resources
	}
	for _, existing := range resources {
		if existing.URL == r.URL {
			return resources
		}
	}
	return append(resources, r)
}

func appendFile(files []RelatedFile, f RelatedFile) []RelatedFile {
	if f.Key == "" {
		return files
	}
	for _, existing := range files {
		if existing.Key == f.Key {
			return files
		}
	}
	return append(files, f)
}
