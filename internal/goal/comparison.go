package goal

import (
	"sort"
	"strings"
)

// Comparable is the flattened, goal-shaped record the equality comparator
// works on. Raw rows, ORM instances and merge accumulators each convert into
// this one stage explicitly instead of being threaded through as-is.
type Comparable struct {
	Name           string
	Status         GoalStatus
	Source         string
	ResponseValues []string
	CreatorNames   []string
}

// ResponsesKey canonicalizes field-response values into a sorted, deduplicated,
// comma-joined string. Two goals whose responses differ only in ordering or
// repetition produce the same key.
func ResponsesKey(values []string) string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// SameGoal reports whether two goal-shaped records are duplicates produced by
// the system itself (the same admin bulk-create re-run, the same report save).
// It is intentionally strict: exact string equality on trimmed name, status,
// source and canonical response set. Approximate matching is the external
// similarity scorer's job, not this comparator's.
//
// At least one creator name must appear in both author lists; an empty author
// list matches anything, to support legacy data missing authorship.
func SameGoal(a, b Comparable) bool {
	if strings.TrimSpace(a.Name) != strings.TrimSpace(b.Name) {
		return false
	}
	if a.Status != b.Status {
		return false
	}
	if a.Source != b.Source {
		return false
	}
	if ResponsesKey(a.ResponseValues) != ResponsesKey(b.ResponseValues) {
		return false
	}
	return authorsOverlap(a.CreatorNames, b.CreatorNames)
}

func authorsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	names := make(map[string]bool, len(a))
	for _, n := range a {
		names[n] = true
	}
	for _, n := range b {
		if names[n] {
			return true
		}
	}
	return false
}
