package similarity

import "github.com/google/uuid"

// unionFind turns pairwise match output into disjoint clusters of goal ids.
type unionFind struct {
	parent map[uuid.UUID]uuid.UUID
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[uuid.UUID]uuid.UUID)}
}

func (u *unionFind) find(id uuid.UUID) uuid.UUID {
	root, ok := u.parent[id]
	if !ok {
		u.parent[id] = id
		return id
	}
	if root == id {
		return id
	}
	resolved := u.find(root)
	u.parent[id] = resolved
	return resolved
}

func (u *unionFind) union(a, b uuid.UUID) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}

// clusters returns the disjoint sets, dropping singletons: a goal the scorer
// matched to nothing is not a duplicate candidate.
func (u *unionFind) clusters() [][]uuid.UUID {
	byRoot := make(map[uuid.UUID][]uuid.UUID)
	var roots []uuid.UUID
	for id := range u.parent {
		root := u.find(id)
		if _, seen := byRoot[root]; !seen {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], id)
	}

	var out [][]uuid.UUID
	for _, root := range roots {
		if members := byRoot[root]; len(members) > 1 {
			out = append(out, members)
		}
	}
	return out
}

// clusterMatches unions every scorer match set into disjoint clusters.
func clusterMatches(sets []MatchSet) [][]uuid.UUID {
	u := newUnionFind()
	for _, set := range sets {
		u.find(set.GoalID)
		for _, m := range set.Matches {
			u.union(set.GoalID, m)
		}
	}
	return u.clusters()
}
