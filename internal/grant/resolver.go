package grant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ttahub/goals-lambda/internal/config"
)

var ErrNoActiveGrant = errors.New("no active grant resolves for the given grants")

// maxReplacementDepth bounds the walk over replacement edges. The program
// invariant says the edges are acyclic, but the resolver must terminate even
// if that invariant is ever broken.
const maxReplacementDepth = 5

// Resolver maps each grant to the grant(s) currently active for it: an Active
// grant resolves to itself, an Inactive grant resolves through its
// replacement edges to the nearest Active successor(s). Grants with no safe
// resolution are excluded from the result rather than guessed.
type Resolver interface {
	ResolveActive(ctx context.Context, grantIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}

type resolver struct {
	repo Repository
}

func NewResolver(repo Repository) Resolver {
	return &resolver{repo: repo}
}

func (r *resolver) ResolveActive(ctx context.Context, grantIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	log := config.WithContext(ctx)

	seen := make(map[uuid.UUID]bool, len(grantIDs))
	resolved := make(map[uuid.UUID][]uuid.UUID, len(grantIDs))

	for _, id := range grantIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		targets, err := r.resolveOne(id)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			log.WithField("grant_id", id).Warn("Grant has no active successor, excluding from resolution")
			continue
		}
		resolved[id] = targets
	}

	if len(resolved) == 0 {
		return nil, ErrNoActiveGrant
	}
	return resolved, nil
}

func (r *resolver) resolveOne(id uuid.UUID) ([]uuid.UUID, error) {
	g, err := r.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if g.IsActive() {
		return []uuid.UUID{g.ID}, nil
	}

	visited := map[uuid.UUID]bool{id: true}
	frontier := []uuid.UUID{id}

	for depth := 0; depth < maxReplacementDepth && len(frontier) > 0; depth++ {
		edges, err := r.repo.FindReplacementsFor(frontier)
		if err != nil {
			return nil, err
		}

		var next []uuid.UUID
		for _, edge := range edges {
			if visited[edge.ReplacingGrantID] {
				continue
			}
			visited[edge.ReplacingGrantID] = true
			next = append(next, edge.ReplacingGrantID)
		}
		if len(next) == 0 {
			return nil, nil
		}

		successors, err := r.repo.FindByIDs(next)
		if err != nil {
			return nil, err
		}

		var active []uuid.UUID
		frontier = frontier[:0]
		for _, s := range successors {
			if s.IsActive() {
				active = append(active, s.ID)
			} else {
				frontier = append(frontier, s.ID)
			}
		}
		if len(active) > 0 {
			return active, nil
		}
	}

	return nil, nil
}
