// Package spawn implements sampling-without-replacement placement of
// objects onto a grid, used both at reset and whenever the tick resolver
// needs to respawn crashed drones or consumed ground objects. Ground
// objects are placed into cells empty on the ground layer; drones are
// placed into cells empty on the air layer. The two layers are checked
// independently rather than jointly: per the reference implementation, a
// ground object may be placed under an already-present drone, and a drone
// may be placed atop an already-present ground object (the latter is what
// lets a respawning drone land on, and immediately pick up, a packet).
package spawn

import (
	"fmt"
	"math/rand"

	"github.com/dronegrid/dronegrid/grid"
)

// InsufficientSpaceError is returned when fewer cells are empty than the
// number of items requested. The tick resolver and Reset guarantee by
// construction that this never happens (the maximum simultaneous demand
// for ground/air respawns is bounded well under N^2 by the density
// parameters), so seeing this error in practice indicates a configuration
// bug, not a modeled outcome.
type InsufficientSpaceError struct {
	Want, Have int
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("spawn: requested %d cells but only %d are empty", e.Want, e.Have)
}

// sample draws k distinct coordinates uniformly without replacement from
// candidates, via partial Fisher-Yates. Determinism: for a fixed
// (candidates, k, rng-state) the result is deterministic. candidates is
// mutated (shuffled) in place.
func sample(candidates []grid.Coord, k int, rng *rand.Rand) ([]grid.Coord, error) {
	if k == 0 {
		return nil, nil
	}
	if len(candidates) < k {
		return nil, &InsufficientSpaceError{Want: k, Have: len(candidates)}
	}

	// Partial Fisher-Yates: only shuffle the first k positions, which is
	// O(k) swaps instead of O(len(candidates)) for a full shuffle, and
	// avoids the repeated-rejection-sampling pitfall spec.md §9 calls out
	// when the free set is small.
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:k], nil
}

// Ground writes tags onto k = len(tags) cells sampled from the cells
// currently Empty on the ground layer, returning the chosen positions in
// tags-order.
func Ground(g *grid.Grid, tags []grid.CellTag, rng *rand.Rand) ([]grid.Coord, error) {
	positions, err := sample(g.EmptyGroundCells(), len(tags), rng)
	if err != nil {
		return nil, err
	}
	for i, tag := range tags {
		g.SetGroundAt(positions[i], tag)
	}
	return positions, nil
}

// Air writes drone indices onto k = len(drones) cells sampled from the
// cells currently unoccupied on the air layer, returning the chosen
// positions in drones-order.
func Air(g *grid.Grid, drones []int, rng *rand.Rand) ([]grid.Coord, error) {
	positions, err := sample(g.EmptyAirCells(), len(drones), rng)
	if err != nil {
		return nil, err
	}
	for i, d := range drones {
		g.SetAirAt(positions[i], d)
	}
	return positions, nil
}
