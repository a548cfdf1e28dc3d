package world

import (
	"math/rand"

	"github.com/dronegrid/dronegrid/action"
	"github.com/dronegrid/dronegrid/grid"
	"github.com/dronegrid/dronegrid/spawn"
)

// Step resolves one tick: intent projection (Phase A), boundary/obstacle
// crashes (Phase B), collision resolution (Phase C), air-layer rewrite and
// ground interaction (Phase D), battery dynamics (Phase E), and respawn
// (Phase F), exactly as spec.md §4.3 specifies. It mutates w in place and
// returns the per-drone rewards and done flags for this tick.
//
// Phases A-E allocate only O(D) scratch: the per-tick reward/done arrays
// and the collision destination map, all sized by the number of drones.
// Phase F is not bounded that way: on a tick with any respawn, the spawner
// builds the list of candidate empty cells, which is O(N^2) in size.
func (w *World) Step(rng *rand.Rand, intents []action.Action) ([]float64, []bool, error) {
	if len(intents) != w.D {
		return nil, nil, &ShapeMismatchError{Want: w.D, Have: len(intents)}
	}
	for i, a := range intents {
		if !a.Valid() {
			return nil, nil, &InvalidIntentError{Index: i, Intent: int(a)}
		}
	}

	d := w.D
	rewards := make([]float64, d+1)
	dones := make([]bool, d+1)
	crashed := make([]bool, d+1)
	dest := make([]grid.Coord, d+1)
	airRespawns := make([]int, 0, d)
	groundRespawns := make([]grid.CellTag, 0, d)

	crash := func(i int) {
		if crashed[i] {
			return
		}
		crashed[i] = true
		dones[i] = true
		rewards[i] += w.Cfg.CrashReward
		airRespawns = append(airRespawns, i)
		if w.Carrying[i] {
			groundRespawns = append(groundRespawns, grid.Packet)
			w.Carrying[i] = false
		}
	}

	// Phase A + B: project intents, crash on out-of-bounds or skyscraper.
	for i := 1; i <= d; i++ {
		dy, dx := intents[i-1].Offset()
		q := grid.Coord{Y: w.Position[i].Y + dy, X: w.Position[i].X + dx}
		if !w.Grid.IsInside(q) || w.Grid.GroundAt(q) == grid.Skyscraper {
			crash(i)
			continue
		}
		dest[i] = q
	}

	// Phase C: group surviving drones by destination; any group of size
	// >= 2 crashes in full (covers N-way converges and STAY-target
	// collisions alike; distinct-destination swaps deliberately pass
	// through each other, per spec.md §4.3's swap note).
	groups := make(map[grid.Coord][]int, d)
	for i := 1; i <= d; i++ {
		if !crashed[i] {
			groups[dest[i]] = append(groups[dest[i]], i)
		}
	}
	// Crash in ascending drone order (not map order) so the respawn order,
	// and with it the rng draws of Phase F, is deterministic.
	for i := 1; i <= d; i++ {
		if !crashed[i] && len(groups[dest[i]]) >= 2 {
			crash(i)
		}
	}

	// Phase D: vacate every drone's old cell unconditionally (crashed
	// drones leave it behind to be respawned elsewhere in Phase F), then
	// write survivors into their destinations and resolve ground
	// interaction.
	for i := 1; i <= d; i++ {
		w.Grid.SetAirAt(w.Position[i], 0)
	}

	onStation := make([]bool, d+1)
	for i := 1; i <= d; i++ {
		if crashed[i] {
			continue
		}
		q := dest[i]
		w.Grid.SetAirAt(q, i)
		w.Position[i] = q

		switch w.Grid.GroundAt(q) {
		case grid.Packet:
			if !w.Carrying[i] {
				w.Carrying[i] = true
				w.Grid.SetGroundAt(q, grid.Empty)
				rewards[i] += w.Cfg.PickupReward
				groundRespawns = append(groundRespawns, grid.Packet)
			}
		case grid.Dropzone:
			if w.Carrying[i] {
				w.Carrying[i] = false
				w.Grid.SetGroundAt(q, grid.Empty)
				rewards[i] += w.Cfg.DeliveryReward
				groundRespawns = append(groundRespawns, grid.Dropzone)
			}
		case grid.Station:
			onStation[i] = true
		}
	}

	// Phase E: battery dynamics. A drone whose charge reaches zero crashes
	// at end of tick, additively to any reward already earned this tick.
	for i := 1; i <= d; i++ {
		if crashed[i] {
			continue
		}
		if onStation[i] {
			w.Charge[i] = clamp(w.Charge[i]+w.Cfg.ChargeRate, 0, 100)
			rewards[i] += w.Cfg.ChargeReward
		} else {
			w.Charge[i] = clamp(w.Charge[i]-w.Cfg.DischargeRate, 0, 100)
		}
		if w.Charge[i] == 0 {
			w.Grid.SetAirAt(w.Position[i], 0)
			crash(i)
		}
	}

	// Phase F: respawn. Ground objects first, so a respawning drone may
	// land atop a freshly spawned object; then drones, with immediate
	// (unrewarded, non-respawning) free pickup on landing.
	if len(groundRespawns) > 0 {
		if _, err := spawn.Ground(w.Grid, groundRespawns, rng); err != nil {
			return nil, nil, err
		}
	}
	if len(airRespawns) > 0 {
		positions, err := spawn.Air(w.Grid, airRespawns, rng)
		if err != nil {
			return nil, nil, err
		}
		for idx, i := range airRespawns {
			pos := positions[idx]
			w.Position[i] = pos
			w.Charge[i] = 100
			w.Carrying[i] = false
			if w.Grid.GroundAt(pos) == grid.Packet {
				w.Carrying[i] = true
				w.Grid.SetGroundAt(pos, grid.Empty)
			}
		}
	}

	return rewards[1:], dones[1:], nil
}
