// Package world implements the tick resolver: the deterministic-given-
// randomness state-transition at the heart of the drone-delivery
// grid-world engine (spec.md §4.3), plus the grid store wiring and
// episode bootstrap (§4.1, §4.4) it depends on.
package world

import (
	"math/rand"

	"github.com/dronegrid/dronegrid/action"
	"github.com/dronegrid/dronegrid/grid"
	"github.com/dronegrid/dronegrid/spawn"
)

// World is the entire simulation state: the grid store plus the per-drone
// side arrays for position, cargo, and battery (spec.md §3). Position,
// Carrying, and Charge are 1-indexed by drone id; index 0 is unused, which
// keeps drone-id arithmetic identical between the grid's air layer (where
// 0 means "no drone") and these side arrays.
type World struct {
	Grid     *grid.Grid
	Cfg      Config
	D        int
	Position []grid.Coord
	Carrying []bool
	Charge   []int
}

// Reset builds a new, valid initial World: it places skyscrapers first
// (so static objects bind the scarce cells before consumables compete for
// them), then stations, dropzones, packets, then the drones themselves,
// and finally runs the same post-respawn free-pickup rule the tick
// resolver uses in Phase F, per spec.md §4.4.
func Reset(rng *rand.Rand, cfg Config) (*World, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	g := grid.New(cfg.GridSize)
	d := cfg.NDrones

	if err := placeStatic(g, grid.Skyscraper, cfg.SkyscrapersFactor*d, rng); err != nil {
		return nil, err
	}
	if err := placeStatic(g, grid.Station, cfg.StationsFactor*d, rng); err != nil {
		return nil, err
	}
	if err := placeStatic(g, grid.Dropzone, cfg.DropzonesFactor*d, rng); err != nil {
		return nil, err
	}
	if err := placeStatic(g, grid.Packet, cfg.PacketsFactor*d, rng); err != nil {
		return nil, err
	}

	drones := make([]int, d)
	for i := range drones {
		drones[i] = i + 1
	}
	positions, err := spawn.Air(g, drones, rng)
	if err != nil {
		return nil, err
	}

	w := &World{
		Grid:     g,
		Cfg:      cfg,
		D:        d,
		Position: make([]grid.Coord, d+1),
		Carrying: make([]bool, d+1),
		Charge:   make([]int, d+1),
	}
	for i := 1; i <= d; i++ {
		w.Position[i] = positions[i-1]
		w.Charge[i] = 100
	}

	freePickup(w, drones, positions)

	return w, nil
}

func placeStatic(g *grid.Grid, tag grid.CellTag, count int, rng *rand.Rand) error {
	if count == 0 {
		return nil
	}
	tags := make([]grid.CellTag, count)
	for i := range tags {
		tags[i] = tag
	}
	_, err := spawn.Ground(g, tags, rng)
	return err
}

// freePickup implements the "immediate post-respawn pickup" rule of
// spec.md §4.3 Phase F step 3 / §4.4: a drone that lands on a Packet
// picks it up for free, no reward, no fresh packet respawned.
func freePickup(w *World, drones []int, positions []grid.Coord) {
	for idx, i := range drones {
		pos := positions[idx]
		if w.Grid.GroundAt(pos) == grid.Packet {
			w.Carrying[i] = true
			w.Grid.SetGroundAt(pos, grid.Empty)
		}
	}
}

// Snapshot is a JSON-friendly, read-only copy of a World's state, used by
// the telemetry dashboard and by tests that want to compare two states
// without reaching into internal slices.
type Snapshot struct {
	N        int            `json:"n"`
	Ground   []grid.CellTag `json:"ground"`
	Air      []int          `json:"air"`
	Carrying []bool         `json:"carrying"`
	Charge   []int          `json:"charge"`
}

// Snapshot copies out w's current state.
func (w *World) Snapshot() Snapshot {
	ground := make([]grid.CellTag, len(w.Grid.Ground))
	copy(ground, w.Grid.Ground)
	air := make([]int, len(w.Grid.Air))
	copy(air, w.Grid.Air)
	carrying := make([]bool, len(w.Carrying))
	copy(carrying, w.Carrying)
	charge := make([]int, len(w.Charge))
	copy(charge, w.Charge)

	return Snapshot{
		N:        w.Grid.N,
		Ground:   ground,
		Air:      air,
		Carrying: carrying,
		Charge:   charge,
	}
}

// FormatAction returns the log-friendly name for a raw intent value, the
// Engine API's format_action (spec.md §6).
func FormatAction(a int) (string, error) {
	return action.Format(a)
}
