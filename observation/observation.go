// Package observation implements the read-only projections external
// callers use to turn a *world.World into the compact state
// representations Q-table and grid-based policies consume (spec.md §6).
// None of these functions mutate the world or touch an rng; they are
// pure queries over the current state.
package observation

import (
	"fmt"

	"github.com/dronegrid/dronegrid/grid"
	"github.com/dronegrid/dronegrid/world"
)

// Direction is one of the 8 compass bearings, in the fixed tie-break
// order the reference implementation's argmax relies on.
type Direction int

const (
	W Direction = iota
	SW
	S
	SE
	E
	NE
	N
	NW
)

func (d Direction) String() string {
	switch d {
	case W:
		return "W"
	case SW:
		return "SW"
	case S:
		return "S"
	case SE:
		return "SE"
	case E:
		return "E"
	case NE:
		return "NE"
	case N:
		return "N"
	case NW:
		return "NW"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// NoTargetError is returned when a drone has no Packet (while unladen) or
// no Dropzone (while carrying) anywhere on the grid to point toward.
type NoTargetError struct {
	Tag grid.CellTag
}

func (e *NoTargetError) Error() string {
	return fmt.Sprintf("observation: no %s cell on the grid to target", e.Tag)
}

// Compass returns the 8-way bearing and L1 distance from drone i to its
// current target: the nearest Packet if the drone is unladen, or the
// nearest Dropzone if it is carrying. Ties in the bearing predicate
// vector break in the fixed order W,SW,S,SE,E,NE,N,NW, matching the
// reference implementation's first-true argmax.
func Compass(w *world.World, i int) (Direction, int, error) {
	targetTag := grid.Packet
	if w.Carrying[i] {
		targetTag = grid.Dropzone
	}

	targets := findGroundCells(w.Grid, targetTag)
	if len(targets) == 0 {
		return 0, 0, &NoTargetError{Tag: targetTag}
	}

	pos := w.Position[i]
	best := targets[0]
	bestDist := l1(pos, best)
	for _, t := range targets[1:] {
		if d := l1(pos, t); d < bestDist {
			best, bestDist = t, d
		}
	}

	return bearing(pos, best), bestDist, nil
}

func l1(a, b grid.Coord) int {
	return abs(a.Y-b.Y) + abs(a.X-b.X)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func findGroundCells(g *grid.Grid, tag grid.CellTag) []grid.Coord {
	var cells []grid.Coord
	for idx, t := range g.Ground {
		if t == tag {
			cells = append(cells, grid.Coord{Y: idx / g.N, X: idx % g.N})
		}
	}
	return cells
}

// bearing computes the compass direction from "from" to "to", by the same
// predicate-vector argmax the reference implementation uses: west and
// south are signed distances, and the first predicate that holds wins.
func bearing(from, to grid.Coord) Direction {
	west := from.X - to.X
	south := to.Y - from.Y

	switch {
	case west > 0 && south == 0:
		return W
	case west > 0 && south > 0:
		return SW
	case west == 0 && south > 0:
		return S
	case west < 0 && south > 0:
		return SE
	case west < 0 && south == 0:
		return E
	case west < 0 && south < 0:
		return NE
	case west == 0 && south < 0:
		return N
	default: // west > 0 && south < 0, and also from == to
		return NW
	}
}

// lidarProbes gives, for each of the 8 cardinals, the offsets to probe:
// cardinal directions (W,S,E,N) probe two cells out, diagonals probe one.
var lidarProbes = map[Direction][][2]int{
	W:  {{0, -1}, {0, -2}},
	SW: {{1, -1}},
	S:  {{1, 0}, {2, 0}},
	SE: {{1, 1}},
	E:  {{0, 1}, {0, 2}},
	NE: {{-1, 1}},
	N:  {{-1, 0}, {-2, 0}},
	NW: {{-1, -1}},
}

var cardinalOrder = [8]Direction{W, SW, S, SE, E, NE, N, NW}

// Lidar returns the compass bearing/distance (see Compass) plus an 8-bit
// obstacle vector indexed in cardinalOrder: bit c is set iff any cell in
// that direction's probe pattern is out of bounds or occupied by another
// drone.
func Lidar(w *world.World, i int) (Direction, int, [8]bool, error) {
	dir, dist, err := Compass(w, i)
	if err != nil {
		return 0, 0, [8]bool{}, err
	}

	pos := w.Position[i]
	var obstacles [8]bool
	for idx, c := range cardinalOrder {
		obstacles[idx] = senseObstacle(w.Grid, pos, lidarProbes[c], i)
	}
	return dir, dist, obstacles, nil
}

func senseObstacle(g *grid.Grid, pos grid.Coord, offsets [][2]int, self int) bool {
	for _, off := range offsets {
		q := grid.Coord{Y: pos.Y + off[0], X: pos.X + off[1]}
		if !g.IsInside(q) {
			return true
		}
		if d := g.AirAt(q); d != 0 && d != self {
			return true
		}
	}
	return false
}

// Channel indices of the tensor GridView returns.
const (
	ChannelDrone    = 0
	ChannelPacket   = 1
	ChannelDropzone = 2
)

// GridView returns an N×N×3 tensor: channel 0 marks drone occupancy by
// drone index, channel 1 marks a held-or-ground packet (degenerate: the
// carrying drone's own index, or 1 for an unclaimed ground Packet),
// channel 2 marks Dropzone cells (degenerate: 1). Richer per-object
// indexing is a wrapper concern outside the core engine.
func GridView(w *world.World) [][][3]int {
	n := w.Grid.N
	out := make([][][3]int, n)
	for y := range out {
		out[y] = make([][3]int, n)
	}

	for idx, tag := range w.Grid.Ground {
		y, x := idx/n, idx%n
		switch tag {
		case grid.Packet:
			out[y][x][ChannelPacket] = 1
		case grid.Dropzone:
			out[y][x][ChannelDropzone] = 1
		}
	}

	for i := 1; i <= w.D; i++ {
		pos := w.Position[i]
		out[pos.Y][pos.X][ChannelDrone] = i
		if w.Carrying[i] {
			out[pos.Y][pos.X][ChannelPacket] = i
		}
	}

	return out
}
