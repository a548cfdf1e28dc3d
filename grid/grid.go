// Package grid implements the dual air/ground layer storage for the
// drone-delivery world: a dense N×N ground-tag array and a dense N×N
// drone-index array, plus the coordinate and emptiness queries the
// spawner and tick resolver need.
package grid

import "fmt"

// CellTag is a ground-layer object kind. The zero value, Empty, is load
// bearing: an all-zero ground layer means an all-empty grid.
type CellTag int

const (
	Empty CellTag = iota
	Packet
	Dropzone
	Station
	Skyscraper
)

func (t CellTag) String() string {
	switch t {
	case Empty:
		return "Empty"
	case Packet:
		return "Packet"
	case Dropzone:
		return "Dropzone"
	case Station:
		return "Station"
	case Skyscraper:
		return "Skyscraper"
	default:
		return fmt.Sprintf("CellTag(%d)", int(t))
	}
}

// Coord is a grid coordinate, row-major: Y is the row (increasing
// downward), X is the column.
type Coord struct {
	Y, X int
}

// Grid holds the two parallel N×N layers. Ground holds CellTag values;
// Air holds drone indices (0 means no drone). Both are flattened
// row-major for cache-friendly constant-time access.
type Grid struct {
	N      int
	Ground []CellTag
	Air    []int
}

// New allocates an N×N grid with both layers empty.
func New(n int) *Grid {
	return &Grid{
		N:      n,
		Ground: make([]CellTag, n*n),
		Air:    make([]int, n*n),
	}
}

// IsInside reports whether c lies within the grid bounds.
func (g *Grid) IsInside(c Coord) bool {
	return c.Y >= 0 && c.Y < g.N && c.X >= 0 && c.X < g.N
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.N + c.X
}

// GroundAt reads the ground tag at c. Caller must ensure c is inside the grid.
func (g *Grid) GroundAt(c Coord) CellTag {
	return g.Ground[g.index(c)]
}

// SetGroundAt writes the ground tag at c.
func (g *Grid) SetGroundAt(c Coord, tag CellTag) {
	g.Ground[g.index(c)] = tag
}

// AirAt reads the drone index at c (0 if empty).
func (g *Grid) AirAt(c Coord) int {
	return g.Air[g.index(c)]
}

// SetAirAt writes the drone index at c.
func (g *Grid) SetAirAt(c Coord, drone int) {
	g.Air[g.index(c)] = drone
}

// EmptyAt reports whether both layers are empty at c.
func (g *Grid) EmptyAt(c Coord) bool {
	i := g.index(c)
	return g.Ground[i] == Empty && g.Air[i] == 0
}

// EmptyCells returns the coordinates of every cell that is empty in both
// layers.
func (g *Grid) EmptyCells() []Coord {
	cells := make([]Coord, 0, len(g.Ground))
	for i, tag := range g.Ground {
		if tag == Empty && g.Air[i] == 0 {
			cells = append(cells, Coord{Y: i / g.N, X: i % g.N})
		}
	}
	return cells
}

// EmptyGroundCells returns the coordinates of every cell whose ground tag
// is Empty, irrespective of the air layer. This is the cell set the
// spawner draws from when placing ground objects (packets, dropzones,
// skyscrapers, stations): per the reference implementation, a ground
// object may be placed under a drone that is already occupying the cell.
func (g *Grid) EmptyGroundCells() []Coord {
	cells := make([]Coord, 0, len(g.Ground))
	for i, tag := range g.Ground {
		if tag == Empty {
			cells = append(cells, Coord{Y: i / g.N, X: i % g.N})
		}
	}
	return cells
}

// EmptyAirCells returns the coordinates of every cell whose air layer is
// unoccupied, irrespective of the ground layer. This is the cell set the
// spawner draws from when placing or respawning drones: per the reference
// implementation, a drone may be placed atop an existing ground object
// (most notably a Packet, which Phase F's free-pickup rule then expects).
func (g *Grid) EmptyAirCells() []Coord {
	cells := make([]Coord, 0, len(g.Air))
	for i, drone := range g.Air {
		if drone == 0 {
			cells = append(cells, Coord{Y: i / g.N, X: i % g.N})
		}
	}
	return cells
}

// FindDrone returns the coordinate holding drone index i. It is an O(N^2)
// scan and exists only for tests and debugging tools; the hot tick path
// never calls it, tracking drone positions instead via the air layer
// writes it performs directly.
func (g *Grid) FindDrone(i int) (Coord, bool) {
	for idx, d := range g.Air {
		if d == i {
			return Coord{Y: idx / g.N, X: idx % g.N}, true
		}
	}
	return Coord{}, false
}

// Positions returns the air-layer position of every drone index 1..d,
// built with a single O(N^2) scan rather than d separate FindDrone scans.
func (g *Grid) Positions(d int) []Coord {
	positions := make([]Coord, d+1)
	for idx, drone := range g.Air {
		if drone != 0 {
			positions[drone] = Coord{Y: idx / g.N, X: idx % g.N}
		}
	}
	return positions
}

// CountGround returns the number of ground cells carrying tag.
func (g *Grid) CountGround(tag CellTag) int {
	n := 0
	for _, t := range g.Ground {
		if t == tag {
			n++
		}
	}
	return n
}
