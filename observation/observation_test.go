package observation_test

import (
	"testing"

	"github.com/dronegrid/dronegrid/grid"
	"github.com/dronegrid/dronegrid/observation"
	"github.com/dronegrid/dronegrid/world"
)

func newWorld(n, d int) *world.World {
	return &world.World{
		Grid:     grid.New(n),
		Cfg:      world.DefaultConfig(),
		D:        d,
		Position: make([]grid.Coord, d+1),
		Carrying: make([]bool, d+1),
		Charge:   make([]int, d+1),
	}
}

func TestCompassBearings(t *testing.T) {
	cases := []struct {
		name   string
		drone  grid.Coord
		target grid.Coord
		want   observation.Direction
	}{
		{"west", grid.Coord{Y: 3, X: 3}, grid.Coord{Y: 3, X: 1}, observation.W},
		{"southwest", grid.Coord{Y: 3, X: 3}, grid.Coord{Y: 5, X: 1}, observation.SW},
		{"south", grid.Coord{Y: 3, X: 3}, grid.Coord{Y: 5, X: 3}, observation.S},
		{"southeast", grid.Coord{Y: 3, X: 3}, grid.Coord{Y: 5, X: 5}, observation.SE},
		{"east", grid.Coord{Y: 3, X: 3}, grid.Coord{Y: 3, X: 5}, observation.E},
		{"northeast", grid.Coord{Y: 3, X: 3}, grid.Coord{Y: 1, X: 5}, observation.NE},
		{"north", grid.Coord{Y: 3, X: 3}, grid.Coord{Y: 1, X: 3}, observation.N},
		{"northwest", grid.Coord{Y: 3, X: 3}, grid.Coord{Y: 1, X: 1}, observation.NW},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newWorld(8, 1)
			w.Position[1] = c.drone
			w.Grid.SetGroundAt(c.target, grid.Packet)

			dir, dist, err := observation.Compass(w, 1)
			if err != nil {
				t.Fatal(err)
			}
			if dir != c.want {
				t.Errorf("bearing = %v, want %v", dir, c.want)
			}
			wantDist := abs(c.drone.Y-c.target.Y) + abs(c.drone.X-c.target.X)
			if dist != wantDist {
				t.Errorf("distance = %d, want %d", dist, wantDist)
			}
		})
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestCompassTargetsDropzoneWhileCarrying(t *testing.T) {
	w := newWorld(8, 1)
	w.Position[1] = grid.Coord{Y: 3, X: 3}
	w.Carrying[1] = true
	w.Grid.SetGroundAt(grid.Coord{Y: 3, X: 3}, grid.Empty)
	w.Grid.SetGroundAt(grid.Coord{Y: 0, X: 0}, grid.Packet) // decoy, should be ignored
	w.Grid.SetGroundAt(grid.Coord{Y: 3, X: 5}, grid.Dropzone)

	dir, _, err := observation.Compass(w, 1)
	if err != nil {
		t.Fatal(err)
	}
	if dir != observation.E {
		t.Errorf("bearing = %v, want E", dir)
	}
}

func TestCompassNearestAmongMultiple(t *testing.T) {
	w := newWorld(8, 1)
	w.Position[1] = grid.Coord{Y: 3, X: 3}
	w.Grid.SetGroundAt(grid.Coord{Y: 3, X: 6}, grid.Packet) // distance 3
	w.Grid.SetGroundAt(grid.Coord{Y: 3, X: 4}, grid.Packet) // distance 1, nearer

	dir, dist, err := observation.Compass(w, 1)
	if err != nil {
		t.Fatal(err)
	}
	if dist != 1 {
		t.Errorf("distance = %d, want 1 (nearest packet)", dist)
	}
	if dir != observation.E {
		t.Errorf("bearing = %v, want E", dir)
	}
}

func TestCompassNoTarget(t *testing.T) {
	w := newWorld(8, 1)
	w.Position[1] = grid.Coord{Y: 3, X: 3}
	if _, _, err := observation.Compass(w, 1); err == nil {
		t.Fatal("expected a NoTargetError when no packet exists")
	}
}

// cardinal index order mirrors observation.go's cardinalOrder: W,SW,S,SE,E,NE,N,NW.
const (
	idxW = iota
	idxSW
	idxS
	idxSE
	idxE
	idxNE
	idxN
	idxNW
)

func TestLidarDetectsBoundary(t *testing.T) {
	w := newWorld(5, 1)
	w.Position[1] = grid.Coord{Y: 0, X: 2} // top edge: north probes leave the grid
	w.Grid.SetGroundAt(grid.Coord{Y: 4, X: 4}, grid.Packet)

	_, _, obstacles, err := observation.Lidar(w, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !obstacles[idxN] {
		t.Error("expected a lidar obstacle to the north (out of bounds)")
	}
	if obstacles[idxE] {
		t.Error("expected no lidar obstacle to the east on an open 5x5 grid")
	}
}

func TestLidarDetectsDrone(t *testing.T) {
	w := newWorld(5, 2)
	w.Position[1] = grid.Coord{Y: 2, X: 2}
	w.Position[2] = grid.Coord{Y: 2, X: 3} // one cell east of drone 1
	w.Grid.SetAirAt(w.Position[1], 1)
	w.Grid.SetAirAt(w.Position[2], 2)
	w.Grid.SetGroundAt(grid.Coord{Y: 4, X: 4}, grid.Packet)

	_, _, obstacles, err := observation.Lidar(w, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !obstacles[idxE] {
		t.Error("expected a lidar obstacle to the east (another drone)")
	}
	if obstacles[idxW] {
		t.Error("expected no lidar obstacle to the west")
	}
}

func TestLidarSelfIsNotAnObstacle(t *testing.T) {
	w := newWorld(5, 1)
	w.Position[1] = grid.Coord{Y: 2, X: 2}
	w.Grid.SetGroundAt(grid.Coord{Y: 4, X: 4}, grid.Packet)
	w.Grid.SetAirAt(w.Position[1], 1)

	_, _, obstacles, err := observation.Lidar(w, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, set := range obstacles {
		if set {
			t.Errorf("unexpected obstacle at index %d with only self on the grid", i)
		}
	}
}

func TestGridViewChannels(t *testing.T) {
	w := newWorld(4, 2)
	w.Position[1] = grid.Coord{Y: 1, X: 1}
	w.Position[2] = grid.Coord{Y: 2, X: 2}
	w.Carrying[1] = true
	w.Grid.SetGroundAt(grid.Coord{Y: 3, X: 3}, grid.Packet)
	w.Grid.SetGroundAt(grid.Coord{Y: 0, X: 0}, grid.Dropzone)

	view := observation.GridView(w)

	if got := view[1][1][observation.ChannelDrone]; got != 1 {
		t.Errorf("drone channel at (1,1) = %d, want 1", got)
	}
	if got := view[1][1][observation.ChannelPacket]; got != 1 {
		t.Errorf("held-packet channel at (1,1) = %d, want 1 (carrying drone 1)", got)
	}
	if got := view[2][2][observation.ChannelDrone]; got != 2 {
		t.Errorf("drone channel at (2,2) = %d, want 2", got)
	}
	if got := view[3][3][observation.ChannelPacket]; got != 1 {
		t.Errorf("ground-packet channel at (3,3) = %d, want 1", got)
	}
	if got := view[0][0][observation.ChannelDropzone]; got != 1 {
		t.Errorf("dropzone channel at (0,0) = %d, want 1", got)
	}
}
