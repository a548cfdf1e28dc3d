package stats_test

import (
	"encoding/gob"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/dronegrid/dronegrid/action"
	"github.com/dronegrid/dronegrid/stats"
	"github.com/dronegrid/dronegrid/world"
)

func TestReturnTrackerAccumulatesUntilDone(t *testing.T) {
	rt := stats.NewReturnTracker(2)

	rt.Track([]float64{1, 2}, []bool{false, false})
	rt.Track([]float64{1, -2}, []bool{true, false})
	rt.Track([]float64{0, 3}, []bool{false, true})

	if got := rt.Returns(1); len(got) != 1 || got[0] != 2 {
		t.Errorf("drone 1 returns = %v, want [2]", got)
	}
	if got := rt.Returns(2); len(got) != 1 || got[0] != 3 {
		t.Errorf("drone 2 returns = %v, want [3]", got)
	}
}

func TestReturnTrackerSummary(t *testing.T) {
	rt := stats.NewReturnTracker(1)
	rt.Track([]float64{2}, []bool{true})
	rt.Track([]float64{4}, []bool{true})

	mean, _ := rt.Summary(1)
	if mean != 3 {
		t.Errorf("mean = %v, want 3", mean)
	}
}

func TestLengthTrackerAccumulatesUntilDone(t *testing.T) {
	lt := stats.NewLengthTracker(1)
	lt.Track([]bool{false})
	lt.Track([]bool{false})
	lt.Track([]bool{true})

	got := lt.Lengths(1)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("lengths = %v, want [3]", got)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	rt := stats.NewReturnTracker(1)
	rt.Track([]float64{5}, []bool{true})

	path := filepath.Join(t.TempDir(), "returns.gob")
	if err := rt.Save(path); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	var loaded [][]float64
	if err := gob.NewDecoder(file).Decode(&loaded); err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || len(loaded[1]) != 1 || loaded[1][0] != 5 {
		t.Errorf("loaded returns = %v, want drone 1 returns [5]", loaded)
	}
}

func TestTrackersAgainstRealRollout(t *testing.T) {
	cfg := world.DefaultConfig()
	cfg.NDrones = 4
	rng := rand.New(rand.NewSource(17))

	w, err := world.Reset(rng, cfg)
	if err != nil {
		t.Fatal(err)
	}

	rt := stats.NewReturnTracker(w.D)
	lt := stats.NewLengthTracker(w.D)

	for tick := 0; tick < 100; tick++ {
		intents := make([]action.Action, w.D)
		for i := range intents {
			intents[i] = action.Action(rng.Intn(action.NumActions))
		}
		rewards, dones, err := w.Step(rng, intents)
		if err != nil {
			t.Fatal(err)
		}
		rt.Track(rewards, dones)
		lt.Track(dones)
	}

	for i := 1; i <= w.D; i++ {
		mean, _ := rt.Summary(i)
		_ = mean // any finite value is acceptable; just exercising the path
		if lengths := lt.Lengths(i); len(lengths) == 0 {
			t.Logf("drone %d never crashed within 100 ticks; not a failure", i)
		}
	}
}
