// Package vector runs K independent world.World instances in lockstep,
// stepping them concurrently. This is pure infrastructure for the
// data-parallel rollout permission the simulation core already grants
// (spec.md §5): each copy's tick is fully independent, so the only new
// concern here is fanning the work out and joining it back up cleanly.
package vector

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/dronegrid/dronegrid/action"
	"github.com/dronegrid/dronegrid/world"
)

// Env holds K independent worlds, each with its own rng so that two
// copies never share (and contend on) random state.
type Env struct {
	Worlds []*world.World
	rngs   []*rand.Rand
}

// New builds K independent worlds from cfg, seeded by consecutive draws
// from seed so that a vector.Env is itself reproducible from one seed.
func New(cfg world.Config, k int, seed int64) (*Env, error) {
	root := rand.New(rand.NewSource(seed))

	env := &Env{
		Worlds: make([]*world.World, k),
		rngs:   make([]*rand.Rand, k),
	}
	for i := 0; i < k; i++ {
		rng := rand.New(rand.NewSource(root.Int63()))
		w, err := world.Reset(rng, cfg)
		if err != nil {
			return nil, err
		}
		env.Worlds[i] = w
		env.rngs[i] = rng
	}
	return env, nil
}

// K reports the number of parallel worlds.
func (e *Env) K() int {
	return len(e.Worlds)
}

// Step advances every world by one tick concurrently. intents[k] is the
// per-drone intent vector for world k. It returns per-world (rewards,
// dones), index-aligned with e.Worlds. If any world's Step returns an
// error, Step returns the first such error (errgroup's first-error-wins
// semantics), wrapped with its world index, and leaves every world's state as
// it was left by its own completed or in-flight Step call.
func (e *Env) Step(ctx context.Context, intents [][]action.Action) ([][]float64, [][]bool, error) {
	k := e.K()
	rewards := make([][]float64, k)
	dones := make([][]bool, k)

	group, _ := errgroup.WithContext(ctx)
	for i := 0; i < k; i++ {
		i := i
		group.Go(func() error {
			r, d, err := e.Worlds[i].Step(e.rngs[i], intents[i])
			if err != nil {
				return fmt.Errorf("vector: world %d: %w", i, err)
			}
			rewards[i] = r
			dones[i] = d
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return rewards, dones, nil
}

// Snapshots returns a read-only Snapshot of every world, in Worlds order.
func (e *Env) Snapshots() []world.Snapshot {
	out := make([]world.Snapshot, e.K())
	for i, w := range e.Worlds {
		out[i] = w.Snapshot()
	}
	return out
}
