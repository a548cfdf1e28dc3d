// Package stats tracks and persists episodic statistics across a
// rollout: per-drone cumulative return and episode length. It generalizes
// the teacher's single-agent trackers (experiment/trackers/Return.go,
// EpisodeLength.go) to the D-independent-agents shape of a world.World
// tick: each drone ends its own episode on its own crash/respawn tick,
// so every tracker here is keyed by drone index rather than tracking one
// global timestep stream.
package stats

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/stat"
)

// ReturnTracker accumulates, per drone, the reward earned since that
// drone's last episode boundary (crash/respawn), and archives the total
// whenever dones[i] is true.
type ReturnTracker struct {
	current []float64
	returns [][]float64 // returns[i] is drone i's closed-episode returns, in order
}

// NewReturnTracker returns a tracker sized for d drones.
func NewReturnTracker(d int) *ReturnTracker {
	return &ReturnTracker{
		current: make([]float64, d+1),
		returns: make([][]float64, d+1),
	}
}

// Track folds one tick's (rewards, dones) into the running per-drone
// totals. rewards and dones are 0-indexed by drone id-1, matching
// world.World.Step's return shape; Track re-indexes internally to 1..D.
func (r *ReturnTracker) Track(rewards []float64, dones []bool) {
	for i := range rewards {
		idx := i + 1
		r.current[idx] += rewards[i]
		if dones[i] {
			r.returns[idx] = append(r.returns[idx], r.current[idx])
			r.current[idx] = 0
		}
	}
}

// Returns reports drone i's closed-episode returns so far.
func (r *ReturnTracker) Returns(i int) []float64 {
	return r.returns[i]
}

// Summary reports the mean and standard deviation of drone i's
// closed-episode returns.
func (r *ReturnTracker) Summary(i int) (mean, stddev float64) {
	data := r.returns[i]
	if len(data) == 0 {
		return 0, 0
	}
	mean = stat.Mean(data, nil)
	stddev = stat.StdDev(data, nil)
	return mean, stddev
}

// Save gob-encodes every drone's closed-episode returns to filename.
func (r *ReturnTracker) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("stats: creating %s: %w", filename, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(r.returns); err != nil {
		return fmt.Errorf("stats: encoding returns: %w", err)
	}
	return nil
}

// LengthTracker accumulates, per drone, the number of ticks since that
// drone's last episode boundary, archiving the length whenever dones[i]
// is true.
type LengthTracker struct {
	current []int
	lengths [][]int
}

// NewLengthTracker returns a tracker sized for d drones.
func NewLengthTracker(d int) *LengthTracker {
	return &LengthTracker{
		current: make([]int, d+1),
		lengths: make([][]int, d+1),
	}
}

// Track folds one tick's dones into the running per-drone episode
// lengths, 0-indexed the same way ReturnTracker.Track is.
func (l *LengthTracker) Track(dones []bool) {
	for i := range dones {
		idx := i + 1
		l.current[idx]++
		if dones[i] {
			l.lengths[idx] = append(l.lengths[idx], l.current[idx])
			l.current[idx] = 0
		}
	}
}

// Lengths reports drone i's closed episode lengths so far.
func (l *LengthTracker) Lengths(i int) []int {
	return l.lengths[i]
}

// Summary reports the mean and standard deviation of drone i's closed
// episode lengths.
func (l *LengthTracker) Summary(i int) (mean, stddev float64) {
	data := make([]float64, len(l.lengths[i]))
	for j, v := range l.lengths[i] {
		data[j] = float64(v)
	}
	if len(data) == 0 {
		return 0, 0
	}
	mean = stat.Mean(data, nil)
	stddev = stat.StdDev(data, nil)
	return mean, stddev
}

// Save gob-encodes every drone's closed episode lengths to filename.
func (l *LengthTracker) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("stats: creating %s: %w", filename, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(l.lengths); err != nil {
		return fmt.Errorf("stats: encoding lengths: %w", err)
	}
	return nil
}
