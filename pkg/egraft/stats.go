package egraft

import "time"

// IterStats snapshots one Runner iteration, per spec §6's Result object.
// Grounded on the teacher's duration-recording idiom (internal/timing.go's
// Timer), trimmed to single-threaded use: no atomics, no parent/child
// timer hierarchy, since this engine has exactly one caller.
type IterStats struct {
	AppliedPerRule map[string]int
	NNodes         int
	NClasses       int
	Elapsed        time.Duration
}
