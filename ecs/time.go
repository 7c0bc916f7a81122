package ecs

// Time is the scheduler clock, kept as a singleton in the Storage.
// Systems read it through a Singleton[Time] field.
type Time struct {
	// Delta is the elapsed simulated time of the current tick, in seconds.
	Delta float64
	// Elapsed is the sum of every Delta so far.
	Elapsed float64
	// Tick counts completed calls to Scheduler.Once, including the current one.
	Tick uint64
}

func (t *Time) advance(dt float64) {
	t.Delta = dt
	t.Elapsed += dt
	t.Tick++
}
