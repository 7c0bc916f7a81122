// Package health implements health regeneration on top of the ecs package:
// a Health component, an optional Regeneration rate, a system applying the
// rate every tick and a system printing every health value.
package health

import (
	"io"
	"math"
	"strconv"

	"github.com/plus3/healthregen/ecs"
)

// Health is the current hit points of an entity.
type Health struct {
	Current float32
}

// Regeneration is the amount of Health gained per second.
type Regeneration struct {
	Rate float32
}

// RegisterComponents registers every component type of this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Regeneration](registry)
}

// Install adds the health systems to scheduler: SpawnEntities at startup,
// then RegenerationSystem and ReportSystem, in that order, every tick.
// The report is written to out.
func Install(scheduler *ecs.Scheduler, out io.Writer) {
	scheduler.RegisterStartup(ecs.SystemFunc(SpawnEntities))
	scheduler.Register(&RegenerationSystem{})
	scheduler.Register(&ReportSystem{Out: out})
}

// NewScheduler builds a registry, storage and scheduler with the health
// components registered and the health systems installed.
func NewScheduler(out io.Writer, opts ...ecs.SchedulerOption) *ecs.Scheduler {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)

	scheduler := ecs.NewScheduler(ecs.NewStorage(registry), opts...)
	Install(scheduler, out)
	return scheduler
}

// SpawnEntities queues the two initial entities: one at full health
// without regeneration, one at half health regenerating one point per second.
func SpawnEntities(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Health{Current: 100})
	frame.Commands.Spawn(Health{Current: 50}, Regeneration{Rate: 1})
}

// FormatValue renders a health value in its shortest round-trip form,
// e.g. "100", "50.5", "inf".
func FormatValue(v float32) string {
	switch {
	case math.IsInf(float64(v), 1):
		return "inf"
	case math.IsInf(float64(v), -1):
		return "-inf"
	case math.IsNaN(float64(v)):
		return "NaN"
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
