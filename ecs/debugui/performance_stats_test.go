package debugui

import (
	"testing"

	"github.com/plus3/healthregen/ecs"
	"github.com/stretchr/testify/assert"
)

func TestPerformanceStatsHistory(t *testing.T) {
	ps := NewPerformanceStatsSystem(nil, 3)
	assert.Equal(t, float32(0), ps.AverageFrameTime())

	ps.Record(0.010)
	ps.Record(0.020)
	assert.InDelta(t, 15.0, ps.AverageFrameTime(), 1e-4)

	// The ring wraps and forgets the oldest sample.
	ps.Record(0.030)
	ps.Record(0.040)
	assert.InDelta(t, 30.0, ps.AverageFrameTime(), 1e-4)
	assert.Equal(t, 1, ps.frameIndex)
}

func TestPerformanceStatsClampsHistory(t *testing.T) {
	ps := NewPerformanceStatsSystem(nil, 0)
	ps.Record(0.5)
	assert.InDelta(t, 500.0, ps.AverageFrameTime(), 1e-3)
}

func TestInstallBindsSingletons(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	Install(scheduler)

	var input *ImguiInputState
	assert.True(t, storage.ReadSingleton(&input))
	assert.Equal(t, 2, scheduler.GetStats().SystemCount)
}
