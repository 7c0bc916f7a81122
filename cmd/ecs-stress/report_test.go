package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	empty := Stats{}
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestRunStress(t *testing.T) {
	report, err := runStress(zerolog.Nop(), stressOptions{
		Duration:      20 * time.Millisecond,
		Entities:      200,
		RegenFraction: 1,
		WithReport:    true,
		Seed:          7,
	})
	require.NoError(t, err)

	assert.Equal(t, 200, report.Entities)
	assert.Equal(t, 200, report.Regenerating)
	assert.Equal(t, 2, report.Systems)
	assert.Greater(t, report.TotalUpdates, int64(0))
	assert.Equal(t, 200, report.Health.Count)
	assert.GreaterOrEqual(t, report.Health.Max, report.Health.Mean)
	assert.LessOrEqual(t, report.Health.Min, report.Health.Mean)

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "# ECS Stress Test Report")
	assert.Contains(t, out.String(), "**Regenerating Entities:** 200")
	assert.Contains(t, out.String(), "**RegenerationSystem:**")
	assert.Contains(t, out.String(), "**ReportSystem:**")
	assert.NotContains(t, out.String(), "GC Pause")
}
