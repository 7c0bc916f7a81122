// Command ecs-stress measures how fast the health systems tick over a large
// population of entities.
package main

import (
	"context"
	"flag"
	"io"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/healthregen/ecs"
	"github.com/plus3/healthregen/health"
	"github.com/plus3/healthregen/internal/logging"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	regenFraction := flag.Float64("regen-fraction", 0.5, "Fraction of entities that regenerate.")
	withReport := flag.Bool("with-report", false, "Also run the report system, writing to io.Discard.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	seed := flag.Uint64("seed", 1, "Random seed for the initial population.")
	flag.Parse()

	logger, err := logging.New(os.Stderr, "info", true)
	if err != nil {
		panic(err)
	}

	report, err := runStress(logger, stressOptions{
		Duration:       *duration,
		Entities:       *entityCount,
		RegenFraction:  *regenFraction,
		WithReport:     *withReport,
		GCPauseMetrics: *gcPauseMetrics,
		Seed:           *seed,
	})
	if err != nil {
		logger.Fatal().Str("trace", eris.ToString(err, true)).Msg("stress test failed")
	}

	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate report")
	}

	logger.Info().Msg("stress test complete")
}

type stressOptions struct {
	Duration       time.Duration
	Entities       int
	RegenFraction  float64
	WithReport     bool
	GCPauseMetrics bool
	Seed           uint64
}

func runStress(logger zerolog.Logger, opts stressOptions) (*Report, error) {
	logger.Info().Msg("starting ECS stress test")

	registry := ecs.NewComponentRegistry()
	health.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	scheduler := ecs.NewScheduler(storage, ecs.WithLogger(logger))
	scheduler.Register(&health.RegenerationSystem{})
	if opts.WithReport {
		scheduler.Register(&health.ReportSystem{Out: io.Discard})
	}

	logger.Info().Int("entities", opts.Entities).Msg("populating storage")
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	regenerating := 0
	for i := 0; i < opts.Entities; i++ {
		components := []any{health.Health{Current: float32(rng.IntN(100) + 1)}}
		if rng.Float64() < opts.RegenFraction {
			components = append(components, health.Regeneration{Rate: rng.Float32() * 5})
			regenerating++
		}
		if _, err := storage.Spawn(components...); err != nil {
			return nil, eris.Wrap(err, "populate storage")
		}
	}

	report := &Report{
		Duration:       opts.Duration,
		Entities:       opts.Entities,
		Regenerating:   regenerating,
		Systems:        scheduler.GetStats().SystemCount,
		GCPauseMetrics: opts.GCPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", opts.Duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(context.Background(), opts.Duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := scheduler.Once(deltaTime.Seconds()); err != nil {
				return nil, err
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.SystemStats = scheduler.GetStats().Systems
	report.Health = collectHealth(storage)

	logger.Info().Int64("updates", report.TotalUpdates).Msg("simulation finished")
	return report, nil
}

func collectHealth(storage *ecs.Storage) HealthSummary {
	query := ecs.NewQuery[struct{ *health.Health }](storage)

	var summary HealthSummary
	var total float64
	for item := range query.Values() {
		v := item.Health.Current
		if summary.Count == 0 || v < summary.Min {
			summary.Min = v
		}
		if summary.Count == 0 || v > summary.Max {
			summary.Max = v
		}
		total += float64(v)
		summary.Count++
	}
	if summary.Count > 0 {
		summary.Mean = float32(total / float64(summary.Count))
	}
	return summary
}
