// Command healthregen spawns two entities, one of them regenerating health,
// and prints every health value once per tick until it is terminated.
//
// Settings come from HEALTHREGEN_* environment variables, see internal/config.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/plus3/healthregen/ecs"
	"github.com/plus3/healthregen/ecs/debugui"
	ebitendriver "github.com/plus3/healthregen/ecs/debugui/ebiten"
	"github.com/plus3/healthregen/health"
	"github.com/plus3/healthregen/internal/config"
	"github.com/plus3/healthregen/internal/logging"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(zerolog.New(os.Stderr), err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.PrettyLog)
	if err != nil {
		fatal(zerolog.New(os.Stderr), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		stop()
		fatal(logger, err)
	}
}

func fatal(logger zerolog.Logger, err error) {
	logger.Error().Str("trace", eris.ToString(err, true)).Msg("healthregen failed")
	os.Exit(1)
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	registry := ecs.NewComponentRegistry()
	health.RegisterComponents(registry)
	debugui.RegisterComponents(registry)

	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage, ecs.WithLogger(logger))
	health.Install(scheduler, os.Stdout)

	logger.Info().
		Dur("tick_interval", cfg.TickInterval).
		Uint64("max_ticks", cfg.MaxTicks).
		Bool("window", cfg.Window).
		Msg("starting")

	if cfg.Window {
		debugui.Install(scheduler)
		spawnHealthInspector(storage)

		return ebitendriver.Run(ctx, scheduler, ebitendriver.WindowOptions{
			Title:    "healthregen",
			Width:    640,
			Height:   480,
			MaxTicks: cfg.MaxTicks,
		})
	}

	return runHeadless(ctx, scheduler, cfg)
}

// runHeadless ticks the scheduler from a wall-clock ticker until ctx ends or
// cfg.MaxTicks ticks have run.
func runHeadless(ctx context.Context, scheduler *ecs.Scheduler, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.MaxTicks > 0 {
		scheduler.Register(&tickLimit{max: cfg.MaxTicks, stop: cancel})
	}

	return scheduler.Run(ctx, cfg.TickInterval)
}

// tickLimit cancels the run once the clock reaches max ticks.
type tickLimit struct {
	Clock ecs.Singleton[ecs.Time]

	max  uint64
	stop context.CancelFunc
}

func (t *tickLimit) Execute(frame *ecs.UpdateFrame) {
	if t.Clock.Get().Tick >= t.max {
		frame.Logger.Info().Uint64("tick", t.max).Msg("tick limit reached")
		t.stop()
	}
}
