package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Startup        bool
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type registeredSystem struct {
	name   string
	system System
	logger zerolog.Logger
	stats  *systemStatsInternal
}

// binder is implemented by Query and Singleton so the scheduler can attach them to its storage.
type binder interface {
	bind(storage *Storage)
}

// Scheduler holds an ordered list of startup systems, run once, and an
// ordered list of update systems, run once per tick. Structural changes
// queued on the frame's Commands are applied after every system has run.
type Scheduler struct {
	storage *Storage
	logger  zerolog.Logger
	startup []*registeredSystem
	systems []*registeredSystem
	started bool
	clock   *Singleton[Time]
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the logger handed to systems through UpdateFrame.Logger.
func WithLogger(logger zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a new scheduler for the given storage.
// It adds a Time singleton to the storage if one is not already present.
func NewScheduler(storage *Storage, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		storage: storage,
		logger:  zerolog.Nop(),
		clock:   NewSingleton[Time](storage),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Storage returns the storage the scheduler runs against.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// RegisterStartup adds a system that runs once, in registration order, when Startup is called.
func (s *Scheduler) RegisterStartup(system System) {
	s.startup = append(s.startup, s.prepare(system))
}

// Register adds a per-tick system to the scheduler and binds its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, s.prepare(system))
}

func (s *Scheduler) prepare(system System) *registeredSystem {
	s.bindFields(system)

	name := systemName(system)
	s.logger.Debug().Str("system", name).Msg("registered system")

	return &registeredSystem{
		name:   name,
		system: system,
		logger: s.logger.With().Str("system", name).Logger(),
		stats:  &systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
	}
}

func (s *Scheduler) bindFields(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		if b, ok := field.Addr().Interface().(binder); ok {
			b.bind(s.storage)
		}
	}
}

// Startup runs every startup system once with a zero delta and applies their commands.
func (s *Scheduler) Startup() error {
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	frame := newUpdateFrame(0, s.storage, s.logger)
	s.runAll(s.startup, frame)

	if err := frame.Commands.Flush(s.storage); err != nil {
		return eris.Wrap(err, "startup commands")
	}

	s.logger.Info().
		Int("entities", s.storage.Len()).
		Int("archetypes", len(s.storage.order)).
		Msg("startup complete")
	return nil
}

// Started reports whether Startup has run.
func (s *Scheduler) Started() bool {
	return s.started
}

// Once executes all registered systems once with the given delta time in seconds.
// A negative delta is treated as zero.
func (s *Scheduler) Once(dt float64) error {
	if dt < 0 {
		dt = 0
	}

	clock := s.clock.Get()
	clock.advance(dt)

	frame := newUpdateFrame(dt, s.storage, s.logger)
	s.runAll(s.systems, frame)

	if err := frame.Commands.Flush(s.storage); err != nil {
		return eris.Wrapf(err, "tick %d commands", clock.Tick)
	}
	return nil
}

func (s *Scheduler) runAll(systems []*registeredSystem, frame *UpdateFrame) {
	for _, rs := range systems {
		frame.Logger = rs.logger

		start := time.Now()
		rs.system.Execute(frame)
		rs.stats.record(time.Since(start))
	}
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
// Startup runs first if it has not already. An interval <= 0 ticks as fast as possible.
// Run returns nil when the context ends, or the first error from Startup or Once.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if !s.started {
		if err := s.Startup(); err != nil {
			return err
		}
	}

	lastTime := time.Now()
	tick := func(now time.Time) error {
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		return s.Once(dt)
	}

	if interval <= 0 {
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
				if err := tick(time.Now()); err != nil {
					return err
				}
			}
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			// A tick can be buffered when the previous one overran the interval.
			if ctx.Err() != nil {
				return nil
			}
			if err := tick(now); err != nil {
				return err
			}
		}
	}
}

// GetStats returns statistics about system execution, startup systems first.
func (s *Scheduler) GetStats() *SchedulerStats {
	all := make([]*registeredSystem, 0, len(s.startup)+len(s.systems))
	all = append(all, s.startup...)
	all = append(all, s.systems...)

	stats := &SchedulerStats{
		SystemCount: len(all),
		Systems:     make([]SystemStats, len(all)),
	}

	var totalExecs int64
	for i, rs := range all {
		internal := rs.stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           rs.name,
			Startup:        i < len(s.startup),
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
