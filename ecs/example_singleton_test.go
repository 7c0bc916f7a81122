package ecs_test

import (
	"fmt"

	"github.com/plus3/healthregen/ecs"
)

type GameConfig struct {
	MaxPlayers int
	Difficulty string
}

type ScoreTracker struct {
	Points int
}

type ScoreSystem struct {
	Entities ecs.Query[struct{ *Transform }]
	Score    ecs.Singleton[ScoreTracker]
	Clock    ecs.Singleton[ecs.Time]
}

func (s *ScoreSystem) Execute(frame *ecs.UpdateFrame) {
	s.Score.Get().Points += s.Entities.Count() * 10
}

// ExampleNewSingleton demonstrates creating and accessing singleton components.
// Singletons are global values not associated with any entity, useful for
// configuration or other application-wide data.
func ExampleNewSingleton() {
	registry := ecs.NewComponentRegistry()
	storage := ecs.NewStorage(registry)

	config := ecs.NewSingleton[GameConfig](storage, GameConfig{
		MaxPlayers: 4,
		Difficulty: "Normal",
	})
	fmt.Printf("Config: %d players, %s difficulty\n", config.Get().MaxPlayers, config.Get().Difficulty)

	config.Get().Difficulty = "Hard"

	sameConfig := ecs.NewSingleton[GameConfig](storage)
	fmt.Printf("Same config: %s difficulty\n", sameConfig.Get().Difficulty)

	// Output:
	// Config: 4 players, Normal difficulty
	// Same config: Hard difficulty
}

// ExampleScheduler_withSingletons demonstrates Singleton fields on systems.
// They are bound by the Scheduler just like Query fields. The scheduler
// itself keeps the Time singleton up to date.
func ExampleScheduler_withSingletons() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton[ScoreTracker](storage)

	mustSpawn(storage, Transform{X: 0, Y: 0})
	mustSpawn(storage, Transform{X: 10, Y: 10})
	mustSpawn(storage, Transform{X: 20, Y: 20})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ScoreSystem{})

	for i := 0; i < 3; i++ {
		if err := scheduler.Once(0.016); err != nil {
			panic(err)
		}
	}

	var clock *ecs.Time
	storage.ReadSingleton(&clock)
	fmt.Printf("Ticks: %d, Time: %.3f\n", clock.Tick, clock.Elapsed)

	var score *ScoreTracker
	storage.ReadSingleton(&score)
	fmt.Printf("Score: %d points\n", score.Points)

	// Output:
	// Ticks: 3, Time: 0.048
	// Score: 90 points
}
