package ecs

import "github.com/rs/zerolog"

// UpdateFrame is handed to every system for one scheduler pass.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
	Logger    zerolog.Logger
}

func newUpdateFrame(dt float64, storage *Storage, logger zerolog.Logger) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
		Logger:    logger,
	}
}
