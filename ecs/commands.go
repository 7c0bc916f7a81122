package ecs

import "github.com/rotisserie/eris"

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This keeps the set of entities stable while systems iterate over it.
type Commands struct {
	spawns []spawnCommand
	defers []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Defer queues a function to run after all spawns have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.defers)
}

// Flush applies all queued commands to storage in the order they were queued and resets the buffer.
// A failed spawn does not stop the remaining commands; the first failure is returned.
func (c *Commands) Flush(storage *Storage) error {
	var firstErr error

	for i, cmd := range c.spawns {
		if _, err := storage.Spawn(cmd.components...); err != nil && firstErr == nil {
			firstErr = eris.Wrapf(err, "spawn command %d", i)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.defers = c.defers[:0]
	return firstErr
}
