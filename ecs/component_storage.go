package ecs

import (
	"reflect"
	"unsafe"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// componentColumn is a type-erased, append-only column of one component type.
type componentColumn interface {
	Append(item any) (int, bool)
	Get(index int) any
	Len() int
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentColumn
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentColumn),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() componentColumn {
		return &blockColumn[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentColumn {
	return r.factories[t]
}

const blockSize = 64

// blockColumn stores components of type T in fixed-size blocks so that
// pointers handed out by Get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks []*[blockSize]T
	count  int
}

// Append copies item (a T or *T) into the column and returns its index.
func (c *blockColumn[T]) Append(item any) (int, bool) {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		if v == nil {
			return -1, false
		}
		value = *v
	default:
		return -1, false
	}

	index := c.count
	if index/blockSize >= len(c.blocks) {
		c.blocks = append(c.blocks, new([blockSize]T))
	}
	c.blocks[index/blockSize][index%blockSize] = value
	c.count++
	return index, true
}

// Get returns a *T for the component at index, or nil when out of range.
func (c *blockColumn[T]) Get(index int) any {
	if index < 0 || index >= c.count {
		return nil
	}
	return &c.blocks[index/blockSize][index%blockSize]
}

func (c *blockColumn[T]) Len() int {
	return c.count
}
