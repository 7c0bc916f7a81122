package ecs

import (
	"fmt"
	"reflect"
	"slices"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity that has exactly one unique combination of component types.
// Slots are append-only, so slot order is spawn order within the archetype.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []componentColumn
	// seqs[i] is the storage-wide spawn sequence number of slot i.
	seqs []uint64
}

// newArchetype creates an archetype for the given sorted component types.
// Every type must already be registered.
func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]componentColumn, len(types)),
	}

	for idx, typ := range types {
		a.columns[idx] = registry.getFactory(typ)()
	}

	return a
}

// spawn appends the components (already matched 1:1 with a.types) and returns the new slot.
func (a *Archetype) spawn(components []any, seq uint64) uint32 {
	slot := len(a.seqs)
	for _, comp := range components {
		compType := componentType(comp)
		idx := a.columnIndex(compType)
		if idx == -1 {
			panic(fmt.Sprintf("ecs: archetype %d has no column for %s", a.id, compType))
		}
		if _, ok := a.columns[idx].Append(comp); !ok {
			panic(fmt.Sprintf("ecs: cannot append %T to the %s column of archetype %d", comp, compType, a.id))
		}
	}
	a.seqs = append(a.seqs, seq)
	return uint32(slot)
}

func (a *Archetype) columnIndex(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// GetComponent returns a pointer to the component of the given type for the entity in slot,
// or nil if this archetype does not carry that type.
func (a *Archetype) GetComponent(slot uint32, compType reflect.Type) any {
	idx := a.columnIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.columns[idx].Get(int(slot))
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of entities in this archetype
func (a *Archetype) Len() int {
	return len(a.seqs)
}

// Iter returns an iterator over all EntityIds in this archetype in spawn order
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		for slot := range a.seqs {
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}
