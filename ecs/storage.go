package ecs

import (
	"reflect"
	"slices"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// Storage is the entity store: it owns every archetype, every component row
// and every singleton. Entities hold no back-references.
type Storage struct {
	archetypes *intmap.Map[uint32, *Archetype]
	// order lists archetypes in creation order.
	order      []*Archetype
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry
	nextSeq    uint64
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: intmap.New[uint32, *Archetype](16),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Spawn creates a new entity with the provided components.
// Components may be passed as values or as pointers to values; the storage keeps its own copy.
func (s *Storage) Spawn(components ...any) (EntityId, error) {
	if len(components) == 0 {
		return 0, ErrNoComponents
	}

	types, err := extractComponentTypes(components)
	if err != nil {
		return 0, err
	}

	for _, typ := range types {
		if !s.registry.Registered(typ) {
			return 0, eris.Wrapf(ErrUnregisteredComponent, "component type %s", typ)
		}
	}

	archetype := s.GetArchetypeByTypes(types)
	if archetype == nil {
		archetype = s.createArchetype(types)
	}

	seq := s.nextSeq
	s.nextSeq++

	slot := archetype.spawn(components, seq)
	return NewEntityId(archetype.id, slot), nil
}

func (s *Storage) createArchetype(types []reflect.Type) *Archetype {
	id := hashTypesToUint32(types)
	// Probe past hash collisions with a different type set.
	for {
		if _, taken := s.archetypes.Get(id); !taken {
			break
		}
		id++
	}

	archetype := newArchetype(id, types, s.registry)
	s.archetypes.Put(id, archetype)
	s.order = append(s.order, archetype)
	return archetype
}

// GetArchetype returns the archetype for the given component values (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types, err := extractComponentTypes(components)
	if err != nil {
		return nil
	}
	return s.GetArchetypeByTypes(types)
}

// GetArchetypeByTypes returns the archetype (if one exists) for a set of component types
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := slices.Clone(types)
	sort.Sort(byTypeName(sorted))

	id := hashTypesToUint32(sorted)
	for {
		archetype, ok := s.archetypes.Get(id)
		if !ok {
			return nil
		}
		if slices.Equal(archetype.types, sorted) {
			return archetype
		}
		id++
	}
}

// Archetypes returns every archetype in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

// Len returns the number of entities in the storage.
func (s *Storage) Len() int {
	return int(s.nextSeq)
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return nil
	}

	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok || int(id.Index()) >= archetype.Len() {
		return false
	}
	return archetype.HasComponent(compType)
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) ([]reflect.Type, error) {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		if comp == nil {
			return nil, eris.Wrap(ErrInvalidComponentKind, "nil component")
		}

		value := reflect.ValueOf(comp)
		if value.Kind() == reflect.Ptr && value.IsNil() {
			return nil, eris.Wrapf(ErrInvalidComponentKind, "nil %s", value.Type())
		}

		compType := componentType(comp)

		// Components can be structs or primitives (int, string, etc.)
		// But not pointers, maps, channels, or functions (those aren't value types)
		switch compType.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			return nil, eris.Wrapf(ErrInvalidComponentKind, "component type %s", compType)
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))

	for i := 1; i < len(types); i++ {
		if types[i] == types[i-1] {
			return nil, eris.Wrapf(ErrDuplicateComponent, "component type %s", types[i])
		}
	}
	return types, nil
}

// componentType returns the stored type of a component passed by value or by pointer
func componentType(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	return compType
}

// hashTypesToUint32 generates a uint32 hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		// Use the type's pointer as a unique identifier
		ptr := (*iface)(unsafe.Pointer(&t)).data
		val := uint32(uintptr(ptr))

		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uint64(uintptr(ptr)) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the T component of an entity, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
