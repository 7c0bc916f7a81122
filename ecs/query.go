package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// Query iterates every entity that has a specific combination of components.
//
// T must be a struct. Each pointer field names a component type: embedded
// pointer fields are always required, named pointer fields may be marked
// optional with the `ecs:"optional"` struct tag and are nil when missing.
// A field of type EntityId receives the id of the current entity.
//
//	ecs.Query[struct {
//		ecs.EntityId
//		*Health
//		Regen *Regeneration `ecs:"optional"`
//	}]
//
// The pointers alias the storage, so writing through them mutates components.
type Query[T any] struct {
	storage    *Storage
	layout     *queryLayout
	archetypes []*Archetype
	// seen is how many of storage.order have been matched against the layout.
	seen int
}

type queryField struct {
	offset   uintptr
	typ      reflect.Type
	optional bool
	entityId bool
}

type queryLayout struct {
	fields []queryField
}

// NewQuery creates a query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.bind(storage)
	return q
}

// bind is called by the Scheduler for Query fields during system registration.
func (q *Query[T]) bind(storage *Storage) {
	q.storage = storage
	q.layout = buildQueryLayout(reflect.TypeFor[T]())
	q.archetypes = nil
	q.seen = 0
}

func buildQueryLayout(structType reflect.Type) *queryLayout {
	if structType.Kind() != reflect.Struct {
		panic("Query type parameter must be a struct")
	}

	layout := &queryLayout{fields: make([]queryField, 0, structType.NumField())}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			layout.fields = append(layout.fields, queryField{offset: field.Offset, entityId: true})
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("Query struct fields must be pointer types or ecs.EntityId")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" {
			if field.Anonymous || tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" on named fields is supported)")
			}
			optional = true
		}

		layout.fields = append(layout.fields, queryField{
			offset:   field.Offset,
			typ:      field.Type.Elem(),
			optional: optional,
		})
	}
	return layout
}

func (l *queryLayout) matches(archetype *Archetype) bool {
	for _, f := range l.fields {
		if f.entityId || f.optional {
			continue
		}
		if !archetype.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

// columnIndices maps each field to the archetype column holding its component, or -1.
func (l *queryLayout) columnIndices(archetype *Archetype) []int {
	indices := make([]int, len(l.fields))
	for i, f := range l.fields {
		indices[i] = -1
		if !f.entityId {
			indices[i] = archetype.columnIndex(f.typ)
		}
	}
	return indices
}

func (l *queryLayout) populate(resultPtr unsafe.Pointer, archetype *Archetype, slot int, columns []int, id EntityId) {
	for i, f := range l.fields {
		fieldPtr := unsafe.Add(resultPtr, f.offset)

		if f.entityId {
			*(*EntityId)(fieldPtr) = id
			continue
		}

		if columns[i] == -1 {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		component := archetype.columns[columns[i]].Get(slot)
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}
}

// refresh matches archetypes created since the last call.
func (q *Query[T]) refresh() {
	if q.storage == nil {
		panic("Query used before it was bound to a Storage")
	}

	for _, archetype := range q.storage.order[q.seen:] {
		if q.layout.matches(archetype) {
			q.archetypes = append(q.archetypes, archetype)
		}
	}
	q.seen = len(q.storage.order)
}

type queryCursor struct {
	archetype *Archetype
	columns   []int
	slot      int
	end       int
}

// Iter returns an iterator over matching entities in the order they were spawned.
// Entities spawned while iterating are not visited.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		q.refresh()

		cursors := make([]queryCursor, 0, len(q.archetypes))
		for _, archetype := range q.archetypes {
			if archetype.Len() == 0 {
				continue
			}
			cursors = append(cursors, queryCursor{
				archetype: archetype,
				columns:   q.layout.columnIndices(archetype),
				end:       archetype.Len(),
			})
		}

		var result T
		resultPtr := unsafe.Pointer(&result)

		for {
			// Slots within an archetype are already in spawn order, so the
			// next entity is the lowest sequence number among cursor heads.
			next := -1
			var nextSeq uint64
			for i := range cursors {
				c := &cursors[i]
				if c.slot >= c.end {
					continue
				}
				if seq := c.archetype.seqs[c.slot]; next == -1 || seq < nextSeq {
					next, nextSeq = i, seq
				}
			}
			if next == -1 {
				return
			}

			c := &cursors[next]
			slot := c.slot
			c.slot++

			id := NewEntityId(c.archetype.id, uint32(slot))
			q.layout.populate(resultPtr, c.archetype, slot, c.columns, id)
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over the query structs only.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range q.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Count returns the number of entities the query currently matches.
func (q *Query[T]) Count() int {
	q.refresh()

	count := 0
	for _, archetype := range q.archetypes {
		count += archetype.Len()
	}
	return count
}

// Get returns the query struct for one entity, or nil if the entity lacks a required component.
func (q *Query[T]) Get(id EntityId) *T {
	q.refresh()

	archetype, ok := q.storage.archetypes.Get(id.ArchetypeId())
	if !ok || int(id.Index()) >= archetype.Len() || !q.layout.matches(archetype) {
		return nil
	}

	var result T
	q.layout.populate(unsafe.Pointer(&result), archetype, int(id.Index()), q.layout.columnIndices(archetype), id)
	return &result
}
