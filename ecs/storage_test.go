package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/healthregen/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test EntityId encoding/decoding
func TestEntityIdEncoding(t *testing.T) {
	archetypeId := uint32(12345)
	index := uint32(67890)

	entityId := ecs.NewEntityId(archetypeId, index)

	assert.Equal(t, archetypeId, entityId.ArchetypeId())
	assert.Equal(t, index, entityId.Index())
}

func TestEntityIdEdgeCases(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			entityId := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, entityId.ArchetypeId())
			assert.Equal(t, tt.index, entityId.Index())
		})
	}
}

func TestSpawnEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id, err := storage.Spawn(&Position{X: 1.0, Y: 2.0}, &Velocity{DX: 0.5, DY: 0.5}, Score(32))
	require.NoError(t, err)

	assert.Equal(t, uint32(0), id.Index())
	assert.Equal(t, 1, storage.Len())
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Score]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Health]()))
}

func TestSpawnSameArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := mustSpawn(storage, Position{X: 1}, Velocity{DX: 1})
	// Argument order does not change the archetype.
	second := mustSpawn(storage, Velocity{DX: 2}, Position{X: 2})

	assert.Equal(t, first.ArchetypeId(), second.ArchetypeId())
	assert.Equal(t, uint32(1), second.Index())
	assert.Len(t, storage.Archetypes(), 1)
	assert.Equal(t, 2, storage.GetArchetype(Position{}, Velocity{}).Len())
}

func TestSpawnErrors(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	tests := []struct {
		name       string
		components []any
		want       error
	}{
		{"no components", nil, ecs.ErrNoComponents},
		{"duplicate", []any{Position{}, &Position{}}, ecs.ErrDuplicateComponent},
		{"unregistered", []any{Position{}, 3.5}, ecs.ErrUnregisteredComponent},
		{"map", []any{map[string]int{}}, ecs.ErrInvalidComponentKind},
		{"func", []any{func() {}}, ecs.ErrInvalidComponentKind},
		{"nil pointer", []any{(*Position)(nil)}, ecs.ErrInvalidComponentKind},
		{"nil", []any{nil}, ecs.ErrInvalidComponentKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.Spawn(tt.components...)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.want), "got %v", err)
		})
	}

	assert.Equal(t, 0, storage.Len())
	assert.Empty(t, storage.Archetypes())
}

func TestGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := mustSpawn(storage, &Position{X: 3.0, Y: 4.0}, Name{Value: "Test Entity"})

	posComp := storage.GetComponent(id, reflect.TypeOf(Position{}))
	require.NotNil(t, posComp)
	pos := posComp.(*Position)
	assert.Equal(t, float32(3.0), pos.X)
	assert.Equal(t, float32(4.0), pos.Y)

	name := ecs.ReadComponent[Name](storage, id)
	require.NotNil(t, name)
	assert.Equal(t, "Test Entity", name.Value)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeOf(Velocity{})))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.Nil(t, storage.GetComponent(ecs.NewEntityId(0xDEAD, 0), reflect.TypeOf(Position{})))
}

func TestComponentMutationPersists(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	original := &Position{X: 1, Y: 1}
	id := mustSpawn(storage, original)

	// Storage owns a copy.
	original.X = 99
	pos := ecs.ReadComponent[Position](storage, id)
	assert.Equal(t, float32(1), pos.X)

	pos.X = 42
	assert.Equal(t, float32(42), ecs.ReadComponent[Position](storage, id).X)
}

func TestPointersStableAcrossGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := mustSpawn(storage, Score(1))
	first := ecs.ReadComponent[Score](storage, id)

	for i := 0; i < 500; i++ {
		mustSpawn(storage, Score(i))
	}

	*first = 7
	assert.Equal(t, Score(7), *ecs.ReadComponent[Score](storage, id))
	assert.Equal(t, 501, storage.Len())
}

func TestPrimitiveComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := mustSpawn(storage, int32(5), "label", Tag("t"))

	assert.Equal(t, int32(5), *ecs.ReadComponent[int32](storage, id))
	assert.Equal(t, "label", *ecs.ReadComponent[string](storage, id))
	assert.Equal(t, Tag("t"), *ecs.ReadComponent[Tag](storage, id))
}

func TestArchetypesInCreationOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	mustSpawn(storage, Health{Current: 1})
	mustSpawn(storage, Health{Current: 2}, Name{Value: "b"})
	mustSpawn(storage, Health{Current: 3})

	archetypes := storage.Archetypes()
	require.Len(t, archetypes, 2)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[Health]()}, archetypes[0].Types())
	assert.Equal(t, 2, archetypes[0].Len())
	assert.Equal(t, 1, archetypes[1].Len())

	var ids []ecs.EntityId
	for id := range archetypes[0].Iter() {
		ids = append(ids, id)
	}
	assert.Equal(t, []ecs.EntityId{
		ecs.NewEntityId(archetypes[0].ID(), 0),
		ecs.NewEntityId(archetypes[0].ID(), 1),
	}, ids)
}
