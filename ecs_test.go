package orrery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPos struct{ X, Y float32 }
type testVel struct{ Dx, Dy float32 }
type testTag struct{ Name string }

func TestEcsInsertAndQuery(t *testing.T) {
	ecs := MakeEcs()

	e1 := ecs.nextEntityId()
	ecs.insertEntity(e1, testPos{1, 2}, testVel{3, 4})
	e2 := ecs.nextEntityId()
	ecs.insertEntity(e2, testPos{5, 6})

	app := &App{ecs: &ecs}
	cmd := app.Commands()

	seen := map[EntityId]testPos{}
	MakeQuery1[testPos](cmd).Map(func(eid EntityId, p *testPos) bool {
		seen[eid] = *p
		return true
	})
	require.Len(t, seen, 2)
	assert.Equal(t, testPos{1, 2}, seen[e1])
	assert.Equal(t, testPos{5, 6}, seen[e2])

	// Query2 only matches the archetype holding both components.
	count := 0
	MakeQuery2[testPos, testVel](cmd).Map(func(eid EntityId, p *testPos, v *testVel) bool {
		count++
		assert.Equal(t, e1, eid)
		return true
	})
	assert.Equal(t, 1, count)
}

func TestEcsQueryMutatesInPlace(t *testing.T) {
	ecs := MakeEcs()
	e := ecs.nextEntityId()
	ecs.insertEntity(e, testPos{1, 1})

	app := &App{ecs: &ecs}
	cmd := app.Commands()

	MakeQuery1[testPos](cmd).Map(func(eid EntityId, p *testPos) bool {
		p.X = 42
		return true
	})
	MakeQuery1[testPos](cmd).Map(func(eid EntityId, p *testPos) bool {
		assert.Equal(t, float32(42), p.X)
		return true
	})
}

func TestEcsRemoveEntity(t *testing.T) {
	ecs := MakeEcs()
	e1 := ecs.nextEntityId()
	ecs.insertEntity(e1, testPos{1, 1})
	e2 := ecs.nextEntityId()
	ecs.insertEntity(e2, testPos{2, 2})

	ecs.removeEntity(e1)

	app := &App{ecs: &ecs}
	count := 0
	MakeQuery1[testPos](app.Commands()).Map(func(eid EntityId, p *testPos) bool {
		count++
		assert.Equal(t, e2, eid)
		return true
	})
	assert.Equal(t, 1, count)
}

func TestEcsAddComponentsMovesArchetype(t *testing.T) {
	ecs := MakeEcs()
	e := ecs.nextEntityId()
	ecs.insertEntity(e, testPos{7, 8})

	ecs.addComponents(e, testVel{1, 1})

	app := &App{ecs: &ecs}
	found := false
	MakeQuery2[testPos, testVel](app.Commands()).Map(func(eid EntityId, p *testPos, v *testVel) bool {
		found = true
		// Existing component data survives the archetype move.
		assert.Equal(t, testPos{7, 8}, *p)
		return true
	})
	assert.True(t, found)
}

func TestEcsRemoveComponents(t *testing.T) {
	ecs := MakeEcs()
	e := ecs.nextEntityId()
	ecs.insertEntity(e, testPos{1, 2}, testVel{3, 4}, testTag{"x"})

	ecs.removeComponents(e, testVel{})

	app := &App{ecs: &ecs}
	cmd := app.Commands()

	both := 0
	MakeQuery2[testPos, testVel](cmd).Map(func(EntityId, *testPos, *testVel) bool {
		both++
		return true
	})
	assert.Zero(t, both)

	kept := 0
	MakeQuery2[testPos, testTag](cmd).Map(func(eid EntityId, p *testPos, tag *testTag) bool {
		kept++
		assert.Equal(t, testPos{1, 2}, *p)
		assert.Equal(t, "x", tag.Name)
		return true
	})
	assert.Equal(t, 1, kept)
}

func TestEcsRowRecycling(t *testing.T) {
	ecs := MakeEcs()
	e1 := ecs.nextEntityId()
	ecs.insertEntity(e1, testPos{1, 1})
	ecs.removeEntity(e1)

	// A new entity of the same shape reuses the vacated row without
	// disturbing others.
	e2 := ecs.nextEntityId()
	ecs.insertEntity(e2, testPos{9, 9})

	app := &App{ecs: &ecs}
	count := 0
	MakeQuery1[testPos](app.Commands()).Map(func(eid EntityId, p *testPos) bool {
		count++
		assert.Equal(t, e2, eid)
		assert.Equal(t, testPos{9, 9}, *p)
		return true
	})
	assert.Equal(t, 1, count)
}
