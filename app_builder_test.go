package orrery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterResource struct{ Frames int }

type countingModule struct{}

func (m countingModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&counterResource{})
	app.UseSystem(System(func(c *counterResource, cmd *Commands) {
		c.Frames++
		if c.Frames >= 3 {
			cmd.Quit()
		}
	}).InStage(Update).RunAlways())
}

func TestBuilderRunsStatelessSystemsUntilQuit(t *testing.T) {
	app := NewAppBuilder().
		UseModule(countingModule{}).
		Build()
	app.Run()

	counter := resource[counterResource](app)
	assert.Equal(t, 3, counter.Frames)
}

type phaseLog struct{ Events []string }

type phaseModule struct{}

func (m phaseModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&phaseLog{})

	app.UseSystem(System(func(l *phaseLog) {
		l.Events = append(l.Events, "galaxy:enter")
	}).InStage(Update).InState(OnEnter(StateGalaxy)))

	app.UseSystem(System(func(l *phaseLog, cmd *Commands) {
		l.Events = append(l.Events, "galaxy:execute")
		cmd.ChangeState(StateSystem)
	}).InStage(Update).InState(OnExecute(StateGalaxy)))

	app.UseSystem(System(func(l *phaseLog) {
		l.Events = append(l.Events, "galaxy:exit")
	}).InStage(Update).InState(OnExit(StateGalaxy)))

	app.UseSystem(System(func(l *phaseLog) {
		l.Events = append(l.Events, "system:enter")
	}).InStage(Update).InState(OnEnter(StateSystem)))

	app.UseSystem(System(func(l *phaseLog, cmd *Commands) {
		l.Events = append(l.Events, "system:execute")
		cmd.ChangeState(StateQuit)
	}).InStage(Update).InState(OnExecute(StateSystem)))
}

func TestStatePhasesRunInOrder(t *testing.T) {
	app := NewAppBuilder().
		UseStates(StateGalaxy, StateQuit).
		UseModule(phaseModule{}).
		Build()
	app.Run()

	log := resource[phaseLog](app)
	assert.Equal(t, []string{
		"galaxy:enter",
		"galaxy:execute",
		"galaxy:exit",
		"system:enter",
		"system:execute",
	}, log.Events)
}

func TestUseSystemUnknownStagePanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Bogus"}).RunAlways())
	})
}

func TestStatefulSystemInStatelessAppPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InStage(Update).InState(OnExecute(StateGalaxy)))
	})
}

func TestCallSystemInjectsResourcesAndCommands(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(&counterResource{Frames: 7})

	called := false
	app.callSystem(func(c *counterResource, cmd *Commands) {
		called = true
		assert.Equal(t, 7, c.Frames)
		require.NotNil(t, cmd)
	})
	assert.True(t, called)
}

func TestCallSystemMissingDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() {
		app.callSystem(func(c *counterResource) {})
	})
}

func TestDuplicateResourcePanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(&counterResource{})
	assert.Panics(t, func() {
		app.addResources(&counterResource{})
	})
}

func TestCommandsDeferEntityCreation(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()

	eid := cmd.AddEntity(testPos{1, 2})

	// Not visible until the flush at stage end.
	count := 0
	MakeQuery1[testPos](cmd).Map(func(EntityId, *testPos) bool { count++; return true })
	assert.Zero(t, count)

	app.FlushCommands()
	MakeQuery1[testPos](cmd).Map(func(got EntityId, p *testPos) bool {
		count++
		assert.Equal(t, eid, got)
		return true
	})
	assert.Equal(t, 1, count)
}
