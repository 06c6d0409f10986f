package orrery

import (
	"time"
)

type Time struct {
	Now time.Time
	// Dt is the previous frame duration in seconds.
	Dt float64
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{Now: time.Now()})
	app.UseSystem(System(timeSystem).InStage(Prelude).RunAlways())
}

func timeSystem(t *Time) {
	now := time.Now()
	t.Dt = now.Sub(t.Now).Seconds()
	t.Now = now
}
