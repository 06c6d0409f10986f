package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orrery3d/orrery"
)

func main() {
	configPath := flag.String("config", "orrery.yaml", "path to the config file (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := orrery.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orrery: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}

	logger := orrery.NewZeroLogger("orrery", cfg.Debug)

	app := orrery.NewAppBuilder().
		UseStates(orrery.StateGalaxy, orrery.StateQuit).
		UseModule(
			orrery.LoggingModule{Logger: logger},
			orrery.ConfigModule{Config: cfg},
			orrery.WindowModule{Width: cfg.WindowWidth, Height: cfg.WindowHeight, Title: cfg.WindowTitle},
			orrery.InputModule{},
			orrery.TimeModule{},
			orrery.CatalogModule{},
			orrery.OrbitCameraModule{},
			orrery.ViewModeModule{
				Handlers: orrery.SelectionHandlers{
					OnStarSelected: func(star *orrery.StarRecord) {
						logger.Infof("selected star %s", star.DisplayName())
					},
					OnPlanetSelected: func(planet *orrery.PlanetRecord) {
						logger.Infof("selected planet %s", planet.Name)
					},
					OnReturnToGalaxy: func() {
						logger.Infof("returned to galaxy view")
					},
				},
			},
			orrery.SystemViewModule{},
			orrery.PickingModule{},
			orrery.StarfieldModule{},
			orrery.LabelsModule{},
		).
		Build()

	app.Run()
}
