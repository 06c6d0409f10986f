package orrery

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config carries the tunable visualization constants. Everything has a
// default, so running without a config file is the normal case. The
// astrometric conversion constants (distance clamps, size response) live
// in transform.go as compile-time constants and are not negotiated here.
type Config struct {
	WindowWidth  int    `mapstructure:"window_width"`
	WindowHeight int    `mapstructure:"window_height"`
	WindowTitle  string `mapstructure:"window_title"`

	StarCatalogPath   string `mapstructure:"star_catalog"`
	PlanetCatalogPath string `mapstructure:"planet_catalog"`

	// PickRadius is the world-space distance from the pointer ray within
	// which a star counts as hovered.
	PickRadius float32 `mapstructure:"pick_radius"`

	// SystemDisplayRadius is the scene radius the outermost orbit of a
	// selected system is scaled to fit.
	SystemDisplayRadius float32 `mapstructure:"system_display_radius"`

	// AUScale is the fallback AU-to-scene factor used when a system has
	// no usable semi-major axis to derive a fit from.
	AUScale float32 `mapstructure:"au_scale"`

	// HostMatchToleranceDeg bounds the angular-proximity fallback when
	// linking planets to hosts without an identifier match.
	HostMatchToleranceDeg float64 `mapstructure:"host_match_tolerance_deg"`

	CameraFovDeg    float32 `mapstructure:"camera_fov_deg"`
	GalaxyCamRadius float32 `mapstructure:"galaxy_cam_radius"`

	Debug bool `mapstructure:"debug"`
}

func defaultConfig() *Config {
	return &Config{
		WindowWidth:           1280,
		WindowHeight:          720,
		WindowTitle:           "Orrery",
		StarCatalogPath:       "data/stars.json",
		PlanetCatalogPath:     "data/planets.json",
		PickRadius:            2.5,
		SystemDisplayRadius:   40,
		AUScale:               10,
		HostMatchToleranceDeg: 0.01,
		CameraFovDeg:          60,
		GalaxyCamRadius:       260,
		Debug:                 false,
	}
}

// LoadConfig reads the optional config file at path (YAML/TOML/JSON, per
// extension). A missing file yields the defaults; a malformed one is an
// error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetDefault("window_width", cfg.WindowWidth)
	v.SetDefault("window_height", cfg.WindowHeight)
	v.SetDefault("window_title", cfg.WindowTitle)
	v.SetDefault("star_catalog", cfg.StarCatalogPath)
	v.SetDefault("planet_catalog", cfg.PlanetCatalogPath)
	v.SetDefault("pick_radius", cfg.PickRadius)
	v.SetDefault("system_display_radius", cfg.SystemDisplayRadius)
	v.SetDefault("au_scale", cfg.AUScale)
	v.SetDefault("host_match_tolerance_deg", cfg.HostMatchToleranceDeg)
	v.SetDefault("camera_fov_deg", cfg.CameraFovDeg)
	v.SetDefault("galaxy_cam_radius", cfg.GalaxyCamRadius)
	v.SetDefault("debug", cfg.Debug)

	v.SetEnvPrefix("orrery")
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.PickRadius <= 0 {
		return nil, fmt.Errorf("pick_radius must be positive, got %v", cfg.PickRadius)
	}
	if cfg.SystemDisplayRadius <= 0 {
		return nil, fmt.Errorf("system_display_radius must be positive, got %v", cfg.SystemDisplayRadius)
	}
	return cfg, nil
}

// ConfigModule exposes an already-loaded Config as a resource.
type ConfigModule struct {
	Config *Config
}

func (m ConfigModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	if cfg == nil {
		cfg = defaultConfig()
	}
	cmd.AddResources(cfg)
}
