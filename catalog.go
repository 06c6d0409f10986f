package orrery

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/google/uuid"
)

// StarRecord is one catalog entry as delivered by the data producer.
// Magnitude, RA, Dec and ID are required; every other physical field is
// optional and must be treated as absent, never as zero, when nil.
type StarRecord struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`

	RA        float64 `json:"ra"`       // degrees
	Dec       float64 `json:"dec"`      // degrees
	Parallax  float64 `json:"parallax"` // mas; <=0 means unknown/distant
	Magnitude float64 `json:"magnitude"`

	BPMag      *float64 `json:"bp_mag,omitempty"`
	RPMag      *float64 `json:"rp_mag,omitempty"`
	ColorIndex *float64 `json:"color_index,omitempty"`

	Teff           *float64 `json:"teff,omitempty"` // K
	PMRA           *float64 `json:"pm_ra,omitempty"`
	PMDec          *float64 `json:"pm_dec,omitempty"`
	RadialVelocity *float64 `json:"radial_velocity,omitempty"`

	HasPlanets  bool `json:"has_planets,omitempty"`
	PlanetCount int  `json:"planet_count,omitempty"`
}

// EffectiveColorIndex prefers the catalog's own color index and falls back
// to blue-minus-red when both band magnitudes are present.
func (s *StarRecord) EffectiveColorIndex() *float64 {
	if s.ColorIndex != nil {
		return s.ColorIndex
	}
	if s.BPMag != nil && s.RPMag != nil {
		ci := *s.BPMag - *s.RPMag
		return &ci
	}
	return nil
}

func (s *StarRecord) valid() bool {
	return s.ID != "" && !math.IsNaN(s.Magnitude) && !math.IsInf(s.Magnitude, 0)
}

// DisplayName is the human-facing label: catalog name if present, id
// otherwise.
func (s *StarRecord) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

const jupiterRadiusInEarthRadii = 11.209

// PlanetRecord belongs to exactly one host star, linked by identifier or,
// failing that, by hostname substring or angular proximity.
type PlanetRecord struct {
	Name string `json:"name"`
	Host string `json:"host"`

	RadiusEarth   *float64 `json:"radius_earth,omitempty"`
	RadiusJupiter *float64 `json:"radius_jupiter,omitempty"`

	MassEarth     *float64 `json:"mass_earth,omitempty"`
	MassEarthBest *float64 `json:"mass_earth_best,omitempty"`

	SemiMajorAxisAU *float64 `json:"semi_major_axis_au,omitempty"`
	PeriodDays      *float64 `json:"period_days,omitempty"`
	Eccentricity    *float64 `json:"eccentricity,omitempty"`
	EqTemp          *float64 `json:"eq_temp,omitempty"` // K

	DiscoveryMethod   string `json:"discovery_method,omitempty"`
	DiscoveryYear     int    `json:"discovery_year,omitempty"`
	DiscoveryFacility string `json:"discovery_facility,omitempty"`

	// HostRA/HostDec enable the proximity fallback when Host does not
	// resolve to a catalog identifier or name.
	HostRA  *float64 `json:"host_ra,omitempty"`
	HostDec *float64 `json:"host_dec,omitempty"`
}

// BestMassEarth prefers the best-estimate mass over the direct field when
// both exist.
func (p *PlanetRecord) BestMassEarth() *float64 {
	if p.MassEarthBest != nil {
		return p.MassEarthBest
	}
	return p.MassEarth
}

// EffectiveRadiusEarth normalizes the radius to Earth radii, converting
// from Jupiter radii when that is the only measurement.
func (p *PlanetRecord) EffectiveRadiusEarth() *float64 {
	if p.RadiusEarth != nil {
		return p.RadiusEarth
	}
	if p.RadiusJupiter != nil {
		r := *p.RadiusJupiter * jupiterRadiusInEarthRadii
		return &r
	}
	return nil
}

// Habitable applies the equilibrium-temperature and radius windows; a
// planet missing either quantity is never flagged habitable.
func (p *PlanetRecord) Habitable() bool {
	r := p.EffectiveRadiusEarth()
	if p.EqTemp == nil || r == nil {
		return false
	}
	return InHabitableZone(*p.EqTemp, *r)
}

// CatalogBatch is the immutable result of one load. LoadID tags log lines
// so interleaved loads (restarted app, changed path) stay attributable.
type CatalogBatch struct {
	LoadID  uuid.UUID
	Stars   []StarRecord
	Planets []PlanetRecord
}

// ResolvePlanets returns the planets hosted by the star, matched in order
// of preference: exact identifier/name, hostname substring, angular
// proximity within tolDeg. Zero matches is a normal outcome.
func (b *CatalogBatch) ResolvePlanets(star *StarRecord, tolDeg float64) []PlanetRecord {
	if star == nil {
		return nil
	}
	var out []PlanetRecord
	for i := range b.Planets {
		if planetMatchesHost(&b.Planets[i], star, tolDeg) {
			out = append(out, b.Planets[i])
		}
	}
	return out
}

func planetMatchesHost(p *PlanetRecord, star *StarRecord, tolDeg float64) bool {
	if p.Host != "" {
		if p.Host == star.ID {
			return true
		}
		if star.Name != "" {
			host := strings.ToLower(p.Host)
			name := strings.ToLower(star.Name)
			if strings.Contains(host, name) || strings.Contains(name, host) {
				return true
			}
		}
	}
	if p.HostRA != nil && p.HostDec != nil {
		return angularSeparationDeg(*p.HostRA, *p.HostDec, star.RA, star.Dec) <= tolDeg
	}
	return false
}

// angularSeparationDeg is the small-angle separation between two sky
// positions; exact great-circle math is overkill at 0.01° tolerances.
func angularSeparationDeg(ra1, dec1, ra2, dec2 float64) float64 {
	dRA := (ra1 - ra2) * math.Cos(dec2*math.Pi/180)
	dDec := dec1 - dec2
	return math.Hypot(dRA, dDec)
}

// CatalogResult is the one-shot outcome of an asynchronous load.
type CatalogResult struct {
	Batch *CatalogBatch
	Err   error
}

// LoadCatalog reads star and planet JSON files into an immutable batch.
// Records missing required fields are dropped (counted, not fatal); a
// missing planet file yields a batch with stars only. The context is
// honored between parse steps. The caller decides what an error means;
// the loader itself never retries.
func LoadCatalog(ctx context.Context, starPath, planetPath string, log Logger) (*CatalogBatch, error) {
	if log == nil {
		log = NewNopLogger()
	}
	batch := &CatalogBatch{LoadID: uuid.New()}

	stars, err := readJSONFile[StarRecord](starPath)
	if err != nil {
		return nil, fmt.Errorf("star catalog: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dropped := 0
	batch.Stars = make([]StarRecord, 0, len(stars))
	for i := range stars {
		if !stars[i].valid() {
			dropped++
			continue
		}
		batch.Stars = append(batch.Stars, stars[i])
	}
	if dropped > 0 {
		log.Warnf("catalog %s: dropped %d star records with missing required fields", batch.LoadID, dropped)
	}

	if planetPath != "" {
		planets, err := readJSONFile[PlanetRecord](planetPath)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warnf("catalog %s: no planet catalog at %s", batch.LoadID, planetPath)
			} else {
				return nil, fmt.Errorf("planet catalog: %w", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch.Planets = planets
	}

	log.Infof("catalog %s: loaded %d stars, %d planets", batch.LoadID, len(batch.Stars), len(batch.Planets))
	return batch, nil
}

func readJSONFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// CatalogState is the always-present resource other systems read. Batch
// stays nil while the load is pending or failed, which renders as an
// empty galaxy rather than partial geometry.
type CatalogState struct {
	Batch *CatalogBatch
	Err   error

	// Cloud is derived from Batch exactly once per load.
	Cloud        *StarPointCloud
	CloudVersion uint64

	pending <-chan CatalogResult
}

// Loaded reports whether a usable batch is available.
func (c *CatalogState) Loaded() bool {
	return c.Batch != nil && c.Cloud != nil
}

// CatalogModule starts the one-shot background load at install time and
// adopts the result on the main thread when it arrives.
type CatalogModule struct {
	Ctx context.Context
}

func (m CatalogModule) Install(app *App, cmd *Commands) {
	ctx := m.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	state := &CatalogState{}
	cmd.AddResources(state)

	cfg := resource[Config](app)
	log := resource[Log](app)

	ch := make(chan CatalogResult, 1)
	state.pending = ch
	go func() {
		batch, err := LoadCatalog(ctx, cfg.StarCatalogPath, cfg.PlanetCatalogPath, log.Logger)
		ch <- CatalogResult{Batch: batch, Err: err}
	}()

	app.UseSystem(System(catalogAdoptSystem).InStage(Prelude).RunAlways())
}

// catalogAdoptSystem polls the pending load without blocking the frame.
func catalogAdoptSystem(state *CatalogState, log *Log) {
	if state.pending == nil {
		return
	}
	select {
	case res := <-state.pending:
		state.pending = nil
		if res.Err != nil {
			state.Err = res.Err
			log.Errorf("catalog load failed, rendering empty galaxy: %v", res.Err)
			return
		}
		state.Batch = res.Batch
		state.Cloud = BuildStarPointCloud(res.Batch.Stars, log.Logger)
		state.CloudVersion++
	default:
	}
}
