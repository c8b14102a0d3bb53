package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/indebetouw/hyperion/dust"
	"github.com/indebetouw/hyperion/grid"
	"github.com/indebetouw/hyperion/source"
)

const ExampleSetupFile = `[model]
Name = example

# Exactly one grid section must be present. Wall coordinates are
# space-separated, in cm (angles in radians), strictly increasing, at
# least two per axis.
[cartesian]
XWalls = -1e17 -5e16 0 5e16 1e17
YWalls = -1e17 -5e16 0 5e16 1e17
ZWalls = -1e17 -5e16 0 5e16 1e17

# [spherical]
# RWalls     = 0 ...
# ThetaWalls = 0 ... 3.14159265
# PhiWalls   = 0 ... 6.28318531

# [cylindrical]
# WWalls / ZWalls / PhiWalls

# Any number of constant-density dust components. Array-valued fields and
# AMR grids are set up through the API, not through this file.
[density "envelope"]
Dust = kmh.dst
Value = 1e-18
# SublimationMode = fast
# SublimationTemperature = 1600
# MinimumTemperature = 10

# Any number of sources. A source takes either an explicit SpectrumFile
# (two columns: frequency in Hz, flux) or a blackbody Temperature in K;
# with neither, the local dust emissivity is used.
[pointsource "star"]
Luminosity = 3.846e33
Position = 0 0 0
Temperature = 5778

[sphericalsource "companion"]
Luminosity = 1e33
Position = 7e16 0 0
Radius = 2e11
LimbDarkening = true
Temperature = 4000

[config]
NInitial = 100000
NImaging = 100000
NInitialIterations = 5
Raytracing = true
NRaytracingSources = 100000
NRaytracingDust = 100000
OutputBytes = 8`

// Setup mirrors the INI model-description format read by LoadSetup.
type Setup struct {
	Model struct {
		Name string
	}

	Cartesian struct {
		XWalls, YWalls, ZWalls string
	}
	Spherical struct {
		RWalls, ThetaWalls, PhiWalls string
	}
	Cylindrical struct {
		WWalls, ZWalls, PhiWalls string
	}

	Density         map[string]*DensitySetup
	PointSource     map[string]*PointSourceSetup
	SphericalSource map[string]*SphericalSourceSetup

	Config ConfigSetup
}

// DensitySetup is a constant-density dust component.
type DensitySetup struct {
	Dust                   string
	Value                  float64
	SublimationMode        string
	SublimationTemperature float64
	MinimumTemperature     float64
	MinimumSpecificEnergy  float64
}

func (d *DensitySetup) checkInit(name string) error {
	if d.Dust == "" {
		return fmt.Errorf(
			"need to specify 'Dust' for density %q", name)
	}
	if d.Value <= 0 {
		return fmt.Errorf(
			"need to specify a positive 'Value' for density %q", name)
	}
	return nil
}

type PointSourceSetup struct {
	Luminosity   float64
	Position     string
	Temperature  float64
	SpectrumFile string
}

type SphericalSourceSetup struct {
	Luminosity    float64
	Position      string
	Radius        float64
	LimbDarkening bool
	Temperature   float64
	SpectrumFile  string
}

// ConfigSetup holds the [config] section. Zero photon counts are treated
// as unset, exactly as in Config.
type ConfigSetup struct {
	NInitial           int64
	NImaging           int64
	NImagingSources    int64
	NImagingDust       int64
	NRaytracingSources int64
	NRaytracingDust    int64
	NStats             int64

	NInitialIterations int
	Raytracing         bool
	Monochromatic      bool
	PDA                bool
	MRW                bool
	MRWGamma           float64
	MaxInteractions    int64
	KillOnAbsorb       bool
	OutputBytes        int
}

// LoadSetup reads an INI model description and builds the model it
// specifies. The model is not finalized; the caller may keep mutating it
// before writing.
func LoadSetup(fname string) (*Model, error) {
	setup := &Setup{}
	if err := gcfg.ReadFileInto(setup, fname); err != nil {
		return nil, err
	}
	return setup.Build()
}

// Build turns the parsed setup into a model.
func (s *Setup) Build() (*Model, error) {
	if s.Model.Name == "" {
		return nil, fmt.Errorf("need to specify 'Name' in the [model] section")
	}
	m := New(s.Model.Name)

	if err := s.buildGrid(m); err != nil {
		return nil, err
	}
	if err := s.buildDensities(m); err != nil {
		return nil, err
	}
	if err := s.buildSources(m); err != nil {
		return nil, err
	}
	return m, s.applyConfig(m)
}

func (s *Setup) buildGrid(m *Model) error {
	set := 0
	if s.Cartesian.XWalls != "" {
		set++
	}
	if s.Spherical.RWalls != "" {
		set++
	}
	if s.Cylindrical.WWalls != "" {
		set++
	}
	if set != 1 {
		return fmt.Errorf("need exactly one grid section, found %d", set)
	}

	switch {
	case s.Cartesian.XWalls != "":
		x, err := parseWalls("cartesian", "XWalls", s.Cartesian.XWalls)
		if err != nil {
			return err
		}
		y, err := parseWalls("cartesian", "YWalls", s.Cartesian.YWalls)
		if err != nil {
			return err
		}
		z, err := parseWalls("cartesian", "ZWalls", s.Cartesian.ZWalls)
		if err != nil {
			return err
		}
		return m.SetCartesianGrid(x, y, z)

	case s.Spherical.RWalls != "":
		r, err := parseWalls("spherical", "RWalls", s.Spherical.RWalls)
		if err != nil {
			return err
		}
		theta, err := parseWalls("spherical", "ThetaWalls", s.Spherical.ThetaWalls)
		if err != nil {
			return err
		}
		phi, err := parseWalls("spherical", "PhiWalls", s.Spherical.PhiWalls)
		if err != nil {
			return err
		}
		return m.SetSphericalPolarGrid(r, theta, phi)

	default:
		w, err := parseWalls("cylindrical", "WWalls", s.Cylindrical.WWalls)
		if err != nil {
			return err
		}
		z, err := parseWalls("cylindrical", "ZWalls", s.Cylindrical.ZWalls)
		if err != nil {
			return err
		}
		phi, err := parseWalls("cylindrical", "PhiWalls", s.Cylindrical.PhiWalls)
		if err != nil {
			return err
		}
		return m.SetCylindricalPolarGrid(w, z, phi)
	}
}

func (s *Setup) buildDensities(m *Model) error {
	for _, name := range sortedKeys(s.Density) {
		d := s.Density[name]
		if err := d.checkInit(name); err != nil {
			return err
		}

		shape := m.Grid.Shape()
		values := make([]float64, shape[0]*shape[1]*shape[2])
		for i := range values {
			values[i] = d.Value
		}
		a, err := grid.NewArray(shape, values)
		if err != nil {
			return err
		}

		ref := dust.NewReference(d.Dust)
		if d.SublimationMode != "" {
			err = ref.SetSublimation(
				d.SublimationMode, d.SublimationTemperature,
			)
			if err != nil {
				return err
			}
		}

		field, err := m.AddDensity(grid.Uniform(a), ref)
		if err != nil {
			return err
		}
		if d.MinimumTemperature != 0 {
			field.SetMinimumTemperature(d.MinimumTemperature)
		}
		if d.MinimumSpecificEnergy != 0 {
			field.SetMinimumSpecificEnergy(d.MinimumSpecificEnergy)
		}
	}
	return nil
}

func (s *Setup) buildSources(m *Model) error {
	for _, name := range sortedKeys(s.PointSource) {
		ps := s.PointSource[name]
		src := m.AddPointSource()
		src.Name = name
		src.Luminosity = ps.Luminosity
		if ps.Position != "" {
			pos, err := parsePosition(name, ps.Position)
			if err != nil {
				return err
			}
			src.Position = pos
		}
		err := applySpectrum(
			&src.Spectrum, name, ps.Temperature, ps.SpectrumFile,
		)
		if err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(s.SphericalSource) {
		ss := s.SphericalSource[name]
		src := m.AddSphericalSource()
		src.Name = name
		src.Luminosity = ss.Luminosity
		src.Radius = ss.Radius
		src.LimbDarkening = ss.LimbDarkening
		if ss.Position != "" {
			pos, err := parsePosition(name, ss.Position)
			if err != nil {
				return err
			}
			src.Position = pos
		}
		err := applySpectrum(
			&src.Spectrum, name, ss.Temperature, ss.SpectrumFile,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Setup) applyConfig(m *Model) error {
	cs := &s.Config
	conf := &m.Config

	photons := []struct {
		key string
		n   int64
	}{
		{PhotonInitial, cs.NInitial},
		{PhotonImaging, cs.NImaging},
		{PhotonImagingSources, cs.NImagingSources},
		{PhotonImagingDust, cs.NImagingDust},
		{PhotonRaytracingSources, cs.NRaytracingSources},
		{PhotonRaytracingDust, cs.NRaytracingDust},
		{PhotonStats, cs.NStats},
	}
	for _, p := range photons {
		if p.n == 0 {
			continue
		}
		if err := conf.SetNPhotons(p.key, p.n); err != nil {
			return err
		}
	}

	if cs.NInitialIterations != 0 {
		if err := conf.SetNInitialIterations(cs.NInitialIterations); err != nil {
			return err
		}
	}
	conf.SetRaytracing(cs.Raytracing)
	conf.SetMonochromatic(cs.Monochromatic)
	conf.SetPDA(cs.PDA)
	if err := conf.SetMRW(cs.MRW, cs.MRWGamma); err != nil {
		return err
	}
	if cs.MaxInteractions != 0 {
		if err := conf.SetMaxInteractions(cs.MaxInteractions); err != nil {
			return err
		}
	}
	conf.SetKillOnAbsorb(cs.KillOnAbsorb)
	if cs.OutputBytes != 0 {
		if err := conf.SetOutputBytes(cs.OutputBytes); err != nil {
			return err
		}
	}
	return nil
}

func applySpectrum(
	sp *source.Spectrum, name string, temperature float64, file string,
) error {
	if file != "" && temperature != 0 {
		return fmt.Errorf("source %q: specify either 'SpectrumFile' or "+
			"'Temperature', not both", name)
	}
	if file != "" {
		return sp.SetSpectrumFile(file)
	}
	if temperature != 0 {
		return sp.SetTemperature(temperature)
	}
	return nil
}

func parseWalls(section, field, s string) ([]float64, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, fmt.Errorf(
			"need to specify '%s' in the [%s] section", field, section)
	}
	walls := make([]float64, len(tokens))
	for i, tok := range tokens {
		w, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("[%s] %s: %q is not a number",
				section, field, tok)
		}
		walls[i] = w
	}
	return walls, nil
}

func parsePosition(name, s string) ([3]float64, error) {
	tokens := strings.Fields(s)
	if len(tokens) != 3 {
		return [3]float64{}, fmt.Errorf(
			"source %q: 'Position' needs 3 coordinates, found %d",
			name, len(tokens))
	}
	var pos [3]float64
	for i, tok := range tokens {
		x, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return [3]float64{}, fmt.Errorf(
				"source %q: position %q is not a number", name, tok)
		}
		pos[i] = x
	}
	return pos, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
