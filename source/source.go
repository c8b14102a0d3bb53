/*package source implements the three radiation source variants a model can
hold: point sources, spherical sources with optional surface spots, and map
sources that emit from a probability distribution over grid cells. Sources
are mutated through the handle returned by the model's add operation; the
model keeps ownership.

Luminosities are in erg/s, positions in cm, spot angles in radians.
*/
package source

import (
	"fmt"

	"github.com/indebetouw/hyperion/grid"
)

// InvalidSourceError reports a source whose parameters fail validation:
// non-positive luminosity or radius, or negative map weights.
type InvalidSourceError struct {
	Source string
	Msg    string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Msg)
}

// Source is the closed variant set checked exhaustively at validation and
// serialization time. Kind returns the serialization tag; Validate checks
// the variant-specific invariants against the model's grid; CheckSpectrum
// resolves the spectral definition of the source and any sub-sources.
type Source interface {
	Kind() string
	Label() string
	Validate(g *grid.Grid) error
	CheckSpectrum(dustPresent bool) error
}

// PointSource emits isotropically from a single position, default the
// origin.
type PointSource struct {
	Name       string
	Luminosity float64
	Position   [3]float64
	Spectrum   Spectrum
}

func (s *PointSource) Kind() string { return "point" }

func (s *PointSource) Label() string {
	if s.Name != "" {
		return fmt.Sprintf("point source %q", s.Name)
	}
	return "point source"
}

func (s *PointSource) Validate(g *grid.Grid) error {
	return checkLuminosity(s.Label(), s.Luminosity)
}

func (s *PointSource) CheckSpectrum(dustPresent bool) error {
	_, err := s.Spectrum.Resolve(s.Label(), dustPresent)
	return err
}

// Spot is a sub-source on the surface of a spherical source. It carries
// its own luminosity and spectral definition, resolved by the same
// priority rule as its parent.
type Spot struct {
	Name          string
	Luminosity    float64
	Longitude     float64
	Latitude      float64
	AngularRadius float64
	Spectrum      Spectrum
}

func (s *Spot) Label() string {
	if s.Name != "" {
		return fmt.Sprintf("spot %q", s.Name)
	}
	return "spot"
}

// SphericalSource emits from the surface of a sphere of the given radius,
// optionally limb darkened, optionally carrying spots.
type SphericalSource struct {
	Name          string
	Luminosity    float64
	Position      [3]float64
	Radius        float64
	LimbDarkening bool
	Spectrum      Spectrum
	Spots         []*Spot
}

func (s *SphericalSource) Kind() string { return "spherical" }

func (s *SphericalSource) Label() string {
	if s.Name != "" {
		return fmt.Sprintf("spherical source %q", s.Name)
	}
	return "spherical source"
}

// AddSpot appends a spot and returns its mutable handle. The source keeps
// ownership of the spot.
func (s *SphericalSource) AddSpot() *Spot {
	spot := &Spot{}
	s.Spots = append(s.Spots, spot)
	return spot
}

func (s *SphericalSource) Validate(g *grid.Grid) error {
	if err := checkLuminosity(s.Label(), s.Luminosity); err != nil {
		return err
	}
	if s.Radius <= 0 {
		return &InvalidSourceError{s.Label(), fmt.Sprintf(
			"need a positive radius, found %g", s.Radius)}
	}
	for _, spot := range s.Spots {
		label := fmt.Sprintf("%s, %s", s.Label(), spot.Label())
		if err := checkLuminosity(label, spot.Luminosity); err != nil {
			return err
		}
		if spot.AngularRadius <= 0 {
			return &InvalidSourceError{label, fmt.Sprintf(
				"need a positive angular radius, found %g",
				spot.AngularRadius)}
		}
	}
	return nil
}

func (s *SphericalSource) CheckSpectrum(dustPresent bool) error {
	if _, err := s.Spectrum.Resolve(s.Label(), dustPresent); err != nil {
		return err
	}
	for _, spot := range s.Spots {
		label := fmt.Sprintf("%s, %s", s.Label(), spot.Label())
		if _, err := spot.Spectrum.Resolve(label, dustPresent); err != nil {
			return err
		}
	}
	return nil
}

// MapSource emits from grid cells with probability proportional to Map.
// The weights are unnormalized and nonnegative; normalization happens in
// the solver, never here.
type MapSource struct {
	Name       string
	Luminosity float64
	Map        grid.CellData
	Spectrum   Spectrum
}

func (s *MapSource) Kind() string { return "map" }

func (s *MapSource) Label() string {
	if s.Name != "" {
		return fmt.Sprintf("map source %q", s.Name)
	}
	return "map source"
}

func (s *MapSource) Validate(g *grid.Grid) error {
	if err := checkLuminosity(s.Label(), s.Luminosity); err != nil {
		return err
	}
	if err := g.CheckCellData(s.Label(), s.Map); err != nil {
		return err
	}

	arrays := s.Map.Patches
	if arrays == nil {
		arrays = []grid.Array{s.Map.Array}
	}
	total := 0.0
	for _, a := range arrays {
		for i, w := range a.Values {
			if w < 0 {
				return &InvalidSourceError{s.Label(), fmt.Sprintf(
					"map weights must be nonnegative, found %g at "+
						"element %d", w, i)}
			}
			total += w
		}
	}
	if total == 0 {
		return &InvalidSourceError{s.Label(),
			"map weights must not all be zero"}
	}
	return nil
}

func (s *MapSource) CheckSpectrum(dustPresent bool) error {
	_, err := s.Spectrum.Resolve(s.Label(), dustPresent)
	return err
}

func checkLuminosity(label string, l float64) error {
	if l <= 0 {
		return &InvalidSourceError{label, fmt.Sprintf(
			"need a positive luminosity, found %g", l)}
	}
	return nil
}
