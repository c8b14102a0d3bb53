/*package model assembles the full input description of a radiative
transfer run: one grid, any number of density fields with their dust
references, any number of radiation sources, and one solver configuration.
A model is built incrementally in any order, then checked in one pass by
Finalize before it is written.

A Model is not safe for concurrent mutation; it expects a single writer.
*/
package model

import (
	"github.com/indebetouw/hyperion/grid"
	"github.com/indebetouw/hyperion/source"
)

// Model is the aggregate root. Name doubles as the output file stem:
// writing a model named "disk" produces "disk.rtin".
type Model struct {
	Name string

	Grid    *grid.Grid
	Fields  []*Density
	Sources []source.Source
	Config  Config
}

// New returns an empty model with solver defaults applied.
func New(name string) *Model {
	return &Model{Name: name, Config: defaultConfig()}
}

// setGrid installs g, dropping any previously bound density fields: their
// shapes were validated against the old geometry and mean nothing on the
// new one.
func (m *Model) setGrid(g *grid.Grid) {
	m.Grid = g
	m.Fields = nil
}

// SetCartesianGrid sets a cartesian grid from per-axis wall coordinates.
func (m *Model) SetCartesianGrid(xWalls, yWalls, zWalls []float64) error {
	g, err := grid.NewCartesian(xWalls, yWalls, zWalls)
	if err != nil {
		return err
	}
	m.setGrid(g)
	return nil
}

// SetSphericalPolarGrid sets a spherical polar grid from (r, theta, phi)
// wall coordinates.
func (m *Model) SetSphericalPolarGrid(rWalls, thetaWalls, phiWalls []float64) error {
	g, err := grid.NewSphericalPolar(rWalls, thetaWalls, phiWalls)
	if err != nil {
		return err
	}
	m.setGrid(g)
	return nil
}

// SetCylindricalPolarGrid sets a cylindrical polar grid from (w, z, phi)
// wall coordinates.
func (m *Model) SetCylindricalPolarGrid(wWalls, zWalls, phiWalls []float64) error {
	g, err := grid.NewCylindricalPolar(wWalls, zWalls, phiWalls)
	if err != nil {
		return err
	}
	m.setGrid(g)
	return nil
}

// SetAMRGrid flattens and sets an adaptive mesh refinement grid. tree is
// accepted by structural capability; see grid.Tree.
func (m *Model) SetAMRGrid(tree grid.Tree) error {
	g, err := grid.NewAMR(tree)
	if err != nil {
		return err
	}
	m.setGrid(g)
	return nil
}

// SetOctreeGrid records an octree grid request. Octrees are a recognized
// placeholder and fail at Finalize with UnsupportedGridTypeError.
func (m *Model) SetOctreeGrid() {
	m.setGrid(grid.NewOctree())
}

// AddPointSource appends a point source and returns its mutable handle.
// The model keeps ownership; mutations through the handle apply in place.
func (m *Model) AddPointSource() *source.PointSource {
	s := &source.PointSource{}
	m.Sources = append(m.Sources, s)
	return s
}

// AddSphericalSource appends a spherical source and returns its mutable
// handle.
func (m *Model) AddSphericalSource() *source.SphericalSource {
	s := &source.SphericalSource{}
	m.Sources = append(m.Sources, s)
	return s
}

// AddMapSource appends a map source and returns its mutable handle. The
// map array is validated against the grid at Finalize.
func (m *Model) AddMapSource() *source.MapSource {
	s := &source.MapSource{}
	m.Sources = append(m.Sources, s)
	return s
}

// Finalize runs the full validation pass: grid geometry, density field
// shapes, source parameters and spectral resolution, and the
// configuration cross-checks. It mutates nothing and may be called any
// number of times; the writer calls it before touching storage.
func (m *Model) Finalize() error {
	if err := m.Grid.Validate(); err != nil {
		return err
	}

	for _, d := range m.Fields {
		if err := d.check(m.Grid); err != nil {
			return err
		}
	}

	dustPresent := len(m.Fields) > 0
	for _, s := range m.Sources {
		if err := s.Validate(m.Grid); err != nil {
			return err
		}
		if err := s.CheckSpectrum(dustPresent); err != nil {
			return err
		}
	}

	return m.Config.checkInit(dustPresent, len(m.Sources) > 0)
}
