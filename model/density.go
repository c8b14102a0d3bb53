package model

import (
	"fmt"

	"github.com/indebetouw/hyperion/dust"
	"github.com/indebetouw/hyperion/grid"
)

// Density is one quantity field: a density array bound to the model's
// grid, its dust reference, and an optional specific-energy overlay with
// the same shape. Densities are in g/cm^3, specific energies in erg/g,
// and the clamp temperatures in K.
type Density struct {
	m *Model

	Data grid.CellData
	Dust *dust.Reference

	SpecificEnergy *grid.CellData

	// Zero means no clamp.
	MinimumTemperature    float64
	MinimumSpecificEnergy float64
}

// AddDensity binds a density array to the model's grid and returns the
// field's mutable handle. The grid must already be set; data must match
// its cell shape exactly (for AMR grids, one array per flattened patch,
// each matching that patch's counts). ref is frozen on attachment and is
// required: every density field carries exactly one dust reference.
// Fields are independent; adding one never mutates those added before.
func (m *Model) AddDensity(data grid.CellData, ref *dust.Reference) (*Density, error) {
	if m.Grid == nil {
		return nil, &grid.GeometryError{
			Kind: -1, Msg: "a grid must be set before density fields are added",
		}
	}
	if err := m.Grid.CheckCellData("density", data); err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf(
			"density field %d: need a dust reference", len(m.Fields))
	}
	ref.Freeze()

	d := &Density{m: m, Data: data, Dust: ref}
	m.Fields = append(m.Fields, d)
	return d, nil
}

// SetSpecificEnergy attaches an initial specific-energy array with the
// same shape contract as the density itself. Without one, the solver
// computes specific energies from scratch.
func (d *Density) SetSpecificEnergy(data grid.CellData) error {
	if err := d.m.Grid.CheckCellData("specific_energy", data); err != nil {
		return err
	}
	d.SpecificEnergy = &data
	return nil
}

// SetMinimumTemperature sets the temperature floor, in K, applied by the
// solver to this field.
func (d *Density) SetMinimumTemperature(t float64) { d.MinimumTemperature = t }

// SetMinimumSpecificEnergy sets the specific-energy floor, in erg/g,
// applied by the solver to this field.
func (d *Density) SetMinimumSpecificEnergy(e float64) { d.MinimumSpecificEnergy = e }

// check re-validates the field's arrays against g at finalize time.
func (d *Density) check(g *grid.Grid) error {
	if err := g.CheckCellData("density", d.Data); err != nil {
		return err
	}
	if d.SpecificEnergy != nil {
		if err := g.CheckCellData("specific_energy", *d.SpecificEnergy); err != nil {
			return err
		}
	}
	return nil
}
