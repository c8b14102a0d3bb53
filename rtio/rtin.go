package rtio

import (
	"fmt"
	"os"

	"github.com/indebetouw/hyperion/dust"
	"github.com/indebetouw/hyperion/grid"
	"github.com/indebetouw/hyperion/model"
	"github.com/indebetouw/hyperion/source"
)

// Write validates m and persists it to path, or to "<name>.rtin" when
// path is empty. Validation runs in full before any byte is written, and
// the output appears atomically: the container is written to a temporary
// file and renamed into place only on success. Writing the same model
// twice produces byte-identical files.
func Write(m *model.Model, path string) error {
	if err := m.Finalize(); err != nil {
		return err
	}
	if path == "" {
		path = m.Name + ".rtin"
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	c, err := NewBinaryContainer(f, m.Config.OutputBytes)
	if err == nil {
		err = WriteModel(m, c)
	}
	if err == nil {
		err = c.Close()
	}
	if err2 := f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// WriteModel emits an already-finalized model into c using the fixed
// group order: grid, density, sources, config. It assumes Finalize has
// passed and does not re-validate.
func WriteModel(m *model.Model, c Container) error {
	if err := writeGrid(m, c); err != nil {
		return err
	}
	if err := writeDensity(m, c); err != nil {
		return err
	}
	if err := writeSources(m, c); err != nil {
		return err
	}
	return writeConfig(m, c)
}

func writeGrid(m *model.Model, c Container) error {
	g, err := c.Group("grid")
	if err != nil {
		return err
	}
	if err := g.Attr("geometry", m.Grid.Kind.String()); err != nil {
		return err
	}

	switch {
	case m.Grid.Regular():
		names := m.Grid.Kind.AxisNames()
		for i := 0; i < 3; i++ {
			walls := m.Grid.Walls[i]
			name := fmt.Sprintf("walls_%s", names[i])
			if err := g.Array(name, []int{len(walls)}, walls); err != nil {
				return err
			}
		}

	case m.Grid.Kind == grid.AMR:
		tree := m.Grid.Tree
		if err := g.Attr("n_levels", int64(tree.LevelCount)); err != nil {
			return err
		}
		level := Group(nil)
		curLevel := -1
		for i := range tree.Patches {
			fp := &tree.Patches[i]
			if fp.Level != curLevel {
				if level != nil {
					if err := level.End(); err != nil {
						return err
					}
				}
				level, err = g.Group(fmt.Sprintf("level_%05d", fp.Level+1))
				if err != nil {
					return err
				}
				curLevel = fp.Level
			}
			if err := writePatchGeometry(level, fp); err != nil {
				return err
			}
		}
		if level != nil {
			if err := level.End(); err != nil {
				return err
			}
		}

	default:
		// Finalize rejects octree and unknown kinds before we get here.
		return &grid.UnsupportedGridTypeError{Kind: m.Grid.Kind}
	}

	return g.End()
}

func writePatchGeometry(level Group, fp *grid.FlatPatch) error {
	pg, err := level.Group(fmt.Sprintf("grid_%05d", fp.Index+1))
	if err != nil {
		return err
	}

	attrs := []struct {
		name  string
		value float64
	}{
		{"xmin", fp.Xmin}, {"xmax", fp.Xmax},
		{"ymin", fp.Ymin}, {"ymax", fp.Ymax},
		{"zmin", fp.Zmin}, {"zmax", fp.Zmax},
	}
	for _, a := range attrs {
		if err := pg.Attr(a.name, a.value); err != nil {
			return err
		}
	}
	if err := pg.Attr("nx", int64(fp.Nx)); err != nil {
		return err
	}
	if err := pg.Attr("ny", int64(fp.Ny)); err != nil {
		return err
	}
	if err := pg.Attr("nz", int64(fp.Nz)); err != nil {
		return err
	}
	return pg.End()
}

func writeDensity(m *model.Model, c Container) error {
	g, err := c.Group("density")
	if err != nil {
		return err
	}
	if err := g.Attr("n_fields", int64(len(m.Fields))); err != nil {
		return err
	}

	for i, d := range m.Fields {
		fg, err := g.Group(fmt.Sprintf("density_%05d", i+1))
		if err != nil {
			return err
		}

		if path := d.Dust.Path(); path != "" {
			if err := fg.Attr("dust", path); err != nil {
				return err
			}
		} else {
			if err := fg.Attr("dust", "<object>"); err != nil {
				return err
			}
		}
		mode, temperature := d.Dust.Sublimation()
		if err := fg.Attr("sublimation_mode", mode); err != nil {
			return err
		}
		if mode != dust.None {
			err := fg.Attr("sublimation_temperature", temperature)
			if err != nil {
				return err
			}
		}
		if d.MinimumTemperature != 0 {
			err := fg.Attr("minimum_temperature", d.MinimumTemperature)
			if err != nil {
				return err
			}
		}
		if d.MinimumSpecificEnergy != 0 {
			err := fg.Attr(
				"minimum_specific_energy", d.MinimumSpecificEnergy,
			)
			if err != nil {
				return err
			}
		}

		if err := writeCellData(fg, m.Grid, "density", d.Data); err != nil {
			return err
		}
		if d.SpecificEnergy != nil {
			err := writeCellData(
				fg, m.Grid, "specific_energy", *d.SpecificEnergy,
			)
			if err != nil {
				return err
			}
		}

		if err := fg.End(); err != nil {
			return err
		}
	}
	return g.End()
}

// writeCellData streams one cell array: a single array for regular grids,
// one array per flattened patch for AMR.
func writeCellData(g Group, gr *grid.Grid, name string, d grid.CellData) error {
	if gr.Regular() {
		return g.Array(name, d.Array.Shape[:], d.Array.Values)
	}
	for i := range d.Patches {
		fp := &gr.Tree.Patches[i]
		patchName := fmt.Sprintf("%s_%05d_%05d", name, fp.Level+1, fp.Index+1)
		a := &d.Patches[i]
		if err := g.Array(patchName, a.Shape[:], a.Values); err != nil {
			return err
		}
	}
	return nil
}

func writeSources(m *model.Model, c Container) error {
	g, err := c.Group("sources")
	if err != nil {
		return err
	}
	if err := g.Attr("n_sources", int64(len(m.Sources))); err != nil {
		return err
	}

	dustPresent := len(m.Fields) > 0
	for i, s := range m.Sources {
		sg, err := g.Group(fmt.Sprintf("source_%05d", i+1))
		if err != nil {
			return err
		}
		if err := sg.Attr("kind", s.Kind()); err != nil {
			return err
		}

		switch s := s.(type) {
		case *source.PointSource:
			err = writePointSource(sg, s, dustPresent)
		case *source.SphericalSource:
			err = writeSphericalSource(sg, s, dustPresent)
		case *source.MapSource:
			err = writeMapSource(sg, m.Grid, s, dustPresent)
		default:
			err = fmt.Errorf("sources: unrecognized source type %T", s)
		}
		if err != nil {
			return err
		}

		if err := sg.End(); err != nil {
			return err
		}
	}
	return g.End()
}

func writePointSource(g Group, s *source.PointSource, dustPresent bool) error {
	if err := g.Attr("luminosity", s.Luminosity); err != nil {
		return err
	}
	if err := g.Array("position", []int{3}, s.Position[:]); err != nil {
		return err
	}
	return writeSpectrum(g, s.Label(), &s.Spectrum, dustPresent)
}

func writeSphericalSource(
	g Group, s *source.SphericalSource, dustPresent bool,
) error {
	if err := g.Attr("luminosity", s.Luminosity); err != nil {
		return err
	}
	if err := g.Array("position", []int{3}, s.Position[:]); err != nil {
		return err
	}
	if err := g.Attr("radius", s.Radius); err != nil {
		return err
	}
	if err := g.Attr("limb_darkening", s.LimbDarkening); err != nil {
		return err
	}
	if err := writeSpectrum(g, s.Label(), &s.Spectrum, dustPresent); err != nil {
		return err
	}

	if err := g.Attr("n_spots", int64(len(s.Spots))); err != nil {
		return err
	}
	for i, spot := range s.Spots {
		spg, err := g.Group(fmt.Sprintf("spot_%05d", i+1))
		if err != nil {
			return err
		}
		if err := spg.Attr("luminosity", spot.Luminosity); err != nil {
			return err
		}
		if err := spg.Attr("longitude", spot.Longitude); err != nil {
			return err
		}
		if err := spg.Attr("latitude", spot.Latitude); err != nil {
			return err
		}
		if err := spg.Attr("angular_radius", spot.AngularRadius); err != nil {
			return err
		}
		err = writeSpectrum(spg, spot.Label(), &spot.Spectrum, dustPresent)
		if err != nil {
			return err
		}
		if err := spg.End(); err != nil {
			return err
		}
	}
	return nil
}

func writeMapSource(
	g Group, gr *grid.Grid, s *source.MapSource, dustPresent bool,
) error {
	if err := g.Attr("luminosity", s.Luminosity); err != nil {
		return err
	}
	// Weights go out exactly as supplied; the solver normalizes them.
	if err := writeCellData(g, gr, "map", s.Map); err != nil {
		return err
	}
	return writeSpectrum(g, s.Label(), &s.Spectrum, dustPresent)
}

func writeSpectrum(
	g Group, label string, sp *source.Spectrum, dustPresent bool,
) error {
	r, err := sp.Resolve(label, dustPresent)
	if err != nil {
		return err
	}
	if err := g.Attr("spectrum", r.Kind.String()); err != nil {
		return err
	}
	switch r.Kind {
	case source.SpectrumExplicit:
		if err := g.Array("nu", []int{len(r.Nu)}, r.Nu); err != nil {
			return err
		}
		return g.Array("fnu", []int{len(r.Fnu)}, r.Fnu)
	case source.SpectrumTemperature:
		return g.Attr("temperature", r.Temperature)
	}
	return nil
}

func writeConfig(m *model.Model, c Container) error {
	g, err := c.Group("config")
	if err != nil {
		return err
	}
	conf := &m.Config

	photons := []struct {
		key string
		n   int64
	}{
		{model.PhotonInitial, conf.NInitial},
		{model.PhotonImaging, conf.NImaging},
		{model.PhotonImagingSources, conf.NImagingSources},
		{model.PhotonImagingDust, conf.NImagingDust},
		{model.PhotonRaytracingSources, conf.NRaytracingSources},
		{model.PhotonRaytracingDust, conf.NRaytracingDust},
		{model.PhotonStats, conf.NStats},
	}
	for _, p := range photons {
		if p.n == 0 {
			continue
		}
		name := fmt.Sprintf("n_photons_%s", p.key)
		if err := g.Attr(name, p.n); err != nil {
			return err
		}
	}

	attrs := []struct {
		name  string
		value interface{}
	}{
		{"n_initial_iterations", int64(conf.NInitialIterations)},
		{"raytracing", conf.Raytracing},
		{"monochromatic", conf.Monochromatic},
		{"pda", conf.PDA},
		{"mrw", conf.MRW},
		{"mrw_gamma", conf.MRWGamma},
		{"max_interactions", conf.MaxInteractions},
		{"kill_on_absorb", conf.KillOnAbsorb},
		{"output_bytes", int64(conf.OutputBytes)},
	}
	for _, a := range attrs {
		if err := g.Attr(a.name, a.value); err != nil {
			return err
		}
	}
	return g.End()
}
