package grid

import (
	"fmt"
)

// Tree, Level, and Patch are the capability contract for caller-supplied
// AMR structures. Any container that can enumerate levels, patches, six
// extents, three cell counts, and a per-patch data array is accepted;
// nothing needs to embed or inherit a library type.
type Tree interface {
	Levels() []Level
}

type Level interface {
	Grids() []Patch
}

type Patch interface {
	// Extent returns the bounding box, min before max on each axis, in cm.
	Extent() (xmin, xmax, ymin, ymax, zmin, zmax float64)
	// Counts returns the cell counts along each axis.
	Counts() (nx, ny, nz int)
	// Data returns the patch's data array in x-major order, or nil. The
	// array is used only to cross-check the declared counts.
	Data() []float64
}

// FlatPatch is one validated patch with its (level, patch) address. Data is
// the caller's array, referenced rather than copied.
type FlatPatch struct {
	Level, Index int
	Xmin, Xmax   float64
	Ymin, Ymax   float64
	Zmin, Zmax   float64
	Nx, Ny, Nz   int
	Data         []float64
}

// AMRIndex is the flat form of an AMR tree. Patches are stored in
// (level, patch) order, so ranging over Patches twice visits the same
// sequence twice.
type AMRIndex struct {
	LevelCount int
	Patches    []FlatPatch
}

// FlattenAMR walks tree into an AMRIndex. It checks that every level has
// at least one patch, that every patch spans max > min on each axis with
// positive cell counts, and that any attached data array has exactly
// nx*ny*nz elements. Containment of fine patches within coarser levels is
// the caller's responsibility and is not checked here.
func FlattenAMR(tree Tree) (*AMRIndex, error) {
	levels := tree.Levels()
	if len(levels) == 0 {
		return nil, &GeometryError{AMR, "", "tree has no levels"}
	}

	idx := &AMRIndex{LevelCount: len(levels)}
	for li, level := range levels {
		patches := level.Grids()
		if len(patches) == 0 {
			return nil, &GeometryError{AMR, "", fmt.Sprintf(
				"level %d has no patches", li)}
		}

		for pi, p := range patches {
			fp := FlatPatch{Level: li, Index: pi}
			fp.Xmin, fp.Xmax, fp.Ymin, fp.Ymax, fp.Zmin, fp.Zmax = p.Extent()
			fp.Nx, fp.Ny, fp.Nz = p.Counts()
			fp.Data = p.Data()
			if err := fp.check(); err != nil {
				return nil, err
			}
			idx.Patches = append(idx.Patches, fp)
		}
	}
	return idx, nil
}

func (fp *FlatPatch) check() error {
	mins := [3]float64{fp.Xmin, fp.Ymin, fp.Zmin}
	maxes := [3]float64{fp.Xmax, fp.Ymax, fp.Zmax}
	counts := [3]int{fp.Nx, fp.Ny, fp.Nz}
	names := [3]string{"x", "y", "z"}

	for i := 0; i < 3; i++ {
		if maxes[i] <= mins[i] {
			return &GeometryError{AMR, names[i], fmt.Sprintf(
				"level %d patch %d: expected max > min, found [%g, %g]",
				fp.Level, fp.Index, mins[i], maxes[i])}
		}
		if counts[i] < 1 {
			return &GeometryError{AMR, names[i], fmt.Sprintf(
				"level %d patch %d: cell count must be positive, found %d",
				fp.Level, fp.Index, counts[i])}
		}
	}

	if fp.Data != nil && len(fp.Data) != fp.Nx*fp.Ny*fp.Nz {
		return &ShapeMismatchError{
			Component: "amr patch data",
			Level:     fp.Level, Patch: fp.Index,
			Axis: -1, Want: fp.Nx * fp.Ny * fp.Nz, Found: len(fp.Data),
		}
	}
	return nil
}

// Shape returns the patch's cell counts as an array shape.
func (fp *FlatPatch) Shape() [3]int {
	return [3]int{fp.Nx, fp.Ny, fp.Nz}
}

// Cells returns the total cell count summed over every patch in every
// level.
func (idx *AMRIndex) Cells() int {
	n := 0
	for i := range idx.Patches {
		fp := &idx.Patches[i]
		n += fp.Nx * fp.Ny * fp.Nz
	}
	return n
}

// SimpleTree, SimpleLevel, and SimplePatch are plain-struct implementations
// of the AMR capability interfaces for callers that build trees by hand.
type SimpleTree struct {
	L []*SimpleLevel
}

func (t *SimpleTree) Levels() []Level {
	out := make([]Level, len(t.L))
	for i, l := range t.L {
		out[i] = l
	}
	return out
}

func (t *SimpleTree) AddLevel() *SimpleLevel {
	l := &SimpleLevel{}
	t.L = append(t.L, l)
	return l
}

type SimpleLevel struct {
	G []*SimplePatch
}

func (l *SimpleLevel) Grids() []Patch {
	out := make([]Patch, len(l.G))
	for i, g := range l.G {
		out[i] = g
	}
	return out
}

func (l *SimpleLevel) AddGrid(p *SimplePatch) *SimplePatch {
	l.G = append(l.G, p)
	return p
}

type SimplePatch struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
	Zmin, Zmax float64
	Nx, Ny, Nz int
	Rho        []float64
}

func (p *SimplePatch) Extent() (xmin, xmax, ymin, ymax, zmin, zmax float64) {
	return p.Xmin, p.Xmax, p.Ymin, p.Ymax, p.Zmin, p.Zmax
}

func (p *SimplePatch) Counts() (nx, ny, nz int) {
	return p.Nx, p.Ny, p.Nz
}

func (p *SimplePatch) Data() []float64 {
	return p.Rho
}
