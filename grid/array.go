package grid

// Array is a dense 3D cell array in x-major order with an explicit shape.
type Array struct {
	Shape  [3]int
	Values []float64
}

// NewArray wraps values in an Array after checking the element count
// against the declared shape.
func NewArray(shape [3]int, values []float64) (Array, error) {
	n := shape[0] * shape[1] * shape[2]
	if len(values) != n {
		return Array{}, &ShapeMismatchError{
			Component: "array",
			Level:     -1, Patch: -1,
			Axis: -1, Want: n, Found: len(values),
		}
	}
	return Array{shape, values}, nil
}

// CellData binds an array to a grid: one Array for a regular grid, or one
// Array per flattened patch for AMR. Exactly one of the two forms is set.
type CellData struct {
	Array   Array
	Patches []Array
}

// Uniform wraps a single array for a regular grid.
func Uniform(a Array) CellData {
	return CellData{Array: a}
}

// PerPatch wraps one array per AMR patch, in flattened (level, patch)
// order.
func PerPatch(as []Array) CellData {
	return CellData{Patches: as}
}

// CheckCellData validates d against the grid's cell shape. component names
// the caller in error messages ("density", "specific_energy", "map", ...).
func (g *Grid) CheckCellData(component string, d CellData) error {
	switch {
	case g.Regular():
		if d.Patches != nil {
			return &ShapeMismatchError{
				Component: component,
				Level:     -1, Patch: -1,
				Axis: -1, Want: g.Cells(),
				Found: totalPatchCells(d.Patches),
			}
		}
		want := g.Shape()
		for axis := 0; axis < 3; axis++ {
			if d.Array.Shape[axis] != want[axis] {
				return &ShapeMismatchError{
					Component: component,
					Level:     -1, Patch: -1,
					Axis: axis, Want: want[axis],
					Found: d.Array.Shape[axis],
				}
			}
		}
		return nil

	case g.Kind == AMR:
		if d.Patches == nil {
			return &ShapeMismatchError{
				Component: component,
				Level:     -1, Patch: -1,
				Axis: -1, Want: len(g.Tree.Patches), Found: 0,
			}
		}
		if len(d.Patches) != len(g.Tree.Patches) {
			return &ShapeMismatchError{
				Component: component,
				Level:     -1, Patch: -1,
				Axis: -1, Want: len(g.Tree.Patches),
				Found: len(d.Patches),
			}
		}
		for i := range g.Tree.Patches {
			fp := &g.Tree.Patches[i]
			want := fp.Shape()
			for axis := 0; axis < 3; axis++ {
				if d.Patches[i].Shape[axis] != want[axis] {
					return &ShapeMismatchError{
						Component: component,
						Level:     fp.Level, Patch: fp.Index,
						Axis: axis, Want: want[axis],
						Found: d.Patches[i].Shape[axis],
					}
				}
			}
		}
		return nil
	}

	return &UnsupportedGridTypeError{g.Kind}
}

func totalPatchCells(as []Array) int {
	n := 0
	for _, a := range as {
		n += a.Shape[0] * a.Shape[1] * a.Shape[2]
	}
	return n
}
