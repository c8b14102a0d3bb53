/*package grid describes the geometry a radiative transfer model is defined
on. Five geometries share one representation: three regular grids given by
per-axis wall coordinates (cartesian, spherical polar, cylindrical polar),
adaptive mesh refinement given by a caller-supplied level/patch tree, and a
recognized-but-unimplemented octree placeholder.

All lengths are in cm and all angles are in radians. N cells along an axis
require N+1 wall coordinates.
*/
package grid

import (
	"fmt"
	"math"
)

type Kind int

const (
	Cartesian Kind = iota
	SphericalPolar
	CylindricalPolar
	AMR
	Octree
)

func (k Kind) String() string {
	switch k {
	case Cartesian:
		return "cartesian"
	case SphericalPolar:
		return "spherical_polar"
	case CylindricalPolar:
		return "cylindrical_polar"
	case AMR:
		return "amr"
	case Octree:
		return "octree"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// AxisNames gives the serialization and error-message names of the three
// axes of each regular geometry, in storage order.
func (k Kind) AxisNames() [3]string {
	switch k {
	case SphericalPolar:
		return [3]string{"r", "theta", "phi"}
	case CylindricalPolar:
		return [3]string{"w", "z", "phi"}
	default:
		return [3]string{"x", "y", "z"}
	}
}

// Grid is a tagged variant over the five supported geometries. Regular
// grids carry three wall-coordinate sequences; AMR grids carry a flattened
// patch index instead.
type Grid struct {
	Kind  Kind
	Walls [3][]float64
	Tree  *AMRIndex
}

// NewCartesian builds a cartesian grid from three wall-coordinate
// sequences. Each sequence must be strictly increasing with length >= 2.
func NewCartesian(xWalls, yWalls, zWalls []float64) (*Grid, error) {
	g := &Grid{Kind: Cartesian, Walls: [3][]float64{xWalls, yWalls, zWalls}}
	if err := g.checkWalls(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewSphericalPolar builds a spherical polar grid. Beyond monotonicity,
// theta walls must lie in [0, pi] and phi walls in [0, 2 pi].
func NewSphericalPolar(rWalls, thetaWalls, phiWalls []float64) (*Grid, error) {
	g := &Grid{
		Kind:  SphericalPolar,
		Walls: [3][]float64{rWalls, thetaWalls, phiWalls},
	}
	if err := g.checkWalls(); err != nil {
		return nil, err
	}
	if err := g.checkAngular(1, "theta", 0, math.Pi); err != nil {
		return nil, err
	}
	if err := g.checkAngular(2, "phi", 0, 2*math.Pi); err != nil {
		return nil, err
	}
	return g, nil
}

// NewCylindricalPolar builds a cylindrical polar grid over (w, z, phi)
// walls. phi walls must lie in [0, 2 pi].
func NewCylindricalPolar(wWalls, zWalls, phiWalls []float64) (*Grid, error) {
	g := &Grid{
		Kind:  CylindricalPolar,
		Walls: [3][]float64{wWalls, zWalls, phiWalls},
	}
	if err := g.checkWalls(); err != nil {
		return nil, err
	}
	if err := g.checkAngular(2, "phi", 0, 2*math.Pi); err != nil {
		return nil, err
	}
	return g, nil
}

// NewAMR flattens and validates the caller-supplied level/patch tree. The
// tree is accepted by capability, not by type: anything satisfying Tree
// works.
func NewAMR(tree Tree) (*Grid, error) {
	idx, err := FlattenAMR(tree)
	if err != nil {
		return nil, err
	}
	return &Grid{Kind: AMR, Tree: idx}, nil
}

// NewOctree records an octree request. The grid is carried through the
// model but fails validation with UnsupportedGridTypeError.
func NewOctree() *Grid {
	return &Grid{Kind: Octree}
}

func (g *Grid) checkWalls() error {
	names := g.Kind.AxisNames()
	for i := 0; i < 3; i++ {
		walls := g.Walls[i]
		if len(walls) < 2 {
			return &GeometryError{g.Kind, names[i], fmt.Sprintf(
				"need at least 2 wall coordinates, found %d", len(walls))}
		}
		for j := 1; j < len(walls); j++ {
			if walls[j] <= walls[j-1] {
				return &GeometryError{g.Kind, names[i], fmt.Sprintf(
					"wall coordinates must be strictly increasing, but "+
						"walls[%d] = %g and walls[%d] = %g",
					j-1, walls[j-1], j, walls[j])}
			}
		}
	}
	return nil
}

func (g *Grid) checkAngular(axis int, name string, low, high float64) error {
	walls := g.Walls[axis]
	for j, w := range walls {
		if w < low || w > high {
			return &GeometryError{g.Kind, name, fmt.Sprintf(
				"wall coordinates must be in [%g, %g], but walls[%d] = %g",
				low, high, j, w)}
		}
	}
	return nil
}

// Regular reports whether the grid is one of the three wall-coordinate
// geometries.
func (g *Grid) Regular() bool {
	switch g.Kind {
	case Cartesian, SphericalPolar, CylindricalPolar:
		return true
	}
	return false
}

// Shape returns the per-axis cell counts of a regular grid. It is not
// meaningful for AMR or octree grids.
func (g *Grid) Shape() [3]int {
	return [3]int{
		len(g.Walls[0]) - 1, len(g.Walls[1]) - 1, len(g.Walls[2]) - 1,
	}
}

// Cells returns the total cell count: the product of per-axis counts for a
// regular grid, or the sum over all AMR patches.
func (g *Grid) Cells() int {
	switch {
	case g.Regular():
		s := g.Shape()
		return s[0] * s[1] * s[2]
	case g.Kind == AMR:
		return g.Tree.Cells()
	}
	return 0
}

// Validate re-checks the geometry. Construction already validates regular
// and AMR grids; this exists so that a finalize pass can reject grids that
// were stored without validation (octree, or a zero Grid).
func (g *Grid) Validate() error {
	if g == nil {
		return &GeometryError{-1, "", "no grid has been set"}
	}
	switch g.Kind {
	case Cartesian:
		return g.checkWalls()
	case SphericalPolar:
		if err := g.checkWalls(); err != nil {
			return err
		}
		if err := g.checkAngular(1, "theta", 0, math.Pi); err != nil {
			return err
		}
		return g.checkAngular(2, "phi", 0, 2*math.Pi)
	case CylindricalPolar:
		if err := g.checkWalls(); err != nil {
			return err
		}
		return g.checkAngular(2, "phi", 0, 2*math.Pi)
	case AMR:
		if g.Tree == nil {
			return &GeometryError{AMR, "", "no AMR tree has been set"}
		}
		return nil
	case Octree:
		return &UnsupportedGridTypeError{Octree}
	}
	return &GeometryError{g.Kind, "", "unrecognized grid kind"}
}
