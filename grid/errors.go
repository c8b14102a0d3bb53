package grid

import (
	"fmt"
)

// GeometryError reports invalid grid geometry: non-monotonic wall
// coordinates, out-of-range angular walls, or a missing grid.
type GeometryError struct {
	Kind Kind
	Axis string
	Msg  string
}

func (e *GeometryError) Error() string {
	if e.Kind < 0 {
		return fmt.Sprintf("grid: %s", e.Msg)
	}
	if e.Axis == "" {
		return fmt.Sprintf("%s grid: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s grid, %s axis: %s", e.Kind, e.Axis, e.Msg)
}

// UnsupportedGridTypeError is returned when an accepted-but-unimplemented
// geometry (currently only octree) reaches validation.
type UnsupportedGridTypeError struct {
	Kind Kind
}

func (e *UnsupportedGridTypeError) Error() string {
	return fmt.Sprintf("%s grids are accepted for interface purposes only "+
		"and cannot be validated or written yet", e.Kind)
}

// ShapeMismatchError reports an array whose shape does not match the cell
// shape of the grid it is bound to. Level and Patch are -1 outside AMR
// grids, Axis is -1 when the ranks disagree.
type ShapeMismatchError struct {
	Component    string
	Level, Patch int
	Axis         int
	Want, Found  int
}

func (e *ShapeMismatchError) Error() string {
	loc := e.Component
	if e.Level >= 0 {
		loc = fmt.Sprintf("%s, level %d patch %d", e.Component, e.Level, e.Patch)
	}
	if e.Axis < 0 {
		return fmt.Sprintf("%s: expected %d cells, found %d",
			loc, e.Want, e.Found)
	}
	return fmt.Sprintf("%s: expected %d cells along axis %d, found %d",
		loc, e.Want, e.Axis, e.Found)
}
