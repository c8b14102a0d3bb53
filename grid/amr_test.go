package grid

import (
	"errors"
	"testing"
)

func testPatch(nx, ny, nz int, withData bool) *SimplePatch {
	p := &SimplePatch{
		Xmin: 0, Xmax: 1, Ymin: 0, Ymax: 1, Zmin: 0, Zmax: 1,
		Nx: nx, Ny: ny, Nz: nz,
	}
	if withData {
		p.Rho = make([]float64, nx*ny*nz)
	}
	return p
}

func testTree() *SimpleTree {
	tree := &SimpleTree{}
	l0 := tree.AddLevel()
	l0.AddGrid(testPatch(4, 4, 4, true))
	l1 := tree.AddLevel()
	l1.AddGrid(testPatch(8, 8, 8, true))
	l1.AddGrid(testPatch(2, 4, 8, true))
	return tree
}

func TestFlattenAMR(t *testing.T) {
	idx, err := FlattenAMR(testTree())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if idx.LevelCount != 2 {
		t.Errorf("Expected 2 levels, got %d.", idx.LevelCount)
	}
	if len(idx.Patches) != 3 {
		t.Fatalf("Expected 3 flattened patches, got %d.", len(idx.Patches))
	}
	if cells := idx.Cells(); cells != 64+512+64 {
		t.Errorf("Expected %d cells, got %d.", 64+512+64, cells)
	}

	addrs := [][2]int{{0, 0}, {1, 0}, {1, 1}}
	for i, fp := range idx.Patches {
		if fp.Level != addrs[i][0] || fp.Index != addrs[i][1] {
			t.Errorf("%d) Expected address %v, got (%d, %d).",
				i, addrs[i], fp.Level, fp.Index)
		}
	}
}

// Flattening must be restartable: two traversals of the same index see
// the same (level, patch) sequence.
func TestFlattenAMRRestartable(t *testing.T) {
	idx, err := FlattenAMR(testTree())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	first := [][2]int{}
	for _, fp := range idx.Patches {
		first = append(first, [2]int{fp.Level, fp.Index})
	}
	for i, fp := range idx.Patches {
		if first[i] != [2]int{fp.Level, fp.Index} {
			t.Errorf("%d) Second traversal saw (%d, %d), first saw %v.",
				i, fp.Level, fp.Index, first[i])
		}
	}
}

// The flattener records the caller's arrays instead of copying them.
func TestFlattenAMRSharesData(t *testing.T) {
	tree := testTree()
	idx, err := FlattenAMR(tree)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tree.L[0].G[0].Rho[0] = 42
	if idx.Patches[0].Data[0] != 42 {
		t.Errorf("Expected flattened patch to share the caller's array.")
	}
}

func TestFlattenAMRInvalid(t *testing.T) {
	table := []struct {
		name string
		tree func() *SimpleTree
	}{
		{"no levels", func() *SimpleTree {
			return &SimpleTree{}
		}},
		{"empty level", func() *SimpleTree {
			tree := testTree()
			tree.AddLevel()
			return tree
		}},
		{"max <= min", func() *SimpleTree {
			tree := testTree()
			tree.L[1].G[0].Ymax = tree.L[1].G[0].Ymin
			return tree
		}},
		{"zero cell count", func() *SimpleTree {
			tree := testTree()
			tree.L[0].G[0].Nz = 0
			tree.L[0].G[0].Rho = nil
			return tree
		}},
	}

	for i, test := range table {
		if _, err := FlattenAMR(test.tree()); err == nil {
			t.Errorf("%d) Expected %s to fail.", i, test.name)
		}
	}
}

func TestFlattenAMRDataShape(t *testing.T) {
	tree := testTree()
	tree.L[1].G[1].Rho = make([]float64, 63)

	_, err := FlattenAMR(tree)
	mismatch := &ShapeMismatchError{}
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected a ShapeMismatchError, got %v.", err)
	}
	if mismatch.Level != 1 || mismatch.Patch != 1 {
		t.Errorf("Expected the error to name level 1 patch 1, got level "+
			"%d patch %d.", mismatch.Level, mismatch.Patch)
	}
}

func TestCheckCellDataAMR(t *testing.T) {
	g, err := NewAMR(testTree())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	good := make([]Array, len(g.Tree.Patches))
	for i, fp := range g.Tree.Patches {
		a, err := NewArray(fp.Shape(), make([]float64, fp.Nx*fp.Ny*fp.Nz))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		good[i] = a
	}

	if err := g.CheckCellData("density", PerPatch(good)); err != nil {
		t.Errorf("Expected matching per-patch data, got error: %v", err)
	}

	// Wrong patch count.
	if err := g.CheckCellData("density", PerPatch(good[:2])); err == nil {
		t.Errorf("Expected missing patch arrays to fail.")
	}

	// Wrong shape on one patch.
	bad := make([]Array, len(good))
	copy(bad, good)
	bad[2], _ = NewArray([3]int{2, 4, 4}, make([]float64, 32))
	err = g.CheckCellData("density", PerPatch(bad))
	mismatch := &ShapeMismatchError{}
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected a ShapeMismatchError, got %v.", err)
	}
	if mismatch.Level != 1 || mismatch.Patch != 1 || mismatch.Axis != 2 {
		t.Errorf("Expected level 1 patch 1 axis 2, got level %d patch %d "+
			"axis %d.", mismatch.Level, mismatch.Patch, mismatch.Axis)
	}

	// A single uniform array can't cover an AMR grid.
	single, _ := NewArray([3]int{4, 4, 4}, make([]float64, 64))
	if err := g.CheckCellData("density", Uniform(single)); err == nil {
		t.Errorf("Expected a uniform array on an AMR grid to fail.")
	}
}
