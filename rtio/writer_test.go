package rtio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestBinaryContainerHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	c, err := NewBinaryContainer(buf, 8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var flag, version int32
	r := bytes.NewReader(buf.Bytes())
	binary.Read(r, binary.LittleEndian, &flag)
	binary.Read(r, binary.LittleEndian, &version)
	if flag != littleEndianFlag {
		t.Errorf("Expected endianness flag %d, got %d.",
			littleEndianFlag, flag)
	}
	if version != containerVersion {
		t.Errorf("Expected version %d, got %d.", containerVersion, version)
	}
}

func TestBinaryContainerFloatWidth(t *testing.T) {
	if _, err := NewBinaryContainer(&bytes.Buffer{}, 6); err == nil {
		t.Errorf("Expected a float width of 6 to be rejected.")
	}

	values := []float64{1, 2, 3, 4}

	write := func(floatBytes int) []byte {
		buf := &bytes.Buffer{}
		c, err := NewBinaryContainer(buf, floatBytes)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		g, err := c.Group("g")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := g.Array("a", []int{4}, values); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := g.End(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := c.Close(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return buf.Bytes()
	}

	wide, narrow := write(8), write(4)
	if len(wide)-len(narrow) != 4*4 {
		t.Errorf("Expected the narrow file to save 4 bytes per value, "+
			"found lengths %d and %d.", len(wide), len(narrow))
	}
}

func TestBinaryContainerArrayCountCheck(t *testing.T) {
	c, err := NewBinaryContainer(&bytes.Buffer{}, 8)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	g, err := c.Group("g")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := g.Array("a", []int{2, 2}, []float64{1, 2, 3}); err == nil {
		t.Errorf("Expected a shape/count mismatch to be rejected.")
	}
}

func TestBinaryContainerDeterministic(t *testing.T) {
	write := func() []byte {
		buf := &bytes.Buffer{}
		c, _ := NewBinaryContainer(buf, 8)
		g, _ := c.Group("grid")
		g.Attr("geometry", "cartesian")
		g.Attr("n", int64(3))
		g.Attr("flag", true)
		g.Array("walls", []int{3}, []float64{0, 1, 2})
		sub, _ := g.Group("nested")
		sub.Attr("x", 1.5)
		sub.End()
		g.End()
		c.Close()
		return buf.Bytes()
	}

	if !bytes.Equal(write(), write()) {
		t.Errorf("Expected identical streams for identical input.")
	}
}

// Arrays larger than one chunk stream correctly at both widths.
func TestBinaryContainerLargeArray(t *testing.T) {
	n := arrayChunk*2 + 17
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}

	for _, floatBytes := range []int{4, 8} {
		buf := &bytes.Buffer{}
		c, err := NewBinaryContainer(buf, floatBytes)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		g, err := c.Group("g")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := g.Array("a", []int{n}, values); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := g.End(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := c.Close(); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		// header + group begin + array record + values
		if buf.Len() <= n*floatBytes {
			t.Errorf("Expected at least %d value bytes, found %d total.",
				n*floatBytes, buf.Len())
		}
	}
}
