/*package rtio persists a finalized model to its on-disk container. The
container abstraction is a tree of named groups holding named scalar
attributes and named arrays; BinaryContainer is its little-endian
implementation.
*/
package rtio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Container is the writer collaborator the serializer emits into.
// Implementations must write groups, attributes, and arrays in exactly
// the order they are given, so that identical models produce identical
// bytes.
type Container interface {
	// Group begins a top-level named group.
	Group(name string) (Group, error)
	// Close ends the container and flushes it.
	Close() error
}

// Group is one named group in a container.
type Group interface {
	// Group begins a nested named group.
	Group(name string) (Group, error)
	// Attr writes one named scalar: int64, float64, string, or bool.
	Attr(name string, value interface{}) error
	// Array writes one named dense array with the given shape, streamed
	// at the container's floating point width.
	Array(name string, shape []int, values []float64) error
	// End closes the group.
	End() error
}

/*
The binary container layout is:

    |-- 1 --||-- 2 --||-- ... 3 ... --|

    1 - (int32) Flag indicating the endianness of the file. 0 indicates a
        little endian byte ordering and -1 indicates a big endian byte
        order. Always written as 0.
    2 - (int32) Container format version. Currently 1.
    3 - Tagged records: group begin, group end, attribute, array.

Every name is an int32 length followed by raw bytes. Arrays carry their
float width, rank, and per-axis lengths before the cell values, which are
written in x-major order.
*/
const (
	littleEndianFlag int32 = 0
	containerVersion int32 = 1

	recGroupBegin int32 = 1
	recGroupEnd   int32 = 2
	recAttr       int32 = 3
	recArray      int32 = 4

	attrInt    int32 = 1
	attrFloat  int32 = 2
	attrString int32 = 3
	attrBool   int32 = 4
)

// arrayChunk is the number of cells converted and written at a time, so
// that peak memory tracks one chunk rather than one full array.
const arrayChunk = 1 << 13

var end = binary.LittleEndian

// BinaryContainer writes the container format above to a single stream.
type BinaryContainer struct {
	w          *bufio.Writer
	floatBytes int
	err        error

	f32Buf []float32
}

// NewBinaryContainer wraps w. floatBytes selects the width arrays are
// stored at and must be 4 or 8.
func NewBinaryContainer(w io.Writer, floatBytes int) (*BinaryContainer, error) {
	if floatBytes != 4 && floatBytes != 8 {
		return nil, fmt.Errorf(
			"container: expected a float width of 4 or 8, found %d",
			floatBytes,
		)
	}
	c := &BinaryContainer{w: bufio.NewWriter(w), floatBytes: floatBytes}
	c.write(littleEndianFlag)
	c.write(containerVersion)
	return c, c.err
}

// write funnels every record through one error-latching path. After the
// first failure all writes become no-ops and Close reports the error.
func (c *BinaryContainer) write(v interface{}) {
	if c.err != nil {
		return
	}
	c.err = binary.Write(c.w, end, v)
}

func (c *BinaryContainer) writeName(name string) {
	c.write(int32(len(name)))
	if c.err != nil {
		return
	}
	_, c.err = c.w.WriteString(name)
}

func (c *BinaryContainer) Group(name string) (Group, error) {
	c.write(recGroupBegin)
	c.writeName(name)
	return &binaryGroup{c}, c.err
}

func (c *BinaryContainer) Close() error {
	if c.err != nil {
		return c.err
	}
	return c.w.Flush()
}

type binaryGroup struct {
	c *BinaryContainer
}

func (g *binaryGroup) Group(name string) (Group, error) {
	c := g.c
	c.write(recGroupBegin)
	c.writeName(name)
	return &binaryGroup{c}, c.err
}

func (g *binaryGroup) End() error {
	g.c.write(recGroupEnd)
	return g.c.err
}

func (g *binaryGroup) Attr(name string, value interface{}) error {
	c := g.c
	c.write(recAttr)
	c.writeName(name)

	switch v := value.(type) {
	case int:
		c.write(attrInt)
		c.write(int64(v))
	case int64:
		c.write(attrInt)
		c.write(v)
	case float64:
		c.write(attrFloat)
		c.write(v)
	case string:
		c.write(attrString)
		c.writeName(v)
	case bool:
		c.write(attrBool)
		b := int32(0)
		if v {
			b = 1
		}
		c.write(b)
	default:
		return fmt.Errorf("container: attribute %q has unsupported type %T",
			name, value)
	}
	return c.err
}

func (g *binaryGroup) Array(name string, shape []int, values []float64) error {
	c := g.c
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != len(values) {
		return fmt.Errorf(
			"container: array %q declares %d cells but holds %d values",
			name, n, len(values),
		)
	}

	c.write(recArray)
	c.writeName(name)
	c.write(int32(c.floatBytes))
	c.write(int32(len(shape)))
	for _, s := range shape {
		c.write(int64(s))
	}

	for low := 0; low < len(values); low += arrayChunk {
		high := low + arrayChunk
		if high > len(values) {
			high = len(values)
		}
		if c.floatBytes == 8 {
			c.write(values[low:high])
			continue
		}
		if c.f32Buf == nil {
			c.f32Buf = make([]float32, arrayChunk)
		}
		buf := c.f32Buf[:high-low]
		for i := range buf {
			buf[i] = float32(values[low+i])
		}
		c.write(buf)
	}
	return c.err
}
