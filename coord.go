package geoarrow

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tingold/orb-geoarrow/geometry"
)

// CoordBuffer stores the coordinates of an array, either interleaved in one
// buffer or separated into one buffer per ordinate. Copies of a CoordBuffer
// share the same backing storage.
type CoordBuffer struct {
	typ CoordType
	dim geometry.Dimension
	n   int
	xy  []float64    // interleaved, n*dim.Size() values
	ord [4][]float64 // separated, dim.Size() buffers of n values
}

// NewInterleavedCoords wraps values laid out as x0,y0[,z0][,m0],x1,...
// without copying.
func NewInterleavedCoords(dim geometry.Dimension, values []float64) (CoordBuffer, error) {
	if !dim.Valid() {
		return CoordBuffer{}, fmt.Errorf("%w: invalid dimension %d", ErrDimensionMismatch, dim)
	}
	if len(values)%dim.Size() != 0 {
		return CoordBuffer{}, fmt.Errorf("%w: %d values do not divide into %s coordinates", ErrDimensionMismatch, len(values), dim)
	}
	return CoordBuffer{typ: Interleaved, dim: dim, n: len(values) / dim.Size(), xy: values}, nil
}

// NewSeparatedCoords wraps one buffer per ordinate, in x, y[, z][, m] order,
// without copying.
func NewSeparatedCoords(dim geometry.Dimension, ordinates ...[]float64) (CoordBuffer, error) {
	if !dim.Valid() || len(ordinates) != dim.Size() {
		return CoordBuffer{}, fmt.Errorf("%w: %d ordinate buffers for %s", ErrDimensionMismatch, len(ordinates), dim)
	}
	b := CoordBuffer{typ: Separated, dim: dim, n: len(ordinates[0])}
	for j, o := range ordinates {
		if len(o) != b.n {
			return CoordBuffer{}, fmt.Errorf("%w: ordinate %d has %d values, want %d", ErrDimensionMismatch, j, len(o), b.n)
		}
		b.ord[j] = o
	}
	return b, nil
}

func newCoordBuffer(mem memory.Allocator, typ CoordType, dim geometry.Dimension, n int) CoordBuffer {
	b := CoordBuffer{typ: typ, dim: dim, n: n}
	if typ == Interleaved {
		b.xy = allocFloat64(mem, n*dim.Size())
		return b
	}
	for j := 0; j < dim.Size(); j++ {
		b.ord[j] = allocFloat64(mem, n)
	}
	return b
}

func (b CoordBuffer) Len() int                { return b.n }
func (b CoordBuffer) Type() CoordType         { return b.typ }
func (b CoordBuffer) Dim() geometry.Dimension { return b.dim }

// Values returns the interleaved backing slice, or nil for a separated
// buffer.
func (b CoordBuffer) Values() []float64 { return b.xy }

// Ordinate returns the backing slice of ordinate j of a separated buffer,
// or nil for an interleaved one.
func (b CoordBuffer) Ordinate(j int) []float64 { return b.ord[j] }

// Value returns coordinate i.
func (b CoordBuffer) Value(i int) (geometry.Coord, error) {
	if i < 0 || i >= b.n {
		return geometry.Coord{}, fmt.Errorf("%w: coordinate %d with length %d", ErrIndexOutOfRange, i, b.n)
	}
	return b.at(i), nil
}

func (b CoordBuffer) at(i int) geometry.Coord {
	var c geometry.Coord
	size := b.dim.Size()
	if b.typ == Interleaved {
		base := i * size
		if size == 2 {
			return geometry.Coord{X: b.xy[base], Y: b.xy[base+1]}
		}
		for j := 0; j < size; j++ {
			c.SetOrdinate(b.dim, j, b.xy[base+j])
		}
		return c
	}
	for j := 0; j < size; j++ {
		c.SetOrdinate(b.dim, j, b.ord[j][i])
	}
	return c
}

func (b *CoordBuffer) set(i int, c geometry.Coord) {
	size := b.dim.Size()
	if b.typ == Interleaved {
		base := i * size
		for j := 0; j < size; j++ {
			b.xy[base+j] = c.Ordinate(b.dim, j)
		}
		return
	}
	for j := 0; j < size; j++ {
		b.ord[j][i] = c.Ordinate(b.dim, j)
	}
}

// Slice returns coordinates [offset, offset+length) sharing this buffer's
// storage.
func (b CoordBuffer) Slice(offset, length int) (CoordBuffer, error) {
	if offset < 0 || length < 0 || offset+length > b.n {
		return CoordBuffer{}, fmt.Errorf("%w: slice [%d:%d] with length %d", ErrIndexOutOfRange, offset, offset+length, b.n)
	}
	s := CoordBuffer{typ: b.typ, dim: b.dim, n: length}
	if b.typ == Interleaved {
		size := b.dim.Size()
		s.xy = b.xy[offset*size : (offset+length)*size : (offset+length)*size]
		return s, nil
	}
	for j := 0; j < b.dim.Size(); j++ {
		s.ord[j] = b.ord[j][offset : offset+length : offset+length]
	}
	return s, nil
}

// ToInterleaved returns b in the interleaved layout, copying only when b is
// separated.
func (b CoordBuffer) ToInterleaved() CoordBuffer {
	if b.typ == Interleaved {
		return b
	}
	return b.convert(Interleaved)
}

// ToSeparated returns b in the separated layout, copying only when b is
// interleaved.
func (b CoordBuffer) ToSeparated() CoordBuffer {
	if b.typ == Separated {
		return b
	}
	return b.convert(Separated)
}

func (b CoordBuffer) convert(typ CoordType) CoordBuffer {
	out := newCoordBuffer(defaultAllocator, typ, b.dim, b.n)
	for i := 0; i < b.n; i++ {
		out.set(i, b.at(i))
	}
	return out
}
