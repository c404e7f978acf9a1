package geoarrow

import (
	"github.com/tingold/orb-geoarrow/geometry"
)

// PointArray stores one coordinate per row. Empty and null points are
// stored as NaN ordinates.
type PointArray struct {
	base
	coords CoordBuffer
}

func (a *PointArray) Kind() ArrayKind         { return KindPoint }
func (a *PointArray) Dim() geometry.Dimension { return a.coords.dim }
func (a *PointArray) CoordType() CoordType    { return a.coords.typ }
func (a *PointArray) ExtensionName() string   { return KindPoint.ExtensionName() }
func (a *PointArray) Coords() CoordBuffer     { return a.coords }

// Value returns row i whether or not it is null.
func (a *PointArray) Value(i int) geometry.Point {
	checkIndex(i, a.length)
	return pointView{coords: &a.coords, i: i}
}

func (a *PointArray) Get(i int) geometry.Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return pointView{coords: &a.coords, i: i}
}

func (a *PointArray) Slice(offset, length int) Array {
	b := a.sliceBase(offset, length)
	coords, _ := a.coords.Slice(offset, length)
	return &PointArray{base: b, coords: coords}
}

// PointBuilder populates a PointArray.
type PointBuilder struct {
	dim      geometry.Dimension
	capacity PointCapacity
	meta     Metadata
	coords   CoordBuffer
	validity validityBuilder
	n        int
	finished bool
}

// NewPointBuilder allocates a builder for exactly capacity.Geoms rows.
func NewPointBuilder(dim geometry.Dimension, capacity PointCapacity, opts *Options) (*PointBuilder, error) {
	if err := capacity.validate(); err != nil {
		return nil, err
	}
	opts = opts.orDefault()
	return &PointBuilder{
		dim:      dim,
		capacity: capacity,
		meta:     opts.Metadata,
		coords:   newCoordBuffer(opts.Allocator, opts.CoordType, dim, capacity.Geoms),
		validity: newValidityBuilder(opts.Allocator, capacity.Geoms),
	}, nil
}

func (b *PointBuilder) Len() int { return b.n }

// PushGeometry appends a point, or the only point of a one-point multipoint.
func (b *PointBuilder) PushGeometry(g geometry.Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	out, err := prepare(b.finished, b.dim, geometry.KindPoint, g)
	if err != nil {
		return err
	}
	if b.n >= b.capacity.Geoms {
		return exceeded(PointCapacity{Geoms: b.n}, PointCapacity{Geoms: 1}, b.capacity)
	}
	c, ok := out.(geometry.Point).Coord()
	if !ok {
		c = geometry.NaNCoord()
	}
	b.coords.set(b.n, c)
	b.validity.append(true)
	b.n++
	return nil
}

func (b *PointBuilder) PushNull() error {
	if b.finished {
		return ErrBuilderFinished
	}
	if b.n >= b.capacity.Geoms {
		return exceeded(PointCapacity{Geoms: b.n}, PointCapacity{Geoms: 1}, b.capacity)
	}
	b.coords.set(b.n, geometry.NaNCoord())
	b.validity.append(false)
	b.n++
	return nil
}

// Finish returns the populated array.
func (b *PointBuilder) Finish() (*PointArray, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true
	if b.n != b.capacity.Geoms {
		return nil, mismatch(PointCapacity{Geoms: b.n}, b.capacity)
	}
	return &PointArray{
		base:   base{validity: b.validity.finish(), length: b.n, meta: b.meta},
		coords: b.coords,
	}, nil
}

func (b *PointBuilder) FinishArray() (Array, error) {
	arr, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return arr, nil
}
