package geoarrow

import (
	"github.com/tingold/orb-geoarrow/geometry"
)

// RectArray stores axis-aligned boxes as two separated coordinate buffers,
// one for the lower corners and one for the upper corners. Null rows hold
// NaN corners. A rect has no empty form.
type RectArray struct {
	base
	lower CoordBuffer
	upper CoordBuffer
}

func (a *RectArray) Kind() ArrayKind         { return KindRect }
func (a *RectArray) Dim() geometry.Dimension { return a.lower.dim }
func (a *RectArray) CoordType() CoordType    { return Separated }
func (a *RectArray) ExtensionName() string   { return KindRect.ExtensionName() }
func (a *RectArray) Lower() CoordBuffer      { return a.lower }
func (a *RectArray) Upper() CoordBuffer      { return a.upper }

// Value returns row i whether or not it is null.
func (a *RectArray) Value(i int) geometry.Rect {
	checkIndex(i, a.length)
	return rectView{lower: &a.lower, upper: &a.upper, i: i}
}

func (a *RectArray) Get(i int) geometry.Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return rectView{lower: &a.lower, upper: &a.upper, i: i}
}

func (a *RectArray) Slice(offset, length int) Array {
	b := a.sliceBase(offset, length)
	lower, _ := a.lower.Slice(offset, length)
	upper, _ := a.upper.Slice(offset, length)
	return &RectArray{base: b, lower: lower, upper: upper}
}

// RectBuilder populates a RectArray.
type RectBuilder struct {
	dim      geometry.Dimension
	capacity RectCapacity
	meta     Metadata
	lower    CoordBuffer
	upper    CoordBuffer
	validity validityBuilder
	n        int
	finished bool
}

// NewRectBuilder allocates a builder for exactly capacity.Geoms rows. Rects
// are always stored separated; opts.CoordType is ignored.
func NewRectBuilder(dim geometry.Dimension, capacity RectCapacity, opts *Options) (*RectBuilder, error) {
	if err := capacity.validate(); err != nil {
		return nil, err
	}
	opts = opts.orDefault()
	return &RectBuilder{
		dim:      dim,
		capacity: capacity,
		meta:     opts.Metadata,
		lower:    newCoordBuffer(opts.Allocator, Separated, dim, capacity.Geoms),
		upper:    newCoordBuffer(opts.Allocator, Separated, dim, capacity.Geoms),
		validity: newValidityBuilder(opts.Allocator, capacity.Geoms),
	}, nil
}

func (b *RectBuilder) Len() int { return b.n }

func (b *RectBuilder) PushGeometry(g geometry.Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	out, err := prepare(b.finished, b.dim, geometry.KindRect, g)
	if err != nil {
		return err
	}
	if b.n >= b.capacity.Geoms {
		return exceeded(RectCapacity{Geoms: b.n}, RectCapacity{Geoms: 1}, b.capacity)
	}
	r := out.(geometry.Rect)
	b.lower.set(b.n, r.Min())
	b.upper.set(b.n, r.Max())
	b.validity.append(true)
	b.n++
	return nil
}

func (b *RectBuilder) PushNull() error {
	if b.finished {
		return ErrBuilderFinished
	}
	if b.n >= b.capacity.Geoms {
		return exceeded(RectCapacity{Geoms: b.n}, RectCapacity{Geoms: 1}, b.capacity)
	}
	b.lower.set(b.n, geometry.NaNCoord())
	b.upper.set(b.n, geometry.NaNCoord())
	b.validity.append(false)
	b.n++
	return nil
}

// Finish returns the populated array.
func (b *RectBuilder) Finish() (*RectArray, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true
	if b.n != b.capacity.Geoms {
		return nil, mismatch(RectCapacity{Geoms: b.n}, b.capacity)
	}
	return &RectArray{
		base:  base{validity: b.validity.finish(), length: b.n, meta: b.meta},
		lower: b.lower,
		upper: b.upper,
	}, nil
}

func (b *RectBuilder) FinishArray() (Array, error) {
	arr, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return arr, nil
}
