package geoarrow

import (
	"github.com/tingold/orb-geoarrow/geometry"
)

// MultiPointArray stores rows as ranges of points.
type MultiPointArray struct {
	base
	coords      CoordBuffer
	geomOffsets []int32
}

func (a *MultiPointArray) Kind() ArrayKind         { return KindMultiPoint }
func (a *MultiPointArray) Dim() geometry.Dimension { return a.coords.dim }
func (a *MultiPointArray) CoordType() CoordType    { return a.coords.typ }
func (a *MultiPointArray) ExtensionName() string   { return KindMultiPoint.ExtensionName() }
func (a *MultiPointArray) Coords() CoordBuffer     { return a.coords }
func (a *MultiPointArray) GeomOffsets() []int32    { return a.geomOffsets }

// Value returns row i whether or not it is null.
func (a *MultiPointArray) Value(i int) geometry.MultiPoint {
	checkIndex(i, a.length)
	return a.value(i)
}

func (a *MultiPointArray) value(i int) multiPointView {
	return multiPointView{coords: &a.coords, start: int(a.geomOffsets[i]), end: int(a.geomOffsets[i+1])}
}

func (a *MultiPointArray) Get(i int) geometry.Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.value(i)
}

func (a *MultiPointArray) Slice(offset, length int) Array {
	return &MultiPointArray{
		base:        a.sliceBase(offset, length),
		coords:      a.coords,
		geomOffsets: a.geomOffsets[offset : offset+length+1],
	}
}

// MultiPointBuilder populates a MultiPointArray.
type MultiPointBuilder struct {
	dim         geometry.Dimension
	capacity    MultiPointCapacity
	used        MultiPointCapacity
	meta        Metadata
	coords      CoordBuffer
	geomOffsets []int32
	validity    validityBuilder
	finished    bool
}

// NewMultiPointBuilder allocates a builder sized exactly by capacity.
func NewMultiPointBuilder(dim geometry.Dimension, capacity MultiPointCapacity, opts *Options) (*MultiPointBuilder, error) {
	if err := capacity.validate(); err != nil {
		return nil, err
	}
	opts = opts.orDefault()
	return &MultiPointBuilder{
		dim:         dim,
		capacity:    capacity,
		meta:        opts.Metadata,
		coords:      newCoordBuffer(opts.Allocator, opts.CoordType, dim, capacity.Coords),
		geomOffsets: newOffsets(opts.Allocator, capacity.Geoms),
		validity:    newValidityBuilder(opts.Allocator, capacity.Geoms),
	}, nil
}

func (b *MultiPointBuilder) Len() int { return b.used.Geoms }

func (b *MultiPointBuilder) fits(need MultiPointCapacity) bool {
	return b.used.Coords+need.Coords <= b.capacity.Coords && b.used.Geoms+need.Geoms <= b.capacity.Geoms
}

// PushGeometry appends a multipoint, or a point as a one-part multipoint.
// Empty member points are stored as NaN ordinates.
func (b *MultiPointBuilder) PushGeometry(g geometry.Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	out, err := prepare(b.finished, b.dim, geometry.KindMultiPoint, g)
	if err != nil {
		return err
	}
	mp := out.(geometry.MultiPoint)
	need := MultiPointCapacity{Coords: mp.NumPoints(), Geoms: 1}
	if !b.fits(need) {
		return exceeded(b.used, need, b.capacity)
	}
	for i := 0; i < need.Coords; i++ {
		c, ok := mp.PointAt(i).Coord()
		if !ok {
			c = geometry.NaNCoord()
		}
		b.coords.set(b.used.Coords, c)
		b.used.Coords++
	}
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Coords)
	b.validity.append(true)
	return nil
}

// PushNull appends a null row with an empty point range.
func (b *MultiPointBuilder) PushNull() error {
	if b.finished {
		return ErrBuilderFinished
	}
	need := MultiPointCapacity{Geoms: 1}
	if !b.fits(need) {
		return exceeded(b.used, need, b.capacity)
	}
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Coords)
	b.validity.append(false)
	return nil
}

// Finish validates the offsets and returns the populated array.
func (b *MultiPointBuilder) Finish() (*MultiPointArray, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true
	if b.used != b.capacity {
		return nil, mismatch(b.used, b.capacity)
	}
	if err := validateOffsets("geometry", b.geomOffsets, b.used.Coords); err != nil {
		return nil, err
	}
	return &MultiPointArray{
		base:        base{validity: b.validity.finish(), length: b.used.Geoms, meta: b.meta},
		coords:      b.coords,
		geomOffsets: b.geomOffsets,
	}, nil
}

func (b *MultiPointBuilder) FinishArray() (Array, error) {
	arr, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return arr, nil
}
