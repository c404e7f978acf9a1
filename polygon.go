package geoarrow

import (
	"github.com/tingold/orb-geoarrow/geometry"
)

// PolygonArray stores rows as ranges of rings, each ring a range of
// coordinates.
type PolygonArray struct {
	base
	coords      CoordBuffer
	geomOffsets []int32
	ringOffsets []int32
}

func (a *PolygonArray) Kind() ArrayKind         { return KindPolygon }
func (a *PolygonArray) Dim() geometry.Dimension { return a.coords.dim }
func (a *PolygonArray) CoordType() CoordType    { return a.coords.typ }
func (a *PolygonArray) ExtensionName() string   { return KindPolygon.ExtensionName() }
func (a *PolygonArray) Coords() CoordBuffer     { return a.coords }
func (a *PolygonArray) GeomOffsets() []int32    { return a.geomOffsets }
func (a *PolygonArray) RingOffsets() []int32    { return a.ringOffsets }

// Value returns row i whether or not it is null.
func (a *PolygonArray) Value(i int) geometry.Polygon {
	checkIndex(i, a.length)
	return a.value(i)
}

func (a *PolygonArray) value(i int) polygonView {
	return polygonView{coords: &a.coords, rings: a.ringOffsets[a.geomOffsets[i] : a.geomOffsets[i+1]+1]}
}

func (a *PolygonArray) Get(i int) geometry.Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.value(i)
}

func (a *PolygonArray) Slice(offset, length int) Array {
	return &PolygonArray{
		base:        a.sliceBase(offset, length),
		coords:      a.coords,
		geomOffsets: a.geomOffsets[offset : offset+length+1],
		ringOffsets: a.ringOffsets,
	}
}

// PolygonBuilder populates a PolygonArray.
type PolygonBuilder struct {
	dim         geometry.Dimension
	capacity    PolygonCapacity
	used        PolygonCapacity
	meta        Metadata
	coords      CoordBuffer
	geomOffsets []int32
	ringOffsets []int32
	validity    validityBuilder
	finished    bool
}

// NewPolygonBuilder allocates a builder sized exactly by capacity.
func NewPolygonBuilder(dim geometry.Dimension, capacity PolygonCapacity, opts *Options) (*PolygonBuilder, error) {
	if err := capacity.validate(); err != nil {
		return nil, err
	}
	opts = opts.orDefault()
	return &PolygonBuilder{
		dim:         dim,
		capacity:    capacity,
		meta:        opts.Metadata,
		coords:      newCoordBuffer(opts.Allocator, opts.CoordType, dim, capacity.Coords),
		geomOffsets: newOffsets(opts.Allocator, capacity.Geoms),
		ringOffsets: newOffsets(opts.Allocator, capacity.Rings),
		validity:    newValidityBuilder(opts.Allocator, capacity.Geoms),
	}, nil
}

func (b *PolygonBuilder) Len() int { return b.used.Geoms }

// PushGeometry appends a polygon, an XY rect as its closed ring, or the only
// polygon of a one-part multipolygon.
func (b *PolygonBuilder) PushGeometry(g geometry.Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	out, err := prepare(b.finished, b.dim, geometry.KindPolygon, g)
	if err != nil {
		return err
	}
	p := out.(geometry.Polygon)
	need := polygonCapacityOf(p)
	if !b.capacity.fits(b.used, need) {
		return exceeded(b.used, need, b.capacity)
	}
	b.used.Coords, b.used.Rings = writePolygon(&b.coords, b.ringOffsets, b.used.Coords, b.used.Rings, p)
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Rings)
	b.validity.append(true)
	return nil
}

// PushNull appends a null row with an empty ring range.
func (b *PolygonBuilder) PushNull() error {
	if b.finished {
		return ErrBuilderFinished
	}
	need := PolygonCapacity{Geoms: 1}
	if !b.capacity.fits(b.used, need) {
		return exceeded(b.used, need, b.capacity)
	}
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Rings)
	b.validity.append(false)
	return nil
}

// Finish validates both offset levels and returns the populated array.
func (b *PolygonBuilder) Finish() (*PolygonArray, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true
	if b.used != b.capacity {
		return nil, mismatch(b.used, b.capacity)
	}
	if err := validateOffsets("geometry", b.geomOffsets, b.used.Rings); err != nil {
		return nil, err
	}
	if err := validateOffsets("ring", b.ringOffsets, b.used.Coords); err != nil {
		return nil, err
	}
	return &PolygonArray{
		base:        base{validity: b.validity.finish(), length: b.used.Geoms, meta: b.meta},
		coords:      b.coords,
		geomOffsets: b.geomOffsets,
		ringOffsets: b.ringOffsets,
	}, nil
}

func (b *PolygonBuilder) FinishArray() (Array, error) {
	arr, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return arr, nil
}
