package geoarrow

import (
	"github.com/tingold/orb-geoarrow/geometry"
)

// MultiPolygonArray stores rows as ranges of polygons, polygons as ranges of
// rings and rings as ranges of coordinates.
type MultiPolygonArray struct {
	base
	coords         CoordBuffer
	geomOffsets    []int32
	polygonOffsets []int32
	ringOffsets    []int32
}

func (a *MultiPolygonArray) Kind() ArrayKind         { return KindMultiPolygon }
func (a *MultiPolygonArray) Dim() geometry.Dimension { return a.coords.dim }
func (a *MultiPolygonArray) CoordType() CoordType    { return a.coords.typ }
func (a *MultiPolygonArray) ExtensionName() string   { return KindMultiPolygon.ExtensionName() }
func (a *MultiPolygonArray) Coords() CoordBuffer     { return a.coords }
func (a *MultiPolygonArray) GeomOffsets() []int32    { return a.geomOffsets }
func (a *MultiPolygonArray) PolygonOffsets() []int32 { return a.polygonOffsets }
func (a *MultiPolygonArray) RingOffsets() []int32    { return a.ringOffsets }

// Value returns row i whether or not it is null.
func (a *MultiPolygonArray) Value(i int) geometry.MultiPolygon {
	checkIndex(i, a.length)
	return a.value(i)
}

func (a *MultiPolygonArray) value(i int) multiPolygonView {
	return multiPolygonView{
		coords:   &a.coords,
		polygons: a.polygonOffsets[a.geomOffsets[i] : a.geomOffsets[i+1]+1],
		rings:    a.ringOffsets,
	}
}

func (a *MultiPolygonArray) Get(i int) geometry.Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.value(i)
}

func (a *MultiPolygonArray) Slice(offset, length int) Array {
	return &MultiPolygonArray{
		base:           a.sliceBase(offset, length),
		coords:         a.coords,
		geomOffsets:    a.geomOffsets[offset : offset+length+1],
		polygonOffsets: a.polygonOffsets,
		ringOffsets:    a.ringOffsets,
	}
}

// MultiPolygonBuilder populates a MultiPolygonArray.
type MultiPolygonBuilder struct {
	dim            geometry.Dimension
	capacity       MultiPolygonCapacity
	used           MultiPolygonCapacity
	meta           Metadata
	coords         CoordBuffer
	geomOffsets    []int32
	polygonOffsets []int32
	ringOffsets    []int32
	validity       validityBuilder
	finished       bool
}

// NewMultiPolygonBuilder allocates a builder sized exactly by capacity.
func NewMultiPolygonBuilder(dim geometry.Dimension, capacity MultiPolygonCapacity, opts *Options) (*MultiPolygonBuilder, error) {
	if err := capacity.validate(); err != nil {
		return nil, err
	}
	opts = opts.orDefault()
	return &MultiPolygonBuilder{
		dim:            dim,
		capacity:       capacity,
		meta:           opts.Metadata,
		coords:         newCoordBuffer(opts.Allocator, opts.CoordType, dim, capacity.Coords),
		geomOffsets:    newOffsets(opts.Allocator, capacity.Geoms),
		polygonOffsets: newOffsets(opts.Allocator, capacity.Polygons),
		ringOffsets:    newOffsets(opts.Allocator, capacity.Rings),
		validity:       newValidityBuilder(opts.Allocator, capacity.Geoms),
	}, nil
}

func (b *MultiPolygonBuilder) Len() int { return b.used.Geoms }

// PushGeometry appends a multipolygon, or a polygon or XY rect as a
// one-part multipolygon.
func (b *MultiPolygonBuilder) PushGeometry(g geometry.Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	out, err := prepare(b.finished, b.dim, geometry.KindMultiPolygon, g)
	if err != nil {
		return err
	}
	mp := out.(geometry.MultiPolygon)
	need := multiPolygonCapacityOf(mp)
	if !b.capacity.fits(b.used, need) {
		return exceeded(b.used, need, b.capacity)
	}
	for i := 0; i < need.Polygons; i++ {
		b.used.Coords, b.used.Rings = writePolygon(&b.coords, b.ringOffsets, b.used.Coords, b.used.Rings, mp.PolygonAt(i))
		b.used.Polygons++
		b.polygonOffsets[b.used.Polygons] = int32(b.used.Rings)
	}
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Polygons)
	b.validity.append(true)
	return nil
}

// PushNull appends a null row with an empty polygon range.
func (b *MultiPolygonBuilder) PushNull() error {
	if b.finished {
		return ErrBuilderFinished
	}
	need := MultiPolygonCapacity{Geoms: 1}
	if !b.capacity.fits(b.used, need) {
		return exceeded(b.used, need, b.capacity)
	}
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Polygons)
	b.validity.append(false)
	return nil
}

// Finish validates all three offset levels and returns the populated array.
func (b *MultiPolygonBuilder) Finish() (*MultiPolygonArray, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true
	if b.used != b.capacity {
		return nil, mismatch(b.used, b.capacity)
	}
	if err := validateOffsets("geometry", b.geomOffsets, b.used.Polygons); err != nil {
		return nil, err
	}
	if err := validateOffsets("polygon", b.polygonOffsets, b.used.Rings); err != nil {
		return nil, err
	}
	if err := validateOffsets("ring", b.ringOffsets, b.used.Coords); err != nil {
		return nil, err
	}
	return &MultiPolygonArray{
		base:           base{validity: b.validity.finish(), length: b.used.Geoms, meta: b.meta},
		coords:         b.coords,
		geomOffsets:    b.geomOffsets,
		polygonOffsets: b.polygonOffsets,
		ringOffsets:    b.ringOffsets,
	}, nil
}

func (b *MultiPolygonBuilder) FinishArray() (Array, error) {
	arr, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return arr, nil
}
