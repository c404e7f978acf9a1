package geoarrow

import (
	"github.com/tingold/orb-geoarrow/geometry"
)

// LineStringArray stores rows as ranges of coordinates delimited by one
// level of offsets.
type LineStringArray struct {
	base
	coords      CoordBuffer
	geomOffsets []int32
}

func (a *LineStringArray) Kind() ArrayKind         { return KindLineString }
func (a *LineStringArray) Dim() geometry.Dimension { return a.coords.dim }
func (a *LineStringArray) CoordType() CoordType    { return a.coords.typ }
func (a *LineStringArray) ExtensionName() string   { return KindLineString.ExtensionName() }
func (a *LineStringArray) Coords() CoordBuffer     { return a.coords }

// GeomOffsets returns the len+1 coordinate offsets of the rows. The first
// entry is non-zero for a slice.
func (a *LineStringArray) GeomOffsets() []int32 { return a.geomOffsets }

// Value returns row i whether or not it is null.
func (a *LineStringArray) Value(i int) geometry.LineString {
	checkIndex(i, a.length)
	return a.value(i)
}

func (a *LineStringArray) value(i int) lineStringView {
	return lineStringView{coords: &a.coords, start: int(a.geomOffsets[i]), end: int(a.geomOffsets[i+1])}
}

func (a *LineStringArray) Get(i int) geometry.Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.value(i)
}

func (a *LineStringArray) Slice(offset, length int) Array {
	return &LineStringArray{
		base:        a.sliceBase(offset, length),
		coords:      a.coords,
		geomOffsets: a.geomOffsets[offset : offset+length+1],
	}
}

// LineStringBuilder populates a LineStringArray.
type LineStringBuilder struct {
	dim         geometry.Dimension
	capacity    LineStringCapacity
	used        LineStringCapacity
	meta        Metadata
	coords      CoordBuffer
	geomOffsets []int32
	validity    validityBuilder
	finished    bool
}

// NewLineStringBuilder allocates a builder sized exactly by capacity.
func NewLineStringBuilder(dim geometry.Dimension, capacity LineStringCapacity, opts *Options) (*LineStringBuilder, error) {
	if err := capacity.validate(); err != nil {
		return nil, err
	}
	opts = opts.orDefault()
	return &LineStringBuilder{
		dim:         dim,
		capacity:    capacity,
		meta:        opts.Metadata,
		coords:      newCoordBuffer(opts.Allocator, opts.CoordType, dim, capacity.Coords),
		geomOffsets: newOffsets(opts.Allocator, capacity.Geoms),
		validity:    newValidityBuilder(opts.Allocator, capacity.Geoms),
	}, nil
}

func (b *LineStringBuilder) Len() int { return b.used.Geoms }

// PushGeometry appends a linestring, or the only line of a one-part
// multilinestring.
func (b *LineStringBuilder) PushGeometry(g geometry.Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	out, err := prepare(b.finished, b.dim, geometry.KindLineString, g)
	if err != nil {
		return err
	}
	ls := out.(geometry.LineString)
	need := lineStringCapacityOf(ls)
	if !b.capacity.fits(b.used, need) {
		return exceeded(b.used, need, b.capacity)
	}
	b.used.Coords = writeLine(&b.coords, b.used.Coords, ls)
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Coords)
	b.validity.append(true)
	return nil
}

// PushNull appends a null row with an empty coordinate range.
func (b *LineStringBuilder) PushNull() error {
	if b.finished {
		return ErrBuilderFinished
	}
	need := LineStringCapacity{Geoms: 1}
	if !b.capacity.fits(b.used, need) {
		return exceeded(b.used, need, b.capacity)
	}
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Coords)
	b.validity.append(false)
	return nil
}

// Finish validates the offsets and returns the populated array.
func (b *LineStringBuilder) Finish() (*LineStringArray, error) {
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
	return &LineStringArray{
		base:        base{validity: b.validity.finish(), length: b.used.Geoms, meta: b.meta},
		coords:      b.coords,
		geomOffsets: b.geomOffsets,
	}, nil
}

func (b *LineStringBuilder) FinishArray() (Array, error) {
	arr, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return arr, nil
}
