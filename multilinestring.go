package geoarrow

import (
	"github.com/tingold/orb-geoarrow/geometry"
)

// MultiLineStringArray stores rows as ranges of lines, each line a range of
// coordinates.
type MultiLineStringArray struct {
	base
	coords      CoordBuffer
	geomOffsets []int32
	lineOffsets []int32
}

func (a *MultiLineStringArray) Kind() ArrayKind         { return KindMultiLineString }
func (a *MultiLineStringArray) Dim() geometry.Dimension { return a.coords.dim }
func (a *MultiLineStringArray) CoordType() CoordType    { return a.coords.typ }
func (a *MultiLineStringArray) ExtensionName() string   { return KindMultiLineString.ExtensionName() }
func (a *MultiLineStringArray) Coords() CoordBuffer     { return a.coords }
func (a *MultiLineStringArray) GeomOffsets() []int32    { return a.geomOffsets }
func (a *MultiLineStringArray) LineOffsets() []int32    { return a.lineOffsets }

// Value returns row i whether or not it is null.
func (a *MultiLineStringArray) Value(i int) geometry.MultiLineString {
	checkIndex(i, a.length)
	return a.value(i)
}

func (a *MultiLineStringArray) value(i int) multiLineStringView {
	return multiLineStringView{coords: &a.coords, lines: a.lineOffsets[a.geomOffsets[i] : a.geomOffsets[i+1]+1]}
}

func (a *MultiLineStringArray) Get(i int) geometry.Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.value(i)
}

func (a *MultiLineStringArray) Slice(offset, length int) Array {
	return &MultiLineStringArray{
		base:        a.sliceBase(offset, length),
		coords:      a.coords,
		geomOffsets: a.geomOffsets[offset : offset+length+1],
		lineOffsets: a.lineOffsets,
	}
}

// MultiLineStringBuilder populates a MultiLineStringArray.
type MultiLineStringBuilder struct {
	dim         geometry.Dimension
	capacity    MultiLineStringCapacity
	used        MultiLineStringCapacity
	meta        Metadata
	coords      CoordBuffer
	geomOffsets []int32
	lineOffsets []int32
	validity    validityBuilder
	finished    bool
}

// NewMultiLineStringBuilder allocates a builder sized exactly by capacity.
func NewMultiLineStringBuilder(dim geometry.Dimension, capacity MultiLineStringCapacity, opts *Options) (*MultiLineStringBuilder, error) {
	if err := capacity.validate(); err != nil {
		return nil, err
	}
	opts = opts.orDefault()
	return &MultiLineStringBuilder{
		dim:         dim,
		capacity:    capacity,
		meta:        opts.Metadata,
		coords:      newCoordBuffer(opts.Allocator, opts.CoordType, dim, capacity.Coords),
		geomOffsets: newOffsets(opts.Allocator, capacity.Geoms),
		lineOffsets: newOffsets(opts.Allocator, capacity.Lines),
		validity:    newValidityBuilder(opts.Allocator, capacity.Geoms),
	}, nil
}

func (b *MultiLineStringBuilder) Len() int { return b.used.Geoms }

// PushGeometry appends a multilinestring, or a linestring as a one-part
// multilinestring.
func (b *MultiLineStringBuilder) PushGeometry(g geometry.Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	out, err := prepare(b.finished, b.dim, geometry.KindMultiLineString, g)
	if err != nil {
		return err
	}
	ml := out.(geometry.MultiLineString)
	need := multiLineStringCapacityOf(ml)
	if !b.capacity.fits(b.used, need) {
		return exceeded(b.used, need, b.capacity)
	}
	for i := 0; i < need.Lines; i++ {
		b.used.Coords = writeLine(&b.coords, b.used.Coords, ml.LineStringAt(i))
		b.used.Lines++
		b.lineOffsets[b.used.Lines] = int32(b.used.Coords)
	}
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Lines)
	b.validity.append(true)
	return nil
}

// PushNull appends a null row with an empty line range.
func (b *MultiLineStringBuilder) PushNull() error {
	if b.finished {
		return ErrBuilderFinished
	}
	need := MultiLineStringCapacity{Geoms: 1}
	if !b.capacity.fits(b.used, need) {
		return exceeded(b.used, need, b.capacity)
	}
	b.used.Geoms++
	b.geomOffsets[b.used.Geoms] = int32(b.used.Lines)
	b.validity.append(false)
	return nil
}

// Finish validates both offset levels and returns the populated array.
func (b *MultiLineStringBuilder) Finish() (*MultiLineStringArray, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true
	if b.used != b.capacity {
		return nil, mismatch(b.used, b.capacity)
	}
	if err := validateOffsets("geometry", b.geomOffsets, b.used.Lines); err != nil {
		return nil, err
	}
	if err := validateOffsets("line", b.lineOffsets, b.used.Coords); err != nil {
		return nil, err
	}
	return &MultiLineStringArray{
		base:        base{validity: b.validity.finish(), length: b.used.Geoms, meta: b.meta},
		coords:      b.coords,
		geomOffsets: b.geomOffsets,
		lineOffsets: b.lineOffsets,
	}, nil
}

func (b *MultiLineStringBuilder) FinishArray() (Array, error) {
	arr, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return arr, nil
}
