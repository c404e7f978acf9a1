package geoarrow

import (
	"fmt"

	"github.com/tingold/orb-geoarrow/geometry"
)

// TypeID returns the union type id a mixed array records for a row stored
// in the child of kind k: the WKB kind code plus ten times the dimension
// index (XY 0, XYZ 1, XYM 2, XYZM 3).
func TypeID(k geometry.Kind, d geometry.Dimension) int8 {
	return int8(k) + 10*int8(d)
}

// MixedArray stores rows of different kinds. Each row records a type id
// and an index into the child array of that kind; children exist only for
// kinds that were actually pushed. Null rows are null rows of the point
// child, or of the multipoint child when PreferMulti is set.
type MixedArray struct {
	base
	dim         geometry.Dimension
	coordType   CoordType
	preferMulti bool
	typeIDs     []int8
	childIdx    []int32

	points           *PointArray
	lineStrings      *LineStringArray
	polygons         *PolygonArray
	multiPoints      *MultiPointArray
	multiLineStrings *MultiLineStringArray
	multiPolygons    *MultiPolygonArray
}

func (a *MixedArray) Kind() ArrayKind         { return KindMixed }
func (a *MixedArray) Dim() geometry.Dimension { return a.dim }
func (a *MixedArray) CoordType() CoordType    { return a.coordType }
func (a *MixedArray) ExtensionName() string   { return KindMixed.ExtensionName() }
func (a *MixedArray) PreferMulti() bool       { return a.preferMulti }
func (a *MixedArray) TypeIDs() []int8         { return a.typeIDs }
func (a *MixedArray) ChildOffsets() []int32   { return a.childIdx }

// Children; nil when no row of that kind was pushed.
func (a *MixedArray) Points() *PointArray                     { return a.points }
func (a *MixedArray) LineStrings() *LineStringArray           { return a.lineStrings }
func (a *MixedArray) Polygons() *PolygonArray                 { return a.polygons }
func (a *MixedArray) MultiPoints() *MultiPointArray           { return a.multiPoints }
func (a *MixedArray) MultiLineStrings() *MultiLineStringArray { return a.multiLineStrings }
func (a *MixedArray) MultiPolygons() *MultiPolygonArray       { return a.multiPolygons }

// children returns the non-nil children in kind order.
func (a *MixedArray) children() []Array {
	var out []Array
	if a.points != nil {
		out = append(out, a.points)
	}
	if a.lineStrings != nil {
		out = append(out, a.lineStrings)
	}
	if a.polygons != nil {
		out = append(out, a.polygons)
	}
	if a.multiPoints != nil {
		out = append(out, a.multiPoints)
	}
	if a.multiLineStrings != nil {
		out = append(out, a.multiLineStrings)
	}
	if a.multiPolygons != nil {
		out = append(out, a.multiPolygons)
	}
	return out
}

func (a *MixedArray) childOf(id int8) Array {
	for _, c := range a.children() {
		if c.Kind() == ArrayKind(id%10) {
			return c
		}
	}
	return nil
}

// KindOf returns the kind of the child row i is stored in.
func (a *MixedArray) KindOf(i int) geometry.Kind {
	checkIndex(i, a.length)
	return geometry.Kind(a.typeIDs[i] % 10)
}

func (a *MixedArray) Get(i int) geometry.Geometry {
	if !a.IsValid(i) {
		return nil
	}
	j := int(a.childIdx[i])
	switch geometry.Kind(a.typeIDs[i] % 10) {
	case geometry.KindPoint:
		return a.points.Get(j)
	case geometry.KindLineString:
		return a.lineStrings.Get(j)
	case geometry.KindPolygon:
		return a.polygons.Get(j)
	case geometry.KindMultiPoint:
		return a.multiPoints.Get(j)
	case geometry.KindMultiLineString:
		return a.multiLineStrings.Get(j)
	case geometry.KindMultiPolygon:
		return a.multiPolygons.Get(j)
	}
	panic(fmt.Sprintf("geoarrow: corrupt type id %d at row %d", a.typeIDs[i], i))
}

func (a *MixedArray) Slice(offset, length int) Array {
	s := *a
	s.base = a.sliceBase(offset, length)
	s.typeIDs = a.typeIDs[offset : offset+length]
	s.childIdx = a.childIdx[offset : offset+length]
	return &s
}

// MixedBuilder populates a MixedArray. The prefer-multi policy comes from
// the capacity it was sized with.
type MixedBuilder struct {
	dim       geometry.Dimension
	capacity  MixedCapacity
	meta      Metadata
	coordType CoordType
	typeIDs   []int8
	childIdx  []int32
	validity  validityBuilder
	n         int
	finished  bool

	points           *PointBuilder
	lineStrings      *LineStringBuilder
	polygons         *PolygonBuilder
	multiPoints      *MultiPointBuilder
	multiLineStrings *MultiLineStringBuilder
	multiPolygons    *MultiPolygonBuilder
}

// NewMixedBuilder allocates the row buffers and one child builder per kind
// with a non-zero row capacity.
func NewMixedBuilder(dim geometry.Dimension, capacity MixedCapacity, opts *Options) (*MixedBuilder, error) {
	if err := capacity.validate(); err != nil {
		return nil, err
	}
	opts = opts.orDefault()
	b := &MixedBuilder{
		dim:       dim,
		capacity:  capacity,
		meta:      opts.Metadata,
		coordType: opts.CoordType,
		typeIDs:   allocInt8(opts.Allocator, capacity.Geoms),
		childIdx:  allocInt32(opts.Allocator, capacity.Geoms),
		validity:  newValidityBuilder(opts.Allocator, capacity.Geoms),
	}
	// Child capacities passed validate above.
	if capacity.Point.Geoms > 0 {
		b.points, _ = NewPointBuilder(dim, capacity.Point, opts)
	}
	if capacity.LineString.Geoms > 0 {
		b.lineStrings, _ = NewLineStringBuilder(dim, capacity.LineString, opts)
	}
	if capacity.Polygon.Geoms > 0 {
		b.polygons, _ = NewPolygonBuilder(dim, capacity.Polygon, opts)
	}
	if capacity.MultiPoint.Geoms > 0 {
		b.multiPoints, _ = NewMultiPointBuilder(dim, capacity.MultiPoint, opts)
	}
	if capacity.MultiLineString.Geoms > 0 {
		b.multiLineStrings, _ = NewMultiLineStringBuilder(dim, capacity.MultiLineString, opts)
	}
	if capacity.MultiPolygon.Geoms > 0 {
		b.multiPolygons, _ = NewMultiPolygonBuilder(dim, capacity.MultiPolygon, opts)
	}
	return b, nil
}

func (b *MixedBuilder) Len() int { return b.n }

func (b *MixedBuilder) child(k geometry.Kind) Builder {
	switch k {
	case geometry.KindPoint:
		if b.points != nil {
			return b.points
		}
	case geometry.KindLineString:
		if b.lineStrings != nil {
			return b.lineStrings
		}
	case geometry.KindPolygon:
		if b.polygons != nil {
			return b.polygons
		}
	case geometry.KindMultiPoint:
		if b.multiPoints != nil {
			return b.multiPoints
		}
	case geometry.KindMultiLineString:
		if b.multiLineStrings != nil {
			return b.multiLineStrings
		}
	case geometry.KindMultiPolygon:
		if b.multiPolygons != nil {
			return b.multiPolygons
		}
	}
	return nil
}

// PushGeometry routes g to its child. Rects go to the polygon child, and
// singular kinds go to their multi child when PreferMulti is set.
func (b *MixedBuilder) PushGeometry(g geometry.Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	if b.finished {
		return ErrBuilderFinished
	}
	k, err := mixedChild(g.Kind(), b.capacity.PreferMulti)
	if err != nil {
		return err
	}
	return b.push(k, true, func(c Builder) error { return c.PushGeometry(g) })
}

func (b *MixedBuilder) PushNull() error {
	if b.finished {
		return ErrBuilderFinished
	}
	k := geometry.KindPoint
	if b.capacity.PreferMulti {
		k = geometry.KindMultiPoint
	}
	return b.push(k, false, func(c Builder) error { return c.PushNull() })
}

func (b *MixedBuilder) push(k geometry.Kind, valid bool, fn func(Builder) error) error {
	c := b.child(k)
	if b.n >= b.capacity.Geoms || c == nil {
		return fmt.Errorf("%w: no room for another %s row (%d of %d rows used)", ErrCapacityExceeded, k, b.n, b.capacity.Geoms)
	}
	idx := c.Len()
	if err := fn(c); err != nil {
		return err
	}
	b.typeIDs[b.n] = TypeID(k, b.dim)
	b.childIdx[b.n] = int32(idx)
	b.validity.append(valid)
	b.n++
	return nil
}

// Finish finishes every child and returns the populated array.
func (b *MixedBuilder) Finish() (*MixedArray, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true
	if b.n != b.capacity.Geoms {
		return nil, fmt.Errorf("%w: %d rows used, %d reserved", ErrCapacityMismatch, b.n, b.capacity.Geoms)
	}
	a := &MixedArray{
		base:        base{validity: b.validity.finish(), length: b.n, meta: b.meta},
		dim:         b.dim,
		coordType:   b.coordType,
		preferMulti: b.capacity.PreferMulti,
		typeIDs:     b.typeIDs,
		childIdx:    b.childIdx,
	}
	var err error
	if b.points != nil {
		if a.points, err = b.points.Finish(); err != nil {
			return nil, err
		}
	}
	if b.lineStrings != nil {
		if a.lineStrings, err = b.lineStrings.Finish(); err != nil {
			return nil, err
		}
	}
	if b.polygons != nil {
		if a.polygons, err = b.polygons.Finish(); err != nil {
			return nil, err
		}
	}
	if b.multiPoints != nil {
		if a.multiPoints, err = b.multiPoints.Finish(); err != nil {
			return nil, err
		}
	}
	if b.multiLineStrings != nil {
		if a.multiLineStrings, err = b.multiLineStrings.Finish(); err != nil {
			return nil, err
		}
	}
	if b.multiPolygons != nil {
		if a.multiPolygons, err = b.multiPolygons.Finish(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (b *MixedBuilder) FinishArray() (Array, error) {
	arr, err := b.Finish()
	if err != nil {
		return nil, err
	}
	return arr, nil
}
