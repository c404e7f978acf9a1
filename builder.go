package geoarrow

import (
	"fmt"

	"github.com/tingold/orb-geoarrow/geometry"
)

// Builder is the populate half of the builder protocol. Builders are
// created from a finished survey, allocate every buffer once in their
// constructor and never grow. A push that fails leaves the builder exactly
// as it was, so the caller may skip the geometry and carry on. Builders are
// not safe for concurrent use.
type Builder interface {
	// PushGeometry appends g, or a null row when g is nil.
	PushGeometry(g geometry.Geometry) error
	PushNull() error
	// Len returns the number of rows pushed so far.
	Len() int
	// FinishArray validates the populated buffers and returns the array.
	// The builder cannot be used afterwards.
	FinishArray() (Array, error)
}

// NewBuilder returns a builder of kind sized by capacity, which must be the
// matching capacity type from NewCapacity.
func NewBuilder(kind ArrayKind, dim geometry.Dimension, capacity Capacity, opts *Options) (Builder, error) {
	if !dim.Valid() {
		return nil, fmt.Errorf("%w: invalid dimension %d", ErrDimensionMismatch, dim)
	}
	switch c := capacity.(type) {
	case *PointCapacity:
		if kind == KindPoint {
			return asBuilder(NewPointBuilder(dim, *c, opts))
		}
	case *LineStringCapacity:
		if kind == KindLineString {
			return asBuilder(NewLineStringBuilder(dim, *c, opts))
		}
	case *PolygonCapacity:
		if kind == KindPolygon {
			return asBuilder(NewPolygonBuilder(dim, *c, opts))
		}
	case *MultiPointCapacity:
		if kind == KindMultiPoint {
			return asBuilder(NewMultiPointBuilder(dim, *c, opts))
		}
	case *MultiLineStringCapacity:
		if kind == KindMultiLineString {
			return asBuilder(NewMultiLineStringBuilder(dim, *c, opts))
		}
	case *MultiPolygonCapacity:
		if kind == KindMultiPolygon {
			return asBuilder(NewMultiPolygonBuilder(dim, *c, opts))
		}
	case *RectCapacity:
		if kind == KindRect {
			return asBuilder(NewRectBuilder(dim, *c, opts))
		}
	case *MixedCapacity:
		if kind == KindMixed {
			return asBuilder(NewMixedBuilder(dim, *c, opts))
		}
	}
	return nil, fmt.Errorf("%w: %T cannot size a %s builder", ErrTypeMismatch, capacity, kind)
}

func asBuilder[B Builder](b B, err error) (Builder, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

// prepare runs the checks every push shares and returns g coerced to k.
func prepare(finished bool, dim geometry.Dimension, k geometry.Kind, g geometry.Geometry) (geometry.Geometry, error) {
	if finished {
		return nil, ErrBuilderFinished
	}
	out, err := coerce(k, g)
	if err != nil {
		return nil, err
	}
	if g.Dim() != dim {
		return nil, fmt.Errorf("%w: %s geometry in a %s array", ErrDimensionMismatch, g.Dim(), dim)
	}
	return out, nil
}

func exceeded(used, need, reserved any) error {
	return fmt.Errorf("%w: used %+v, need %+v, reserved %+v", ErrCapacityExceeded, used, need, reserved)
}

func mismatch(used, reserved any) error {
	return fmt.Errorf("%w: used %+v, reserved %+v", ErrCapacityMismatch, used, reserved)
}

// writeLine copies the coordinates of ls into dst starting at slot at and
// returns the next free slot.
func writeLine(dst *CoordBuffer, at int, ls geometry.LineString) int {
	n := ls.NumCoords()
	for i := 0; i < n; i++ {
		dst.set(at+i, ls.CoordAt(i))
	}
	return at + n
}

// writePolygon copies the rings of p into dst and records each ring end in
// ringOffsets[ring+1:]. It returns the next free coordinate slot and ring.
func writePolygon(dst *CoordBuffer, ringOffsets []int32, at, ring int, p geometry.Polygon) (int, int) {
	for i := 0; i < p.NumRings(); i++ {
		at = writeLine(dst, at, p.RingAt(i))
		ring++
		ringOffsets[ring] = int32(at)
	}
	return at, ring
}
