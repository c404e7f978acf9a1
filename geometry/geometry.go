// Package geometry defines the read-only geometry views shared by the columnar
// arrays, the WKB codec and the adapters for other geometry libraries.
//
// A view never owns coordinates. Arrays hand out views that read straight from
// their coordinate buffers, and the WKB reader hands out views that decode
// ordinates from the original bytes on demand.
package geometry

import (
	"fmt"
	"math"
)

// Kind identifies the geometry type of a view. The numeric values of the
// OGC kinds match their WKB type codes.
type Kind uint8

const (
	KindUnknown            Kind = 0
	KindPoint              Kind = 1
	KindLineString         Kind = 2
	KindPolygon            Kind = 3
	KindMultiPoint         Kind = 4
	KindMultiLineString    Kind = 5
	KindMultiPolygon       Kind = 6
	KindGeometryCollection Kind = 7
	KindRect               Kind = 8
)

var kindNames = [...]string{
	KindUnknown:            "Unknown",
	KindPoint:              "Point",
	KindLineString:         "LineString",
	KindPolygon:            "Polygon",
	KindMultiPoint:         "MultiPoint",
	KindMultiLineString:    "MultiLineString",
	KindMultiPolygon:       "MultiPolygon",
	KindGeometryCollection: "GeometryCollection",
	KindRect:               "Rect",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Multi returns the multi-part counterpart of k. Multi kinds map to
// themselves; kinds without a counterpart return KindUnknown.
func (k Kind) Multi() Kind {
	switch k {
	case KindPoint, KindMultiPoint:
		return KindMultiPoint
	case KindLineString, KindMultiLineString:
		return KindMultiLineString
	case KindPolygon, KindMultiPolygon, KindRect:
		return KindMultiPolygon
	default:
		return KindUnknown
	}
}

// IsMulti reports whether k is one of the three multi-part kinds.
func (k Kind) IsMulti() bool {
	return k == KindMultiPoint || k == KindMultiLineString || k == KindMultiPolygon
}

// Dimension is the coordinate dimension of a geometry.
type Dimension uint8

const (
	XY Dimension = iota
	XYZ
	XYM
	XYZM
)

// Size returns the number of ordinates per coordinate.
func (d Dimension) Size() int {
	switch d {
	case XYZ, XYM:
		return 3
	case XYZM:
		return 4
	default:
		return 2
	}
}

// HasZ reports whether coordinates carry a Z ordinate.
func (d Dimension) HasZ() bool { return d == XYZ || d == XYZM }

// HasM reports whether coordinates carry an M ordinate.
func (d Dimension) HasM() bool { return d == XYM || d == XYZM }

func (d Dimension) String() string {
	switch d {
	case XY:
		return "XY"
	case XYZ:
		return "XYZ"
	case XYM:
		return "XYM"
	case XYZM:
		return "XYZM"
	default:
		return fmt.Sprintf("Dimension(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the four known dimensions.
func (d Dimension) Valid() bool { return d <= XYZM }

// Coord is a single coordinate. Ordinates not covered by the owning
// geometry's Dimension are zero.
type Coord struct {
	X, Y, Z, M float64
}

// Ordinate returns the i-th stored ordinate of c under dimension d, in
// storage order (x, y, then z and/or m).
func (c Coord) Ordinate(d Dimension, i int) float64 {
	switch i {
	case 0:
		return c.X
	case 1:
		return c.Y
	case 2:
		if d == XYM {
			return c.M
		}
		return c.Z
	case 3:
		return c.M
	}
	panic(fmt.Sprintf("geometry: ordinate %d out of range for %s", i, d))
}

// SetOrdinate is the inverse of Ordinate.
func (c *Coord) SetOrdinate(d Dimension, i int, v float64) {
	switch i {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	case 2:
		if d == XYM {
			c.M = v
		} else {
			c.Z = v
		}
	case 3:
		c.M = v
	default:
		panic(fmt.Sprintf("geometry: ordinate %d out of range for %s", i, d))
	}
}

// NaNCoord returns a coordinate whose ordinates are all NaN. Columnar point
// storage and WKB use it to represent an empty point.
func NaNCoord() Coord {
	nan := math.NaN()
	return Coord{X: nan, Y: nan, Z: nan, M: nan}
}

// IsNaN reports whether every ordinate of c stored under d is NaN.
func (c Coord) IsNaN(d Dimension) bool {
	for i := 0; i < d.Size(); i++ {
		if !math.IsNaN(c.Ordinate(d, i)) {
			return false
		}
	}
	return true
}

// Equal compares the ordinates stored under d. NaN equals NaN.
func (c Coord) Equal(o Coord, d Dimension) bool {
	for i := 0; i < d.Size(); i++ {
		a, b := c.Ordinate(d, i), o.Ordinate(d, i)
		if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
			return false
		}
	}
	return true
}

// Geometry is implemented by every view. Kind selects which of the kind
// interfaces below the value also implements.
type Geometry interface {
	Kind() Kind
	Dim() Dimension
}

// Point is a single position. Coord returns false for an empty point.
type Point interface {
	Geometry
	Coord() (Coord, bool)
}

// LineString is an ordered sequence of coordinates. Polygon rings are
// exposed as LineStrings.
type LineString interface {
	Geometry
	NumCoords() int
	CoordAt(i int) Coord
}

// Polygon is an exterior ring followed by interior rings. A polygon with
// zero rings is empty.
type Polygon interface {
	Geometry
	NumRings() int
	RingAt(i int) LineString
}

type MultiPoint interface {
	Geometry
	NumPoints() int
	PointAt(i int) Point
}

type MultiLineString interface {
	Geometry
	NumLineStrings() int
	LineStringAt(i int) LineString
}

type MultiPolygon interface {
	Geometry
	NumPolygons() int
	PolygonAt(i int) Polygon
}

// Rect is an axis-aligned box.
type Rect interface {
	Geometry
	Min() Coord
	Max() Coord
}

type GeometryCollection interface {
	Geometry
	NumGeometries() int
	GeometryAt(i int) Geometry
}
