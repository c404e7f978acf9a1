package geoarrow

import (
	"fmt"

	"github.com/tingold/orb-geoarrow/geometry"
)

// ArrayKind is the logical type of an array. The homogeneous kinds share
// their numeric values with geometry.Kind.
type ArrayKind uint8

const (
	KindPoint           = ArrayKind(geometry.KindPoint)
	KindLineString      = ArrayKind(geometry.KindLineString)
	KindPolygon         = ArrayKind(geometry.KindPolygon)
	KindMultiPoint      = ArrayKind(geometry.KindMultiPoint)
	KindMultiLineString = ArrayKind(geometry.KindMultiLineString)
	KindMultiPolygon    = ArrayKind(geometry.KindMultiPolygon)
	KindRect            = ArrayKind(geometry.KindRect)
	KindMixed           ArrayKind = 9
)

var arrayKindNames = map[ArrayKind]string{
	KindPoint:           "point",
	KindLineString:      "linestring",
	KindPolygon:         "polygon",
	KindMultiPoint:      "multipoint",
	KindMultiLineString: "multilinestring",
	KindMultiPolygon:    "multipolygon",
	KindRect:            "box",
	KindMixed:           "geometry",
}

// String returns the GeoArrow type name without the "geoarrow." prefix.
func (k ArrayKind) String() string {
	if s, ok := arrayKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ArrayKind(%d)", uint8(k))
}

// ExtensionName returns the Arrow extension type name for k.
func (k ArrayKind) ExtensionName() string {
	return "geoarrow." + k.String()
}

// GeometryKind returns the geometry kind stored by a homogeneous array kind,
// or KindUnknown for mixed arrays.
func (k ArrayKind) GeometryKind() geometry.Kind {
	if k == KindMixed {
		return geometry.KindUnknown
	}
	return geometry.Kind(k)
}

// ParseArrayKind maps a GeoArrow type name, with or without the
// "geoarrow." prefix, to its kind.
func ParseArrayKind(name string) (ArrayKind, error) {
	for k, s := range arrayKindNames {
		if name == s || name == "geoarrow."+s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedGeometryType, name)
}

// Array is the read side shared by every geometry array.
type Array interface {
	Kind() ArrayKind
	Dim() geometry.Dimension
	CoordType() CoordType
	Len() int
	NullN() int
	IsNull(i int) bool
	IsValid(i int) bool
	// Get returns the geometry at row i, or nil when the row is null. It
	// panics with ErrIndexOutOfRange when i is out of bounds.
	Get(i int) geometry.Geometry
	// Slice returns rows [offset, offset+length) sharing this array's
	// buffers. It panics with ErrIndexOutOfRange when the range is out of
	// bounds.
	Slice(offset, length int) Array
	Metadata() Metadata
	ExtensionName() string
}

// base carries what every array has regardless of kind.
type base struct {
	validity Bitmap
	length   int
	meta     Metadata
}

func (b *base) Len() int           { return b.length }
func (b *base) NullN() int         { return b.validity.NullN() }
func (b *base) Validity() Bitmap   { return b.validity }
func (b *base) Metadata() Metadata { return b.meta }

func (b *base) IsValid(i int) bool {
	checkIndex(i, b.length)
	return b.validity.IsValid(i)
}

func (b *base) IsNull(i int) bool { return !b.IsValid(i) }

func (b *base) sliceBase(offset, length int) base {
	checkSlice(offset, length, b.length)
	return base{validity: b.validity.slice(offset, length), length: length, meta: b.meta}
}
