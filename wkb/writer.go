package wkb

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/tingold/orb-geoarrow/geometry"
)

// EmptyPointPolicy selects how the writer handles empty points, which WKB
// has no dedicated encoding for.
type EmptyPointPolicy uint8

const (
	// EmptyPointNaN writes every ordinate of an empty point as NaN. Readers
	// following the same convention, including Parse, read it back as empty.
	EmptyPointNaN EmptyPointPolicy = iota
	// EmptyPointReject fails with ErrEmptyPoint instead.
	EmptyPointReject
)

// Options configures the writer.
type Options struct {
	EmptyPoint EmptyPointPolicy
}

// DefaultOptions returns the writer defaults.
func DefaultOptions() *Options {
	return &Options{EmptyPoint: EmptyPointNaN}
}

// Encoder writes geometries as little-endian ISO WKB.
type Encoder struct {
	opts Options
}

// NewEncoder returns an encoder; a nil opts uses DefaultOptions.
func NewEncoder(opts *Options) *Encoder {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Encoder{opts: *opts}
}

var defaultEncoder = NewEncoder(nil)

// Marshal encodes g with the default options.
func Marshal(g geometry.Geometry) ([]byte, error) {
	return defaultEncoder.Append(nil, g)
}

// Size returns the encoded length of g with the default options.
func Size(g geometry.Geometry) (int, error) {
	return defaultEncoder.Size(g)
}

// Size returns the exact number of bytes Append would write for g.
func (e *Encoder) Size(g geometry.Geometry) (int, error) {
	if g == nil {
		return 0, fmt.Errorf("%w: nil geometry", ErrUnsupportedGeometryType)
	}
	stride := g.Dim().Size() * 8

	switch g.Kind() {
	case geometry.KindPoint:
		if _, ok := g.(geometry.Point).Coord(); !ok && e.opts.EmptyPoint == EmptyPointReject {
			return 0, ErrEmptyPoint
		}
		return headerSize + stride, nil

	case geometry.KindLineString:
		return headerSize + countSize + g.(geometry.LineString).NumCoords()*stride, nil

	case geometry.KindPolygon:
		return polygonSize(g.(geometry.Polygon), stride), nil

	case geometry.KindRect:
		poly, ok := geometry.RectPolygon(g.(geometry.Rect))
		if !ok {
			return 0, fmt.Errorf("%w: %s rect", ErrUnsupportedGeometryType, g.Dim())
		}
		return polygonSize(poly, stride), nil

	case geometry.KindMultiPoint:
		mp := g.(geometry.MultiPoint)
		n := headerSize + countSize
		for i := 0; i < mp.NumPoints(); i++ {
			size, err := e.Size(mp.PointAt(i))
			if err != nil {
				return 0, err
			}
			n += size
		}
		return n, nil

	case geometry.KindMultiLineString:
		ml := g.(geometry.MultiLineString)
		n := headerSize + countSize
		for i := 0; i < ml.NumLineStrings(); i++ {
			n += headerSize + countSize + ml.LineStringAt(i).NumCoords()*stride
		}
		return n, nil

	case geometry.KindMultiPolygon:
		mp := g.(geometry.MultiPolygon)
		n := headerSize + countSize
		for i := 0; i < mp.NumPolygons(); i++ {
			n += polygonSize(mp.PolygonAt(i), stride)
		}
		return n, nil

	case geometry.KindGeometryCollection:
		gc := g.(geometry.GeometryCollection)
		n := headerSize + countSize
		for i := 0; i < gc.NumGeometries(); i++ {
			size, err := e.Size(gc.GeometryAt(i))
			if err != nil {
				return 0, err
			}
			n += size
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, g.Kind())
}

func polygonSize(p geometry.Polygon, stride int) int {
	n := headerSize + countSize
	for i := 0; i < p.NumRings(); i++ {
		n += countSize + p.RingAt(i).NumCoords()*stride
	}
	return n
}

// Append appends the encoding of g to dst. The size is computed first, so
// dst grows at most once and nothing is appended when g cannot be encoded.
func (e *Encoder) Append(dst []byte, g geometry.Geometry) ([]byte, error) {
	size, err := e.Size(g)
	if err != nil {
		return dst, err
	}
	dst = slices.Grow(dst, size)
	return appendGeometry(dst, g), nil
}

// appendGeometry assumes g already passed Size.
func appendGeometry(dst []byte, g geometry.Geometry) []byte {
	kind, dim := g.Kind(), g.Dim()
	if kind == geometry.KindRect {
		poly, _ := geometry.RectPolygon(g.(geometry.Rect))
		return appendGeometry(dst, poly)
	}

	dst = append(dst, littleEndian)
	dst = binary.LittleEndian.AppendUint32(dst, TypeCode(kind, dim))

	switch kind {
	case geometry.KindPoint:
		c, ok := g.(geometry.Point).Coord()
		if !ok {
			c = geometry.NaNCoord()
		}
		dst = appendCoord(dst, c, dim)

	case geometry.KindLineString:
		dst = appendCoords(dst, g.(geometry.LineString))

	case geometry.KindPolygon:
		dst = appendRings(dst, g.(geometry.Polygon))

	case geometry.KindMultiPoint:
		mp := g.(geometry.MultiPoint)
		dst = appendCount(dst, mp.NumPoints())
		for i := 0; i < mp.NumPoints(); i++ {
			dst = appendGeometry(dst, mp.PointAt(i))
		}

	case geometry.KindMultiLineString:
		ml := g.(geometry.MultiLineString)
		dst = appendCount(dst, ml.NumLineStrings())
		for i := 0; i < ml.NumLineStrings(); i++ {
			dst = append(dst, littleEndian)
			dst = binary.LittleEndian.AppendUint32(dst, TypeCode(geometry.KindLineString, dim))
			dst = appendCoords(dst, ml.LineStringAt(i))
		}

	case geometry.KindMultiPolygon:
		mp := g.(geometry.MultiPolygon)
		dst = appendCount(dst, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			dst = append(dst, littleEndian)
			dst = binary.LittleEndian.AppendUint32(dst, TypeCode(geometry.KindPolygon, dim))
			dst = appendRings(dst, mp.PolygonAt(i))
		}

	case geometry.KindGeometryCollection:
		gc := g.(geometry.GeometryCollection)
		dst = appendCount(dst, gc.NumGeometries())
		for i := 0; i < gc.NumGeometries(); i++ {
			dst = appendGeometry(dst, gc.GeometryAt(i))
		}
	}
	return dst
}

func appendCount(dst []byte, n int) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(n))
}

func appendCoord(dst []byte, c geometry.Coord, dim geometry.Dimension) []byte {
	for j := 0; j < dim.Size(); j++ {
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(c.Ordinate(dim, j)))
	}
	return dst
}

func appendCoords(dst []byte, ls geometry.LineString) []byte {
	dim := ls.Dim()
	dst = appendCount(dst, ls.NumCoords())
	for i := 0; i < ls.NumCoords(); i++ {
		dst = appendCoord(dst, ls.CoordAt(i), dim)
	}
	return dst
}

func appendRings(dst []byte, p geometry.Polygon) []byte {
	dst = appendCount(dst, p.NumRings())
	for i := 0; i < p.NumRings(); i++ {
		dst = appendCoords(dst, p.RingAt(i))
	}
	return dst
}
