package wkb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tingold/orb-geoarrow/geometry"
)

// Parse validates buf as a single WKB geometry and returns a view over it.
// Coordinates are decoded from buf each time they are read, so buf must not
// be modified while the view is in use. Trailing bytes after the geometry
// are ignored.
func Parse(buf []byte) (geometry.Geometry, error) {
	g, _, err := parseAt(buf, 0)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ParsedSize returns the number of bytes the WKB value at the start of buf
// occupies.
func ParsedSize(buf []byte) (int, error) {
	_, end, err := parseAt(buf, 0)
	return end, err
}

func parseAt(buf []byte, off int) (geometry.Geometry, int, error) {
	h, order, off, err := readHeader(buf, off)
	if err != nil {
		return nil, 0, err
	}
	return parseBody(buf, order, h, off)
}

func parseBody(buf []byte, order binary.ByteOrder, h Header, off int) (geometry.Geometry, int, error) {
	stride := h.Dim.Size() * 8

	switch h.Kind {
	case geometry.KindPoint:
		if len(buf)-off < stride {
			return nil, 0, fmt.Errorf("%w: point at byte %d", ErrUnexpectedEndOfBuffer, off)
		}
		return pointView{seq: coordSeq{buf: buf, order: order, dim: h.Dim, off: off, n: 1}}, off + stride, nil

	case geometry.KindLineString:
		seq, end, err := readCoordSeq(buf, order, h.Dim, off)
		if err != nil {
			return nil, 0, err
		}
		return lineStringView{seq}, end, nil

	case geometry.KindPolygon:
		return readPolygon(buf, order, h.Dim, off)

	case geometry.KindMultiPoint, geometry.KindMultiLineString, geometry.KindMultiPolygon, geometry.KindGeometryCollection:
		n, off, err := readCount(buf, order, off, headerSize)
		if err != nil {
			return nil, 0, err
		}
		parts := make([]geometry.Geometry, n)
		for i := range parts {
			var part geometry.Geometry
			part, off, err = parseAt(buf, off)
			if err != nil {
				return nil, 0, err
			}
			if part.Dim() != h.Dim {
				return nil, 0, fmt.Errorf("%w: %s member of %s %s", ErrMixedDimensions, part.Dim(), h.Dim, h.Kind)
			}
			if want := memberKind(h.Kind); want != geometry.KindUnknown && part.Kind() != want {
				return nil, 0, fmt.Errorf("%w: %s member of %s", ErrUnsupportedGeometryType, part.Kind(), h.Kind)
			}
			parts[i] = part
		}
		return multiView{kind: h.Kind, dim: h.Dim, parts: parts}, off, nil
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, h.Kind)
}

func memberKind(k geometry.Kind) geometry.Kind {
	switch k {
	case geometry.KindMultiPoint:
		return geometry.KindPoint
	case geometry.KindMultiLineString:
		return geometry.KindLineString
	case geometry.KindMultiPolygon:
		return geometry.KindPolygon
	}
	return geometry.KindUnknown
}

// readCount reads a uint32 element count and rejects counts that cannot fit
// in the rest of the buffer given a minimum element size.
func readCount(buf []byte, order binary.ByteOrder, off, minElem int) (int, int, error) {
	if len(buf)-off < countSize {
		return 0, 0, fmt.Errorf("%w: count at byte %d", ErrUnexpectedEndOfBuffer, off)
	}
	n := int(order.Uint32(buf[off:]))
	off += countSize
	if minElem > 0 && n > (len(buf)-off)/minElem {
		return 0, 0, fmt.Errorf("%w: %d elements declared at byte %d", ErrUnexpectedEndOfBuffer, n, off-countSize)
	}
	return n, off, nil
}

func readCoordSeq(buf []byte, order binary.ByteOrder, dim geometry.Dimension, off int) (coordSeq, int, error) {
	stride := dim.Size() * 8
	n, off, err := readCount(buf, order, off, stride)
	if err != nil {
		return coordSeq{}, 0, err
	}
	return coordSeq{buf: buf, order: order, dim: dim, off: off, n: n}, off + n*stride, nil
}

func readPolygon(buf []byte, order binary.ByteOrder, dim geometry.Dimension, off int) (geometry.Geometry, int, error) {
	n, off, err := readCount(buf, order, off, countSize)
	if err != nil {
		return nil, 0, err
	}
	rings := make([]coordSeq, n)
	for i := range rings {
		rings[i], off, err = readCoordSeq(buf, order, dim, off)
		if err != nil {
			return nil, 0, err
		}
	}
	return polygonView{dim: dim, rings: rings}, off, nil
}

// coordSeq is n consecutive coordinates starting at off.
type coordSeq struct {
	buf   []byte
	order binary.ByteOrder
	dim   geometry.Dimension
	off   int
	n     int
}

func (s coordSeq) at(i int) geometry.Coord {
	var c geometry.Coord
	size := s.dim.Size()
	pos := s.off + i*size*8
	for j := 0; j < size; j++ {
		c.SetOrdinate(s.dim, j, math.Float64frombits(s.order.Uint64(s.buf[pos+8*j:])))
	}
	return c
}

type pointView struct{ seq coordSeq }

func (p pointView) Kind() geometry.Kind     { return geometry.KindPoint }
func (p pointView) Dim() geometry.Dimension { return p.seq.dim }

// Coord reports an all-NaN point as empty.
func (p pointView) Coord() (geometry.Coord, bool) {
	c := p.seq.at(0)
	if c.IsNaN(p.seq.dim) {
		return geometry.Coord{}, false
	}
	return c, true
}

type lineStringView struct{ seq coordSeq }

func (l lineStringView) Kind() geometry.Kind          { return geometry.KindLineString }
func (l lineStringView) Dim() geometry.Dimension      { return l.seq.dim }
func (l lineStringView) NumCoords() int               { return l.seq.n }
func (l lineStringView) CoordAt(i int) geometry.Coord { return l.seq.at(i) }

type polygonView struct {
	dim   geometry.Dimension
	rings []coordSeq
}

func (p polygonView) Kind() geometry.Kind     { return geometry.KindPolygon }
func (p polygonView) Dim() geometry.Dimension { return p.dim }
func (p polygonView) NumRings() int           { return len(p.rings) }

func (p polygonView) RingAt(i int) geometry.LineString { return lineStringView{p.rings[i]} }

// multiView backs all multi kinds and collections; parts were checked
// against the member kind during parsing.
type multiView struct {
	kind  geometry.Kind
	dim   geometry.Dimension
	parts []geometry.Geometry
}

func (m multiView) Kind() geometry.Kind     { return m.kind }
func (m multiView) Dim() geometry.Dimension { return m.dim }

func (m multiView) NumPoints() int                         { return len(m.parts) }
func (m multiView) PointAt(i int) geometry.Point           { return m.parts[i].(geometry.Point) }
func (m multiView) NumLineStrings() int                    { return len(m.parts) }
func (m multiView) LineStringAt(i int) geometry.LineString { return m.parts[i].(geometry.LineString) }
func (m multiView) NumPolygons() int                       { return len(m.parts) }
func (m multiView) PolygonAt(i int) geometry.Polygon       { return m.parts[i].(geometry.Polygon) }
func (m multiView) NumGeometries() int                     { return len(m.parts) }
func (m multiView) GeometryAt(i int) geometry.Geometry     { return m.parts[i] }
