package flatgeobuf

import (
	"fmt"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/geometry"
)

// arrayKindToFGB returns the header geometry type for an array kind. Rects
// are written as polygons; mixed arrays use Unknown.
func arrayKindToFGB(k geoarrow.ArrayKind) flattypes.GeometryType {
	switch k {
	case geoarrow.KindPoint:
		return flattypes.GeometryTypePoint
	case geoarrow.KindLineString:
		return flattypes.GeometryTypeLineString
	case geoarrow.KindPolygon, geoarrow.KindRect:
		return flattypes.GeometryTypePolygon
	case geoarrow.KindMultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case geoarrow.KindMultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case geoarrow.KindMultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// fgbToArrayKind returns the array kind for a header geometry type, or zero
// when the kind has to be resolved from the features.
func fgbToArrayKind(t flattypes.GeometryType) (geoarrow.ArrayKind, error) {
	switch t {
	case flattypes.GeometryTypeUnknown:
		return 0, nil
	case flattypes.GeometryTypePoint:
		return geoarrow.KindPoint, nil
	case flattypes.GeometryTypeLineString:
		return geoarrow.KindLineString, nil
	case flattypes.GeometryTypePolygon:
		return geoarrow.KindPolygon, nil
	case flattypes.GeometryTypeMultiPoint:
		return geoarrow.KindMultiPoint, nil
	case flattypes.GeometryTypeMultiLineString:
		return geoarrow.KindMultiLineString, nil
	case flattypes.GeometryTypeMultiPolygon:
		return geoarrow.KindMultiPolygon, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, flattypes.EnumNamesGeometryType[t])
}

// geometryFromFGB presents a feature geometry as a view. Feature geometries
// omit their type when the header declares one, so t is the header type in
// that case.
func geometryFromFGB(g *flattypes.Geometry, t flattypes.GeometryType, dim geometry.Dimension) (geometry.Geometry, error) {
	if own := g.Type(); own != flattypes.GeometryTypeUnknown {
		t = own
	}
	all := fgbSeq{g: g, n: g.XyLength() / 2, dim: dim}

	switch t {
	case flattypes.GeometryTypePoint:
		return fgbPoint{all}, nil
	case flattypes.GeometryTypeLineString:
		return fgbLineString{all}, nil
	case flattypes.GeometryTypePolygon:
		return fgbPolygon{all}, nil
	case flattypes.GeometryTypeMultiPoint:
		return fgbMultiPoint{all}, nil
	case flattypes.GeometryTypeMultiLineString:
		return fgbMultiLineString{all}, nil
	case flattypes.GeometryTypeMultiPolygon:
		if g.PartsLength() == 0 {
			// Single polygon stored inline.
			if all.n == 0 {
				return fgbMultiPolygon{dim: dim}, nil
			}
			return fgbMultiPolygon{polygons: []geometry.Polygon{fgbPolygon{all}}, dim: dim}, nil
		}
		mp := fgbMultiPolygon{polygons: make([]geometry.Polygon, g.PartsLength()), dim: dim}
		for i := range mp.polygons {
			part := new(flattypes.Geometry)
			if !g.Parts(part, i) {
				return nil, fmt.Errorf("%w: missing polygon part %d", ErrInvalidData, i)
			}
			mp.polygons[i] = fgbPolygon{fgbSeq{g: part, n: part.XyLength() / 2, dim: dim}}
		}
		return mp, nil
	case flattypes.GeometryTypeGeometryCollection:
		members := make([]geometry.Geometry, g.PartsLength())
		for i := range members {
			part := new(flattypes.Geometry)
			if !g.Parts(part, i) {
				return nil, fmt.Errorf("%w: missing collection part %d", ErrInvalidData, i)
			}
			m, err := geometryFromFGB(part, flattypes.GeometryTypeUnknown, dim)
			if err != nil {
				return nil, err
			}
			members[i] = m
		}
		return geometry.CollectionValue{Dimension: dim, Geometries: members}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, flattypes.EnumNamesGeometryType[t])
}

// fgbSeq reads n coordinates starting at coordinate start straight from the
// flatbuffer vectors.
type fgbSeq struct {
	g     *flattypes.Geometry
	start int
	n     int
	dim   geometry.Dimension
}

func (s fgbSeq) at(i int) geometry.Coord {
	k := s.start + i
	c := geometry.Coord{X: s.g.Xy(2 * k), Y: s.g.Xy(2*k + 1)}
	if s.dim.HasZ() && k < s.g.ZLength() {
		c.Z = s.g.Z(k)
	}
	if s.dim.HasM() && k < s.g.MLength() {
		c.M = s.g.M(k)
	}
	return c
}

// part returns the i-th ends-delimited run. Without ends the whole
// sequence is a single run.
func (s fgbSeq) part(i int) fgbSeq {
	if s.g.EndsLength() == 0 {
		return s
	}
	lo := 0
	if i > 0 {
		lo = int(s.g.Ends(i - 1))
	}
	return fgbSeq{g: s.g, start: lo, n: int(s.g.Ends(i)) - lo, dim: s.dim}
}

func (s fgbSeq) numParts() int {
	if n := s.g.EndsLength(); n > 0 {
		return n
	}
	if s.n == 0 {
		return 0
	}
	return 1
}

type fgbPoint struct{ seq fgbSeq }

func (p fgbPoint) Kind() geometry.Kind     { return geometry.KindPoint }
func (p fgbPoint) Dim() geometry.Dimension { return p.seq.dim }

func (p fgbPoint) Coord() (geometry.Coord, bool) {
	if p.seq.n == 0 {
		return geometry.Coord{}, false
	}
	return p.seq.at(0), true
}

type fgbLineString struct{ seq fgbSeq }

func (l fgbLineString) Kind() geometry.Kind          { return geometry.KindLineString }
func (l fgbLineString) Dim() geometry.Dimension      { return l.seq.dim }
func (l fgbLineString) NumCoords() int               { return l.seq.n }
func (l fgbLineString) CoordAt(i int) geometry.Coord { return l.seq.at(i) }

type fgbPolygon struct{ seq fgbSeq }

func (p fgbPolygon) Kind() geometry.Kind              { return geometry.KindPolygon }
func (p fgbPolygon) Dim() geometry.Dimension          { return p.seq.dim }
func (p fgbPolygon) NumRings() int                    { return p.seq.numParts() }
func (p fgbPolygon) RingAt(i int) geometry.LineString { return fgbLineString{p.seq.part(i)} }

type fgbMultiPoint struct{ seq fgbSeq }

func (m fgbMultiPoint) Kind() geometry.Kind     { return geometry.KindMultiPoint }
func (m fgbMultiPoint) Dim() geometry.Dimension { return m.seq.dim }
func (m fgbMultiPoint) NumPoints() int          { return m.seq.n }

func (m fgbMultiPoint) PointAt(i int) geometry.Point {
	return fgbPoint{fgbSeq{g: m.seq.g, start: i, n: 1, dim: m.seq.dim}}
}

type fgbMultiLineString struct{ seq fgbSeq }

func (m fgbMultiLineString) Kind() geometry.Kind     { return geometry.KindMultiLineString }
func (m fgbMultiLineString) Dim() geometry.Dimension { return m.seq.dim }
func (m fgbMultiLineString) NumLineStrings() int     { return m.seq.numParts() }

func (m fgbMultiLineString) LineStringAt(i int) geometry.LineString {
	return fgbLineString{m.seq.part(i)}
}

type fgbMultiPolygon struct {
	polygons []geometry.Polygon
	dim      geometry.Dimension
}

func (m fgbMultiPolygon) Kind() geometry.Kind              { return geometry.KindMultiPolygon }
func (m fgbMultiPolygon) Dim() geometry.Dimension          { return m.dim }
func (m fgbMultiPolygon) NumPolygons() int                 { return len(m.polygons) }
func (m fgbMultiPolygon) PolygonAt(i int) geometry.Polygon { return m.polygons[i] }

// geometryToFGB converts a geometry view to a FlatGeobuf writer.Geometry,
// keeping X and Y. It returns nil for kinds FlatGeobuf cannot take.
func geometryToFGB(g geometry.Geometry, builder *flatbuffers.Builder) *writer.Geometry {
	if g == nil {
		return nil
	}

	out := writer.NewGeometry(builder)

	switch g.Kind() {
	case geometry.KindPoint:
		out.SetType(flattypes.GeometryTypePoint)
		if c, ok := g.(geometry.Point).Coord(); ok {
			out.SetXY([]float64{c.X, c.Y})
		}

	case geometry.KindMultiPoint:
		out.SetType(flattypes.GeometryTypeMultiPoint)
		mp := g.(geometry.MultiPoint)
		xy := make([]float64, 0, mp.NumPoints()*2)
		for i := 0; i < mp.NumPoints(); i++ {
			if c, ok := mp.PointAt(i).Coord(); ok {
				xy = append(xy, c.X, c.Y)
			}
		}
		out.SetXY(xy)

	case geometry.KindLineString:
		out.SetType(flattypes.GeometryTypeLineString)
		out.SetXY(appendXY(nil, g.(geometry.LineString)))

	case geometry.KindMultiLineString:
		out.SetType(flattypes.GeometryTypeMultiLineString)
		ml := g.(geometry.MultiLineString)
		var xy []float64
		ends := make([]uint32, 0, ml.NumLineStrings())
		for i := 0; i < ml.NumLineStrings(); i++ {
			xy = appendXY(xy, ml.LineStringAt(i))
			ends = append(ends, uint32(len(xy)/2))
		}
		out.SetXY(xy)
		out.SetEnds(ends)

	case geometry.KindPolygon:
		out.SetType(flattypes.GeometryTypePolygon)
		xy, ends := polygonToXYEnds(g.(geometry.Polygon))
		out.SetXY(xy)
		out.SetEnds(ends)

	case geometry.KindRect:
		poly, ok := geometry.RectPolygon(g.(geometry.Rect))
		if !ok {
			return nil
		}
		return geometryToFGB(poly, builder)

	case geometry.KindMultiPolygon:
		out.SetType(flattypes.GeometryTypeMultiPolygon)
		mp := g.(geometry.MultiPolygon)
		parts := make([]writer.Geometry, 0, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := polygonToXYEnds(mp.PolygonAt(i))
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		out.SetParts(parts)

	default:
		return nil
	}

	return out
}

func appendXY(xy []float64, ls geometry.LineString) []float64 {
	for i := 0; i < ls.NumCoords(); i++ {
		c := ls.CoordAt(i)
		xy = append(xy, c.X, c.Y)
	}
	return xy
}

func polygonToXYEnds(p geometry.Polygon) ([]float64, []uint32) {
	total := 0
	for i := 0; i < p.NumRings(); i++ {
		total += p.RingAt(i).NumCoords()
	}

	xy := make([]float64, 0, total*2)
	ends := make([]uint32, 0, p.NumRings())
	for i := 0; i < p.NumRings(); i++ {
		xy = appendXY(xy, p.RingAt(i))
		ends = append(ends, uint32(len(xy)/2))
	}
	return xy, ends
}
