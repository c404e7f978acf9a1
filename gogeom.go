package geoarrow

import (
	"fmt"

	"github.com/twpayne/go-geom"

	"github.com/tingold/orb-geoarrow/geometry"
)

func dimensionOfLayout(l geom.Layout) (geometry.Dimension, error) {
	switch l {
	case geom.XY:
		return geometry.XY, nil
	case geom.XYZ:
		return geometry.XYZ, nil
	case geom.XYM:
		return geometry.XYM, nil
	case geom.XYZM:
		return geometry.XYZM, nil
	}
	return 0, fmt.Errorf("%w: layout %s", ErrDimensionMismatch, l)
}

func layoutOf(d geometry.Dimension) geom.Layout {
	switch d {
	case geometry.XYZ:
		return geom.XYZ
	case geometry.XYM:
		return geom.XYM
	case geometry.XYZM:
		return geom.XYZM
	default:
		return geom.XY
	}
}

// FromGeom presents a go-geom geometry as a view over its flat coordinates
// without copying them.
func FromGeom(g geom.T) (geometry.Geometry, error) {
	if g == nil {
		return nil, nil
	}
	dim, err := dimensionOfLayout(g.Layout())
	if err != nil {
		if _, ok := g.(*geom.GeometryCollection); !ok || !g.Empty() {
			return nil, err
		}
		dim = geometry.XY
	}
	switch v := g.(type) {
	case *geom.Point:
		return geomPoint{flatSeq{v.FlatCoords(), dim}}, nil
	case *geom.LineString:
		return geomLineString{flatSeq{v.FlatCoords(), dim}}, nil
	case *geom.LinearRing:
		return geomLineString{flatSeq{v.FlatCoords(), dim}}, nil
	case *geom.Polygon:
		return geomPolygon{flat: v.FlatCoords(), ends: v.Ends(), dim: dim}, nil
	case *geom.MultiPoint:
		return geomMultiPoint{flat: v.FlatCoords(), ends: v.Ends(), dim: dim}, nil
	case *geom.MultiLineString:
		return geomMultiLineString(geomPolygon{flat: v.FlatCoords(), ends: v.Ends(), dim: dim}), nil
	case *geom.MultiPolygon:
		endss := v.Endss()
		starts := make([]int, len(endss))
		next := 0
		for i, ends := range endss {
			starts[i] = next
			if len(ends) > 0 {
				next = ends[len(ends)-1]
			}
		}
		return geomMultiPolygon{flat: v.FlatCoords(), endss: endss, starts: starts, dim: dim}, nil
	case *geom.GeometryCollection:
		members := make([]geometry.Geometry, v.NumGeoms())
		for i := range members {
			m, err := FromGeom(v.Geom(i))
			if err != nil {
				return nil, err
			}
			if m.Dim() != dim {
				return nil, fmt.Errorf("%w: collection member %d is %s, collection is %s", ErrDimensionMismatch, i, m.Dim(), dim)
			}
			members[i] = m
		}
		return geometry.CollectionValue{Dimension: dim, Geometries: members}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometryType, g)
}

// flatSeq reads coordinates from a go-geom flat coordinate slice.
type flatSeq struct {
	flat []float64
	dim  geometry.Dimension
}

func (s flatSeq) len() int { return len(s.flat) / s.dim.Size() }

func (s flatSeq) at(i int) geometry.Coord {
	var c geometry.Coord
	size := s.dim.Size()
	for j := 0; j < size; j++ {
		c.SetOrdinate(s.dim, j, s.flat[i*size+j])
	}
	return c
}

type geomPoint struct{ seq flatSeq }

func (p geomPoint) Kind() geometry.Kind     { return geometry.KindPoint }
func (p geomPoint) Dim() geometry.Dimension { return p.seq.dim }

func (p geomPoint) Coord() (geometry.Coord, bool) {
	if p.seq.len() == 0 {
		return geometry.Coord{}, false
	}
	return p.seq.at(0), true
}

type geomLineString struct{ seq flatSeq }

func (l geomLineString) Kind() geometry.Kind          { return geometry.KindLineString }
func (l geomLineString) Dim() geometry.Dimension      { return l.seq.dim }
func (l geomLineString) NumCoords() int               { return l.seq.len() }
func (l geomLineString) CoordAt(i int) geometry.Coord { return l.seq.at(i) }

// geomPolygon reads rings delimited by go-geom ends, which are absolute
// indexes into flat starting from start.
type geomPolygon struct {
	flat  []float64
	start int
	ends  []int
	dim   geometry.Dimension
}

func (p geomPolygon) Kind() geometry.Kind     { return geometry.KindPolygon }
func (p geomPolygon) Dim() geometry.Dimension { return p.dim }
func (p geomPolygon) NumRings() int           { return len(p.ends) }

func (p geomPolygon) part(i int) flatSeq {
	lo := p.start
	if i > 0 {
		lo = p.ends[i-1]
	}
	return flatSeq{p.flat[lo:p.ends[i]], p.dim}
}

func (p geomPolygon) RingAt(i int) geometry.LineString { return geomLineString{p.part(i)} }

type geomMultiLineString geomPolygon

func (m geomMultiLineString) Kind() geometry.Kind     { return geometry.KindMultiLineString }
func (m geomMultiLineString) Dim() geometry.Dimension { return m.dim }
func (m geomMultiLineString) NumLineStrings() int     { return len(m.ends) }

func (m geomMultiLineString) LineStringAt(i int) geometry.LineString {
	return geomLineString{geomPolygon(m).part(i)}
}

// geomMultiPoint handles empty member points, which go-geom records as
// repeated ends.
type geomMultiPoint geomPolygon

func (m geomMultiPoint) Kind() geometry.Kind     { return geometry.KindMultiPoint }
func (m geomMultiPoint) Dim() geometry.Dimension { return m.dim }
func (m geomMultiPoint) NumPoints() int          { return len(m.ends) }

func (m geomMultiPoint) PointAt(i int) geometry.Point {
	return geomPoint{geomPolygon(m).part(i)}
}

type geomMultiPolygon struct {
	flat   []float64
	endss  [][]int
	starts []int
	dim    geometry.Dimension
}

func (m geomMultiPolygon) Kind() geometry.Kind     { return geometry.KindMultiPolygon }
func (m geomMultiPolygon) Dim() geometry.Dimension { return m.dim }
func (m geomMultiPolygon) NumPolygons() int        { return len(m.endss) }

func (m geomMultiPolygon) PolygonAt(i int) geometry.Polygon {
	return geomPolygon{flat: m.flat, start: m.starts[i], ends: m.endss[i], dim: m.dim}
}

// ToGeom copies g into go-geom types with the matching layout. XY rects
// become polygons; rects with Z or M have no go-geom equivalent.
func ToGeom(g geometry.Geometry) (geom.T, error) {
	if g == nil {
		return nil, nil
	}
	layout := layoutOf(g.Dim())
	switch g.Kind() {
	case geometry.KindPoint:
		c, ok := g.(geometry.Point).Coord()
		if !ok {
			return geom.NewPointEmpty(layout), nil
		}
		return geom.NewPointFlat(layout, appendFlat(nil, c, g.Dim())), nil
	case geometry.KindLineString:
		return geom.NewLineStringFlat(layout, appendFlatLine(nil, g.(geometry.LineString))), nil
	case geometry.KindPolygon:
		flat, ends := appendFlatPolygon(nil, nil, g.(geometry.Polygon))
		return geom.NewPolygonFlat(layout, flat, ends), nil
	case geometry.KindMultiPoint:
		mp := g.(geometry.MultiPoint)
		var flat []float64
		ends := make([]int, mp.NumPoints())
		for i := range ends {
			if c, ok := mp.PointAt(i).Coord(); ok {
				flat = appendFlat(flat, c, g.Dim())
			}
			ends[i] = len(flat)
		}
		return geom.NewMultiPointFlat(layout, flat, geom.NewMultiPointFlatOptionWithEnds(ends)), nil
	case geometry.KindMultiLineString:
		ml := g.(geometry.MultiLineString)
		var flat []float64
		ends := make([]int, ml.NumLineStrings())
		for i := range ends {
			flat = appendFlatLine(flat, ml.LineStringAt(i))
			ends[i] = len(flat)
		}
		return geom.NewMultiLineStringFlat(layout, flat, ends), nil
	case geometry.KindMultiPolygon:
		mp := g.(geometry.MultiPolygon)
		var flat []float64
		endss := make([][]int, mp.NumPolygons())
		for i := range endss {
			flat, endss[i] = appendFlatPolygon(flat, nil, mp.PolygonAt(i))
		}
		return geom.NewMultiPolygonFlat(layout, flat, endss), nil
	case geometry.KindRect:
		poly, ok := geometry.RectPolygon(g.(geometry.Rect))
		if !ok {
			return nil, fmt.Errorf("%w: %s rect", ErrUnsupportedGeometryType, g.Dim())
		}
		return ToGeom(poly)
	case geometry.KindGeometryCollection:
		gc := g.(geometry.GeometryCollection)
		out := geom.NewGeometryCollection().MustSetLayout(layout)
		for i := 0; i < gc.NumGeometries(); i++ {
			member, err := ToGeom(gc.GeometryAt(i))
			if err != nil {
				return nil, err
			}
			if err := out.Push(member); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, g.Kind())
}

func appendFlat(flat []float64, c geometry.Coord, d geometry.Dimension) []float64 {
	for j := 0; j < d.Size(); j++ {
		flat = append(flat, c.Ordinate(d, j))
	}
	return flat
}

func appendFlatLine(flat []float64, ls geometry.LineString) []float64 {
	for i := 0; i < ls.NumCoords(); i++ {
		flat = appendFlat(flat, ls.CoordAt(i), ls.Dim())
	}
	return flat
}

func appendFlatPolygon(flat []float64, ends []int, p geometry.Polygon) ([]float64, []int) {
	for i := 0; i < p.NumRings(); i++ {
		flat = appendFlatLine(flat, p.RingAt(i))
		ends = append(ends, len(flat))
	}
	return flat, ends
}
