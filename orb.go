package geoarrow

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/tingold/orb-geoarrow/geometry"
)

// FromOrb presents an orb geometry as a view without copying. Rings become
// single-ring polygons and bounds become rects. A point with NaN ordinates
// is empty. Every orb geometry is XY.
func FromOrb(g orb.Geometry) (geometry.Geometry, error) {
	switch v := g.(type) {
	case nil:
		return nil, nil
	case orb.Point:
		return orbPoint(v), nil
	case orb.MultiPoint:
		return orbMultiPoint(v), nil
	case orb.LineString:
		return orbLineString(v), nil
	case orb.MultiLineString:
		return orbMultiLineString(v), nil
	case orb.Ring:
		return orbPolygon{orb.Ring(v)}, nil
	case orb.Polygon:
		return orbPolygon(v), nil
	case orb.MultiPolygon:
		return orbMultiPolygon(v), nil
	case orb.Bound:
		return orbBound{v}, nil
	case orb.Collection:
		members := make([]geometry.Geometry, len(v))
		for i, m := range v {
			member, err := FromOrb(m)
			if err != nil {
				return nil, err
			}
			if member == nil {
				return nil, fmt.Errorf("%w: nil collection member %d", ErrUnsupportedGeometryType, i)
			}
			members[i] = member
		}
		return geometry.CollectionValue{Dimension: geometry.XY, Geometries: members}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometryType, g)
}

func orbCoord(p orb.Point) geometry.Coord {
	return geometry.Coord{X: p[0], Y: p[1]}
}

type orbPoint orb.Point

func (p orbPoint) Kind() geometry.Kind     { return geometry.KindPoint }
func (p orbPoint) Dim() geometry.Dimension { return geometry.XY }

func (p orbPoint) Coord() (geometry.Coord, bool) {
	if math.IsNaN(p[0]) && math.IsNaN(p[1]) {
		return geometry.Coord{}, false
	}
	return orbCoord(orb.Point(p)), true
}

type orbLineString []orb.Point

func (l orbLineString) Kind() geometry.Kind          { return geometry.KindLineString }
func (l orbLineString) Dim() geometry.Dimension      { return geometry.XY }
func (l orbLineString) NumCoords() int               { return len(l) }
func (l orbLineString) CoordAt(i int) geometry.Coord { return orbCoord(l[i]) }

type orbPolygon orb.Polygon

func (p orbPolygon) Kind() geometry.Kind              { return geometry.KindPolygon }
func (p orbPolygon) Dim() geometry.Dimension          { return geometry.XY }
func (p orbPolygon) NumRings() int                    { return len(p) }
func (p orbPolygon) RingAt(i int) geometry.LineString { return orbLineString(p[i]) }

type orbMultiPoint orb.MultiPoint

func (m orbMultiPoint) Kind() geometry.Kind          { return geometry.KindMultiPoint }
func (m orbMultiPoint) Dim() geometry.Dimension      { return geometry.XY }
func (m orbMultiPoint) NumPoints() int               { return len(m) }
func (m orbMultiPoint) PointAt(i int) geometry.Point { return orbPoint(m[i]) }

type orbMultiLineString orb.MultiLineString

func (m orbMultiLineString) Kind() geometry.Kind     { return geometry.KindMultiLineString }
func (m orbMultiLineString) Dim() geometry.Dimension { return geometry.XY }
func (m orbMultiLineString) NumLineStrings() int     { return len(m) }

func (m orbMultiLineString) LineStringAt(i int) geometry.LineString {
	return orbLineString(m[i])
}

type orbMultiPolygon orb.MultiPolygon

func (m orbMultiPolygon) Kind() geometry.Kind              { return geometry.KindMultiPolygon }
func (m orbMultiPolygon) Dim() geometry.Dimension          { return geometry.XY }
func (m orbMultiPolygon) NumPolygons() int                 { return len(m) }
func (m orbMultiPolygon) PolygonAt(i int) geometry.Polygon { return orbPolygon(m[i]) }

type orbBound struct{ b orb.Bound }

func (b orbBound) Kind() geometry.Kind     { return geometry.KindRect }
func (b orbBound) Dim() geometry.Dimension { return geometry.XY }
func (b orbBound) Min() geometry.Coord     { return orbCoord(b.b.Min) }
func (b orbBound) Max() geometry.Coord     { return orbCoord(b.b.Max) }

// ToOrb copies g into orb types, keeping X and Y only. An empty point
// becomes a point with NaN ordinates and a rect becomes an orb.Bound.
func ToOrb(g geometry.Geometry) (orb.Geometry, error) {
	if g == nil {
		return nil, nil
	}
	switch g.Kind() {
	case geometry.KindPoint:
		return toOrbPoint(g.(geometry.Point)), nil
	case geometry.KindLineString:
		return toOrbLineString(g.(geometry.LineString)), nil
	case geometry.KindPolygon:
		return toOrbPolygon(g.(geometry.Polygon)), nil
	case geometry.KindMultiPoint:
		mp := g.(geometry.MultiPoint)
		out := make(orb.MultiPoint, mp.NumPoints())
		for i := range out {
			out[i] = toOrbPoint(mp.PointAt(i))
		}
		return out, nil
	case geometry.KindMultiLineString:
		ml := g.(geometry.MultiLineString)
		out := make(orb.MultiLineString, ml.NumLineStrings())
		for i := range out {
			out[i] = toOrbLineString(ml.LineStringAt(i))
		}
		return out, nil
	case geometry.KindMultiPolygon:
		mp := g.(geometry.MultiPolygon)
		out := make(orb.MultiPolygon, mp.NumPolygons())
		for i := range out {
			out[i] = toOrbPolygon(mp.PolygonAt(i))
		}
		return out, nil
	case geometry.KindRect:
		r := g.(geometry.Rect)
		lo, hi := r.Min(), r.Max()
		return orb.Bound{Min: orb.Point{lo.X, lo.Y}, Max: orb.Point{hi.X, hi.Y}}, nil
	case geometry.KindGeometryCollection:
		gc := g.(geometry.GeometryCollection)
		out := make(orb.Collection, gc.NumGeometries())
		for i := range out {
			member, err := ToOrb(gc.GeometryAt(i))
			if err != nil {
				return nil, err
			}
			out[i] = member
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, g.Kind())
}

func toOrbPoint(p geometry.Point) orb.Point {
	c, ok := p.Coord()
	if !ok {
		return orb.Point{math.NaN(), math.NaN()}
	}
	return orb.Point{c.X, c.Y}
}

func toOrbLineString(ls geometry.LineString) orb.LineString {
	out := make(orb.LineString, ls.NumCoords())
	for i := range out {
		c := ls.CoordAt(i)
		out[i] = orb.Point{c.X, c.Y}
	}
	return out
}

func toOrbPolygon(p geometry.Polygon) orb.Polygon {
	out := make(orb.Polygon, p.NumRings())
	for i := range out {
		out[i] = orb.Ring(toOrbLineString(p.RingAt(i)))
	}
	return out
}
