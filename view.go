package geoarrow

import "github.com/tingold/orb-geoarrow/geometry"

// Views returned by the arrays. Each holds a pointer to its array's
// coordinate buffer plus the offset entries it needs, so resolving a part
// never scans.

type pointView struct {
	coords *CoordBuffer
	i      int
}

func (p pointView) Kind() geometry.Kind     { return geometry.KindPoint }
func (p pointView) Dim() geometry.Dimension { return p.coords.dim }

// Coord reports a point stored as all-NaN ordinates as empty.
func (p pointView) Coord() (geometry.Coord, bool) {
	c := p.coords.at(p.i)
	if c.IsNaN(p.coords.dim) {
		return geometry.Coord{}, false
	}
	return c, true
}

type lineStringView struct {
	coords     *CoordBuffer
	start, end int
}

func (l lineStringView) Kind() geometry.Kind          { return geometry.KindLineString }
func (l lineStringView) Dim() geometry.Dimension      { return l.coords.dim }
func (l lineStringView) NumCoords() int               { return l.end - l.start }
func (l lineStringView) CoordAt(i int) geometry.Coord { return l.coords.at(l.start + i) }

// polygonView.rings is the window of ring offsets belonging to the polygon,
// one entry longer than its ring count.
type polygonView struct {
	coords *CoordBuffer
	rings  []int32
}

func (p polygonView) Kind() geometry.Kind     { return geometry.KindPolygon }
func (p polygonView) Dim() geometry.Dimension { return p.coords.dim }
func (p polygonView) NumRings() int           { return len(p.rings) - 1 }

func (p polygonView) RingAt(i int) geometry.LineString {
	return lineStringView{coords: p.coords, start: int(p.rings[i]), end: int(p.rings[i+1])}
}

type multiPointView struct {
	coords     *CoordBuffer
	start, end int
}

func (m multiPointView) Kind() geometry.Kind     { return geometry.KindMultiPoint }
func (m multiPointView) Dim() geometry.Dimension { return m.coords.dim }
func (m multiPointView) NumPoints() int          { return m.end - m.start }

func (m multiPointView) PointAt(i int) geometry.Point {
	return pointView{coords: m.coords, i: m.start + i}
}

type multiLineStringView struct {
	coords *CoordBuffer
	lines  []int32
}

func (m multiLineStringView) Kind() geometry.Kind     { return geometry.KindMultiLineString }
func (m multiLineStringView) Dim() geometry.Dimension { return m.coords.dim }
func (m multiLineStringView) NumLineStrings() int     { return len(m.lines) - 1 }

func (m multiLineStringView) LineStringAt(i int) geometry.LineString {
	return lineStringView{coords: m.coords, start: int(m.lines[i]), end: int(m.lines[i+1])}
}

// multiPolygonView.polygons windows the polygon offsets; rings is the whole
// ring offset buffer.
type multiPolygonView struct {
	coords   *CoordBuffer
	polygons []int32
	rings    []int32
}

func (m multiPolygonView) Kind() geometry.Kind     { return geometry.KindMultiPolygon }
func (m multiPolygonView) Dim() geometry.Dimension { return m.coords.dim }
func (m multiPolygonView) NumPolygons() int        { return len(m.polygons) - 1 }

func (m multiPolygonView) PolygonAt(i int) geometry.Polygon {
	return polygonView{coords: m.coords, rings: m.rings[m.polygons[i] : m.polygons[i+1]+1]}
}

type rectView struct {
	lower, upper *CoordBuffer
	i            int
}

func (r rectView) Kind() geometry.Kind     { return geometry.KindRect }
func (r rectView) Dim() geometry.Dimension { return r.lower.dim }
func (r rectView) Min() geometry.Coord     { return r.lower.at(r.i) }
func (r rectView) Max() geometry.Coord     { return r.upper.at(r.i) }
