package geometry

// The value types below own their coordinates. They are the simplest way to
// feed hand-written geometries into a builder or the WKB writer.

type PointValue struct {
	Dimension Dimension
	C         Coord
	Empty     bool
}

// NewPoint returns an XY point.
func NewPoint(x, y float64) PointValue {
	return PointValue{Dimension: XY, C: Coord{X: x, Y: y}}
}

// EmptyPoint returns an empty point of dimension d.
func EmptyPoint(d Dimension) PointValue {
	return PointValue{Dimension: d, Empty: true}
}

func (p PointValue) Kind() Kind     { return KindPoint }
func (p PointValue) Dim() Dimension { return p.Dimension }

func (p PointValue) Coord() (Coord, bool) {
	if p.Empty {
		return Coord{}, false
	}
	return p.C, true
}

type LineStringValue struct {
	Dimension Dimension
	Coords    []Coord
}

func (l LineStringValue) Kind() Kind          { return KindLineString }
func (l LineStringValue) Dim() Dimension      { return l.Dimension }
func (l LineStringValue) NumCoords() int      { return len(l.Coords) }
func (l LineStringValue) CoordAt(i int) Coord { return l.Coords[i] }

type PolygonValue struct {
	Dimension Dimension
	Rings     [][]Coord
}

func (p PolygonValue) Kind() Kind     { return KindPolygon }
func (p PolygonValue) Dim() Dimension { return p.Dimension }
func (p PolygonValue) NumRings() int  { return len(p.Rings) }

func (p PolygonValue) RingAt(i int) LineString {
	return LineStringValue{Dimension: p.Dimension, Coords: p.Rings[i]}
}

type MultiPointValue struct {
	Dimension Dimension
	Points    []Coord
}

func (m MultiPointValue) Kind() Kind     { return KindMultiPoint }
func (m MultiPointValue) Dim() Dimension { return m.Dimension }
func (m MultiPointValue) NumPoints() int { return len(m.Points) }

func (m MultiPointValue) PointAt(i int) Point {
	return PointValue{Dimension: m.Dimension, C: m.Points[i]}
}

type MultiLineStringValue struct {
	Dimension Dimension
	Lines     [][]Coord
}

func (m MultiLineStringValue) Kind() Kind          { return KindMultiLineString }
func (m MultiLineStringValue) Dim() Dimension      { return m.Dimension }
func (m MultiLineStringValue) NumLineStrings() int { return len(m.Lines) }

func (m MultiLineStringValue) LineStringAt(i int) LineString {
	return LineStringValue{Dimension: m.Dimension, Coords: m.Lines[i]}
}

type MultiPolygonValue struct {
	Dimension Dimension
	Polygons  [][][]Coord
}

func (m MultiPolygonValue) Kind() Kind       { return KindMultiPolygon }
func (m MultiPolygonValue) Dim() Dimension   { return m.Dimension }
func (m MultiPolygonValue) NumPolygons() int { return len(m.Polygons) }

func (m MultiPolygonValue) PolygonAt(i int) Polygon {
	return PolygonValue{Dimension: m.Dimension, Rings: m.Polygons[i]}
}

type RectValue struct {
	Dimension Dimension
	Lo, Hi    Coord
}

func (r RectValue) Kind() Kind     { return KindRect }
func (r RectValue) Dim() Dimension { return r.Dimension }
func (r RectValue) Min() Coord     { return r.Lo }
func (r RectValue) Max() Coord     { return r.Hi }

type CollectionValue struct {
	Dimension  Dimension
	Geometries []Geometry
}

func (c CollectionValue) Kind() Kind                { return KindGeometryCollection }
func (c CollectionValue) Dim() Dimension            { return c.Dimension }
func (c CollectionValue) NumGeometries() int        { return len(c.Geometries) }
func (c CollectionValue) GeometryAt(i int) Geometry { return c.Geometries[i] }

// XYs builds XY coordinates from alternating x, y values.
func XYs(vals ...float64) []Coord {
	out := make([]Coord, len(vals)/2)
	for i := range out {
		out[i] = Coord{X: vals[2*i], Y: vals[2*i+1]}
	}
	return out
}

// XYZs builds XYZ coordinates from consecutive x, y, z triples.
func XYZs(vals ...float64) []Coord {
	out := make([]Coord, len(vals)/3)
	for i := range out {
		out[i] = Coord{X: vals[3*i], Y: vals[3*i+1], Z: vals[3*i+2]}
	}
	return out
}
