package geometry

// AsMulti presents g as its multi-part counterpart without copying. Points,
// LineStrings and Polygons become one-part multis (zero parts when empty),
// XY Rects become a one-polygon MultiPolygon and multi kinds are returned
// unchanged. The second result is false when g has no multi counterpart.
func AsMulti(g Geometry) (Geometry, bool) {
	switch g.Kind() {
	case KindPoint:
		p, ok := g.(Point)
		if !ok {
			return nil, false
		}
		return multiPoint{p}, true
	case KindLineString:
		ls, ok := g.(LineString)
		if !ok {
			return nil, false
		}
		return multiLineString{ls}, true
	case KindPolygon:
		poly, ok := g.(Polygon)
		if !ok {
			return nil, false
		}
		return multiPolygon{poly}, true
	case KindRect:
		r, ok := g.(Rect)
		if !ok {
			return nil, false
		}
		poly, ok := RectPolygon(r)
		if !ok {
			return nil, false
		}
		return multiPolygon{poly}, true
	case KindMultiPoint, KindMultiLineString, KindMultiPolygon:
		return g, true
	}
	return nil, false
}

// Single returns the only part of a one-part multi geometry. Singular kinds
// are returned unchanged.
func Single(g Geometry) (Geometry, bool) {
	switch g.Kind() {
	case KindPoint, KindLineString, KindPolygon:
		return g, true
	case KindMultiPoint:
		if mp, ok := g.(MultiPoint); ok && mp.NumPoints() == 1 {
			return mp.PointAt(0), true
		}
	case KindMultiLineString:
		if ml, ok := g.(MultiLineString); ok && ml.NumLineStrings() == 1 {
			return ml.LineStringAt(0), true
		}
	case KindMultiPolygon:
		if mp, ok := g.(MultiPolygon); ok && mp.NumPolygons() == 1 {
			return mp.PolygonAt(0), true
		}
	}
	return nil, false
}

// RectPolygon presents an XY rect as a closed counter-clockwise ring. Rects
// with Z or M ordinates have no unambiguous polygon form.
func RectPolygon(r Rect) (Polygon, bool) {
	if r.Dim() != XY {
		return nil, false
	}
	return rectPolygon{r}, true
}

type multiPoint struct{ p Point }

func (m multiPoint) Kind() Kind     { return KindMultiPoint }
func (m multiPoint) Dim() Dimension { return m.p.Dim() }

func (m multiPoint) NumPoints() int {
	if _, ok := m.p.Coord(); !ok {
		return 0
	}
	return 1
}

func (m multiPoint) PointAt(int) Point { return m.p }

type multiLineString struct{ ls LineString }

func (m multiLineString) Kind() Kind     { return KindMultiLineString }
func (m multiLineString) Dim() Dimension { return m.ls.Dim() }

func (m multiLineString) NumLineStrings() int {
	if m.ls.NumCoords() == 0 {
		return 0
	}
	return 1
}

func (m multiLineString) LineStringAt(int) LineString { return m.ls }

type multiPolygon struct{ p Polygon }

func (m multiPolygon) Kind() Kind     { return KindMultiPolygon }
func (m multiPolygon) Dim() Dimension { return m.p.Dim() }

func (m multiPolygon) NumPolygons() int {
	if m.p.NumRings() == 0 {
		return 0
	}
	return 1
}

func (m multiPolygon) PolygonAt(int) Polygon { return m.p }

type rectPolygon struct{ r Rect }

func (p rectPolygon) Kind() Kind            { return KindPolygon }
func (p rectPolygon) Dim() Dimension        { return XY }
func (p rectPolygon) NumRings() int         { return 1 }
func (p rectPolygon) RingAt(int) LineString { return rectRing(p) }

type rectRing rectPolygon

func (r rectRing) Kind() Kind     { return KindLineString }
func (r rectRing) Dim() Dimension { return XY }
func (r rectRing) NumCoords() int { return 5 }

func (r rectRing) CoordAt(i int) Coord {
	lo, hi := r.r.Min(), r.r.Max()
	switch i {
	case 1:
		return Coord{X: hi.X, Y: lo.Y}
	case 2:
		return Coord{X: hi.X, Y: hi.Y}
	case 3:
		return Coord{X: lo.X, Y: hi.Y}
	default:
		return Coord{X: lo.X, Y: lo.Y}
	}
}
