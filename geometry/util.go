package geometry

// NumCoords returns the total number of coordinates reachable from g. Empty
// points count as zero.
func NumCoords(g Geometry) int {
	switch g.Kind() {
	case KindPoint:
		if _, ok := g.(Point).Coord(); ok {
			return 1
		}
		return 0
	case KindLineString:
		return g.(LineString).NumCoords()
	case KindPolygon:
		p := g.(Polygon)
		n := 0
		for i := 0; i < p.NumRings(); i++ {
			n += p.RingAt(i).NumCoords()
		}
		return n
	case KindMultiPoint:
		mp := g.(MultiPoint)
		n := 0
		for i := 0; i < mp.NumPoints(); i++ {
			n += NumCoords(mp.PointAt(i))
		}
		return n
	case KindMultiLineString:
		ml := g.(MultiLineString)
		n := 0
		for i := 0; i < ml.NumLineStrings(); i++ {
			n += ml.LineStringAt(i).NumCoords()
		}
		return n
	case KindMultiPolygon:
		mp := g.(MultiPolygon)
		n := 0
		for i := 0; i < mp.NumPolygons(); i++ {
			n += NumCoords(mp.PolygonAt(i))
		}
		return n
	case KindRect:
		return 2
	case KindGeometryCollection:
		gc := g.(GeometryCollection)
		n := 0
		for i := 0; i < gc.NumGeometries(); i++ {
			n += NumCoords(gc.GeometryAt(i))
		}
		return n
	}
	return 0
}

// IsEmpty reports whether g has no coordinates and no parts.
func IsEmpty(g Geometry) bool {
	switch g.Kind() {
	case KindPoint:
		_, ok := g.(Point).Coord()
		return !ok
	case KindLineString:
		return g.(LineString).NumCoords() == 0
	case KindPolygon:
		return g.(Polygon).NumRings() == 0
	case KindMultiPoint:
		return g.(MultiPoint).NumPoints() == 0
	case KindMultiLineString:
		return g.(MultiLineString).NumLineStrings() == 0
	case KindMultiPolygon:
		return g.(MultiPolygon).NumPolygons() == 0
	case KindGeometryCollection:
		return g.(GeometryCollection).NumGeometries() == 0
	}
	return false
}

// Equal reports whether a and b have the same kind, dimension, nesting and
// coordinates. Nil geometries are equal only to nil.
func Equal(a, b Geometry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.Dim() != b.Dim() {
		return false
	}
	d := a.Dim()
	switch a.Kind() {
	case KindPoint:
		ca, oka := a.(Point).Coord()
		cb, okb := b.(Point).Coord()
		return oka == okb && (!oka || ca.Equal(cb, d))
	case KindLineString:
		return lineStringEqual(a.(LineString), b.(LineString), d)
	case KindPolygon:
		return polygonEqual(a.(Polygon), b.(Polygon), d)
	case KindMultiPoint:
		ma, mb := a.(MultiPoint), b.(MultiPoint)
		if ma.NumPoints() != mb.NumPoints() {
			return false
		}
		for i := 0; i < ma.NumPoints(); i++ {
			if !Equal(ma.PointAt(i), mb.PointAt(i)) {
				return false
			}
		}
		return true
	case KindMultiLineString:
		ma, mb := a.(MultiLineString), b.(MultiLineString)
		if ma.NumLineStrings() != mb.NumLineStrings() {
			return false
		}
		for i := 0; i < ma.NumLineStrings(); i++ {
			if !lineStringEqual(ma.LineStringAt(i), mb.LineStringAt(i), d) {
				return false
			}
		}
		return true
	case KindMultiPolygon:
		ma, mb := a.(MultiPolygon), b.(MultiPolygon)
		if ma.NumPolygons() != mb.NumPolygons() {
			return false
		}
		for i := 0; i < ma.NumPolygons(); i++ {
			if !polygonEqual(ma.PolygonAt(i), mb.PolygonAt(i), d) {
				return false
			}
		}
		return true
	case KindRect:
		ra, rb := a.(Rect), b.(Rect)
		return ra.Min().Equal(rb.Min(), d) && ra.Max().Equal(rb.Max(), d)
	case KindGeometryCollection:
		ga, gb := a.(GeometryCollection), b.(GeometryCollection)
		if ga.NumGeometries() != gb.NumGeometries() {
			return false
		}
		for i := 0; i < ga.NumGeometries(); i++ {
			if !Equal(ga.GeometryAt(i), gb.GeometryAt(i)) {
				return false
			}
		}
		return true
	}
	return false
}

func lineStringEqual(a, b LineString, d Dimension) bool {
	if a.NumCoords() != b.NumCoords() {
		return false
	}
	for i := 0; i < a.NumCoords(); i++ {
		if !a.CoordAt(i).Equal(b.CoordAt(i), d) {
			return false
		}
	}
	return true
}

func polygonEqual(a, b Polygon, d Dimension) bool {
	if a.NumRings() != b.NumRings() {
		return false
	}
	for i := 0; i < a.NumRings(); i++ {
		if !lineStringEqual(a.RingAt(i), b.RingAt(i), d) {
			return false
		}
	}
	return true
}
