package geometry

import (
	"math"
	"testing"
)

func TestKindMulti(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected Kind
	}{
		{KindPoint, KindMultiPoint},
		{KindMultiPoint, KindMultiPoint},
		{KindLineString, KindMultiLineString},
		{KindPolygon, KindMultiPolygon},
		{KindRect, KindMultiPolygon},
		{KindMultiPolygon, KindMultiPolygon},
		{KindGeometryCollection, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Multi(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDimensionSize(t *testing.T) {
	tests := []struct {
		dim  Dimension
		size int
		z, m bool
	}{
		{XY, 2, false, false},
		{XYZ, 3, true, false},
		{XYM, 3, false, true},
		{XYZM, 4, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.dim.String(), func(t *testing.T) {
			if tt.dim.Size() != tt.size {
				t.Errorf("expected size %d, got %d", tt.size, tt.dim.Size())
			}
			if tt.dim.HasZ() != tt.z || tt.dim.HasM() != tt.m {
				t.Errorf("unexpected z/m flags for %v", tt.dim)
			}
		})
	}
}

func TestCoordOrdinate(t *testing.T) {
	c := Coord{X: 1, Y: 2, Z: 3, M: 4}

	if got := c.Ordinate(XYM, 2); got != 4 {
		t.Errorf("XYM third ordinate: expected 4 (M), got %v", got)
	}
	if got := c.Ordinate(XYZ, 2); got != 3 {
		t.Errorf("XYZ third ordinate: expected 3 (Z), got %v", got)
	}
	if got := c.Ordinate(XYZM, 3); got != 4 {
		t.Errorf("XYZM fourth ordinate: expected 4, got %v", got)
	}

	var d Coord
	for i := 0; i < XYM.Size(); i++ {
		d.SetOrdinate(XYM, i, c.Ordinate(XYM, i))
	}
	if !d.Equal(Coord{X: 1, Y: 2, M: 4}, XYM) || d.Z != 0 {
		t.Errorf("SetOrdinate round trip failed: %+v", d)
	}
}

func TestCoordNaN(t *testing.T) {
	if !NaNCoord().IsNaN(XYZM) {
		t.Error("expected NaNCoord to be NaN in every dimension")
	}
	half := Coord{X: math.NaN(), Y: 1}
	if half.IsNaN(XY) {
		t.Error("a coordinate with one real ordinate is not NaN")
	}
	if !NaNCoord().Equal(NaNCoord(), XY) {
		t.Error("NaN coordinates should compare equal")
	}
}

func TestAsMulti(t *testing.T) {
	line := LineStringValue{Dimension: XY, Coords: XYs(0, 0, 1, 1)}

	g, ok := AsMulti(line)
	if !ok {
		t.Fatal("expected LineString to have a multi form")
	}
	ml, ok := g.(MultiLineString)
	if !ok || g.Kind() != KindMultiLineString {
		t.Fatalf("expected MultiLineString, got %v", g.Kind())
	}
	if ml.NumLineStrings() != 1 || !Equal(ml.LineStringAt(0), line) {
		t.Error("wrapped linestring does not match input")
	}

	empty, _ := AsMulti(EmptyPoint(XY))
	if empty.(MultiPoint).NumPoints() != 0 {
		t.Error("empty point should become an empty multipoint")
	}

	if _, ok := AsMulti(CollectionValue{}); ok {
		t.Error("collections have no multi form")
	}
}

func TestSingle(t *testing.T) {
	mp := MultiPointValue{Dimension: XY, Points: XYs(3, 4)}
	g, ok := Single(mp)
	if !ok {
		t.Fatal("expected single part")
	}
	if !Equal(g, NewPoint(3, 4)) {
		t.Errorf("unexpected part %+v", g)
	}

	two := MultiPointValue{Dimension: XY, Points: XYs(3, 4, 5, 6)}
	if _, ok := Single(two); ok {
		t.Error("two-part multipoint has no single form")
	}
}

func TestRectPolygon(t *testing.T) {
	r := RectValue{Dimension: XY, Lo: Coord{X: 0, Y: 0}, Hi: Coord{X: 4, Y: 2}}
	poly, ok := RectPolygon(r)
	if !ok {
		t.Fatal("expected XY rect to convert")
	}

	expected := PolygonValue{Dimension: XY, Rings: [][]Coord{XYs(0, 0, 4, 0, 4, 2, 0, 2, 0, 0)}}
	if !Equal(poly, expected) {
		t.Error("rect ring does not match expected closed ring")
	}

	if _, ok := RectPolygon(RectValue{Dimension: XYZ}); ok {
		t.Error("XYZ rect should not convert")
	}
}

func TestNumCoords(t *testing.T) {
	tests := []struct {
		name     string
		geom     Geometry
		expected int
	}{
		{"Point", NewPoint(1, 2), 1},
		{"EmptyPoint", EmptyPoint(XY), 0},
		{"LineString", LineStringValue{Coords: XYs(0, 0, 1, 1, 2, 2)}, 3},
		{"Polygon", PolygonValue{Rings: [][]Coord{XYs(0, 0, 1, 0, 1, 1, 0, 0), XYs(0, 0, 1, 1, 0, 0)}}, 7},
		{"MultiPolygon", MultiPolygonValue{Polygons: [][][]Coord{{XYs(0, 0, 1, 0, 0, 0)}, {XYs(5, 5, 6, 6, 5, 5)}}}, 6},
		{"Rect", RectValue{}, 2},
		{"Collection", CollectionValue{Geometries: []Geometry{NewPoint(1, 1), LineStringValue{Coords: XYs(0, 0, 1, 1)}}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NumCoords(tt.geom); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := PolygonValue{Dimension: XY, Rings: [][]Coord{XYs(0, 0, 4, 0, 4, 4, 0, 0)}}
	b := PolygonValue{Dimension: XY, Rings: [][]Coord{XYs(0, 0, 4, 0, 4, 4, 0, 0)}}
	c := PolygonValue{Dimension: XY, Rings: [][]Coord{XYs(0, 0, 4, 0, 4, 5, 0, 0)}}

	if !Equal(a, b) {
		t.Error("identical polygons should be equal")
	}
	if Equal(a, c) {
		t.Error("polygons with different coordinates should differ")
	}
	if Equal(a, nil) || !Equal(nil, nil) {
		t.Error("nil handling is wrong")
	}
	if Equal(EmptyPoint(XY), NewPoint(0, 0)) {
		t.Error("empty point must differ from a point at the origin")
	}
	if Equal(NewPoint(1, 2), PointValue{Dimension: XYZ, C: Coord{X: 1, Y: 2}}) {
		t.Error("dimension must participate in equality")
	}
}
