package geoarrow

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/twpayne/go-geom"

	"github.com/tingold/orb-geoarrow/geometry"
)

func TestOrbRoundTrip(t *testing.T) {
	outer := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	inner := orb.Ring{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}}

	tests := []struct {
		name string
		g    orb.Geometry
	}{
		{"point", orb.Point{1, 2}},
		{"linestring", orb.LineString{{0, 0}, {1, 1}, {2, 0}}},
		{"polygon", orb.Polygon{outer, inner}},
		{"multipoint", orb.MultiPoint{{0, 0}, {1, 1}}},
		{"multilinestring", orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}},
		{"multipolygon", orb.MultiPolygon{{outer}, {inner}}},
		{"bound", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 3}}},
		{"collection", orb.Collection{orb.Point{1, 1}, orb.LineString{{0, 0}, {1, 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromOrb(tt.g)
			if err != nil {
				t.Fatalf("FromOrb failed: %v", err)
			}
			if g.Dim() != geometry.XY {
				t.Errorf("expected XY, got %s", g.Dim())
			}
			back, err := ToOrb(g)
			if err != nil {
				t.Fatalf("ToOrb failed: %v", err)
			}
			if diff := cmp.Diff(tt.g, back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrb_BuildFromViews(t *testing.T) {
	var geoms []geometry.Geometry
	for _, o := range []orb.Geometry{
		orb.Point{1, 2},
		nil,
		orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 0}}},
	} {
		g, err := FromOrb(o)
		if err != nil {
			t.Fatalf("FromOrb failed: %v", err)
		}
		geoms = append(geoms, g)
	}

	arr, err := Build(geoms, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if arr.Kind() != KindMixed {
		t.Fatalf("expected mixed array, got %s", arr.Kind())
	}
	if arr.Get(1) != nil {
		t.Error("expected nil orb geometry to become a null row")
	}
	ring, err := ToOrb(arr.Get(2))
	if err != nil {
		t.Fatalf("ToOrb failed: %v", err)
	}
	if _, ok := ring.(orb.Polygon); !ok {
		t.Errorf("expected ring to be stored as a polygon, got %T", ring)
	}
}

func TestOrb_EmptyPoint(t *testing.T) {
	g, err := FromOrb(orb.Point{math.NaN(), math.NaN()})
	if err != nil {
		t.Fatalf("FromOrb failed: %v", err)
	}
	if !geometry.IsEmpty(g) {
		t.Error("expected NaN orb point to be empty")
	}
	back, err := ToOrb(geometry.EmptyPoint(geometry.XY))
	if err != nil {
		t.Fatalf("ToOrb failed: %v", err)
	}
	if p := back.(orb.Point); !math.IsNaN(p[0]) || !math.IsNaN(p[1]) {
		t.Errorf("expected NaN ordinates, got %v", p)
	}
}

func TestGeomRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		g    geom.T
	}{
		{"point xyz", geom.NewPointFlat(geom.XYZ, []float64{1, 2, 3})},
		{"linestring xym", geom.NewLineStringFlat(geom.XYM, []float64{0, 0, 1, 1, 1, 2})},
		{"polygon", geom.NewPolygonFlat(geom.XY, []float64{0, 0, 4, 0, 4, 4, 0, 0, 1, 1, 2, 1, 2, 2, 1, 1}, []int{8, 16})},
		{"multipoint", geom.NewMultiPointFlat(geom.XY, []float64{0, 0, 1, 1})},
		{"multilinestring xyzm", geom.NewMultiLineStringFlat(geom.XYZM, []float64{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}, []int{8, 16})},
		{"multipolygon", geom.NewMultiPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 0, 5, 5, 6, 5, 6, 6, 5, 5}, [][]int{{8}, {16}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromGeom(tt.g)
			if err != nil {
				t.Fatalf("FromGeom failed: %v", err)
			}
			back, err := ToGeom(g)
			if err != nil {
				t.Fatalf("ToGeom failed: %v", err)
			}
			if back.Layout() != tt.g.Layout() {
				t.Errorf("expected layout %v, got %v", tt.g.Layout(), back.Layout())
			}
			if diff := cmp.Diff(tt.g.FlatCoords(), back.FlatCoords()); diff != "" {
				t.Errorf("flat coordinates mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.g.Ends(), back.Ends()); diff != "" {
				t.Errorf("ends mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.g.Endss(), back.Endss()); diff != "" {
				t.Errorf("endss mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeom_ThroughArray(t *testing.T) {
	poly := geom.NewPolygonFlat(geom.XYZ, []float64{0, 0, 1, 4, 0, 1, 4, 4, 1, 0, 0, 1}, []int{12})
	g, err := FromGeom(poly)
	if err != nil {
		t.Fatalf("FromGeom failed: %v", err)
	}
	arr, err := Build([]geometry.Geometry{g}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if arr.Kind() != KindPolygon || arr.Dim() != geometry.XYZ {
		t.Fatalf("expected XYZ polygon array, got %s %s", arr.Dim(), arr.Kind())
	}
	out, err := ToGeom(arr.Get(0))
	if err != nil {
		t.Fatalf("ToGeom failed: %v", err)
	}
	if diff := cmp.Diff(poly.FlatCoords(), out.FlatCoords()); diff != "" {
		t.Errorf("flat coordinates mismatch (-want +got):\n%s", diff)
	}
}

func TestGeom_Unsupported(t *testing.T) {
	rect := geometry.RectValue{Dimension: geometry.XYM}
	if _, err := ToGeom(rect); !errors.Is(err, ErrUnsupportedGeometryType) {
		t.Errorf("expected ErrUnsupportedGeometryType, got %v", err)
	}

	xy, err := ToGeom(geometry.RectValue{Hi: geometry.Coord{X: 1, Y: 1}})
	if err != nil {
		t.Fatalf("ToGeom failed: %v", err)
	}
	if _, ok := xy.(*geom.Polygon); !ok {
		t.Errorf("expected XY rect to become a polygon, got %T", xy)
	}

	if g, err := FromGeom(nil); g != nil || err != nil {
		t.Errorf("expected nil, nil for nil input, got %v, %v", g, err)
	}
}

func TestOrb_BoundAsRect(t *testing.T) {
	g, err := FromOrb(orb.Bound{Min: orb.Point{-1, -2}, Max: orb.Point{3, 4}})
	if err != nil {
		t.Fatalf("FromOrb failed: %v", err)
	}
	r, ok := g.(geometry.Rect)
	if !ok {
		t.Fatalf("expected a rect view, got %T", g)
	}
	if diff := cmp.Diff(geometry.Coord{X: -1, Y: -2}, r.Min()); diff != "" {
		t.Errorf("min mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.Coord{X: 3, Y: 4}, r.Max()); diff != "" {
		t.Errorf("max mismatch (-want +got):\n%s", diff)
	}
}
