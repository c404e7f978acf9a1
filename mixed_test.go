package geoarrow

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tingold/orb-geoarrow/geometry"
)

func mixedInput() []geometry.Geometry {
	return []geometry.Geometry{
		geometry.NewPoint(1, 1),
		geometry.LineStringValue{Coords: geometry.XYs(0, 0, 1, 1)},
		geometry.MultiPolygonValue{Polygons: [][][]geometry.Coord{{square}, {tri}}},
		geometry.NewPoint(2, 2),
	}
}

func TestMixedArray_PreservesOrder(t *testing.T) {
	geoms := mixedInput()
	arr, err := Build(geoms, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	m, ok := arr.(*MixedArray)
	if !ok {
		t.Fatalf("expected *MixedArray, got %T", arr)
	}

	wantKinds := []geometry.Kind{geometry.KindPoint, geometry.KindLineString, geometry.KindMultiPolygon, geometry.KindPoint}
	for i, want := range wantKinds {
		if got := m.KindOf(i); got != want {
			t.Errorf("row %d: expected %s, got %s", i, want, got)
		}
		if !geometry.Equal(geoms[i], m.Get(i)) {
			t.Errorf("row %d differs from input", i)
		}
	}
	if diff := cmp.Diff([]int32{0, 0, 0, 1}, m.ChildOffsets()); diff != "" {
		t.Errorf("child offsets mismatch (-want +got):\n%s", diff)
	}
	if m.Points().Len() != 2 || m.LineStrings().Len() != 1 || m.MultiPolygons().Len() != 1 {
		t.Error("unexpected child lengths")
	}
	if m.Polygons() != nil || m.MultiPoints() != nil || m.MultiLineStrings() != nil {
		t.Error("expected children only for kinds that were pushed")
	}
}

func TestMixedArray_PreferMulti(t *testing.T) {
	geoms := append(mixedInput(), nil, geometry.RectValue{Lo: geometry.Coord{X: 0, Y: 0}, Hi: geometry.Coord{X: 1, Y: 1}})
	opts := DefaultOptions()
	opts.PreferMulti = true

	arr, err := BuildKind(KindMixed, geoms, opts)
	if err != nil {
		t.Fatalf("BuildKind failed: %v", err)
	}
	m := arr.(*MixedArray)
	if !m.PreferMulti() {
		t.Error("expected PreferMulti to be recorded")
	}
	if m.Points() != nil || m.LineStrings() != nil || m.Polygons() != nil {
		t.Error("expected no singular children with PreferMulti")
	}

	wantKinds := []geometry.Kind{
		geometry.KindMultiPoint,
		geometry.KindMultiLineString,
		geometry.KindMultiPolygon,
		geometry.KindMultiPoint,
		geometry.KindMultiPoint,
		geometry.KindMultiPolygon,
	}
	for i, want := range wantKinds {
		if got := m.KindOf(i); got != want {
			t.Errorf("row %d: expected %s, got %s", i, want, got)
		}
	}
	if !m.IsNull(4) || m.Get(4) != nil {
		t.Error("expected row 4 to be null")
	}

	mp, ok := m.Get(0).(geometry.MultiPoint)
	if !ok || mp.NumPoints() != 1 {
		t.Fatalf("expected single-part multipoint, got %v", m.Get(0))
	}
	if c, _ := mp.PointAt(0).Coord(); c != (geometry.Coord{X: 1, Y: 1}) {
		t.Errorf("expected (1, 1), got %+v", c)
	}
	rect, ok := m.Get(5).(geometry.MultiPolygon)
	if !ok || rect.NumPolygons() != 1 || rect.PolygonAt(0).RingAt(0).NumCoords() != 5 {
		t.Errorf("expected rect stored as a one-polygon multipolygon, got %v", m.Get(5))
	}
}

func TestMixedArray_TypeIDs(t *testing.T) {
	geoms := []geometry.Geometry{
		geometry.PointValue{Dimension: geometry.XYZ, C: geometry.Coord{X: 1, Y: 2, Z: 3}},
		geometry.LineStringValue{Dimension: geometry.XYZ, Coords: geometry.XYZs(0, 0, 0, 1, 1, 1)},
	}
	arr, err := BuildKind(KindMixed, geoms, nil)
	if err != nil {
		t.Fatalf("BuildKind failed: %v", err)
	}
	m := arr.(*MixedArray)
	if diff := cmp.Diff([]int8{11, 12}, m.TypeIDs()); diff != "" {
		t.Errorf("type ids mismatch (-want +got):\n%s", diff)
	}
	if m.Dim() != geometry.XYZ {
		t.Errorf("expected XYZ, got %s", m.Dim())
	}
}

func TestMixedArray_Slice(t *testing.T) {
	arr, err := Build(mixedInput(), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	s := arr.Slice(1, 3)
	if s.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", s.Len())
	}
	m := s.(*MixedArray)
	if m.KindOf(0) != geometry.KindLineString || m.KindOf(2) != geometry.KindPoint {
		t.Errorf("unexpected kinds after slicing: %s, %s", m.KindOf(0), m.KindOf(2))
	}
	if !geometry.Equal(geometry.NewPoint(2, 2), s.Get(2)) {
		t.Error("last row of slice differs")
	}
}

func TestMixedBuilder_FailedPush(t *testing.T) {
	c := MixedCapacity{}
	if err := c.AddGeometry(geometry.NewPoint(0, 0)); err != nil {
		t.Fatalf("AddGeometry failed: %v", err)
	}
	b, err := NewMixedBuilder(geometry.XY, c, nil)
	if err != nil {
		t.Fatalf("NewMixedBuilder failed: %v", err)
	}

	if err := b.PushGeometry(geometry.LineStringValue{Coords: geometry.XYs(0, 0, 1, 1)}); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	collection := geometry.CollectionValue{Geometries: []geometry.Geometry{geometry.NewPoint(0, 0)}}
	if err := b.PushGeometry(collection); !errors.Is(err, ErrUnsupportedGeometryType) {
		t.Errorf("expected ErrUnsupportedGeometryType, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("expected no rows after failed pushes, got %d", b.Len())
	}

	if err := b.PushGeometry(geometry.NewPoint(5, 6)); err != nil {
		t.Fatalf("PushGeometry failed: %v", err)
	}
	arr, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if !geometry.Equal(geometry.NewPoint(5, 6), arr.Get(0)) {
		t.Error("stored point differs from input")
	}
}
