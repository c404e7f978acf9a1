package flatgeobuf

import (
	"errors"
	"testing"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	flatbuffers "github.com/google/flatbuffers/go"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/geometry"
)

func TestArrayKindToFGB(t *testing.T) {
	tests := []struct {
		kind     geoarrow.ArrayKind
		expected flattypes.GeometryType
	}{
		{geoarrow.KindPoint, flattypes.GeometryTypePoint},
		{geoarrow.KindLineString, flattypes.GeometryTypeLineString},
		{geoarrow.KindPolygon, flattypes.GeometryTypePolygon},
		{geoarrow.KindMultiPoint, flattypes.GeometryTypeMultiPoint},
		{geoarrow.KindMultiLineString, flattypes.GeometryTypeMultiLineString},
		{geoarrow.KindMultiPolygon, flattypes.GeometryTypeMultiPolygon},
		{geoarrow.KindRect, flattypes.GeometryTypePolygon},
		{geoarrow.KindMixed, flattypes.GeometryTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := arrayKindToFGB(tt.kind); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFGBToArrayKind(t *testing.T) {
	for _, k := range []geoarrow.ArrayKind{
		geoarrow.KindPoint,
		geoarrow.KindLineString,
		geoarrow.KindPolygon,
		geoarrow.KindMultiPoint,
		geoarrow.KindMultiLineString,
		geoarrow.KindMultiPolygon,
	} {
		got, err := fgbToArrayKind(arrayKindToFGB(k))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", k, err)
		}
		if got != k {
			t.Errorf("expected %s, got %s", k, got)
		}
	}

	if got, err := fgbToArrayKind(flattypes.GeometryTypeUnknown); err != nil || got != 0 {
		t.Errorf("expected unresolved kind for Unknown, got %s, %v", got, err)
	}

	for _, typ := range []flattypes.GeometryType{
		flattypes.GeometryTypeGeometryCollection,
		flattypes.GeometryTypeCircularString,
		flattypes.GeometryTypeTIN,
	} {
		if _, err := fgbToArrayKind(typ); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("%v: expected ErrUnsupportedType, got %v", typ, err)
		}
	}
}

func TestGeometryToFGB(t *testing.T) {
	tests := []struct {
		name string
		geom geometry.Geometry
	}{
		{"point", geometry.NewPoint(1, 2)},
		{"empty point", geometry.EmptyPoint(geometry.XY)},
		{"linestring", geometry.LineStringValue{Coords: geometry.XYs(0, 0, 1, 1)}},
		{"polygon", geometry.PolygonValue{Rings: [][]geometry.Coord{
			geometry.XYs(0, 0, 1, 0, 1, 1, 0, 0),
		}}},
		{"multipoint", geometry.MultiPointValue{Points: geometry.XYs(1, 2, 3, 4)}},
		{"multilinestring", geometry.MultiLineStringValue{Lines: [][]geometry.Coord{
			geometry.XYs(0, 0, 1, 1),
			geometry.XYs(2, 2, 3, 3),
		}}},
		{"multipolygon", geometry.MultiPolygonValue{Polygons: [][][]geometry.Coord{
			{geometry.XYs(0, 0, 1, 0, 1, 1, 0, 0)},
		}}},
		{"rect", geometry.RectValue{Lo: geometry.Coord{X: 0, Y: 0}, Hi: geometry.Coord{X: 1, Y: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := flatbuffers.NewBuilder(1024)
			if g := geometryToFGB(tt.geom, builder); g == nil {
				t.Error("expected non-nil geometry")
			}
		})
	}
}

func TestGeometryToFGB_Unsupported(t *testing.T) {
	builder := flatbuffers.NewBuilder(1024)

	if g := geometryToFGB(nil, builder); g != nil {
		t.Error("expected nil for nil geometry")
	}

	rect := geometry.RectValue{Dimension: geometry.XYM}
	if g := geometryToFGB(rect, builder); g != nil {
		t.Error("expected nil for XYM rect")
	}

	collection := geometry.CollectionValue{Geometries: []geometry.Geometry{geometry.NewPoint(1, 2)}}
	if g := geometryToFGB(collection, builder); g != nil {
		t.Error("expected nil for collection")
	}
}
