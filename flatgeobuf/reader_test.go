package flatgeobuf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/geometry"
)

// assertSameRows checks that got holds exactly the geometries of want, in any
// order. Rows read through the index do not keep file order.
func assertSameRows(t *testing.T, got geoarrow.Array, want ...orb.Geometry) {
	t.Helper()
	if got.Len() != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), got.Len())
	}

	used := make([]bool, got.Len())
	for i, w := range want {
		wv, err := geoarrow.FromOrb(w)
		if err != nil {
			t.Fatalf("FromOrb(%d) failed: %v", i, err)
		}
		found := false
		for j := 0; j < got.Len(); j++ {
			if !used[j] && geometry.Equal(got.Get(j), wv) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			t.Errorf("geometry %d (%v) not found in result", i, w)
		}
	}
}

func TestNewReaderFromData_Invalid(t *testing.T) {
	_, err := NewReaderFromData([]byte("not a flatgeobuf"))
	if err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestNewReaderFromData_Empty(t *testing.T) {
	_, err := NewReaderFromData([]byte{})
	if err == nil {
		t.Error("expected error for empty data")
	}
}

func TestRoundTrip_Points(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.fgb")

	geoms := make([]orb.Geometry, 10)
	for i := range geoms {
		geoms[i] = orb.Point{float64(i), float64(i * 2)}
	}

	file, err := os.Create(tmpFile)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	err = WriteArray(file, buildArray(t, nil, geoms...), &Options{
		Name:         "test_points",
		Description:  "ten points",
		IncludeIndex: true,
	})
	_ = file.Close()
	if err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}

	reader, err := NewReader(tmpFile)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	header := reader.Header()
	if header == nil {
		t.Fatal("expected non-nil header")
	}
	if header.Name != "test_points" {
		t.Errorf("expected name 'test_points', got %q", header.Name)
	}
	if header.Description != "ten points" {
		t.Errorf("expected description 'ten points', got %q", header.Description)
	}
	if header.GeometryType != "Point" {
		t.Errorf("expected geometry type 'Point', got %q", header.GeometryType)
	}
	if !header.HasIndex {
		t.Error("expected HasIndex to be true")
	}
	if header.FeaturesCount != 10 {
		t.Errorf("expected 10 features, got %d", header.FeaturesCount)
	}
	if header.HasZ || header.HasM {
		t.Error("expected XY header")
	}

	arr, err := reader.ReadArray(nil)
	if err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if arr.Kind() != geoarrow.KindPoint {
		t.Errorf("expected point array, got %s", arr.Kind())
	}
	assertSameRows(t, arr, geoms...)
}

func TestRoundTrip_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		kind  geoarrow.ArrayKind
		geoms []orb.Geometry
	}{
		{
			name: "linestring",
			kind: geoarrow.KindLineString,
			geoms: []orb.Geometry{
				orb.LineString{{0, 0}, {1, 1}, {2, 2}},
				orb.LineString{{5, 5}, {6, 6}},
			},
		},
		{
			name: "polygon with hole",
			kind: geoarrow.KindPolygon,
			geoms: []orb.Geometry{
				orb.Polygon{
					{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
					{{2, 2}, {4, 2}, {4, 4}, {2, 2}},
				},
				orb.Polygon{{{20, 20}, {30, 20}, {30, 30}, {20, 30}, {20, 20}}},
			},
		},
		{
			name: "multipoint",
			kind: geoarrow.KindMultiPoint,
			geoms: []orb.Geometry{
				orb.MultiPoint{{0, 0}, {1, 1}, {2, 2}},
				orb.MultiPoint{{7, 7}},
			},
		},
		{
			name: "multilinestring",
			kind: geoarrow.KindMultiLineString,
			geoms: []orb.Geometry{
				orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}, {4, 4}}},
			},
		},
		{
			name: "multipolygon",
			kind: geoarrow.KindMultiPolygon,
			geoms: []orb.Geometry{
				orb.MultiPolygon{
					{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
					{{{5, 5}, {6, 5}, {6, 6}, {5, 5}}, {{5.2, 5.1}, {5.8, 5.1}, {5.8, 5.7}, {5.2, 5.1}}},
				},
			},
		},
		{
			name: "mixed",
			kind: geoarrow.KindMixed,
			geoms: []orb.Geometry{
				orb.Point{1, 2},
				orb.LineString{{0, 0}, {1, 1}},
				orb.Polygon{{{0, 0}, {3, 0}, {3, 3}, {0, 0}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := writeArray(t, buildArray(t, nil, tt.geoms...), nil)

			r, err := NewReaderFromData(data)
			if err != nil {
				t.Fatalf("NewReaderFromData failed: %v", err)
			}
			defer func() { _ = r.Close() }()

			arr, err := r.ReadArray(nil)
			if err != nil {
				t.Fatalf("ReadArray failed: %v", err)
			}
			if arr.Kind() != tt.kind {
				t.Errorf("expected %s array, got %s", tt.kind, arr.Kind())
			}
			assertSameRows(t, arr, tt.geoms...)
		})
	}
}

func TestRoundTrip_RectAsPolygon(t *testing.T) {
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 3}}
	data := writeArray(t, buildArray(t, nil, b), nil)

	r, err := NewReaderFromData(data)
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	arr, err := r.ReadArray(nil)
	if err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if arr.Kind() != geoarrow.KindPolygon {
		t.Fatalf("expected polygon array, got %s", arr.Kind())
	}
	assertSameRows(t, arr, b.ToPolygon())
}

func TestRoundTrip_Search(t *testing.T) {
	var geoms []orb.Geometry
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			geoms = append(geoms, orb.Point{float64(x), float64(y)})
		}
	}

	r, err := NewReaderFromData(writeArray(t, buildArray(t, nil, geoms...), nil))
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}
	defer func() { _ = r.Close() }()

	arr, err := r.SearchArray(orb.Bound{Min: orb.Point{1.5, 1.5}, Max: orb.Point{4.5, 4.5}}, nil)
	if err != nil {
		t.Fatalf("SearchArray failed: %v", err)
	}

	var want []orb.Geometry
	for x := 2; x <= 4; x++ {
		for y := 2; y <= 4; y++ {
			want = append(want, orb.Point{float64(x), float64(y)})
		}
	}
	assertSameRows(t, arr, want...)
}

func TestRoundTrip_SearchNoMatch(t *testing.T) {
	r, err := NewReaderFromData(writeArray(t, buildArray(t, nil, orb.Point{1, 1}), nil))
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	arr, err := r.SearchArray(orb.Bound{Min: orb.Point{50, 50}, Max: orb.Point{60, 60}}, nil)
	if err != nil {
		t.Fatalf("SearchArray failed: %v", err)
	}
	if arr.Len() != 0 {
		t.Errorf("expected no rows, got %d", arr.Len())
	}
}

func TestReadArray_Options(t *testing.T) {
	opts := geoarrow.DefaultOptions()
	opts.Metadata.CRS = geoarrow.WGS84()
	arr := buildArray(t, opts, orb.LineString{{0, 0}, {1, 1}})

	r, err := NewReaderFromData(writeArray(t, arr, nil))
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	got, err := r.ReadArray(&geoarrow.Options{CoordType: geoarrow.Separated})
	if err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if got.CoordType() != geoarrow.Separated {
		t.Errorf("expected separated coordinates, got %s", got.CoordType())
	}
	crs := got.Metadata().CRS
	if crs == nil || crs.Code != 4326 {
		t.Errorf("expected header CRS on array, got %+v", crs)
	}
}

func TestFeatureGeometries_MissingFeatures(t *testing.T) {
	geoms, err := featureGeometries([]*flattypes.Feature{nil, nil}, flattypes.GeometryTypePoint, geometry.XY)
	if err != nil {
		t.Fatalf("featureGeometries failed: %v", err)
	}
	if len(geoms) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(geoms))
	}
	for i, g := range geoms {
		if g != nil {
			t.Errorf("expected row %d to be null, got %v", i, g)
		}
	}

	arr, err := geoarrow.BuildKind(geoarrow.KindPoint, geoms, nil)
	if err != nil {
		t.Fatalf("BuildKind failed: %v", err)
	}
	if arr.Len() != 2 || arr.NullN() != 2 {
		t.Errorf("expected 2 null rows, got %d rows with %d nulls", arr.Len(), arr.NullN())
	}
}
