package flatgeobuf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/paulmach/orb"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/geometry"
)

// buildArray builds an array from orb geometries; nil entries become null rows.
func buildArray(t testing.TB, opts *geoarrow.Options, geoms ...orb.Geometry) geoarrow.Array {
	t.Helper()
	views := make([]geometry.Geometry, len(geoms))
	for i, g := range geoms {
		v, err := geoarrow.FromOrb(g)
		if err != nil {
			t.Fatalf("FromOrb(%d) failed: %v", i, err)
		}
		views[i] = v
	}
	arr, err := geoarrow.Build(views, opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return arr
}

func writeArray(t testing.TB, arr geoarrow.Array, opts *Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteArray(&buf, arr, opts); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}
	return buf.Bytes()
}

func TestWriteArray_Points(t *testing.T) {
	arr := buildArray(t, nil, orb.Point{1, 2}, orb.Point{3, 4}, orb.Point{5, 6})

	data := writeArray(t, arr, nil)
	if len(data) < 8 {
		t.Fatal("output too short")
	}

	expectedMagic := []byte{0x66, 0x67, 0x62, 0x03, 0x66, 0x67, 0x62, 0x00}
	for i, b := range expectedMagic {
		if data[i] != b {
			t.Errorf("magic byte %d: expected 0x%02x, got 0x%02x", i, b, data[i])
		}
	}
}

func TestWriteArray_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		geoms []orb.Geometry
		want  string
	}{
		{"point", []orb.Geometry{orb.Point{1, 2}}, "Point"},
		{"linestring", []orb.Geometry{orb.LineString{{0, 0}, {1, 1}, {2, 2}}}, "LineString"},
		{"polygon", []orb.Geometry{orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 0}}}}, "Polygon"},
		{"multipoint", []orb.Geometry{orb.MultiPoint{{0, 0}, {1, 1}}}, "MultiPoint"},
		{"multilinestring", []orb.Geometry{orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}}, "MultiLineString"},
		{"multipolygon", []orb.Geometry{orb.MultiPolygon{
			{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
			{{{5, 5}, {6, 5}, {6, 6}, {5, 5}}},
		}}, "MultiPolygon"},
		{"single-part multipolygon", []orb.Geometry{orb.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}}, "Polygon"},
		{"rect", []orb.Geometry{orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}}, "Polygon"},
		{"mixed", []orb.Geometry{orb.Point{1, 2}, orb.LineString{{0, 0}, {1, 1}}}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := writeArray(t, buildArray(t, nil, tt.geoms...), nil)

			r, err := NewReaderFromData(data)
			if err != nil {
				t.Fatalf("NewReaderFromData failed: %v", err)
			}
			defer func() { _ = r.Close() }()

			if got := r.Header().GeometryType; got != tt.want {
				t.Errorf("expected geometry type %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWriteArray_SkipsNulls(t *testing.T) {
	arr := buildArray(t, nil, orb.Point{1, 2}, nil, orb.Point{3, 4})

	r, err := NewReaderFromData(writeArray(t, arr, nil))
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	if got := r.Header().FeaturesCount; got != 2 {
		t.Errorf("expected 2 features, got %d", got)
	}
}

func TestWriteArray_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteArray(&buf, nil, nil); !errors.Is(err, ErrEmptyArray) {
		t.Errorf("expected ErrEmptyArray for nil array, got %v", err)
	}

	allNull := buildArray(t, nil, orb.Point{1, 2}).Slice(0, 0)
	if err := WriteArray(&buf, allNull, nil); !errors.Is(err, ErrEmptyArray) {
		t.Errorf("expected ErrEmptyArray for empty array, got %v", err)
	}
}

func TestWriteArray_RectWithZ(t *testing.T) {
	r := geometry.RectValue{
		Dimension: geometry.XYZ,
		Lo:        geometry.Coord{X: 0, Y: 0, Z: 0},
		Hi:        geometry.Coord{X: 1, Y: 1, Z: 1},
	}
	arr, err := geoarrow.BuildKind(geoarrow.KindRect, []geometry.Geometry{r}, nil)
	if err != nil {
		t.Fatalf("BuildKind failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteArray(&buf, arr, nil); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestWriteArray_CRSFromMetadata(t *testing.T) {
	opts := geoarrow.DefaultOptions()
	opts.Metadata.CRS = geoarrow.WGS84()
	arr := buildArray(t, opts, orb.Point{1, 2})

	r, err := NewReaderFromData(writeArray(t, arr, nil))
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	crs := r.Header().CRS
	if crs == nil {
		t.Fatal("expected CRS in header")
	}
	if crs.Code != 4326 {
		t.Errorf("expected CRS code 4326, got %d", crs.Code)
	}
	if crs.Name != "WGS 84" {
		t.Errorf("expected CRS name 'WGS 84', got %q", crs.Name)
	}
}

func TestWriteArray_CRSOverride(t *testing.T) {
	opts := geoarrow.DefaultOptions()
	opts.Metadata.CRS = geoarrow.WGS84()
	arr := buildArray(t, opts, orb.Point{1, 2})

	data := writeArray(t, arr, &Options{
		IncludeIndex: true,
		CRS:          &geoarrow.CRS{Code: 3857, Name: "WGS 84 / Pseudo-Mercator"},
	})

	r, err := NewReaderFromData(data)
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}
	if got := r.Metadata().CRS; got == nil || got.Code != 3857 {
		t.Errorf("expected CRS code 3857, got %+v", got)
	}
}

func TestWriteArray_NoIndex(t *testing.T) {
	arr := buildArray(t, nil, orb.Point{1, 2}, orb.Point{3, 4})

	data := writeArray(t, arr, &Options{IncludeIndex: false})

	r, err := NewReaderFromData(data)
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	if r.Header().HasIndex {
		t.Error("expected HasIndex to be false")
	}
	if _, err := r.ReadArray(nil); !errors.Is(err, ErrNoIndex) {
		t.Errorf("expected ErrNoIndex, got %v", err)
	}
	if _, err := r.SearchArray(orb.Bound{Max: orb.Point{10, 10}}, nil); !errors.Is(err, ErrNoIndex) {
		t.Errorf("expected ErrNoIndex from search, got %v", err)
	}
}
