package flatgeobuf

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"

	geoarrow "github.com/tingold/orb-geoarrow"
)

// =============================================================================
// Test Data Generators
// =============================================================================

// generateGeometries creates n random geometries of geomType within
// [-180, 180] x [-90, 90].
func generateGeometries(r *rand.Rand, n int, geomType string) []orb.Geometry {
	geoms := make([]orb.Geometry, n)
	for i := range geoms {
		x := -180 + r.Float64()*359
		y := -90 + r.Float64()*179
		switch geomType {
		case "linestring":
			line := make(orb.LineString, 10)
			for j := range line {
				line[j] = orb.Point{x + float64(j)*0.01, y + float64(j)*0.01}
			}
			geoms[i] = line
		case "polygon":
			size := 0.01 + r.Float64()*0.09
			geoms[i] = orb.Polygon{{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}}
		case "complex_polygon":
			const vertices = 64
			radius := 0.01 + r.Float64()*0.05
			ring := make(orb.Ring, vertices+1)
			for j := 0; j < vertices; j++ {
				angle := 2 * math.Pi * float64(j) / vertices
				ring[j] = orb.Point{x + radius*math.Cos(angle), y + radius*math.Sin(angle)}
			}
			ring[vertices] = ring[0]
			geoms[i] = orb.Polygon{ring}
		default:
			geoms[i] = orb.Point{x, y}
		}
	}
	return geoms
}

func writeBenchmarkFile(b *testing.B, geomType string, n int) string {
	b.Helper()
	arr := buildArray(b, nil, generateGeometries(rand.New(rand.NewSource(42)), n, geomType)...)

	tmpFile := filepath.Join(b.TempDir(), "benchmark.fgb")
	file, err := os.Create(tmpFile)
	if err != nil {
		b.Fatal(err)
	}
	err = WriteArray(file, arr, &Options{IncludeIndex: true})
	if err != nil {
		_ = file.Close()
		b.Fatal(err)
	}
	if err := file.Close(); err != nil {
		b.Fatal(err)
	}
	return tmpFile
}

// =============================================================================
// Serialization Benchmarks
// =============================================================================

func BenchmarkWriteArray_Points_1000(b *testing.B)          { benchmarkWriteArray(b, "point", 1000, true) }
func BenchmarkWriteArray_PointsNoIndex_1000(b *testing.B)   { benchmarkWriteArray(b, "point", 1000, false) }
func BenchmarkWriteArray_Points_10000(b *testing.B)         { benchmarkWriteArray(b, "point", 10000, true) }
func BenchmarkWriteArray_LineStrings_1000(b *testing.B)     { benchmarkWriteArray(b, "linestring", 1000, true) }
func BenchmarkWriteArray_Polygons_1000(b *testing.B)        { benchmarkWriteArray(b, "polygon", 1000, true) }
func BenchmarkWriteArray_ComplexPolygons_1000(b *testing.B) { benchmarkWriteArray(b, "complex_polygon", 1000, true) }

func benchmarkWriteArray(b *testing.B, geomType string, n int, includeIndex bool) {
	arr := buildArray(b, nil, generateGeometries(rand.New(rand.NewSource(42)), n, geomType)...)
	opts := &Options{IncludeIndex: includeIndex}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := WriteArray(&buf, arr, opts); err != nil {
			b.Fatal(err)
		}
	}
}

// =============================================================================
// Deserialization Benchmarks
// =============================================================================

func BenchmarkReadArray_Points_1000(b *testing.B)          { benchmarkReadArray(b, "point", 1000) }
func BenchmarkReadArray_Points_10000(b *testing.B)         { benchmarkReadArray(b, "point", 10000) }
func BenchmarkReadArray_LineStrings_1000(b *testing.B)     { benchmarkReadArray(b, "linestring", 1000) }
func BenchmarkReadArray_Polygons_1000(b *testing.B)        { benchmarkReadArray(b, "polygon", 1000) }
func BenchmarkReadArray_ComplexPolygons_1000(b *testing.B) { benchmarkReadArray(b, "complex_polygon", 1000) }

func benchmarkReadArray(b *testing.B, geomType string, n int) {
	tmpFile := writeBenchmarkFile(b, geomType, n)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		reader, err := NewReader(tmpFile)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := reader.ReadArray(nil); err != nil {
			_ = reader.Close()
			b.Fatal(err)
		}
		if err := reader.Close(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReadArray_SeparatedPolygons_1000(b *testing.B) {
	tmpFile := writeBenchmarkFile(b, "polygon", 1000)
	opts := &geoarrow.Options{CoordType: geoarrow.Separated}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		reader, err := NewReader(tmpFile)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := reader.ReadArray(opts); err != nil {
			b.Fatal(err)
		}
		_ = reader.Close()
	}
}

// =============================================================================
// Spatial Query Benchmarks
// =============================================================================

func BenchmarkSearchArray_Points_10000(b *testing.B) {
	tmpFile := writeBenchmarkFile(b, "point", 10000)
	bounds := orb.Bound{
		Min: orb.Point{-10, -10},
		Max: orb.Point{10, 10},
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		reader, err := NewReader(tmpFile)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := reader.SearchArray(bounds, nil); err != nil {
			_ = reader.Close()
			b.Fatal(err)
		}
		if err := reader.Close(); err != nil {
			b.Fatal(err)
		}
	}
}
