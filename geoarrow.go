// Package geoarrow provides columnar geometry arrays laid out the way Apache
// Arrow's GeoArrow extension types expect them.
//
// Arrays are immutable once built. They are produced by builders that first
// survey their input to compute exact capacities and then populate buffers
// allocated once up front. Every array hands out zero-copy geometry views
// (see the geometry package) and can be sliced in constant time.
package geoarrow

import (
	"errors"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tingold/orb-geoarrow/wkb"
)

// Common errors returned by this package.
var (
	ErrDimensionMismatch = errors.New("geoarrow: dimension mismatch")
	ErrTypeMismatch      = errors.New("geoarrow: geometry type mismatch")
	ErrIndexOutOfRange   = errors.New("geoarrow: index out of range")
	ErrInvalidOffsets    = errors.New("geoarrow: invalid offsets")
	ErrCapacityExceeded  = errors.New("geoarrow: capacity exceeded")
	ErrCapacityMismatch  = errors.New("geoarrow: populated length differs from reserved capacity")
	ErrBuilderFinished   = errors.New("geoarrow: builder already finished")
	ErrEmptyInput        = errors.New("geoarrow: no input arrays or geometries")

	// Shared with the WKB codec so callers can match either source.
	ErrUnsupportedGeometryType = wkb.ErrUnsupportedGeometryType
	ErrUnexpectedEndOfBuffer   = wkb.ErrUnexpectedEndOfBuffer
)

// CRS represents a coordinate reference system.
type CRS struct {
	Code        int    // EPSG code (e.g., 4326 for WGS84)
	Name        string // CRS name
	Description string // CRS description
	WKT         string // Well-Known Text representation
}

// WGS84 returns the standard WGS84 CRS (EPSG:4326).
func WGS84() *CRS {
	return &CRS{
		Code: 4326,
		Name: "WGS 84",
	}
}

// Edges tells consumers how to interpolate between vertices.
type Edges uint8

const (
	EdgesPlanar Edges = iota
	EdgesSpherical
)

func (e Edges) String() string {
	if e == EdgesSpherical {
		return "spherical"
	}
	return "planar"
}

// Metadata is attached to a whole array at construction and never changes.
type Metadata struct {
	CRS   *CRS
	Edges Edges
}

// CoordType selects the physical coordinate layout.
type CoordType uint8

const (
	// Interleaved stores xyxyxy... in a single buffer.
	Interleaved CoordType = iota
	// Separated stores one buffer per ordinate.
	Separated
)

func (t CoordType) String() string {
	if t == Separated {
		return "separated"
	}
	return "interleaved"
}

// Options configures array construction.
type Options struct {
	CoordType   CoordType        // Coordinate layout of built arrays
	Metadata    Metadata         // Attached to every built array
	PreferMulti bool             // Mixed arrays store singular kinds in their multi child
	Allocator   memory.Allocator // Buffer allocator (default: Go allocator, 64-byte aligned)
}

// DefaultOptions returns default options for building arrays.
func DefaultOptions() *Options {
	return &Options{
		CoordType: Interleaved,
		Allocator: defaultAllocator,
	}
}

var defaultAllocator memory.Allocator = memory.NewGoAllocator()

func (o *Options) orDefault() *Options {
	if o == nil {
		return DefaultOptions()
	}
	if o.Allocator == nil {
		c := *o
		c.Allocator = defaultAllocator
		return &c
	}
	return o
}
