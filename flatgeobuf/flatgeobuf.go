// Package flatgeobuf reads FlatGeobuf files into geoarrow arrays and writes
// arrays back out. Feature geometries are read as views over the file's
// flatbuffers and fed through the array builders; property columns are not
// carried.
package flatgeobuf

import (
	"errors"

	geoarrow "github.com/tingold/orb-geoarrow"
)

// Common errors returned by this package.
var (
	ErrEmptyArray      = errors.New("flatgeobuf: array has no rows")
	ErrUnsupportedType = errors.New("flatgeobuf: unsupported geometry type")
	ErrInvalidData     = errors.New("flatgeobuf: invalid data")
	ErrNoIndex         = errors.New("flatgeobuf: file has no spatial index")
)

// Options configures FlatGeobuf writing.
type Options struct {
	Name         string        // Layer name
	Description  string        // Layer description
	IncludeIndex bool          // Include spatial index (default: true)
	CRS          *geoarrow.CRS // Coordinate reference system (default: the array's)
}

// DefaultOptions returns default options for writing FlatGeobuf files.
func DefaultOptions() *Options {
	return &Options{
		IncludeIndex: true,
	}
}

// Header contains metadata about a FlatGeobuf file.
type Header struct {
	Name          string        // Layer name
	Description   string        // Layer description
	GeometryType  string        // Geometry type ("Point", "Polygon", "Unknown", etc.)
	FeaturesCount uint64        // Number of features in the file
	Envelope      [4]float64    // Bounding box [minX, minY, maxX, maxY]
	CRS           *geoarrow.CRS // Coordinate reference system
	HasIndex      bool          // Whether the file has a spatial index
	HasZ          bool          // Whether coordinates carry Z
	HasM          bool          // Whether coordinates carry M
}
