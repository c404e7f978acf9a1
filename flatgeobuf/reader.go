package flatgeobuf

import (
	"fmt"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/geometry"
)

// Reader provides read access to a FlatGeobuf file.
type Reader struct {
	fgb *flatgeobuf.FlatGeoBuf
}

// NewReader creates a reader from a file path.
// The file is memory-mapped for efficient access.
func NewReader(path string) (*Reader, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// NewReaderFromData creates a reader from byte data.
func NewReaderFromData(data []byte) (*Reader, error) {
	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// Header returns metadata about the FlatGeobuf file.
func (r *Reader) Header() *Header {
	h := r.fgb.Header()
	if h == nil {
		return nil
	}

	header := &Header{
		Name:          string(h.Name()),
		Description:   string(h.Description()),
		GeometryType:  flattypes.EnumNamesGeometryType[h.GeometryType()],
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
		HasZ:          h.HasZ(),
		HasM:          h.HasM(),
		CRS:           headerCRS(h),
	}

	if h.EnvelopeLength() >= 4 {
		header.Envelope = [4]float64{
			h.Envelope(0),
			h.Envelope(1),
			h.Envelope(2),
			h.Envelope(3),
		}
	}

	return header
}

func headerCRS(h *flattypes.Header) *geoarrow.CRS {
	var crs flattypes.Crs
	if h.Crs(&crs) == nil {
		return nil
	}
	return &geoarrow.CRS{
		Code:        int(crs.Code()),
		Name:        string(crs.Name()),
		Description: string(crs.Description()),
	}
}

func headerDimension(h *flattypes.Header) geometry.Dimension {
	switch {
	case h.HasZ() && h.HasM():
		return geometry.XYZM
	case h.HasZ():
		return geometry.XYZ
	case h.HasM():
		return geometry.XYM
	default:
		return geometry.XY
	}
}

// Metadata returns the array metadata implied by the header.
func (r *Reader) Metadata() geoarrow.Metadata {
	return geoarrow.Metadata{CRS: headerCRS(r.fgb.Header())}
}

// ReadArray reads every feature into an array whose kind follows the header
// geometry type, or is resolved from the features when the header says
// Unknown. Features are reached through the spatial index, so rows come
// back in index order rather than file order. Features without a geometry
// become null rows.
func (r *Reader) ReadArray(opts *geoarrow.Options) (geoarrow.Array, error) {
	h := r.fgb.Header()
	if h.IndexNodeSize() == 0 || h.EnvelopeLength() < 4 {
		return nil, ErrNoIndex
	}
	return r.search(h, h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3), opts)
}

// SearchArray reads the features whose bounding boxes intersect bounds.
func (r *Reader) SearchArray(bounds orb.Bound, opts *geoarrow.Options) (geoarrow.Array, error) {
	h := r.fgb.Header()
	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}
	return r.search(h, bounds.Min[0], bounds.Min[1], bounds.Max[0], bounds.Max[1], opts)
}

func (r *Reader) search(h *flattypes.Header, minX, minY, maxX, maxY float64, opts *geoarrow.Options) (geoarrow.Array, error) {
	kind, err := fgbToArrayKind(h.GeometryType())
	if err != nil {
		return nil, err
	}

	features, err := r.fgb.Search(minX, minY, maxX, maxY)
	if err != nil {
		return nil, err
	}

	geoms, err := featureGeometries(features, h.GeometryType(), headerDimension(h))
	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = geoarrow.DefaultOptions()
	}
	if opts.Metadata.CRS == nil {
		c := *opts
		c.Metadata.CRS = headerCRS(h)
		opts = &c
	}

	switch {
	case kind != 0:
		return geoarrow.BuildKind(kind, geoms, opts)
	case len(geoms) == 0:
		return geoarrow.BuildKind(geoarrow.KindMixed, nil, opts)
	default:
		return geoarrow.Build(geoms, opts)
	}
}

// featureGeometries returns one row per feature. Missing features and
// features without a geometry are null rows.
func featureGeometries(features []*flattypes.Feature, geomType flattypes.GeometryType, dim geometry.Dimension) ([]geometry.Geometry, error) {
	geoms := make([]geometry.Geometry, len(features))
	for i, f := range features {
		if f == nil {
			continue
		}
		g := new(flattypes.Geometry)
		if f.Geometry(g) == nil {
			continue
		}
		view, err := geometryFromFGB(g, geomType, dim)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		geoms[i] = view
	}
	return geoms, nil
}

// Close releases resources associated with the reader.
// This is important for memory-mapped files.
func (r *Reader) Close() error {
	// The FlatGeoBuf type doesn't expose a public Close method,
	// but the finalizer will clean up when garbage collected.
	// Setting to nil allows GC to collect it.
	r.fgb = nil
	return nil
}
