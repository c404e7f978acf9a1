package flatgeobuf

import (
	"fmt"
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/geometry"
)

// WriteArray writes every non-null row of arr as a feature. Only X and Y are
// written. The array's CRS is used unless opts names one.
func WriteArray(w io.Writer, arr geoarrow.Array, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	if arr == nil || arr.Len() == arr.NullN() {
		return ErrEmptyArray
	}
	if arr.Kind() == geoarrow.KindRect && arr.Dim() != geometry.XY {
		return fmt.Errorf("%w: %s box", ErrUnsupportedType, arr.Dim())
	}

	crs := opts.CRS
	if crs == nil {
		crs = arr.Metadata().CRS
	}

	builder := flatbuffers.NewBuilder(4096)

	header := writer.NewHeader(builder)
	header.SetGeometryType(arrayKindToFGB(arr.Kind()))

	if opts.Name != "" {
		header.SetName(opts.Name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}

	if crs != nil {
		c := writer.NewCrs(builder)
		c.SetOrg("EPSG")
		if crs.Code > 0 {
			c.SetCode(int32(crs.Code))
		}
		if crs.Name != "" {
			c.SetName(crs.Name)
		}
		if crs.Description != "" {
			c.SetDescription(crs.Description)
		}
		// WKT has no slot of its own in the writer.
		if crs.WKT != "" && crs.Description == "" {
			c.SetDescription(crs.WKT)
		}
		header.SetCrs(c)
	}

	gen := &arrayFeatureGenerator{arr: arr}
	fgbWriter := writer.NewWriter(header, opts.IncludeIndex, gen, nil)

	_, err := fgbWriter.Write(w)
	return err
}

// arrayFeatureGenerator generates one feature per non-null row.
type arrayFeatureGenerator struct {
	arr   geoarrow.Array
	index int
}

func (g *arrayFeatureGenerator) Generate() *writer.Feature {
	for g.index < g.arr.Len() {
		geom := g.arr.Get(g.index)
		g.index++
		if geom == nil {
			continue
		}

		builder := flatbuffers.NewBuilder(1024)
		fgbGeom := geometryToFGB(geom, builder)
		if fgbGeom == nil {
			continue
		}

		feature := writer.NewFeature(builder)
		feature.SetGeometry(fgbGeom)
		return feature
	}
	return nil
}
