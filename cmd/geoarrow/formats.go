package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb/geojson"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/flatgeobuf"
	"github.com/tingold/orb-geoarrow/geometry"
)

type format string

const (
	formatFGB     format = "fgb"
	formatGeoJSON format = "geojson"
	formatWKB     format = "wkb"
	formatArrow   format = "arrow"
)

var errUnknownFormat = errors.New("unknown file format")

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fgb":
		return formatFGB, nil
	case ".geojson", ".json":
		return formatGeoJSON, nil
	case ".wkb", ".hex":
		return formatWKB, nil
	case ".arrow", ".arrows", ".ipc":
		return formatArrow, nil
	}
	return "", fmt.Errorf("%w: %s", errUnknownFormat, path)
}

// readArray loads the geometry column of path into a native array.
func readArray(ctx context.Context, path string, opts *geoarrow.Options) (geoarrow.Array, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	switch f {
	case formatFGB:
		r, err := flatgeobuf.NewReader(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadArray(opts)

	case formatGeoJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		geoms := make([]geometry.Geometry, len(fc.Features))
		for i, feat := range fc.Features {
			if geoms[i], err = geoarrow.FromOrb(feat.Geometry); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		}
		return geoarrow.BuildParallel(ctx, geoms, 0, opts)

	case formatWKB:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		w, err := readHexWKB(file)
		if err != nil {
			return nil, err
		}
		return w.ToArray(0, opts != nil && opts.PreferMulti, opts)

	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		return readArrowStream(file)
	}
}

// readHexWKB reads one hex-encoded WKB geometry per line. Blank lines are
// null rows.
func readHexWKB(r io.Reader) (*geoarrow.WKBArray, error) {
	var values [][]byte
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			values = append(values, nil)
			continue
		}
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values = append(values, b)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return geoarrow.NewWKBArray(values)
}

func writeHexWKB(w io.Writer, arr *geoarrow.WKBArray) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < arr.Len(); i++ {
		if v := arr.Value(i); v != nil {
			if _, err := bw.WriteString(hex.EncodeToString(v)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// readArrowStream reads the first column of every record batch in an Arrow
// IPC stream and concatenates the batches.
func readArrowStream(r io.Reader) (geoarrow.Array, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, err
	}
	defer rdr.Release()

	field := rdr.Schema().Field(0)
	var batches []geoarrow.Array
	for rdr.Next() {
		rec := rdr.Record()
		col := rec.Column(0)
		col.Retain()
		arr, err := geoarrow.FromArrow(field, col)
		if err != nil {
			return nil, err
		}
		batches = append(batches, arr)
	}
	if err := rdr.Err(); err != nil {
		return nil, err
	}
	switch len(batches) {
	case 0:
		return nil, geoarrow.ErrEmptyInput
	case 1:
		return batches[0], nil
	}
	return geoarrow.Concat(batches...)
}

func writeArrowStream(w io.Writer, arr geoarrow.Array) error {
	field, col, err := geoarrow.ToArrow(arr)
	if err != nil {
		return err
	}
	defer col.Release()

	schema := arrow.NewSchema([]arrow.Field{field}, nil)
	rec := array.NewRecord(schema, []arrow.Array{col}, int64(col.Len()))
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(schema))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return err
	}
	return iw.Close()
}

func writeGeoJSON(w io.Writer, arr geoarrow.Array) error {
	fc := geojson.NewFeatureCollection()
	for i := 0; i < arr.Len(); i++ {
		g, err := geoarrow.ToOrb(arr.Get(i))
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		fc.Append(geojson.NewFeature(g))
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// writeArray writes arr to path in the format named by its extension.
func writeArray(path string, arr geoarrow.Array, fgbOpts *flatgeobuf.Options) (err error) {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	switch f {
	case formatFGB:
		return flatgeobuf.WriteArray(file, arr, fgbOpts)
	case formatWKB:
		w, err := geoarrow.ToWKB(arr, nil)
		if err != nil {
			return err
		}
		return writeHexWKB(file, w)
	case formatGeoJSON:
		return writeGeoJSON(file, arr)
	default:
		return writeArrowStream(file, arr)
	}
}
