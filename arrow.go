package geoarrow

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tingold/orb-geoarrow/geometry"
)

const (
	extensionNameKey     = "ARROW:extension:name"
	extensionMetadataKey = "ARROW:extension:metadata"

	wkbExtensionName = "geoarrow.wkb"
)

// Ordinate names per dimension; the i-th letter names the i-th ordinate.
var ordinateNames = [...]string{
	geometry.XY:   "xy",
	geometry.XYZ:  "xyz",
	geometry.XYM:  "xym",
	geometry.XYZM: "xyzm",
}

func ordinateName(d geometry.Dimension, j int) string {
	return ordinateNames[d][j : j+1]
}

func parseDimension(names string) (geometry.Dimension, error) {
	for d, s := range ordinateNames {
		if s == names {
			return geometry.Dimension(d), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown ordinates %q", ErrDimensionMismatch, names)
}

// extensionMetadata is the JSON stored under ARROW:extension:metadata.
type extensionMetadata struct {
	CRS     json.RawMessage `json:"crs,omitempty"`
	CRSType string          `json:"crs_type,omitempty"`
	Edges   string          `json:"edges,omitempty"`
}

func encodeMetadata(m Metadata) (string, error) {
	var em extensionMetadata
	if crs := m.CRS; crs != nil {
		var value string
		switch {
		case strings.HasPrefix(strings.TrimSpace(crs.WKT), "{"):
			em.CRS, em.CRSType = json.RawMessage(crs.WKT), "projjson"
		case crs.WKT != "":
			value, em.CRSType = crs.WKT, "wkt2:2019"
		case crs.Code != 0:
			value, em.CRSType = "EPSG:"+strconv.Itoa(crs.Code), "authority_code"
		default:
			value = crs.Name
		}
		if em.CRS == nil && value != "" {
			raw, err := json.Marshal(value)
			if err != nil {
				return "", err
			}
			em.CRS = raw
		}
	}
	if m.Edges == EdgesSpherical {
		em.Edges = m.Edges.String()
	}
	b, err := json.Marshal(em)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMetadata(s string) (Metadata, error) {
	var m Metadata
	if strings.TrimSpace(s) == "" {
		return m, nil
	}
	var em extensionMetadata
	if err := json.Unmarshal([]byte(s), &em); err != nil {
		return m, fmt.Errorf("invalid extension metadata: %w", err)
	}
	// Every named algorithm other than planar interpolates on a sphere or
	// ellipsoid.
	if em.Edges != "" && em.Edges != EdgesPlanar.String() {
		m.Edges = EdgesSpherical
	}
	if len(em.CRS) == 0 || string(em.CRS) == "null" {
		return m, nil
	}

	var value string
	if err := json.Unmarshal(em.CRS, &value); err != nil {
		// PROJJSON object, kept verbatim.
		m.CRS = &CRS{WKT: string(em.CRS)}
		return m, nil
	}
	switch {
	case em.CRSType == "srid" || em.CRSType == "authority_code" || strings.HasPrefix(strings.ToUpper(value), "EPSG:"):
		code, err := strconv.Atoi(value[strings.LastIndexByte(value, ':')+1:])
		if err != nil {
			return m, fmt.Errorf("invalid crs %q: %w", value, err)
		}
		if code == 4326 {
			m.CRS = WGS84()
		} else {
			m.CRS = &CRS{Code: code}
		}
	case em.CRSType != "":
		m.CRS = &CRS{WKT: value}
	default:
		m.CRS = &CRS{Name: value}
	}
	return m, nil
}

func extensionField(name string, dt arrow.DataType, m Metadata) (arrow.Field, error) {
	meta, err := encodeMetadata(m)
	if err != nil {
		return arrow.Field{}, err
	}
	return arrow.Field{
		Name:     "geometry",
		Type:     dt,
		Nullable: true,
		Metadata: arrow.NewMetadata(
			[]string{extensionNameKey, extensionMetadataKey},
			[]string{name, meta},
		),
	}, nil
}

// ToArrow exports arr in its GeoArrow native layout. The returned field
// carries the extension name and metadata. Buffers are shared with arr.
func ToArrow(arr Array) (arrow.Field, arrow.Array, error) {
	data, err := storageData(arr)
	if err != nil {
		return arrow.Field{}, nil, err
	}
	defer data.Release()
	field, err := extensionField(arr.ExtensionName(), data.DataType(), arr.Metadata())
	if err != nil {
		return arrow.Field{}, nil, err
	}
	return field, array.MakeFromData(data), nil
}

// ToArrow exports a as a binary column tagged geoarrow.wkb.
func (a *WKBArray) ToArrow() (arrow.Field, arrow.Array, error) {
	nulls, bits := bitmapBuffer(a.validity)
	data := newData(arrow.BinaryTypes.Binary, a.length,
		[]*memory.Buffer{bits, int32Buffer(a.offsets), memory.NewBufferBytes(a.data)}, nil, nulls)
	defer data.Release()
	field, err := extensionField(wkbExtensionName, data.DataType(), a.meta)
	if err != nil {
		return arrow.Field{}, nil, err
	}
	return field, array.MakeFromData(data), nil
}

// newData builds array data and drops the references held on children,
// which the new data retains.
func newData(dt arrow.DataType, n int, buffers []*memory.Buffer, children []arrow.ArrayData, nulls int) arrow.ArrayData {
	d := array.NewData(dt, n, buffers, children, nulls, 0)
	for _, c := range children {
		c.Release()
	}
	return d
}

func bitmapBuffer(b Bitmap) (int, *memory.Buffer) {
	bits := b.Bytes()
	if bits == nil {
		return 0, nil
	}
	return b.NullN(), memory.NewBufferBytes(bits)
}

func int32Buffer(v []int32) *memory.Buffer {
	return memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(v))
}

func float64Data(v []float64) arrow.ArrayData {
	buf := memory.NewBufferBytes(arrow.Float64Traits.CastToBytes(v))
	return array.NewData(arrow.PrimitiveTypes.Float64, len(v), []*memory.Buffer{nil, buf}, nil, 0, 0)
}

func coordDataType(typ CoordType, dim geometry.Dimension) arrow.DataType {
	f64 := arrow.PrimitiveTypes.Float64
	if typ == Interleaved {
		return arrow.FixedSizeListOfField(int32(dim.Size()), arrow.Field{Name: ordinateNames[dim], Type: f64})
	}
	fields := make([]arrow.Field, dim.Size())
	for j := range fields {
		fields[j] = arrow.Field{Name: ordinateName(dim, j), Type: f64}
	}
	return arrow.StructOf(fields...)
}

func coordData(c CoordBuffer, validity Bitmap) arrow.ArrayData {
	nulls, bits := bitmapBuffer(validity)
	size := c.dim.Size()
	var children []arrow.ArrayData
	if c.typ == Interleaved {
		children = []arrow.ArrayData{float64Data(c.xy[:c.n*size])}
	} else {
		for j := 0; j < size; j++ {
			children = append(children, float64Data(c.ord[j][:c.n]))
		}
	}
	return newData(coordDataType(c.typ, c.dim), c.n, []*memory.Buffer{bits}, children, nulls)
}

func listData(name string, offsets []int32, child arrow.ArrayData, validity Bitmap) arrow.ArrayData {
	nulls, bits := bitmapBuffer(validity)
	dt := arrow.ListOfField(arrow.Field{Name: name, Type: child.DataType()})
	return newData(dt, len(offsets)-1, []*memory.Buffer{bits, int32Buffer(offsets)}, []arrow.ArrayData{child}, nulls)
}

func storageData(arr Array) (arrow.ArrayData, error) {
	switch a := arr.(type) {
	case *PointArray:
		return coordData(a.coords, a.validity), nil
	case *LineStringArray:
		vertices := coordData(a.coords, Bitmap{})
		return listData("vertices", a.geomOffsets, vertices, a.validity), nil
	case *PolygonArray:
		rings := listData("vertices", a.ringOffsets, coordData(a.coords, Bitmap{}), Bitmap{})
		return listData("rings", a.geomOffsets, rings, a.validity), nil
	case *MultiPointArray:
		points := coordData(a.coords, Bitmap{})
		return listData("points", a.geomOffsets, points, a.validity), nil
	case *MultiLineStringArray:
		lines := listData("vertices", a.lineOffsets, coordData(a.coords, Bitmap{}), Bitmap{})
		return listData("linestrings", a.geomOffsets, lines, a.validity), nil
	case *MultiPolygonArray:
		rings := listData("vertices", a.ringOffsets, coordData(a.coords, Bitmap{}), Bitmap{})
		polygons := listData("rings", a.polygonOffsets, rings, Bitmap{})
		return listData("polygons", a.geomOffsets, polygons, a.validity), nil
	case *RectArray:
		return rectData(a), nil
	case *MixedArray:
		return mixedData(a)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometryType, arr)
}

func rectData(a *RectArray) arrow.ArrayData {
	dim := a.Dim()
	var (
		fields   []arrow.Field
		children []arrow.ArrayData
	)
	for _, corner := range []struct {
		suffix string
		coords CoordBuffer
	}{{"min", a.lower}, {"max", a.upper}} {
		for j := 0; j < dim.Size(); j++ {
			fields = append(fields, arrow.Field{Name: ordinateName(dim, j) + corner.suffix, Type: arrow.PrimitiveTypes.Float64})
			children = append(children, float64Data(corner.coords.ord[j][:corner.coords.n]))
		}
	}
	nulls, bits := bitmapBuffer(a.validity)
	return newData(arrow.StructOf(fields...), a.length, []*memory.Buffer{bits}, children, nulls)
}

// mixedData exports a dense union with one child per stored kind. The union
// itself has no validity; null rows are nulls of the child they point into.
func mixedData(a *MixedArray) (arrow.ArrayData, error) {
	var (
		fields   []arrow.Field
		codes    []arrow.UnionTypeCode
		children []arrow.ArrayData
	)
	for _, c := range a.children() {
		d, err := storageData(c)
		if err != nil {
			return nil, err
		}
		k := c.Kind().GeometryKind()
		fields = append(fields, arrow.Field{Name: k.String(), Type: d.DataType(), Nullable: true})
		codes = append(codes, TypeID(k, a.dim))
		children = append(children, d)
	}
	buffers := []*memory.Buffer{
		nil,
		memory.NewBufferBytes(arrow.Int8Traits.CastToBytes(a.typeIDs)),
		int32Buffer(a.childIdx),
	}
	return newData(arrow.DenseUnionOf(fields, codes), a.length, buffers, children, 0), nil
}
