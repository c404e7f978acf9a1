package geoarrow

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tingold/orb-geoarrow/geometry"
)

// FromArrow wraps an Arrow array in the GeoArrow layout named by the
// extension metadata on field. Native layouts are wrapped without copying
// and their offsets are checked; geoarrow.wkb columns are decoded into the
// narrowest native kind.
func FromArrow(field arrow.Field, arr arrow.Array) (Array, error) {
	name, ok := field.Metadata.GetValue(extensionNameKey)
	if !ok {
		return nil, fmt.Errorf("%w: field %q has no extension name", ErrUnsupportedGeometryType, field.Name)
	}
	var meta Metadata
	if s, ok := field.Metadata.GetValue(extensionMetadataKey); ok {
		var err error
		if meta, err = decodeMetadata(s); err != nil {
			return nil, err
		}
	}

	if name == wkbExtensionName {
		w, err := wkbFromData(arr.Data())
		if err != nil {
			return nil, err
		}
		w.meta = meta
		return w.ToArray(0, false, nil)
	}
	kind, err := ParseArrayKind(name)
	if err != nil {
		return nil, err
	}
	return importData(kind, arr.Data(), meta)
}

// WKBFromArrow wraps a geoarrow.wkb binary column without decoding it.
func WKBFromArrow(field arrow.Field, arr arrow.Array) (*WKBArray, error) {
	if name, _ := field.Metadata.GetValue(extensionNameKey); name != wkbExtensionName {
		return nil, fmt.Errorf("%w: field %q is %q, not %s", ErrTypeMismatch, field.Name, name, wkbExtensionName)
	}
	w, err := wkbFromData(arr.Data())
	if err != nil {
		return nil, err
	}
	if s, ok := field.Metadata.GetValue(extensionMetadataKey); ok {
		if w.meta, err = decodeMetadata(s); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func wkbFromData(data arrow.ArrayData) (*WKBArray, error) {
	if data.DataType().ID() != arrow.BINARY {
		return nil, fmt.Errorf("%w: wkb storage is %s, want binary", ErrTypeMismatch, data.DataType())
	}
	offs, err := offsetsWindow("wkb", data)
	if err != nil {
		return nil, err
	}
	bytes := bufferBytes(data.Buffers()[2])
	if err := checkImportedOffsets("wkb", offs, len(bytes)); err != nil {
		return nil, err
	}
	return &WKBArray{
		base:    base{validity: importBitmap(data), length: data.Len()},
		offsets: offs,
		data:    bytes,
	}, nil
}

func importData(kind ArrayKind, data arrow.ArrayData, meta Metadata) (Array, error) {
	b := base{validity: importBitmap(data), length: data.Len(), meta: meta}
	switch kind {
	case KindPoint:
		coords, err := importCoords(data)
		if err != nil {
			return nil, err
		}
		return &PointArray{base: b, coords: coords}, nil

	case KindLineString, KindMultiPoint:
		geoms, vertices, err := listLevel("geometry", data)
		if err != nil {
			return nil, err
		}
		coords, err := importCoords(vertices)
		if err != nil {
			return nil, err
		}
		if kind == KindMultiPoint {
			return &MultiPointArray{base: b, coords: coords, geomOffsets: geoms}, nil
		}
		return &LineStringArray{base: b, coords: coords, geomOffsets: geoms}, nil

	case KindPolygon, KindMultiLineString:
		geoms, parts, err := listLevel("geometry", data)
		if err != nil {
			return nil, err
		}
		partOffs, vertices, err := listLevel("part", parts)
		if err != nil {
			return nil, err
		}
		coords, err := importCoords(vertices)
		if err != nil {
			return nil, err
		}
		if kind == KindMultiLineString {
			return &MultiLineStringArray{base: b, coords: coords, geomOffsets: geoms, lineOffsets: partOffs}, nil
		}
		return &PolygonArray{base: b, coords: coords, geomOffsets: geoms, ringOffsets: partOffs}, nil

	case KindMultiPolygon:
		geoms, polygons, err := listLevel("geometry", data)
		if err != nil {
			return nil, err
		}
		polyOffs, rings, err := listLevel("polygon", polygons)
		if err != nil {
			return nil, err
		}
		ringOffs, vertices, err := listLevel("ring", rings)
		if err != nil {
			return nil, err
		}
		coords, err := importCoords(vertices)
		if err != nil {
			return nil, err
		}
		return &MultiPolygonArray{
			base:           b,
			coords:         coords,
			geomOffsets:    geoms,
			polygonOffsets: polyOffs,
			ringOffsets:    ringOffs,
		}, nil

	case KindRect:
		return importRect(b, data)

	case KindMixed:
		return importMixed(b, data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, kind)
}

func bufferBytes(b *memory.Buffer) []byte {
	if b == nil {
		return nil
	}
	return b.Bytes()
}

func importBitmap(data arrow.ArrayData) Bitmap {
	bits := bufferBytes(data.Buffers()[0])
	if bits == nil || data.NullN() == 0 {
		return Bitmap{length: data.Len()}
	}
	return Bitmap{bits: bits, offset: data.Offset(), length: data.Len()}
}

func float64Values(data arrow.ArrayData) ([]float64, error) {
	if data.DataType().ID() != arrow.FLOAT64 {
		return nil, fmt.Errorf("%w: ordinate storage is %s, want double", ErrTypeMismatch, data.DataType())
	}
	v := arrow.Float64Traits.CastFromBytes(bufferBytes(data.Buffers()[1]))
	lo, hi := data.Offset(), data.Offset()+data.Len()
	if hi > len(v) {
		return nil, fmt.Errorf("%w: %d ordinates in a buffer of %d", ErrUnexpectedEndOfBuffer, hi, len(v))
	}
	return v[lo:hi:hi], nil
}

// importCoords returns the coordinates of data's rows, so that coordinate 0
// is data's first logical element.
func importCoords(data arrow.ArrayData) (CoordBuffer, error) {
	var (
		all CoordBuffer
		err error
	)
	switch dt := data.DataType().(type) {
	case *arrow.FixedSizeListType:
		dim, err := parseDimension(dt.ElemField().Name)
		if err != nil {
			if dim, err = dimensionOfSize(int(dt.Len())); err != nil {
				return CoordBuffer{}, err
			}
		}
		values, err := float64Values(data.Children()[0])
		if err != nil {
			return CoordBuffer{}, err
		}
		if all, err = NewInterleavedCoords(dim, values); err != nil {
			return CoordBuffer{}, err
		}
	case *arrow.StructType:
		var names strings.Builder
		ordinates := make([][]float64, dt.NumFields())
		for j := range ordinates {
			names.WriteString(dt.Field(j).Name)
			if ordinates[j], err = float64Values(data.Children()[j]); err != nil {
				return CoordBuffer{}, err
			}
		}
		dim, err := parseDimension(names.String())
		if err != nil {
			return CoordBuffer{}, err
		}
		if all, err = NewSeparatedCoords(dim, ordinates...); err != nil {
			return CoordBuffer{}, err
		}
	default:
		return CoordBuffer{}, fmt.Errorf("%w: coordinate storage is %s", ErrTypeMismatch, data.DataType())
	}
	return all.Slice(data.Offset(), data.Len())
}

func dimensionOfSize(n int) (geometry.Dimension, error) {
	switch n {
	case 2:
		return geometry.XY, nil
	case 3:
		return geometry.XYZ, nil
	case 4:
		return geometry.XYZM, nil
	}
	return 0, fmt.Errorf("%w: %d ordinates per coordinate", ErrDimensionMismatch, n)
}

func offsetsWindow(level string, data arrow.ArrayData) ([]int32, error) {
	offs := arrow.Int32Traits.CastFromBytes(bufferBytes(data.Buffers()[1]))
	if data.Len() == 0 && len(offs) == 0 {
		return []int32{0}, nil
	}
	lo, hi := data.Offset(), data.Offset()+data.Len()+1
	if hi > len(offs) {
		return nil, fmt.Errorf("%w: %s offsets need %d entries, have %d", ErrInvalidOffsets, level, hi, len(offs))
	}
	return offs[lo:hi:hi], nil
}

// listLevel returns the offsets of data's rows and the list's child.
func listLevel(level string, data arrow.ArrayData) ([]int32, arrow.ArrayData, error) {
	if _, ok := data.DataType().(*arrow.ListType); !ok {
		return nil, nil, fmt.Errorf("%w: %s storage is %s, want list", ErrTypeMismatch, level, data.DataType())
	}
	offs, err := offsetsWindow(level, data)
	if err != nil {
		return nil, nil, err
	}
	child := data.Children()[0]
	if err := checkImportedOffsets(level, offs, child.Len()); err != nil {
		return nil, nil, err
	}
	return offs, child, nil
}

// checkImportedOffsets allows a non-zero start, as slices produce.
func checkImportedOffsets(level string, offs []int32, childLen int) error {
	if offs[0] < 0 {
		return fmt.Errorf("%w: %s offsets start at %d", ErrInvalidOffsets, level, offs[0])
	}
	for i := 1; i < len(offs); i++ {
		if offs[i] < offs[i-1] {
			return fmt.Errorf("%w: %s offsets decrease at %d (%d < %d)", ErrInvalidOffsets, level, i, offs[i], offs[i-1])
		}
	}
	if last := int(offs[len(offs)-1]); last > childLen {
		return fmt.Errorf("%w: %s offsets end at %d past %d children", ErrInvalidOffsets, level, last, childLen)
	}
	return nil
}

func importRect(b base, data arrow.ArrayData) (Array, error) {
	dt, ok := data.DataType().(*arrow.StructType)
	if !ok || dt.NumFields()%2 != 0 {
		return nil, fmt.Errorf("%w: box storage is %s", ErrTypeMismatch, data.DataType())
	}
	size := dt.NumFields() / 2
	var names strings.Builder
	for j := 0; j < size; j++ {
		names.WriteString(strings.TrimSuffix(dt.Field(j).Name, "min"))
	}
	dim, err := parseDimension(names.String())
	if err != nil {
		return nil, err
	}
	corners := [2]CoordBuffer{}
	for half := range corners {
		ordinates := make([][]float64, size)
		for j := range ordinates {
			if ordinates[j], err = float64Values(data.Children()[half*size+j]); err != nil {
				return nil, err
			}
		}
		all, err := NewSeparatedCoords(dim, ordinates...)
		if err != nil {
			return nil, err
		}
		if corners[half], err = all.Slice(data.Offset(), data.Len()); err != nil {
			return nil, err
		}
	}
	return &RectArray{base: b, lower: corners[0], upper: corners[1]}, nil
}

// importMixed rebuilds the row validity from the children, since a union
// carries none of its own.
func importMixed(b base, data arrow.ArrayData) (Array, error) {
	dt, ok := data.DataType().(*arrow.DenseUnionType)
	if !ok {
		return nil, fmt.Errorf("%w: geometry storage is %s, want dense union", ErrTypeMismatch, data.DataType())
	}
	bufs := data.Buffers()
	lo, hi := data.Offset(), data.Offset()+data.Len()
	typeIDs := arrow.Int8Traits.CastFromBytes(bufferBytes(bufs[1]))
	childIdx := arrow.Int32Traits.CastFromBytes(bufferBytes(bufs[2]))
	if hi > len(typeIDs) || hi > len(childIdx) {
		return nil, fmt.Errorf("%w: union buffers shorter than %d rows", ErrUnexpectedEndOfBuffer, hi)
	}

	a := &MixedArray{
		base:     b,
		typeIDs:  typeIDs[lo:hi:hi],
		childIdx: childIdx[lo:hi:hi],
	}
	dimSet := false
	for i, code := range dt.TypeCodes() {
		k, dim := geometry.Kind(code%10), geometry.Dimension(code/10)
		child, err := importData(ArrayKind(k), data.Children()[i], Metadata{})
		if err != nil {
			return nil, fmt.Errorf("%s child: %w", k, err)
		}
		if child.Dim() != dim || (dimSet && dim != a.dim) {
			return nil, fmt.Errorf("%w: %s child is %s", ErrDimensionMismatch, k, child.Dim())
		}
		a.dim, a.coordType, dimSet = dim, child.CoordType(), true
		switch c := child.(type) {
		case *PointArray:
			a.points = c
		case *LineStringArray:
			a.lineStrings = c
		case *PolygonArray:
			a.polygons = c
		case *MultiPointArray:
			a.multiPoints = c
		case *MultiLineStringArray:
			a.multiLineStrings = c
		case *MultiPolygonArray:
			a.multiPolygons = c
		default:
			return nil, fmt.Errorf("%w: %s child in a mixed array", ErrUnsupportedGeometryType, k)
		}
	}
	a.preferMulti = a.points == nil && a.lineStrings == nil && a.polygons == nil &&
		(a.multiPoints != nil || a.multiLineStrings != nil || a.multiPolygons != nil)

	validity := newValidityBuilder(defaultAllocator, a.length)
	for i := range a.typeIDs {
		c := a.childOf(a.typeIDs[i])
		if c == nil || a.typeIDs[i]/10 != int8(a.dim) {
			return nil, fmt.Errorf("%w: row %d has type id %d", ErrTypeMismatch, i, a.typeIDs[i])
		}
		j := int(a.childIdx[i])
		if j < 0 || j >= c.Len() {
			return nil, fmt.Errorf("%w: row %d points at child row %d of %d", ErrInvalidOffsets, i, j, c.Len())
		}
		validity.append(c.IsValid(j))
	}
	a.validity = validity.finish()
	return a, nil
}
