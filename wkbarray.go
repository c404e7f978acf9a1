package geoarrow

import (
	"context"
	"fmt"
	"math"

	"github.com/tingold/orb-geoarrow/geometry"
	"github.com/tingold/orb-geoarrow/wkb"
)

// WKBArray stores one WKB blob per row in a single data buffer addressed by
// int32 offsets, the layout of a geoarrow.wkb column.
type WKBArray struct {
	base
	offsets []int32
	data    []byte
}

// NewWKBArray copies values into a single buffer. A nil value is a null row;
// an empty non-nil value is kept as a zero-length blob and fails to parse.
func NewWKBArray(values [][]byte) (*WKBArray, error) {
	total := 0
	for _, v := range values {
		total += len(v)
	}
	if total > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d bytes of WKB overflow int32 offsets", ErrInvalidOffsets, total)
	}
	mem := defaultAllocator
	a := &WKBArray{
		offsets: newOffsets(mem, len(values)),
		data:    mem.Allocate(total)[:0],
	}
	validity := newValidityBuilder(mem, len(values))
	for i, v := range values {
		a.data = append(a.data, v...)
		a.offsets[i+1] = int32(len(a.data))
		validity.append(v != nil)
	}
	a.base = base{validity: validity.finish(), length: len(values)}
	return a, nil
}

func (a *WKBArray) ExtensionName() string { return "geoarrow.wkb" }
func (a *WKBArray) Offsets() []int32      { return a.offsets }
func (a *WKBArray) Data() []byte          { return a.data }

// WithMetadata returns a copy of a carrying m. Buffers are shared.
func (a *WKBArray) WithMetadata(m Metadata) *WKBArray {
	c := *a
	c.meta = m
	return &c
}

// Value returns the bytes of row i, nil when the row is null. The slice
// aliases the array's buffer.
func (a *WKBArray) Value(i int) []byte {
	if !a.IsValid(i) {
		return nil
	}
	return a.data[a.offsets[i]:a.offsets[i+1]:a.offsets[i+1]]
}

// Geometry parses row i. A null row yields a nil geometry and no error.
func (a *WKBArray) Geometry(i int) (geometry.Geometry, error) {
	v := a.Value(i)
	if v == nil {
		return nil, nil
	}
	return wkb.Parse(v)
}

// Slice returns rows [offset, offset+length) sharing a's buffers.
func (a *WKBArray) Slice(offset, length int) *WKBArray {
	return &WKBArray{
		base:    a.sliceBase(offset, length),
		offsets: a.offsets[offset : offset+length+1],
		data:    a.data,
	}
}

func (a *WKBArray) geometries() ([]geometry.Geometry, error) {
	geoms := make([]geometry.Geometry, a.length)
	for i := range geoms {
		g, err := a.Geometry(i)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		geoms[i] = g
	}
	return geoms, nil
}

// ResolveKind parses every row and returns the narrowest array kind able to
// hold them all.
func (a *WKBArray) ResolveKind() (ArrayKind, error) {
	r := newKindResolver()
	for i := 0; i < a.length; i++ {
		g, err := a.Geometry(i)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		r.observe(g)
	}
	return r.kind()
}

// ToArray decodes every row into a native array of the given kind, or of
// the resolved kind when kind is zero. Each row is parsed once; the survey
// and populate passes read the parsed views. A nil opts keeps a's metadata.
func (a *WKBArray) ToArray(kind ArrayKind, preferMulti bool, opts *Options) (Array, error) {
	if a.length == 0 {
		return nil, ErrEmptyInput
	}
	if opts == nil {
		opts = &Options{Metadata: a.meta}
	}
	opts = opts.orDefault()
	if opts.PreferMulti != preferMulti {
		c := *opts
		c.PreferMulti = preferMulti
		opts = &c
	}

	geoms, err := a.geometries()
	if err != nil {
		return nil, err
	}
	if kind == 0 {
		if kind, err = ResolveKind(geoms); err != nil {
			return nil, err
		}
	}
	dim, err := resolveDim(sliceSource(geoms))
	if err != nil {
		return nil, err
	}
	return build(context.Background(), kind, dim, sliceSource(geoms), opts)
}

// ToWKB encodes every row of arr. Sizes are computed first so the data
// buffer is allocated exactly once.
func ToWKB(arr Array, opts *wkb.Options) (*WKBArray, error) {
	enc := wkb.NewEncoder(opts)
	n := arr.Len()
	mem := defaultAllocator
	out := &WKBArray{offsets: newOffsets(mem, n)}

	total := 0
	for i := 0; i < n; i++ {
		if g := arr.Get(i); g != nil {
			size, err := enc.Size(g)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			total += size
		}
		if total > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %d bytes of WKB overflow int32 offsets", ErrInvalidOffsets, total)
		}
		out.offsets[i+1] = int32(total)
	}

	out.data = mem.Allocate(total)
	validity := newValidityBuilder(mem, n)
	for i := 0; i < n; i++ {
		start, end := out.offsets[i], out.offsets[i+1]
		g := arr.Get(i)
		validity.append(g != nil)
		if g == nil {
			continue
		}
		b, err := enc.Append(out.data[start:start:end], g)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if len(b) != int(end-start) {
			return nil, fmt.Errorf("%w: row %d encoded to %d bytes, sized %d", ErrInvalidOffsets, i, len(b), end-start)
		}
	}
	out.base = base{validity: validity.finish(), length: n, meta: arr.Metadata()}
	return out, nil
}
