package geoarrow

import (
	"context"
	"fmt"

	"github.com/tingold/orb-geoarrow/geometry"
)

// How many rows a build pushes between context checks.
const cancelCheckRows = 4096

// source replays a sequence of geometries, nil for null rows. It is called
// once for the survey and once for the populate pass.
type source func(yield func(geometry.Geometry) error) error

func sliceSource(geoms []geometry.Geometry) source {
	return func(yield func(geometry.Geometry) error) error {
		for _, g := range geoms {
			if err := yield(g); err != nil {
				return err
			}
		}
		return nil
	}
}

func arraySource(arrays ...Array) source {
	return func(yield func(geometry.Geometry) error) error {
		for _, arr := range arrays {
			for i := 0; i < arr.Len(); i++ {
				if err := yield(arr.Get(i)); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// build runs the survey and populate passes over src.
func build(ctx context.Context, kind ArrayKind, dim geometry.Dimension, src source, opts *Options) (Array, error) {
	capacity, err := NewCapacity(kind, opts.PreferMulti)
	if err != nil {
		return nil, err
	}
	row := 0
	err = src(func(g geometry.Geometry) error {
		if err := capacity.AddGeometry(g); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		row++
		return nil
	})
	if err != nil {
		return nil, err
	}

	b, err := NewBuilder(kind, dim, capacity, opts)
	if err != nil {
		return nil, err
	}
	row = 0
	err = src(func(g geometry.Geometry) error {
		if row%cancelCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := b.PushGeometry(g); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		row++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.FinishArray()
}

// Build infers the narrowest array kind that holds every geometry (see
// ResolveKind) and builds it. Nil geometries become null rows.
func Build(geoms []geometry.Geometry, opts *Options) (Array, error) {
	if len(geoms) == 0 {
		return nil, ErrEmptyInput
	}
	kind, err := ResolveKind(geoms)
	if err != nil {
		return nil, err
	}
	return BuildKind(kind, geoms, opts)
}

// BuildKind builds an array of the given kind from geoms. Every non-nil
// geometry must share one dimension.
func BuildKind(kind ArrayKind, geoms []geometry.Geometry, opts *Options) (Array, error) {
	dim, err := resolveDim(sliceSource(geoms))
	if err != nil {
		return nil, err
	}
	return build(context.Background(), kind, dim, sliceSource(geoms), opts.orDefault())
}

// resolveDim returns the dimension shared by every geometry in src, XY when
// there are none.
func resolveDim(src source) (geometry.Dimension, error) {
	dim, seen, row := geometry.XY, false, 0
	err := src(func(g geometry.Geometry) error {
		defer func() { row++ }()
		if g == nil {
			return nil
		}
		if !seen {
			dim, seen = g.Dim(), true
			return nil
		}
		if g.Dim() != dim {
			return fmt.Errorf("row %d: %w: %s after %s", row, ErrDimensionMismatch, g.Dim(), dim)
		}
		return nil
	})
	return dim, err
}

// resolveOrder lists candidate kinds from narrowest to widest.
var resolveOrder = []ArrayKind{
	KindPoint,
	KindLineString,
	KindRect,
	KindPolygon,
	KindMultiPoint,
	KindMultiLineString,
	KindMultiPolygon,
	KindMixed,
}

// kindResolver narrows the set of array kinds able to hold every geometry
// observed so far.
type kindResolver struct {
	ruledOut map[ArrayKind]bool
}

func newKindResolver() *kindResolver {
	return &kindResolver{ruledOut: make(map[ArrayKind]bool, len(resolveOrder))}
}

func accepts(k ArrayKind, g geometry.Geometry) bool {
	target := k.GeometryKind()
	if k == KindMixed {
		child, err := mixedChild(g.Kind(), false)
		if err != nil {
			return false
		}
		target = child
	}
	_, err := coerce(target, g)
	return err == nil
}

func (r *kindResolver) observe(g geometry.Geometry) {
	if g == nil {
		return
	}
	for _, k := range resolveOrder {
		if !r.ruledOut[k] && !accepts(k, g) {
			r.ruledOut[k] = true
		}
	}
}

func (r *kindResolver) kind() (ArrayKind, error) {
	for _, k := range resolveOrder {
		if !r.ruledOut[k] {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: no array kind holds every geometry", ErrUnsupportedGeometryType)
}

// ResolveKind returns the narrowest array kind able to hold every non-nil
// geometry in geoms, widening singular kinds to multis and falling back to
// a mixed array. Single-part multis still resolve to the singular kind.
// Geometry collections cannot be stored and yield
// ErrUnsupportedGeometryType.
func ResolveKind(geoms []geometry.Geometry) (ArrayKind, error) {
	r := newKindResolver()
	for _, g := range geoms {
		r.observe(g)
	}
	return r.kind()
}

// Concat copies arrays of one kind and dimension into a new array. Layout,
// metadata and the prefer-multi policy come from the first array.
func Concat(arrays ...Array) (Array, error) {
	if len(arrays) == 0 {
		return nil, ErrEmptyInput
	}
	first := arrays[0]
	opts := &Options{CoordType: first.CoordType(), Metadata: first.Metadata()}
	if m, ok := first.(*MixedArray); ok {
		opts.PreferMulti = m.PreferMulti()
	}
	return concat(context.Background(), arrays, opts.orDefault())
}

func concat(ctx context.Context, arrays []Array, opts *Options) (Array, error) {
	kind, dim := arrays[0].Kind(), arrays[0].Dim()
	for i, arr := range arrays[1:] {
		if arr.Kind() != kind {
			return nil, fmt.Errorf("%w: array %d is %s, want %s", ErrTypeMismatch, i+1, arr.Kind(), kind)
		}
		if arr.Dim() != dim {
			return nil, fmt.Errorf("%w: array %d is %s, want %s", ErrDimensionMismatch, i+1, arr.Dim(), dim)
		}
	}
	return build(ctx, kind, dim, arraySource(arrays...), opts)
}

// Cast copies arr into an array of another kind, for example points into
// multipoints or single-part multipolygons into polygons. A nil opts keeps
// the layout and metadata of arr.
func Cast(arr Array, kind ArrayKind, opts *Options) (Array, error) {
	if opts == nil {
		opts = &Options{CoordType: arr.CoordType(), Metadata: arr.Metadata()}
	}
	return build(context.Background(), kind, arr.Dim(), arraySource(arr), opts.orDefault())
}
