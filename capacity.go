package geoarrow

import (
	"errors"
	"fmt"
	"math"

	"github.com/tingold/orb-geoarrow/geometry"
)

// Capacity is the survey half of the builder protocol: it reads the
// structure of each input geometry and sums the buffer lengths a builder
// will need. Nil geometries count as null rows.
type Capacity interface {
	AddGeometry(g geometry.Geometry) error
	AddNull()
}

// NewCapacity returns an empty capacity for kind.
func NewCapacity(kind ArrayKind, preferMulti bool) (Capacity, error) {
	switch kind {
	case KindPoint:
		return &PointCapacity{}, nil
	case KindLineString:
		return &LineStringCapacity{}, nil
	case KindPolygon:
		return &PolygonCapacity{}, nil
	case KindMultiPoint:
		return &MultiPointCapacity{}, nil
	case KindMultiLineString:
		return &MultiLineStringCapacity{}, nil
	case KindMultiPolygon:
		return &MultiPolygonCapacity{}, nil
	case KindRect:
		return &RectCapacity{}, nil
	case KindMixed:
		return &MixedCapacity{PreferMulti: preferMulti}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, kind)
}

// coerce presents g as a geometry of kind k. Besides exact matches it
// accepts single-part multis for singular kinds, singular kinds for multis,
// and XY rects for polygon kinds.
func coerce(k geometry.Kind, g geometry.Geometry) (geometry.Geometry, error) {
	out, ok := g, g.Kind() == k
	if !ok {
		switch k {
		case geometry.KindPoint, geometry.KindLineString, geometry.KindPolygon:
			if g.Kind() == geometry.KindRect && k == geometry.KindPolygon {
				if r, isRect := g.(geometry.Rect); isRect {
					out, ok = geometry.RectPolygon(r)
				}
				break
			}
			if g.Kind() == k.Multi() {
				out, ok = geometry.Single(g)
			}
		case geometry.KindMultiPoint, geometry.KindMultiLineString, geometry.KindMultiPolygon:
			if g.Kind().Multi() == k {
				out, ok = geometry.AsMulti(g)
			}
		}
	}
	if ok {
		ok = implements(k, out)
	}
	if !ok {
		return nil, fmt.Errorf("%w: cannot store %s %s in a %s array", ErrTypeMismatch, g.Dim(), g.Kind(), k)
	}
	return out, nil
}

func implements(k geometry.Kind, g geometry.Geometry) bool {
	var ok bool
	switch k {
	case geometry.KindPoint:
		_, ok = g.(geometry.Point)
	case geometry.KindLineString:
		_, ok = g.(geometry.LineString)
	case geometry.KindPolygon:
		_, ok = g.(geometry.Polygon)
	case geometry.KindMultiPoint:
		_, ok = g.(geometry.MultiPoint)
	case geometry.KindMultiLineString:
		_, ok = g.(geometry.MultiLineString)
	case geometry.KindMultiPolygon:
		_, ok = g.(geometry.MultiPolygon)
	case geometry.KindRect:
		_, ok = g.(geometry.Rect)
	}
	return ok
}

// PointCapacity counts rows of a point array.
type PointCapacity struct {
	Geoms int
}

func (c *PointCapacity) AddGeometry(g geometry.Geometry) error {
	if g != nil {
		if _, err := coerce(geometry.KindPoint, g); err != nil {
			return err
		}
	}
	c.Geoms++
	return nil
}

func (c *PointCapacity) AddNull()            { c.Geoms++ }
func (c *PointCapacity) Add(o PointCapacity) { c.Geoms += o.Geoms }

// LineStringCapacity counts rows and coordinates of a linestring array.
type LineStringCapacity struct {
	Coords int
	Geoms  int
}

func lineStringCapacityOf(ls geometry.LineString) LineStringCapacity {
	return LineStringCapacity{Coords: ls.NumCoords(), Geoms: 1}
}

func (c *LineStringCapacity) AddGeometry(g geometry.Geometry) error {
	if g == nil {
		c.Geoms++
		return nil
	}
	ls, err := coerce(geometry.KindLineString, g)
	if err != nil {
		return err
	}
	c.Add(lineStringCapacityOf(ls.(geometry.LineString)))
	return nil
}

func (c *LineStringCapacity) AddNull() { c.Geoms++ }

func (c *LineStringCapacity) Add(o LineStringCapacity) {
	c.Coords += o.Coords
	c.Geoms += o.Geoms
}

func (c LineStringCapacity) fits(used, need LineStringCapacity) bool {
	return used.Coords+need.Coords <= c.Coords && used.Geoms+need.Geoms <= c.Geoms
}

// PolygonCapacity counts rows, rings and coordinates of a polygon array.
type PolygonCapacity struct {
	Coords int
	Rings  int
	Geoms  int
}

func polygonCapacityOf(p geometry.Polygon) PolygonCapacity {
	c := PolygonCapacity{Rings: p.NumRings(), Geoms: 1}
	for i := 0; i < c.Rings; i++ {
		c.Coords += p.RingAt(i).NumCoords()
	}
	return c
}

func (c *PolygonCapacity) AddGeometry(g geometry.Geometry) error {
	if g == nil {
		c.Geoms++
		return nil
	}
	p, err := coerce(geometry.KindPolygon, g)
	if err != nil {
		return err
	}
	c.Add(polygonCapacityOf(p.(geometry.Polygon)))
	return nil
}

func (c *PolygonCapacity) AddNull() { c.Geoms++ }

func (c *PolygonCapacity) Add(o PolygonCapacity) {
	c.Coords += o.Coords
	c.Rings += o.Rings
	c.Geoms += o.Geoms
}

func (c PolygonCapacity) fits(used, need PolygonCapacity) bool {
	return used.Coords+need.Coords <= c.Coords &&
		used.Rings+need.Rings <= c.Rings &&
		used.Geoms+need.Geoms <= c.Geoms
}

// MultiPointCapacity counts rows and points of a multipoint array.
type MultiPointCapacity struct {
	Coords int
	Geoms  int
}

func (c *MultiPointCapacity) AddGeometry(g geometry.Geometry) error {
	if g == nil {
		c.Geoms++
		return nil
	}
	mp, err := coerce(geometry.KindMultiPoint, g)
	if err != nil {
		return err
	}
	c.Coords += mp.(geometry.MultiPoint).NumPoints()
	c.Geoms++
	return nil
}

func (c *MultiPointCapacity) AddNull() { c.Geoms++ }

func (c *MultiPointCapacity) Add(o MultiPointCapacity) {
	c.Coords += o.Coords
	c.Geoms += o.Geoms
}

// MultiLineStringCapacity counts rows, lines and coordinates of a
// multilinestring array.
type MultiLineStringCapacity struct {
	Coords int
	Lines  int
	Geoms  int
}

func multiLineStringCapacityOf(ml geometry.MultiLineString) MultiLineStringCapacity {
	c := MultiLineStringCapacity{Lines: ml.NumLineStrings(), Geoms: 1}
	for i := 0; i < c.Lines; i++ {
		c.Coords += ml.LineStringAt(i).NumCoords()
	}
	return c
}

func (c *MultiLineStringCapacity) AddGeometry(g geometry.Geometry) error {
	if g == nil {
		c.Geoms++
		return nil
	}
	ml, err := coerce(geometry.KindMultiLineString, g)
	if err != nil {
		return err
	}
	c.Add(multiLineStringCapacityOf(ml.(geometry.MultiLineString)))
	return nil
}

func (c *MultiLineStringCapacity) AddNull() { c.Geoms++ }

func (c *MultiLineStringCapacity) Add(o MultiLineStringCapacity) {
	c.Coords += o.Coords
	c.Lines += o.Lines
	c.Geoms += o.Geoms
}

func (c MultiLineStringCapacity) fits(used, need MultiLineStringCapacity) bool {
	return used.Coords+need.Coords <= c.Coords &&
		used.Lines+need.Lines <= c.Lines &&
		used.Geoms+need.Geoms <= c.Geoms
}

// MultiPolygonCapacity counts rows, polygons, rings and coordinates of a
// multipolygon array.
type MultiPolygonCapacity struct {
	Coords   int
	Rings    int
	Polygons int
	Geoms    int
}

func multiPolygonCapacityOf(mp geometry.MultiPolygon) MultiPolygonCapacity {
	c := MultiPolygonCapacity{Polygons: mp.NumPolygons(), Geoms: 1}
	for i := 0; i < c.Polygons; i++ {
		pc := polygonCapacityOf(mp.PolygonAt(i))
		c.Rings += pc.Rings
		c.Coords += pc.Coords
	}
	return c
}

func (c *MultiPolygonCapacity) AddGeometry(g geometry.Geometry) error {
	if g == nil {
		c.Geoms++
		return nil
	}
	mp, err := coerce(geometry.KindMultiPolygon, g)
	if err != nil {
		return err
	}
	c.Add(multiPolygonCapacityOf(mp.(geometry.MultiPolygon)))
	return nil
}

func (c *MultiPolygonCapacity) AddNull() { c.Geoms++ }

func (c *MultiPolygonCapacity) Add(o MultiPolygonCapacity) {
	c.Coords += o.Coords
	c.Rings += o.Rings
	c.Polygons += o.Polygons
	c.Geoms += o.Geoms
}

func (c MultiPolygonCapacity) fits(used, need MultiPolygonCapacity) bool {
	return used.Coords+need.Coords <= c.Coords &&
		used.Rings+need.Rings <= c.Rings &&
		used.Polygons+need.Polygons <= c.Polygons &&
		used.Geoms+need.Geoms <= c.Geoms
}

// RectCapacity counts rows of a rect array.
type RectCapacity struct {
	Geoms int
}

func (c *RectCapacity) AddGeometry(g geometry.Geometry) error {
	if g != nil {
		if _, err := coerce(geometry.KindRect, g); err != nil {
			return err
		}
	}
	c.Geoms++
	return nil
}

func (c *RectCapacity) AddNull()           { c.Geoms++ }
func (c *RectCapacity) Add(o RectCapacity) { c.Geoms += o.Geoms }

// MixedCapacity sums one capacity per child kind. PreferMulti is carried
// into the builder so routing during the survey and the populate phases
// always agrees.
type MixedCapacity struct {
	PreferMulti bool

	Point           PointCapacity
	LineString      LineStringCapacity
	Polygon         PolygonCapacity
	MultiPoint      MultiPointCapacity
	MultiLineString MultiLineStringCapacity
	MultiPolygon    MultiPolygonCapacity

	Geoms int
}

// mixedChild returns the child kind a mixed array stores g in.
func mixedChild(k geometry.Kind, preferMulti bool) (geometry.Kind, error) {
	switch k {
	case geometry.KindPoint, geometry.KindLineString, geometry.KindPolygon:
		if preferMulti {
			return k.Multi(), nil
		}
		return k, nil
	case geometry.KindRect:
		if preferMulti {
			return geometry.KindMultiPolygon, nil
		}
		return geometry.KindPolygon, nil
	case geometry.KindMultiPoint, geometry.KindMultiLineString, geometry.KindMultiPolygon:
		return k, nil
	}
	return geometry.KindUnknown, fmt.Errorf("%w: %s in a mixed array", ErrUnsupportedGeometryType, k)
}

func (c *MixedCapacity) child(k geometry.Kind) Capacity {
	switch k {
	case geometry.KindPoint:
		return &c.Point
	case geometry.KindLineString:
		return &c.LineString
	case geometry.KindPolygon:
		return &c.Polygon
	case geometry.KindMultiPoint:
		return &c.MultiPoint
	case geometry.KindMultiLineString:
		return &c.MultiLineString
	case geometry.KindMultiPolygon:
		return &c.MultiPolygon
	}
	return nil
}

func (c *MixedCapacity) AddGeometry(g geometry.Geometry) error {
	if g == nil {
		c.AddNull()
		return nil
	}
	k, err := mixedChild(g.Kind(), c.PreferMulti)
	if err != nil {
		return err
	}
	if err := c.child(k).AddGeometry(g); err != nil {
		return err
	}
	c.Geoms++
	return nil
}

// AddNull reserves a null row in the point child, or the multipoint child
// when PreferMulti is set.
func (c *MixedCapacity) AddNull() {
	c.Geoms++
	if c.PreferMulti {
		c.MultiPoint.AddNull()
		return
	}
	c.Point.AddNull()
}

func (c *MixedCapacity) Add(o MixedCapacity) {
	c.Point.Add(o.Point)
	c.LineString.Add(o.LineString)
	c.Polygon.Add(o.Polygon)
	c.MultiPoint.Add(o.MultiPoint)
	c.MultiLineString.Add(o.MultiLineString)
	c.MultiPolygon.Add(o.MultiPolygon)
	c.Geoms += o.Geoms
}

// maxEntries bounds every count a capacity reserves. Offsets and child
// indexes are int32.
const maxEntries = math.MaxInt32

// checkEntries reports counts that cannot be addressed by int32 offsets.
func checkEntries(level string, n int) error {
	if n < 0 || n > maxEntries {
		return fmt.Errorf("%w: %d %s entries do not fit int32 offsets", ErrInvalidOffsets, n, level)
	}
	return nil
}

func (c PointCapacity) validate() error { return checkEntries("geometry", c.Geoms) }
func (c RectCapacity) validate() error  { return checkEntries("geometry", c.Geoms) }

func (c LineStringCapacity) validate() error {
	return errors.Join(checkEntries("coordinate", c.Coords), checkEntries("geometry", c.Geoms))
}

func (c PolygonCapacity) validate() error {
	return errors.Join(checkEntries("coordinate", c.Coords), checkEntries("ring", c.Rings), checkEntries("geometry", c.Geoms))
}

func (c MultiPointCapacity) validate() error {
	return errors.Join(checkEntries("coordinate", c.Coords), checkEntries("geometry", c.Geoms))
}

func (c MultiLineStringCapacity) validate() error {
	return errors.Join(checkEntries("coordinate", c.Coords), checkEntries("line", c.Lines), checkEntries("geometry", c.Geoms))
}

func (c MultiPolygonCapacity) validate() error {
	return errors.Join(
		checkEntries("coordinate", c.Coords),
		checkEntries("ring", c.Rings),
		checkEntries("polygon", c.Polygons),
		checkEntries("geometry", c.Geoms),
	)
}

func (c MixedCapacity) validate() error {
	return errors.Join(
		checkEntries("geometry", c.Geoms),
		c.Point.validate(),
		c.LineString.validate(),
		c.Polygon.validate(),
		c.MultiPoint.validate(),
		c.MultiLineString.validate(),
		c.MultiPolygon.validate(),
	)
}
