// Package wkb reads and writes the Well-Known Binary geometry encoding.
//
// Parse validates a buffer once and returns geometry views that decode
// ordinates from the original bytes on demand, so a WKB value can be handed
// to an array builder like any other geometry source. The writer always
// emits little-endian ISO WKB (1000/2000/3000 type code offsets for Z, M and
// ZM).
package wkb

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tingold/orb-geoarrow/geometry"
)

// Errors returned by the codec.
var (
	ErrUnsupportedGeometryType = errors.New("wkb: unsupported geometry type")
	ErrUnexpectedEndOfBuffer   = errors.New("wkb: unexpected end of buffer")
	ErrInvalidByteOrder        = errors.New("wkb: invalid byte order")
	ErrMixedDimensions         = errors.New("wkb: nested geometry dimension differs from its parent")
	ErrEmptyPoint              = errors.New("wkb: empty point cannot be encoded")
)

const (
	bigEndian    byte = 0
	littleEndian byte = 1

	headerSize = 1 + 4
	countSize  = 4

	ewkbZ    uint32 = 0x80000000
	ewkbM    uint32 = 0x40000000
	ewkbSRID uint32 = 0x20000000
)

// Header is the decoded prefix of a WKB value.
type Header struct {
	Kind geometry.Kind
	Dim  geometry.Dimension
	SRID int32 // only set for EWKB input carrying an SRID
}

// TypeCode returns the ISO WKB type code for kind k with dimension d.
func TypeCode(k geometry.Kind, d geometry.Dimension) uint32 {
	return uint32(k) + 1000*uint32(d)
}

// PeekHeader decodes the byte order and type code at the start of buf
// without validating the payload.
func PeekHeader(buf []byte) (Header, error) {
	h, _, _, err := readHeader(buf, 0)
	return h, err
}

// readHeader decodes the header at off and returns the payload offset.
func readHeader(buf []byte, off int) (Header, binary.ByteOrder, int, error) {
	var h Header
	if len(buf)-off < headerSize {
		return h, nil, 0, fmt.Errorf("%w: header at byte %d", ErrUnexpectedEndOfBuffer, off)
	}

	var order binary.ByteOrder
	switch buf[off] {
	case littleEndian:
		order = binary.LittleEndian
	case bigEndian:
		order = binary.BigEndian
	default:
		return h, nil, 0, fmt.Errorf("%w: 0x%02x at byte %d", ErrInvalidByteOrder, buf[off], off)
	}

	code := order.Uint32(buf[off+1:])
	off += headerSize

	// EWKB flags take precedence over the ISO thousands offset.
	hasZ := code&ewkbZ != 0
	hasM := code&ewkbM != 0
	if code&ewkbSRID != 0 {
		if len(buf)-off < 4 {
			return h, nil, 0, fmt.Errorf("%w: srid at byte %d", ErrUnexpectedEndOfBuffer, off)
		}
		h.SRID = int32(order.Uint32(buf[off:]))
		off += 4
	}
	base := code &^ (ewkbZ | ewkbM | ewkbSRID)

	switch base / 1000 {
	case 0:
	case 1:
		hasZ = true
	case 2:
		hasM = true
	case 3:
		hasZ, hasM = true, true
	default:
		return h, nil, 0, fmt.Errorf("%w: type code %d", ErrUnsupportedGeometryType, code)
	}

	kind := base % 1000
	if kind < uint32(geometry.KindPoint) || kind > uint32(geometry.KindGeometryCollection) {
		return h, nil, 0, fmt.Errorf("%w: type code %d", ErrUnsupportedGeometryType, code)
	}
	h.Kind = geometry.Kind(kind)

	switch {
	case hasZ && hasM:
		h.Dim = geometry.XYZM
	case hasZ:
		h.Dim = geometry.XYZ
	case hasM:
		h.Dim = geometry.XYM
	default:
		h.Dim = geometry.XY
	}
	return h, order, off, nil
}
