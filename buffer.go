package geoarrow

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Allocation helpers. Each buffer is requested from the allocator exactly
// once; Go-allocated memory comes back zeroed and 64-byte aligned.

func allocFloat64(mem memory.Allocator, n int) []float64 {
	if n == 0 {
		return nil
	}
	return arrow.Float64Traits.CastFromBytes(mem.Allocate(n * arrow.Float64SizeBytes))
}

func allocInt32(mem memory.Allocator, n int) []int32 {
	if n == 0 {
		return nil
	}
	return arrow.Int32Traits.CastFromBytes(mem.Allocate(n * arrow.Int32SizeBytes))
}

// newOffsets allocates an offset buffer for n elements with its leading
// zero in place.
func newOffsets(mem memory.Allocator, n int) []int32 {
	offs := allocInt32(mem, n+1)
	offs[0] = 0
	return offs
}

func allocInt8(mem memory.Allocator, n int) []int8 {
	if n == 0 {
		return nil
	}
	return arrow.Int8Traits.CastFromBytes(mem.Allocate(n))
}

// Bitmap is a validity bitmap in Arrow bit order. A nil bitmap marks every
// row valid.
type Bitmap struct {
	bits   []byte
	offset int
	length int
}

// NewBitmap wraps Arrow validity bits for length rows starting at bit offset.
func NewBitmap(bits []byte, offset, length int) Bitmap {
	return Bitmap{bits: bits, offset: offset, length: length}
}

// Len returns the number of rows covered.
func (b Bitmap) Len() int { return b.length }

// IsValid reports whether row i is non-null.
func (b Bitmap) IsValid(i int) bool {
	return b.bits == nil || bitutil.BitIsSet(b.bits, b.offset+i)
}

// NullN returns the number of clear bits.
func (b Bitmap) NullN() int {
	if b.bits == nil {
		return 0
	}
	return b.length - bitutil.CountSetBits(b.bits, b.offset, b.length)
}

func (b Bitmap) slice(offset, length int) Bitmap {
	return Bitmap{bits: b.bits, offset: b.offset + offset, length: length}
}

// Bytes returns the bits with row 0 at bit 0, copying only when the bitmap
// starts mid-byte. Nil means all valid.
func (b Bitmap) Bytes() []byte {
	if b.bits == nil || b.NullN() == 0 {
		return nil
	}
	n := int(bitutil.BytesForBits(int64(b.length)))
	if b.offset%8 == 0 {
		return b.bits[b.offset/8 : b.offset/8+n]
	}
	out := make([]byte, n)
	bitutil.CopyBitmap(b.bits, b.offset, b.length, out, 0)
	return out
}

type validityBuilder struct {
	bits  []byte
	n     int
	nulls int
}

func newValidityBuilder(mem memory.Allocator, capacity int) validityBuilder {
	var bits []byte
	if capacity > 0 {
		bits = mem.Allocate(int(bitutil.BytesForBits(int64(capacity))))
		clear(bits)
	}
	return validityBuilder{bits: bits}
}

func (v *validityBuilder) append(valid bool) {
	if valid {
		bitutil.SetBit(v.bits, v.n)
	} else {
		v.nulls++
	}
	v.n++
}

func (v *validityBuilder) finish() Bitmap {
	if v.nulls == 0 {
		return Bitmap{length: v.n}
	}
	return Bitmap{bits: v.bits, length: v.n}
}

// validateOffsets checks that offs starts at zero, never decreases and
// ends at want.
func validateOffsets(level string, offs []int32, want int) error {
	if len(offs) == 0 {
		return fmt.Errorf("%w: %s offsets are empty", ErrInvalidOffsets, level)
	}
	if offs[0] != 0 {
		return fmt.Errorf("%w: %s offsets start at %d", ErrInvalidOffsets, level, offs[0])
	}
	for i := 1; i < len(offs); i++ {
		if offs[i] < offs[i-1] {
			return fmt.Errorf("%w: %s offsets decrease at %d (%d < %d)", ErrInvalidOffsets, level, i, offs[i], offs[i-1])
		}
	}
	if last := int(offs[len(offs)-1]); last != want {
		return fmt.Errorf("%w: %s offsets end at %d, want %d", ErrInvalidOffsets, level, last, want)
	}
	return nil
}

func checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Errorf("%w: index %d with length %d", ErrIndexOutOfRange, i, n))
	}
}

func checkSlice(offset, length, n int) {
	if offset < 0 || length < 0 || offset+length > n {
		panic(fmt.Errorf("%w: slice [%d:%d] with length %d", ErrIndexOutOfRange, offset, offset+length, n))
	}
}
