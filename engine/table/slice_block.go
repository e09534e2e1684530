package table

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/gputable/common"
)

// SliceBlock is a Block over a contiguous typed slice. The slice's memory is already
// the desired byte layout, so writing it is a single bulk copy.
type SliceBlock[T any] struct {
	data     []T
	consumed bool
}

// Slice wraps a slice of scalars as a Block. The slice is not copied; it must not be
// resized or modified until the block is written.
//
// Parameters:
//   - data: the values to upload
//
// Returns:
//   - *SliceBlock[T]: the block
func Slice[T common.Scalar](data []T) *SliceBlock[T] {
	return &SliceBlock[T]{data: data}
}

// StructSlice wraps a slice of plain structs as a Block after checking that T has a
// flat layout.
//
// Parameters:
//   - data: the values to upload
//
// Returns:
//   - *SliceBlock[T]: the block
//   - error: an error wrapping common.ErrNotPlain if T has pointers or padding
func StructSlice[T common.Plain](data []T) (*SliceBlock[T], error) {
	if err := common.CheckPlain[T](); err != nil {
		return nil, err
	}
	return &SliceBlock[T]{data: data}, nil
}

// Len returns the number of elements in the block.
func (b *SliceBlock[T]) Len() int { return len(b.data) }

// ByteSize is the element stride times the element count.
func (b *SliceBlock[T]) ByteSize() int {
	return common.SizeOf[T]() * len(b.data)
}

// WriteTo copies the slice's bytes into w in one Write call.
func (b *SliceBlock[T]) WriteTo(w io.Writer) (int64, error) {
	if b.consumed {
		return 0, ErrConsumed
	}
	b.consumed = true
	if len(b.data) == 0 {
		return 0, nil
	}
	n, err := w.Write(common.SliceToBytes(b.data))
	if err != nil {
		return int64(n), fmt.Errorf("write %d byte slice block: %w", b.ByteSize(), err)
	}
	return int64(n), nil
}

// Consumed reports whether the block has been written.
func (b *SliceBlock[T]) Consumed() bool { return b.consumed }
