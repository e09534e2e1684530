package table

import (
	"fmt"
	"io"
	"iter"

	"github.com/Carmen-Shannon/gputable/common"
	"github.com/colega/zeropool"
)

// seqChunkBytes is the staging size used to batch sequence values into Write calls.
const seqChunkBytes = 16 << 10

var seqScratchPool zeropool.Pool[[]byte]

// SeqBlock is a Block over a finite sequence of values that need not be contiguous in
// memory, such as values computed on the fly. Its size is learned up front by
// traversing the sequence once; WriteTo traverses it a second time.
type SeqBlock[T any] struct {
	seq      iter.Seq[T]
	count    int
	consumed bool
}

// Seq wraps a sequence of scalars as a Block. The sequence is ranged over once
// immediately to count its values, so it must be re-traversable and must yield the
// same values again when the block is written.
//
// Parameters:
//   - seq: the values to upload
//
// Returns:
//   - *SeqBlock[T]: the block
func Seq[T common.Scalar](seq iter.Seq[T]) *SeqBlock[T] {
	return newSeqBlock(seq)
}

// StructSeq wraps a sequence of plain structs as a Block after checking that T has a
// flat layout. See Seq for the traversal requirements.
//
// Parameters:
//   - seq: the values to upload
//
// Returns:
//   - *SeqBlock[T]: the block
//   - error: an error wrapping common.ErrNotPlain if T has pointers or padding
func StructSeq[T common.Plain](seq iter.Seq[T]) (*SeqBlock[T], error) {
	if err := common.CheckPlain[T](); err != nil {
		return nil, err
	}
	return newSeqBlock(seq), nil
}

func newSeqBlock[T any](seq iter.Seq[T]) *SeqBlock[T] {
	count := 0
	for range seq {
		count++
	}
	return &SeqBlock[T]{seq: seq, count: count}
}

// Len returns the number of values counted at construction.
func (b *SeqBlock[T]) Len() int { return b.count }

// ByteSize is the element stride times the counted length.
func (b *SeqBlock[T]) ByteSize() int {
	return common.SizeOf[T]() * b.count
}

// WriteTo ranges over the sequence and writes each value's bytes in turn. Values are
// staged in a pooled chunk so w sees a few large writes instead of one per value.
// If the sequence yields a different number of values than it did at construction,
// the bytes are still written and ErrSizeMismatch is returned.
func (b *SeqBlock[T]) WriteTo(w io.Writer) (int64, error) {
	if b.consumed {
		return 0, ErrConsumed
	}
	b.consumed = true

	stride := common.SizeOf[T]()
	chunk := seqScratchPool.Get()
	if cap(chunk) < max(seqChunkBytes, stride) {
		chunk = make([]byte, 0, max(seqChunkBytes, stride))
	}
	buf := chunk[:0]
	defer func() { seqScratchPool.Put(buf[:0]) }()

	var written int64
	flush := func() error {
		n, err := w.Write(buf)
		written += int64(n)
		buf = buf[:0]
		return err
	}

	var produced int
	var err error
	for v := range b.seq {
		if len(buf)+stride > cap(buf) {
			if err = flush(); err != nil {
				break
			}
		}
		buf = append(buf, common.StructToBytes(&v)...)
		produced++
	}
	if err == nil && len(buf) > 0 {
		err = flush()
	}
	if err != nil {
		return written, fmt.Errorf("write %d byte sequence block: %w", b.ByteSize(), err)
	}
	if produced != b.count {
		return written, fmt.Errorf("%w: sequence yielded %d values, counted %d", ErrSizeMismatch, produced, b.count)
	}
	return written, nil
}

// Consumed reports whether the block has been written.
func (b *SeqBlock[T]) Consumed() bool { return b.consumed }
