// Package table assembles a fixed, ordered chain of typed data blocks into one
// contiguous buffer for upload to a GPU storage buffer.
//
// The buffer is a header of one u32 word offset per block, followed by the raw bytes
// of every block in append order:
//
//	+----------------------+  word 0
//	| header[0..N)         |  offset of block i, in 4-byte words from buffer start
//	+----------------------+  word N
//	| block 0 bytes        |
//	+----------------------+
//	| block 1 bytes        |
//	+----------------------+
//	| ...                  |
//	+----------------------+
//
// All integers are in host byte order. A chain is built by appending blocks onto
// Empty; each Append wraps the previous table as the tail of a new Node, so the chain
// shape (and therefore its block count) is part of its static type:
//
//	t := table.Append(table.Append(table.Empty{}, table.Slice(ids)), table.Slice(weights))
//	buf := make([]byte, t.ByteSize())
//	_, err := t.WriteTo(table.NewSliceWriter(buf))
//
// Header and data are streamed straight into the destination in a single pass;
// nothing is buffered and no per-block allocation is made.
package table

import (
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/Carmen-Shannon/gputable/common"
)

// Block is one unit of serialized data with a known byte size.
//
// A Block may be written at most once; WriteTo consumes it.
type Block interface {
	// ByteSize returns the number of bytes WriteTo will produce.
	// It must not change between Append and WriteTo.
	//
	// Returns:
	//   - int: the serialized size in bytes
	ByteSize() int

	// WriteTo writes exactly ByteSize bytes into w and consumes the block.
	// Destination errors are returned as-is (wrapped); on failure w may hold a
	// partial write.
	//
	// Parameters:
	//   - w: the destination
	//
	// Returns:
	//   - int64: number of bytes written
	//   - error: the destination error, or ErrConsumed on a second call
	WriteTo(w io.Writer) (int64, error)
}

// Table is a Block made of an ordered chain of Blocks. Its WriteTo emits the header
// followed by the data section.
//
// Empty and Node are the only implementations; Append is the only way to grow one.
type Table interface {
	Block

	// BlockCount returns the number of blocks in the chain. It depends only on the
	// chain shape, so it is valid on a zero value of a concrete chain type.
	//
	// Returns:
	//   - int: the number of Append calls used to build the chain
	BlockCount() int

	// DataByteSize returns the summed size of every block, header excluded.
	//
	// Returns:
	//   - int: the data section size in bytes
	DataByteSize() int

	// WriteHeader writes BlockCount header words in append order without consuming
	// the table. Each word is the block's offset from the buffer start in words,
	// where dataOffset is the byte offset at which the data section begins.
	//
	// Parameters:
	//   - dataOffset: byte offset of the data section (the header size)
	//   - w: the destination
	//
	// Returns:
	//   - int64: number of bytes written
	//   - error: the destination error, if any
	WriteHeader(dataOffset int, w io.Writer) (int64, error)

	// WriteData writes every block's bytes in append order, consuming the table.
	//
	// Parameters:
	//   - w: the destination
	//
	// Returns:
	//   - int64: number of bytes written
	//   - error: the first destination error, if any
	WriteData(w io.Writer) (int64, error)

	// BlockSizes yields (index, byte size) for every block in append order.
	//
	// Returns:
	//   - iter.Seq2[int, int]: the block sizes
	BlockSizes() iter.Seq2[int, int]

	// Consumed reports whether any block in the chain has already been written.
	//
	// Returns:
	//   - bool: true if WriteTo or WriteData has run on any part of the chain
	Consumed() bool
}

// Empty is the table with no blocks. It is the only starting point for a chain and
// the base case every Node recursion ends on.
type Empty struct{}

var _ Table = Empty{}

// ByteSize of Empty is always zero.
func (Empty) ByteSize() int { return 0 }

// WriteTo writes nothing.
func (Empty) WriteTo(io.Writer) (int64, error) { return 0, nil }

// BlockCount of Empty is always zero.
func (Empty) BlockCount() int { return 0 }

// DataByteSize of Empty is always zero.
func (Empty) DataByteSize() int { return 0 }

// WriteHeader writes nothing.
func (Empty) WriteHeader(int, io.Writer) (int64, error) { return 0, nil }

// WriteData writes nothing.
func (Empty) WriteData(io.Writer) (int64, error) { return 0, nil }

// BlockSizes yields nothing.
func (Empty) BlockSizes() iter.Seq2[int, int] { return func(func(int, int) bool) {} }

// Consumed is always false; there is nothing to consume.
func (Empty) Consumed() bool { return false }

// Node is a table built by putting one block (the head, most recently appended) on top
// of an existing table (the tail, everything appended before it). The node owns both.
//
// Every recursive operation visits the tail first, which restores append order in
// the output even though the newest block sits outermost.
type Node[H Block, T Table] struct {
	head H
	tail T
}

// Append returns a table holding every block of t followed by b. Nothing is written;
// t and b are moved into the new node and must not be used on their own afterwards.
//
// Parameters:
//   - t: the table to extend (Empty for the first block)
//   - b: the block to place on top
//
// Returns:
//   - Node[B, T]: the extended table
func Append[T Table, B Block](t T, b B) Node[B, T] {
	return Node[B, T]{head: b, tail: t}
}

// Count returns the block count of the table type T without needing a value. The
// result is exact for fully concrete chains such as Node[B2, Node[B1, Empty]]. A
// chain whose tail is the Table interface only knows its depth at run time, so the
// unset tail of the zero value counts as Empty.
//
// Returns:
//   - int: the number of blocks in any table of type T
func Count[T Table]() int {
	var t T
	return t.BlockCount()
}

// HeaderByteSize returns the size in bytes of the header of t.
//
// Parameters:
//   - t: the table
//
// Returns:
//   - int: common.WordBytes per block
func HeaderByteSize(t Table) int {
	return common.WordBytes * t.BlockCount()
}

// Head returns the most recently appended block.
func (n Node[H, T]) Head() H { return n.head }

// Tail returns the table the head was appended onto.
func (n Node[H, T]) Tail() T { return n.tail }

// BlockCount is the tail's count plus one. For concrete tails only the chain shape
// is involved, so a zero Node reports the same count as a populated one.
func (n Node[H, T]) BlockCount() int {
	if t, ok := any(&n.tail).(*Table); ok && *t == nil {
		return 1
	}
	return n.tail.BlockCount() + 1
}

// DataByteSize is the tail's data size plus the head's size.
func (n Node[H, T]) DataByteSize() int {
	return n.tail.DataByteSize() + n.head.ByteSize()
}

// ByteSize is the full buffer size: header plus data.
func (n Node[H, T]) ByteSize() int {
	return common.WordBytes*n.BlockCount() + n.DataByteSize()
}

// WriteHeader emits the tail's header words, then the head's word:
// (dataOffset + tail.DataByteSize()) / WordBytes. The division floors, so after a
// block that is not a whole number of words the later offsets point below the real
// block start; use CheckAlignment to reject such chains up front. Offsets must fit a
// uint32 word, which caps the data section at 16 GiB.
func (n Node[H, T]) WriteHeader(dataOffset int, w io.Writer) (int64, error) {
	ww := asWordWriter(w)
	written, err := n.tail.WriteHeader(dataOffset, ww)
	if err != nil {
		return written, err
	}
	offset := (dataOffset + n.tail.DataByteSize()) / common.WordBytes
	if uint64(offset) > math.MaxUint32 {
		return written, fmt.Errorf("%w: header entry %d is word %d", ErrTooLarge, n.tail.BlockCount(), offset)
	}
	m, err := ww.writeWord(uint32(offset))
	written += m
	if err != nil {
		return written, fmt.Errorf("write header entry %d: %w", n.tail.BlockCount(), err)
	}
	return written, nil
}

// WriteData writes the tail's blocks, then the head.
func (n Node[H, T]) WriteData(w io.Writer) (int64, error) {
	written, err := n.tail.WriteData(w)
	if err != nil {
		return written, err
	}
	m, err := n.head.WriteTo(w)
	return written + m, err
}

// WriteTo writes the header followed by the data section. If any block of the chain
// was already written it returns ErrConsumed before touching w.
func (n Node[H, T]) WriteTo(w io.Writer) (int64, error) {
	if n.Consumed() {
		return 0, ErrConsumed
	}
	written, err := n.WriteHeader(common.WordBytes*n.BlockCount(), w)
	if err != nil {
		return written, err
	}
	m, err := n.WriteData(w)
	return written + m, err
}

// BlockSizes yields the tail's sizes, then the head's.
func (n Node[H, T]) BlockSizes() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i, size := range n.tail.BlockSizes() {
			if !yield(i, size) {
				return
			}
		}
		yield(n.tail.BlockCount(), n.head.ByteSize())
	}
}

// Consumed reports whether the head or anything in the tail has been written.
// Blocks that do not track consumption are assumed unwritten.
func (n Node[H, T]) Consumed() bool {
	if n.tail.Consumed() {
		return true
	}
	c, ok := any(n.head).(interface{ Consumed() bool })
	return ok && c.Consumed()
}

// wordWriter wraps the destination for one header pass. The outermost node
// allocates it and every tail reuses it, so a header of any length costs one
// allocation and one staging array.
type wordWriter struct {
	w    io.Writer
	word [common.WordBytes]byte
}

func asWordWriter(w io.Writer) *wordWriter {
	if ww, ok := w.(*wordWriter); ok {
		return ww
	}
	return &wordWriter{w: w}
}

func (ww *wordWriter) Write(p []byte) (int, error) {
	return ww.w.Write(p)
}

func (ww *wordWriter) writeWord(v uint32) (int64, error) {
	common.NativeEndian.PutUint32(ww.word[:], v)
	n, err := ww.w.Write(ww.word[:])
	return int64(n), err
}
