package table

import (
	"fmt"

	"github.com/Carmen-Shannon/gputable/common"
)

// Bytes writes t into a freshly allocated buffer of exactly t.ByteSize() bytes.
//
// Parameters:
//   - t: the table to write; it is consumed
//
// Returns:
//   - []byte: the assembled buffer
//   - error: any write error
func Bytes(t Table) ([]byte, error) {
	buf := make([]byte, t.ByteSize())
	if _, err := t.WriteTo(NewSliceWriter(buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// CheckAlignment reports the first block of t whose size is not a whole number of
// header words. Such a block makes every later header offset floor to the word below
// its real start. The write path never checks this; call it where misaligned element
// types are possible.
//
// Parameters:
//   - t: the table to check
//
// Returns:
//   - error: nil, or an error wrapping ErrUnaligned naming the block
func CheckAlignment(t Table) error {
	for i, size := range t.BlockSizes() {
		if size%common.WordBytes != 0 {
			return fmt.Errorf("%w: block %d is %d bytes", ErrUnaligned, i, size)
		}
	}
	return nil
}

// ReadHeader decodes the n header words at the start of buf.
//
// Parameters:
//   - buf: an assembled buffer
//   - n: the block count the buffer was built with
//
// Returns:
//   - []uint32: the word offset of each block
//   - error: ErrOutOfRange if buf is shorter than the header
func ReadHeader(buf []byte, n int) ([]uint32, error) {
	if n < 0 || len(buf) < n*common.WordBytes {
		return nil, fmt.Errorf("%w: %d byte buffer cannot hold %d header words", ErrOutOfRange, len(buf), n)
	}
	header := make([]uint32, n)
	for i := range header {
		header[i] = common.NativeEndian.Uint32(buf[i*common.WordBytes:])
	}
	return header, nil
}

// BlockRange returns the byte range of block i in buf. A block ends where the next
// block starts; the last block ends at the end of buf.
//
// Parameters:
//   - buf: an assembled buffer
//   - n: the block count the buffer was built with
//   - i: the block index
//
// Returns:
//   - int: start offset in bytes
//   - int: end offset in bytes (exclusive)
//   - error: ErrOutOfRange if i or the stored offsets fall outside buf
func BlockRange(buf []byte, n, i int) (int, int, error) {
	if i < 0 || i >= n {
		return 0, 0, fmt.Errorf("%w: block %d of %d", ErrOutOfRange, i, n)
	}
	header, err := ReadHeader(buf, n)
	if err != nil {
		return 0, 0, err
	}
	start := int(header[i]) * common.WordBytes
	end := len(buf)
	if i+1 < n {
		end = int(header[i+1]) * common.WordBytes
	}
	if start < n*common.WordBytes || start > end || end > len(buf) {
		return 0, 0, fmt.Errorf("%w: block %d spans [%d, %d) in %d bytes", ErrOutOfRange, i, start, end, len(buf))
	}
	return start, end, nil
}

// Decode copies block i of buf out as a []T, the way a shader would index it.
// Trailing bytes that do not fill a whole T are ignored.
//
// Parameters:
//   - buf: an assembled buffer
//   - n: the block count the buffer was built with
//   - i: the block index
//
// Returns:
//   - []T: the decoded values
//   - error: ErrOutOfRange if the block cannot be located, common.ErrNotPlain if
//     T has no size
func Decode[T any](buf []byte, n, i int) ([]T, error) {
	size := common.SizeOf[T]()
	if size == 0 {
		return nil, fmt.Errorf("%w: cannot decode zero-size %T", common.ErrNotPlain, *new(T))
	}
	start, end, err := BlockRange(buf, n, i)
	if err != nil {
		return nil, err
	}
	out := make([]T, (end-start)/size)
	copy(common.SliceToBytes(out), buf[start:end])
	return out, nil
}
