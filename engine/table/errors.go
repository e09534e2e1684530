package table

import "errors"

var (
	// ErrConsumed is returned when a block or table is written a second time.
	ErrConsumed = errors.New("table: block already written")

	// ErrSizeMismatch is returned when a block writes a different number of bytes
	// than the size it reported when it was appended.
	ErrSizeMismatch = errors.New("table: block size changed after append")

	// ErrUnaligned is returned by CheckAlignment when a block size is not a whole
	// number of header words.
	ErrUnaligned = errors.New("table: block size is not word aligned")

	// ErrOutOfRange is returned by the layout readers when a buffer is too small for
	// the header it claims, or a block index or offset falls outside it.
	ErrOutOfRange = errors.New("table: offset out of range")

	// ErrTooLarge is returned when a block offset does not fit in a u32 header word.
	ErrTooLarge = errors.New("table: offset exceeds header word")
)
