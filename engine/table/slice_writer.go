package table

import "io"

// SliceWriter is a fixed-capacity destination over a caller-owned byte slice, such
// as a mapped GPU staging range. Writes past the end copy what fits and fail with
// io.ErrShortBuffer.
type SliceWriter struct {
	buf []byte
	off int
}

var _ io.Writer = &SliceWriter{}

// NewSliceWriter creates a SliceWriter that fills buf from the start.
//
// Parameters:
//   - buf: the destination region
//
// Returns:
//   - *SliceWriter: the writer
func NewSliceWriter(buf []byte) *SliceWriter {
	return &SliceWriter{buf: buf}
}

// Write copies p at the current position and advances it.
func (s *SliceWriter) Write(p []byte) (int, error) {
	n := copy(s.buf[s.off:], p)
	s.off += n
	if n < len(p) {
		return n, io.ErrShortBuffer
	}
	return n, nil
}

// Len returns the number of bytes written so far.
func (s *SliceWriter) Len() int { return s.off }

// Available returns the number of bytes left before the writer is full.
func (s *SliceWriter) Available() int { return len(s.buf) - s.off }

// Bytes returns the written prefix of the destination.
func (s *SliceWriter) Bytes() []byte { return s.buf[:s.off] }

// Reset rewinds the writer to the start of the destination.
func (s *SliceWriter) Reset() { s.off = 0 }
