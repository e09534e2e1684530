package table

import (
	"bytes"
	"iter"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/gputable/common"
	"github.com/stretchr/testify/require"
)

type texel struct {
	RGBA  [4]uint8
	Depth float32
}

func (texel) PlainData() {}

type padded struct {
	Flag  uint8
	Value uint32
}

func (padded) PlainData() {}

type withPointer struct {
	Next *withPointer
}

func (withPointer) PlainData() {}

func TestSliceBlock(t *testing.T) {
	b := Slice([]int32{-1, 2, -3})
	require.Equal(t, 3, b.Len())
	require.Equal(t, 12, b.ByteSize())

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(12), n)
	require.Equal(t, common.SliceToBytes([]int32{-1, 2, -3}), buf.Bytes())
	require.True(t, b.Consumed())

	empty := Slice([]float32(nil))
	n, err = empty.WriteTo(&buf)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestStructSlice(t *testing.T) {
	texels := []texel{{RGBA: [4]uint8{1, 2, 3, 4}, Depth: 0.5}, {RGBA: [4]uint8{5, 6, 7, 8}, Depth: 1}}
	b, err := StructSlice(texels)
	require.NoError(t, err)
	require.Equal(t, 16, b.ByteSize())

	buf, err := Bytes(Append(Empty{}, b))
	require.NoError(t, err)
	got, err := Decode[texel](buf, 1, 0)
	require.NoError(t, err)
	require.Equal(t, texels, got)

	_, err = StructSlice([]padded{{}})
	require.ErrorIs(t, err, common.ErrNotPlain)

	_, err = StructSeq(slices.Values([]withPointer{{}}))
	require.ErrorIs(t, err, common.ErrNotPlain)
}

func TestSeqBlockCountsOnce(t *testing.T) {
	traversals := 0
	seq := func(yield func(uint16) bool) {
		traversals++
		for i := range uint16(3) {
			if !yield(i) {
				return
			}
		}
	}
	b := Seq(iter.Seq[uint16](seq))
	require.Equal(t, 1, traversals)
	require.Equal(t, 3, b.Len())
	require.Equal(t, 6, b.ByteSize())

	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, traversals)
	require.Equal(t, common.SliceToBytes([]uint16{0, 1, 2}), buf.Bytes())

	_, err = b.WriteTo(&buf)
	require.ErrorIs(t, err, ErrConsumed)
	require.Equal(t, 2, traversals)
}

func TestSeqBlockLargerThanChunk(t *testing.T) {
	values := make([]uint32, 3*seqChunkBytes/4+5)
	for i := range values {
		values[i] = uint32(i * 7)
	}
	b := Seq(slices.Values(values))

	counter := &countingWriter{}
	n, err := b.WriteTo(counter)
	require.NoError(t, err)
	require.Equal(t, int64(len(values)*4), n)
	require.Equal(t, common.SliceToBytes(values), counter.buf.Bytes())
	require.Greater(t, counter.writes, 1)
}

func TestStructSeqMatchesStructSlice(t *testing.T) {
	texels := []texel{{Depth: 1}, {RGBA: [4]uint8{9, 9, 9, 9}}, {Depth: -2}}
	fromSlice, err := StructSlice(texels)
	require.NoError(t, err)
	fromSeq, err := StructSeq(slices.Values(texels))
	require.NoError(t, err)
	require.Equal(t, fromSlice.ByteSize(), fromSeq.ByteSize())

	var a, b bytes.Buffer
	_, err = fromSlice.WriteTo(&a)
	require.NoError(t, err)
	_, err = fromSeq.WriteTo(&b)
	require.NoError(t, err)
	require.Equal(t, a.Bytes(), b.Bytes())
}

func TestSeqBlockSizeMismatch(t *testing.T) {
	n := 2
	seq := func(yield func(float32) bool) {
		for range n {
			if !yield(1) {
				return
			}
		}
	}
	b := Seq(iter.Seq[float32](seq))
	require.Equal(t, 8, b.ByteSize())

	n = 3
	var buf bytes.Buffer
	written, err := b.WriteTo(&buf)
	require.ErrorIs(t, err, ErrSizeMismatch)
	require.Equal(t, int64(12), written)
}

type countingWriter struct {
	buf    bytes.Buffer
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes++
	return c.buf.Write(p)
}

func TestSliceWriter(t *testing.T) {
	dst := make([]byte, 6)
	w := NewSliceWriter(dst)
	n, err := w.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 2, w.Available())

	n, err = w.Write([]byte{5, 6, 7})
	require.Error(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, w.Bytes())

	w.Reset()
	require.Zero(t, w.Len())
}

func TestReadHeaderShortBuffer(t *testing.T) {
	_, err := ReadHeader(make([]byte, 7), 2)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, _, err = BlockRange(make([]byte, 8), 2, -1)
	require.ErrorIs(t, err, ErrOutOfRange)

	corrupt := make([]byte, 12)
	common.NativeEndian.PutUint32(corrupt[0:], 2)
	common.NativeEndian.PutUint32(corrupt[4:], 9)
	_, _, err = BlockRange(corrupt, 2, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
}
